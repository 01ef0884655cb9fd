package apis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/thiefmaster/eventsource"

	"github.com/thiefmaster/lightbox/comm"
)

const resubscribeDelay = 1 * time.Second

// SubscribeEventStream forwards the data of every server-sent event at
// credentials.URL as one command message, resubscribing until ctx is done.
func SubscribeEventStream(ctx context.Context, credentials HTTPCredentials, ch *comm.Channel) {
	go func() {
		for {
			err := streamEvents(ctx, credentials, ch)
			if ctx.Err() != nil {
				return
			}
			log.Printf("event stream: %v\n", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(resubscribeDelay):
			}
		}
	}()
}

func streamEvents(ctx context.Context, credentials HTTPCredentials, ch *comm.Channel) error {
	req, err := newRequest(ctx, "GET", nil, credentials)
	if err != nil {
		return fmt.Errorf("newRequest failed: %w", err)
	}

	stream, err := eventsource.SubscribeWithRequest("", req)
	if err != nil {
		return fmt.Errorf("subscribe failed: %w", err)
	}
	defer stream.Close()

	stream.InitialRetryDelay = 500 * time.Millisecond
	stream.MaxRetryDelay = 5 * time.Second
	stream.Logger = log.New(os.Stderr, "", log.LstdFlags)
	log.Printf("subscribed to event stream %s\n", credentials.URL)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-stream.Events:
			if !ok {
				return errors.New("event stream closed")
			}
			data := strings.TrimSpace(event.Data())
			if data == "" {
				continue
			}
			if err := ch.Submit(ctx, []byte(data)); err != nil {
				if errors.Is(err, comm.ErrMessageTooLong) {
					log.Printf("dropping event: %v\n", err)
					continue
				}
				return err
			}
		case err, ok := <-stream.Errors:
			if !ok {
				return errors.New("event stream closed")
			}
			log.Printf("event stream error: %v\n", err)
		}
	}
}
