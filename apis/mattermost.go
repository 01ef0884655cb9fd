package apis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	mm "github.com/mattermost/mattermost/server/public/model"

	"github.com/thiefmaster/lightbox/comm"
)

type MattermostSettings struct {
	ServerURL   string `yaml:"url"`
	AccessToken string `yaml:"token"`
	TeamName    string `yaml:"team"`
	ChannelName string `yaml:"channel"`
}

// WatchMattermost forwards posts made by other users in the configured
// channel as command messages, reconnecting until ctx is done.
func WatchMattermost(ctx context.Context, settings MattermostSettings, ch *comm.Channel) {
	go func() {
		for {
			err := forwardPosts(ctx, settings, ch)
			if ctx.Err() != nil {
				return
			}
			log.Printf("mattermost: %v\n", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(resubscribeDelay):
			}
		}
	}()
}

func forwardPosts(ctx context.Context, settings MattermostSettings, ch *comm.Channel) error {
	client := mm.NewAPIv4Client(settings.ServerURL)
	client.SetToken(settings.AccessToken)

	me, _, err := client.GetMe(ctx, "")
	if err != nil {
		return fmt.Errorf("could not get user info: %w", err)
	}
	channel, _, err := client.GetChannelByNameForTeamName(ctx, settings.ChannelName, settings.TeamName, "")
	if err != nil {
		return fmt.Errorf("could not get channel: %w", err)
	}

	ws, err := mm.NewWebSocketClient(strings.Replace(settings.ServerURL, "http", "ws", 1), client.AuthToken)
	if err != nil {
		return fmt.Errorf("could not connect to websocket: %w", err)
	}
	ws.Listen()
	defer ws.Close()
	log.Printf("watching mattermost channel %s/%s\n", settings.TeamName, settings.ChannelName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ws.PingTimeoutChannel:
			return errors.New("websocket ping timeout")
		case event := <-ws.EventChannel:
			if event == nil {
				return errors.New("websocket event channel closed")
			}
			if event.EventType() != mm.WebsocketEventPosted {
				continue
			}
			text, ok := commandFromPost(event.GetData(), me.Id, channel.Id)
			if !ok {
				continue
			}
			if err := ch.Submit(ctx, []byte(text)); err != nil {
				if errors.Is(err, comm.ErrMessageTooLong) {
					log.Printf("dropping mattermost post: %v\n", err)
					continue
				}
				return err
			}
		}
	}
}

// commandFromPost returns the text of a "posted" event if it was written by
// someone other than userId in channelId. Code formatting is stripped.
func commandFromPost(data map[string]any, userId, channelId string) (string, bool) {
	raw, _ := data["post"].(string)
	var post mm.Post
	if err := json.Unmarshal([]byte(raw), &post); err != nil {
		return "", false
	}
	if post.UserId == userId || post.ChannelId != channelId {
		return "", false
	}
	text := strings.TrimSpace(post.Message)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimSpace(strings.Trim(text, "`"))
	return text, text != ""
}
