package main

import (
	"context"
	"io"
	"log"

	"github.com/thiefmaster/lightbox/apis"
	"github.com/thiefmaster/lightbox/comm"
)

// startSources starts every configured producer. They all stop once ctx is
// done; the returned closers release the devices they hold.
func startSources(ctx context.Context, cfg appConfig, ch *comm.Channel) ([]io.Closer, error) {
	var closers []io.Closer
	started := 0

	if cfg.Link.Port != "" {
		link, err := comm.OpenLink(ctx, cfg.Link, ch)
		if err != nil {
			return nil, err
		}
		closers = append(closers, link)
		started++
	}
	if cfg.Websocket.Listen != "" {
		if _, err := apis.RunWebsocketSource(ctx, cfg.Websocket.Listen, ch); err != nil {
			closeAll(closers)
			return nil, err
		}
		started++
	}
	if cfg.EventSource.URL != "" {
		apis.SubscribeEventStream(ctx, cfg.EventSource, ch)
		started++
	}
	if cfg.Mattermost.ServerURL != "" {
		apis.WatchMattermost(ctx, cfg.Mattermost, ch)
		started++
	}

	if started == 0 {
		log.Println("no command sources configured")
	}
	return closers, nil
}

// closeAll closes every closer, last opened first, logging failures.
func closeAll(closers []io.Closer) {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			log.Printf("close failed: %v\n", err)
		}
	}
}
