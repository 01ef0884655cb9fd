package apis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/thiefmaster/lightbox/comm"
)

// frames larger than this close the connection instead of being dropped
const websocketReadLimit = 16 * comm.MaxMessageSize

// WebsocketSource accepts websocket clients and forwards every text frame
// they send as one command message.
type WebsocketSource struct {
	ctx      context.Context
	channel  *comm.Channel
	upgrader websocket.Upgrader
}

func NewWebsocketSource(ctx context.Context, ch *comm.Channel) *WebsocketSource {
	return &WebsocketSource{ctx: ctx, channel: ch}
}

func (s *WebsocketSource) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %s\n", err)
		return
	}
	defer c.Close()
	c.SetReadLimit(websocketReadLimit)
	log.Printf("websocket client connected: %s\n", r.RemoteAddr)

	for {
		kind, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("websocket read failed: %s\n", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			log.Printf("ignoring websocket message of type %d\n", kind)
			continue
		}
		if err := s.channel.Submit(s.ctx, message); err != nil {
			if errors.Is(err, comm.ErrMessageTooLong) {
				log.Printf("dropping websocket message: %v\n", err)
				continue
			}
			return
		}
	}
}

// RunWebsocketSource serves the source on addr under /ws until ctx is done.
// The address is bound before returning, so a port that is already taken is
// reported to the caller. The returned server's Addr is the bound address.
func RunWebsocketSource(ctx context.Context, addr string, ch *comm.Channel) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("could not listen for websocket clients: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", NewWebsocketSource(ctx, ch))
	srv := &http.Server{Addr: ln.Addr().String(), Handler: mux}

	go func() {
		log.Printf("websocket source listening on %s\n", srv.Addr)
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			log.Printf("websocket server exited: %v\n", err)
		}
	}()
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	return srv, nil
}
