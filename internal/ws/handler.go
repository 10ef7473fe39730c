package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vekariaayush04/matiq/internal/duel"
	"github.com/vekariaayush04/matiq/internal/hub"
	"github.com/vekariaayush04/matiq/internal/registry"
	"github.com/vekariaayush04/matiq/internal/types"
)

const writeTimeout = 3 * time.Second

// Handler terminates one client connection: it parses inbound events,
// dispatches JOINs to the hub and UPDATEs to the registry's duel, and pushes
// every broadcast the duel emits back down the socket.
func Handler(h *hub.Hub, reg *registry.Registry, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		// The outbox is written and closed only by the duel actor; the
		// writer goroutine below is its sole reader.
		outbox := make(chan types.ServerEvent, 16)

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for ev := range outbox {
				payload, err := json.Marshal(ev)
				if err != nil {
					log.Error("marshal outbound event", zap.Error(err))
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
			// Outbox closed: the game is over (or this side detached).
			_ = conn.Close(websocket.StatusNormalClosure, "game closed")
		}()

		var (
			joined     *duel.Duel
			joinedUser string
		)
		defer func() {
			if joined == nil {
				// Never handed to a duel; release the writer ourselves.
				close(outbox)
				return
			}
			// Best effort: a finished duel no longer drains its inbox.
			select {
			case joined.Inbox() <- duel.Detach{User: joinedUser}:
			default:
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				// Clean close, peer gone, or our own writer closed the
				// socket after GAME_OVER. Detach runs in the defer.
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				log.Warn("ignoring malformed payload", zap.Error(err))
				writeEvent(r.Context(), conn, types.ErrorEvent{Error: "bad json"})
				continue
			}

			switch cm.Type {
			case types.EventJoin:
				if joined != nil {
					log.Warn("duplicate JOIN ignored", zap.String("user", joinedUser))
					continue
				}
				reply := make(chan hub.JoinReply, 1)
				h.Inbox() <- hub.Join{Name: cm.Name, Outbox: outbox, Reply: reply}
				res := <-reply
				joined, joinedUser = res.Duel, cm.Name
				if res.Role == hub.RoleFirst {
					writeEvent(r.Context(), conn, types.NewWaiting())
				}
				// RoleSecond: GAME_STARTED arrives through the outbox.

			case types.EventUpdate:
				id, err := uuid.Parse(cm.GameID)
				if err != nil {
					writeEvent(r.Context(), conn, types.ErrorEvent{Error: "Game not found"})
					continue
				}
				d, ok := reg.Lookup(id)
				if !ok {
					writeEvent(r.Context(), conn, types.ErrorEvent{Error: "Game not found"})
					continue
				}
				d.Inbox() <- duel.Answer{User: cm.User, Correct: cm.IsCorrect}

			case types.EventLeave:
				conn.Close(websocket.StatusGoingAway, "left")
				return

			default:
				conn.Close(websocket.StatusUnsupportedData, "unknown event type")
				return
			}
		}
	}
}

// writeEvent sends a payload to this connection only. Broadcasts never come
// through here; they go through the duel's outboxes.
func writeEvent(ctx context.Context, conn *websocket.Conn, ev types.ServerEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_ = conn.Write(wctx, websocket.MessageText, payload)
}
