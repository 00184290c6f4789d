package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/sslsetup/core/logger"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// streamRun pushes a snapshot after every tracker write and closes the socket
// normally once the run is finished.
func (h *Handler) streamRun(r *http.Request) Response {
	run, err := h.lookup(r)
	if err != nil {
		return Error(err)
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already answered the client.
			h.logger.DebugContext(r.Context(), "websocket upgrade", logger.Error(err))
			return nil
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Read until the peer goes away so control frames are processed.
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.NextReader(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(wsPingPeriod)
		defer ticker.Stop()

		updates := run.Subscribe(ctx)
		for {
			select {
			case snap, ok := <-updates:
				if !ok {
					msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "run finished")
					if ctx.Err() != nil {
						msg = websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
					}
					_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsWriteWait))
					return nil
				}
				_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteJSON(snap); err != nil {
					h.logger.DebugContext(ctx, "websocket write", logger.RunID(run.ID.String()), logger.Error(err))
					return nil
				}
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
					return nil
				}
			}
		}
	}
}
