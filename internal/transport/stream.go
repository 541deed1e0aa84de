package transport

import (
	"net/http"
	"time"

	"github.com/goodnatureofminers/greenchain-backend/internal/feed"
	"github.com/goodnatureofminers/greenchain-backend/internal/session"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type streamMessage struct {
	Type     string         `json:"type"`
	Snapshot *feed.Snapshot `json:"snapshot,omitempty"`
	Event    *feed.Event    `json:"event,omitempty"`
}

// stream upgrades to a websocket and pushes feed ticks. The connection holds a feed
// lease, so the simulation runs only while someone is watching.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the client.
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	logger := h.logger.With(zap.String("session", sess.ID))

	events, unsubscribe, err := sess.Feed.Subscribe()
	if err != nil {
		closeStream(conn, websocket.CloseGoingAway, err.Error())
		return
	}
	defer unsubscribe()

	release, err := sess.Feed.Acquire()
	if err != nil {
		closeStream(conn, websocket.CloseGoingAway, err.Error())
		return
	}
	defer release()

	snapshot := sess.Feed.Snapshot()
	if err := writeStream(conn, streamMessage{Type: "snapshot", Snapshot: &snapshot}); err != nil {
		logger.Debug("write snapshot", zap.Error(err))
		return
	}

	gone := make(chan struct{})
	go readPump(conn, gone)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-gone:
			return
		case <-r.Context().Done():
			return
		case evt, ok := <-events:
			if !ok {
				closeStream(conn, websocket.CloseNormalClosure, "session closed")
				return
			}
			if err := writeStream(conn, streamMessage{Type: "tick", Event: &evt}); err != nil {
				logger.Debug("write tick", zap.Error(err))
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// readPump consumes client frames so control messages are handled, and closes gone
// when the peer disconnects.
func readPump(conn *websocket.Conn, gone chan<- struct{}) {
	defer close(gone)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeStream(conn *websocket.Conn, msg streamMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

func closeStream(conn *websocket.Conn, code int, text string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(writeWait))
}
