package controllers

import (
	"betcodes/internal/models"
	"betcodes/internal/providers"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"net/http"
	"sync"
	"time"
)

const (
	streamWriteWait  = 5 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = streamPongWait * 9 / 10
)

type stateSource interface {
	Subscribe() (<-chan models.PremiumState, func())
}

// streamHub pushes premium state changes to websocket clients.
type streamHub struct {
	upgrader websocket.Upgrader
	logger   providers.Logger
	source   stateSource

	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	closed bool
}

func newStreamHub(logger providers.Logger, source stateSource) *streamHub {
	return &streamHub{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		logger:   logger,
		source:   source,
		conns:    make(map[*websocket.Conn]struct{}),
	}
}

func (h *streamHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnf(providers.TypeApi, "State stream upgrade failed: %s", err)
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.conns[conn] = struct{}{}
	h.mu.Unlock()

	updates, unsubscribe := h.source.Subscribe()
	gone := make(chan struct{})
	go h.readLoop(conn, gone)
	h.writeLoop(conn, updates, gone)

	unsubscribe()
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

// readLoop drains client frames so pongs and close frames are processed.
func (h *streamHub) readLoop(conn *websocket.Conn, gone chan struct{}) {
	defer close(gone)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *streamHub) writeLoop(conn *websocket.Conn, updates <-chan models.PremiumState, gone <-chan struct{}) {
	ping := time.NewTicker(streamPingPeriod)
	defer ping.Stop()

	for {
		select {
		case state, ok := <-updates:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(streamWriteWait))
				return
			}
			if err := h.send(conn, state); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		case <-gone:
			return
		}
	}
}

func (h *streamHub) send(conn *websocket.Conn, state models.PremiumState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return conn.WriteMessage(websocket.TextMessage, payload)
}

func (h *streamHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for conn := range h.conns {
		_ = conn.Close()
	}
}
