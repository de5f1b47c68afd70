package reminder

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// sendQueueSize bounds the pushes waiting for one slow subscriber
	sendQueueSize = 16
	writeTimeout  = 10 * time.Second
)

// Conn is the part of a websocket connection the hub uses
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Event is the frame sent to subscribers
type Event struct {
	Type     string   `json:"type"`
	Reminder Reminder `json:"reminder"`
}

type subscriber struct {
	conn   Conn
	viewer Viewer
	send   chan Event
}

// Hub fans newly created reminders out to connected viewers who can see them
type Hub struct {
	mu      sync.RWMutex
	clients map[*subscriber]struct{}
	Logger  *zap.Logger
	Now     func() time.Time
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*subscriber]struct{}),
		Logger:  logger,
		Now:     time.Now,
	}
}

// Serve registers conn for viewer and blocks until the peer goes away
func (h *Hub) Serve(conn Conn, viewer Viewer) {
	sub := &subscriber{conn: conn, viewer: viewer, send: make(chan Event, sendQueueSize)}

	h.mu.Lock()
	h.clients[sub] = struct{}{}
	h.mu.Unlock()

	writerDone := make(chan struct{})
	go h.writeLoop(sub, writerDone)

	defer func() {
		h.mu.Lock()
		delete(h.clients, sub)
		close(sub.send)
		h.mu.Unlock()
		conn.Close()
		<-writerDone
	}()

	for {
		// Inbound frames are ignored; reading detects the close.
		if _, _, err := conn.ReadMessage(); err != nil {
			h.Logger.Debug("reminder stream closed", zap.String("userId", viewer.ID), zap.Error(err))
			return
		}
	}
}

// writeLoop drains sub's queue. A failed write closes the connection, which ends Serve.
func (h *Hub) writeLoop(sub *subscriber, done chan<- struct{}) {
	defer close(done)
	for event := range sub.send {
		if err := sub.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err == nil {
			err = sub.conn.WriteJSON(event)
			if err == nil {
				continue
			}
			h.Logger.Warn("reminder push failed", zap.String("userId", sub.viewer.ID), zap.Error(err))
		}
		sub.conn.Close()
		for range sub.send {
			// discard until Serve closes the queue
		}
		return
	}
}

// Publish queues r for every subscriber whose inbox includes it, and for its sender.
// It never waits on a socket; a subscriber with a full queue misses the push.
func (h *Hub) Publish(r Reminder) {
	now := h.Now()
	event := Event{Type: "reminder", Reminder: r}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.clients {
		if sub.viewer.ID != r.SenderID && !CanSee(r, sub.viewer, now) {
			continue
		}
		select {
		case sub.send <- event:
		default:
			h.Logger.Warn("reminder push dropped, subscriber is behind", zap.String("userId", sub.viewer.ID))
		}
	}
}

// Clients returns the number of live connections
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
