package ws

import (
	"context"
	"encoding/json"
	"sync"

	"jobboard/internal/notify"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type delivery struct {
	session uuid.UUID
	payload []byte
}

// Hub relays notices to the websocket connections of the session they belong
// to. A session may hold several connections.
type Hub struct {
	clients    map[*Client]bool
	deliver    chan delivery
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	logger     logrus.FieldLogger
}

func NewHub(logger logrus.FieldLogger) *Hub {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		deliver:    make(chan delivery, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations and deliveries until ctx is done, then closes
// every client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		h.mutex.Lock()
		for c := range h.clients {
			delete(h.clients, c)
			close(c.send)
		}
		h.mutex.Unlock()
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.WithFields(logrus.Fields{
				"session_id":    client.session.String(),
				"total_clients": total,
			}).Info("ws connected")

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.remove(client)
			h.logger.WithFields(logrus.Fields{
				"session_id":    client.session.String(),
				"total_clients": h.ClientCount(),
			}).Info("ws disconnected")

		case d := <-h.deliver:
			h.mutex.RLock()
			targets := make([]*Client, 0, 1)
			for c := range h.clients {
				if c.session == d.session {
					targets = append(targets, c)
				}
			}
			h.mutex.RUnlock()

			for _, client := range targets {
				select {
				case client.send <- d.payload:
				default:
					h.remove(client)
					h.logger.WithField("session_id", client.session.String()).Warn("ws client dropped | reason=send_buffer_full")
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Notify implements notify.Notifier. Notices without a session have no
// connection to go to and are dropped.
func (h *Hub) Notify(_ context.Context, n notify.Notice) {
	if h == nil || n.SessionID == uuid.Nil {
		return
	}
	b, err := json.Marshal(newNoticeEvent(n))
	if err != nil {
		h.logger.WithError(err).Error("ws encode notice")
		return
	}
	select {
	case h.deliver <- delivery{session: n.SessionID, payload: b}:
	default:
		h.logger.WithField("session_id", n.SessionID.String()).Warn("ws notice dropped | reason=buffer_full")
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
