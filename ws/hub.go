package ws

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Event is a single realtime update pushed to subscribed clients
type Event struct {
	Topic     string      `json:"topic"`
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// Hub fans events out to clients by topic. One goroutine owns the maps;
// registration, teardown and publishing all go through its channels, so a
// disconnected client is always fully released.
type Hub struct {
	clients    map[*Client]bool
	topics     map[string]map[*Client]bool
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		topics:     make(map[string]map[*Client]bool),
		broadcast:  make(chan Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			for topic := range client.topics {
				if h.topics[topic] == nil {
					h.topics[topic] = make(map[*Client]bool)
				}
				h.topics[topic][client] = true
			}
			h.mutex.Unlock()
			h.logger.WithFields(logrus.Fields{
				"client_id":    client.id,
				"client_count": h.ClientCount(),
			}).Info("Client connected")

		case client := <-h.unregister:
			h.mutex.Lock()
			h.drop(client)
			h.mutex.Unlock()
			h.logger.WithFields(logrus.Fields{
				"client_id":    client.id,
				"client_count": h.ClientCount(),
			}).Info("Client disconnected")

		case event := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.topics[event.Topic] {
				select {
				case client.send <- event:
				default:
					h.drop(client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// drop must be called with the write lock held
func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	for topic := range client.topics {
		delete(h.topics[topic], client)
		if len(h.topics[topic]) == 0 {
			delete(h.topics, topic)
		}
	}
	close(client.send)
}

// Publish queues an event for every client subscribed to the topic
func (h *Hub) Publish(topic, eventType string, data interface{}) {
	event := Event{
		Topic:     topic,
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	select {
	case h.broadcast <- event:
	default:
		h.logger.WithField("topic", topic).Warn("Broadcast channel full, dropping event")
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// SubscriberCount returns how many clients hold the given topic
func (h *Hub) SubscriberCount(topic string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.topics[topic])
}
