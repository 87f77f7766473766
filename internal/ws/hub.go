// Package ws pushes proposal status changes to connected status pages.
package ws

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
)

// Message is one payload for every subscriber of Topic.
type Message struct {
	Topic string
	Data  []byte
}

// Hub tracks subscribers per topic. A topic is a proposal id.
type Hub struct {
	topics     map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	publish    chan Message
	done       chan struct{}
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		topics:     make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan Message, 256),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run serves registrations and publications until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for _, clients := range h.topics {
				for c := range clients {
					close(c.send)
				}
			}
			h.topics = make(map[string]map[*Client]bool)
			return

		case c := <-h.register:
			h.add(c)

		case c := <-h.unregister:
			h.drop(c)

		case msg := <-h.publish:
			h.deliver(msg)
		}
	}
}

func (h *Hub) add(c *Client) {
	clients, ok := h.topics[c.topic]
	if !ok {
		clients = make(map[*Client]bool)
		h.topics[c.topic] = clients
	}
	clients[c] = true
}

// drop removes c and forgets its topic once nobody is left on it.
func (h *Hub) drop(c *Client) {
	clients, ok := h.topics[c.topic]
	if !ok || !clients[c] {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.topics, c.topic)
	}
}

func (h *Hub) deliver(msg Message) {
	for c := range h.topics[msg.Topic] {
		select {
		case c.send <- msg.Data:
		default:
			// Slow subscriber: drop it rather than stall everyone else.
			h.drop(c)
		}
	}
}

// Publish sends v as JSON to every subscriber of topic. It never blocks;
// if the hub is backed up the message is dropped.
func (h *Hub) Publish(topic string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.log.Error().Err(err).Str("topic", topic).Msg("marshal ws message")
		return
	}
	select {
	case h.publish <- Message{Topic: topic, Data: data}:
	default:
		h.log.Warn().Str("topic", topic).Msg("ws publish queue full, dropping message")
	}
}
