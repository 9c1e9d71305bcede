package ws

import (
	"sync"

	"golang.org/x/net/websocket"
)

type Client struct {
	conn *websocket.Conn
	out  chan []byte

	mu     sync.RWMutex
	topics map[string]struct{}
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		conn:   conn,
		out:    make(chan []byte, 64),
		topics: map[string]struct{}{},
	}
}

func (c *Client) send(payload []byte) {
	select {
	case c.out <- payload:
	default:
		// slow consumer; drop the connection rather than block the hub
		_ = c.conn.Close()
	}
}

func (c *Client) addTopic(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topics[topic] = struct{}{}
}

func (c *Client) listTopics() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.topics))
	for t := range c.topics {
		out = append(out, t)
	}
	return out
}
