package ws

import "sync"

// The hub carries exactly two topic families. Subscriptions and publishes
// must build topics through these constructors so the two sides agree.

// JobTopic streams one ingestion job's progress and completion events.
func JobTopic(jobID string) string {
	return "ingest:jobs:" + jobID
}

// CustomerTopic streams one customer's application decisions.
func CustomerTopic(customerID string) string {
	return "customer:applications:" + customerID
}

type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: map[string]map[*Client]struct{}{}}
}

func (h *Hub) Subscribe(topic string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[topic]; !ok {
		h.subscribers[topic] = map[*Client]struct{}{}
	}
	h.subscribers[topic][client] = struct{}{}
	client.addTopic(topic)
}

func (h *Hub) UnsubscribeAll(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, topic := range client.listTopics() {
		if subs, ok := h.subscribers[topic]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.subscribers, topic)
			}
		}
	}
}

func (h *Hub) Publish(topic string, payload []byte) {
	h.mu.RLock()
	subs := h.subscribers[topic]
	h.mu.RUnlock()

	for c := range subs {
		c.send(payload)
	}
}
