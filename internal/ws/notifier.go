package ws

import (
	"encoding/json"
	"strconv"
)

// Notifier pushes ingest and decision events to subscribed clients. It
// satisfies the Notifier interfaces of the ingest and application packages.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) JobProgress(jobID string, created, total int32) {
	payload, _ := json.Marshal(map[string]any{
		"event": "ingest_progress",
		"data": map[string]any{
			"job_id":  jobID,
			"created": created,
			"total":   total,
		},
	})
	n.hub.Publish(JobTopic(jobID), payload)
}

func (n *Notifier) JobFinished(jobID, status string) {
	payload, _ := json.Marshal(map[string]any{
		"event": "ingest_finished",
		"data": map[string]any{
			"job_id": jobID,
			"status": status,
		},
	})
	n.hub.Publish(JobTopic(jobID), payload)
}

func (n *Notifier) ApplicationDecided(customerID, applicationID int64, approved bool, reason string) {
	payload, _ := json.Marshal(map[string]any{
		"event": "application_decided",
		"data": map[string]any{
			"customer_id":    customerID,
			"application_id": applicationID,
			"approved":       approved,
			"reason":         reason,
		},
	})
	n.hub.Publish(CustomerTopic(strconv.FormatInt(customerID, 10)), payload)
}
