package ws

import (
	"encoding/json"
	"testing"
)

func newTestClient() *Client {
	// no underlying conn; send never hits the slow-consumer path as long as
	// the out buffer has room
	return &Client{
		out:    make(chan []byte, 64),
		topics: map[string]struct{}{},
	}
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case payload := <-c.out:
		return payload
	default:
		t.Fatal("no payload buffered")
		return nil
	}
}

func TestHubPublishReachesSubscribersOnly(t *testing.T) {
	hub := NewHub()
	subscribed := newTestClient()
	other := newTestClient()

	hub.Subscribe(JobTopic("a"), subscribed)
	hub.Subscribe(JobTopic("b"), other)

	hub.Publish(JobTopic("a"), []byte(`{"event":"ingest_progress"}`))

	if got := receive(t, subscribed); string(got) != `{"event":"ingest_progress"}` {
		t.Errorf("payload = %s", got)
	}
	select {
	case payload := <-other.out:
		t.Errorf("unsubscribed client received %s", payload)
	default:
	}
}

func TestHubUnsubscribeAll(t *testing.T) {
	hub := NewHub()
	client := newTestClient()

	hub.Subscribe(JobTopic("a"), client)
	hub.Subscribe(CustomerTopic("1"), client)
	hub.UnsubscribeAll(client)

	hub.Publish(JobTopic("a"), []byte(`x`))
	hub.Publish(CustomerTopic("1"), []byte(`y`))

	select {
	case payload := <-client.out:
		t.Errorf("unsubscribed client received %s", payload)
	default:
	}
}

func TestNotifierJobEvents(t *testing.T) {
	hub := NewHub()
	client := newTestClient()
	hub.Subscribe(JobTopic("job-1"), client)

	n := NewNotifier(hub)
	n.JobProgress("job-1", 100, 250)
	n.JobFinished("job-1", "completed")

	var progress map[string]any
	if err := json.Unmarshal(receive(t, client), &progress); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if progress["event"] != "ingest_progress" {
		t.Errorf("event = %v", progress["event"])
	}
	data := progress["data"].(map[string]any)
	if data["created"] != float64(100) || data["total"] != float64(250) {
		t.Errorf("data = %v", data)
	}

	var finished map[string]any
	if err := json.Unmarshal(receive(t, client), &finished); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if finished["event"] != "ingest_finished" {
		t.Errorf("event = %v", finished["event"])
	}
}

func TestNotifierApplicationDecided(t *testing.T) {
	hub := NewHub()
	client := newTestClient()
	hub.Subscribe(CustomerTopic("1"), client)

	n := NewNotifier(hub)
	n.ApplicationDecided(1, 42, false, "LOW_CREDIT_SCORE")

	var event map[string]any
	if err := json.Unmarshal(receive(t, client), &event); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if event["event"] != "application_decided" {
		t.Errorf("event = %v", event["event"])
	}
	data := event["data"].(map[string]any)
	if data["approved"] != false || data["reason"] != "LOW_CREDIT_SCORE" {
		t.Errorf("data = %v", data)
	}
}
