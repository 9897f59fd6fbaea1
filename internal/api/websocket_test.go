package api

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nerrad567/ecobuild-core/internal/events"
	"github.com/nerrad567/ecobuild-core/internal/infrastructure/config"
	"github.com/nerrad567/ecobuild-core/internal/infrastructure/logging"
)

func testHub() *Hub {
	return NewHub(config.WebSocketConfig{MaxMessageSize: 8192, PingInterval: 30, PongTimeout: 10}, logging.Nop())
}

// fakeClient registers a connectionless client subscribed to channels.
func fakeClient(h *Hub, userID string, channels ...string) *WSClient {
	c := &WSClient{
		hub:           h,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: make(map[string]struct{}),
		userID:        userID,
	}
	for _, ch := range channels {
		c.subscriptions[ch] = struct{}{}
	}
	h.Register(c)
	return c
}

func received(c *WSClient) (WSMessage, bool) {
	select {
	case data := <-c.send:
		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return WSMessage{}, false
		}
		return msg, true
	default:
		return WSMessage{}, false
	}
}

func TestHub_PublishFiltersByOwnerAndChannel(t *testing.T) {
	h := testHub()
	owner := fakeClient(h, "usr-1", string(events.TypeBuildingSaved))
	ownerAll := fakeClient(h, "usr-1", WSChannelAll)
	ownerOther := fakeClient(h, "usr-1", string(events.TypeBuildingDeleted))
	stranger := fakeClient(h, "usr-2", WSChannelAll)

	ev := events.Event{
		Type:       events.TypeBuildingSaved,
		BuildingID: "bld-1",
		UserID:     "usr-1",
		Score:      72,
		Timestamp:  time.Now().UTC(),
	}
	if err := h.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	msg, ok := received(owner)
	if !ok {
		t.Fatal("subscribed owner should receive the event")
	}
	if msg.Type != WSTypeEvent || msg.EventType != "building.saved" {
		t.Errorf("message = %+v", msg)
	}
	payload, _ := msg.Payload.(map[string]any)
	if payload["buildingId"] != "bld-1" {
		t.Errorf("payload = %v", msg.Payload)
	}

	if _, ok := received(ownerAll); !ok {
		t.Error("wildcard subscriber should receive the event")
	}
	if _, ok := received(ownerOther); ok {
		t.Error("client subscribed to another type should not receive the event")
	}
	if _, ok := received(stranger); ok {
		t.Error("another user's client must not receive the event")
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	h := testHub()
	c := fakeClient(h, "usr-1")
	if n := h.ClientCount(); n != 1 {
		t.Fatalf("ClientCount() = %d, want 1", n)
	}

	h.Unregister(c)
	h.Unregister(c) // second call must not double-close
	if n := h.ClientCount(); n != 0 {
		t.Errorf("ClientCount() = %d, want 0", n)
	}
	if _, open := <-c.send; open {
		t.Error("send channel should be closed")
	}
}

func TestHub_RunClosesClientsOnCancel(t *testing.T) {
	h := testHub()
	c := fakeClient(h, "usr-1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}
	if h.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d after Run", h.ClientCount())
	}
	if _, open := <-c.send; open {
		t.Error("send channel should be closed")
	}
}

func TestWSClient_HandleSubscribe(t *testing.T) {
	h := testHub()
	c := fakeClient(h, "usr-1")

	c.handleMessage([]byte(`{"type":"subscribe","id":"1","payload":{"channels":["building.updated"]}}`))
	if !c.isSubscribed("building.updated") || c.isSubscribed("building.saved") {
		t.Error("subscription not applied")
	}
	if msg, ok := received(c); !ok || msg.Type != WSTypeResponse {
		t.Errorf("subscribe reply = %+v, %v", msg, ok)
	}

	c.handleMessage([]byte(`{"type":"unsubscribe","id":"2","payload":{"channels":["building.updated"]}}`))
	if c.isSubscribed("building.updated") {
		t.Error("unsubscribe not applied")
	}
	received(c)

	c.handleMessage([]byte(`{"type":"ping","id":"3"}`))
	if msg, ok := received(c); !ok || msg.Type != WSTypePong {
		t.Errorf("ping reply = %+v, %v", msg, ok)
	}

	c.handleMessage([]byte(`not json`))
	if msg, ok := received(c); !ok || msg.Type != WSTypeError {
		t.Errorf("invalid reply = %+v, %v", msg, ok)
	}
}
