package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// dialTopics spins up the hub behind a test server and connects one client
// subscribed to the given topics
func dialTopics(t *testing.T, hub *Hub, topics []string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := hub.Serve(w, r, topics); err != nil {
			t.Errorf("serve websocket: %v", err)
		}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForSubscribers(t *testing.T, hub *Hub, topic string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.SubscriberCount(topic) != want {
		if time.Now().After(deadline) {
			t.Fatalf("topic %s has %d subscribers, want %d", topic, hub.SubscriberCount(topic), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPublishReachesSubscribedTopicOnly(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()

	orders := dialTopics(t, hub, []string{RestaurantOrdersTopic(42)})
	other := dialTopics(t, hub, []string{CourierTopic(7)})
	waitForSubscribers(t, hub, RestaurantOrdersTopic(42), 1)
	waitForSubscribers(t, hub, CourierTopic(7), 1)

	hub.Publish(RestaurantOrdersTopic(42), "order_created", map[string]interface{}{"order_id": 1})

	orders.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	if err := orders.ReadJSON(&event); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if event.Topic != RestaurantOrdersTopic(42) {
		t.Errorf("topic = %s, want %s", event.Topic, RestaurantOrdersTopic(42))
	}
	if event.Type != "order_created" {
		t.Errorf("type = %s, want order_created", event.Type)
	}
	if event.Timestamp == "" {
		t.Error("event has no timestamp")
	}

	// The courier connection must stay silent
	other.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	if _, _, err := other.ReadMessage(); err == nil {
		t.Error("unsubscribed client received the event")
	}
}

func TestEventFansOutToAllTopicSubscribers(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()

	first := dialTopics(t, hub, []string{BroadcastTopic})
	second := dialTopics(t, hub, []string{BroadcastTopic})
	waitForSubscribers(t, hub, BroadcastTopic, 2)

	hub.Publish(BroadcastTopic, "broadcast_message", map[string]interface{}{"text": "oi"})

	for i, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var event Event
		if err := conn.ReadJSON(&event); err != nil {
			t.Fatalf("client %d read event: %v", i, err)
		}
		if event.Type != "broadcast_message" {
			t.Errorf("client %d got type %s", i, event.Type)
		}
	}
}

func TestDisconnectReleasesSubscriptions(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()

	conn := dialTopics(t, hub, []string{TrackTopic(3, 12)})
	waitForSubscribers(t, hub, TrackTopic(3, 12), 1)
	if hub.ClientCount() != 1 {
		t.Fatalf("client count = %d, want 1", hub.ClientCount())
	}

	conn.Close()
	waitForSubscribers(t, hub, TrackTopic(3, 12), 0)

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d after disconnect, want 0", hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(AdminRestaurantsTopic, "restaurant_status", map[string]interface{}{"i": i})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked with no subscribers")
	}
}
