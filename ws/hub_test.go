package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newHubClient, conn'suz bir test client'ı kurar ve hub'a kaydeder.
// BroadcastToUser sadece send channel'ına yazar — gerçek socket gerekmez.
// Kayıt doğrudan addClient ile yapılır; register channel'ı üzerinden gitmek
// Run loop'u ile yarışır ve testi flaky yapar.
func newHubClient(hub *Hub, userID string) *Client {
	c := &Client{
		hub:    hub,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
	}
	hub.addClient(c)
	return c
}

func recvEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case raw := <-c.send:
		var ev Event
		require.NoError(t, json.Unmarshal(raw, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHub_BroadcastToUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Shutdown()

	alice := newHubClient(hub, "alice")
	bob := newHubClient(hub, "bob")

	hub.BroadcastToUser("alice", Event{Op: OpContractCreated, Data: map[string]string{"id": "c1"}})

	ev := recvEvent(t, alice)
	assert.Equal(t, OpContractCreated, ev.Op)
	assert.NotZero(t, ev.Seq)

	// Bob'un channel'ı boş kalır — feed owner bazlıdır
	select {
	case raw := <-bob.send:
		t.Fatalf("bob should not receive alice's event, got %s", raw)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_SeqMonotonic(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Shutdown()

	c := newHubClient(hub, "u1")

	hub.BroadcastToUser("u1", Event{Op: OpContractUpdated})
	hub.BroadcastToUser("u1", Event{Op: OpContractDeleted, Data: ContractDeletedData{ID: "x"}})

	first := recvEvent(t, c)
	second := recvEvent(t, c)
	assert.Greater(t, second.Seq, first.Seq)
}

func TestHub_MultipleConnectionsSameUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Shutdown()

	// Aynı kullanıcının iki sekmesi — ikisi de event alır
	tab1 := newHubClient(hub, "u1")
	tab2 := newHubClient(hub, "u1")

	hub.BroadcastToUser("u1", Event{Op: OpContractCreated})

	assert.Equal(t, OpContractCreated, recvEvent(t, tab1).Op)
	assert.Equal(t, OpContractCreated, recvEvent(t, tab2).Op)
}

func TestHub_BroadcastToAbsentUserIsNoop(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Shutdown()

	// Panic veya blokaj olmamalı
	hub.BroadcastToUser("nobody", Event{Op: OpContractCreated})
}

func TestHub_ShutdownStopsRunLoop(t *testing.T) {
	hub := NewHub()

	stopped := make(chan struct{})
	go func() {
		hub.Run()
		close(stopped)
	}()

	hub.Shutdown()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Shutdown()

	c := newHubClient(hub, "u1")
	hub.unregister <- c

	select {
	case _, open := <-c.send:
		assert.False(t, open, "send channel should be closed after unregister")
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}
