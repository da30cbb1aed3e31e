package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"trainvoc-updates/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, maxConn int) (*Manager, context.CancelFunc) {
	t.Helper()
	m := NewManager(maxConn, time.Second, time.Minute, 50*time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go m.Run(ctx)
	t.Cleanup(cancel)
	return m, cancel
}

func fakeClient(m *Manager, id, deviceID string) *Client {
	return NewClient(id, deviceID, nil, m)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, time.Second, 5*time.Millisecond)
}

func TestManagerRegisterAndUnregister(t *testing.T) {
	m, _ := newTestManager(t, 2)

	c := fakeClient(m, "c1", "device-1")
	m.Register <- c
	waitFor(t, func() bool { return m.DeviceConnections("device-1") == 1 })

	m.Unregister <- c
	waitFor(t, func() bool { return m.ConnectionCount() == 0 })

	_, open := <-c.Send
	assert.False(t, open, "expected send channel to be closed")
}

func TestManagerEnforcesConnectionLimit(t *testing.T) {
	m, _ := newTestManager(t, 1)

	m.Register <- fakeClient(m, "c1", "device-1")
	extra := fakeClient(m, "c2", "device-1")
	m.Register <- extra

	_, open := <-extra.Send
	assert.False(t, open, "expected over-limit client to be rejected")
	assert.Equal(t, 1, m.DeviceConnections("device-1"))
}

func TestManagerBroadcast(t *testing.T) {
	m, _ := newTestManager(t, 2)

	a := fakeClient(m, "a", "device-a")
	b := fakeClient(m, "b", "device-b")
	m.Register <- a
	m.Register <- b
	waitFor(t, func() bool { return m.ConnectionCount() == 2 })

	msg, err := NewMessage(TypeUpdateNotes, &UpdateNotesPayload{
		Notes: &domain.UpdateNotes{CurrentVersion: "1.3.0", VersionCode: 13},
	})
	require.NoError(t, err)
	require.NoError(t, m.Broadcast(msg))

	for _, c := range []*Client{a, b} {
		raw := <-c.Send
		var got Message
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, TypeUpdateNotes, got.Type)

		var payload UpdateNotesPayload
		require.NoError(t, got.UnmarshalPayload(&payload))
		assert.Equal(t, 13, payload.Notes.VersionCode)
	}
}

type recordingHandler struct {
	got chan *Message
}

func (h *recordingHandler) HandleWebSocketMessage(client *Client, msg *Message) error {
	h.got <- msg
	return nil
}

func TestManagerDispatchesInboundMessages(t *testing.T) {
	m := NewManager(1, time.Second, time.Minute, 50*time.Second, nil)
	h := &recordingHandler{got: make(chan *Message, 4)}
	m.SetMessageHandler(h)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	stranger := fakeClient(m, "c0", "device-0")
	m.HandleMessage <- &ClientMessage{Client: stranger, Message: []byte(`{"type":"pong"}`)}

	c := fakeClient(m, "c1", "device-1")
	m.Register <- c
	m.HandleMessage <- &ClientMessage{Client: c, Message: []byte(`{"type":"ping"}`)}
	m.HandleMessage <- &ClientMessage{Client: c, Message: []byte(`not json`)}
	m.HandleMessage <- &ClientMessage{Client: c, Message: []byte(`{"type":"status_request"}`)}

	var types []MessageType
	for i := 0; i < 2; i++ {
		select {
		case msg := <-h.got:
			types = append(types, msg.Type)
		case <-time.After(time.Second):
			t.Fatalf("expected two dispatched messages, got %v", types)
		}
	}
	assert.ElementsMatch(t, []MessageType{TypePing, TypeStatusRequest}, types)

	select {
	case msg := <-h.got:
		t.Fatalf("unexpected dispatch of %s", msg.Type)
	case <-time.After(20 * time.Millisecond):
	}
}

type stallingHandler struct {
	release chan struct{}
}

func (h *stallingHandler) HandleWebSocketMessage(client *Client, msg *Message) error {
	<-h.release
	return client.Reply(TypePong, nil)
}

func TestManagerSlowHandlerDoesNotStallRun(t *testing.T) {
	m, _ := newTestManager(t, 2)
	h := &stallingHandler{release: make(chan struct{})}
	m.SetMessageHandler(h)

	a := fakeClient(m, "a", "device-a")
	require.True(t, m.Connect(a))
	m.HandleMessage <- &ClientMessage{Client: a, Message: []byte(`{"type":"status_request"}`)}

	b := fakeClient(m, "b", "device-b")
	connected := make(chan bool, 1)
	go func() { connected <- m.Connect(b) }()

	select {
	case ok := <-connected:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("registration waited on a message handler")
	}
	waitFor(t, func() bool { return m.DeviceConnections("device-b") == 1 })

	close(h.release)
	raw := <-a.Send
	var got Message
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, TypePong, got.Type)
}

func TestManagerConnectAfterStop(t *testing.T) {
	m := NewManager(1, time.Second, time.Minute, 50*time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, m.Run(ctx))

	c := fakeClient(m, "c1", "device-1")
	connected := make(chan bool, 1)
	go func() { connected <- m.Connect(c) }()

	select {
	case ok := <-connected:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Connect blocked after Run returned")
	}
}

func TestClientSendUpdateNotes(t *testing.T) {
	m, _ := newTestManager(t, 1)
	c := fakeClient(m, "c1", "device-1")
	require.True(t, m.Connect(c))
	waitFor(t, func() bool { return m.ConnectionCount() == 1 })

	require.NoError(t, c.SendUpdateNotes(&domain.UpdateNotes{CurrentVersion: "1.2.0", VersionCode: 12}))

	var got Message
	require.NoError(t, json.Unmarshal(<-c.Send, &got))
	assert.Equal(t, TypeUpdateNotes, got.Type)
	var payload UpdateNotesPayload
	require.NoError(t, got.UnmarshalPayload(&payload))
	assert.Equal(t, "1.2.0", payload.Notes.CurrentVersion)

	other := fakeClient(m, "ghost", "device-2")
	require.NoError(t, other.SendUpdateNotes(&domain.UpdateNotes{VersionCode: 12}))
	assert.Empty(t, other.Send)
}

func TestManagerRunStopsOnCancel(t *testing.T) {
	m := NewManager(1, time.Second, time.Minute, 50*time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	c := fakeClient(m, "c1", "device-1")
	m.Register <- c
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	_, open := <-c.Send
	assert.False(t, open)

	m.unregister(c)
}
