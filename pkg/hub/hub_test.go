package hub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStuckClient returns a registered client whose send buffer is
// already full, so the next broadcast must drop it.
func newStuckClient(h *Hub) *Client {
	c := &Client{id: "stuck", hub: h, send: make(chan Message, 1)}
	c.send <- NewJSONMessage([]byte(`{}`))
	h.register <- c
	return c
}

func waitForCount(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("client count = %d, want %d", h.ClientCount(), want)
}

func TestRun_DropsSlowClientWhileCountIsRead(t *testing.T) {
	h := New("test")
	go h.Run()
	defer h.Stop()

	client := newStuckClient(h)
	waitForCount(t, h, 1)

	// Hammer ClientCount from another goroutine the way the frame
	// loop does, while the broadcast path removes the slow client.
	counting := make(chan struct{})
	go func() {
		defer close(counting)
		for i := 0; i < 10000; i++ {
			h.ClientCount()
		}
	}()

	h.BroadcastBinary([]byte{0xff})
	waitForCount(t, h, 0)
	<-counting

	// The dropped client's channel is closed so its write pump exits.
	<-client.send
	_, open := <-client.send
	assert.False(t, open, "slow client's send channel left open")
}

func TestStop_EndsRunAndDisconnectsClients(t *testing.T) {
	h := New("test")
	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	client := &Client{id: "c1", hub: h, send: make(chan Message, 1)}
	h.register <- client
	waitForCount(t, h, 1)

	h.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}

	require.Equal(t, 0, h.ClientCount())
	_, open := <-client.send
	assert.False(t, open, "client send channel left open after Stop")

	// Stop is idempotent.
	h.Stop()
}
