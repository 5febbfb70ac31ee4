package http

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/docuslide/internal/domain/ports"
)

func startManager(t *testing.T) (*ConnectionManager, context.CancelFunc) {
	t.Helper()
	cm := NewConnectionManager()
	ctx, cancel := context.WithCancel(context.Background())
	go cm.Run(ctx)
	t.Cleanup(cancel)
	return cm, cancel
}

func TestConnectionManager(t *testing.T) {
	t.Run("register and unregister connection", func(t *testing.T) {
		cm, _ := startManager(t)

		conn := &Connection{ID: "test-conn", Send: make(chan ports.UpdateEvent, 1)}
		require.True(t, cm.RegisterConnection(conn))
		assert.Eventually(t, func() bool { return cm.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

		cm.Unregister("test-conn")
		assert.Eventually(t, func() bool { return cm.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

		_, open := <-conn.Send
		assert.False(t, open, "send channel closed on unregister")
	})

	t.Run("broadcast reaches every connection", func(t *testing.T) {
		cm, _ := startManager(t)

		conns := make([]*Connection, 3)
		for i := range conns {
			conns[i] = &Connection{ID: string(rune('a' + i)), Send: make(chan ports.UpdateEvent, 4)}
			require.True(t, cm.RegisterConnection(conns[i]))
		}

		cm.Broadcast(ports.UpdateEvent{Type: ports.EventTypeDeckCreated, Timestamp: time.Now()})

		for _, conn := range conns {
			select {
			case event := <-conn.Send:
				assert.Equal(t, ports.EventTypeDeckCreated, event.Type)
			case <-time.After(time.Second):
				t.Fatalf("connection %s got no event", conn.ID)
			}
		}
	})

	t.Run("slow client is dropped", func(t *testing.T) {
		cm, _ := startManager(t)

		slow := &Connection{ID: "slow", Send: make(chan ports.UpdateEvent)}
		fast := &Connection{ID: "fast", Send: make(chan ports.UpdateEvent, 4)}
		require.True(t, cm.RegisterConnection(slow))
		require.True(t, cm.RegisterConnection(fast))

		cm.Broadcast(ports.UpdateEvent{Type: ports.EventTypeDeckDeleted})

		assert.Eventually(t, func() bool { return cm.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
		event := <-fast.Send
		assert.Equal(t, ports.EventTypeDeckDeleted, event.Type)

		// unregistering an already dropped client must not double close
		cm.Unregister("slow")
	})

	t.Run("close all", func(t *testing.T) {
		cm, _ := startManager(t)

		conn := &Connection{ID: "x", Send: make(chan ports.UpdateEvent, 1)}
		require.True(t, cm.RegisterConnection(conn))
		assert.Eventually(t, func() bool { return cm.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

		cm.CloseAll()
		assert.Equal(t, 0, cm.ClientCount())
		_, open := <-conn.Send
		assert.False(t, open)
	})
}

func TestConnectionManagerShutdown(t *testing.T) {
	cm, cancel := startManager(t)
	require.True(t, cm.RegisterConnection(&Connection{ID: "test", Send: make(chan ports.UpdateEvent, 1)}))
	cancel()
	<-cm.done

	done := make(chan struct{})
	go func() {
		// fill the buffer past capacity: none of these may block once stopped
		for i := 0; i < 300; i++ {
			cm.Broadcast(ports.UpdateEvent{Type: "test", Timestamp: time.Now()})
		}
		cm.Unregister("test")
		assert.False(t, cm.RegisterConnection(&Connection{ID: "late", Send: make(chan ports.UpdateEvent)}))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("manager calls hung after shutdown")
	}
}
