package handlers

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientManager_Registry(t *testing.T) {
	cm := NewClientManager(zerolog.Nop())
	h := &ClientHandler{}

	cm.AddClient("p1", h)
	assert.Same(t, h, cm.Client("p1"))
	assert.Nil(t, cm.Client("ghost"))

	cm.RemoveClient("p1")
	assert.Nil(t, cm.Client("p1"))
}

func TestExecuteOnAllClients_RunsWithoutHoldingLock(t *testing.T) {
	cm := NewClientManager(zerolog.Nop())
	cm.AddClient("p1", &ClientHandler{})
	cm.AddClient("p2", &ClientHandler{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		visited := 0
		cm.ExecuteOnAllClients(func(*ClientHandler) {
			visited++
			// Re-entering the manager from a callback must not block on
			// the iteration itself.
			cm.AddClient("late", &ClientHandler{})
			cm.Client("p1")
		})
		assert.Equal(t, 2, visited)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("ExecuteOnAllClients held its lock across callbacks")
	}
	require.NotNil(t, cm.Client("late"))
}
