package websocket

import (
	"testing"
	"time"

	"cropclassify/internal/logger"
)

func TestHub_BroadcastNeverBlocks(t *testing.T) {
	hub := NewHubService(logger.Discard())

	done := make(chan struct{})
	go func() {
		// Run is not started, so the queue fills and the rest are dropped.
		for i := 0; i < broadcastBuffer*2; i++ {
			hub.Broadcast([]byte("event"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked with a full queue")
	}
}

func TestHub_StopEndsRun(t *testing.T) {
	hub := NewHubService(logger.Discard())

	finished := make(chan struct{})
	go func() {
		hub.Run()
		close(finished)
	}()

	hub.Stop()
	hub.Stop()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
	if hub.GetClientCount() != 0 {
		t.Errorf("Expected 0 clients, got %d", hub.GetClientCount())
	}
}
