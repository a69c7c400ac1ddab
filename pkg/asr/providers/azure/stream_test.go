package azure

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWatchCancelExitsWhenStreamCloses(t *testing.T) {
	// ctx stays live, mirroring a long-running manager context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	closed := make(chan struct{})
	stopped := make(chan struct{}, 1)
	returned := make(chan struct{})

	go func() {
		watchCancel(ctx, closed, func() { stopped <- struct{}{} })
		close(returned)
	}()

	close(closed)

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("watcher must exit once the stream is closed")
	}
	assert.Empty(t, stopped, "closing the stream must not stop the recognizer again")
}

func TestWatchCancelStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	closed := make(chan struct{})
	stopped := make(chan struct{}, 1)

	go watchCancel(ctx, closed, func() { stopped <- struct{}{} })
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("cancelling the context must stop the recognizer")
	}
}
