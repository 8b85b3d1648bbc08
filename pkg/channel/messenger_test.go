package channel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendUpdateDelivers(t *testing.T) {
	ch := make(chan Update)
	go func() {
		assert.True(t, sendUpdate(context.Background(), ch, Update{Text: "hi"}))
	}()
	select {
	case u := <-ch:
		assert.Equal(t, "hi", u.Text)
	case <-time.After(time.Second):
		t.Fatal("update never delivered")
	}
}

func TestSendUpdateReleasesProducerOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan Update) // no consumer, as after runBot exits

	blocked := make(chan bool, 1)
	go func() {
		blocked <- sendUpdate(ctx, ch, Update{Text: "late"})
	}()

	cancel()
	select {
	case delivered := <-blocked:
		assert.False(t, delivered)
	case <-time.After(time.Second):
		t.Fatal("producer still blocked after cancellation")
	}
}

func TestSendUpdateConcurrentProducersDrain(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan Update)

	// Several library goroutines in flight, consumer gone: all must
	// return once the context is cancelled, none may touch a closed
	// channel.
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		go func() {
			sendUpdate(ctx, ch, Update{Text: "x"})
			done <- struct{}{}
		}()
	}
	cancel()
	for i := 0; i < 5; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("producer leaked")
		}
	}
	require.Empty(t, ch)
}
