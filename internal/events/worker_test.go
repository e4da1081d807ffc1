package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsyncPairDeliversThroughWorker(t *testing.T) {
	sink := NewInMemoryPublisher()
	publisher, worker := NewAsyncPair(sink, 8)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	event := New(TypeReviewCreated, time.Now(), "subject-1", "actor-1")
	require.NoError(t, publisher.Emit(ctx, event))

	require.Eventually(t, func() bool {
		return len(sink.Events()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, event.ID, sink.Events()[0].ID)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestAsyncPublisherDropsWhenFull(t *testing.T) {
	// No worker draining, buffer of one.
	publisher, _ := NewAsyncPair(NewInMemoryPublisher(), 1)

	ctx := context.Background()
	require.NoError(t, publisher.Emit(ctx, New(TypeViewRecorded, time.Now(), "s", "a")))
	require.ErrorIs(t, publisher.Emit(ctx, New(TypeViewRecorded, time.Now(), "s", "a")), ErrBufferFull)
}

func TestInMemoryPublisherSnapshots(t *testing.T) {
	sink := NewInMemoryPublisher()
	require.NoError(t, sink.Emit(context.Background(), New(TypeUserSignedUp, time.Now(), "u1", "u1")))

	snapshot := sink.Events()
	require.NoError(t, sink.Emit(context.Background(), New(TypeUserSignedUp, time.Now(), "u2", "u2")))
	assert.Len(t, snapshot, 1, "earlier snapshots must not grow")
	assert.Len(t, sink.Events(), 2)
}
