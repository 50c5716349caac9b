package bus

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomadicTree/frayerstore/internal/platform/logger"
)

func TestMemoryBusDelivers(t *testing.T) {
	b := NewMemoryBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []ImportEvent
	require.NoError(t, b.StartForwarder(ctx, func(ev ImportEvent) { got = append(got, ev) }))
	require.NoError(t, b.Publish(ctx, ImportEvent{RunID: "r1", Kind: "catalog"}))
	require.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].RunID)

	assert.Error(t, b.StartForwarder(ctx, nil))
}

func TestMemoryBusForwarderStopsWithContext(t *testing.T) {
	b := NewMemoryBus().(*memoryBus)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, b.StartForwarder(ctx, func(ImportEvent) {}))
	cancel()

	assert.Eventually(t, func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		return len(b.subs) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestNewBusWithoutAddressIsInProcess(t *testing.T) {
	b, err := NewBus(logger.Nop(), "  ", "")
	require.NoError(t, err)
	_, ok := b.(*memoryBus)
	assert.True(t, ok)
	assert.False(t, b.CrossProcess())
}

// Needs a reachable server; set REDIS_ADDR to run it.
func TestRedisBusRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	b, err := NewRedisBus(logger.Nop(), addr, "frayerstore:test:"+time.Now().Format("150405.000"))
	require.NoError(t, err)
	defer b.Close()
	assert.True(t, b.CrossProcess())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	got := make(chan ImportEvent, 1)
	require.NoError(t, b.StartForwarder(ctx, func(ev ImportEvent) { got <- ev }))
	require.NoError(t, b.Publish(ctx, ImportEvent{RunID: "r2", Kind: "words"}))

	select {
	case ev := <-got:
		assert.Equal(t, "words", ev.Kind)
	case <-ctx.Done():
		t.Fatal("no event received")
	}
}
