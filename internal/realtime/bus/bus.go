// Package bus carries import notifications between processes: the CLI
// publishes after each committed file and a serving process drops its
// cached listings when one arrives.
package bus

import (
	"context"
	"sync"
	"time"
)

const DefaultChannel = "frayerstore:imports"

// ImportEvent announces a committed import transaction.
type ImportEvent struct {
	RunID  string    `json:"run_id"`
	Kind   string    `json:"kind"`
	Source string    `json:"source"`
	At     time.Time `json:"at"`
}

type Bus interface {
	Publish(ctx context.Context, ev ImportEvent) error
	StartForwarder(ctx context.Context, onEvent func(ev ImportEvent)) error
	// CrossProcess reports whether events published by another process
	// reach this bus's forwarders.
	CrossProcess() bool
	Close() error
}

// memoryBus delivers synchronously to forwarders in the same process.
type memoryBus struct {
	mu   sync.Mutex
	next int
	subs map[int]func(ImportEvent)
}

func NewMemoryBus() Bus {
	return &memoryBus{subs: map[int]func(ImportEvent){}}
}

func (b *memoryBus) Publish(_ context.Context, ev ImportEvent) error {
	b.mu.Lock()
	subs := make([]func(ImportEvent), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
	return nil
}

func (b *memoryBus) StartForwarder(ctx context.Context, onEvent func(ev ImportEvent)) error {
	if onEvent == nil {
		return errNoCallback
	}
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = onEvent
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}()
	return nil
}

func (b *memoryBus) CrossProcess() bool { return false }

func (b *memoryBus) Close() error {
	b.mu.Lock()
	b.subs = map[int]func(ImportEvent){}
	b.mu.Unlock()
	return nil
}
