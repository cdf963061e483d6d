package repository

import (
	"context"
	"fmt"
	"maps"
	"sync"
)

// memoryBackend keeps the ledger in process memory. A single-slot semaphore
// is held from Begin until Commit or Rollback.
type memoryBackend struct {
	sem  chan struct{}
	mu   sync.RWMutex
	data map[string]string
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{
		sem:  make(chan struct{}, 1),
		data: make(map[string]string),
	}
}

func (b *memoryBackend) Name() string {
	return "memory"
}

func (b *memoryBackend) Begin(ctx context.Context) (kvTx, error) {
	select {
	case b.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for ledger lock: %w", ctx.Err())
	}
	return &memoryTx{backend: b, staged: make(map[string]string)}, nil
}

type memoryTx struct {
	backend *memoryBackend
	staged  map[string]string
	done    bool
}

func (t *memoryTx) Get(_ context.Context, key string) (string, bool, error) {
	if t.done {
		return "", false, fmt.Errorf("transaction already finished")
	}
	if v, ok := t.staged[key]; ok {
		return v, true, nil
	}
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	v, ok := t.backend.data[key]
	return v, ok, nil
}

func (t *memoryTx) Set(_ context.Context, key, value string) error {
	if t.done {
		return fmt.Errorf("transaction already finished")
	}
	t.staged[key] = value
	return nil
}

func (t *memoryTx) Commit(_ context.Context) error {
	if t.done {
		return fmt.Errorf("transaction already finished")
	}
	t.backend.mu.Lock()
	maps.Copy(t.backend.data, t.staged)
	t.backend.mu.Unlock()
	t.finish()
	return nil
}

func (t *memoryTx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.finish()
	return nil
}

func (t *memoryTx) finish() {
	t.done = true
	t.staged = nil
	<-t.backend.sem
}
