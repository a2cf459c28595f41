package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/iris/internal/lib/logger/sl"
	"github.com/UnknownOlympus/iris/internal/metrics"
)

// Handle is a live, JSON-decoded mirror of one remote key.
//
// The mirror starts at the initial value and is loading until the first remote
// snapshot arrives. Local writes replace the whole remote value and update the
// mirror even when the remote write fails; the two converge again on the next
// remote change. Concurrent writers overwrite each other (last writer wins).
type Handle[T any] struct {
	log     *slog.Logger
	remote  Remote
	metrics *metrics.Metrics
	key     string
	initial T

	mu        sync.RWMutex
	value     T
	loading   bool
	ready     chan struct{}
	listeners map[int]func(T)
	nextID    int
	closed    bool
	unsub     Unsubscribe
}

// Open subscribes to key on remote and returns a handle seeded with initial.
func Open[T any](
	ctx context.Context,
	log *slog.Logger,
	remote Remote,
	key string,
	initial T,
	metrics *metrics.Metrics,
) (*Handle[T], error) {
	handle := &Handle[T]{
		log:       log,
		remote:    remote,
		metrics:   metrics,
		key:       key,
		initial:   initial,
		value:     initial,
		loading:   true,
		ready:     make(chan struct{}),
		listeners: make(map[int]func(T)),
	}

	unsub, err := remote.Subscribe(ctx, key, handle.Notify)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %q: %w", key, err)
	}

	handle.mu.Lock()
	handle.unsub = unsub
	handle.mu.Unlock()

	return handle, nil
}

func (h *Handle[T]) initLogger(opn string) *slog.Logger {
	return h.log.With(
		slog.String("op", opn),
		slog.String("division", "store"),
		slog.String("key", h.key),
	)
}

// Key returns the remote key mirrored by the handle.
func (h *Handle[T]) Key() string {
	return h.key
}

// Value returns the current mirror. Callers must not modify it.
func (h *Handle[T]) Value() T {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.value
}

// Loading reports whether the first remote snapshot is still outstanding.
func (h *Handle[T]) Loading() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.loading
}

// Ready is closed once the first remote snapshot has been applied.
func (h *Handle[T]) Ready() <-chan struct{} {
	return h.ready
}

// WaitReady blocks until the first snapshot arrives or ctx is done.
func (h *Handle[T]) WaitReady(ctx context.Context) error {
	select {
	case <-h.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for %q: %w", h.key, ctx.Err())
	}
}

// Notify applies a remote snapshot to the mirror. An empty remote key resets the
// mirror to the initial value.
func (h *Handle[T]) Notify(snapshot Snapshot) {
	const opn = "Store.Notify"
	log := h.initLogger(opn)

	value := h.initial
	if snapshot.Exists && !isEmptyDocument(snapshot.Value) {
		var decoded T
		if err := json.Unmarshal(snapshot.Value, &decoded); err != nil {
			log.Error("Remote value is not valid JSON, using initial value", sl.Err(err))
		} else {
			value = decoded
		}
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.value = value
	if h.loading {
		h.loading = false
		close(h.ready)
		log.Debug("Initial snapshot received")
	}
	listeners := h.copyListeners()
	h.mu.Unlock()

	h.metrics.SnapshotsReceived.WithLabelValues(h.key).Inc()
	h.metrics.LastSnapshot.WithLabelValues(h.key).Set(float64(time.Now().Unix()))

	for _, fn := range listeners {
		fn(value)
	}
}

// Write overwrites the remote value with value and then updates the mirror.
// A failed remote write is logged and returned, but the mirror keeps value.
func (h *Handle[T]) Write(ctx context.Context, value T) error {
	const opn = "Store.Write"
	log := h.initLogger(opn)

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for %q: %w", h.key, err)
	}

	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	setErr := h.remote.Set(ctx, h.key, payload)

	h.mu.Lock()
	h.value = value
	listeners := h.copyListeners()
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(value)
	}

	if setErr != nil {
		h.metrics.StoreWrites.WithLabelValues("failure").Inc()
		log.ErrorContext(ctx, "Failed to save to remote store, keeping local value", sl.Err(setErr))
		return fmt.Errorf("failed to write %q: %w", h.key, setErr)
	}

	h.metrics.StoreWrites.WithLabelValues("success").Inc()
	log.DebugContext(ctx, "Value written", "bytes", len(payload))

	return nil
}

// Subscribe registers fn to be called with every new mirror value.
func (h *Handle[T]) Subscribe(fn func(T)) Unsubscribe {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.listeners[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

// Close releases the remote subscription and drops local listeners.
func (h *Handle[T]) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	unsub := h.unsub
	h.listeners = make(map[int]func(T))
	h.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	h.initLogger("Store.Close").Debug("Subscription released")
}

// copyListeners must be called with h.mu held.
func (h *Handle[T]) copyListeners() []func(T) {
	out := make([]func(T), 0, len(h.listeners))
	for _, fn := range h.listeners {
		out = append(out, fn)
	}
	return out
}

func isEmptyDocument(value []byte) bool {
	trimmed := bytes.TrimSpace(value)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
