// Package store keeps a local mirror of one remote document and pushes local writes back to it.
package store

import (
	"context"
	"errors"
)

// ErrClosed is returned when a handle or remote is used after Close.
var ErrClosed = errors.New("store is closed")

// Snapshot is the state of one remote key at a point in time.
// Exists is false when nothing is stored under the key.
type Snapshot struct {
	Key    string
	Value  []byte
	Exists bool
}

// Unsubscribe stops a subscription. It is safe to call more than once.
type Unsubscribe func()

// Remote is a key-value document service that pushes change notifications.
type Remote interface {
	// Set overwrites the whole value under key. Every subscriber of key is notified,
	// including subscribers in the calling process.
	Set(ctx context.Context, key string, value []byte) error
	// Subscribe delivers the current snapshot of key and then one snapshot per change,
	// until the returned Unsubscribe is called or ctx is done.
	Subscribe(ctx context.Context, key string, onValue func(Snapshot)) (Unsubscribe, error)
}
