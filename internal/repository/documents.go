package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/iris/internal/lib/logger/sl"
	"github.com/UnknownOlympus/iris/internal/metrics"
	"github.com/UnknownOlympus/iris/internal/store"
	"github.com/jackc/pgx/v5"
)

// DocumentChannel is the NOTIFY channel the documents trigger publishes changed keys on.
const DocumentChannel = "document_changes"

const defaultRelistenDelay = 2 * time.Second

// DocumentRepository keeps JSON documents in PostgreSQL and follows their changes with LISTEN/NOTIFY.
type DocumentRepository struct {
	db       Database
	listener Listener
	metrics  *metrics.Metrics
	log      *slog.Logger

	RelistenDelay time.Duration
}

// NewDocumentRepository creates a document repository on db. listener provides the
// dedicated connections used by subscriptions.
func NewDocumentRepository(
	db Database,
	listener Listener,
	metrics *metrics.Metrics,
	log *slog.Logger,
) *DocumentRepository {
	return &DocumentRepository{
		db:            db,
		listener:      listener,
		metrics:       metrics,
		log:           log,
		RelistenDelay: defaultRelistenDelay,
	}
}

func (r *DocumentRepository) initLogger(opn, key string) *slog.Logger {
	return r.log.With(
		slog.String("op", opn),
		slog.String("division", "repository"),
		slog.String("key", key),
	)
}

// Get reads the document stored under key.
func (r *DocumentRepository) Get(ctx context.Context, key string) (store.Snapshot, error) {
	startTime := time.Now()
	defer func() {
		duration := time.Since(startTime).Seconds()
		r.metrics.StoreQueryDur.WithLabelValues("get_document").Observe(duration)
	}()
	query := `SELECT value FROM documents WHERE key = $1`

	var value []byte
	err := r.db.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.Snapshot{Key: key}, nil
	}
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("failed to get document: %w", err)
	}

	return store.Snapshot{Key: key, Value: value, Exists: true}, nil
}

// Set replaces the document stored under key.
func (r *DocumentRepository) Set(ctx context.Context, key string, value []byte) error {
	startTime := time.Now()
	defer func() {
		duration := time.Since(startTime).Seconds()
		r.metrics.StoreQueryDur.WithLabelValues("set_document").Observe(duration)
	}()
	query := `
		INSERT INTO documents (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP;
	`

	_, err := r.db.Exec(ctx, query, key, value)
	if err != nil {
		return fmt.Errorf("failed to set document: %w", err)
	}

	return nil
}

// Ping checks that the database is reachable.
func (r *DocumentRepository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// Subscribe delivers the current document under key, then every change to it, until
// the returned function is called or ctx is done. A lost LISTEN connection is
// re-established and the document re-read, so no change is missed for good.
func (r *DocumentRepository) Subscribe(
	ctx context.Context,
	key string,
	onValue func(store.Snapshot),
) (store.Unsubscribe, error) {
	const opn = "repository.Documents.Subscribe"
	log := r.initLogger(opn, key)

	// listen before the first read so a change between the two is not lost
	notifications, err := r.listener.Listen(ctx, DocumentChannel)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to document: %w", err)
	}

	snapshot, err := r.Get(ctx, key)
	if err != nil {
		notifications.Release()
		return nil, err
	}
	onValue(snapshot)

	subCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		r.follow(subCtx, log, key, notifications, onValue)
	}()

	return func() {
		cancel()
		<-done
	}, nil
}

func (r *DocumentRepository) follow(
	ctx context.Context,
	log *slog.Logger,
	key string,
	notifications Notifications,
	onValue func(store.Snapshot),
) {
	defer func() {
		if notifications != nil {
			notifications.Release()
		}
	}()

	for {
		notification, err := notifications.WaitForNotification(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			log.WarnContext(ctx, "Lost change notifications, listening again", sl.Err(err))
			notifications.Release()
			notifications = r.relisten(ctx, log)
			if notifications == nil {
				return
			}
			// catch up on whatever changed while the connection was down
			r.deliver(ctx, log, key, onValue)
			continue
		}

		if notification.Payload != key {
			continue
		}
		r.deliver(ctx, log, key, onValue)
	}
}

// relisten retries Listen until it succeeds or ctx is done.
func (r *DocumentRepository) relisten(ctx context.Context, log *slog.Logger) Notifications {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(r.RelistenDelay):
		}

		notifications, err := r.listener.Listen(ctx, DocumentChannel)
		if err == nil {
			log.InfoContext(ctx, "Listening for document changes again")
			return notifications
		}
		if ctx.Err() != nil {
			return nil
		}
		log.ErrorContext(ctx, "Failed to listen for document changes", sl.Err(err))
	}
}

func (r *DocumentRepository) deliver(
	ctx context.Context,
	log *slog.Logger,
	key string,
	onValue func(store.Snapshot),
) {
	snapshot, err := r.Get(ctx, key)
	if err != nil {
		if ctx.Err() == nil {
			log.ErrorContext(ctx, "Failed to read changed document", sl.Err(err))
		}
		return
	}
	onValue(snapshot)
}
