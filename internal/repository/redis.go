package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/iris/internal/config"
	"github.com/UnknownOlympus/iris/internal/lib/logger/sl"
	"github.com/UnknownOlympus/iris/internal/metrics"
	"github.com/UnknownOlympus/iris/internal/store"
	"github.com/redis/go-redis/v9"
)

// MessageSource opens pub/sub subscriptions.
type MessageSource interface {
	Open(ctx context.Context, channel string) (Messages, error)
}

// Messages is one open pub/sub subscription. Channel yields *redis.Message for
// published changes and *redis.Subscription when the connection is resubscribed.
type Messages interface {
	Channel() <-chan any
	Close() error
}

// NewRedisClient connects to Redis, retrying the initial ping up to maxRetries times.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, maxRetries int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	var lastErr error
	for i := 1; i <= maxRetries; i++ {
		if lastErr = rdb.Ping(ctx).Err(); lastErr == nil {
			return rdb, nil
		}

		select {
		case <-ctx.Done():
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", ctx.Err())
		case <-time.After(time.Second):
		}
	}

	_ = rdb.Close()
	return nil, fmt.Errorf("failed to connect to redis after %d attempts: %w", maxRetries, lastErr)
}

// RedisDocuments keeps JSON documents as Redis strings and announces every write on a
// per-key pub/sub channel.
type RedisDocuments struct {
	client  redis.Cmdable
	source  MessageSource
	prefix  string
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewRedisDocuments creates a Redis document backend. Keys are stored as prefix+key and
// changes are published on prefix+"changes:"+key.
func NewRedisDocuments(
	client redis.Cmdable,
	source MessageSource,
	prefix string,
	metrics *metrics.Metrics,
	log *slog.Logger,
) *RedisDocuments {
	return &RedisDocuments{
		client:  client,
		source:  source,
		prefix:  prefix,
		metrics: metrics,
		log:     log,
	}
}

// DocumentKey returns the Redis key holding the document for key.
func (r *RedisDocuments) DocumentKey(key string) string {
	return r.prefix + key
}

// ChangesChannel returns the pub/sub channel announcing writes to key.
func (r *RedisDocuments) ChangesChannel(key string) string {
	return r.prefix + "changes:" + key
}

// Get reads the document stored under key.
func (r *RedisDocuments) Get(ctx context.Context, key string) (store.Snapshot, error) {
	startTime := time.Now()
	defer func() {
		duration := time.Since(startTime).Seconds()
		r.metrics.StoreQueryDur.WithLabelValues("get_document").Observe(duration)
	}()

	value, err := r.client.Get(ctx, r.DocumentKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return store.Snapshot{Key: key}, nil
	}
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("failed to get document: %w", err)
	}

	return store.Snapshot{Key: key, Value: value, Exists: true}, nil
}

// Set replaces the document stored under key and publishes the change.
func (r *RedisDocuments) Set(ctx context.Context, key string, value []byte) error {
	startTime := time.Now()
	defer func() {
		duration := time.Since(startTime).Seconds()
		r.metrics.StoreQueryDur.WithLabelValues("set_document").Observe(duration)
	}()

	if err := r.client.Set(ctx, r.DocumentKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set document: %w", err)
	}

	if err := r.client.Publish(ctx, r.ChangesChannel(key), key).Err(); err != nil {
		return fmt.Errorf("failed to publish document change: %w", err)
	}

	return nil
}

// Ping checks that Redis is reachable.
func (r *RedisDocuments) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

// Subscribe delivers the current document under key, then re-reads and delivers it
// after every published change and after every resubscription, until the returned
// function is called or ctx is done.
func (r *RedisDocuments) Subscribe(
	ctx context.Context,
	key string,
	onValue func(store.Snapshot),
) (store.Unsubscribe, error) {
	const opn = "repository.Redis.Subscribe"
	log := r.log.With(
		slog.String("op", opn),
		slog.String("division", "repository"),
		slog.String("key", key),
	)

	messages, err := r.source.Open(ctx, r.ChangesChannel(key))
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to document: %w", err)
	}

	snapshot, err := r.Get(ctx, key)
	if err != nil {
		_ = messages.Close()
		return nil, err
	}
	onValue(snapshot)

	subCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer func() { _ = messages.Close() }()

		changes := messages.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-changes:
				if !ok {
					log.WarnContext(subCtx, "Change channel closed")
					return
				}

				switch msg := msg.(type) {
				case *redis.Message:
				case *redis.Subscription:
					// Changes published while the connection was down are lost.
					if msg.Kind != "subscribe" {
						continue
					}
					log.InfoContext(subCtx, "Resubscribed, reading document again", slog.String("channel", msg.Channel))
				default:
					continue
				}

				snapshot, err := r.Get(subCtx, key)
				if err != nil {
					if subCtx.Err() == nil {
						log.ErrorContext(subCtx, "Failed to read changed document", sl.Err(err))
					}
					continue
				}
				onValue(snapshot)
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}, nil
}

// ClientMessageSource opens subscriptions on a Redis client.
type ClientMessageSource struct {
	client *redis.Client
}

func NewClientMessageSource(client *redis.Client) *ClientMessageSource {
	return &ClientMessageSource{client: client}
}

// Open subscribes to channel and waits for the server to confirm it.
func (s *ClientMessageSource) Open(ctx context.Context, channel string) (Messages, error) {
	pubsub := s.client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	return &pubSubMessages{pubsub: pubsub}, nil
}

type pubSubMessages struct {
	pubsub *redis.PubSub
}

func (m *pubSubMessages) Channel() <-chan any {
	return m.pubsub.ChannelWithSubscriptions()
}

func (m *pubSubMessages) Close() error {
	return m.pubsub.Close() //nolint:wrapcheck // nothing to add
}
