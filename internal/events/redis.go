// internal/events/redis.go
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guanl20/Blocktrust/internal/models"
)

// RedisPublisher appends committed transactions to a Redis stream so that
// dashboards and indexers can follow the ledger without polling.
type RedisPublisher struct {
	client  *redis.Client
	stream  string
	maxLen  int64
	observe func(error)
}

type Option func(*RedisPublisher)

// WithObserver registers fn to be told the result of every publish.
func WithObserver(fn func(error)) Option {
	return func(p *RedisPublisher) {
		p.observe = fn
	}
}

// NewClient creates a Redis client and checks that it answers.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("events: ping: %w", err)
	}

	return client, nil
}

func NewRedisPublisher(client *redis.Client, stream string, maxLen int64, opts ...Option) *RedisPublisher {
	p := &RedisPublisher{
		client: client,
		stream: stream,
		maxLen: maxLen,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *RedisPublisher) Publish(ctx context.Context, transaction *models.Transaction) error {
	err := p.publish(ctx, transaction)
	if p.observe != nil {
		p.observe(err)
	}
	return err
}

func (p *RedisPublisher) publish(ctx context.Context, transaction *models.Transaction) error {
	metadata, err := json.Marshal(transaction.Metadata)
	if err != nil {
		return fmt.Errorf("events: encode metadata: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"transaction_id": strconv.FormatUint(transaction.ID, 10),
			"product_id":     strconv.FormatUint(transaction.ProductID, 10),
			"type":           string(transaction.Type),
			"status":         string(transaction.Status),
			"from":           transaction.FromAccount,
			"to":             transaction.ToAccount,
			"timestamp":      transaction.Timestamp.UTC().Format(time.RFC3339Nano),
			"metadata":       string(metadata),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("events: xadd %s: %w", p.stream, err)
	}
	return nil
}
