// Package notify publishes relay outcomes to a Redis list for downstream
// consumers.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/go-sod/vrelay/internal/logging"
	"github.com/go-sod/vrelay/internal/relay"
)

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Event is the msgpack record pushed once per relay run.
type Event struct {
	ID           string `msgpack:"id"`
	Status       string `msgpack:"status"`
	VehicleCount int    `msgpack:"vehicle_count"`
	SinkStatus   int    `msgpack:"sink_status"`
	Error        string `msgpack:"error,omitempty"`
	DurationMs   int64  `msgpack:"duration_ms"`
	TimestampMs  int64  `msgpack:"timestamp_ms"`
}

func NewEvent(res relay.Result, err error) Event {
	e := Event{
		ID:           uuid.New().String(),
		Status:       StatusCompleted,
		VehicleCount: res.VehicleCount,
		SinkStatus:   res.SinkStatus,
		DurationMs:   res.Duration.Milliseconds(),
		TimestampMs:  time.Now().UnixMilli(),
	}
	if err != nil {
		e.Status = StatusFailed
		e.Error = err.Error()
	}
	return e
}

var _ relay.Observer = (*Publisher)(nil)

// New connects to the Redis instance at rawURL, e.g. redis://127.0.0.1/0.
func New(ctx context.Context, rawURL, queue string) (*Publisher, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("unable reach redis: %w", err)
	}
	return NewWithClient(rdb, queue), nil
}

func NewWithClient(rdb *redis.Client, queue string) *Publisher {
	return &Publisher{rdb: rdb, queue: queue}
}

type Publisher struct {
	rdb   *redis.Client
	queue string
}

func (p *Publisher) Publish(ctx context.Context, e Event) error {
	b, err := msgpack.Marshal(&e)
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}
	if err := p.rdb.RPush(ctx, p.queue, b).Err(); err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", p.queue, err)
	}
	return nil
}

// Observe publishes the run outcome. Publish failures are logged and never
// change the outcome of the run.
func (p *Publisher) Observe(ctx context.Context, res relay.Result, err error) {
	logger := logging.FromContext(ctx)
	e := NewEvent(res, err)
	if pubErr := p.Publish(ctx, e); pubErr != nil {
		logger.Errorf("notify: %v", pubErr)
		return
	}
	logger.Debugf("published event %s to queue %s", e.ID, p.queue)
}

func (p *Publisher) Close() error {
	return p.rdb.Close()
}
