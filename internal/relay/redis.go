// Package relay forwards committed events to external consumers. The
// in-process bus stays the authoritative fan-out; the relay is an optional
// bridge out of the process.
package relay

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/elissongarcia/personal-finance-management/internal/eventlog"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultStream = "ledger.events"

// Redis appends every committed event to a Redis stream. Delivery inherits
// the bus's at-least-once semantics, so stream consumers must dedupe on
// (aggregate_id, seq).
type Redis struct {
	client *redis.Client
	stream string
	log    *zap.Logger
}

func NewRedis(client *redis.Client, stream string, log *zap.Logger) *Redis {
	if stream == "" {
		stream = defaultStream
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Redis{client: client, stream: stream, log: log}
}

func (r *Redis) Name() string { return "redis-relay" }

func (r *Redis) HandleRecord(ctx context.Context, rec eventlog.Record) error {
	err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]any{
			"aggregate_id": rec.AggregateID,
			"seq":          strconv.FormatInt(rec.Seq, 10),
			"kind":         rec.Kind,
			"payload":      string(rec.Payload),
			"revision":     rec.Revision,
			"recorded_at":  rec.RecordedAt.Format(time.RFC3339Nano),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("relay %s seq %d: %w", rec.AggregateID, rec.Seq, err)
	}
	return nil
}
