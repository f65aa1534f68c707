// Package redis provides the Redis-backed job queue for the codevox system.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/codevox/codevox-go/config"
	"github.com/codevox/codevox-go/internal/core"
	"github.com/codevox/codevox-go/internal/domain/model"
)

// envelope wraps a descriptor payload with a unique id so identical
// descriptors enqueued twice remain distinct list elements.
type envelope struct {
	ID   string          `json:"id"`
	Body json.RawMessage `json:"body"`
}

// QueueOptions groups the dependencies for NewQueue.
type QueueOptions struct {
	Client redis.UniversalClient
	Config config.QueueConfig
	Logger *slog.Logger
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Queue is an at-least-once job queue on Redis lists. Delivered entries
// sit on a processing list mirrored by an in-flight sorted set scored by
// their visibility deadline; entries whose deadline passed are moved back
// to pending on the next Receive.
type Queue struct {
	client     redis.UniversalClient
	namespace  string
	visibility time.Duration
	wait       time.Duration
	reclaim    int
	logger     *slog.Logger
	now        func() time.Time
}

// NewQueue creates a Redis-backed queue. The namespace prefixes every key
// so multiple deployments can share one Redis.
func NewQueue(opts QueueOptions) *Queue {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Queue{
		client:     opts.Client,
		namespace:  opts.Config.Namespace,
		visibility: opts.Config.VisibilityTimeout,
		wait:       opts.Config.ReceiveWait,
		reclaim:    opts.Config.ReclaimBatch,
		logger:     logger.With("component", "job_queue"),
		now:        now,
	}
}

func (q *Queue) pendingKey() string    { return q.namespace + ":pending" }
func (q *Queue) processingKey() string { return q.namespace + ":processing" }
func (q *Queue) inflightKey() string   { return q.namespace + ":inflight" }
func (q *Queue) deadKey() string       { return q.namespace + ":dead" }

// Enqueue pushes a job descriptor onto the pending list.
func (q *Queue) Enqueue(ctx context.Context, desc *model.JobDescriptor) error {
	if desc == nil {
		return errors.New("nil descriptor")
	}
	if err := desc.Validate(); err != nil {
		return fmt.Errorf("invalid descriptor: %w", err)
	}

	body, err := json.Marshal(desc)
	if err != nil {
		return fmt.Errorf("marshal descriptor: %w", err)
	}
	raw, err := json.Marshal(envelope{ID: uuid.NewString(), Body: body})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	if pushErr := q.client.LPush(ctx, q.pendingKey(), raw).Err(); pushErr != nil {
		return fmt.Errorf("redis lpush: %w", pushErr)
	}
	return nil
}

// Receive moves expired in-flight entries back to pending, then blocks up
// to the configured wait for the next pending entry. Returns nil when
// nothing arrived in time.
func (q *Queue) Receive(ctx context.Context) (*core.Message, error) {
	if err := q.reclaimExpired(ctx); err != nil {
		// Reclaim failure should not starve delivery; log and continue.
		q.logger.WarnContext(ctx, "failed to reclaim expired messages", "err", err)
	}

	raw, err := q.client.BLMove(ctx, q.pendingKey(), q.processingKey(), "RIGHT", "LEFT", q.wait).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis blmove: %w", err)
	}

	var env envelope
	if unmarshalErr := json.Unmarshal([]byte(raw), &env); unmarshalErr != nil {
		// Malformed entries can never be processed; park them immediately.
		q.logger.ErrorContext(ctx, "dead-lettering malformed queue entry", "err", unmarshalErr)
		if dlErr := q.moveTo(ctx, raw, q.deadKey()); dlErr != nil {
			return nil, fmt.Errorf("dead-letter malformed entry: %w", dlErr)
		}
		return nil, nil
	}

	deadline := q.now().Add(q.visibility)
	zaddErr := q.client.ZAdd(ctx, q.inflightKey(), redis.Z{
		Score:  float64(deadline.UnixMilli()),
		Member: raw,
	}).Err()
	if zaddErr != nil {
		return nil, fmt.Errorf("redis zadd inflight: %w", zaddErr)
	}

	return &core.Message{Receipt: raw, Payload: env.Body}, nil
}

// Ack removes a delivered message permanently.
func (q *Queue) Ack(ctx context.Context, msg *core.Message) error {
	return q.moveTo(ctx, msg.Receipt, "")
}

// Release returns a delivered message to the pending list for redelivery.
func (q *Queue) Release(ctx context.Context, msg *core.Message) error {
	return q.moveTo(ctx, msg.Receipt, q.pendingKey())
}

// DeadLetter parks a delivered message on the dead list.
func (q *Queue) DeadLetter(ctx context.Context, msg *core.Message) error {
	return q.moveTo(ctx, msg.Receipt, q.deadKey())
}

// moveTo removes the entry from the processing list and in-flight set, and
// pushes it onto dest when dest is non-empty.
func (q *Queue) moveTo(ctx context.Context, receipt, dest string) error {
	_, err := q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, q.processingKey(), 1, receipt)
		pipe.ZRem(ctx, q.inflightKey(), receipt)
		if dest != "" {
			pipe.LPush(ctx, dest, receipt)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis pipeline: %w", err)
	}
	return nil
}

// requeueScript requeues an expired in-flight entry only while it still
// sits on the processing list. Acking between the expiry scan and this
// call removes the list entry, so the guard prevents resurrecting an
// already-completed message.
var requeueScript = redis.NewScript(`
if redis.call("LREM", KEYS[1], 1, ARGV[1]) > 0 then
	redis.call("ZREM", KEYS[2], ARGV[1])
	redis.call("LPUSH", KEYS[3], ARGV[1])
	return 1
end
redis.call("ZREM", KEYS[2], ARGV[1])
return 0
`)

// adoptOrphans registers processing-list entries that never made it into
// the in-flight set (a consumer crashing between BLMOVE and ZADD) with a
// fresh visibility deadline, so reclaimExpired can see them. ZADD NX
// leaves deadlines already tracked by a live consumer untouched.
func (q *Queue) adoptOrphans(ctx context.Context) error {
	entries, err := q.client.LRange(ctx, q.processingKey(), 0, int64(q.reclaim)-1).Result()
	if err != nil {
		return fmt.Errorf("redis lrange: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	deadline := float64(q.now().Add(q.visibility).UnixMilli())
	adopted := int64(0)
	for _, raw := range entries {
		added, zaddErr := q.client.ZAddNX(ctx, q.inflightKey(), redis.Z{
			Score:  deadline,
			Member: raw,
		}).Result()
		if zaddErr != nil {
			return fmt.Errorf("redis zadd inflight: %w", zaddErr)
		}
		adopted += added
	}
	if adopted > 0 {
		q.logger.InfoContext(ctx, "adopted orphaned processing entries", "count", adopted)
	}
	return nil
}

// reclaimExpired moves entries whose visibility deadline passed from the
// processing list back to pending. The processing side may still finish
// its copy; the callback path deduplicates the resulting double report.
func (q *Queue) reclaimExpired(ctx context.Context) error {
	if err := q.adoptOrphans(ctx); err != nil {
		return err
	}

	nowMilli := strconv.FormatInt(q.now().UnixMilli(), 10)
	expired, err := q.client.ZRangeByScore(ctx, q.inflightKey(), &redis.ZRangeBy{
		Min:   "-inf",
		Max:   nowMilli,
		Count: int64(q.reclaim),
	}).Result()
	if err != nil {
		return fmt.Errorf("redis zrangebyscore: %w", err)
	}
	if len(expired) == 0 {
		return nil
	}

	requeued := 0
	keys := []string{q.processingKey(), q.inflightKey(), q.pendingKey()}
	for _, raw := range expired {
		moved, scriptErr := requeueScript.Run(ctx, q.client, keys, raw).Int()
		if scriptErr != nil {
			return fmt.Errorf("redis requeue script: %w", scriptErr)
		}
		requeued += moved
	}
	if requeued > 0 {
		q.logger.InfoContext(ctx, "reclaimed expired messages", "count", requeued)
	}
	return nil
}

// Depths returns the current size of each queue segment.
func (q *Queue) Depths(ctx context.Context) (*core.QueueDepths, error) {
	var (
		pending    *redis.IntCmd
		processing *redis.IntCmd
		inflight   *redis.IntCmd
		dead       *redis.IntCmd
	)
	_, err := q.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pending = pipe.LLen(ctx, q.pendingKey())
		processing = pipe.LLen(ctx, q.processingKey())
		inflight = pipe.ZCard(ctx, q.inflightKey())
		dead = pipe.LLen(ctx, q.deadKey())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis pipeline: %w", err)
	}
	return &core.QueueDepths{
		Pending:    pending.Val(),
		Processing: processing.Val(),
		Inflight:   inflight.Val(),
		Dead:       dead.Val(),
	}, nil
}
