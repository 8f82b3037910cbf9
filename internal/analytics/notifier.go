package analytics

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/trstyle/storefront-services/pkg/logger"
)

// Notifier is the fire-and-forget analytics side channel. Implementations
// must never block the caller on failures or surface errors to it.
type Notifier interface {
	Notify(ctx context.Context, event string, params map[string]interface{})
}

// RedisNotifier appends events to a Redis stream so a downstream consumer
// can forward them to whatever analytics backend is configured.
type RedisNotifier struct {
	client *redis.Client
	stream string
}

// NewRedisNotifier creates a stream-backed notifier. Stream may be empty;
// it defaults to "analytics:events".
func NewRedisNotifier(client *redis.Client, stream string) *RedisNotifier {
	if stream == "" {
		stream = "analytics:events"
	}
	return &RedisNotifier{client: client, stream: stream}
}

func (n *RedisNotifier) Notify(ctx context.Context, event string, params map[string]interface{}) {
	values := map[string]interface{}{"event": event}
	for k, v := range params {
		values[k] = v
	}
	if err := n.client.XAdd(ctx, &redis.XAddArgs{Stream: n.stream, Values: values}).Err(); err != nil {
		// best effort only
		logger.Debugf("analytics: dropping event %q: %v", event, err)
	}
}

// LogNotifier writes events to the application log. Used when Redis is not
// configured so event flow stays visible in development.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, event string, params map[string]interface{}) {
	logger.Debugf("analytics: event=%s params=%v", event, params)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) Notify(ctx context.Context, event string, params map[string]interface{}) {}
