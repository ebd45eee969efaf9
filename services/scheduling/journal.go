package scheduling

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// IntentJournal records the terminal outcome of each intent id in Redis so a
// replayed intent (the voice layer retrying a dropped response) gets the
// recorded answer instead of a second scheduling attempt.
type IntentJournal struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *zap.Logger
}

func (j *IntentJournal) key(intentID string) string {
	return "intent:" + intentID
}

func (j *IntentJournal) logger() *zap.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return zap.NewNop()
}

// Lookup returns the recorded outcome for an intent id, if any. Journal
// errors degrade to a miss: worst case the attempt re-runs and the ledger's
// conflict check keeps it safe.
func (j *IntentJournal) Lookup(ctx context.Context, intentID string) (Outcome, bool) {
	data, err := j.Client.Get(ctx, j.key(intentID)).Result()
	if err == redis.Nil {
		return Outcome{}, false
	}
	if err != nil {
		j.logger().Warn("intent journal lookup failed", zap.String("intent_id", intentID), zap.Error(err))
		return Outcome{}, false
	}
	var out Outcome
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		j.logger().Warn("intent journal entry corrupt", zap.String("intent_id", intentID), zap.Error(err))
		return Outcome{}, false
	}
	return out, true
}

// Record stores the outcome best-effort.
func (j *IntentJournal) Record(ctx context.Context, intentID string, out Outcome) {
	data, err := json.Marshal(out)
	if err != nil {
		j.logger().Warn("failed to marshal outcome", zap.String("intent_id", intentID), zap.Error(err))
		return
	}
	ttl := j.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	if err := j.Client.Set(ctx, j.key(intentID), data, ttl).Err(); err != nil {
		j.logger().Warn("failed to record intent outcome", zap.String("intent_id", intentID), zap.Error(err))
	}
}
