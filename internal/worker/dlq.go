package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DeadJob records the final state of a job that exhausted its retries.
type DeadJob struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	LastError string          `json:"last_error"`
	Attempts  int             `json:"attempts"`
	FailedAt  time.Time       `json:"failed_at"`
}

// SendToDLQ parks an exhausted job for manual inspection. DLQ entries are
// never reprocessed automatically.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue, jobType string, payload json.RawMessage, lastError string, attempts int) {
	dead := DeadJob{
		Type:      jobType,
		Payload:   payload,
		LastError: lastError,
		Attempts:  attempts,
		FailedAt:  time.Now(),
	}
	encoded, err := json.Marshal(dead)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal dead job")
		return
	}
	if err := rdb.LPush(ctx, "dlq:"+queue, encoded).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("failed to push job to DLQ")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("type", jobType).
		Int("attempts", attempts).
		Str("last_error", lastError).
		Msg("job moved to dead letter queue")
}
