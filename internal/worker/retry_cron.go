package worker

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const retryZSet = "jobs:retry"

// retryEntry pairs a failed job with its origin queue so the cron can push
// it back where it came from.
type retryEntry struct {
	Queue string `json:"queue"`
	Job   Job    `json:"job"`
}

func scheduleRetry(ctx context.Context, rdb *redis.Client, queue string, job Job, cause error) {
	// Exponential backoff: 10s, 20s, 40s...
	delay := time.Duration(10*math.Pow(2, float64(job.Attempts-1))) * time.Second
	entry := retryEntry{Queue: queue, Job: job}
	encoded, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal retry entry")
		return
	}
	score := float64(time.Now().Add(delay).Unix())
	if err := rdb.ZAdd(ctx, retryZSet, redis.Z{Score: score, Member: encoded}).Err(); err != nil {
		log.Error().Err(err).Str("job_id", job.ID).Msg("failed to schedule retry")
		return
	}
	log.Warn().
		Str("job_id", job.ID).
		Str("type", job.Type).
		Int("attempt", job.Attempts).
		Dur("delay", delay).
		Err(cause).
		Msg("job rescheduled")
}

// StartRetryCron moves due jobs from the retry set back into their queues.
// Runs every 30 seconds until ctx is cancelled.
func StartRetryCron(ctx context.Context, rdb *redis.Client) {
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				requeueDue(ctx, rdb)
			}
		}
	}()
}

func requeueDue(ctx context.Context, rdb *redis.Client) {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	entries, err := rdb.ZRangeByScore(ctx, retryZSet, &redis.ZRangeBy{Min: "0", Max: now}).Result()
	if err != nil {
		log.Error().Err(err).Msg("failed to scan retry set")
		return
	}
	for _, raw := range entries {
		var entry retryEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			rdb.ZRem(ctx, retryZSet, raw)
			continue
		}
		encoded, err := json.Marshal(entry.Job)
		if err != nil {
			rdb.ZRem(ctx, retryZSet, raw)
			continue
		}
		if err := rdb.LPush(ctx, entry.Queue, encoded).Err(); err != nil {
			log.Error().Err(err).Str("job_id", entry.Job.ID).Msg("failed to requeue job")
			continue
		}
		rdb.ZRem(ctx, retryZSet, raw)
		log.Info().Str("job_id", entry.Job.ID).Str("queue", entry.Queue).Msg("job requeued")
	}
}
