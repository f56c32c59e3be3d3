package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb, mr
}

// stubHandler fails a configurable number of times before succeeding. The
// mutex keeps it safe when a pool goroutine drives it.
type stubHandler struct {
	mu        sync.Mutex
	failures  int
	processed []json.RawMessage
}

func (h *stubHandler) Process(_ context.Context, payload json.RawMessage) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failures > 0 {
		h.failures--
		return errors.New("transient failure")
	}
	h.processed = append(h.processed, payload)
	return nil
}

func (h *stubHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.processed)
}

func TestDispatcher_EnqueueReceipt(t *testing.T) {
	rdb, _ := testRedis(t)
	d := NewDispatcher(rdb)
	ctx := context.Background()

	err := d.EnqueueReceipt(ctx, ReceiptJobPayload{InvoiceID: 42, CustomerEmail: "a@b.com"})
	require.NoError(t, err)

	raw, err := rdb.RPop(ctx, QueueReceipt).Result()
	require.NoError(t, err)

	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "receipt", job.Type)
	assert.Zero(t, job.Attempts)

	var payload ReceiptJobPayload
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Equal(t, int64(42), payload.InvoiceID)
}

func TestProcessJob_SuccessConsumesJob(t *testing.T) {
	rdb, _ := testRedis(t)
	ctx := context.Background()
	handler := &stubHandler{}
	handlers := &WorkerHandlers{Report: handler}

	job := Job{ID: "j1", Type: "report", Payload: json.RawMessage(`{"job_id":"j1"}`)}
	raw, _ := json.Marshal(job)
	processJob(ctx, rdb, handlers, QueueReport, string(raw))

	require.Len(t, handler.processed, 1)
	assert.Zero(t, rdb.ZCard(ctx, retryZSet).Val())
	assert.Zero(t, rdb.LLen(ctx, "dlq:"+QueueReport).Val())
}

func TestProcessJob_FailureSchedulesRetry(t *testing.T) {
	rdb, _ := testRedis(t)
	ctx := context.Background()
	handlers := &WorkerHandlers{Email: &stubHandler{failures: 10}}

	job := Job{ID: "j2", Type: "email", Payload: json.RawMessage(`{}`)}
	raw, _ := json.Marshal(job)
	processJob(ctx, rdb, handlers, QueueEmail, string(raw))

	entries, err := rdb.ZRangeWithScores(ctx, retryZSet, 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	var entry retryEntry
	require.NoError(t, json.Unmarshal([]byte(entries[0].Member.(string)), &entry))
	assert.Equal(t, QueueEmail, entry.Queue)
	assert.Equal(t, 1, entry.Job.Attempts)
	// First retry lands ~10s out
	assert.InDelta(t, float64(time.Now().Add(10*time.Second).Unix()), entries[0].Score, 2)
}

func TestProcessJob_ExhaustedAttemptsGoToDLQ(t *testing.T) {
	rdb, _ := testRedis(t)
	ctx := context.Background()
	handlers := &WorkerHandlers{Receipt: &stubHandler{failures: 10}}

	job := Job{ID: "j3", Type: "receipt", Attempts: MaxJobAttempts - 1, Payload: json.RawMessage(`{}`)}
	raw, _ := json.Marshal(job)
	processJob(ctx, rdb, handlers, QueueReceipt, string(raw))

	assert.Zero(t, rdb.ZCard(ctx, retryZSet).Val())
	deadRaw, err := rdb.RPop(ctx, "dlq:"+QueueReceipt).Result()
	require.NoError(t, err)

	var dead DeadJob
	require.NoError(t, json.Unmarshal([]byte(deadRaw), &dead))
	assert.Equal(t, "receipt", dead.Type)
	assert.Equal(t, MaxJobAttempts, dead.Attempts)
	assert.Equal(t, "transient failure", dead.LastError)
}

func TestRequeueDue_MovesOnlyDueJobs(t *testing.T) {
	rdb, _ := testRedis(t)
	ctx := context.Background()

	due := retryEntry{Queue: QueueReceipt, Job: Job{ID: "due", Type: "receipt", Attempts: 1, Payload: json.RawMessage(`{}`)}}
	future := retryEntry{Queue: QueueReceipt, Job: Job{ID: "future", Type: "receipt", Attempts: 1, Payload: json.RawMessage(`{}`)}}
	dueRaw, _ := json.Marshal(due)
	futureRaw, _ := json.Marshal(future)
	rdb.ZAdd(ctx, retryZSet, redis.Z{Score: float64(time.Now().Add(-time.Minute).Unix()), Member: dueRaw})
	rdb.ZAdd(ctx, retryZSet, redis.Z{Score: float64(time.Now().Add(time.Hour).Unix()), Member: futureRaw})

	requeueDue(ctx, rdb)

	raw, err := rdb.RPop(ctx, QueueReceipt).Result()
	require.NoError(t, err)
	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Equal(t, "due", job.ID)
	assert.Equal(t, 1, job.Attempts)

	// The future job stays parked
	assert.Equal(t, int64(1), rdb.ZCard(ctx, retryZSet).Val())
	assert.Zero(t, rdb.LLen(ctx, QueueReceipt).Val())
}

func TestWorkerPool_EndToEnd(t *testing.T) {
	rdb, _ := testRedis(t)
	handler := &stubHandler{}
	handlers := &WorkerHandlers{Receipt: handler}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartWorkerPool(ctx, rdb, handlers, 1)

	d := NewDispatcher(rdb)
	require.NoError(t, d.EnqueueReceipt(ctx, ReceiptJobPayload{InvoiceID: 1}))

	assert.Eventually(t, func() bool { return handler.count() == 1 }, 3*time.Second, 20*time.Millisecond)
}
