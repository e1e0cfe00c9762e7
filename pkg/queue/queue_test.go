package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(t *testing.T) (*Queue, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewQueue(client, nil), mr
}

func TestEnqueueAndDequeue(t *testing.T) {
	q, _ := newTestQueue(t)
	ctx := context.Background()
	payload := BookingConfirmationPayload{
		BookingID: uuid.New(),
		EventID:   uuid.New(),
		EventSlug: "go-conf",
		Email:     "ada@example.com",
	}
	require.NoError(t, q.EnqueueBookingConfirmation(ctx, payload))

	job, key, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, QueueBookingConfirmations, key)
	assert.Equal(t, JobTypeBookingConfirmation, job.Type)
	assert.Zero(t, job.Attempt)

	var got BookingConfirmationPayload
	require.NoError(t, json.Unmarshal(job.Payload, &got))
	assert.Equal(t, payload, got)
}

func TestDequeue_InvalidEntryIsDropped(t *testing.T) {
	q, mr := newTestQueue(t)
	_, err := mr.Push(QueueBookingConfirmations, "{not json")
	require.NoError(t, err)

	job, _, err := q.Dequeue(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Nil(t, job)
	assert.False(t, mr.Exists(QueueBookingConfirmations))
}

func TestRetry_MovesToDLQAfterMaxRetries(t *testing.T) {
	q, mr := newTestQueue(t)
	ctx := context.Background()
	job := &Job{ID: "job-1", Type: JobTypeBookingConfirmation, Payload: json.RawMessage(`{}`)}

	for i := 1; i < MaxRetries; i++ {
		require.NoError(t, q.Retry(ctx, job))
		list, err := mr.List(QueueBookingConfirmations)
		require.NoError(t, err)
		assert.Len(t, list, i)
	}
	require.NoError(t, q.Retry(ctx, job))
	assert.Equal(t, MaxRetries, job.Attempt)

	dlq, err := mr.List(QueueDLQ)
	require.NoError(t, err)
	require.Len(t, dlq, 1)
	var dead Job
	require.NoError(t, json.Unmarshal([]byte(dlq[0]), &dead))
	assert.Equal(t, "job-1", dead.ID)
}
