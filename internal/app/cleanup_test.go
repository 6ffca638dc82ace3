package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tindahan/tindahan/jobs"
)

type stubEnqueuer struct {
	payloads []jobs.NotifyCleanupPayload
	err      error
}

func (s *stubEnqueuer) EnqueueNotifyCleanup(ctx context.Context, payload jobs.NotifyCleanupPayload) (*asynq.TaskInfo, error) {
	s.payloads = append(s.payloads, payload)
	if s.err != nil {
		return nil, s.err
	}
	return &asynq.TaskInfo{ID: "task-123"}, nil
}

func TestNotifyCleanupTriggerEnqueuesSweep(t *testing.T) {
	enqueuer := &stubEnqueuer{}
	handler := notifyCleanupTrigger(nil, enqueuer, 14)

	req := httptest.NewRequest(http.MethodPost, "/admin/notifications/cleanup", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), "task-123")
	require.Len(t, enqueuer.payloads, 1)
	assert.Equal(t, 14, enqueuer.payloads[0].RetentionDays)
}

func TestNotifyCleanupTriggerReportsQueueFailure(t *testing.T) {
	enqueuer := &stubEnqueuer{err: errors.New("redis down")}
	handler := notifyCleanupTrigger(nil, enqueuer, 30)

	req := httptest.NewRequest(http.MethodPost, "/admin/notifications/cleanup", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not enqueue")
}
