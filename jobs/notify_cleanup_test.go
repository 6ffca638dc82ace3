package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/tindahan/tindahan/internal/notify"
	"github.com/tindahan/tindahan/internal/rbac"
)

type mockPruner struct {
	removed int64
	err     error
	cutoff  time.Time
}

func (m *mockPruner) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.cutoff = cutoff
	return m.removed, m.err
}

type mockAnnouncer struct {
	calls   int
	role    string
	payload notify.Payload
}

func (m *mockAnnouncer) DeliverToRole(_ context.Context, role string, payload notify.Payload) (notify.Report, error) {
	m.calls++
	m.role = role
	m.payload = payload
	return notify.Report{Attempted: 1}, nil
}

func cleanupTask(t *testing.T, payload NotifyCleanupPayload) *asynq.Task {
	t.Helper()
	task, err := NewNotifyCleanupTask(payload)
	require.NoError(t, err)
	return task
}

func TestNotifyCleanupSweepsAndAnnounces(t *testing.T) {
	pruner := &mockPruner{removed: 12}
	announcer := &mockAnnouncer{}
	handler := NewNotifyCleanupHandler(NotifyCleanupDeps{Pruner: pruner, Announcer: announcer})

	err := handler(context.Background(), cleanupTask(t, NotifyCleanupPayload{RetentionDays: 7}))
	require.NoError(t, err)

	wantCutoff := time.Now().UTC().AddDate(0, 0, -7)
	require.WithinDuration(t, wantCutoff, pruner.cutoff, time.Minute)
	require.Equal(t, 1, announcer.calls)
	require.Equal(t, rbac.RoleSuperAdmin, announcer.role)
	require.Equal(t, notify.PriorityLow, announcer.payload.Priority)
}

func TestNotifyCleanupDefaultsRetention(t *testing.T) {
	pruner := &mockPruner{}
	handler := NewNotifyCleanupHandler(NotifyCleanupDeps{Pruner: pruner})

	err := handler(context.Background(), cleanupTask(t, NotifyCleanupPayload{}))
	require.NoError(t, err)

	wantCutoff := time.Now().UTC().AddDate(0, 0, -defaultRetentionDays)
	require.WithinDuration(t, wantCutoff, pruner.cutoff, time.Minute)
}

func TestNotifyCleanupSkipsAnnouncementWhenNothingRemoved(t *testing.T) {
	announcer := &mockAnnouncer{}
	handler := NewNotifyCleanupHandler(NotifyCleanupDeps{Pruner: &mockPruner{removed: 0}, Announcer: announcer})

	err := handler(context.Background(), cleanupTask(t, NotifyCleanupPayload{RetentionDays: 30}))
	require.NoError(t, err)
	require.Zero(t, announcer.calls)
}

func TestNotifyCleanupPropagatesPrunerError(t *testing.T) {
	boom := errors.New("db down")
	handler := NewNotifyCleanupHandler(NotifyCleanupDeps{Pruner: &mockPruner{err: boom}})

	err := handler(context.Background(), cleanupTask(t, NotifyCleanupPayload{RetentionDays: 30}))
	require.ErrorIs(t, err, boom)
}
