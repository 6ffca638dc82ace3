package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Directory resolves role names to current member user ids. Satisfied by
// rbac.Directory.
type Directory interface {
	MembersOf(ctx context.Context, name string) ([]int64, error)
	MembersOfMany(ctx context.Context, names []string) (map[string][]int64, error)
}

// RecordStore persists one notification row per recipient.
type RecordStore interface {
	Insert(ctx context.Context, userID int64, payload Payload) error
}

// Report summarises one dispatch call.
type Report struct {
	Attempted int
	Failed    int
}

// Dispatcher turns payloads plus an audience description into persisted
// notification rows. Delivery is best-effort and at-most-once per
// recipient per call: writes for all recipients start concurrently, the
// dispatcher waits for every outcome, failures are counted and logged, and
// nothing is retried or rolled back. Total latency is bounded by the
// slowest write rather than the sum of writes.
type Dispatcher struct {
	directory Directory
	store     RecordStore
	logger    *slog.Logger
	metrics   *Metrics
}

// NewDispatcher constructs a Dispatcher. metrics may be nil.
func NewDispatcher(directory Directory, store RecordStore, logger *slog.Logger, metrics *Metrics) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{directory: directory, store: store, logger: logger, metrics: metrics}
}

type target struct {
	role    string
	userID  int64
	payload Payload
}

// DeliverToUser persists a single record for one known recipient,
// bypassing role resolution entirely.
func (d *Dispatcher) DeliverToUser(ctx context.Context, userID int64, payload Payload) error {
	if err := d.store.Insert(ctx, userID, payload); err != nil {
		d.metrics.countFailed(1)
		d.logger.Error("notification delivery failed",
			slog.Int64("user_id", userID),
			slog.String("category", payload.Category),
			slog.Any("error", err))
		return err
	}
	d.metrics.countDelivered(1)
	return nil
}

// DeliverToRole resolves the role's current members and persists one
// record per member. Zero members is a no-op, not an error. Partial write
// failures leave the successful rows in place and are reported, never
// escalated as a hard error.
func (d *Dispatcher) DeliverToRole(ctx context.Context, role string, payload Payload) (Report, error) {
	members, err := d.directory.MembersOf(ctx, role)
	if err != nil {
		d.logger.Warn("member resolution failed, skipping delivery",
			slog.String("role", role), slog.Any("error", err))
		return Report{}, nil
	}
	if len(members) == 0 {
		return Report{}, nil
	}
	targets := make([]target, 0, len(members))
	for _, userID := range members {
		targets = append(targets, target{role: role, userID: userID, payload: payload})
	}
	return d.settle(ctx, targets), nil
}

// DeliverToRoles fans one event out to several audiences, each with its
// own payload. All involved roles are resolved with a single batched
// directory call; it must not degenerate into one membership query per
// role.
func (d *Dispatcher) DeliverToRoles(ctx context.Context, batch map[string]Payload) (Report, error) {
	if len(batch) == 0 {
		return Report{}, nil
	}
	names := make([]string, 0, len(batch))
	for role := range batch {
		names = append(names, role)
	}
	members, err := d.directory.MembersOfMany(ctx, names)
	if err != nil {
		d.logger.Warn("batched member resolution failed, skipping delivery", slog.Any("error", err))
		return Report{}, nil
	}
	var targets []target
	for role, payload := range batch {
		for _, userID := range members[roleKey(role)] {
			targets = append(targets, target{role: role, userID: userID, payload: payload})
		}
	}
	if len(targets) == 0 {
		return Report{}, nil
	}
	return d.settle(ctx, targets), nil
}

// settle issues every write concurrently and waits for all of them.
func (d *Dispatcher) settle(ctx context.Context, targets []target) Report {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures = make(map[string]int, 1)
		failed   int
	)
	for _, t := range targets {
		wg.Add(1)
		go func(t target) {
			defer wg.Done()
			if err := d.store.Insert(ctx, t.userID, t.payload); err != nil {
				mu.Lock()
				failed++
				failures[t.role]++
				mu.Unlock()
				d.logger.Error("notification delivery failed",
					slog.String("role", t.role),
					slog.Int64("user_id", t.userID),
					slog.Any("error", err))
			}
		}(t)
	}
	wg.Wait()

	report := Report{Attempted: len(targets), Failed: failed}
	d.metrics.countDelivered(report.Attempted - report.Failed)
	d.metrics.countFailed(report.Failed)
	for role, count := range failures {
		perRole := 0
		for _, t := range targets {
			if t.role == role {
				perRole++
			}
		}
		d.logger.Warn(fmt.Sprintf("%d of %d deliveries failed for role %s", count, perRole, role))
	}
	return report
}

// roleKey mirrors the directory's name normalization so batch results can
// be matched back to the caller's role names.
func roleKey(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}
