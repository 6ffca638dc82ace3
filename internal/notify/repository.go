package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tindahan/tindahan/internal/shared"
)

// Repository provides PostgreSQL backed persistence for notification rows.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert writes one notification row for one recipient.
func (r *Repository) Insert(ctx context.Context, userID int64, payload Payload) error {
	metadata, err := json.Marshal(payload.Metadata)
	if err != nil {
		return err
	}
	var entityType *string
	var entityID *int64
	if payload.Entity != nil {
		entityType = &payload.Entity.Type
		entityID = &payload.Entity.ID
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO notifications
			(user_id, title, message, category, entity_type, entity_id, priority, metadata, channel, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, false, now())`,
		userID, payload.Title, payload.Message, payload.Category,
		entityType, entityID, string(payload.Priority), metadata, string(payload.Channel))
	return err
}

// ListForUser returns a page of the user's notifications, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, title, message, category, entity_type, entity_id, priority, metadata, channel, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// UnreadCount returns how many unread notifications the user has.
func (r *Repository) UnreadCount(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE user_id = $1 AND is_read = false`,
		userID).Scan(&count)
	return count, err
}

// MarkRead flags one of the user's notifications as read.
func (r *Repository) MarkRead(ctx context.Context, id, userID int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MarkAllRead flags every unread notification of the user as read.
func (r *Repository) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false`,
		userID)
	return err
}

// Delete removes one of the user's notifications.
func (r *Repository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM notifications WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteReadBefore removes read notifications created before the cutoff
// and reports how many rows went away. Used by the retention job.
func (r *Repository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM notifications WHERE is_read = true AND created_at < $1`,
		cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanRecord(rows pgx.Rows) (Record, error) {
	var (
		record     Record
		entityType *string
		entityID   *int64
		priority   string
		channel    string
		metadata   []byte
	)
	if err := rows.Scan(
		&record.ID, &record.UserID,
		&record.Payload.Title, &record.Payload.Message, &record.Payload.Category,
		&entityType, &entityID, &priority, &metadata, &channel,
		&record.Read, &record.CreatedAt,
	); err != nil {
		return Record{}, err
	}
	if entityType != nil && entityID != nil {
		record.Payload.Entity = &EntityRef{Type: *entityType, ID: *entityID}
	}
	record.Payload.Priority = Priority(priority)
	record.Payload.Channel = Channel(channel)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &record.Payload.Metadata); err != nil {
			return Record{}, err
		}
	}
	return record, nil
}

var _ RecordStore = (*Repository)(nil)
