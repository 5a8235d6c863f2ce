package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/colonyops/widgets/internal/core/notify"
	"github.com/colonyops/widgets/internal/data/db"
)

// NotifyStore implements notify.Store using SQLite.
type NotifyStore struct {
	db *db.DB
}

var _ notify.Store = (*NotifyStore)(nil)

// NewNotifyStore creates a new SQLite-backed notification store.
func NewNotifyStore(db *db.DB) *NotifyStore {
	return &NotifyStore{db: db}
}

const insertNotification = `
INSERT INTO notifications (id, seq, kind, title, message, timeout_ms, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO NOTHING`

const listNotifications = `
SELECT id, seq, kind, title, message, timeout_ms, created_at
FROM notifications
ORDER BY created_at DESC, seq DESC`

const (
	saveAttempts = 3
	saveBackoff  = 50 * time.Millisecond
)

// Save persists a notification. Saving the same ID twice keeps the first row.
// SQLITE_BUSY is retried a few times before giving up.
func (s *NotifyStore) Save(ctx context.Context, n notify.Notification) error {
	var err error
	for attempt := range saveAttempts {
		_, err = s.db.Conn().ExecContext(ctx, insertNotification,
			string(n.ID),
			n.Seq,
			string(n.Kind),
			n.Title,
			n.Message,
			n.Timeout.Milliseconds(),
			n.CreatedAt.UnixNano(),
		)
		if err == nil || !IsBusyError(err) {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("insert notification: %w", ctx.Err())
		case <-time.After(saveBackoff * time.Duration(attempt+1)):
		}
	}
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// List returns all notifications ordered by newest first.
func (s *NotifyStore) List(ctx context.Context) ([]notify.Notification, error) {
	rows, err := s.db.Conn().QueryContext(ctx, listNotifications)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []notify.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return result, nil
}

// Clear deletes all notifications.
func (s *NotifyStore) Clear(ctx context.Context) error {
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM notifications")
		return err
	})
	if err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}

// Count returns the total number of notifications.
func (s *NotifyStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM notifications").Scan(&count); err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return count, nil
}

func scanNotification(rows *sql.Rows) (notify.Notification, error) {
	var (
		id, kind, title, message string
		seq, timeoutMS, created  int64
	)
	if err := rows.Scan(&id, &seq, &kind, &title, &message, &timeoutMS, &created); err != nil {
		return notify.Notification{}, err
	}

	return notify.Notification{
		ID:        notify.ID(id),
		Seq:       seq,
		Kind:      notify.Kind(kind),
		Title:     title,
		Message:   message,
		Timeout:   time.Duration(timeoutMS) * time.Millisecond,
		CreatedAt: time.Unix(0, created),
	}, nil
}
