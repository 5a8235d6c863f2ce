package widgets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/colonyops/widgets/internal/core/datatable"
	"github.com/colonyops/widgets/internal/core/notify"
)

// ErrHistoryUnavailable is returned when no history store is configured.
var ErrHistoryUnavailable = errors.New("notification history is unavailable")

// HistoryService reads and clears persisted notifications.
type HistoryService struct {
	store    notify.Store
	recorder *notify.Recorder
}

// NewHistoryService reads from store. When recorder is set, reads wait for
// its pending writes so they include everything raised in this process.
func NewHistoryService(store notify.Store, recorder *notify.Recorder) *HistoryService {
	return &HistoryService{store: store, recorder: recorder}
}

func (s *HistoryService) sync() {
	if s.recorder != nil {
		s.recorder.Sync()
	}
}

// HistoryColumns are the columns of the history table.
func HistoryColumns() []datatable.Column {
	return []datatable.Column{
		{Key: "created_at", Label: "Time", Render: func(r datatable.Record) string {
			ts, ok := r["created_at"].(time.Time)
			if !ok {
				return ""
			}
			return ts.Local().Format(time.DateTime)
		}},
		{Key: "kind", Label: "Kind"},
		{Key: "title", Label: "Title"},
		{Key: "message", Label: "Message"},
		{Key: "timeout", Label: "Timeout", Render: func(r datatable.Record) string {
			d, ok := r["timeout"].(time.Duration)
			if !ok {
				return ""
			}
			if d == 0 {
				return "persistent"
			}
			return d.String()
		}},
		{Key: "id", Label: "ID", DisableSort: true},
	}
}

// List returns the persisted notifications, newest first.
func (s *HistoryService) List(ctx context.Context) ([]notify.Notification, error) {
	if s.store == nil {
		return nil, ErrHistoryUnavailable
	}
	s.sync()

	items, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return items, nil
}

// Records lists the history, newest first, as table records.
func (s *HistoryService) Records(ctx context.Context) ([]datatable.Record, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]datatable.Record, 0, len(items))
	for _, n := range items {
		rec := datatable.Record{
			"id":         string(n.ID),
			"kind":       string(n.Kind),
			"created_at": n.CreatedAt,
			"timeout":    n.Timeout,
		}
		// Empty text is left missing so it sorts last.
		if n.Title != "" {
			rec["title"] = n.Title
		}
		if n.Message != "" {
			rec["message"] = n.Message
		}
		records = append(records, rec)
	}
	return records, nil
}

// Clear deletes all history and returns how many entries were removed.
func (s *HistoryService) Clear(ctx context.Context) (int64, error) {
	if s.store == nil {
		return 0, ErrHistoryUnavailable
	}
	s.sync()

	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	if err := s.store.Clear(ctx); err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return n, nil
}
