// Package widgets wires the engines, storage, and configuration into the
// App consumed by commands.
package widgets

import (
	"github.com/colonyops/widgets/internal/core/config"
	"github.com/colonyops/widgets/internal/core/logging"
	"github.com/colonyops/widgets/internal/core/notify"
	"github.com/colonyops/widgets/internal/data/db"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// App is the central entry point for widgets operations.
// Commands consume App instead of cherry-picking raw dependencies.
type App struct {
	Config  *config.Config
	DB      *db.DB
	Queue   *notify.Queue
	History *HistoryService
	Build   BuildInfo

	recorder *notify.Recorder
}

// NewApp constructs an App from explicit dependencies. When history is
// enabled every enqueued notification is written to store.
func NewApp(cfg *config.Config, database *db.DB, store notify.Store, build BuildInfo, opts ...notify.Option) *App {
	queueOpts := append([]notify.Option{
		notify.WithDefaultTimeout(cfg.Notifications.DefaultTimeout),
	}, opts...)
	q := notify.New(queueOpts...)

	var rec *notify.Recorder
	if cfg.Notifications.HistoryEnabled() && store != nil {
		rec = notify.NewRecorder(store, logging.Component("history"))
		rec.Attach(q)
	}

	return &App{
		Config:   cfg,
		DB:       database,
		Queue:    q,
		History:  NewHistoryService(store, rec),
		Build:    build,
		recorder: rec,
	}
}

// Close waits for pending history writes. It does not close the database.
func (a *App) Close() {
	if a.recorder != nil {
		a.recorder.Close()
	}
}
