package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts command and dataset from context and adds them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if cmd := GetCommand(ctx); cmd != "" {
		e.Str("command", cmd)
	}

	if dataset := GetDataset(ctx); dataset != "" {
		e.Str("dataset", dataset)
	}
}
