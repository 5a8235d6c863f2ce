package logging

import "context"

type contextKey string

const (
	commandKey contextKey = "command"
	datasetKey contextKey = "dataset"
)

// WithCommand adds the running CLI command name to the context.
func WithCommand(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, commandKey, name)
}

// WithDataset adds the dataset path being displayed to the context.
func WithDataset(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, datasetKey, path)
}

// GetCommand retrieves the command name from the context.
// Returns empty string if not present.
func GetCommand(ctx context.Context) string {
	if v, ok := ctx.Value(commandKey).(string); ok {
		return v
	}
	return ""
}

// GetDataset retrieves the dataset path from the context.
// Returns empty string if not present.
func GetDataset(ctx context.Context) string {
	if v, ok := ctx.Value(datasetKey).(string); ok {
		return v
	}
	return ""
}
