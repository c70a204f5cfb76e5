package tool

import "context"

// UpdateFunc receives a progress message emitted by a tool while it runs.
type UpdateFunc func(ctx context.Context, message string)

type updateKey struct{}

// WithUpdate returns a context that routes tool progress messages to fn.
// The internal chat surface installs one so that dashboard lookups report
// intermediate status lines while the agent loop is still running.
func WithUpdate(ctx context.Context, fn UpdateFunc) context.Context {
	return context.WithValue(ctx, updateKey{}, fn)
}

// Update posts a progress message to the UpdateFunc carried by ctx. It is
// a no-op when no UpdateFunc is installed.
func Update(ctx context.Context, message string) {
	if fn, ok := ctx.Value(updateKey{}).(UpdateFunc); ok {
		fn(ctx, message)
	}
}
