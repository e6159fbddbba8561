package analysis

import "context"

// Completer runs a chat completion and unmarshals the JSON reply.
type Completer interface {
	CompleteJSON(ctx context.Context, task, system, user string, out any) error
}
