package logger

import (
	"context"

	"github.com/rs/zerolog"
)

const RequestIDField = "request_id"

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// ContextHook copies the request id from an event's context, set with
// Event.Ctx, onto the event.
type ContextHook struct{}

func (ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	if id := RequestID(e.GetCtx()); id != "" {
		e.Str(RequestIDField, id)
	}
}
