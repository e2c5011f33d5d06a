package log

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// ContextKey type for context keys
type ContextKey string

// TraceIDKey is the context key carrying the per-update trace id.
const TraceIDKey ContextKey = "trace_id"

// GenerateTraceID returns a short random id for correlating log records of
// one inbound update across components.
func GenerateTraceID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// Fallback to a timestamp-based id if crypto/rand fails.
		return fmt.Sprintf("t-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// WithTraceID returns a context carrying a fresh trace id.
func WithTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, GenerateTraceID())
}

// TraceID extracts the trace id from the context, or "" if absent.
func TraceID(ctx context.Context) string {
	if id, ok := ctx.Value(TraceIDKey).(string); ok {
		return id
	}
	return ""
}
