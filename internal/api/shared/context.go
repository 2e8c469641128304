package shared

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// ContextKey is the type for values this package stores in request contexts.
type ContextKey string

const (
	// UserIDContextKey holds the authenticated member's ID, set by the auth
	// middleware after token validation.
	UserIDContextKey ContextKey = "userID"

	// TraceIDKey holds the per-request trace ID used to correlate log lines
	// with error responses.
	TraceIDKey ContextKey = "traceID"

	// traceIDBytes is the trace ID length before hex encoding.
	traceIDBytes = 16
)

// SetTraceID attaches a fresh trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, newTraceID())
}

// GetTraceID returns the trace ID from the context, or "" if none is set.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// newTraceID returns a 32-character hex ID. Trace IDs only need to be unique
// enough to tell requests apart in the logs, so if the random source fails a
// timestamp-based ID is good enough; it must never be a constant.
func newTraceID() string {
	b := make([]byte, traceIDBytes)
	if n, err := rand.Read(b); err != nil || n != traceIDBytes {
		now := time.Now()
		binary.BigEndian.PutUint64(b[:8], uint64(now.UnixNano()))
		binary.BigEndian.PutUint32(b[8:12], uint32(now.Nanosecond()))
		binary.BigEndian.PutUint32(b[12:16], uint32(now.Unix()))
	}
	return hex.EncodeToString(b)
}
