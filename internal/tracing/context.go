package tracing

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// TraceIDKey is the context key for trace ID
	TraceIDKey ContextKey = "trace_id"
	// RunIDKey is the context key for the test run (session) ID
	RunIDKey ContextKey = "run_id"
	// CaseNameKey is the context key for the test case being logged
	CaseNameKey ContextKey = "case_name"
)

// TraceContext holds tracing information
type TraceContext struct {
	TraceID  string
	RunID    string
	CaseName string
}

// NewRunID generates a new run ID
func NewRunID() string {
	return uuid.New().String()
}

// WithTraceID adds a trace ID to the context
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// WithRunID adds a run ID to the context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// WithCaseName adds a test case name to the context
func WithCaseName(ctx context.Context, caseName string) context.Context {
	return context.WithValue(ctx, CaseNameKey, caseName)
}

// GetTraceID retrieves the trace ID from the context
func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// GetRunID retrieves the run ID from the context
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// GetCaseName retrieves the test case name from the context
func GetCaseName(ctx context.Context) string {
	if caseName, ok := ctx.Value(CaseNameKey).(string); ok {
		return caseName
	}
	return ""
}

// FromContext extracts all tracing information from the context
func FromContext(ctx context.Context) *TraceContext {
	return &TraceContext{
		TraceID:  GetTraceID(ctx),
		RunID:    GetRunID(ctx),
		CaseName: GetCaseName(ctx),
	}
}
