// Package trainyard defines domain types for the trainyard schedule service.
// This package has no project imports -- it is the dependency root.
package trainyard

import "context"

// --- Schedule ---

// Arrival is a single schedule row: one train arriving at one time of day.
type Arrival struct {
	Train string `json:"train_name"`
	Time  string `json:"arrival_time"` // canonical 15:04:05
}

// Schedule is a train line with all of its daily arrival times.
type Schedule struct {
	Train string   `json:"train_name"`
	Times []string `json:"arrival_time"`
}

// TimeSlot groups the trains arriving at one time of day.
type TimeSlot struct {
	Time   string   `json:"arrival_time"`
	Trains []string `json:"trains"`
}

// --- Context keys ---

type contextKey int

const ctxKeyRequestID contextKey = 0

// RequestIDFromContext extracts the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// ContextWithRequestID returns a context carrying the given request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}
