// Package events fans out pipeline progress to SSE subscribers.
package events

import (
	"context"
	"encoding/json"
	"time"
)

const Version = 1

const (
	TypeCycleStarted  = "cycle_started"
	TypeCycleFinished = "cycle_finished"
	TypeCycleFailed   = "cycle_failed"
	TypeJobSent       = "job_sent"
	TypeCleanupDone   = "cleanup_done"
	TypeHeartbeat     = "heartbeat"
	TypePing          = "ping"
)

type Event struct {
	Type    string          `json:"type"`
	Version int             `json:"v"`
	At      time.Time       `json:"at"`
	CycleID string          `json:"cycle_id,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// MakeEvent encodes one event as a single JSON line.
func MakeEvent(cycleID, typ string, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:    typ,
		Version: Version,
		At:      time.Now().UTC(),
		CycleID: cycleID,
		Data:    raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}

type ctxKey struct{}

// WithCycleID tags ctx with the id of the running cycle.
func WithCycleID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func CycleID(ctx context.Context) string {
	v, _ := ctx.Value(ctxKey{}).(string)
	return v
}
