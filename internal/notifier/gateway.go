// Package notifier schedules task reminders and delivers them to the desktop.
package notifier

import (
	"context"
	"time"
)

//go:generate mockgen -source=gateway.go -destination=../mocks/notifier/mock_gateway.go -package=mock_notifier

// Payload is what a reminder carries when it fires
type Payload struct {
	TaskID string `json:"taskId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Gateway registers fire-and-forget alerts with the platform. Schedule with
// an id that is already pending replaces it. Cancel of an unknown id is a no-op.
type Gateway interface {
	RequestPermission(ctx context.Context) (bool, error)
	Schedule(ctx context.Context, id string, fireAt time.Time, payload Payload) error
	Cancel(ctx context.Context, id string) error
	CancelAll(ctx context.Context) error
}

// Deliverer shows a fired reminder to the user
type Deliverer interface {
	Ready(ctx context.Context) error
	Deliver(ctx context.Context, payload Payload) error
}
