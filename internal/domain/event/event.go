package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	UserDeleteEvent       = "UserDeleteEvent"
	PilotStudyDeleteEvent = "PilotStudyDeleteEvent"
)

// Event is the envelope published to the message broker.
type Event struct {
	ID        string         `json:"id"`
	Name      string         `json:"event_name"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload"`
}

func New(name string, payload map[string]any) Event {
	return Event{
		ID:        uuid.New().String(),
		Name:      name,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// Publisher sends domain events. Key is used for partitioning.
type Publisher interface {
	Publish(ctx context.Context, key string, e Event) error
	Close() error
}
