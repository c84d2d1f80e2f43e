package events

import (
	"time"

	"github.com/google/uuid"
)

// Session lifecycle events.
const (
	AssessmentQuestionAsked     = "ASSESSMENT_QUESTION_ASKED"
	AssessmentResponseEvaluated = "ASSESSMENT_RESPONSE_EVALUATED"
	AssessmentReportGenerated   = "ASSESSMENT_REPORT_GENERATED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventId uniquely identifies one occurrence, used for deduplication downstream.
	EventId() string

	// EventType returns the unique code for this event (e.g., "ASSESSMENT_QUESTION_ASKED").
	EventType() string

	Payload() map[string]interface{}

	Timestamp() time.Time
}

type BaseEvent struct {
	Id         string
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func NewEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Id:         uuid.NewString(),
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}

func (e BaseEvent) EventId() string {
	return e.Id
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Envelope is the wire form of an event.
type Envelope struct {
	Id         string                 `json:"id"`
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

func ToEnvelope(e Event) Envelope {
	return Envelope{
		Id:         e.EventId(),
		Type:       e.EventType(),
		OccurredAt: e.Timestamp(),
		Data:       e.Payload(),
	}
}
