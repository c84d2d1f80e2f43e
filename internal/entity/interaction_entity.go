package entity

import "time"

type InteractionKind string

const (
	InteractionKindCodeSnapshot       InteractionKind = "code_snapshot"
	InteractionKindQuestionAsked      InteractionKind = "question_asked"
	InteractionKindResponseReceived   InteractionKind = "response_received"
	InteractionKindEvaluationRecorded InteractionKind = "evaluation_recorded"
)

// InteractionPayload is the kind-specific body of an Interaction.
// Implementations: CodeSnapshotTaken, QuestionAsked, ResponseReceived, QuestionEvaluated.
type InteractionPayload interface {
	Kind() InteractionKind
	isInteractionPayload()
}

type CodeSnapshotTaken struct{}

func (CodeSnapshotTaken) Kind() InteractionKind { return InteractionKindCodeSnapshot }
func (CodeSnapshotTaken) isInteractionPayload() {}

type QuestionAsked struct {
	Question string
	// SnapshotInteractionId is the code snapshot interaction that was current when the
	// question was generated. Nil when the session had no snapshot yet.
	SnapshotInteractionId *uint
}

func (QuestionAsked) Kind() InteractionKind { return InteractionKindQuestionAsked }
func (QuestionAsked) isInteractionPayload() {}

// Evaluate attaches an evaluation to the question.
func (q QuestionAsked) Evaluate(evaluation Evaluation) QuestionEvaluated {
	return QuestionEvaluated{QuestionAsked: q, Evaluation: evaluation}
}

type ResponseReceived struct {
	Response              string
	QuestionInteractionId uint
}

func (ResponseReceived) Kind() InteractionKind { return InteractionKindResponseReceived }
func (ResponseReceived) isInteractionPayload() {}

// QuestionEvaluated is a QuestionAsked interaction after its answer has been scored.
type QuestionEvaluated struct {
	QuestionAsked
	Evaluation Evaluation
}

func (QuestionEvaluated) Kind() InteractionKind { return InteractionKindEvaluationRecorded }
func (QuestionEvaluated) isInteractionPayload() {}

// Evaluate replaces the previous evaluation.
func (q QuestionEvaluated) Evaluate(evaluation Evaluation) QuestionEvaluated {
	return QuestionEvaluated{QuestionAsked: q.QuestionAsked, Evaluation: evaluation}
}

type Interaction struct {
	Id        uint
	SessionId uint
	Timestamp time.Time
	Payload   InteractionPayload
	Snapshot  *CodeSnapshot
}

func (i *Interaction) Kind() InteractionKind {
	if i.Payload == nil {
		return ""
	}
	return i.Payload.Kind()
}

func (i *Interaction) HasSnapshot() bool {
	return i.Snapshot != nil
}

// Before reports whether i sorts strictly before other in session order (timestamp, then id).
func (i *Interaction) Before(other *Interaction) bool {
	if !i.Timestamp.Equal(other.Timestamp) {
		return i.Timestamp.Before(other.Timestamp)
	}
	return i.Id < other.Id
}

// Question returns the question payload for question interactions, evaluated or not.
func (i *Interaction) Question() (QuestionAsked, bool) {
	switch p := i.Payload.(type) {
	case QuestionAsked:
		return p, true
	case QuestionEvaluated:
		return p.QuestionAsked, true
	}
	return QuestionAsked{}, false
}

// Evaluation returns the recorded evaluation, if any.
func (i *Interaction) Evaluation() (Evaluation, bool) {
	if p, ok := i.Payload.(QuestionEvaluated); ok {
		return p.Evaluation, true
	}
	return Evaluation{}, false
}

type CodeSnapshot struct {
	Id            uint
	InteractionId uint
	Code          string
	CreatedAt     time.Time
}
