package service

import (
	"context"

	"coding-assessment-be/internal/pkg/logger"
	pkgEvents "coding-assessment-be/pkg/events"
)

// EventPublisher announces finished orchestrator flows. Publishing never fails the caller.
type EventPublisher interface {
	PublishQuestionAsked(ctx context.Context, sessionId, interactionId uint)
	PublishResponseEvaluated(ctx context.Context, sessionId, interactionId uint, score float64)
	PublishReportGenerated(ctx context.Context, sessionId, reportId uint, averageScore float64)
}

// EventSink is satisfied by *nats.Publisher.
type EventSink interface {
	Publish(ctx context.Context, event pkgEvents.Event) error
}

type NatsEventPublisher struct {
	sink   EventSink
	logger logger.ILogger
}

// NewNatsEventPublisher accepts a nil sink, in which case events are discarded.
func NewNatsEventPublisher(sink EventSink, logger logger.ILogger) *NatsEventPublisher {
	return &NatsEventPublisher{sink: sink, logger: logger}
}

func (p *NatsEventPublisher) PublishQuestionAsked(ctx context.Context, sessionId, interactionId uint) {
	p.publish(ctx, pkgEvents.AssessmentQuestionAsked, map[string]interface{}{
		"session_id":     sessionId,
		"interaction_id": interactionId,
		"entity_type":    "interaction",
	})
}

func (p *NatsEventPublisher) PublishResponseEvaluated(ctx context.Context, sessionId, interactionId uint, score float64) {
	p.publish(ctx, pkgEvents.AssessmentResponseEvaluated, map[string]interface{}{
		"session_id":     sessionId,
		"interaction_id": interactionId,
		"score":          score,
		"entity_type":    "interaction",
	})
}

func (p *NatsEventPublisher) PublishReportGenerated(ctx context.Context, sessionId, reportId uint, averageScore float64) {
	p.publish(ctx, pkgEvents.AssessmentReportGenerated, map[string]interface{}{
		"session_id":    sessionId,
		"report_id":     reportId,
		"average_score": averageScore,
		"entity_type":   "report",
	})
}

func (p *NatsEventPublisher) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if p == nil || p.sink == nil {
		return
	}

	evt := pkgEvents.NewEvent(eventType, data)
	if err := p.sink.Publish(ctx, evt); err != nil {
		p.logger.Error("EventPublisher", "Failed to publish "+eventType+" event", map[string]interface{}{"error": err.Error()})
	}
}
