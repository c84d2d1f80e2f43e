package service

import (
	"context"
	"encoding/json"

	"coding-assessment-be/internal/dto"
	"coding-assessment-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IReportConsumer interface {
	Consume(ctx context.Context) error
}

type reportConsumer struct {
	subscriber   message.Subscriber
	topicName    string
	orchestrator IOrchestrator
	sequencer    *SessionSequencer
	logger       logger.ILogger
}

func NewReportConsumer(
	subscriber message.Subscriber,
	topicName string,
	orchestrator IOrchestrator,
	sequencer *SessionSequencer,
	logger logger.ILogger,
) IReportConsumer {
	return &reportConsumer{
		subscriber:   subscriber,
		topicName:    topicName,
		orchestrator: orchestrator,
		sequencer:    sequencer,
		logger:       logger,
	}
}

// Consume starts processing report jobs in the background until ctx is cancelled.
func (c *reportConsumer) Consume(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, c.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			c.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage acks on receipt so the subscriber keeps delivering while the job runs: a
// hung model call holds only its own session. Flow failures are already pushed to the client
// and a redelivery would hit the duplicate report guard.
func (c *reportConsumer) processMessage(ctx context.Context, msg *message.Message) {
	msg.Ack()

	var payload dto.PublishReportRequestMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.logger.Error("ReportConsumer", "Failed to unmarshal report request", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	c.logger.Info("ReportConsumer", "Generating report", map[string]interface{}{"session_id": payload.SessionId})
	go c.sequencer.Do(payload.SessionId, func() {
		c.orchestrator.GenerateReport(ctx, payload.SessionId)
	})
}
