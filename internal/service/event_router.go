package service

import (
	"context"
	"encoding/json"
	"fmt"

	"coding-assessment-be/internal/dto"
	"coding-assessment-be/internal/entity"
	"coding-assessment-be/internal/pkg/logger"
	"coding-assessment-be/internal/pkg/serverutils"
	"coding-assessment-be/internal/repository/contract"
)

const missingMessageTypeText = "Invalid message format: Missing 'message_type' field."

// IEventRouter is the entry point for messages read from a session's connection.
type IEventRouter interface {
	HandleMessage(ctx context.Context, sessionId uint, raw []byte)
}

type EventRouter struct {
	store        contract.AssessmentStore
	trigger      ITriggerEngine
	orchestrator IOrchestrator
	notifier     Notifier
	sequencer    *SessionSequencer
	logger       logger.ILogger
}

func NewEventRouter(
	store contract.AssessmentStore,
	trigger ITriggerEngine,
	orchestrator IOrchestrator,
	notifier Notifier,
	sequencer *SessionSequencer,
	logger logger.ILogger,
) *EventRouter {
	return &EventRouter{
		store:        store,
		trigger:      trigger,
		orchestrator: orchestrator,
		notifier:     notifier,
		sequencer:    sequencer,
		logger:       logger,
	}
}

// HandleMessage validates raw and processes it. Malformed messages only produce an {error}
// reply. Processing for one session is sequential.
func (r *EventRouter) HandleMessage(ctx context.Context, sessionId uint, raw []byte) {
	var envelope dto.InboundEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		r.reject(sessionId, fmt.Sprintf("Invalid message format: %v", err))
		return
	}
	if err := serverutils.ValidateRequest(envelope); err != nil {
		r.reject(sessionId, missingMessageTypeText)
		return
	}

	messageType := *envelope.MessageType
	switch messageType {
	case dto.MessageTypeCodeUpdate:
		var msg dto.CodeUpdateMessage
		if err := decodeInbound(raw, &msg); err != nil {
			r.reject(sessionId, fmt.Sprintf("Invalid message payload for type '%s': %v", messageType, err))
			return
		}
		r.sequencer.Do(sessionId, func() {
			r.run(ctx, sessionId, messageType, func() error {
				return r.handleCodeUpdate(ctx, sessionId, *msg.Code)
			})
		})

	case dto.MessageTypeResponseSubmitted:
		var msg dto.ResponseSubmittedMessage
		if err := decodeInbound(raw, &msg); err != nil {
			r.reject(sessionId, fmt.Sprintf("Invalid message payload for type '%s': %v", messageType, err))
			return
		}
		response := SubmittedResponse{InteractionId: *msg.InteractionId, Response: *msg.Response}
		r.sequencer.Do(sessionId, func() {
			r.run(ctx, sessionId, messageType, func() error {
				return r.handleResponse(ctx, sessionId, response)
			})
		})

	default:
		r.reject(sessionId, fmt.Sprintf("Received unknown message_type '%s'", messageType))
	}
}

func decodeInbound(raw []byte, target interface{}) error {
	if err := json.Unmarshal(raw, target); err != nil {
		return err
	}
	return serverutils.ValidateRequest(target)
}

func (r *EventRouter) reject(sessionId uint, message string) {
	r.logger.Warn("EventRouter", message, map[string]interface{}{"session_id": sessionId})
	r.notifier.Send(sessionId, dto.NewErrorMessage(message))
}

func (r *EventRouter) run(ctx context.Context, sessionId uint, messageType string, handle func() error) {
	if err := handle(); err != nil {
		r.logger.Error("EventRouter", "Failed to process message", map[string]interface{}{
			"session_id":   sessionId,
			"message_type": messageType,
			"error":        err.Error(),
		})
		r.notifier.Send(sessionId, dto.NewErrorMessage(fmt.Sprintf("Failed to process '%s' message. Error: %v", messageType, err)))
	}
}

func (r *EventRouter) handleCodeUpdate(ctx context.Context, sessionId uint, code string) error {
	if _, err := r.store.GetSession(ctx, sessionId); err != nil {
		return err
	}

	// Read the previous snapshot before saving the new one.
	previous, err := r.store.GetLastInteractionWithSnapshot(ctx, sessionId)
	if err != nil {
		return err
	}

	current, err := r.store.CreateCodeSnapshotInteraction(ctx, sessionId, code)
	if err != nil {
		return err
	}

	if !r.trigger.ShouldTrigger(code, previous) {
		r.logger.Debug("EventRouter", "Trigger condition not met", map[string]interface{}{
			"session_id":     sessionId,
			"interaction_id": current.Id,
		})
		return nil
	}

	previousCode := ""
	if previous != nil && previous.HasSnapshot() {
		previousCode = previous.Snapshot.Code
	}

	r.logger.Info("EventRouter", "Triggering question", map[string]interface{}{
		"session_id":     sessionId,
		"interaction_id": current.Id,
	})
	r.orchestrator.RequestQuestion(ctx, sessionId, code, previousCode)
	return nil
}

func (r *EventRouter) handleResponse(ctx context.Context, sessionId uint, response SubmittedResponse) error {
	if _, err := r.store.GetSession(ctx, sessionId); err != nil {
		return err
	}

	_, err := r.store.CreateInteraction(ctx, sessionId, entity.ResponseReceived{
		Response:              response.Response,
		QuestionInteractionId: response.InteractionId,
	})
	if err != nil {
		return err
	}

	r.orchestrator.EvaluateResponse(ctx, sessionId, response)
	return nil
}
