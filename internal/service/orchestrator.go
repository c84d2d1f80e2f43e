package service

import (
	"context"
	"fmt"
	"strconv"

	"coding-assessment-be/internal/dto"
	"coding-assessment-be/internal/entity"
	"coding-assessment-be/internal/pkg/apperror"
	"coding-assessment-be/internal/pkg/logger"
	"coding-assessment-be/internal/repository/contract"
	"coding-assessment-be/pkg/assessment"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	CodeNotAvailableText = "[Code context not available]"
	NoFinalCodeText      = "[No final code snapshot found]"
	QuestionNotFoundText = "[Question not found]"

	parseEvaluationErrorText = "Failed to parse evaluation result from AI."
)

// SubmittedResponse is a candidate's answer to a question interaction.
type SubmittedResponse struct {
	InteractionId uint
	Response      string
}

// IOrchestrator runs the model-backed flows of a session. Flows never return errors: failures
// are logged and pushed to the session's connection as {error} messages.
type IOrchestrator interface {
	RequestQuestion(ctx context.Context, sessionId uint, currentCode, previousCode string)
	EvaluateResponse(ctx context.Context, sessionId uint, response SubmittedResponse)
	GenerateReport(ctx context.Context, sessionId uint)
}

type Orchestrator struct {
	store     contract.AssessmentStore
	history   IHistoryService
	assembler IContextAssembler
	pipeline  assessment.Pipeline
	notifier  Notifier
	events    EventPublisher
	logger    logger.ILogger
	tracer    trace.Tracer
}

func NewOrchestrator(
	store contract.AssessmentStore,
	history IHistoryService,
	assembler IContextAssembler,
	pipeline assessment.Pipeline,
	notifier Notifier,
	events EventPublisher,
	logger logger.ILogger,
) *Orchestrator {
	return &Orchestrator{
		store:     store,
		history:   history,
		assembler: assembler,
		pipeline:  pipeline,
		notifier:  notifier,
		events:    events,
		logger:    logger,
		tracer:    otel.Tracer("coding-assessment-be/orchestrator"),
	}
}

func (o *Orchestrator) startSpan(ctx context.Context, name string, sessionId uint) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, "Orchestrator."+name, trace.WithAttributes(attribute.Int64("session.id", int64(sessionId))))
}

// fail records a flow failure and tells the client about it.
func (o *Orchestrator) fail(span trace.Span, flow string, sessionId uint, err error, message dto.ErrorMessage) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	o.logger.Error("Orchestrator", flow+" failed", map[string]interface{}{
		"session_id": sessionId,
		"kind":       string(apperror.KindOf(err)),
		"error":      err.Error(),
	})
	o.notifier.Send(sessionId, message)
}

func (o *Orchestrator) RequestQuestion(ctx context.Context, sessionId uint, currentCode, previousCode string) {
	ctx, span := o.startSpan(ctx, "RequestQuestion", sessionId)
	defer span.End()

	if err := o.requestQuestion(ctx, sessionId, currentCode, previousCode); err != nil {
		o.fail(span, "RequestQuestion", sessionId, err, dto.NewErrorMessage(fmt.Sprintf("Failed to generate question. Error: %v", err)))
	}
}

func (o *Orchestrator) requestQuestion(ctx context.Context, sessionId uint, currentCode, previousCode string) error {
	session, err := o.store.GetSession(ctx, sessionId)
	if err != nil {
		return err
	}

	input, err := o.assembler.ForQuestion(ctx, sessionId, currentCode, previousCode, session.ProblemStatement)
	if err != nil {
		return err
	}

	question, err := o.pipeline.GenerateQuestion(ctx, input)
	if err != nil {
		return apperror.Upstream(err, "question generation failed")
	}
	if question == "" {
		return apperror.Upstream(nil, "model returned an empty question")
	}

	payload := entity.QuestionAsked{Question: question}
	snapshot, err := o.store.GetLastInteractionWithSnapshot(ctx, sessionId)
	if err != nil {
		return err
	}
	if snapshot != nil {
		payload.SnapshotInteractionId = &snapshot.Id
	}

	interaction, err := o.store.CreateInteraction(ctx, sessionId, payload)
	if err != nil {
		return err
	}

	o.logger.Info("Orchestrator", "Question generated", map[string]interface{}{
		"session_id":     sessionId,
		"interaction_id": interaction.Id,
	})
	o.notifier.Send(sessionId, dto.NewQuestionMessage(interaction.Id, question))

	// The question is already delivered, a lost transcript entry must not turn into an error push.
	if err := o.history.AddAssistantMessage(ctx, sessionId, question); err != nil {
		o.logger.Warn("Orchestrator", "Failed to record question in history", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}

	o.events.PublishQuestionAsked(ctx, sessionId, interaction.Id)
	return nil
}

func (o *Orchestrator) EvaluateResponse(ctx context.Context, sessionId uint, response SubmittedResponse) {
	ctx, span := o.startSpan(ctx, "EvaluateResponse", sessionId)
	span.SetAttributes(attribute.Int64("interaction.id", int64(response.InteractionId)))
	defer span.End()

	if err := o.evaluateResponse(ctx, sessionId, response); err != nil {
		o.fail(span, "EvaluateResponse", sessionId, err, dto.NewInteractionErrorMessage(
			fmt.Sprintf("Failed to evaluate response. Error: %v", err),
			response.InteractionId,
		))
	}
}

func (o *Orchestrator) evaluateResponse(ctx context.Context, sessionId uint, response SubmittedResponse) error {
	session, err := o.store.GetSession(ctx, sessionId)
	if err != nil {
		return err
	}

	original, err := o.store.GetInteraction(ctx, response.InteractionId)
	if err != nil && !apperror.Is(err, apperror.KindNotFound) {
		return err
	}
	if original == nil || original.SessionId != sessionId {
		return apperror.NotFound("original interaction %d not found or mismatch for session %d", response.InteractionId, sessionId)
	}
	question, ok := original.Question()
	if !ok {
		return apperror.Validation("interaction %d is a %s, not a question", original.Id, original.Kind())
	}

	// Code context is the latest snapshot strictly before the question, not the one recorded
	// on the question payload.
	relevantCode := CodeNotAvailableText
	snapshot, err := o.store.GetLastSnapshotBefore(ctx, original)
	if err != nil {
		return err
	}
	if snapshot != nil && snapshot.HasSnapshot() {
		relevantCode = snapshot.Snapshot.Code
	}

	if err := o.history.AddUserMessage(ctx, sessionId, response.Response); err != nil {
		return err
	}

	questionText := question.Question
	if questionText == "" {
		questionText = QuestionNotFoundText
	}

	input, err := o.assembler.ForEvaluation(ctx, sessionId, questionText, response.Response, relevantCode, session.ProblemStatement)
	if err != nil {
		return err
	}

	raw, err := o.pipeline.EvaluateResponse(ctx, input)
	if err != nil {
		return apperror.Upstream(err, "response evaluation failed")
	}

	evaluation, err := assessment.DecodeEvaluation(raw)
	if err != nil {
		o.logger.Error("Orchestrator", "Failed to parse evaluation result", map[string]interface{}{
			"session_id":     sessionId,
			"interaction_id": original.Id,
			"raw":            raw,
			"error":          err.Error(),
		})
		o.notifier.Send(sessionId, dto.NewInteractionErrorMessage(parseEvaluationErrorText, original.Id))
		evaluation = assessment.DegradedEvaluation(err)
	}

	if _, err := o.store.UpdateInteraction(ctx, original.Id, question.Evaluate(evaluation)); err != nil {
		return err
	}

	score, err := evaluation.Score.Float64()
	if err != nil {
		// DecodeEvaluation only accepts coercible scores.
		return apperror.Validation("evaluation score is not numeric: %v", err)
	}

	o.notifier.Send(sessionId, dto.NewEvaluationResultMessage(original.Id, evaluation.Text, score))

	summary := fmt.Sprintf("Evaluation: %s (Score: %s)", evaluation.Text, strconv.FormatFloat(score, 'f', -1, 64))
	if err := o.history.AddAssistantMessage(ctx, sessionId, summary); err != nil {
		o.logger.Warn("Orchestrator", "Failed to record evaluation in history", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}

	o.events.PublishResponseEvaluated(ctx, sessionId, original.Id, score)
	return nil
}

func (o *Orchestrator) GenerateReport(ctx context.Context, sessionId uint) {
	ctx, span := o.startSpan(ctx, "GenerateReport", sessionId)
	defer span.End()

	if err := o.generateReport(ctx, sessionId); err != nil {
		o.fail(span, "GenerateReport", sessionId, err, dto.NewErrorMessage(fmt.Sprintf("Failed to generate report. Error: %v", err)))
	}
}

func (o *Orchestrator) generateReport(ctx context.Context, sessionId uint) error {
	session, err := o.store.GetSession(ctx, sessionId)
	if err != nil {
		return err
	}

	// Skip the model call when the report already exists; CreateReport still guards races.
	existing, err := o.store.GetReport(ctx, sessionId)
	if err != nil && !apperror.Is(err, apperror.KindNotFound) {
		return err
	}
	if existing != nil {
		return apperror.AlreadyExists("report for session %d already exists", sessionId)
	}

	finalCode := NoFinalCodeText
	last, err := o.store.GetLastInteractionWithSnapshot(ctx, sessionId)
	if err != nil {
		return err
	}
	if last != nil && last.HasSnapshot() {
		finalCode = last.Snapshot.Code
	}

	input, err := o.assembler.ForReport(ctx, sessionId, finalCode, session.ProblemStatement)
	if err != nil {
		return err
	}

	content, err := o.pipeline.GenerateReport(ctx, input)
	if err != nil {
		return apperror.Upstream(err, "report generation failed")
	}

	interactions, err := o.store.ListInteractions(ctx, sessionId)
	if err != nil {
		return err
	}
	summary, skipped := assessment.SummarizeScores(interactions)
	for _, s := range skipped {
		o.logger.Warn("Orchestrator", "Skipping non-numeric score", map[string]interface{}{
			"session_id":     sessionId,
			"interaction_id": s.InteractionId,
			"score":          fmt.Sprintf("%v", s.Raw),
			"error":          s.Err.Error(),
		})
	}

	report, err := o.store.CreateReport(ctx, sessionId, content, summary)
	if err != nil {
		return err
	}

	if _, err := o.store.EndSession(ctx, sessionId); err != nil {
		o.logger.Warn("Orchestrator", "Failed to mark session as ended", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}

	o.logger.Info("Orchestrator", "Report generated", map[string]interface{}{
		"session_id":    sessionId,
		"report_id":     report.Id,
		"average_score": summary.AverageScore,
		"scores":        len(summary.Scores),
	})
	o.notifier.Send(sessionId, dto.NewReportReadyMessage(sessionId))

	o.events.PublishReportGenerated(ctx, sessionId, report.Id, summary.AverageScore)
	return nil
}
