package dto

// Inbound message types.
const (
	MessageTypeCodeUpdate        = "code_update"
	MessageTypeResponseSubmitted = "response_submitted"
)

// Outbound message types.
const (
	MessageTypeQuestion         = "question"
	MessageTypeEvaluationResult = "evaluation_result"
	MessageTypeReportReady      = "report_ready"
)

type InboundEnvelope struct {
	MessageType *string `json:"message_type" validate:"required"`
}

type CodeUpdateMessage struct {
	Code *string `json:"code" validate:"required"`
}

type ResponseSubmittedMessage struct {
	InteractionId *uint   `json:"interaction_id" validate:"required"`
	Response      *string `json:"response" validate:"required"`
}

type QuestionMessage struct {
	MessageType   string `json:"message_type"`
	InteractionId uint   `json:"interaction_id"`
	Question      string `json:"question"`
}

type EvaluationResultMessage struct {
	MessageType   string  `json:"message_type"`
	InteractionId uint    `json:"interaction_id"`
	Evaluation    string  `json:"evaluation"`
	Score         float64 `json:"score"`
}

type ReportReadyMessage struct {
	MessageType string `json:"message_type"`
	SessionId   uint   `json:"session_id"`
}

type ErrorMessage struct {
	Error         string `json:"error"`
	InteractionId *uint  `json:"interaction_id,omitempty"`
}

func NewQuestionMessage(interactionId uint, question string) QuestionMessage {
	return QuestionMessage{MessageType: MessageTypeQuestion, InteractionId: interactionId, Question: question}
}

func NewEvaluationResultMessage(interactionId uint, evaluation string, score float64) EvaluationResultMessage {
	return EvaluationResultMessage{
		MessageType:   MessageTypeEvaluationResult,
		InteractionId: interactionId,
		Evaluation:    evaluation,
		Score:         score,
	}
}

func NewReportReadyMessage(sessionId uint) ReportReadyMessage {
	return ReportReadyMessage{MessageType: MessageTypeReportReady, SessionId: sessionId}
}

func NewErrorMessage(message string) ErrorMessage {
	return ErrorMessage{Error: message}
}

func NewInteractionErrorMessage(message string, interactionId uint) ErrorMessage {
	return ErrorMessage{Error: message, InteractionId: &interactionId}
}
