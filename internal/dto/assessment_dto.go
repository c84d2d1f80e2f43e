package dto

import (
	"encoding/json"
	"time"
)

type CreateSessionRequest struct {
	ProblemStatement string `json:"problem_statement" validate:"required,max=20000"`
}

type CreateSessionResponse struct {
	Id               uint      `json:"id"`
	ProblemStatement string    `json:"problem_statement"`
	StartTime        time.Time `json:"start_time"`
	AccessToken      string    `json:"access_token"`
}

type SessionResponse struct {
	Id               uint                  `json:"id"`
	ProblemStatement string                `json:"problem_statement"`
	StartTime        time.Time             `json:"start_time"`
	EndTime          *time.Time            `json:"end_time"`
	Interactions     []InteractionResponse `json:"interactions"`
	Report           *ReportResponse       `json:"report"`
}

type InteractionResponse struct {
	Id              uint            `json:"id"`
	SessionId       uint            `json:"session_id"`
	Timestamp       time.Time       `json:"timestamp"`
	InteractionType string          `json:"interaction_type"`
	Data            json.RawMessage `json:"data"`
	Code            *string         `json:"code,omitempty"`
}

type ScoresResponse struct {
	AverageScore float64   `json:"average_score"`
	Scores       []float64 `json:"scores"`
}

type ReportResponse struct {
	Id        uint           `json:"id"`
	SessionId uint           `json:"session_id"`
	Content   string         `json:"content"`
	Scores    ScoresResponse `json:"scores"`
	CreatedAt time.Time      `json:"created_at"`
}

type ReportRequestedResponse struct {
	SessionId uint   `json:"session_id"`
	Status    string `json:"status"`
}

// PublishReportRequestMessage is the payload of a report-generation job.
type PublishReportRequestMessage struct {
	SessionId   uint      `json:"session_id"`
	RequestedAt time.Time `json:"requested_at"`
}
