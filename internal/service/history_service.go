package service

import (
	"context"
	"fmt"
	"strings"

	"coding-assessment-be/internal/entity"
	"coding-assessment-be/internal/pkg/apperror"
	"coding-assessment-be/internal/repository/contract"
)

const NoHistoryText = "No history yet."

type IHistoryService interface {
	AddUserMessage(ctx context.Context, sessionId uint, content string) error
	AddAssistantMessage(ctx context.Context, sessionId uint, content string) error
	// Window returns the last limit messages formatted as a transcript. limit <= 0 means all.
	Window(ctx context.Context, sessionId uint, limit int) (string, error)
}

type historyService struct {
	repo contract.HistoryRepository
}

func NewHistoryService(repo contract.HistoryRepository) IHistoryService {
	return &historyService{repo: repo}
}

func (s *historyService) AddUserMessage(ctx context.Context, sessionId uint, content string) error {
	return s.append(ctx, sessionId, entity.RoleUser, content)
}

func (s *historyService) AddAssistantMessage(ctx context.Context, sessionId uint, content string) error {
	return s.append(ctx, sessionId, entity.RoleAssistant, content)
}

func (s *historyService) append(ctx context.Context, sessionId uint, role entity.Role, content string) error {
	err := s.repo.Append(ctx, sessionId, entity.HistoryMessage{Role: role, Content: content})
	if err != nil {
		return apperror.Upstream(err, "failed to append %s message to history of session %d", role, sessionId)
	}
	return nil
}

func (s *historyService) Window(ctx context.Context, sessionId uint, limit int) (string, error) {
	messages, err := s.repo.List(ctx, sessionId)
	if err != nil {
		return "", apperror.Upstream(err, "failed to load history of session %d", sessionId)
	}
	return FormatHistory(messages, limit), nil
}

// FormatHistory renders the last limit messages as "<Role>: <content>" lines. Older messages
// are dropped. limit <= 0 keeps everything.
func FormatHistory(messages []entity.HistoryMessage, limit int) string {
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	if len(messages) == 0 {
		return NoHistoryText
	}

	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role.Label(), m.Content))
	}
	return strings.Join(lines, "\n")
}
