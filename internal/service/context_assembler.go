package service

import (
	"context"

	"coding-assessment-be/pkg/assessment"
	"coding-assessment-be/pkg/codediff"
)

const NoChangesText = "No changes detected or first submission."

type ContextConfig struct {
	MaxHistoryMessages int
	// ReportHistoryMessages bounds the transcript given to the report prompt, 0 = all.
	ReportHistoryMessages int
}

type IContextAssembler interface {
	ForQuestion(ctx context.Context, sessionId uint, currentCode, previousCode, problemStatement string) (assessment.Context, error)
	ForEvaluation(ctx context.Context, sessionId uint, question, response, relevantCode, problemStatement string) (assessment.Context, error)
	ForReport(ctx context.Context, sessionId uint, finalCode, problemStatement string) (assessment.Context, error)
}

type ContextAssembler struct {
	history IHistoryService
	config  ContextConfig
}

func NewContextAssembler(history IHistoryService, config ContextConfig) *ContextAssembler {
	return &ContextAssembler{history: history, config: config}
}

func (a *ContextAssembler) ForQuestion(ctx context.Context, sessionId uint, currentCode, previousCode, problemStatement string) (assessment.Context, error) {
	diff, err := codediff.Unified(previousCode, currentCode)
	if err != nil {
		return nil, err
	}
	if diff == "" {
		diff = NoChangesText
	}

	history, err := a.history.Window(ctx, sessionId, a.config.MaxHistoryMessages)
	if err != nil {
		return nil, err
	}

	return assessment.Context{
		assessment.KeyProblemStatement: problemStatement,
		assessment.KeyCode:             currentCode,
		assessment.KeyDiff:             diff,
		assessment.KeyHistory:          history,
	}, nil
}

func (a *ContextAssembler) ForEvaluation(ctx context.Context, sessionId uint, question, response, relevantCode, problemStatement string) (assessment.Context, error) {
	history, err := a.history.Window(ctx, sessionId, a.config.MaxHistoryMessages)
	if err != nil {
		return nil, err
	}

	return assessment.Context{
		assessment.KeyProblemStatement: problemStatement,
		assessment.KeyCode:             relevantCode,
		assessment.KeyHistory:          history,
		assessment.KeyQuestion:         question,
		assessment.KeyResponse:         response,
	}, nil
}

func (a *ContextAssembler) ForReport(ctx context.Context, sessionId uint, finalCode, problemStatement string) (assessment.Context, error) {
	history, err := a.history.Window(ctx, sessionId, a.config.ReportHistoryMessages)
	if err != nil {
		return nil, err
	}

	return assessment.Context{
		assessment.KeyProblemStatement: problemStatement,
		assessment.KeyFinalCode:        finalCode,
		assessment.KeyFullHistory:      history,
	}, nil
}
