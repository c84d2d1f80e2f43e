package assessment

import (
	"coding-assessment-be/pkg/llm"
	"context"
	"fmt"
	"strings"
)

// Pipeline is the model-facing side of an assessment session. Every operation takes a
// flat context and returns plain text.
type Pipeline interface {
	GenerateQuestion(ctx context.Context, input Context) (string, error)
	// EvaluateResponse returns text that is expected to decode with DecodeEvaluation.
	EvaluateResponse(ctx context.Context, input Context) (string, error)
	GenerateReport(ctx context.Context, input Context) (string, error)
}

type LLMPipeline struct {
	provider llm.LLMProvider
	options  []llm.Option
}

var _ Pipeline = &LLMPipeline{}

func NewLLMPipeline(provider llm.LLMProvider, options ...llm.Option) *LLMPipeline {
	return &LLMPipeline{provider: provider, options: options}
}

func (p *LLMPipeline) GenerateQuestion(ctx context.Context, input Context) (string, error) {
	return p.run(ctx, "question", questionPrompt, input)
}

func (p *LLMPipeline) EvaluateResponse(ctx context.Context, input Context) (string, error) {
	return p.run(ctx, "evaluation", evaluationPrompt, input)
}

func (p *LLMPipeline) GenerateReport(ctx context.Context, input Context) (string, error) {
	return p.run(ctx, "report", reportPrompt, input)
}

func (p *LLMPipeline) run(ctx context.Context, name string, prompt promptPair, input Context) (string, error) {
	messages, err := buildMessages(prompt, input)
	if err != nil {
		return "", fmt.Errorf("render %s prompt: %w", name, err)
	}

	out, err := p.provider.Chat(ctx, messages, p.options...)
	if err != nil {
		return "", fmt.Errorf("%s completion: %w", name, err)
	}
	return strings.TrimSpace(out), nil
}

// buildMessages renders the system and human turns of a prompt.
func buildMessages(prompt promptPair, input Context) ([]llm.Message, error) {
	system, err := render(prompt.system, input)
	if err != nil {
		return nil, err
	}
	human, err := render(prompt.human, input)
	if err != nil {
		return nil, err
	}
	return []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: human},
	}, nil
}
