package factory

import (
	"coding-assessment-be/internal/config"
	"coding-assessment-be/pkg/llm"
	"coding-assessment-be/pkg/llm/gemini"
	"coding-assessment-be/pkg/llm/ollama"
	"coding-assessment-be/pkg/llm/openai"
	"context"
	"fmt"
)

func NewLLMProvider(ctx context.Context, cfg config.AIConfig) (llm.LLMProvider, error) {
	switch cfg.LLMProvider {
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, cfg.LLMModel, cfg.Temperature), nil
	case "openai":
		return openai.NewProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.LLMModel, cfg.Temperature), nil
	case "gemini":
		return gemini.NewProvider(ctx, cfg.GoogleGemini, cfg.LLMModel, cfg.Temperature)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}
}
