package assessment

import (
	"coding-assessment-be/pkg/llm"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProvider struct {
	reply    string
	err      error
	messages []llm.Message
}

func (p *recordingProvider) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	p.messages = history
	return p.reply, p.err
}

func (p *recordingProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}

func TestGenerateQuestionRendersContext(t *testing.T) {
	provider := &recordingProvider{reply: "  Why is the loop O(n^2)?\n"}
	pipeline := NewLLMPipeline(provider)

	out, err := pipeline.GenerateQuestion(context.Background(), Context{
		KeyProblemStatement: "Two sum",
		KeyCode:             "func twoSum() {}",
		KeyDiff:             "+func twoSum() {}",
		KeyHistory:          "No history yet.",
	})

	require.NoError(t, err)
	assert.Equal(t, "Why is the loop O(n^2)?", out)
	require.Len(t, provider.messages, 2)
	assert.Equal(t, llm.RoleSystem, provider.messages[0].Role)
	assert.Contains(t, provider.messages[0].Content, "Two sum")
	assert.Equal(t, llm.RoleUser, provider.messages[1].Role)
	assert.Contains(t, provider.messages[1].Content, "func twoSum() {}")
	assert.Contains(t, provider.messages[1].Content, "+func twoSum() {}")
	assert.Contains(t, provider.messages[1].Content, "No history yet.")
}

func TestMissingKeysRenderEmpty(t *testing.T) {
	provider := &recordingProvider{reply: "report"}
	pipeline := NewLLMPipeline(provider)

	_, err := pipeline.GenerateReport(context.Background(), Context{KeyProblemStatement: "P"})

	require.NoError(t, err)
	assert.NotContains(t, provider.messages[1].Content, "<no value>")
}

func TestEvaluationPromptAsksForJSON(t *testing.T) {
	provider := &recordingProvider{reply: `{"evaluation_text":"ok","score":0.8}`}
	pipeline := NewLLMPipeline(provider)

	out, err := pipeline.EvaluateResponse(context.Background(), Context{
		KeyQuestion: "Why a map?",
		KeyResponse: "Constant lookups.",
	})

	require.NoError(t, err)
	assert.Contains(t, provider.messages[0].Content, `"evaluation_text"`)
	assert.Contains(t, provider.messages[1].Content, "Constant lookups.")
	_, err = DecodeEvaluation(out)
	assert.NoError(t, err)
}

func TestProviderErrorIsReturned(t *testing.T) {
	pipeline := NewLLMPipeline(&recordingProvider{err: errors.New("connection refused")})

	_, err := pipeline.GenerateQuestion(context.Background(), Context{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
