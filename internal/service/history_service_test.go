package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"coding-assessment-be/internal/entity"
	"coding-assessment-be/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatHistoryWindow(t *testing.T) {
	var messages []entity.HistoryMessage
	for i := 1; i <= 15; i++ {
		messages = append(messages, entity.HistoryMessage{Role: entity.RoleUser, Content: fmt.Sprintf("m%d", i)})
	}

	lines := strings.Split(FormatHistory(messages, 10), "\n")
	require.Len(t, lines, 10)
	for i, line := range lines {
		assert.Equal(t, fmt.Sprintf("User: m%d", i+6), line)
	}
}

func TestFormatHistoryRolesAndLimits(t *testing.T) {
	messages := []entity.HistoryMessage{
		{Role: entity.RoleSystem, Content: "be brief"},
		{Role: entity.RoleAssistant, Content: "Why?"},
		{Role: entity.RoleUser, Content: "Because."},
	}

	assert.Equal(t, "System: be brief\nAssistant: Why?\nUser: Because.", FormatHistory(messages, 0))
	assert.Equal(t, "User: Because.", FormatHistory(messages, 1))
	assert.Equal(t, NoHistoryText, FormatHistory(nil, 10))
}

func TestHistoryServiceAppendsInOrder(t *testing.T) {
	ctx := context.Background()
	svc := NewHistoryService(memory.NewHistoryRepository(time.Hour))

	require.NoError(t, svc.AddAssistantMessage(ctx, 1, "What is the complexity?"))
	require.NoError(t, svc.AddUserMessage(ctx, 1, "O(n)"))
	require.NoError(t, svc.AddUserMessage(ctx, 2, "other session"))

	window, err := svc.Window(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "Assistant: What is the complexity?\nUser: O(n)", window)

	empty, err := svc.Window(ctx, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, NoHistoryText, empty)
}
