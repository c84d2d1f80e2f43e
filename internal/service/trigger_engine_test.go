package service

import (
	"testing"
	"time"

	"coding-assessment-be/internal/entity"
	"coding-assessment-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

var triggerNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestTrigger() *TriggerEngine {
	return NewTriggerEngineWithClock(
		TriggerConfig{MinInterval: 60 * time.Second, MinChangeLines: 5},
		func() time.Time { return triggerNow },
		logger.NewNopLogger(),
	)
}

func snapshotAt(ts time.Time, code string) *entity.Interaction {
	return &entity.Interaction{
		Id:        7,
		SessionId: 1,
		Timestamp: ts,
		Payload:   entity.CodeSnapshotTaken{},
		Snapshot:  &entity.CodeSnapshot{Id: 3, InteractionId: 7, Code: code, CreatedAt: ts},
	}
}

func TestShouldTriggerBootstrap(t *testing.T) {
	engine := newTestTrigger()

	assert.True(t, engine.ShouldTrigger(codeLines(5), nil))
	assert.True(t, engine.ShouldTrigger(codeLines(10), nil))
	assert.False(t, engine.ShouldTrigger(codeLines(4), nil))
	assert.False(t, engine.ShouldTrigger("", nil))
}

func TestShouldTriggerAfterIntervalOnAnyChange(t *testing.T) {
	engine := newTestTrigger()
	last := snapshotAt(triggerNow.Add(-61*time.Second), "x := 1\n")

	assert.True(t, engine.ShouldTrigger("x := 2\n", last))
	assert.False(t, engine.ShouldTrigger("x := 1\n", last), "unchanged code never triggers")
}

func TestShouldTriggerOnDiffMagnitude(t *testing.T) {
	engine := newTestTrigger()
	base := codeLines(10)
	last := snapshotAt(triggerNow, base)

	assert.True(t, engine.ShouldTrigger(base+codeLines(5), last))
	assert.False(t, engine.ShouldTrigger(base+"one more\n", last))
}

func TestShouldTriggerWithoutSnapshotUsesTimeOnly(t *testing.T) {
	engine := newTestTrigger()
	response := &entity.Interaction{
		Id:        9,
		SessionId: 1,
		Timestamp: triggerNow.Add(-2 * time.Minute),
		Payload:   entity.ResponseReceived{Response: "because", QuestionInteractionId: 8},
	}
	assert.True(t, engine.ShouldTrigger("anything", response))

	response.Timestamp = triggerNow.Add(-10 * time.Second)
	assert.False(t, engine.ShouldTrigger(codeLines(50), response))
}

func TestShouldTriggerIsDeterministic(t *testing.T) {
	engine := newTestTrigger()
	last := snapshotAt(triggerNow.Add(-30*time.Second), codeLines(3))
	current := codeLines(6)

	first := engine.ShouldTrigger(current, last)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, engine.ShouldTrigger(current, last))
	}
}
