package service

import (
	"time"

	"coding-assessment-be/internal/entity"
	"coding-assessment-be/internal/pkg/logger"
	"coding-assessment-be/pkg/codediff"
)

type TriggerConfig struct {
	MinInterval    time.Duration
	MinChangeLines int
}

// ITriggerEngine decides whether a code update warrants a question.
type ITriggerEngine interface {
	ShouldTrigger(currentCode string, last *entity.Interaction) bool
}

type TriggerEngine struct {
	config TriggerConfig
	now    func() time.Time
	logger logger.ILogger
}

func NewTriggerEngine(config TriggerConfig, log logger.ILogger) *TriggerEngine {
	return NewTriggerEngineWithClock(config, time.Now, log)
}

func NewTriggerEngineWithClock(config TriggerConfig, now func() time.Time, log logger.ILogger) *TriggerEngine {
	return &TriggerEngine{config: config, now: now, logger: log}
}

// ShouldTrigger compares currentCode with last, the latest interaction carrying a code
// snapshot (nil when the session has none yet).
func (e *TriggerEngine) ShouldTrigger(currentCode string, last *entity.Interaction) bool {
	if last == nil {
		return codediff.ChangedLines("", currentCode) >= e.config.MinChangeLines
	}

	elapsed := e.now().Sub(last.Timestamp)
	intervalPassed := elapsed >= e.config.MinInterval

	if !last.HasSnapshot() {
		// Nothing to diff against, only the time check can fire.
		e.logger.Warn("TriggerEngine", "Last interaction has no code snapshot, using time-only check", map[string]interface{}{
			"interaction_id": last.Id,
			"session_id":     last.SessionId,
			"elapsed":        elapsed.String(),
		})
		return intervalPassed
	}

	previousCode := last.Snapshot.Code
	if intervalPassed && previousCode != currentCode {
		return true
	}

	return codediff.ChangedLines(previousCode, currentCode) >= e.config.MinChangeLines
}
