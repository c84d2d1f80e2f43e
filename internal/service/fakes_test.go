package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"coding-assessment-be/internal/pkg/logger"
	"coding-assessment-be/internal/repository/memory"
	"coding-assessment-be/pkg/assessment"
)

type sentMessage struct {
	SessionId uint
	Message   interface{}
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (n *recordingNotifier) Send(sessionId uint, message interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{SessionId: sessionId, Message: message})
}

func (n *recordingNotifier) Messages() []interface{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]interface{}, len(n.sent))
	for i, m := range n.sent {
		out[i] = m.Message
	}
	return out
}

// scriptedPipeline answers every call with fixed outputs and records the contexts it saw.
type scriptedPipeline struct {
	mu         sync.Mutex
	question   string
	evaluation string
	report     string
	err        error
	calls      map[string][]assessment.Context
}

func newScriptedPipeline() *scriptedPipeline {
	return &scriptedPipeline{
		question:   "Why did you choose a map here?",
		evaluation: `{"evaluation_text": "Clear reasoning.", "score": 0.8}`,
		report:     "The candidate solved the problem.",
		calls:      make(map[string][]assessment.Context),
	}
}

func (p *scriptedPipeline) record(name string, input assessment.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls[name] = append(p.calls[name], input)
}

func (p *scriptedPipeline) Calls(name string) []assessment.Context {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[name]
}

func (p *scriptedPipeline) GenerateQuestion(_ context.Context, input assessment.Context) (string, error) {
	p.record("question", input)
	return p.question, p.err
}

func (p *scriptedPipeline) EvaluateResponse(_ context.Context, input assessment.Context) (string, error) {
	p.record("evaluation", input)
	return p.evaluation, p.err
}

func (p *scriptedPipeline) GenerateReport(_ context.Context, input assessment.Context) (string, error) {
	p.record("report", input)
	return p.report, p.err
}

type publishedEvent struct {
	Type          string
	SessionId     uint
	InteractionId uint
}

type recordingEvents struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (e *recordingEvents) add(evt publishedEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, evt)
}

func (e *recordingEvents) PublishQuestionAsked(_ context.Context, sessionId, interactionId uint) {
	e.add(publishedEvent{Type: "question_asked", SessionId: sessionId, InteractionId: interactionId})
}

func (e *recordingEvents) PublishResponseEvaluated(_ context.Context, sessionId, interactionId uint, _ float64) {
	e.add(publishedEvent{Type: "response_evaluated", SessionId: sessionId, InteractionId: interactionId})
}

func (e *recordingEvents) PublishReportGenerated(_ context.Context, sessionId, _ uint, _ float64) {
	e.add(publishedEvent{Type: "report_generated", SessionId: sessionId})
}

// fakeClock hands out strictly increasing times so interaction order is unambiguous.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	clock        *fakeClock
	store        *memory.AssessmentStore
	history      IHistoryService
	pipeline     *scriptedPipeline
	notifier     *recordingNotifier
	events       *recordingEvents
	orchestrator *Orchestrator
	router       *EventRouter
}

func newTestEnv() *testEnv {
	log := logger.NewNopLogger()
	clock := newFakeClock()
	store := memory.NewAssessmentStoreWithClock(clock.Now)
	history := NewHistoryService(memory.NewHistoryRepository(time.Hour))
	pipeline := newScriptedPipeline()
	notifier := &recordingNotifier{}
	events := &recordingEvents{}

	assembler := NewContextAssembler(history, ContextConfig{MaxHistoryMessages: 10})
	orchestrator := NewOrchestrator(store, history, assembler, pipeline, notifier, events, log)
	trigger := NewTriggerEngineWithClock(TriggerConfig{MinInterval: time.Minute, MinChangeLines: 5}, clock.Now, log)
	router := NewEventRouter(store, trigger, orchestrator, notifier, NewSessionSequencer(), log)

	return &testEnv{
		clock:        clock,
		store:        store,
		history:      history,
		pipeline:     pipeline,
		notifier:     notifier,
		events:       events,
		orchestrator: orchestrator,
		router:       router,
	}
}

func codeLines(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	return b.String()
}
