package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"coding-assessment-be/internal/entity"
	"coding-assessment-be/internal/pkg/apperror"
	"coding-assessment-be/internal/repository/contract"
)

// AssessmentStore keeps sessions, interactions and reports in process memory. It backs
// STORAGE_DRIVER=memory and the service tests. Every read returns a copy.
type AssessmentStore struct {
	mu           sync.RWMutex
	now          func() time.Time
	sessions     map[uint]*entity.Session
	interactions map[uint]*entity.Interaction
	bySession    map[uint][]uint // interaction ids in insertion order
	reports      map[uint]*entity.Report
	nextSession  uint
	nextInteract uint
	nextSnapshot uint
	nextReport   uint
}

var _ contract.AssessmentStore = &AssessmentStore{}

func NewAssessmentStore() *AssessmentStore {
	return NewAssessmentStoreWithClock(func() time.Time { return time.Now().UTC() })
}

func NewAssessmentStoreWithClock(now func() time.Time) *AssessmentStore {
	return &AssessmentStore{
		now:          now,
		sessions:     make(map[uint]*entity.Session),
		interactions: make(map[uint]*entity.Interaction),
		bySession:    make(map[uint][]uint),
		reports:      make(map[uint]*entity.Report),
	}
}

func copySession(s *entity.Session) *entity.Session {
	c := *s
	if s.EndTime != nil {
		t := *s.EndTime
		c.EndTime = &t
	}
	return &c
}

func copyInteraction(i *entity.Interaction) *entity.Interaction {
	c := *i
	if i.Snapshot != nil {
		snap := *i.Snapshot
		c.Snapshot = &snap
	}
	return &c
}

func copyReport(r *entity.Report) *entity.Report {
	c := *r
	c.Scores.Scores = append(make([]float64, 0, len(r.Scores.Scores)), r.Scores.Scores...)
	return &c
}

func (s *AssessmentStore) CreateSession(_ context.Context, problemStatement string) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSession++
	session := &entity.Session{Id: s.nextSession, ProblemStatement: problemStatement, StartTime: s.now()}
	s.sessions[session.Id] = session
	return copySession(session), nil
}

func (s *AssessmentStore) GetSession(_ context.Context, sessionId uint) (*entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionId]
	if !ok {
		return nil, apperror.NotFound("session %d not found", sessionId)
	}
	return copySession(session), nil
}

func (s *AssessmentStore) EndSession(_ context.Context, sessionId uint) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionId]
	if !ok {
		return nil, apperror.NotFound("session %d not found", sessionId)
	}
	if session.EndTime == nil {
		now := s.now()
		session.EndTime = &now
	}
	return copySession(session), nil
}

func (s *AssessmentStore) insertLocked(sessionId uint, payload entity.InteractionPayload) (*entity.Interaction, error) {
	if _, ok := s.sessions[sessionId]; !ok {
		return nil, apperror.NotFound("session %d not found", sessionId)
	}
	s.nextInteract++
	interaction := &entity.Interaction{
		Id:        s.nextInteract,
		SessionId: sessionId,
		Timestamp: s.now(),
		Payload:   payload,
	}
	s.interactions[interaction.Id] = interaction
	s.bySession[sessionId] = append(s.bySession[sessionId], interaction.Id)
	return interaction, nil
}

func (s *AssessmentStore) CreateInteraction(_ context.Context, sessionId uint, payload entity.InteractionPayload) (*entity.Interaction, error) {
	if payload == nil {
		return nil, apperror.Validation("interaction payload is missing")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	interaction, err := s.insertLocked(sessionId, payload)
	if err != nil {
		return nil, err
	}
	return copyInteraction(interaction), nil
}

func (s *AssessmentStore) CreateCodeSnapshotInteraction(_ context.Context, sessionId uint, code string) (*entity.Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	interaction, err := s.insertLocked(sessionId, entity.CodeSnapshotTaken{})
	if err != nil {
		return nil, err
	}
	s.nextSnapshot++
	interaction.Snapshot = &entity.CodeSnapshot{
		Id:            s.nextSnapshot,
		InteractionId: interaction.Id,
		Code:          code,
		CreatedAt:     interaction.Timestamp,
	}
	return copyInteraction(interaction), nil
}

func (s *AssessmentStore) GetInteraction(_ context.Context, interactionId uint) (*entity.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	interaction, ok := s.interactions[interactionId]
	if !ok {
		return nil, apperror.NotFound("interaction %d not found", interactionId)
	}
	return copyInteraction(interaction), nil
}

func (s *AssessmentStore) UpdateInteraction(_ context.Context, interactionId uint, payload entity.InteractionPayload) (*entity.Interaction, error) {
	if payload == nil {
		return nil, apperror.Validation("interaction payload is missing")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	interaction, ok := s.interactions[interactionId]
	if !ok {
		return nil, apperror.NotFound("interaction %d not found", interactionId)
	}
	interaction.Payload = payload
	return copyInteraction(interaction), nil
}

// orderedLocked returns the session's interactions sorted by (timestamp, id).
func (s *AssessmentStore) orderedLocked(sessionId uint) []*entity.Interaction {
	ids := s.bySession[sessionId]
	out := make([]*entity.Interaction, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.interactions[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// lastLocked scans backwards for the latest interaction accepted by keep.
func (s *AssessmentStore) lastLocked(sessionId uint, keep func(*entity.Interaction) bool) *entity.Interaction {
	ordered := s.orderedLocked(sessionId)
	for i := len(ordered) - 1; i >= 0; i-- {
		if keep(ordered[i]) {
			return copyInteraction(ordered[i])
		}
	}
	return nil
}

func (s *AssessmentStore) GetLastInteraction(_ context.Context, sessionId uint) (*entity.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastLocked(sessionId, func(*entity.Interaction) bool { return true }), nil
}

func (s *AssessmentStore) GetLastInteractionWithSnapshot(_ context.Context, sessionId uint) (*entity.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastLocked(sessionId, (*entity.Interaction).HasSnapshot), nil
}

func (s *AssessmentStore) GetLastSnapshotBefore(_ context.Context, anchor *entity.Interaction) (*entity.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastLocked(anchor.SessionId, func(i *entity.Interaction) bool {
		return i.HasSnapshot() && i.Before(anchor)
	}), nil
}

func (s *AssessmentStore) ListInteractions(_ context.Context, sessionId uint) ([]*entity.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ordered := s.orderedLocked(sessionId)
	out := make([]*entity.Interaction, len(ordered))
	for i, interaction := range ordered {
		out[i] = copyInteraction(interaction)
	}
	return out, nil
}

func (s *AssessmentStore) CreateReport(_ context.Context, sessionId uint, content string, scores entity.ScoreSummary) (*entity.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionId]; !ok {
		return nil, apperror.NotFound("session %d not found", sessionId)
	}
	if _, exists := s.reports[sessionId]; exists {
		return nil, apperror.AlreadyExists("report for session %d already exists", sessionId)
	}

	s.nextReport++
	report := copyReport(&entity.Report{
		Id:        s.nextReport,
		SessionId: sessionId,
		Content:   content,
		Scores:    scores,
		CreatedAt: s.now(),
	})
	s.reports[sessionId] = report
	return copyReport(report), nil
}

func (s *AssessmentStore) GetReport(_ context.Context, sessionId uint) (*entity.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[sessionId]
	if !ok {
		return nil, apperror.NotFound("report for session %d not found", sessionId)
	}
	return copyReport(report), nil
}
