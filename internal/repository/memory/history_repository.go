package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"coding-assessment-be/internal/entity"
	"coding-assessment-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// HistoryRepository keeps conversation transcripts in process memory. A transcript expires
// after ttl without appends, like the redis implementation.
type HistoryRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
	ttl   time.Duration
}

var _ contract.HistoryRepository = &HistoryRepository{}

func NewHistoryRepository(ttl time.Duration) *HistoryRepository {
	return &HistoryRepository{
		cache: cache.New(ttl, 10*time.Minute),
		ttl:   ttl,
	}
}

func historyKey(sessionId uint) string {
	return strconv.FormatUint(uint64(sessionId), 10)
}

func (r *HistoryRepository) Append(_ context.Context, sessionId uint, message entity.HistoryMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var messages []entity.HistoryMessage
	if x, found := r.cache.Get(historyKey(sessionId)); found {
		messages = x.([]entity.HistoryMessage)
	}
	// Copy so slices handed out by List never observe the append.
	next := make([]entity.HistoryMessage, len(messages), len(messages)+1)
	copy(next, messages)
	next = append(next, message)

	r.cache.Set(historyKey(sessionId), next, r.ttl)
	return nil
}

func (r *HistoryRepository) List(_ context.Context, sessionId uint) ([]entity.HistoryMessage, error) {
	if x, found := r.cache.Get(historyKey(sessionId)); found {
		messages := x.([]entity.HistoryMessage)
		return append([]entity.HistoryMessage(nil), messages...), nil
	}
	return []entity.HistoryMessage{}, nil
}
