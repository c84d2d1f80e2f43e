package specification

import (
	"time"

	"gorm.io/gorm"
)

// BySessionID filters rows that belong to an assessment session
type BySessionID struct {
	SessionID uint
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// InteractionByID is ByID for queries that may join other tables
type InteractionByID struct {
	ID uint
}

func (s InteractionByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("interactions.id = ?", s.ID)
}

// InteractionsOfSession is BySessionID qualified for the interactions table
type InteractionsOfSession struct {
	SessionID uint
}

func (s InteractionsOfSession) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("interactions.session_id = ?", s.SessionID)
}

// HasCodeSnapshot keeps only interactions that own a code snapshot
type HasCodeSnapshot struct{}

func (s HasCodeSnapshot) Apply(db *gorm.DB) *gorm.DB {
	return db.Select("interactions.*").
		Joins("JOIN code_snapshots ON code_snapshots.interaction_id = interactions.id")
}

// InteractionsBefore keeps interactions that sort strictly before (OccurredAt, ID)
type InteractionsBefore struct {
	OccurredAt time.Time
	ID         uint
}

func (s InteractionsBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(
		"interactions.occurred_at < ? OR (interactions.occurred_at = ? AND interactions.id < ?)",
		s.OccurredAt, s.OccurredAt, s.ID,
	)
}

// SessionOrder orders interactions chronologically, newest first when Desc is set
type SessionOrder struct {
	Desc bool
}

func (s SessionOrder) Apply(db *gorm.DB) *gorm.DB {
	db = OrderBy{Field: "interactions.occurred_at", Desc: s.Desc}.Apply(db)
	return OrderBy{Field: "interactions.id", Desc: s.Desc}.Apply(db)
}
