package model

import (
	"time"

	"gorm.io/datatypes"
)

type Interaction struct {
	Id              uint           `gorm:"primaryKey;autoIncrement"`
	SessionId       uint           `gorm:"not null;index:idx_interactions_session_time,priority:1"`
	OccurredAt      time.Time      `gorm:"not null;index:idx_interactions_session_time,priority:2"`
	InteractionType string         `gorm:"type:varchar(32);not null"`
	Data            datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"`
	CodeSnapshot    *CodeSnapshot  `gorm:"foreignKey:InteractionId;constraint:OnDelete:CASCADE"`
}

func (Interaction) TableName() string {
	return "interactions"
}

type CodeSnapshot struct {
	Id            uint      `gorm:"primaryKey;autoIncrement"`
	InteractionId uint      `gorm:"not null;uniqueIndex"`
	Code          string    `gorm:"type:text;not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (CodeSnapshot) TableName() string {
	return "code_snapshots"
}
