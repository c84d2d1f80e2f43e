package model

import "time"

type AssessmentSession struct {
	Id               uint      `gorm:"primaryKey;autoIncrement"`
	ProblemStatement string    `gorm:"type:text;not null"`
	StartTime        time.Time `gorm:"not null"`
	EndTime          *time.Time
	Interactions     []Interaction `gorm:"foreignKey:SessionId;constraint:OnDelete:CASCADE"`
	Report           *Report       `gorm:"foreignKey:SessionId;constraint:OnDelete:CASCADE"`
}

func (AssessmentSession) TableName() string {
	return "assessment_sessions"
}
