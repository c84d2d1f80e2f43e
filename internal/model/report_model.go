package model

import (
	"time"

	"gorm.io/datatypes"
)

type Report struct {
	Id        uint           `gorm:"primaryKey;autoIncrement"`
	SessionId uint           `gorm:"not null;uniqueIndex"`
	Content   string         `gorm:"type:text;not null"`
	Scores    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (Report) TableName() string {
	return "reports"
}
