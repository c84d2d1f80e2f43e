package entity

import "time"

type ScoreSummary struct {
	AverageScore float64
	Scores       []float64
}

type Report struct {
	Id        uint
	SessionId uint
	Content   string
	Scores    ScoreSummary
	CreatedAt time.Time
}
