package entity

import "time"

type Session struct {
	Id               uint
	ProblemStatement string
	StartTime        time.Time
	EndTime          *time.Time
}

func (s *Session) IsEnded() bool {
	return s.EndTime != nil
}
