package model

import "time"

// Interview — собеседование кандидата.
// ID — последовательный целочисленный, назначается БД.
// Result — свободный текст, может отсутствовать.
// Удаляется только каскадом при удалении кандидата.
type Interview struct {
	ID          int64
	CandidateID string
	Interviewer string
	ScheduledAt time.Time
	Result      *string
}
