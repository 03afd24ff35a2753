// Пакет model — доменные модели Hiretrack.
package model

import "time"

// CandidateStatus — статус кандидата в воронке найма.
type CandidateStatus string

// Допустимые статусы кандидата.
const (
	StatusApplied      CandidateStatus = "APPLIED"
	StatusInterviewing CandidateStatus = "INTERVIEWING"
	StatusHired        CandidateStatus = "HIRED"
	StatusRejected     CandidateStatus = "REJECTED"
)

// Valid сообщает, является ли значение одним из четырёх допустимых статусов.
func (s CandidateStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusInterviewing, StatusHired, StatusRejected:
		return true
	}
	return false
}

// Candidate — кандидат на вакансию.
// ID — UUID, назначается при создании и неизменен.
// Email уникален среди всех кандидатов (уникальный индекс в БД).
type Candidate struct {
	ID        string
	Name      string
	Email     string
	Position  string
	Status    CandidateStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
