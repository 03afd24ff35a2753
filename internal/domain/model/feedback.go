package model

// Feedback — отзыв по собеседованию: оценка 1-5 и комментарий.
// На одно собеседование — не более одного отзыва
// (уникальный индекс на interview_id).
type Feedback struct {
	ID          int64
	InterviewID int64
	Rating      int
	Comment     string
}
