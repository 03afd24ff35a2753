package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hiretrack/hiretrack/internal/domain/model"
	"github.com/hiretrack/hiretrack/internal/repository"
)

// memStore — репозитории в памяти для unit-тестов сервисного слоя.
// Воспроизводит контракт PostgreSQL-репозиториев: sentinel-ошибки,
// каскадное удаление, сортировку выборок.
type memStore struct {
	candidates map[string]*model.Candidate
	interviews map[int64]*model.Interview
	feedback   map[int64]*model.Feedback
	nextIV     int64
	nextFB     int64
}

func newMemStore() *memStore {
	return &memStore{
		candidates: make(map[string]*model.Candidate),
		interviews: make(map[int64]*model.Interview),
		feedback:   make(map[int64]*model.Feedback),
	}
}

// --- CandidateRepository ---

func (m *memStore) Create(ctx context.Context, c *model.Candidate) error {
	for _, existing := range m.candidates {
		if existing.Email == c.Email {
			return fmt.Errorf("%w: кандидат с таким email уже существует", repository.ErrConflict)
		}
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	m.candidates[c.ID] = c
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id string) (*model.Candidate, error) {
	c, ok := m.candidates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (m *memStore) GetByEmail(ctx context.Context, email string) (*model.Candidate, error) {
	for _, c := range m.candidates {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) List(ctx context.Context) ([]*model.Candidate, error) {
	result := make([]*model.Candidate, 0, len(m.candidates))
	for _, c := range m.candidates {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (m *memStore) UpdateStatus(ctx context.Context, id string, status model.CandidateStatus) (*model.Candidate, error) {
	c, ok := m.candidates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c.Status = status
	c.UpdatedAt = time.Now().UTC()
	return c, nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	if _, ok := m.candidates[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.candidates, id)
	// Каскад: собеседования кандидата и их отзывы
	for ivID, iv := range m.interviews {
		if iv.CandidateID != id {
			continue
		}
		delete(m.interviews, ivID)
		for fbID, fb := range m.feedback {
			if fb.InterviewID == ivID {
				delete(m.feedback, fbID)
			}
		}
	}
	return nil
}

// --- interviewFake: InterviewRepository поверх memStore ---

type interviewFake struct{ s *memStore }

func (f *interviewFake) Create(ctx context.Context, iv *model.Interview) error {
	if _, ok := f.s.candidates[iv.CandidateID]; !ok {
		return fmt.Errorf("%w: кандидат не найден", repository.ErrNotFound)
	}
	f.s.nextIV++
	iv.ID = f.s.nextIV
	f.s.interviews[iv.ID] = iv
	return nil
}

func (f *interviewFake) GetByID(ctx context.Context, id int64) (*model.Interview, error) {
	iv, ok := f.s.interviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return iv, nil
}

func (f *interviewFake) ListByCandidate(ctx context.Context, candidateID string) ([]*model.Interview, error) {
	return f.ListByCandidateIDs(ctx, []string{candidateID})
}

func (f *interviewFake) ListByCandidateIDs(ctx context.Context, candidateIDs []string) ([]*model.Interview, error) {
	ids := make(map[string]bool, len(candidateIDs))
	for _, id := range candidateIDs {
		ids[id] = true
	}
	var result []*model.Interview
	for _, iv := range f.s.interviews {
		if ids[iv.CandidateID] {
			result = append(result, iv)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ScheduledAt.Before(result[j].ScheduledAt)
	})
	return result, nil
}

// --- feedbackFake: FeedbackRepository поверх memStore ---

type feedbackFake struct{ s *memStore }

func (f *feedbackFake) Create(ctx context.Context, fb *model.Feedback) error {
	if _, ok := f.s.interviews[fb.InterviewID]; !ok {
		return fmt.Errorf("%w: собеседование не найдено", repository.ErrNotFound)
	}
	for _, existing := range f.s.feedback {
		if existing.InterviewID == fb.InterviewID {
			return fmt.Errorf("%w: отзыв по этому собеседованию уже существует", repository.ErrConflict)
		}
	}
	f.s.nextFB++
	fb.ID = f.s.nextFB
	f.s.feedback[fb.ID] = fb
	return nil
}

func (f *feedbackFake) GetByInterview(ctx context.Context, interviewID int64) (*model.Feedback, error) {
	for _, fb := range f.s.feedback {
		if fb.InterviewID == interviewID {
			return fb, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *feedbackFake) ListByInterview(ctx context.Context, interviewID int64) ([]*model.Feedback, error) {
	return f.ListByInterviewIDs(ctx, []int64{interviewID})
}

func (f *feedbackFake) ListByInterviewIDs(ctx context.Context, interviewIDs []int64) ([]*model.Feedback, error) {
	ids := make(map[int64]bool, len(interviewIDs))
	for _, id := range interviewIDs {
		ids[id] = true
	}
	var result []*model.Feedback
	for _, fb := range f.s.feedback {
		if ids[fb.InterviewID] {
			result = append(result, fb)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// newServices собирает сервисный слой поверх memStore.
func newServices(s *memStore) (*CandidateService, *InterviewService, *FeedbackService) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	ivRepo := &interviewFake{s: s}
	fbRepo := &feedbackFake{s: s}
	return NewCandidateService(s, ivRepo, fbRepo, logger),
		NewInterviewService(s, ivRepo, logger),
		NewFeedbackService(ivRepo, fbRepo, logger)
}

// --- Кандидаты ---

func TestCandidateCreate(t *testing.T) {
	store := newMemStore()
	candSvc, _, _ := newServices(store)
	ctx := context.Background()

	c, err := candSvc.Create(ctx, "John Doe", "john.doe@example.com", "Software Engineer")
	if err != nil {
		t.Fatalf("Create() ошибка: %v", err)
	}
	if c.ID == "" {
		t.Error("ID не назначен")
	}
	if _, err := uuid.Parse(c.ID); err != nil {
		t.Errorf("ID не является UUID: %q", c.ID)
	}
	if c.Status != model.StatusApplied {
		t.Errorf("Status = %q, хотели %q", c.Status, model.StatusApplied)
	}
}

func TestCandidateCreate_DuplicateEmail(t *testing.T) {
	store := newMemStore()
	candSvc, _, _ := newServices(store)
	ctx := context.Background()

	if _, err := candSvc.Create(ctx, "John Doe", "dup@example.com", "Engineer"); err != nil {
		t.Fatalf("Create() ошибка: %v", err)
	}

	_, err := candSvc.Create(ctx, "Jane Doe", "dup@example.com", "Manager")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("Create() с дублирующимся email: ожидали ErrConflict, получили: %v", err)
	}
	if len(store.candidates) != 1 {
		t.Errorf("В хранилище %d кандидатов, хотели 1", len(store.candidates))
	}
}

func TestCandidateUpdateStatus_NotFound(t *testing.T) {
	store := newMemStore()
	candSvc, _, _ := newServices(store)

	_, err := candSvc.UpdateStatus(context.Background(), uuid.New().String(), model.StatusHired)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateStatus() несуществующего кандидата: ожидали ErrNotFound, получили: %v", err)
	}
	if len(store.candidates) != 0 {
		t.Error("Хранилище изменилось при неудачном обновлении")
	}
}

func TestCandidateDelete_Cascade(t *testing.T) {
	store := newMemStore()
	candSvc, ivSvc, fbSvc := newServices(store)
	ctx := context.Background()

	c, err := candSvc.Create(ctx, "John Doe", "cascade@example.com", "Engineer")
	if err != nil {
		t.Fatalf("Create() ошибка: %v", err)
	}
	iv, err := ivSvc.Schedule(ctx, c.ID, "Alice Johnson", time.Now().UTC())
	if err != nil {
		t.Fatalf("Schedule() ошибка: %v", err)
	}
	if _, err := fbSvc.Add(ctx, iv.ID, 5, "Excellent"); err != nil {
		t.Fatalf("Add() ошибка: %v", err)
	}

	if err := candSvc.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete() ошибка: %v", err)
	}
	if len(store.interviews) != 0 || len(store.feedback) != 0 {
		t.Errorf("Каскад не отработал: interviews=%d, feedback=%d",
			len(store.interviews), len(store.feedback))
	}

	if err := candSvc.Delete(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Повторный Delete(): ожидали ErrNotFound, получили: %v", err)
	}
}

func TestCandidateList_NestedAssembly(t *testing.T) {
	store := newMemStore()
	candSvc, ivSvc, fbSvc := newServices(store)
	ctx := context.Background()

	c1, err := candSvc.Create(ctx, "John Doe", "n1@example.com", "Engineer")
	if err != nil {
		t.Fatalf("Create() ошибка: %v", err)
	}
	c2, err := candSvc.Create(ctx, "Jane Roe", "n2@example.com", "Manager")
	if err != nil {
		t.Fatalf("Create() ошибка: %v", err)
	}

	// Собеседования c1 создаются в обратном хронологическом порядке
	late, err := ivSvc.Schedule(ctx, c1.ID, "Bob Smith", time.Date(2025, 7, 2, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Schedule() ошибка: %v", err)
	}
	early, err := ivSvc.Schedule(ctx, c1.ID, "Alice Johnson", time.Date(2025, 6, 30, 14, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Schedule() ошибка: %v", err)
	}
	if _, err := fbSvc.Add(ctx, late.ID, 4, "Good"); err != nil {
		t.Fatalf("Add() ошибка: %v", err)
	}

	list, err := candSvc.List(ctx)
	if err != nil {
		t.Fatalf("List() ошибка: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List() вернул %d кандидатов, хотели 2", len(list))
	}
	if list[0].ID != c1.ID || list[1].ID != c2.ID {
		t.Error("Нарушен порядок кандидатов по created_at")
	}

	// Вложенные собеседования c1: по scheduled_at
	ivs := list[0].Interviews
	if len(ivs) != 2 {
		t.Fatalf("У первого кандидата %d собеседований, хотели 2", len(ivs))
	}
	if ivs[0].ID != early.ID || ivs[1].ID != late.ID {
		t.Error("Нарушен порядок собеседований по scheduled_at")
	}
	if len(ivs[0].Feedback) != 0 {
		t.Errorf("У раннего собеседования %d отзывов, хотели 0", len(ivs[0].Feedback))
	}
	if len(ivs[1].Feedback) != 1 || ivs[1].Feedback[0].Rating != 4 {
		t.Error("Отзыв не привязан к своему собеседованию")
	}

	// У второго кандидата собеседований нет
	if len(list[1].Interviews) != 0 {
		t.Errorf("У второго кандидата %d собеседований, хотели 0", len(list[1].Interviews))
	}
}

// --- Собеседования ---

func TestInterviewSchedule_CandidateNotFound(t *testing.T) {
	store := newMemStore()
	_, ivSvc, _ := newServices(store)

	_, err := ivSvc.Schedule(context.Background(), uuid.New().String(), "Alice Johnson", time.Now().UTC())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Schedule() для несуществующего кандидата: ожидали ErrNotFound, получили: %v", err)
	}
	if len(store.interviews) != 0 {
		t.Error("Собеседование создано для несуществующего кандидата")
	}
}

func TestInterviewListForCandidate_NotFound(t *testing.T) {
	store := newMemStore()
	_, ivSvc, _ := newServices(store)

	_, err := ivSvc.ListForCandidate(context.Background(), uuid.New().String())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ListForCandidate(): ожидали ErrNotFound, получили: %v", err)
	}
}

// --- Отзывы ---

func TestFeedbackAdd_InterviewNotFound(t *testing.T) {
	store := newMemStore()
	_, _, fbSvc := newServices(store)

	_, err := fbSvc.Add(context.Background(), 42, 5, "Excellent")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Add() для несуществующего собеседования: ожидали ErrNotFound, получили: %v", err)
	}
}

func TestFeedbackAdd_Duplicate(t *testing.T) {
	store := newMemStore()
	candSvc, ivSvc, fbSvc := newServices(store)
	ctx := context.Background()

	c, err := candSvc.Create(ctx, "John Doe", "fb@example.com", "Engineer")
	if err != nil {
		t.Fatalf("Create() ошибка: %v", err)
	}
	iv, err := ivSvc.Schedule(ctx, c.ID, "Alice Johnson", time.Now().UTC())
	if err != nil {
		t.Fatalf("Schedule() ошибка: %v", err)
	}

	if _, err := fbSvc.Add(ctx, iv.ID, 5, "Excellent"); err != nil {
		t.Fatalf("Add() ошибка: %v", err)
	}

	_, err = fbSvc.Add(ctx, iv.ID, 1, "Second opinion")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("Повторный Add(): ожидали ErrConflict, получили: %v", err)
	}
	if len(store.feedback) != 1 {
		t.Errorf("В хранилище %d отзывов, хотели 1", len(store.feedback))
	}
}

func TestFeedbackListForInterview_NotFound(t *testing.T) {
	store := newMemStore()
	_, _, fbSvc := newServices(store)

	_, err := fbSvc.ListForInterview(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ListForInterview(): ожидали ErrNotFound, получили: %v", err)
	}
}
