package question

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bidblab/bidblab-api/internal/domain/credit"
)

// ScheduleProvider supplies the active credit schedule; rewards are frozen
// onto rows at creation time.
type ScheduleProvider interface {
	Schedule(ctx context.Context) (*credit.DefaultSchedule, error)
}

type Service struct {
	repo     Repository
	schedule ScheduleProvider
}

func NewService(repo Repository, schedule ScheduleProvider) *Service {
	return &Service{repo: repo, schedule: schedule}
}

// Ask creates a question and awards the asker the scheduled question credit,
// plus the optional image credit when a picture is attached.
func (s *Service) Ask(ctx context.Context, askerID uuid.UUID, req *AskRequest) (*Question, error) {
	schedule, err := s.schedule.Schedule(ctx)
	if err != nil {
		return nil, err
	}

	q := &Question{
		ID:      uuid.New(),
		AskerID: askerID,
		Title:   strings.TrimSpace(req.Title),
		Content: strings.TrimSpace(req.Content),
		Credit:  schedule.QuestionCredit,
	}
	if req.PictureURL != "" {
		q.PictureURL.String = req.PictureURL
		q.PictureURL.Valid = true
		q.OptionalImageCredit = schedule.OptionalImageCredit
	}

	if err := s.repo.Create(ctx, q); err != nil {
		return nil, err
	}

	q.Answers = make([]Answer, 0)

	log.Info().
		Str("question_id", q.ID.String()).
		Int("credit", q.Credit).
		Msg("question created")
	return q, nil
}

// Answer rewards the answerer with the public or private answer credit; the
// first answer on a question earns the first-answer bonus on top. Askers may
// not answer their own questions, and each user answers a question once.
func (s *Service) Answer(ctx context.Context, questionID, answererID uuid.UUID, req *AnswerRequest) (*Answer, error) {
	q, err := s.repo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	if q.AskerID == answererID {
		return nil, ErrSelfAnswer
	}

	answered, err := s.repo.HasAnswerBy(ctx, questionID, answererID)
	if err != nil {
		return nil, err
	}
	if answered {
		return nil, ErrAlreadyAnswered
	}

	schedule, err := s.schedule.Schedule(ctx)
	if err != nil {
		return nil, err
	}

	amount := schedule.PrivateAnswerCredit
	if req.IsPublic {
		amount = schedule.PublicAnswerCredit
	}

	count, err := s.repo.CountAnswers(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		amount += schedule.FirstAnswerCredit
	}

	a := &Answer{
		ID:         uuid.New(),
		QuestionID: questionID,
		AnswererID: answererID,
		Content:    strings.TrimSpace(req.Content),
		Credit:     amount,
		IsPublic:   req.IsPublic,
	}

	if err := s.repo.AddAnswer(ctx, a); err != nil {
		return nil, err
	}

	log.Info().
		Str("question_id", questionID.String()).
		Int("credit", a.Credit).
		Bool("first_answer", count == 0).
		Msg("answer created")
	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Question, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter *Filter, pagination *Pagination) ([]*Question, int, error) {
	return s.repo.List(ctx, filter, pagination)
}

// Delete is restricted to the asker and admins.
func (s *Service) Delete(ctx context.Context, id, callerID uuid.UUID, isAdmin bool) error {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !isAdmin && q.AskerID != callerID {
		return ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}
