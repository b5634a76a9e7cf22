package question

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/bidblab/bidblab-api/internal/domain/credit"
)

type stubRepo struct {
	questions map[uuid.UUID]*Question
	answers   []*Answer
}

func newStubRepo() *stubRepo {
	return &stubRepo{questions: make(map[uuid.UUID]*Question)}
}

func (s *stubRepo) Create(_ context.Context, q *Question) error {
	s.questions[q.ID] = q
	return nil
}

func (s *stubRepo) GetByID(_ context.Context, id uuid.UUID) (*Question, error) {
	q, ok := s.questions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return q, nil
}

func (s *stubRepo) List(_ context.Context, _ *Filter, _ *Pagination) ([]*Question, int, error) {
	out := make([]*Question, 0, len(s.questions))
	for _, q := range s.questions {
		out = append(out, q)
	}
	return out, len(out), nil
}

func (s *stubRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.questions[id]; !ok {
		return ErrNotFound
	}
	delete(s.questions, id)
	return nil
}

func (s *stubRepo) AddAnswer(_ context.Context, a *Answer) error {
	for _, existing := range s.answers {
		if existing.QuestionID == a.QuestionID && existing.AnswererID == a.AnswererID {
			return ErrAlreadyAnswered
		}
	}
	s.answers = append(s.answers, a)
	return nil
}

func (s *stubRepo) CountAnswers(_ context.Context, questionID uuid.UUID) (int, error) {
	count := 0
	for _, a := range s.answers {
		if a.QuestionID == questionID {
			count++
		}
	}
	return count, nil
}

func (s *stubRepo) HasAnswerBy(_ context.Context, questionID, answererID uuid.UUID) (bool, error) {
	for _, a := range s.answers {
		if a.QuestionID == questionID && a.AnswererID == answererID {
			return true, nil
		}
	}
	return false, nil
}

type stubSchedule struct {
	schedule credit.DefaultSchedule
}

func (s *stubSchedule) Schedule(_ context.Context) (*credit.DefaultSchedule, error) {
	out := s.schedule
	return &out, nil
}

func testSchedule() *stubSchedule {
	return &stubSchedule{schedule: credit.DefaultSchedule{
		QuestionCredit:      10,
		PublicAnswerCredit:  10,
		PrivateAnswerCredit: 5,
		OptionalImageCredit: 5,
		ReferralCredit:      20,
		SignupCredit:        50,
		FirstAnswerCredit:   10,
	}}
}

func requireNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAskFreezesScheduledCredit(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, testSchedule())

	q, err := svc.Ask(context.Background(), uuid.New(), &AskRequest{Title: "What is it worth", Content: "Looking for an estimate"})
	requireNoError(t, err)

	if q.Credit != 10 {
		t.Fatalf("expected question credit 10, got %d", q.Credit)
	}
	if q.OptionalImageCredit != 0 {
		t.Fatalf("expected no image credit without picture, got %d", q.OptionalImageCredit)
	}
}

func TestAskWithPictureEarnsImageCredit(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, testSchedule())

	q, err := svc.Ask(context.Background(), uuid.New(), &AskRequest{
		Title:      "What is it worth",
		Content:    "Picture attached",
		PictureURL: "https://cdn.example.com/questions/abc.jpg",
	})
	requireNoError(t, err)

	if q.OptionalImageCredit != 5 {
		t.Fatalf("expected image credit 5, got %d", q.OptionalImageCredit)
	}
	if !q.PictureURL.Valid {
		t.Fatal("expected picture url to be set")
	}
}

func TestAnswerRejectsSelfAnswer(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, testSchedule())

	asker := uuid.New()
	q, err := svc.Ask(context.Background(), asker, &AskRequest{Title: "Title here", Content: "Content here"})
	requireNoError(t, err)

	_, err = svc.Answer(context.Background(), q.ID, asker, &AnswerRequest{Content: "mine", IsPublic: true})
	if !errors.Is(err, ErrSelfAnswer) {
		t.Fatalf("expected ErrSelfAnswer, got %v", err)
	}
}

func TestAnswerRejectsSecondAnswerBySameUser(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, testSchedule())

	q, err := svc.Ask(context.Background(), uuid.New(), &AskRequest{Title: "Title here", Content: "Content here"})
	requireNoError(t, err)

	answerer := uuid.New()
	_, err = svc.Answer(context.Background(), q.ID, answerer, &AnswerRequest{Content: "first", IsPublic: true})
	requireNoError(t, err)

	_, err = svc.Answer(context.Background(), q.ID, answerer, &AnswerRequest{Content: "second", IsPublic: true})
	if !errors.Is(err, ErrAlreadyAnswered) {
		t.Fatalf("expected ErrAlreadyAnswered, got %v", err)
	}
}

func TestFirstAnswerEarnsBonus(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, testSchedule())

	q, err := svc.Ask(context.Background(), uuid.New(), &AskRequest{Title: "Title here", Content: "Content here"})
	requireNoError(t, err)

	first, err := svc.Answer(context.Background(), q.ID, uuid.New(), &AnswerRequest{Content: "first", IsPublic: true})
	requireNoError(t, err)
	if first.Credit != 20 {
		t.Fatalf("expected public credit 10 plus bonus 10, got %d", first.Credit)
	}

	second, err := svc.Answer(context.Background(), q.ID, uuid.New(), &AnswerRequest{Content: "second", IsPublic: true})
	requireNoError(t, err)
	if second.Credit != 10 {
		t.Fatalf("expected public credit 10 without bonus, got %d", second.Credit)
	}
}

func TestPrivateAnswerEarnsReducedCredit(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, testSchedule())

	q, err := svc.Ask(context.Background(), uuid.New(), &AskRequest{Title: "Title here", Content: "Content here"})
	requireNoError(t, err)

	// Seed a public answer so the private one isn't the first.
	_, err = svc.Answer(context.Background(), q.ID, uuid.New(), &AnswerRequest{Content: "public", IsPublic: true})
	requireNoError(t, err)

	private, err := svc.Answer(context.Background(), q.ID, uuid.New(), &AnswerRequest{Content: "private", IsPublic: false})
	requireNoError(t, err)
	if private.Credit != 5 {
		t.Fatalf("expected private credit 5, got %d", private.Credit)
	}
}

func TestDeleteRequiresOwnerOrAdmin(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, testSchedule())

	asker := uuid.New()
	q, err := svc.Ask(context.Background(), asker, &AskRequest{Title: "Title here", Content: "Content here"})
	requireNoError(t, err)

	if err := svc.Delete(context.Background(), q.ID, uuid.New(), false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}
	if err := svc.Delete(context.Background(), q.ID, uuid.New(), true); err != nil {
		t.Fatalf("expected admin delete to succeed, got %v", err)
	}
}
