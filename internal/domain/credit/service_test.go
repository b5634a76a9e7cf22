package credit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bidblab/bidblab-api/internal/domain/credit"
)

type stubRepo struct {
	question      int
	optionalImage int
	answer        int
	referral      int
	lose          int
	schedule      *credit.DefaultSchedule

	referralUserID string
	referralEmail  string
}

func (s *stubRepo) SumQuestionCredits(ctx context.Context, userID string) (int, int, error) {
	return s.question, s.optionalImage, nil
}

func (s *stubRepo) SumAnswerCredits(ctx context.Context, userID string) (int, error) {
	return s.answer, nil
}

func (s *stubRepo) SumReferralCredits(ctx context.Context, userID string, email string) (int, error) {
	s.referralUserID = userID
	s.referralEmail = email
	return s.referral, nil
}

func (s *stubRepo) SumBidFees(ctx context.Context, userID string) (int, error) {
	return s.lose, nil
}

func (s *stubRepo) SumBidFeesTx(ctx context.Context, tx *sqlx.Tx, userID string) (int, error) {
	return s.lose, nil
}

func (s *stubRepo) GetSchedule(ctx context.Context) (*credit.DefaultSchedule, error) {
	return s.schedule, nil
}

func (s *stubRepo) UpsertSchedule(ctx context.Context, schedule *credit.DefaultSchedule) error {
	s.schedule = schedule
	return nil
}

type stubDirectory struct {
	email string
	err   error
}

func (d *stubDirectory) EmailByID(ctx context.Context, userID uuid.UUID) (string, error) {
	return d.email, d.err
}

func requireNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestComputeBalanceAggregatesAllStreams(t *testing.T) {
	repo := &stubRepo{question: 30, optionalImage: 5, answer: 20, referral: 40, lose: 15}
	svc := credit.NewService(repo, &stubDirectory{email: "user@example.com"})

	account, err := svc.ComputeBalance(context.Background(), uuid.New())
	requireNoError(t, err)

	if account.QuestionCredits != 30 {
		t.Errorf("questionCredits: expected 30, got %d", account.QuestionCredits)
	}
	if account.OptionalImageCredits != 5 {
		t.Errorf("optionalImageCredits: expected 5, got %d", account.OptionalImageCredits)
	}
	if account.AnswerCredits != 20 {
		t.Errorf("answerCredits: expected 20, got %d", account.AnswerCredits)
	}
	if account.ReferralCredits != 40 {
		t.Errorf("referralCredits: expected 40, got %d", account.ReferralCredits)
	}
	if account.LoseCredits != 15 {
		t.Errorf("loseCredits: expected 15, got %d", account.LoseCredits)
	}
	if repo.referralEmail != "user@example.com" {
		t.Errorf("referral sum should match the user's own email, got %q", repo.referralEmail)
	}
}

func TestComputeBalanceEmptyUserIsAllZero(t *testing.T) {
	svc := credit.NewService(&stubRepo{}, &stubDirectory{})

	account, err := svc.ComputeBalance(context.Background(), uuid.New())
	requireNoError(t, err)

	if account.QuestionCredits != 0 || account.AnswerCredits != 0 ||
		account.ReferralCredits != 0 || account.LoseCredits != 0 {
		t.Fatalf("expected all-zero streams, got %+v", account)
	}
	if account.SignupCredits != credit.FallbackSignupCredit {
		t.Fatalf("expected fallback signup credit %d, got %d", credit.FallbackSignupCredit, account.SignupCredits)
	}
}

func TestComputeBalanceRejectsNilID(t *testing.T) {
	svc := credit.NewService(&stubRepo{}, &stubDirectory{})

	_, err := svc.ComputeBalance(context.Background(), uuid.Nil)
	if !errors.Is(err, credit.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestComputeBalanceUnknownEmailStillSums(t *testing.T) {
	repo := &stubRepo{referral: 20}
	svc := credit.NewService(repo, &stubDirectory{err: errors.New("not found")})

	account, err := svc.ComputeBalance(context.Background(), uuid.New())
	requireNoError(t, err)

	if account.ReferralCredits != 20 {
		t.Fatalf("expected referral sum 20, got %d", account.ReferralCredits)
	}
	if repo.referralEmail != "" {
		t.Fatalf("expected empty email for unknown user, got %q", repo.referralEmail)
	}
}

func TestSpendableExcludesImageAndSignupCredits(t *testing.T) {
	repo := &stubRepo{question: 20, optionalImage: 100, answer: 0, referral: 0, lose: 25}
	svc := credit.NewService(repo, &stubDirectory{})

	spendable, err := svc.Spendable(context.Background(), uuid.New())
	requireNoError(t, err)

	// 20 + 0 + 0 - 25: image and signup credits never count toward affordability.
	if spendable != -5 {
		t.Fatalf("expected spendable -5, got %d", spendable)
	}
}

func TestScheduleOverridesSignupCredit(t *testing.T) {
	schedule := credit.FallbackSchedule()
	schedule.SignupCredit = 75
	svc := credit.NewService(&stubRepo{schedule: schedule}, &stubDirectory{})

	account, err := svc.ComputeBalance(context.Background(), uuid.New())
	requireNoError(t, err)

	if account.SignupCredits != 75 {
		t.Fatalf("expected overridden signup credit 75, got %d", account.SignupCredits)
	}
}

func TestSaveScheduleRejectsNegativeAmounts(t *testing.T) {
	svc := credit.NewService(&stubRepo{}, &stubDirectory{})

	schedule := credit.FallbackSchedule()
	schedule.ReferralCredit = -1

	err := svc.SaveSchedule(context.Background(), schedule)
	if !errors.Is(err, credit.ErrInvalidSchedule) {
		t.Fatalf("expected ErrInvalidSchedule, got %v", err)
	}
}
