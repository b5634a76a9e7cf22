package credit

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// UserDirectory resolves a user's email so referral sums can match invites
// where the user being looked up is the invited friend.
type UserDirectory interface {
	EmailByID(ctx context.Context, userID uuid.UUID) (string, error)
}

// Service computes derived credit balances and manages the default schedule.
type Service interface {
	ComputeBalance(ctx context.Context, userID uuid.UUID) (*Account, error)
	Spendable(ctx context.Context, userID uuid.UUID) (int, error)
	SpendableTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (int, error)
	Schedule(ctx context.Context) (*DefaultSchedule, error)
	SaveSchedule(ctx context.Context, schedule *DefaultSchedule) error
}

type service struct {
	repo  Repository
	users UserDirectory
}

func NewService(repo Repository, users UserDirectory) Service {
	return &service{repo: repo, users: users}
}

// ComputeBalance aggregates the four contribution streams independently.
// Each sum defaults to zero; a user with no activity gets an all-zero account
// plus the signup credit.
func (s *service) ComputeBalance(ctx context.Context, userID uuid.UUID) (*Account, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidID
	}

	id := userID.String()

	email, err := s.users.EmailByID(ctx, userID)
	if err != nil {
		// Unknown user: referral self-email match simply finds nothing.
		email = ""
	}

	question, optionalImage, err := s.repo.SumQuestionCredits(ctx, id)
	if err != nil {
		return nil, err
	}

	answer, err := s.repo.SumAnswerCredits(ctx, id)
	if err != nil {
		return nil, err
	}

	referral, err := s.repo.SumReferralCredits(ctx, id, email)
	if err != nil {
		return nil, err
	}

	lose, err := s.repo.SumBidFees(ctx, id)
	if err != nil {
		return nil, err
	}

	schedule, err := s.Schedule(ctx)
	if err != nil {
		return nil, err
	}

	return &Account{
		QuestionCredits:      question,
		OptionalImageCredits: optionalImage,
		AnswerCredits:        answer,
		ReferralCredits:      referral,
		SignupCredits:        schedule.SignupCredit,
		LoseCredits:          lose,
	}, nil
}

func (s *service) Spendable(ctx context.Context, userID uuid.UUID) (int, error) {
	account, err := s.ComputeBalance(ctx, userID)
	if err != nil {
		return 0, err
	}
	return account.Spendable(), nil
}

// SpendableTx recomputes the spendable balance with the bid-fee sum running in
// the caller's transaction. Bid admission holds the auction row lock while
// calling this, so concurrent bids on the same auction observe each other's fees.
func (s *service) SpendableTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (int, error) {
	if userID == uuid.Nil {
		return 0, ErrInvalidID
	}

	id := userID.String()

	email, err := s.users.EmailByID(ctx, userID)
	if err != nil {
		email = ""
	}

	question, _, err := s.repo.SumQuestionCredits(ctx, id)
	if err != nil {
		return 0, err
	}

	answer, err := s.repo.SumAnswerCredits(ctx, id)
	if err != nil {
		return 0, err
	}

	referral, err := s.repo.SumReferralCredits(ctx, id, email)
	if err != nil {
		return 0, err
	}

	lose, err := s.repo.SumBidFeesTx(ctx, tx, id)
	if err != nil {
		return 0, err
	}

	return question + answer + referral - lose, nil
}

// Schedule returns the active schedule, falling back to built-in amounts when
// no row has been saved.
func (s *service) Schedule(ctx context.Context) (*DefaultSchedule, error) {
	schedule, err := s.repo.GetSchedule(ctx)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return FallbackSchedule(), nil
	}
	return schedule, nil
}

func (s *service) SaveSchedule(ctx context.Context, schedule *DefaultSchedule) error {
	if schedule.QuestionCredit < 0 || schedule.PublicAnswerCredit < 0 ||
		schedule.PrivateAnswerCredit < 0 || schedule.OptionalImageCredit < 0 ||
		schedule.ReferralCredit < 0 || schedule.SignupCredit < 0 ||
		schedule.FirstAnswerCredit < 0 {
		return ErrInvalidSchedule
	}

	if err := s.repo.UpsertSchedule(ctx, schedule); err != nil {
		return err
	}

	log.Info().
		Int("question_credit", schedule.QuestionCredit).
		Int("signup_credit", schedule.SignupCredit).
		Msg("credit schedule updated")
	return nil
}
