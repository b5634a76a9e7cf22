package credit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

// Repository aggregates credit events from the source tables. All sums are
// read-only and order-insensitive; missing rows sum to zero.
type Repository interface {
	SumQuestionCredits(ctx context.Context, userID string) (question int, optionalImage int, err error)
	SumAnswerCredits(ctx context.Context, userID string) (int, error)
	SumReferralCredits(ctx context.Context, userID string, email string) (int, error)
	SumBidFees(ctx context.Context, userID string) (int, error)

	// SumBidFeesTx runs the bid-fee sum inside an external transaction so bid
	// admission can recompute a spendable balance under the auction row lock.
	SumBidFeesTx(ctx context.Context, tx *sqlx.Tx, userID string) (int, error)

	GetSchedule(ctx context.Context) (*DefaultSchedule, error)
	UpsertSchedule(ctx context.Context, schedule *DefaultSchedule) error
}

// CreditRepository implements Repository against PostgreSQL.
type CreditRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *CreditRepository {
	return &CreditRepository{db: db}
}

func (r *CreditRepository) SumQuestionCredits(ctx context.Context, userID string) (int, int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var row struct {
		Credit        int `db:"credit"`
		OptionalImage int `db:"optional_image_credit"`
	}
	err := r.db.GetContext(ctx2, &row, `
		SELECT COALESCE(SUM(credit), 0) AS credit,
		       COALESCE(SUM(optional_image_credit), 0) AS optional_image_credit
		FROM questions
		WHERE asker_id = $1
	`, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: sum question credits", ErrInternal)
	}

	return row.Credit, row.OptionalImage, nil
}

func (r *CreditRepository) SumAnswerCredits(ctx context.Context, userID string) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var sum int
	err := r.db.GetContext(ctx2, &sum, `
		SELECT COALESCE(SUM(credit), 0)
		FROM answers
		WHERE answerer_id = $1
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: sum answer credits", ErrInternal)
	}

	return sum, nil
}

// SumReferralCredits counts successful invites where the user is the referrer,
// plus the invite that converted the user themselves (matched by email).
func (r *CreditRepository) SumReferralCredits(ctx context.Context, userID string, email string) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var sum int
	err := r.db.GetContext(ctx2, &sum, `
		SELECT COALESCE(SUM(referral_credit), 0)
		FROM invites
		WHERE success = TRUE AND (inviter_id = $1 OR friend_email = $2)
	`, userID, email)
	if err != nil {
		return 0, fmt.Errorf("%w: sum referral credits", ErrInternal)
	}

	return sum, nil
}

// SumBidFees charges every placed bid regardless of auction outcome; a bid fee
// is a sunk cost at placement time.
func (r *CreditRepository) SumBidFees(ctx context.Context, userID string) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return sumBidFees(ctx2, r.db, userID)
}

func (r *CreditRepository) SumBidFeesTx(ctx context.Context, tx *sqlx.Tx, userID string) (int, error) {
	return sumBidFees(ctx, tx, userID)
}

func sumBidFees(ctx context.Context, q sqlx.QueryerContext, userID string) (int, error) {
	var sum int
	err := sqlx.GetContext(ctx, q, &sum, `
		SELECT COALESCE(SUM(a.bid_fee), 0)
		FROM bids b
		JOIN auctions a ON a.id = b.auction_id
		WHERE b.bidder_id = $1
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: sum bid fees", ErrInternal)
	}

	return sum, nil
}

// GetSchedule returns the active schedule row, or nil when none has been saved yet.
func (r *CreditRepository) GetSchedule(ctx context.Context) (*DefaultSchedule, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var schedule DefaultSchedule
	err := r.db.GetContext(ctx2, &schedule, `
		SELECT question_credit, public_answer_credit, private_answer_credit,
		       optional_image_credit, referral_credit, signup_credit,
		       first_answer_credit, updated_at
		FROM credit_defaults
		WHERE id = 1
	`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get credit schedule", ErrInternal)
	}

	return &schedule, nil
}

// UpsertSchedule writes the single schedule row (id is pinned to 1).
func (r *CreditRepository) UpsertSchedule(ctx context.Context, schedule *DefaultSchedule) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO credit_defaults (
			id, question_credit, public_answer_credit, private_answer_credit,
			optional_image_credit, referral_credit, signup_credit,
			first_answer_credit, updated_at
		)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (id) DO UPDATE SET
			question_credit = EXCLUDED.question_credit,
			public_answer_credit = EXCLUDED.public_answer_credit,
			private_answer_credit = EXCLUDED.private_answer_credit,
			optional_image_credit = EXCLUDED.optional_image_credit,
			referral_credit = EXCLUDED.referral_credit,
			signup_credit = EXCLUDED.signup_credit,
			first_answer_credit = EXCLUDED.first_answer_credit,
			updated_at = NOW()
	`,
		schedule.QuestionCredit, schedule.PublicAnswerCredit, schedule.PrivateAnswerCredit,
		schedule.OptionalImageCredit, schedule.ReferralCredit, schedule.SignupCredit,
		schedule.FirstAnswerCredit,
	)
	if err != nil {
		return fmt.Errorf("%w: upsert credit schedule", ErrInternal)
	}

	return nil
}
