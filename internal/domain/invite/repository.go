package invite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const queryTimeout = 3 * time.Second

type Repository interface {
	Create(ctx context.Context, inv *Invite) error
	ListByInviter(ctx context.Context, inviterID uuid.UUID) ([]*Invite, error)
	MarkConverted(ctx context.Context, friendEmail string) (int, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, inv *Invite) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO invites (id, inviter_id, friend_email, referral_credit, success)
		VALUES ($1, $2, $3, $4, FALSE)
	`, inv.ID, inv.InviterID, inv.FriendEmail, inv.ReferralCredit)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAlreadyInvited
		}
		return fmt.Errorf("%w: create invite", ErrInternal)
	}

	return nil
}

func (r *repository) ListByInviter(ctx context.Context, inviterID uuid.UUID) ([]*Invite, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	invites := make([]*Invite, 0)
	err := r.db.SelectContext(ctx2, &invites, `
		SELECT id, inviter_id, friend_email, referral_credit, success, created_at
		FROM invites
		WHERE inviter_id = $1
		ORDER BY created_at DESC
	`, inviterID)
	if err != nil {
		return nil, fmt.Errorf("%w: list invites", ErrInternal)
	}

	return invites, nil
}

// MarkConverted flips every pending invite for the email to success and
// returns how many rows converted.
func (r *repository) MarkConverted(ctx context.Context, friendEmail string) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `
		UPDATE invites SET success = TRUE
		WHERE friend_email = $1 AND success = FALSE
	`, friendEmail)
	if err != nil {
		return 0, fmt.Errorf("%w: mark invite converted", ErrInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: rows affected", ErrInternal)
	}

	return int(rows), nil
}
