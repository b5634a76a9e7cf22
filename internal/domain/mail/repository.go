package mail

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const queryTimeout = 3 * time.Second

type Repository interface {
	Create(ctx context.Context, m *Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*Message, error)
	Inbox(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*Message, int, error)
	Outbox(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*Message, int, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) error
	HideForSender(ctx context.Context, id, senderID uuid.UUID) error
	HideForRecipient(ctx context.Context, id, recipientID uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const messageSelect = `
	SELECT m.id, m.sender_id, m.recipient_id, m.subject, m.body, m.read,
	       m.sender_deleted, m.recipient_deleted, m.created_at,
	       s.name AS sender_name, r.name AS recipient_name
	FROM messages m
	JOIN users s ON s.id = m.sender_id
	JOIN users r ON r.id = m.recipient_id
`

func (r *repository) Create(ctx context.Context, m *Message) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO messages (id, sender_id, recipient_id, subject, body)
		VALUES ($1, $2, $3, $4, $5)
	`, m.ID, m.SenderID, m.RecipientID, m.Subject, m.Body)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrRecipientNotFound
		}
		return fmt.Errorf("%w: create message", ErrInternal)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Message, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var m Message
	err := r.db.GetContext(ctx2, &m, messageSelect+` WHERE m.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get message", ErrInternal)
	}

	return &m, nil
}

func (r *repository) Inbox(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*Message, int, error) {
	return r.list(ctx, userID, offset, limit, "m.recipient_id = $1 AND NOT m.recipient_deleted")
}

func (r *repository) Outbox(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*Message, int, error) {
	return r.list(ctx, userID, offset, limit, "m.sender_id = $1 AND NOT m.sender_deleted")
}

func (r *repository) list(ctx context.Context, userID uuid.UUID, offset, limit int, where string) ([]*Message, int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var total int
	err := r.db.GetContext(ctx2, &total, `SELECT COUNT(*) FROM messages m WHERE `+where, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: count messages", ErrInternal)
	}

	if limit <= 0 {
		limit = 20
	}
	messages := make([]*Message, 0)
	err = r.db.SelectContext(ctx2, &messages,
		messageSelect+` WHERE `+where+` ORDER BY m.created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list messages", ErrInternal)
	}

	return messages, total, nil
}

func (r *repository) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int
	err := r.db.GetContext(ctx2, &count, `
		SELECT COUNT(*) FROM messages
		WHERE recipient_id = $1 AND NOT read AND NOT recipient_deleted
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: count unread", ErrInternal)
	}

	return count, nil
}

func (r *repository) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	return r.update(ctx, `UPDATE messages SET read = TRUE WHERE id = $1 AND recipient_id = $2`, id, recipientID)
}

func (r *repository) HideForSender(ctx context.Context, id, senderID uuid.UUID) error {
	return r.update(ctx, `UPDATE messages SET sender_deleted = TRUE WHERE id = $1 AND sender_id = $2`, id, senderID)
}

func (r *repository) HideForRecipient(ctx context.Context, id, recipientID uuid.UUID) error {
	return r.update(ctx, `UPDATE messages SET recipient_deleted = TRUE WHERE id = $1 AND recipient_id = $2`, id, recipientID)
}

func (r *repository) update(ctx context.Context, query string, args ...interface{}) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, query, args...)
	if err != nil {
		return fmt.Errorf("%w: update message", ErrInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
