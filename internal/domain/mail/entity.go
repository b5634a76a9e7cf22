package mail

import (
	"time"

	"github.com/google/uuid"
)

// Message is a site-internal message between two users. Each side can remove
// it from their view independently; the row stays until both have.
type Message struct {
	ID               uuid.UUID `db:"id" json:"id"`
	SenderID         uuid.UUID `db:"sender_id" json:"senderId"`
	RecipientID      uuid.UUID `db:"recipient_id" json:"recipientId"`
	Subject          string    `db:"subject" json:"subject"`
	Body             string    `db:"body" json:"body"`
	Read             bool      `db:"read" json:"read"`
	SenderDeleted    bool      `db:"sender_deleted" json:"-"`
	RecipientDeleted bool      `db:"recipient_deleted" json:"-"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`

	SenderName    string `db:"sender_name" json:"senderName"`
	RecipientName string `db:"recipient_name" json:"recipientName"`
}
