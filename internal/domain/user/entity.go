package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// User is an account record. Credit balances are never stored here; they are
// derived by the credit ledger on demand.
type User struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Name         string         `db:"name" json:"name"`
	Role         string         `db:"role" json:"role"`
	AboutMe      sql.NullString `db:"about_me" json:"-"`
	Banned       bool           `db:"banned" json:"banned"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`
}

// PublicProfile is the slice of a user other users may see.
type PublicProfile struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func (u *User) Public() *PublicProfile {
	return &PublicProfile{ID: u.ID, Name: u.Name}
}
