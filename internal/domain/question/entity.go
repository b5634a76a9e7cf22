package question

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Question earns its asker a credit reward at creation time, plus an optional
// image reward when a picture is attached. Those amounts are frozen on the row
// so later schedule changes don't rewrite history; the credit ledger sums them.
type Question struct {
	ID                  uuid.UUID      `db:"id" json:"id"`
	AskerID             uuid.UUID      `db:"asker_id" json:"askerId"`
	Title               string         `db:"title" json:"title"`
	Content             string         `db:"content" json:"content"`
	Credit              int            `db:"credit" json:"credit"`
	OptionalImageCredit int            `db:"optional_image_credit" json:"optionalImageCredit"`
	PictureURL          sql.NullString `db:"picture_url" json:"-"`
	CreatedAt           time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time      `db:"updated_at" json:"updatedAt"`

	Answers []Answer `db:"-" json:"answers"`
}

// Answer is owned by its question. Credit is frozen at answer time.
type Answer struct {
	ID         uuid.UUID `db:"id" json:"id"`
	QuestionID uuid.UUID `db:"question_id" json:"questionId"`
	AnswererID uuid.UUID `db:"answerer_id" json:"answererId"`
	Content    string    `db:"content" json:"content"`
	Credit     int       `db:"credit" json:"credit"`
	IsPublic   bool      `db:"is_public" json:"isPublic"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
