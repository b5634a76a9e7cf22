package report

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type TargetType string

const (
	TargetQuestion TargetType = "question"
	TargetAnswer   TargetType = "answer"
	TargetAuction  TargetType = "auction"
	TargetUser     TargetType = "user"
)

type Status string

const (
	StatusOpen      Status = "open"
	StatusResolved  Status = "resolved"
	StatusDismissed Status = "dismissed"
)

// Report flags content for admin review.
type Report struct {
	ID         uuid.UUID    `db:"id" json:"id"`
	ReporterID uuid.UUID    `db:"reporter_id" json:"reporterId"`
	TargetType TargetType   `db:"target_type" json:"targetType"`
	TargetID   uuid.UUID    `db:"target_id" json:"targetId"`
	Reason     string       `db:"reason" json:"reason"`
	Status     Status       `db:"status" json:"status"`
	Resolution sql.NullString `db:"resolution" json:"-"`
	CreatedAt  time.Time    `db:"created_at" json:"createdAt"`
	ResolvedAt sql.NullTime `db:"resolved_at" json:"-"`
}
