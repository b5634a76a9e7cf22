package invite

import (
	"time"

	"github.com/google/uuid"
)

// Invite records a referral. ReferralCredit is frozen at send time; the row
// only counts toward the inviter's balance once Success is set, which happens
// when the invited email registers.
type Invite struct {
	ID             uuid.UUID `db:"id" json:"id"`
	InviterID      uuid.UUID `db:"inviter_id" json:"inviterId"`
	FriendEmail    string    `db:"friend_email" json:"friendEmail"`
	ReferralCredit int       `db:"referral_credit" json:"referralCredit"`
	Success        bool      `db:"success" json:"success"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}
