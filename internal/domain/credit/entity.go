package credit

import "time"

// Account is the derived credit state for a user. It is recomputed from the
// underlying event stores on every read and never persisted, so it is always
// consistent with the questions, answers, invites and bids tables at read time.
type Account struct {
	QuestionCredits      int `json:"questionCredits"`
	OptionalImageCredits int `json:"optionalImageCredits"`
	AnswerCredits        int `json:"answerCredits"`
	ReferralCredits      int `json:"referralCredits"`
	SignupCredits        int `json:"signupCredits"`
	LoseCredits          int `json:"loseCredits"`
}

// Spendable is the balance used for bid-fee affordability. Signup and image
// credits do not count here; they only appear in the admin-facing aggregate.
func (a Account) Spendable() int {
	return a.QuestionCredits + a.AnswerCredits + a.ReferralCredits - a.LoseCredits
}

// Fallback amounts used when no DefaultSchedule row exists.
const (
	FallbackQuestionCredit      = 10
	FallbackPublicAnswerCredit  = 10
	FallbackPrivateAnswerCredit = 5
	FallbackOptionalImageCredit = 5
	FallbackReferralCredit      = 20
	FallbackSignupCredit        = 50
	FallbackFirstAnswerCredit   = 10
)

// DefaultSchedule is the single admin-mutable record of credit amounts awarded
// per action. Exactly one row exists; writes use upsert semantics.
type DefaultSchedule struct {
	QuestionCredit      int       `db:"question_credit" json:"defaultQuestionCredit"`
	PublicAnswerCredit  int       `db:"public_answer_credit" json:"defaultPublicAnswerCredit"`
	PrivateAnswerCredit int       `db:"private_answer_credit" json:"defaultPrivateAnswerCredit"`
	OptionalImageCredit int       `db:"optional_image_credit" json:"defaultOptionalImageCredit"`
	ReferralCredit      int       `db:"referral_credit" json:"defaultReferralCredit"`
	SignupCredit        int       `db:"signup_credit" json:"defaultSignupCredit"`
	FirstAnswerCredit   int       `db:"first_answer_credit" json:"defaultFirstAnswerCredit"`
	UpdatedAt           time.Time `db:"updated_at" json:"updatedAt"`
}

// FallbackSchedule returns the built-in amounts used before an admin has saved
// a schedule row.
func FallbackSchedule() *DefaultSchedule {
	return &DefaultSchedule{
		QuestionCredit:      FallbackQuestionCredit,
		PublicAnswerCredit:  FallbackPublicAnswerCredit,
		PrivateAnswerCredit: FallbackPrivateAnswerCredit,
		OptionalImageCredit: FallbackOptionalImageCredit,
		ReferralCredit:      FallbackReferralCredit,
		SignupCredit:        FallbackSignupCredit,
		FirstAnswerCredit:   FallbackFirstAnswerCredit,
	}
}
