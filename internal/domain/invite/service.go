package invite

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bidblab/bidblab-api/internal/domain/credit"
)

// Mailer dispatches referral invitations.
type Mailer interface {
	SendInvite(to, inviterName, signupURL string)
}

// UserDirectory answers whether an email already has an account and resolves
// inviter display data.
type UserDirectory interface {
	EmailByID(ctx context.Context, id uuid.UUID) (string, error)
	NameByID(ctx context.Context, id uuid.UUID) (string, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type ScheduleProvider interface {
	Schedule(ctx context.Context) (*credit.DefaultSchedule, error)
}

type Service struct {
	repo      Repository
	users     UserDirectory
	schedule  ScheduleProvider
	mailer    Mailer
	signupURL string
}

func NewService(repo Repository, users UserDirectory, schedule ScheduleProvider, mailer Mailer, signupURL string) *Service {
	return &Service{repo: repo, users: users, schedule: schedule, mailer: mailer, signupURL: signupURL}
}

// Send records an invite with the current referral credit frozen on it and
// emails the friend. The credit only counts once the friend registers.
func (s *Service) Send(ctx context.Context, inviterID uuid.UUID, friendEmail string) (*Invite, error) {
	friendEmail = strings.ToLower(strings.TrimSpace(friendEmail))

	ownEmail, err := s.users.EmailByID(ctx, inviterID)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(ownEmail, friendEmail) {
		return nil, ErrSelfInvite
	}

	exists, err := s.users.EmailExists(ctx, friendEmail)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyRegistered
	}

	schedule, err := s.schedule.Schedule(ctx)
	if err != nil {
		return nil, err
	}

	inv := &Invite{
		ID:             uuid.New(),
		InviterID:      inviterID,
		FriendEmail:    friendEmail,
		ReferralCredit: schedule.ReferralCredit,
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}

	inviterName, err := s.users.NameByID(ctx, inviterID)
	if err != nil {
		inviterName = "A Bidblab member"
	}
	s.mailer.SendInvite(friendEmail, inviterName, s.signupURL)

	log.Info().
		Str("inviter_id", inviterID.String()).
		Int("referral_credit", inv.ReferralCredit).
		Msg("invite sent")
	return inv, nil
}

func (s *Service) ListMine(ctx context.Context, inviterID uuid.UUID) ([]*Invite, error) {
	return s.repo.ListByInviter(ctx, inviterID)
}

// Convert marks pending invites for a freshly registered email as successful.
// Called during registration; failures there are logged, not fatal.
func (s *Service) Convert(ctx context.Context, email string) error {
	converted, err := s.repo.MarkConverted(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if converted > 0 {
		log.Info().Str("email", email).Int("count", converted).Msg("invites converted")
	}
	return nil
}
