package invite

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/bidblab/bidblab-api/internal/domain/credit"
)

type stubRepo struct {
	invites []*Invite
}

func (s *stubRepo) Create(_ context.Context, inv *Invite) error {
	for _, existing := range s.invites {
		if existing.InviterID == inv.InviterID && existing.FriendEmail == inv.FriendEmail {
			return ErrAlreadyInvited
		}
	}
	s.invites = append(s.invites, inv)
	return nil
}

func (s *stubRepo) ListByInviter(_ context.Context, inviterID uuid.UUID) ([]*Invite, error) {
	out := make([]*Invite, 0)
	for _, inv := range s.invites {
		if inv.InviterID == inviterID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (s *stubRepo) MarkConverted(_ context.Context, friendEmail string) (int, error) {
	count := 0
	for _, inv := range s.invites {
		if inv.FriendEmail == friendEmail && !inv.Success {
			inv.Success = true
			count++
		}
	}
	return count, nil
}

type stubUsers struct {
	emails map[uuid.UUID]string
}

func (s *stubUsers) EmailByID(_ context.Context, id uuid.UUID) (string, error) {
	email, ok := s.emails[id]
	if !ok {
		return "", errors.New("not found")
	}
	return email, nil
}

func (s *stubUsers) NameByID(_ context.Context, id uuid.UUID) (string, error) {
	return "Tester", nil
}

func (s *stubUsers) EmailExists(_ context.Context, email string) (bool, error) {
	for _, existing := range s.emails {
		if existing == email {
			return true, nil
		}
	}
	return false, nil
}

type stubSchedule struct{}

func (stubSchedule) Schedule(_ context.Context) (*credit.DefaultSchedule, error) {
	return &credit.DefaultSchedule{ReferralCredit: 20}, nil
}

type stubMailer struct {
	sent []string
}

func (s *stubMailer) SendInvite(to, inviterName, signupURL string) {
	s.sent = append(s.sent, to)
}

func newTestService() (*Service, *stubRepo, *stubUsers, *stubMailer, uuid.UUID) {
	repo := &stubRepo{}
	inviterID := uuid.New()
	users := &stubUsers{emails: map[uuid.UUID]string{inviterID: "inviter@example.com"}}
	mailer := &stubMailer{}
	svc := NewService(repo, users, stubSchedule{}, mailer, "https://bidblab.com/signup")
	return svc, repo, users, mailer, inviterID
}

func TestSendFreezesReferralCreditAndMails(t *testing.T) {
	svc, _, _, mailer, inviterID := newTestService()

	inv, err := svc.Send(context.Background(), inviterID, "Friend@Example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inv.ReferralCredit != 20 {
		t.Fatalf("expected referral credit 20, got %d", inv.ReferralCredit)
	}
	if inv.FriendEmail != "friend@example.com" {
		t.Fatalf("expected lowercased email, got %q", inv.FriendEmail)
	}
	if inv.Success {
		t.Fatal("invite must start unconverted")
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "friend@example.com" {
		t.Fatalf("expected one invite email, got %v", mailer.sent)
	}
}

func TestSendRejectsSelfInvite(t *testing.T) {
	svc, _, _, _, inviterID := newTestService()

	_, err := svc.Send(context.Background(), inviterID, "Inviter@Example.com")
	if !errors.Is(err, ErrSelfInvite) {
		t.Fatalf("expected ErrSelfInvite, got %v", err)
	}
}

func TestSendRejectsRegisteredEmail(t *testing.T) {
	svc, _, users, _, inviterID := newTestService()
	users.emails[uuid.New()] = "taken@example.com"

	_, err := svc.Send(context.Background(), inviterID, "taken@example.com")
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestSendRejectsDuplicateInvite(t *testing.T) {
	svc, _, _, _, inviterID := newTestService()

	if _, err := svc.Send(context.Background(), inviterID, "friend@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Send(context.Background(), inviterID, "friend@example.com")
	if !errors.Is(err, ErrAlreadyInvited) {
		t.Fatalf("expected ErrAlreadyInvited, got %v", err)
	}
}

func TestConvertFlipsPendingInvites(t *testing.T) {
	svc, repo, _, _, inviterID := newTestService()

	if _, err := svc.Send(context.Background(), inviterID, "friend@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Convert(context.Background(), "Friend@Example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.invites[0].Success {
		t.Fatal("expected invite to be marked successful")
	}
}
