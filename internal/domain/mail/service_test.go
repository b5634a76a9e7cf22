package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type stubRepo struct {
	messages map[uuid.UUID]*Message
}

func newStubRepo() *stubRepo {
	return &stubRepo{messages: make(map[uuid.UUID]*Message)}
}

func (s *stubRepo) Create(_ context.Context, m *Message) error {
	copy := *m
	s.messages[m.ID] = &copy
	return nil
}

func (s *stubRepo) GetByID(_ context.Context, id uuid.UUID) (*Message, error) {
	m, ok := s.messages[id]
	if !ok {
		return nil, ErrNotFound
	}
	copy := *m
	return &copy, nil
}

func (s *stubRepo) Inbox(_ context.Context, userID uuid.UUID, _, _ int) ([]*Message, int, error) {
	out := make([]*Message, 0)
	for _, m := range s.messages {
		if m.RecipientID == userID && !m.RecipientDeleted {
			out = append(out, m)
		}
	}
	return out, len(out), nil
}

func (s *stubRepo) Outbox(_ context.Context, userID uuid.UUID, _, _ int) ([]*Message, int, error) {
	out := make([]*Message, 0)
	for _, m := range s.messages {
		if m.SenderID == userID && !m.SenderDeleted {
			out = append(out, m)
		}
	}
	return out, len(out), nil
}

func (s *stubRepo) UnreadCount(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, m := range s.messages {
		if m.RecipientID == userID && !m.Read && !m.RecipientDeleted {
			count++
		}
	}
	return count, nil
}

func (s *stubRepo) MarkRead(_ context.Context, id, recipientID uuid.UUID) error {
	m, ok := s.messages[id]
	if !ok || m.RecipientID != recipientID {
		return ErrNotFound
	}
	m.Read = true
	return nil
}

func (s *stubRepo) HideForSender(_ context.Context, id, senderID uuid.UUID) error {
	m, ok := s.messages[id]
	if !ok || m.SenderID != senderID {
		return ErrNotFound
	}
	m.SenderDeleted = true
	return nil
}

func (s *stubRepo) HideForRecipient(_ context.Context, id, recipientID uuid.UUID) error {
	m, ok := s.messages[id]
	if !ok || m.RecipientID != recipientID {
		return ErrNotFound
	}
	m.RecipientDeleted = true
	return nil
}

type stubUsers struct{}

func (stubUsers) EmailByID(_ context.Context, _ uuid.UUID) (string, error) {
	return "user@example.com", nil
}

func (stubUsers) NameByID(_ context.Context, _ uuid.UUID) (string, error) {
	return "Tester", nil
}

type stubNotifier struct {
	sent int
}

func (s *stubNotifier) SendMessageReceived(_, _, _, _, _ string) {
	s.sent++
}

func TestSendRejectsSelfMessage(t *testing.T) {
	svc := NewService(newStubRepo(), stubUsers{}, &stubNotifier{}, "https://bidblab.com/mail")

	id := uuid.New()
	_, err := svc.Send(context.Background(), id, id, &SendRequest{Subject: "hi", Body: "hello"})
	if !errors.Is(err, ErrSelfMessage) {
		t.Fatalf("expected ErrSelfMessage, got %v", err)
	}
}

func TestSendNotifiesRecipient(t *testing.T) {
	notifier := &stubNotifier{}
	svc := NewService(newStubRepo(), stubUsers{}, notifier, "https://bidblab.com/mail")

	_, err := svc.Send(context.Background(), uuid.New(), uuid.New(), &SendRequest{Subject: "hi", Body: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notifier.sent != 1 {
		t.Fatalf("expected one notification, got %d", notifier.sent)
	}
}

func TestReadMarksRecipientCopyRead(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, stubUsers{}, &stubNotifier{}, "https://bidblab.com/mail")

	sender, recipient := uuid.New(), uuid.New()
	m, err := svc.Send(context.Background(), sender, recipient, &SendRequest{Subject: "hi", Body: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Read(context.Background(), m.ID, recipient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Read {
		t.Fatal("expected message marked read for recipient")
	}

	count, err := svc.UnreadCount(context.Background(), recipient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected zero unread, got %d", count)
	}
}

func TestReadHiddenFromStrangers(t *testing.T) {
	svc := NewService(newStubRepo(), stubUsers{}, &stubNotifier{}, "https://bidblab.com/mail")

	m, err := svc.Send(context.Background(), uuid.New(), uuid.New(), &SendRequest{Subject: "hi", Body: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Read(context.Background(), m.ID, uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for stranger, got %v", err)
	}
}

func TestDeleteHidesOnlyOneSide(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, stubUsers{}, &stubNotifier{}, "https://bidblab.com/mail")

	sender, recipient := uuid.New(), uuid.New()
	m, err := svc.Send(context.Background(), sender, recipient, &SendRequest{Subject: "hi", Body: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Delete(context.Background(), m.ID, recipient); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Read(context.Background(), m.ID, recipient); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected recipient copy hidden, got %v", err)
	}
	if _, err := svc.Read(context.Background(), m.ID, sender); err != nil {
		t.Fatalf("expected sender copy still visible, got %v", err)
	}
}
