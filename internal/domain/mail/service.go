package mail

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Notifier tells the recipient about a new message out of band.
type Notifier interface {
	SendMessageReceived(to, toName, senderName, preview, inboxURL string)
}

// UserDirectory resolves recipient contact details for notifications.
type UserDirectory interface {
	EmailByID(ctx context.Context, id uuid.UUID) (string, error)
	NameByID(ctx context.Context, id uuid.UUID) (string, error)
}

type Service struct {
	repo     Repository
	users    UserDirectory
	notifier Notifier
	inboxURL string
}

func NewService(repo Repository, users UserDirectory, notifier Notifier, inboxURL string) *Service {
	return &Service{repo: repo, users: users, notifier: notifier, inboxURL: inboxURL}
}

func (s *Service) Send(ctx context.Context, senderID, recipientID uuid.UUID, req *SendRequest) (*Message, error) {
	if senderID == recipientID {
		return nil, ErrSelfMessage
	}

	m := &Message{
		ID:          uuid.New(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Subject:     strings.TrimSpace(req.Subject),
		Body:        strings.TrimSpace(req.Body),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.notify(ctx, m)

	return s.repo.GetByID(ctx, m.ID)
}

// notify is best effort; a failed email never fails the send.
func (s *Service) notify(ctx context.Context, m *Message) {
	email, err := s.users.EmailByID(ctx, m.RecipientID)
	if err != nil {
		log.Warn().Err(err).Str("message_id", m.ID.String()).Msg("recipient email lookup failed")
		return
	}
	recipientName, _ := s.users.NameByID(ctx, m.RecipientID)
	senderName, err := s.users.NameByID(ctx, m.SenderID)
	if err != nil {
		senderName = "A Bidblab member"
	}

	preview := m.Body
	if len(preview) > 120 {
		preview = preview[:120] + "..."
	}
	s.notifier.SendMessageReceived(email, recipientName, senderName, preview, s.inboxURL)
}

func (s *Service) Inbox(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*Message, int, error) {
	return s.repo.Inbox(ctx, userID, offset, limit)
}

func (s *Service) Outbox(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*Message, int, error) {
	return s.repo.Outbox(ctx, userID, offset, limit)
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}

// Read returns a message visible to the caller and marks it read when the
// caller is the recipient.
func (s *Service) Read(ctx context.Context, id, callerID uuid.UUID) (*Message, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch callerID {
	case m.RecipientID:
		if m.RecipientDeleted {
			return nil, ErrNotFound
		}
		if !m.Read {
			if err := s.repo.MarkRead(ctx, id, callerID); err != nil {
				return nil, err
			}
			m.Read = true
		}
	case m.SenderID:
		if m.SenderDeleted {
			return nil, ErrNotFound
		}
	default:
		return nil, ErrNotFound
	}

	return m, nil
}

// Delete hides the message from the caller's side only.
func (s *Service) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch callerID {
	case m.RecipientID:
		return s.repo.HideForRecipient(ctx, id, callerID)
	case m.SenderID:
		return s.repo.HideForSender(ctx, id, callerID)
	default:
		return ErrNotFound
	}
}
