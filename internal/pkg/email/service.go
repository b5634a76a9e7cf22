package email

import (
	"bytes"
	"context"
	"html/template"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
)

// Sender interface for sending emails
type Sender interface {
	Send(ctx context.Context, msg *EmailMessage) error
	SendTemplate(ctx context.Context, to, toName, templateName, subject string, data interface{}) error
}

// Service handles email sending with templates
type Service struct {
	client       *SendGridClient
	templates    map[string]*template.Template
	baseTemplate *template.Template
	queue        chan *QueuedEmail
	wg           sync.WaitGroup
}

// QueuedEmail represents an email in the send queue
type QueuedEmail struct {
	To           string
	ToName       string
	Subject      string
	TemplateName string
	Data         interface{}
}

// NewService creates email service
func NewService(config SendGridConfig) *Service {
	s := &Service{
		client:    NewSendGridClient(config),
		templates: make(map[string]*template.Template),
		queue:     make(chan *QueuedEmail, 100),
	}

	s.baseTemplate, _ = template.New("base").Parse(BaseTemplate)
	s.loadTemplates()

	s.wg.Add(1)
	go s.worker()

	return s
}

func (s *Service) loadTemplates() {
	templates := map[string]string{
		"welcome":          WelcomeTemplate,
		"invite":           InviteTemplate,
		"invite_converted": InviteConvertedTemplate,
		"auction_won":      AuctionWonTemplate,
		"message_received": MessageReceivedTemplate,
	}

	for name, content := range templates {
		tmpl, err := template.New(name).Parse(content)
		if err != nil {
			log.Error().Err(err).Str("template", name).Msg("Failed to parse email template")
			continue
		}
		s.templates[name] = tmpl
	}
}

// worker processes queued emails asynchronously
func (s *Service) worker() {
	defer s.wg.Done()

	for email := range s.queue {
		ctx := context.Background()
		if err := s.send(ctx, email); err != nil {
			log.Error().Err(err).
				Str("to", email.To).
				Str("template", email.TemplateName).
				Msg("Failed to send email")
		}
	}
}

func (s *Service) send(ctx context.Context, email *QueuedEmail) error {
	tmpl, ok := s.templates[email.TemplateName]
	if !ok {
		log.Warn().Str("template", email.TemplateName).Msg("Template not found")
		return nil
	}

	var contentBuf bytes.Buffer
	if err := tmpl.Execute(&contentBuf, email.Data); err != nil {
		return err
	}

	var htmlBuf bytes.Buffer
	if err := s.baseTemplate.Execute(&htmlBuf, map[string]interface{}{
		"Content": template.HTML(contentBuf.String()),
	}); err != nil {
		return err
	}

	return s.client.Send(ctx, &EmailMessage{
		To:          email.To,
		ToName:      email.ToName,
		Subject:     email.Subject,
		HTMLContent: htmlBuf.String(),
	})
}

// Queue adds an email to the async send queue
func (s *Service) Queue(to, toName, templateName, subject string, data interface{}) {
	select {
	case s.queue <- &QueuedEmail{
		To:           to,
		ToName:       toName,
		Subject:      subject,
		TemplateName: templateName,
		Data:         data,
	}:
	default:
		log.Warn().Str("to", to).Msg("Email queue full, dropping email")
	}
}

// SendSync sends an email synchronously (blocking)
func (s *Service) SendSync(ctx context.Context, to, toName, templateName, subject string, data interface{}) error {
	return s.send(ctx, &QueuedEmail{
		To:           to,
		ToName:       toName,
		Subject:      subject,
		TemplateName: templateName,
		Data:         data,
	})
}

// Close stops the email worker
func (s *Service) Close() {
	close(s.queue)
	s.wg.Wait()
}

// --- Convenience methods for specific emails ---

// SendWelcome sends the signup email
func (s *Service) SendWelcome(to, userName string, signupCredit int, dashboardURL string) {
	s.Queue(to, userName, "welcome", "Welcome to Bidblab", map[string]string{
		"UserName":     userName,
		"SignupCredit": strconv.Itoa(signupCredit),
		"DashboardURL": dashboardURL,
	})
}

// SendInvite sends a referral invitation to a friend
func (s *Service) SendInvite(to, inviterName, signupURL string) {
	s.Queue(to, "", "invite", inviterName+" invited you to Bidblab", map[string]string{
		"InviterName": inviterName,
		"SignupURL":   signupURL,
	})
}

// SendInviteConverted tells the inviter a referral registered
func (s *Service) SendInviteConverted(to, inviterName, friendEmail string, referralCredit int, dashboardURL string) {
	s.Queue(to, inviterName, "invite_converted", "Your Bidblab invite paid off", map[string]string{
		"InviterName":    inviterName,
		"FriendEmail":    friendEmail,
		"ReferralCredit": strconv.Itoa(referralCredit),
		"DashboardURL":   dashboardURL,
	})
}

// SendAuctionWon notifies the winning bidder
func (s *Service) SendAuctionWon(to, userName, auctionTitle string, bidPrice int, auctionURL string) {
	s.Queue(to, userName, "auction_won", "You won "+auctionTitle, map[string]string{
		"UserName":     userName,
		"AuctionTitle": auctionTitle,
		"BidPrice":     strconv.Itoa(bidPrice),
		"AuctionURL":   auctionURL,
	})
}

// SendMessageReceived notifies about a new site message
func (s *Service) SendMessageReceived(to, toName, senderName, preview, inboxURL string) {
	s.Queue(to, toName, "message_received", "New message from "+senderName, map[string]string{
		"SenderName": senderName,
		"Preview":    preview,
		"InboxURL":   inboxURL,
	})
}
