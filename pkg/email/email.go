package email

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/OV20408/mgc-back/config"
	"github.com/OV20408/mgc-back/internal/domain"
)

// subjectPrefix marks relayed submissions in the company mailbox
const subjectPrefix = "[CONTACTO WEB] "

// sendTimeout bounds a single SMTP dial-and-send
const sendTimeout = 15 * time.Second

// Service relays contact form submissions to the company mailbox via SMTP.
// It implements domain.MailSender.
type Service struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
	toEmail   string
	location  *time.Location
}

// NewService creates the SMTP relay from process configuration.
// An unknown timezone falls back to UTC rather than failing startup.
func NewService(cfg *config.Config) *Service {
	loc, err := time.LoadLocation(cfg.MailTimezone)
	if err != nil {
		loc = time.UTC
	}
	return &Service{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.EmailUser,
		password:  cfg.EmailPass,
		fromEmail: cfg.FromEmail,
		toEmail:   cfg.CompanyEmail,
		location:  loc,
	}
}

// BuildMessage constructs the outbound email for a validated submission.
// Exposed separately from Send so the orchestration layer can be tested
// without a live transport.
func (s *Service) BuildMessage(sub *domain.ContactSubmission) domain.OutboundMessage {
	timestamp := time.Now().In(s.location).Format("02/01/2006 15:04:05")

	body := fmt.Sprintf(
		"Nuevo mensaje recibido desde el formulario de contacto del sitio web.\n\n"+
			"Nombre:   %s\n"+
			"Email:    %s\n"+
			"Teléfono: %s\n"+
			"Asunto:   %s\n\n"+
			"Mensaje:\n%s\n\n"+
			"--\nRecibido el %s",
		sub.FullName,
		sub.Email,
		sub.Phone,
		sub.Subject,
		sub.Message,
		timestamp,
	)

	return domain.OutboundMessage{
		From:     s.fromEmail,
		To:       s.toEmail,
		ReplyTo:  sub.Email,
		Subject:  subjectPrefix + sub.Subject,
		BodyText: body,
	}
}

// Send dispatches the message through SMTP. Any transport error is
// returned wrapped; no retry is attempted here.
func (s *Service) Send(ctx context.Context, msg domain.OutboundMessage) error {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Reply-To", msg.ReplyTo)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.BodyText)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(m)
	}()

	// Respect ctx deadline if it's sooner than our own send timeout.
	wait := sendTimeout
	if dl, ok := ctx.Deadline(); ok {
		if until := time.Until(dl); until > 0 && until < wait {
			wait = until
		}
	}

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return context.DeadlineExceeded
	}
}

// IsConfigured checks if the relay has valid SMTP configuration
func (s *Service) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != "" && s.toEmail != ""
}
