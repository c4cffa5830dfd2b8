package domain

import (
	"context"
	"errors"
)

// ContactRequest represents the raw contact form submission as posted
// by the website. Field names match the frontend payload.
type ContactRequest struct {
	NombreCompleto    string `json:"nombreCompleto"`
	CorreoElectronico string `json:"correoElectronico"`
	Telefono          string `json:"telefono"`
	Asunto            string `json:"asunto"`
	Mensaje           string `json:"mensaje"`
}

// ContactSubmission is the cleaned, validated form of a ContactRequest.
// It is request-scoped and never persisted.
type ContactSubmission struct {
	FullName string `validate:"required,max=100"`
	Email    string `validate:"required,email"`
	Phone    string `validate:"required,valid_phone"`
	Subject  string `validate:"required,max=150"`
	Message  string `validate:"required,min=10,max=1000"`
}

// OutboundMessage is the email derived from a validated submission.
// It exists only for the duration of a send call.
type OutboundMessage struct {
	From     string
	To       string
	ReplyTo  string
	Subject  string
	BodyText string
}

// MailSender builds the outbound email for a validated submission and
// dispatches it through the mail transport.
type MailSender interface {
	BuildMessage(sub *ContactSubmission) OutboundMessage
	Send(ctx context.Context, msg OutboundMessage) error
	IsConfigured() bool
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SendContactMessage validates, spam-checks and relays a contact form message
	SendContactMessage(ctx context.Context, req *ContactRequest) error
}

// ValidationError carries the full list of violated-rule messages for a
// submission. All rules are evaluated; nothing short-circuits.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "datos del formulario inválidos"
}

var (
	// ErrSpamDetected is returned when the submission trips the spam heuristic.
	// The user-facing message stays deliberately vague.
	ErrSpamDetected = errors.New("submission flagged as spam")

	// ErrMailNotConfigured is returned when SMTP credentials are missing.
	ErrMailNotConfigured = errors.New("email service is not configured")
)
