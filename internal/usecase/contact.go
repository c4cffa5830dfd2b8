package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/OV20408/mgc-back/internal/domain"
	"github.com/OV20408/mgc-back/pkg/logger"
	"github.com/OV20408/mgc-back/pkg/spam"
	"github.com/OV20408/mgc-back/pkg/validation"
)

type contactUsecase struct {
	mailer   domain.MailSender
	validate *validator.Validate
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(mailer domain.MailSender, validate *validator.Validate) domain.ContactUsecase {
	return &contactUsecase{
		mailer:   mailer,
		validate: validate,
	}
}

// SendContactMessage runs the pipeline for one submission:
// sanitize → validate → spam check → relay. Every stage may stop the
// pipeline with a typed error the handler maps to an HTTP response.
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactRequest) error {
	sub := sanitizeRequest(req)

	// All rules are evaluated; errors accumulate rather than short-circuit
	if err := uc.validate.Struct(sub); err != nil {
		return &domain.ValidationError{Details: validation.FormatValidationErrors(err)}
	}

	blob := sub.Subject + " " + sub.Message + " " + sub.FullName
	if reasons := spam.Reasons(blob); len(reasons) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrSpamDetected, strings.Join(reasons, ", "))
	}

	if !uc.mailer.IsConfigured() {
		return domain.ErrMailNotConfigured
	}

	msg := uc.mailer.BuildMessage(sub)
	if err := uc.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send contact email: %w", err)
	}

	logger.Log.Info("contact message relayed", "email", sub.Email)
	return nil
}

// sanitizeRequest trims every field and normalizes the email address.
// The resulting submission is what validation and the relay see.
func sanitizeRequest(req *domain.ContactRequest) *domain.ContactSubmission {
	return &domain.ContactSubmission{
		FullName: strings.TrimSpace(req.NombreCompleto),
		Email:    validation.NormalizeEmail(req.CorreoElectronico),
		Phone:    strings.TrimSpace(req.Telefono),
		Subject:  strings.TrimSpace(req.Asunto),
		Message:  strings.TrimSpace(req.Mensaje),
	}
}
