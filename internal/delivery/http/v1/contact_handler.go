package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OV20408/mgc-back/internal/delivery/http/response"
	"github.com/OV20408/mgc-back/internal/domain"
	"github.com/OV20408/mgc-back/pkg/apperror"
	"github.com/OV20408/mgc-back/pkg/logger"
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the contact route (public, no auth required).
// rateLimit guards only this endpoint; health stays unthrottled.
func NewContactHandler(r *gin.Engine, contactUC domain.ContactUsecase, rateLimit gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	r.POST("/send-email", rateLimit, handler.SendEmail)
}

// SendEmail handles a contact form submission and relays it to the
// company mailbox. Pipeline order: rate limit (middleware) → validation
// → spam heuristic → mail relay; each stage may end the request.
func (h *ContactHandler) SendEmail(c *gin.Context) {
	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("El cuerpo de la solicitud no es válido"))
		return
	}

	if err := h.contactUC.SendContactMessage(c.Request.Context(), &req); err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr):
			c.Error(apperror.ValidationFailed("Datos del formulario inválidos", vErr.Details))
		case errors.Is(err, domain.ErrSpamDetected):
			// Deliberately vague for the caller; the log keeps the detail
			logger.Log.Warn("contact submission rejected as spam",
				"ip", c.ClientIP(),
				"detail", err.Error(),
			)
			c.Error(apperror.BadRequest("No se pudo procesar el mensaje."))
		case errors.Is(err, domain.ErrMailNotConfigured):
			c.Error(apperror.New(http.StatusServiceUnavailable, "El servicio de contacto no está disponible en este momento.", err))
		default:
			c.Error(apperror.New(http.StatusInternalServerError, "No se pudo enviar el mensaje. Por favor, intentá nuevamente más tarde.", err))
		}
		return
	}

	response.Success(c, http.StatusOK, "Tu mensaje fue enviado correctamente. Te responderemos a la brevedad.")
}
