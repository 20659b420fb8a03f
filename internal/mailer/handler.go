package mailer

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"registration-backend/internal/registrations"
	"registration-backend/internal/shared/server/respond"
	"registration-backend/internal/shared/telemetry"
)

// Handler exposes the broadcast endpoint.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches mail routes to the admin group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/send-mail", h.sendMail)
}

type sendMailRequest struct {
	Recipients   []string `json:"recipients" binding:"required"`
	Subject      string   `json:"subject"`
	Message      string   `json:"message"`
	Template     string   `json:"template"`
	CC           []string `json:"cc"`
	BCC          []string `json:"bcc"`
	SMTPProvider string   `json:"smtpProvider"`
}

func (h *Handler) sendMail(c *gin.Context) {
	var req sendMailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "recipients is required")
		return
	}

	subject, body := req.Subject, req.Message
	if req.Template != "" {
		tpl, ok := TemplateByName(req.Template)
		if !ok {
			respond.Error(c, http.StatusBadRequest, "unknown template")
			return
		}
		subject, body = tpl.Subject, tpl.Body
	}
	if subject == "" || body == "" {
		respond.Error(c, http.StatusBadRequest, "subject and message are required")
		return
	}

	result, err := h.Svc.Send(c.Request.Context(), SendInput{
		Recipients: req.Recipients,
		Subject:    subject,
		Body:       body,
		CC:         req.CC,
		BCC:        req.BCC,
		Provider:   req.SMTPProvider,
	})
	if err != nil {
		var verr *registrations.ValidationError
		if errors.As(err, &verr) {
			respond.Error(c, http.StatusBadRequest, verr.Error())
			return
		}
		if errors.Is(err, ErrConfiguration) {
			telemetry.Error("mailer.config.invalid", map[string]any{"err": err.Error()})
			respond.Error(c, http.StatusInternalServerError, "Mail service is not configured correctly")
			return
		}
		telemetry.Error("mailer.send.error", map[string]any{"err": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "Failed to send mail")
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"success": true,
		"message": "Mail dispatch finished",
		"results": result,
	})
}
