package registrations

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"registration-backend/internal/attachments"
	"registration-backend/internal/shared/server/respond"
	"registration-backend/internal/shared/telemetry"
)

// Handler wires the public submission endpoints to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 20 << 20
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches submission routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/submit", h.submit)
	rg.POST("/submit/check-email", h.checkEmail)
	rg.GET("/submit/validation-rules", h.validationRules)
}

func (h *Handler) submit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	if err := c.Request.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid or oversized multipart form")
		return
	}

	in := SubmitInput{
		Name:                 c.PostForm("name"),
		Email:                c.PostForm("email"),
		Phone:                c.PostForm("phone"),
		College:              c.PostForm("college"),
		Department:           c.PostForm("department"),
		Year:                 c.PostForm("year"),
		MUNsParticipated:     c.PostForm("munsParticipated"),
		MUNsWithAwards:       c.PostForm("munsWithAwards"),
		MUNsChaired:          c.PostForm("munsChaired"),
		OrganizingExperience: c.PostForm("organizingExperience"),
		Committees:           c.PostForm("committees"),
		Positions:            c.PostForm("positions"),
		SubmitterIP:          c.ClientIP(),
		UserAgent:            c.Request.UserAgent(),
		Files:                make(map[string]*UploadInput),
	}

	// Only the three named file fields are read; anything else in the form
	// is ignored.
	for _, field := range attachments.Fields() {
		fileHeader, err := c.FormFile(field)
		if err != nil {
			continue
		}
		file, err := fileHeader.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "Unable to read uploaded file: "+field)
			return
		}
		defer file.Close()
		in.Files[field] = &UploadInput{
			OriginalName: fileHeader.Filename,
			MimeType:     fileHeader.Header.Get("Content-Type"),
			Size:         fileHeader.Size,
			Content:      file,
		}
	}

	result, err := h.Svc.Submit(c.Request.Context(), in)
	if err != nil {
		var validationErr *ValidationError
		var upstreamErr *UpstreamError
		switch {
		case errors.As(err, &validationErr):
			respond.Error(c, http.StatusBadRequest, validationErr.Error())
		case errors.As(err, &upstreamErr):
			telemetry.Error("submission.failed", map[string]any{
				"op":         upstreamErr.Op,
				"err":        upstreamErr.Err.Error(),
				"request_id": c.GetString("requestId"),
			})
			respond.Error(c, http.StatusInternalServerError, "Registration could not be processed, please try again")
		default:
			respond.Error(c, http.StatusInternalServerError, "Registration could not be processed, please try again")
		}
		return
	}

	c.Set("registrationId", result.RegistrationID)
	respond.Data(c, http.StatusCreated, "Registration submitted successfully", result)
}

type checkEmailRequest struct {
	Email string `json:"email" binding:"required"`
}

func (h *Handler) checkEmail(c *gin.Context) {
	var req checkEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "email is required")
		return
	}

	exists, err := h.Svc.CheckEmail(c.Request.Context(), req.Email)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Unable to check email")
		return
	}

	message := "Email is available"
	if exists {
		message = "A registration with this email already exists"
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"success": true,
		"exists":  exists,
		"message": message,
	})
}

func (h *Handler) validationRules(c *gin.Context) {
	respond.OK(c, "", gin.H{
		"requiredFields": []string{
			"name", "email", "phone", "college", "department", "year", "organizingExperience",
		},
		"files":      attachments.Rules(),
		"committees": Committees,
		"positions":  Positions,
		"years":      Years,
	})
}
