package admin

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"registration-backend/internal/attachments"
	"registration-backend/internal/registrations"
	"registration-backend/internal/shared/server/respond"
	"registration-backend/internal/shared/telemetry"
)

func (h *Handler) exportRegistrations(c *gin.Context) {
	regs, err := h.Repo.List(c.Request.Context(), "submittedAt", true)
	if err != nil {
		telemetry.Error("admin.export.failed", map[string]any{"err": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "Failed to export registrations")
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "csv":
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="registrations.csv"`)
		c.Status(http.StatusOK)
		if err := WriteCSV(c.Writer, regs); err != nil {
			telemetry.Error("admin.export.csv_failed", map[string]any{"err": err.Error()})
		}
	case "json":
		respond.OK(c, "", regs)
	default:
		respond.Error(c, http.StatusBadRequest, "format must be json or csv")
	}
}

var csvHeader = []string{
	"id", "name", "email", "phone", "college", "department", "year",
	"munsParticipated", "munsWithAwards", "munsChaired", "organizingExperience",
	"committees", "positions", "status", "submittedAt",
	"idCardUrl", "munCertificatesUrl", "chairingResumeUrl",
}

// WriteCSV serializes the registrations as CSV, one row per record.
// List-valued fields are joined with ";" and attachment URLs get one column
// per field.
func WriteCSV(w io.Writer, regs []registrations.Registration) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, reg := range regs {
		row := []string{
			reg.ID,
			reg.Name,
			reg.Email,
			reg.Phone,
			reg.College,
			reg.Department,
			reg.Year,
			fmt.Sprintf("%d", reg.MUNsParticipated),
			fmt.Sprintf("%d", reg.MUNsWithAwards),
			fmt.Sprintf("%d", reg.MUNsChaired),
			reg.OrganizingExperience,
			strings.Join(reg.Committees, ";"),
			strings.Join(reg.Positions, ";"),
			reg.Status,
			reg.SubmittedAt,
		}
		for _, field := range attachments.Fields() {
			row = append(row, reg.Files[field].URL)
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
