package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"registration-backend/internal/registrations"
	"registration-backend/internal/shared/server/respond"
	"registration-backend/internal/shared/telemetry"
)

// Handler wires the admin endpoints to the registration service and repo.
type Handler struct {
	Repo registrations.Repo
	Svc  *registrations.Service
}

// NewHandler constructs a Handler.
func NewHandler(repo registrations.Repo, svc *registrations.Service) *Handler {
	return &Handler{Repo: repo, Svc: svc}
}

// RegisterRoutes attaches admin routes to the (optionally key-gated) group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.stats)
	rg.GET("/registrations", h.list)
	rg.GET("/registrations/:id", h.get)
	rg.PUT("/registrations/:id", h.update)
	rg.DELETE("/registrations/:id", h.remove)
	rg.POST("/registrations/bulk-action", h.bulkAction)
	rg.GET("/export", h.exportRegistrations)
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.Repo.Stats(c.Request.Context())
	if err != nil {
		telemetry.Error("admin.stats.failed", map[string]any{"err": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}
	respond.OK(c, "", stats)
}

func (h *Handler) list(c *gin.Context) {
	// Fresh read per request; filtering and pagination happen in memory.
	regs, err := h.Repo.List(c.Request.Context(), "submittedAt", true)
	if err != nil {
		telemetry.Error("admin.list.failed", map[string]any{"err": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "Failed to list registrations")
		return
	}

	filtered := ApplyFilters(regs, Filters{
		Search:    c.Query("search"),
		Committee: c.Query("committee"),
		Position:  c.Query("position"),
		Year:      c.Query("year"),
		Status:    c.Query("status"),
	})

	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 10)
	pageSlice, pagination := Paginate(filtered, page, limit)

	respond.JSON(c, http.StatusOK, gin.H{
		"success":    true,
		"data":       pageSlice,
		"pagination": pagination,
	})
}

func (h *Handler) get(c *gin.Context) {
	reg, err := h.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, registrations.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "Registration not found")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Failed to fetch registration")
		return
	}
	respond.OK(c, "", reg)
}

func (h *Handler) update(c *gin.Context) {
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil || len(patch) == 0 {
		respond.Error(c, http.StatusBadRequest, "Request body must be a non-empty JSON object")
		return
	}

	id := c.Param("id")
	if err := h.Repo.Update(c.Request.Context(), id, patch); err != nil {
		if errors.Is(err, registrations.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "Registration not found")
			return
		}
		telemetry.Error("admin.update.failed", map[string]any{"id": id, "err": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "Failed to update registration")
		return
	}
	respond.OK(c, "Registration updated", nil)
}

func (h *Handler) remove(c *gin.Context) {
	id := c.Param("id")
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, registrations.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "Registration not found")
			return
		}
		telemetry.Error("admin.delete.failed", map[string]any{"id": id, "err": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "Failed to delete registration")
		return
	}
	respond.OK(c, "Registration deleted", nil)
}

type bulkActionRequest struct {
	Action          string         `json:"action" binding:"required"`
	RegistrationIDs []string       `json:"registrationIds" binding:"required"`
	Data            map[string]any `json:"data"`
}

// BulkResult tallies a best-effort batch: every ID is processed
// independently and failures never abort the remainder.
type BulkResult struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

func (h *Handler) bulkAction(c *gin.Context) {
	var req bulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "action and registrationIds are required")
		return
	}

	var result BulkResult
	switch req.Action {
	case "delete":
		for _, id := range req.RegistrationIDs {
			if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", id, err))
				continue
			}
			result.Success++
		}
	case "update":
		if len(req.Data) == 0 {
			respond.Error(c, http.StatusBadRequest, "data is required for bulk update")
			return
		}
		for _, id := range req.RegistrationIDs {
			if err := h.Repo.Update(c.Request.Context(), id, req.Data); err != nil {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", id, err))
				continue
			}
			result.Success++
		}
	default:
		respond.Error(c, http.StatusBadRequest, "action must be delete or update")
		return
	}

	respond.OK(c, fmt.Sprintf("Bulk %s finished", req.Action), result)
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
