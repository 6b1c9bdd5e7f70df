package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cfolkers/caribou-portal/internal/service/override"
	"github.com/cfolkers/caribou-portal/internal/service/portfolio"
)

type OverrideHandler struct {
	overrides *override.Service
	portfolio *portfolio.Service
	logger    *zap.Logger
}

func NewOverrideHandler(overrides *override.Service, portfolio *portfolio.Service, logger *zap.Logger) *OverrideHandler {
	return &OverrideHandler{overrides: overrides, portfolio: portfolio, logger: logger}
}

// operatorName reads the operator identity the auth middleware stored.
func operatorName(c *gin.Context) string {
	if v, ok := c.Get("operator"); ok {
		if name, ok := v.(string); ok && name != "" {
			return name
		}
	}
	return "User"
}

// UpdateStatus handles PUT /api/projects/:id/status
func (h *OverrideHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	projectID := c.Param("id")
	snap := h.portfolio.Load(c.Request.Context())
	p, ok := h.portfolio.ProjectByID(snap, projectID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}

	// Original status is snapshotted at override time for audit and reset.
	original := p.Status
	if original == "" {
		original = "Unknown"
	}

	if err := h.overrides.SetStatus(c.Request.Context(), projectID, req.Status, operatorName(c), original); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save status override"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"project_id": projectID, "status": req.Status})
}

// UpdateNotes handles PUT /api/projects/:id/notes
func (h *OverrideHandler) UpdateNotes(c *gin.Context) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	projectID := c.Param("id")
	if err := h.overrides.SetNotes(c.Request.Context(), projectID, req.Notes, operatorName(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save notes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"project_id": projectID, "status": "saved"})
}

// UpdateActions handles PUT /api/projects/:id/actions
func (h *OverrideHandler) UpdateActions(c *gin.Context) {
	var req struct {
		Actions string `json:"actions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	projectID := c.Param("id")
	actions := override.ParseActionsFromBullets(req.Actions)
	if err := h.overrides.SetActions(c.Request.Context(), projectID, actions, operatorName(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save actions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"project_id": projectID, "status": "saved"})
}

// ResetStatus handles DELETE /api/projects/:id/status. Removes the
// override entry, reverting to the authoritative status.
func (h *OverrideHandler) ResetStatus(c *gin.Context) {
	projectID := c.Param("id")
	if err := h.overrides.Reset(c.Request.Context(), projectID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"project_id": projectID, "status": "reset"})
}
