package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cfolkers/caribou-portal/internal/service/engagement"
	"github.com/cfolkers/caribou-portal/internal/service/pmbok"
	"github.com/cfolkers/caribou-portal/internal/service/portfolio"
)

type DashboardHandler struct {
	portfolio *portfolio.Service
	// searchPerson is the configured default for the engagement person
	// filter; empty means the full summary.
	searchPerson string
	logger       *zap.Logger
}

func NewDashboardHandler(portfolio *portfolio.Service, searchPerson string, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{portfolio: portfolio, searchPerson: searchPerson, logger: logger}
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	snap := h.portfolio.Load(c.Request.Context())
	c.JSON(http.StatusOK, h.portfolio.Dashboard(snap))
}

// ListProjects handles GET /api/projects, nearest due date first.
func (h *DashboardHandler) ListProjects(c *gin.Context) {
	snap := h.portfolio.Load(c.Request.Context())

	views := make([]portfolio.ProjectView, 0, len(snap.Projects))
	for _, p := range h.portfolio.SortedByDueDate(snap) {
		views = append(views, h.portfolio.ProjectView(snap, p))
	}
	c.JSON(http.StatusOK, gin.H{"projects": views, "total": len(views)})
}

// GetProject handles GET /api/projects/:id
func (h *DashboardHandler) GetProject(c *gin.Context) {
	snap := h.portfolio.Load(c.Request.Context())

	p, ok := h.portfolio.ProjectByID(snap, c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, h.portfolio.ProjectView(snap, p))
}

// ListCategories handles GET /api/categories
func (h *DashboardHandler) ListCategories(c *gin.Context) {
	snap := h.portfolio.Load(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"categories": pmbok.StatusCategorySummary(snap.Projects, snap.Overrides),
	})
}

// GetCategory handles GET /api/categories/:key
func (h *DashboardHandler) GetCategory(c *gin.Context) {
	key := c.Param("key")
	category, ok := pmbok.CategoryByKey(key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown status category"})
		return
	}

	snap := h.portfolio.Load(c.Request.Context())
	projects := pmbok.ProjectsInCategory(snap.Projects, snap.Overrides, key)

	views := make([]portfolio.ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, h.portfolio.ProjectView(snap, p))
	}
	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"count":    len(views),
		"projects": views,
	})
}

// GetEngagement handles GET /api/engagement. A ?person= query (or the
// configured default) narrows the response to one person's record.
func (h *DashboardHandler) GetEngagement(c *gin.Context) {
	snap := h.portfolio.Load(c.Request.Context())
	result := h.portfolio.Engagement(snap)

	person := c.Query("person")
	if person == "" {
		person = h.searchPerson
	}
	if person == "" {
		c.JSON(http.StatusOK, result)
		return
	}

	entry, ok := engagement.Person(result.Summary, person)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "person not found", "person": person})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// GetClients handles GET /api/clients
func (h *DashboardHandler) GetClients(c *gin.Context) {
	snap := h.portfolio.Load(c.Request.Context())
	c.JSON(http.StatusOK, h.portfolio.ClientEngagement(snap))
}

// Refresh handles POST /api/refresh
func (h *DashboardHandler) Refresh(c *gin.Context) {
	count, err := h.portfolio.Refresh(c.Request.Context())
	if err != nil {
		h.logger.Error("refresh failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": count, "status": "refreshed"})
}
