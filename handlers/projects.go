package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gestorfacturas/facturas-api/models"
)

// GetProjects serves GET /projects: the active listing, a single record via
// ?id=, or the aggregate rows via ?stats=1.
func (h *Handler) GetProjects(c *gin.Context) {
	if c.Query("stats") == "1" {
		stats, err := h.Store.ProjectStats(c.Request.Context())
		if err != nil {
			h.storeError(c, err, "Failed to compute project stats")
			return
		}
		ok(c, http.StatusOK, stats)
		return
	}

	if id := c.Query("id"); id != "" {
		project, err := h.Store.GetProject(c.Request.Context(), id)
		if err != nil {
			h.storeError(c, err, "Failed to fetch project")
			return
		}
		ok(c, http.StatusOK, project)
		return
	}

	projects, err := h.Store.ListProjects(c.Request.Context())
	if err != nil {
		h.storeError(c, err, "Failed to fetch projects")
		return
	}
	ok(c, http.StatusOK, projects)
}

func (h *Handler) CreateProject(c *gin.Context) {
	var in models.ProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if errs := models.ValidateProject(in); len(errs) > 0 {
		validationFailed(c, errs)
		return
	}

	project, err := h.Store.CreateProject(c.Request.Context(), in)
	if err != nil {
		h.storeError(c, err, "Failed to create project")
		return
	}

	h.WS.Broadcast("project_created", project.ID)
	ok(c, http.StatusCreated, project)
}

// UpdateProject serves PUT /projects; the body carries the id.
func (h *Handler) UpdateProject(c *gin.Context) {
	var req struct {
		ID string `json:"id" binding:"required"`
		models.ProjectInput
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if errs := models.ValidateProject(req.ProjectInput); len(errs) > 0 {
		validationFailed(c, errs)
		return
	}

	project, err := h.Store.UpdateProject(c.Request.Context(), req.ID, req.ProjectInput)
	if err != nil {
		h.storeError(c, err, "Failed to update project")
		return
	}

	h.WS.Broadcast("project_updated", project.ID)
	ok(c, http.StatusOK, project)
}

// DeleteProject soft-deletes: the project disappears from listings, its
// invoices stay untouched.
func (h *Handler) DeleteProject(c *gin.Context) {
	var req struct {
		ID string `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Store.DeleteProject(c.Request.Context(), req.ID); err != nil {
		h.storeError(c, err, "Failed to delete project")
		return
	}

	h.WS.Broadcast("project_deleted", req.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}
