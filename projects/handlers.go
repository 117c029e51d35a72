package projects

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/portfolio-api/apperror"
	"github.com/user/portfolio-api/auth"
	"github.com/user/portfolio-api/query"
	"github.com/user/portfolio-api/respond"
	"github.com/user/portfolio-api/validation"
)

// Handlers exposes the project endpoints over HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates the project handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleList godoc
// @Summary List published projects
// @Description Paginated list of published, live projects. The tag filter matches tech stack entries.
// @Tags Projects
// @Produce json
// @Param q query string false "Search in title and description"
// @Param tag query string false "Filter by tech stack entry"
// @Param featured query bool false "Filter by featured flag"
// @Param page query int false "Page, 1-based"
// @Param limit query int false "Page size"
// @Success 200 {object} respond.Envelope
// @Router /projects [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.service.List(r.Context(), false, query.Parse(r))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "Projects retrieved successfully", result)
	}
}

// HandleGetBySlug godoc
// @Summary Get a published project by slug
// @Tags Projects
// @Produce json
// @Param slug path string true "Project slug"
// @Success 200 {object} respond.Envelope
// @Failure 404 {object} respond.ErrorEnvelope
// @Router /projects/{slug} [get]
func (h *Handlers) HandleGetBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acting, _ := auth.UserFromContext(r.Context())
		admin := acting != nil && acting.IsAdmin()

		project, err := h.service.GetBySlug(r.Context(), admin, chi.URLParam(r, "slug"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "Project retrieved successfully", project)
	}
}

// HandleAdminList godoc
// @Summary List projects for the admin dashboard
// @Tags Projects
// @Produce json
// @Param includeDrafts query bool false "Include unpublished projects"
// @Param includeDeleted query bool false "Include soft-deleted projects"
// @Param published query bool false "Filter by published flag"
// @Success 200 {object} respond.Envelope
// @Failure 403 {object} respond.ErrorEnvelope
// @Router /projects/admin [get]
func (h *Handlers) HandleAdminList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.service.List(r.Context(), true, query.Parse(r))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "Projects retrieved successfully", result)
	}
}

// HandleAdminGet godoc
// @Summary Get a project by id
// @Tags Projects
// @Produce json
// @Param id path string true "Project id"
// @Success 200 {object} respond.Envelope
// @Failure 404 {object} respond.ErrorEnvelope
// @Router /projects/admin/{id} [get]
func (h *Handlers) HandleAdminGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "Project retrieved successfully", project)
	}
}

// HandleCreate godoc
// @Summary Create a project
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectBody body projects.CreateProjectRequest true "Project fields"
// @Success 201 {object} respond.Envelope
// @Failure 400 {object} respond.ErrorEnvelope
// @Router /projects [post]
func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if err := validation.Struct(req); err != nil {
			respond.Error(w, r, err)
			return
		}

		acting, _ := auth.UserFromContext(r.Context())
		project, err := h.service.Create(r.Context(), acting.ID, req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusCreated, "Project created successfully", project)
	}
}

// HandleUpdate godoc
// @Summary Update a project
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project id"
// @Param projectBody body projects.UpdateProjectRequest true "Fields to change"
// @Success 200 {object} respond.Envelope
// @Failure 404 {object} respond.ErrorEnvelope
// @Router /projects/{id} [patch]
func (h *Handlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if err := validation.Struct(req); err != nil {
			respond.Error(w, r, err)
			return
		}

		acting, _ := auth.UserFromContext(r.Context())
		project, err := h.service.Update(r.Context(), acting.ID, chi.URLParam(r, "id"), req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "Project updated successfully", project)
	}
}

// HandleDelete godoc
// @Summary Soft-delete a project
// @Tags Projects
// @Produce json
// @Param id path string true "Project id"
// @Success 200 {object} respond.Envelope
// @Failure 404 {object} respond.ErrorEnvelope
// @Router /projects/{id} [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "Project deleted successfully", nil)
	}
}
