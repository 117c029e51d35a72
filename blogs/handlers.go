package blogs

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

// Handlers exposes the blog endpoints over HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates the blog handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleList godoc
// @Summary List published blogs
// @Description Paginated list of published, live posts with search, tag and featured filters.
// @Tags Blogs
// @Produce json
// @Param q query string false "Search in title and content"
// @Param tag query string false "Filter by tag"
// @Param featured query bool false "Filter by featured flag"
// @Param page query int false "Page, 1-based"
// @Param limit query int false "Page size"
// @Success 200 {object} respond.Envelope
// @Router /blogs [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.service.List(r.Context(), false, query.Parse(r))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "Blogs retrieved successfully", result)
	}
}

// HandleGetBySlug godoc
// @Summary Get a published blog by slug
// @Description Returns the post and records a view.
// @Tags Blogs
// @Produce json
// @Param slug path string true "Blog slug"
// @Success 200 {object} respond.Envelope
// @Failure 404 {object} respond.ErrorEnvelope
// @Router /blogs/{slug} [get]
func (h *Handlers) HandleGetBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acting, _ := auth.UserFromContext(r.Context())
		admin := acting != nil && acting.IsAdmin()

		blog, err := h.service.GetBySlug(r.Context(), admin, chi.URLParam(r, "slug"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "Blog retrieved successfully", blog)
	}
}

// HandleAdminList godoc
// @Summary List blogs for the admin dashboard
// @Description Like the public list, plus drafts via includeDrafts/published and soft-deleted rows via includeDeleted.
// @Tags Blogs
// @Produce json
// @Param includeDrafts query bool false "Include unpublished posts"
// @Param includeDeleted query bool false "Include soft-deleted posts"
// @Param published query bool false "Filter by published flag"
// @Success 200 {object} respond.Envelope
// @Failure 403 {object} respond.ErrorEnvelope
// @Router /blogs/admin [get]
func (h *Handlers) HandleAdminList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.service.List(r.Context(), true, query.Parse(r))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "Blogs retrieved successfully", result)
	}
}

// HandleAdminGet godoc
// @Summary Get a blog by id
// @Tags Blogs
// @Produce json
// @Param id path string true "Blog id"
// @Success 200 {object} respond.Envelope
// @Failure 404 {object} respond.ErrorEnvelope
// @Router /blogs/admin/{id} [get]
func (h *Handlers) HandleAdminGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blog, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "Blog retrieved successfully", blog)
	}
}

// HandleCreate godoc
// @Summary Create a blog
// @Tags Blogs
// @Accept json
// @Produce json
// @Param blogBody body blogs.CreateBlogRequest true "Blog fields"
// @Success 201 {object} respond.Envelope
// @Failure 400 {object} respond.ErrorEnvelope
// @Router /blogs [post]
func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateBlogRequest
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
		blog, err := h.service.Create(r.Context(), acting.ID, req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusCreated, "Blog created successfully", blog)
	}
}

// HandleUpdate godoc
// @Summary Update a blog
// @Tags Blogs
// @Accept json
// @Produce json
// @Param id path string true "Blog id"
// @Param blogBody body blogs.UpdateBlogRequest true "Fields to change"
// @Success 200 {object} respond.Envelope
// @Failure 404 {object} respond.ErrorEnvelope
// @Router /blogs/{id} [patch]
func (h *Handlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateBlogRequest
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
		blog, err := h.service.Update(r.Context(), acting.ID, chi.URLParam(r, "id"), req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "Blog updated successfully", blog)
	}
}

// HandleDelete godoc
// @Summary Soft-delete a blog
// @Tags Blogs
// @Produce json
// @Param id path string true "Blog id"
// @Success 200 {object} respond.Envelope
// @Failure 404 {object} respond.ErrorEnvelope
// @Router /blogs/{id} [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "Blog deleted successfully", nil)
	}
}
