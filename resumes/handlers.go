package resumes

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

// Handlers exposes the resume endpoints over HTTP. The public reads sit
// behind the optional auth middleware so owners see their own drafts.
type Handlers struct {
	service *Service
}

// NewHandlers creates the resume handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleList godoc
// @Summary List resumes
// @Description Published resumes for everyone; authenticated users also see their own drafts, admins see everything via the usual flags.
// @Tags Resumes
// @Produce json
// @Param q query string false "Search in title and summary"
// @Param tag query string false "Filter by skill"
// @Param page query int false "Page, 1-based"
// @Param limit query int false "Page size"
// @Success 200 {object} respond.Envelope
// @Router /resumes [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acting, _ := auth.UserFromContext(r.Context())
		result, err := h.service.List(r.Context(), acting, query.Parse(r))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "Resumes retrieved successfully", result)
	}
}

// HandleGet godoc
// @Summary Get a resume by id
// @Description Unpublished resumes resolve only for admins and the owner.
// @Tags Resumes
// @Produce json
// @Param id path string true "Resume id"
// @Success 200 {object} respond.Envelope
// @Failure 404 {object} respond.ErrorEnvelope
// @Router /resumes/{id} [get]
func (h *Handlers) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acting, _ := auth.UserFromContext(r.Context())
		resume, err := h.service.Get(r.Context(), acting, chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "Resume retrieved successfully", resume)
	}
}

// HandleCreate godoc
// @Summary Create a resume
// @Tags Resumes
// @Accept json
// @Produce json
// @Param resumeBody body resumes.CreateResumeRequest true "Resume fields"
// @Success 201 {object} respond.Envelope
// @Failure 400 {object} respond.ErrorEnvelope
// @Router /resumes [post]
func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateResumeRequest
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
		resume, err := h.service.Create(r.Context(), acting.ID, req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusCreated, "Resume created successfully", resume)
	}
}

// HandleUpdate godoc
// @Summary Update a resume
// @Tags Resumes
// @Accept json
// @Produce json
// @Param id path string true "Resume id"
// @Param resumeBody body resumes.UpdateResumeRequest true "Fields to change"
// @Success 200 {object} respond.Envelope
// @Failure 404 {object} respond.ErrorEnvelope
// @Router /resumes/{id} [patch]
func (h *Handlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateResumeRequest
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
		resume, err := h.service.Update(r.Context(), acting.ID, chi.URLParam(r, "id"), req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "Resume updated successfully", resume)
	}
}

// HandleDelete godoc
// @Summary Soft-delete a resume
// @Tags Resumes
// @Produce json
// @Param id path string true "Resume id"
// @Success 200 {object} respond.Envelope
// @Failure 404 {object} respond.ErrorEnvelope
// @Router /resumes/{id} [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "Resume deleted successfully", nil)
	}
}
