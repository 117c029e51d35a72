package users

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

// Handlers exposes the admin user endpoints over HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates the user handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleList godoc
// @Summary List accounts
// @Tags Users
// @Produce json
// @Param q query string false "Search in name and email"
// @Param page query int false "Page, 1-based"
// @Param limit query int false "Page size"
// @Success 200 {object} respond.Envelope
// @Failure 403 {object} respond.ErrorEnvelope
// @Router /users [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.service.List(r.Context(), query.Parse(r))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "Users retrieved successfully", result)
	}
}

// HandleGet godoc
// @Summary Get an account by id
// @Tags Users
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} respond.Envelope
// @Failure 404 {object} respond.ErrorEnvelope
// @Router /users/{id} [get]
func (h *Handlers) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "User retrieved successfully", user)
	}
}

// HandleCreate godoc
// @Summary Provision an account
// @Tags Users
// @Accept json
// @Produce json
// @Param userBody body users.CreateUserRequest true "Account fields"
// @Success 201 {object} respond.Envelope
// @Failure 400 {object} respond.ErrorEnvelope
// @Router /users [post]
func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if err := validation.Struct(req); err != nil {
			respond.Error(w, r, err)
			return
		}

		user, err := h.service.Create(r.Context(), req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusCreated, "User created successfully", user)
	}
}

// HandleUpdate godoc
// @Summary Update an account
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User id"
// @Param userBody body users.UpdateUserRequest true "Fields to change"
// @Success 200 {object} respond.Envelope
// @Failure 404 {object} respond.ErrorEnvelope
// @Router /users/{id} [patch]
func (h *Handlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if err := validation.Struct(req); err != nil {
			respond.Error(w, r, err)
			return
		}

		user, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "User updated successfully", user)
	}
}

// HandleDelete godoc
// @Summary Delete an account permanently
// @Tags Users
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} respond.Envelope
// @Failure 404 {object} respond.ErrorEnvelope
// @Router /users/{id} [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acting, _ := auth.UserFromContext(r.Context())
		if err := h.service.Delete(r.Context(), acting.ID, chi.URLParam(r, "id")); err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "User deleted successfully", nil)
	}
}
