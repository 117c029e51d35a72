package stats

import (
	"net/http"
	"strconv"

	"github.com/user/portfolio-api/respond"
)

// Handlers exposes the dashboard endpoints over HTTP. All of them sit behind
// the admin authorization middleware.
type Handlers struct {
	service *Service
}

// NewHandlers creates the stats handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleOverview godoc
// @Summary Dashboard overview
// @Tags Stats
// @Produce json
// @Success 200 {object} respond.Envelope
// @Failure 403 {object} respond.ErrorEnvelope
// @Router /stats/overview [get]
func (h *Handlers) HandleOverview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overview, err := h.service.Overview(r.Context())
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "Stats retrieved successfully", overview)
	}
}

// HandleBlogs godoc
// @Summary Blog stats
// @Description Counts, view totals, top posts and the per-day view series. days accepts 7 or 30.
// @Tags Stats
// @Produce json
// @Param days query int false "Trailing window in days (7 or 30)"
// @Success 200 {object} respond.Envelope
// @Failure 403 {object} respond.ErrorEnvelope
// @Router /stats/blogs [get]
func (h *Handlers) HandleBlogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, _ := strconv.Atoi(r.URL.Query().Get("days"))
		stats, err := h.service.Blogs(r.Context(), days)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "Stats retrieved successfully", stats)
	}
}

// HandleProjects godoc
// @Summary Project stats
// @Tags Stats
// @Produce json
// @Success 200 {object} respond.Envelope
// @Failure 403 {object} respond.ErrorEnvelope
// @Router /stats/projects [get]
func (h *Handlers) HandleProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.service.Projects(r.Context())
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "Stats retrieved successfully", stats)
	}
}

// HandleResumes godoc
// @Summary Resume stats
// @Tags Stats
// @Produce json
// @Success 200 {object} respond.Envelope
// @Failure 403 {object} respond.ErrorEnvelope
// @Router /stats/resumes [get]
func (h *Handlers) HandleResumes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.service.Resumes(r.Context())
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "Stats retrieved successfully", stats)
	}
}

// HandleUsers godoc
// @Summary Account stats
// @Tags Stats
// @Produce json
// @Success 200 {object} respond.Envelope
// @Failure 403 {object} respond.ErrorEnvelope
// @Router /stats/users [get]
func (h *Handlers) HandleUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.service.Users(r.Context())
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, "Stats retrieved successfully", stats)
	}
}
