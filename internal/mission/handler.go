// AngelaMos | 2026
// handler.go

package mission

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/cosmos-explorer/internal/core"
	"github.com/carterperez-dev/cosmos-explorer/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	optionalAuth func(http.Handler) http.Handler,
) {
	r.Route("/missions", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/featured", h.ListFeatured)
		r.Get("/popular", h.ListPopular)
		r.Get("/search", h.Search)
		r.Get("/categories", h.Categories)
		r.Get("/category/{category}", h.ListByCategory)
		r.With(optionalAuth).Get("/{missionId}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Post("/{missionId}/favorite", h.ToggleFavorite)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Post("/", h.Create)
				r.Put("/{missionId}", h.Update)
				r.Delete("/{missionId}", h.Delete)
			})
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	missions, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToMissionListResponse(missions))
}

func (h *Handler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	missions, err := h.service.ListFeatured(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToMissionListResponse(missions))
}

func (h *Handler) ListPopular(w http.ResponseWriter, r *http.Request) {
	missions, err := h.service.ListPopular(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToMissionListResponse(missions))
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	searchTerm := r.URL.Query().Get("q")
	if searchTerm == "" {
		core.BadRequest(w, "search query required")
		return
	}

	missions, err := h.service.Search(r.Context(), searchTerm)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToMissionListResponse(missions))
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, CategoriesResponse{Categories: categories})
}

func (h *Handler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	missions, err := h.service.ListByCategory(r.Context(), category)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToMissionListResponse(missions))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	missionID, ok := parseMissionID(w, r)
	if !ok {
		return
	}

	m, err := h.service.Get(r.Context(), missionID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "mission")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	resp := ToMissionResponse(m)

	// personalize for signed-in readers
	if userID := middleware.GetUserID(r.Context()); userID != "" {
		fav, favErr := h.service.IsFavorite(r.Context(), userID, missionID)
		if favErr == nil {
			resp.IsFavorite = &fav
		}
	}

	core.OK(w, resp)
}

func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	missionID, ok := parseMissionID(w, r)
	if !ok {
		return
	}

	userID := middleware.GetUserID(r.Context())

	resp, err := h.service.ToggleFavorite(r.Context(), userID, missionID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "mission")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	m, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToMissionResponse(m))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	missionID, ok := parseMissionID(w, r)
	if !ok {
		return
	}

	var req UpdateMissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	m, err := h.service.Update(r.Context(), missionID, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "mission")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToMissionResponse(m))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	missionID, ok := parseMissionID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), missionID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "mission")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func parseMissionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	missionID, err := strconv.ParseInt(chi.URLParam(r, "missionId"), 10, 64)
	if err != nil || missionID <= 0 {
		core.BadRequest(w, "invalid mission id")
		return 0, false
	}
	return missionID, true
}
