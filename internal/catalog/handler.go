// AngelaMos | 2026
// handler.go

package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/reviewdeck/internal/core"
	"github.com/angelamos/reviewdeck/internal/middleware"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())

	//nolint:errcheck // registration only fails on a nil function
	_ = v.RegisterValidation("slugfmt", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})

	return &Handler{
		service:   service,
		validator: v,
	}
}

// RegisterRoutes wires /categories, /genres and /titles. Reads are public;
// writes require an authenticated admin. titleSubroutes, when non-nil, is
// invoked on the /titles/{titleID} subrouter so nested resources (reviews,
// comments) can hang off a title without a second mount on the same path.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	titleSubroutes func(chi.Router),
) {
	admin := func(r chi.Router) chi.Router {
		return r.With(authenticator, middleware.RequireAdmin)
	}

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		admin(r).Post("/", h.CreateCategory)
		admin(r).Delete("/{slug}", h.DeleteCategory)
	})

	r.Route("/genres", func(r chi.Router) {
		r.Get("/", h.ListGenres)
		admin(r).Post("/", h.CreateGenre)
		admin(r).Delete("/{slug}", h.DeleteGenre)
	})

	r.Route("/titles", func(r chi.Router) {
		r.Get("/", h.ListTitles)
		admin(r).Post("/", h.CreateTitle)

		r.Route("/{titleID}", func(r chi.Router) {
			r.Get("/", h.GetTitle)
			admin(r).Patch("/", h.UpdateTitle)
			admin(r).Delete("/", h.DeleteTitle)

			if titleSubroutes != nil {
				titleSubroutes(r)
			}
		})
	})
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	params := termParams(r)

	categories, total, err := h.service.ListCategories(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	params.Normalize()
	core.Paginated(
		w,
		ToCategoryResponseList(categories),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, core.FormatValidationFields(err))
		return
	}

	category, err := h.service.CreateCategory(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err, "category")
		return
	}

	core.Created(w, ToCategoryResponse(category))
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if err := h.service.DeleteCategory(r.Context(), slug); err != nil {
		h.writeServiceError(w, err, "category")
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListGenres(w http.ResponseWriter, r *http.Request) {
	params := termParams(r)

	genres, total, err := h.service.ListGenres(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	params.Normalize()
	core.Paginated(
		w,
		ToGenreResponseList(genres),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	var req CreateGenreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, core.FormatValidationFields(err))
		return
	}

	genre, err := h.service.CreateGenre(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err, "genre")
		return
	}

	core.Created(w, ToGenreResponse(genre))
}

func (h *Handler) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if err := h.service.DeleteGenre(r.Context(), slug); err != nil {
		h.writeServiceError(w, err, "genre")
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListTitles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := ListTitlesParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Category: q.Get("category"),
		Genre:    q.Get("genre"),
		Name:     q.Get("name"),
	}

	if raw := q.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			core.ValidationFailed(w, map[string]string{
				"year": "must be an integer",
			})
			return
		}
		params.Year = &year
	}

	titles, total, err := h.service.ListTitles(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	params.Normalize()
	core.Paginated(
		w,
		ToTitleResponseList(titles),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) CreateTitle(w http.ResponseWriter, r *http.Request) {
	var req CreateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, core.FormatValidationFields(err))
		return
	}

	title, err := h.service.CreateTitle(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err, "title")
		return
	}

	core.Created(w, ToTitleResponse(title))
}

func (h *Handler) GetTitle(w http.ResponseWriter, r *http.Request) {
	title, err := h.service.GetTitle(r.Context(), chi.URLParam(r, "titleID"))
	if err != nil {
		h.writeServiceError(w, err, "title")
		return
	}

	core.OK(w, ToTitleResponse(title))
}

func (h *Handler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	var req UpdateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, core.FormatValidationFields(err))
		return
	}

	title, err := h.service.UpdateTitle(
		r.Context(),
		chi.URLParam(r, "titleID"),
		req,
	)
	if err != nil {
		h.writeServiceError(w, err, "title")
		return
	}

	core.OK(w, ToTitleResponse(title))
}

func (h *Handler) DeleteTitle(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteTitle(r.Context(), chi.URLParam(r, "titleID"))
	if err != nil {
		h.writeServiceError(w, err, "title")
		return
	}

	core.NoContent(w)
}

func (h *Handler) writeServiceError(
	w http.ResponseWriter,
	err error,
	resource string,
) {
	switch {
	case core.IsAppError(err):
		core.JSONError(w, err)
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, resource)
	default:
		core.InternalServerError(w, err)
	}
}

func termParams(r *http.Request) ListTermsParams {
	return ListTermsParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
	}
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
