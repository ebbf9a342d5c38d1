// AngelaMos | 2026
// handler.go

package review

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/reviewdeck/internal/core"
	"github.com/angelamos/reviewdeck/internal/middleware"
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

// RegisterRoutes hangs /reviews off a /titles/{titleID} subrouter. Reads are
// public; writes carry the caller's principal and the service decides the
// rest (ownership, role, superuser).
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", h.ListReviews)
		r.With(authenticator).Post("/", h.CreateReview)

		r.Route("/{reviewID}", func(r chi.Router) {
			r.Get("/", h.GetReview)
			r.With(authenticator).Patch("/", h.UpdateReview)
			r.With(authenticator).Delete("/", h.DeleteReview)

			r.Route("/comments", func(r chi.Router) {
				r.Get("/", h.ListComments)
				r.With(authenticator).Post("/", h.CreateComment)

				r.Route("/{commentID}", func(r chi.Router) {
					r.Get("/", h.GetComment)
					r.With(authenticator).Patch("/", h.UpdateComment)
					r.With(authenticator).Delete("/", h.DeleteComment)
				})
			})
		})
	})
}

func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	params := listParams(r)

	reviews, total, err := h.service.ListReviews(
		r.Context(),
		chi.URLParam(r, "titleID"),
		params,
	)
	if err != nil {
		h.writeServiceError(w, err, "title")
		return
	}

	params.Normalize()
	core.Paginated(
		w,
		ToReviewResponseList(reviews),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, core.FormatValidationFields(err))
		return
	}

	rev, err := h.service.CreateReview(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "titleID"),
		req,
	)
	if err != nil {
		h.writeServiceError(w, err, "title")
		return
	}

	core.Created(w, ToReviewResponse(rev))
}

func (h *Handler) GetReview(w http.ResponseWriter, r *http.Request) {
	rev, err := h.service.GetReview(
		r.Context(),
		chi.URLParam(r, "titleID"),
		chi.URLParam(r, "reviewID"),
	)
	if err != nil {
		h.writeServiceError(w, err, "review")
		return
	}

	core.OK(w, ToReviewResponse(rev))
}

func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var req UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, core.FormatValidationFields(err))
		return
	}

	rev, err := h.service.UpdateReview(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "titleID"),
		chi.URLParam(r, "reviewID"),
		req,
	)
	if err != nil {
		h.writeServiceError(w, err, "review")
		return
	}

	core.OK(w, ToReviewResponse(rev))
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteReview(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "titleID"),
		chi.URLParam(r, "reviewID"),
	)
	if err != nil {
		h.writeServiceError(w, err, "review")
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	params := listParams(r)

	comments, total, err := h.service.ListComments(
		r.Context(),
		chi.URLParam(r, "titleID"),
		chi.URLParam(r, "reviewID"),
		params,
	)
	if err != nil {
		h.writeServiceError(w, err, "review")
		return
	}

	params.Normalize()
	core.Paginated(
		w,
		ToCommentResponseList(comments),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, core.FormatValidationFields(err))
		return
	}

	comment, err := h.service.CreateComment(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "titleID"),
		chi.URLParam(r, "reviewID"),
		req,
	)
	if err != nil {
		h.writeServiceError(w, err, "review")
		return
	}

	core.Created(w, ToCommentResponse(comment))
}

func (h *Handler) GetComment(w http.ResponseWriter, r *http.Request) {
	comment, err := h.service.GetComment(
		r.Context(),
		chi.URLParam(r, "titleID"),
		chi.URLParam(r, "reviewID"),
		chi.URLParam(r, "commentID"),
	)
	if err != nil {
		h.writeServiceError(w, err, "comment")
		return
	}

	core.OK(w, ToCommentResponse(comment))
}

func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var req UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, core.FormatValidationFields(err))
		return
	}

	comment, err := h.service.UpdateComment(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "titleID"),
		chi.URLParam(r, "reviewID"),
		chi.URLParam(r, "commentID"),
		req,
	)
	if err != nil {
		h.writeServiceError(w, err, "comment")
		return
	}

	core.OK(w, ToCommentResponse(comment))
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteComment(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "titleID"),
		chi.URLParam(r, "reviewID"),
		chi.URLParam(r, "commentID"),
	)
	if err != nil {
		h.writeServiceError(w, err, "comment")
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

func listParams(r *http.Request) ListParams {
	return ListParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
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
