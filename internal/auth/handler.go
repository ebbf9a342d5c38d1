// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/reviewdeck/internal/core"
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

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/token", h.Token)
	})
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, core.FormatValidationFields(err))
		return
	}

	resp, err := h.service.Signup(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailMismatch):
			core.ValidationFailed(w, map[string]string{
				"email": "does not match the existing user",
			})
		// Duplicate errors arrive field-tagged from the user store; a bare
		// sentinel means the lookup key itself collided.
		case core.IsAppError(err):
			core.JSONError(w, err)
		case errors.Is(err, core.ErrDuplicateKey):
			core.JSONError(w, core.DuplicateError("username"))
		case errors.Is(err, core.ErrInvalidInput):
			core.JSONError(w, err)
		case errors.Is(err, ErrMailDelivery):
			core.BadGateway(w, "could not deliver confirmation email")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, core.FormatValidationFields(err))
		return
	}

	token, err := h.service.IssueToken(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "user")
		case errors.Is(err, ErrInvalidCode):
			core.ValidationFailed(w, map[string]string{
				"confirmation_code": "is invalid or already used",
			})
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, TokenResponse{Token: token})
}
