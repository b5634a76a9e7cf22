package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bidblab/bidblab-api/internal/pkg/response"
	"github.com/bidblab/bidblab-api/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	pair, u, err := h.svc.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			response.Conflict(w, "email already registered")
			return
		}
		response.InternalError(w)
		return
	}

	response.Created(w, map[string]interface{}{
		"user":   u,
		"tokens": pair,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	pair, u, err := h.svc.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Unauthorized(w, "invalid email or password")
		case errors.Is(err, ErrBanned):
			response.Forbidden(w, "account banned")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]interface{}{
		"user":   u,
		"tokens": pair,
	})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	pair, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRefreshToken):
			response.Unauthorized(w, "invalid refresh token")
		case errors.Is(err, ErrBanned):
			response.Forbidden(w, "account banned")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, pair)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	if err := h.svc.Logout(r.Context(), req.RefreshToken); err != nil {
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.Post("/logout", h.Logout)
	return r
}
