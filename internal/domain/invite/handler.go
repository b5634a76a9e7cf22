package invite

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bidblab/bidblab-api/internal/middleware"
	"github.com/bidblab/bidblab-api/internal/pkg/response"
	"github.com/bidblab/bidblab-api/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	inviterID := middleware.GetUserID(r.Context())
	if inviterID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	inv, err := h.svc.Send(r.Context(), inviterID, req.FriendEmail)
	if err != nil {
		switch {
		case errors.Is(err, ErrSelfInvite):
			response.BadRequest(w, "you cannot invite yourself")
		case errors.Is(err, ErrAlreadyInvited):
			response.Conflict(w, "you already invited this email")
		case errors.Is(err, ErrAlreadyRegistered):
			response.Conflict(w, "this email already has an account")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, inv)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	inviterID := middleware.GetUserID(r.Context())
	if inviterID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	invites, err := h.svc.ListMine(r.Context(), inviterID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, ListResponse{Total: len(invites), Invites: invites})
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.Send)
	r.Get("/", h.ListMine)

	return r
}
