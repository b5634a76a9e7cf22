package credit

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bidblab/bidblab-api/internal/middleware"
	"github.com/bidblab/bidblab-api/internal/pkg/response"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// MyBalance returns the caller's derived credit account.
func (h *Handler) MyBalance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	account, err := h.svc.ComputeBalance(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrInvalidID) {
			response.BadRequest(w, "invalid user id")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, account)
}

// UserBalance returns any user's account; admin only. Admin balance views also
// want the spendable figure, so it is attached alongside the account.
func (h *Handler) UserBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}

	account, err := h.svc.ComputeBalance(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrInvalidID) {
			response.BadRequest(w, "invalid user id")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{
		"account":   account,
		"spendable": account.Spendable(),
	})
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.svc.Schedule(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, schedule)
}

func (h *Handler) PutSchedule(w http.ResponseWriter, r *http.Request) {
	var schedule DefaultSchedule
	if err := response.DecodeJSON(r.Body, &schedule); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	if err := h.svc.SaveSchedule(r.Context(), &schedule); err != nil {
		if errors.Is(err, ErrInvalidSchedule) {
			response.BadRequest(w, "schedule amounts must not be negative")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, schedule)
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/me", h.MyBalance)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin())
		r.Get("/defaults", h.GetSchedule)
		r.Put("/defaults", h.PutSchedule)
		r.Get("/{userID}", h.UserBalance)
	})

	return r
}
