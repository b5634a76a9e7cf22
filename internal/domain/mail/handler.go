package mail

import (
	"errors"
	"net/http"
	"strconv"

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

	senderID := middleware.GetUserID(r.Context())
	if senderID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	m, err := h.svc.Send(r.Context(), senderID, req.RecipientID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSelfMessage):
			response.BadRequest(w, "you cannot message yourself")
		case errors.Is(err, ErrRecipientNotFound):
			response.NotFound(w, "recipient not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, m)
}

func (h *Handler) Inbox(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	messages, total, err := h.svc.Inbox(r.Context(), userID, queryInt(r, "offset", 0), queryInt(r, "limit", 20))
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, ListResponse{Total: total, Messages: messages})
}

func (h *Handler) Outbox(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	messages, total, err := h.svc.Outbox(r.Context(), userID, queryInt(r, "offset", 0), queryInt(r, "limit", 20))
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, ListResponse{Total: total, Messages: messages})
}

func (h *Handler) Unread(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	count, err := h.svc.UnreadCount(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]int{"unread": count})
}

func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid message id")
		return
	}

	callerID := middleware.GetUserID(r.Context())
	if callerID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	m, err := h.svc.Read(r.Context(), id, callerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "message not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, m)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid message id")
		return
	}

	callerID := middleware.GetUserID(r.Context())
	if callerID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	if err := h.svc.Delete(r.Context(), id, callerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "message not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.Send)
	r.Get("/inbox", h.Inbox)
	r.Get("/outbox", h.Outbox)
	r.Get("/unread", h.Unread)
	r.Get("/{id}", h.Read)
	r.Delete("/{id}", h.Delete)

	return r
}

func queryInt(r *http.Request, name string, defaultValue int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}
