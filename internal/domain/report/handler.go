package report

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
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	reporterID := middleware.GetUserID(r.Context())
	if reporterID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	rep := &Report{
		ID:         uuid.New(),
		ReporterID: reporterID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Reason:     req.Reason,
		Status:     StatusOpen,
	}
	if err := h.repo.Create(r.Context(), rep); err != nil {
		response.InternalError(w)
		return
	}

	response.Created(w, rep)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := &Filter{}
	if s := r.URL.Query().Get("status"); s != "" {
		status := Status(s)
		filter.Status = &status
	}
	if t := r.URL.Query().Get("targetType"); t != "" {
		targetType := TargetType(t)
		filter.TargetType = &targetType
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	reports, total, err := h.repo.List(r.Context(), filter, offset, limit)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, ListResponse{Total: total, Reports: reports})
}

func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid report id")
		return
	}

	var req ResolveRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	if err := h.repo.Resolve(r.Context(), id, req.Status, req.Resolution); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "report not found")
		case errors.Is(err, ErrAlreadyResolved):
			response.Conflict(w, "report already resolved")
		default:
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.Create)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin())
		r.Get("/", h.List)
		r.Put("/{id}/resolve", h.Resolve)
	})

	return r
}
