package question

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bidblab/bidblab-api/internal/middleware"
	"github.com/bidblab/bidblab-api/internal/pkg/response"
	"github.com/bidblab/bidblab-api/internal/pkg/validator"
)

const maxPictureSize = 10 << 20 // 10 MiB

// PictureStore persists optional question pictures in object storage.
type PictureStore interface {
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error
	URL(key string) string
}

type Handler struct {
	svc      *Service
	pictures PictureStore
}

func NewHandler(svc *Service, pictures PictureStore) *Handler {
	return &Handler{svc: svc, pictures: pictures}
}

func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	askerID := middleware.GetUserID(r.Context())
	if askerID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	q, err := h.svc.Ask(r.Context(), askerID, &req)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.Created(w, q)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid question id")
		return
	}

	q, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "question not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, q)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := &Filter{}
	if askerParam := r.URL.Query().Get("askerId"); askerParam != "" {
		askerID, err := uuid.Parse(askerParam)
		if err != nil {
			response.BadRequest(w, "invalid askerId filter")
			return
		}
		filter.AskerID = &askerID
	}
	if q := r.URL.Query().Get("q"); q != "" {
		filter.Query = &q
	}

	pagination := &Pagination{
		Offset: queryInt(r, "offset", 0),
		Limit:  queryInt(r, "limit", 20),
	}

	questions, total, err := h.svc.List(r.Context(), filter, pagination)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, ListResponse{Total: total, Questions: questions})
}

func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid question id")
		return
	}

	var req AnswerRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	answererID := middleware.GetUserID(r.Context())
	if answererID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	a, err := h.svc.Answer(r.Context(), id, answererID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "question not found")
		case errors.Is(err, ErrSelfAnswer):
			response.Conflict(w, "you cannot answer your own question")
		case errors.Is(err, ErrAlreadyAnswered):
			response.Conflict(w, "you already answered this question")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, a)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid question id")
		return
	}

	callerID := middleware.GetUserID(r.Context())
	isAdmin := middleware.GetRole(r.Context()) == "admin"

	if err := h.svc.Delete(r.Context(), id, callerID, isAdmin); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "question not found")
		case errors.Is(err, ErrForbidden):
			response.Forbidden(w, "only the asker or an admin can delete a question")
		default:
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}

// UploadPicture stores an image and returns its URL so the client can attach
// it to a new question.
func (h *Handler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPictureSize); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("picture")
	if err != nil {
		response.BadRequest(w, "picture file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPictureSize))
	if err != nil {
		response.InternalError(w)
		return
	}

	contentType := http.DetectContentType(data)
	if contentType != "image/jpeg" && contentType != "image/png" {
		response.BadRequest(w, "only JPEG and PNG pictures are supported")
		return
	}

	ext := ".jpg"
	if contentType == "image/png" {
		ext = ".png"
	}
	key := "questions/" + uuid.New().String() + ext

	if err := h.pictures.Put(r.Context(), key, bytes.NewReader(data), contentType); err != nil {
		response.InternalError(w)
		return
	}

	response.Created(w, map[string]string{"url": h.pictures.URL(key)})
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.List)
	r.Post("/", h.Ask)
	r.Post("/pictures", h.UploadPicture)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/answers", h.Answer)
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
