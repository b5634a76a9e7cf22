package auction

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

// PictureStore persists auction pictures in object storage.
type PictureStore interface {
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error
	URL(key string) string
}

// Thumbnailer produces a downscaled rendition of an uploaded image.
type Thumbnailer interface {
	Thumbnail(data []byte) ([]byte, error)
}

type Handler struct {
	svc      *Service
	pictures PictureStore
	thumbs   Thumbnailer
}

func NewHandler(svc *Service, pictures PictureStore, thumbs Thumbnailer) *Handler {
	return &Handler{svc: svc, pictures: pictures, thumbs: thumbs}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := &Filter{}
	if roleParam := r.URL.Query().Get("role"); roleParam != "" {
		roleValue, err := strconv.Atoi(roleParam)
		if err != nil || roleValue <= 0 {
			response.BadRequest(w, "invalid role filter")
			return
		}
		role := Role(roleValue)
		filter.Role = &role
	}

	pagination := &Pagination{
		Offset: queryInt(r, "offset", 0),
		Limit:  queryInt(r, "limit", 20),
	}

	viewerID := middleware.GetUserID(r.Context())
	isAdmin := middleware.GetRole(r.Context()) == "admin"

	auctions, total, err := h.svc.List(r.Context(), filter, pagination, viewerID, isAdmin)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, ListResponse{Total: total, Auctions: auctions})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid auction id")
		return
	}

	viewerID := middleware.GetUserID(r.Context())
	isAdmin := middleware.GetRole(r.Context()) == "admin"

	a, err := h.svc.Get(r.Context(), id, viewerID, isAdmin)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "auction not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, a)
}

func (h *Handler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid auction id")
		return
	}

	var req PlaceBidRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	// Admin bids are anonymous house bids.
	var bidderID *uuid.UUID
	if middleware.GetRole(r.Context()) != "admin" {
		userID := middleware.GetUserID(r.Context())
		if userID == uuid.Nil {
			response.Unauthorized(w, "unauthorized")
			return
		}
		bidderID = &userID
	}

	bid, err := h.svc.PlaceBid(r.Context(), id, bidderID, req.BidPrice, r.RemoteAddr)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "auction not found")
		case errors.Is(err, ErrAuctionClosed):
			response.Conflict(w, "auction is closed for bidding")
		case errors.Is(err, ErrInsufficientCredits):
			response.Conflict(w, "bid fee exceeds spendable credits")
		case errors.Is(err, ErrDuplicatePrice):
			response.Conflict(w, "you already hold a bid at this price")
		case errors.Is(err, ErrInvalidPrice):
			response.BadRequest(w, "bid price must be positive and within the cap")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, bid)
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

	a, err := h.svc.Create(r.Context(), &req, middleware.GetUserID(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDateRange):
			response.BadRequest(w, "closes must be after starts")
		case errors.Is(err, ErrInvalidPriceRange):
			response.BadRequest(w, "bidblab price must not exceed retail price")
		case errors.Is(err, ErrSerialMismatch):
			response.Conflict(w, "auction serial is stale, fetch the next serial again")
		case errors.Is(err, ErrSerialTaken):
			response.Conflict(w, "auction serial was claimed by a concurrent creation")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, a)
}

func (h *Handler) NextSerial(w http.ResponseWriter, r *http.Request) {
	next, err := h.svc.NextSerial(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]int{"nextSerial": next})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid auction id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "auction not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}

// UploadPicture accepts a multipart image, stores the original plus a
// thumbnail, and attaches both to the auction.
func (h *Handler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid auction id")
		return
	}

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

	thumb, err := h.thumbs.Thumbnail(data)
	if err != nil {
		response.BadRequest(w, "could not decode picture")
		return
	}

	key := "auctions/" + id.String() + "/" + uuid.New().String() + extFor(contentType)
	thumbKey := "auctions/" + id.String() + "/thumb_" + uuid.New().String() + ".jpg"

	if err := h.pictures.Put(r.Context(), key, bytes.NewReader(data), contentType); err != nil {
		response.InternalError(w)
		return
	}
	if err := h.pictures.Put(r.Context(), thumbKey, bytes.NewReader(thumb), "image/jpeg"); err != nil {
		response.InternalError(w)
		return
	}

	picture, err := h.svc.AddPicture(r.Context(), id, h.pictures.URL(key), h.pictures.URL(thumbKey))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "auction not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.Created(w, picture)
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/bids", h.PlaceBid)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin())
		r.Post("/", h.Create)
		r.Get("/serial", h.NextSerial)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/pictures", h.UploadPicture)
	})

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

func extFor(contentType string) string {
	if contentType == "image/png" {
		return ".png"
	}
	return ".jpg"
}
