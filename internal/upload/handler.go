package upload

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/imgdrop/service/internal/response"
)

// Handler holds HTTP handlers for upload endpoints.
type Handler struct {
	svc *Service
	log *slog.Logger
}

// NewHandler creates a new upload Handler.
func NewHandler(svc *Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, log: log}
}

type uploadResponse struct {
	Name string `json:"name" example:"20260219-101500-5f0c6a1e9d4b4c2a8f3e7b6d1a2c3e4f-photo.png"`
	URL  string `json:"url"  example:"https://storage.example.com/uploads/20260219-101500-5f0c6a1e9d4b4c2a8f3e7b6d1a2c3e4f-photo.png"`
}

// Upload godoc
//
//	@Summary		Upload a file
//	@Description	Streams the multipart part named "file" to object storage under a unique, time-sortable key.
//	@Tags			uploads
//	@Accept			mpfd
//	@Produce		json
//	@Param			file	formData	file	true	"File to store"
//	@Success		200		{object}	uploadResponse
//	@Failure		400		{string}	string	"expected multipart/form-data | missing or empty file"
//	@Failure		500		{string}	string	"upload failed"
//	@Router			/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	req, err := requestFromMultipart(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.svc.Upload(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, uploadResponse{Name: res.Key, URL: res.Location})
}

// List godoc
//
//	@Summary		List stored uploads
//	@Description	Returns stored objects in key order, which is upload order.
//	@Tags			uploads
//	@Produce		json
//	@Param			prefix	query		string	false	"Key prefix, e.g. 20260219"
//	@Param			limit	query		int		false	"Maximum entries (default 100, max 1000)"
//	@Success		200		{array}		storage.ObjectInfo
//	@Failure		400		{string}	string	"invalid limit"
//	@Failure		500		{string}	string	"listing failed"
//	@Router			/uploads [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.BadRequest(w, "invalid limit")
			return
		}
		limit = n
	}

	objs, err := h.svc.List(r.Context(), r.URL.Query().Get("prefix"), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, objs)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		response.BadRequest(w, clientReason(err))
	case errors.Is(err, ErrConfiguration):
		h.log.ErrorContext(r.Context(), "object storage is not configured", "error", err)
		response.InternalError(w, "server is not configured for uploads")
	case errors.Is(err, ErrStorageRead):
		h.log.ErrorContext(r.Context(), "listing failed", "error", err)
		response.InternalError(w, "listing failed")
	case errors.Is(err, ErrStorageWrite):
		h.log.ErrorContext(r.Context(), "upload failed", "error", err)
		response.InternalError(w, "upload failed")
	default:
		h.log.ErrorContext(r.Context(), "unexpected upload error", "error", err)
		response.InternalError(w, "")
	}
}

// clientReason strips the sentinel prefix from a wrapped ErrInvalidRequest.
func clientReason(err error) string {
	return strings.TrimPrefix(err.Error(), ErrInvalidRequest.Error()+": ")
}
