package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"trainvoc-updates/internal/domain"
	"trainvoc-updates/internal/middleware"
	"trainvoc-updates/internal/service"
	"trainvoc-updates/pkg/response"

	"github.com/go-playground/validator/v10"
)

type PreferenceHandler struct {
	service  *service.PreferenceService
	validate *validator.Validate
}

func NewPreferenceHandler(service *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *PreferenceHandler) Status(w http.ResponseWriter, r *http.Request) {
	deviceID := middleware.GetDeviceID(r)

	status, err := h.service.Status(r.Context(), deviceID)
	if err != nil {
		response.InternalError(w, "Failed to load update status")
		return
	}

	response.Success(w, status)
}

func (h *PreferenceHandler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.MarkSeen)
}

func (h *PreferenceHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.Dismiss)
}

type preferenceMutation func(ctx context.Context, deviceID string, versionCode int) (*domain.UpdateStatus, error)

func (h *PreferenceHandler) mutate(w http.ResponseWriter, r *http.Request, apply preferenceMutation) {
	var req domain.VersionCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	status, err := apply(r.Context(), middleware.GetDeviceID(r), req.VersionCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidVersion):
			response.BadRequest(w, err.Error())
		case errors.Is(err, service.ErrServiceClosed):
			response.Error(w, http.StatusServiceUnavailable, "Server is shutting down")
		default:
			response.InternalError(w, "Failed to update preferences")
		}
		return
	}

	response.Success(w, status)
}
