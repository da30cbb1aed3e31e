package handler

import (
	"encoding/json"
	"net/http"

	"trainvoc-updates/internal/domain"
	"trainvoc-updates/internal/service"
	"trainvoc-updates/pkg/response"

	"github.com/go-playground/validator/v10"
)

type DeviceHandler struct {
	service  *service.DeviceService
	validate *validator.Validate
}

func NewDeviceHandler(service *service.DeviceService) *DeviceHandler {
	return &DeviceHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	resp, err := h.service.Register(&req)
	if err != nil {
		response.InternalError(w, "Failed to register device")
		return
	}

	response.Created(w, resp)
}
