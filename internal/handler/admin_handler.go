package handler

import (
	"net/http"

	"trainvoc-updates/internal/domain"
	"trainvoc-updates/internal/service"
	"trainvoc-updates/pkg/response"
)

type AdminHandler struct {
	store     *service.NotesStore
	publisher *service.PublishService
}

func NewAdminHandler(store *service.NotesStore, publisher *service.PublishService) *AdminHandler {
	return &AdminHandler{
		store:     store,
		publisher: publisher,
	}
}

type reloadResponse struct {
	Notes       *domain.UpdateNotes `json:"notes"`
	Changed     bool                `json:"changed"`
	Diagnostics service.LoadReport  `json:"diagnostics"`
}

func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	notes, changed, err := h.publisher.Reload()
	if err != nil {
		response.InternalError(w, "Notes reloaded but clients could not be notified")
		return
	}

	response.Success(w, reloadResponse{
		Notes:       notes,
		Changed:     changed,
		Diagnostics: h.store.Diagnostics(),
	})
}

func (h *AdminHandler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.store.Diagnostics())
}
