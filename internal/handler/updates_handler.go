package handler

import (
	"errors"
	"net/http"
	"strconv"

	"trainvoc-updates/internal/domain"
	"trainvoc-updates/internal/service"
	"trainvoc-updates/pkg/response"

	"github.com/gorilla/mux"
)

type UpdatesHandler struct {
	store     *service.NotesStore
	changelog *service.ChangelogService
}

func NewUpdatesHandler(store *service.NotesStore, changelog *service.ChangelogService) *UpdatesHandler {
	return &UpdatesHandler{
		store:     store,
		changelog: changelog,
	}
}

func (h *UpdatesHandler) Current(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.store.GetUpdateNotes())
}

func (h *UpdatesHandler) Versions(w http.ResponseWriter, r *http.Request) {
	versions := h.store.GetAllVersions()
	response.List(w, versions, response.Meta{Count: len(versions)})
}

func (h *UpdatesHandler) Version(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(mux.Vars(r)["code"])
	if err != nil || code < 1 {
		response.BadRequest(w, "Version code must be a positive integer")
		return
	}

	category, err := parseCategory(r.URL.Query().Get("type"))
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	notes, err := h.changelog.Version(code, category)
	if err != nil {
		if errors.Is(err, service.ErrVersionNotFound) {
			response.NotFound(w, "Version not found")
			return
		}
		response.InternalError(w, "Failed to load version")
		return
	}

	response.Success(w, notes)
}

// parseCategory maps the optional type query parameter to a highlight
// category. Unlike document parsing, an unknown value is rejected.
func parseCategory(raw string) (*domain.UpdateType, error) {
	if raw == "" {
		return nil, nil
	}
	t, ok := domain.LookupUpdateType(raw)
	if !ok {
		return nil, errors.New("type must be one of NEW, IMPROVED, FIXED")
	}
	return &t, nil
}
