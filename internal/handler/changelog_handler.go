package handler

import (
	"net/http"

	"trainvoc-updates/internal/domain"
	"trainvoc-updates/internal/service"
	"trainvoc-updates/pkg/response"
)

type ChangelogHandler struct {
	service *service.ChangelogService
}

func NewChangelogHandler(service *service.ChangelogService) *ChangelogHandler {
	return &ChangelogHandler{
		service: service,
	}
}

func (h *ChangelogHandler) Search(w http.ResponseWriter, r *http.Request) {
	category, err := parseCategory(r.URL.Query().Get("type"))
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	result := h.service.Search(domain.ChangelogQuery{
		Query:    r.URL.Query().Get("q"),
		Category: category,
	})

	response.List(w, result.Versions, response.Meta{
		Count:   result.Count,
		Summary: result.Summary,
	})
}
