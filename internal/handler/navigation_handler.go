package handler

import (
	"errors"
	"net/http"

	"trainvoc-updates/internal/navigation"
	"trainvoc-updates/internal/service"
	"trainvoc-updates/pkg/response"
)

type NavigationHandler struct {
	graph     *navigation.Graph
	changelog *service.ChangelogService
}

func NewNavigationHandler(graph *navigation.Graph, changelog *service.ChangelogService) *NavigationHandler {
	return &NavigationHandler{
		graph:     graph,
		changelog: changelog,
	}
}

type routesResponse struct {
	StartDestination string                   `json:"start_destination"`
	Destinations     []navigation.Destination `json:"destinations"`
}

func (h *NavigationHandler) Routes(w http.ResponseWriter, r *http.Request) {
	routes := h.graph.Routes()
	response.List(w, routesResponse{
		StartDestination: h.graph.StartDestination(),
		Destinations:     routes,
	}, response.Meta{Count: len(routes)})
}

func (h *NavigationHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	route := r.URL.Query().Get("route")

	link, err := h.changelog.ResolveDeepLink(h.graph, route)
	if err != nil {
		if errors.Is(err, navigation.ErrUnknownRoute) || errors.Is(err, service.ErrVersionNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	response.Success(w, link)
}
