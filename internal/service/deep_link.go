package service

import (
	"fmt"

	"trainvoc-updates/internal/domain"
	"trainvoc-updates/internal/navigation"
)

// DeepLink is a resolved route. Version is set when the route names a
// changelog entry through its versionCode argument.
type DeepLink struct {
	*navigation.Match
	Version *domain.UpdateNotes `json:"version,omitempty"`
}

// ResolveDeepLink resolves route on g and looks up the version it points at.
// A non-numeric versionCode is ErrInvalidVersion and an unknown one is
// ErrVersionNotFound.
func (s *ChangelogService) ResolveDeepLink(g *navigation.Graph, route string) (*DeepLink, error) {
	match, err := g.Resolve(route)
	if err != nil {
		return nil, err
	}

	link := &DeepLink{Match: match}
	code, present, err := match.IntArg(navigation.ArgVersionCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVersion, err)
	}
	if !present {
		return link, nil
	}

	link.Version, err = s.Version(code, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", err, code)
	}
	return link, nil
}
