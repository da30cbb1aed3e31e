package service

import (
	"strings"

	"trainvoc-updates/internal/domain"
)

// FilterVersions keeps the versions matching query and category, in input order.
// A blank query matches everything; a nil category matches everything.
// Non-blank queries are matched as typed, surrounding spaces included.
func FilterVersions(versions []domain.UpdateNotes, query string, category *domain.UpdateType) []domain.UpdateNotes {
	q := ""
	if strings.TrimSpace(query) != "" {
		q = strings.ToLower(query)
	}

	out := make([]domain.UpdateNotes, 0, len(versions))
	for i := range versions {
		v := &versions[i]
		if q != "" && !matchesQuery(v, q) {
			continue
		}
		if category != nil && !v.HasType(*category) {
			continue
		}
		out = append(out, *v)
	}
	return out
}

func matchesQuery(v *domain.UpdateNotes, q string) bool {
	if containsFold(v.CurrentVersion, q) || containsFold(v.ReleaseDate, q) {
		return true
	}
	for _, h := range v.Highlights {
		if containsFold(h.Title, q) || containsFold(h.Description, q) {
			return true
		}
	}
	for _, f := range v.UpcomingFeatures {
		if containsFold(f, q) {
			return true
		}
	}
	return false
}

// q must already be lower-cased.
func containsFold(s, q string) bool {
	return strings.Contains(strings.ToLower(s), q)
}

// FilterHighlights narrows one version's highlights to a category.
func FilterHighlights(notes *domain.UpdateNotes, category *domain.UpdateType) []domain.UpdateHighlight {
	if category == nil {
		return append([]domain.UpdateHighlight(nil), notes.Highlights...)
	}
	var out []domain.UpdateHighlight
	for _, h := range notes.Highlights {
		if h.Type == *category {
			out = append(out, h)
		}
	}
	return out
}

type VersionSource interface {
	GetAllVersions() []domain.UpdateNotes
	Version(code int) (*domain.UpdateNotes, bool)
}

type ChangelogService struct {
	source VersionSource
}

func NewChangelogService(source VersionSource) *ChangelogService {
	return &ChangelogService{
		source: source,
	}
}

func (s *ChangelogService) Search(q domain.ChangelogQuery) *domain.ChangelogResult {
	versions := FilterVersions(s.source.GetAllVersions(), q.Query, q.Category)

	result := &domain.ChangelogResult{
		Versions: versions,
		Count:    len(versions),
	}
	if q.Active() {
		result.Summary = domain.VersionsFound(len(versions))
	}
	return result
}

// Version returns one changelog entry, optionally narrowed to a highlight category.
func (s *ChangelogService) Version(code int, category *domain.UpdateType) (*domain.UpdateNotes, error) {
	notes, ok := s.source.Version(code)
	if !ok {
		return nil, ErrVersionNotFound
	}
	notes.Highlights = FilterHighlights(notes, category)
	if notes.Highlights == nil {
		notes.Highlights = []domain.UpdateHighlight{}
	}
	return notes, nil
}
