package service

import (
	"errors"
	"testing"

	"trainvoc-updates/internal/domain"
)

func typ(t domain.UpdateType) *domain.UpdateType {
	return &t
}

func sampleVersions() []domain.UpdateNotes {
	return []domain.UpdateNotes{
		{
			CurrentVersion: "1.2.0",
			VersionCode:    12,
			ReleaseDate:    "2026-02-14",
			Highlights: []domain.UpdateHighlight{
				{Type: domain.UpdateTypeNew, Title: "Changelog screen", Description: "Search every release"},
				{Type: domain.UpdateTypeFixed, Title: "Streak counter", Description: "No more midnight resets"},
			},
			UpcomingFeatures: []string{"Text-to-Speech integration"},
		},
		{
			CurrentVersion: "1.1.0",
			VersionCode:    11,
			ReleaseDate:    "2026-02-01",
			Highlights: []domain.UpdateHighlight{
				{Type: domain.UpdateTypeNew, Title: "Word of the Day", Description: "A new word every morning"},
			},
			UpcomingFeatures: []string{"Memory games"},
		},
		{
			CurrentVersion: "1.0.0",
			VersionCode:    10,
			ReleaseDate:    "2026-01-22",
			Highlights: []domain.UpdateHighlight{
				{Type: domain.UpdateTypeImproved, Title: "Settings", Description: "Better organization"},
			},
			UpcomingFeatures: []string{"Cloud backup with Google Drive"},
		},
	}
}

func codes(versions []domain.UpdateNotes) []int {
	out := make([]int, len(versions))
	for i, v := range versions {
		out[i] = v.VersionCode
	}
	return out
}

func equalCodes(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterVersions(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		category *domain.UpdateType
		want     []int
	}{
		{"blank query no category returns all in order", "", nil, []int{12, 11, 10}},
		{"whitespace query counts as blank", "   ", nil, []int{12, 11, 10}},
		{"query keeps its surrounding spaces", "counter ", nil, []int{}},
		{"inner spaces are part of the query", "of the", nil, []int{11}},
		{"matches version string", "1.1", nil, []int{11}},
		{"matches release date", "2026-01", nil, []int{10}},
		{"matches highlight title case-insensitively", "STREAK", nil, []int{12}},
		{"matches highlight description", "morning", nil, []int{11}},
		{"matches upcoming feature", "google drive", nil, []int{10}},
		{"matches several versions", "2026-02", nil, []int{12, 11}},
		{"no match", "quantum", nil, []int{}},
		{"category new", "", typ(domain.UpdateTypeNew), []int{12, 11}},
		{"category improved", "", typ(domain.UpdateTypeImproved), []int{10}},
		{"category fixed", "", typ(domain.UpdateTypeFixed), []int{12}},
		{"query and category combine", "morning", typ(domain.UpdateTypeFixed), []int{}},
		{"query and category both match", "word", typ(domain.UpdateTypeNew), []int{11}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := codes(FilterVersions(sampleVersions(), tt.query, tt.category))
			if !equalCodes(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFilterVersionsDoesNotMutateInput(t *testing.T) {
	input := sampleVersions()
	FilterVersions(input, "streak", typ(domain.UpdateTypeFixed))

	if !equalCodes(codes(input), []int{12, 11, 10}) || len(input[0].Highlights) != 2 {
		t.Error("expected input to be unchanged")
	}
}

func TestFilterHighlights(t *testing.T) {
	notes := &sampleVersions()[0]

	if got := FilterHighlights(notes, nil); len(got) != 2 {
		t.Errorf("expected all highlights, got %d", len(got))
	}
	got := FilterHighlights(notes, typ(domain.UpdateTypeFixed))
	if len(got) != 1 || got[0].Title != "Streak counter" {
		t.Errorf("expected only the fixed highlight, got %+v", got)
	}
	if got := FilterHighlights(notes, typ(domain.UpdateTypeImproved)); len(got) != 0 {
		t.Errorf("expected no highlights, got %+v", got)
	}
}

type staticVersions []domain.UpdateNotes

func (s staticVersions) GetAllVersions() []domain.UpdateNotes {
	return append([]domain.UpdateNotes(nil), s...)
}

func (s staticVersions) Version(code int) (*domain.UpdateNotes, bool) {
	for i := range s {
		if s[i].VersionCode == code {
			return s[i].Clone(), true
		}
	}
	return nil, false
}

func TestChangelogService_Search(t *testing.T) {
	service := NewChangelogService(staticVersions(sampleVersions()))

	all := service.Search(domain.ChangelogQuery{})
	if all.Count != 3 || all.Summary != "" {
		t.Errorf("expected 3 versions without summary, got %d %q", all.Count, all.Summary)
	}

	one := service.Search(domain.ChangelogQuery{Query: "streak"})
	if one.Count != 1 || one.Summary != "1 version found" {
		t.Errorf("expected single match summary, got %d %q", one.Count, one.Summary)
	}

	blank := service.Search(domain.ChangelogQuery{Query: "  "})
	if blank.Count != 3 || blank.Summary != "3 versions found" {
		t.Errorf("expected typed blank query to list everything with a summary, got %d %q", blank.Count, blank.Summary)
	}

	none := service.Search(domain.ChangelogQuery{Category: typ(domain.UpdateTypeFixed), Query: "settings"})
	if none.Count != 0 || none.Summary != "0 versions found" {
		t.Errorf("expected empty result summary, got %d %q", none.Count, none.Summary)
	}
	if none.Versions == nil {
		t.Error("expected empty slice, not nil")
	}
}

func TestChangelogService_Version(t *testing.T) {
	service := NewChangelogService(staticVersions(sampleVersions()))

	v, err := service.Version(12, typ(domain.UpdateTypeNew))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(v.Highlights) != 1 || v.Highlights[0].Type != domain.UpdateTypeNew {
		t.Errorf("expected filtered highlights, got %+v", v.Highlights)
	}

	v, err = service.Version(10, typ(domain.UpdateTypeFixed))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if v.Highlights == nil || len(v.Highlights) != 0 {
		t.Errorf("expected empty highlight list, got %+v", v.Highlights)
	}

	if _, err := service.Version(99, nil); !errors.Is(err, ErrVersionNotFound) {
		t.Errorf("expected ErrVersionNotFound, got %v", err)
	}
}
