package render

import (
	"bytes"
	"testing"

	"trainvoc-updates/internal/domain"
	"trainvoc-updates/internal/navigation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleVersions() []domain.UpdateNotes {
	return []domain.UpdateNotes{
		{
			CurrentVersion: "1.2.0",
			VersionCode:    12,
			ReleaseDate:    "2026-01-22",
			Highlights: []domain.UpdateHighlight{
				{Type: domain.UpdateTypeNew, Title: "Changelog screen"},
				{Type: domain.UpdateTypeFixed, Title: "Sync fix"},
			},
		},
		{CurrentVersion: "1.1.0", VersionCode: 11, ReleaseDate: "2025-12-01"},
	}
}

func TestChangelogRendersEveryHighlight(t *testing.T) {
	var buf bytes.Buffer
	Changelog(&buf, &domain.ChangelogResult{Versions: sampleVersions(), Count: 2, Summary: "2 versions found"})

	out := buf.String()
	assert.Contains(t, out, "Changelog screen")
	assert.Contains(t, out, "Sync fix")
	assert.Contains(t, out, "1.1.0")
	assert.Contains(t, out, "2 versions found")
}

func TestNotesListsUpcomingFeatures(t *testing.T) {
	notes := domain.DefaultUpdateNotes("1.2.0", 12)

	var buf bytes.Buffer
	Notes(&buf, notes)

	out := buf.String()
	assert.Contains(t, out, "What's new in 1.2.0 (12)")
	for _, h := range notes.Highlights {
		assert.Contains(t, out, h.Title)
	}
	for _, f := range notes.UpcomingFeatures {
		assert.Contains(t, out, f)
	}
}

func TestNotesTalliesHighlightTypes(t *testing.T) {
	notes := sampleVersions()[0]
	notes.Highlights = append(notes.Highlights, domain.UpdateHighlight{Type: domain.UpdateTypeNew, Title: "Streaks"})

	var buf bytes.Buffer
	Notes(&buf, &notes)
	assert.Contains(t, buf.String(), "2 NEW, 1 FIXED")

	buf.Reset()
	empty := sampleVersions()[1]
	Notes(&buf, &empty)
	assert.NotContains(t, buf.String(), "NEW")
}

func TestStatus(t *testing.T) {
	var buf bytes.Buffer
	Status(&buf, "tablet", &domain.UpdateStatus{
		CurrentVersionCode:    12,
		CurrentVersion:        "1.2.0",
		LastSeenVersionCode:   11,
		DismissedVersionCodes: []int{10, 12},
	})

	out := buf.String()
	assert.Contains(t, out, "tablet")
	assert.Contains(t, out, "1.2.0 (12)")
	assert.Contains(t, out, "10, 12")
	assert.Contains(t, out, "false")
}

func TestRoutesAndMatch(t *testing.T) {
	g := navigation.AppGraph()

	var buf bytes.Buffer
	Routes(&buf, g.StartDestination(), g.Routes())
	assert.Contains(t, buf.String(), navigation.WordDetail)
	assert.Contains(t, buf.String(), "start")

	m, err := g.Resolve("word_detail/42")
	require.NoError(t, err)

	buf.Reset()
	Match(&buf, m)
	assert.Contains(t, buf.String(), "Arg "+navigation.ArgWordID)
	assert.Contains(t, buf.String(), "42")
}
