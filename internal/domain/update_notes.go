package domain

import (
	"encoding/json"
	"strings"
)

type UpdateType string

const (
	UpdateTypeNew      UpdateType = "NEW"
	UpdateTypeImproved UpdateType = "IMPROVED"
	UpdateTypeFixed    UpdateType = "FIXED"
)

// UpdateTypes lists the highlight categories in display order.
var UpdateTypes = []UpdateType{UpdateTypeNew, UpdateTypeImproved, UpdateTypeFixed}

// ParseUpdateType is lenient: unknown values are treated as NEW.
func ParseUpdateType(s string) UpdateType {
	t, ok := LookupUpdateType(s)
	if !ok {
		return UpdateTypeNew
	}
	return t
}

// LookupUpdateType reports whether s names a known category.
func LookupUpdateType(s string) (UpdateType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NEW":
		return UpdateTypeNew, true
	case "IMPROVED":
		return UpdateTypeImproved, true
	case "FIXED":
		return UpdateTypeFixed, true
	}
	return "", false
}

func (t *UpdateType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ParseUpdateType(s)
	return nil
}

type UpdateHighlight struct {
	Type        UpdateType `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
}

// UpdateNotes describes the release highlights of one app version.
type UpdateNotes struct {
	CurrentVersion   string            `json:"currentVersion"`
	VersionCode      int               `json:"versionCode"`
	ReleaseDate      string            `json:"releaseDate"`
	Highlights       []UpdateHighlight `json:"highlights"`
	UpcomingFeatures []string          `json:"upcomingFeatures"`
}

// Clone returns a deep copy so cached notes are never mutated through a caller.
func (n *UpdateNotes) Clone() *UpdateNotes {
	if n == nil {
		return nil
	}
	c := *n
	c.Highlights = append([]UpdateHighlight(nil), n.Highlights...)
	c.UpcomingFeatures = append([]string(nil), n.UpcomingFeatures...)
	return &c
}

// HasType reports whether any highlight belongs to the given category.
func (n *UpdateNotes) HasType(t UpdateType) bool {
	for _, h := range n.Highlights {
		if h.Type == t {
			return true
		}
	}
	return false
}

// CountByType tallies highlights per category.
func (n *UpdateNotes) CountByType() map[UpdateType]int {
	counts := make(map[UpdateType]int, len(UpdateTypes))
	for _, h := range n.Highlights {
		counts[h.Type]++
	}
	return counts
}

// AllVersions is the wire shape of all_versions.json.
type AllVersions struct {
	Versions []UpdateNotes `json:"versions"`
}

// DefaultUpdateNotes is served when updates.json cannot be read.
func DefaultUpdateNotes(versionName string, versionCode int) *UpdateNotes {
	return &UpdateNotes{
		CurrentVersion: versionName,
		VersionCode:    versionCode,
		ReleaseDate:    "2026-01-22",
		Highlights: []UpdateHighlight{
			{
				Type:        UpdateTypeNew,
				Title:       "Modern Material 3 Design",
				Description: "Complete UI overhaul with beautiful Material 3 components and animations",
			},
			{
				Type:        UpdateTypeImproved,
				Title:       "Enhanced Settings Screen",
				Description: "Redesigned settings with better organization and visual hierarchy",
			},
			{
				Type:        UpdateTypeImproved,
				Title:       "Better Help & Support",
				Description: "Improved FAQ with expandable cards and easier contact options",
			},
		},
		UpcomingFeatures: []string{
			"Backend sync across devices",
			"Cloud backup with Google Drive",
			"Text-to-Speech integration",
			"Memory games",
		},
	}
}
