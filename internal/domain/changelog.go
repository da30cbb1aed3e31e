package domain

import "fmt"

type ChangelogQuery struct {
	Query    string
	Category *UpdateType
}

// Active reports whether a search or category is in effect. Any typed text
// counts, even when it is blank and matches every version.
func (q ChangelogQuery) Active() bool {
	return q.Query != "" || q.Category != nil
}

type ChangelogResult struct {
	Versions []UpdateNotes `json:"versions"`
	Count    int           `json:"count"`
	Summary  string        `json:"summary,omitempty"`
}

// VersionsFound renders the result count line shown above a filtered changelog.
func VersionsFound(n int) string {
	if n == 1 {
		return "1 version found"
	}
	return fmt.Sprintf("%d versions found", n)
}
