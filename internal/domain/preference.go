package domain

import (
	"sort"
	"time"
)

// PreferenceState is the persisted seen/dismissed state for one device.
type PreferenceState struct {
	UserID                string       `json:"user_id"`
	LastSeenVersionCode   int          `json:"last_seen_version"`
	DismissedVersionCodes map[int]bool `json:"-"`
	UpdatedAt             time.Time    `json:"updated_at"`
}

func NewPreferenceState(userID string) *PreferenceState {
	return &PreferenceState{
		UserID:                userID,
		DismissedVersionCodes: make(map[int]bool),
	}
}

func (p *PreferenceState) IsDismissed(versionCode int) bool {
	return p.DismissedVersionCodes[versionCode]
}

// Dismissed returns the dismissed version codes in ascending order.
func (p *PreferenceState) Dismissed() []int {
	codes := make([]int, 0, len(p.DismissedVersionCodes))
	for code, ok := range p.DismissedVersionCodes {
		if ok {
			codes = append(codes, code)
		}
	}
	sort.Ints(codes)
	return codes
}

func (p *PreferenceState) Clone() *PreferenceState {
	c := *p
	c.DismissedVersionCodes = make(map[int]bool, len(p.DismissedVersionCodes))
	for code, ok := range p.DismissedVersionCodes {
		c.DismissedVersionCodes[code] = ok
	}
	return &c
}

// ShouldShowNotes decides whether the update-notes sheet is due for currentVersionCode.
func ShouldShowNotes(currentVersionCode, lastSeen int, dismissed map[int]bool) bool {
	return currentVersionCode > lastSeen && !dismissed[currentVersionCode]
}

type VersionCodeRequest struct {
	VersionCode int `json:"version_code" validate:"omitempty,min=1"`
}

type UpdateStatus struct {
	CurrentVersionCode    int    `json:"current_version_code"`
	CurrentVersion        string `json:"current_version"`
	LastSeenVersionCode   int    `json:"last_seen_version"`
	DismissedVersionCodes []int  `json:"dismissed_version_codes"`
	ShouldShow            bool   `json:"should_show"`
}
