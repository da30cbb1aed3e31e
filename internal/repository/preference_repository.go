package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"trainvoc-updates/internal/domain"
)

var ErrPreferencesNotFound = errors.New("preferences not found")

// PreferenceRepository persists seen/dismissed state. Save merges with what
// is already stored: the last seen version never decreases and dismissed
// versions are never removed.
type PreferenceRepository interface {
	Load(ctx context.Context, userID string) (*domain.PreferenceState, error)
	Save(ctx context.Context, state *domain.PreferenceState) error
	Close() error
}

// Keys mirror the app's "app_updates" shared preferences.
const (
	KeyLastSeenVersion = "last_seen_version"
	KeyDismissedPrefix = "dismissed_"
)

func DismissedKey(versionCode int) string {
	return KeyDismissedPrefix + strconv.Itoa(versionCode)
}

// ParseDismissedKey extracts the version code from a dismissed_<code> key.
func ParseDismissedKey(key string) (int, bool) {
	if !strings.HasPrefix(key, KeyDismissedPrefix) {
		return 0, false
	}
	code, err := strconv.Atoi(strings.TrimPrefix(key, KeyDismissedPrefix))
	if err != nil {
		return 0, false
	}
	return code, true
}

func validateState(state *domain.PreferenceState) error {
	if state == nil || state.UserID == "" {
		return fmt.Errorf("preference state requires a user id")
	}
	return nil
}
