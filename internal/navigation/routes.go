// Package navigation defines the app's route identifiers and the graph that
// resolves them to screens.
package navigation

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	Home                 = "home"
	Main                 = "main"
	Splash               = "splash"
	Story                = "story"
	Quiz                 = "quiz"
	QuizMenu             = "quiz_menu"
	QuizExamMenu         = "quiz_exam_menu"
	Management           = "management"
	Username             = "username"
	Welcome              = "welcome"
	Help                 = "help"
	About                = "about"
	Stats                = "stats"
	Settings             = "settings"
	Dictionary           = "dictionary"
	Backup               = "backup"
	NotificationSettings = "notification_settings"
	WordDetail           = "word_detail/{wordId}"
	FeatureFlagsAdmin    = "feature_flags_admin"
	FeatureFlagsUser     = "feature_flags_user"
	GamesMenu            = "games_menu"

	Profile         = "profile"
	WordOfDay       = "word_of_day"
	Favorites       = "favorites"
	LastQuizResults = "last_quiz_results"
	DailyGoals      = "daily_goals"
	Achievements    = "achievements"

	StreakDetail = "streak_detail"

	Leaderboard  = "leaderboard"
	WordProgress = "word_progress"

	AccessibilitySettings = "accessibility_settings"

	Changelog = "changelog?versionCode={versionCode}"
)

const (
	ArgWordID      = "wordId"
	ArgVersionCode = "versionCode"
)

// WordDetailRoute builds the route for a single word.
func WordDetailRoute(wordID string) string {
	return "word_detail/" + url.PathEscape(wordID)
}

// ChangelogRoute builds the changelog route, optionally focused on one version.
func ChangelogRoute(versionCode *int) string {
	if versionCode == nil {
		return "changelog"
	}
	return "changelog?versionCode=" + strconv.Itoa(*versionCode)
}

// pattern is a parsed route template.
type pattern struct {
	segments  []string
	queryArgs []string
}

func parsePattern(route string) pattern {
	path, query, _ := strings.Cut(route, "?")

	p := pattern{segments: strings.Split(path, "/")}
	if query == "" {
		return p
	}
	for _, pair := range strings.Split(query, "&") {
		_, value, _ := strings.Cut(pair, "=")
		if name, ok := placeholder(value); ok {
			p.queryArgs = append(p.queryArgs, name)
		}
	}
	return p
}

func placeholder(segment string) (string, bool) {
	if len(segment) > 2 && strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
		return segment[1 : len(segment)-1], true
	}
	return "", false
}

// match fills args from path segments; query args are handled by the caller.
func (p pattern) match(segments []string) (map[string]string, bool) {
	if len(segments) != len(p.segments) {
		return nil, false
	}

	args := make(map[string]string)
	for i, want := range p.segments {
		if name, ok := placeholder(want); ok {
			value, err := url.PathUnescape(segments[i])
			if err != nil || value == "" {
				return nil, false
			}
			args[name] = value
			continue
		}
		if segments[i] != want {
			return nil, false
		}
	}
	return args, true
}
