package navigation

const (
	scopeQuiz         = "quiz"
	scopeSettings     = "settings"
	scopeFeatureFlags = "feature_flags"
	scopeWords        = "words"
	scopeProgress     = "progress"
)

var appDestinations = []Destination{
	{Route: Splash, Screen: "SplashScreen"},
	{Route: Welcome, Screen: "WelcomeScreen"},
	{Route: Username, Screen: "UsernameScreen"},
	{Route: Main, Screen: "MainScreen"},
	{Route: Home, Screen: "HomeScreen"},
	{Route: Story, Screen: "StoryScreen"},
	{Route: Quiz, Screen: "QuizScreen", Scope: scopeQuiz},
	{Route: QuizMenu, Screen: "QuizMenuScreen", Scope: scopeQuiz},
	{Route: QuizExamMenu, Screen: "QuizExamMenuScreen", Scope: scopeQuiz},
	{Route: LastQuizResults, Screen: "LastQuizResultsScreen", Scope: scopeQuiz},
	{Route: Management, Screen: "ManagementScreen", Scope: scopeWords},
	{Route: Dictionary, Screen: "DictionaryScreen", Scope: scopeWords},
	{Route: WordDetail, Screen: "WordDetailScreen", Scope: scopeWords},
	{Route: Favorites, Screen: "FavoritesScreen", Scope: scopeWords},
	{Route: WordOfDay, Screen: "WordOfDayScreen", Scope: scopeWords},
	{Route: WordProgress, Screen: "WordProgressScreen", Scope: scopeWords},
	{Route: Help, Screen: "HelpScreen"},
	{Route: About, Screen: "AboutScreen"},
	{Route: Stats, Screen: "StatsScreen", Scope: scopeProgress},
	{Route: DailyGoals, Screen: "DailyGoalsScreen", Scope: scopeProgress},
	{Route: Achievements, Screen: "AchievementsScreen", Scope: scopeProgress},
	{Route: StreakDetail, Screen: "StreakDetailScreen", Scope: scopeProgress},
	{Route: Leaderboard, Screen: "LeaderboardScreen", Scope: scopeProgress},
	{Route: Profile, Screen: "ProfileScreen", Scope: scopeProgress},
	{Route: Settings, Screen: "SettingsScreen", Scope: scopeSettings},
	{Route: NotificationSettings, Screen: "NotificationSettingsScreen", Scope: scopeSettings},
	{Route: AccessibilitySettings, Screen: "AccessibilitySettingsScreen", Scope: scopeSettings},
	{Route: Backup, Screen: "BackupScreen", Scope: scopeSettings},
	{Route: FeatureFlagsAdmin, Screen: "FeatureFlagsAdminScreen", Scope: scopeFeatureFlags},
	{Route: FeatureFlagsUser, Screen: "FeatureFlagsUserScreen", Scope: scopeFeatureFlags},
	{Route: GamesMenu, Screen: "GamesMenuScreen"},
	{Route: Changelog, Screen: "ChangelogScreen"},
}

// AppGraph returns the full navigation graph of the app, starting at the splash screen.
func AppGraph() *Graph {
	g := NewGraph(Splash)
	for _, d := range appDestinations {
		if err := g.Register(d); err != nil {
			panic(err)
		}
	}
	return g
}
