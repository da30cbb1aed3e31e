package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	PrefsBackendCouch  = "couch"
	PrefsBackendSQLite = "sqlite"
)

type Config struct {
	Server      ServerConfig
	App         AppConfig
	Assets      AssetsConfig
	Preferences PreferencesConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Admin       AdminConfig
	WebSocket   WebSocketConfig
	CORS        CORSConfig
	Logging     LoggingConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string
}

// AppConfig describes the build the server is publishing notes for.
type AppConfig struct {
	VersionName string
	VersionCode int
}

type AssetsConfig struct {
	// Dir overrides the embedded documents when set.
	Dir   string
	Watch bool
}

type PreferencesConfig struct {
	Backend    string
	SQLitePath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type AdminConfig struct {
	KeyHash string
}

type WebSocketConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	WriteWait       time.Duration
	PongWait        time.Duration
	PingPeriod      time.Duration
	MaxConnPerUser  int
}

type CORSConfig struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	godotenv.Load()

	jwtExp, err := time.ParseDuration(getEnv("JWT_EXPIRATION", "720h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION: %w", err)
	}

	versionCode := getEnvAsInt("APP_VERSION_CODE", 1)
	if versionCode < 1 {
		return nil, fmt.Errorf("invalid APP_VERSION_CODE: %d", versionCode)
	}

	backend := strings.ToLower(getEnv("PREFS_BACKEND", PrefsBackendSQLite))
	if backend != PrefsBackendCouch && backend != PrefsBackendSQLite {
		return nil, fmt.Errorf("invalid PREFS_BACKEND %q: want %s or %s", backend, PrefsBackendCouch, PrefsBackendSQLite)
	}

	pongWait := 60 * time.Second

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
			Env:  getEnv("ENV", "development"),
		},
		App: AppConfig{
			VersionName: getEnv("APP_VERSION_NAME", "1.0.0"),
			VersionCode: versionCode,
		},
		Assets: AssetsConfig{
			Dir:   getEnv("ASSETS_DIR", ""),
			Watch: getEnvAsBool("ASSETS_WATCH", true),
		},
		Preferences: PreferencesConfig{
			Backend:    backend,
			SQLitePath: getEnv("PREFS_SQLITE_PATH", "~/.trainvoc/preferences.db"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5984"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "trainvoc"),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "dev-secret-change-in-production"),
			Expiration: jwtExp,
		},
		Admin: AdminConfig{
			KeyHash: getEnv("ADMIN_KEY_HASH", ""),
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  getEnvAsInt("WS_READ_BUFFER_SIZE", 1024),
			WriteBufferSize: getEnvAsInt("WS_WRITE_BUFFER_SIZE", 4096),
			WriteWait:       10 * time.Second,
			PongWait:        pongWait,
			PingPeriod:      pongWait * 9 / 10,
			MaxConnPerUser:  getEnvAsInt("WS_MAX_CONN_PER_USER", 3),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization,X-Admin-Key"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

// CouchURL builds the CouchDB endpoint with credentials.
func (d DatabaseConfig) CouchURL() string {
	return fmt.Sprintf("http://%s:%s@%s:%s", d.User, d.Password, d.Host, d.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
