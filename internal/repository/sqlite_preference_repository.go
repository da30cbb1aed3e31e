package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"trainvoc-updates/internal/domain"

	_ "modernc.org/sqlite"
)

const preferencesSchema = `
CREATE TABLE IF NOT EXISTS preferences (
	user_id    TEXT    NOT NULL,
	key        TEXT    NOT NULL,
	value      TEXT    NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (user_id, key)
);
`

type sqlitePreferenceRepository struct {
	db     *sql.DB
	dbPath string
}

func NewSQLitePreferenceRepository(dbPath string) (PreferenceRepository, error) {
	resolved, err := ResolvePath(dbPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(preferencesSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &sqlitePreferenceRepository{db: db, dbPath: resolved}, nil
}

// ResolvePath expands a leading "~" to the user's home directory.
func ResolvePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("sqlite path is required")
	}
	if strings.HasPrefix(p, "~/") || p == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home dir: %w", err)
		}
		if p == "~" {
			p = home
		} else {
			p = filepath.Join(home, p[2:])
		}
	}
	return filepath.Clean(p), nil
}

func (r *sqlitePreferenceRepository) Load(ctx context.Context, userID string) (*domain.PreferenceState, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, value, updated_at FROM preferences WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	defer rows.Close()

	state := domain.NewPreferenceState(userID)
	found := false
	var latest int64

	for rows.Next() {
		var key, value string
		var updatedAt int64
		if err := rows.Scan(&key, &value, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		found = true
		if updatedAt > latest {
			latest = updatedAt
		}

		if key == KeyLastSeenVersion {
			if n, err := strconv.Atoi(value); err == nil {
				state.LastSeenVersionCode = n
			}
			continue
		}
		if code, ok := ParseDismissedKey(key); ok && value == "true" {
			state.DismissedVersionCodes[code] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	if !found {
		return nil, ErrPreferencesNotFound
	}
	state.UpdatedAt = time.Unix(0, latest)
	return state, nil
}

func (r *sqlitePreferenceRepository) Save(ctx context.Context, state *domain.PreferenceState) (err error) {
	if err := validateState(state); err != nil {
		return err
	}

	updatedAt := state.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	stamp := updatedAt.UnixNano()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO preferences (user_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, key) DO UPDATE SET
			value = CASE
				WHEN CAST(excluded.value AS INTEGER) > CAST(preferences.value AS INTEGER) THEN excluded.value
				ELSE preferences.value
			END,
			updated_at = excluded.updated_at
	`, state.UserID, KeyLastSeenVersion, strconv.Itoa(state.LastSeenVersionCode), stamp)
	if err != nil {
		return fmt.Errorf("failed to save last seen version: %w", err)
	}

	for _, code := range state.Dismissed() {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO preferences (user_id, key, value, updated_at) VALUES (?, ?, 'true', ?)
			ON CONFLICT (user_id, key) DO NOTHING
		`, state.UserID, DismissedKey(code), stamp)
		if err != nil {
			return fmt.Errorf("failed to save dismissed version %d: %w", code, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit preferences: %w", err)
	}
	return nil
}

func (r *sqlitePreferenceRepository) Close() error {
	return r.db.Close()
}
