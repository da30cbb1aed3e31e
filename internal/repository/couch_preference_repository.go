package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"trainvoc-updates/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type couchPreferenceRepository struct {
	client *kivik.Client
	dbName string
}

func NewCouchPreferenceRepository(client *kivik.Client, dbName string) PreferenceRepository {
	return &couchPreferenceRepository{
		client: client,
		dbName: dbName,
	}
}

func preferenceDocID(userID string) string {
	return fmt.Sprintf("app_updates:%s", userID)
}

func (r *couchPreferenceRepository) Load(ctx context.Context, userID string) (*domain.PreferenceState, error) {
	db := r.client.DB(r.dbName)

	var rawDoc map[string]interface{}
	row := db.Get(ctx, preferenceDocID(userID))
	if err := row.ScanDoc(&rawDoc); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, ErrPreferencesNotFound
		}
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	return stateFromDoc(userID, rawDoc), nil
}

func (r *couchPreferenceRepository) Save(ctx context.Context, state *domain.PreferenceState) error {
	if err := validateState(state); err != nil {
		return err
	}

	db := r.client.DB(r.dbName)
	docID := preferenceDocID(state.UserID)

	rawDoc := map[string]interface{}{}
	row := db.Get(ctx, docID)
	if err := row.ScanDoc(&rawDoc); err != nil {
		if kivik.HTTPStatus(err) != http.StatusNotFound {
			return fmt.Errorf("failed to read preferences: %w", err)
		}
		rawDoc = map[string]interface{}{}
	}

	mergeIntoDoc(rawDoc, state)

	if _, err := db.Put(ctx, docID, rawDoc); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}

	return nil
}

func (r *couchPreferenceRepository) Close() error {
	return r.client.Close()
}

func stateFromDoc(userID string, rawDoc map[string]interface{}) *domain.PreferenceState {
	state := domain.NewPreferenceState(userID)

	for key, value := range rawDoc {
		if key == KeyLastSeenVersion {
			if n, ok := value.(float64); ok {
				state.LastSeenVersionCode = int(n)
			}
			continue
		}
		if code, ok := ParseDismissedKey(key); ok {
			if dismissed, _ := value.(bool); dismissed {
				state.DismissedVersionCodes[code] = true
			}
		}
	}

	if s, ok := rawDoc["updated_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			state.UpdatedAt = t
		}
	}

	return state
}

func mergeIntoDoc(rawDoc map[string]interface{}, state *domain.PreferenceState) {
	existing := stateFromDoc(state.UserID, rawDoc)

	rawDoc["user_id"] = state.UserID
	if state.LastSeenVersionCode > existing.LastSeenVersionCode {
		rawDoc[KeyLastSeenVersion] = state.LastSeenVersionCode
	} else {
		rawDoc[KeyLastSeenVersion] = existing.LastSeenVersionCode
	}
	for code, dismissed := range state.DismissedVersionCodes {
		if dismissed {
			rawDoc[DismissedKey(code)] = true
		}
	}

	updatedAt := state.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	rawDoc["updated_at"] = updatedAt.UTC().Format(time.RFC3339Nano)
}
