package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"trainvoc-updates/internal/assets"
	"trainvoc-updates/internal/domain"
	"trainvoc-updates/internal/middleware"
	"trainvoc-updates/internal/navigation"
	"trainvoc-updates/internal/repository"
	"trainvoc-updates/internal/service"
	"trainvoc-updates/internal/websocket"
	"trainvoc-updates/pkg/hash"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "handler-test-secret"
	testAdminKey = "correct-horse-battery-staple"
)

const allVersionsJSON = `{"versions":[
 {"currentVersion":"1.0.0","versionCode":10,"releaseDate":"2025-10-01","highlights":[{"type":"FIXED","title":"Crash fix","description":"Quiz no longer crashes"}],"upcomingFeatures":[]},
 {"currentVersion":"1.2.0","versionCode":12,"releaseDate":"2026-01-22","highlights":[{"type":"NEW","title":"Changelog","description":"Browse every release"},{"type":"FIXED","title":"Sync","description":"Progress sync is reliable"}],"upcomingFeatures":["Dark mode"]},
 {"currentVersion":"1.1.0","versionCode":11,"releaseDate":"2025-12-01","highlights":[{"type":"IMPROVED","title":"Faster quiz","description":"Questions load instantly"}],"upcomingFeatures":[]}
]}`

const updatesJSON = `{"currentVersion":"1.2.0","versionCode":12,"releaseDate":"2026-01-22","highlights":[{"type":"NEW","title":"Changelog","description":"Browse every release"}],"upcomingFeatures":["Dark mode"]}`

type memoryPreferenceRepo struct {
	mu     sync.Mutex
	states map[string]*domain.PreferenceState
}

func (r *memoryPreferenceRepo) Load(ctx context.Context, userID string) (*domain.PreferenceState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.states[userID]
	if !ok {
		return nil, repository.ErrPreferencesNotFound
	}
	return state.Clone(), nil
}

func (r *memoryPreferenceRepo) Save(ctx context.Context, state *domain.PreferenceState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[state.UserID] = state.Clone()
	return nil
}

func (r *memoryPreferenceRepo) Close() error {
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    *struct {
		Count   int    `json:"count"`
		Summary string `json:"summary"`
	} `json:"meta"`
	Error string `json:"error"`
}

type testServer struct {
	router *mux.Router
	store  *service.NotesStore
	fsys   fstest.MapFS
	prefs  *service.PreferenceService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	fsys := fstest.MapFS{
		assets.UpdatesFile:     {Data: []byte(updatesJSON)},
		assets.AllVersionsFile: {Data: []byte(allVersionsJSON)},
	}
	store := service.NewNotesStore(fsys, "1.2.0", 12, nil)
	changelog := service.NewChangelogService(store)
	prefs := service.NewPreferenceService(&memoryPreferenceRepo{states: map[string]*domain.PreferenceState{}}, store, nil)
	t.Cleanup(func() { prefs.Close() })

	manager := websocket.NewManager(3, time.Second, time.Minute, 50*time.Second, nil)
	publisher := service.NewPublishService(store, manager, nil)

	keyHash, err := hash.Hash(testAdminKey)
	require.NoError(t, err)

	updates := NewUpdatesHandler(store, changelog)
	changelogHandler := NewChangelogHandler(changelog)
	preferences := NewPreferenceHandler(prefs)
	devices := NewDeviceHandler(service.NewDeviceService(testSecret, time.Hour))
	admin := NewAdminHandler(store, publisher)
	nav := NewNavigationHandler(navigation.AppGraph(), changelog)

	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/devices/register", devices.Register).Methods("POST")
	api.HandleFunc("/updates/current", updates.Current).Methods("GET")
	api.HandleFunc("/updates/versions", updates.Versions).Methods("GET")
	api.HandleFunc("/updates/versions/{code}", updates.Version).Methods("GET")
	api.HandleFunc("/changelog", changelogHandler.Search).Methods("GET")
	api.HandleFunc("/navigation/routes", nav.Routes).Methods("GET")
	api.HandleFunc("/navigation/resolve", nav.Resolve).Methods("GET")

	protected := api.PathPrefix("/updates").Subrouter()
	protected.Use(middleware.AuthMiddleware(testSecret))
	protected.HandleFunc("/status", preferences.Status).Methods("GET")
	protected.HandleFunc("/seen", preferences.MarkSeen).Methods("POST")
	protected.HandleFunc("/dismiss", preferences.Dismiss).Methods("POST")

	adminRouter := api.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.AdminMiddleware(keyHash))
	adminRouter.HandleFunc("/reload", admin.Reload).Methods("POST")
	adminRouter.HandleFunc("/diagnostics", admin.Diagnostics).Methods("GET")

	return &testServer{router: r, store: store, fsys: fsys, prefs: prefs}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func (s *testServer) register(t *testing.T) string {
	t.Helper()

	rec, env := s.do(t, "POST", "/api/v1/devices/register", domain.RegisterDeviceRequest{
		Name:       "Pixel",
		Platform:   "android",
		AppVersion: "1.2.0",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp domain.RegisterDeviceResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func doRaw(s *testServer, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}
