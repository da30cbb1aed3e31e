package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trainvoc-updates/internal/assets"
	"trainvoc-updates/internal/config"
	"trainvoc-updates/internal/handler"
	"trainvoc-updates/internal/logging"
	"trainvoc-updates/internal/middleware"
	"trainvoc-updates/internal/navigation"
	"trainvoc-updates/internal/repository"
	"trainvoc-updates/internal/service"
	"trainvoc-updates/internal/watcher"
	"trainvoc-updates/internal/websocket"

	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/go-kivik/kivik/v4"
	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(logging.ParseLevel(cfg.Logging.Level))

	if err := run(cfg, log); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	prefsRepo, err := openPreferenceRepository(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer prefsRepo.Close()

	store := service.NewNotesStore(assets.Open(cfg.Assets.Dir), cfg.App.VersionName, cfg.App.VersionCode, log)
	current := store.GetUpdateNotes()
	log.Info("serving notes for %s (%d)", current.CurrentVersion, current.VersionCode)

	wsManager := websocket.NewManager(
		cfg.WebSocket.MaxConnPerUser,
		cfg.WebSocket.WriteWait,
		cfg.WebSocket.PongWait,
		cfg.WebSocket.PingPeriod,
		log,
	)

	changelogService := service.NewChangelogService(store)
	preferenceService := service.NewPreferenceService(prefsRepo, store, log)
	defer preferenceService.Close()
	deviceService := service.NewDeviceService(cfg.JWT.Secret, cfg.JWT.Expiration)
	publishService := service.NewPublishService(store, wsManager, log)

	wsManager.SetMessageHandler(handler.NewWebSocketMessageHandler(preferenceService, store, log))

	updatesHandler := handler.NewUpdatesHandler(store, changelogService)
	changelogHandler := handler.NewChangelogHandler(changelogService)
	preferenceHandler := handler.NewPreferenceHandler(preferenceService)
	deviceHandler := handler.NewDeviceHandler(deviceService)
	adminHandler := handler.NewAdminHandler(store, publishService)
	navigationHandler := handler.NewNavigationHandler(navigation.AppGraph(), changelogService)
	wsHandler := handler.NewWebSocketHandler(wsManager, cfg.JWT.Secret, cfg.WebSocket.ReadBufferSize, cfg.WebSocket.WriteBufferSize, log)

	r := mux.NewRouter()

	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORSMiddleware(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/devices/register", deviceHandler.Register).Methods("POST", "OPTIONS")

	api.HandleFunc("/updates/current", updatesHandler.Current).Methods("GET", "OPTIONS")
	api.HandleFunc("/updates/versions", updatesHandler.Versions).Methods("GET", "OPTIONS")
	api.HandleFunc("/updates/versions/{code}", updatesHandler.Version).Methods("GET", "OPTIONS")
	api.HandleFunc("/changelog", changelogHandler.Search).Methods("GET", "OPTIONS")

	api.HandleFunc("/navigation/routes", navigationHandler.Routes).Methods("GET", "OPTIONS")
	api.HandleFunc("/navigation/resolve", navigationHandler.Resolve).Methods("GET", "OPTIONS")

	protected := api.PathPrefix("/updates").Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret))

	protected.HandleFunc("/status", preferenceHandler.Status).Methods("GET", "OPTIONS")
	protected.HandleFunc("/seen", preferenceHandler.MarkSeen).Methods("POST", "OPTIONS")
	protected.HandleFunc("/dismiss", preferenceHandler.Dismiss).Methods("POST", "OPTIONS")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminMiddleware(cfg.Admin.KeyHash))

	admin.HandleFunc("/reload", adminHandler.Reload).Methods("POST", "OPTIONS")
	admin.HandleFunc("/diagnostics", adminHandler.Diagnostics).Methods("GET", "OPTIONS")

	r.HandleFunc("/ws", wsHandler.HandleConnection)

	r.HandleFunc("/health", healthHandler).Methods("GET")
	r.HandleFunc("/", rootHandler).Methods("GET")

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return wsManager.Run(gctx)
	})

	if cfg.Assets.Dir != "" && cfg.Assets.Watch {
		w, err := watcher.New(cfg.Assets.Dir, []string{assets.UpdatesFile, assets.AllVersionsFile}, watcher.DefaultDebounce, func() {
			if _, _, err := publishService.Reload(); err != nil {
				log.Error("failed to publish reloaded notes: %v", err)
			}
		}, log)
		if err != nil {
			return fmt.Errorf("failed to watch assets: %w", err)
		}
		log.Info("watching %s for note changes", cfg.Assets.Dir)
		g.Go(func() error {
			return w.Run(gctx)
		})
	}

	g.Go(func() error {
		log.Info("Starting Trainvoc update server on %s (env: %s)", addr, cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("Server stopped gracefully")
	return nil
}

func openPreferenceRepository(ctx context.Context, cfg *config.Config, log *logging.Logger) (repository.PreferenceRepository, error) {
	switch cfg.Preferences.Backend {
	case config.PrefsBackendCouch:
		client, err := kivik.New("couch", cfg.Database.CouchURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to CouchDB: %w", err)
		}

		exists, err := client.DBExists(ctx, cfg.Database.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check database existence: %w", err)
		}
		if !exists {
			if err := client.CreateDB(ctx, cfg.Database.Name); err != nil {
				return nil, fmt.Errorf("failed to create database: %w", err)
			}
			log.Info("Created database: %s", cfg.Database.Name)
		}

		log.Info("Connected to CouchDB at %s:%s", cfg.Database.Host, cfg.Database.Port)
		return repository.NewCouchPreferenceRepository(client, cfg.Database.Name), nil

	default:
		repo, err := repository.NewSQLitePreferenceRepository(cfg.Preferences.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("Using SQLite preferences at %s", cfg.Preferences.SQLitePath)
		return repo, nil
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"trainvoc-updates"}`))
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message":"Trainvoc Updates API","endpoints":{"/api/v1/updates/current":"GET","/api/v1/updates/versions":"GET","/api/v1/changelog":"GET","/api/v1/updates/status":"GET (protected)","/api/v1/navigation/routes":"GET"}}`))
}
