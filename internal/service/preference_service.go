package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"trainvoc-updates/internal/domain"
	"trainvoc-updates/internal/logging"
	"trainvoc-updates/internal/repository"
)

const commitTimeout = 10 * time.Second

// CurrentVersion identifies the build whose notes are being tracked.
type CurrentVersion interface {
	CurrentVersionCode() int
	CurrentVersionName() string
}

// PreferenceService tracks which update notes a device has seen or dismissed.
// Mutations are visible to readers immediately; persisting them is handed to a
// background committer and failures are only logged. A mutation never waits
// for the repository: while a commit is in flight, later changes for the same
// device are coalesced into one pending snapshot.
type PreferenceService struct {
	repo    repository.PreferenceRepository
	current CurrentVersion
	log     *logging.Logger

	mu      sync.Mutex
	cache   map[string]*domain.PreferenceState
	pending map[string]*domain.PreferenceState
	closed  bool

	wake chan struct{}
	done chan struct{}
}

func NewPreferenceService(repo repository.PreferenceRepository, current CurrentVersion, log *logging.Logger) *PreferenceService {
	if log == nil {
		log = logging.Discard()
	}

	s := &PreferenceService{
		repo:    repo,
		current: current,
		log:     log.With("preferences"),
		cache:   make(map[string]*domain.PreferenceState),
		pending: make(map[string]*domain.PreferenceState),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *PreferenceService) Status(ctx context.Context, userID string) (*domain.UpdateStatus, error) {
	state, err := s.state(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked(state), nil
}

// MarkSeen records versionCode (0 means the current build) as seen.
// The last seen version only moves forward.
func (s *PreferenceService) MarkSeen(ctx context.Context, userID string, versionCode int) (*domain.UpdateStatus, error) {
	return s.mutate(ctx, userID, versionCode, func(state *domain.PreferenceState, code int) bool {
		if code <= state.LastSeenVersionCode {
			return false
		}
		state.LastSeenVersionCode = code
		return true
	})
}

// Dismiss hides the notes of versionCode (0 means the current build) for good.
func (s *PreferenceService) Dismiss(ctx context.Context, userID string, versionCode int) (*domain.UpdateStatus, error) {
	return s.mutate(ctx, userID, versionCode, func(state *domain.PreferenceState, code int) bool {
		if state.DismissedVersionCodes[code] {
			return false
		}
		state.DismissedVersionCodes[code] = true
		return true
	})
}

// Close stops accepting mutations and waits for pending commits to finish.
func (s *PreferenceService) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return nil
	}
	s.closed = true
	close(s.wake)
	s.mu.Unlock()

	<-s.done
	return nil
}

func (s *PreferenceService) mutate(ctx context.Context, userID string, versionCode int, apply func(*domain.PreferenceState, int) bool) (*domain.UpdateStatus, error) {
	if versionCode < 0 {
		return nil, ErrInvalidVersion
	}
	if versionCode == 0 {
		versionCode = s.current.CurrentVersionCode()
	}

	state, err := s.state(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrServiceClosed
	}

	if apply(state, versionCode) {
		state.UpdatedAt = time.Now()
		s.pending[userID] = state.Clone()
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
	return s.statusLocked(state), nil
}

func (s *PreferenceService) state(ctx context.Context, userID string) (*domain.PreferenceState, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	s.mu.Lock()
	if state, ok := s.cache[userID]; ok {
		s.mu.Unlock()
		return state, nil
	}
	s.mu.Unlock()

	loaded, err := s.repo.Load(ctx, userID)
	if errors.Is(err, repository.ErrPreferencesNotFound) {
		loaded, err = domain.NewPreferenceState(userID), nil
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.cache[userID]; ok {
		return state, nil
	}
	s.cache[userID] = loaded
	return loaded, nil
}

func (s *PreferenceService) statusLocked(state *domain.PreferenceState) *domain.UpdateStatus {
	current := s.current.CurrentVersionCode()
	return &domain.UpdateStatus{
		CurrentVersionCode:    current,
		CurrentVersion:        s.current.CurrentVersionName(),
		LastSeenVersionCode:   state.LastSeenVersionCode,
		DismissedVersionCodes: state.Dismissed(),
		ShouldShow:            domain.ShouldShowNotes(current, state.LastSeenVersionCode, state.DismissedVersionCodes),
	}
}

func (s *PreferenceService) run() {
	defer close(s.done)

	for range s.wake {
		s.flush()
	}
	s.flush()
}

func (s *PreferenceService) flush() {
	s.mu.Lock()
	batch := s.pending
	s.pending = make(map[string]*domain.PreferenceState)
	s.mu.Unlock()

	for _, state := range batch {
		ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
		if err := s.repo.Save(ctx, state); err != nil {
			s.log.Error("failed to persist preferences for %s: %v", state.UserID, err)
		} else {
			s.log.Debug("persisted preferences for %s", state.UserID)
		}
		cancel()
	}
}
