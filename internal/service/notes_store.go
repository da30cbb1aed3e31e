package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"
	"time"

	"trainvoc-updates/internal/assets"
	"trainvoc-updates/internal/domain"
	"trainvoc-updates/internal/logging"
)

var ErrDocumentMissing = errors.New("document missing")

// DocumentError reports a document that exists but could not be read or decoded.
type DocumentError struct {
	Name string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("malformed %s: %v", e.Name, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

type LoadStatus string

const (
	LoadStatusPending   LoadStatus = "pending"
	LoadStatusOK        LoadStatus = "ok"
	LoadStatusMissing   LoadStatus = "missing"
	LoadStatusMalformed LoadStatus = "malformed"
)

type DocumentReport struct {
	Name     string     `json:"name"`
	Status   LoadStatus `json:"status"`
	Error    string     `json:"error,omitempty"`
	Skipped  int        `json:"skipped,omitempty"`
	LoadedAt time.Time  `json:"loaded_at,omitempty"`
}

type LoadReport struct {
	Updates     DocumentReport `json:"updates"`
	AllVersions DocumentReport `json:"all_versions"`
}

// NotesStore serves the bundled update-notes documents. Parsed documents are
// cached until Invalidate; load failures fall back to defaults and are never
// returned to callers.
type NotesStore struct {
	mu          sync.Mutex
	fsys        fs.FS
	versionName string
	versionCode int
	log         *logging.Logger

	current        *domain.UpdateNotes
	currentLoaded  bool
	versions       []domain.UpdateNotes
	versionsLoaded bool
	report         LoadReport
}

func NewNotesStore(fsys fs.FS, versionName string, versionCode int, log *logging.Logger) *NotesStore {
	if log == nil {
		log = logging.Discard()
	}
	return &NotesStore{
		fsys:        fsys,
		versionName: versionName,
		versionCode: versionCode,
		log:         log.With("notes"),
		report: LoadReport{
			Updates:     DocumentReport{Name: assets.UpdatesFile, Status: LoadStatusPending},
			AllVersions: DocumentReport{Name: assets.AllVersionsFile, Status: LoadStatusPending},
		},
	}
}

// CurrentVersionCode is the version code of the running build.
func (s *NotesStore) CurrentVersionCode() int {
	return s.versionCode
}

func (s *NotesStore) CurrentVersionName() string {
	return s.versionName
}

// GetUpdateNotes returns the notes of updates.json, or the built-in default
// notes when the document is missing or malformed.
func (s *NotesStore) GetUpdateNotes() *domain.UpdateNotes {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.currentLocked().Clone()
}

// GetAllVersions returns every known version, newest first. When
// all_versions.json cannot be used it degrades to the current notes alone.
func (s *NotesStore) GetAllVersions() []domain.UpdateNotes {
	s.mu.Lock()
	defer s.mu.Unlock()

	versions := s.versionsLocked()
	out := make([]domain.UpdateNotes, len(versions))
	for i := range versions {
		out[i] = *versions[i].Clone()
	}
	return out
}

// Version looks up a single version of the changelog by code.
func (s *NotesStore) Version(code int) (*domain.UpdateNotes, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.versionsLocked() {
		if s.versions[i].VersionCode == code {
			return s.versions[i].Clone(), true
		}
	}
	return nil, false
}

func (s *NotesStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.invalidateLocked()
}

// Reload drops the cache, re-reads both documents and reports whether the
// current notes now describe a different version than before.
func (s *NotesStore) Reload() (*domain.UpdateNotes, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := 0
	if s.currentLoaded && s.current != nil {
		previous = s.current.VersionCode
	}

	s.invalidateLocked()
	current := s.currentLocked()
	s.versionsLocked()

	changed := current != nil && current.VersionCode != previous
	return current.Clone(), changed
}

func (s *NotesStore) Diagnostics() LoadReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.report
}

func (s *NotesStore) invalidateLocked() {
	s.current = nil
	s.currentLoaded = false
	s.versions = nil
	s.versionsLoaded = false
}

func (s *NotesStore) currentLocked() *domain.UpdateNotes {
	if s.currentLoaded {
		return s.current
	}

	var notes domain.UpdateNotes
	err := s.readDocument(assets.UpdatesFile, &notes)
	if err == nil {
		err = validateNotes(assets.UpdatesFile, &notes)
	}
	s.record(&s.report.Updates, err)

	if err != nil {
		s.current = domain.DefaultUpdateNotes(s.versionName, s.versionCode)
	} else {
		normalizeNotes(&notes)
		s.current = &notes
	}
	s.currentLoaded = true
	return s.current
}

func (s *NotesStore) versionsLocked() []domain.UpdateNotes {
	if s.versionsLoaded {
		return s.versions
	}

	var doc domain.AllVersions
	err := s.readDocument(assets.AllVersionsFile, &doc)
	if err == nil && doc.Versions == nil {
		err = &DocumentError{Name: assets.AllVersionsFile, Err: errors.New("missing versions array")}
	}
	s.record(&s.report.AllVersions, err)

	if err != nil {
		s.versions = nil
		if current := s.currentLocked(); current != nil {
			s.versions = []domain.UpdateNotes{*current}
		}
		s.versionsLoaded = true
		return s.versions
	}

	versions := make([]domain.UpdateNotes, 0, len(doc.Versions))
	for i := range doc.Versions {
		if verr := validateNotes(assets.AllVersionsFile, &doc.Versions[i]); verr != nil {
			s.log.Warn("skipping entry %d: %v", i, verr)
			s.report.AllVersions.Skipped++
			continue
		}
		normalizeNotes(&doc.Versions[i])
		versions = append(versions, doc.Versions[i])
	}
	sortByVersionCodeDesc(versions)

	s.versions = versions
	s.versionsLoaded = true
	return s.versions
}

func (s *NotesStore) readDocument(name string, out interface{}) error {
	data, err := fs.ReadFile(s.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", name, ErrDocumentMissing)
	}
	if err != nil {
		return &DocumentError{Name: name, Err: err}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &DocumentError{Name: name, Err: err}
	}
	return nil
}

func (s *NotesStore) record(report *DocumentReport, err error) {
	report.LoadedAt = time.Now()
	report.Error = ""
	report.Skipped = 0

	switch {
	case err == nil:
		report.Status = LoadStatusOK
	case errors.Is(err, ErrDocumentMissing):
		report.Status = LoadStatusMissing
		report.Error = err.Error()
		s.log.Warn("%s not found, using fallback", report.Name)
	default:
		report.Status = LoadStatusMalformed
		report.Error = err.Error()
		s.log.Error("%v, using fallback", err)
	}
}

func validateNotes(name string, n *domain.UpdateNotes) error {
	if n.VersionCode <= 0 {
		return &DocumentError{Name: name, Err: fmt.Errorf("invalid versionCode %d", n.VersionCode)}
	}
	if n.CurrentVersion == "" {
		return &DocumentError{Name: name, Err: fmt.Errorf("version %d has no currentVersion", n.VersionCode)}
	}
	return nil
}

func normalizeNotes(n *domain.UpdateNotes) {
	if n.Highlights == nil {
		n.Highlights = []domain.UpdateHighlight{}
	}
	if n.UpcomingFeatures == nil {
		n.UpcomingFeatures = []string{}
	}
	for i := range n.Highlights {
		if n.Highlights[i].Type == "" {
			n.Highlights[i].Type = domain.UpdateTypeNew
		}
	}
}

func sortByVersionCodeDesc(versions []domain.UpdateNotes) {
	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].VersionCode > versions[j].VersionCode
	})
}
