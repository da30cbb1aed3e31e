package service

import (
	"trainvoc-updates/internal/domain"
	"trainvoc-updates/internal/logging"
	"trainvoc-updates/internal/websocket"
)

type Broadcaster interface {
	Broadcast(message *websocket.Message) error
}

// PublishService reloads the notes documents and pushes the new current notes
// to connected clients whenever the published version changes.
type PublishService struct {
	store       *NotesStore
	broadcaster Broadcaster
	log         *logging.Logger
}

func NewPublishService(store *NotesStore, broadcaster Broadcaster, log *logging.Logger) *PublishService {
	if log == nil {
		log = logging.Discard()
	}
	return &PublishService{
		store:       store,
		broadcaster: broadcaster,
		log:         log.With("publish"),
	}
}

func (s *PublishService) Reload() (*domain.UpdateNotes, bool, error) {
	notes, changed := s.store.Reload()
	if !changed {
		s.log.Debug("notes reloaded, version %d unchanged", notes.VersionCode)
		return notes, false, nil
	}

	s.log.Info("publishing notes for %s (%d)", notes.CurrentVersion, notes.VersionCode)
	if err := s.notifyUpdate(notes); err != nil {
		return notes, true, err
	}
	return notes, true, nil
}

func (s *PublishService) notifyUpdate(notes *domain.UpdateNotes) error {
	if s.broadcaster == nil {
		return nil
	}

	msg, err := websocket.NewMessage(websocket.TypeUpdateNotes, &websocket.UpdateNotesPayload{
		Notes: notes,
	})
	if err != nil {
		return err
	}

	return s.broadcaster.Broadcast(msg)
}
