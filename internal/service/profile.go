package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/medibridge/backend/internal/security"
	"github.com/medibridge/backend/internal/session"
	"github.com/medibridge/backend/pkg/apperr"
	"github.com/medibridge/backend/pkg/model"
	"go.uber.org/zap"
)

// profileAPI is the slice of the auth backend the profile service consumes.
type profileAPI interface {
	FetchProfile(ctx context.Context, identifier string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, identifier string, profile model.Profile) error
}

// ProfileService exposes the profile editor per session. One editor (and so
// one in-memory draft) exists per session at a time.
type ProfileService struct {
	store  session.Store
	auth   profileAPI
	cipher *security.ProfileCipher
	logger *zap.Logger

	mu      sync.Mutex
	editors map[string]*ProfileEditor
}

// NewProfileService creates a new ProfileService.
func NewProfileService(store session.Store, auth profileAPI, cipher *security.ProfileCipher, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		store:   store,
		auth:    auth,
		cipher:  cipher,
		logger:  logger,
		editors: make(map[string]*ProfileEditor),
	}
}

// editorFor returns the session's editor, creating one over the saved
// profile on first use. The saved copy comes from the session cache when
// present, falling back to the auth backend.
func (s *ProfileService) editorFor(ctx context.Context, sessionID string) (*ProfileEditor, error) {
	s.mu.Lock()
	if editor, ok := s.editors[sessionID]; ok {
		s.mu.Unlock()
		return editor, nil
	}
	s.mu.Unlock()

	saved, err := s.loadSaved(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	editor := NewProfileEditor(*saved)

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another request may have raced us here; keep the first editor so a
	// draft in progress is never discarded.
	if existing, ok := s.editors[sessionID]; ok {
		return existing, nil
	}
	s.editors[sessionID] = editor
	return editor, nil
}

// loadSaved reads the cached profile from the session store, fetching and
// caching it from the auth backend when absent. A garbled cache entry is
// treated as absent, never as a crash.
func (s *ProfileService) loadSaved(ctx context.Context, sessionID string) (*model.Profile, error) {
	roleVal, err := s.store.Get(ctx, sessionID, session.KeyRole)
	if err != nil {
		return nil, err
	}
	role := model.Role(roleVal)
	if !role.Valid() {
		return nil, apperr.ErrNotAuthenticated
	}

	sealed, err := s.store.Get(ctx, sessionID, session.KeyProfile)
	if err != nil {
		return nil, err
	}
	if sealed != "" {
		payload, err := s.cipher.Open(sealed)
		if err == nil {
			var cached model.Profile
			if err = json.Unmarshal([]byte(payload), &cached); err == nil {
				cached.Role = role
				return &cached, nil
			}
		}
		s.logger.Warn("cached profile unreadable, refetching", zap.Error(err))
	}

	identity, err := s.store.Get(ctx, sessionID, session.KeyIdentity)
	if err != nil {
		return nil, err
	}
	if identity == "" {
		return nil, apperr.ErrNotAuthenticated
	}

	fetched, err := s.auth.FetchProfile(ctx, identity)
	if err != nil {
		return nil, err
	}
	fetched.Role = role

	if err := s.cacheProfile(ctx, sessionID, *fetched); err != nil {
		s.logger.Warn("failed to cache fetched profile", zap.Error(err))
	}

	return fetched, nil
}

func (s *ProfileService) cacheProfile(ctx context.Context, sessionID string, profile model.Profile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	sealed, err := s.cipher.Seal(string(payload))
	if err != nil {
		return fmt.Errorf("failed to seal profile: %w", err)
	}
	return s.store.Set(ctx, sessionID, map[string]string{session.KeyProfile: sealed})
}

// View returns the saved profile and the editor mode for rendering.
func (s *ProfileService) View(ctx context.Context, sessionID string) (model.Profile, EditorMode, error) {
	editor, err := s.editorFor(ctx, sessionID)
	if err != nil {
		return model.Profile{}, "", err
	}
	return editor.Saved(), editor.Mode(), nil
}

// Edit enters editing mode for the session's profile.
func (s *ProfileService) Edit(ctx context.Context, sessionID string) error {
	editor, err := s.editorFor(ctx, sessionID)
	if err != nil {
		return err
	}
	return editor.Edit()
}

// Change updates one draft field.
func (s *ProfileService) Change(ctx context.Context, sessionID, field, value string) error {
	editor, err := s.editorFor(ctx, sessionID)
	if err != nil {
		return err
	}
	return editor.Change(field, value)
}

// Cancel discards the draft and restores the saved profile.
func (s *ProfileService) Cancel(ctx context.Context, sessionID string) error {
	editor, err := s.editorFor(ctx, sessionID)
	if err != nil {
		return err
	}
	return editor.Cancel()
}

// Save validates the draft and promotes it. On success the saved copy is
// re-cached in the session store and pushed to the auth backend best-effort:
// when that collaborator is unavailable the local saved copy still stands.
func (s *ProfileService) Save(ctx context.Context, sessionID string) (model.Profile, map[string]string, error) {
	editor, err := s.editorFor(ctx, sessionID)
	if err != nil {
		return model.Profile{}, nil, err
	}

	if fieldErrs := editor.Save(); len(fieldErrs) > 0 {
		return editor.Saved(), fieldErrs, nil
	}

	saved := editor.Saved()
	if err := s.cacheProfile(ctx, sessionID, saved); err != nil {
		s.logger.Warn("failed to cache saved profile", zap.Error(err))
	}

	identity, err := s.store.Get(ctx, sessionID, session.KeyIdentity)
	if err == nil && identity != "" {
		if err := s.auth.UpdateProfile(ctx, identity, saved); err != nil {
			s.logger.Warn("profile persisted locally but not upstream",
				zap.String("identity", identity),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("profile saved", zap.String("role", string(saved.Role)))

	return saved, nil, nil
}

// Forget drops the session's editor, e.g. on logout.
func (s *ProfileService) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.editors, sessionID)
}
