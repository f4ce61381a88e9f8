package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/medibridge/backend/internal/security"
	"github.com/medibridge/backend/internal/session"
	"github.com/medibridge/backend/internal/upstream"
	"github.com/medibridge/backend/pkg/apperr"
	"github.com/medibridge/backend/pkg/model"
	"go.uber.org/zap"
)

// authAPI is the slice of the auth backend the session service consumes.
type authAPI interface {
	LoginDoctor(ctx context.Context, licenseNumber, password string) (*upstream.DoctorAccount, error)
	LoginUser(ctx context.Context, role model.Role, contact, password string) (*upstream.UserAccount, error)
	Register(ctx context.Context, profile model.Profile) (string, error)
}

// Credentials carries the login form fields. Doctors authenticate by license
// number, the other roles by contact number.
type Credentials struct {
	LicenseNumber string `json:"license_number"`
	Contact       string `json:"contact"`
	Password      string `json:"password"`
}

// SessionService owns the login/logout lifecycle and the role-gated session
// state persisted in the session store.
type SessionService struct {
	store  session.Store
	auth   authAPI
	cipher *security.ProfileCipher
	logger *zap.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(store session.Store, auth authAPI, cipher *security.ProfileCipher, logger *zap.Logger) *SessionService {
	return &SessionService{
		store:  store,
		auth:   auth,
		cipher: cipher,
		logger: logger,
	}
}

// fallbackIdentity builds the client-side identity used when the backend
// issues none.
func fallbackIdentity(role model.Role) string {
	return fmt.Sprintf("%s_%d", role, time.Now().UnixMilli())
}

// Login authenticates against the auth backend and, on success, replaces the
// whole session: any stale state from a previous account is cleared first,
// never merged. A failed login leaves no session state behind.
func (s *SessionService) Login(ctx context.Context, sessionID string, role model.Role, creds Credentials) (*model.Session, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperr.ErrAuth, role)
	}

	var (
		sess    model.Session
		profile model.Profile
	)

	switch role {
	case model.RoleDoctor:
		account, err := s.auth.LoginDoctor(ctx, creds.LicenseNumber, creds.Password)
		if err != nil {
			return nil, classifyLoginError(err)
		}
		if account == nil || account.ID == "" {
			return nil, fmt.Errorf("%w: no provider identifier issued", apperr.ErrAuth)
		}
		sess = model.Session{Role: role, Identity: account.ID, ProviderID: account.ID}
		profile = model.Profile{
			Role:       role,
			Name:       account.Name,
			Mobile:     account.Mobile,
			Gender:     account.Gender,
			Experience: account.Experience,
		}
	default:
		account, err := s.auth.LoginUser(ctx, role, creds.Contact, creds.Password)
		if err != nil {
			return nil, classifyLoginError(err)
		}
		identity := fallbackIdentity(role)
		if account != nil && account.ID != "" {
			identity = account.ID
		}
		sess = model.Session{Role: role, Identity: identity}
		if account != nil {
			profile = model.Profile{
				Role:     role,
				Name:     account.Name,
				Mobile:   account.Mobile,
				Age:      account.Age,
				Gender:   account.Gender,
				Location: account.Location,
			}
		}
	}

	if err := s.persist(ctx, sessionID, sess, profile); err != nil {
		return nil, err
	}

	s.logger.Info("login succeeded",
		zap.String("role", string(sess.Role)),
		zap.String("identity", sess.Identity),
	)

	return &sess, nil
}

// Register creates a new account through the auth backend and opens a
// session for it. The profile must pass full validation first.
func (s *SessionService) Register(ctx context.Context, sessionID string, profile model.Profile) (*model.Session, error) {
	if !profile.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperr.ErrAuth, profile.Role)
	}
	if errs := ValidateProfile(profile); len(errs) > 0 {
		return nil, apperr.NewValidation(errs)
	}

	identifier, err := s.auth.Register(ctx, profile)
	if err != nil {
		return nil, err
	}
	if identifier == "" {
		identifier = fallbackIdentity(profile.Role)
	}

	sess := model.Session{Role: profile.Role, Identity: identifier}
	if profile.Role == model.RoleDoctor {
		sess.ProviderID = identifier
	}

	if err := s.persist(ctx, sessionID, sess, profile); err != nil {
		return nil, err
	}

	s.logger.Info("registration succeeded",
		zap.String("role", string(sess.Role)),
		zap.String("identity", sess.Identity),
	)

	return &sess, nil
}

// persist clears any prior session and writes the new one atomically from
// the caller's point of view.
func (s *SessionService) persist(ctx context.Context, sessionID string, sess model.Session, profile model.Profile) error {
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear previous session: %w", err)
	}

	values := map[string]string{
		session.KeyRole:     string(sess.Role),
		session.KeyIdentity: sess.Identity,
	}
	if sess.ProviderID != "" {
		values[session.KeyProviderID] = sess.ProviderID
	}

	if profile.Name != "" || profile.Mobile != "" {
		payload, err := json.Marshal(profile)
		if err != nil {
			return fmt.Errorf("failed to encode profile: %w", err)
		}
		sealed, err := s.cipher.Seal(string(payload))
		if err != nil {
			return fmt.Errorf("failed to seal profile: %w", err)
		}
		values[session.KeyProfile] = sealed
	}

	if err := s.store.Set(ctx, sessionID, values); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Load reads the session. A missing or unrecognizable role means logged out,
// reported as a nil session rather than an error.
func (s *SessionService) Load(ctx context.Context, sessionID string) (*model.Session, error) {
	roleVal, err := s.store.Get(ctx, sessionID, session.KeyRole)
	if err != nil {
		return nil, err
	}

	role := model.Role(roleVal)
	if !role.Valid() {
		return nil, nil
	}

	identity, err := s.store.Get(ctx, sessionID, session.KeyIdentity)
	if err != nil {
		return nil, err
	}
	providerID, err := s.store.Get(ctx, sessionID, session.KeyProviderID)
	if err != nil {
		return nil, err
	}

	return &model.Session{Role: role, Identity: identity, ProviderID: providerID}, nil
}

// Logout removes every persisted session key.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.logger.Info("session cleared")
	return nil
}

// classifyLoginError maps an upstream rejection to the auth taxonomy while
// leaving connectivity failures intact.
func classifyLoginError(err error) error {
	if rej, ok := apperr.IsServerRejected(err); ok {
		msg := rej.Message
		if msg == "" {
			msg = "invalid credentials"
		}
		return fmt.Errorf("%w: %s", apperr.ErrAuth, msg)
	}
	return err
}
