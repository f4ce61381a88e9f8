package service

import (
	"context"
	"errors"
	"testing"

	"github.com/medibridge/backend/internal/security"
	"github.com/medibridge/backend/internal/session"
	"github.com/medibridge/backend/internal/upstream"
	"github.com/medibridge/backend/pkg/apperr"
	"github.com/medibridge/backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockAuthAPI struct {
	mock.Mock
}

func (m *MockAuthAPI) LoginDoctor(ctx context.Context, licenseNumber, password string) (*upstream.DoctorAccount, error) {
	args := m.Called(ctx, licenseNumber, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*upstream.DoctorAccount), args.Error(1)
}

func (m *MockAuthAPI) LoginUser(ctx context.Context, role model.Role, contact, password string) (*upstream.UserAccount, error) {
	args := m.Called(ctx, role, contact, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*upstream.UserAccount), args.Error(1)
}

func (m *MockAuthAPI) Register(ctx context.Context, profile model.Profile) (string, error) {
	args := m.Called(ctx, profile)
	return args.String(0), args.Error(1)
}

func testCipher(t *testing.T) *security.ProfileCipher {
	t.Helper()
	cipher, err := security.NewProfileCipher([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	return cipher
}

func newTestSessionService(t *testing.T, auth *MockAuthAPI) (*SessionService, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	return NewSessionService(store, auth, testCipher(t), zap.NewNop()), store
}

func TestSessionService_DoctorLogin(t *testing.T) {
	auth := new(MockAuthAPI)
	auth.On("LoginDoctor", mock.Anything, "LIC-42", "secret").Return(&upstream.DoctorAccount{
		ID:     "doc-object-id",
		Name:   "Dr. Kovacs",
		Mobile: "1234567890",
	}, nil)

	service, store := newTestSessionService(t, auth)

	sess, err := service.Login(context.Background(), "s1", model.RoleDoctor, Credentials{
		LicenseNumber: "LIC-42",
		Password:      "secret",
	})
	require.NoError(t, err)

	assert.Equal(t, model.RoleDoctor, sess.Role)
	assert.Equal(t, "doc-object-id", sess.Identity)
	assert.Equal(t, "doc-object-id", sess.ProviderID)

	role, err := store.Get(context.Background(), "s1", session.KeyRole)
	require.NoError(t, err)
	assert.Equal(t, "doctor", role)

	providerID, err := store.Get(context.Background(), "s1", session.KeyProviderID)
	require.NoError(t, err)
	assert.Equal(t, "doc-object-id", providerID)
}

func TestSessionService_DoctorLoginWithoutProviderIDFails(t *testing.T) {
	auth := new(MockAuthAPI)
	auth.On("LoginDoctor", mock.Anything, "LIC-42", "secret").Return(&upstream.DoctorAccount{
		Name: "Dr. Kovacs",
	}, nil)

	service, store := newTestSessionService(t, auth)

	_, err := service.Login(context.Background(), "s1", model.RoleDoctor, Credentials{
		LicenseNumber: "LIC-42",
		Password:      "secret",
	})
	assert.ErrorIs(t, err, apperr.ErrAuth)

	// No session may remain behind a failed login
	role, _ := store.Get(context.Background(), "s1", session.KeyRole)
	assert.Empty(t, role)
}

func TestSessionService_PatientLoginUsesBackendIdentity(t *testing.T) {
	auth := new(MockAuthAPI)
	auth.On("LoginUser", mock.Anything, model.RolePatient, "1234567890", "pw").Return(&upstream.UserAccount{
		ID:   "user-1",
		Name: "Anna",
	}, nil)

	service, _ := newTestSessionService(t, auth)

	sess, err := service.Login(context.Background(), "s1", model.RolePatient, Credentials{
		Contact:  "1234567890",
		Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", sess.Identity)
	assert.Empty(t, sess.ProviderID)
}

func TestSessionService_LoginFallsBackToGeneratedIdentity(t *testing.T) {
	auth := new(MockAuthAPI)
	auth.On("LoginUser", mock.Anything, model.RolePharmacy, "1234567890", "pw").Return(&upstream.UserAccount{}, nil)

	service, _ := newTestSessionService(t, auth)

	sess, err := service.Login(context.Background(), "s1", model.RolePharmacy, Credentials{
		Contact:  "1234567890",
		Password: "pw",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^pharmacy_\d+$`, sess.Identity)
}

func TestSessionService_LoginReplacesStaleSession(t *testing.T) {
	auth := new(MockAuthAPI)
	auth.On("LoginUser", mock.Anything, model.RolePatient, "1234567890", "pw").Return(&upstream.UserAccount{
		ID: "patient-1",
	}, nil)

	service, store := newTestSessionService(t, auth)

	// A previous doctor session left a provider id behind
	require.NoError(t, store.Set(context.Background(), "s1", map[string]string{
		session.KeyRole:       "doctor",
		session.KeyIdentity:   "doc-1",
		session.KeyProviderID: "doc-1",
	}))

	_, err := service.Login(context.Background(), "s1", model.RolePatient, Credentials{
		Contact:  "1234567890",
		Password: "pw",
	})
	require.NoError(t, err)

	// The stale provider id must be gone, never merged into the new session
	providerID, err := store.Get(context.Background(), "s1", session.KeyProviderID)
	require.NoError(t, err)
	assert.Empty(t, providerID)
}

func TestSessionService_LoginRejectedCredentials(t *testing.T) {
	auth := new(MockAuthAPI)
	auth.On("LoginUser", mock.Anything, model.RolePatient, "1234567890", "wrong").Return(nil,
		&apperr.ServerRejectedError{Op: "auth.LoginUser", Status: 401, Message: "Invalid contact or password"})

	service, store := newTestSessionService(t, auth)

	_, err := service.Login(context.Background(), "s1", model.RolePatient, Credentials{
		Contact:  "1234567890",
		Password: "wrong",
	})
	require.ErrorIs(t, err, apperr.ErrAuth)
	assert.Contains(t, err.Error(), "Invalid contact or password")

	role, _ := store.Get(context.Background(), "s1", session.KeyRole)
	assert.Empty(t, role)
}

func TestSessionService_LoginNetworkFailureIsNotAuthError(t *testing.T) {
	auth := new(MockAuthAPI)
	netErr := &apperr.NetworkUnreachableError{Op: "auth.LoginUser", Err: errors.New("connection refused")}
	auth.On("LoginUser", mock.Anything, model.RolePatient, "1234567890", "pw").Return(nil, netErr)

	service, _ := newTestSessionService(t, auth)

	_, err := service.Login(context.Background(), "s1", model.RolePatient, Credentials{
		Contact:  "1234567890",
		Password: "pw",
	})
	assert.NotErrorIs(t, err, apperr.ErrAuth)
	assert.True(t, apperr.IsNetworkUnreachable(err))
}

func TestSessionService_LoginUnknownRole(t *testing.T) {
	service, _ := newTestSessionService(t, new(MockAuthAPI))

	_, err := service.Login(context.Background(), "s1", "admin", Credentials{})
	assert.ErrorIs(t, err, apperr.ErrAuth)
}

func TestSessionService_RegisterValidatesFirst(t *testing.T) {
	auth := new(MockAuthAPI)
	service, _ := newTestSessionService(t, auth)

	_, err := service.Register(context.Background(), "s1", model.Profile{
		Role:   model.RolePatient,
		Name:   "",
		Mobile: "123",
	})
	ve, ok := apperr.IsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "name")
	assert.Contains(t, ve.Fields, "mobile")

	auth.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestSessionService_RegisterOpensSession(t *testing.T) {
	auth := new(MockAuthAPI)
	profile := validPatientProfile()
	auth.On("Register", mock.Anything, profile).Return("patient-9", nil)

	service, store := newTestSessionService(t, auth)

	sess, err := service.Register(context.Background(), "s1", profile)
	require.NoError(t, err)
	assert.Equal(t, model.RolePatient, sess.Role)
	assert.Equal(t, "patient-9", sess.Identity)

	identity, err := store.Get(context.Background(), "s1", session.KeyIdentity)
	require.NoError(t, err)
	assert.Equal(t, "patient-9", identity)
}

func TestSessionService_LoadAndLogout(t *testing.T) {
	auth := new(MockAuthAPI)
	auth.On("LoginUser", mock.Anything, model.RolePatient, "1234567890", "pw").Return(&upstream.UserAccount{
		ID: "patient-1",
	}, nil)

	service, _ := newTestSessionService(t, auth)

	_, err := service.Login(context.Background(), "s1", model.RolePatient, Credentials{
		Contact:  "1234567890",
		Password: "pw",
	})
	require.NoError(t, err)

	sess, err := service.Load(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, model.RolePatient, sess.Role)

	require.NoError(t, service.Logout(context.Background(), "s1"))

	sess, err = service.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestSessionService_LoadUnknownSessionIsNil(t *testing.T) {
	service, _ := newTestSessionService(t, new(MockAuthAPI))

	sess, err := service.Load(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Nil(t, sess)
}
