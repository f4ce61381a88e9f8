package upstream

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/medibridge/backend/pkg/model"
	"go.uber.org/zap"
)

// AuthClient talks to the auth/user backend for login, registration and
// profile reads.
type AuthClient struct {
	baseClient
}

// NewAuthClient creates a client against the auth backend base URL.
func NewAuthClient(baseURL string, timeout time.Duration, logger *zap.Logger) *AuthClient {
	return &AuthClient{baseClient: newBaseClient(baseURL, timeout, logger)}
}

// DoctorAccount is the auth backend's doctor record. The backend issues the
// _id used as provider identifier for all doctor-scoped queries.
type DoctorAccount struct {
	ID            string `json:"_id"`
	Name          string `json:"name"`
	Experience    string `json:"experience"`
	Gender        string `json:"gender"`
	Mobile        string `json:"mobile"`
	LicenseNumber string `json:"licenseNumber"`
}

// UserAccount is the auth backend's record for the non-doctor roles.
type UserAccount struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Age      string `json:"age"`
	Gender   string `json:"gender"`
	Location string `json:"location"`
	Mobile   string `json:"mobile"`
}

type doctorLoginRequest struct {
	LicenseNumber string `json:"licenseNumber"`
	Password      string `json:"password"`
}

type doctorLoginResponse struct {
	Doctor *DoctorAccount `json:"doctor"`
}

// LoginDoctor authenticates a doctor by license number.
func (c *AuthClient) LoginDoctor(ctx context.Context, licenseNumber, password string) (*DoctorAccount, error) {
	var resp doctorLoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/doctor-login", nil,
		doctorLoginRequest{LicenseNumber: licenseNumber, Password: password},
		&resp, "auth.LoginDoctor")
	if err != nil {
		return nil, err
	}
	return resp.Doctor, nil
}

type userLoginRequest struct {
	Role     model.Role `json:"role"`
	Contact  string     `json:"contact"`
	Password string     `json:"password"`
}

type userLoginResponse struct {
	User *UserAccount `json:"user"`
}

// LoginUser authenticates a patient, pharmacy or hospital account by contact
// number.
func (c *AuthClient) LoginUser(ctx context.Context, role model.Role, contact, password string) (*UserAccount, error) {
	var resp userLoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/login", nil,
		userLoginRequest{Role: role, Contact: contact, Password: password},
		&resp, "auth.LoginUser")
	if err != nil {
		return nil, err
	}
	return resp.User, nil
}

type registerResponse struct {
	Identifier string `json:"identifier"`
}

// Register creates a new account and returns the server-issued identifier.
func (c *AuthClient) Register(ctx context.Context, profile model.Profile) (string, error) {
	var resp registerResponse
	err := c.doJSON(ctx, http.MethodPost, "/register", nil, profile, &resp, "auth.Register")
	if err != nil {
		return "", err
	}
	return resp.Identifier, nil
}

// FetchProfile reads the stored profile for an identifier.
func (c *AuthClient) FetchProfile(ctx context.Context, identifier string) (*model.Profile, error) {
	var profile model.Profile
	err := c.doJSON(ctx, http.MethodGet, "/profile/"+url.PathEscape(identifier), nil, nil, &profile, "auth.FetchProfile")
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile persists a saved profile for an identifier. The caller keeps
// its local copy even when this fails; there is no distributed-consistency
// guarantee with the auth backend.
func (c *AuthClient) UpdateProfile(ctx context.Context, identifier string, profile model.Profile) error {
	return c.doJSON(ctx, http.MethodPut, "/profile/"+url.PathEscape(identifier), nil, profile, nil, "auth.UpdateProfile")
}
