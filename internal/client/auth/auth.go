// Package auth handles admin login, logout and account creation.
package auth

import (
	"context"
	"net/http"
	"regexp"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"go.uber.org/zap"

	"github.com/atinyakov/siteadmin/internal/client/api"
	"github.com/atinyakov/siteadmin/internal/client/crud"
	"github.com/atinyakov/siteadmin/internal/logger"
)

const (
	loginPath       = "/api/auth/login"
	createAdminPath = "/api/admin/users/create-admin"
)

// Messages shown after auth operations.
const (
	MsgLoginFailed   = "Login failed"
	MsgAdminCreated  = "Admin created successfully!"
	MsgCreateFailed  = "Failed to create admin"
	MsgMissingFields = "Please fill in all required fields"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

// Session is where the issued token lives.
type Session interface {
	SetToken(token string) error
	Clear() error
}

// Service performs auth requests and records the outcome in the session.
type Service struct {
	client  crud.Requester
	session Session
	log     *zap.Logger
}

// New returns a Service.
func New(client crud.Requester, session Session, log *zap.Logger) *Service {
	return &Service{client: client, session: session, log: logger.OrNop(log)}
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Admin is the create-admin payload.
type Admin struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that every field is present and the email is well formed.
func (a Admin) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Required),
		validation.Field(&a.Email, validation.Required, validation.Match(emailPattern).Error("must be a valid email address")),
		validation.Field(&a.Password, validation.Required),
	)
}

// Login exchanges credentials for a token and stores it. On failure nothing
// is stored and the returned message is the server's or MsgLoginFailed.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	creds := Credentials{Email: strings.TrimSpace(email), Password: password}
	if creds.Email == "" || creds.Password == "" {
		err := goerrors.New("email and password are required", goerrors.CategoryValidation)
		return err.Message, err
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := s.client.Do(ctx, http.MethodPost, loginPath, creds, &resp); err != nil {
		s.log.Info("login rejected", zap.String("email", creds.Email), zap.Error(err))
		return api.Message(err, MsgLoginFailed), err
	}
	if resp.Token == "" {
		err := goerrors.New("login response has no token", goerrors.CategoryAuth)
		return MsgLoginFailed, err
	}
	if err := s.session.SetToken(resp.Token); err != nil {
		return MsgLoginFailed, err
	}
	s.log.Info("logged in", zap.String("email", creds.Email))
	return "Logged in", nil
}

// Logout drops the stored token.
func (s *Service) Logout() error {
	return s.session.Clear()
}

// CreateAdmin registers another admin account.
func (s *Service) CreateAdmin(ctx context.Context, a Admin) (string, error) {
	a.Name = strings.TrimSpace(a.Name)
	a.Email = strings.TrimSpace(a.Email)
	if verr := goerrors.ValidateWithOzzo(a.Validate, MsgMissingFields); verr != nil {
		// ozzo reports fields as a map; keep the message stable.
		slices.SortFunc(verr.ValidationErrors, func(x, y goerrors.FieldError) int {
			return strings.Compare(x.Field, y.Field)
		})
		return api.Message(verr, MsgMissingFields), verr
	}

	if err := s.client.Do(ctx, http.MethodPost, createAdminPath, a, nil); err != nil {
		s.log.Warn("create admin failed", zap.String("email", a.Email), zap.Error(err))
		return api.Message(err, MsgCreateFailed), err
	}
	return MsgAdminCreated, nil
}
