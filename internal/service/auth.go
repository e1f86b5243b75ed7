// Package service provides the content backend's business logic,
// delegating persistence to repositories.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/siteadmin/internal/models"
	"github.com/atinyakov/siteadmin/internal/repository"
)

// AuthRepository defines the persistence operations
// required by the authentication service.
type AuthRepository interface {
	CreateAdmin(ctx context.Context, a models.Admin) error
	GetAdminByEmail(ctx context.Context, email string) (models.Admin, error)
	CountAdmins(ctx context.Context) (int, error)
	SaveToken(ctx context.Context, t models.Token) error
	GetToken(ctx context.Context, value string) (models.Token, error)
	PurgeTokens(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuthService issues and checks bearer tokens and manages admin accounts.
type AuthService struct {
	repo AuthRepository
	ttl  time.Duration
	now  func() time.Time
}

// NewAuthService constructs an AuthService whose tokens live for ttl.
func NewAuthService(repo AuthRepository, ttl time.Duration) *AuthService {
	return &AuthService{repo: repo, ttl: ttl, now: time.Now}
}

func errLoginFailed() error {
	return goerrors.New("Login failed", goerrors.CategoryAuth)
}

// Login checks the credentials and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	admin, err := s.repo.GetAdminByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrNotFound) {
		return "", errLoginFailed()
	}
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "lookup admin")
	}
	if err := bcrypt.CompareHashAndPassword(admin.PasswordHash, []byte(password)); err != nil {
		return "", errLoginFailed()
	}

	token := models.Token{Value: uuid.NewString(), AdminID: admin.ID, CreatedAt: s.now()}
	if err := s.repo.SaveToken(ctx, token); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "save token")
	}
	return token.Value, nil
}

// Authenticate returns the admin id a valid, unexpired token belongs to.
func (s *AuthService) Authenticate(ctx context.Context, value string) (string, error) {
	if value == "" {
		return "", goerrors.New("missing token", goerrors.CategoryAuth)
	}
	token, err := s.repo.GetToken(ctx, value)
	if errors.Is(err, repository.ErrNotFound) {
		return "", goerrors.New("invalid token", goerrors.CategoryAuth)
	}
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "lookup token")
	}
	if s.ttl > 0 && s.now().Sub(token.CreatedAt) > s.ttl {
		return "", goerrors.New("token expired", goerrors.CategoryAuth)
	}
	return token.AdminID, nil
}

// CreateAdmin validates the fields, hashes the password and stores the admin.
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, password string) (models.Admin, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if err := requireFields(
		field{"name", name},
		field{"email", email},
		field{"password", password},
	); err != nil {
		return models.Admin{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Admin{}, goerrors.Wrap(err, goerrors.CategoryInternal, "hash password")
	}
	admin := models.Admin{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	err = s.repo.CreateAdmin(ctx, admin)
	if errors.Is(err, repository.ErrConflict) {
		return models.Admin{}, goerrors.New("Admin already exists", goerrors.CategoryConflict)
	}
	if err != nil {
		return models.Admin{}, goerrors.Wrap(err, goerrors.CategoryInternal, "create admin")
	}
	return admin, nil
}

// EnsureAdmin creates the bootstrap admin unless its email is already taken.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	_, err := s.repo.GetAdminByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	_, err = s.CreateAdmin(ctx, "Administrator", email, password)
	return err
}

// CountAdmins returns the number of admin accounts.
func (s *AuthService) CountAdmins(ctx context.Context) (int, error) {
	return s.repo.CountAdmins(ctx)
}

// PurgeExpired deletes tokens older than the token lifetime. Tokens never
// expire when the lifetime is not positive, so nothing is deleted.
func (s *AuthService) PurgeExpired(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	return s.repo.PurgeTokens(ctx, s.now().Add(-s.ttl))
}

type field struct {
	name  string
	value any
}

// requireFields reports every blank field, in argument order.
func requireFields(fields ...field) error {
	var errs []goerrors.FieldError
	for _, f := range fields {
		v := f.value
		if s, ok := v.(string); ok {
			v = strings.TrimSpace(s)
		}
		if err := validation.Validate(v, validation.Required); err != nil {
			errs = append(errs, goerrors.FieldError{Field: f.name, Message: err.Error()})
		}
	}
	if len(errs) > 0 {
		return goerrors.NewValidation("Please fill in all required fields", errs...)
	}
	return nil
}
