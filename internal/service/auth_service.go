package service

import (
	"context"
	"errors"

	"storefront-service/internal/auth"
	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// AdminStore is the credential store surface the auth service depends on.
type AdminStore interface {
	GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// AuthService handles admin login and bearer-token identity resolution.
type AuthService struct {
	admins AdminStore
	tokens *auth.TokenManager
	logger *zap.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(admins AdminStore, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		admins: admins,
		tokens: tokens,
		logger: util.GetLogger(),
	}
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password both yield ErrInvalidCredentials; a correct password for a
// deactivated admin yields ErrForbidden.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.Admin, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Login")
	defer span.End()

	admin, err := s.admins.GetAdminByEmail(ctx, email)
	if err != nil {
		var nf *store.NotFoundError
		if errors.As(err, &nf) {
			util.AdminLoginsTotal.WithLabelValues("bad_credentials").Inc()
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !auth.CheckPassword(password, admin.HashedPassword) {
		util.AdminLoginsTotal.WithLabelValues("bad_credentials").Inc()
		return "", nil, ErrInvalidCredentials
	}

	if !admin.IsActive {
		util.AdminLoginsTotal.WithLabelValues("inactive").Inc()
		return "", nil, ErrForbidden
	}

	token, err := s.tokens.Issue(admin.Email, admin.ID)
	if err != nil {
		return "", nil, err
	}

	util.AdminLoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info("Admin logged in", zap.String("admin_id", admin.ID))
	return token, admin, nil
}

// ResolveAdmin verifies a bearer token and re-resolves the admin record on
// every call, so a deactivated admin's outstanding tokens stop working on the
// very next request rather than at expiry. Every token failure maps to
// ErrUnauthenticated, including a subject that no longer exists.
func (s *AuthService) ResolveAdmin(ctx context.Context, token string) (*models.Admin, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	admin, err := s.admins.GetAdminByEmail(ctx, claims.Subject)
	if err != nil {
		var nf *store.NotFoundError
		if errors.As(err, &nf) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	if !admin.IsActive {
		return nil, ErrForbidden
	}
	return admin, nil
}
