package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/care-portal-api/internal/cache"
	"github.com/jwalitptl/care-portal-api/internal/model"
	"github.com/jwalitptl/care-portal-api/internal/repository"
	"github.com/jwalitptl/care-portal-api/internal/service/audit"
	"github.com/jwalitptl/care-portal-api/pkg/auth"
	apperrors "github.com/jwalitptl/care-portal-api/pkg/errors"
	"github.com/jwalitptl/care-portal-api/pkg/logger"
	"github.com/jwalitptl/care-portal-api/pkg/security"
	"github.com/jwalitptl/care-portal-api/pkg/validator"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// AuthServicer is used by the auth handler and middleware
type AuthServicer interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.Profile, error)
	Login(ctx context.Context, email, password string) (*model.TokenResponse, error)
	SignOut(ctx context.Context, user *model.AuthUser) error
	EmailExists(ctx context.Context, email string) (bool, error)
	CurrentUser(ctx context.Context, token string) (*model.AuthUser, error)
	CurrentProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	Authenticate(ctx context.Context, token string) (*model.Session, error)
}

type Service struct {
	profiles  repository.ProfileRepository
	jwtSvc    auth.JWTService
	revoked   auth.RevocationStore
	hasher    security.PasswordHasher
	cache     cache.ProfileCache
	auditor   *audit.Service
	validator validator.Validator
	logger    *logger.Logger
	now       func() time.Time
}

func NewService(profiles repository.ProfileRepository, jwtSvc auth.JWTService, revoked auth.RevocationStore,
	hasher security.PasswordHasher, profileCache cache.ProfileCache, auditor *audit.Service, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		profiles:  profiles,
		jwtSvc:    jwtSvc,
		revoked:   revoked,
		hasher:    hasher,
		cache:     profileCache,
		auditor:   auditor,
		validator: validator.New(),
		logger:    log,
		now:       time.Now,
	}
}

// Register creates a patient profile on the basic plan
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.Profile, error) {
	if req == nil {
		return nil, apperrors.Validation("registration details are required")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exists, err := s.profiles.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Infrastructure("check email", err)
	}
	if exists {
		return nil, apperrors.State("email already registered")
	}

	hash, err := s.hasher.Hash(req.Password)
	switch {
	case errors.Is(err, security.ErrPasswordTooShort):
		return nil, apperrors.Validationf("password must be at least %d characters", security.MinPasswordLen)
	case errors.Is(err, security.ErrPasswordTooLong):
		return nil, apperrors.Validationf("password must be at most %d bytes", security.MaxPasswordLen)
	case err != nil:
		return nil, apperrors.Infrastructure("hash password", err)
	}

	profile := &model.Profile{
		Base:         model.Base{ID: uuid.New()},
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RolePatient,
		PlanTier:     model.DefaultPlanTier,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		DisplayName:  strings.TrimSpace(req.DisplayName),
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.State("email already registered")
		}
		return nil, apperrors.Infrastructure("create profile", err)
	}

	if err := s.auditor.Log(ctx, profile.ID, model.AuditActionRegister, model.AuditEntityProfile, profile.ID, nil); err != nil {
		s.logger.Warn("Failed to audit registration", "profile_id", profile.ID)
	}
	return profile, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	profile, err := s.profiles.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthorized(ErrInvalidCredentials)
	}
	if err != nil {
		return nil, apperrors.Infrastructure("load profile", err)
	}

	if err := s.hasher.Compare(profile.PasswordHash, password); err != nil {
		if !errors.Is(err, security.ErrPasswordMismatch) {
			s.logger.Error(err, "Stored password hash is unreadable", "profile_id", profile.ID.String())
		}
		return nil, apperrors.Unauthorized(ErrInvalidCredentials)
	}

	token, _, err := s.jwtSvc.GenerateAccessToken(profile)
	if err != nil {
		return nil, apperrors.Infrastructure("issue token", err)
	}
	s.cache.Set(profile)

	if err := s.auditor.Log(ctx, profile.ID, model.AuditActionLogin, model.AuditEntityProfile, profile.ID, nil); err != nil {
		s.logger.Warn("Failed to audit login", "profile_id", profile.ID)
	}

	return &model.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.jwtSvc.Expiry().Seconds()),
		Profile:     profile,
	}, nil
}

// SignOut revokes the caller's token for the rest of its lifetime
func (s *Service) SignOut(ctx context.Context, user *model.AuthUser) error {
	if user == nil || user.TokenID == "" {
		return apperrors.Unauthorized(auth.ErrInvalidToken)
	}
	if err := s.revoked.Revoke(ctx, user.TokenID, user.ExpiresAt.Sub(s.now())); err != nil {
		return apperrors.Infrastructure("revoke token", err)
	}
	s.cache.Invalidate(user.ID)

	if err := s.auditor.Log(ctx, user.ID, model.AuditActionLogout, model.AuditEntityProfile, user.ID, nil); err != nil {
		s.logger.Warn("Failed to audit sign out", "profile_id", user.ID)
	}
	return nil
}

func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, apperrors.Validation("email is required")
	}
	exists, err := s.profiles.EmailExists(ctx, email)
	if err != nil {
		return false, apperrors.Infrastructure("check email", err)
	}
	return exists, nil
}

// CurrentUser validates the bearer token and rejects revoked ones
func (s *Service) CurrentUser(ctx context.Context, token string) (*model.AuthUser, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperrors.Infrastructure("check token revocation", err)
	}
	if revoked {
		return nil, apperrors.Unauthorized(ErrTokenRevoked)
	}

	user := &model.AuthUser{
		ID:      claims.UserID,
		Email:   claims.Email,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		user.ExpiresAt = claims.ExpiresAt.Time
	}
	return user, nil
}

// CurrentProfile returns the profile for id, served from cache when present
func (s *Service) CurrentProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	if profile, ok := s.cache.Get(id); ok {
		return profile, nil
	}
	profile, err := s.profiles.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("profile", err)
	}
	if err != nil {
		return nil, apperrors.Infrastructure(fmt.Sprintf("load profile %s", id), err)
	}
	s.cache.Set(profile)
	return profile, nil
}

// Authenticate builds the request session. A valid token whose profile row
// has not been created yet yields a session with a nil profile.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.Session, error) {
	user, err := s.CurrentUser(ctx, token)
	if err != nil {
		return nil, err
	}
	profile, err := s.CurrentProfile(ctx, user.ID)
	if apperrors.Is(err, apperrors.KindNotFound) {
		return &model.Session{User: user}, nil
	}
	if err != nil {
		return nil, err
	}
	return &model.Session{User: user, Profile: profile}, nil
}
