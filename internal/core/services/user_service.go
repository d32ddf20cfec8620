package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerly/ledgerly_backend/internal/apperrors"
	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
	portsrepo "github.com/ledgerly/ledgerly_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerly/ledgerly_backend/internal/core/ports/services"
	"github.com/ledgerly/ledgerly_backend/internal/dto"
	"github.com/ledgerly/ledgerly_backend/internal/utils"
)

type userService struct {
	BaseService
	orgRepo  portsrepo.OrgRepositoryFacade
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates the user service.
func NewUserService(orgRepo portsrepo.OrgRepositoryFacade, userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{orgRepo: orgRepo, userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// RegisterOrg creates a new org with its first admin user in one transaction.
func (s *userService) RegisterOrg(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	if _, err := s.userRepo.FindUserByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.NewConflictError("email " + req.Email + " is already registered")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	org := domain.Org{
		OrgID:     uuid.NewString(),
		Name:      req.OrgName,
		CreatedAt: now,
	}
	user := domain.User{
		UserID:       uuid.NewString(),
		OrgID:        org.OrgID,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: &passwordHash,
		Role:         domain.RoleAdmin,
		AuthProvider: domain.ProviderLocal,
		IsVerified:   false,
		CreatedAt:    now,
	}

	tx, err := s.orgRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.orgRepo.Rollback(ctx, tx)

	if err := s.orgRepo.SaveOrg(ctx, tx, org); err != nil {
		return nil, err
	}
	if err := s.userRepo.SaveUser(ctx, tx, user); err != nil {
		return nil, err
	}
	if err := s.orgRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "registered new org", slog.String("org_id", org.OrgID), slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

func (s *userService) ListOrgUsers(ctx context.Context, orgID string) ([]domain.User, error) {
	return s.userRepo.FindUsersByOrg(ctx, orgID)
}

// AuthenticateUser verifies email and password credentials. Users provisioned
// through an external provider have no password and cannot log in locally.
func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if user.PasswordHash == nil || !utils.CheckPasswordHash(password, *user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// FindOrCreateGoogleUser resolves a verified Google identity. A first sign-in
// provisions a fresh org with the Google user as its admin; a returning local
// account with the same email is linked by provider ID lookup falling back to
// email.
func (s *userService) FindOrCreateGoogleUser(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error) {
	if info.Email == "" {
		return nil, apperrors.NewValidationFailedError("google account has no email")
	}
	if !info.VerifiedEmail {
		return nil, apperrors.NewAuthError("google account email is not verified")
	}

	user, err := s.userRepo.FindUserByProviderID(ctx, domain.ProviderGoogle, info.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	user, err = s.userRepo.FindUserByEmail(ctx, info.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	orgName := info.Name
	if orgName == "" {
		orgName = info.Email
	}
	org := domain.Org{
		OrgID:     uuid.NewString(),
		Name:      orgName,
		CreatedAt: now,
	}
	providerID := info.ID
	newUser := domain.User{
		UserID:         uuid.NewString(),
		OrgID:          org.OrgID,
		Email:          info.Email,
		Name:           info.Name,
		Role:           domain.RoleAdmin,
		AuthProvider:   domain.ProviderGoogle,
		ProviderUserID: &providerID,
		IsVerified:     true,
		CreatedAt:      now,
	}

	tx, err := s.orgRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.orgRepo.Rollback(ctx, tx)

	if err := s.orgRepo.SaveOrg(ctx, tx, org); err != nil {
		return nil, err
	}
	if err := s.userRepo.SaveUser(ctx, tx, newUser); err != nil {
		return nil, err
	}
	if err := s.orgRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "provisioned org for google sign-in", slog.String("org_id", org.OrgID), slog.String("user_id", newUser.UserID))
	return &newUser, nil
}

func (s *userService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	return s.userRepo.UpdateRefreshToken(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
}

func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	return s.userRepo.ClearRefreshToken(ctx, userID)
}
