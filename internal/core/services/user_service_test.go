package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerly/ledgerly_backend/internal/apperrors"
	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
	portssvc "github.com/ledgerly/ledgerly_backend/internal/core/ports/services"
	"github.com/ledgerly/ledgerly_backend/internal/core/services"
	"github.com/ledgerly/ledgerly_backend/internal/dto"
	"github.com/ledgerly/ledgerly_backend/internal/utils"
)

// MockOrgRepository is a mock type for the OrgRepositoryFacade interface
type MockOrgRepository struct {
	mock.Mock
}

func (m *MockOrgRepository) FindOrgByID(ctx context.Context, orgID string) (*domain.Org, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Org), args.Error(1)
}

func (m *MockOrgRepository) SaveOrg(ctx context.Context, tx pgx.Tx, org domain.Org) error {
	args := m.Called(ctx, tx, org)
	return args.Error(0)
}

func (m *MockOrgRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockOrgRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockOrgRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByProviderID(ctx context.Context, provider string, providerUserID string) (*domain.User, error) {
	args := m.Called(ctx, provider, providerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsersByOrg(ctx context.Context, orgID string) ([]domain.User, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, tx pgx.Tx, user domain.User) error {
	args := m.Called(ctx, tx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiryTime time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, expiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Test Suite Setup ---

type UserServiceTestSuite struct {
	suite.Suite
	mockOrgRepo  *MockOrgRepository
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockOrgRepo = new(MockOrgRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockOrgRepo, suite.mockUserRepo)
}

// --- Test Cases ---

func (suite *UserServiceTestSuite) TestRegisterOrg_Success() {
	ctx := context.Background()
	req := dto.RegisterRequest{
		OrgName:  "Sharma & Associates",
		Email:    "admin@sharma.example",
		Name:     "R Sharma",
		Password: "hunter2hunter2",
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockOrgRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockOrgRepo.On("SaveOrg", ctx, nil, mock.MatchedBy(func(o domain.Org) bool {
		return o.Name == req.OrgName && o.OrgID != ""
	})).Return(nil).Once()
	suite.mockUserRepo.On("SaveUser", ctx, nil, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == req.Email &&
			u.Role == domain.RoleAdmin &&
			u.AuthProvider == domain.ProviderLocal &&
			u.PasswordHash != nil && *u.PasswordHash != req.Password
	})).Return(nil).Once()
	suite.mockOrgRepo.On("Commit", ctx, nil).Return(nil).Once()
	suite.mockOrgRepo.On("Rollback", ctx, nil).Return(nil).Once()

	user, err := suite.service.RegisterOrg(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.Equal(req.Email, user.Email)
	suite.Equal(domain.RoleAdmin, user.Role)
	suite.NotEmpty(user.OrgID)
	suite.mockOrgRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterOrg_DuplicateEmail() {
	ctx := context.Background()
	req := dto.RegisterRequest{
		OrgName:  "Sharma & Associates",
		Email:    "admin@sharma.example",
		Password: "hunter2hunter2",
	}
	existing := &domain.User{UserID: uuid.NewString(), Email: req.Email}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(existing, nil).Once()

	user, err := suite.service.RegisterOrg(ctx, req)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockOrgRepo.AssertNotCalled(suite.T(), "Begin")
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	password := "hunter2hunter2"
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)
	user := &domain.User{
		UserID:       uuid.NewString(),
		Email:        "admin@sharma.example",
		PasswordHash: &hash,
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	authed, err := suite.service.AuthenticateUser(ctx, user.Email, password)

	suite.Require().NoError(err)
	suite.Equal(user.UserID, authed.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct-password")
	suite.Require().NoError(err)
	user := &domain.User{
		UserID:       uuid.NewString(),
		Email:        "admin@sharma.example",
		PasswordHash: &hash,
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	authed, err := suite.service.AuthenticateUser(ctx, user.Email, "wrong-password")

	suite.Require().Error(err)
	suite.Nil(authed)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownEmailIsUnauthorized() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByEmail", ctx, "nobody@example.com").Return(nil, apperrors.ErrNotFound).Once()

	authed, err := suite.service.AuthenticateUser(ctx, "nobody@example.com", "whatever")

	suite.Require().Error(err)
	suite.Nil(authed)
	// Unknown email and wrong password are indistinguishable to the caller.
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_GoogleUserHasNoPassword() {
	ctx := context.Background()
	user := &domain.User{
		UserID:       uuid.NewString(),
		Email:        "admin@sharma.example",
		AuthProvider: domain.ProviderGoogle,
		PasswordHash: nil,
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	authed, err := suite.service.AuthenticateUser(ctx, user.Email, "anything")

	suite.Require().Error(err)
	suite.Nil(authed)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_ExistingProviderID() {
	ctx := context.Background()
	providerID := "google-sub-123"
	existing := &domain.User{UserID: uuid.NewString(), Email: "admin@sharma.example"}
	info := &domain.GoogleUserInfo{ID: providerID, Email: existing.Email, VerifiedEmail: true}

	suite.mockUserRepo.On("FindUserByProviderID", ctx, domain.ProviderGoogle, providerID).Return(existing, nil).Once()

	user, err := suite.service.FindOrCreateGoogleUser(ctx, info)

	suite.Require().NoError(err)
	suite.Equal(existing, user)
	suite.mockOrgRepo.AssertNotCalled(suite.T(), "Begin")
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_LinksByEmail() {
	ctx := context.Background()
	providerID := "google-sub-123"
	existing := &domain.User{UserID: uuid.NewString(), Email: "admin@sharma.example"}
	info := &domain.GoogleUserInfo{ID: providerID, Email: existing.Email, VerifiedEmail: true}

	suite.mockUserRepo.On("FindUserByProviderID", ctx, domain.ProviderGoogle, providerID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, existing.Email).Return(existing, nil).Once()

	user, err := suite.service.FindOrCreateGoogleUser(ctx, info)

	suite.Require().NoError(err)
	suite.Equal(existing, user)
	suite.mockOrgRepo.AssertNotCalled(suite.T(), "Begin")
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_FirstSignInProvisionsOrg() {
	ctx := context.Background()
	info := &domain.GoogleUserInfo{
		ID:            "google-sub-456",
		Email:         "new@user.example",
		Name:          "New User",
		VerifiedEmail: true,
	}

	suite.mockUserRepo.On("FindUserByProviderID", ctx, domain.ProviderGoogle, info.ID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, info.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockOrgRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockOrgRepo.On("SaveOrg", ctx, nil, mock.MatchedBy(func(o domain.Org) bool {
		return o.Name == info.Name
	})).Return(nil).Once()
	suite.mockUserRepo.On("SaveUser", ctx, nil, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == info.Email &&
			u.AuthProvider == domain.ProviderGoogle &&
			u.Role == domain.RoleAdmin &&
			u.IsVerified &&
			u.ProviderUserID != nil && *u.ProviderUserID == info.ID
	})).Return(nil).Once()
	suite.mockOrgRepo.On("Commit", ctx, nil).Return(nil).Once()
	suite.mockOrgRepo.On("Rollback", ctx, nil).Return(nil).Once()

	user, err := suite.service.FindOrCreateGoogleUser(ctx, info)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.Equal(info.Email, user.Email)
	suite.NotEmpty(user.OrgID)
	suite.mockOrgRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_UnverifiedEmailRejected() {
	ctx := context.Background()
	info := &domain.GoogleUserInfo{ID: "google-sub-789", Email: "new@user.example", VerifiedEmail: false}

	user, err := suite.service.FindOrCreateGoogleUser(ctx, info)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindUserByProviderID")
}

// --- Run Suite ---

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
