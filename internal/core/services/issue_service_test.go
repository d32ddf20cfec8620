package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerly/ledgerly_backend/internal/apperrors"
	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
	portsrepo "github.com/ledgerly/ledgerly_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerly/ledgerly_backend/internal/core/ports/services"
	"github.com/ledgerly/ledgerly_backend/internal/core/services"
	"github.com/ledgerly/ledgerly_backend/internal/dto"
)

// MockIssueRepository is a mock type for the IssueRepositoryFacade interface
type MockIssueRepository struct {
	mock.Mock
}

func (m *MockIssueRepository) FindIssueByID(ctx context.Context, orgID string, issueID string) (*domain.Issue, error) {
	args := m.Called(ctx, orgID, issueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Issue), args.Error(1)
}

func (m *MockIssueRepository) ListIssuesByClient(ctx context.Context, orgID string, clientID string, filter portsrepo.IssueListFilter) ([]domain.Issue, error) {
	args := m.Called(ctx, orgID, clientID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Issue), args.Error(1)
}

func (m *MockIssueRepository) ListIssuesByRun(ctx context.Context, runID string) ([]domain.Issue, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Issue), args.Error(1)
}

func (m *MockIssueRepository) SaveIssues(ctx context.Context, issues []domain.Issue) error {
	args := m.Called(ctx, issues)
	return args.Error(0)
}

func (m *MockIssueRepository) UpdateIssueStatus(ctx context.Context, issueID string, from, to domain.IssueStatus) error {
	args := m.Called(ctx, issueID, from, to)
	return args.Error(0)
}

// --- Test Suite Setup ---

type IssueServiceTestSuite struct {
	suite.Suite
	mockClientRepo *MockClientRepository
	mockRunRepo    *MockRunRepository
	mockIssueRepo  *MockIssueRepository
	mockAudit      *MockAuditService
	service        portssvc.IssueSvcFacade
}

func (suite *IssueServiceTestSuite) SetupTest() {
	suite.mockClientRepo = new(MockClientRepository)
	suite.mockRunRepo = new(MockRunRepository)
	suite.mockIssueRepo = new(MockIssueRepository)
	suite.mockAudit = new(MockAuditService)
	suite.service = services.NewIssueService(suite.mockClientRepo, suite.mockRunRepo, suite.mockIssueRepo, suite.mockAudit)
}

func openIssue(orgID string) *domain.Issue {
	return &domain.Issue{
		IssueID:  uuid.NewString(),
		ClientID: uuid.NewString(),
		RunID:    uuid.NewString(),
		Severity: domain.SeverityMedium,
		Category: domain.CategoryMissingInvoice,
		Title:    "Bank entry of 45000.00 has no matching invoice",
		Status:   domain.IssueStatusOpen,
	}
}

// --- Test Cases ---

func (suite *IssueServiceTestSuite) TestListIssues_Success() {
	ctx := context.Background()
	orgID := uuid.NewString()
	clientID := uuid.NewString()
	filter := dto.IssueFilter{Severity: "high", Status: "open"}
	expected := []domain.Issue{*openIssue(orgID)}

	suite.mockClientRepo.On("FindClientByID", ctx, orgID, clientID).Return(&domain.Client{ClientID: clientID, OrgID: orgID}, nil).Once()
	suite.mockIssueRepo.On("ListIssuesByClient", ctx, orgID, clientID, portsrepo.IssueListFilter{
		Severity: domain.SeverityHigh,
		Status:   domain.IssueStatusOpen,
	}).Return(expected, nil).Once()

	issues, err := suite.service.ListIssues(ctx, orgID, clientID, filter)

	suite.Require().NoError(err)
	suite.Equal(expected, issues)
	suite.mockClientRepo.AssertExpectations(suite.T())
	suite.mockIssueRepo.AssertExpectations(suite.T())
}

func (suite *IssueServiceTestSuite) TestListIssuesByRun_Success() {
	ctx := context.Background()
	orgID := uuid.NewString()
	runID := uuid.NewString()
	expected := []domain.Issue{*openIssue(orgID)}

	suite.mockRunRepo.On("FindRunByID", ctx, orgID, runID).Return(&domain.Run{RunID: runID}, nil).Once()
	suite.mockIssueRepo.On("ListIssuesByRun", ctx, runID).Return(expected, nil).Once()

	issues, err := suite.service.ListIssuesByRun(ctx, orgID, runID)

	suite.Require().NoError(err)
	suite.Equal(expected, issues)
	suite.mockRunRepo.AssertExpectations(suite.T())
	suite.mockIssueRepo.AssertExpectations(suite.T())
}

func (suite *IssueServiceTestSuite) TestListIssuesByRun_RunNotFound() {
	ctx := context.Background()
	orgID := uuid.NewString()
	runID := uuid.NewString()

	suite.mockRunRepo.On("FindRunByID", ctx, orgID, runID).Return(nil, apperrors.NewNotFoundError("run not found")).Once()

	issues, err := suite.service.ListIssuesByRun(ctx, orgID, runID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(issues)
	suite.mockIssueRepo.AssertNotCalled(suite.T(), "ListIssuesByRun")
}

func (suite *IssueServiceTestSuite) TestListIssues_ClientNotFound() {
	ctx := context.Background()
	orgID := uuid.NewString()
	clientID := uuid.NewString()

	suite.mockClientRepo.On("FindClientByID", ctx, orgID, clientID).Return(nil, apperrors.ErrNotFound).Once()

	issues, err := suite.service.ListIssues(ctx, orgID, clientID, dto.IssueFilter{})

	suite.Require().Error(err)
	suite.Nil(issues)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockIssueRepo.AssertNotCalled(suite.T(), "ListIssuesByClient")
}

func (suite *IssueServiceTestSuite) TestUpdateIssueStatus_OpenToAccepted() {
	ctx := context.Background()
	orgID := uuid.NewString()
	actorID := uuid.NewString()
	issue := openIssue(orgID)

	suite.mockIssueRepo.On("FindIssueByID", ctx, orgID, issue.IssueID).Return(issue, nil).Once()
	suite.mockIssueRepo.On("UpdateIssueStatus", ctx, issue.IssueID, domain.IssueStatusOpen, domain.IssueStatusAccepted).Return(nil).Once()
	suite.mockAudit.On("Record", ctx, orgID, &actorID, "update", "issue", &issue.IssueID, mock.Anything).Once()

	updated, err := suite.service.UpdateIssueStatus(ctx, orgID, issue.IssueID, domain.IssueStatusAccepted, actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.IssueStatusAccepted, updated.Status)
	suite.mockIssueRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *IssueServiceTestSuite) TestUpdateIssueStatus_SameStatusIsNoOp() {
	ctx := context.Background()
	orgID := uuid.NewString()
	issue := openIssue(orgID)

	suite.mockIssueRepo.On("FindIssueByID", ctx, orgID, issue.IssueID).Return(issue, nil).Once()

	updated, err := suite.service.UpdateIssueStatus(ctx, orgID, issue.IssueID, domain.IssueStatusOpen, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(domain.IssueStatusOpen, updated.Status)
	suite.mockIssueRepo.AssertNotCalled(suite.T(), "UpdateIssueStatus")
	suite.mockAudit.AssertNotCalled(suite.T(), "Record")
}

func (suite *IssueServiceTestSuite) TestUpdateIssueStatus_ResolvedCannotReopen() {
	ctx := context.Background()
	orgID := uuid.NewString()
	issue := openIssue(orgID)
	issue.Status = domain.IssueStatusResolved

	suite.mockIssueRepo.On("FindIssueByID", ctx, orgID, issue.IssueID).Return(issue, nil).Once()

	updated, err := suite.service.UpdateIssueStatus(ctx, orgID, issue.IssueID, domain.IssueStatusOpen, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.mockIssueRepo.AssertNotCalled(suite.T(), "UpdateIssueStatus")
}

func (suite *IssueServiceTestSuite) TestUpdateIssueStatus_UnknownStatusRejected() {
	ctx := context.Background()

	updated, err := suite.service.UpdateIssueStatus(ctx, uuid.NewString(), uuid.NewString(), domain.IssueStatus("archived"), uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockIssueRepo.AssertNotCalled(suite.T(), "FindIssueByID")
}

func (suite *IssueServiceTestSuite) TestUpdateIssueStatus_LostRaceSameOutcome() {
	ctx := context.Background()
	orgID := uuid.NewString()
	actorID := uuid.NewString()
	issue := openIssue(orgID)
	resolved := *issue
	resolved.Status = domain.IssueStatusResolved

	// Another reviewer resolved the issue between the read and the guarded
	// update. The requested state already holds, so the call succeeds.
	suite.mockIssueRepo.On("FindIssueByID", ctx, orgID, issue.IssueID).Return(issue, nil).Once()
	suite.mockIssueRepo.On("UpdateIssueStatus", ctx, issue.IssueID, domain.IssueStatusOpen, domain.IssueStatusResolved).Return(apperrors.ErrInvalidTransition).Once()
	suite.mockIssueRepo.On("FindIssueByID", ctx, orgID, issue.IssueID).Return(&resolved, nil).Once()

	updated, err := suite.service.UpdateIssueStatus(ctx, orgID, issue.IssueID, domain.IssueStatusResolved, actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.IssueStatusResolved, updated.Status)
	suite.mockIssueRepo.AssertExpectations(suite.T())
}

func (suite *IssueServiceTestSuite) TestUpdateIssueStatus_LostRaceDifferentOutcome() {
	ctx := context.Background()
	orgID := uuid.NewString()
	issue := openIssue(orgID)
	resolved := *issue
	resolved.Status = domain.IssueStatusResolved

	suite.mockIssueRepo.On("FindIssueByID", ctx, orgID, issue.IssueID).Return(issue, nil).Once()
	suite.mockIssueRepo.On("UpdateIssueStatus", ctx, issue.IssueID, domain.IssueStatusOpen, domain.IssueStatusAccepted).Return(apperrors.ErrInvalidTransition).Once()
	suite.mockIssueRepo.On("FindIssueByID", ctx, orgID, issue.IssueID).Return(&resolved, nil).Once()

	updated, err := suite.service.UpdateIssueStatus(ctx, orgID, issue.IssueID, domain.IssueStatusAccepted, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.mockIssueRepo.AssertExpectations(suite.T())
}

func (suite *IssueServiceTestSuite) TestUpdateIssueStatus_RepoError() {
	ctx := context.Background()
	orgID := uuid.NewString()
	issue := openIssue(orgID)
	expectedErr := fmt.Errorf("db connection lost")

	suite.mockIssueRepo.On("FindIssueByID", ctx, orgID, issue.IssueID).Return(issue, nil).Once()
	suite.mockIssueRepo.On("UpdateIssueStatus", ctx, issue.IssueID, domain.IssueStatusOpen, domain.IssueStatusResolved).Return(expectedErr).Once()

	updated, err := suite.service.UpdateIssueStatus(ctx, orgID, issue.IssueID, domain.IssueStatusResolved, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, expectedErr)
}

// --- Run Suite ---

func TestIssueServiceTestSuite(t *testing.T) {
	suite.Run(t, new(IssueServiceTestSuite))
}
