package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerly/ledgerly_backend/internal/apperrors"
	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
	portssvc "github.com/ledgerly/ledgerly_backend/internal/core/ports/services"
	"github.com/ledgerly/ledgerly_backend/internal/core/services"
)

// MockReportRepository is a mock type for the ReportRepositoryFacade interface
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) FindReportByID(ctx context.Context, orgID string, reportID string) (*domain.Report, error) {
	args := m.Called(ctx, orgID, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportRepository) FindReportByRunAndType(ctx context.Context, runID string, reportType domain.ReportType) (*domain.Report, error) {
	args := m.Called(ctx, runID, reportType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportRepository) ListReportsByClient(ctx context.Context, orgID string, clientID string) ([]domain.Report, error) {
	args := m.Called(ctx, orgID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Report), args.Error(1)
}

func (m *MockReportRepository) ListReportsByRun(ctx context.Context, runID string) ([]domain.Report, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Report), args.Error(1)
}

func (m *MockReportRepository) SaveReport(ctx context.Context, report domain.Report) (*domain.Report, error) {
	args := m.Called(ctx, report)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

// --- Test Suite Setup ---

type ReportServiceTestSuite struct {
	suite.Suite
	mockClientRepo *MockClientRepository
	mockRunRepo    *MockRunRepository
	mockIssueRepo  *MockIssueRepository
	mockTxnRepo    *MockTransactionRepository
	mockGSTRepo    *MockGSTSummaryRepository
	mockReportRepo *MockReportRepository
	mockStore      *MockObjectStore
	mockAudit      *MockAuditService
	service        portssvc.ReportSvcFacade
}

func (suite *ReportServiceTestSuite) SetupTest() {
	suite.mockClientRepo = new(MockClientRepository)
	suite.mockRunRepo = new(MockRunRepository)
	suite.mockIssueRepo = new(MockIssueRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockGSTRepo = new(MockGSTSummaryRepository)
	suite.mockReportRepo = new(MockReportRepository)
	suite.mockStore = new(MockObjectStore)
	suite.mockAudit = new(MockAuditService)
	suite.service = services.NewReportService(
		suite.mockClientRepo,
		suite.mockRunRepo,
		suite.mockIssueRepo,
		suite.mockTxnRepo,
		suite.mockGSTRepo,
		suite.mockReportRepo,
		suite.mockStore,
		suite.mockAudit,
	)
}

// --- Test Cases ---

func (suite *ReportServiceTestSuite) TestGenerateReport_RequiresCompletedRun() {
	ctx := context.Background()
	orgID := uuid.NewString()
	runID := uuid.NewString()
	run := &domain.Run{RunID: runID, ClientID: uuid.NewString(), Status: domain.RunStatusRunning}

	suite.mockRunRepo.On("FindRunByID", ctx, orgID, runID).Return(run, nil).Once()

	report, err := suite.service.GenerateReport(ctx, orgID, runID, domain.ReportWorkingPapers, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(report)
	suite.ErrorIs(err, apperrors.ErrPreconditionFailed)
	suite.mockReportRepo.AssertNotCalled(suite.T(), "SaveReport")
}

func (suite *ReportServiceTestSuite) TestGenerateReport_ExistingReportReturned() {
	ctx := context.Background()
	orgID := uuid.NewString()
	runID := uuid.NewString()
	clientID := uuid.NewString()
	run := &domain.Run{RunID: runID, ClientID: clientID, Status: domain.RunStatusCompleted}
	existing := &domain.Report{
		ReportID: uuid.NewString(),
		RunID:    runID,
		Type:     domain.ReportWorkingPapers,
	}

	suite.mockRunRepo.On("FindRunByID", ctx, orgID, runID).Return(run, nil).Once()
	suite.mockClientRepo.On("FindClientByID", ctx, orgID, clientID).Return(&domain.Client{ClientID: clientID, OrgID: orgID}, nil).Once()
	suite.mockReportRepo.On("FindReportByRunAndType", ctx, runID, domain.ReportWorkingPapers).Return(existing, nil).Once()

	report, err := suite.service.GenerateReport(ctx, orgID, runID, domain.ReportWorkingPapers, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(existing, report)
	suite.mockReportRepo.AssertNotCalled(suite.T(), "SaveReport")
	suite.mockAudit.AssertNotCalled(suite.T(), "Record")
}

func (suite *ReportServiceTestSuite) TestGenerateReport_UnknownTypeRejected() {
	ctx := context.Background()
	orgID := uuid.NewString()
	runID := uuid.NewString()
	clientID := uuid.NewString()
	run := &domain.Run{RunID: runID, ClientID: clientID, Status: domain.RunStatusCompleted}

	suite.mockRunRepo.On("FindRunByID", ctx, orgID, runID).Return(run, nil).Once()
	suite.mockReportRepo.On("FindReportByRunAndType", ctx, runID, domain.ReportType("audit_trail")).Return(nil, apperrors.NewNotFoundError("report not found")).Once()
	suite.mockClientRepo.On("FindClientByID", ctx, orgID, clientID).Return(&domain.Client{ClientID: clientID, OrgID: orgID}, nil).Once()

	report, err := suite.service.GenerateReport(ctx, orgID, runID, domain.ReportType("audit_trail"), uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(report)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReportServiceTestSuite) TestGenerateRunReports_SkipsNonCompletedRun() {
	ctx := context.Background()
	runID := uuid.NewString()
	run := &domain.Run{RunID: runID, ClientID: uuid.NewString(), Status: domain.RunStatusFailed}

	suite.mockRunRepo.On("FindRun", ctx, runID).Return(run, nil).Once()

	err := suite.service.GenerateRunReports(ctx, runID)

	suite.Require().NoError(err)
	suite.mockClientRepo.AssertNotCalled(suite.T(), "FindClient")
	suite.mockReportRepo.AssertNotCalled(suite.T(), "SaveReport")
}

func (suite *ReportServiceTestSuite) TestGenerateRunReports_ExistingReportsReused() {
	ctx := context.Background()
	orgID := uuid.NewString()
	runID := uuid.NewString()
	clientID := uuid.NewString()
	run := &domain.Run{RunID: runID, ClientID: clientID, Status: domain.RunStatusCompleted}

	suite.mockRunRepo.On("FindRun", ctx, runID).Return(run, nil).Once()
	suite.mockClientRepo.On("FindClient", ctx, clientID).Return(&domain.Client{ClientID: clientID, OrgID: orgID}, nil).Once()
	suite.mockReportRepo.On("FindReportByRunAndType", ctx, runID, domain.ReportWorkingPapers).
		Return(&domain.Report{ReportID: uuid.NewString(), RunID: runID, Type: domain.ReportWorkingPapers}, nil).Once()
	suite.mockReportRepo.On("FindReportByRunAndType", ctx, runID, domain.ReportComplianceSummary).
		Return(&domain.Report{ReportID: uuid.NewString(), RunID: runID, Type: domain.ReportComplianceSummary}, nil).Once()

	err := suite.service.GenerateRunReports(ctx, runID)

	suite.Require().NoError(err)
	suite.mockReportRepo.AssertExpectations(suite.T())
	suite.mockReportRepo.AssertNotCalled(suite.T(), "SaveReport")
	suite.mockAudit.AssertNotCalled(suite.T(), "Record")
}

func (suite *ReportServiceTestSuite) TestListReports_Success() {
	ctx := context.Background()
	orgID := uuid.NewString()
	clientID := uuid.NewString()
	expected := []domain.Report{
		{ReportID: uuid.NewString(), ClientID: clientID, Type: domain.ReportWorkingPapers},
	}

	suite.mockClientRepo.On("FindClientByID", ctx, orgID, clientID).Return(&domain.Client{ClientID: clientID, OrgID: orgID}, nil).Once()
	suite.mockReportRepo.On("ListReportsByClient", ctx, orgID, clientID).Return(expected, nil).Once()

	reports, err := suite.service.ListReports(ctx, orgID, clientID)

	suite.Require().NoError(err)
	suite.Equal(expected, reports)
	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestListReportsByRun_Success() {
	ctx := context.Background()
	orgID := uuid.NewString()
	runID := uuid.NewString()
	expected := []domain.Report{
		{ReportID: uuid.NewString(), RunID: runID, Type: domain.ReportComplianceSummary},
		{ReportID: uuid.NewString(), RunID: runID, Type: domain.ReportWorkingPapers},
	}

	suite.mockRunRepo.On("FindRunByID", ctx, orgID, runID).Return(&domain.Run{RunID: runID}, nil).Once()
	suite.mockReportRepo.On("ListReportsByRun", ctx, runID).Return(expected, nil).Once()

	reports, err := suite.service.ListReportsByRun(ctx, orgID, runID)

	suite.Require().NoError(err)
	suite.Equal(expected, reports)
	suite.mockRunRepo.AssertExpectations(suite.T())
	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestGetReportPDFURL_Presigned() {
	ctx := context.Background()
	orgID := uuid.NewString()
	reportID := uuid.NewString()
	runID := uuid.NewString()
	pdfKey := "reports/" + uuid.NewString() + "/" + runID + "/working_papers.pdf"
	report := &domain.Report{ReportID: reportID, RunID: runID, Type: domain.ReportWorkingPapers, ContentPDFURL: &pdfKey}

	suite.mockReportRepo.On("FindReportByID", ctx, orgID, reportID).Return(report, nil).Once()
	suite.mockStore.On("PresignedGetURL", ctx, pdfKey, mock.AnythingOfType("string"), mock.AnythingOfType("time.Duration")).
		Return("https://minio.example/"+pdfKey+"?sig=abc", nil).Once()

	url, err := suite.service.GetReportPDFURL(ctx, orgID, reportID)

	suite.Require().NoError(err)
	suite.Contains(url, pdfKey)
	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestGetReportPDFURL_NoRenderedPDF() {
	ctx := context.Background()
	orgID := uuid.NewString()
	reportID := uuid.NewString()
	report := &domain.Report{ReportID: reportID, Type: domain.ReportComplianceSummary}

	suite.mockReportRepo.On("FindReportByID", ctx, orgID, reportID).Return(report, nil).Once()

	url, err := suite.service.GetReportPDFURL(ctx, orgID, reportID)

	suite.Require().Error(err)
	suite.Empty(url)
	suite.ErrorIs(err, apperrors.ErrPreconditionFailed)
}

func (suite *ReportServiceTestSuite) TestGetReportByID_NotFound() {
	ctx := context.Background()
	orgID := uuid.NewString()
	reportID := uuid.NewString()

	suite.mockReportRepo.On("FindReportByID", ctx, orgID, reportID).Return(nil, apperrors.ErrNotFound).Once()

	report, err := suite.service.GetReportByID(ctx, orgID, reportID)

	suite.Require().Error(err)
	suite.Nil(report)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Run Suite ---

func TestReportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}
