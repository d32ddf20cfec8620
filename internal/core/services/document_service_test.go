package services_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerly/ledgerly_backend/internal/apperrors"
	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
	"github.com/ledgerly/ledgerly_backend/internal/core/ports"
	portssvc "github.com/ledgerly/ledgerly_backend/internal/core/ports/services"
	"github.com/ledgerly/ledgerly_backend/internal/core/services"
	"github.com/ledgerly/ledgerly_backend/internal/dto"
	"github.com/ledgerly/ledgerly_backend/internal/platform/config"
)

// MockObjectStore is a mock type for the ports.ObjectStore interface
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.Error(0)
}

func (m *MockObjectStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockObjectStore) GetBytes(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockObjectStore) PresignedGetURL(ctx context.Context, key string, filename string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, filename, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// --- Test Suite Setup ---

type DocumentServiceTestSuite struct {
	suite.Suite
	mockClientRepo *MockClientRepository
	mockDocRepo    *MockDocumentRepository
	mockTxnRepo    *MockTransactionRepository
	mockGSTRepo    *MockGSTSummaryRepository
	mockStore      *MockObjectStore
	mockLocks      *MockLocker
	mockQueue      *MockTaskEnqueuer
	mockAudit      *MockAuditService
	service        portssvc.DocumentSvcFacade
}

func (suite *DocumentServiceTestSuite) SetupTest() {
	suite.mockClientRepo = new(MockClientRepository)
	suite.mockDocRepo = new(MockDocumentRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockGSTRepo = new(MockGSTSummaryRepository)
	suite.mockStore = new(MockObjectStore)
	suite.mockLocks = new(MockLocker)
	suite.mockQueue = new(MockTaskEnqueuer)
	suite.mockAudit = new(MockAuditService)
	cfg := &config.Config{
		MaxUploadSizeMB:  25,
		AllowedFileTypes: []string{"csv", "xlsx", "xls", "pdf"},
	}
	suite.service = services.NewDocumentService(
		cfg,
		suite.mockClientRepo,
		suite.mockDocRepo,
		suite.mockTxnRepo,
		suite.mockGSTRepo,
		suite.mockStore,
		suite.mockLocks,
		suite.mockQueue,
		suite.mockAudit,
	)
}

func (suite *DocumentServiceTestSuite) expectIngestionLock(documentID string) *MockLock {
	lock := new(MockLock)
	lock.On("Release", mock.Anything).Return(nil).Once()
	suite.mockLocks.On("Obtain", mock.Anything, "recon:doc:"+documentID, mock.AnythingOfType("time.Duration")).Return(lock, nil).Once()
	return lock
}

func pendingDocument(orgID, clientID string) *domain.Document {
	return &domain.Document{
		DocumentID: uuid.NewString(),
		OrgID:      orgID,
		ClientID:   clientID,
		Type:       domain.DocTypeBank,
		Filename:   "statement.csv",
		StorageKey: orgID + "/" + clientID + "/statement.csv",
		Status:     domain.DocStatusPending,
	}
}

// --- Test Cases ---

func (suite *DocumentServiceTestSuite) TestUploadDocument_Success() {
	ctx := context.Background()
	orgID := uuid.NewString()
	clientID := uuid.NewString()
	actorID := uuid.NewString()

	suite.mockClientRepo.On("FindClientByID", ctx, orgID, clientID).Return(&domain.Client{ClientID: clientID, OrgID: orgID}, nil).Once()
	suite.mockStore.On("Put", ctx, mock.AnythingOfType("string"), mock.Anything, int64(1024), mock.AnythingOfType("string")).Return(nil).Once()
	suite.mockDocRepo.On("SaveDocument", ctx, mock.MatchedBy(func(d domain.Document) bool {
		return d.OrgID == orgID && d.ClientID == clientID && d.Type == domain.DocTypeBank &&
			d.Status == domain.DocStatusPending && strings.HasPrefix(d.StorageKey, orgID+"/"+clientID+"/")
	})).Return(nil).Once()
	suite.mockAudit.On("Record", ctx, orgID, &actorID, "upload", "document", mock.AnythingOfType("*string"), mock.Anything).Once()

	input := dto.UploadDocumentInput{Filename: "statement.csv", Size: 1024, DocType: "bank", Content: strings.NewReader("data")}
	doc, err := suite.service.UploadDocument(ctx, orgID, clientID, input, actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.DocStatusPending, doc.Status)
	suite.mockStore.AssertExpectations(suite.T())
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestUploadDocument_SaveFailureRemovesBlob() {
	ctx := context.Background()
	orgID := uuid.NewString()
	clientID := uuid.NewString()

	suite.mockClientRepo.On("FindClientByID", ctx, orgID, clientID).Return(&domain.Client{ClientID: clientID, OrgID: orgID}, nil).Once()
	suite.mockStore.On("Put", ctx, mock.AnythingOfType("string"), mock.Anything, int64(1024), mock.AnythingOfType("string")).Return(nil).Once()
	suite.mockDocRepo.On("SaveDocument", ctx, mock.AnythingOfType("domain.Document")).Return(fmt.Errorf("insert failed")).Once()
	suite.mockStore.On("Remove", ctx, mock.AnythingOfType("string")).Return(nil).Once()

	input := dto.UploadDocumentInput{Filename: "statement.csv", Size: 1024, DocType: "bank", Content: strings.NewReader("data")}
	doc, err := suite.service.UploadDocument(ctx, orgID, clientID, input, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(doc)
	suite.mockStore.AssertExpectations(suite.T())
	suite.mockAudit.AssertNotCalled(suite.T(), "Record")
}

func (suite *DocumentServiceTestSuite) TestUploadDocument_UnknownTypeRejected() {
	ctx := context.Background()
	orgID := uuid.NewString()
	clientID := uuid.NewString()

	suite.mockClientRepo.On("FindClientByID", ctx, orgID, clientID).Return(&domain.Client{ClientID: clientID, OrgID: orgID}, nil).Once()

	input := dto.UploadDocumentInput{Filename: "statement.csv", Size: 1024, DocType: "ledger", Content: strings.NewReader("data")}
	doc, err := suite.service.UploadDocument(ctx, orgID, clientID, input, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(doc)
	suite.ErrorIs(err, apperrors.ErrUploadRejected)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "SaveDocument")
}

func (suite *DocumentServiceTestSuite) TestUploadDocument_DisallowedExtensionRejected() {
	ctx := context.Background()
	orgID := uuid.NewString()
	clientID := uuid.NewString()

	suite.mockClientRepo.On("FindClientByID", ctx, orgID, clientID).Return(&domain.Client{ClientID: clientID, OrgID: orgID}, nil).Once()

	input := dto.UploadDocumentInput{Filename: "statement.exe", Size: 1024, DocType: "bank", Content: strings.NewReader("data")}
	doc, err := suite.service.UploadDocument(ctx, orgID, clientID, input, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(doc)
	suite.ErrorIs(err, apperrors.ErrUploadRejected)
}

func (suite *DocumentServiceTestSuite) TestUploadDocument_EmptyFileRejected() {
	ctx := context.Background()
	orgID := uuid.NewString()
	clientID := uuid.NewString()

	suite.mockClientRepo.On("FindClientByID", ctx, orgID, clientID).Return(&domain.Client{ClientID: clientID, OrgID: orgID}, nil).Once()

	input := dto.UploadDocumentInput{Filename: "statement.csv", Size: 0, DocType: "bank", Content: strings.NewReader("")}
	doc, err := suite.service.UploadDocument(ctx, orgID, clientID, input, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(doc)
	suite.ErrorIs(err, apperrors.ErrUploadRejected)
}

func (suite *DocumentServiceTestSuite) TestUploadDocument_ClientNotFound() {
	ctx := context.Background()
	orgID := uuid.NewString()
	clientID := uuid.NewString()

	suite.mockClientRepo.On("FindClientByID", ctx, orgID, clientID).Return(nil, apperrors.ErrNotFound).Once()

	input := dto.UploadDocumentInput{Filename: "statement.csv", Size: 1024, DocType: "bank", Content: strings.NewReader("data")}
	doc, err := suite.service.UploadDocument(ctx, orgID, clientID, input, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(doc)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *DocumentServiceTestSuite) TestListDocuments_Success() {
	ctx := context.Background()
	orgID := uuid.NewString()
	clientID := uuid.NewString()
	nextToken := "b3BhcXVl"
	expected := []domain.Document{*pendingDocument(orgID, clientID)}

	suite.mockClientRepo.On("FindClientByID", ctx, orgID, clientID).Return(&domain.Client{ClientID: clientID, OrgID: orgID}, nil).Once()
	suite.mockDocRepo.On("ListDocumentsByClient", ctx, orgID, clientID, 50, (*string)(nil)).Return(expected, &nextToken, nil).Once()

	docs, token, err := suite.service.ListDocuments(ctx, orgID, clientID, dto.ListDocumentsParams{Limit: 50})

	suite.Require().NoError(err)
	suite.Equal(expected, docs)
	suite.Require().NotNil(token)
	suite.Equal(nextToken, *token)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestListDocuments_ClientNotFound() {
	ctx := context.Background()
	orgID := uuid.NewString()
	clientID := uuid.NewString()

	suite.mockClientRepo.On("FindClientByID", ctx, orgID, clientID).Return(nil, apperrors.ErrNotFound).Once()

	docs, token, err := suite.service.ListDocuments(ctx, orgID, clientID, dto.ListDocumentsParams{})

	suite.Require().Error(err)
	suite.Nil(docs)
	suite.Nil(token)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "ListDocumentsByClient")
}

func (suite *DocumentServiceTestSuite) TestUpdateDocumentType_Success() {
	ctx := context.Background()
	orgID := uuid.NewString()
	clientID := uuid.NewString()
	actorID := uuid.NewString()
	doc := pendingDocument(orgID, clientID)

	suite.mockDocRepo.On("FindDocumentByID", ctx, orgID, doc.DocumentID).Return(doc, nil).Once()
	suite.mockDocRepo.On("UpdateDocumentType", ctx, orgID, doc.DocumentID, domain.DocTypeInvoice).Return(nil).Once()
	suite.mockAudit.On("Record", ctx, orgID, &actorID, "update", "document", &doc.DocumentID, mock.Anything).Once()

	updated, err := suite.service.UpdateDocumentType(ctx, orgID, doc.DocumentID, domain.DocTypeInvoice, actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.DocTypeInvoice, updated.Type)
	suite.mockDocRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestUpdateDocumentType_ProcessedDocumentRejected() {
	ctx := context.Background()
	orgID := uuid.NewString()
	doc := pendingDocument(orgID, uuid.NewString())
	doc.Status = domain.DocStatusProcessed

	suite.mockDocRepo.On("FindDocumentByID", ctx, orgID, doc.DocumentID).Return(doc, nil).Once()

	updated, err := suite.service.UpdateDocumentType(ctx, orgID, doc.DocumentID, domain.DocTypeInvoice, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrPreconditionFailed)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "UpdateDocumentType")
}

func (suite *DocumentServiceTestSuite) TestDeleteDocument_ProcessingRejected() {
	ctx := context.Background()
	orgID := uuid.NewString()
	doc := pendingDocument(orgID, uuid.NewString())
	doc.Status = domain.DocStatusProcessing

	suite.mockDocRepo.On("FindDocumentByID", ctx, orgID, doc.DocumentID).Return(doc, nil).Once()

	err := suite.service.DeleteDocument(ctx, orgID, doc.DocumentID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPreconditionFailed)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "DeleteDocument")
}

func (suite *DocumentServiceTestSuite) TestStartIngestion_Success() {
	ctx := context.Background()
	orgID := uuid.NewString()
	doc := pendingDocument(orgID, uuid.NewString())

	suite.mockDocRepo.On("FindDocumentByID", ctx, orgID, doc.DocumentID).Return(doc, nil).Once()
	suite.mockQueue.On("EnqueueIngestion", doc.DocumentID).Return(nil).Once()

	err := suite.service.StartIngestion(ctx, orgID, doc.DocumentID)

	suite.Require().NoError(err)
	suite.mockQueue.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestStartIngestion_AlreadyIngestedRejected() {
	ctx := context.Background()
	orgID := uuid.NewString()
	doc := pendingDocument(orgID, uuid.NewString())
	doc.Status = domain.DocStatusProcessed

	suite.mockDocRepo.On("FindDocumentByID", ctx, orgID, doc.DocumentID).Return(doc, nil).Once()

	err := suite.service.StartIngestion(ctx, orgID, doc.DocumentID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPreconditionFailed)
	suite.mockQueue.AssertNotCalled(suite.T(), "EnqueueIngestion")
}

func (suite *DocumentServiceTestSuite) TestStartIngestion_QueueFull() {
	ctx := context.Background()
	orgID := uuid.NewString()
	doc := pendingDocument(orgID, uuid.NewString())
	queueErr := fmt.Errorf("queue is full")

	suite.mockDocRepo.On("FindDocumentByID", ctx, orgID, doc.DocumentID).Return(doc, nil).Once()
	suite.mockQueue.On("EnqueueIngestion", doc.DocumentID).Return(queueErr).Once()

	err := suite.service.StartIngestion(ctx, orgID, doc.DocumentID)

	suite.Require().Error(err)

	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(503, appErr.Code)
}

// --- IngestDocument lifecycle ---

func (suite *DocumentServiceTestSuite) TestIngestDocument_LockHeldElsewhereSkips() {
	ctx := context.Background()
	documentID := uuid.NewString()

	suite.mockLocks.On("Obtain", mock.Anything, "recon:doc:"+documentID, mock.AnythingOfType("time.Duration")).Return(nil, ports.ErrLockNotObtained).Once()

	err := suite.service.IngestDocument(ctx, documentID)

	suite.Require().NoError(err)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "FindDocument")
	suite.mockDocRepo.AssertNotCalled(suite.T(), "UpdateDocumentStatus")
}

func (suite *DocumentServiceTestSuite) TestIngestDocument_AlreadyClaimedSkips() {
	ctx := context.Background()
	doc := pendingDocument(uuid.NewString(), uuid.NewString())
	doc.Status = domain.DocStatusProcessed
	lock := suite.expectIngestionLock(doc.DocumentID)

	suite.mockDocRepo.On("FindDocument", ctx, doc.DocumentID).Return(doc, nil).Once()
	suite.mockDocRepo.On("UpdateDocumentStatus", ctx, doc.DocumentID, domain.DocStatusPending, domain.DocStatusProcessing, mock.Anything).
		Return(apperrors.NewInvalidTransitionError(string(doc.Status), string(domain.DocStatusProcessing))).Once()

	err := suite.service.IngestDocument(ctx, doc.DocumentID)

	suite.Require().NoError(err)
	suite.mockStore.AssertNotCalled(suite.T(), "GetBytes")
	lock.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestIngestDocument_BankStatementProcessed() {
	ctx := context.Background()
	doc := pendingDocument(uuid.NewString(), uuid.NewString())
	csv := "date,amount,description,reference\n2024-04-10,11800,NEFT payment,INV-101\n"
	lock := suite.expectIngestionLock(doc.DocumentID)

	suite.mockDocRepo.On("FindDocument", ctx, doc.DocumentID).Return(doc, nil).Once()
	suite.mockDocRepo.On("UpdateDocumentStatus", ctx, doc.DocumentID, domain.DocStatusPending, domain.DocStatusProcessing, mock.Anything).Return(nil).Once()
	suite.mockStore.On("GetBytes", ctx, doc.StorageKey).Return([]byte(csv), nil).Once()
	suite.mockTxnRepo.On("DeleteTransactionsByDocument", ctx, doc.DocumentID).Return(nil).Once()
	suite.mockTxnRepo.On("SaveTransactions", ctx, mock.MatchedBy(func(txns []domain.Transaction) bool {
		return len(txns) == 1 && txns[0].Source == domain.SourceBank &&
			txns[0].ClientID == doc.ClientID && txns[0].ReferenceID == "INV-101" &&
			txns[0].DocumentID != nil && *txns[0].DocumentID == doc.DocumentID
	})).Return(nil).Once()
	suite.mockDocRepo.On("UpdateDocumentStatus", ctx, doc.DocumentID, domain.DocStatusProcessing, domain.DocStatusProcessed, mock.MatchedBy(func(meta map[string]any) bool {
		return meta["rows_total"] == 1 && meta["transactions_extracted"] == 1
	})).Return(nil).Once()

	err := suite.service.IngestDocument(ctx, doc.DocumentID)

	suite.Require().NoError(err)
	suite.mockDocRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
	lock.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestIngestDocument_StorageFailureMarksFailed() {
	ctx := context.Background()
	doc := pendingDocument(uuid.NewString(), uuid.NewString())
	lock := suite.expectIngestionLock(doc.DocumentID)

	suite.mockDocRepo.On("FindDocument", ctx, doc.DocumentID).Return(doc, nil).Once()
	suite.mockDocRepo.On("UpdateDocumentStatus", ctx, doc.DocumentID, domain.DocStatusPending, domain.DocStatusProcessing, mock.Anything).Return(nil).Once()
	suite.mockStore.On("GetBytes", ctx, doc.StorageKey).Return(nil, fmt.Errorf("object missing")).Once()
	suite.mockDocRepo.On("UpdateDocumentStatus", ctx, doc.DocumentID, domain.DocStatusProcessing, domain.DocStatusFailed, mock.MatchedBy(func(meta map[string]any) bool {
		_, ok := meta["error"]
		return ok
	})).Return(nil).Once()

	err := suite.service.IngestDocument(ctx, doc.DocumentID)

	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransactions")
	suite.mockDocRepo.AssertExpectations(suite.T())
	lock.AssertExpectations(suite.T())
}

// --- Run Suite ---

func TestDocumentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentServiceTestSuite))
}
