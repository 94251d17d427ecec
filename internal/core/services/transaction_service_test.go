package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cardledger/card_ledger_app/internal/apperrors"
	"github.com/cardledger/card_ledger_app/internal/core/domain"
	portsrepo "github.com/cardledger/card_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/cardledger/card_ledger_app/internal/core/ports/services"
	"github.com/cardledger/card_ledger_app/internal/core/services"
	"github.com/cardledger/card_ledger_app/internal/core/validation"
	"github.com/cardledger/card_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepository = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, accountID string, balanceDelta decimal.Decimal) error {
	args := m.Called(ctx, txn, accountID, balanceDelta)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindHighestTransactionID(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockTransactionRepository) QueryTransactions(ctx context.Context, query portsrepo.TransactionQuery, sort portsrepo.SortSpec, offset, limit int) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, query, sort, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepository = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// --- Mock CardRepository ---
type MockCardRepository struct {
	mock.Mock
}

var _ portsrepo.CardRepository = (*MockCardRepository)(nil)

func (m *MockCardRepository) FindCardByNumber(ctx context.Context, cardNumber string) (*domain.Card, error) {
	args := m.Called(ctx, cardNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardRepository) FindCardByAccountID(ctx context.Context, accountID string) (*domain.Card, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

// --- Mock IdentifierService ---
type MockIdentifierService struct {
	mock.Mock
}

var _ portssvc.IdentifierSvcFacade = (*MockIdentifierService)(nil)

func (m *MockIdentifierService) NextTransactionID(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// --- Test Suite Setup ---
type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo     *MockTransactionRepository
	mockAccountRepo *MockAccountRepository
	mockCardRepo    *MockCardRepository
	mockIDSvc       *MockIdentifierService
	service         portssvc.TransactionSvcFacade
	account         domain.Account
	card            domain.Card
	userID          string
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockCardRepo = new(MockCardRepository)
	suite.mockIDSvc = new(MockIdentifierService)
	suite.service = services.NewTransactionService(suite.mockTxnRepo, suite.mockAccountRepo, suite.mockCardRepo, suite.mockIDSvc)

	suite.userID = "tester"
	suite.account = domain.Account{
		AccountID:      "12345678901",
		ActiveStatus:   true,
		CurrentBalance: decimal.RequireFromString("500.00"),
		CreditLimit:    decimal.RequireFromString("5000.00"),
	}
	suite.card = domain.Card{
		CardNumber:   "4111111111111111",
		AccountID:    suite.account.AccountID,
		ActiveStatus: true,
	}
}

func (suite *TransactionServiceTestSuite) validAddRequest() dto.CreateTransactionRequest {
	amount := decimal.RequireFromString("100.00")
	return dto.CreateTransactionRequest{
		CardNumber:     suite.card.CardNumber,
		TypeCode:       "01",
		CategoryCode:   "0001",
		Source:         "POS",
		Description:    "Test purchase",
		Amount:         &amount,
		MerchantID:     "123456789",
		MerchantName:   "Test Merchant",
		OriginalDate:   "20240114",
		ProcessingDate: "20240115",
		Confirm:        "Y",
	}
}

// --- Test Cases ---

func (suite *TransactionServiceTestSuite) TestAddTransaction_PurchaseSuccess() {
	ctx := context.Background()
	req := suite.validAddRequest()

	suite.mockCardRepo.On("FindCardByNumber", ctx, suite.card.CardNumber).Return(&suite.card, nil)
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&suite.account, nil)
	suite.mockIDSvc.On("NextTransactionID", ctx).Return("0000000000000042", nil)
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), suite.account.AccountID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.RequireFromString("100.00"))
	})).Return(nil)

	resp, err := suite.service.AddTransaction(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Equal("0000000000000042", resp.TransactionID)
	suite.True(resp.PreviousBalance.Equal(decimal.RequireFromString("500.00")))
	suite.True(resp.CurrentBalance.Equal(decimal.RequireFromString("600.00")))

	savedTxn := suite.mockTxnRepo.Calls[0].Arguments.Get(1).(domain.Transaction)
	suite.Equal("0000000000000042", savedTxn.TransactionID)
	suite.Equal(suite.card.CardNumber, savedTxn.CardNumber)
	suite.Equal(suite.userID, savedTxn.CreatedBy)
	suite.Equal(2024, savedTxn.ProcessingTimestamp.Year())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestAddTransaction_PaymentDecreasesBalance() {
	ctx := context.Background()
	req := suite.validAddRequest()
	req.TypeCode = "02"

	suite.mockCardRepo.On("FindCardByNumber", ctx, suite.card.CardNumber).Return(&suite.card, nil)
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&suite.account, nil)
	suite.mockIDSvc.On("NextTransactionID", ctx).Return("0000000000000043", nil)
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), suite.account.AccountID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.RequireFromString("-100.00"))
	})).Return(nil)

	resp, err := suite.service.AddTransaction(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(resp.CurrentBalance.Equal(decimal.RequireFromString("400.00")))
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestAddTransaction_ResolvesAccountToCard() {
	ctx := context.Background()
	req := suite.validAddRequest()
	req.CardNumber = ""
	req.AccountID = suite.account.AccountID

	suite.mockCardRepo.On("FindCardByAccountID", ctx, suite.account.AccountID).Return(&suite.card, nil)
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&suite.account, nil)
	suite.mockIDSvc.On("NextTransactionID", ctx).Return("0000000000000044", nil)
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), suite.account.AccountID, mock.Anything).Return(nil)

	resp, err := suite.service.AddTransaction(ctx, req, suite.userID)

	suite.Require().NoError(err)
	savedTxn := suite.mockTxnRepo.Calls[0].Arguments.Get(1).(domain.Transaction)
	suite.Equal(suite.card.CardNumber, savedTxn.CardNumber)
	suite.NotNil(resp)
}

func (suite *TransactionServiceTestSuite) TestAddTransaction_ValidationFailureHasNoSideEffects() {
	ctx := context.Background()
	req := suite.validAddRequest()
	req.TypeCode = "99"

	suite.mockCardRepo.On("FindCardByNumber", ctx, suite.card.CardNumber).Return(&suite.card, nil)
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&suite.account, nil)

	resp, err := suite.service.AddTransaction(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(resp)

	var failure *validation.Failure
	suite.Require().True(errors.As(err, &failure))
	suite.Equal(validation.KindRange, failure.Kind)
	suite.Equal("typeCode", failure.Field)

	suite.mockIDSvc.AssertNotCalled(suite.T(), "NextTransactionID", mock.Anything)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestAddTransaction_MalformedIdentityStopsBeforeLookups() {
	ctx := context.Background()
	req := suite.validAddRequest()
	req.CardNumber = "not-a-card"

	resp, err := suite.service.AddTransaction(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(resp)

	var failure *validation.Failure
	suite.Require().True(errors.As(err, &failure))
	suite.Equal(validation.KindFormat, failure.Kind)

	suite.mockCardRepo.AssertNotCalled(suite.T(), "FindCardByNumber", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestAddTransaction_UnknownCard() {
	ctx := context.Background()
	req := suite.validAddRequest()

	suite.mockCardRepo.On("FindCardByNumber", ctx, suite.card.CardNumber).Return(nil, apperrors.ErrNotFound)

	resp, err := suite.service.AddTransaction(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(resp)

	var failure *validation.Failure
	suite.Require().True(errors.As(err, &failure))
	suite.Equal(validation.KindCrossReference, failure.Kind)
	suite.Equal("cardNumber", failure.Field)
}

func (suite *TransactionServiceTestSuite) TestAddTransaction_CardAccountMismatch() {
	ctx := context.Background()
	req := suite.validAddRequest()
	req.AccountID = "99999999999"

	suite.mockCardRepo.On("FindCardByNumber", ctx, suite.card.CardNumber).Return(&suite.card, nil)

	resp, err := suite.service.AddTransaction(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(resp)

	var failure *validation.Failure
	suite.Require().True(errors.As(err, &failure))
	suite.Equal(validation.KindCrossReference, failure.Kind)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestAddTransaction_InactiveAccount() {
	ctx := context.Background()
	req := suite.validAddRequest()
	inactive := suite.account
	inactive.ActiveStatus = false

	suite.mockCardRepo.On("FindCardByNumber", ctx, suite.card.CardNumber).Return(&suite.card, nil)
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&inactive, nil)

	resp, err := suite.service.AddTransaction(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(resp)

	var failure *validation.Failure
	suite.Require().True(errors.As(err, &failure))
	suite.Equal(validation.KindCrossReference, failure.Kind)
	suite.Equal("accountID", failure.Field)
}

func (suite *TransactionServiceTestSuite) TestAddTransaction_ConfirmationGate() {
	ctx := context.Background()
	req := suite.validAddRequest()
	req.Confirm = "N"

	suite.mockCardRepo.On("FindCardByNumber", ctx, suite.card.CardNumber).Return(&suite.card, nil)
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&suite.account, nil)

	resp, err := suite.service.AddTransaction(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(resp)

	var failure *validation.Failure
	suite.Require().True(errors.As(err, &failure))
	suite.Equal(validation.KindConfirmationRequired, failure.Kind)

	// The gate must fire with nothing allocated or written.
	suite.mockIDSvc.AssertNotCalled(suite.T(), "NextTransactionID", mock.Anything)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestAddTransaction_DuplicateIdentifierBecomesConflict() {
	ctx := context.Background()
	req := suite.validAddRequest()

	suite.mockCardRepo.On("FindCardByNumber", ctx, suite.card.CardNumber).Return(&suite.card, nil)
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&suite.account, nil)
	suite.mockIDSvc.On("NextTransactionID", ctx).Return("0000000000000042", nil)
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.Anything, suite.account.AccountID, mock.Anything).Return(apperrors.ErrDuplicate)

	resp, err := suite.service.AddTransaction(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.True(errors.Is(err, apperrors.ErrConflict))
}

func (suite *TransactionServiceTestSuite) TestAddTransaction_DefaultsTimestamps() {
	ctx := context.Background()
	req := suite.validAddRequest()
	req.OriginalDate = ""
	req.ProcessingDate = ""

	suite.mockCardRepo.On("FindCardByNumber", ctx, suite.card.CardNumber).Return(&suite.card, nil)
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(&suite.account, nil)
	suite.mockIDSvc.On("NextTransactionID", ctx).Return("0000000000000045", nil)
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), suite.account.AccountID, mock.Anything).Return(nil)

	before := time.Now().UTC()
	_, err := suite.service.AddTransaction(ctx, req, suite.userID)
	suite.Require().NoError(err)

	savedTxn := suite.mockTxnRepo.Calls[0].Arguments.Get(1).(domain.Transaction)
	suite.False(savedTxn.ProcessingTimestamp.Before(before))
	suite.True(savedTxn.OriginalTimestamp.Equal(savedTxn.ProcessingTimestamp))
}

func (suite *TransactionServiceTestSuite) TestGetTransactionByID_Success() {
	ctx := context.Background()
	txn := &domain.Transaction{
		TransactionID: "0000000000000042",
		TypeCode:      "01",
		Amount:        decimal.RequireFromString("100.00"),
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil)

	got, err := suite.service.GetTransactionByID(ctx, txn.TransactionID)
	suite.Require().NoError(err)
	suite.Equal(txn.TransactionID, got.TransactionID)
}

func (suite *TransactionServiceTestSuite) TestGetTransactionByID_MalformedIdentifier() {
	ctx := context.Background()

	got, err := suite.service.GetTransactionByID(ctx, "nope")
	suite.Require().Error(err)
	suite.Nil(got)

	var failure *validation.Failure
	suite.Require().True(errors.As(err, &failure))
	suite.Equal(validation.KindFormat, failure.Kind)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "FindTransactionByID", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestGetTransactionByID_NotFound() {
	ctx := context.Background()

	suite.mockTxnRepo.On("FindTransactionByID", ctx, "0000000000000099").Return(nil, apperrors.ErrNotFound)

	got, err := suite.service.GetTransactionByID(ctx, "0000000000000099")
	suite.Require().Error(err)
	suite.Nil(got)
	suite.True(errors.Is(err, apperrors.ErrNotFound))
}

func TestTransactionService(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
