package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cardledger/card_ledger_app/internal/apperrors"
	"github.com/cardledger/card_ledger_app/internal/core/domain"
	portsrepo "github.com/cardledger/card_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/cardledger/card_ledger_app/internal/core/ports/services"
	"github.com/cardledger/card_ledger_app/internal/core/validation"
	"github.com/cardledger/card_ledger_app/internal/dto"
	"github.com/cardledger/card_ledger_app/internal/middleware"
)

// transactionService orchestrates the transaction processing pipeline:
// validation, identity resolution, identifier allocation, balance computation,
// and the single persistence write. Nothing mutates before the final step, so
// failure recovery never has anything to roll back.
type transactionService struct {
	txnRepo     portsrepo.TransactionRepository
	accountRepo portsrepo.AccountRepository
	cardRepo    portsrepo.CardRepository
	idSvc       portssvc.IdentifierSvcFacade
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(
	txnRepo portsrepo.TransactionRepository,
	accountRepo portsrepo.AccountRepository,
	cardRepo portsrepo.CardRepository,
	idSvc portssvc.IdentifierSvcFacade,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
		cardRepo:    cardRepo,
		idSvc:       idSvc,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// resolveIdentity resolves the supplied account/card pair into a consistent
// account-card pairing. Exactly one of the two may drive the lookup; when both
// are supplied the card must belong to the account.
func (s *transactionService) resolveIdentity(ctx context.Context, req *dto.CreateTransactionRequest) (*domain.Account, *domain.Card, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var card *domain.Card
	var err error

	if req.CardNumber != "" {
		card, err = s.cardRepo.FindCardByNumber(ctx, req.CardNumber)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, nil, &validation.Failure{Kind: validation.KindCrossReference, Field: "cardNumber", Message: "card number is not known"}
			}
			logger.Error("Failed to look up card", slog.String("error", err.Error()))
			return nil, nil, fmt.Errorf("failed to look up card: %w", err)
		}
		if req.AccountID != "" && card.AccountID != req.AccountID {
			return nil, nil, &validation.Failure{Kind: validation.KindCrossReference, Field: "cardNumber", Message: "card does not belong to the supplied account"}
		}
	} else {
		card, err = s.cardRepo.FindCardByAccountID(ctx, req.AccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, nil, &validation.Failure{Kind: validation.KindCrossReference, Field: "accountID", Message: "account has no card on file"}
			}
			logger.Error("Failed to look up card for account", slog.String("error", err.Error()))
			return nil, nil, fmt.Errorf("failed to look up card for account: %w", err)
		}
	}

	account, err := s.accountRepo.FindAccountByID(ctx, card.AccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, &validation.Failure{Kind: validation.KindCrossReference, Field: "accountID", Message: "account identifier is not known"}
		}
		logger.Error("Failed to look up account", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if !account.ActiveStatus {
		return nil, nil, &validation.Failure{Kind: validation.KindCrossReference, Field: "accountID", Message: "account is not active"}
	}

	return account, card, nil
}

// AddTransaction validates and records a new transaction.
// Implements portssvc.TransactionSvcFacade.
func (s *transactionService) AddTransaction(ctx context.Context, req dto.CreateTransactionRequest, creatorUserID string) (*dto.CreateTransactionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	check := validation.NewAddCheck(&req)

	// Identity resolution short-circuits before any other stage.
	if f := validation.First(check, validation.IdentityRules()); f != nil {
		return nil, f
	}
	account, card, err := s.resolveIdentity(ctx, &req)
	if err != nil {
		return nil, err
	}

	// Remaining stages in fixed order, first failure wins. The confirmation
	// gate is the last rule, so an unconfirmed request reaches this point with
	// every other check already passed and nothing allocated or written.
	if f := validation.First(check, validation.AddRules()); f != nil {
		return nil, f
	}

	now := time.Now().UTC()
	processing := check.Processing
	if processing.IsZero() {
		processing = now
	}
	original := check.Original
	if original.IsZero() {
		original = processing
	}

	transactionID, err := s.idSvc.NextTransactionID(ctx)
	if err != nil {
		logger.Error("Failed to allocate transaction identifier", slog.String("error", err.Error()))
		return nil, err
	}

	txnType, _ := domain.TransactionTypeByCode(req.TypeCode)
	snapshot := ComputeBalanceImpact(txnType, check.Amount, account.CurrentBalance)

	txn := domain.Transaction{
		TransactionID:       transactionID,
		TypeCode:            req.TypeCode,
		CategoryCode:        req.CategoryCode,
		Source:              req.Source,
		Description:         req.Description,
		Amount:              check.Amount,
		CardNumber:          card.CardNumber,
		MerchantID:          req.MerchantID,
		MerchantName:        req.MerchantName,
		MerchantCity:        req.MerchantCity,
		MerchantZip:         req.MerchantZip,
		OriginalTimestamp:   original,
		ProcessingTimestamp: processing,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	delta := snapshot.Current.Sub(snapshot.Previous)
	if err := s.txnRepo.SaveTransaction(ctx, txn, account.AccountID, delta); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Transaction identifier collision on write", slog.String("transaction_id", transactionID))
			return nil, fmt.Errorf("%w: transaction identifier %s already exists", apperrors.ErrConflict, transactionID)
		}
		logger.Error("Failed to save transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	logger.Info("Transaction recorded",
		slog.String("transaction_id", transactionID),
		slog.String("account_id", account.AccountID),
		slog.String("type_code", txn.TypeCode),
	)

	return &dto.CreateTransactionResponse{
		TransactionID:   transactionID,
		PreviousBalance: snapshot.Previous,
		CurrentBalance:  snapshot.Current,
	}, nil
}

// GetTransactionByID retrieves a single transaction.
// Implements portssvc.TransactionSvcFacade.
func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if f := validation.CheckTransactionIDFormat(transactionID); f != nil {
		return nil, f
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find transaction by ID", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return txn, nil
}
