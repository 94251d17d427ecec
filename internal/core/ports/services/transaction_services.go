package services

import (
	"context"

	"github.com/cardledger/card_ledger_app/internal/core/domain"
	"github.com/cardledger/card_ledger_app/internal/dto"
)

// IdentifierSvcFacade allocates new transaction identifiers.
type IdentifierSvcFacade interface {
	NextTransactionID(ctx context.Context) (string, error)
}

// TransactionSvcFacade exposes the transaction processing operations.
// Validation failures come back as *validation.Failure (add path) or
// validation.Failures (list path) error values.
type TransactionSvcFacade interface {
	AddTransaction(ctx context.Context, req dto.CreateTransactionRequest, creatorUserID string) (*dto.CreateTransactionResponse, error)
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}
