package repositories

import (
	"context"
	"time"

	"github.com/cardledger/card_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// QueryPath identifies the indexed access path chosen for one listing query.
// The paths are not arbitrarily composable; the filter engine picks exactly one.
type QueryPath int

const (
	PathUnfiltered QueryPath = iota
	PathTransactionID
	PathCard
	PathAccount
	PathDateRange
	PathType
	PathCategory
	PathAmountRange
	PathText
)

// TransactionQuery carries the criteria for one listing query: the chosen
// primary path plus whichever secondary bounds that path supports.
type TransactionQuery struct {
	Path          QueryPath
	TransactionID string
	CardNumber    string
	AccountID     string
	From          *time.Time
	To            *time.Time
	FromAmount    *decimal.Decimal
	ToAmount      *decimal.Decimal
	TypeCode      string
	CategoryCode  string
	Text          string
}

// SortField names a sortable transaction column.
type SortField string

const (
	SortByProcessingTimestamp SortField = "processingTimestamp"
	SortByOriginalTimestamp   SortField = "originalTimestamp"
	SortByAmount              SortField = "amount"
	SortByTransactionID       SortField = "transactionID"
)

// SortSpec is the requested ordering for a listing query.
type SortSpec struct {
	Field SortField
	Desc  bool
}

// TransactionRepository is the record-store capability for transactions.
type TransactionRepository interface {
	// SaveTransaction persists the transaction and applies the balance delta to
	// the owning account atomically. A duplicate identifier surfaces as
	// apperrors.ErrDuplicate.
	SaveTransaction(ctx context.Context, txn domain.Transaction, accountID string, balanceDelta decimal.Decimal) error

	// FindTransactionByID returns apperrors.ErrNotFound for an unknown identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindHighestTransactionID returns the lexicographically highest identifier,
	// or apperrors.ErrNotFound when the store holds no transactions.
	FindHighestTransactionID(ctx context.Context) (string, error)

	// QueryTransactions returns one page of matches plus the total match count.
	QueryTransactions(ctx context.Context, query TransactionQuery, sort SortSpec, offset, limit int) ([]domain.Transaction, int64, error)
}
