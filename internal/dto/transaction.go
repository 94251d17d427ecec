package dto

import (
	"time"

	"github.com/cardledger/card_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data a caller supplies to add a transaction.
// Semantic checks (presence, format, ranges, temporal ordering) are owned by the
// validation pipeline so failures carry the platform taxonomy; the binding tags
// below only bound fields the pipeline does not inspect.
type CreateTransactionRequest struct {
	AccountID      string           `json:"accountID"`  // optional, 11 digits when present
	CardNumber     string           `json:"cardNumber"` // optional, 16 digits when present
	TypeCode       string           `json:"typeCode"`
	CategoryCode   string           `json:"categoryCode"`
	Source         string           `json:"source" binding:"omitempty,max=10"`
	Description    string           `json:"description" binding:"omitempty,max=100"`
	Amount         *decimal.Decimal `json:"amount"` // pointer so a missing amount is detectable
	MerchantID     string           `json:"merchantID"`
	MerchantName   string           `json:"merchantName" binding:"omitempty,max=50"`
	MerchantCity   string           `json:"merchantCity" binding:"omitempty,max=50"`
	MerchantZip    string           `json:"merchantZip" binding:"omitempty,max=10"`
	OriginalDate   string           `json:"originalDate"`   // YYYYMMDD or ISO; defaults to processing date
	ProcessingDate string           `json:"processingDate"` // YYYYMMDD or ISO; defaults to now
	Confirm        string           `json:"confirm"`        // "Y" to confirm the write
}

// CreateTransactionResponse is the outcome of a successful add.
type CreateTransactionResponse struct {
	TransactionID   string          `json:"transactionID"`
	PreviousBalance decimal.Decimal `json:"previousBalance"`
	CurrentBalance  decimal.Decimal `json:"currentBalance"`
}

// TransactionResponse defines the data returned for a single transaction.
type TransactionResponse struct {
	TransactionID       string          `json:"transactionID"`
	TypeCode            string          `json:"typeCode"`
	CategoryCode        string          `json:"categoryCode"`
	Source              string          `json:"source"`
	Description         string          `json:"description"`
	Amount              decimal.Decimal `json:"amount"`
	CardNumber          string          `json:"cardNumber"`
	MerchantID          string          `json:"merchantID"`
	MerchantName        string          `json:"merchantName"`
	MerchantCity        string          `json:"merchantCity"`
	MerchantZip         string          `json:"merchantZip"`
	OriginalTimestamp   time.Time       `json:"originalTimestamp"`
	ProcessingTimestamp time.Time       `json:"processingTimestamp"`
	CreatedAt           time.Time       `json:"createdAt"`
	CreatedBy           string          `json:"createdBy"`
}

// ListTransactionsParams holds the normalized query parameters for listing.
// Predicates are carried as strings and normalized by the validation pipeline,
// which collects every violated rule rather than stopping at the first.
type ListTransactionsParams struct {
	Page     int    `form:"page"`     // 0-based internally; clamped to >= 0
	PageSize int    `form:"pageSize"` // clamped to [1,100]; default 20
	SortBy   string `form:"sortBy"`   // whitelist; default processingTimestamp
	SortDir  string `form:"sortDir"`  // asc|desc; default desc

	TransactionID string `form:"transactionID"`
	CardNumber    string `form:"cardNumber"`
	AccountID     string `form:"accountID"`
	FromDate      string `form:"fromDate"`
	ToDate        string `form:"toDate"`
	FromAmount    string `form:"fromAmount"`
	ToAmount      string `form:"toAmount"`
	TypeCode      string `form:"typeCode"`
	CategoryCode  string `form:"categoryCode"`
	Text          string `form:"text"` // merchant/description fragment, case-insensitive
}

// ListTransactionsResponse is one page of transactions plus paging metadata.
// PageAmountTotal is the aggregate over the returned page only, recomputed from
// page content on every request.
type ListTransactionsResponse struct {
	Transactions    []TransactionResponse `json:"transactions"`
	Page            int                   `json:"page"` // 1-based for external consumers
	PageSize        int                   `json:"pageSize"`
	TotalPages      int                   `json:"totalPages"`
	TotalRecords    int64                 `json:"totalRecords"`
	PageAmountTotal decimal.Decimal       `json:"pageAmountTotal"`
	AppliedFilter   string                `json:"appliedFilter"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:       txn.TransactionID,
		TypeCode:            txn.TypeCode,
		CategoryCode:        txn.CategoryCode,
		Source:              txn.Source,
		Description:         txn.Description,
		Amount:              txn.Amount,
		CardNumber:          txn.CardNumber,
		MerchantID:          txn.MerchantID,
		MerchantName:        txn.MerchantName,
		MerchantCity:        txn.MerchantCity,
		MerchantZip:         txn.MerchantZip,
		OriginalTimestamp:   txn.OriginalTimestamp,
		ProcessingTimestamp: txn.ProcessingTimestamp,
		CreatedAt:           txn.CreatedAt,
		CreatedBy:           txn.CreatedBy,
	}
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
