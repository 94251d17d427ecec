package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionIDLength is the fixed width of a transaction identifier.
// Identifiers are immutable once assigned.
const TransactionIDLength = 16

// Transaction represents a single card transaction as persisted in the ledger.
type Transaction struct {
	TransactionID       string          `json:"transactionID"`       // Primary Key, fixed 16-char alphanumeric
	TypeCode            string          `json:"typeCode"`            // FK -> transaction_types.type_code
	CategoryCode        string          `json:"categoryCode"`        // FK -> transaction_categories.category_code
	Source              string          `json:"source"`              // Originating channel (e.g. POS TERM)
	Description         string          `json:"description"`         // Free-text description
	Amount              decimal.Decimal `json:"amount"`              // Signed, scale 2; precise decimal type
	CardNumber          string          `json:"cardNumber"`          // 16 digits
	MerchantID          string          `json:"merchantID"`          // 9 digits, may be empty
	MerchantName        string          `json:"merchantName"`        // Nullable
	MerchantCity        string          `json:"merchantCity"`        // Nullable
	MerchantZip         string          `json:"merchantZip"`         // Nullable
	OriginalTimestamp   time.Time       `json:"originalTimestamp"`   // When the transaction occurred
	ProcessingTimestamp time.Time       `json:"processingTimestamp"` // When the platform processed it
	AuditFields
}

// BalanceSnapshot captures an account balance immediately before and after a
// transaction is applied. Both values are exact decimals.
type BalanceSnapshot struct {
	Previous decimal.Decimal `json:"previousBalance"`
	Current  decimal.Decimal `json:"currentBalance"`
}
