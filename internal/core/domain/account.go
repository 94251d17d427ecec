package domain

import (
	"github.com/shopspring/decimal"
)

// AccountIDLength is the fixed width of an account identifier (digits only).
const AccountIDLength = 11

// Account represents a card account within the core domain.
// CurrentBalance is the owed balance: debits increase it, credits decrease it.
type Account struct {
	AccountID      string          `json:"accountID"` // Primary Key, 11 digits
	ActiveStatus   bool            `json:"activeStatus"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	CreditLimit    decimal.Decimal `json:"creditLimit"`
	AuditFields
}
