package domain

// TransactionClass indicates whether a transaction type increases (DEBIT) or
// decreases (CREDIT) the account's owed balance.
type TransactionClass string

const (
	Debit  TransactionClass = "DEBIT"
	Credit TransactionClass = "CREDIT"
)

// TransactionType is one entry of the closed reference set of transaction types.
type TransactionType struct {
	Code        string           `json:"code"` // 2 digits
	Description string           `json:"description"`
	Class       TransactionClass `json:"class"`
}

// transactionTypes is the closed type -> classification mapping. The sign convention
// is a lookup table rather than per-type dispatch; the set is mirrored by the
// reference-data seed migration.
var transactionTypes = map[string]TransactionType{
	"01": {Code: "01", Description: "Purchase", Class: Debit},
	"02": {Code: "02", Description: "Payment", Class: Credit},
	"03": {Code: "03", Description: "Credit Adjustment", Class: Credit},
	"04": {Code: "04", Description: "Debit Adjustment", Class: Debit},
	"05": {Code: "05", Description: "Cash Advance", Class: Debit},
	"06": {Code: "06", Description: "Refund", Class: Credit},
	"07": {Code: "07", Description: "Fee", Class: Debit},
}

// transactionCategories is the closed category reference set.
var transactionCategories = map[string]string{
	"0001": "Retail",
	"0002": "Grocery",
	"0003": "Dining",
	"0004": "Travel",
	"0005": "Fuel",
	"0006": "Utilities",
	"0007": "Healthcare",
	"0008": "Entertainment",
	"0009": "Cash",
	"0010": "Other",
}

// TransactionTypeByCode looks up a transaction type in the closed reference set.
func TransactionTypeByCode(code string) (TransactionType, bool) {
	t, ok := transactionTypes[code]
	return t, ok
}

// IsKnownCategoryCode reports whether the category code belongs to the closed reference set.
func IsKnownCategoryCode(code string) bool {
	_, ok := transactionCategories[code]
	return ok
}

// CategoryDescription returns the description for a known category code, or "" otherwise.
func CategoryDescription(code string) string {
	return transactionCategories[code]
}
