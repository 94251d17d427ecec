package domain

// CardNumberLength is the fixed width of a card number (digits only).
const CardNumberLength = 16

// Card represents the card/account cross-reference used during identity resolution.
type Card struct {
	CardNumber   string `json:"cardNumber"` // Primary Key, 16 digits
	AccountID    string `json:"accountID"`  // FK -> accounts.account_id
	ActiveStatus bool   `json:"activeStatus"`
	AuditFields
}
