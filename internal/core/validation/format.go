package validation

import (
	"time"

	"github.com/cardledger/card_ledger_app/internal/core/domain"
)

// dateLayouts are the accepted inbound date formats: the fixed 8-digit form and
// the ISO forms. time.Parse rejects impossible calendar dates, leap years included.
var dateLayouts = []string{"20060102", "2006-01-02", time.RFC3339}

// ParseFlexibleDate parses a date in any of the accepted inbound formats.
func ParseFlexibleDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return len(s) > 0
}

// CheckTransactionIDFormat validates a transaction identifier supplied on a view
// or filter path: fixed width, alphanumeric only.
func CheckTransactionIDFormat(id string) *Failure {
	if len(id) != domain.TransactionIDLength || !isAlphanumeric(id) {
		return failf(KindFormat, "transactionID", "transaction identifier must be exactly %d alphanumeric characters", domain.TransactionIDLength)
	}
	return nil
}

func checkAccountIDFormat(accountID string) *Failure {
	if len(accountID) != domain.AccountIDLength || !isDigits(accountID) {
		return failf(KindFormat, "accountID", "account identifier must be exactly %d digits", domain.AccountIDLength)
	}
	return nil
}

func checkCardNumberFormat(cardNumber string) *Failure {
	if len(cardNumber) != domain.CardNumberLength || !isDigits(cardNumber) {
		return failf(KindFormat, "cardNumber", "card number must be exactly %d digits", domain.CardNumberLength)
	}
	return nil
}
