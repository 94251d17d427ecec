package validation

import "github.com/cardledger/card_ledger_app/internal/core/domain"

func isKnownTypeCode(code string) bool {
	_, ok := domain.TransactionTypeByCode(code)
	return ok
}

func isKnownCategoryCode(code string) bool {
	return domain.IsKnownCategoryCode(code)
}
