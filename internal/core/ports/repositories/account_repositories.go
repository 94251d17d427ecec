package repositories

import (
	"context"

	"github.com/cardledger/card_ledger_app/internal/core/domain"
)

// AccountRepository is the account-lookup capability, used for identity
// resolution and the current-balance read.
type AccountRepository interface {
	// FindAccountByID returns apperrors.ErrNotFound for an unknown account.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
}
