package repositories

import (
	"context"

	"github.com/cardledger/card_ledger_app/internal/core/domain"
)

// CardRepository is the card cross-reference capability.
type CardRepository interface {
	// FindCardByNumber returns apperrors.ErrNotFound for an unknown card.
	FindCardByNumber(ctx context.Context, cardNumber string) (*domain.Card, error)
	// FindCardByAccountID returns the account's card, or apperrors.ErrNotFound
	// when the account has none.
	FindCardByAccountID(ctx context.Context, accountID string) (*domain.Card, error)
}
