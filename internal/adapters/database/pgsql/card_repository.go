package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cardledger/card_ledger_app/internal/apperrors"
	"github.com/cardledger/card_ledger_app/internal/core/domain"
	portsrepo "github.com/cardledger/card_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const cardColumns = `card_number, account_id, active_status, created_at, created_by, last_updated_at, last_updated_by`

// PgxCardRepository is the pgx implementation of the card cross-reference store.
type PgxCardRepository struct {
	pool *pgxpool.Pool
}

// NewCardRepository creates a new repository for card data.
func NewCardRepository(pool *pgxpool.Pool) portsrepo.CardRepository {
	return &PgxCardRepository{pool: pool}
}

var _ portsrepo.CardRepository = (*PgxCardRepository)(nil)

// FindCardByNumber retrieves a card by its number.
func (r *PgxCardRepository) FindCardByNumber(ctx context.Context, cardNumber string) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE card_number = $1;`
	card, err := r.scanCard(r.pool.QueryRow(ctx, query, cardNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find card by number: %w", err)
	}
	return card, nil
}

// FindCardByAccountID retrieves the account's card. Accounts with multiple
// cards resolve to the lowest card number for a deterministic pick.
func (r *PgxCardRepository) FindCardByAccountID(ctx context.Context, accountID string) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE account_id = $1 ORDER BY card_number LIMIT 1;`
	card, err := r.scanCard(r.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find card for account %s: %w", accountID, err)
	}
	return card, nil
}

func (r *PgxCardRepository) scanCard(row pgx.Row) (*domain.Card, error) {
	var card domain.Card
	err := row.Scan(
		&card.CardNumber,
		&card.AccountID,
		&card.ActiveStatus,
		&card.CreatedAt,
		&card.CreatedBy,
		&card.LastUpdatedAt,
		&card.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &card, nil
}
