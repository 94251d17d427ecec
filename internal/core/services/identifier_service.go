package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/cardledger/card_ledger_app/internal/apperrors"
	"github.com/cardledger/card_ledger_app/internal/core/domain"
	portsrepo "github.com/cardledger/card_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/cardledger/card_ledger_app/internal/core/ports/services"
	"github.com/cardledger/card_ledger_app/internal/middleware"
	"github.com/cardledger/card_ledger_app/internal/utils"
)

const (
	// transactionIDSeed is the identifier assigned against an empty store.
	transactionIDSeed = "0000000000000001"

	// transactionIDAlphabet is the charset for fallback random identifiers.
	transactionIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	maxRandomIDAttempts = 5
)

// identifierService allocates transaction identifiers: zero-padded max+1 when
// the store's highest identifier is numeric, random tokens otherwise.
//
// The read-then-increment is not atomic; two concurrent callers can compute the
// same next value. The transactions table enforces identifier uniqueness, so a
// concurrent duplicate fails the write as a conflict instead of corrupting data.
type identifierService struct {
	txnRepo portsrepo.TransactionRepository
}

// NewIdentifierService creates a new identifier allocator.
func NewIdentifierService(txnRepo portsrepo.TransactionRepository) portssvc.IdentifierSvcFacade {
	return &identifierService{txnRepo: txnRepo}
}

var _ portssvc.IdentifierSvcFacade = (*identifierService)(nil)

// NextTransactionID returns the next transaction identifier.
func (s *identifierService) NextTransactionID(ctx context.Context) (string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	highest, err := s.txnRepo.FindHighestTransactionID(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return transactionIDSeed, nil
		}
		logger.Warn("Highest transaction identifier unavailable, falling back to random identifier", slog.String("error", err.Error()))
		return s.randomTransactionID(ctx)
	}

	next, ok := incrementNumericID(highest)
	if !ok {
		// Externally seeded or corrupt identifiers divert the sequence to
		// random tokens permanently; mixed identifier styles are accepted.
		logger.Warn("Highest transaction identifier is not numeric, falling back to random identifier", slog.String("highest_id", highest))
		return s.randomTransactionID(ctx)
	}
	return next, nil
}

// incrementNumericID parses a fixed-width numeric identifier and re-renders its
// successor zero-padded to the same width. ok is false when the identifier is
// not numeric or the successor would overflow the fixed width.
func incrementNumericID(id string) (string, bool) {
	if len(id) != domain.TransactionIDLength {
		return "", false
	}
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return "", false
	}
	next := fmt.Sprintf("%0*d", domain.TransactionIDLength, n+1)
	if len(next) != domain.TransactionIDLength {
		return "", false
	}
	return next, true
}

func (s *identifierService) randomTransactionID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxRandomIDAttempts; attempt++ {
		token, err := utils.GenerateSecureToken(domain.TransactionIDLength, transactionIDAlphabet)
		if err != nil {
			return "", fmt.Errorf("failed to generate random transaction identifier: %w", err)
		}

		_, err = s.txnRepo.FindTransactionByID(ctx, token)
		if errors.Is(err, apperrors.ErrNotFound) {
			return token, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check transaction identifier for collision: %w", err)
		}
		// Identifier already exists, regenerate.
	}
	return "", fmt.Errorf("%w: could not allocate a unique transaction identifier after %d attempts", apperrors.ErrConflict, maxRandomIDAttempts)
}
