package services

import (
	"github.com/cardledger/card_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ComputeBalanceImpact applies a transaction to the account's owed balance and
// returns the before/after snapshot. The transaction type's classification
// decides the sign: debits increase the owed balance, credits decrease it.
// All arithmetic is exact decimal; no binary floating point.
func ComputeBalanceImpact(txnType domain.TransactionType, amount, currentBalance decimal.Decimal) domain.BalanceSnapshot {
	delta := amount
	if txnType.Class == domain.Credit {
		delta = delta.Neg()
	}
	return domain.BalanceSnapshot{
		Previous: currentBalance,
		Current:  currentBalance.Add(delta),
	}
}
