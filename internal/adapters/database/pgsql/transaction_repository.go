package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cardledger/card_ledger_app/internal/apperrors"
	"github.com/cardledger/card_ledger_app/internal/core/domain"
	portsrepo "github.com/cardledger/card_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const pgUniqueViolation = "23505"

const transactionColumns = `transaction_id, type_code, category_code, source, description, amount, card_number,
		merchant_id, merchant_name, merchant_city, merchant_zip, original_timestamp, processing_timestamp,
		created_at, created_by, last_updated_at, last_updated_by`

// PgxTransactionRepository is the pgx implementation of the transaction store.
type PgxTransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new repository for transaction data.
func NewTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{pool: pool}
}

var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

// SaveTransaction inserts the transaction and applies the balance delta to the
// owning account within one database transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, accountID string, balanceDelta decimal.Decimal) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // No-op after commit.
	}()

	insertQuery := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err = tx.Exec(ctx, insertQuery,
		txn.TransactionID,
		txn.TypeCode,
		txn.CategoryCode,
		txn.Source,
		txn.Description,
		txn.Amount,
		txn.CardNumber,
		txn.MerchantID,
		txn.MerchantName,
		txn.MerchantCity,
		txn.MerchantZip,
		txn.OriginalTimestamp,
		txn.ProcessingTimestamp,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("transaction %s already exists: %w", txn.TransactionID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
	}

	updateQuery := `
		UPDATE accounts
		SET current_balance = current_balance + $1, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $4;
	`
	tag, err := tx.Exec(ctx, updateQuery, balanceDelta, txn.LastUpdatedAt, txn.LastUpdatedBy, accountID)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s missing during balance update: %w", accountID, apperrors.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction %s: %w", txn.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves a transaction by its identifier.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	txn, err := scanTransactionRow(r.pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	return txn, nil
}

// FindHighestTransactionID returns the highest existing transaction identifier.
func (r *PgxTransactionRepository) FindHighestTransactionID(ctx context.Context) (string, error) {
	query := `SELECT transaction_id FROM transactions ORDER BY transaction_id DESC LIMIT 1;`

	var id string
	err := r.pool.QueryRow(ctx, query).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to find highest transaction ID: %w", err)
	}
	return id, nil
}

// sortColumns maps sortable fields to their columns.
var sortColumns = map[portsrepo.SortField]string{
	portsrepo.SortByProcessingTimestamp: "processing_timestamp",
	portsrepo.SortByOriginalTimestamp:   "original_timestamp",
	portsrepo.SortByAmount:              "amount",
	portsrepo.SortByTransactionID:       "transaction_id",
}

// QueryTransactions runs the counted, paged query for the chosen access path.
func (r *PgxTransactionRepository) QueryTransactions(ctx context.Context, query portsrepo.TransactionQuery, sort portsrepo.SortSpec, offset, limit int) ([]domain.Transaction, int64, error) {
	where, args := buildWhereClause(query)

	countQuery := `SELECT COUNT(*) FROM transactions` + where + `;`
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	column, ok := sortColumns[sort.Field]
	if !ok {
		column = "processing_timestamp"
	}
	direction := "ASC"
	if sort.Desc {
		direction = "DESC"
	}

	pageQuery := fmt.Sprintf(`SELECT `+transactionColumns+` FROM transactions%s ORDER BY %s %s, transaction_id %s LIMIT $%d OFFSET $%d;`,
		where, column, direction, direction, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		txn, err := scanTransactionRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return transactions, total, nil
}

// buildWhereClause renders the WHERE clause for one access path. Each path maps
// to an indexed column; only the secondary bounds the path supports are added.
func buildWhereClause(q portsrepo.TransactionQuery) (string, []any) {
	var conds []string
	var args []any

	add := func(format string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(format, len(args)))
	}
	addDateBounds := func() {
		if q.From != nil {
			add("processing_timestamp >= $%d", *q.From)
		}
		if q.To != nil {
			// End date is inclusive; bound below the following day.
			add("processing_timestamp < $%d", q.To.AddDate(0, 0, 1))
		}
	}

	switch q.Path {
	case portsrepo.PathTransactionID:
		add("transaction_id = $%d", q.TransactionID)
	case portsrepo.PathCard:
		add("card_number = $%d", q.CardNumber)
		addDateBounds()
	case portsrepo.PathAccount:
		add("card_number IN (SELECT card_number FROM cards WHERE account_id = $%d)", q.AccountID)
		addDateBounds()
	case portsrepo.PathDateRange:
		addDateBounds()
	case portsrepo.PathType:
		add("type_code = $%d", q.TypeCode)
	case portsrepo.PathCategory:
		add("category_code = $%d", q.CategoryCode)
	case portsrepo.PathAmountRange:
		if q.FromAmount != nil {
			add("amount >= $%d", *q.FromAmount)
		}
		if q.ToAmount != nil {
			add("amount <= $%d", *q.ToAmount)
		}
	case portsrepo.PathText:
		args = append(args, "%"+q.Text+"%")
		conds = append(conds, fmt.Sprintf("(merchant_name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// rowScanner covers both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransactionRow(row rowScanner) (*domain.Transaction, error) {
	var txn domain.Transaction
	err := row.Scan(
		&txn.TransactionID,
		&txn.TypeCode,
		&txn.CategoryCode,
		&txn.Source,
		&txn.Description,
		&txn.Amount,
		&txn.CardNumber,
		&txn.MerchantID,
		&txn.MerchantName,
		&txn.MerchantCity,
		&txn.MerchantZip,
		&txn.OriginalTimestamp,
		&txn.ProcessingTimestamp,
		&txn.CreatedAt,
		&txn.CreatedBy,
		&txn.LastUpdatedAt,
		&txn.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}
