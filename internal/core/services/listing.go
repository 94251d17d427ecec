package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	portsrepo "github.com/cardledger/card_ledger_app/internal/core/ports/repositories"
	"github.com/cardledger/card_ledger_app/internal/core/validation"
	"github.com/cardledger/card_ledger_app/internal/dto"
	"github.com/cardledger/card_ledger_app/internal/middleware"
	"github.com/shopspring/decimal"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// queryPaths is the decision table mapping "which predicates are present" to
// the indexed access path, in priority order. The first matching row wins;
// the priority order exists because the access paths are not arbitrarily
// composable, so the engine picks the most selective path available.
var queryPaths = []struct {
	path portsrepo.QueryPath
	when func(c *validation.ListCheck) bool
}{
	{portsrepo.PathTransactionID, func(c *validation.ListCheck) bool { return c.Params.TransactionID != "" }},
	{portsrepo.PathCard, func(c *validation.ListCheck) bool { return c.Params.CardNumber != "" }},
	{portsrepo.PathAccount, func(c *validation.ListCheck) bool { return c.Params.AccountID != "" }},
	{portsrepo.PathDateRange, func(c *validation.ListCheck) bool { return c.From != nil || c.To != nil }},
	{portsrepo.PathType, func(c *validation.ListCheck) bool { return c.Params.TypeCode != "" }},
	{portsrepo.PathCategory, func(c *validation.ListCheck) bool { return c.Params.CategoryCode != "" }},
	{portsrepo.PathAmountRange, func(c *validation.ListCheck) bool { return c.FromAmount != nil || c.ToAmount != nil }},
	{portsrepo.PathText, func(c *validation.ListCheck) bool { return c.Params.Text != "" }},
}

// buildTransactionQuery selects the access path and attaches the secondary
// bounds that path supports (date range for card/account paths).
func buildTransactionQuery(c *validation.ListCheck) portsrepo.TransactionQuery {
	q := portsrepo.TransactionQuery{Path: portsrepo.PathUnfiltered}
	for _, row := range queryPaths {
		if row.when(c) {
			q.Path = row.path
			break
		}
	}

	switch q.Path {
	case portsrepo.PathTransactionID:
		q.TransactionID = c.Params.TransactionID
	case portsrepo.PathCard:
		q.CardNumber = c.Params.CardNumber
		q.From, q.To = c.From, c.To
	case portsrepo.PathAccount:
		q.AccountID = c.Params.AccountID
		q.From, q.To = c.From, c.To
	case portsrepo.PathDateRange:
		q.From, q.To = c.From, c.To
	case portsrepo.PathType:
		q.TypeCode = c.Params.TypeCode
	case portsrepo.PathCategory:
		q.CategoryCode = c.Params.CategoryCode
	case portsrepo.PathAmountRange:
		q.FromAmount, q.ToAmount = c.FromAmount, c.ToAmount
	case portsrepo.PathText:
		q.Text = c.Params.Text
	}
	return q
}

// describeAppliedFilter renders the chosen access path for the response.
func describeAppliedFilter(q portsrepo.TransactionQuery) string {
	dateSuffix := func() string {
		switch {
		case q.From != nil && q.To != nil:
			return fmt.Sprintf(" between %s and %s", q.From.Format("2006-01-02"), q.To.Format("2006-01-02"))
		case q.From != nil:
			return fmt.Sprintf(" from %s", q.From.Format("2006-01-02"))
		case q.To != nil:
			return fmt.Sprintf(" until %s", q.To.Format("2006-01-02"))
		}
		return ""
	}

	switch q.Path {
	case portsrepo.PathTransactionID:
		return fmt.Sprintf("transaction %s", q.TransactionID)
	case portsrepo.PathCard:
		return fmt.Sprintf("card %s%s", q.CardNumber, dateSuffix())
	case portsrepo.PathAccount:
		return fmt.Sprintf("account %s%s", q.AccountID, dateSuffix())
	case portsrepo.PathDateRange:
		return "transactions" + dateSuffix()
	case portsrepo.PathType:
		return fmt.Sprintf("type %s", q.TypeCode)
	case portsrepo.PathCategory:
		return fmt.Sprintf("category %s", q.CategoryCode)
	case portsrepo.PathAmountRange:
		switch {
		case q.FromAmount != nil && q.ToAmount != nil:
			return fmt.Sprintf("amount between %s and %s", q.FromAmount.String(), q.ToAmount.String())
		case q.FromAmount != nil:
			return fmt.Sprintf("amount at least %s", q.FromAmount.String())
		default:
			return fmt.Sprintf("amount at most %s", q.ToAmount.String())
		}
	case portsrepo.PathText:
		return fmt.Sprintf("text %q", q.Text)
	}
	return "all transactions"
}

func buildSortSpec(params *dto.ListTransactionsParams) portsrepo.SortSpec {
	field := portsrepo.SortByProcessingTimestamp
	switch params.SortBy {
	case "originalTimestamp":
		field = portsrepo.SortByOriginalTimestamp
	case "amount":
		field = portsrepo.SortByAmount
	case "transactionID":
		field = portsrepo.SortByTransactionID
	}
	// Most recent first by default.
	desc := !strings.EqualFold(params.SortDir, "asc")
	return portsrepo.SortSpec{Field: field, Desc: desc}
}

func clampPage(page int) int {
	if page < 0 {
		return 0
	}
	return page
}

func clampPageSize(size int) int {
	if size <= 0 {
		return defaultPageSize
	}
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}

// ListTransactions returns one page of transactions matching the filter.
// Filter problems are collected and returned together before any store call.
// Implements portssvc.TransactionSvcFacade.
func (s *transactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	check := validation.NewListCheck(&params)
	if failures := validation.Collect(check, validation.ListRules()); len(failures) > 0 {
		return nil, failures
	}

	page := clampPage(params.Page)
	size := clampPageSize(params.PageSize)
	query := buildTransactionQuery(check)
	sortSpec := buildSortSpec(&params)

	items, total, err := s.txnRepo.QueryTransactions(ctx, query, sortSpec, page*size, size)
	if err != nil {
		logger.Error("Failed to query transactions", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}

	totalPages := int((total + int64(size) - 1) / int64(size))

	// The page aggregate is recomputed from the returned page every time,
	// never cached, so it cannot drift from the page content.
	pageTotal := decimal.Zero
	for i := range items {
		pageTotal = pageTotal.Add(items[i].Amount)
	}

	resp := &dto.ListTransactionsResponse{
		Transactions:    dto.ToTransactionResponses(items),
		Page:            page + 1,
		PageSize:        size,
		TotalPages:      totalPages,
		TotalRecords:    total,
		PageAmountTotal: pageTotal,
		AppliedFilter:   describeAppliedFilter(query),
	}

	logger.Info("Transactions listed",
		slog.Int("count", len(items)),
		slog.Int64("total", total),
		slog.String("filter", resp.AppliedFilter),
	)
	return resp, nil
}
