package validation

import (
	"strings"
	"time"

	"github.com/cardledger/card_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
)

// SortFields is the whitelist of sortable fields for listing. The empty string
// selects the default (processing timestamp).
var SortFields = map[string]struct{}{
	"processingTimestamp": {},
	"originalTimestamp":   {},
	"amount":              {},
	"transactionID":       {},
}

// ListCheck is the subject the list-filter rules run against. Rules normalize
// the string predicates into typed values as they pass.
type ListCheck struct {
	Params     *dto.ListTransactionsParams
	From       *time.Time
	To         *time.Time
	FromAmount *decimal.Decimal
	ToAmount   *decimal.Decimal
}

// NewListCheck wraps listing parameters for rule evaluation.
func NewListCheck(params *dto.ListTransactionsParams) *ListCheck {
	return &ListCheck{Params: params}
}

// ListRules are the filter rules, evaluated in collect-all mode so a client
// form sees every problem at once. Page and size are clamped by the engine,
// not rejected here.
func ListRules() []Rule[ListCheck] {
	return []Rule[ListCheck]{
		ruleSortField,
		ruleSortDirection,
		ruleFilterTransactionID,
		ruleFilterCardNumber,
		ruleFilterAccountID,
		ruleFromDate,
		ruleToDate,
		ruleDateOrder,
		ruleFromAmount,
		ruleToAmount,
		ruleAmountOrder,
		ruleFilterTypeCode,
		ruleFilterCategoryCode,
	}
}

func ruleSortField(c *ListCheck) *Failure {
	if c.Params.SortBy == "" {
		return nil
	}
	if _, ok := SortFields[c.Params.SortBy]; !ok {
		return failf(KindRange, "sortBy", "sort field %q is not sortable", c.Params.SortBy)
	}
	return nil
}

func ruleSortDirection(c *ListCheck) *Failure {
	switch strings.ToLower(c.Params.SortDir) {
	case "", "asc", "desc":
		return nil
	}
	return failf(KindRange, "sortDir", "sort direction must be asc or desc")
}

func ruleFilterTransactionID(c *ListCheck) *Failure {
	if c.Params.TransactionID == "" {
		return nil
	}
	return CheckTransactionIDFormat(c.Params.TransactionID)
}

func ruleFilterCardNumber(c *ListCheck) *Failure {
	if c.Params.CardNumber == "" {
		return nil
	}
	return checkCardNumberFormat(c.Params.CardNumber)
}

func ruleFilterAccountID(c *ListCheck) *Failure {
	if c.Params.AccountID == "" {
		return nil
	}
	return checkAccountIDFormat(c.Params.AccountID)
}

func ruleFromDate(c *ListCheck) *Failure {
	if c.Params.FromDate == "" {
		return nil
	}
	t, err := ParseFlexibleDate(c.Params.FromDate)
	if err != nil {
		return failf(KindTemporal, "fromDate", "start date %q is not a valid date", c.Params.FromDate)
	}
	c.From = &t
	return nil
}

func ruleToDate(c *ListCheck) *Failure {
	if c.Params.ToDate == "" {
		return nil
	}
	t, err := ParseFlexibleDate(c.Params.ToDate)
	if err != nil {
		return failf(KindTemporal, "toDate", "end date %q is not a valid date", c.Params.ToDate)
	}
	c.To = &t
	return nil
}

func ruleDateOrder(c *ListCheck) *Failure {
	if c.From == nil || c.To == nil {
		return nil
	}
	if c.From.After(*c.To) {
		return failf(KindTemporal, "toDate", "end date must not be before start date")
	}
	return nil
}

func ruleFromAmount(c *ListCheck) *Failure {
	if c.Params.FromAmount == "" {
		return nil
	}
	d, err := decimal.NewFromString(c.Params.FromAmount)
	if err != nil {
		return failf(KindFormat, "fromAmount", "lower amount bound %q is not a valid amount", c.Params.FromAmount)
	}
	c.FromAmount = &d
	return nil
}

func ruleToAmount(c *ListCheck) *Failure {
	if c.Params.ToAmount == "" {
		return nil
	}
	d, err := decimal.NewFromString(c.Params.ToAmount)
	if err != nil {
		return failf(KindFormat, "toAmount", "upper amount bound %q is not a valid amount", c.Params.ToAmount)
	}
	c.ToAmount = &d
	return nil
}

func ruleAmountOrder(c *ListCheck) *Failure {
	if c.FromAmount == nil || c.ToAmount == nil {
		return nil
	}
	if c.FromAmount.GreaterThan(*c.ToAmount) {
		return failf(KindRange, "toAmount", "upper amount bound must not be below lower amount bound")
	}
	return nil
}

func ruleFilterTypeCode(c *ListCheck) *Failure {
	if c.Params.TypeCode == "" {
		return nil
	}
	if !isKnownTypeCode(c.Params.TypeCode) {
		return failf(KindRange, "typeCode", "transaction type %q is not a known type code", c.Params.TypeCode)
	}
	return nil
}

func ruleFilterCategoryCode(c *ListCheck) *Failure {
	if c.Params.CategoryCode == "" {
		return nil
	}
	if !isKnownCategoryCode(c.Params.CategoryCode) {
		return failf(KindRange, "categoryCode", "transaction category %q is not a known category code", c.Params.CategoryCode)
	}
	return nil
}
