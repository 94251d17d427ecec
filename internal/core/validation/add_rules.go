package validation

import (
	"strings"
	"time"

	"github.com/cardledger/card_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
)

const merchantIDLength = 9

// maxTransactionAmount bounds |amount| at 999,999,999.99.
var maxTransactionAmount = decimal.New(99_999_999_999, -2)

// AddCheck is the subject the add-path rules run against. Rules fill the
// normalized fields as they pass so the orchestrator does not re-parse input.
type AddCheck struct {
	Req        *dto.CreateTransactionRequest
	Amount     decimal.Decimal
	Original   time.Time // zero when not supplied
	Processing time.Time // zero when not supplied
}

// NewAddCheck wraps a request for rule evaluation.
func NewAddCheck(req *dto.CreateTransactionRequest) *AddCheck {
	return &AddCheck{Req: req}
}

// IdentityRules are the identity-resolution stage rules that need no store
// access: at least one of account/card present, and each well-formed when
// present. The orchestrator runs these first, then performs the card/account
// cross-reference lookups before any further validation.
func IdentityRules() []Rule[AddCheck] {
	return []Rule[AddCheck]{
		ruleIdentityPresence,
		ruleAccountIDFormat,
		ruleCardNumberFormat,
	}
}

// AddRules are the remaining add-path stages in fixed order: structural format,
// required-field presence, range/enumeration, temporal, confirmation gate.
func AddRules() []Rule[AddCheck] {
	return []Rule[AddCheck]{
		ruleMerchantIDFormat,
		ruleRequiredFields,
		ruleTypeCode,
		ruleCategoryCode,
		ruleAmountRange,
		ruleTemporal,
		ruleConfirmation,
	}
}

func ruleIdentityPresence(c *AddCheck) *Failure {
	if c.Req.AccountID == "" && c.Req.CardNumber == "" {
		return failf(KindCrossReference, "", "either an account identifier or a card number must be supplied")
	}
	return nil
}

func ruleAccountIDFormat(c *AddCheck) *Failure {
	if c.Req.AccountID == "" {
		return nil
	}
	return checkAccountIDFormat(c.Req.AccountID)
}

func ruleCardNumberFormat(c *AddCheck) *Failure {
	if c.Req.CardNumber == "" {
		return nil
	}
	return checkCardNumberFormat(c.Req.CardNumber)
}

func ruleMerchantIDFormat(c *AddCheck) *Failure {
	if c.Req.MerchantID == "" {
		return nil
	}
	if len(c.Req.MerchantID) != merchantIDLength || !isDigits(c.Req.MerchantID) {
		return failf(KindFormat, "merchantID", "merchant identifier must be exactly %d digits", merchantIDLength)
	}
	return nil
}

func ruleRequiredFields(c *AddCheck) *Failure {
	required := []struct {
		field string
		empty bool
	}{
		{"typeCode", c.Req.TypeCode == ""},
		{"categoryCode", c.Req.CategoryCode == ""},
		{"source", strings.TrimSpace(c.Req.Source) == ""},
		{"description", strings.TrimSpace(c.Req.Description) == ""},
		{"amount", c.Req.Amount == nil},
		{"confirm", c.Req.Confirm == ""},
	}
	for _, r := range required {
		if r.empty {
			return failf(KindRequiredField, r.field, "%s is required", r.field)
		}
	}
	return nil
}

func ruleTypeCode(c *AddCheck) *Failure {
	if c.Req.TypeCode == "" {
		return nil
	}
	if !isKnownTypeCode(c.Req.TypeCode) {
		return failf(KindRange, "typeCode", "transaction type %q is not a known type code", c.Req.TypeCode)
	}
	return nil
}

func ruleCategoryCode(c *AddCheck) *Failure {
	if c.Req.CategoryCode == "" {
		return nil
	}
	if !isKnownCategoryCode(c.Req.CategoryCode) {
		return failf(KindRange, "categoryCode", "transaction category %q is not a known category code", c.Req.CategoryCode)
	}
	return nil
}

func ruleAmountRange(c *AddCheck) *Failure {
	if c.Req.Amount == nil {
		return nil
	}
	amount := *c.Req.Amount
	if amount.Exponent() < -2 {
		return failf(KindRange, "amount", "amount must have at most 2 decimal places")
	}
	if amount.Abs().GreaterThan(maxTransactionAmount) {
		return failf(KindRange, "amount", "amount must not exceed %s in magnitude", maxTransactionAmount.StringFixed(2))
	}
	c.Amount = amount
	return nil
}

func ruleTemporal(c *AddCheck) *Failure {
	if c.Req.OriginalDate != "" {
		t, err := ParseFlexibleDate(c.Req.OriginalDate)
		if err != nil {
			return failf(KindTemporal, "originalDate", "original date %q is not a valid date", c.Req.OriginalDate)
		}
		c.Original = t
	}
	if c.Req.ProcessingDate != "" {
		t, err := ParseFlexibleDate(c.Req.ProcessingDate)
		if err != nil {
			return failf(KindTemporal, "processingDate", "processing date %q is not a valid date", c.Req.ProcessingDate)
		}
		c.Processing = t
	}
	if !c.Original.IsZero() && !c.Processing.IsZero() && c.Original.After(c.Processing) {
		return failf(KindTemporal, "originalDate", "original date must not be after processing date")
	}
	return nil
}

// ruleConfirmation is the confirmation gate: a distinct, recoverable signal so a
// caller can re-prompt instead of treating the request as bad input. It runs
// last so every other problem is reported first.
func ruleConfirmation(c *AddCheck) *Failure {
	if c.Req.Confirm == "" {
		return nil
	}
	if !strings.EqualFold(c.Req.Confirm, "Y") {
		return failf(KindConfirmationRequired, "confirm", "transaction must be confirmed before it is recorded")
	}
	return nil
}
