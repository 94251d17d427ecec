package validation

import (
	"fmt"
	"strings"
)

// Kind classifies a validation failure. Failures are returned as values, never
// panicked, since they are expected, user-correctable outcomes.
type Kind string

const (
	KindRequiredField        Kind = "REQUIRED_FIELD"
	KindFormat               Kind = "FORMAT"
	KindRange                Kind = "RANGE"
	KindTemporal             Kind = "TEMPORAL"
	KindCrossReference       Kind = "CROSS_REFERENCE"
	KindConfirmationRequired Kind = "CONFIRMATION_REQUIRED"
)

// Failure is a single violated rule. Field is empty when the failure is not
// attributable to one input field.
type Failure struct {
	Kind    Kind   `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface so callers can propagate a Failure
// through ordinary error returns and recover it with errors.As.
func (f *Failure) Error() string {
	if f.Field != "" {
		return fmt.Sprintf("%s: %s (field %s)", f.Kind, f.Message, f.Field)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Failures is the collect-all counterpart of Failure, used by the listing path
// to surface every violated rule at once.
type Failures []Failure

func (fs Failures) Error() string {
	msgs := make([]string, len(fs))
	for i, f := range fs {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// Messages returns the ordered failure messages.
func (fs Failures) Messages() []string {
	msgs := make([]string, len(fs))
	for i, f := range fs {
		msgs[i] = f.Message
	}
	return msgs
}

func failf(kind Kind, field, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}
