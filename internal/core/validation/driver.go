package validation

// Rule inspects one aspect of a subject and returns nil when satisfied.
// Rules are single-sourced: the same rule functions serve both drivers below.
type Rule[T any] func(*T) *Failure

// First runs the rules in order and returns the first failure, or nil when all
// pass. This is the short-circuit mode used by the add path, which reports one
// authoritative error at a time.
func First[T any](subject *T, rules []Rule[T]) *Failure {
	for _, rule := range rules {
		if f := rule(subject); f != nil {
			return f
		}
	}
	return nil
}

// Collect runs every rule and folds all failures into an ordered list. This is
// the collect-all mode used by the listing path for client form feedback.
func Collect[T any](subject *T, rules []Rule[T]) Failures {
	var failures Failures
	for _, rule := range rules {
		if f := rule(subject); f != nil {
			failures = append(failures, *f)
		}
	}
	return failures
}
