package anyof

import "fmt"

// EmptyAlternativesError indicates AnyOf or NoneOf was called without alternatives.
type EmptyAlternativesError struct {
	Mode Mode
}

func (e EmptyAlternativesError) Error() string {
	return fmt.Sprintf("%s requires at least one alternative", e.Mode)
}

// ConditionTypeError indicates a value that is not a recognized alternative.
type ConditionTypeError struct {
	Value any
}

func (e ConditionTypeError) Error() string {
	if e.Value == nil {
		return "unsupported alternative: <nil>"
	}
	return fmt.Sprintf("unsupported alternative of type %T: %v", e.Value, e.Value)
}

// PlaceholderRewriteError indicates rendered markers could not be matched to bound values.
type PlaceholderRewriteError struct {
	Markers int
	Values  int
	Reason  string
}

func (e PlaceholderRewriteError) Error() string {
	return fmt.Sprintf("placeholder rewrite failed (%d markers, %d values): %s", e.Markers, e.Values, e.Reason)
}

// NewConditionTypeError creates a condition type error for the offending value.
func NewConditionTypeError(value any) error {
	return ConditionTypeError{Value: value}
}

func newPlaceholderRewriteError(markers, values int, reason string, args ...any) error {
	return PlaceholderRewriteError{
		Markers: markers,
		Values:  values,
		Reason:  fmt.Sprintf(reason, args...),
	}
}
