package services

import "fmt"

// InvalidArgumentError reports a violated precondition on a pure
// computation (negative cost, non-positive quantity, out-of-range rate).
// Raised before any computation proceeds; never partially applied.
type InvalidArgumentError struct {
	Msg string
}

func (e *InvalidArgumentError) Error() string { return e.Msg }

func invalidArgument(format string, args ...any) error {
	return &InvalidArgumentError{Msg: fmt.Sprintf(format, args...)}
}

// DomainRuleError reports a state-dependent business-rule violation,
// e.g. mutating a non-Draft quote. Carries the offending status in the
// message for diagnostic display.
type DomainRuleError struct {
	Msg string
}

func (e *DomainRuleError) Error() string { return e.Msg }

func domainRule(format string, args ...any) error {
	return &DomainRuleError{Msg: fmt.Sprintf(format, args...)}
}
