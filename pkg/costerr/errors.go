// Package costerr defines the error taxonomy shared by the costing
// pipeline. Input errors are caller mistakes caught at the boundary;
// infeasibility errors mean a consistent parameter set describes a plant
// that cannot be built (for example it never reaches positive net power).
package costerr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind string

const (
	KindInput      Kind = "input"
	KindInfeasible Kind = "infeasible"
)

// Error is a structured costing error.
type Error struct {
	Kind    Kind
	Param   string // offending parameter, if any
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Param != "" {
		msg = e.Param + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Input creates an input error for param.
func Input(param, format string, args ...any) *Error {
	return &Error{Kind: KindInput, Param: param, Message: fmt.Sprintf(format, args...)}
}

// Infeasible creates a physical-infeasibility error.
func Infeasible(format string, args ...any) *Error {
	return &Error{Kind: KindInfeasible, Message: fmt.Sprintf(format, args...)}
}

// Wrap keeps the kind of an existing *Error and adds context. Plain
// errors are returned wrapped with fmt.Errorf.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return &Error{Kind: ce.Kind, Param: ce.Param, Message: message, Cause: err}
	}
	return fmt.Errorf("%s: %w", message, err)
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// IsInput reports whether err is an input error.
func IsInput(err error) bool { return KindOf(err) == KindInput }

// IsInfeasible reports whether err is a physical-infeasibility error.
func IsInfeasible(err error) bool { return KindOf(err) == KindInfeasible }
