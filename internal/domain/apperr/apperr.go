// Package apperr defines the error taxonomy shared by every layer.
//
// Errors carry an operation name and one sentinel kind. Callers branch on
// the kind with errors.Is; the HTTP layer maps kinds to status codes.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel kinds.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("access denied")
	ErrNotFound        = errors.New("not found")
	ErrPersistence     = errors.New("persistence failure")
	ErrExternal        = errors.New("external service failure")
)

// opError annotates an error with the operation that produced it.
type opError struct {
	op   string
	kind error
	err  error
}

func (e *opError) Error() string {
	switch {
	case e.err != nil && e.kind != nil:
		return e.op + ": " + e.kind.Error() + ": " + e.err.Error()
	case e.err != nil:
		return e.op + ": " + e.err.Error()
	default:
		return e.op + ": " + e.kind.Error()
	}
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *opError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.kind != nil {
		out = append(out, e.kind)
	}
	if e.err != nil {
		out = append(out, e.err)
	}
	return out
}

// New returns an error of the given kind for op.
func New(op string, kind error) error {
	return &opError{op: op, kind: kind}
}

// Newf returns an error of the given kind with a formatted message.
func Newf(op string, kind error, format string, args ...any) error {
	return &opError{op: op, kind: kind, err: fmt.Errorf(format, args...)}
}

// Wrap annotates err with op, keeping whatever kind it already carries.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, err: err}
}

// WrapKind annotates err with op and tags it with kind.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, kind: kind, err: err}
}

// ValidationError reports malformed input with per-field detail.
type ValidationError struct {
	Fields map[string]string
}

// NewValidation builds an empty ValidationError.
func NewValidation() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a problem for field. The first problem per field wins.
func (v *ValidationError) Add(field, problem string) {
	if _, ok := v.Fields[field]; !ok {
		v.Fields[field] = problem
	}
}

// Empty reports whether no field problems were recorded.
func (v *ValidationError) Empty() bool { return len(v.Fields) == 0 }

// Err returns v as an error, or nil when no problems were recorded.
func (v *ValidationError) Err() error {
	if v == nil || v.Empty() {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v.Fields[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Is makes every ValidationError match ErrValidation.
func (v *ValidationError) Is(target error) bool { return target == ErrValidation }

// FieldErrors extracts field detail from err, if any.
func FieldErrors(err error) map[string]string {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Fields
	}
	return nil
}

// Kind returns the sentinel kind carried by err, or nil when none matches.
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrUnauthenticated, ErrForbidden, ErrNotFound, ErrExternal, ErrPersistence} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Message returns a client-safe description of err: the innermost cause
// without operation prefixes. Persistence failures never expose their cause.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrPersistence) {
		return "internal error"
	}
	for {
		var op *opError
		if !errors.As(err, &op) {
			return err.Error()
		}
		if op.err == nil {
			return op.kind.Error()
		}
		err = op.err
	}
}
