// Package invariant provides contract assertions for pipeparse.
//
// Contract violations (out-of-bounds indices, negative counts, a desynchronised
// length/capacity pair) are programming errors, not user errors. Every check in
// this package panics with a *Violation that names the kind of contract, the
// message and the file:line of the caller that broke it. Nothing in the core
// recovers these panics: a violation terminates the process with the
// diagnostic.
//
// Grammar errors are not violations; the parser reports them as AST values.
package invariant

import (
	"fmt"
	"reflect"
	"runtime"
)

// Kind names the contract that was broken.
type Kind string

const (
	KindPrecondition  Kind = "PRECONDITION"
	KindPostcondition Kind = "POSTCONDITION"
	KindInvariant     Kind = "INVARIANT"
)

// Violation is the panic value raised by every check in this package.
// It implements error so a top-level recover can report it uniformly.
type Violation struct {
	Kind    Kind
	Message string
	File    string
	Line    int
}

func (v *Violation) Error() string {
	msg := fmt.Sprintf("%s VIOLATION: %s", v.Kind, v.Message)
	if v.File != "" {
		msg += fmt.Sprintf("\n  at %s:%d", v.File, v.Line)
	}
	return msg
}

func (v *Violation) String() string {
	return v.Error()
}

// Precondition checks an input contract at function entry.
//
// Example:
//
//	func (b *Buffer[T]) Get(index int) T {
//	    invariant.Precondition(index < b.length, "index %d out of bounds", index)
//	    // ... work ...
//	}
func Precondition(condition bool, format string, args ...any) {
	if !condition {
		fail(KindPrecondition, format, args...)
	}
}

// Postcondition checks an output contract before function return.
func Postcondition(condition bool, format string, args ...any) {
	if !condition {
		fail(KindPostcondition, format, args...)
	}
}

// Invariant checks internal consistency during function execution.
//
// Example:
//
//	invariant.Invariant(b.length <= b.capacity, "length %d exceeds capacity %d", b.length, b.capacity)
func Invariant(condition bool, format string, args ...any) {
	if !condition {
		fail(KindInvariant, format, args...)
	}
}

// NotNil panics if value is nil, including typed nils such as (*T)(nil).
func NotNil(value any, name string) {
	if isNilValue(value) {
		fail(KindPrecondition, "%s must not be nil", name)
	}
}

func isNilValue(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

// InRange panics if value is outside [minVal, maxVal].
func InRange(value, minVal, maxVal int, name string) {
	if value < minVal || value > maxVal {
		fail(KindPrecondition, "%s must be in range [%d, %d], got %d",
			name, minVal, maxVal, value)
	}
}

// Index panics unless 0 <= index < length.
func Index(index, length int, name string) {
	if index < 0 || index >= length {
		fail(KindPrecondition, "%s %d out of bounds for length %d", name, index, length)
	}
}

// NonNegative panics if value < 0.
func NonNegative(value int, name string) {
	if value < 0 {
		fail(KindPrecondition, "%s must not be negative, got %d", name, value)
	}
}

// fail panics with a *Violation located at the caller of the public check.
func fail(kind Kind, format string, args ...any) {
	v := &Violation{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}

	// Skip runtime.Callers, fail and the public wrapper.
	pc := make([]uintptr, 1)
	if n := runtime.Callers(3, pc); n > 0 {
		frame, _ := runtime.CallersFrames(pc[:n]).Next()
		v.File = frame.File
		v.Line = frame.Line
	}

	panic(v)
}
