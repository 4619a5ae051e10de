package types

import (
	"fmt"

	"github.com/pkg/errors"

	"silo/array"
)

// ErrorKind classifies failures raised by the value engine.
type ErrorKind int

const (
	ErrNone                ErrorKind = 0
	OperatorNotImplemented ErrorKind = 1
	ConversionFailed       ErrorKind = 2
	NonconformantArguments ErrorKind = 3
	IndexOutOfRange        ErrorKind = 4
	InvalidIndexType       ErrorKind = 5
	TypeMismatch           ErrorKind = 6
	Undefined              ErrorKind = 7
	EvaluatorFailed        ErrorKind = 8
)

// String returns the name of an error kind
func (e ErrorKind) String() string {
	switch e {
	case ErrNone:
		return "None"
	case OperatorNotImplemented:
		return "OperatorNotImplemented"
	case ConversionFailed:
		return "ConversionFailed"
	case NonconformantArguments:
		return "NonconformantArguments"
	case IndexOutOfRange:
		return "IndexOutOfRange"
	case InvalidIndexType:
		return "InvalidIndexType"
	case TypeMismatch:
		return "TypeMismatch"
	case Undefined:
		return "Undefined"
	case EvaluatorFailed:
		return "EvaluatorFailed"
	default:
		return "Unknown"
	}
}

// Message returns a human-readable description of an error kind
func (e ErrorKind) Message() string {
	switch e {
	case ErrNone:
		return "no error"
	case OperatorNotImplemented:
		return "operator not implemented"
	case ConversionFailed:
		return "type conversion failed"
	case NonconformantArguments:
		return "nonconformant arguments"
	case IndexOutOfRange:
		return "index out of bound"
	case InvalidIndexType:
		return "invalid index"
	case TypeMismatch:
		return "wrong type argument"
	case Undefined:
		return "value is undefined"
	case EvaluatorFailed:
		return "evaluator callback failed"
	default:
		return "unknown error"
	}
}

// ErrorKindFromString converts a name like "IndexOutOfRange" to an ErrorKind
func ErrorKindFromString(s string) (ErrorKind, bool) {
	for k := ErrNone; k <= EvaluatorFailed; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return ErrNone, false
}

// Error is the structured failure raised by every engine operation. It
// names the operator and operand kinds involved so callers can render a
// diagnostic without string parsing.
type Error struct {
	Kind  ErrorKind
	Op    string
	Left  Kind
	Right Kind
	Unary bool
	Msg   string
	cause error
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrOperatorNotImplemented = &Error{Kind: OperatorNotImplemented}
	ErrConversionFailed       = &Error{Kind: ConversionFailed}
	ErrNonconformant          = &Error{Kind: NonconformantArguments}
	ErrIndexOutOfRange        = &Error{Kind: IndexOutOfRange}
	ErrInvalidIndexType       = &Error{Kind: InvalidIndexType}
	ErrTypeMismatch           = &Error{Kind: TypeMismatch}
	ErrUndefined              = &Error{Kind: Undefined}
	ErrEvaluatorFailed        = &Error{Kind: EvaluatorFailed}
)

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Kind == OperatorNotImplemented && e.Op != "" {
		if e.Unary {
			return fmt.Sprintf("unary operator '%s' not implemented for '%s' operations", e.Op, e.Left)
		}
		return fmt.Sprintf("binary operator '%s' not implemented for '%s' by '%s' operations", e.Op, e.Left, e.Right)
	}
	if e.cause != nil {
		return e.Kind.Message() + ": " + e.cause.Error()
	}
	return e.Kind.Message()
}

// Unwrap exposes the underlying failure, if any.
func (e *Error) Unwrap() error { return e.cause }

// Is matches another *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf extracts the ErrorKind of an engine failure.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return ErrNone, false
}

// NotImplemented reports a binary operator with no route for two kinds.
func NotImplemented(op string, left, right Kind) *Error {
	return &Error{Kind: OperatorNotImplemented, Op: op, Left: left, Right: right}
}

// UnaryNotImplemented reports a unary operator with no route for a kind.
func UnaryNotImplemented(op string, operand Kind) *Error {
	return &Error{Kind: OperatorNotImplemented, Op: op, Left: operand, Unary: true}
}

// Errorf builds an engine error of the given kind.
func Errorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// ConversionError wraps a failed conversion between two kinds.
func ConversionError(from, to Kind, cause error) *Error {
	msg := fmt.Sprintf("type conversion from '%s' to '%s' failed", from, to)
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return &Error{Kind: ConversionFailed, Left: from, Right: to, Msg: msg, cause: cause}
}

// Mismatch reports an operand of the wrong kind.
func Mismatch(want string, got Kind) *Error {
	return &Error{Kind: TypeMismatch, Left: got, Msg: fmt.Sprintf("wrong type argument '%s': expected %s", got, want)}
}

// EvaluatorError wraps a failure returned by the evaluator.
func EvaluatorError(cause error) *Error {
	return &Error{Kind: EvaluatorFailed, Msg: cause.Error(), cause: cause}
}

// FromArrayError classifies a kernel failure. Errors that already carry an
// ErrorKind pass through unchanged.
func FromArrayError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := KindOf(err); ok {
		return err
	}
	switch {
	case errors.Is(err, array.ErrOutOfBound), errors.Is(err, array.ErrResize), errors.Is(err, array.ErrTooLarge):
		return &Error{Kind: IndexOutOfRange, Msg: err.Error(), cause: err}
	case errors.Is(err, array.ErrNullAssign):
		return &Error{Kind: InvalidIndexType, Msg: err.Error(), cause: err}
	case errors.Is(err, array.ErrNonconformant), errors.Is(err, array.ErrNotTwoD):
		return &Error{Kind: NonconformantArguments, Msg: err.Error(), cause: err}
	}
	return err
}
