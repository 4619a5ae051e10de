package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"silo/types"
)

// Tracer logs operator dispatch for debugging
type Tracer struct {
	enabled bool
	filters []string
	writer  io.Writer
	mu      sync.Mutex
}

// Global tracer instance
var globalTracer *Tracer

// Init initializes the global tracer
func Init(enabled bool, filters []string, writer io.Writer) {
	if writer == nil {
		writer = os.Stderr
	}
	globalTracer = &Tracer{
		enabled: enabled,
		filters: filters,
		writer:  writer,
	}
}

// IsEnabled returns whether tracing is enabled
func IsEnabled() bool {
	if globalTracer == nil {
		return false
	}
	return globalTracer.enabled
}

// matchesFilter checks if an operator name matches any of the filter patterns
func (t *Tracer) matchesFilter(op string) bool {
	if len(t.filters) == 0 {
		return true // No filters = trace everything
	}

	for _, pattern := range t.filters {
		if matched, _ := filepath.Match(pattern, op); matched {
			return true
		}
	}
	return false
}

func (t *Tracer) printf(op, format string, args ...interface{}) {
	if !t.enabled || !t.matchesFilter(op) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.writer, "[TRACE] "+format+"\n", args...)
}

// Dispatch logs a resolved binary operation
func (t *Tracer) Dispatch(op string, left, right types.Kind, path string, result types.Kind) {
	t.printf(op, "DISPATCH %s '%s' x '%s' via %s => '%s'", op, left, right, path, result)
}

// UnaryDispatch logs a resolved unary operation
func (t *Tracer) UnaryDispatch(op string, operand types.Kind, path string, result types.Kind) {
	t.printf(op, "DISPATCH %s '%s' via %s => '%s'", op, operand, path, result)
}

// Conversion logs a promotion, demotion or widening applied to an operand
func (t *Tracer) Conversion(op string, from, to types.Kind, pass string) {
	t.printf(op, "  CONVERT %s '%s' -> '%s'", pass, from, to)
}

// Narrow logs a result replaced by a cheaper kind
func (t *Tracer) Narrow(op string, from, to types.Kind) {
	if from == to {
		return
	}
	t.printf(op, "  NARROW '%s' -> '%s'", from, to)
}

// Assign logs an indexed assignment
func (t *Tracer) Assign(op string, lhs types.Kind, chain string, rhs types.Kind, result types.Kind) {
	t.printf(op, "ASSIGN '%s'%s = '%s' => '%s'", lhs, chain, rhs, result)
}

// Callback logs a call into the evaluator
func (t *Tracer) Callback(op, class, method string, nargs int) {
	t.printf(op, "  CALLBACK %s.%s nargs=%d", class, method, nargs)
}

// Kernel logs which algorithm a table entry chose
func (t *Tracer) Kernel(op, detail string) {
	t.printf(op, "  KERNEL %s %s", op, detail)
}

// Failure logs a failed operation
func (t *Tracer) Failure(op string, err error) {
	kind, _ := types.KindOf(err)
	t.printf(op, "  FAIL %s: %v", kind, err)
}

// Global convenience functions

// Dispatch logs a binary operation using the global tracer
func Dispatch(op string, left, right types.Kind, path string, result types.Kind) {
	if globalTracer != nil {
		globalTracer.Dispatch(op, left, right, path, result)
	}
}

// UnaryDispatch logs a unary operation using the global tracer
func UnaryDispatch(op string, operand types.Kind, path string, result types.Kind) {
	if globalTracer != nil {
		globalTracer.UnaryDispatch(op, operand, path, result)
	}
}

// Conversion logs an operand conversion using the global tracer
func Conversion(op string, from, to types.Kind, pass string) {
	if globalTracer != nil {
		globalTracer.Conversion(op, from, to, pass)
	}
}

// Narrow logs result narrowing using the global tracer
func Narrow(op string, from, to types.Kind) {
	if globalTracer != nil {
		globalTracer.Narrow(op, from, to)
	}
}

// Assign logs an indexed assignment using the global tracer
func Assign(op string, lhs types.Kind, chain string, rhs types.Kind, result types.Kind) {
	if globalTracer != nil {
		globalTracer.Assign(op, lhs, chain, rhs, result)
	}
}

// Callback logs an evaluator call using the global tracer
func Callback(op, class, method string, nargs int) {
	if globalTracer != nil {
		globalTracer.Callback(op, class, method, nargs)
	}
}

// Kernel logs a kernel choice using the global tracer
func Kernel(op, detail string) {
	if globalTracer != nil {
		globalTracer.Kernel(op, detail)
	}
}

// Failure logs a failed operation using the global tracer
func Failure(op string, err error) {
	if globalTracer != nil {
		globalTracer.Failure(op, err)
	}
}
