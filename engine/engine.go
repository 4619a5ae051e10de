// Package engine is the public face of the value engine: operators,
// concatenation and the indexing chain (subsref / subsasgn) an
// interpreter evaluates against.
package engine

import (
	"silo/dispatch"
	"silo/types"
)

// Engine evaluates operators and indexing chains over one frozen
// registry. It holds no mutable state; one Engine may serve many
// evaluations.
type Engine struct {
	d *dispatch.Dispatcher
}

// New creates an engine over reg. eval is the interpreter callback for
// class overloads and function handle calls; it may be nil.
func New(reg *dispatch.Registry, eval dispatch.Evaluator) *Engine {
	return &Engine{d: dispatch.New(reg, eval)}
}

// Dispatcher returns the dispatcher the engine runs operators through.
func (e *Engine) Dispatcher() *dispatch.Dispatcher { return e.d }

// BinaryOp evaluates a op b.
func (e *Engine) BinaryOp(op dispatch.BinaryOp, a, b types.Value) (types.Value, error) {
	return e.d.Binary(op, a, b)
}

// UnaryOp evaluates op a.
func (e *Engine) UnaryOp(op dispatch.UnaryOp, a types.Value) (types.Value, error) {
	return e.d.Unary(op, a)
}

// CompoundBinaryOp evaluates a fused operator such as a'*b.
func (e *Engine) CompoundBinaryOp(op dispatch.CompoundOp, a, b types.Value) (types.Value, error) {
	return e.d.Compound(op, a, b)
}

// CatOp concatenates vals along dim: 1 for [a; b], 2 for [a, b].
func (e *Engine) CatOp(dim int, vals ...types.Value) (types.Value, error) {
	return e.d.Cat(dim, vals...)
}

// Increment applies ++ or -- to v in place.
func (e *Engine) Increment(op dispatch.UnaryOp, v *types.Value) error {
	return e.d.Increment(op, v)
}

// Assign evaluates v(chain) op= rhs. Plain assignment is Subsasgn;
// compound operators read the current element through Subsref, combine it
// with rhs and store the result. Like Subsasgn, the result takes over v's
// share.
func (e *Engine) Assign(op dispatch.AssignOp, v types.Value, chain []Step, rhs types.Value) (types.Value, error) {
	bin, ok := op.Binary()
	if !ok {
		return e.Subsasgn(v, chain, rhs)
	}
	cur, err := e.Subsref(v, chain)
	if err != nil {
		return v, err
	}
	res, err := e.d.Binary(bin, cur, rhs)
	cur.Release()
	if err != nil {
		return v, err
	}
	out, err := e.Subsasgn(v, chain, res)
	res.Release()
	return out, err
}
