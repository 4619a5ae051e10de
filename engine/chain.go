package engine

import (
	"strings"

	"silo/array"
	"silo/types"
)

// StepType is the bracket of one indexing step.
type StepType int

const (
	StepParen StepType = iota // a(i, j)
	StepBrace                 // a{i}
	StepField                 // a.name
)

func (t StepType) String() string {
	switch t {
	case StepParen:
		return "()"
	case StepBrace:
		return "{}"
	case StepField:
		return "."
	}
	return "?"
}

// Step is one element of an indexing chain. Args holds the subscripts
// of a paren or brace step; Field names the field of a field step.
type Step struct {
	Type  StepType
	Args  []types.Value
	Field string
}

// Paren returns a (...) step.
func Paren(args ...types.Value) Step { return Step{Type: StepParen, Args: args} }

// Brace returns a {...} step.
func Brace(args ...types.Value) Step { return Step{Type: StepBrace, Args: args} }

// Field returns a .name step.
func Field(name string) Step { return Step{Type: StepField, Field: name} }

func (s Step) String() string {
	if s.Type == StepField {
		return "." + s.Field
	}
	parts := make([]string, len(s.Args))
	for i, a := range s.Args {
		parts[i] = a.String()
	}
	open, close := "(", ")"
	if s.Type == StepBrace {
		open, close = "{", "}"
	}
	return open + strings.Join(parts, ",") + close
}

// ChainString renders a chain for traces and messages.
func ChainString(chain []Step) string {
	var b strings.Builder
	for _, s := range chain {
		b.WriteString(s.String())
	}
	return b.String()
}

func (s Step) indices() ([]array.Index, error) {
	return types.ToIndices(s.Args)
}

func stepRecord(s Step) types.Value {
	var subs types.Value
	if s.Type == StepField {
		subs = types.NewString(s.Field)
	} else {
		args := make([]types.Value, len(s.Args))
		for i, a := range s.Args {
			args[i] = a.Copy()
		}
		subs = types.NewCell(1, len(args), args)
	}
	return types.NewStruct([]string{"type", "subs"}, []types.Value{types.NewString(s.Type.String()), subs})
}

// chainStruct builds the 1xN struct array with fields type and subs that
// class subsref and subsasgn overloads receive.
func chainStruct(chain []Step) (types.Value, error) {
	var acc *types.StructArray
	for _, s := range chain {
		rec := stepRecord(s)
		next, _ := types.AsStructArray(rec.Rep())
		rec.Release()
		if acc == nil {
			acc = next
			continue
		}
		out, err := types.CatStructs(2, acc, next)
		if err != nil {
			return types.Value{}, err
		}
		acc = out
	}
	if acc == nil {
		return types.Wrap(types.NewStructArrayRep(types.Dims{1, 0}, []string{"type", "subs"})), nil
	}
	return types.Wrap(acc), nil
}
