package engine

import (
	"sort"

	"github.com/pkg/errors"

	"silo/types"
)

// Method is a Go implementation of a class method or function.
type Method func(args []types.Value, nargout int) ([]types.Value, error)

// StaticEvaluator is an Evaluator backed by Go functions registered up
// front. It stands in for the interpreter in tests, scenario runs and
// embedders that only need a fixed set of overloads.
type StaticEvaluator struct {
	methods map[string]map[string]Method
	funcs   map[string]Method
}

// NewStaticEvaluator returns an evaluator with nothing defined.
func NewStaticEvaluator() *StaticEvaluator {
	return &StaticEvaluator{
		methods: make(map[string]map[string]Method),
		funcs:   make(map[string]Method),
	}
}

// DefineMethod adds method name to class, replacing any earlier
// definition.
func (s *StaticEvaluator) DefineMethod(class, name string, m Method) {
	if s.methods[class] == nil {
		s.methods[class] = make(map[string]Method)
	}
	s.methods[class][name] = m
}

// DefineFunction makes fn callable through named function handles.
func (s *StaticEvaluator) DefineFunction(name string, fn Method) {
	s.funcs[name] = fn
}

// Methods lists the methods defined for class, sorted.
func (s *StaticEvaluator) Methods(class string) []string {
	out := make([]string, 0, len(s.methods[class]))
	for name := range s.methods[class] {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *StaticEvaluator) CallMethod(class, name string, args []types.Value) ([]types.Value, bool, error) {
	m, ok := s.methods[class][name]
	if !ok {
		return nil, false, nil
	}
	out, err := m(args, 1)
	if err != nil {
		return nil, true, errors.Wrapf(err, "%s.%s", class, name)
	}
	return out, true, nil
}

func (s *StaticEvaluator) Call(fn *types.FunctionHandle, args []types.Value, nargout int) ([]types.Value, error) {
	if fn.IsAnonymous() {
		return nil, errors.Errorf("cannot evaluate anonymous function @(%v) %s without an interpreter", fn.Params(), fn.Body())
	}
	f, ok := s.funcs[fn.Name()]
	if !ok {
		return nil, errors.Errorf("'%s' undefined", fn.Name())
	}
	return f(args, nargout)
}
