package conformance

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"silo/dispatch"
	"silo/engine"
	"silo/ops"
	"silo/types"
)

// TestResult represents the outcome of running a single test
type TestResult struct {
	Test       LoadedTest
	Passed     bool
	Skipped    bool
	SkipReason string
	Error      error
	Result     string
	Elapsed    time.Duration
}

// Runner executes scenarios against one engine. The engine is stateless,
// so tests run concurrently; every test builds its own values.
type Runner struct {
	engine   *engine.Engine
	parallel int
}

// NewRunner creates a runner over e running up to parallel tests at once.
func NewRunner(e *engine.Engine, parallel int) *Runner {
	if parallel < 1 {
		parallel = 1
	}
	return &Runner{engine: e, parallel: parallel}
}

// NewDefaultRunner runs over the default operator tables and Fixtures.
func NewDefaultRunner() *Runner {
	return NewRunner(engine.New(ops.NewRegistry(), Fixtures()), 4)
}

// Run executes a single test case
func (r *Runner) Run(test LoadedTest) (res TestResult) {
	res.Test = test
	if skipped, reason := test.Test.IsSkipped(); skipped {
		res.Skipped, res.SkipReason = true, reason
		return res
	}
	for _, name := range test.Suite.Requires.Narrowing {
		cat, err := types.ParseNarrowCategory(name)
		if err != nil {
			res.Error = errors.Wrap(err, "requires")
			return res
		}
		if !types.NarrowingEnabled(cat) {
			res.Skipped, res.SkipReason = true, fmt.Sprintf("requires %s narrowing", cat)
			return res
		}
	}

	start := time.Now()
	defer func() {
		res.Elapsed = time.Since(start)
		if p := recover(); p != nil {
			res.Passed, res.Error = false, errors.Errorf("panic: %v", p)
		}
	}()

	refs := make(map[string]types.Value, len(test.Suite.Values))
	defer func() {
		for _, v := range refs {
			v.Release()
		}
	}()
	for name, lit := range test.Suite.Values {
		v, err := lit.Build(nil)
		if err != nil {
			res.Error = errors.Wrapf(err, "value %s", name)
			return res
		}
		refs[name] = v
	}

	out, err := r.check(test.Test, refs)
	res.Passed, res.Error, res.Result = err == nil, err, out
	return res
}

// RunAll executes tests concurrently, keeping their order in the result.
// It stops early only when ctx is cancelled.
func (r *Runner) RunAll(ctx context.Context, tests []LoadedTest) ([]TestResult, error) {
	results := make([]TestResult, len(tests))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallel)
	for i := range tests {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.Run(tests[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// SummaryStats computes statistics from test results
type SummaryStats struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// ComputeStats generates statistics from test results
func ComputeStats(results []TestResult) SummaryStats {
	stats := SummaryStats{Total: len(results)}
	for _, r := range results {
		if r.Skipped {
			stats.Skipped++
		} else if r.Passed {
			stats.Passed++
		} else {
			stats.Failed++
		}
	}
	return stats
}

// FormatStats returns a human-readable summary
func FormatStats(stats SummaryStats) string {
	return fmt.Sprintf("%d passed, %d failed, %d skipped (%d total)",
		stats.Passed, stats.Failed, stats.Skipped, stats.Total)
}

// check runs the test's operation and compares the outcome with its
// expectation. It returns the formatted result.
func (r *Runner) check(tc TestCase, refs map[string]types.Value) (string, error) {
	args, err := buildAll(tc.Args, refs)
	if err != nil {
		return "", errors.Wrap(err, "args")
	}
	defer func() {
		for i := range args {
			args[i].Release()
		}
	}()

	got, path, opErr := r.execute(tc, args, refs)
	defer got.Release()
	expect := tc.Expect

	if expect.Error != "" {
		want, ok := types.ErrorKindFromString(expect.Error)
		if !ok {
			return "", errors.Errorf("unknown error kind %q", expect.Error)
		}
		if opErr == nil {
			return types.Format(got), errors.Errorf("expected %s, got %s", want, types.Format(got))
		}
		if kind, _ := types.KindOf(opErr); kind != want {
			return "", errors.Errorf("expected %s, got %v", want, opErr)
		}
		return "", matches(expect.Match, opErr.Error())
	}
	if opErr != nil {
		return "", errors.Wrap(opErr, "unexpected error")
	}

	out := types.Format(got)
	if expect.Kind != "" && got.Kind().String() != expect.Kind {
		return out, errors.Errorf("expected kind '%s', got '%s'", expect.Kind, got.Kind())
	}
	if expect.Class != "" && got.ClassName() != expect.Class {
		return out, errors.Errorf("expected class %s, got %s", expect.Class, got.ClassName())
	}
	if expect.Dims != nil && !got.Dims().Equal(types.Dims(expect.Dims)) {
		return out, errors.Errorf("expected dims %v, got %s", expect.Dims, got.Dims())
	}
	if expect.Path != "" && path != expect.Path {
		return out, errors.Errorf("expected dispatch path %s, got %s", expect.Path, path)
	}
	if expect.Value != nil {
		want, err := expect.Value.Build(refs)
		if err != nil {
			return out, errors.Wrap(err, "expected value")
		}
		defer want.Release()
		if !types.IsEqual(got, want) {
			return out, errors.Errorf("expected %s, got %s", types.Format(want), out)
		}
	}
	return out, matches(expect.Match, out)
}

func matches(pattern, s string) error {
	if pattern == "" {
		return nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return errors.Wrap(err, "match")
	}
	if !re.MatchString(s) {
		return errors.Errorf("%q does not match /%s/", s, pattern)
	}
	return nil
}

// execute performs the operation. path is the binary dispatch path when
// the operation is binary.
func (r *Runner) execute(tc TestCase, args []types.Value, refs map[string]types.Value) (types.Value, string, error) {
	e := r.engine
	arg := func(n int) error {
		if len(args) != n {
			return errors.Errorf("%s takes %d args, got %d", tc.Operation(), n, len(args))
		}
		return nil
	}
	switch {
	case tc.Binary != "":
		op, ok := dispatch.ParseBinaryOp(tc.Binary)
		if !ok {
			return types.Value{}, "", errors.Errorf("unknown binary operator %q", tc.Binary)
		}
		if err := arg(2); err != nil {
			return types.Value{}, "", err
		}
		path := ""
		if res, err := e.Dispatcher().ResolveBinary(op, args[0].Kind(), args[1].Kind()); err == nil {
			path = res.Path.String()
		}
		v, err := e.BinaryOp(op, args[0], args[1])
		return v, path, err

	case tc.Unary != "":
		op, ok := dispatch.ParseUnaryOp(tc.Unary)
		if !ok {
			return types.Value{}, "", errors.Errorf("unknown unary operator %q", tc.Unary)
		}
		if err := arg(1); err != nil {
			return types.Value{}, "", err
		}
		v, err := e.UnaryOp(op, args[0])
		return v, "", err

	case tc.Compound != "":
		op, ok := dispatch.ParseCompoundOp(tc.Compound)
		if !ok {
			return types.Value{}, "", errors.Errorf("unknown compound operator %q", tc.Compound)
		}
		if err := arg(2); err != nil {
			return types.Value{}, "", err
		}
		v, err := e.CompoundBinaryOp(op, args[0], args[1])
		return v, "", err

	case tc.Increment != "":
		op, ok := dispatch.ParseUnaryOp(tc.Increment)
		if !ok || (op != dispatch.OpIncr && op != dispatch.OpDecr) {
			return types.Value{}, "", errors.Errorf("unknown increment operator %q", tc.Increment)
		}
		if err := arg(1); err != nil {
			return types.Value{}, "", err
		}
		v := args[0].Copy()
		if err := e.Increment(op, &v); err != nil {
			v.Release()
			return types.Value{}, "", err
		}
		return v, "", nil

	case tc.Cat != 0:
		v, err := e.CatOp(tc.Cat, args...)
		return v, "", err

	case tc.Convert != "":
		k, ok := types.KindFromString(tc.Convert)
		if !ok {
			return types.Value{}, "", errors.Errorf("unknown kind %q", tc.Convert)
		}
		if err := arg(1); err != nil {
			return types.Value{}, "", err
		}
		v, err := e.Dispatcher().Convert(args[0], k)
		return v, "", err

	case tc.Subsref != nil:
		if err := arg(1); err != nil {
			return types.Value{}, "", err
		}
		chain, release, err := buildChain(tc.Subsref, refs)
		if err != nil {
			return types.Value{}, "", err
		}
		defer release()
		v, err := e.Subsref(args[0], chain)
		return v, "", err

	case tc.Subsasgn != nil:
		return r.assign(tc.Subsasgn, tc.Args, args, refs)
	}
	return types.Value{}, "", errors.New("test has no operation")
}

func (r *Runner) assign(a *Assignment, lits []Literal, args []types.Value, refs map[string]types.Value) (types.Value, string, error) {
	if len(args) != 1 {
		return types.Value{}, "", errors.Errorf("subsasgn takes 1 arg, got %d", len(args))
	}
	op := dispatch.OpAsnEq
	if a.Op != "" {
		var ok bool
		if op, ok = dispatch.ParseAssignOp(a.Op); !ok {
			return types.Value{}, "", errors.Errorf("unknown assignment operator %q", a.Op)
		}
	}
	chain, release, err := buildChain(a.Chain, refs)
	if err != nil {
		return types.Value{}, "", err
	}
	defer release()
	rhs, err := a.RHS.Build(refs)
	if err != nil {
		return types.Value{}, "", errors.Wrap(err, "rhs")
	}
	defer rhs.Release()

	var alias types.Value
	if a.Alias {
		alias = args[0].Copy()
		defer alias.Release()
	}
	// The target's share moves into the result.
	target := args[0]
	args[0] = types.Value{}
	v, err := r.engine.Assign(op, target, chain, rhs)
	if err != nil {
		v.Release()
		return types.Value{}, "", err
	}
	if a.Alias {
		orig, err := lits[0].Build(refs)
		if err != nil {
			v.Release()
			return types.Value{}, "", err
		}
		defer orig.Release()
		if !types.IsEqual(alias, orig) || alias.SameRep(v) {
			v.Release()
			return types.Value{}, "", errors.New("assignment through one handle changed another")
		}
	}
	return v, "", nil
}

// buildChain converts scenario steps. release drops the subscripts.
func buildChain(steps []Step, refs map[string]types.Value) ([]engine.Step, func(), error) {
	var owned []types.Value
	release := func() {
		for i := range owned {
			owned[i].Release()
		}
	}
	chain := make([]engine.Step, 0, len(steps))
	for i, s := range steps {
		switch {
		case s.Field != "":
			chain = append(chain, engine.Field(s.Field))
		case s.Paren != nil || s.Brace != nil:
			lits, brace := s.Paren, false
			if s.Brace != nil {
				lits, brace = s.Brace, true
			}
			vals, err := buildAll(lits, refs)
			if err != nil {
				release()
				return nil, nil, errors.Wrapf(err, "step %d", i+1)
			}
			owned = append(owned, vals...)
			if brace {
				chain = append(chain, engine.Brace(vals...))
			} else {
				chain = append(chain, engine.Paren(vals...))
			}
		default:
			release()
			return nil, nil, errors.Errorf("step %d: expected paren, brace or field", i+1)
		}
	}
	return chain, release, nil
}
