package conformance

// TestSuite represents a complete YAML scenario file
type TestSuite struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description,omitempty"`
	Requires    Requirements       `yaml:"requires,omitempty"`
	Values      map[string]Literal `yaml:"values,omitempty"`
	Tests       []TestCase         `yaml:"tests"`
}

// Requirements lists settings a suite depends on
type Requirements struct {
	// Narrowing lists categories that must be enabled. Suites run
	// against a configuration with one of them disabled are skipped.
	Narrowing []string `yaml:"narrowing,omitempty"`
}

// TestCase is one operation and its expected outcome. Exactly one of the
// operation fields is set; Args are its operands.
type TestCase struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Skip        interface{} `yaml:"skip,omitempty"` // bool or string

	Binary    string      `yaml:"binary,omitempty"`    // "+", "mtimes", ...
	Unary     string      `yaml:"unary,omitempty"`     // "-", "'", "!", ...
	Compound  string      `yaml:"compound,omitempty"`  // "transtimes", ...
	Increment string      `yaml:"increment,omitempty"` // "++" or "--"
	Cat       int         `yaml:"cat,omitempty"`       // 1 vertical, 2 horizontal
	Convert   string      `yaml:"convert,omitempty"`   // target kind name
	Subsref   []Step      `yaml:"subsref,omitempty"`
	Subsasgn  *Assignment `yaml:"subsasgn,omitempty"`

	Args   []Literal   `yaml:"args"`
	Expect Expectation `yaml:"expect"`
}

// Step is one indexing step: exactly one of paren, brace or field.
type Step struct {
	Paren []Literal `yaml:"paren,omitempty"`
	Brace []Literal `yaml:"brace,omitempty"`
	Field string    `yaml:"field,omitempty"`
}

// Assignment describes args[0](chain) op rhs.
type Assignment struct {
	Op    string  `yaml:"op,omitempty"` // "=" when empty
	Chain []Step  `yaml:"chain"`
	RHS   Literal `yaml:"rhs"`
	// Alias keeps a second handle on the target and checks that it still
	// holds the original value afterwards.
	Alias bool `yaml:"alias,omitempty"`
}

// Expectation defines what result is expected from a test
type Expectation struct {
	Value *Literal `yaml:"value,omitempty"` // compared with isequaln semantics
	Error string   `yaml:"error,omitempty"` // IndexOutOfRange, OperatorNotImplemented, ...
	Kind  string   `yaml:"kind,omitempty"`  // "range", "int8 matrix", ...
	Class string   `yaml:"class,omitempty"` // "double", "logical", ...
	Dims  []int    `yaml:"dims,omitempty"`
	Path  string   `yaml:"path,omitempty"`  // binary dispatch path
	Match string   `yaml:"match,omitempty"` // regex on the error message or the formatted value
}

// Operation names the operation a test performs, for reports.
func (tc *TestCase) Operation() string {
	switch {
	case tc.Binary != "":
		return "binary " + tc.Binary
	case tc.Unary != "":
		return "unary " + tc.Unary
	case tc.Compound != "":
		return "compound " + tc.Compound
	case tc.Increment != "":
		return "increment " + tc.Increment
	case tc.Cat != 0:
		return "cat"
	case tc.Convert != "":
		return "convert " + tc.Convert
	case tc.Subsref != nil:
		return "subsref"
	case tc.Subsasgn != nil:
		return "subsasgn"
	}
	return ""
}

// IsSkipped returns true if this test should be skipped
func (tc *TestCase) IsSkipped() (bool, string) {
	switch v := tc.Skip.(type) {
	case bool:
		if v {
			return true, "skipped"
		}
	case string:
		return true, v
	}
	return false, ""
}
