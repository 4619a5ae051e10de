package dispatch

// BinaryOp identifies a binary operator.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpPow
	OpLdiv
	OpLt
	OpLe
	OpEq
	OpGe
	OpGt
	OpNe
	OpElMul
	OpElDiv
	OpElPow
	OpElLdiv
	OpElAnd
	OpElOr

	NumBinaryOps
)

type opMeta struct {
	symbol string
	method string
}

var binaryMeta = [NumBinaryOps]opMeta{
	OpAdd:    {"+", "plus"},
	OpSub:    {"-", "minus"},
	OpMul:    {"*", "mtimes"},
	OpDiv:    {"/", "mrdivide"},
	OpPow:    {"^", "mpower"},
	OpLdiv:   {"\\", "mldivide"},
	OpLt:     {"<", "lt"},
	OpLe:     {"<=", "le"},
	OpEq:     {"==", "eq"},
	OpGe:     {">=", "ge"},
	OpGt:     {">", "gt"},
	OpNe:     {"!=", "ne"},
	OpElMul:  {".*", "times"},
	OpElDiv:  {"./", "rdivide"},
	OpElPow:  {".^", "power"},
	OpElLdiv: {".\\", "ldivide"},
	OpElAnd:  {"&", "and"},
	OpElOr:   {"|", "or"},
}

// String returns the operator symbol, as used in error messages.
func (op BinaryOp) String() string {
	if op < 0 || op >= NumBinaryOps {
		return "<unknown binary op>"
	}
	return binaryMeta[op].symbol
}

// Method returns the name a class overloads the operator with.
func (op BinaryOp) Method() string {
	if op < 0 || op >= NumBinaryOps {
		return ""
	}
	return binaryMeta[op].method
}

// UnaryOp identifies a unary operator.
type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpUPlus
	OpUMinus
	OpTranspose
	OpHermitian
	OpIncr
	OpDecr

	NumUnaryOps
)

var unaryMeta = [NumUnaryOps]opMeta{
	OpNot:       {"!", "not"},
	OpUPlus:     {"+", "uplus"},
	OpUMinus:    {"-", "uminus"},
	OpTranspose: {".'", "transpose"},
	OpHermitian: {"'", "ctranspose"},
	OpIncr:      {"++", ""},
	OpDecr:      {"--", ""},
}

func (op UnaryOp) String() string {
	if op < 0 || op >= NumUnaryOps {
		return "<unknown unary op>"
	}
	return unaryMeta[op].symbol
}

// Method returns the overload name, empty for operators classes cannot
// overload.
func (op UnaryOp) Method() string {
	if op < 0 || op >= NumUnaryOps {
		return ""
	}
	return unaryMeta[op].method
}

// CompoundOp identifies an operator fused from a unary and a binary one,
// such as A'*B.
type CompoundOp int

const (
	OpTransMul CompoundOp = iota
	OpMulTrans
	OpHermMul
	OpMulHerm
	OpTransLdiv
	OpHermLdiv
	OpElNotAnd
	OpElNotOr
	OpElAndNot
	OpElOrNot

	NumCompoundOps
)

type compoundMeta struct {
	name   string
	left   UnaryOp
	right  UnaryOp
	binary BinaryOp
}

const noUnary UnaryOp = -1

var compoundTable = [NumCompoundOps]compoundMeta{
	OpTransMul:  {"transtimes", OpTranspose, noUnary, OpMul},
	OpMulTrans:  {"timestrans", noUnary, OpTranspose, OpMul},
	OpHermMul:   {"hermtimes", OpHermitian, noUnary, OpMul},
	OpMulHerm:   {"timesherm", noUnary, OpHermitian, OpMul},
	OpTransLdiv: {"transldiv", OpTranspose, noUnary, OpLdiv},
	OpHermLdiv:  {"hermldiv", OpHermitian, noUnary, OpLdiv},
	OpElNotAnd:  {"notand", OpNot, noUnary, OpElAnd},
	OpElNotOr:   {"notor", OpNot, noUnary, OpElOr},
	OpElAndNot:  {"andnot", noUnary, OpNot, OpElAnd},
	OpElOrNot:   {"ornot", noUnary, OpNot, OpElOr},
}

func (op CompoundOp) String() string {
	if op < 0 || op >= NumCompoundOps {
		return "<unknown compound op>"
	}
	return compoundTable[op].name
}

// Decompose returns the unary operators applied to each operand (or -1 for
// none) and the binary operator that combines them.
func (op CompoundOp) Decompose() (left, right UnaryOp, binary BinaryOp) {
	m := compoundTable[op]
	return m.left, m.right, m.binary
}

// AssignOp identifies an assignment operator. Every operator other than
// OpAsnEq reads the target, applies a binary operator and writes back.
type AssignOp int

const (
	OpAsnEq AssignOp = iota
	OpAddEq
	OpSubEq
	OpMulEq
	OpDivEq
	OpLdivEq
	OpPowEq
	OpElMulEq
	OpElDivEq
	OpElLdivEq
	OpElPowEq
	OpElAndEq
	OpElOrEq

	NumAssignOps
)

var assignMeta = [NumAssignOps]struct {
	symbol string
	binary BinaryOp
}{
	OpAsnEq:    {"=", -1},
	OpAddEq:    {"+=", OpAdd},
	OpSubEq:    {"-=", OpSub},
	OpMulEq:    {"*=", OpMul},
	OpDivEq:    {"/=", OpDiv},
	OpLdivEq:   {"\\=", OpLdiv},
	OpPowEq:    {"^=", OpPow},
	OpElMulEq:  {".*=", OpElMul},
	OpElDivEq:  {"./=", OpElDiv},
	OpElLdivEq: {".\\=", OpElLdiv},
	OpElPowEq:  {".^=", OpElPow},
	OpElAndEq:  {"&=", OpElAnd},
	OpElOrEq:   {"|=", OpElOr},
}

func (op AssignOp) String() string {
	if op < 0 || op >= NumAssignOps {
		return "<unknown assign op>"
	}
	return assignMeta[op].symbol
}

// Binary returns the operator a compound assignment applies. ok is false
// for plain assignment.
func (op AssignOp) Binary() (BinaryOp, bool) {
	if op <= OpAsnEq || op >= NumAssignOps {
		return 0, false
	}
	return assignMeta[op].binary, true
}

// ParseBinaryOp converts a symbol or method name to a binary operator.
func ParseBinaryOp(s string) (BinaryOp, bool) {
	for op := BinaryOp(0); op < NumBinaryOps; op++ {
		if binaryMeta[op].symbol == s || binaryMeta[op].method == s {
			return op, true
		}
	}
	if s == "~=" {
		return OpNe, true
	}
	return 0, false
}

// ParseUnaryOp converts a symbol or method name to a unary operator.
func ParseUnaryOp(s string) (UnaryOp, bool) {
	for op := UnaryOp(0); op < NumUnaryOps; op++ {
		if unaryMeta[op].symbol == s || (unaryMeta[op].method != "" && unaryMeta[op].method == s) {
			return op, true
		}
	}
	if s == "~" {
		return OpNot, true
	}
	return 0, false
}

// ParseCompoundOp converts a compound operator name to its value.
func ParseCompoundOp(s string) (CompoundOp, bool) {
	for op := CompoundOp(0); op < NumCompoundOps; op++ {
		if compoundTable[op].name == s {
			return op, true
		}
	}
	return 0, false
}

// ParseAssignOp converts an assignment symbol to its value.
func ParseAssignOp(s string) (AssignOp, bool) {
	for op := AssignOp(0); op < NumAssignOps; op++ {
		if assignMeta[op].symbol == s {
			return op, true
		}
	}
	return 0, false
}
