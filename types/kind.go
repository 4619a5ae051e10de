package types

// Kind identifies a concrete value representation. Kinds are dense
// integers so dispatch tables can be indexed by them directly.
type Kind int

const (
	KindUndefined Kind = iota
	KindNullMatrix
	KindNullString
	KindBool
	KindBoolMatrix
	KindCharString
	KindScalar
	KindMatrix
	KindComplex
	KindComplexMatrix
	KindFloatScalar
	KindFloatMatrix
	KindFloatComplex
	KindFloatComplexMatrix
	KindInt8Scalar
	KindInt16Scalar
	KindInt32Scalar
	KindInt64Scalar
	KindUint8Scalar
	KindUint16Scalar
	KindUint32Scalar
	KindUint64Scalar
	KindInt8Matrix
	KindInt16Matrix
	KindInt32Matrix
	KindInt64Matrix
	KindUint8Matrix
	KindUint16Matrix
	KindUint32Matrix
	KindUint64Matrix
	KindRange
	KindDiagMatrix
	KindComplexDiagMatrix
	KindPermMatrix
	KindSparseMatrix
	KindSparseComplexMatrix
	KindSparseBoolMatrix
	KindCell
	KindStruct
	KindScalarStruct
	KindObject
	KindFunctionHandle
	KindCSList

	// NumKinds is the size of kind-indexed tables.
	NumKinds
)

type kindMeta struct {
	name  string
	class string
}

var kindTable = [NumKinds]kindMeta{
	KindUndefined:           {"<undefined>", ""},
	KindNullMatrix:          {"null_matrix", "double"},
	KindNullString:          {"null_string", "char"},
	KindBool:                {"bool", "logical"},
	KindBoolMatrix:          {"bool matrix", "logical"},
	KindCharString:          {"char string", "char"},
	KindScalar:              {"scalar", "double"},
	KindMatrix:              {"matrix", "double"},
	KindComplex:             {"complex scalar", "double"},
	KindComplexMatrix:       {"complex matrix", "double"},
	KindFloatScalar:         {"float scalar", "single"},
	KindFloatMatrix:         {"float matrix", "single"},
	KindFloatComplex:        {"float complex scalar", "single"},
	KindFloatComplexMatrix:  {"float complex matrix", "single"},
	KindInt8Scalar:          {"int8 scalar", "int8"},
	KindInt16Scalar:         {"int16 scalar", "int16"},
	KindInt32Scalar:         {"int32 scalar", "int32"},
	KindInt64Scalar:         {"int64 scalar", "int64"},
	KindUint8Scalar:         {"uint8 scalar", "uint8"},
	KindUint16Scalar:        {"uint16 scalar", "uint16"},
	KindUint32Scalar:        {"uint32 scalar", "uint32"},
	KindUint64Scalar:        {"uint64 scalar", "uint64"},
	KindInt8Matrix:          {"int8 matrix", "int8"},
	KindInt16Matrix:         {"int16 matrix", "int16"},
	KindInt32Matrix:         {"int32 matrix", "int32"},
	KindInt64Matrix:         {"int64 matrix", "int64"},
	KindUint8Matrix:         {"uint8 matrix", "uint8"},
	KindUint16Matrix:        {"uint16 matrix", "uint16"},
	KindUint32Matrix:        {"uint32 matrix", "uint32"},
	KindUint64Matrix:        {"uint64 matrix", "uint64"},
	KindRange:               {"range", "double"},
	KindDiagMatrix:          {"diagonal matrix", "double"},
	KindComplexDiagMatrix:   {"complex diagonal matrix", "double"},
	KindPermMatrix:          {"permutation matrix", "double"},
	KindSparseMatrix:        {"sparse matrix", "double"},
	KindSparseComplexMatrix: {"sparse complex matrix", "double"},
	KindSparseBoolMatrix:    {"sparse bool matrix", "logical"},
	KindCell:                {"cell", "cell"},
	KindStruct:              {"struct", "struct"},
	KindScalarStruct:        {"scalar struct", "struct"},
	KindObject:              {"object", ""},
	KindFunctionHandle:      {"function handle", "function_handle"},
	KindCSList:              {"cs-list", "cs-list"},
}

// String returns the kind's type name, as used in error messages.
func (k Kind) String() string {
	if k < 0 || k >= NumKinds {
		return "<unknown type>"
	}
	return kindTable[k].name
}

// ClassName returns the user-visible class of values of this kind. Objects
// report their own class instead.
func (k Kind) ClassName() string {
	if k < 0 || k >= NumKinds {
		return ""
	}
	return kindTable[k].class
}

// Valid reports whether k names a kind.
func (k Kind) Valid() bool {
	return k >= 0 && k < NumKinds
}

// KindFromString converts a type name like "bool matrix" to a Kind.
func KindFromString(s string) (Kind, bool) {
	for k := Kind(0); k < NumKinds; k++ {
		if kindTable[k].name == s {
			return k, true
		}
	}
	return KindUndefined, false
}

// AllKinds lists every kind in table order.
func AllKinds() []Kind {
	out := make([]Kind, NumKinds)
	for k := range out {
		out[k] = Kind(k)
	}
	return out
}

var scalarToMatrix = map[Kind]Kind{
	KindBool:         KindBoolMatrix,
	KindScalar:       KindMatrix,
	KindComplex:      KindComplexMatrix,
	KindFloatScalar:  KindFloatMatrix,
	KindFloatComplex: KindFloatComplexMatrix,
	KindInt8Scalar:   KindInt8Matrix,
	KindInt16Scalar:  KindInt16Matrix,
	KindInt32Scalar:  KindInt32Matrix,
	KindInt64Scalar:  KindInt64Matrix,
	KindUint8Scalar:  KindUint8Matrix,
	KindUint16Scalar: KindUint16Matrix,
	KindUint32Scalar: KindUint32Matrix,
	KindUint64Scalar: KindUint64Matrix,
}

var matrixToScalar = func() map[Kind]Kind {
	m := make(map[Kind]Kind, len(scalarToMatrix))
	for s, mk := range scalarToMatrix {
		m[mk] = s
	}
	return m
}()

// MatrixKind returns the full-array kind holding the same elements as a
// scalar kind, or k itself.
func MatrixKind(k Kind) Kind {
	if m, ok := scalarToMatrix[k]; ok {
		return m
	}
	return k
}

// ScalarKind returns the scalar kind for a full-array kind.
func ScalarKind(k Kind) (Kind, bool) {
	s, ok := matrixToScalar[k]
	return s, ok
}

// IntScalarKinds lists the integer scalar kinds.
func IntScalarKinds() []Kind {
	return []Kind{KindInt8Scalar, KindInt16Scalar, KindInt32Scalar, KindInt64Scalar,
		KindUint8Scalar, KindUint16Scalar, KindUint32Scalar, KindUint64Scalar}
}

// IntMatrixKinds lists the integer matrix kinds, aligned with IntScalarKinds.
func IntMatrixKinds() []Kind {
	return []Kind{KindInt8Matrix, KindInt16Matrix, KindInt32Matrix, KindInt64Matrix,
		KindUint8Matrix, KindUint16Matrix, KindUint32Matrix, KindUint64Matrix}
}
