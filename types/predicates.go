package types

// Kind predicates

// IsNumericKind reports double, single and integer kinds, including the
// special numeric forms. Logical and char kinds are not numeric.
func IsNumericKind(k Kind) bool {
	switch {
	case k >= KindScalar && k <= KindUint64Matrix:
		return true
	case k >= KindRange && k <= KindSparseComplexMatrix:
		return true
	}
	return false
}

// IsIntegerKind reports the integer classes.
func IsIntegerKind(k Kind) bool {
	return k >= KindInt8Scalar && k <= KindUint64Matrix
}

// IsSingleKind reports single-precision kinds.
func IsSingleKind(k Kind) bool {
	return k >= KindFloatScalar && k <= KindFloatComplexMatrix
}

// IsComplexKind reports kinds that store complex elements.
func IsComplexKind(k Kind) bool {
	switch k {
	case KindComplex, KindComplexMatrix, KindFloatComplex, KindFloatComplexMatrix,
		KindComplexDiagMatrix, KindSparseComplexMatrix:
		return true
	}
	return false
}

// IsBoolKind reports logical kinds.
func IsBoolKind(k Kind) bool {
	return k == KindBool || k == KindBoolMatrix || k == KindSparseBoolMatrix
}

// IsSparseKind reports compressed kinds.
func IsSparseKind(k Kind) bool {
	return k >= KindSparseMatrix && k <= KindSparseBoolMatrix
}

// IsScalarKind reports kinds that always hold exactly one element.
func IsScalarKind(k Kind) bool {
	_, ok := scalarToMatrix[k]
	return ok
}

// Value predicates

// IsDefined reports a value that holds anything.
func IsDefined(v Value) bool { return v.IsDefined() }

// IsNumeric reports a numeric value.
func IsNumeric(v Value) bool { return IsNumericKind(v.Kind()) }

// IsReal reports a numeric, logical or char value without complex storage.
func IsReal(v Value) bool {
	k := v.Kind()
	return (IsNumericKind(k) || IsBoolKind(k) || k == KindCharString) && !IsComplexKind(k)
}

// IsComplex reports complex storage.
func IsComplex(v Value) bool { return IsComplexKind(v.Kind()) }

// IsBool reports a logical value.
func IsBool(v Value) bool { return IsBoolKind(v.Kind()) }

// IsChar reports a char array.
func IsChar(v Value) bool {
	return v.Kind() == KindCharString || v.Kind() == KindNullString
}

// IsString reports a char row vector or ''.
func IsString(v Value) bool {
	d := v.Dims()
	return IsChar(v) && (d.IsZeroByZero() || (d.Ndims() == 2 && d.Rows() == 1))
}

// IsRange reports the lazy range form.
func IsRange(v Value) bool { return v.Kind() == KindRange }

// IsDiag reports a diagonal matrix, real or complex.
func IsDiag(v Value) bool {
	return v.Kind() == KindDiagMatrix || v.Kind() == KindComplexDiagMatrix
}

// IsPerm reports a permutation matrix.
func IsPerm(v Value) bool { return v.Kind() == KindPermMatrix }

// IsInteger reports an integer-class value.
func IsInteger(v Value) bool { return IsIntegerKind(v.Kind()) }

// IsSingle reports a single-precision value.
func IsSingle(v Value) bool { return IsSingleKind(v.Kind()) }

// IsSparse reports a sparse value.
func IsSparse(v Value) bool { return IsSparseKind(v.Kind()) }

// IsCell reports a cell array.
func IsCell(v Value) bool { return v.Kind() == KindCell }

// IsStruct reports a struct or struct array.
func IsStruct(v Value) bool {
	return v.Kind() == KindStruct || v.Kind() == KindScalarStruct
}

// IsObject reports a class instance.
func IsObject(v Value) bool { return v.Kind() == KindObject }

// IsFunctionHandle reports a function handle.
func IsFunctionHandle(v Value) bool { return v.Kind() == KindFunctionHandle }

// IsCSList reports a cs-list.
func IsCSList(v Value) bool { return v.Kind() == KindCSList }

// IsNull reports the [] or '' literal before it is stored.
func IsNull(v Value) bool {
	return v.Kind() == KindNullMatrix || v.Kind() == KindNullString
}

// IsEmpty reports a value with no elements.
func IsEmpty(v Value) bool { return v.Dims().IsEmpty() }

// IsScalar reports a 1x1 value.
func IsScalar(v Value) bool { return v.Dims().IsScalar() }

// IsVector reports a 2-D value with one singleton dimension.
func IsVector(v Value) bool { return v.Dims().IsVector() }

// IsMatrix reports a 2-D value.
func IsMatrix(v Value) bool { return v.Dims().Ndims() == 2 }

// IsSquare reports a 2-D value with equal extents.
func IsSquare(v Value) bool {
	d := v.Dims()
	return d.Ndims() == 2 && d.Rows() == d.Cols()
}

// IsZeroByZero reports the 0x0 shape.
func IsZeroByZero(v Value) bool { return v.Dims().IsZeroByZero() }
