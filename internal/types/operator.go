package types

// Operator represents query comparison operators.
type Operator string

const (
	// Basic comparison operators.
	EQ Operator = "="
	NE Operator = "!="
	GT Operator = ">"
	GE Operator = ">="
	LT Operator = "<"
	LE Operator = "<="

	// Extended operators.
	IN        Operator = "IN"
	NotIn     Operator = "NOT IN"
	LIKE      Operator = "LIKE"
	NotLike   Operator = "NOT LIKE"
	ILIKE     Operator = "ILIKE"
	NotILike  Operator = "NOT ILIKE"
	IsNull    Operator = "IS NULL"
	IsNotNull Operator = "IS NOT NULL"
)

// IsNullCheck reports whether the operator takes no value.
func (op Operator) IsNullCheck() bool {
	return op == IsNull || op == IsNotNull
}

// IsSetMembership reports whether the operator compares against a value list.
func (op Operator) IsSetMembership() bool {
	return op == IN || op == NotIn
}
