package types

// Condition represents a comparison between a field and bound values.
// Values are always positional parameters into the relation's bind list, never literals.
// This is exported from the internal package so dialects can use it,
// but external users cannot import this package.
type Condition struct {
	Field    Field
	Operator Operator
	Value    Param
	Values   []Param // IN / NOT IN members
}

// ConditionItem represents any node of a predicate tree.
type ConditionItem interface {
	IsConditionItem()
}

// LogicOperator represents how conditions are combined.
type LogicOperator string

const (
	AND LogicOperator = "AND"
	OR  LogicOperator = "OR"
)

// ConditionGroup represents grouped conditions with AND/OR logic.
type ConditionGroup struct {
	Logic      LogicOperator
	Conditions []ConditionItem
}

// NotCondition negates the wrapped condition.
type NotCondition struct {
	Condition ConditionItem
}

// RawCondition is caller-supplied predicate text. Each generic "?" marker
// outside a quoted span binds to the next entry of Params.
type RawCondition struct {
	SQL    string
	Params []Param
}

// FieldComparison represents a comparison between two fields.
type FieldComparison struct {
	LeftField  Field
	Operator   Operator
	RightField Field
}

// Implement ConditionItem interface.
func (Condition) IsConditionItem()       {}
func (ConditionGroup) IsConditionItem()  {}
func (NotCondition) IsConditionItem()    {}
func (RawCondition) IsConditionItem()    {}
func (FieldComparison) IsConditionItem() {}

// Shift returns a copy of item with every parameter index moved by offset.
// The input tree is never modified.
func Shift(item ConditionItem, offset int) ConditionItem {
	if offset == 0 || item == nil {
		return item
	}
	switch c := item.(type) {
	case Condition:
		c.Value = c.Value.Shift(offset)
		if c.Values != nil {
			values := make([]Param, len(c.Values))
			for i, p := range c.Values {
				values[i] = p.Shift(offset)
			}
			c.Values = values
		}
		return c
	case ConditionGroup:
		conditions := make([]ConditionItem, len(c.Conditions))
		for i, sub := range c.Conditions {
			conditions[i] = Shift(sub, offset)
		}
		return ConditionGroup{Logic: c.Logic, Conditions: conditions}
	case NotCondition:
		return NotCondition{Condition: Shift(c.Condition, offset)}
	case RawCondition:
		params := make([]Param, len(c.Params))
		for i, p := range c.Params {
			params[i] = p.Shift(offset)
		}
		return RawCondition{SQL: c.SQL, Params: params}
	default:
		return item
	}
}

// CountParams returns how many parameter slots the tree references.
func CountParams(item ConditionItem) int {
	switch c := item.(type) {
	case Condition:
		if c.Operator.IsNullCheck() {
			return 0
		}
		if c.Operator.IsSetMembership() {
			return len(c.Values)
		}
		return 1
	case ConditionGroup:
		n := 0
		for _, sub := range c.Conditions {
			n += CountParams(sub)
		}
		return n
	case NotCondition:
		return CountParams(c.Condition)
	case RawCondition:
		return len(c.Params)
	default:
		return 0
	}
}
