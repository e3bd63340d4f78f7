package types

import (
	"fmt"
	"strings"
)

// Operation represents the type of query operation.
type Operation string

const (
	OpSelect Operation = "SELECT"
	OpCount  Operation = "COUNT"
)

// Direction represents sort direction.
type Direction string

const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)

// OrderBy represents an ORDER BY clause.
type OrderBy struct {
	Field     Field
	Direction Direction
}

// JoinType represents the type of SQL join.
type JoinType string

const (
	InnerJoin     JoinType = "INNER JOIN"
	LeftOuterJoin JoinType = "LEFT OUTER JOIN"
)

// Join represents a resolved SQL JOIN clause.
// Raw joins carry caller-supplied text and ignore the other fields.
type Join struct {
	On    ConditionItem
	Table Table
	Type  JoinType
	Raw   string
}

// JoinRef is a join request recorded on a relation before resolution:
// either an association name or a raw join clause.
type JoinRef struct {
	Association string
	SQL         string
}

// Key returns the rendered identity used to deduplicate join requests.
func (j JoinRef) Key() string {
	if j.SQL != "" {
		return strings.Join(strings.Fields(j.SQL), " ")
	}
	return j.Association
}

// AST represents the abstract syntax tree for a relation query.
// This is exported from the internal package so dialects can use it,
// but external users cannot import this package.
//
//nolint:govet // fieldalignment: Logical grouping is preferred over memory optimization
type AST struct {
	Operation   Operation
	Target      Table
	Fields      []Field
	Distinct    bool
	Joins       []Join
	WhereClause ConditionItem
	Binds       []any // values referenced by Param.Index
	Ordering    []OrderBy
	Limit       *int
	Offset      *int
}

// Validate performs basic validation on the AST.
func (ast *AST) Validate() error {
	if ast.Target.Name == "" {
		return fmt.Errorf("target table is required")
	}

	switch ast.Operation {
	case OpSelect, OpCount:
	default:
		return fmt.Errorf("unsupported operation: %s", ast.Operation)
	}

	for _, join := range ast.Joins {
		if join.Raw == "" && join.On == nil {
			return fmt.Errorf("%s %s requires ON clause", join.Type, join.Table.Name)
		}
	}

	if ast.WhereClause != nil {
		if err := validateParams(ast.WhereClause, len(ast.Binds)); err != nil {
			return err
		}
	}

	return nil
}

// validateParams checks that every parameter points inside the bind list.
func validateParams(item ConditionItem, binds int) error {
	check := func(p Param) error {
		if p.Index < 0 || p.Index >= binds {
			return fmt.Errorf("parameter index %d out of range (%d bound values)", p.Index, binds)
		}
		return nil
	}

	switch c := item.(type) {
	case Condition:
		if c.Operator.IsNullCheck() {
			return nil
		}
		if c.Operator.IsSetMembership() {
			for _, p := range c.Values {
				if err := check(p); err != nil {
					return err
				}
			}
			return nil
		}
		return check(c.Value)
	case ConditionGroup:
		if len(c.Conditions) == 0 {
			return fmt.Errorf("empty condition group")
		}
		for _, sub := range c.Conditions {
			if err := validateParams(sub, binds); err != nil {
				return err
			}
		}
	case NotCondition:
		return validateParams(c.Condition, binds)
	case RawCondition:
		for _, p := range c.Params {
			if err := check(p); err != nil {
				return err
			}
		}
	}
	return nil
}
