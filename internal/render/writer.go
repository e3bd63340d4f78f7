package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zoobzio/anyof/internal/types"
)

// countStarSQL is the SQL for COUNT(*) aggregate.
const countStarSQL = "COUNT(*)"

// Dialect supplies the syntax that differs between database engines.
type Dialect interface {
	Name() string
	QuoteIdentifier(name string) string
	ValidateOperator(op types.Operator) error
	RenderPagination(ast *types.AST, sql *strings.Builder) error
	Capabilities() Capabilities
}

// Context collects bound values in the order their markers are written.
type Context struct {
	binds []any
	args  []any
	style PlaceholderStyle
}

// NewContext creates a render context over the given bind list.
func NewContext(binds []any, style PlaceholderStyle) *Context {
	return &Context{binds: binds, style: style}
}

// AddParam appends the referenced value and returns its marker.
func (ctx *Context) AddParam(p types.Param) (string, error) {
	if p.Index < 0 || p.Index >= len(ctx.binds) {
		return "", fmt.Errorf("parameter index %d out of range (%d bound values)", p.Index, len(ctx.binds))
	}
	ctx.args = append(ctx.args, ctx.binds[p.Index])
	return ctx.style.Marker(len(ctx.args)), nil
}

// Args returns the values in marker order.
func (ctx *Context) Args() []any {
	return ctx.args
}

// Query renders a full SELECT or COUNT statement.
func Query(d Dialect, ast *types.AST) (*types.QueryResult, error) {
	if err := ast.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AST: %w", err)
	}

	var sql strings.Builder
	ctx := NewContext(ast.Binds, d.Capabilities().Placeholder)

	switch ast.Operation {
	case types.OpSelect:
		if err := renderSelect(d, ast, &sql, ctx); err != nil {
			return nil, err
		}
	case types.OpCount:
		if err := renderCount(d, ast, &sql, ctx); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported operation: %s", ast.Operation)
	}

	return &types.QueryResult{SQL: sql.String(), Args: ctx.Args()}, nil
}

// Condition renders a predicate tree on its own, as it would appear after WHERE.
func Condition(d Dialect, cond types.ConditionItem, binds []any) (*types.QueryResult, error) {
	if cond == nil {
		return nil, fmt.Errorf("condition is required")
	}

	var sql strings.Builder
	ctx := NewContext(binds, d.Capabilities().Placeholder)
	if err := renderCondition(d, cond, &sql, ctx); err != nil {
		return nil, err
	}
	return &types.QueryResult{SQL: sql.String(), Args: ctx.Args()}, nil
}

// LimitOffset writes LIMIT/OFFSET pagination.
func LimitOffset(ast *types.AST, sql *strings.Builder) {
	if ast.Limit != nil {
		sql.WriteString(" LIMIT ")
		sql.WriteString(strconv.Itoa(*ast.Limit))
	}
	if ast.Offset != nil {
		sql.WriteString(" OFFSET ")
		sql.WriteString(strconv.Itoa(*ast.Offset))
	}
}

func renderSelect(d Dialect, ast *types.AST, sql *strings.Builder, ctx *Context) error {
	sql.WriteString("SELECT ")

	if ast.Distinct {
		sql.WriteString("DISTINCT ")
	}

	if len(ast.Fields) == 0 {
		sql.WriteString(d.QuoteIdentifier(ast.Target.Ref()))
		sql.WriteString(".*")
	} else {
		selections := make([]string, 0, len(ast.Fields))
		for _, field := range ast.Fields {
			selections = append(selections, renderField(d, field))
		}
		sql.WriteString(strings.Join(selections, ", "))
	}

	if err := renderFrom(d, ast, sql, ctx); err != nil {
		return err
	}

	if len(ast.Ordering) > 0 {
		sql.WriteString(" ORDER BY ")
		orderParts := make([]string, 0, len(ast.Ordering))
		for _, order := range ast.Ordering {
			orderParts = append(orderParts, fmt.Sprintf("%s %s", renderField(d, order.Field), order.Direction))
		}
		sql.WriteString(strings.Join(orderParts, ", "))
	}

	return d.RenderPagination(ast, sql)
}

// renderCount ignores ordering and pagination. A DISTINCT relation is
// counted through a derived table so joined duplicates are not counted.
func renderCount(d Dialect, ast *types.AST, sql *strings.Builder, ctx *Context) error {
	if ast.Distinct {
		sql.WriteString("SELECT " + countStarSQL + " FROM (SELECT DISTINCT ")
		sql.WriteString(d.QuoteIdentifier(ast.Target.Ref()))
		sql.WriteString(".*")
		if err := renderFrom(d, ast, sql, ctx); err != nil {
			return err
		}
		sql.WriteString(") AS ")
		sql.WriteString(d.QuoteIdentifier("counted"))
		return nil
	}

	sql.WriteString("SELECT " + countStarSQL)
	return renderFrom(d, ast, sql, ctx)
}

func renderFrom(d Dialect, ast *types.AST, sql *strings.Builder, ctx *Context) error {
	sql.WriteString(" FROM ")
	sql.WriteString(renderTable(d, ast.Target))

	for _, join := range ast.Joins {
		sql.WriteString(" ")
		if join.Raw != "" {
			sql.WriteString(strings.TrimSpace(join.Raw))
			continue
		}
		sql.WriteString(string(join.Type))
		sql.WriteString(" ")
		sql.WriteString(renderTable(d, join.Table))
		sql.WriteString(" ON ")
		if err := renderCondition(d, join.On, sql, ctx); err != nil {
			return err
		}
	}

	if ast.WhereClause != nil {
		sql.WriteString(" WHERE ")
		if err := renderCondition(d, ast.WhereClause, sql, ctx); err != nil {
			return err
		}
	}
	return nil
}

func renderTable(d Dialect, table types.Table) string {
	quotedName := d.QuoteIdentifier(table.Name)
	if table.Alias != "" {
		return fmt.Sprintf("%s %s", quotedName, d.QuoteIdentifier(table.Alias))
	}
	return quotedName
}

func renderField(d Dialect, field types.Field) string {
	quotedName := d.QuoteIdentifier(field.Name)
	if field.Table != "" {
		return fmt.Sprintf("%s.%s", d.QuoteIdentifier(field.Table), quotedName)
	}
	return quotedName
}

func renderCondition(d Dialect, cond types.ConditionItem, sql *strings.Builder, ctx *Context) error {
	switch c := cond.(type) {
	case types.Condition:
		return renderSimpleCondition(d, c, sql, ctx)
	case types.ConditionGroup:
		if len(c.Conditions) == 0 {
			return fmt.Errorf("empty condition group")
		}
		sql.WriteString("(")
		for i, subCond := range c.Conditions {
			if i > 0 {
				fmt.Fprintf(sql, " %s ", c.Logic)
			}
			if err := renderCondition(d, subCond, sql, ctx); err != nil {
				return err
			}
		}
		sql.WriteString(")")
	case types.NotCondition:
		sql.WriteString("NOT ")
		// groups and raw text already carry their own parentheses
		switch c.Condition.(type) {
		case types.ConditionGroup, types.RawCondition:
			return renderCondition(d, c.Condition, sql, ctx)
		}
		sql.WriteString("(")
		if err := renderCondition(d, c.Condition, sql, ctx); err != nil {
			return err
		}
		sql.WriteString(")")
	case types.RawCondition:
		return renderRawCondition(c, sql, ctx)
	case types.FieldComparison:
		if err := d.ValidateOperator(c.Operator); err != nil {
			return err
		}
		fmt.Fprintf(sql, "%s %s %s",
			renderField(d, c.LeftField),
			c.Operator,
			renderField(d, c.RightField))
	default:
		return fmt.Errorf("unknown condition type: %T", c)
	}
	return nil
}

func renderSimpleCondition(d Dialect, cond types.Condition, sql *strings.Builder, ctx *Context) error {
	if err := d.ValidateOperator(cond.Operator); err != nil {
		return err
	}
	field := renderField(d, cond.Field)

	switch {
	case cond.Operator.IsNullCheck():
		fmt.Fprintf(sql, "%s %s", field, cond.Operator)
	case cond.Operator.IsSetMembership():
		// an empty set matches nothing, and excluding it matches everything
		if len(cond.Values) == 0 {
			if cond.Operator == types.IN {
				sql.WriteString("1=0")
			} else {
				sql.WriteString("1=1")
			}
			return nil
		}
		markers := make([]string, 0, len(cond.Values))
		for _, p := range cond.Values {
			marker, err := ctx.AddParam(p)
			if err != nil {
				return err
			}
			markers = append(markers, marker)
		}
		fmt.Fprintf(sql, "%s %s (%s)", field, cond.Operator, strings.Join(markers, ", "))
	default:
		marker, err := ctx.AddParam(cond.Value)
		if err != nil {
			return err
		}
		fmt.Fprintf(sql, "%s %s %s", field, cond.Operator, marker)
	}
	return nil
}

func renderRawCondition(cond types.RawCondition, sql *strings.Builder, ctx *Context) error {
	markers := FindPlaceholders(cond.SQL, PlaceholderQuestion)
	if len(markers) != len(cond.Params) {
		return fmt.Errorf("raw condition %q has %d placeholders but %d parameters",
			cond.SQL, len(markers), len(cond.Params))
	}

	rendered := make([]string, len(markers))
	for i, p := range cond.Params {
		marker, err := ctx.AddParam(p)
		if err != nil {
			return err
		}
		rendered[i] = marker
	}

	sql.WriteString("(")
	sql.WriteString(ReplacePlaceholders(cond.SQL, markers, func(i int, _ Placeholder) string {
		return rendered[i]
	}))
	sql.WriteString(")")
	return nil
}
