package anyof

import (
	"fmt"
	"slices"
	"strings"

	"github.com/zoobzio/anyof/internal/render"
	"github.com/zoobzio/anyof/internal/types"
)

// alternativeFrom converts Where arguments into an Alternative.
func alternativeFrom(condition any, args []any) (Alternative, error) {
	if len(args) == 0 {
		return AlternativeOf(condition)
	}
	switch c := condition.(type) {
	case string:
		return Template{SQL: c, Args: args}, nil
	case Raw:
		return Template{SQL: string(c), Args: args}, nil
	}
	return nil, NewConditionTypeError(condition)
}

// predicateBuilder collects bound values while a predicate is assembled.
type predicateBuilder struct {
	schema *Schema
	table  string
	binds  []any
}

func (b *predicateBuilder) bind(v any) types.Param {
	b.binds = append(b.binds, v)
	return types.Param{Index: len(b.binds) - 1}
}

// resolve turns an alternative into a predicate on r's table whose params
// index into the returned binds.
func (r *Relation) resolve(alt Alternative) (types.ConditionItem, []any, error) {
	b := &predicateBuilder{schema: r.schema, table: r.table}

	switch a := alt.(type) {
	case Raw:
		predicate, err := rawPredicate(string(a))
		return predicate, nil, err
	case Template:
		predicate, err := b.template(a)
		return predicate, b.binds, err
	case Fields:
		predicate, err := b.fields(a)
		return predicate, b.binds, err
	case *Relation:
		if a.err != nil {
			return nil, nil, a.err
		}
		return a.predicate, slices.Clone(a.binds), nil
	}
	return nil, nil, NewConditionTypeError(alt)
}

func rawPredicate(sql string) (types.ConditionItem, error) {
	if strings.TrimSpace(sql) == "" {
		return nil, fmt.Errorf("raw condition cannot be empty")
	}
	if markers := render.FindPlaceholders(sql, render.PlaceholderQuestion); len(markers) > 0 {
		return nil, fmt.Errorf("raw condition %q has %d placeholders but no values; use Tpl to bind them",
			sql, len(markers))
	}
	return types.RawCondition{SQL: sql}, nil
}

// template binds each "?" marker to its argument, expanding list arguments
// into one marker per member.
func (b *predicateBuilder) template(t Template) (types.ConditionItem, error) {
	if strings.TrimSpace(t.SQL) == "" {
		return nil, fmt.Errorf("template condition cannot be empty")
	}
	markers := render.FindPlaceholders(t.SQL, render.PlaceholderQuestion)
	if len(markers) != len(t.Args) {
		return nil, fmt.Errorf("wrong number of bind variables (%d for %d) in: %s",
			len(t.Args), len(markers), t.SQL)
	}

	var params []types.Param
	sql := render.ReplacePlaceholders(t.SQL, markers, func(i int, _ render.Placeholder) string {
		values, ok := listValues(t.Args[i])
		if !ok {
			params = append(params, b.bind(t.Args[i]))
			return "?"
		}
		if len(values) == 0 {
			return "NULL"
		}
		expanded := make([]string, len(values))
		for j, v := range values {
			params = append(params, b.bind(v))
			expanded[j] = "?"
		}
		return strings.Join(expanded, ", ")
	})

	return types.RawCondition{SQL: sql, Params: params}, nil
}

// fields ANDs one condition per key, in key order.
func (b *predicateBuilder) fields(f Fields) (types.ConditionItem, error) {
	var conditions []types.ConditionItem

	for _, key := range f.keys() {
		value := f[key]

		if nested, ok := nestedFields(value); ok {
			table, err := b.schema.tableFor(b.table, key)
			if err != nil {
				return nil, err
			}
			for _, column := range nested.keys() {
				if _, deeper := nestedFields(nested[column]); deeper {
					return nil, fmt.Errorf("conditions on '%s.%s' nest too deeply", key, column)
				}
				cond, err := b.column(table, column, nested[column])
				if err != nil {
					return nil, err
				}
				conditions = append(conditions, cond)
			}
			continue
		}

		table, column := splitField(key, b.table)
		cond, err := b.column(table, column, value)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, cond)
	}

	switch len(conditions) {
	case 0:
		return nil, nil
	case 1:
		return conditions[0], nil
	}
	return types.ConditionGroup{Logic: types.AND, Conditions: conditions}, nil
}

// column builds the comparison for one column: IS NULL for nil, IN for lists
// (with an OR IS NULL branch when the list holds nil), equality otherwise.
func (b *predicateBuilder) column(table, column string, value any) (types.ConditionItem, error) {
	if err := b.schema.validateField(table, column); err != nil {
		return nil, err
	}
	field := types.Field{Name: column, Table: table}

	if _, ok := value.(*Relation); ok {
		return nil, fmt.Errorf("relation values are not supported for field '%s'", column)
	}

	if value == nil {
		return types.Condition{Field: field, Operator: types.IsNull}, nil
	}

	values, ok := listValues(value)
	if !ok {
		return types.Condition{Field: field, Operator: types.EQ, Value: b.bind(value)}, nil
	}

	var params []types.Param
	hasNull := false
	for _, v := range values {
		if v == nil {
			hasNull = true
			continue
		}
		params = append(params, b.bind(v))
	}

	in := types.Condition{Field: field, Operator: types.IN, Values: params}
	switch {
	case !hasNull:
		return in, nil
	case len(params) == 0:
		return types.Condition{Field: field, Operator: types.IsNull}, nil
	}
	return types.ConditionGroup{Logic: types.OR, Conditions: []types.ConditionItem{
		in,
		types.Condition{Field: field, Operator: types.IsNull},
	}}, nil
}
