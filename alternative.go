package anyof

import (
	"reflect"
	"sort"
)

// Alternative is one condition combined by AnyOf or NoneOf.
// It is implemented by Raw, Template, Fields and *Relation.
type Alternative interface {
	isAlternative()
}

// Raw is predicate text with no bound values.
type Raw string

// Template is predicate text whose "?" markers bind to Args in order.
// A slice argument expands to a comma separated marker list.
type Template struct {
	SQL  string
	Args []any
}

// Tpl creates a Template.
func Tpl(sql string, args ...any) Template {
	return Template{SQL: sql, Args: args}
}

// Fields maps column names to values. A nil value matches NULL, a slice
// matches any member, and a nested Fields keyed by an association or table
// name filters that table's columns.
type Fields map[string]any

func (Raw) isAlternative()       {}
func (Template) isAlternative()  {}
func (Fields) isAlternative()    {}
func (*Relation) isAlternative() {}

// AlternativeOf converts a loosely typed value into an Alternative.
// Besides the Alternative types it accepts a string (Raw), a []any whose
// first element is the template text (Template) and a map[string]any (Fields).
func AlternativeOf(v any) (Alternative, error) {
	switch a := v.(type) {
	case *Relation:
		if a == nil {
			return nil, NewConditionTypeError(v)
		}
		return a, nil
	case Alternative:
		return a, nil
	case string:
		return Raw(a), nil
	case map[string]any:
		return Fields(a), nil
	case []any:
		if len(a) == 0 {
			return nil, NewConditionTypeError(v)
		}
		sql, ok := a[0].(string)
		if !ok {
			return nil, NewConditionTypeError(v)
		}
		args := make([]any, len(a)-1)
		copy(args, a[1:])
		return Template{SQL: sql, Args: args}, nil
	}
	return nil, NewConditionTypeError(v)
}

// split returns one single-entry Fields per key, in key order.
func (f Fields) split() []Alternative {
	keys := f.keys()
	alts := make([]Alternative, 0, len(keys))
	for _, k := range keys {
		alts = append(alts, Fields{k: f[k]})
	}
	return alts
}

func (f Fields) keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// listValues reports whether v is a list of values and returns its members.
// Byte slices are scalar values.
func listValues(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if list, ok := v.([]any); ok {
		return list, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	values := make([]any, rv.Len())
	for i := range values {
		values[i] = rv.Index(i).Interface()
	}
	return values, true
}

// nestedFields reports whether v is a nested column map.
func nestedFields(v any) (Fields, bool) {
	switch f := v.(type) {
	case Fields:
		return f, true
	case map[string]any:
		return Fields(f), true
	}
	return nil, false
}
