package anyof

import (
	"fmt"
	"slices"

	"github.com/zoobzio/anyof/internal/types"
)

// and combines two predicates, flattening onto an existing AND group.
func and(p, q types.ConditionItem) types.ConditionItem {
	if p == nil {
		return q
	}
	if q == nil {
		return p
	}
	if group, ok := p.(types.ConditionGroup); ok && group.Logic == types.AND {
		conditions := make([]types.ConditionItem, 0, len(group.Conditions)+1)
		conditions = append(conditions, group.Conditions...)
		return types.ConditionGroup{Logic: types.AND, Conditions: append(conditions, q)}
	}
	return types.ConditionGroup{Logic: types.AND, Conditions: []types.ConditionItem{p, q}}
}

// Relation is an immutable query over one table. Every method returns a new
// Relation; the receiver is never modified. Errors are deferred and reported
// by Err, Build, Render, Load and Count.
type Relation struct {
	schema     *Schema
	table      string
	predicate  types.ConditionItem // AND tree; params index into binds
	binds      []any
	includes   []string
	joins      []types.JoinRef
	references []string
	ordering   []types.OrderBy
	limit      *int
	offset     *int
	err        error
}

// clone returns a copy that shares no slices with r.
func (r *Relation) clone() *Relation {
	next := *r
	next.binds = slices.Clone(r.binds)
	next.includes = slices.Clone(r.includes)
	next.joins = slices.Clone(r.joins)
	next.references = slices.Clone(r.references)
	next.ordering = slices.Clone(r.ordering)
	return &next
}

// fail returns a copy of r carrying err.
func (r *Relation) fail(err error) *Relation {
	next := r.clone()
	next.err = err
	return next
}

// unscoped returns a fresh relation on the same table and schema.
func (r *Relation) unscoped() *Relation {
	return &Relation{schema: r.schema, table: r.table}
}

// Where adds a filter, ANDed with the existing one. The condition is anything
// AlternativeOf accepts; with args, it must be template text whose "?"
// markers bind to args. A *Relation contributes its filter.
func (r *Relation) Where(condition any, args ...any) *Relation {
	return r.where(condition, args, false)
}

// WhereNot adds the negation of a filter, ANDed with the existing one.
func (r *Relation) WhereNot(condition any, args ...any) *Relation {
	return r.where(condition, args, true)
}

func (r *Relation) where(condition any, args []any, negate bool) *Relation {
	if r.err != nil {
		return r
	}

	alt, err := alternativeFrom(condition, args)
	if err != nil {
		return r.fail(err)
	}

	predicate, binds, err := r.resolve(alt)
	if err != nil {
		return r.fail(err)
	}
	return r.whereTree(predicate, binds, negate)
}

// whereTree ANDs a predicate whose params index into binds onto r.
func (r *Relation) whereTree(predicate types.ConditionItem, binds []any, negate bool) *Relation {
	if r.err != nil {
		return r
	}
	next := r.clone()
	if predicate == nil {
		return next
	}
	if negate {
		predicate = types.NotCondition{Condition: predicate}
	}
	next.predicate = and(r.predicate, types.Shift(predicate, len(r.binds)))
	next.binds = append(next.binds, binds...)
	return next
}

// AnyOf adds a filter matching rows that satisfy at least one alternative.
func (r *Relation) AnyOf(alternatives ...any) *Relation {
	next, err := build(Positive, r, alternatives)
	if err != nil {
		return r.fail(err)
	}
	return next
}

// NoneOf adds a filter matching rows that satisfy none of the alternatives.
func (r *Relation) NoneOf(alternatives ...any) *Relation {
	next, err := build(Negative, r, alternatives)
	if err != nil {
		return r.fail(err)
	}
	return next
}

// Includes eager-loads the named associations. Includes that are also
// referenced are joined with LEFT OUTER JOIN so their columns can be filtered on.
func (r *Relation) Includes(names ...string) *Relation {
	if r.err != nil || len(names) == 0 {
		return r
	}
	for _, name := range names {
		if _, err := r.schema.association(r.table, name); err != nil {
			return r.fail(err)
		}
	}
	next := r.clone()
	next.includes = appendUnique(next.includes, names...)
	return next
}

// Joins inner-joins the named associations.
func (r *Relation) Joins(names ...string) *Relation {
	refs := make([]types.JoinRef, 0, len(names))
	for _, name := range names {
		refs = append(refs, types.JoinRef{Association: name})
	}
	return r.withJoins(refs)
}

// JoinsRaw adds a join clause verbatim.
func (r *Relation) JoinsRaw(sql string) *Relation {
	return r.withJoins([]types.JoinRef{{SQL: sql}})
}

func (r *Relation) withJoins(refs []types.JoinRef) *Relation {
	if r.err != nil || len(refs) == 0 {
		return r
	}
	for _, ref := range refs {
		if ref.SQL != "" {
			continue
		}
		if _, err := r.schema.association(r.table, ref.Association); err != nil {
			return r.fail(err)
		}
	}
	next := r.clone()
	next.joins = appendUniqueJoins(next.joins, refs...)
	return next
}

// References declares tables whose columns the filter uses.
func (r *Relation) References(names ...string) *Relation {
	if r.err != nil || len(names) == 0 {
		return r
	}
	next := r.clone()
	next.references = appendUnique(next.references, names...)
	return next
}

// OrderBy adds a sort key. The field may be qualified as "table.column".
func (r *Relation) OrderBy(field string, direction Direction) *Relation {
	if r.err != nil {
		return r
	}
	table, column := splitField(field, r.table)
	if err := r.schema.validateField(table, column); err != nil {
		return r.fail(fmt.Errorf("invalid order field: %w", err))
	}
	if direction != ASC && direction != DESC {
		return r.fail(fmt.Errorf("invalid sort direction: %s", direction))
	}
	next := r.clone()
	next.ordering = append(next.ordering, types.OrderBy{
		Field:     types.Field{Name: column, Table: table},
		Direction: direction,
	})
	return next
}

// Limit caps the number of rows returned.
func (r *Relation) Limit(n int) *Relation {
	if r.err != nil {
		return r
	}
	if n < 0 {
		return r.fail(fmt.Errorf("limit must be non-negative, got %d", n))
	}
	next := r.clone()
	next.limit = &n
	return next
}

// Offset skips the first n rows.
func (r *Relation) Offset(n int) *Relation {
	if r.err != nil {
		return r
	}
	if n < 0 {
		return r.fail(fmt.Errorf("offset must be non-negative, got %d", n))
	}
	next := r.clone()
	next.offset = &n
	return next
}

// Predicate returns the filter tree, or nil for an unfiltered relation.
func (r *Relation) Predicate() ConditionItem {
	return r.predicate
}

// BoundParameters returns the values the filter's params refer to.
func (r *Relation) BoundParameters() []any {
	return slices.Clone(r.binds)
}

// IncludeNames returns the eager-loaded associations.
func (r *Relation) IncludeNames() []string {
	return slices.Clone(r.includes)
}

// JoinRefs returns the join requests.
func (r *Relation) JoinRefs() []JoinRef {
	return slices.Clone(r.joins)
}

// ReferenceNames returns the referenced tables.
func (r *Relation) ReferenceNames() []string {
	return slices.Clone(r.references)
}

// Table returns the table the relation selects from.
func (r *Relation) Table() string {
	return r.table
}

// Engine returns the engine the relation renders through.
func (r *Relation) Engine() Engine {
	return r.schema.engine
}

// Err returns the first error recorded while building the relation.
func (r *Relation) Err() error {
	return r.err
}

// Build returns the query AST.
func (r *Relation) Build() (*types.AST, error) {
	if r.err != nil {
		return nil, r.err
	}

	ast := &types.AST{
		Operation:   types.OpSelect,
		Target:      types.Table{Name: r.table},
		WhereClause: r.predicate,
		Binds:       slices.Clone(r.binds),
		Ordering:    slices.Clone(r.ordering),
		Limit:       r.limit,
		Offset:      r.offset,
	}

	joined := make(map[string]bool)
	for _, ref := range r.joins {
		if ref.SQL != "" {
			ast.Joins = append(ast.Joins, types.Join{Raw: ref.SQL})
			continue
		}
		assoc, err := r.schema.association(r.table, ref.Association)
		if err != nil {
			return nil, err
		}
		ast.Joins = append(ast.Joins, r.schema.join(assoc, types.InnerJoin))
		joined[ref.Association] = true
	}

	for _, name := range r.includes {
		assoc, err := r.schema.association(r.table, name)
		if err != nil {
			return nil, err
		}
		if joined[name] || !r.referenced(assoc) {
			continue
		}
		ast.Joins = append(ast.Joins, r.schema.join(assoc, types.LeftOuterJoin))
		ast.Distinct = true
	}

	return ast, nil
}

// referenced reports whether an included association is named by References,
// either by association name or by target table.
func (r *Relation) referenced(assoc Association) bool {
	return slices.Contains(r.references, assoc.Name) || slices.Contains(r.references, assoc.Target)
}

// Render builds the relation and renders it to SQL.
func (r *Relation) Render() (*QueryResult, error) {
	ast, err := r.Build()
	if err != nil {
		return nil, err
	}
	return r.schema.engine.Render(ast)
}

// RenderCount renders a COUNT(*) of the relation's rows.
func (r *Relation) RenderCount() (*QueryResult, error) {
	ast, err := r.Build()
	if err != nil {
		return nil, err
	}
	ast.Operation = types.OpCount
	return r.schema.engine.Render(ast)
}

// appendUnique appends the names not already present, keeping first-seen order.
func appendUnique(dst []string, names ...string) []string {
	for _, name := range names {
		if !slices.Contains(dst, name) {
			dst = append(dst, name)
		}
	}
	return dst
}

// appendUniqueJoins appends join requests whose rendered identity is new.
func appendUniqueJoins(dst []types.JoinRef, refs ...types.JoinRef) []types.JoinRef {
	for _, ref := range refs {
		key := ref.Key()
		if !slices.ContainsFunc(dst, func(existing types.JoinRef) bool { return existing.Key() == key }) {
			dst = append(dst, ref)
		}
	}
	return dst
}
