package anyof

// WhereChain is the intermediate returned by Relation.WhereChain for
// negated and alternative filters.
type WhereChain struct {
	scope *Relation
}

// WhereChain starts a chained filter on r.
func (r *Relation) WhereChain() *WhereChain {
	return &WhereChain{scope: r}
}

// Not adds the negation of a filter.
func (c *WhereChain) Not(condition any, args ...any) *Relation {
	return c.scope.WhereNot(condition, args...)
}

// AnyOf adds a filter matching rows that satisfy at least one alternative.
func (c *WhereChain) AnyOf(alternatives ...any) *Relation {
	return c.scope.AnyOf(alternatives...)
}

// NoneOf adds a filter matching rows that satisfy none of the alternatives.
func (c *WhereChain) NoneOf(alternatives ...any) *Relation {
	return c.scope.NoneOf(alternatives...)
}
