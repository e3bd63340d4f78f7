package anyof

import (
	"fmt"

	"github.com/zoobzio/anyof/internal/types"
)

// Mode selects whether alternatives are matched or excluded.
type Mode int

const (
	Positive Mode = iota
	Negative
)

func (m Mode) String() string {
	if m == Negative {
		return "NoneOf"
	}
	return "AnyOf"
}

// combinedResult is the OR of every alternative with their merged metadata.
type combinedResult struct {
	mode       Mode
	predicate  types.ConditionItem
	binds      []any
	includes   []string
	joins      []types.JoinRef
	references []string
}

func or(p, q types.ConditionItem) types.ConditionItem {
	return types.ConditionGroup{Logic: types.OR, Conditions: []types.ConditionItem{p, q}}
}

func not(p types.ConditionItem) types.ConditionItem {
	return types.NotCondition{Condition: p}
}

// combine folds the predicates left to right, re-indexing each one past the
// binds that precede it.
func combine(mode Mode, conds []normalizedCondition) (combinedResult, error) {
	if len(conds) == 0 {
		return combinedResult{}, EmptyAlternativesError{Mode: mode}
	}

	result := combinedResult{mode: mode}
	for _, c := range conds {
		shifted := types.Shift(c.predicate, len(result.binds))
		if result.predicate == nil {
			result.predicate = shifted
		} else {
			result.predicate = or(result.predicate, shifted)
		}
		result.binds = append(result.binds, c.binds...)
		result.includes = appendUnique(result.includes, c.includes...)
		result.joins = appendUniqueJoins(result.joins, c.joins...)
		result.references = appendUnique(result.references, c.references...)
	}
	return result, nil
}

// apply filters base by the combined predicate and layers the merged
// references, includes and joins on top, in that order.
func apply(base *Relation, combined combinedResult) (*Relation, error) {
	engine := base.Engine()
	caps := engine.Capabilities()

	predicate := combined.predicate
	exclude := false
	if combined.mode == Negative {
		if caps.ExclusionFilter {
			exclude = true
		} else {
			predicate = not(predicate)
		}
	}

	var next *Relation
	if caps.StatementCache {
		tpl, err := unprepare(engine, predicate, combined.binds)
		if err != nil {
			return nil, err
		}
		if exclude {
			next = base.WhereNot(tpl)
		} else {
			next = base.Where(tpl)
		}
	} else {
		next = base.whereTree(predicate, combined.binds, exclude)
	}

	next = next.References(combined.references...).
		Includes(combined.includes...).
		withJoins(combined.joins)
	if err := next.Err(); err != nil {
		return nil, err
	}
	return next, nil
}

// build runs one AnyOf or NoneOf call against scope.
func build(mode Mode, scope *Relation, values []any) (*Relation, error) {
	if scope == nil {
		return nil, fmt.Errorf("%s requires a base relation", mode)
	}
	if scope.err != nil {
		return nil, scope.err
	}
	if len(values) == 0 {
		return nil, EmptyAlternativesError{Mode: mode}
	}

	alts, err := alternativesOf(values)
	if err != nil {
		return nil, err
	}
	conds, err := normalizeAll(scope, alts)
	if err != nil {
		return nil, err
	}
	combined, err := combine(mode, conds)
	if err != nil {
		return nil, err
	}
	return apply(scope, combined)
}

// AnyOf returns base filtered to rows matching at least one alternative.
func AnyOf(base *Relation, alternatives ...any) (*Relation, error) {
	return build(Positive, base, alternatives)
}

// NoneOf returns base filtered to rows matching none of the alternatives.
func NoneOf(base *Relation, alternatives ...any) (*Relation, error) {
	return build(Negative, base, alternatives)
}
