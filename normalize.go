package anyof

import (
	"slices"

	"github.com/zoobzio/anyof/internal/types"
)

// matchAll stands in for an alternative that carries no filter of its own.
var matchAll = types.RawCondition{SQL: "1=1"}

// normalizedCondition is one alternative reduced to a predicate over its own
// bind list plus the metadata it contributes.
type normalizedCondition struct {
	predicate  types.ConditionItem
	binds      []any
	includes   []string
	joins      []types.JoinRef
	references []string
}

// alternativesOf converts the caller's values. A Fields passed alone is split
// into one alternative per key.
func alternativesOf(values []any) ([]Alternative, error) {
	alts := make([]Alternative, 0, len(values))
	for _, v := range values {
		alt, err := AlternativeOf(v)
		if err != nil {
			return nil, err
		}
		alts = append(alts, alt)
	}

	if len(alts) == 1 {
		if fields, ok := alts[0].(Fields); ok && len(fields) > 0 {
			return fields.split(), nil
		}
	}
	return alts, nil
}

// normalize resolves raw text, templates and field maps against a fresh
// relation on the scope's table. Relations are read as they are. Neither the
// alternative nor the scope is modified.
func normalize(alt Alternative, scope *Relation) (normalizedCondition, error) {
	var resolved *Relation
	switch a := alt.(type) {
	case Raw, Template, Fields:
		resolved = scope.unscoped().Where(a)
	case *Relation:
		if a == nil {
			return normalizedCondition{}, NewConditionTypeError(alt)
		}
		resolved = a
	default:
		return normalizedCondition{}, NewConditionTypeError(alt)
	}
	if err := resolved.Err(); err != nil {
		return normalizedCondition{}, err
	}

	predicate := resolved.predicate
	if predicate == nil {
		predicate = matchAll
	}

	return normalizedCondition{
		predicate:  predicate,
		binds:      slices.Clone(resolved.binds),
		includes:   slices.Clone(resolved.includes),
		joins:      slices.Clone(resolved.joins),
		references: slices.Clone(resolved.references),
	}, nil
}

func normalizeAll(scope *Relation, alts []Alternative) ([]normalizedCondition, error) {
	conds := make([]normalizedCondition, 0, len(alts))
	for _, alt := range alts {
		cond, err := normalize(alt, scope)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}
	return conds, nil
}
