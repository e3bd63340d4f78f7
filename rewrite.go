package anyof

import (
	"github.com/zoobzio/anyof/internal/render"
	"github.com/zoobzio/anyof/internal/types"
)

// unprepare renders a predicate with the engine's own markers and rewrites
// them to generic "?" markers, outside quoted spans, so the text can be
// applied as a Template. Values are reordered to follow the markers.
func unprepare(engine Engine, predicate types.ConditionItem, binds []any) (Template, error) {
	rendered, err := engine.RenderCondition(predicate, binds)
	if err != nil {
		return Template{}, err
	}
	return rewritePlaceholders(rendered.SQL, rendered.Args, engine.Capabilities().Placeholder)
}

func rewritePlaceholders(sql string, values []any, style render.PlaceholderStyle) (Template, error) {
	markers := render.FindPlaceholders(sql, style)
	if len(markers) != len(values) {
		return Template{}, newPlaceholderRewriteError(len(markers), len(values),
			"found %d %s markers for %d bound values", len(markers), style, len(values))
	}

	args := make([]any, len(markers))
	for i, m := range markers {
		if style == render.PlaceholderQuestion {
			args[i] = values[i]
			continue
		}
		if m.Position < 1 || m.Position > len(values) {
			return Template{}, newPlaceholderRewriteError(len(markers), len(values),
				"marker %s has no bound value", sql[m.Start:m.End])
		}
		args[i] = values[m.Position-1]
	}

	text := render.ReplacePlaceholders(sql, markers, func(int, render.Placeholder) string {
		return "?"
	})
	return Template{SQL: text, Args: args}, nil
}
