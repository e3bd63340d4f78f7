package anyof

import "github.com/zoobzio/anyof/internal/types"

// Engine defines the interface for SQL dialect-specific rendering.
// Implementations convert an AST to dialect-specific SQL with positional markers.
type Engine interface {
	// Render converts an AST to a QueryResult with dialect-specific SQL.
	Render(ast *types.AST) (*types.QueryResult, error)

	// RenderCondition renders a predicate tree on its own, as it would follow WHERE.
	RenderCondition(cond types.ConditionItem, binds []any) (*types.QueryResult, error)

	// Capabilities reports the features the engine supports.
	Capabilities() Capabilities
}
