// Package sqlite provides the SQLite dialect engine for anyof.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/zoobzio/anyof/internal/render"
	"github.com/zoobzio/anyof/internal/types"

	// registers the pure-Go "sqlite" driver
	_ "modernc.org/sqlite"
)

const dialect = "sqlite"

// DriverName is the database/sql driver name registered by modernc.org/sqlite.
const DriverName = "sqlite"

// Renderer implements the SQLite dialect renderer.
type Renderer struct{}

// New creates a new SQLite renderer.
func New() *Renderer {
	return &Renderer{}
}

// Open opens a SQLite database, e.g. Open(":memory:").
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return db, nil
}

// Name returns the dialect name.
func (r *Renderer) Name() string {
	return dialect
}

// Render converts an AST to a QueryResult with SQLite SQL.
func (r *Renderer) Render(ast *types.AST) (*types.QueryResult, error) {
	return render.Query(r, ast)
}

// RenderCondition renders a predicate tree with SQLite markers.
func (r *Renderer) RenderCondition(cond types.ConditionItem, binds []any) (*types.QueryResult, error) {
	return render.Condition(r, cond, binds)
}

// QuoteIdentifier quotes with double quotes, doubling embedded quotes.
func (r *Renderer) QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, `"`, `""`)
	return `"` + escaped + `"`
}

// ValidateOperator rejects operators SQLite cannot express.
func (r *Renderer) ValidateOperator(op types.Operator) error {
	switch op {
	case types.ILIKE, types.NotILike:
		return render.NewUnsupportedFeatureError(dialect, "ILIKE",
			"use LIKE instead (SQLite LIKE is case-insensitive for ASCII)")
	}
	return nil
}

// RenderPagination writes LIMIT/OFFSET. SQLite requires a LIMIT before OFFSET.
func (r *Renderer) RenderPagination(ast *types.AST, sql *strings.Builder) error {
	if ast.Offset != nil && ast.Limit == nil {
		sql.WriteString(" LIMIT -1")
		fmt.Fprintf(sql, " OFFSET %d", *ast.Offset)
		return nil
	}
	render.LimitOffset(ast, sql)
	return nil
}

// Capabilities returns the SQL capabilities supported by SQLite.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		StatementCache:      false,
		ExclusionFilter:     true,
		CaseInsensitiveLike: false,
		Placeholder:         render.PlaceholderQuestion,
	}
}
