// Package postgres provides the PostgreSQL dialect engine for anyof.
package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/zoobzio/anyof/internal/render"
	"github.com/zoobzio/anyof/internal/types"
)

const dialect = "postgres"

// Renderer implements the PostgreSQL dialect renderer.
type Renderer struct{}

// New creates a new PostgreSQL renderer.
func New() *Renderer {
	return &Renderer{}
}

// OpenDB opens a database/sql handle backed by pgx.
func OpenDB(connString string) (*sql.DB, error) {
	cfg, err := pgx.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	return stdlib.OpenDB(*cfg), nil
}

// Name returns the dialect name.
func (r *Renderer) Name() string {
	return dialect
}

// Render converts an AST to a QueryResult with PostgreSQL SQL.
func (r *Renderer) Render(ast *types.AST) (*types.QueryResult, error) {
	return render.Query(r, ast)
}

// RenderCondition renders a predicate tree with $n markers.
func (r *Renderer) RenderCondition(cond types.ConditionItem, binds []any) (*types.QueryResult, error) {
	return render.Condition(r, cond, binds)
}

// QuoteIdentifier quotes with double quotes.
func (r *Renderer) QuoteIdentifier(name string) string {
	// In PostgreSQL, identifiers are quoted with double quotes
	// We need to escape any existing double quotes by doubling them
	escaped := strings.ReplaceAll(name, `"`, `""`)
	return `"` + escaped + `"`
}

// ValidateOperator accepts every operator, ILIKE included.
func (r *Renderer) ValidateOperator(_ types.Operator) error {
	return nil
}

// RenderPagination writes LIMIT/OFFSET.
func (r *Renderer) RenderPagination(ast *types.AST, sql *strings.Builder) error {
	render.LimitOffset(ast, sql)
	return nil
}

// Capabilities returns the SQL capabilities supported by PostgreSQL.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		StatementCache:      true,
		ExclusionFilter:     true,
		CaseInsensitiveLike: true,
		Placeholder:         render.PlaceholderDollar,
	}
}
