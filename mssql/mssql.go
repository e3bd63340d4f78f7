// Package mssql provides the SQL Server dialect engine for anyof.
package mssql

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	mssqldb "github.com/microsoft/go-mssqldb"

	"github.com/zoobzio/anyof/internal/render"
	"github.com/zoobzio/anyof/internal/types"
)

const dialect = "mssql"

// Renderer implements the SQL Server dialect renderer.
type Renderer struct{}

// New creates a new SQL Server renderer.
func New() *Renderer {
	return &Renderer{}
}

// Open opens a SQL Server database through a go-mssqldb connector.
func Open(dsn string) (*sql.DB, error) {
	connector, err := mssqldb.NewConnector(dsn)
	if err != nil {
		return nil, fmt.Errorf("create mssql connector: %w", err)
	}
	return sql.OpenDB(connector), nil
}

// Name returns the dialect name.
func (r *Renderer) Name() string {
	return dialect
}

// Render converts an AST to a QueryResult with SQL Server SQL.
func (r *Renderer) Render(ast *types.AST) (*types.QueryResult, error) {
	return render.Query(r, ast)
}

// RenderCondition renders a predicate tree with @pn markers.
func (r *Renderer) RenderCondition(cond types.ConditionItem, binds []any) (*types.QueryResult, error) {
	return render.Condition(r, cond, binds)
}

// QuoteIdentifier quotes with square brackets.
func (r *Renderer) QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, "]", "]]")
	return "[" + escaped + "]"
}

// ValidateOperator rejects operators SQL Server cannot express.
func (r *Renderer) ValidateOperator(op types.Operator) error {
	switch op {
	case types.ILIKE, types.NotILike:
		return render.NewUnsupportedFeatureError(dialect, "ILIKE",
			"use LIKE with a case-insensitive collation instead")
	}
	return nil
}

// RenderPagination writes OFFSET/FETCH, which SQL Server only accepts after ORDER BY.
func (r *Renderer) RenderPagination(ast *types.AST, sql *strings.Builder) error {
	if ast.Offset == nil && ast.Limit == nil {
		return nil
	}
	if len(ast.Ordering) == 0 {
		return render.NewUnsupportedFeatureError(dialect, "LIMIT/OFFSET without ORDER BY",
			"add ORDER BY clause when using LIMIT or OFFSET")
	}

	sql.WriteString(" OFFSET ")
	if ast.Offset != nil {
		sql.WriteString(strconv.Itoa(*ast.Offset))
	} else {
		sql.WriteString("0")
	}
	sql.WriteString(" ROWS")

	if ast.Limit != nil {
		sql.WriteString(" FETCH NEXT ")
		sql.WriteString(strconv.Itoa(*ast.Limit))
		sql.WriteString(" ROWS ONLY")
	}
	return nil
}

// Capabilities returns the SQL capabilities supported by SQL Server.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		StatementCache:      true,
		ExclusionFilter:     true,
		CaseInsensitiveLike: false,
		Placeholder:         render.PlaceholderAtP,
	}
}
