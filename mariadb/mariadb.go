// Package mariadb provides the MariaDB dialect engine for anyof.
package mariadb

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/zoobzio/anyof/internal/render"
	"github.com/zoobzio/anyof/internal/types"
)

const dialect = "mariadb"

// Renderer implements the MariaDB dialect renderer.
type Renderer struct{}

// New creates a new MariaDB renderer.
func New() *Renderer {
	return &Renderer{}
}

// DSN builds a go-sql-driver/mysql data source name for a TCP address.
func DSN(addr, user, password, database string) string {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = addr
	cfg.User = user
	cfg.Passwd = password
	cfg.DBName = database
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// Open opens a MariaDB database through a go-sql-driver/mysql connector.
func Open(dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mariadb dsn: %w", err)
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create mariadb connector: %w", err)
	}
	return sql.OpenDB(connector), nil
}

// Name returns the dialect name.
func (r *Renderer) Name() string {
	return dialect
}

// Render converts an AST to a QueryResult with MariaDB SQL.
func (r *Renderer) Render(ast *types.AST) (*types.QueryResult, error) {
	return render.Query(r, ast)
}

// RenderCondition renders a predicate tree with ? markers.
func (r *Renderer) RenderCondition(cond types.ConditionItem, binds []any) (*types.QueryResult, error) {
	return render.Condition(r, cond, binds)
}

// QuoteIdentifier quotes with backticks.
func (r *Renderer) QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, "`", "``")
	return "`" + escaped + "`"
}

// ValidateOperator rejects operators MariaDB cannot express.
func (r *Renderer) ValidateOperator(op types.Operator) error {
	switch op {
	case types.ILIKE, types.NotILike:
		return render.NewUnsupportedFeatureError(dialect, "ILIKE",
			"use LIKE with a case-insensitive collation instead")
	}
	return nil
}

// RenderPagination writes LIMIT/OFFSET. MariaDB requires a LIMIT before OFFSET.
func (r *Renderer) RenderPagination(ast *types.AST, sql *strings.Builder) error {
	if ast.Offset != nil && ast.Limit == nil {
		sql.WriteString(" LIMIT 18446744073709551615")
		fmt.Fprintf(sql, " OFFSET %d", *ast.Offset)
		return nil
	}
	render.LimitOffset(ast, sql)
	return nil
}

// Capabilities returns the SQL capabilities supported by MariaDB.
// Exclusion filters are rendered as an explicit NOT around the combined predicate.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		StatementCache:      false,
		ExclusionFilter:     false,
		CaseInsensitiveLike: false,
		Placeholder:         render.PlaceholderQuestion,
	}
}
