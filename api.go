// Package anyof combines alternative filter conditions into a single relation query.
//
// A Relation is an immutable query over one table of a DBML schema. Besides
// the usual Where, Includes, Joins and References, it offers AnyOf and NoneOf,
// which OR together (or exclude) any number of alternatives:
//
//	authors := schema.From("authors")
//
//	davidOrMary := authors.AnyOf(
//		anyof.Fields{"name": "David"},
//		anyof.Tpl("name = ?", "Mary"),
//	)
//	// postgres: SELECT "authors".* FROM "authors"
//	//           WHERE (("authors"."name" = $1 OR (name = $2)))
//
// # Alternatives
//
// Each alternative is one of four shapes:
//
//   - Raw: predicate text with no bound values, e.g. Raw("name = 'Bob'")
//   - Template: predicate text with "?" markers and their values, built with Tpl
//   - Fields: a column/value map; slices become IN, nil becomes IS NULL, and a
//     nested map keyed by an association or table filters the joined table
//   - *Relation: another relation, whose filter and eager-load, join and
//     reference metadata are merged into the result
//
// A single Fields alternative passed alone is split into one alternative per
// key, so AnyOf(Fields{"name": "David", "id": 2}) reads "name = David OR id = 2".
//
// # Engines
//
// Relations render through a dialect engine: sqlite, postgres, mariadb or mssql.
// Engines that cache prepared statements receive the combined filter as
// rewritten text; the others receive the predicate tree with its bound values.
//
// # Errors
//
// Chain methods defer errors until Err, Build, Render, Load or Count. The
// package-level AnyOf and NoneOf return them immediately.
package anyof

import (
	"github.com/zoobzio/anyof/internal/render"
	"github.com/zoobzio/anyof/internal/types"
)

// AST represents the abstract syntax tree for a relation query.
// This is re-exported from internal/types for use by consumers.
type AST = types.AST

// QueryResult contains the rendered SQL and its positional arguments.
type QueryResult = types.QueryResult

// Capabilities describes the SQL features supported by an engine.
type Capabilities = render.Capabilities

// ConditionItem represents any node of a predicate tree.
type ConditionItem = types.ConditionItem

// JoinRef is a join request recorded on a relation.
type JoinRef = types.JoinRef

// Direction represents sort direction.
type Direction = types.Direction

// Re-export direction constants for public API.
const (
	ASC  = types.ASC
	DESC = types.DESC
)
