package anyof

import (
	"context"
	"database/sql"
	"fmt"
)

// Querier runs a query. *sql.DB, *sql.Conn and *sql.Tx satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Record is one loaded row with its eager-loaded associations.
type Record struct {
	Values       map[string]any
	Associations map[string][]Record
}

// Get returns the value of a column, or nil when absent.
func (r Record) Get(column string) any {
	return r.Values[column]
}

// Load runs the relation and preloads every included association with one
// extra query per association.
func (r *Relation) Load(ctx context.Context, q Querier) ([]Record, error) {
	result, err := r.Render()
	if err != nil {
		return nil, err
	}

	records, err := queryRecords(ctx, q, result)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", r.table, err)
	}

	for _, name := range r.includes {
		if err := r.preload(ctx, q, records, name); err != nil {
			return nil, fmt.Errorf("preload %s.%s: %w", r.table, name, err)
		}
	}
	return records, nil
}

// Count runs COUNT(*) over the relation.
func (r *Relation) Count(ctx context.Context, q Querier) (int64, error) {
	result, err := r.RenderCount()
	if err != nil {
		return 0, err
	}

	rows, err := q.QueryContext(ctx, result.SQL, result.Args...)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", r.table, err)
	}
	defer rows.Close()

	var n int64
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("count %s: %w", r.table, err)
		}
	}
	return n, rows.Err()
}

// preload fetches the targets of one association for every owner record.
func (r *Relation) preload(ctx context.Context, q Querier, owners []Record, name string) error {
	assoc, err := r.schema.association(r.table, name)
	if err != nil {
		return err
	}

	ownerColumn, targetColumn := primaryKey, assoc.ForeignKey
	if assoc.Kind == BelongsTo {
		ownerColumn, targetColumn = assoc.ForeignKey, primaryKey
	}

	keys := distinctValues(owners, ownerColumn)
	if len(keys) == 0 {
		for i := range owners {
			owners[i].Associations[name] = nil
		}
		return nil
	}

	targets, err := r.schema.From(assoc.Target).
		Where(Fields{targetColumn: keys}).
		OrderBy(primaryKey, ASC).
		Load(ctx, q)
	if err != nil {
		return err
	}

	grouped := make(map[string][]Record)
	for _, target := range targets {
		k := valueKey(target.Values[targetColumn])
		grouped[k] = append(grouped[k], target)
	}
	for i := range owners {
		if v := owners[i].Values[ownerColumn]; v != nil {
			owners[i].Associations[name] = grouped[valueKey(v)]
		}
	}
	return nil
}

func queryRecords(ctx context.Context, q Querier, result *QueryResult) ([]Record, error) {
	rows, err := q.QueryContext(ctx, result.SQL, result.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []Record
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		record := Record{
			Values:       make(map[string]any, len(columns)),
			Associations: make(map[string][]Record),
		}
		for i, column := range columns {
			if b, ok := values[i].([]byte); ok {
				values[i] = string(b)
			}
			record.Values[column] = values[i]
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// distinctValues returns the non-nil values of a column, first occurrence first.
func distinctValues(records []Record, column string) []any {
	seen := make(map[string]bool)
	var values []any
	for _, record := range records {
		v := record.Values[column]
		if v == nil {
			continue
		}
		k := valueKey(v)
		if seen[k] {
			continue
		}
		seen[k] = true
		values = append(values, v)
	}
	return values
}

// valueKey compares keys across drivers that scan integers into different types.
func valueKey(v any) string {
	return fmt.Sprint(v)
}
