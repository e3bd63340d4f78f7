package types

// QueryResult contains the rendered SQL and its positional arguments.
// Args are ordered to match the placeholders in SQL from left to right.
type QueryResult struct {
	SQL  string
	Args []any
}
