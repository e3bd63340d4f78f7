package types

// Field represents a validated field reference.
// This is exported from the internal package so dialects can use it,
// but external users cannot import this package.
type Field struct {
	Name  string // The field name (required)
	Table string // Optional table prefix
}

// GetName returns the field name.
func (f Field) GetName() string {
	return f.Name
}

// GetTable returns the table prefix.
func (f Field) GetTable() string {
	return f.Table
}

// WithTable returns a copy of the field qualified by table.
func (f Field) WithTable(table string) Field {
	f.Table = table
	return f
}
