package types

// Param represents a positional reference into a relation's bind list.
// This is exported from the internal package so dialects can use it,
// but external users cannot import this package.
type Param struct {
	Index int
}

// GetIndex returns the bind list position.
func (p Param) GetIndex() int {
	return p.Index
}

// Shift returns the parameter moved by offset positions.
func (p Param) Shift(offset int) Param {
	return Param{Index: p.Index + offset}
}
