package render

// PlaceholderStyle is the positional marker convention of a driver.
type PlaceholderStyle int

const (
	PlaceholderQuestion PlaceholderStyle = iota // ?
	PlaceholderDollar                           // $1, $2, ...
	PlaceholderAtP                              // @p1, @p2, ...
)

// Capabilities describes the SQL features supported by a dialect.
type Capabilities struct {
	StatementCache      bool             // prepared statements keyed by SQL text; driver markers are numbered
	ExclusionFilter     bool             // WHERE NOT (...) is rendered natively for exclusion filters
	CaseInsensitiveLike bool             // ILIKE operator
	Placeholder         PlaceholderStyle // marker convention for bound values
}
