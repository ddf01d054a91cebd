package domain

// Filter is the parameterized catalog predicate. Keywords are OR'd within
// the textual relevance group, References is an explicit set membership
// restriction, and the remaining constraints are AND'd on top of both.
// search and count always evaluate the same Filter value.
type Filter struct {
	Keywords   []string
	References []string
	MinPrice   *float64
	MaxPrice   *float64
	Sizes      []string
	Brands     []string
}
