// Package store defines the capability surface the query plan executes
// against. Every backend receives typed, operator-level calls: column,
// operator, literal. Raw SQL text from the chat pipeline never reaches a
// backend through this interface.
package store

import "context"

// Op is a native comparison primitive a backend must support.
type Op int

const (
	OpEq Op = iota
	OpLt
	OpGt
	OpLte
	OpGte
	OpBetween
	OpLike
)

// Predicate is one typed filter call. Value carries the equality operand
// (string, float64, or bool), Number the operand for ordered comparisons,
// Low/High the BETWEEN bounds, and Pattern a case-insensitive match with
// SQL % and _ wildcards.
type Predicate struct {
	Column  string
	Op      Op
	Value   any
	Number  float64
	Low     float64
	High    float64
	Pattern string
}

// Ordering asks the backend to sort by one column.
type Ordering struct {
	Column     string
	Descending bool
}

// Query is a fully assembled, store-executable plan. Empty Columns means
// all columns; Limit 0 means no limit.
type Query struct {
	Table      string
	Columns    []string
	Predicates []Predicate
	Order      *Ordering
	Limit      int
}

// Store executes plans against a single logical table collection.
type Store interface {
	// Select returns matching rows as column-name keyed maps.
	Select(ctx context.Context, query Query) ([]map[string]any, error)
	// Count returns the number of matching rows without fetching them.
	Count(ctx context.Context, table string, predicates []Predicate) (int64, error)
}

// RowWriter is the optional write capability used by the seed tool. The
// chat pipeline never writes.
type RowWriter interface {
	Insert(ctx context.Context, table string, rows []map[string]any) error
}
