// Package sqlparse maps a textual SELECT statement in the restricted
// dialect onto a structured Statement: table, projection, predicates,
// ordering, grouping, limit. It is a structural scanner over tokens, not a
// general SQL parser; everything outside the narrow supported shape is
// either rejected or, for single WHERE conditions, skipped.
package sqlparse

// Op tags the comparison a predicate performs.
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

func (o Op) String() string {
	switch o {
	case OpEq:
		return "="
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLte:
		return "<="
	case OpGte:
		return ">="
	case OpBetween:
		return "BETWEEN"
	case OpLike:
		return "LIKE"
	default:
		return "?"
	}
}

// Predicate is one structured WHERE condition. The fields that matter
// depend on Op: Value for OpEq (string, float64, or bool), Number for the
// ordered comparisons, Low/High for OpBetween, Pattern for OpLike with %
// and _ wildcards preserved literally. Column is always a bare identifier.
type Predicate struct {
	Column  string
	Op      Op
	Value   any
	Number  float64
	Low     float64
	High    float64
	Pattern string
}

// Ordering is the first ORDER BY term of a statement.
type Ordering struct {
	Column     string
	Descending bool
}

// Statement is the structured form of a parsed SELECT. Identifiers carry
// the casing of the input text; callers checking them against a schema may
// rewrite them to the schema's spelling.
type Statement struct {
	Table      string
	Projection []string // column names, or a single "*"
	Distinct   bool
	CountOnly  bool // projection was exactly COUNT(*)
	Predicates []Predicate
	OrderBy    *Ordering
	GroupBy    string
	Limit      int // 0 means no limit
}

// SelectsAll reports whether the projection is the * wildcard.
func (s Statement) SelectsAll() bool {
	return len(s.Projection) == 1 && s.Projection[0] == "*"
}
