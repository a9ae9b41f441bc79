package sqlparse

import (
	"fmt"

	"github.com/tablechat/tablechat/internal/sqlparse/token"
)

// ParseError reports a statement the scanner could not map onto the
// restricted dialect, with the source position where scanning stopped.
type ParseError struct {
	Message string
	Pos     token.Position
}

func (e *ParseError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
	}
	return "parse error: " + e.Message
}

// UnsupportedError reports a construct the dialect recognizes but refuses
// to translate (OR, joins, multi-column GROUP BY, and friends). It is kept
// distinct from ParseError so callers can report it as a policy rejection
// rather than a malformed statement.
type UnsupportedError struct {
	Construct string
	Pos       token.Position
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported construct: %s", e.Construct)
}
