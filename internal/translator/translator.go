// Package translator turns validated SQL text into typed store calls and
// post-processes the results. It is the only bridge between the parsing
// packages and a store backend; the SQL text itself stops here.
package translator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tablechat/tablechat/internal/catalog"
	"github.com/tablechat/tablechat/internal/sqlguard"
	"github.com/tablechat/tablechat/internal/sqlparse"
	"github.com/tablechat/tablechat/internal/store"
)

// Code classifies why a translation failed.
type Code string

const (
	CodeUnsafe        Code = "unsafe_statement"
	CodeParse         Code = "parse_error"
	CodeUnsupported   Code = "unsupported_construct"
	CodeUnknownTable  Code = "unknown_table"
	CodeUnknownColumn Code = "unknown_column"
	CodeStore         Code = "store_error"
)

// Error is a classified translation failure.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func failure(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: cause}
}

// Result is the outcome of a successful translation. Either Rows is
// populated, or CountOnly is set and Count carries the aggregate.
type Result struct {
	Rows      []map[string]any
	Count     int64
	CountOnly bool
}

// Runner executes the full pipeline: safety check, parse, catalog checks,
// a second safety check, store execution, post-processing.
type Runner struct {
	Store   store.Store
	Catalog *catalog.Catalog
	Logger  *slog.Logger
}

// Run translates sqlText and executes it. Store errors are returned
// verbatim inside a CodeStore Error; all other failures happen before any
// store call is made.
func (r *Runner) Run(ctx context.Context, sqlText string) (Result, error) {
	if verdict := sqlguard.Validate(sqlText); !verdict.Safe {
		return Result{}, failure(CodeUnsafe, nil, "%s", verdict.Reason)
	}

	stmt, err := sqlparse.Parse(sqlText)
	if err != nil {
		var unsupported *sqlparse.UnsupportedError
		if errors.As(err, &unsupported) {
			return Result{}, failure(CodeUnsupported, err, "%s", unsupported.Construct)
		}
		return Result{}, failure(CodeParse, err, "%v", err)
	}

	table, err := r.Catalog.Resolve(stmt.Table)
	if err != nil {
		return Result{}, failure(CodeUnknownTable, err, "unknown table %q", stmt.Table)
	}
	if err := canonicalizeColumns(&stmt, table); err != nil {
		return Result{}, err
	}

	// The statement was already screened once before parsing; screen it
	// again immediately before execution so no later refactor can open a
	// path from unchecked text to the store.
	if verdict := sqlguard.Validate(sqlText); !verdict.Safe {
		return Result{}, failure(CodeUnsafe, nil, "%s", verdict.Reason)
	}

	predicates := mapPredicates(stmt.Predicates)

	// COUNT(*) next to GROUP BY is the grouped-count shape; the count
	// primitive would collapse it to one table-wide number.
	if stmt.CountOnly && stmt.GroupBy == "" {
		count, err := r.Store.Count(ctx, table.Name, predicates)
		if err != nil {
			return Result{}, failure(CodeStore, err, "%v", err)
		}
		r.log(ctx, stmt, count)
		return Result{Count: count, CountOnly: true}, nil
	}

	query := store.Query{
		Table:      table.Name,
		Predicates: predicates,
		Limit:      stmt.Limit,
	}
	switch {
	case stmt.GroupBy != "":
		// Grouping only ever reads the group column.
		query.Columns = []string{stmt.GroupBy}
	case !stmt.SelectsAll():
		query.Columns = stmt.Projection
	}
	if stmt.OrderBy != nil {
		query.Order = &store.Ordering{
			Column:     stmt.OrderBy.Column,
			Descending: stmt.OrderBy.Descending,
		}
	}

	rows, err := r.Store.Select(ctx, query)
	if err != nil {
		return Result{}, failure(CodeStore, err, "%v", err)
	}

	switch {
	case stmt.GroupBy != "":
		rows = GroupCount(rows, stmt.GroupBy)
	case stmt.Distinct:
		rows = Deduplicate(rows, query.Columns)
	}

	r.log(ctx, stmt, int64(len(rows)))
	return Result{Rows: rows, Count: int64(len(rows))}, nil
}

func (r *Runner) log(ctx context.Context, stmt sqlparse.Statement, count int64) {
	if r.Logger == nil {
		return
	}
	r.Logger.InfoContext(ctx, "statement executed",
		slog.String("table", stmt.Table),
		slog.Int("predicates", len(stmt.Predicates)),
		slog.Bool("count_only", stmt.CountOnly),
		slog.Int64("rows", count),
	)
}

// canonicalizeColumns verifies every identifier against the table and
// rewrites it to the catalog's spelling. The model may emit any casing;
// the store backends match field names exactly.
func canonicalizeColumns(stmt *sqlparse.Statement, table catalog.TableDef) *Error {
	unknown := func(name string) *Error {
		return failure(CodeUnknownColumn, nil, "unknown column %q in table %q", name, table.Name)
	}
	if !stmt.SelectsAll() && !stmt.CountOnly {
		for i, column := range stmt.Projection {
			name, ok := table.Column(column)
			if !ok {
				return unknown(column)
			}
			stmt.Projection[i] = name
		}
	}
	for i, predicate := range stmt.Predicates {
		name, ok := table.Column(predicate.Column)
		if !ok {
			return unknown(predicate.Column)
		}
		stmt.Predicates[i].Column = name
	}
	if stmt.OrderBy != nil {
		name, ok := table.Column(stmt.OrderBy.Column)
		if !ok {
			return unknown(stmt.OrderBy.Column)
		}
		stmt.OrderBy.Column = name
	}
	if stmt.GroupBy != "" {
		name, ok := table.Column(stmt.GroupBy)
		if !ok {
			return unknown(stmt.GroupBy)
		}
		stmt.GroupBy = name
	}
	return nil
}

// mapPredicates converts parsed predicates into store calls field by
// field. The two types are kept separate on purpose: the store side must
// never grow a way to receive SQL fragments.
func mapPredicates(in []sqlparse.Predicate) []store.Predicate {
	if len(in) == 0 {
		return nil
	}
	out := make([]store.Predicate, len(in))
	for i, p := range in {
		out[i] = store.Predicate{
			Column:  p.Column,
			Op:      mapOp(p.Op),
			Value:   p.Value,
			Number:  p.Number,
			Low:     p.Low,
			High:    p.High,
			Pattern: p.Pattern,
		}
	}
	return out
}

func mapOp(op sqlparse.Op) store.Op {
	switch op {
	case sqlparse.OpEq:
		return store.OpEq
	case sqlparse.OpLt:
		return store.OpLt
	case sqlparse.OpGt:
		return store.OpGt
	case sqlparse.OpLte:
		return store.OpLte
	case sqlparse.OpGte:
		return store.OpGte
	case sqlparse.OpBetween:
		return store.OpBetween
	case sqlparse.OpLike:
		return store.OpLike
	default:
		return store.OpEq
	}
}
