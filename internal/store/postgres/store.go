// Package postgres backs the store capability with a relational table.
// Typed predicates compile to a parameterized WHERE clause: literals
// travel as bind arguments, identifiers come from the catalog-validated
// plan, and the chat pipeline's SQL text is never interpolated.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tablechat/tablechat/internal/store"
)

type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// Open opens a pooled connection and verifies it with a ping.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping store db: %w", err)
	}
	return db, nil
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping store db: %w", err)
	}
	return nil
}

func (s *Store) Select(ctx context.Context, query store.Query) ([]map[string]any, error) {
	var builder strings.Builder
	builder.WriteString("SELECT ")
	builder.WriteString(columnList(query.Columns))
	builder.WriteString(" FROM ")
	builder.WriteString(quoteIdent(query.Table))

	where, args := compilePredicates(query.Predicates)
	builder.WriteString(where)

	if query.Order != nil {
		builder.WriteString(" ORDER BY ")
		builder.WriteString(quoteIdent(query.Order.Column))
		if query.Order.Descending {
			builder.WriteString(" DESC")
		} else {
			builder.WriteString(" ASC")
		}
	}
	if query.Limit > 0 {
		builder.WriteString(" LIMIT ")
		builder.WriteString(strconv.Itoa(query.Limit))
	}

	rows, err := s.db.QueryContext(ctx, builder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", query.Table, err)
	}
	defer func() { _ = rows.Close() }()

	return scanRows(rows)
}

func (s *Store) Count(ctx context.Context, table string, predicates []store.Predicate) (int64, error) {
	where, args := compilePredicates(predicates)
	query := "SELECT COUNT(*) FROM " + quoteIdent(table) + where

	var count int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return count, nil
}

// Insert is the seed-tool write path. Columns come from the first row so
// every row must share the same shape.
func (s *Store) Insert(ctx context.Context, table string, rows []map[string]any) error {
	if len(rows) == 0 {
		return nil
	}
	columns := make([]string, 0, len(rows[0]))
	for column := range rows[0] {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	quoted := make([]string, 0, len(columns))
	for _, column := range columns {
		quoted = append(quoted, quoteIdent(column))
	}

	var builder strings.Builder
	builder.WriteString("INSERT INTO ")
	builder.WriteString(quoteIdent(table))
	builder.WriteString(" (")
	builder.WriteString(strings.Join(quoted, ", "))
	builder.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(columns))
	placeholder := 1
	for i, row := range rows {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString("(")
		for j, column := range columns {
			if j > 0 {
				builder.WriteString(", ")
			}
			builder.WriteString("$" + strconv.Itoa(placeholder))
			placeholder++
			args = append(args, row[column])
		}
		builder.WriteString(")")
	}

	if _, err := s.db.ExecContext(ctx, builder.String(), args...); err != nil {
		return fmt.Errorf("insert %s rows: %w", table, err)
	}
	return nil
}

// compilePredicates renders the WHERE fragment with $n placeholders and
// returns the bind arguments in matching order.
func compilePredicates(predicates []store.Predicate) (string, []any) {
	if len(predicates) == 0 {
		return "", nil
	}

	var clauses []string
	var args []any
	next := func(value any) string {
		args = append(args, value)
		return "$" + strconv.Itoa(len(args))
	}

	for _, predicate := range predicates {
		column := quoteIdent(predicate.Column)
		switch predicate.Op {
		case store.OpEq:
			clauses = append(clauses, column+" = "+next(predicate.Value))
		case store.OpLt:
			clauses = append(clauses, column+" < "+next(predicate.Number))
		case store.OpGt:
			clauses = append(clauses, column+" > "+next(predicate.Number))
		case store.OpLte:
			clauses = append(clauses, column+" <= "+next(predicate.Number))
		case store.OpGte:
			clauses = append(clauses, column+" >= "+next(predicate.Number))
		case store.OpBetween:
			low := next(predicate.Low)
			high := next(predicate.High)
			clauses = append(clauses, column+" BETWEEN "+low+" AND "+high)
		case store.OpLike:
			clauses = append(clauses, column+" ILIKE "+next(predicate.Pattern))
		}
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func columnList(columns []string) string {
	if len(columns) == 0 {
		return "*"
	}
	quoted := make([]string, 0, len(columns))
	for _, column := range columns {
		if column == "*" {
			return "*"
		}
		quoted = append(quoted, quoteIdent(column))
	}
	return strings.Join(quoted, ", ")
}

func quoteIdent(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read result columns: %w", err)
	}

	var result []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		row := make(map[string]any, len(columns))
		for i, column := range columns {
			value := values[i]
			if raw, ok := value.([]byte); ok {
				value = string(raw)
			}
			row[column] = value
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate result rows: %w", err)
	}
	return result, nil
}
