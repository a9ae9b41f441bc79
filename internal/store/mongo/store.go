// Package mongo backs the store capability with a MongoDB collection per
// logical table. Predicates translate to operator documents, so the driver
// only ever sees typed filters.
package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tablechat/tablechat/internal/store"
)

type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to MongoDB and verifies the connection with a ping.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.URI) == "" {
		return nil, fmt.Errorf("mongo uri is required")
	}
	if strings.TrimSpace(cfg.Database) == "" {
		return nil, fmt.Errorf("mongo database is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Store{client: client, db: client.Database(cfg.Database)}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Select(ctx context.Context, query store.Query) ([]map[string]any, error) {
	filter := buildFilter(query.Predicates)
	opts := options.Find().SetProjection(buildProjection(query.Columns))
	if query.Order != nil {
		direction := 1
		if query.Order.Descending {
			direction = -1
		}
		opts = opts.SetSort(bson.D{{Key: query.Order.Column, Value: direction}})
	}
	if query.Limit > 0 {
		opts = opts.SetLimit(int64(query.Limit))
	}

	cursor, err := s.db.Collection(query.Table).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", query.Table, err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var rows []map[string]any
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode %s rows: %w", query.Table, err)
	}
	return rows, nil
}

func (s *Store) Count(ctx context.Context, table string, predicates []store.Predicate) (int64, error) {
	count, err := s.db.Collection(table).CountDocuments(ctx, buildFilter(predicates))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return count, nil
}

// Insert is the seed-tool write path.
func (s *Store) Insert(ctx context.Context, table string, rows []map[string]any) error {
	if len(rows) == 0 {
		return nil
	}
	documents := make([]any, 0, len(rows))
	for _, row := range rows {
		documents = append(documents, row)
	}
	if _, err := s.db.Collection(table).InsertMany(ctx, documents); err != nil {
		return fmt.Errorf("insert %s rows: %w", table, err)
	}
	return nil
}

// buildFilter maps typed predicates onto operator documents. Predicates
// are AND-combined; an explicit $and keeps repeated columns (price > 10
// AND price < 50) from clobbering each other in a flat document.
func buildFilter(predicates []store.Predicate) bson.M {
	if len(predicates) == 0 {
		return bson.M{}
	}
	clauses := make([]bson.M, 0, len(predicates))
	for _, predicate := range predicates {
		clauses = append(clauses, filterClause(predicate))
	}
	if len(clauses) == 1 {
		return clauses[0]
	}
	return bson.M{"$and": clauses}
}

func filterClause(predicate store.Predicate) bson.M {
	switch predicate.Op {
	case store.OpEq:
		return bson.M{predicate.Column: bson.M{"$eq": predicate.Value}}
	case store.OpLt:
		return bson.M{predicate.Column: bson.M{"$lt": predicate.Number}}
	case store.OpGt:
		return bson.M{predicate.Column: bson.M{"$gt": predicate.Number}}
	case store.OpLte:
		return bson.M{predicate.Column: bson.M{"$lte": predicate.Number}}
	case store.OpGte:
		return bson.M{predicate.Column: bson.M{"$gte": predicate.Number}}
	case store.OpBetween:
		return bson.M{predicate.Column: bson.M{"$gte": predicate.Low, "$lte": predicate.High}}
	case store.OpLike:
		return bson.M{predicate.Column: bson.M{"$regex": likeToRegex(predicate.Pattern), "$options": "i"}}
	default:
		return bson.M{predicate.Column: bson.M{"$eq": predicate.Value}}
	}
}

func buildProjection(columns []string) bson.M {
	projection := bson.M{"_id": 0}
	for _, column := range columns {
		if column == "*" {
			continue
		}
		projection[column] = 1
	}
	return projection
}

// likeToRegex converts a SQL pattern to an anchored regular expression.
// Everything except the % and _ wildcards is matched literally.
func likeToRegex(pattern string) string {
	var builder strings.Builder
	builder.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '%':
			builder.WriteString(".*")
		case '_':
			builder.WriteString(".")
		default:
			if strings.ContainsRune(`\.+*?()|[]{}^$`, r) {
				builder.WriteRune('\\')
			}
			builder.WriteRune(r)
		}
	}
	builder.WriteString("$")
	return builder.String()
}
