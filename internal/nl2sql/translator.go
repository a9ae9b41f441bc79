// Package nl2sql asks a language model to express a natural-language
// question as a statement in the restricted dialect. The returned text is
// untrusted input; nothing in this package executes it.
package nl2sql

import (
	"context"

	"github.com/tablechat/tablechat/internal/catalog"
)

type Request struct {
	Question string
	Tables   []catalog.TableDef
}

type Result struct {
	SQL      string `json:"sql"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Cached   bool   `json:"cached"`
}

type Translator interface {
	Translate(ctx context.Context, req Request) (Result, error)
}

// Explainer produces the conversational answer shown to the user once a
// statement has been executed.
type Explainer interface {
	Explain(ctx context.Context, question string, rows []map[string]any, count int64) (string, error)
}
