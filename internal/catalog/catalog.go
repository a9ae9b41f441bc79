// Package catalog describes which tables and columns the chat pipeline is
// allowed to query. The translator checks every identifier in a parsed
// statement against this descriptor before anything reaches a store.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strings"

	"github.com/jinzhu/inflection"
)

var ErrNotFound = errors.New("table not found")

// TableDef describes one queryable logical table.
type TableDef struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// Column resolves name case-insensitively and returns the catalog's own
// spelling. Store backends match field names exactly, so every identifier
// in a plan must use the returned form.
func (t TableDef) Column(name string) (string, bool) {
	for _, column := range t.Columns {
		if strings.EqualFold(column, name) {
			return column, true
		}
	}
	return "", false
}

// HasColumn reports whether name is a known column (case-insensitive).
func (t TableDef) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// Catalog is an immutable set of table descriptors.
type Catalog struct {
	tables map[string]TableDef
	names  []string
}

func New(defs ...TableDef) *Catalog {
	catalog := &Catalog{tables: make(map[string]TableDef, len(defs))}
	for _, def := range defs {
		key := strings.ToLower(def.Name)
		if _, exists := catalog.tables[key]; !exists {
			catalog.names = append(catalog.names, def.Name)
		}
		catalog.tables[key] = def
	}
	sort.Strings(catalog.names)
	return catalog
}

// Resolve finds a table by name. The model occasionally emits the singular
// form of a plural table name (or the reverse), so both inflections are
// tried before giving up.
func (c *Catalog) Resolve(name string) (TableDef, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return TableDef{}, ErrNotFound
	}
	if def, ok := c.tables[lower]; ok {
		return def, nil
	}
	if def, ok := c.tables[strings.ToLower(inflection.Plural(lower))]; ok {
		return def, nil
	}
	if def, ok := c.tables[strings.ToLower(inflection.Singular(lower))]; ok {
		return def, nil
	}
	return TableDef{}, ErrNotFound
}

// Tables returns all descriptors in name order.
func (c *Catalog) Tables() []TableDef {
	defs := make([]TableDef, 0, len(c.names))
	for _, name := range c.names {
		defs = append(defs, c.tables[strings.ToLower(name)])
	}
	return defs
}

// Fingerprint is a stable hash over the schema, used to key cached SQL
// translations so a schema change invalidates them.
func (c *Catalog) Fingerprint() string {
	hasher := sha256.New()
	for _, def := range c.Tables() {
		hasher.Write([]byte(strings.ToLower(def.Name)))
		hasher.Write([]byte{'('})
		columns := append([]string(nil), def.Columns...)
		sort.Strings(columns)
		for _, column := range columns {
			hasher.Write([]byte(strings.ToLower(column)))
			hasher.Write([]byte{','})
		}
		hasher.Write([]byte{')'})
	}
	return hex.EncodeToString(hasher.Sum(nil))
}
