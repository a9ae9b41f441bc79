package catalog

import (
	"errors"
	"testing"
)

func itemsCatalog() *Catalog {
	return New(TableDef{
		Name:    "items",
		Columns: []string{"id", "name", "price", "category", "is_active"},
	})
}

func TestResolveExactName(t *testing.T) {
	def, err := itemsCatalog().Resolve("items")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if def.Name != "items" {
		t.Fatalf("unexpected table %q", def.Name)
	}
}

func TestResolveIsCaseInsensitive(t *testing.T) {
	if _, err := itemsCatalog().Resolve("ITEMS"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
}

func TestResolveSingularFallsBackToPlural(t *testing.T) {
	def, err := itemsCatalog().Resolve("item")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if def.Name != "items" {
		t.Fatalf("unexpected table %q", def.Name)
	}
}

func TestResolvePluralFallsBackToSingular(t *testing.T) {
	c := New(TableDef{Name: "product", Columns: []string{"id"}})
	if _, err := c.Resolve("products"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
}

func TestResolveUnknownTable(t *testing.T) {
	_, err := itemsCatalog().Resolve("orders")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestColumnReturnsCatalogSpelling(t *testing.T) {
	def := TableDef{Name: "events", Columns: []string{"id", "createdDate"}}
	name, ok := def.Column("CREATEDDATE")
	if !ok || name != "createdDate" {
		t.Fatalf("Column = %q, %v", name, ok)
	}
	if _, ok := def.Column("deleted"); ok {
		t.Fatal("unknown column should not resolve")
	}
}

func TestHasColumnIgnoresCase(t *testing.T) {
	def, _ := itemsCatalog().Resolve("items")
	if !def.HasColumn("Price") {
		t.Fatal("expected Price to match")
	}
	if def.HasColumn("secret") {
		t.Fatal("unexpected column match")
	}
}

func TestFingerprintStableAcrossColumnOrder(t *testing.T) {
	a := New(TableDef{Name: "items", Columns: []string{"id", "name"}})
	b := New(TableDef{Name: "items", Columns: []string{"name", "id"}})
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("fingerprint should not depend on column order")
	}
}

func TestFingerprintChangesWithSchema(t *testing.T) {
	a := New(TableDef{Name: "items", Columns: []string{"id"}})
	b := New(TableDef{Name: "items", Columns: []string{"id", "rating"}})
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatal("fingerprint should change when a column is added")
	}
}
