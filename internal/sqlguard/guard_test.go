package sqlguard

import (
	"strings"
	"testing"
)

func TestValidateAcceptsSelectAnyCase(t *testing.T) {
	for _, statement := range []string{
		"SELECT * FROM items",
		"select name, price from items where price < 50",
		"  Select * From items Limit 10;  ",
		"SELECT *\nFROM items\nWHERE rating > 4.0;",
	} {
		verdict := Validate(statement)
		if !verdict.Safe {
			t.Fatalf("Validate(%q) rejected: %s", statement, verdict.Reason)
		}
	}
}

func TestValidateRejectsNonSelect(t *testing.T) {
	for _, statement := range []string{
		"",
		"   ",
		"UPDATE items SET price = 1",
		"WITH t AS (SELECT 1) SELECT * FROM t",
		"items",
	} {
		if Validate(statement).Safe {
			t.Fatalf("Validate(%q) should reject", statement)
		}
	}
}

func TestValidateRejectsBlockedKeywords(t *testing.T) {
	for _, statement := range []string{
		"SELECT * FROM items; DROP TABLE items",
		"SELECT * FROM items WHERE id IN (SELECT id FROM items) UNION SELECT * INTO backup",
		"SELECT name FROM items WHERE name = 'x' OR 1=1; DELETE FROM items",
		"SELECT truncate FROM items",
	} {
		verdict := Validate(statement)
		if verdict.Safe {
			t.Fatalf("Validate(%q) should reject", statement)
		}
		if verdict.Reason == "" {
			t.Fatalf("Validate(%q) rejected without a reason", statement)
		}
	}
}

func TestValidateWordBoundaries(t *testing.T) {
	// Column names containing blocked keywords as substrings are fine.
	verdict := Validate("SELECT created_date, updated_count FROM items WHERE created_date > 2020")
	if !verdict.Safe {
		t.Fatalf("created_date should not match CREATE: %s", verdict.Reason)
	}

	// The same keyword as a standalone word is not.
	verdict = Validate("SELECT * FROM items WHERE create = 1")
	if verdict.Safe {
		t.Fatal("standalone CREATE word should be rejected")
	}
	if !strings.Contains(verdict.Reason, "CREATE") {
		t.Fatalf("Reason = %q, want keyword named", verdict.Reason)
	}
}

func TestValidateRejectsEmbeddedSemicolon(t *testing.T) {
	if Validate("SELECT 1; SELECT 2").Safe {
		t.Fatal("two statements should be rejected")
	}
	// Trailing semicolons are stripped, not rejected.
	if !Validate("SELECT * FROM items;").Safe {
		t.Fatal("trailing semicolon should be accepted")
	}
	if !Validate("SELECT * FROM items;;").Safe {
		t.Fatal("repeated trailing semicolons should be accepted")
	}
}
