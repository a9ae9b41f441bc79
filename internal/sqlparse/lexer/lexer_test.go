package lexer

import (
	"testing"

	"github.com/tablechat/tablechat/internal/sqlparse/token"
)

func TestNextTokenSelect(t *testing.T) {
	input := `SELECT DISTINCT name, price
FROM items
WHERE price BETWEEN 10 AND 50.5 AND category = 'Books'
ORDER BY price DESC
LIMIT 100;
`

	expected := []token.Token{
		{Type: token.SELECT, Literal: "SELECT"},
		{Type: token.DISTINCT, Literal: "DISTINCT"},
		{Type: token.IDENT, Literal: "name"},
		{Type: token.COMMA, Literal: ","},
		{Type: token.IDENT, Literal: "price"},
		{Type: token.FROM, Literal: "FROM"},
		{Type: token.IDENT, Literal: "items"},
		{Type: token.WHERE, Literal: "WHERE"},
		{Type: token.IDENT, Literal: "price"},
		{Type: token.BETWEEN, Literal: "BETWEEN"},
		{Type: token.NUMBER, Literal: "10"},
		{Type: token.AND, Literal: "AND"},
		{Type: token.NUMBER, Literal: "50.5"},
		{Type: token.AND, Literal: "AND"},
		{Type: token.IDENT, Literal: "category"},
		{Type: token.EQ, Literal: "="},
		{Type: token.STRING, Literal: "Books"},
		{Type: token.ORDER, Literal: "ORDER"},
		{Type: token.BY, Literal: "BY"},
		{Type: token.IDENT, Literal: "price"},
		{Type: token.DESC, Literal: "DESC"},
		{Type: token.LIMIT, Literal: "LIMIT"},
		{Type: token.NUMBER, Literal: "100"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.EOF, Literal: ""},
	}

	l := New(input)
	for i, want := range expected {
		got := l.NextToken()
		if got.Type != want.Type || got.Literal != want.Literal {
			t.Fatalf("token[%d] = {%s %q}, want {%s %q}", i, got.Type, got.Literal, want.Type, want.Literal)
		}
	}
}

func TestNextTokenOperators(t *testing.T) {
	input := `a = 1 b < 2 c > 3 d <= 4 e >= 5 f != 6 g <> 7 h ILIKE '%x%' i LIKE 'y_'`
	expected := []token.Type{
		token.IDENT, token.EQ, token.NUMBER,
		token.IDENT, token.LT, token.NUMBER,
		token.IDENT, token.GT, token.NUMBER,
		token.IDENT, token.LTE, token.NUMBER,
		token.IDENT, token.GTE, token.NUMBER,
		token.IDENT, token.NEQ, token.NUMBER,
		token.IDENT, token.NEQ, token.NUMBER,
		token.IDENT, token.ILIKE, token.STRING,
		token.IDENT, token.LIKE, token.STRING,
		token.EOF,
	}

	l := New(input)
	for i, want := range expected {
		got := l.NextToken()
		if got.Type != want {
			t.Fatalf("token[%d] = %s (%q), want %s", i, got.Type, got.Literal, want)
		}
	}
}

func TestNextTokenCountStar(t *testing.T) {
	l := New("SELECT COUNT(*) FROM items")
	expected := []token.Type{
		token.SELECT, token.COUNT, token.LPAREN, token.STAR, token.RPAREN,
		token.FROM, token.IDENT, token.EOF,
	}
	for i, want := range expected {
		got := l.NextToken()
		if got.Type != want {
			t.Fatalf("token[%d] = %s (%q), want %s", i, got.Type, got.Literal, want)
		}
	}
}

func TestStringLiteralsKeepWildcards(t *testing.T) {
	l := New("name ILIKE '%Item_00%'")
	tokens := []token.Token{l.NextToken(), l.NextToken(), l.NextToken()}
	if tokens[2].Type != token.STRING {
		t.Fatalf("token type = %s", tokens[2].Type)
	}
	if tokens[2].Literal != "%Item_00%" {
		t.Fatalf("literal = %q, want wildcards preserved", tokens[2].Literal)
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	l := New("SELECT * -- trailing comment\nFROM /* inline */ items")
	expected := []token.Type{token.SELECT, token.STAR, token.FROM, token.IDENT, token.EOF}
	for i, want := range expected {
		got := l.NextToken()
		if got.Type != want {
			t.Fatalf("token[%d] = %s (%q), want %s", i, got.Type, got.Literal, want)
		}
	}
}

func TestPositionsTrackLines(t *testing.T) {
	l := New("SELECT *\nFROM items")
	var from token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.FROM {
			from = tok
			break
		}
		if tok.Type == token.EOF {
			t.Fatal("FROM token not found")
		}
	}
	if from.Pos.Line != 2 {
		t.Fatalf("FROM line = %d, want 2", from.Pos.Line)
	}
}
