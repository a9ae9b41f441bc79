package token

// Type identifies the lexical class of a token.
type Type string

// Position points to a location in the source SQL (1-based indices).
type Position struct {
	Line   int
	Column int
}

// Token holds the type, literal representation, and source location.
type Token struct {
	Type    Type
	Literal string
	Pos     Position
}

// Token types understood by the restricted SELECT dialect. Constructs the
// dialect recognizes but does not support (OR, JOIN) still get their own
// token type so the parser can reject them with a useful message.
const (
	ILLEGAL Type = "ILLEGAL"
	EOF     Type = "EOF"

	IDENT  Type = "IDENT"
	NUMBER Type = "NUMBER"
	STRING Type = "STRING"

	COMMA     Type = ","
	SEMICOLON Type = ";"
	LPAREN    Type = "("
	RPAREN    Type = ")"
	DOT       Type = "."
	STAR      Type = "*"
	MINUS     Type = "-"
	EQ        Type = "="
	NEQ       Type = "NEQ"
	LT        Type = "<"
	LTE       Type = "<="
	GT        Type = ">"
	GTE       Type = ">="

	SELECT   Type = "SELECT"
	DISTINCT Type = "DISTINCT"
	COUNT    Type = "COUNT"
	FROM     Type = "FROM"
	WHERE    Type = "WHERE"
	AND      Type = "AND"
	OR       Type = "OR"
	BETWEEN  Type = "BETWEEN"
	LIKE     Type = "LIKE"
	ILIKE    Type = "ILIKE"
	GROUP    Type = "GROUP"
	ORDER    Type = "ORDER"
	BY       Type = "BY"
	ASC      Type = "ASC"
	DESC     Type = "DESC"
	LIMIT    Type = "LIMIT"
	AS       Type = "AS"
	JOIN     Type = "JOIN"
	ON       Type = "ON"
	TRUE     Type = "TRUE"
	FALSE    Type = "FALSE"
)

var keywords = map[string]Type{
	"SELECT":   SELECT,
	"DISTINCT": DISTINCT,
	"COUNT":    COUNT,
	"FROM":     FROM,
	"WHERE":    WHERE,
	"AND":      AND,
	"OR":       OR,
	"BETWEEN":  BETWEEN,
	"LIKE":     LIKE,
	"ILIKE":    ILIKE,
	"GROUP":    GROUP,
	"ORDER":    ORDER,
	"BY":       BY,
	"ASC":      ASC,
	"DESC":     DESC,
	"LIMIT":    LIMIT,
	"AS":       AS,
	"JOIN":     JOIN,
	"ON":       ON,
	"TRUE":     TRUE,
	"FALSE":    FALSE,
}

// Lookup returns the keyword token if the identifier matches a reserved word.
func Lookup(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
