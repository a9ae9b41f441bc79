package sqlparse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tablechat/tablechat/internal/sqlparse/lexer"
	"github.com/tablechat/tablechat/internal/sqlparse/token"
)

// Parse scans text into a Statement. It returns *ParseError when a required
// clause is missing or malformed and *UnsupportedError for recognized but
// untranslatable constructs. Single WHERE conditions outside the supported
// comparison forms are skipped rather than rejected; see DESIGN.md for the
// policy split.
func Parse(text string) (Statement, error) {
	tokens, err := scan(text)
	if err != nil {
		return Statement{}, err
	}
	for _, tok := range tokens {
		switch tok.Type {
		case token.JOIN, token.ON:
			return Statement{}, &UnsupportedError{Construct: "JOIN", Pos: tok.Pos}
		case token.OR:
			return Statement{}, &UnsupportedError{Construct: "OR", Pos: tok.Pos}
		}
	}

	p := &parser{tokens: tokens}
	return p.parse()
}

func scan(text string) ([]token.Token, error) {
	l := lexer.New(text)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.ILLEGAL {
			return nil, &ParseError{Message: fmt.Sprintf("unexpected character %q", tok.Literal), Pos: tok.Pos}
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

type parser struct {
	tokens []token.Token
	pos    int
}

func (p *parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func (p *parser) parse() (Statement, error) {
	var stmt Statement

	if p.cur().Type != token.SELECT {
		return Statement{}, &ParseError{Message: "statement must begin with SELECT", Pos: p.cur().Pos}
	}
	p.advance()

	if p.cur().Type == token.DISTINCT {
		stmt.Distinct = true
		p.advance()
	}

	if err := p.parseProjection(&stmt); err != nil {
		return Statement{}, err
	}

	if p.cur().Type != token.FROM {
		return Statement{}, &ParseError{Message: "no FROM target", Pos: p.cur().Pos}
	}
	p.advance()
	if p.cur().Type != token.IDENT {
		return Statement{}, &ParseError{Message: "no FROM target", Pos: p.cur().Pos}
	}
	stmt.Table = p.cur().Literal
	p.advance()
	switch p.cur().Type {
	case token.DOT:
		return Statement{}, &UnsupportedError{Construct: "qualified table name", Pos: p.cur().Pos}
	case token.COMMA:
		return Statement{}, &UnsupportedError{Construct: "multiple FROM tables", Pos: p.cur().Pos}
	case token.IDENT, token.AS:
		return Statement{}, &UnsupportedError{Construct: "table alias", Pos: p.cur().Pos}
	}

	var seenWhere, seenGroup, seenOrder, seenLimit bool
	for {
		switch p.cur().Type {
		case token.WHERE:
			if seenWhere {
				return Statement{}, &ParseError{Message: "duplicate WHERE clause", Pos: p.cur().Pos}
			}
			seenWhere = true
			p.advance()
			stmt.Predicates = p.parseConditions()
		case token.GROUP:
			if seenGroup {
				return Statement{}, &ParseError{Message: "duplicate GROUP BY clause", Pos: p.cur().Pos}
			}
			seenGroup = true
			if err := p.parseGroupBy(&stmt); err != nil {
				return Statement{}, err
			}
		case token.ORDER:
			if seenOrder {
				return Statement{}, &ParseError{Message: "duplicate ORDER BY clause", Pos: p.cur().Pos}
			}
			seenOrder = true
			if err := p.parseOrderBy(&stmt); err != nil {
				return Statement{}, err
			}
		case token.LIMIT:
			if seenLimit {
				return Statement{}, &ParseError{Message: "duplicate LIMIT clause", Pos: p.cur().Pos}
			}
			seenLimit = true
			if err := p.parseLimit(&stmt); err != nil {
				return Statement{}, err
			}
		case token.SEMICOLON:
			p.advance()
			if p.cur().Type != token.EOF {
				return Statement{}, &ParseError{Message: "unexpected tokens after statement end", Pos: p.cur().Pos}
			}
		case token.EOF:
			return stmt, nil
		default:
			return Statement{}, &ParseError{Message: fmt.Sprintf("unexpected token %q", p.cur().Literal), Pos: p.cur().Pos}
		}
	}
}

func (p *parser) parseProjection(stmt *Statement) error {
	var columns []string
	countItems := 0

	for {
		switch p.cur().Type {
		case token.STAR:
			columns = append(columns, "*")
			p.advance()
		case token.COUNT:
			pos := p.cur().Pos
			p.advance()
			if p.cur().Type != token.LPAREN {
				return &ParseError{Message: "COUNT requires (*)", Pos: pos}
			}
			p.advance()
			if p.cur().Type != token.STAR {
				return &UnsupportedError{Construct: "COUNT over a column", Pos: p.cur().Pos}
			}
			p.advance()
			if p.cur().Type != token.RPAREN {
				return &ParseError{Message: "COUNT requires (*)", Pos: p.cur().Pos}
			}
			p.advance()
			countItems++
		case token.IDENT:
			columns = append(columns, p.cur().Literal)
			p.advance()
			if p.cur().Type == token.AS || p.cur().Type == token.IDENT {
				return &UnsupportedError{Construct: "projection alias", Pos: p.cur().Pos}
			}
		case token.FROM:
			if len(columns) == 0 && countItems == 0 {
				return &ParseError{Message: "empty select list", Pos: p.cur().Pos}
			}
			// COUNT(*) alongside real columns rides along with GROUP BY
			// output; on its own it turns the plan into a count request.
			stmt.CountOnly = countItems > 0 && len(columns) == 0
			if containsStar(columns) {
				columns = []string{"*"}
			}
			stmt.Projection = columns
			return nil
		default:
			return &UnsupportedError{Construct: "projection expression", Pos: p.cur().Pos}
		}

		if p.cur().Type == token.COMMA {
			p.advance()
		}
	}
}

// parseConditions translates the WHERE clause into predicates. Conditions
// are AND-combined; a condition whose shape is not supported is consumed
// and dropped without failing the whole statement.
func (p *parser) parseConditions() []Predicate {
	var predicates []Predicate
	for {
		if pred, ok := p.parseCondition(); ok {
			predicates = append(predicates, pred)
		}
		if p.cur().Type != token.AND {
			return predicates
		}
		p.advance()
	}
}

func (p *parser) parseCondition() (Predicate, bool) {
	if p.cur().Type != token.IDENT {
		p.skipCondition()
		return Predicate{}, false
	}
	column := p.cur().Literal
	p.advance()

	switch p.cur().Type {
	case token.EQ:
		p.advance()
		switch p.cur().Type {
		case token.STRING:
			value := p.cur().Literal
			p.advance()
			return Predicate{Column: column, Op: OpEq, Value: value}, true
		case token.NUMBER, token.MINUS:
			if number, ok := p.parseNumber(); ok {
				return Predicate{Column: column, Op: OpEq, Value: number}, true
			}
		case token.TRUE, token.FALSE:
			value := p.cur().Type == token.TRUE
			p.advance()
			return Predicate{Column: column, Op: OpEq, Value: value}, true
		}
	case token.LT, token.GT, token.LTE, token.GTE:
		op := map[token.Type]Op{
			token.LT:  OpLt,
			token.GT:  OpGt,
			token.LTE: OpLte,
			token.GTE: OpGte,
		}[p.cur().Type]
		p.advance()
		if number, ok := p.parseNumber(); ok {
			return Predicate{Column: column, Op: op, Number: number}, true
		}
	case token.BETWEEN:
		p.advance()
		low, ok := p.parseNumber()
		if !ok {
			break
		}
		if p.cur().Type != token.AND {
			break
		}
		p.advance()
		high, ok := p.parseNumber()
		if !ok {
			break
		}
		return Predicate{Column: column, Op: OpBetween, Low: low, High: high}, true
	case token.ILIKE, token.LIKE:
		p.advance()
		if p.cur().Type == token.STRING {
			pattern := p.cur().Literal
			p.advance()
			return Predicate{Column: column, Op: OpLike, Pattern: pattern}, true
		}
	}

	p.skipCondition()
	return Predicate{}, false
}

// skipCondition drops tokens until the next top-level AND or the end of the
// WHERE clause. An AND that belongs to a skipped BETWEEN stays inside the
// fragment.
func (p *parser) skipCondition() {
	pendingBetween := false
	for {
		switch p.cur().Type {
		case token.AND:
			if pendingBetween {
				pendingBetween = false
				p.advance()
				continue
			}
			return
		case token.BETWEEN:
			pendingBetween = true
			p.advance()
		case token.GROUP, token.ORDER, token.LIMIT, token.SEMICOLON, token.EOF:
			return
		default:
			p.advance()
		}
	}
}

func (p *parser) parseNumber() (float64, bool) {
	negative := false
	if p.cur().Type == token.MINUS {
		negative = true
		p.advance()
	}
	if p.cur().Type != token.NUMBER {
		return 0, false
	}
	number, err := strconv.ParseFloat(p.cur().Literal, 64)
	if err != nil {
		return 0, false
	}
	p.advance()
	if negative {
		number = -number
	}
	return number, true
}

func (p *parser) parseGroupBy(stmt *Statement) error {
	p.advance()
	if p.cur().Type != token.BY {
		return &ParseError{Message: "GROUP must be followed by BY", Pos: p.cur().Pos}
	}
	p.advance()
	if p.cur().Type != token.IDENT {
		return &ParseError{Message: "GROUP BY requires a column name", Pos: p.cur().Pos}
	}
	stmt.GroupBy = p.cur().Literal
	p.advance()
	if p.cur().Type == token.COMMA {
		return &UnsupportedError{Construct: "multi-column GROUP BY", Pos: p.cur().Pos}
	}
	return nil
}

// parseOrderBy keeps the first ordering term and discards the rest.
func (p *parser) parseOrderBy(stmt *Statement) error {
	p.advance()
	if p.cur().Type != token.BY {
		return &ParseError{Message: "ORDER must be followed by BY", Pos: p.cur().Pos}
	}
	p.advance()
	if p.cur().Type != token.IDENT {
		return &ParseError{Message: "ORDER BY requires a column name", Pos: p.cur().Pos}
	}
	ordering := &Ordering{Column: p.cur().Literal}
	p.advance()
	switch p.cur().Type {
	case token.ASC:
		p.advance()
	case token.DESC:
		ordering.Descending = true
		p.advance()
	}
	stmt.OrderBy = ordering

	for p.cur().Type == token.COMMA {
		p.advance()
		if p.cur().Type != token.IDENT {
			return &ParseError{Message: "ORDER BY requires a column name", Pos: p.cur().Pos}
		}
		p.advance()
		if p.cur().Type == token.ASC || p.cur().Type == token.DESC {
			p.advance()
		}
	}
	return nil
}

func (p *parser) parseLimit(stmt *Statement) error {
	p.advance()
	if p.cur().Type != token.NUMBER || strings.Contains(p.cur().Literal, ".") {
		return &ParseError{Message: "LIMIT requires a positive integer", Pos: p.cur().Pos}
	}
	limit, err := strconv.Atoi(p.cur().Literal)
	if err != nil || limit <= 0 {
		return &ParseError{Message: "LIMIT requires a positive integer", Pos: p.cur().Pos}
	}
	stmt.Limit = limit
	p.advance()
	return nil
}

func containsStar(columns []string) bool {
	for _, column := range columns {
		if column == "*" {
			return true
		}
	}
	return false
}
