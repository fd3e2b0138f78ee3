package kicadsexp

import (
	"fmt"
	"io"
)

// Parser builds expression trees from a token stream
type Parser struct {
	lexer *Lexer
	tok   Token
}

// NewParser creates a parser reading from r
func NewParser(r io.Reader) *Parser {
	return &Parser{lexer: NewLexer(r)}
}

// ParseAll parses every top-level expression until EOF
func (p *Parser) ParseAll() ([]Sexp, error) {
	var result []Sexp
	for {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.Type == TokenEOF {
			return result, nil
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		result = append(result, expr)
	}
}

func (p *Parser) advance() error {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// parseExpr parses the expression starting at the current token
func (p *Parser) parseExpr() (Sexp, error) {
	switch p.tok.Type {
	case TokenLeftParen:
		return p.parseList()
	case TokenSymbol:
		return Symbol{Value: p.tok.Value, line: p.tok.Line}, nil
	case TokenString:
		return String{Value: p.tok.Value, line: p.tok.Line}, nil
	case TokenRightParen:
		return nil, fmt.Errorf("line %d: unexpected ')'", p.tok.Line)
	}
	return nil, fmt.Errorf("line %d: unexpected %v", p.tok.Line, p.tok.Type)
}

func (p *Parser) parseList() (Sexp, error) {
	list := &List{line: p.tok.Line}
	for {
		if err := p.advance(); err != nil {
			return nil, err
		}
		switch p.tok.Type {
		case TokenRightParen:
			return list, nil
		case TokenEOF:
			return nil, fmt.Errorf("line %d: unexpected EOF in list opened on line %d", p.tok.Line, list.line)
		}
		item, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)
	}
}
