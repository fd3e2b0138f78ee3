package kicadsexp

import (
	"bufio"
	"fmt"
	"io"
	"unicode"
)

// TokenType identifies the kind of a lexical token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenLeftParen
	TokenRightParen
	TokenSymbol
	TokenString
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenLeftParen:
		return "'('"
	case TokenRightParen:
		return "')'"
	case TokenSymbol:
		return "symbol"
	case TokenString:
		return "string"
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token is a lexical token with the line it started on
type Token struct {
	Type  TokenType
	Value string
	Line  int
}

// Lexer splits KiCad S-expression text into tokens
type Lexer struct {
	reader  *bufio.Reader
	peeked  rune
	hasPeek bool
	line    int
}

// NewLexer creates a lexer reading from r
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(r),
		line:   1,
	}
}

// NextToken returns the next token, or a TokenEOF token at end of input
func (l *Lexer) NextToken() (Token, error) {
	if err := l.skipBlank(); err != nil {
		if err == io.EOF {
			return Token{Type: TokenEOF, Line: l.line}, nil
		}
		return Token{}, err
	}

	ch, err := l.peek()
	if err != nil {
		if err == io.EOF {
			return Token{Type: TokenEOF, Line: l.line}, nil
		}
		return Token{}, err
	}

	switch ch {
	case '(':
		l.read()
		return Token{Type: TokenLeftParen, Value: "(", Line: l.line}, nil
	case ')':
		l.read()
		return Token{Type: TokenRightParen, Value: ")", Line: l.line}, nil
	case '"':
		return l.readString()
	}
	return l.readSymbol()
}

// skipBlank consumes whitespace and '#' line comments
func (l *Lexer) skipBlank() error {
	for {
		ch, err := l.peek()
		if err != nil {
			return err
		}
		switch {
		case unicode.IsSpace(ch):
			l.read()
		case ch == '#':
			for {
				c, err := l.read()
				if err != nil {
					return err
				}
				if c == '\n' {
					break
				}
			}
		default:
			return nil
		}
	}
}

func (l *Lexer) peek() (rune, error) {
	if l.hasPeek {
		return l.peeked, nil
	}
	ch, _, err := l.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	l.peeked, l.hasPeek = ch, true
	return ch, nil
}

func (l *Lexer) read() (rune, error) {
	var ch rune
	if l.hasPeek {
		ch, l.hasPeek = l.peeked, false
	} else {
		var err error
		ch, _, err = l.reader.ReadRune()
		if err != nil {
			return 0, err
		}
	}
	if ch == '\n' {
		l.line++
	}
	return ch, nil
}

func (l *Lexer) readString() (Token, error) {
	start := l.line
	l.read() // opening quote

	var out []rune
	for {
		ch, err := l.read()
		if err != nil {
			if err == io.EOF {
				return Token{}, fmt.Errorf("line %d: unterminated string", start)
			}
			return Token{}, err
		}
		if ch == '"' {
			break
		}
		if ch == '\\' {
			next, err := l.read()
			if err != nil {
				return Token{}, fmt.Errorf("line %d: unterminated escape in string", start)
			}
			switch next {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			default:
				out = append(out, next)
			}
			continue
		}
		out = append(out, ch)
	}
	return Token{Type: TokenString, Value: string(out), Line: start}, nil
}

func (l *Lexer) readSymbol() (Token, error) {
	start := l.line
	var out []rune
	for {
		ch, err := l.peek()
		if err != nil {
			if err == io.EOF {
				break
			}
			return Token{}, err
		}
		if unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' {
			break
		}
		l.read()
		out = append(out, ch)
	}
	if len(out) == 0 {
		return Token{}, fmt.Errorf("line %d: empty symbol", start)
	}
	return Token{Type: TokenSymbol, Value: string(out), Line: start}, nil
}
