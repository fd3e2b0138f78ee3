// Package kicadsexp provides a small streaming S-expression reader for KiCad
// board files. It keeps quoted strings apart from bare symbols and records
// the source line of every node so board errors can point at the file.
package kicadsexp

import (
	"io"
	"strings"
)

// Sexp is a node in a parsed S-expression tree: an atom or a list.
type Sexp interface {
	// IsLeaf reports whether the node is an atom.
	IsLeaf() bool

	// Line returns the 1-based source line the node starts on (0 if unknown).
	Line() int

	String() string
}

// Symbol is a bare atom such as a keyword, identifier or number.
type Symbol struct {
	Value string
	line  int
}

func (s Symbol) IsLeaf() bool   { return true }
func (s Symbol) Line() int      { return s.line }
func (s Symbol) String() string { return s.Value }

// String is a double-quoted atom with escapes already resolved.
type String struct {
	Value string
	line  int
}

func (s String) IsLeaf() bool { return true }
func (s String) Line() int    { return s.line }

func (s String) String() string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s.Value) + `"`
}

// List is a parenthesized sequence of nodes.
type List struct {
	Items []Sexp
	line  int
}

func (l *List) IsLeaf() bool { return false }
func (l *List) Line() int    { return l.line }

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, item := range l.Items {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(item.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Len returns the number of items in the list.
func (l *List) Len() int {
	return len(l.Items)
}

// Get returns the item at index, or nil when out of range.
func (l *List) Get(index int) Sexp {
	if index < 0 || index >= len(l.Items) {
		return nil
	}
	return l.Items[index]
}

// Key returns the leading symbol of the list, e.g. "segment" for
// (segment (start 0 0) ...). It is empty if the list does not start with a
// bare symbol.
func (l *List) Key() string {
	if len(l.Items) == 0 {
		return ""
	}
	if sym, ok := l.Items[0].(Symbol); ok {
		return sym.Value
	}
	return ""
}

// Atom returns the text of a leaf node, quoted or not.
func Atom(s Sexp) (string, bool) {
	switch v := s.(type) {
	case Symbol:
		return v.Value, true
	case String:
		return v.Value, true
	}
	return "", false
}

// Parse reads all top-level expressions from r.
func Parse(r io.Reader) ([]Sexp, error) {
	return NewParser(r).ParseAll()
}

// ParseString is Parse for in-memory input.
func ParseString(s string) ([]Sexp, error) {
	return Parse(strings.NewReader(s))
}
