package magli

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// SpecLexer tokenizes the statement subset of MagLi spec files
var SpecLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `(//|#)[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Number", Pattern: `[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[(),;]`},
})

// SpecFile is the parse tree of a spec file
type SpecFile struct {
	Statements []*Statement `parser:"@@*"`
}

// Statement is one name(arg, ...); call
type Statement struct {
	Pos  lexer.Position
	Name string    `parser:"@Ident \"(\""`
	Args []float64 `parser:"( @Number ( \",\" @Number )* )? \")\" \";\""`
}

// Parser reads line and arc statements back into commands
type Parser struct {
	parser *participle.Parser[SpecFile]
}

// NewParser creates a spec-file parser
func NewParser() (*Parser, error) {
	parser, err := participle.Build[SpecFile](
		participle.Lexer(SpecLexer),
		participle.Elide("Comment", "Whitespace"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse reads commands from r in file order
func (p *Parser) Parse(r io.Reader) ([]Command, error) {
	file, err := p.parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return commands(file)
}

// ParseString reads commands from a string
func (p *Parser) ParseString(input string) ([]Command, error) {
	file, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return commands(file)
}

// ParseFile reads commands from the named file
func (p *Parser) ParseFile(filename string) ([]Command, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

func commands(file *SpecFile) ([]Command, error) {
	cmds := make([]Command, 0, len(file.Statements))
	for _, st := range file.Statements {
		cmd, err := st.command()
		if err != nil {
			return nil, fmt.Errorf("%d:%d: %s: %w", st.Pos.Line, st.Pos.Column, st.Name, err)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func (st *Statement) command() (Command, error) {
	a := st.Args
	switch st.Name {
	case "line":
		if len(a) != 10 {
			return nil, fmt.Errorf("expected 10 arguments, got %d", len(a))
		}
		if a[0] != 2 {
			return nil, fmt.Errorf("unsupported line mode %g", a[0])
		}
		if a[4] != 0 || a[5] != 0 || a[6] != 0 {
			return nil, fmt.Errorf("rotated lines are not supported")
		}
		c := LineCommand{Length: a[7], Segments: int(math.Round(a[8])), Current: a[9]}
		c.Center.X, c.Center.Y, c.Center.Z = a[1], a[2], a[3]
		return c, nil

	case "arc":
		if len(a) != 12 {
			return nil, fmt.Errorf("expected 12 arguments, got %d", len(a))
		}
		if a[0] != 0 || a[1] != 0 || a[2] != 0 {
			return nil, fmt.Errorf("off-axis arcs are not supported")
		}
		return ArcCommand{
			CenterZ:    a[3],
			RotX:       a[4],
			RotY:       a[5],
			RotZ:       a[6],
			StartAngle: a[7],
			EndAngle:   a[8],
			Radius:     a[9],
			Segments:   int(math.Round(a[10])),
			Current:    a[11],
		}, nil
	}
	return nil, fmt.Errorf("unknown statement")
}
