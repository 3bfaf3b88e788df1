package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
)

// Parser wraps tree-sitter for JavaScript and TypeScript sources
type Parser struct {
	parser *sitter.Parser
}

// Result contains the parsed AST and any non-fatal diagnostics
type Result struct {
	AST      *Node
	FilePath string
	Errors   []ParseError
}

// ParseError describes a syntax error region reported by the grammar
type ParseError struct {
	Location Location
	Message  string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Location.String(), e.Message)
}

// NewParser creates a parser for JavaScript sources
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())
	return &Parser{parser: p}
}

// NewTypeScriptParser creates a parser for TypeScript and TSX sources
func NewTypeScriptParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(tsx.GetLanguage())
	return &Parser{parser: p}
}

// Parse parses source code and builds the scoring AST
func (p *Parser) Parse(ctx context.Context, source []byte, filename string) (*Result, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	defer tree.Close()

	rootNode := tree.RootNode()
	if rootNode == nil {
		return nil, fmt.Errorf("failed to parse %s: no syntax tree produced", filename)
	}

	builder := NewASTBuilder(filename, source)
	ast := builder.Build(rootNode)

	result := &Result{
		AST:      ast,
		FilePath: filename,
	}
	collectParseErrors(rootNode, filename, &result.Errors)
	return result, nil
}

// ParseString parses source code provided as a string
func (p *Parser) ParseString(ctx context.Context, source string, filename string) (*Result, error) {
	return p.Parse(ctx, []byte(source), filename)
}

// Close releases parser resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// collectParseErrors walks the CST recording ERROR and missing regions
func collectParseErrors(tsNode *sitter.Node, filename string, errs *[]ParseError) {
	if tsNode.IsError() || tsNode.IsMissing() {
		msg := "syntax error"
		if tsNode.IsMissing() {
			msg = "missing " + tsNode.Type()
		}
		*errs = append(*errs, ParseError{
			Location: Location{
				File:      filename,
				StartLine: int(tsNode.StartPoint().Row) + 1,
				StartCol:  int(tsNode.StartPoint().Column),
				EndLine:   int(tsNode.EndPoint().Row) + 1,
				EndCol:    int(tsNode.EndPoint().Column),
			},
			Message: msg,
		})
		return
	}
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		if child := tsNode.Child(i); child != nil {
			collectParseErrors(child, filename, errs)
		}
	}
}

// ParseFile reads a source file from disk and parses it with the grammar
// selected from the file extension
func ParseFile(ctx context.Context, filePath string) (*Result, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return ParseForLanguage(ctx, filePath, source)
}

// ParseForLanguage selects the grammar from the file extension and parses
// the given source
func ParseForLanguage(ctx context.Context, filePath string, source []byte) (*Result, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	var p *Parser
	switch ext {
	case ".ts", ".tsx", ".mts", ".cts":
		p = NewTypeScriptParser()
	case ".js", ".jsx", ".mjs", ".cjs":
		p = NewParser()
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
	defer p.Close()

	return p.Parse(ctx, source, filePath)
}
