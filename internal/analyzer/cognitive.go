package analyzer

import (
	"fmt"

	"github.com/cogscan/cogscan/internal/parser"
)

// IncrementReason identifies the rule that produced a score increment
type IncrementReason string

const (
	ReasonIf        IncrementReason = "if"
	ReasonElseIf    IncrementReason = "else-if"
	ReasonLoop      IncrementReason = "loop"
	ReasonSwitch    IncrementReason = "switch"
	ReasonCatch     IncrementReason = "catch"
	ReasonTernary   IncrementReason = "ternary"
	ReasonLogicalOp IncrementReason = "logical-operator"
	ReasonNegation  IncrementReason = "negation"
	ReasonRecursion IncrementReason = "recursion"
)

// NestedFunctionMode controls whether nested function bodies are scored as
// independent scopes or folded into the enclosing function's score
type NestedFunctionMode string

const (
	NestedSeparate NestedFunctionMode = "separate"
	NestedFold     NestedFunctionMode = "fold"
)

// ValidNestedFunctionMode reports whether s names a supported mode
func ValidNestedFunctionMode(s string) bool {
	switch NestedFunctionMode(s) {
	case NestedSeparate, NestedFold:
		return true
	}
	return false
}

// Increment is one entry in a score breakdown. Amount is the full
// contribution of the rule application, nesting penalty included.
type Increment struct {
	Reason   IncrementReason
	Amount   int
	Nesting  int
	Location parser.Location
}

// Warning records a node the rule engine did not recognize. Warnings never
// change the score.
type Warning struct {
	NodeKind string
	Location parser.Location
	Message  string
}

// FunctionScore is the cognitive complexity result for one scope
type FunctionScore struct {
	Name       string
	Location   parser.Location
	Total      int
	Increments []Increment
	Warnings   []Warning
}

func (s *FunctionScore) addIncrement(reason IncrementReason, amount, nesting int, loc parser.Location) {
	s.Increments = append(s.Increments, Increment{
		Reason:   reason,
		Amount:   amount,
		Nesting:  nesting,
		Location: loc,
	})
	s.Total += amount
}

func (s *FunctionScore) addWarning(kind string, loc parser.Location, msg string) {
	s.Warnings = append(s.Warnings, Warning{NodeKind: kind, Location: loc, Message: msg})
}

// CognitiveAnalyzer computes cognitive complexity scores for the functions
// in a parsed file
type CognitiveAnalyzer struct {
	mode NestedFunctionMode
}

// NewCognitiveAnalyzer creates an analyzer with the given nested-function
// mode, defaulting to separate scopes
func NewCognitiveAnalyzer(mode NestedFunctionMode) *CognitiveAnalyzer {
	if mode == "" {
		mode = NestedSeparate
	}
	return &CognitiveAnalyzer{mode: mode}
}

// AnalyzeFile discovers every function in the AST and scores each one.
// Results appear in source order. In fold mode nested function bodies are
// accumulated into the enclosing function's score instead of producing
// scores of their own.
func (a *CognitiveAnalyzer) AnalyzeFile(ast *parser.Node) []*FunctionScore {
	var scores []*FunctionScore
	a.discover(ast, &scores)
	return scores
}

func (a *CognitiveAnalyzer) discover(node *parser.Node, out *[]*FunctionScore) {
	if node == nil {
		return
	}
	if node.IsFunction() {
		*out = append(*out, a.AnalyzeFunction(node))
		if a.mode == NestedSeparate {
			eachChild(node, func(child *parser.Node) {
				a.discover(child, out)
			})
		}
		return
	}
	eachChild(node, func(child *parser.Node) {
		a.discover(child, out)
	})
}

// AnalyzeFunction scores a single function scope. The nesting counter starts
// at zero regardless of how deeply the function itself sits in the file.
func (a *CognitiveAnalyzer) AnalyzeFunction(fn *parser.Node) *FunctionScore {
	name := fn.Name
	if name == "" {
		name = fmt.Sprintf("<anonymous:%d:%d>", fn.Location.StartLine, fn.Location.StartCol)
	}
	score := &FunctionScore{
		Name:     name,
		Location: fn.Location,
	}
	w := &scopeWalker{
		mode:     a.mode,
		identity: fn.Name,
		score:    score,
	}
	for _, stmt := range fn.Body {
		w.visit(stmt, 0)
	}
	return score
}

// scopeWalker applies the scoring rules while walking one scope's subtree
type scopeWalker struct {
	mode     NestedFunctionMode
	identity string
	score    *FunctionScore
}

func (w *scopeWalker) visit(n *parser.Node, depth int) {
	if n == nil {
		return
	}

	switch n.Type {
	case parser.NodeIfStatement:
		w.visitIf(n, depth, false)

	case parser.NodeForStatement:
		w.score.addIncrement(ReasonLoop, 1+depth, depth, n.Location)
		w.visit(n.Init, depth)
		w.visit(n.Test, depth)
		w.visit(n.Update, depth)
		w.visitAll(n.Body, depth+1)

	case parser.NodeForInStatement, parser.NodeForOfStatement:
		w.score.addIncrement(ReasonLoop, 1+depth, depth, n.Location)
		w.visit(n.Init, depth)
		w.visit(n.Test, depth)
		w.visitAll(n.Body, depth+1)

	case parser.NodeWhileStatement, parser.NodeDoWhileStatement:
		w.score.addIncrement(ReasonLoop, 1+depth, depth, n.Location)
		w.visit(n.Test, depth)
		w.visitAll(n.Body, depth+1)

	case parser.NodeSwitchStatement:
		// The switch header counts once; case labels add nothing
		w.score.addIncrement(ReasonSwitch, 1+depth, depth, n.Location)
		w.visit(n.Test, depth)
		for _, c := range n.Cases {
			w.visit(c.Test, depth+1)
			w.visitAll(c.Body, depth+1)
		}

	case parser.NodeTryStatement:
		// try itself is free; only the catch clause increments
		w.visitAll(n.Body, depth)
		if n.Handler != nil {
			w.score.addIncrement(ReasonCatch, 1+depth, depth, n.Handler.Location)
			w.visitAll(n.Handler.Body, depth+1)
		}
		if n.Finalizer != nil {
			w.visitAll(n.Finalizer.Body, depth)
		}

	case parser.NodeConditionalExpression:
		w.score.addIncrement(ReasonTernary, 1+depth, depth, n.Location)
		w.visit(n.Test, depth)
		w.visit(n.Consequent, depth+1)
		w.visit(n.Alternate, depth+1)

	case parser.NodeLogicalExpression:
		w.visitBooleanChain(n, depth)

	case parser.NodeUnaryExpression:
		if n.Operator == "!" {
			w.score.addIncrement(ReasonNegation, 1, depth, n.Location)
		}
		w.visit(n.Argument, depth)

	case parser.NodeCallExpression:
		if w.identity != "" && n.CalleeName() == w.identity {
			w.score.addIncrement(ReasonRecursion, 1, depth, n.Location)
		}
		w.visit(n.Callee, depth)
		w.visitAll(n.Arguments, depth)

	case parser.NodeBreakStatement, parser.NodeContinueStatement:
		// jumps are free

	case parser.NodeReturnStatement, parser.NodeThrowStatement:
		// the jump is free but its expression may still score
		w.visit(n.Argument, depth)

	case parser.NodeFunction, parser.NodeFunctionExpression,
		parser.NodeArrowFunction, parser.NodeGeneratorFunction,
		parser.NodeMethodDefinition:
		// A nested function boundary. In separate mode its body belongs to
		// its own scope and is skipped here; in fold mode the body is walked
		// as part of this scope, keeping the enclosing identity.
		if w.mode == NestedFold {
			w.visitAll(n.Params, depth)
			w.visitAll(n.Body, depth)
		}

	case parser.NodeProgram, parser.NodeBlockStatement, parser.NodeClass,
		parser.NodeFinallyClause, parser.NodeCatchClause,
		parser.NodeCaseClause, parser.NodeDefaultClause,
		parser.NodeExpressionStatement, parser.NodeParenthesized,
		parser.NodeLabeledStatement, parser.NodeGroup:
		eachChild(n, func(child *parser.Node) {
			w.visit(child, depth)
		})

	case parser.NodeVariableDeclaration:
		w.visitAll(n.Declarations, depth)

	case parser.NodeVariableDeclarator:
		w.visitAll(n.Children, depth)

	case parser.NodeBinaryExpression, parser.NodeAssignmentExpression:
		w.visit(n.Left, depth)
		w.visit(n.Right, depth)

	case parser.NodeMemberExpression:
		w.visit(n.Object, depth)
		w.visit(n.Property, depth)

	case parser.NodeIdentifier, parser.NodeLiteral:
		// leaves

	case parser.NodeWithStatement:
		w.score.addWarning(string(n.Type), n.Location, "with statement is not scored")
		eachChild(n, func(child *parser.Node) {
			w.visit(child, depth)
		})

	case parser.NodeError:
		w.score.addWarning(string(n.Type), n.Location, "syntax error region skipped")

	case parser.NodeUnknown:
		w.score.addWarning(n.Raw, n.Location, "unrecognized node kind")
		eachChild(n, func(child *parser.Node) {
			w.visit(child, depth)
		})

	default:
		w.score.addWarning(string(n.Type), n.Location, "unrecognized node kind")
		eachChild(n, func(child *parser.Node) {
			w.visit(child, depth)
		})
	}
}

func (w *scopeWalker) visitAll(nodes []*parser.Node, depth int) {
	for _, n := range nodes {
		w.visit(n, depth)
	}
}

// visitIf scores an if statement. An else-if chained from it is a separate
// increment at the same nesting depth as the originating if, while a plain
// else adds nothing of its own.
func (w *scopeWalker) visitIf(n *parser.Node, depth int, elseIf bool) {
	reason := ReasonIf
	if elseIf {
		reason = ReasonElseIf
	}
	w.score.addIncrement(reason, 1+depth, depth, n.Location)

	w.visit(n.Test, depth)
	w.visit(n.Consequent, depth+1)

	if n.Alternate == nil {
		return
	}
	if n.Alternate.Type == parser.NodeIfStatement {
		w.visitIf(n.Alternate, depth, true)
	} else {
		w.visit(n.Alternate, depth+1)
	}
}

// visitBooleanChain scores a maximal run of logical operators. A run of
// identical operators costs one increment; every operator change inside the
// same uninterrupted expression costs one more. Parenthesized subexpressions
// interrupt the chain and are scored on their own when visited as operands.
func (w *scopeWalker) visitBooleanChain(root *parser.Node, depth int) {
	var ops []chainOp
	var operands []*parser.Node
	flattenChain(root, &ops, &operands)

	prev := ""
	for _, op := range ops {
		if op.operator != prev {
			w.score.addIncrement(ReasonLogicalOp, 1, depth, op.location)
			prev = op.operator
		}
	}

	for _, operand := range operands {
		w.visit(operand, depth)
	}
}

type chainOp struct {
	operator string
	location parser.Location
}

// flattenChain linearizes a tree of logical expressions into its operator
// sequence and leaf operands, left to right
func flattenChain(n *parser.Node, ops *[]chainOp, operands *[]*parser.Node) {
	if n.Left != nil {
		if n.Left.Type == parser.NodeLogicalExpression {
			flattenChain(n.Left, ops, operands)
		} else {
			*operands = append(*operands, n.Left)
		}
	}
	*ops = append(*ops, chainOp{operator: n.Operator, location: n.Location})
	if n.Right != nil {
		if n.Right.Type == parser.NodeLogicalExpression {
			flattenChain(n.Right, ops, operands)
		} else {
			*operands = append(*operands, n.Right)
		}
	}
}

// eachChild applies f to every populated child field of n, in source order
// for the list-valued fields
func eachChild(n *parser.Node, f func(*parser.Node)) {
	for _, c := range n.Children {
		f(c)
	}
	for _, c := range n.Params {
		f(c)
	}
	for _, c := range n.Body {
		f(c)
	}
	for _, c := range n.Cases {
		f(c)
	}
	for _, c := range n.Arguments {
		f(c)
	}
	for _, c := range n.Declarations {
		f(c)
	}
	for _, c := range []*parser.Node{
		n.Test, n.Consequent, n.Alternate, n.Init, n.Update,
		n.Handler, n.Finalizer, n.Left, n.Right, n.Argument,
		n.Callee, n.Object, n.Property,
	} {
		if c != nil {
			f(c)
		}
	}
}
