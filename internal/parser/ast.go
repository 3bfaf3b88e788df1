package parser

import "fmt"

// NodeType represents the type of AST node
type NodeType string

// Syntax node types consumed by the scoring engine. The set is closed:
// anything the builder cannot classify becomes a generic node carrying the
// raw tree-sitter type, which the analyzer treats as unrecognized.
const (
	// Program and structure
	NodeProgram NodeType = "Program"

	// Function boundaries
	NodeFunction           NodeType = "FunctionDeclaration"
	NodeFunctionExpression NodeType = "FunctionExpression"
	NodeArrowFunction      NodeType = "ArrowFunctionExpression"
	NodeGeneratorFunction  NodeType = "GeneratorFunctionDeclaration"
	NodeMethodDefinition   NodeType = "MethodDefinition"

	// Class container (walked through, never scored)
	NodeClass NodeType = "ClassDeclaration"

	// Branching and loops
	NodeIfStatement      NodeType = "IfStatement"
	NodeSwitchStatement  NodeType = "SwitchStatement"
	NodeCaseClause       NodeType = "SwitchCase"
	NodeDefaultClause    NodeType = "SwitchDefault"
	NodeForStatement     NodeType = "ForStatement"
	NodeForInStatement   NodeType = "ForInStatement"
	NodeForOfStatement   NodeType = "ForOfStatement"
	NodeWhileStatement   NodeType = "WhileStatement"
	NodeDoWhileStatement NodeType = "DoWhileStatement"

	// Jumps (spec: free of charge)
	NodeBreakStatement    NodeType = "BreakStatement"
	NodeContinueStatement NodeType = "ContinueStatement"
	NodeReturnStatement   NodeType = "ReturnStatement"
	NodeThrowStatement    NodeType = "ThrowStatement"

	// Exception handling
	NodeTryStatement  NodeType = "TryStatement"
	NodeCatchClause   NodeType = "CatchClause"
	NodeFinallyClause NodeType = "FinallyClause"

	// Expressions relevant to scoring
	NodeCallExpression        NodeType = "CallExpression"
	NodeMemberExpression      NodeType = "MemberExpression"
	NodeBinaryExpression      NodeType = "BinaryExpression"
	NodeUnaryExpression       NodeType = "UnaryExpression"
	NodeLogicalExpression     NodeType = "LogicalExpression"
	NodeConditionalExpression NodeType = "ConditionalExpression"
	NodeAssignmentExpression  NodeType = "AssignmentExpression"
	NodeParenthesized         NodeType = "ParenthesizedExpression"

	// Declarations and leaves
	NodeVariableDeclaration NodeType = "VariableDeclaration"
	NodeVariableDeclarator  NodeType = "VariableDeclarator"
	NodeIdentifier          NodeType = "Identifier"
	NodeLiteral             NodeType = "Literal"

	// Other statements
	NodeExpressionStatement NodeType = "ExpressionStatement"
	NodeBlockStatement      NodeType = "BlockStatement"
	NodeLabeledStatement    NodeType = "LabeledStatement"
	NodeWithStatement       NodeType = "WithStatement"

	// Neutral construct with no scoring significance, walked for children
	NodeGroup NodeType = "Group"

	// Grammar node the builder could not classify; Raw carries its kind
	NodeUnknown NodeType = "Unknown"

	// Parse-tree error node surfaced by tree-sitter
	NodeError NodeType = "Error"
)

// Location represents the position of a node in the source code
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// String returns a string representation of the location
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.StartLine, l.StartCol)
}

// Node represents an AST node
type Node struct {
	Type     NodeType
	Children []*Node
	Location Location

	// Name of a function/method/identifier, when the node carries one
	Name string

	// Function fields
	Params []*Node
	Body   []*Node

	// Control flow fields
	Test       *Node   // condition for if/while/for, discriminant for switch
	Consequent *Node   // then branch
	Alternate  *Node   // else branch (may itself be an IfStatement: else-if)
	Init       *Node   // for loop initializer
	Update     *Node   // for loop update
	Cases      []*Node // switch cases

	// Try-catch fields
	Handler   *Node // catch clause
	Finalizer *Node // finally block

	// Expression fields
	Left      *Node
	Right     *Node
	Operator  string
	Argument  *Node
	Arguments []*Node
	Callee    *Node
	Object    *Node
	Property  *Node

	// Variable declaration fields
	Kind         string // var, let, const
	Declarations []*Node

	Raw string // raw literal text
}

// NewNode creates a new AST node
func NewNode(nodeType NodeType) *Node {
	return &Node{Type: nodeType}
}

// AddChild adds a child node
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	n.Children = append(n.Children, child)
}

// Walk traverses the AST depth-first and calls the visitor function for each
// node. If the visitor returns false, traversal of that branch is stopped.
func (n *Node) Walk(visitor func(*Node) bool) {
	if n == nil {
		return
	}

	if !visitor(n) {
		return
	}

	for _, child := range n.Children {
		child.Walk(visitor)
	}
	for _, param := range n.Params {
		param.Walk(visitor)
	}
	for _, stmt := range n.Body {
		stmt.Walk(visitor)
	}
	for _, caseNode := range n.Cases {
		caseNode.Walk(visitor)
	}
	for _, arg := range n.Arguments {
		arg.Walk(visitor)
	}
	for _, decl := range n.Declarations {
		decl.Walk(visitor)
	}

	if n.Test != nil {
		n.Test.Walk(visitor)
	}
	if n.Consequent != nil {
		n.Consequent.Walk(visitor)
	}
	if n.Alternate != nil {
		n.Alternate.Walk(visitor)
	}
	if n.Init != nil {
		n.Init.Walk(visitor)
	}
	if n.Update != nil {
		n.Update.Walk(visitor)
	}
	if n.Handler != nil {
		n.Handler.Walk(visitor)
	}
	if n.Finalizer != nil {
		n.Finalizer.Walk(visitor)
	}
	if n.Left != nil {
		n.Left.Walk(visitor)
	}
	if n.Right != nil {
		n.Right.Walk(visitor)
	}
	if n.Argument != nil {
		n.Argument.Walk(visitor)
	}
	if n.Callee != nil {
		n.Callee.Walk(visitor)
	}
	if n.Object != nil {
		n.Object.Walk(visitor)
	}
	if n.Property != nil {
		n.Property.Walk(visitor)
	}
}

// String returns a string representation of the node
func (n *Node) String() string {
	if n.Name != "" {
		return fmt.Sprintf("%s(%s) at %s", n.Type, n.Name, n.Location)
	}
	return fmt.Sprintf("%s at %s", n.Type, n.Location)
}

// IsFunction returns true if the node is a function boundary
func (n *Node) IsFunction() bool {
	switch n.Type {
	case NodeFunction, NodeFunctionExpression, NodeArrowFunction,
		NodeGeneratorFunction, NodeMethodDefinition:
		return true
	}
	return false
}

// IsLoop returns true for all loop statement forms
func (n *Node) IsLoop() bool {
	switch n.Type {
	case NodeForStatement, NodeForInStatement, NodeForOfStatement,
		NodeWhileStatement, NodeDoWhileStatement:
		return true
	}
	return false
}

// IsJump returns true for statements that transfer control without branching
func (n *Node) IsJump() bool {
	switch n.Type {
	case NodeBreakStatement, NodeContinueStatement,
		NodeReturnStatement, NodeThrowStatement:
		return true
	}
	return false
}

// CalleeName resolves the identifier a call expression invokes. For member
// calls (obj.method()) it returns the property name. Empty when the callee
// is not a plain identifier or member access.
func (n *Node) CalleeName() string {
	if n.Type != NodeCallExpression || n.Callee == nil {
		return ""
	}
	switch n.Callee.Type {
	case NodeIdentifier:
		return n.Callee.Name
	case NodeMemberExpression:
		if n.Callee.Property != nil && n.Callee.Property.Type == NodeIdentifier {
			return n.Callee.Property.Name
		}
	}
	return ""
}
