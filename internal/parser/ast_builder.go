package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// ASTBuilder builds the scoring AST from a tree-sitter CST
type ASTBuilder struct {
	filename string
	source   []byte
}

// NewASTBuilder creates a new AST builder
func NewASTBuilder(filename string, source []byte) *ASTBuilder {
	return &ASTBuilder{
		filename: filename,
		source:   source,
	}
}

// Build builds the AST from a tree-sitter node
func (b *ASTBuilder) Build(tsNode *sitter.Node) *Node {
	return b.buildNode(tsNode)
}

// buildNode converts a tree-sitter node to a scoring AST node
func (b *ASTBuilder) buildNode(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}

	switch tsNode.Type() {
	case "program":
		return b.buildContainer(tsNode, NodeProgram)
	case "function_declaration", "function":
		return b.buildFunction(tsNode, NodeFunction)
	case "function_expression":
		return b.buildFunction(tsNode, NodeFunctionExpression)
	case "generator_function_declaration", "generator_function":
		return b.buildFunction(tsNode, NodeGeneratorFunction)
	case "method_definition":
		return b.buildFunction(tsNode, NodeMethodDefinition)
	case "arrow_function":
		return b.buildArrowFunction(tsNode)
	case "class_declaration", "class":
		return b.buildClass(tsNode)
	case "if_statement":
		return b.buildIfStatement(tsNode)
	case "switch_statement":
		return b.buildSwitchStatement(tsNode)
	case "switch_case":
		return b.buildSwitchCase(tsNode, NodeCaseClause, "case")
	case "switch_default":
		return b.buildSwitchCase(tsNode, NodeDefaultClause, "default")
	case "for_statement":
		return b.buildForStatement(tsNode)
	case "for_in_statement":
		return b.buildForInOf(tsNode)
	case "while_statement":
		return b.buildWhileStatement(tsNode)
	case "do_statement":
		return b.buildDoWhileStatement(tsNode)
	case "try_statement":
		return b.buildTryStatement(tsNode)
	case "catch_clause":
		return b.buildCatchClause(tsNode)
	case "finally_clause":
		return b.buildBody(tsNode, NodeFinallyClause)
	case "return_statement":
		return b.buildJump(tsNode, NodeReturnStatement, "return")
	case "break_statement":
		return b.buildLeaf(tsNode, NodeBreakStatement)
	case "continue_statement":
		return b.buildLeaf(tsNode, NodeContinueStatement)
	case "throw_statement":
		return b.buildJump(tsNode, NodeThrowStatement, "throw")
	case "variable_declaration", "lexical_declaration":
		return b.buildVariableDeclaration(tsNode)
	case "variable_declarator":
		return b.buildVariableDeclarator(tsNode)
	case "expression_statement":
		return b.buildExpressionStatement(tsNode)
	case "call_expression":
		return b.buildCallExpression(tsNode)
	case "member_expression":
		return b.buildMemberExpression(tsNode)
	case "binary_expression":
		return b.buildBinaryExpression(tsNode)
	case "unary_expression":
		return b.buildUnaryExpression(tsNode)
	case "assignment_expression", "augmented_assignment_expression":
		return b.buildAssignmentExpression(tsNode)
	case "conditional_expression", "ternary_expression":
		return b.buildConditionalExpression(tsNode)
	case "parenthesized_expression":
		return b.buildContainer(tsNode, NodeParenthesized)
	case "statement_block":
		return b.buildBody(tsNode, NodeBlockStatement)
	case "labeled_statement":
		return b.buildContainer(tsNode, NodeLabeledStatement)
	case "with_statement":
		return b.buildContainer(tsNode, NodeWithStatement)
	case "identifier", "property_identifier", "shorthand_property_identifier", "type_identifier":
		return b.buildIdentifier(tsNode)
	case "string", "number", "true", "false", "null", "undefined", "regex", "template_string":
		return b.buildLiteral(tsNode)
	case "ERROR":
		return b.buildContainer(tsNode, NodeError)
	default:
		if neutralKinds[tsNode.Type()] {
			return b.buildContainer(tsNode, NodeGroup)
		}
		node := b.buildContainer(tsNode, NodeUnknown)
		node.Raw = tsNode.Type()
		return node
	}
}

// neutralKinds lists grammar constructs with no control-flow significance.
// They are carried as plain containers so their children still get walked.
var neutralKinds = map[string]bool{
	"object":                               true,
	"array":                                true,
	"pair":                                 true,
	"spread_element":                       true,
	"sequence_expression":                  true,
	"new_expression":                       true,
	"await_expression":                     true,
	"yield_expression":                     true,
	"update_expression":                    true,
	"subscript_expression":                 true,
	"template_substitution":                true,
	"object_pattern":                       true,
	"array_pattern":                        true,
	"assignment_pattern":                   true,
	"rest_pattern":                         true,
	"pair_pattern":                         true,
	"shorthand_property_identifier_pattern": true,
	"computed_property_name":               true,
	"class_body":                           true,
	"field_definition":                     true,
	"public_field_definition":              true,
	"import_statement":                     true,
	"export_statement":                     true,
	"empty_statement":                      true,
	"hash_bang_line":                       true,
	"private_property_identifier":          true,
	"this":                                 true,
	"super":                                true,
	"statement_identifier":                 true,
	"string_fragment":                      true,
	"escape_sequence":                      true,
	"meta_property":                        true,
	// TypeScript constructs stripped of scoring meaning
	"type_annotation":        true,
	"type_arguments":         true,
	"type_parameters":        true,
	"as_expression":          true,
	"non_null_expression":    true,
	"satisfies_expression":   true,
	"interface_declaration":  true,
	"type_alias_declaration": true,
	"enum_declaration":       true,
	"ambient_declaration":    true,
	"accessibility_modifier": true,
	"required_parameter":     true,
	"optional_parameter":     true,
}

func (b *ASTBuilder) buildContainer(tsNode *sitter.Node, kind NodeType) *Node {
	node := NewNode(kind)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) && child.IsNamed() {
			node.AddChild(b.buildNode(child))
		}
	}
	return node
}

func (b *ASTBuilder) buildFunction(tsNode *sitter.Node, kind NodeType) *Node {
	node := NewNode(kind)
	node.Location = b.getLocation(tsNode)

	if nameNode := b.getChildByFieldName(tsNode, "name"); nameNode != nil {
		node.Name = nameNode.Content(b.source)
	}
	if paramsNode := b.getChildByFieldName(tsNode, "parameters"); paramsNode != nil {
		node.Params = b.buildParameters(paramsNode)
	}
	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		if bodyAST := b.buildNode(bodyNode); bodyAST != nil {
			node.Body = bodyAST.Body
		}
	}
	return node
}

func (b *ASTBuilder) buildArrowFunction(tsNode *sitter.Node) *Node {
	node := NewNode(NodeArrowFunction)
	node.Location = b.getLocation(tsNode)

	if paramNode := b.getChildByFieldName(tsNode, "parameter"); paramNode != nil {
		// Single parameter without parentheses
		if param := b.buildNode(paramNode); param != nil {
			node.Params = []*Node{param}
		}
	} else if paramsNode := b.getChildByFieldName(tsNode, "parameters"); paramsNode != nil {
		node.Params = b.buildParameters(paramsNode)
	}

	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		if bodyAST := b.buildNode(bodyNode); bodyAST != nil {
			if bodyAST.Type == NodeBlockStatement {
				node.Body = bodyAST.Body
			} else {
				// Expression body
				node.Body = []*Node{bodyAST}
			}
		}
	}
	return node
}

func (b *ASTBuilder) buildClass(tsNode *sitter.Node) *Node {
	node := NewNode(NodeClass)
	node.Location = b.getLocation(tsNode)

	if nameNode := b.getChildByFieldName(tsNode, "name"); nameNode != nil {
		node.Name = nameNode.Content(b.source)
	}
	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		for i := 0; i < int(bodyNode.ChildCount()); i++ {
			child := bodyNode.Child(i)
			if child != nil && !b.isTrivia(child) && child.IsNamed() {
				node.Body = append(node.Body, b.buildNode(child))
			}
		}
	}
	return node
}

func (b *ASTBuilder) buildIfStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeIfStatement)
	node.Location = b.getLocation(tsNode)

	if condNode := b.getChildByFieldName(tsNode, "condition"); condNode != nil {
		node.Test = b.buildNode(condNode)
	}
	if consNode := b.getChildByFieldName(tsNode, "consequence"); consNode != nil {
		node.Consequent = b.buildNode(consNode)
	}
	if altNode := b.getChildByFieldName(tsNode, "alternative"); altNode != nil {
		// tree-sitter wraps the else branch in an else_clause node; unwrap to
		// the underlying statement so an else-if chain is visible as a nested
		// IfStatement in the Alternate field.
		node.Alternate = b.buildElseClause(altNode)
	}
	return node
}

func (b *ASTBuilder) buildElseClause(tsNode *sitter.Node) *Node {
	if tsNode.Type() != "else_clause" {
		return b.buildNode(tsNode)
	}
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) && child.Type() != "else" {
			return b.buildNode(child)
		}
	}
	return nil
}

func (b *ASTBuilder) buildSwitchStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeSwitchStatement)
	node.Location = b.getLocation(tsNode)

	if valueNode := b.getChildByFieldName(tsNode, "value"); valueNode != nil {
		node.Test = b.buildNode(valueNode)
	}
	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		for i := 0; i < int(bodyNode.ChildCount()); i++ {
			child := bodyNode.Child(i)
			if child != nil && !b.isTrivia(child) && child.IsNamed() {
				node.Cases = append(node.Cases, b.buildNode(child))
			}
		}
	}
	return node
}

func (b *ASTBuilder) buildSwitchCase(tsNode *sitter.Node, kind NodeType, keyword string) *Node {
	node := NewNode(kind)
	node.Location = b.getLocation(tsNode)

	if valueNode := b.getChildByFieldName(tsNode, "value"); valueNode != nil {
		node.Test = b.buildNode(valueNode)
	}
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil || b.isTrivia(child) || !child.IsNamed() {
			continue
		}
		if child.Type() == keyword || b.getChildByFieldName(tsNode, "value") == child {
			continue
		}
		node.Body = append(node.Body, b.buildNode(child))
	}
	return node
}

func (b *ASTBuilder) buildForStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeForStatement)
	node.Location = b.getLocation(tsNode)

	if initNode := b.getChildByFieldName(tsNode, "initializer"); initNode != nil {
		node.Init = b.buildNode(initNode)
	}
	if condNode := b.getChildByFieldName(tsNode, "condition"); condNode != nil {
		node.Test = b.buildNode(condNode)
	}
	if incrNode := b.getChildByFieldName(tsNode, "increment"); incrNode != nil {
		node.Update = b.buildNode(incrNode)
	}
	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		node.Body = []*Node{b.buildNode(bodyNode)}
	}
	return node
}

// buildForInOf handles both for-in and for-of; the tree-sitter JS grammar
// expresses them as one node type distinguished by the operator keyword.
func (b *ASTBuilder) buildForInOf(tsNode *sitter.Node) *Node {
	kind := NodeForInStatement
	if opNode := b.getChildByFieldName(tsNode, "operator"); opNode != nil && opNode.Content(b.source) == "of" {
		kind = NodeForOfStatement
	}
	node := NewNode(kind)
	node.Location = b.getLocation(tsNode)

	if leftNode := b.getChildByFieldName(tsNode, "left"); leftNode != nil {
		node.Init = b.buildNode(leftNode)
	}
	if rightNode := b.getChildByFieldName(tsNode, "right"); rightNode != nil {
		node.Test = b.buildNode(rightNode)
	}
	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		node.Body = []*Node{b.buildNode(bodyNode)}
	}
	return node
}

func (b *ASTBuilder) buildWhileStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeWhileStatement)
	node.Location = b.getLocation(tsNode)

	if condNode := b.getChildByFieldName(tsNode, "condition"); condNode != nil {
		node.Test = b.buildNode(condNode)
	}
	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		node.Body = []*Node{b.buildNode(bodyNode)}
	}
	return node
}

func (b *ASTBuilder) buildDoWhileStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeDoWhileStatement)
	node.Location = b.getLocation(tsNode)

	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		node.Body = []*Node{b.buildNode(bodyNode)}
	}
	if condNode := b.getChildByFieldName(tsNode, "condition"); condNode != nil {
		node.Test = b.buildNode(condNode)
	}
	return node
}

func (b *ASTBuilder) buildTryStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeTryStatement)
	node.Location = b.getLocation(tsNode)

	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		if bodyAST := b.buildNode(bodyNode); bodyAST != nil {
			node.Body = bodyAST.Body
		}
	}
	if handlerNode := b.getChildByFieldName(tsNode, "handler"); handlerNode != nil {
		node.Handler = b.buildNode(handlerNode)
	}
	if finalizerNode := b.getChildByFieldName(tsNode, "finalizer"); finalizerNode != nil {
		node.Finalizer = b.buildNode(finalizerNode)
	}
	return node
}

func (b *ASTBuilder) buildCatchClause(tsNode *sitter.Node) *Node {
	node := NewNode(NodeCatchClause)
	node.Location = b.getLocation(tsNode)

	if paramNode := b.getChildByFieldName(tsNode, "parameter"); paramNode != nil {
		node.Params = []*Node{b.buildNode(paramNode)}
	}
	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		if bodyAST := b.buildNode(bodyNode); bodyAST != nil {
			node.Body = bodyAST.Body
		}
	}
	return node
}

// buildBody collects the named children of a block-like node into Body.
func (b *ASTBuilder) buildBody(tsNode *sitter.Node, kind NodeType) *Node {
	node := NewNode(kind)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) && child.IsNamed() {
			node.Body = append(node.Body, b.buildNode(child))
		}
	}
	return node
}

func (b *ASTBuilder) buildJump(tsNode *sitter.Node, kind NodeType, keyword string) *Node {
	node := NewNode(kind)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) && child.Type() != keyword && child.IsNamed() {
			node.Argument = b.buildNode(child)
			break
		}
	}
	return node
}

func (b *ASTBuilder) buildLeaf(tsNode *sitter.Node, kind NodeType) *Node {
	node := NewNode(kind)
	node.Location = b.getLocation(tsNode)
	return node
}

func (b *ASTBuilder) buildVariableDeclaration(tsNode *sitter.Node) *Node {
	node := NewNode(NodeVariableDeclaration)
	node.Location = b.getLocation(tsNode)
	node.Kind = "var"

	if tsNode.Type() == "lexical_declaration" && tsNode.ChildCount() > 0 {
		if firstChild := tsNode.Child(0); firstChild != nil {
			if kind := firstChild.Content(b.source); kind == "let" || kind == "const" {
				node.Kind = kind
			}
		}
	}

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.Type() == "variable_declarator" {
			node.Declarations = append(node.Declarations, b.buildNode(child))
		}
	}
	return node
}

// buildVariableDeclarator names function expressions and arrow functions bound
// to the declared variable, so `const f = () => f(n-1)` has a recursion
// identity.
func (b *ASTBuilder) buildVariableDeclarator(tsNode *sitter.Node) *Node {
	node := NewNode(NodeVariableDeclarator)
	node.Location = b.getLocation(tsNode)

	if nameNode := b.getChildByFieldName(tsNode, "name"); nameNode != nil {
		node.Name = nameNode.Content(b.source)
	}
	if valueNode := b.getChildByFieldName(tsNode, "value"); valueNode != nil {
		value := b.buildNode(valueNode)
		if value != nil && value.IsFunction() && value.Name == "" {
			value.Name = node.Name
		}
		node.AddChild(value)
	}
	return node
}

func (b *ASTBuilder) buildExpressionStatement(tsNode *sitter.Node) *Node {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) && child.Type() != ";" {
			return b.buildNode(child)
		}
	}

	node := NewNode(NodeExpressionStatement)
	node.Location = b.getLocation(tsNode)
	return node
}

func (b *ASTBuilder) buildCallExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeCallExpression)
	node.Location = b.getLocation(tsNode)

	if funcNode := b.getChildByFieldName(tsNode, "function"); funcNode != nil {
		node.Callee = b.buildNode(funcNode)
	}
	if argsNode := b.getChildByFieldName(tsNode, "arguments"); argsNode != nil {
		for i := 0; i < int(argsNode.ChildCount()); i++ {
			child := argsNode.Child(i)
			if child != nil && !b.isTrivia(child) && child.IsNamed() {
				node.Arguments = append(node.Arguments, b.buildNode(child))
			}
		}
	}
	return node
}

func (b *ASTBuilder) buildMemberExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeMemberExpression)
	node.Location = b.getLocation(tsNode)

	if objNode := b.getChildByFieldName(tsNode, "object"); objNode != nil {
		node.Object = b.buildNode(objNode)
	}
	if propNode := b.getChildByFieldName(tsNode, "property"); propNode != nil {
		node.Property = b.buildNode(propNode)
	}
	return node
}

func (b *ASTBuilder) buildBinaryExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeBinaryExpression)
	node.Location = b.getLocation(tsNode)

	if leftNode := b.getChildByFieldName(tsNode, "left"); leftNode != nil {
		node.Left = b.buildNode(leftNode)
	}
	if opNode := b.getChildByFieldName(tsNode, "operator"); opNode != nil {
		node.Operator = opNode.Content(b.source)
	}
	if rightNode := b.getChildByFieldName(tsNode, "right"); rightNode != nil {
		node.Right = b.buildNode(rightNode)
	}

	// &&, || and ?? participate in boolean-chain scoring
	if node.Operator == "&&" || node.Operator == "||" || node.Operator == "??" {
		node.Type = NodeLogicalExpression
	}
	return node
}

func (b *ASTBuilder) buildUnaryExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeUnaryExpression)
	node.Location = b.getLocation(tsNode)

	if opNode := b.getChildByFieldName(tsNode, "operator"); opNode != nil {
		node.Operator = opNode.Content(b.source)
	}
	if argNode := b.getChildByFieldName(tsNode, "argument"); argNode != nil {
		node.Argument = b.buildNode(argNode)
	}
	return node
}

func (b *ASTBuilder) buildAssignmentExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeAssignmentExpression)
	node.Location = b.getLocation(tsNode)

	if leftNode := b.getChildByFieldName(tsNode, "left"); leftNode != nil {
		node.Left = b.buildNode(leftNode)
	}
	if opNode := b.getChildByFieldName(tsNode, "operator"); opNode != nil {
		node.Operator = opNode.Content(b.source)
	}
	if rightNode := b.getChildByFieldName(tsNode, "right"); rightNode != nil {
		node.Right = b.buildNode(rightNode)
		// Name a function assigned to a plain identifier for recursion checks
		if node.Right.IsFunction() && node.Right.Name == "" &&
			node.Left != nil && node.Left.Type == NodeIdentifier {
			node.Right.Name = node.Left.Name
		}
	}
	return node
}

func (b *ASTBuilder) buildConditionalExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeConditionalExpression)
	node.Location = b.getLocation(tsNode)

	if condNode := b.getChildByFieldName(tsNode, "condition"); condNode != nil {
		node.Test = b.buildNode(condNode)
	}
	if consNode := b.getChildByFieldName(tsNode, "consequence"); consNode != nil {
		node.Consequent = b.buildNode(consNode)
	}
	if altNode := b.getChildByFieldName(tsNode, "alternative"); altNode != nil {
		node.Alternate = b.buildNode(altNode)
	}
	return node
}

func (b *ASTBuilder) buildIdentifier(tsNode *sitter.Node) *Node {
	node := NewNode(NodeIdentifier)
	node.Location = b.getLocation(tsNode)
	node.Name = tsNode.Content(b.source)
	return node
}

func (b *ASTBuilder) buildLiteral(tsNode *sitter.Node) *Node {
	node := NewNode(NodeLiteral)
	node.Location = b.getLocation(tsNode)
	node.Raw = tsNode.Content(b.source)
	return node
}

func (b *ASTBuilder) buildParameters(tsNode *sitter.Node) []*Node {
	var params []*Node
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) && child.IsNamed() {
			params = append(params, b.buildNode(child))
		}
	}
	return params
}

// Helper methods

func (b *ASTBuilder) getLocation(tsNode *sitter.Node) Location {
	return Location{
		File:      b.filename,
		StartLine: int(tsNode.StartPoint().Row) + 1,
		StartCol:  int(tsNode.StartPoint().Column),
		EndLine:   int(tsNode.EndPoint().Row) + 1,
		EndCol:    int(tsNode.EndPoint().Column),
	}
}

func (b *ASTBuilder) getChildByFieldName(tsNode *sitter.Node, fieldName string) *sitter.Node {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && tsNode.FieldNameForChild(i) == fieldName {
			return child
		}
	}
	return nil
}

func (b *ASTBuilder) isTrivia(tsNode *sitter.Node) bool {
	nodeType := tsNode.Type()
	return nodeType == "comment" ||
		nodeType == "line_comment" ||
		nodeType == "block_comment" ||
		nodeType == ""
}
