package outline

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// Parser turns Python source text into a FileOutline.
//
// Parser is safe for concurrent use: every Parse call creates its own
// tree-sitter parser instance and only reads the shared language handle.
type Parser struct {
	language *sitter.Language
}

// NewParser creates a Parser for the Python grammar.
func NewParser() *Parser {
	return &Parser{
		language: sitter.NewLanguage(python.Language()),
	}
}

// Parse builds the structural outline of one file. The path is used only for
// error reporting. Parse is total: any input yields either an outline or a
// *ParseError, never a panic. An empty file is a valid, empty outline.
func (p *Parser) Parse(path string, source []byte) (*FileOutline, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(p.language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, &ParseError{Path: path, Cause: "no syntax tree produced"}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, &ParseError{Path: path, Cause: syntaxErrorCause(root)}
	}

	outline := &FileOutline{}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		if n := p.topLevelNode(root.NamedChild(uint(i)), source); n != nil {
			outline.Nodes = append(outline.Nodes, n...)
		}
	}
	return outline, nil
}

// syntaxErrorCause locates the first error or missing node and names its line.
func syntaxErrorCause(root *sitter.Node) string {
	var cause string
	walkTree(root, func(n *sitter.Node) bool {
		if cause != "" {
			return false
		}
		if n.IsError() || n.IsMissing() {
			cause = fmt.Sprintf("syntax error at line %d", int(n.StartPosition().Row)+1)
			return false
		}
		return true
	})
	if cause == "" {
		cause = "syntax error"
	}
	return cause
}

// topLevelNode converts one module-scope statement into outline nodes.
// Statement kinds outside the outline vocabulary are skipped; a simple
// assignment may expand to several Var nodes (unpacking targets).
func (p *Parser) topLevelNode(stmt *sitter.Node, source []byte) []Node {
	switch stmt.Kind() {
	case "import_statement":
		return []Node{Import{Modules: p.importedModules(stmt, source)}}
	case "import_from_statement":
		return []Node{p.fromImport(stmt, source)}
	case "class_definition":
		return []Node{p.class(stmt, source)}
	case "function_definition":
		return []Node{p.function(stmt, source)}
	case "decorated_definition":
		// A decorator does not change the classification of what it wraps.
		if def := stmt.ChildByFieldName("definition"); def != nil {
			return p.topLevelNode(def, source)
		}
	case "expression_statement":
		if assign := assignmentOf(stmt); assign != nil {
			var nodes []Node
			for _, name := range assignmentTargets(assign, source) {
				nodes = append(nodes, Var{Name: name})
			}
			return nodes
		}
	}
	return nil
}

// importedModules collects the module names of a plain import statement, in
// source order. "import numpy as np" yields the module name, not the alias.
func (p *Parser) importedModules(stmt *sitter.Node, source []byte) []string {
	var modules []string
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		child := stmt.NamedChild(uint(i))
		switch child.Kind() {
		case "dotted_name":
			modules = append(modules, nodeText(child, source))
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				modules = append(modules, nodeText(name, source))
			}
		}
	}
	return modules
}

// fromImport extracts the module and imported names of a from-import
// statement. Names keep source order; the renderer sorts them.
func (p *Parser) fromImport(stmt *sitter.Node, source []byte) FromImport {
	imp := FromImport{}

	moduleNode := stmt.ChildByFieldName("module_name")
	if moduleNode != nil {
		imp.Module = nodeText(moduleNode, source)
	}

	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		child := stmt.NamedChild(uint(i))
		if moduleNode != nil && child.StartByte() == moduleNode.StartByte() {
			continue
		}
		switch child.Kind() {
		case "dotted_name", "identifier":
			imp.Names = append(imp.Names, nodeText(child, source))
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				imp.Names = append(imp.Names, nodeText(name, source))
			}
		case "wildcard_import":
			imp.Names = append(imp.Names, "*")
		}
	}
	return imp
}

// class extracts a class definition and walks exactly one level into its
// body: methods and simple assignments become members. Everything else,
// nested classes included, is left out of the outline.
func (p *Parser) class(node *sitter.Node, source []byte) Class {
	cls := Class{Name: nodeText(node.ChildByFieldName("name"), source)}

	if superclasses := node.ChildByFieldName("superclasses"); superclasses != nil {
		for i := 0; i < int(superclasses.NamedChildCount()); i++ {
			cls.Bases = append(cls.Bases, nodeText(superclasses.NamedChild(uint(i)), source))
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return cls
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(uint(i))
		if stmt.Kind() == "decorated_definition" {
			if def := stmt.ChildByFieldName("definition"); def != nil {
				stmt = def
			}
		}
		switch stmt.Kind() {
		case "function_definition":
			cls.Members = append(cls.Members, p.function(stmt, source))
		case "expression_statement":
			if assign := assignmentOf(stmt); assign != nil {
				for _, name := range assignmentTargets(assign, source) {
					cls.Members = append(cls.Members, Var{Name: name})
				}
			}
		}
	}
	return cls
}

// function extracts a function definition. Locals come from walking one
// level into the body; nested definitions are not expanded further.
func (p *Parser) function(node *sitter.Node, source []byte) Function {
	fn := Function{
		Name:   nodeText(node.ChildByFieldName("name"), source),
		Params: parameterNames(node.ChildByFieldName("parameters"), source),
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return fn
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(uint(i))
		if stmt.Kind() != "expression_statement" {
			continue
		}
		if assign := assignmentOf(stmt); assign != nil {
			for _, name := range assignmentTargets(assign, source) {
				fn.Locals = append(fn.Locals, Var{Name: name})
			}
		}
	}
	return fn
}

// parameterNames lists parameter names in declared order, stripped of
// annotations, defaults, and splat markers. Separator markers ("/", "*")
// contribute nothing.
func parameterNames(params *sitter.Node, source []byte) []string {
	if params == nil {
		return nil
	}
	var names []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(uint(i))
		switch child.Kind() {
		case "identifier":
			names = append(names, nodeText(child, source))
		case "default_parameter", "typed_default_parameter":
			if name := child.ChildByFieldName("name"); name != nil {
				names = append(names, nodeText(name, source))
			}
		case "typed_parameter":
			if child.NamedChildCount() > 0 {
				if name := bareParameterName(child.NamedChild(0), source); name != "" {
					names = append(names, name)
				}
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			if name := bareParameterName(child, source); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// bareParameterName resolves an identifier, possibly wrapped in a splat
// pattern, to its name.
func bareParameterName(node *sitter.Node, source []byte) string {
	switch node.Kind() {
	case "identifier":
		return nodeText(node, source)
	case "list_splat_pattern", "dictionary_splat_pattern":
		if node.NamedChildCount() > 0 && node.NamedChild(0).Kind() == "identifier" {
			return nodeText(node.NamedChild(0), source)
		}
	}
	return ""
}

// assignmentOf returns the assignment inside an expression statement, or nil.
// Only assignments with a right-hand side count as bindings: augmented
// assignment and bare annotations ("x: int") are not outline material.
func assignmentOf(stmt *sitter.Node) *sitter.Node {
	if stmt.NamedChildCount() == 0 {
		return nil
	}
	expr := stmt.NamedChild(0)
	if expr.Kind() != "assignment" {
		return nil
	}
	if expr.ChildByFieldName("right") == nil {
		return nil
	}
	return expr
}

// assignmentTargets collects the assigned names of an assignment, left to
// right. Unpacking patterns yield one name per element; attribute and
// subscript targets are not simple bindings and are skipped.
func assignmentTargets(assign *sitter.Node, source []byte) []string {
	left := assign.ChildByFieldName("left")
	if left == nil {
		return nil
	}
	return targetNames(left, source)
}

func targetNames(node *sitter.Node, source []byte) []string {
	switch node.Kind() {
	case "identifier":
		return []string{nodeText(node, source)}
	case "pattern_list", "tuple_pattern", "list_pattern":
		var names []string
		for i := 0; i < int(node.NamedChildCount()); i++ {
			names = append(names, targetNames(node.NamedChild(uint(i)), source)...)
		}
		return names
	}
	return nil
}

// nodeText extracts the source text a node spans.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// walkTree visits every node depth-first until the visitor returns false for
// a subtree.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visitor(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visitor)
	}
}
