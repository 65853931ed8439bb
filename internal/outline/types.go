// Package outline extracts a structural outline from Python source files
// and renders it as a flat text report. The outline covers imports,
// top-level classes with their direct members, top-level functions with
// their local variable bindings, and module-level variable bindings.
// It goes exactly one nesting level deep, never a full tree mirror.
package outline

import "fmt"

// Node is one structural element of a file outline. The concrete types are
// Import, FromImport, Class, Function, and Var; renderers visit them with an
// exhaustive type switch.
type Node interface {
	node()
}

// Import is a plain import statement. A single statement importing several
// modules ("import os, sys") keeps all modules on one node and renders as
// one comma-joined line.
type Import struct {
	Modules []string
}

// FromImport is a from-import statement. Names keep source order here;
// rendering deduplicates and sorts them alphabetically. Two from-imports of
// the same module on distinct source lines stay distinct nodes.
type FromImport struct {
	Module string
	Names  []string
}

// Class is a top-level class definition. Bases are kept verbatim as written.
// Members holds the Function and Var nodes found directly in the class body;
// nested classes are omitted.
type Class struct {
	Name    string
	Bases   []string
	Members []Node
}

// Function is a function definition. Params are parameter names only, in
// declared order. Locals holds one Var per simple assignment directly in the
// function body, in source order, duplicates preserved.
type Function struct {
	Name   string
	Params []string
	Locals []Var
}

// Var is a single assigned name. Unpacking assignments emit one Var per
// target name, left to right.
type Var struct {
	Name string
}

func (Import) node()     {}
func (FromImport) node() {}
func (Class) node()      {}
func (Function) node()   {}
func (Var) node()        {}

// FileOutline is the ordered structural summary of one source file. Node
// order matches source appearance order.
type FileOutline struct {
	Nodes []Node
}

// ParseError reports that a file's text does not form a valid syntax tree.
// It is recorded as a one-line stub in the report and never aborts the run.
type ParseError struct {
	Path  string
	Cause string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Path, e.Cause)
}

// SourceFile pairs a root-relative path with the file's text.
type SourceFile struct {
	Path string
	Text []byte
}

// FileResult is one file's contribution to a report: either an outline or
// the error that prevented one.
type FileResult struct {
	Path    string
	Outline *FileOutline
	Err     error
}
