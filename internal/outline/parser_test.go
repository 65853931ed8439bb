package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Parser:
// - Plain imports, including multi-module statements on one line
// - From-imports with plain, aliased, and wildcard names
// - Repeated from-imports of the same module stay distinct nodes
// - Classes: bases kept verbatim, members one level deep only
// - Functions: parameter names stripped of annotations/defaults/splats
// - Locals: source order, duplicates preserved, nested blocks not entered
// - Module-level assignments, unpacking targets, annotated assignments
// - Decorators do not change classification
// - Statement kinds outside the outline vocabulary are skipped
// - Empty input is a valid empty outline
// - Malformed input yields *ParseError, never a panic

func TestParser_PlainImports(t *testing.T) {
	t.Parallel()

	parser := NewParser()
	fo, err := parser.Parse("a.py", []byte("import os\nimport os, sys\nimport numpy as np\n"))
	require.NoError(t, err)

	require.Len(t, fo.Nodes, 3)
	assert.Equal(t, Import{Modules: []string{"os"}}, fo.Nodes[0])
	assert.Equal(t, Import{Modules: []string{"os", "sys"}}, fo.Nodes[1])
	assert.Equal(t, Import{Modules: []string{"numpy"}}, fo.Nodes[2])
}

func TestParser_FromImports(t *testing.T) {
	t.Parallel()

	src := "from pathlib import Path\n" +
		"from typing import TypedDict, Dict, Optional\n" +
		"from collections import OrderedDict as OD\n" +
		"from os.path import *\n" +
		"from . import helpers\n"

	parser := NewParser()
	fo, err := parser.Parse("a.py", []byte(src))
	require.NoError(t, err)

	require.Len(t, fo.Nodes, 5)
	assert.Equal(t, FromImport{Module: "pathlib", Names: []string{"Path"}}, fo.Nodes[0])
	// Names keep source order in the node; sorting happens at render time.
	assert.Equal(t, FromImport{Module: "typing", Names: []string{"TypedDict", "Dict", "Optional"}}, fo.Nodes[1])
	assert.Equal(t, FromImport{Module: "collections", Names: []string{"OrderedDict"}}, fo.Nodes[2])
	assert.Equal(t, FromImport{Module: "os.path", Names: []string{"*"}}, fo.Nodes[3])
	assert.Equal(t, FromImport{Module: ".", Names: []string{"helpers"}}, fo.Nodes[4])
}

func TestParser_RepeatedFromImportsStayDistinct(t *testing.T) {
	t.Parallel()

	src := "from typing import Dict\nfrom typing import Optional\n"

	parser := NewParser()
	fo, err := parser.Parse("a.py", []byte(src))
	require.NoError(t, err)

	require.Len(t, fo.Nodes, 2)
	assert.Equal(t, FromImport{Module: "typing", Names: []string{"Dict"}}, fo.Nodes[0])
	assert.Equal(t, FromImport{Module: "typing", Names: []string{"Optional"}}, fo.Nodes[1])
}

func TestParser_ClassMembers(t *testing.T) {
	t.Parallel()

	src := `class Report(Base, abc.ABC):
    kind = "text"

    def __init__(self, root):
        self.root = root
        path = root

    class Inner:
        def hidden(self):
            pass
`

	parser := NewParser()
	fo, err := parser.Parse("a.py", []byte(src))
	require.NoError(t, err)

	require.Len(t, fo.Nodes, 1)
	cls, ok := fo.Nodes[0].(Class)
	require.True(t, ok, "expected a Class node")

	assert.Equal(t, "Report", cls.Name)
	// Bases are kept verbatim, dotted names included.
	assert.Equal(t, []string{"Base", "abc.ABC"}, cls.Bases)

	// One level deep: the class variable and the method, but nothing from
	// the nested class.
	require.Len(t, cls.Members, 2)
	assert.Equal(t, Var{Name: "kind"}, cls.Members[0])

	method, ok := cls.Members[1].(Function)
	require.True(t, ok, "expected a Function member")
	assert.Equal(t, "__init__", method.Name)
	assert.Equal(t, []string{"self", "root"}, method.Params)
	// self.root = root assigns an attribute, not a simple name.
	assert.Equal(t, []Var{{Name: "path"}}, method.Locals)
}

func TestParser_ClassWithoutBases(t *testing.T) {
	t.Parallel()

	parser := NewParser()
	fo, err := parser.Parse("a.py", []byte("class Foo:\n    pass\n"))
	require.NoError(t, err)

	require.Len(t, fo.Nodes, 1)
	cls, ok := fo.Nodes[0].(Class)
	require.True(t, ok)
	assert.Equal(t, "Foo", cls.Name)
	assert.Empty(t, cls.Bases)
	assert.Empty(t, cls.Members)
}

func TestParser_FunctionParams(t *testing.T) {
	t.Parallel()

	src := "def handler(request, count: int, retries=3, limit: int = 10, *args, **kwargs):\n    pass\n"

	parser := NewParser()
	fo, err := parser.Parse("a.py", []byte(src))
	require.NoError(t, err)

	require.Len(t, fo.Nodes, 1)
	fn, ok := fo.Nodes[0].(Function)
	require.True(t, ok)
	assert.Equal(t, "handler", fn.Name)
	assert.Equal(t, []string{"request", "count", "retries", "limit", "args", "kwargs"}, fn.Params)
	assert.Empty(t, fn.Locals)
}

func TestParser_FunctionLocals(t *testing.T) {
	t.Parallel()

	src := `def process(items):
    filename = default()
    filename = override()
    total: int = 0
    head, tail = split(items)
    if items:
        hidden = 1
    def nested():
        invisible = 2
    return filename
`

	parser := NewParser()
	fo, err := parser.Parse("a.py", []byte(src))
	require.NoError(t, err)

	require.Len(t, fo.Nodes, 1)
	fn, ok := fo.Nodes[0].(Function)
	require.True(t, ok)

	// Duplicates preserved, unpacking expanded left to right, nested blocks
	// and nested functions not entered.
	assert.Equal(t, []Var{
		{Name: "filename"},
		{Name: "filename"},
		{Name: "total"},
		{Name: "head"},
		{Name: "tail"},
	}, fn.Locals)
}

func TestParser_ModuleVariables(t *testing.T) {
	t.Parallel()

	src := `MAX_RETRIES = 3
a, b = 1, 2
config.debug = True
count += 1
name: str
"""module docstring leftovers"""
`

	parser := NewParser()
	fo, err := parser.Parse("a.py", []byte(src))
	require.NoError(t, err)

	// Attribute targets, augmented assignment, bare annotations, and
	// expression statements contribute nothing.
	assert.Equal(t, []Node{
		Var{Name: "MAX_RETRIES"},
		Var{Name: "a"},
		Var{Name: "b"},
	}, fo.Nodes)
}

func TestParser_DecoratedDefinitions(t *testing.T) {
	t.Parallel()

	src := `@dataclass
class Point:
    x = 0

@lru_cache(maxsize=None)
def cached(key):
    value = lookup(key)
`

	parser := NewParser()
	fo, err := parser.Parse("a.py", []byte(src))
	require.NoError(t, err)

	require.Len(t, fo.Nodes, 2)
	cls, ok := fo.Nodes[0].(Class)
	require.True(t, ok)
	assert.Equal(t, "Point", cls.Name)

	fn, ok := fo.Nodes[1].(Function)
	require.True(t, ok)
	assert.Equal(t, "cached", fn.Name)
	assert.Equal(t, []Var{{Name: "value"}}, fn.Locals)
}

func TestParser_DecoratedMethod(t *testing.T) {
	t.Parallel()

	src := `class Service:
    @property
    def name(self):
        cached = self._name
        return cached
`

	parser := NewParser()
	fo, err := parser.Parse("a.py", []byte(src))
	require.NoError(t, err)

	require.Len(t, fo.Nodes, 1)
	cls := fo.Nodes[0].(Class)
	require.Len(t, cls.Members, 1)

	method, ok := cls.Members[0].(Function)
	require.True(t, ok)
	assert.Equal(t, "name", method.Name)
	assert.Equal(t, []Var{{Name: "cached"}}, method.Locals)
}

func TestParser_StatementOrderPreserved(t *testing.T) {
	t.Parallel()

	src := `import os

class A:
    pass

def f():
    x = 1

LAST = True
`

	parser := NewParser()
	fo, err := parser.Parse("a.py", []byte(src))
	require.NoError(t, err)

	require.Len(t, fo.Nodes, 4)
	assert.IsType(t, Import{}, fo.Nodes[0])
	assert.IsType(t, Class{}, fo.Nodes[1])
	assert.IsType(t, Function{}, fo.Nodes[2])
	assert.Equal(t, Var{Name: "LAST"}, fo.Nodes[3])

	fn := fo.Nodes[2].(Function)
	assert.Equal(t, []Var{{Name: "x"}}, fn.Locals)
}

func TestParser_EmptyFile(t *testing.T) {
	t.Parallel()

	parser := NewParser()
	fo, err := parser.Parse("empty.py", nil)
	require.NoError(t, err)
	require.NotNil(t, fo)
	assert.Empty(t, fo.Nodes)
}

func TestParser_MalformedFile(t *testing.T) {
	t.Parallel()

	parser := NewParser()
	fo, err := parser.Parse("bad.py", []byte("def broken(:\n"))
	require.Error(t, err)
	assert.Nil(t, fo)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "bad.py", perr.Path)
	assert.Contains(t, perr.Cause, "syntax error")
}

func TestParser_IgnoresUnrelatedStatements(t *testing.T) {
	t.Parallel()

	src := `"""Docstring."""
if __name__ == "__main__":
    main()
for i in range(3):
    print(i)
`

	parser := NewParser()
	fo, err := parser.Parse("a.py", []byte(src))
	require.NoError(t, err)
	assert.Empty(t, fo.Nodes)
}
