package outline

import (
	"fmt"
	"sort"
	"strings"
)

// Render serializes file results into the final report text. Entries are
// rendered in the order supplied; the caller owns path ordering. Render is a
// pure function: identical input always yields byte-identical output.
//
// Each file contributes a "- path" header followed by one line per node,
// indented one tab per nesting level. File sections are separated by a blank
// line. A parse failure contributes a single stub line.
func Render(results []FileResult) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if r.Err != nil {
			fmt.Fprintf(&b, "- %s (unparsable: %s)", r.Path, errorCause(r.Err))
			continue
		}
		b.WriteString("- ")
		b.WriteString(r.Path)
		for _, n := range r.Outline.Nodes {
			renderNode(&b, n, 0)
		}
	}
	return b.String()
}

// errorCause strips the path prefix a *ParseError carries, since the stub
// line already names the file.
func errorCause(err error) string {
	if pe, ok := err.(*ParseError); ok {
		return pe.Cause
	}
	return err.Error()
}

func renderNode(b *strings.Builder, n Node, depth int) {
	b.WriteString("\n")
	b.WriteString(strings.Repeat("\t", depth))

	switch n := n.(type) {
	case Import:
		b.WriteString("imports ")
		b.WriteString(strings.Join(n.Modules, ", "))
	case FromImport:
		fmt.Fprintf(b, "from %s imports %s", n.Module, strings.Join(sortedNames(n.Names), ", "))
	case Class:
		fmt.Fprintf(b, "class %s(%s)", n.Name, strings.Join(n.Bases, ", "))
		for _, m := range n.Members {
			renderNode(b, m, depth+1)
		}
	case Function:
		fmt.Fprintf(b, "func %s(%s)", n.Name, strings.Join(n.Params, ", "))
		for _, local := range n.Locals {
			renderNode(b, local, depth+1)
		}
	case Var:
		b.WriteString("var ")
		b.WriteString(n.Name)
	}
}

// sortedNames returns the names of a from-import deduplicated and
// alphabetically sorted, leaving the node's source-order slice untouched.
func sortedNames(names []string) []string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)

	deduped := sorted[:0]
	for i, name := range sorted {
		if i == 0 || name != sorted[i-1] {
			deduped = append(deduped, name)
		}
	}
	return deduped
}
