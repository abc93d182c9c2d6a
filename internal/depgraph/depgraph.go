// Package depgraph derives the table dependency graph from catalog
// constraints. The graph is a diagnostic byproduct of an export, rendered
// as Graphviz DOT for external tooling.
package depgraph

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/esmtools/tes3db/internal/catalog"
)

// Edge is one directed dependency between tables.
type Edge struct {
	From string
	To   string
}

// Graph is a deduplicated table dependency graph with deterministic
// traversal order.
type Graph struct {
	nodes map[string]struct{}
	edges map[Edge]struct{}
}

// Build walks the catalog's typed constraints:
//
//   - an entity reference draws entity -> target
//   - a join table's value reference draws join -> target
//   - a parent link draws parent -> join: member rows belong to the
//     parent, so the arrow follows ownership, not the foreign key
//
// The uniform provenance references are omitted; every table carries one,
// so they add no information to the picture.
func Build(cat *catalog.Catalog) *Graph {
	g := &Graph{
		nodes: make(map[string]struct{}),
		edges: make(map[Edge]struct{}),
	}

	for _, tag := range cat.Tags() {
		typ, _ := cat.Lookup(tag)
		entity := typ.Schema()

		g.addNode(entity.Name)
		for _, fk := range entity.Refs {
			g.addEdge(entity.Name, fk.Table)
		}

		for _, join := range typ.JoinSchemas() {
			g.addNode(join.Name)
			for _, fk := range join.Refs {
				g.addEdge(join.Name, fk.Table)
			}
			for _, fk := range join.Parents {
				g.addEdge(fk.Table, join.Name)
			}
		}
	}

	return g
}

func (g *Graph) addNode(name string) {
	g.nodes[name] = struct{}{}
}

func (g *Graph) addEdge(from, to string) {
	g.addNode(from)
	g.addNode(to)
	g.edges[Edge{From: from, To: to}] = struct{}{}
}

// Nodes returns all table names, sorted. Isolated tables are included.
func (g *Graph) Nodes() []string {
	names := make([]string, 0, len(g.nodes))
	for n := range g.nodes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Edges returns all dependencies, sorted by source then target.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, len(g.edges))
	for e := range g.edges {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}

// WriteDOT renders the graph in Graphviz DOT form.
func (g *Graph) WriteDOT(w io.Writer) error {
	var b strings.Builder
	b.WriteString("digraph dependencies {\n")
	b.WriteString("    rankdir=LR;\n\n")
	for _, n := range g.Nodes() {
		fmt.Fprintf(&b, "    %q;\n", n)
	}
	b.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "    %q -> %q;\n", e.From, e.To)
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}
