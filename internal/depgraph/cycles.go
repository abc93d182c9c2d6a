package depgraph

import "sort"

// Cycles returns groups of tables that reference each other in a loop:
// strongly connected components with more than one member, plus any table
// referencing itself. Members of a cyclic group cannot be loaded in a
// constraint-satisfying order, which is why staging runs with enforcement
// off and integrity is checked after the fact.
//
// Each group is sorted, and groups are ordered by their first member.
func (g *Graph) Cycles() [][]string {
	adj := make(map[string][]string, len(g.nodes))
	for _, e := range g.Edges() {
		adj[e.From] = append(adj[e.From], e.To)
	}

	t := &tarjan{
		adj:     adj,
		indices: make(map[string]int),
		lowlink: make(map[string]int),
		onStack: make(map[string]bool),
	}
	for _, n := range g.Nodes() {
		if _, seen := t.indices[n]; !seen {
			t.connect(n)
		}
	}

	var cycles [][]string
	for _, scc := range t.sccs {
		if len(scc) == 1 && !g.hasEdge(scc[0], scc[0]) {
			continue
		}
		sort.Strings(scc)
		cycles = append(cycles, scc)
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles
}

func (g *Graph) hasEdge(from, to string) bool {
	_, ok := g.edges[Edge{From: from, To: to}]
	return ok
}

// tarjan finds strongly connected components. The caller fixes the node
// and neighbor iteration order, so the output is deterministic.
type tarjan struct {
	adj     map[string][]string
	index   int
	stack   []string
	indices map[string]int
	lowlink map[string]int
	onStack map[string]bool
	sccs    [][]string
}

func (t *tarjan) connect(v string) {
	t.indices[v] = t.index
	t.lowlink[v] = t.index
	t.index++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.adj[v] {
		if _, seen := t.indices[w]; !seen {
			t.connect(w)
			t.lowlink[v] = min(t.lowlink[v], t.lowlink[w])
		} else if t.onStack[w] {
			t.lowlink[v] = min(t.lowlink[v], t.indices[w])
		}
	}

	if t.lowlink[v] == t.indices[v] {
		var scc []string
		for {
			w := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		t.sccs = append(t.sccs, scc)
	}
}
