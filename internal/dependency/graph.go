package dependency

import (
	"sort"

	"stagehand/internal/definition"
)

// Graph answers dependency queries over a definition set. Edges pointing at
// names outside the set are kept on the node but never resolved.
//
// Graph is read-only after construction and safe for concurrent reads.
type Graph struct {
	order []string
	nodes map[string]definition.Definition
}

// NewGraph builds a graph from set. Later duplicates replace earlier ones;
// callers validate the set first when that matters.
func NewGraph(set definition.Set) *Graph {
	g := &Graph{nodes: make(map[string]definition.Definition, len(set))}
	for _, d := range set {
		if _, exists := g.nodes[d.Name]; !exists {
			g.order = append(g.order, d.Name)
		}
		g.nodes[d.Name] = d.Clone()
	}
	return g
}

// Has reports whether name is part of the graph.
func (g *Graph) Has(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Get returns the definition stored for name.
func (g *Graph) Get(name string) (definition.Definition, bool) {
	d, ok := g.nodes[name]
	if !ok {
		return definition.Definition{}, false
	}
	return d.Clone(), true
}

// Dependencies returns the declared dependencies of name.
func (g *Graph) Dependencies(name string) []string {
	if n, ok := g.nodes[name]; ok {
		depsCopy := make([]string, len(n.Dependencies))
		copy(depsCopy, n.Dependencies)
		return depsCopy
	}
	return nil
}

// External returns the dependency names of name that are not in the graph.
func (g *Graph) External(name string) []string {
	var res []string
	for _, dep := range g.nodes[name].Dependencies {
		if !g.Has(dep) {
			res = append(res, dep)
		}
	}
	return res
}

// Dependents returns the services that directly depend on name, in set order.
func (g *Graph) Dependents(name string) []string {
	var res []string
	for _, id := range g.order {
		for _, dep := range g.nodes[id].Dependencies {
			if dep == name {
				res = append(res, id)
				break
			}
		}
	}
	return res
}

// TransitiveDependents returns every service that directly or indirectly
// depends on any of names, excluding names themselves. The result is sorted.
func (g *Graph) TransitiveDependents(names ...string) []string {
	start := make(map[string]bool, len(names))
	for _, n := range names {
		start[n] = true
	}

	visited := make(map[string]bool)
	var walk func(current string)
	walk = func(current string) {
		for _, dep := range g.Dependents(current) {
			if visited[dep] {
				continue
			}
			visited[dep] = true
			walk(dep)
		}
	}
	for _, n := range names {
		walk(n)
	}

	result := make([]string, 0, len(visited))
	for dep := range visited {
		if !start[dep] {
			result = append(result, dep)
		}
	}
	sort.Strings(result)
	return result
}
