package models

import "fmt"

// LinkGraph is a reciprocal adjacency structure over an ordered set of note
// titles. Edges are only ever inserted as pairs, so if A links to B then B
// links to A by construction. The title order is the generation order and is
// the canonical iteration order for every deterministic operation.
type LinkGraph struct {
	titles []string
	order  map[string]int
	adj    map[string]map[string]struct{}
	hubs   map[string]struct{}
}

// NewLinkGraph creates a graph with the given titles as nodes and no edges.
// Titles must be unique.
func NewLinkGraph(titles []string) (*LinkGraph, error) {
	g := &LinkGraph{
		order: make(map[string]int, len(titles)),
		adj:   make(map[string]map[string]struct{}, len(titles)),
		hubs:  make(map[string]struct{}),
	}
	for _, t := range titles {
		if err := g.addNode(t, false); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *LinkGraph) addNode(title string, hub bool) error {
	if title == "" {
		return fmt.Errorf("graph: empty title")
	}
	if _, ok := g.order[title]; ok {
		return fmt.Errorf("graph: duplicate title %q", title)
	}
	g.order[title] = len(g.titles)
	g.titles = append(g.titles, title)
	g.adj[title] = make(map[string]struct{})
	if hub {
		g.hubs[title] = struct{}{}
	}
	return nil
}

// AddHub appends a hub node to the graph.
func (g *LinkGraph) AddHub(title string) error {
	return g.addNode(title, true)
}

// Link inserts the undirected edge a↔b. Inserting an existing edge is a
// no-op; self-links and unknown titles are errors.
func (g *LinkGraph) Link(a, b string) error {
	if a == b {
		return fmt.Errorf("graph: self-link on %q", a)
	}
	if _, ok := g.adj[a]; !ok {
		return fmt.Errorf("graph: unknown title %q", a)
	}
	if _, ok := g.adj[b]; !ok {
		return fmt.Errorf("graph: unknown title %q", b)
	}
	g.adj[a][b] = struct{}{}
	g.adj[b][a] = struct{}{}
	return nil
}

// Has reports whether a and b are linked.
func (g *LinkGraph) Has(a, b string) bool {
	_, ok := g.adj[a][b]
	return ok
}

// Linked returns the titles linked to the given title, ordered by their
// position in the generation order.
func (g *LinkGraph) Linked(title string) []string {
	set, ok := g.adj[title]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for _, t := range g.titles {
		if _, linked := set[t]; linked {
			out = append(out, t)
		}
	}
	return out
}

// Degree returns the number of links of the given title.
func (g *LinkGraph) Degree(title string) int {
	return len(g.adj[title])
}

// IsHub reports whether the title is a hub node.
func (g *LinkGraph) IsHub(title string) bool {
	_, ok := g.hubs[title]
	return ok
}

// Titles returns a copy of all titles in generation order, hubs last.
func (g *LinkGraph) Titles() []string {
	out := make([]string, len(g.titles))
	copy(out, g.titles)
	return out
}

// Len returns the number of nodes.
func (g *LinkGraph) Len() int {
	return len(g.titles)
}

// EdgeCount returns the number of undirected edges.
func (g *LinkGraph) EdgeCount() int {
	total := 0
	for _, set := range g.adj {
		total += len(set)
	}
	return total / 2
}

// Validate checks the structural invariants: reciprocity, no self-links, and
// no references to titles outside the graph. The builder maintains these by
// construction; Validate exists so that consumers of a deserialized or
// externally produced graph can check it too.
func (g *LinkGraph) Validate() error {
	for title, set := range g.adj {
		for target := range set {
			if target == title {
				return fmt.Errorf("graph: %q links to itself", title)
			}
			peers, ok := g.adj[target]
			if !ok {
				return fmt.Errorf("graph: %q links to unknown title %q", title, target)
			}
			if _, back := peers[title]; !back {
				return fmt.Errorf("graph: link %q -> %q is not reciprocal", title, target)
			}
		}
	}
	return nil
}
