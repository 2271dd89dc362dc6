package causal

import (
	domain "gocause/domain/causal"
)

// Snapshot is the plain serializable form of a Graph. The inference
// cache is deliberately excluded; it is rebuilt on demand.
type Snapshot struct {
	Config    Config                                      `json:"config"`
	Variables []*domain.Variable                          `json:"variables"`
	Links     []*domain.Link                              `json:"links"`
	Tables    map[string][]*domain.ConditionalProbability `json:"conditional_tables"`
	Queries   []*domain.BackwardsQuery                    `json:"queries"`
}

// Snapshot exports the graph state as a plain data structure.
func (g *Graph) Snapshot() *Snapshot {
	snap := &Snapshot{
		Config: g.config,
		Tables: make(map[string][]*domain.ConditionalProbability, len(g.tables)),
	}
	for _, name := range g.varOrder {
		snap.Variables = append(snap.Variables, g.variables[name])
	}
	for _, key := range g.linkOrder {
		snap.Links = append(snap.Links, g.links[key])
	}
	for effectVar, rows := range g.tables {
		snap.Tables[effectVar] = append([]*domain.ConditionalProbability(nil), rows...)
	}
	snap.Queries = append(snap.Queries, g.queries...)
	return snap
}

// RestoreGraph reconstructs a graph from a snapshot.
func RestoreGraph(snap *Snapshot) *Graph {
	g := NewGraph(snap.Config)
	for _, v := range snap.Variables {
		g.variables[v.Name] = v
		g.varOrder = append(g.varOrder, v.Name)
	}
	for _, link := range snap.Links {
		key := domain.LinkKey{Cause: link.Cause, Effect: link.Effect}
		if link.Probs == nil {
			link.Probs = make(map[domain.ValuePair]float64)
		}
		g.links[key] = link
		g.linkOrder = append(g.linkOrder, key)
	}
	for effectVar, rows := range snap.Tables {
		g.tables[effectVar] = append([]*domain.ConditionalProbability(nil), rows...)
	}
	g.queries = append(g.queries, snap.Queries...)
	return g
}
