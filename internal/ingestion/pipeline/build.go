package pipeline

import (
	"strings"

	"github.com/yungbote/worldgraph/internal/data/graph"
	"github.com/yungbote/worldgraph/internal/domain/world"
)

func EdgeTypeOf(rel world.Relation) graph.EdgeType {
	return graph.EdgeType{
		Label:  string(rel.Type),
		Source: rel.Source.Label(),
		Target: rel.Target.Label(),
	}
}

// BuildNodes turns the records of one category into graph nodes in name
// order. stamp is merged into every node's properties. Keys are trimmed the
// same way BuildEdges trims them, and blank keys are dropped.
func BuildNodes(ds *world.Dataset, c world.Category, stamp map[string]any) []graph.Node {
	recs := ds.Records(c)
	out := make([]graph.Node, 0, len(recs))
	for _, name := range world.SortedNames(recs) {
		key := strings.TrimSpace(name)
		if key == "" {
			continue
		}
		props := recs[name].Properties()
		for k, v := range stamp {
			props[k] = v
		}
		out = append(out, graph.Node{Key: key, Props: props})
	}
	return out
}

// BuildEdges collects the distinct edges of one relation in source-name order.
func BuildEdges(ds *world.Dataset, rel world.Relation) []graph.Edge {
	if rel.Type == world.RelUses {
		return toolUsageEdges(ds)
	}
	recs := ds.Records(rel.Source)
	var out []graph.Edge
	seen := map[graph.Edge]bool{}
	for _, name := range world.SortedNames(recs) {
		source := strings.TrimSpace(name)
		if source == "" {
			continue
		}
		for _, target := range recs[name].Links()[rel.Type] {
			e := graph.Edge{Source: source, Target: strings.TrimSpace(target)}
			if e.Target == "" || seen[e] {
				continue
			}
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}

// A hobby only yields an edge when its first word names a known tool.
func toolUsageEdges(ds *world.Dataset) []graph.Edge {
	tools := map[string]bool{}
	for name := range ds.Tools {
		tools[strings.TrimSpace(name)] = true
	}
	var out []graph.Edge
	seen := map[graph.Edge]bool{}
	for _, name := range world.SortedNames(ds.Characters) {
		source := strings.TrimSpace(name)
		if source == "" {
			continue
		}
		for _, tool := range ds.Characters[name].HobbyTools() {
			e := graph.Edge{Source: source, Target: tool}
			if !tools[tool] || seen[e] {
				continue
			}
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}
