package graph

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type edgeKey struct {
	label  string
	source string
	target string
}

type nodeRef struct {
	label string
	key   string
}

// MemoryStore applies the Store contract to in-process maps. It backs dry
// runs and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	nodes  map[string]map[string]map[string]any
	edges  map[edgeKey]map[nodeRef]map[nodeRef]struct{}
	schema map[string]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes:  map[string]map[string]map[string]any{},
		edges:  map[edgeKey]map[nodeRef]map[nodeRef]struct{}{},
		schema: map[string]bool{},
	}
}

func (m *MemoryStore) EnsureSchema(ctx context.Context, labels []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range labels {
		if err := ValidateLabel(l); err != nil {
			return err
		}
		m.schema[l] = true
	}
	return nil
}

func (m *MemoryStore) UpsertNodes(ctx context.Context, label string, nodes []Node) (int, error) {
	if err := ValidateLabel(label); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	byKey := m.nodes[label]
	if byKey == nil {
		byKey = map[string]map[string]any{}
		m.nodes[label] = byKey
	}
	n := 0
	for _, node := range nodes {
		key := strings.TrimSpace(node.Key)
		if key == "" {
			continue
		}
		props := byKey[key]
		if props == nil {
			props = map[string]any{}
			byKey[key] = props
		}
		for k, v := range node.Props {
			props[k] = v
		}
		props[KeyProperty] = key
		n++
	}
	return n, nil
}

func (m *MemoryStore) UpsertEdges(ctx context.Context, et EdgeType, edges []Edge) (LinkResult, error) {
	var result LinkResult
	if err := et.validate(); err != nil {
		return result, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range edges {
		e = e.normalized()
		if !m.hasNodeLocked(et.Source, e.Source) || !m.hasNodeLocked(et.Target, e.Target) {
			result.Missing = append(result.Missing, e)
			continue
		}
		k := edgeKey{label: et.Label, source: et.Source, target: et.Target}
		bySource := m.edges[k]
		if bySource == nil {
			bySource = map[nodeRef]map[nodeRef]struct{}{}
			m.edges[k] = bySource
		}
		src := nodeRef{label: et.Source, key: e.Source}
		targets := bySource[src]
		if targets == nil {
			targets = map[nodeRef]struct{}{}
			bySource[src] = targets
		}
		targets[nodeRef{label: et.Target, key: e.Target}] = struct{}{}
		result.Linked++
	}
	return result, nil
}

func (m *MemoryStore) Reset(ctx context.Context, labels []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range labels {
		if err := ValidateLabel(l); err != nil {
			return err
		}
		delete(m.nodes, l)
		for k := range m.edges {
			if k.source == l || k.target == l {
				delete(m.edges, k)
			}
		}
	}
	return nil
}

func (m *MemoryStore) hasNodeLocked(label, key string) bool {
	_, ok := m.nodes[label][key]
	return ok
}

// Node returns a copy of the properties stored under (label, key).
func (m *MemoryStore) Node(label, key string) (map[string]any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	props, ok := m.nodes[label][key]
	if !ok {
		return nil, false
	}
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out, true
}

func (m *MemoryStore) NodeCount(label string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.nodes[label])
}

func (m *MemoryStore) HasEdge(et EdgeType, e Edge) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	targets := m.edges[edgeKey{label: et.Label, source: et.Source, target: et.Target}][nodeRef{label: et.Source, key: e.Source}]
	_, ok := targets[nodeRef{label: et.Target, key: e.Target}]
	return ok
}

// EdgeCount counts edges with the given label across all endpoint labels.
func (m *MemoryStore) EdgeCount(label string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for k, bySource := range m.edges {
		if k.label != label {
			continue
		}
		for _, targets := range bySource {
			n += len(targets)
		}
	}
	return n
}

// Edges lists edges of one type sorted by source then target.
func (m *MemoryStore) Edges(et EdgeType) []Edge {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Edge
	for src, targets := range m.edges[edgeKey{label: et.Label, source: et.Source, target: et.Target}] {
		for dst := range targets {
			out = append(out, Edge{Source: src.key, Target: dst.key})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out
}

func (m *MemoryStore) HasSchema(label string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.schema[label]
}
