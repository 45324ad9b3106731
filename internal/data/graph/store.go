package graph

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Node is a record to merge under a label, matched by Key alone.
type Node struct {
	Key   string
	Props map[string]any
}

// EdgeType names a directed edge label and the node labels of its endpoints.
type EdgeType struct {
	Label  string
	Source string
	Target string
}

func (t EdgeType) String() string {
	return fmt.Sprintf("(:%s)-[:%s]->(:%s)", t.Source, t.Label, t.Target)
}

// Edge is matched by (EdgeType.Label, Source, Target).
type Edge struct {
	Source string
	Target string
}

// Endpoint keys are matched the way UpsertNodes stores them: trimmed.
func (e Edge) normalized() Edge {
	return Edge{Source: strings.TrimSpace(e.Source), Target: strings.TrimSpace(e.Target)}
}

// LinkResult reports how a batch of edges was applied. Missing holds edges
// skipped because one of their endpoints does not exist.
type LinkResult struct {
	Linked  int
	Missing []Edge
}

func (r *LinkResult) merge(o LinkResult) {
	r.Linked += o.Linked
	r.Missing = append(r.Missing, o.Missing...)
}

// Store is the write side of the world graph. Every method is idempotent:
// repeating a call leaves the graph unchanged.
type Store interface {
	// EnsureSchema declares natural-key uniqueness for the given labels.
	EnsureSchema(ctx context.Context, labels []string) error
	// UpsertNodes creates each node absent under (label, key), otherwise
	// sets its properties. Returns the number of nodes written.
	UpsertNodes(ctx context.Context, label string, nodes []Node) (int, error)
	// UpsertEdges merges edges between existing endpoints. It never creates
	// nodes; edges with a missing endpoint are reported in LinkResult.Missing.
	UpsertEdges(ctx context.Context, et EdgeType, edges []Edge) (LinkResult, error)
	// Reset removes every node under the given labels with its edges.
	Reset(ctx context.Context, labels []string) error
}

// KeyProperty is the node property holding the natural key.
const KeyProperty = "name"

var ErrInvalidLabel = errors.New("graph: invalid label")

var labelPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateLabel guards labels and relationship types, which Cypher cannot
// take as parameters.
func ValidateLabel(label string) error {
	if !labelPattern.MatchString(label) {
		return fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	return nil
}

func (t EdgeType) validate() error {
	for _, l := range []string{t.Label, t.Source, t.Target} {
		if err := ValidateLabel(l); err != nil {
			return err
		}
	}
	return nil
}

func chunk[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) <= size {
		if len(items) == 0 {
			return nil
		}
		return [][]T{items}
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[start:end])
	}
	return out
}
