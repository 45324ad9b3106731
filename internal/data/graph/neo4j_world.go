package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/worldgraph/internal/platform/logger"
	"github.com/yungbote/worldgraph/internal/platform/neo4jdb"
)

const defaultBatchSize = 500

type Neo4jStore struct {
	client    *neo4jdb.Client
	log       *logger.Logger
	batchSize int
}

func NewNeo4jStore(client *neo4jdb.Client, log *logger.Logger, batchSize int) *Neo4jStore {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Neo4jStore{client: client, log: log.With("store", "Neo4jStore"), batchSize: batchSize}
}

func (s *Neo4jStore) ready() error {
	if s == nil || s.client == nil || s.client.Driver == nil {
		return fmt.Errorf("graph: neo4j client not initialized")
	}
	return nil
}

// EnsureSchema is best-effort: a failed constraint is logged and skipped.
func (s *Neo4jStore) EnsureSchema(ctx context.Context, labels []string) error {
	if err := s.ready(); err != nil {
		return err
	}
	session := s.client.WriteSession(ctx)
	defer session.Close(ctx)

	for _, label := range labels {
		if err := ValidateLabel(label); err != nil {
			return err
		}
		q := fmt.Sprintf(
			"CREATE CONSTRAINT %s_name_unique IF NOT EXISTS FOR (n:%s) REQUIRE n.%s IS UNIQUE",
			strings.ToLower(label), label, KeyProperty,
		)
		res, err := session.Run(ctx, q, nil)
		if err != nil {
			s.log.Warn("neo4j schema init failed (continuing)", "label", label, "error", err)
			continue
		}
		if _, err := res.Consume(ctx); err != nil {
			s.log.Warn("neo4j schema init failed (continuing)", "label", label, "error", err)
		}
	}
	return nil
}

func (s *Neo4jStore) UpsertNodes(ctx context.Context, label string, nodes []Node) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	if err := ValidateLabel(label); err != nil {
		return 0, err
	}
	if len(nodes) == 0 {
		return 0, nil
	}

	rows := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		key := strings.TrimSpace(n.Key)
		if key == "" {
			continue
		}
		props := make(map[string]any, len(n.Props)+1)
		for k, v := range n.Props {
			props[k] = v
		}
		props[KeyProperty] = key
		rows = append(rows, map[string]any{"key": key, "props": props})
	}

	q := fmt.Sprintf(`
UNWIND $nodes AS n
MERGE (x:%s {%s: n.key})
SET x += n.props
RETURN count(x) AS upserted
`, label, KeyProperty)

	session := s.client.WriteSession(ctx)
	defer session.Close(ctx)

	total := 0
	for _, batch := range chunk(rows, s.batchSize) {
		out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			res, err := tx.Run(ctx, q, map[string]any{"nodes": batch})
			if err != nil {
				return 0, err
			}
			rec, err := res.Single(ctx)
			if err != nil {
				return 0, err
			}
			n, _, err := neo4j.GetRecordValue[int64](rec, "upserted")
			return int(n), err
		})
		if err != nil {
			return total, fmt.Errorf("graph: upsert %s nodes: %w", label, err)
		}
		total += out.(int)
	}
	return total, nil
}

func (s *Neo4jStore) UpsertEdges(ctx context.Context, et EdgeType, edges []Edge) (LinkResult, error) {
	var result LinkResult
	if err := s.ready(); err != nil {
		return result, err
	}
	if err := et.validate(); err != nil {
		return result, err
	}
	if len(edges) == 0 {
		return result, nil
	}

	rows := make([]map[string]any, 0, len(edges))
	for _, e := range edges {
		e = e.normalized()
		rows = append(rows, map[string]any{"source": e.Source, "target": e.Target})
	}

	// OPTIONAL MATCH keeps one row per input edge so missing endpoints can be
	// reported; the FOREACH guard makes the MERGE conditional.
	q := fmt.Sprintf(`
UNWIND $edges AS e
OPTIONAL MATCH (a:%[1]s {%[4]s: e.source})
OPTIONAL MATCH (b:%[2]s {%[4]s: e.target})
FOREACH (_ IN CASE WHEN a IS NOT NULL AND b IS NOT NULL THEN [1] ELSE [] END |
  MERGE (a)-[:%[3]s]->(b)
)
RETURN e.source AS source, e.target AS target, (a IS NOT NULL AND b IS NOT NULL) AS linked
`, et.Source, et.Target, et.Label, KeyProperty)

	session := s.client.WriteSession(ctx)
	defer session.Close(ctx)

	for _, batch := range chunk(rows, s.batchSize) {
		out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			res, err := tx.Run(ctx, q, map[string]any{"edges": batch})
			if err != nil {
				return nil, err
			}
			records, err := res.Collect(ctx)
			if err != nil {
				return nil, err
			}
			var lr LinkResult
			for _, rec := range records {
				linked, _, err := neo4j.GetRecordValue[bool](rec, "linked")
				if err != nil {
					return nil, err
				}
				if linked {
					lr.Linked++
					continue
				}
				src, _, _ := neo4j.GetRecordValue[string](rec, "source")
				dst, _, _ := neo4j.GetRecordValue[string](rec, "target")
				lr.Missing = append(lr.Missing, Edge{Source: src, Target: dst})
			}
			return lr, nil
		})
		if err != nil {
			return result, fmt.Errorf("graph: upsert %s edges: %w", et.Label, err)
		}
		result.merge(out.(LinkResult))
	}
	return result, nil
}

func (s *Neo4jStore) Reset(ctx context.Context, labels []string) error {
	if err := s.ready(); err != nil {
		return err
	}
	session := s.client.WriteSession(ctx)
	defer session.Close(ctx)

	for _, label := range labels {
		if err := ValidateLabel(label); err != nil {
			return err
		}
		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			res, err := tx.Run(ctx, fmt.Sprintf("MATCH (n:%s) DETACH DELETE n", label), nil)
			if err != nil {
				return nil, err
			}
			return res.Consume(ctx)
		})
		if err != nil {
			return fmt.Errorf("graph: reset %s: %w", label, err)
		}
		s.log.Info("graph label cleared", "label", label)
	}
	return nil
}
