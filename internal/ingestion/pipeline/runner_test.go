package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/worldgraph/internal/data/graph"
	"github.com/yungbote/worldgraph/internal/domain/world"
	"github.com/yungbote/worldgraph/internal/observability"
)

func intPtr(v int) *int { return &v }

func siwooFamily() *world.Dataset {
	ds := world.NewDataset()
	ds.Characters["Siwoo"] = world.Character{
		Gender:      "male",
		Age:         intPtr(10),
		Hobby:       []string{"Hammer building birdhouses", "Hammer repairs", "Kite flying"},
		IsSonOf:     world.Names{"Minho", "Sora"},
		IsBrotherOf: world.Names{"Jiwoo"},
		LivesIn:     world.Names{"Busan"},
	}
	ds.Characters["Jiwoo"] = world.Character{
		Gender:       "female",
		Age:          intPtr(8),
		IsDaughterOf: world.Names{"Minho", "Sora"},
		IsSisterOf:   world.Names{"Siwoo"},
		LivesIn:      world.Names{"Busan"},
	}
	ds.Characters["Minho"] = world.Character{
		Gender:     "male",
		Age:        intPtr(41),
		IsSpouseOf: world.Names{"Sora"},
		IsFatherOf: world.Names{"Siwoo", "Jiwoo"},
	}
	ds.Characters["Sora"] = world.Character{
		Gender:     "female",
		Age:        intPtr(39),
		IsSpouseOf: world.Names{"Minho"},
		IsMotherOf: world.Names{"Siwoo", "Jiwoo"},
	}
	ds.Tools["Hammer"] = world.Tool{Type: "hand tool", Requires: world.Names{"Nails"}}
	ds.Tools["Nails"] = world.Tool{Type: "fastener"}
	ds.Cities["Busan"] = world.City{Description: "Port city", LocatedIn: world.Names{"Hanguk"}}
	ds.Countries["Hanguk"] = world.Country{Language: "Korean"}
	return ds
}

func fixedNow() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) }

func newTestRunner(store graph.Store, opts Options) *Runner {
	opts.Now = fixedNow
	return NewRunner(store, nil, observability.NewMetrics(), opts)
}

func rel(t world.RelType) graph.EdgeType {
	r, _ := world.LookupRelation(t)
	return EdgeTypeOf(r)
}

func TestRunPopulatesGraph(t *testing.T) {
	store := graph.NewMemoryStore()
	r := newTestRunner(store, Options{RunID: "run-1"})

	report, err := r.Run(context.Background(), DefaultPlan(PlanOptions{DeriveToolUsage: true}), siwooFamily())
	require.NoError(t, err)
	assert.Equal(t, "run-1", report.RunID)

	assert.Equal(t, 4, store.NodeCount(world.LabelCharacter))
	assert.Equal(t, 2, store.NodeCount(world.LabelTool))
	assert.Equal(t, 1, store.NodeCount(world.LabelCity))
	assert.Equal(t, 1, store.NodeCount(world.LabelCountry))
	assert.True(t, store.HasSchema(world.LabelCitizenType))

	assert.True(t, store.HasEdge(rel(world.RelIsSonOf), graph.Edge{Source: "Siwoo", Target: "Minho"}))
	assert.True(t, store.HasEdge(rel(world.RelLivesIn), graph.Edge{Source: "Jiwoo", Target: "Busan"}))
	assert.True(t, store.HasEdge(rel(world.RelRequires), graph.Edge{Source: "Hammer", Target: "Nails"}))
	assert.True(t, store.HasEdge(rel(world.RelLocatedIn), graph.Edge{Source: "Busan", Target: "Hanguk"}))
	assert.Equal(t, []graph.Edge{{Source: "Siwoo", Target: "Hammer"}}, store.Edges(rel(world.RelUses)))

	props, ok := store.Node(world.LabelCharacter, "Siwoo")
	require.True(t, ok)
	want := map[string]any{
		"name":       "Siwoo",
		"gender":     "male",
		"age":        int64(10),
		"hobby":      []string{"Hammer building birdhouses", "Hammer repairs", "Kite flying"},
		"synced_at":  "2026-10-18T09:00:00Z",
		"synced_run": "run-1",
	}
	if diff := cmp.Diff(want, props); diff != "" {
		t.Fatalf("Siwoo props mismatch (-want +got):\n%s", diff)
	}

	nodes, linked, missing := report.Totals()
	assert.Equal(t, 8, nodes)
	// 2 sons + 2 daughters + 2 spouses + 1 brother + 1 sister + 2 father + 2 mother
	// + 2 lives_in + 1 requires + 1 uses + 1 located_in
	assert.Equal(t, 17, linked)
	assert.Zero(t, missing)
}

func TestRunIsIdempotent(t *testing.T) {
	store := graph.NewMemoryStore()
	plan := DefaultPlan(PlanOptions{DeriveToolUsage: true})
	ds := siwooFamily()

	_, err := newTestRunner(store, Options{}).Run(context.Background(), plan, ds)
	require.NoError(t, err)
	counts := func() []int {
		out := []int{}
		for _, l := range world.Labels() {
			out = append(out, store.NodeCount(l))
		}
		for _, r := range world.Relations {
			out = append(out, store.EdgeCount(string(r.Type)))
		}
		return out
	}
	first := counts()

	ds.Characters["Siwoo"] = world.Character{Gender: "male", Age: intPtr(11), LivesIn: world.Names{"Busan"}}
	_, err = newTestRunner(store, Options{}).Run(context.Background(), plan, ds)
	require.NoError(t, err)

	assert.Equal(t, first, counts())
	props, _ := store.Node(world.LabelCharacter, "Siwoo")
	assert.Equal(t, int64(11), props["age"])
	// Attributes the document no longer sets are left untouched.
	assert.Contains(t, props, "hobby")
}

func TestRunReportsMissingEndpoints(t *testing.T) {
	store := graph.NewMemoryStore()
	ds := siwooFamily()
	ds.Characters["Minho"] = world.Character{LivesIn: world.Names{"Atlantis"}, IsCitizenType: world.Names{"Noble"}}
	metrics := observability.NewMetrics()
	r := NewRunner(store, nil, metrics, Options{Now: fixedNow})

	report, err := r.Run(context.Background(), DefaultPlan(PlanOptions{}), ds)
	require.NoError(t, err)

	var got []MissingEdge
	for _, p := range report.Passes {
		got = append(got, p.Missing...)
	}
	assert.ElementsMatch(t, []MissingEdge{
		{Relation: world.RelLivesIn, Source: "Minho", Target: "Atlantis"},
		{Relation: world.RelIsCitizenType, Source: "Minho", Target: "Noble"},
	}, got)
	assert.Zero(t, store.NodeCount(world.LabelCitizenType))
	_, ok := store.Node(world.LabelCity, "Atlantis")
	assert.False(t, ok)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EdgesMissing.WithLabelValues("LIVES_IN")))
}

func TestRunStrictFailsOnMissingEndpoint(t *testing.T) {
	store := graph.NewMemoryStore()
	ds := siwooFamily()
	ds.Tools["Hammer"] = world.Tool{Requires: world.Names{"Anvil"}}

	report, err := newTestRunner(store, Options{Strict: true}).Run(context.Background(), DefaultPlan(PlanOptions{}), ds)
	require.ErrorIs(t, err, ErrMissingEndpoint)
	require.NotNil(t, report)
	last := report.Passes[len(report.Passes)-1]
	assert.Equal(t, "links:tools", last.Name)
	assert.Equal(t, []MissingEdge{{Relation: world.RelRequires, Source: "Hammer", Target: "Anvil"}}, last.Missing)
}

func TestRunRejectsInvalidPlan(t *testing.T) {
	plan := Plan{Passes: []Pass{LinkPass(world.CategoryTools)}}
	_, err := newTestRunner(graph.NewMemoryStore(), Options{}).Run(context.Background(), plan, siwooFamily())
	assert.ErrorIs(t, err, ErrPlanOrder)
}

type failingStore struct {
	graph.Store
	err error
}

func (f failingStore) UpsertNodes(ctx context.Context, label string, nodes []graph.Node) (int, error) {
	return 0, f.err
}

func TestRunStopsOnStoreError(t *testing.T) {
	boom := errors.New("connection reset")
	store := failingStore{Store: graph.NewMemoryStore(), err: boom}

	report, err := newTestRunner(store, Options{}).Run(context.Background(), DefaultPlan(PlanOptions{}), siwooFamily())
	require.ErrorIs(t, err, boom)
	assert.Len(t, report.Passes, 1)
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestRunner(graph.NewMemoryStore(), Options{}).Run(ctx, DefaultPlan(PlanOptions{}), siwooFamily())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildEdgesSortedAndDeduplicatedToolUsage(t *testing.T) {
	ds := siwooFamily()
	uses, _ := world.LookupRelation(world.RelUses)
	assert.Equal(t, []graph.Edge{{Source: "Siwoo", Target: "Hammer"}}, BuildEdges(ds, uses))

	father, _ := world.LookupRelation(world.RelIsFatherOf)
	assert.Equal(t, []graph.Edge{
		{Source: "Minho", Target: "Siwoo"},
		{Source: "Minho", Target: "Jiwoo"},
	}, BuildEdges(ds, father))
}

func TestRunLinksPaddedRecordKeys(t *testing.T) {
	store := graph.NewMemoryStore()
	ds := world.NewDataset()
	ds.Characters["Siwoo "] = world.Character{LivesIn: world.Names{"Busan"}}
	ds.Cities["Busan"] = world.City{}

	report, err := newTestRunner(store, Options{Strict: true}).Run(context.Background(), DefaultPlan(PlanOptions{}), ds)
	require.NoError(t, err)

	_, linked, missing := report.Totals()
	assert.Equal(t, 1, linked)
	assert.Zero(t, missing)
	_, ok := store.Node(world.LabelCharacter, "Siwoo")
	assert.True(t, ok)
	assert.True(t, store.HasEdge(rel(world.RelLivesIn), graph.Edge{Source: "Siwoo", Target: "Busan"}))
}

func TestRunCountsRepeatedTargetOnce(t *testing.T) {
	store := graph.NewMemoryStore()
	ds := siwooFamily()
	ds.Characters["Siwoo"] = world.Character{IsSonOf: world.Names{"Minho", "Minho"}}
	metrics := observability.NewMetrics()
	r := NewRunner(store, nil, metrics, Options{Now: fixedNow})

	_, err := r.Run(context.Background(), DefaultPlan(PlanOptions{}), ds)
	require.NoError(t, err)

	sonOf := rel(world.RelIsSonOf)
	assert.Equal(t, []graph.Edge{{Source: "Siwoo", Target: "Minho"}}, store.Edges(sonOf))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EdgesLinked.WithLabelValues("IS_SON_OF")))
}
