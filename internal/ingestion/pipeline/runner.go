package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/worldgraph/internal/data/graph"
	"github.com/yungbote/worldgraph/internal/domain/world"
	"github.com/yungbote/worldgraph/internal/observability"
	"github.com/yungbote/worldgraph/internal/platform/logger"
)

const tracerName = "github.com/yungbote/worldgraph/internal/ingestion/pipeline"

type Options struct {
	// Strict turns any missing edge endpoint into a run failure.
	Strict bool
	// RunID tags every node written; generated when empty.
	RunID string
	Now   func() time.Time
}

type Runner struct {
	store   graph.Store
	log     *logger.Logger
	metrics *observability.Metrics
	tracer  trace.Tracer
	opts    Options
}

func NewRunner(store graph.Store, log *logger.Logger, metrics *observability.Metrics, opts Options) *Runner {
	if log == nil {
		log = logger.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{
		store:   store,
		log:     log.With("component", "IngestRunner"),
		metrics: metrics,
		tracer:  otel.Tracer(tracerName),
		opts:    opts,
	}
}

// MissingEdge is a declared edge skipped because an endpoint does not exist.
type MissingEdge struct {
	Relation world.RelType
	Source   string
	Target   string
}

type PassReport struct {
	Name     string
	Kind     PassKind
	Nodes    int
	Linked   int
	Missing  []MissingEdge
	Duration time.Duration
}

type Report struct {
	RunID     string
	StartedAt time.Time
	Passes    []PassReport
}

func (r *Report) Totals() (nodes, linked, missing int) {
	for _, p := range r.Passes {
		nodes += p.Nodes
		linked += p.Linked
		missing += len(p.Missing)
	}
	return nodes, linked, missing
}

// Run executes the plan in order. The partial report is returned alongside
// any error so callers can see how far the run got.
func (r *Runner) Run(ctx context.Context, plan Plan, ds *world.Dataset) (*Report, error) {
	if r.store == nil {
		return nil, fmt.Errorf("pipeline: store required")
	}
	if ds == nil {
		return nil, fmt.Errorf("pipeline: dataset required")
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	runID := r.opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	report := &Report{RunID: runID, StartedAt: r.opts.Now().UTC()}
	log := r.log.With("run_id", runID)

	ctx, span := r.tracer.Start(ctx, "ingest.run", trace.WithAttributes(
		attribute.String("worldgraph.run_id", runID),
		attribute.Int("worldgraph.passes", len(plan.Passes)),
	))
	defer span.End()

	err := r.run(ctx, log, plan, ds, report)
	r.metrics.ObserveRun(err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("ingest run failed", "error", err)
		return report, err
	}

	nodes, linked, missing := report.Totals()
	log.Info("ingest run finished", "nodes", nodes, "edges", linked, "missing_edges", missing,
		"elapsed", r.opts.Now().UTC().Sub(report.StartedAt))
	return report, nil
}

func (r *Runner) run(ctx context.Context, log *logger.Logger, plan Plan, ds *world.Dataset, report *Report) error {
	if err := r.store.EnsureSchema(ctx, world.Labels()); err != nil {
		return fmt.Errorf("pipeline: ensure schema: %w", err)
	}
	stamp := map[string]any{
		"synced_at":  report.StartedAt.Format(time.RFC3339Nano),
		"synced_run": report.RunID,
	}
	for _, pass := range plan.Passes {
		if err := ctx.Err(); err != nil {
			return err
		}
		pr, err := r.runPass(ctx, log.With("pass", pass.Name), pass, ds, stamp)
		report.Passes = append(report.Passes, pr)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runPass(ctx context.Context, log *logger.Logger, pass Pass, ds *world.Dataset, stamp map[string]any) (PassReport, error) {
	pr := PassReport{Name: pass.Name, Kind: pass.Kind}
	ctx, span := r.tracer.Start(ctx, "ingest.pass", trace.WithAttributes(
		attribute.String("worldgraph.pass", pass.Name),
		attribute.String("worldgraph.category", string(pass.Category)),
	))
	defer span.End()

	start := time.Now()
	var err error
	switch pass.Kind {
	case PassNodes:
		err = r.upsertNodes(ctx, log, pass.Category, ds, stamp, &pr)
	case PassLinks:
		err = r.linkEdges(ctx, log, pass, ds, &pr)
	}
	pr.Duration = time.Since(start)
	r.metrics.ObservePass(pass.Name, pr.Duration)
	span.SetAttributes(
		attribute.Int("worldgraph.nodes", pr.Nodes),
		attribute.Int("worldgraph.linked", pr.Linked),
		attribute.Int("worldgraph.missing", len(pr.Missing)),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return pr, err
}

func (r *Runner) upsertNodes(ctx context.Context, log *logger.Logger, c world.Category, ds *world.Dataset, stamp map[string]any, pr *PassReport) error {
	label := c.Label()
	nodes := BuildNodes(ds, c, stamp)
	n, err := r.store.UpsertNodes(ctx, label, nodes)
	pr.Nodes = n
	r.metrics.ObserveNodes(label, n)
	if err != nil {
		return fmt.Errorf("pipeline: %s: %w", pr.Name, err)
	}
	log.Info("node pass finished", "label", label, "upserted", n)
	return nil
}

func (r *Runner) linkEdges(ctx context.Context, log *logger.Logger, pass Pass, ds *world.Dataset, pr *PassReport) error {
	for _, rel := range pass.Relations {
		edges := BuildEdges(ds, rel)
		if len(edges) == 0 {
			continue
		}
		et := EdgeTypeOf(rel)
		res, err := r.store.UpsertEdges(ctx, et, edges)
		pr.Linked += res.Linked
		for _, m := range res.Missing {
			pr.Missing = append(pr.Missing, MissingEdge{Relation: rel.Type, Source: m.Source, Target: m.Target})
			log.Warn("edge endpoint missing, skipped", "relation", rel.Type, "source", m.Source, "target", m.Target)
		}
		r.metrics.ObserveEdges(et.Label, res.Linked, len(res.Missing))
		if err != nil {
			return fmt.Errorf("pipeline: %s: %w", pr.Name, err)
		}
	}
	log.Info("link pass finished", "linked", pr.Linked, "missing", len(pr.Missing))
	if r.opts.Strict && len(pr.Missing) > 0 {
		first := pr.Missing[0]
		return fmt.Errorf("%w: %s: %d edge(s), first %s %s->%s",
			ErrMissingEndpoint, pr.Name, len(pr.Missing), first.Relation, first.Source, first.Target)
	}
	return nil
}
