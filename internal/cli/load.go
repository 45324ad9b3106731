package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yungbote/worldgraph/internal/data/graph"
	"github.com/yungbote/worldgraph/internal/domain/world"
	"github.com/yungbote/worldgraph/internal/ingestion/loader"
	"github.com/yungbote/worldgraph/internal/ingestion/pipeline"
	"github.com/yungbote/worldgraph/internal/observability"
	"github.com/yungbote/worldgraph/internal/platform/neo4jdb"
)

func newLoadCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Merge the world documents into the graph",
		Long: "load upserts every entity by its natural name, then links the declared\n" +
			"relationships. Re-running it never duplicates nodes or edges.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLoad(cmd.Context(), cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.Bool("dry-run", false, "apply the load to an in-memory graph instead of Neo4j")
	f.Bool("strict", false, "fail when a relationship names a missing node")
	f.Bool("reset", false, "delete every world node before loading")
	f.Bool("derive-tool-usage", true, "link characters to the tools named by their hobbies")
	f.String("metrics-textfile", "", "write prometheus metrics to this file after the run")
	mustBind(a.v, "ingest.dry_run", f.Lookup("dry-run"))
	mustBind(a.v, "ingest.strict", f.Lookup("strict"))
	mustBind(a.v, "ingest.reset", f.Lookup("reset"))
	mustBind(a.v, "ingest.derive_tool_usage", f.Lookup("derive-tool-usage"))
	mustBind(a.v, "metrics.textfile", f.Lookup("metrics-textfile"))
	return cmd
}

func (a *app) runLoad(ctx context.Context, out io.Writer) error {
	cfg, log := a.cfg, a.log
	if ctx == nil {
		ctx = context.Background()
	}

	shutdown := observability.InitOTel(ctx, log, cfg.Tracing(Version))
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Warn("otel shutdown failed", "error", err)
		}
	}()

	ds, err := loader.New(log).Load(ctx, cfg.Data.Source())
	if err != nil {
		return err
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.Ingest.Reset {
		log.Warn("resetting world labels before load", "labels", world.Labels())
		if err := store.Reset(ctx, world.Labels()); err != nil {
			return err
		}
	}

	metrics := observability.NewMetrics()
	runner := pipeline.NewRunner(store, log, metrics, pipeline.Options{Strict: cfg.Ingest.Strict})
	plan := pipeline.DefaultPlan(pipeline.PlanOptions{DeriveToolUsage: cfg.Ingest.DeriveToolUsage})
	report, runErr := runner.Run(ctx, plan, ds)
	if report != nil {
		if err := writeReport(out, report, cfg.Ingest.DryRun); err != nil {
			log.Warn("write report failed", "error", err)
		}
	}
	if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		log.Warn("metrics textfile not written", "path", cfg.Metrics.Textfile, "error", err)
	}
	return runErr
}

func (a *app) openStore(ctx context.Context) (graph.Store, func(), error) {
	if a.cfg.Ingest.DryRun {
		a.log.Info("dry run: writing to in-memory graph")
		return graph.NewMemoryStore(), func() {}, nil
	}
	client, err := neo4jdb.New(ctx, a.cfg.Neo4j.Client(), a.log)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := client.Close(context.Background()); err != nil {
			a.log.Warn("neo4j close failed", "error", err)
		}
	}
	return graph.NewNeo4jStore(client, a.log, a.cfg.Neo4j.BatchSize), closeFn, nil
}

func writeReport(out io.Writer, r *pipeline.Report, dryRun bool) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "run %s", r.RunID)
	if dryRun {
		fmt.Fprint(tw, " (dry run)")
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "PASS\tNODES\tLINKED\tMISSING")
	for _, p := range r.Passes {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", p.Name, p.Nodes, p.Linked, len(p.Missing))
	}
	nodes, linked, missing := r.Totals()
	fmt.Fprintf(tw, "total\t%d\t%d\t%d\n", nodes, linked, missing)
	for _, p := range r.Passes {
		for _, m := range p.Missing {
			fmt.Fprintf(tw, "missing\t%s\t%s -> %s\t\n", m.Relation, m.Source, m.Target)
		}
	}
	return tw.Flush()
}
