package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yungbote/worldgraph/internal/ingestion/pipeline"
)

func newPlanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print the ordered ingest passes without touching the graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan := pipeline.DefaultPlan(pipeline.PlanOptions{DeriveToolUsage: a.cfg.Ingest.DeriveToolUsage})
			if err := plan.Validate(); err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tPASS\tKIND\tEDGES")
			for i, p := range plan.Passes {
				edges := make([]string, 0, len(p.Relations))
				for _, r := range p.Relations {
					edges = append(edges, string(r.Type))
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, p.Name, p.Kind, strings.Join(edges, ","))
			}
			return tw.Flush()
		},
	}
}
