package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yungbote/worldgraph/internal/config"
	"github.com/yungbote/worldgraph/internal/platform/logger"
)

const skipConfig = "worldgraph/skip-config"

// app carries state resolved once by the root command for its subcommands.
type app struct {
	v          *viper.Viper
	configFile string
	envFile    string

	cfg *config.Config
	log *logger.Logger
}

func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	config.SetDefaults(a.v)

	root := &cobra.Command{
		Use:           "worldgraph",
		Short:         "Load hand-authored world documents into a Neo4j graph",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipConfig] == "true" {
				return nil
			}
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				a.log.Sync()
			}
		},
	}
	root.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configFile, "config", "c", "", "config file (default ./worldgraph.yaml)")
	pf.StringVar(&a.envFile, "env-file", "", "dotenv file (default ./.env when present)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("data-dir", "", "directory holding the world documents")
	mustBind(a.v, "log.level", pf.Lookup("log-level"))
	mustBind(a.v, "data.dir", pf.Lookup("data-dir"))

	root.AddCommand(newLoadCmd(a), newPlanCmd(a), newVersionCmd())
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.v, config.LoadOptions{ConfigFile: a.configFile, EnvFile: a.envFile})
	if err != nil {
		return err
	}
	log, err := logger.NewWithOptions(cfg.Log.Options())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.cfg = cfg
	a.log = log.With("service", "worldgraph", "env", cfg.Env)
	return nil
}

// Execute runs the root command against os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
