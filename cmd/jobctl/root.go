package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/honeycarbs/startsmart/internal/app"
	"github.com/honeycarbs/startsmart/internal/config"
	"github.com/honeycarbs/startsmart/pkg/logging"
)

const appName = "jobctl"

// coreFactory builds the job service graph for a command run
type coreFactory func(ctx context.Context, logger *logging.Logger) (*app.Core, func(), error)

func defaultCore(ctx context.Context, logger *logging.Logger) (*app.Core, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return app.InitializeCore(ctx, cfg, logger)
}

// cli carries state shared by every subcommand
type cli struct {
	v       *viper.Viper
	cfgFile string
	build   coreFactory
}

func newRootCmd(build coreFactory) *cobra.Command {
	c := &cli{v: viper.New(), build: build}

	root := &cobra.Command{
		Use:          appName,
		Short:        "jobctl searches, publishes and ingests job postings",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return c.initConfig()
		},
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "a config file (default is jobctl.yaml in current directory)")
	root.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	_ = c.v.BindPFlag("debug", root.PersistentFlags().Lookup("debug"))
	_ = c.v.BindPFlag("json", root.PersistentFlags().Lookup("json"))

	root.AddCommand(
		c.searchCmd(),
		c.lookupCmd(),
		c.recommendCmd(),
		c.publishCmd(),
		c.ingestCmd(),
	)
	return root
}

// initConfig reads optional defaults (country, skills) from a yaml file and JOBCTL_* env
func (c *cli) initConfig() error {
	c.v.SetEnvPrefix("JOBCTL")
	c.v.AutomaticEnv()

	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
		if err := c.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", c.cfgFile, err)
		}
		return nil
	}

	c.v.AddConfigPath(".")
	c.v.SetConfigName(appName)
	c.v.SetConfigType("yaml")
	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

func (c *cli) logger() *logging.Logger {
	level := "info"
	if c.v.GetBool("debug") {
		level = "debug"
	}
	return logging.NewConsole(level, c.v.GetBool("json"))
}

// withCore builds the graph, runs fn and releases resources
func (c *cli) withCore(cmd *cobra.Command, fn func(ctx context.Context, core *app.Core) error) error {
	logger := c.logger()
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	core, cleanup, err := c.build(ctx, logger)
	if err != nil {
		return fmt.Errorf("initializing job service: %w", err)
	}
	defer cleanup()

	return fn(ctx, core)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
