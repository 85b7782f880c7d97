// Package cli implements jurisctl, the command-line front end of the
// decision engine.  Query commands load the file feed into a local service;
// operational commands talk to Kafka, MinIO, Redis and PostgreSQL.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/JurisCompare/internal/application/comparative"
	"github.com/turtacn/JurisCompare/internal/config"
	"github.com/turtacn/JurisCompare/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Output formats.
const (
	OutputText  = "text"
	OutputJSON  = "json"
	OutputTable = "table"
)

type cliContextKey struct{}

// RootOptions holds the persistent flags.
type RootOptions struct {
	ConfigPath    string
	RulesPath     string
	DecisionsPath string
	OutputFormat  string
	Verbose       bool
	NoColor       bool
	Timeout       time.Duration
}

// CLIContext carries the initialised configuration through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	OutputFormat string
	Verbose      bool
	Timeout      time.Duration

	deps Dependencies
	svc  comparative.Service
}

// Service returns the local decision engine, loading the feed on first use.
func (c *CLIContext) Service(ctx context.Context) (comparative.Service, error) {
	if c.svc != nil {
		return c.svc, nil
	}
	svc, err := c.deps.NewService(ctx, c)
	if err != nil {
		return nil, err
	}
	c.svc = svc
	return svc, nil
}

// NewRootCommand creates the root command with every subcommand attached.
func NewRootCommand(deps Dependencies) *cobra.Command {
	deps = deps.withDefaults()
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "jurisctl",
		Short: "Compare legal rules across jurisdictions and analyse choice of law",
		Long: "jurisctl queries the comparative-law decision engine: rule comparison and\n" +
			"majority analysis, choice-of-law analysis and case law search.  It also\n" +
			"publishes feeds and maintains the supporting infrastructure.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return persistentPreRun(cmd, opts, deps)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: JURIS_* environment only)")
	pf.StringVar(&opts.RulesPath, "rules", "", "rule feed file (overrides feed.rules_path)")
	pf.StringVar(&opts.DecisionsPath, "decisions", "", "decision feed file (overrides feed.decisions_path)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", OutputText, "output format (text, json, table)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "operation timeout")

	cmd.AddCommand(
		newCompareCmd(),
		newReportCmd(),
		newTopicsCmd(),
		newAnalyzeCmd(),
		newApproachesCmd(),
		newSearchCmd(),
		newDecisionCmd(),
		newIngestCmd(),
		newFeedCmd(),
		newMigrateCmd(),
		newCacheCmd(),
		newServerCmd(),
	)
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions, deps Dependencies) error {
	switch strings.ToLower(opts.OutputFormat) {
	case OutputText, OutputJSON, OutputTable:
	default:
		return errors.Newf(errors.ErrCodeBadRequest, "unknown output format %q; expected text, json or table", opts.OutputFormat)
	}
	if opts.NoColor {
		color.NoColor = true
	}

	cfg, err := initConfig(opts)
	if err != nil {
		return err
	}
	logger, err := initLogger(opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	cc := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		OutputFormat: strings.ToLower(opts.OutputFormat),
		Verbose:      opts.Verbose,
		Timeout:      opts.Timeout,
		deps:         deps,
	}
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cc))
	return nil
}

// initConfig loads the config file or the environment and applies the feed
// path overrides.  Query commands always read the file feed.
func initConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.LoadOrEnv(opts.ConfigPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "config initialization failed")
	}
	if opts.RulesPath != "" {
		cfg.Feed.RulesPath = opts.RulesPath
	}
	if opts.DecisionsPath != "" {
		cfg.Feed.DecisionsPath = opts.DecisionsPath
	}
	return cfg, nil
}

// initLogger writes console logs to stderr so stdout stays parseable.
func initLogger(opts *RootOptions) (logging.Logger, error) {
	level := logging.LevelWarn
	if opts.Verbose {
		level = logging.LevelDebug
	}
	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		ServiceName:      "jurisctl",
	})
}

// GetCLIContext extracts the CLIContext stored by the root command.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "command context is nil")
	}
	cc, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cc == nil {
		return nil, errors.New(errors.ErrCodeInternal, "CLIContext not found in command context")
	}
	return cc, nil
}

// commandContext returns the CLIContext and a context bounded by --timeout.
func commandContext(cmd *cobra.Command) (*CLIContext, context.Context, context.CancelFunc, error) {
	cc, err := GetCLIContext(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	if cc.Timeout > 0 {
		ctx, cancel := context.WithTimeout(cmd.Context(), cc.Timeout)
		return cc, ctx, cancel, nil
	}
	ctx, cancel := context.WithCancel(cmd.Context())
	return cc, ctx, cancel, nil
}

// Execute runs the root command and prints any error to stderr.
func Execute(ctx context.Context, deps Dependencies) error {
	root := NewRootCommand(deps)
	if err := root.ExecuteContext(ctx); err != nil {
		PrintError(root, err)
		return err
	}
	return nil
}

//Personal.AI order the ending
