package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/okian/cuju/internal/adapters/render"
	repository "github.com/okian/cuju/internal/adapters/repository"
	app "github.com/okian/cuju/internal/app"
	"github.com/okian/cuju/internal/config"
	"github.com/okian/cuju/internal/domain/types"
	"github.com/okian/cuju/pkg/logger"
	"github.com/okian/cuju/pkg/metrics"
	"github.com/spf13/cobra"
)

var errStdinTerminal = errors.New("--csv - reads the leaderboard from stdin, but stdin is a terminal")

// flagValues holds the raw flag values. Only flags the user set override
// the loaded configuration.
type flagValues struct {
	configPath  string
	csvPath     string
	epsilon     float64
	alpha       float64
	seed        int64
	logLevel    string
	output      string
	metricsFile string
	rounds      int
}

// runFunc is the body of a subcommand once the service is started.
type runFunc func(ctx context.Context, svc *app.Service, out *render.Renderer, cfg *config.Config) error

func newRootCmd() *cobra.Command {
	fv := &flagValues{}

	rootCmd := &cobra.Command{
		Use:   "arena",
		Short: "Suggest which leaderboard models to compare next",
		Long: `arena reads a leaderboard export (Model, Score, CI, votes) and suggests
head-to-head comparisons. With probability epsilon it pairs a low-vote
"student" with one of the most stable "teachers"; otherwise it pairs models
whose confidence intervals overlap the most.`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&fv.configPath, "config", "", "YAML config file (defaults to $"+config.EnvConfig+")")
	pf.StringVar(&fv.csvPath, "csv", "", "leaderboard CSV file, or - for stdin")
	pf.Float64Var(&fv.epsilon, "epsilon", 0, "probability of the Student-Teacher strategy [0,1]")
	pf.Float64Var(&fv.alpha, "alpha", 0, "power-law exponent favouring low-vote models")
	pf.Int64Var(&fv.seed, "seed", 0, "random seed; 0 seeds from the clock")
	pf.StringVar(&fv.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVarP(&fv.output, "output", "o", "", "output format: table or json")
	pf.StringVar(&fv.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")

	nextCmd := &cobra.Command{
		Use:   "next",
		Short: "Suggest a single match",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, fv, func(ctx context.Context, svc *app.Service, out *render.Renderer, _ *config.Config) error {
				p, err := svc.NextMatch(ctx)
				if err != nil {
					return err
				}
				return out.Pairings(itemCount(svc), []types.Pairing{p})
			})
		},
	}

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Suggest several independent matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, fv, func(ctx context.Context, svc *app.Service, out *render.Renderer, cfg *config.Config) error {
				pairings, err := svc.Simulate(ctx, cfg.Rounds)
				if err != nil {
					return err
				}
				return out.Pairings(itemCount(svc), pairings)
			})
		},
	}
	simulateCmd.Flags().IntVarP(&fv.rounds, "rounds", "n", 0, "number of selections (default from config)")

	boardCmd := &cobra.Command{
		Use:   "board",
		Short: "List the loaded models ranked by score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, fv, func(ctx context.Context, svc *app.Service, out *render.Renderer, _ *config.Config) error {
				entries, err := svc.Board(ctx)
				if err != nil {
					return err
				}
				return out.Board(entries)
			})
		},
	}

	rootCmd.AddCommand(nextCmd, simulateCmd, boardCmd)
	return rootCmd
}

// run loads configuration, starts the service and hands it to fn. Logs go to
// the command's stderr so rendered output on stdout stays parseable.
func run(cmd *cobra.Command, fv *flagValues, fn runFunc) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(ctx, cmd, fv)
	if err != nil {
		return err
	}

	if err := checkStdin(cmd.InOrStdin(), cfg.CSVPath); err != nil {
		return err
	}

	if err := logger.InitWithWriter(cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log := logger.Named("arena")

	source := repository.NewCSVSource(cfg.CSVPath,
		repository.WithLogger(logger.Named("repository")),
		repository.WithStdin(cmd.InOrStdin()),
	)
	svc := app.New(
		app.WithLogger(log),
		app.WithSource(source),
		app.WithEpsilon(cfg.Epsilon),
		app.WithAlpha(cfg.Alpha),
		app.WithSeed(cfg.Seed),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}

	out := render.New(cmd.OutOrStdout(),
		render.WithFormat(cfg.Output),
		render.WithRunID(svc.RunID()),
	)
	runErr := fn(ctx, svc, out, cfg)

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile, nil); err != nil {
			log.Error(ctx, "failed to write metrics file",
				logger.String("path", cfg.MetricsFile),
				logger.Error(err),
			)
			if runErr == nil {
				runErr = err
			}
		}
	}
	return runErr
}

// loadConfig layers set flags over the loaded configuration and validates
// the result.
func loadConfig(ctx context.Context, cmd *cobra.Command, fv *flagValues) (*config.Config, error) {
	cfg, err := config.Load(ctx, fv.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("csv") {
		cfg.CSVPath = fv.csvPath
	}
	if flags.Changed("epsilon") {
		cfg.Epsilon = fv.epsilon
	}
	if flags.Changed("alpha") {
		cfg.Alpha = fv.alpha
	}
	if flags.Changed("seed") {
		cfg.Seed = fv.seed
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = fv.logLevel
	}
	if flags.Changed("output") {
		cfg.Output = fv.output
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = fv.metricsFile
	}
	if flags.Changed("rounds") {
		cfg.Rounds = fv.rounds
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// checkStdin refuses to block on an interactive terminal when the CSV is
// expected on stdin.
func checkStdin(in io.Reader, path string) error {
	if path != repository.StdinPath {
		return nil
	}
	f, ok := in.(*os.File)
	if !ok {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return errStdinTerminal
	}
	return nil
}

func itemCount(svc *app.Service) int {
	n, _ := svc.GetStats()["items"].(int)
	return n
}
