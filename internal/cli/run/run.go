// Package run implements the run command: it builds one task per configured
// project, dispatches the batch through the executor pool, and renders the
// per-task outcomes.
package run

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rajatverma/testherd/internal/config"
	"github.com/rajatverma/testherd/internal/coverage"
	"github.com/rajatverma/testherd/internal/executor"
	"github.com/rajatverma/testherd/internal/output"
	"github.com/rajatverma/testherd/internal/runner"
	"github.com/rajatverma/testherd/internal/util"
)

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	var updateSnapshots string
	var pattern string
	var withCoverage bool
	var projects []string
	var wide bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run test tasks across all configured projects",
		Long: `Run dispatches one test task per configured project to the executor pool.

Tasks run concurrently across the configured number of workers. With exactly
one worker, tasks run in-band inside the testherd process, one at a time, in
submission order.`,
		Example: `  # Run every project's tests with the configured pool size
  testherd run

  # Run in-band, one task at a time
  testherd run --workers 1

  # Run only selected projects, collecting coverage
  testherd run --projects api,web --coverage

  # Update all snapshots and only run matching test names
  testherd run -u all -t "login"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(cmd.Context(), runFlags{
				updateSnapshots: updateSnapshots,
				pattern:         pattern,
				withCoverage:    withCoverage,
				projects:        projects,
				wide:            wide,
			})
		},
	}

	cmd.Flags().StringVarP(&updateSnapshots, "update-snapshots", "u", "", "snapshot-update mode (none, new, all)")
	cmd.Flags().StringVarP(&pattern, "pattern", "t", "", "only run tests whose name matches this pattern")
	cmd.Flags().BoolVar(&withCoverage, "coverage", false, "collect and filter coverage")
	cmd.Flags().StringSliceVar(&projects, "projects", nil, "restrict the run to these projects (comma-separated)")
	cmd.Flags().BoolVar(&wide, "wide", false, "show task detail column")

	return cmd
}

type runFlags struct {
	updateSnapshots string
	pattern         string
	withCoverage    bool
	projects        []string
	wide            bool
}

func runTasks(ctx context.Context, flags runFlags) error {
	logger := slog.Default()

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	tasks, err := buildTasks(cfg, flags.projects)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return fmt.Errorf("no projects configured; add projects to your config file")
	}

	logger.Debug("run configured",
		"tasks", len(tasks),
		"workers", cfg.Workers,
		"coverage", cfg.Coverage.Enabled,
		"update_snapshots", cfg.UpdateSnapshots)

	if timeout := viper.GetDuration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	dispatcher := executor.NewDispatcher(cfg, runner.NewFactory(cfg), logger)
	defer dispatcher.Close()

	if cfg.Coverage.Enabled {
		eligible := coverage.ScopePredicate()
		dispatcher.Filter = func(t executor.Task, r *executor.Result) *executor.Result {
			return coverage.Filter(r, t.Project, cfg.Coverage, eligible)
		}
	}

	outcomes, err := dispatcher.RunAll(ctx, tasks, progressCallbacks(len(tasks)))
	if err != nil {
		// Teardown failures surface here; task outcomes are still rendered.
		fmt.Fprintln(os.Stderr, util.FriendlyError(err))
	}

	if renderErr := render(cfg, flags.wide, outcomes); renderErr != nil {
		return renderErr
	}

	if err != nil {
		return err
	}
	if executor.HasFailures(outcomes) {
		return fmt.Errorf("%d of %d tasks failed", executor.CountFailed(outcomes), len(outcomes))
	}
	return nil
}

// loadConfig loads the config file and applies run-level flag overrides
func loadConfig(flags runFlags) (*config.Config, error) {
	mgr := config.NewManager(viper.ConfigFileUsed())
	cfg, err := mgr.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if w := viper.GetInt("workers"); w > 0 {
		cfg.Workers = w
	}
	if o := viper.GetString("output"); o != "" {
		cfg.OutputFormat = o
	}
	if viper.GetBool("no-color") {
		cfg.NoColor = true
	}
	if flags.updateSnapshots != "" {
		cfg.UpdateSnapshots = flags.updateSnapshots
	}
	if flags.pattern != "" {
		cfg.TestNamePattern = flags.pattern
	}
	if flags.withCoverage {
		cfg.Coverage.Enabled = true
	}

	return cfg, nil
}

// buildTasks creates one task per configured project, optionally restricted to
// a selection
func buildTasks(cfg *config.Config, selection []string) ([]executor.Task, error) {
	tasks := make([]executor.Task, 0, len(cfg.Projects))
	for i := range cfg.Projects {
		p := &cfg.Projects[i]
		if len(selection) > 0 && !slices.Contains(selection, p.Name) {
			continue
		}
		tasks = append(tasks, executor.Task{ID: p.Name, Project: p})
	}

	for _, name := range selection {
		if _, ok := cfg.ProjectByName(name); !ok {
			return nil, util.WrapErrorf(util.ErrProjectNotFound, "%q", name)
		}
	}

	return tasks, nil
}

// progressCallbacks wires a progress bar into the dispatch callbacks when
// stderr is a terminal. Callbacks fire from pool goroutines; the progress bar
// serializes its own updates.
func progressCallbacks(total int) executor.Callbacks {
	if !isatty.IsTerminal(os.Stderr.Fd()) || viper.GetBool("verbose") {
		return executor.Callbacks{}
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription("running tasks"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	return executor.Callbacks{
		OnResult:  func(executor.Task, *executor.Result) { bar.Add(1) },
		OnFailure: func(executor.Task, error) { bar.Add(1) },
	}
}

// render writes the outcome report to stdout in the configured format
func render(cfg *config.Config, wide bool, outcomes []executor.Outcome) error {
	formatter := output.NewFormatter(output.Format(cfg.OutputFormat),
		output.WithNoColor(cfg.NoColor),
		output.WithWide(wide),
	)
	return formatter.FormatOutcomes(os.Stdout, outcomes)
}
