package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/therealaleph/poetry-auto-add/pkg/errors"
	"github.com/therealaleph/poetry-auto-add/pkg/execx"
	"github.com/therealaleph/poetry-auto-add/pkg/integrations/pypi"
	"github.com/therealaleph/poetry-auto-add/pkg/pipreqs"
	"github.com/therealaleph/poetry-auto-add/pkg/poetry"
	"github.com/therealaleph/poetry-auto-add/pkg/pyscan"
	"github.com/therealaleph/poetry-auto-add/pkg/requirements"
	"github.com/therealaleph/poetry-auto-add/pkg/resolve"
	"github.com/therealaleph/poetry-auto-add/pkg/venv"
)

// Scanner modes for candidate discovery.
const (
	scannerPipreqs      = "pipreqs"
	scannerStatic       = "static"
	scannerRequirements = "requirements"
)

// registryCacheTTL is how long PyPI responses are cached for --pin-latest.
const registryCacheTTL = 24 * time.Hour

// newRunner is a seam for tests to script external commands.
var newRunner = func() execx.Runner { return execx.NewRunner() }

// syncOpts holds the command-line flags for the sync command.
type syncOpts struct {
	overwrite bool   // re-declare dependencies that already exist
	assumeYes bool   // answer yes to setup prompts (manifest creation)
	scanner   string // candidate discovery mode
	reqPath   string // requirements file override
	dir       string // project directory
	skipVenv  bool   // ignore the active virtualenv
	pinLatest bool   // consult PyPI for unhinted candidates
	refresh   bool   // bypass the registry response cache
	noCache   bool   // disable the registry response cache
	redisAddr string // shared Redis cache address
}

// newSyncCmd creates the sync command, the tool's main operation.
func newSyncCmd() *cobra.Command {
	opts := syncOpts{scanner: scannerPipreqs, dir: "."}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Declare discovered dependencies in pyproject.toml",
		Long: `Sync discovers the project's third-party libraries and declares each in
pyproject.toml via poetry add.

Discovery runs pipreqs by default; --scanner selects static import scanning
or an existing requirements file instead. Libraries installed in the active
virtualenv are added as well unless --skip-venv is given.

Examples:
  poa sync                          # pipreqs scan, skip declared libraries
  poa sync --overwrite              # re-declare conflicting libraries
  poa sync --scanner static         # no pipreqs, scan imports directly
  poa sync --scanner requirements   # use ./requirements.txt as-is`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runSync(c.Context(), &opts)
		},
	}

	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "overwrite dependencies already declared in pyproject.toml")
	cmd.Flags().BoolVarP(&opts.assumeYes, "yes", "y", false, "answer yes to setup prompts")
	cmd.Flags().StringVar(&opts.scanner, "scanner", opts.scanner, "candidate discovery: pipreqs, static, or requirements")
	cmd.Flags().StringVar(&opts.reqPath, "requirements", "", "requirements file path (default <dir>/requirements.txt)")
	cmd.Flags().StringVarP(&opts.dir, "dir", "C", opts.dir, "project directory")
	cmd.Flags().BoolVar(&opts.skipVenv, "skip-venv", false, "do not add packages from the active virtualenv")
	cmd.Flags().BoolVar(&opts.pinLatest, "pin-latest", false, "pin unhinted libraries to the latest PyPI release")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the PyPI response cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the PyPI response cache")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "Redis address for a shared PyPI response cache")

	return cmd
}

// runSync executes the full migration: setup checks, candidate discovery,
// the resolution pipeline, manifest cleanup, and the final report.
func runSync(ctx context.Context, opts *syncOpts) error {
	logger := loggerFromContext(ctx).With("run", shortRunID())
	prog := newProgress(logger)

	runner := newRunner()
	mgr := poetry.New(runner, opts.dir)

	if err := setup(ctx, mgr, opts); err != nil {
		return err
	}

	candidates, err := discover(ctx, mgr, opts, logger)
	if err != nil {
		return err
	}
	logger.Debugf("discovered %d candidates", len(candidates))

	index := loadVenv(ctx, runner, opts, logger)
	if index != nil {
		candidates = append(candidates, index.Candidates()...)
	}

	pipe, err := newPipeline(ctx, mgr, index, opts, logger)
	if err != nil {
		return err
	}

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		outcome := pipe.Process(ctx, c)
		if outcome == nil {
			continue
		}
		switch outcome.Status {
		case resolve.StatusAdded:
			printSuccess("Added %s", outcome.Spec)
		case resolve.StatusSkipped:
			printDetail("Skipped %s: %s", outcome.Name, outcome.Reason)
		}
	}

	if removed, err := mgr.CleanupManifest(); err != nil {
		logger.Warnf("manifest cleanup failed: %v", err)
	} else if removed {
		printInfo(`Removed dangling readme entry from pyproject.toml`)
	}

	report := pipe.Report()
	printReport(report)
	prog.done(fmt.Sprintf("Processed %d candidates", len(candidates)))
	return nil
}

// setup verifies poetry is available and the manifest exists, creating it
// if the operator agrees. Failures here abort the run before any work.
func setup(ctx context.Context, mgr *poetry.Client, opts *syncOpts) error {
	if err := mgr.VersionCheck(ctx); err != nil {
		return err
	}
	if mgr.ManifestExists() {
		return nil
	}

	decider := newDecider(opts.assumeYes)
	yes, err := decider.Confirm(ctx, poetry.ManifestFile+" not found. Create one with 'poetry init'?")
	if err != nil || !yes {
		return errors.New(errors.ErrCodeManifestDeclined,
			"cannot continue without %s", poetry.ManifestFile)
	}

	sp := newSpinner(ctx, "Creating "+poetry.ManifestFile)
	sp.Start()
	err = mgr.Init(ctx)
	sp.Stop()
	if err != nil {
		return err
	}
	printSuccess("%s created", poetry.ManifestFile)
	return nil
}

// discover produces the candidate list according to the selected scanner.
func discover(ctx context.Context, mgr *poetry.Client, opts *syncOpts, logger *log.Logger) ([]resolve.Candidate, error) {
	warn := func(format string, args ...any) { logger.Warnf(format, args...) }

	switch opts.scanner {
	case scannerPipreqs:
		tool := pipreqs.New(mgr, opts.dir)
		installed, err := tool.EnsureInstalled(ctx)
		if err != nil {
			return nil, err
		}
		if installed {
			logger.Info("Installed pipreqs into the poetry environment")
		}
		sp := newSpinner(ctx, "Running pipreqs")
		sp.Start()
		path, err := tool.Generate(ctx, opts.overwrite)
		sp.Stop()
		if err != nil {
			return nil, err
		}
		return requirements.ParseFile(path, warn)

	case scannerRequirements:
		path := opts.reqPath
		if path == "" {
			path = opts.dir + "/requirements.txt"
		}
		return requirements.ParseFile(path, warn)

	case scannerStatic:
		return pyscan.Scan(opts.dir, warn)

	default:
		return nil, fmt.Errorf("unknown scanner: %s (available: %s, %s, %s)",
			opts.scanner, scannerPipreqs, scannerStatic, scannerRequirements)
	}
}

// loadVenv captures the active virtualenv's packages, or nil when no
// environment is active or the freeze fails.
func loadVenv(ctx context.Context, runner execx.Runner, opts *syncOpts, logger *log.Logger) *venv.Index {
	if opts.skipVenv {
		return nil
	}
	if !venv.Detect() {
		logger.Info("No Python virtual environment detected, skipping venv packages")
		return nil
	}
	index, err := venv.Load(ctx, runner)
	if err != nil {
		logger.Warnf("Could not retrieve packages from the active venv: %v", err)
		return nil
	}
	logger.Debugf("virtualenv reports %d installed packages", index.Len())
	return index
}

// newPipeline wires the resolution pipeline from the command options.
func newPipeline(ctx context.Context, mgr *poetry.Client, index *venv.Index, opts *syncOpts, logger *log.Logger) (*resolve.Pipeline, error) {
	popts := resolve.Options{
		Overwrite: opts.overwrite,
		Refresh:   opts.refresh,
		Logger:    func(format string, args ...any) { logger.Warnf(format, args...) },
	}
	if index != nil {
		popts.Index = index
	}
	if !opts.overwrite {
		popts.Decider = newDecider(false)
	}
	if opts.pinLatest {
		registry, err := newRegistry(ctx, opts)
		if err != nil {
			return nil, err
		}
		popts.Registry = registry
	}
	return resolve.NewPipeline(mgr, popts), nil
}

// newRegistry builds the PyPI client behind --pin-latest.
func newRegistry(ctx context.Context, opts *syncOpts) (resolve.Registry, error) {
	backend, err := newCache(ctx, opts.noCache, opts.redisAddr)
	if err != nil {
		return nil, fmt.Errorf("registry cache: %w", err)
	}
	return pypi.NewClient(backend, registryCacheTTL), nil
}

// shortRunID returns a compact unique identifier for this run's log lines.
func shortRunID() string {
	return uuid.NewString()[:8]
}
