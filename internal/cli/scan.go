package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/therealaleph/poetry-auto-add/pkg/integrations"
	"github.com/therealaleph/poetry-auto-add/pkg/poetry"
	"github.com/therealaleph/poetry-auto-add/pkg/pyscan"
	"github.com/therealaleph/poetry-auto-add/pkg/requirements"
	"github.com/therealaleph/poetry-auto-add/pkg/resolve"
	"github.com/therealaleph/poetry-auto-add/pkg/venv"
)

// scanOpts holds the command-line flags for the scan command.
type scanOpts struct {
	scanner string // static or requirements (pipreqs would write files)
	reqPath string
	dir     string
}

// newScanCmd creates the scan command: a dry run that discovers candidates
// and resolves their directives without touching the manifest.
func newScanCmd() *cobra.Command {
	opts := scanOpts{scanner: scannerStatic, dir: "."}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Preview discovered dependencies without modifying pyproject.toml",
		Long: `Scan discovers third-party libraries and prints the directive each would
be requested with, marking libraries pyproject.toml already declares.
Nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runScan(c.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.scanner, "scanner", opts.scanner, "candidate discovery: static or requirements")
	cmd.Flags().StringVar(&opts.reqPath, "requirements", "", "requirements file path (default <dir>/requirements.txt)")
	cmd.Flags().StringVarP(&opts.dir, "dir", "C", opts.dir, "project directory")

	return cmd
}

func runScan(ctx context.Context, opts *scanOpts) error {
	logger := loggerFromContext(ctx)
	warn := func(format string, args ...any) { logger.Warnf(format, args...) }

	var candidates []resolve.Candidate
	var err error
	switch opts.scanner {
	case scannerStatic:
		candidates, err = pyscan.Scan(opts.dir, warn)
	case scannerRequirements:
		path := opts.reqPath
		if path == "" {
			path = opts.dir + "/requirements.txt"
		}
		candidates, err = requirements.ParseFile(path, warn)
	default:
		return fmt.Errorf("unknown scanner: %s (available: %s, %s)",
			opts.scanner, scannerStatic, scannerRequirements)
	}
	if err != nil {
		return err
	}

	var index *venv.Index
	if venv.Detect() {
		if idx, err := venv.Load(ctx, newRunner()); err == nil {
			index = idx
		}
	}

	declared := make(map[string]bool)
	for _, name := range poetry.DeclaredInManifest(opts.dir) {
		declared[integrations.NormalizePkgName(name)] = true
	}

	seen := make(map[string]bool)
	count := 0
	for _, c := range candidates {
		name, ok := resolve.Normalize(c.Name)
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		count++

		directive := scanDirective(c, name, index)
		if declared[name] {
			printDetail("%s (already declared)", directive.Spec(name))
			continue
		}
		printInfo("%s", directive.Spec(name))
	}

	printDetail("%d candidates from %s scan", count, opts.scanner)
	return nil
}

// scanDirective mirrors the pipeline's resolution priority for display
// purposes: pin, specifier, then installed version.
func scanDirective(c resolve.Candidate, name string, index *venv.Index) resolve.Directive {
	if c.Pin != "" && c.Pin != "*" {
		return resolve.ExactVersion(c.Pin)
	}
	if c.Specifier != "" {
		return resolve.RangeSpec(c.Specifier)
	}
	if index != nil {
		if v, ok := index.InstalledVersion(name); ok {
			return resolve.ExactVersion(v)
		}
	}
	return resolve.NoConstraint()
}
