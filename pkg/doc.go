// Package pkg provides the core libraries for poetry-auto-add.
//
// # Overview
//
// poetry-auto-add migrates a Python project's dependency declarations into
// Poetry's pyproject.toml. The pkg directory is organized by concern:
//
//   - [resolve] - The resolution core: version directives, conflict policy,
//     add-with-fallback, run-scoped dedup and the outcome log.
//   - [poetry], [pipreqs], [venv] - External collaborators (Poetry, the
//     pipreqs scanner, the active virtualenv's pip).
//   - [requirements], [pyscan] - Candidate producers (requirements files,
//     static import scanning).
//   - [integrations] - The PyPI registry client used by --pin-latest.
//   - [cache] - Response cache backends (file, Redis, null).
//   - [execx], [errors], [buildinfo] - Process running, structured errors,
//     build metadata.
//
// # Data Flow
//
//	pipreqs / requirements.txt / static scan / pip freeze
//	         ↓  (candidates)
//	    [resolve] pipeline: normalize → resolve directive →
//	              manifest query → conflict policy → add w/ fallback
//	         ↓  (poetry add, poetry show --tree via [poetry])
//	    outcome log → final added/skipped report
//
// # Quick Start
//
//	runner := execx.NewRunner()
//	mgr := poetry.New(runner, ".")
//	pipe := resolve.NewPipeline(mgr, resolve.Options{})
//	candidates, _ := requirements.ParseFile("requirements.txt", nil)
//	report := pipe.ProcessAll(ctx, candidates)
//
// [resolve]: https://pkg.go.dev/github.com/therealaleph/poetry-auto-add/pkg/resolve
// [poetry]: https://pkg.go.dev/github.com/therealaleph/poetry-auto-add/pkg/poetry
// [pipreqs]: https://pkg.go.dev/github.com/therealaleph/poetry-auto-add/pkg/pipreqs
// [venv]: https://pkg.go.dev/github.com/therealaleph/poetry-auto-add/pkg/venv
// [requirements]: https://pkg.go.dev/github.com/therealaleph/poetry-auto-add/pkg/requirements
// [pyscan]: https://pkg.go.dev/github.com/therealaleph/poetry-auto-add/pkg/pyscan
// [integrations]: https://pkg.go.dev/github.com/therealaleph/poetry-auto-add/pkg/integrations
// [cache]: https://pkg.go.dev/github.com/therealaleph/poetry-auto-add/pkg/cache
// [execx]: https://pkg.go.dev/github.com/therealaleph/poetry-auto-add/pkg/execx
// [errors]: https://pkg.go.dev/github.com/therealaleph/poetry-auto-add/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/therealaleph/poetry-auto-add/pkg/buildinfo
package pkg
