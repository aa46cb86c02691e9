// Package analyzer runs the enabled checkers over a parsed file and merges
// their diagnostics.
//
// Checkers share only the read-only syntax tree, so they run concurrently.
// The merged list is always ordered bounds, memory, pointer regardless of
// which checker finishes first.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/trace"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tinyrange/safecpp/internal/ast"
	"github.com/tinyrange/safecpp/internal/check"
	"github.com/tinyrange/safecpp/internal/check/bounds"
	"github.com/tinyrange/safecpp/internal/check/memory"
	"github.com/tinyrange/safecpp/internal/check/pointer"
	"github.com/tinyrange/safecpp/internal/config"
	"github.com/tinyrange/safecpp/internal/diag"
)

type checker struct {
	name string
	flag config.Checker
	run  func(check.Options, *ast.File) (diag.List, error)
}

// checkers in merge order.
var checkers = [...]checker{
	{bounds.Name, config.Bounds, func(o check.Options, f *ast.File) (diag.List, error) {
		return bounds.Checker{Options: o}.AnalyzeFile(f)
	}},
	{memory.Name, config.Memory, func(o check.Options, f *ast.File) (diag.List, error) {
		return memory.Checker{Options: o}.AnalyzeFile(f)
	}},
	{pointer.Name, config.Pointer, func(o check.Options, f *ast.File) (diag.List, error) {
		return pointer.Checker{Options: o}.AnalyzeFile(f)
	}},
}

// Analyzer is a configured set of checkers. It is safe for concurrent use.
type Analyzer struct {
	r *runOptions
}

func New(opts ...Option) *Analyzer {
	r := defaultRunOptions()
	Options(opts).apply(r)

	return &Analyzer{r: r}
}

// Run analyzes f with a new [Analyzer] configured by opts.
func Run(ctx context.Context, f *ast.File, opts ...Option) (diag.List, error) {
	return New(opts...).Run(ctx, f)
}

// Run executes the enabled checkers. The first structural error of any
// checker, or the cancellation of ctx, aborts the run and no diagnostics
// are returned.
func (a *Analyzer) Run(ctx context.Context, f *ast.File) (diag.List, error) {
	if f == nil {
		return nil, diag.Malformed("analyzer", "nil file")
	}

	ctx, task := trace.NewTask(ctx, "safecpp.Analyze")
	defer task.End()

	if a.r.checkers.Empty() {
		a.r.logger.LogAttrs(ctx, slog.LevelWarn, "no checkers enabled")
	}

	results := make([]diag.List, len(checkers))

	g, ctx := errgroup.WithContext(ctx)
	if a.r.concurrency > 0 {
		g.SetLimit(a.r.concurrency)
	}
	for i, c := range checkers {
		if !a.r.checkers.Enabled(c.flag) {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%s: %w", c.name, err)
			}

			start := time.Now()
			var (
				list diag.List
				err  error
			)
			trace.WithRegion(ctx, c.name, func() {
				list, err = c.run(a.r.check, f)
			})
			if err != nil {
				return err
			}

			a.r.logger.LogAttrs(ctx, slog.LevelDebug, "checker finished",
				slog.String("checker", c.name),
				slog.Int("diagnostics", len(list)),
				slog.Duration("elapsed", time.Since(start)))
			results[i] = list

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged diag.List
	for _, list := range results {
		merged = append(merged, list...)
	}

	return merged, nil
}
