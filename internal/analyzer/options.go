package analyzer

import (
	"log/slog"

	"github.com/tinyrange/safecpp/internal/check"
	"github.com/tinyrange/safecpp/internal/config"
)

// Option configures an [Analyzer].
type Option interface {
	apply(r *runOptions)
	LogAttr() slog.Attr
}

// Options is a list of [Option] values that itself satisfies the [Option] interface.
type Options []Option

// LogValue implements [slog.LogValuer].
func (o Options) LogValue() slog.Value {
	as := make([]slog.Attr, 0, len(o))
	as = appendOptions(as, o)

	return slog.GroupValue(as...)
}

func appendOptions(as []slog.Attr, o Options) []slog.Attr {
	for _, opt := range o {
		switch opt := opt.(type) {
		case nil:
			as = append(as, slog.String("nil", "<nil>"))

		case Options:
			as = appendOptions(as, opt)

		default:
			as = append(as, opt.LogAttr())
		}
	}

	return as
}

func (o Options) apply(r *runOptions) {
	for _, opt := range o {
		if opt == nil {
			continue
		}

		opt.apply(r)
	}
}

func (o Options) LogAttr() slog.Attr {
	return slog.Any("options", o)
}

type runOptions struct {
	checkers    config.BitMask[config.Checker]
	check       check.Options
	concurrency int
	logger      *slog.Logger
}

func defaultRunOptions() *runOptions {
	return &runOptions{
		checkers: config.NewBitMask(config.AllCheckers),
		logger:   slog.Default(),
	}
}

// WithConfig applies the checkers, primitives and depth limit of cfg.
func WithConfig(cfg config.Config) Option { return configOption{cfg: cfg} }

type configOption struct{ cfg config.Config }

func (o configOption) apply(r *runOptions) {
	r.checkers = o.cfg.Checkers
	r.check = o.cfg.Check
}

func (o configOption) LogAttr() slog.Attr {
	return slog.Any("config", o.cfg)
}

// WithCheckers selects the checkers to run.
func WithCheckers(checkers config.Checker) Option { return checkersOption{checkers: checkers} }

type checkersOption struct{ checkers config.Checker }

func (o checkersOption) apply(r *runOptions) {
	r.checkers = config.NewBitMask(o.checkers)
}

func (o checkersOption) LogAttr() slog.Attr {
	return slog.String("checkers", o.checkers.String())
}

// WithPrimitives replaces the allocation primitive tables.
func WithPrimitives(p check.Primitives) Option { return primitivesOption{prims: p} }

type primitivesOption struct{ prims check.Primitives }

func (o primitivesOption) apply(r *runOptions) {
	r.check.Primitives = o.prims
}

func (o primitivesOption) LogAttr() slog.Attr {
	return slog.Any("primitives", o.prims)
}

// WithMaxDepth bounds checker recursion. Values <= 0 select [check.DefaultMaxDepth].
func WithMaxDepth(depth int) Option { return maxDepthOption{depth: depth} }

type maxDepthOption struct{ depth int }

func (o maxDepthOption) apply(r *runOptions) {
	r.check.MaxDepth = o.depth
}

func (o maxDepthOption) LogAttr() slog.Attr {
	return slog.Int("maxDepth", o.depth)
}

// WithConcurrency limits how many checkers run at once. Values <= 0 run all
// enabled checkers concurrently; 1 runs them one after another.
func WithConcurrency(n int) Option { return concurrencyOption{n: n} }

type concurrencyOption struct{ n int }

func (o concurrencyOption) apply(r *runOptions) {
	r.concurrency = o.n
}

func (o concurrencyOption) LogAttr() slog.Attr {
	return slog.Int("concurrency", o.n)
}

// WithLogger sets the logger for per-checker debug records.
func WithLogger(l *slog.Logger) Option { return loggerOption{logger: l} }

type loggerOption struct{ logger *slog.Logger }

func (o loggerOption) apply(r *runOptions) {
	if o.logger != nil {
		r.logger = o.logger
	}
}

func (o loggerOption) LogAttr() slog.Attr {
	return slog.Bool("logger", o.logger != nil)
}
