// Package config holds the analyzer settings: which checkers run, how the
// report is rendered and which names count as allocation primitives.
// Settings come from defaults, optionally overridden by a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tinyrange/safecpp/internal/check"
)

// Checker represents specific checkers.
type Checker uint8

const (
	// Bounds enables the literal-index array bounds checker.
	Bounds Checker = 1 << iota

	// Memory enables the allocation lifecycle tracker.
	Memory

	// Pointer enables the pointer state machine and call signature checks.
	Pointer

	AllCheckers = Bounds | Memory | Pointer
)

var checkerNames = [...]struct {
	name string
	flag Checker
}{
	{"bounds", Bounds},
	{"memory", Memory},
	{"pointer", Pointer},
}

func (c Checker) String() string {
	var names []string
	for _, cn := range checkerNames {
		if c&cn.flag != 0 {
			names = append(names, cn.name)
		}
	}
	return strings.Join(names, ",")
}

var (
	ErrUnknownChecker = errors.New("unknown checker")
	ErrUnknownFormat  = errors.New("unknown output format")
)

// ParseCheckers parses checker names. Each element may itself be a comma
// separated list; "all" selects every checker.
func ParseCheckers(names ...string) (BitMask[Checker], error) {
	var b BitMask[Checker]
	for _, list := range names {
		for _, name := range strings.Split(list, ",") {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			if name == "all" {
				b.Enable(AllCheckers)
				continue
			}
			flag, ok := lookupChecker(name)
			if !ok {
				return BitMask[Checker]{}, fmt.Errorf("%w: %q", ErrUnknownChecker, name)
			}
			b.Enable(flag)
		}
	}
	return b, nil
}

func lookupChecker(name string) (Checker, bool) {
	for _, cn := range checkerNames {
		if cn.name == name {
			return cn.flag, true
		}
	}
	return 0, false
}

// Format selects the report renderer.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatSARIF Format = "sarif"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatSARIF:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Config is the resolved configuration.
type Config struct {
	Checkers BitMask[Checker]
	Format   Format
	Check    check.Options
}

// Default enables every checker with text output and the built-in
// primitive tables.
func Default() Config {
	return Config{
		Checkers: NewBitMask(AllCheckers),
		Format:   FormatText,
		Check:    check.Options{Primitives: check.DefaultPrimitives(), MaxDepth: check.DefaultMaxDepth},
	}
}

// LogValue implements [slog.LogValuer].
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("checkers", c.Checkers.Value().String()),
		slog.String("format", string(c.Format)),
		slog.Int("max_depth", c.Check.Depth()),
		slog.Any("primitives", c.Check.Primitives),
	)
}

// file is the YAML layout of a configuration file. Every key is optional.
type file struct {
	Allocators   []string `yaml:"allocators"`
	Deallocators []string `yaml:"deallocators"`
	Nulls        []string `yaml:"nulls"`
	MaxDepth     int      `yaml:"max_depth"`
	Checkers     []string `yaml:"checkers"`
	Format       string   `yaml:"format"`
}

// Load reads a YAML configuration file and merges it over [Default].
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration and merges it over [Default]. Unknown
// keys are rejected. Primitive names extend the built-in tables.
func Parse(data []byte) (Config, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg := Default()
	cfg.Check.Primitives = cfg.Check.Primitives.Extend(f.Allocators, f.Deallocators, f.Nulls)
	if f.MaxDepth < 0 {
		return Config{}, fmt.Errorf("max_depth must not be negative, got %d", f.MaxDepth)
	}
	if f.MaxDepth > 0 {
		cfg.Check.MaxDepth = f.MaxDepth
	}
	if len(f.Checkers) > 0 {
		checkers, err := ParseCheckers(f.Checkers...)
		if err != nil {
			return Config{}, err
		}
		cfg.Checkers = checkers
	}
	if f.Format != "" {
		format, err := ParseFormat(f.Format)
		if err != nil {
			return Config{}, err
		}
		cfg.Format = format
	}
	return cfg, nil
}
