package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyrange/safecpp/internal/check"
	"github.com/tinyrange/safecpp/internal/config"
)

func TestBitMask(t *testing.T) {
	t.Parallel()

	b := config.NewBitMask(config.Bounds, config.Pointer)
	assert.True(t, b.Enabled(config.Bounds))
	assert.False(t, b.Enabled(config.Memory))
	assert.True(t, b.Enabled(config.Pointer))

	b.Set(config.Memory, true)
	b.Set(config.Bounds, false)
	assert.Equal(t, config.Memory|config.Pointer, b.Value())

	b.Disable(config.Memory | config.Pointer)
	assert.True(t, b.Empty())
}

func TestParseCheckers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      []string
		want    config.Checker
		wantErr bool
	}{
		{"single", []string{"memory"}, config.Memory, false},
		{"list", []string{"bounds, Pointer"}, config.Bounds | config.Pointer, false},
		{"several", []string{"bounds", "memory"}, config.Bounds | config.Memory, false},
		{"all", []string{"all"}, config.AllCheckers, false},
		{"empty", []string{""}, 0, false},
		{"unknown", []string{"bounds,leaks"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := config.ParseCheckers(tt.in...)
			if tt.wantErr {
				require.ErrorIs(t, err, config.ErrUnknownChecker)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Value())
		})
	}
}

func TestCheckerString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "bounds,memory,pointer", config.AllCheckers.String())
	assert.Equal(t, "memory", config.Memory.String())
	assert.Empty(t, config.Checker(0).String())
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]config.Format{"": config.FormatText, "text": config.FormatText, "JSON": config.FormatJSON, "sarif": config.FormatSARIF} {
		got, err := config.ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}

	_, err := config.ParseFormat("xml")
	require.ErrorIs(t, err, config.ErrUnknownFormat)
}

func TestParse(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse([]byte(`
allocators: [xmalloc, pool_alloc]
deallocators: [xfree]
nulls: [NIL]
max_depth: 64
checkers: [memory, pointer]
format: sarif
`))
	require.NoError(t, err)

	assert.Equal(t, config.Memory|config.Pointer, cfg.Checkers.Value())
	assert.Equal(t, config.FormatSARIF, cfg.Format)
	assert.Equal(t, 64, cfg.Check.Depth())

	prims := cfg.Check.Primitives
	assert.True(t, prims.IsAlloc("xmalloc"))
	assert.True(t, prims.IsAlloc("malloc"))
	assert.True(t, prims.IsFree("xfree"))
	assert.True(t, prims.IsNull("NIL"))
	assert.True(t, prims.IsNull("nullptr"))

	assert.False(t, check.DefaultPrimitives().IsAlloc("xmalloc"), "defaults must stay untouched")
}

func TestParseDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown key", "colour: red\n", nil},
		{"bad checker", "checkers: [leaks]\n", config.ErrUnknownChecker},
		{"bad format", "format: xml\n", config.ErrUnknownFormat},
		{"negative depth", "max_depth: -1\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.Parse([]byte(tt.src))
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "safecpp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("checkers: bounds\n"), 0o600))

	_, err := config.Load(path)
	require.Error(t, err, "checkers must be a list")

	require.NoError(t, os.WriteFile(path, []byte("checkers: [bounds]\n"), 0o600))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Bounds, cfg.Checkers.Value())

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
