package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

func runTest(t *testing.T, args ...string) runResult {
	t.Helper()

	var stdout, stderr strings.Builder
	code := run(append([]string{"safecpp"}, args...), &stdout, &stderr)
	return runResult{stdout.String(), stderr.String(), code}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const clean = `#include <cstdlib>

int main() {
	int *x = new int;
	*x = 42;
	int y = *x;
	delete x;
	return y;
}
`

const faulty = `int main() {
	int a[3];
	a[5] = 1;
	int *x = new int;
	delete x;
	delete x;
	return 0;
}
`

func TestUsage(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{nil, {"a.cpp", "b.cpp"}} {
		res := runTest(t, args...)
		assert.Equal(t, 1, res.ExitCode)
		assert.Equal(t, "Usage: safecpp [options] <input_file>\n", res.Stderr)
		assert.Empty(t, res.Stdout)
	}
}

func TestClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"lifecycle", clean},
		{"address of local", "int main() { int x; int *p = &x; *p = 1; return x; }"},
		{"parameter hides global array", "int a[3];\nvoid f(int *a) { a[5] = 1; }"},
		{"local pointer hides global array", "int a[3];\nvoid f() { int *a = new int[10]; a[5] = 1; delete[] a; }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := runTest(t, writeFile(t, "clean.cpp", tt.src))
			assert.Equal(t, 0, res.ExitCode, res.Stderr)
			assert.Equal(t, "No memory issues detected.\n", res.Stdout)
			assert.Empty(t, res.Stderr)
		})
	}
}

func TestFindings(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "faulty.cpp", faulty)

	res := runTest(t, path)
	assert.Equal(t, 1, res.ExitCode)
	assert.Empty(t, res.Stdout)
	assert.Equal(t, "Error: Array access out of bounds for 'a': index 5, capacity 3\n", res.Stderr)

	res = runTest(t, "--all", path)
	assert.Equal(t, 1, res.ExitCode)
	assert.Equal(t, "Error: Array access out of bounds for 'a': index 5, capacity 3\n"+
		"Error: Double free attempt on variable: x\n"+
		"Error: Double free of pointer 'x'\n", res.Stderr)

	res = runTest(t, "--checkers", "pointer", path)
	assert.Equal(t, 1, res.ExitCode)
	assert.Equal(t, "Error: Double free of pointer 'x'\n", res.Stderr)

	res = runTest(t, "--checkers", "bounds", "--all", writeFile(t, "clean.cpp", clean))
	assert.Equal(t, 0, res.ExitCode)
}

func TestJSONFormat(t *testing.T) {
	t.Parallel()

	res := runTest(t, "--format", "json", writeFile(t, "faulty.cpp", faulty))
	assert.Equal(t, 1, res.ExitCode)

	var out struct {
		OK          bool `json:"ok"`
		Diagnostics []struct {
			Checker string `json:"checker"`
			Kind    string `json:"kind"`
		} `json:"diagnostics"`
	}
	require.NoError(t, jsoniter.UnmarshalFromString(res.Stdout, &out))
	assert.False(t, out.OK)
	require.Len(t, out.Diagnostics, 3)
	assert.Equal(t, "OutOfBounds", out.Diagnostics[0].Kind)
	assert.Equal(t, "memory", out.Diagnostics[1].Checker)
	assert.Equal(t, "pointer", out.Diagnostics[2].Checker)
}

func TestSARIFFormat(t *testing.T) {
	t.Parallel()

	res := runTest(t, "-f", "sarif", writeFile(t, "clean.cpp", clean))
	assert.Equal(t, 0, res.ExitCode)

	var out struct {
		Version string `json:"version"`
		Runs    []struct {
			Results []any `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, jsoniter.UnmarshalFromString(res.Stdout, &out))
	assert.Equal(t, "2.1.0", out.Version)
	require.Len(t, out.Runs, 1)
	assert.NotNil(t, out.Runs[0].Results)
	assert.Empty(t, out.Runs[0].Results)
}

func TestConfigFile(t *testing.T) {
	t.Parallel()

	src := writeFile(t, "pool.cpp", `
void work() {
	int *p = pool_get(16);
	pool_put(p);
	pool_put(p);
}
`)
	res := runTest(t, src)
	assert.Equal(t, 0, res.ExitCode, res.Stdout)

	cfg := writeFile(t, "safecpp.yaml", "allocators: [pool_get]\ndeallocators: [pool_put]\ncheckers: [memory]\n")
	res = runTest(t, "--config", cfg, src)
	assert.Equal(t, 1, res.ExitCode)
	assert.Equal(t, "Error: Double free attempt on variable: p\n", res.Stderr)

	res = runTest(t, "--config", cfg, "--checkers", "bounds", src)
	assert.Equal(t, 0, res.ExitCode)
}

func TestErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{filepath.Join(t.TempDir(), "missing.cpp")}, "Error: open "},
		{"parse error", []string{writeFile(t, "bad.cpp", "int main( {")}, "Error: bad.cpp:1:"},
		{"bad format", []string{"--format", "xml", writeFile(t, "ok.cpp", clean)}, "Error: unknown output format"},
		{"bad checker", []string{"--checkers", "leaks", writeFile(t, "ok.cpp", clean)}, "Error: unknown checker"},
		{"too deep", []string{"--max-depth", "3", writeFile(t, "deep.cpp", "int main() { { { { { return 0; } } } } }")}, "Error: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := runTest(t, tt.args...)
			assert.Equal(t, 1, res.ExitCode)
			assert.Empty(t, res.Stdout)
			assert.True(t, strings.HasPrefix(res.Stderr, tt.want), "stderr %q", res.Stderr)
		})
	}
}

func TestVerbose(t *testing.T) {
	t.Parallel()

	res := runTest(t, "-v", writeFile(t, "clean.cpp", clean))
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stderr, "level=DEBUG")
	assert.Contains(t, res.Stderr, "checker=pointer")
}

func TestTokens(t *testing.T) {
	t.Parallel()

	res := runTest(t, "--tokens", writeFile(t, "tok.cpp", "int *p;\n"))
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "1:1\tKW_INT\t\"int\"\n"+
		"1:5\tSTAR\t\"*\"\n"+
		"1:6\tIDENT\t\"p\"\n"+
		"1:7\tSEMI\t\";\"\n"+
		"2:0\tEOF\t\"\"\n", res.Stdout)
}
