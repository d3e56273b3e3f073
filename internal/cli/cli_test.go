package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/asttree/pkg/diagram"
	"github.com/matzehuels/asttree/pkg/errors"
	"github.com/matzehuels/asttree/pkg/observability"
	"github.com/matzehuels/asttree/pkg/pipeline"
)

const sampleAST = `{"nodes_count": 3, "nodes": [
	{"index": 1, "category": "function", "children": [{"index": 2, "category": "variable"}]},
	{"index": 3, "category": "require"}
]}`

// testEnv isolates config lookup and returns a directory holding ast.json.
func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("ASTTREE_CACHE_BACKEND", "memory")
	for _, name := range []string{"ASTTREE_ORIENTATION", "ASTTREE_FORMATS", "ASTTREE_WIDTH", "ASTTREE_HEIGHT", "ASTTREE_PALETTE_FILE"} {
		t.Setenv(name, "")
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ast.json"), []byte(sampleAST), 0o644))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	c := New(&logs, LogInfo)
	c.SetOutput(&out)
	err := c.Execute(context.Background(), args)
	return out.String(), err
}

func TestLayoutCommand(t *testing.T) {
	dir := testEnv(t)
	input := filepath.Join(dir, "ast.json")

	out, err := run(t, "layout", input, "--orientation", "horizontal")
	require.NoError(t, err)
	assert.Contains(t, out, "Layout complete")
	assert.Contains(t, out, "4 nodes")

	l, err := diagram.ReadFile(filepath.Join(dir, "ast.layout.json"))
	require.NoError(t, err)
	assert.Equal(t, "horizontal", string(l.Orientation))
	assert.Len(t, l.Nodes, 4)
	assert.Len(t, l.Edges, 3)
}

func TestRenderCommand(t *testing.T) {
	dir := testEnv(t)
	input := filepath.Join(dir, "ast.json")
	base := filepath.Join(dir, "out", "tree")
	require.NoError(t, os.MkdirAll(filepath.Dir(base), 0o755))

	out, err := run(t, "render", input, "-f", "svg,dot,json", "-o", base)
	require.NoError(t, err)
	assert.Contains(t, out, "Rendered 3 file(s)")

	svg, err := os.ReadFile(base + ".svg")
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")

	dot, err := os.ReadFile(base + ".dot")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(dot), "graph G {"))

	_, err = diagram.ReadFile(base + ".json")
	assert.NoError(t, err)
}

func TestRenderCommandSingleOutput(t *testing.T) {
	dir := testEnv(t)
	target := filepath.Join(dir, "diagram.image")

	_, err := run(t, "render", filepath.Join(dir, "ast.json"), "-o", target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestVisualizeCommand(t *testing.T) {
	dir := testEnv(t)
	input := filepath.Join(dir, "ast.json")

	_, err := run(t, "layout", input)
	require.NoError(t, err)

	out, err := run(t, "visualize", filepath.Join(dir, "ast.layout.json"), "-f", "svg")
	require.NoError(t, err)
	assert.Contains(t, out, "Visualization complete")

	_, err = os.Stat(filepath.Join(dir, "ast.svg"))
	assert.NoError(t, err)
}

func TestCommandErrors(t *testing.T) {
	dir := testEnv(t)
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"nodes_count": 2, "nodes": [{"index": 1}, {"index": 2}, {"index": 3}]}`), 0o644))

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing input", []string{"layout", filepath.Join(dir, "nope.json")}, errors.ErrCodeFileNotFound},
		{"schema error", []string{"layout", bad}, errors.ErrCodeInvalidSchema},
		{"bad format", []string{"render", filepath.Join(dir, "ast.json"), "-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"bad orientation", []string{"render", filepath.Join(dir, "ast.json"), "--orientation", "diagonal"}, errors.ErrCodeInvalidOrientation},
		{"bad engine", []string{"render", filepath.Join(dir, "ast.json"), "--engine", "cairo"}, errors.ErrCodeInvalidInput},
		{"missing layout", []string{"visualize", filepath.Join(dir, "nope.layout.json")}, errors.ErrCodeFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "error %v should carry %s", err, tt.code)
		})
	}
}

func TestVerboseRegistersHooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	dir := testEnv(t)

	_, err := run(t, "-v", "layout", filepath.Join(dir, "ast.json"))
	require.NoError(t, err)
	_, isDebug := observability.Pipeline().(*debugHooks)
	assert.True(t, isDebug)
}

func TestPaletteCommand(t *testing.T) {
	testEnv(t)

	out, err := run(t, "palette")
	require.NoError(t, err)
	for _, name := range []string{"root", "line", "function", "require", "other"} {
		assert.Contains(t, out, name)
	}

	out, err = run(t, "palette", "--toml")
	require.NoError(t, err)
	assert.Contains(t, out, "[categories]")
	assert.Contains(t, out, `root = "#`)
}

func TestPaletteFlag(t *testing.T) {
	dir := testEnv(t)
	pal := filepath.Join(dir, "pal.toml")
	require.NoError(t, os.WriteFile(pal, []byte("[categories]\nfunction = \"#123456\"\n"), 0o644))

	_, err := run(t, "layout", filepath.Join(dir, "ast.json"), "--palette", pal)
	require.NoError(t, err)

	l, err := diagram.ReadFile(filepath.Join(dir, "ast.layout.json"))
	require.NoError(t, err)
	assert.Equal(t, "#123456", l.Nodes[1].Color)
}

func TestCacheCommands(t *testing.T) {
	dir := testEnv(t)
	t.Setenv("ASTTREE_CACHE_BACKEND", "file")
	t.Setenv("ASTTREE_CACHE_DIR", filepath.Join(dir, "store"))

	out, err := run(t, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "store"), strings.TrimSpace(out))

	_, err = run(t, "layout", filepath.Join(dir, "ast.json"))
	require.NoError(t, err)
	entries, err := os.ReadDir(filepath.Join(dir, "store"))
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	out, err = run(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache cleared")
	entries, _ = os.ReadDir(filepath.Join(dir, "store"))
	assert.Empty(t, entries)
}

func TestCacheClearNullBackend(t *testing.T) {
	testEnv(t)
	t.Setenv("ASTTREE_CACHE_BACKEND", "none")

	out, err := run(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to clear")
}

func TestConfigFlag(t *testing.T) {
	dir := testEnv(t)
	cfgPath := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[render]\norientation = \"horizontal\"\n"), 0o644))

	_, err := run(t, "--config", cfgPath, "layout", filepath.Join(dir, "ast.json"))
	require.NoError(t, err)
	l, err := diagram.ReadFile(filepath.Join(dir, "ast.layout.json"))
	require.NoError(t, err)
	assert.Equal(t, "horizontal", string(l.Orientation))

	_, err = run(t, "--config", filepath.Join(dir, "missing.toml"), "palette")
	assert.Error(t, err)
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "ast.json", "ast"},
		{"", "dir/ast.layout.json", "dir/ast"},
		{"out.svg", "ast.json", "out"},
		{"out", "ast.json", "out"},
		{"out.txt", "ast.json", "out.txt"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	single := outputPaths("x.img", "ast.json", []string{pipeline.FormatSVG})
	assert.Equal(t, map[string]string{"svg": "x.img"}, single)

	multi := outputPaths("", "ast.json", []string{pipeline.FormatSVG, pipeline.FormatDOT})
	assert.Equal(t, map[string]string{"svg": "ast.svg", "dot": "ast.dot"}, multi)
}

func TestSourceName(t *testing.T) {
	assert.Equal(t, "ast.json", sourceName("https://example.com/trees/ast.json"))
	assert.Equal(t, "dir/ast.json", sourceName("dir/ast.json"))
}

func TestCompletionCommand(t *testing.T) {
	out, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "bash completion")
}
