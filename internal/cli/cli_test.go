package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubersicht-tools/widgetset/internal/core"
	"github.com/ubersicht-tools/widgetset/internal/plugins/strategy"
	"github.com/ubersicht-tools/widgetset/internal/prompts"
	"github.com/ubersicht-tools/widgetset/internal/report"
)

type workspace struct {
	dir    string
	config string
}

// newWorkspace lays out four eligible widgets and a CoffeeScript one that the
// CSV does not mark as JSX.
func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	dir := t.TempDir()
	w := &workspace{dir: dir}

	widgets := map[string]string{
		"clock":   `export const command = "date"; export const refreshFrequency = 1000;`,
		"weather": `export const command = "curl -s https://wttr.in/?format=3";`,
		"big":     strings.Repeat("export const line = 'abcdefghijklmnopqrstuvwxyz012345';\n", 350),
		"huge":    strings.Repeat("x", 40000),
		"legacy":  `command: "date"`,
	}
	for id, code := range widgets {
		folder := filepath.Join(dir, "downloads", id+".widget")
		require.NoError(t, os.MkdirAll(folder, 0o755))
		name := "index.jsx"
		if id == "legacy" {
			name = "index.coffee"
		}
		require.NoError(t, os.WriteFile(filepath.Join(folder, name), []byte(code), 0o644))
	}

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "prompts"), 0o755))
	for _, id := range []string{"clock", "weather", "big", "huge"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "prompts", id+".prompt"), []byte("Make a "+id+" widget\n"), 0o644))
	}

	csv := "OS_widget_id,PS_widgetfoldername,PS_isJSX\n" +
		"clock,clock.widget,Y\n" +
		"weather,weather.widget,Y\n" +
		"big,big.widget,Y\n" +
		"huge,huge.widget,Y\n" +
		"legacy,legacy.widget,N\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widgets.csv"), []byte(csv), 0o644))

	w.config = filepath.Join(dir, "config.yaml")
	config := fmt.Sprintf(`csv_file: %s
downloads_dir: %s
prompts_dir: %s
datasets_dir: %s
reports_dir: %s
strategy_file: %s
seed: 62
`, w.path("widgets.csv"), w.path("downloads"), w.path("prompts"), w.path("datasets"), w.path("reports"), w.path(strategy.DefaultFile))
	require.NoError(t, os.WriteFile(w.config, []byte(config), 0o644))
	return w
}

func (w *workspace) path(name ...string) string {
	return filepath.Join(append([]string{w.dir}, name...)...)
}

func (w *workspace) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := newApp(&out)
	a.lookupEnv = envMap(nil)
	a.styles = report.PlainStyles()
	root := a.rootCommand("test")
	root.SetArgs(append([]string{"--config", w.config}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestAnalyzeSources(t *testing.T) {
	w := newWorkspace(t)
	out, err := w.run(t, "analyze", "sources")
	require.NoError(t, err)
	assert.Contains(t, out, report.SourcesFile)

	data, err := os.ReadFile(w.path("reports", report.SourcesFile))
	require.NoError(t, err)
	var sources map[string]report.WidgetSources
	require.NoError(t, json.Unmarshal(data, &sources))

	require.Contains(t, sources, "legacy")
	assert.Equal(t, 1, sources["legacy"].CoffeeCount)
	assert.Equal(t, 0, sources["legacy"].JSXCount)
	assert.True(t, sources["weather"].Sources.Has("weather"))

	data, err = os.ReadFile(w.path("reports", report.CategoriesFile))
	require.NoError(t, err)
	var categories map[string]report.CategoryWidgets
	require.NoError(t, json.Unmarshal(data, &categories))
	assert.Contains(t, categories["time"].Widgets, "clock")
}

func TestAnalyzeURLs(t *testing.T) {
	w := newWorkspace(t)
	out, err := w.run(t, "analyze", "urls")
	require.NoError(t, err)
	assert.Contains(t, out, "https://wttr.in")

	data, err := os.ReadFile(w.path("reports", report.URLsFile))
	require.NoError(t, err)
	var groups map[string]struct {
		URLs    []string `json:"urls"`
		Widgets []string `json:"widgets"`
	}
	require.NoError(t, json.Unmarshal(data, &groups))
	assert.Equal(t, []string{"https://wttr.in"}, groups["weather"].URLs)
	assert.Equal(t, []string{"weather"}, groups["weather"].Widgets)
}

func TestAnalyzeSizesAndSuggestStrategy(t *testing.T) {
	w := newWorkspace(t)
	out, err := w.run(t, "analyze", "sizes")
	require.NoError(t, err)
	assert.Contains(t, out, "huge")

	data, err := os.ReadFile(w.path("reports", report.SizesFile))
	require.NoError(t, err)
	var analysis struct {
		TotalWidgets   int `json:"total_widgets"`
		ExceedingLimit int `json:"exceeding_limit"`
		Extreme        int `json:"extreme"`
	}
	require.NoError(t, json.Unmarshal(data, &analysis))
	assert.Equal(t, 4, analysis.TotalWidgets)
	assert.Equal(t, 2, analysis.ExceedingLimit)
	assert.Equal(t, 1, analysis.Extreme)

	_, err = w.run(t, "strategy", "suggest")
	require.NoError(t, err)

	resolver := strategy.Load(w.path(strategy.DefaultFile))
	assert.Equal(t, strategy.ActionExclude, resolver.Lookup("huge").Action)
	assert.Equal(t, strategy.ActionTruncate, resolver.Lookup("big").Action)
	assert.Equal(t, strategy.ActionKeep, resolver.Lookup("clock").Action)

	out, err = w.run(t, "build", "--set", "hybrid")
	require.NoError(t, err)
	assert.Contains(t, out, w.path("datasets", "hybrid"))

	data, err = os.ReadFile(w.path("datasets", "hybrid", core.ManifestFile))
	require.NoError(t, err)
	var manifest core.Manifest
	require.NoError(t, json.Unmarshal(data, &manifest))
	assert.Equal(t, []string{"huge"}, manifest.Excluded)
	assert.Equal(t, []string{"big"}, manifest.Truncated)
	assert.Equal(t, int64(62), manifest.Seed)
	assert.Equal(t, strategy.DefaultFile, manifest.StrategyFile)
}

func TestBuildIsReproducible(t *testing.T) {
	w := newWorkspace(t)
	_, err := w.run(t, "build", "--set", "a")
	require.NoError(t, err)
	_, err = w.run(t, "build", "--set", "b", "--system-prompt", "default")
	require.NoError(t, err)

	for _, name := range []string{"train.jsonl", "valid.jsonl", "test.jsonl"} {
		a, err := os.ReadFile(w.path("datasets", "a", name))
		require.NoError(t, err)
		b, err := os.ReadFile(w.path("datasets", "b", name))
		require.NoError(t, err)
		assert.Equal(t, a, b, name)
	}
}

func TestBuildRejectsUnknownSystemPrompt(t *testing.T) {
	w := newWorkspace(t)
	_, err := w.run(t, "build", "--set", "x", "--system-prompt", "verbose")

	var cfgErr *prompts.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"compact", "default", "minimal"}, cfgErr.Available)
	assert.NoDirExists(t, w.path("datasets"))
}

func TestBuildRequiresSet(t *testing.T) {
	w := newWorkspace(t)
	_, err := w.run(t, "build")
	assert.Error(t, err)

	_, err = w.run(t, "build", "--set", "../escape")
	assert.Error(t, err)
	assert.NoDirExists(t, w.path("escape"))
}

func TestBuildFailsOnMissingColumn(t *testing.T) {
	w := newWorkspace(t)
	require.NoError(t, os.WriteFile(w.path("widgets.csv"), []byte("id,folder\nclock,clock.widget\n"), 0o644))

	_, err := w.run(t, "build", "--set", "x")
	require.Error(t, err)
	assert.NoDirExists(t, w.path("datasets"))
}

func TestPromptsList(t *testing.T) {
	w := newWorkspace(t)
	out, err := w.run(t, "prompts", "list", "--system-prompt", "compact")
	require.NoError(t, err)
	assert.Equal(t, "* compact\n  default\n  minimal\n", out)

	out, err = w.run(t, "prompts", "show", "minimal")
	require.NoError(t, err)
	assert.Contains(t, out, "Übersicht")
}
