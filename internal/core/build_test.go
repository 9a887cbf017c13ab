package core

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubersicht-tools/widgetset/internal/corpus"
	"github.com/ubersicht-tools/widgetset/internal/domain"
	"github.com/ubersicht-tools/widgetset/internal/plugins/db/fsdb"
	"github.com/ubersicht-tools/widgetset/internal/plugins/strategy"
	"github.com/ubersicht-tools/widgetset/internal/sizing"
)

type fixture struct {
	root      string
	downloads string
	prompts   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{root: root, downloads: filepath.Join(root, "downloads"), prompts: filepath.Join(root, "prompts")}
	require.NoError(t, os.MkdirAll(f.downloads, 0o755))
	require.NoError(t, os.MkdirAll(f.prompts, 0o755))
	return f
}

func (f *fixture) widget(t *testing.T, id, prompt, code string) domain.WidgetRow {
	t.Helper()
	folder := id + ".widget"
	require.NoError(t, os.MkdirAll(filepath.Join(f.downloads, folder), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.downloads, folder, "index.jsx"), []byte(code), 0o644))
	if prompt != "" {
		require.NoError(t, os.WriteFile(filepath.Join(f.prompts, id+".prompt"), []byte(prompt), 0o644))
	}
	return domain.WidgetRow{ID: id, Folder: folder}
}

func (f *fixture) strategy(t *testing.T, content string) *strategy.Resolver {
	t.Helper()
	path := filepath.Join(f.root, strategy.DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return strategy.Load(path)
}

func (f *fixture) builder(t *testing.T, resolver *strategy.Resolver) *Builder {
	t.Helper()
	estimator := sizing.Default()
	loader := corpus.NewLoader(f.downloads, corpus.DatasetExtensions, estimator)
	assembler := NewAssembler(loader, fsdb.NewPromptsEntity(f.prompts), resolver, estimator, sizing.DefaultMaxTokens)
	serializer, err := NewSerializer("You build widgets.")
	require.NoError(t, err)
	b, err := NewBuilder(assembler, serializer)
	require.NoError(t, err)
	return b
}

func readRecords(t *testing.T, path string) []chat3 {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var ret []chat3
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<24)
	for scanner.Scan() {
		var rec chat3
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		ret = append(ret, rec)
	}
	require.NoError(t, scanner.Err())
	return ret
}

// chat3 mirrors the wire format independently of the chat package.
type chat3 []struct {
	Role      string            `json:"role"`
	Content   string            `json:"content"`
	Tools     []json.RawMessage `json:"tools"`
	ToolCalls []struct {
		ID       string `json:"id"`
		Type     string `json:"type"`
		Function struct {
			Name      string `json:"name"`
			Arguments string `json:"arguments"`
		} `json:"function"`
	} `json:"tool_calls"`
}

func (c chat3) code(t *testing.T) string {
	t.Helper()
	require.Len(t, c, 3)
	require.Len(t, c[2].ToolCalls, 1)
	var args map[string]string
	require.NoError(t, json.Unmarshal([]byte(c[2].ToolCalls[0].Function.Arguments), &args))
	return args["jsxContent"]
}

func seed(v int64) *int64 { return &v }

func TestBuildSingleTimeWidget(t *testing.T) {
	f := newFixture(t)
	row := f.widget(t, "w1", "Show the current time\n", `export const command = "date";`)

	out := filepath.Join(f.root, "datasets", "clock")
	ds, err := f.builder(t, strategy.Empty()).Build([]domain.WidgetRow{row}, BuildOptions{OutputDir: out, Seed: seed(1), SystemPrompt: "default"})
	require.NoError(t, err)

	assert.Empty(t, ds.Splits.Train)
	assert.Empty(t, ds.Splits.Valid)
	require.Len(t, ds.Splits.Test, 1)

	for _, name := range []string{"train.jsonl", "valid.jsonl"} {
		info, err := os.Stat(filepath.Join(out, name))
		require.NoError(t, err)
		assert.Zero(t, info.Size(), name)
	}

	records := readRecords(t, filepath.Join(out, "test.jsonl"))
	require.Len(t, records, 1)
	rec := records[0]

	assert.Equal(t, "system", rec[0].Role)
	assert.Equal(t, "You build widgets.", rec[0].Content)
	require.Len(t, rec[0].Tools, 1)
	assert.Contains(t, string(rec[0].Tools[0]), "WriteUbersichtWidgetToFileSystem")
	assert.Equal(t, "user", rec[1].Role)
	assert.Equal(t, "Show the current time", rec[1].Content)
	assert.Equal(t, "assistant", rec[2].Role)
	assert.Equal(t, "", rec[2].Content)
	assert.Equal(t, "WriteUbersichtWidgetToFileSystem", rec[2].ToolCalls[0].Function.Name)
	assert.Equal(t, ToolCallID("w1"), rec[2].ToolCalls[0].ID)
	assert.Equal(t, "// index.jsx\nexport const command = \"date\";", rec.code(t))

	assert.Equal(t, map[domain.Split]int{domain.SplitTrain: 0, domain.SplitValid: 0, domain.SplitTest: 1}, ds.Manifest.Counts)
	assert.Len(t, ds.Manifest.SHA256, 3)
	assert.Equal(t, "70d2b2fe9d4d88b94c0e2d2bede469cdcf130f191ee96518470c6ef32d0eb023", ds.Manifest.SystemSHA256)
	assert.FileExists(t, filepath.Join(out, ManifestFile))
}

func TestBuildExcludesWidget(t *testing.T) {
	f := newFixture(t)
	rows := []domain.WidgetRow{
		f.widget(t, "w1", "clock", `export const command = "date";`),
		f.widget(t, "w3", "huge", strings.Repeat("x", 20000)),
	}
	resolver := f.strategy(t, `{"strategy": {"w3": {"action": "exclude", "reason": "extreme"}}}`)

	ds, err := f.builder(t, resolver).Build(rows, BuildOptions{OutputDir: filepath.Join(f.root, "out"), Seed: seed(3)})
	require.NoError(t, err)

	assert.Equal(t, []string{"w3"}, ds.Result.Excluded)
	assert.Equal(t, 1, ds.Splits.Len())
	for _, split := range domain.AllSplits() {
		for _, e := range ds.Splits.Get(split) {
			assert.NotEqual(t, "w3", e.WidgetID)
		}
	}
	assert.Equal(t, strategy.DefaultFile, ds.Manifest.StrategyFile)
	assert.FileExists(t, filepath.Join(f.root, "out", strategy.DefaultFile))
}

func TestBuildTruncatesWidget(t *testing.T) {
	f := newFixture(t)
	original := strings.Repeat("const line = 'abcdefghijklmnopqrstuvwxyz';\n", 450)
	row := f.widget(t, "w2", "big widget", original)
	resolver := f.strategy(t, `{"strategy": {"w2": {"action": "truncate", "reason": "too long", "max_tokens": 4095}}}`)

	out := filepath.Join(f.root, "out")
	ds, err := f.builder(t, resolver).Build([]domain.WidgetRow{row}, BuildOptions{OutputDir: out, Seed: seed(5)})
	require.NoError(t, err)
	assert.Equal(t, []string{"w2"}, ds.Result.Truncated)

	records := readRecords(t, filepath.Join(out, "test.jsonl"))
	require.Len(t, records, 1)
	code := records[0].code(t)

	full := "// index.jsx\n" + strings.TrimSpace(original)
	assert.LessOrEqual(t, sizing.CountChars(code), 4095*4)
	assert.True(t, strings.HasPrefix(full, code))
	assert.Less(t, len(code), len(full))
	assert.True(t, strings.HasSuffix(code, ";"), "cut lands on a line boundary")
}

func TestBuildTruncatesToZeroBudget(t *testing.T) {
	f := newFixture(t)
	rows := []domain.WidgetRow{
		f.widget(t, "w1", "a clock", "export const command = \"date\";"),
		f.widget(t, "w0", "a weather widget", "export const command = \"curl wttr.in\";"),
	}
	resolver := f.strategy(t, `{"strategy": {"w0": {"action": "truncate", "reason": "no budget", "max_tokens": 0}}}`)

	out := filepath.Join(f.root, "out")
	ds, err := f.builder(t, resolver).Build(rows, BuildOptions{OutputDir: out, Seed: seed(3)})
	require.NoError(t, err)

	require.Len(t, ds.Result.Entries, 1)
	assert.Equal(t, "w1", ds.Result.Entries[0].WidgetID)
	assert.Equal(t, []Skip{{WidgetID: "w0", Reason: SkipNoCode}}, ds.Result.Skipped)
	assert.Empty(t, ds.Result.Truncated)

	records := readRecords(t, filepath.Join(out, "test.jsonl"))
	require.Len(t, records, 1)
	assert.NotEmpty(t, records[0].code(t))
}

func TestBuildSkipsMissingInputs(t *testing.T) {
	f := newFixture(t)
	rows := []domain.WidgetRow{
		f.widget(t, "ok", "a prompt", "export const a = 1;"),
		f.widget(t, "noprompt", "", "export const a = 1;"),
		f.widget(t, "blank", "  \n ", "export const a = 1;"),
		{ID: "nocode", Folder: "nocode.widget"},
	}
	require.NoError(t, os.WriteFile(filepath.Join(f.prompts, "nocode.prompt"), []byte("p"), 0o644))

	ds, err := f.builder(t, strategy.Empty()).Build(rows, BuildOptions{OutputDir: filepath.Join(f.root, "out"), Seed: seed(1)})
	require.NoError(t, err)

	assert.Equal(t, 1, ds.Splits.Len())
	assert.Equal(t, []Skip{
		{WidgetID: "noprompt", Reason: SkipNoPrompt},
		{WidgetID: "blank", Reason: SkipEmptyPrompt},
		{WidgetID: "nocode", Reason: SkipNoCode},
	}, ds.Result.Skipped)
	assert.Empty(t, ds.Manifest.StrategyFile)
}

func TestBuildNoEntries(t *testing.T) {
	f := newFixture(t)
	row := f.widget(t, "noprompt", "", "export const a = 1;")

	out := filepath.Join(f.root, "out")
	_, err := f.builder(t, strategy.Empty()).Build([]domain.WidgetRow{row}, BuildOptions{OutputDir: out})
	assert.True(t, errors.Is(err, ErrNoEntries))
	assert.NoDirExists(t, out)
}

func TestBuildRoundTripsCode(t *testing.T) {
	f := newFixture(t)
	codes := map[string]string{
		"markup":  `export const render = () => <div className="x">&amp; "q" \ </div>;`,
		"unicode": "// Übersicht ☀ 東京\nexport const command = `echo \"hi\"`;",
		"control": "export const a = '\t\r';\nexport const b = ' ';",
	}
	var rows []domain.WidgetRow
	for id, code := range codes {
		rows = append(rows, f.widget(t, id, "prompt "+id, code))
	}

	out := filepath.Join(f.root, "out")
	ds, err := f.builder(t, strategy.Empty()).Build(rows, BuildOptions{OutputDir: out, Seed: seed(9)})
	require.NoError(t, err)
	require.Equal(t, 3, ds.Splits.Len())

	validator, err := NewValidator()
	require.NoError(t, err)
	for _, split := range domain.AllSplits() {
		data, err := os.ReadFile(filepath.Join(out, split.FileName()))
		require.NoError(t, err)
		for _, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
			if line == "" {
				continue
			}
			code, err := validator.ValidateLine([]byte(line))
			require.NoError(t, err)
			var matched bool
			for _, c := range codes {
				if code == "// index.jsx\n"+strings.TrimSpace(c) {
					matched = true
				}
			}
			assert.True(t, matched, "unexpected code %q", code)
		}
	}
}
