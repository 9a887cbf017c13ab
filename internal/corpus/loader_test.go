package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubersicht-tools/widgetset/internal/domain"
	"github.com/ubersicht-tools/widgetset/internal/sizing"
)

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func TestLoadConcatenatesSortedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "clock.widget", "lib", "format.jsx"), []byte("\n  export const fmt = (d) => d;\n\n"))
	writeFile(t, filepath.Join(root, "clock.widget", "index.jsx"), []byte(`export const command = "date";`))
	writeFile(t, filepath.Join(root, "clock.widget", "empty.jsx"), []byte("  \n"))
	writeFile(t, filepath.Join(root, "clock.widget", "README.md"), []byte("# clock"))

	loader := NewLoader(root, DatasetExtensions, sizing.Default())
	rec, ok := loader.Load(domain.WidgetRow{ID: "w1", Folder: "clock.widget"})
	require.True(t, ok)

	want := "// index.jsx\nexport const command = \"date\";\n\n// lib/format.jsx\nexport const fmt = (d) => d;"
	assert.Equal(t, want, rec.Code)
	assert.Equal(t, "w1", rec.ID)
	assert.Equal(t, utf8.RuneCountInString(want), rec.CharCount)
	assert.Equal(t, 5, rec.LineCount)
	assert.Equal(t, rec.CharCount/4, rec.Tokens)

	paths := make([]string, 0, len(rec.Files))
	lines := make([]int, 0, len(rec.Files))
	for _, f := range rec.Files {
		paths = append(paths, f.Path)
		lines = append(lines, f.Lines)
	}
	assert.Equal(t, []string{"empty.jsx", "index.jsx", "lib/format.jsx"}, paths)
	assert.Equal(t, []int{2, 1, 4}, lines, "a file without a trailing newline still has one line")
}

func TestLoadIsDeterministic(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b.jsx", "a.jsx", "c/z.jsx", "c/a.jsx"} {
		writeFile(t, filepath.Join(root, "w", name), []byte("// "+name))
	}

	loader := NewLoader(root, DatasetExtensions, sizing.Default())
	first, ok := loader.Load(domain.WidgetRow{ID: "w", Folder: "w"})
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		again, ok := loader.Load(domain.WidgetRow{ID: "w", Folder: "w"})
		require.True(t, ok)
		assert.Equal(t, first.Code, again.Code)
	}
	assert.True(t, strings.HasPrefix(first.Code, "// a.jsx\n"))
}

func TestLoadNoUsableContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "blank", "index.jsx"), []byte("   "))
	writeFile(t, filepath.Join(root, "coffee", "index.coffee"), []byte("command: 'date'"))

	loader := NewLoader(root, DatasetExtensions, sizing.Default())

	tests := []struct {
		name   string
		folder string
	}{
		{"missing folder", "absent"},
		{"only whitespace", "blank"},
		{"no eligible extension", "coffee"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := loader.Load(domain.WidgetRow{ID: tc.folder, Folder: tc.folder})
			assert.False(t, ok)
		})
	}
}

func TestLoadCoffeeProvenance(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "w", "index.coffee"), []byte("command: 'date'"))
	writeFile(t, filepath.Join(root, "w", "index.jsx"), []byte("export const a = 1;"))

	loader := NewLoader(root, AnalysisExtensions, sizing.Default())
	rec, ok := loader.Load(domain.WidgetRow{ID: "w", Folder: "w"})
	require.True(t, ok)
	assert.Equal(t, "# index.coffee\ncommand: 'date'\n\n// index.jsx\nexport const a = 1;", rec.Code)
}

func TestLoadReplacesInvalidUTF8(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "w", "index.jsx"), []byte("const s = \"caf\xe9\";"))

	loader := NewLoader(root, DatasetExtensions, sizing.Default())
	rec, ok := loader.Load(domain.WidgetRow{ID: "w", Folder: "w"})
	require.True(t, ok)
	assert.True(t, utf8.ValidString(rec.Code))
	assert.Contains(t, rec.Code, "caf\uFFFD")
}

func TestLoadSkipsBinaryFiles(t *testing.T) {
	root := t.TempDir()
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	writeFile(t, filepath.Join(root, "w", "icon.jsx"), png)
	writeFile(t, filepath.Join(root, "w", "index.jsx"), []byte("export const a = 1;"))

	loader := NewLoader(root, DatasetExtensions, sizing.Default())
	rec, ok := loader.Load(domain.WidgetRow{ID: "w", Folder: "w"})
	require.True(t, ok)
	assert.Equal(t, "// index.jsx\nexport const a = 1;", rec.Code)
}

func TestDecodeText(t *testing.T) {
	assert.Equal(t, "plain", DecodeText([]byte("plain")))
	assert.Equal(t, "Übersicht", DecodeText([]byte("Übersicht")))
	got := DecodeText([]byte{'a', 0xff, 'b'})
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "a\uFFFDb", got)

	assert.Equal(t, "export const a = 1;", DecodeText([]byte("\xef\xbb\xbfexport const a = 1;")))
	assert.Equal(t, "a\uFEFFb", DecodeText([]byte("a\xef\xbb\xbfb")), "only a leading mark is dropped")
}
