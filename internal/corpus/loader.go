package corpus

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/ubersicht-tools/widgetset/internal/domain"
	"github.com/ubersicht-tools/widgetset/internal/i18n"
	"github.com/ubersicht-tools/widgetset/internal/log"
	"github.com/ubersicht-tools/widgetset/internal/sizing"
)

var (
	DatasetExtensions  = []string{".jsx"}
	AnalysisExtensions = []string{".jsx", ".coffee"}
)

// File is one decoded widget source file. Path is relative to the widget
// folder and uses forward slashes.
type File struct {
	Path string
	Text string
}

// Loader reads widget folders below a downloads directory.
type Loader struct {
	root      string
	patterns  []string
	estimator *sizing.Estimator
}

// NewLoader returns a loader that picks files whose extension is in extensions.
func NewLoader(root string, extensions []string, estimator *sizing.Estimator) *Loader {
	patterns := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		patterns = append(patterns, "**/*"+ext)
	}
	return &Loader{root: root, patterns: patterns, estimator: estimator}
}

// Root returns the downloads directory.
func (o *Loader) Root() string {
	return o.root
}

// Discover returns the eligible files of a widget folder, sorted by relative path.
func (o *Loader) Discover(folder string) ([]string, error) {
	base := filepath.Join(o.root, folder)
	info, err := os.Stat(base)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", base)
	}

	var ret []string
	err = filepath.WalkDir(base, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			log.Warn(i18n.T("corpus_warn_unreadable_file"), p, walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if o.matches(rel) {
			ret = append(ret, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(ret)
	return ret, nil
}

func (o *Loader) matches(rel string) bool {
	for _, p := range o.patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// ReadFiles discovers and decodes the eligible files of a folder. Files that
// cannot be read or look binary are skipped with a warning.
func (o *Loader) ReadFiles(folder string) ([]File, error) {
	rels, err := o.Discover(folder)
	if err != nil {
		return nil, err
	}

	ret := make([]File, 0, len(rels))
	for _, rel := range rels {
		full := filepath.Join(o.root, folder, filepath.FromSlash(rel))
		content, err := os.ReadFile(full)
		if err != nil {
			log.Warn(i18n.T("corpus_warn_unreadable_file"), full, err)
			continue
		}
		if mime, binary := sniffBinary(content); binary {
			log.Warn(i18n.T("corpus_warn_binary_file"), full, mime)
			continue
		}
		ret = append(ret, File{Path: rel, Text: DecodeText(content)})
	}
	return ret, nil
}

// Load concatenates a widget's files into a WidgetRecord. Each non-empty file
// is trimmed and preceded by a comment naming its relative path; files are
// separated by a blank line. ok is false when the widget has no usable content.
func (o *Loader) Load(row domain.WidgetRow) (rec domain.WidgetRecord, ok bool) {
	files, err := o.ReadFiles(row.Folder)
	if err != nil {
		log.Debug(log.Detailed, "widget %s: %v", row.ID, err)
		return rec, false
	}

	rec = domain.WidgetRecord{ID: row.ID, Folder: row.Folder}
	parts := make([]string, 0, len(files))
	for _, f := range files {
		rec.Files = append(rec.Files, domain.SourceFile{
			Path:  f.Path,
			Chars: sizing.CountChars(f.Text),
			Lines: sizing.CountLines(f.Text),
		})
		content := strings.TrimSpace(f.Text)
		if content == "" {
			continue
		}
		parts = append(parts, provenance(f.Path)+"\n"+content)
	}
	if len(parts) == 0 {
		return rec, false
	}

	rec.Code = strings.Join(parts, "\n\n")
	rec.CharCount = sizing.CountChars(rec.Code)
	rec.LineCount = sizing.CountLines(rec.Code)
	rec.Tokens = o.estimator.EstimateTokens(rec.CharCount)
	return rec, true
}

// provenance returns a one-line comment in the syntax of the file's language.
func provenance(rel string) string {
	if path.Ext(rel) == ".coffee" {
		return "# " + rel
	}
	return "// " + rel
}
