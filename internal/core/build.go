package core

import (
	"os"
	"path/filepath"

	"github.com/otiai10/copy"
	"github.com/pkg/errors"

	"github.com/ubersicht-tools/widgetset/internal/domain"
	"github.com/ubersicht-tools/widgetset/internal/i18n"
	"github.com/ubersicht-tools/widgetset/internal/log"
	"github.com/ubersicht-tools/widgetset/internal/plugins/strategy"
	"github.com/ubersicht-tools/widgetset/internal/plugins/template"
	"github.com/ubersicht-tools/widgetset/internal/report"
	"github.com/ubersicht-tools/widgetset/internal/util"
)

const ManifestFile = "manifest.json"

// ErrNoEntries is returned when no widget survived assembly.
var ErrNoEntries = errors.New("no valid data to process")

// Manifest records how a dataset was produced.
type Manifest struct {
	Seed          int64                `json:"seed"`
	SeedExplicit  bool                 `json:"seed_explicit"`
	MaxTokens     int                  `json:"max_tokens"`
	CharsPerToken int                  `json:"chars_per_token"`
	SystemPrompt  string               `json:"system_prompt"`
	SystemSHA256  string               `json:"system_prompt_sha256"`
	StrategyFile  string               `json:"strategy_file,omitempty"`
	Counts        map[domain.Split]int `json:"counts"`
	SHA256        map[string]string    `json:"sha256"`
	Skipped       []Skip               `json:"skipped"`
	Excluded      []string             `json:"excluded"`
	Truncated     []string             `json:"truncated"`
}

// BuildOptions configures a dataset build.
type BuildOptions struct {
	OutputDir    string
	Seed         *int64
	SystemPrompt string // variant name, recorded in the manifest
}

// Dataset is a dataset written to disk.
type Dataset struct {
	Dir      string
	Splits   Splits
	Result   *Result
	Manifest *Manifest
}

// Builder assembles, splits, writes and verifies a dataset.
type Builder struct {
	assembler  *Assembler
	serializer *Serializer
	validator  *Validator
}

func NewBuilder(assembler *Assembler, serializer *Serializer) (*Builder, error) {
	validator, err := NewValidator()
	if err != nil {
		return nil, err
	}
	return &Builder{assembler: assembler, serializer: serializer, validator: validator}, nil
}

// Build writes train, valid and test files for rows into opts.OutputDir and
// re-reads each file. The first malformed record aborts with an IntegrityError.
func (o *Builder) Build(rows []domain.WidgetRow, opts BuildOptions) (ret *Dataset, err error) {
	result := o.assembler.Assemble(rows)
	if len(result.Entries) == 0 {
		return nil, ErrNoEntries
	}

	seed, explicit := ResolveSeed(opts.Seed)
	if !explicit {
		log.Log(i18n.T("core_random_seed"), seed)
	}
	splits := Split(Shuffle(result.Entries, seed))

	if err = os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(domain.AllSplits()))
	counts := make(map[domain.Split]int, len(domain.AllSplits()))
	for _, split := range domain.AllSplits() {
		path := filepath.Join(opts.OutputDir, split.FileName())
		entries := splits.Get(split)
		if err = o.serializer.WriteFile(path, entries); err != nil {
			return nil, errors.Wrapf(err, "could not write %s", path)
		}
		var n int
		if n, err = o.validator.ValidateFile(path); err != nil {
			return nil, err
		}
		if n != len(entries) {
			return nil, &IntegrityError{File: path, Line: n + 1, Err: errors.Errorf("expected %d records, read %d", len(entries), n)}
		}
		names = append(names, split.FileName())
		counts[split] = n
	}

	manifest := &Manifest{
		Seed:          seed,
		SeedExplicit:  explicit,
		MaxTokens:     o.assembler.maxTokens,
		CharsPerToken: o.assembler.estimator.CharsPerToken(),
		SystemPrompt:  opts.SystemPrompt,
		SystemSHA256:  template.ComputeStringHash(o.serializer.system),
		Counts:        counts,
		Skipped:       nonNil(result.Skipped),
		Excluded:      nonNil(result.Excluded),
		Truncated:     nonNil(result.Truncated),
	}
	if manifest.SHA256, err = template.ComputeDirHashes(opts.OutputDir, names...); err != nil {
		return nil, err
	}
	if manifest.StrategyFile, err = copyStrategy(o.assembler.resolver, opts.OutputDir); err != nil {
		return nil, err
	}
	if err = report.WriteJSON(filepath.Join(opts.OutputDir, ManifestFile), manifest); err != nil {
		return nil, err
	}

	return &Dataset{Dir: opts.OutputDir, Splits: splits, Result: result, Manifest: manifest}, nil
}

// copyStrategy places the strategy file next to the dataset it shaped.
func copyStrategy(resolver *strategy.Resolver, dir string) (string, error) {
	src := resolver.Path()
	if src == "" || !util.FileExists(src) {
		return "", nil
	}
	name := filepath.Base(src)
	if err := copy.Copy(src, filepath.Join(dir, name)); err != nil {
		return "", errors.Wrap(err, "could not copy strategy file")
	}
	return name, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
