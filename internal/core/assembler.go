package core

import (
	"errors"

	"github.com/ubersicht-tools/widgetset/internal/corpus"
	"github.com/ubersicht-tools/widgetset/internal/domain"
	"github.com/ubersicht-tools/widgetset/internal/i18n"
	"github.com/ubersicht-tools/widgetset/internal/log"
	"github.com/ubersicht-tools/widgetset/internal/plugins/db/fsdb"
	"github.com/ubersicht-tools/widgetset/internal/plugins/strategy"
	"github.com/ubersicht-tools/widgetset/internal/sizing"
)

// Reasons a widget can be skipped before it reaches the dataset.
const (
	SkipNoPrompt         = "no_prompt"
	SkipEmptyPrompt      = "empty_prompt"
	SkipUnreadablePrompt = "unreadable_prompt"
	SkipNoCode           = "no_code"
)

type Skip struct {
	WidgetID string `json:"widget_id"`
	Reason   string `json:"reason"`
}

// Result is the outcome of assembling the eligible rows, in input order.
type Result struct {
	Entries   []domain.DatasetEntry
	Skipped   []Skip
	Excluded  []string
	Truncated []string
}

// Assembler turns eligible widget rows into dataset entries.
type Assembler struct {
	loader    *corpus.Loader
	prompts   *fsdb.PromptsEntity
	resolver  *strategy.Resolver
	estimator *sizing.Estimator
	maxTokens int
}

func NewAssembler(loader *corpus.Loader, prompts *fsdb.PromptsEntity, resolver *strategy.Resolver,
	estimator *sizing.Estimator, maxTokens int) *Assembler {
	return &Assembler{
		loader:    loader,
		prompts:   prompts,
		resolver:  resolver,
		estimator: estimator,
		maxTokens: maxTokens,
	}
}

// Assemble processes rows in order. Widgets lacking a prompt or code are
// skipped, excluded widgets are counted, and truncate directives are applied.
func (o *Assembler) Assemble(rows []domain.WidgetRow) *Result {
	ret := &Result{}
	for _, row := range rows {
		prompt, reason := o.loadPrompt(row.ID)
		if reason != "" {
			ret.Skipped = append(ret.Skipped, Skip{WidgetID: row.ID, Reason: reason})
			continue
		}

		rec, ok := o.loader.Load(row)
		if !ok {
			log.Log(i18n.T("core_skip_no_code"), row.ID)
			ret.Skipped = append(ret.Skipped, Skip{WidgetID: row.ID, Reason: SkipNoCode})
			continue
		}

		code := rec.Code
		entry := o.resolver.Lookup(row.ID)
		switch entry.Action {
		case strategy.ActionExclude:
			log.Log(i18n.T("core_exclude"), row.ID, entry.Reason)
			ret.Excluded = append(ret.Excluded, row.ID)
			continue
		case strategy.ActionTruncate:
			limit := entry.Limit(o.maxTokens)
			code = o.estimator.Truncate(code, limit)
			if code == "" {
				log.Log(i18n.T("core_skip_no_code"), row.ID)
				ret.Skipped = append(ret.Skipped, Skip{WidgetID: row.ID, Reason: SkipNoCode})
				continue
			}
			log.Debug(log.Basic, i18n.T("core_truncate"), row.ID, limit)
			ret.Truncated = append(ret.Truncated, row.ID)
		}

		ret.Entries = append(ret.Entries, domain.DatasetEntry{Prompt: prompt.Content, Code: code, WidgetID: row.ID})
	}
	return ret
}

func (o *Assembler) loadPrompt(id string) (*fsdb.Prompt, string) {
	prompt, err := o.prompts.Get(id)
	switch {
	case err == nil:
		return prompt, ""
	case fsdb.IsMissing(err):
		log.Log(i18n.T("core_skip_no_prompt"), id)
		return nil, SkipNoPrompt
	case errors.Is(err, fsdb.ErrEmptyPrompt):
		log.Log(i18n.T("core_skip_empty_prompt"), id)
		return nil, SkipEmptyPrompt
	default:
		log.Warn(i18n.T("core_skip_unreadable_prompt"), id, err)
		return nil, SkipUnreadablePrompt
	}
}
