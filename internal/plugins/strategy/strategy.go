package strategy

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/ubersicht-tools/widgetset/internal/i18n"
	"github.com/ubersicht-tools/widgetset/internal/log"
)

const DefaultFile = "widget_strategy.json"

// Action decides what happens to a widget when the dataset is built.
type Action string

const (
	ActionKeep     Action = "keep"
	ActionExclude  Action = "exclude"
	ActionTruncate Action = "truncate"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionKeep, ActionExclude, ActionTruncate:
		return true
	}
	return false
}

// Entry is the directive for a single widget.
type Entry struct {
	Action    Action `json:"action"`
	Reason    string `json:"reason,omitempty"`
	MaxTokens *int   `json:"max_tokens,omitempty"`
}

// Limit returns the entry's token budget, or def when it has none.
func (e Entry) Limit(def int) int {
	if e.MaxTokens != nil {
		return *e.MaxTokens
	}
	return def
}

// File is the on-disk strategy document.
type File struct {
	Policy            string           `json:"policy,omitempty"`
	MaxSequenceLength int              `json:"max_sequence_length,omitempty"`
	Strategy          map[string]Entry `json:"strategy"`
}

// Resolver answers per-widget strategy lookups. It is never modified after Load.
type Resolver struct {
	path    string
	entries map[string]Entry
}

// Empty returns a resolver that keeps every widget.
func Empty() *Resolver {
	return &Resolver{entries: map[string]Entry{}}
}

// Load reads the strategy file at path. A missing or malformed file yields an
// empty resolver and a warning; entries with an unknown action are dropped.
func Load(path string) *Resolver {
	ret := Empty()
	ret.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn(i18n.T("strategy_warn_missing_file"), path)
		} else {
			log.Warn(i18n.T("strategy_warn_malformed_file"), path, err)
		}
		return ret
	}

	var doc File
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Warn(i18n.T("strategy_warn_malformed_file"), path, err)
		return ret
	}

	for id, entry := range doc.Strategy {
		if !entry.Action.IsValid() {
			log.Warn(i18n.T("strategy_warn_unknown_action"), id, entry.Action)
			continue
		}
		ret.entries[id] = entry
	}
	log.Debug(log.Basic, "loaded %d strategy entries from %s", len(ret.entries), path)
	return ret
}

// Path returns the file the resolver was loaded from, if any.
func (o *Resolver) Path() string {
	return o.path
}

// Lookup returns the entry for id; widgets without one are kept.
func (o *Resolver) Lookup(id string) Entry {
	if e, ok := o.entries[id]; ok {
		return e
	}
	return Entry{Action: ActionKeep}
}

func (o *Resolver) Len() int {
	return len(o.entries)
}

// IDs returns the widget ids with an explicit entry, sorted.
func (o *Resolver) IDs() []string {
	ret := make([]string, 0, len(o.entries))
	for id := range o.entries {
		ret = append(ret, id)
	}
	sort.Strings(ret)
	return ret
}
