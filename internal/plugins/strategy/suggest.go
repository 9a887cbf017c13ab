package strategy

import (
	"fmt"

	"github.com/ubersicht-tools/widgetset/internal/report"
	"github.com/ubersicht-tools/widgetset/internal/sizing"
)

const PolicyHybrid = "hybrid"

// Suggest builds the hybrid strategy for a size analysis: extreme widgets are
// excluded, other oversized widgets are truncated to the limit, and the rest
// are left out of the file so they default to keep.
func Suggest(analysis *sizing.Analysis) *File {
	ret := &File{
		Policy:            PolicyHybrid,
		MaxSequenceLength: analysis.MaxSequenceLength,
		Strategy:          map[string]Entry{},
	}
	for _, w := range analysis.Widgets {
		switch w.Status {
		case sizing.StatusExtreme:
			ret.Strategy[w.WidgetID] = Entry{
				Action: ActionExclude,
				Reason: fmt.Sprintf("%d estimated tokens, more than twice the %d token limit", w.EstimatedTokens, analysis.MaxSequenceLength),
			}
		case sizing.StatusExceeds:
			limit := analysis.MaxSequenceLength
			ret.Strategy[w.WidgetID] = Entry{
				Action:    ActionTruncate,
				Reason:    fmt.Sprintf("%d estimated tokens, over the %d token limit", w.EstimatedTokens, limit),
				MaxTokens: &limit,
			}
		}
	}
	return ret
}

// Write saves f as indented JSON at path.
func (f *File) Write(path string) error {
	return report.WriteJSON(path, f)
}
