package sizing

import (
	"sort"

	"github.com/samber/lo"

	"github.com/ubersicht-tools/widgetset/internal/domain"
)

// WidgetSize is the size report of one widget.
type WidgetSize struct {
	WidgetID        string              `json:"widget_id"`
	WidgetFolder    string              `json:"widget_folder"`
	TotalChars      int                 `json:"total_chars"`
	TotalLines      int                 `json:"total_lines"`
	EstimatedTokens int                 `json:"estimated_tokens"`
	NumFiles        int                 `json:"num_files"`
	FileSizes       []domain.SourceFile `json:"file_sizes"`
	ExceedsLimit    bool                `json:"exceeds_limit"`
	Status          Status              `json:"status"`
}

type Stats struct {
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Mean   float64 `json:"mean"`
	Median int     `json:"median"`
}

// Recommendation summarizes the dataset one strategy would produce.
type Recommendation struct {
	Strategy    string `json:"strategy"`
	DatasetSize int    `json:"dataset_size"`
	Excluded    int    `json:"excluded"`
	Truncated   int    `json:"truncated"`
}

const (
	RecommendExclusion  = "exclusion"
	RecommendTruncation = "truncation"
	RecommendHybrid     = "hybrid"
)

type Analysis struct {
	MaxSequenceLength int              `json:"max_sequence_length"`
	CharsPerToken     int              `json:"chars_per_token"`
	TotalWidgets      int              `json:"total_widgets"`
	ExceedingLimit    int              `json:"exceeding_limit"`
	ExtremeCount      int              `json:"extreme"`
	WithinLimit       int              `json:"within_limit"`
	TokenStats        *Stats           `json:"token_stats,omitempty"`
	Recommendations   []Recommendation `json:"recommendations,omitempty"`
	Widgets           []WidgetSize     `json:"widgets"`
}

// Analyze sizes every record against limit. Widgets are ordered largest first.
func (e *Estimator) Analyze(records []domain.WidgetRecord, limit int) *Analysis {
	ret := &Analysis{
		MaxSequenceLength: limit,
		CharsPerToken:     e.charsPerToken,
		TotalWidgets:      len(records),
		Widgets:           make([]WidgetSize, 0, len(records)),
	}

	for _, r := range records {
		tokens := e.EstimateTokens(r.CharCount)
		status := e.Classify(tokens, limit)
		ret.Widgets = append(ret.Widgets, WidgetSize{
			WidgetID:        r.ID,
			WidgetFolder:    r.Folder,
			TotalChars:      r.CharCount,
			TotalLines:      r.LineCount,
			EstimatedTokens: tokens,
			NumFiles:        len(r.Files),
			FileSizes:       r.Files,
			ExceedsLimit:    status.Exceeds(),
			Status:          status,
		})
		switch status {
		case StatusExtreme:
			ret.ExtremeCount++
			ret.ExceedingLimit++
		case StatusExceeds:
			ret.ExceedingLimit++
		}
	}
	ret.WithinLimit = ret.TotalWidgets - ret.ExceedingLimit

	sort.SliceStable(ret.Widgets, func(i, j int) bool {
		a, b := ret.Widgets[i], ret.Widgets[j]
		if a.EstimatedTokens != b.EstimatedTokens {
			return a.EstimatedTokens > b.EstimatedTokens
		}
		return a.WidgetID < b.WidgetID
	})

	if len(ret.Widgets) > 0 {
		ret.TokenStats = tokenStats(ret.Widgets)
	}
	if ret.ExceedingLimit > 0 {
		ret.Recommendations = []Recommendation{
			{Strategy: RecommendExclusion, DatasetSize: ret.WithinLimit, Excluded: ret.ExceedingLimit},
			{Strategy: RecommendTruncation, DatasetSize: ret.TotalWidgets, Truncated: ret.ExceedingLimit},
			{
				Strategy:    RecommendHybrid,
				DatasetSize: ret.TotalWidgets - ret.ExtremeCount,
				Excluded:    ret.ExtremeCount,
				Truncated:   ret.ExceedingLimit - ret.ExtremeCount,
			},
		}
	}
	return ret
}

func tokenStats(widgets []WidgetSize) *Stats {
	tokens := lo.Map(widgets, func(w WidgetSize, _ int) int { return w.EstimatedTokens })
	sorted := append([]int(nil), tokens...)
	sort.Ints(sorted)
	return &Stats{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   float64(lo.Sum(tokens)) / float64(len(tokens)),
		Median: sorted[len(sorted)/2],
	}
}

// Top returns up to n of the largest widgets.
func (a *Analysis) Top(n int) []WidgetSize {
	if n > len(a.Widgets) {
		n = len(a.Widgets)
	}
	return a.Widgets[:n]
}

// Exceeding returns the widgets above the limit, largest first.
func (a *Analysis) Exceeding() []WidgetSize {
	return lo.Filter(a.Widgets, func(w WidgetSize, _ int) bool { return w.ExceedsLimit })
}
