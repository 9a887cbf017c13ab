package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/ubersicht-tools/widgetset/internal/classify"
	"github.com/ubersicht-tools/widgetset/internal/domain"
	"github.com/ubersicht-tools/widgetset/internal/i18n"
	"github.com/ubersicht-tools/widgetset/internal/sizing"
)

const (
	// URLsPerCategory bounds the URLs printed for one category.
	URLsPerCategory = 20
	TopWidgets      = 10
)

// SourcesSummary renders category counts, multi-source widgets and samples.
func SourcesSummary(rep *SourcesReport, styles Styles) string {
	var sb strings.Builder

	counts := NewTable(i18n.T("report_title_sources"), i18n.T("report_header_category"), i18n.T("report_header_widgets")).AlignRight(1)
	for _, c := range rep.Counts() {
		counts.AddRow(string(c.Category), strconv.Itoa(c.Widgets))
	}
	sb.WriteString(counts.Render(styles))

	multi := NewTable(i18n.T("report_title_multi_source"), i18n.T("report_header_widget"), i18n.T("report_header_sources"))
	for _, id := range rep.MultiSource() {
		multi.AddRow(id, joinCategories(rep.Widgets[id].Sources.Sorted()))
	}
	if out := multi.Render(styles); out != "" {
		sb.WriteString("\n")
		sb.WriteString(out)
	}

	samples := rep.Samples(SamplesPerCategory)
	table := NewTable(i18n.T("report_title_samples"), i18n.T("report_header_category"), i18n.T("report_header_samples"))
	for _, c := range sortedCategories(lo.Keys(samples)) {
		table.AddRow(string(c), strings.Join(samples[c], ", "))
	}
	if out := table.Render(styles); out != "" {
		sb.WriteString("\n")
		sb.WriteString(out)
	}
	return sb.String()
}

// URLsSummary renders up to URLsPerCategory URLs for every category.
func URLsSummary(groups map[domain.Category]*classify.URLGroup, styles Styles) string {
	var parts []string
	for _, c := range sortedCategories(lo.Keys(groups)) {
		g := groups[c]
		table := NewTable(fmt.Sprintf(i18n.T("report_title_url_category"), c, g.URLCount, g.WidgetCount), i18n.T("report_header_urls"))
		for _, u := range lo.Slice(g.URLs, 0, URLsPerCategory) {
			table.AddRow(u)
		}
		out := table.Render(styles)
		if more := g.URLCount - URLsPerCategory; more > 0 {
			out += styles.Muted.Render(fmt.Sprintf(i18n.T("report_more_urls"), more)) + "\n"
		}
		parts = append(parts, out)
	}
	return strings.Join(parts, "\n")
}

// SizesSummary renders totals, token statistics, the largest widgets and the
// strategy options for a size analysis.
func SizesSummary(a *sizing.Analysis, styles Styles) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(i18n.T("report_size_summary"),
		a.TotalWidgets, a.WithinLimit, a.MaxSequenceLength, a.ExceedingLimit, a.ExtremeCount))
	sb.WriteString("\n")
	if s := a.TokenStats; s != nil {
		sb.WriteString(fmt.Sprintf(i18n.T("report_token_stats"), s.Min, s.Max, s.Mean, s.Median))
		sb.WriteString("\n")
	}

	top := NewTable(i18n.T("report_title_largest"),
		i18n.T("report_header_widget"), i18n.T("report_header_tokens"), i18n.T("report_header_chars"),
		i18n.T("report_header_files"), i18n.T("report_header_status")).AlignRight(1, 2, 3)
	for _, w := range a.Top(TopWidgets) {
		top.AddRow(w.WidgetID, strconv.Itoa(w.EstimatedTokens), strconv.Itoa(w.TotalChars), strconv.Itoa(w.NumFiles), w.Status.String())
	}
	if out := top.Render(styles); out != "" {
		sb.WriteString("\n")
		sb.WriteString(out)
	}

	recs := NewTable(i18n.T("report_title_recommendations"),
		i18n.T("report_header_strategy"), i18n.T("report_header_dataset_size"),
		i18n.T("report_header_excluded"), i18n.T("report_header_truncated")).AlignRight(1, 2, 3)
	for _, r := range a.Recommendations {
		recs.AddRow(r.Strategy, strconv.Itoa(r.DatasetSize), strconv.Itoa(r.Excluded), strconv.Itoa(r.Truncated))
	}
	if out := recs.Render(styles); out != "" {
		sb.WriteString("\n")
		sb.WriteString(out)
	}
	return sb.String()
}

func sortedCategories(cats []domain.Category) []domain.Category {
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

func joinCategories(cats []domain.Category) string {
	return strings.Join(lo.Map(cats, func(c domain.Category, _ int) string { return string(c) }), ", ")
}
