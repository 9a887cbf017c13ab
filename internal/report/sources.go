package report

import (
	"path"
	"sort"

	"github.com/samber/lo"

	"github.com/ubersicht-tools/widgetset/internal/classify"
	"github.com/ubersicht-tools/widgetset/internal/corpus"
	"github.com/ubersicht-tools/widgetset/internal/domain"
)

const (
	SourcesFile    = "widget_data_sources.json"
	CategoriesFile = "widget_categories.json"
	URLsFile       = "widget_data_source_urls.json"
	SizesFile      = "widget_size_analysis.json"

	// SamplesPerCategory bounds the example widgets listed for a category.
	SamplesPerCategory = 5
)

// WidgetSources is the data-source report of one widget.
type WidgetSources struct {
	Sources     domain.CategorySet `json:"sources"`
	FileCount   int                `json:"file_count"`
	JSXCount    int                `json:"jsx_count"`
	CoffeeCount int                `json:"coffee_count"`
}

// CategoryWidgets lists the widgets that use one category.
type CategoryWidgets struct {
	Widgets     []string `json:"widgets"`
	WidgetCount int      `json:"widget_count"`
}

type CategoryCount struct {
	Category domain.Category
	Widgets  int
}

// SourcesReport collects per-widget classifications.
type SourcesReport struct {
	classifier *classify.Classifier
	Widgets    map[string]*WidgetSources
}

func NewSourcesReport(classifier *classify.Classifier) *SourcesReport {
	return &SourcesReport{classifier: classifier, Widgets: map[string]*WidgetSources{}}
}

// Add classifies the files of a widget. Widgets without files are ignored.
func (o *SourcesReport) Add(widgetID string, files []corpus.File) {
	if len(files) == 0 {
		return
	}
	entry := &WidgetSources{FileCount: len(files)}
	for _, f := range files {
		switch path.Ext(f.Path) {
		case ".jsx":
			entry.JSXCount++
		case ".coffee":
			entry.CoffeeCount++
		}
	}
	entry.Sources = o.classifier.ClassifyFiles(lo.Map(files, func(f corpus.File, _ int) string { return f.Text }))
	o.Widgets[widgetID] = entry
}

func (o *SourcesReport) Len() int {
	return len(o.Widgets)
}

// IDs returns the reported widget ids, sorted.
func (o *SourcesReport) IDs() []string {
	ret := lo.Keys(o.Widgets)
	sort.Strings(ret)
	return ret
}

// Categories inverts the report into category -> widgets.
func (o *SourcesReport) Categories() map[domain.Category]*CategoryWidgets {
	ret := map[domain.Category]*CategoryWidgets{}
	for _, id := range o.IDs() {
		for c := range o.Widgets[id].Sources {
			g, ok := ret[c]
			if !ok {
				g = &CategoryWidgets{}
				ret[c] = g
			}
			g.Widgets = append(g.Widgets, id)
			g.WidgetCount++
		}
	}
	return ret
}

// Counts returns widget counts per category, most used first.
func (o *SourcesReport) Counts() []CategoryCount {
	ret := lo.MapToSlice(o.Categories(), func(c domain.Category, g *CategoryWidgets) CategoryCount {
		return CategoryCount{Category: c, Widgets: g.WidgetCount}
	})
	sort.Slice(ret, func(i, j int) bool {
		if ret[i].Widgets != ret[j].Widgets {
			return ret[i].Widgets > ret[j].Widgets
		}
		return ret[i].Category < ret[j].Category
	})
	return ret
}

// MultiSource returns the sorted ids of widgets using more than one category.
func (o *SourcesReport) MultiSource() []string {
	return lo.Filter(o.IDs(), func(id string, _ int) bool { return o.Widgets[id].Sources.Len() > 1 })
}

// Samples returns up to n example widgets per category.
func (o *SourcesReport) Samples(n int) map[domain.Category][]string {
	return lo.MapValues(o.Categories(), func(g *CategoryWidgets, _ domain.Category) []string {
		if len(g.Widgets) > n {
			return g.Widgets[:n]
		}
		return g.Widgets
	})
}
