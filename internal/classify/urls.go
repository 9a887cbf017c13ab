package classify

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/ubersicht-tools/widgetset/internal/domain"
)

var urlPattern = regexp.MustCompile(`https?://[^\s"'<>{}|\\^` + "`" + `\[\]]+`)

// ExtractURLs returns the distinct URLs in text in order of first appearance.
// Trailing punctuation and slashes are dropped.
func ExtractURLs(text string) []string {
	var ret []string
	seen := map[string]bool{}
	for _, u := range urlPattern.FindAllString(text, -1) {
		u = strings.TrimRight(u, ".,;:!?)")
		u = strings.TrimRight(u, "/")
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		ret = append(ret, u)
	}
	return ret
}

// NormalizeURL reduces a URL to scheme, host and path for grouping.
func NormalizeURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return strings.TrimRight(parsed.Scheme+"://"+parsed.Host+parsed.Path, "/")
}

// URLClassifier assigns a single category to a URL.
type URLClassifier struct {
	rules []Rule
}

func NewURLClassifier(rules []Rule) *URLClassifier {
	return &URLClassifier{rules: rules}
}

// DefaultURLClassifier uses DefaultURLRuleSpecs.
func DefaultURLClassifier() *URLClassifier {
	rules, err := CompileRules(DefaultURLRuleSpecs())
	if err != nil {
		panic(err)
	}
	return NewURLClassifier(rules)
}

// Categorize returns the first rule matching u, then api, json or other.
func (c *URLClassifier) Categorize(u string) domain.Category {
	lowered := strings.ToLower(u)
	for _, rule := range c.rules {
		for _, re := range rule.Patterns {
			if re.MatchString(lowered) {
				return rule.Category
			}
		}
	}
	switch {
	case strings.Contains(lowered, "api."):
		return domain.CategoryAPI
	case strings.Contains(lowered, "json"):
		return domain.CategoryJSON
	default:
		return domain.CategoryOther
	}
}

// URLGroup lists the URLs of one category and the widgets referencing them.
type URLGroup struct {
	URLs        []string `json:"urls"`
	URLCount    int      `json:"url_count"`
	Widgets     []string `json:"widgets"`
	WidgetCount int      `json:"widget_count"`
}

// URLInventory accumulates URLs per widget and groups them by category.
type URLInventory struct {
	classifier *URLClassifier
	widgets    map[string]map[string]bool // raw url -> widget ids
}

func NewURLInventory(classifier *URLClassifier) *URLInventory {
	return &URLInventory{classifier: classifier, widgets: map[string]map[string]bool{}}
}

// Add records the URLs found in text as used by widgetID.
func (o *URLInventory) Add(widgetID, text string) {
	for _, u := range ExtractURLs(text) {
		if o.widgets[u] == nil {
			o.widgets[u] = map[string]bool{}
		}
		o.widgets[u][widgetID] = true
	}
}

// Len returns the number of distinct raw URLs seen.
func (o *URLInventory) Len() int {
	return len(o.widgets)
}

// Groups returns the inventory keyed by category with sorted members.
func (o *URLInventory) Groups() map[domain.Category]*URLGroup {
	urls := map[domain.Category]map[string]bool{}
	widgets := map[domain.Category]map[string]bool{}
	for raw, ids := range o.widgets {
		cat := o.classifier.Categorize(raw)
		if urls[cat] == nil {
			urls[cat] = map[string]bool{}
			widgets[cat] = map[string]bool{}
		}
		urls[cat][NormalizeURL(raw)] = true
		for id := range ids {
			widgets[cat][id] = true
		}
	}

	ret := make(map[domain.Category]*URLGroup, len(urls))
	for cat := range urls {
		g := &URLGroup{URLs: sortedKeys(urls[cat]), Widgets: sortedKeys(widgets[cat])}
		g.URLCount = len(g.URLs)
		g.WidgetCount = len(g.Widgets)
		ret[cat] = g
	}
	return ret
}

func sortedKeys(m map[string]bool) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
