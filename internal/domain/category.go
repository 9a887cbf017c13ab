package domain

import (
	"encoding/json"
	"sort"
)

// Category names a data source a widget consumes.
type Category string

const (
	CategoryWeather    Category = "weather"
	CategoryCrypto     Category = "crypto"
	CategoryStock      Category = "stock"
	CategorySystem     Category = "system"
	CategoryCalendar   Category = "calendar"
	CategoryEmail      Category = "email"
	CategoryGithub     Category = "github"
	CategoryGitlab     Category = "gitlab"
	CategoryRSS        Category = "rss"
	CategoryMusic      Category = "music"
	CategoryNews       Category = "news"
	CategoryTime       Category = "time"
	CategoryDocker     Category = "docker"
	CategoryKubernetes Category = "kubernetes"
	CategoryIP         Category = "ip"
	CategoryLocation   Category = "location"
	CategoryQuote      Category = "quote"
	CategoryTodo       Category = "todo"
	CategoryTransit    Category = "transit"
	CategoryCovid      Category = "covid"
	CategoryNASA       Category = "nasa"

	// CategoryNone marks static content with no external data source.
	CategoryNone Category = "none"
	// CategoryUnknown marks dynamic content whose source matched no rule.
	CategoryUnknown Category = "unknown"

	// URL-only fallbacks.
	CategoryAPI   Category = "api"
	CategoryJSON  Category = "json"
	CategoryOther Category = "other"
)

// AllCategories returns the content categories in classification order.
func AllCategories() []Category {
	return []Category{
		CategoryWeather, CategoryCrypto, CategoryStock, CategorySystem, CategoryCalendar,
		CategoryEmail, CategoryGithub, CategoryGitlab, CategoryRSS, CategoryMusic,
		CategoryNews, CategoryTime, CategoryDocker, CategoryKubernetes, CategoryIP,
		CategoryLocation, CategoryQuote, CategoryTodo, CategoryTransit, CategoryCovid,
		CategoryNASA,
	}
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryNone, CategoryUnknown, CategoryAPI, CategoryJSON, CategoryOther:
		return true
	}
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// IsFallback reports whether c is a placeholder rather than a detected source.
func (c Category) IsFallback() bool {
	return c == CategoryNone || c == CategoryUnknown
}

// CategorySet is an unordered set of categories. The zero value is empty and
// ready to use through Add.
type CategorySet map[Category]struct{}

func NewCategorySet(cats ...Category) CategorySet {
	s := make(CategorySet, len(cats))
	for _, c := range cats {
		s[c] = struct{}{}
	}
	return s
}

func (s CategorySet) Has(c Category) bool {
	_, ok := s[c]
	return ok
}

func (s CategorySet) Add(c Category) {
	s[c] = struct{}{}
}

// Union adds every member of other to s.
func (s CategorySet) Union(other CategorySet) {
	for c := range other {
		s[c] = struct{}{}
	}
}

func (s CategorySet) Len() int {
	return len(s)
}

// Sorted returns the members in lexical order.
func (s CategorySet) Sorted() []Category {
	ret := make([]Category, 0, len(s))
	for c := range s {
		ret = append(ret, c)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })
	return ret
}

// Normalize applies the widget-level precedence: detected sources dominate
// both placeholders and unknown dominates none. An empty set becomes {none}.
func (s CategorySet) Normalize() CategorySet {
	ret := make(CategorySet, len(s))
	for c := range s {
		if !c.IsFallback() {
			ret.Add(c)
		}
	}
	switch {
	case len(ret) > 0:
	case s.Has(CategoryUnknown):
		ret.Add(CategoryUnknown)
	default:
		ret.Add(CategoryNone)
	}
	return ret
}

func (s CategorySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *CategorySet) UnmarshalJSON(data []byte) error {
	var cats []Category
	if err := json.Unmarshal(data, &cats); err != nil {
		return err
	}
	*s = NewCategorySet(cats...)
	return nil
}

func (s CategorySet) MarshalYAML() (any, error) {
	return s.Sorted(), nil
}
