package classify

import (
	"strings"

	"github.com/ubersicht-tools/widgetset/internal/domain"
)

// DefaultIndicators mark text as dynamic when no rule matched.
var DefaultIndicators = []string{"fetch(", "exec(", "run(", "http", "api", "url"}

// Policy decides between none and unknown for text that matched no rule.
type Policy struct {
	Indicators []string
}

// DefaultPolicy returns the policy built on DefaultIndicators.
func DefaultPolicy() Policy {
	return Policy{Indicators: append([]string(nil), DefaultIndicators...)}
}

// Fallback returns unknown when lowered contains any indicator, none otherwise.
func (p Policy) Fallback(lowered string) domain.Category {
	for _, ind := range p.Indicators {
		if ind != "" && strings.Contains(lowered, strings.ToLower(ind)) {
			return domain.CategoryUnknown
		}
	}
	return domain.CategoryNone
}

// Classifier maps source text to the set of data sources it references.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	rules  []Rule
	policy Policy
}

func NewClassifier(rules []Rule, policy Policy) *Classifier {
	return &Classifier{rules: rules, policy: policy}
}

// Default returns a classifier with the built-in rules and policy.
func Default() *Classifier {
	return NewClassifier(DefaultRules(), DefaultPolicy())
}

// Classify returns every category with at least one matching pattern. Rules are
// independent; within a rule the first match decides. The result is never empty.
func (c *Classifier) Classify(text string) domain.CategorySet {
	lowered := strings.ToLower(text)
	ret := domain.NewCategorySet()
	for _, rule := range c.rules {
		for _, re := range rule.Patterns {
			if re.MatchString(lowered) {
				ret.Add(rule.Category)
				break
			}
		}
	}
	if ret.Len() == 0 {
		ret.Add(c.policy.Fallback(lowered))
	}
	return ret
}

// ClassifyFiles classifies each text separately and merges the results into
// one widget-level set.
func (c *Classifier) ClassifyFiles(texts []string) domain.CategorySet {
	ret := domain.NewCategorySet()
	for _, text := range texts {
		ret.Union(c.Classify(text))
	}
	return ret.Normalize()
}
