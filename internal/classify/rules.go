package classify

import (
	"fmt"
	"os"
	"regexp"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ubersicht-tools/widgetset/internal/domain"
)

// RuleSpec is the uncompiled form of a Rule as written in a rules file.
type RuleSpec struct {
	Category domain.Category `yaml:"category"`
	Patterns []string        `yaml:"patterns"`
}

// Rule pairs a category with the patterns that indicate it, in match order.
type Rule struct {
	Category domain.Category
	Patterns []*regexp.Regexp
}

// CompileRules validates and compiles specs. Rule order is preserved.
func CompileRules(specs []RuleSpec) ([]Rule, error) {
	seen := make(map[domain.Category]bool, len(specs))
	ret := make([]Rule, 0, len(specs))
	for _, spec := range specs {
		switch {
		case !spec.Category.IsValid():
			return nil, fmt.Errorf("unknown category %q", spec.Category)
		case spec.Category.IsFallback():
			return nil, fmt.Errorf("category %q is assigned by the fallback policy and cannot have patterns", spec.Category)
		case seen[spec.Category]:
			return nil, fmt.Errorf("category %q is listed twice", spec.Category)
		case len(spec.Patterns) == 0:
			return nil, fmt.Errorf("category %q has no patterns", spec.Category)
		}
		seen[spec.Category] = true

		rule := Rule{Category: spec.Category, Patterns: make([]*regexp.Regexp, 0, len(spec.Patterns))}
		for _, p := range spec.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, errors.Wrapf(err, "category %s", spec.Category)
			}
			rule.Patterns = append(rule.Patterns, re)
		}
		ret = append(ret, rule)
	}
	return ret, nil
}

// LoadRules reads a YAML list of rule specs and compiles it.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read rules file")
	}
	var specs []RuleSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, errors.Wrapf(err, "could not parse rules file %s", path)
	}
	return CompileRules(specs)
}

// DefaultRules returns the built-in content rules.
func DefaultRules() []Rule {
	rules, err := CompileRules(DefaultRuleSpecs())
	if err != nil {
		panic(err)
	}
	return rules
}

// DefaultRuleSpecs returns the built-in content patterns.
func DefaultRuleSpecs() []RuleSpec {
	return []RuleSpec{
		{domain.CategoryWeather, []string{
			`weather\.com`, `openweathermap`, `darksky`, `wunderground`, `wttr\.in`, `api\.weather`,
			`weather\.gov`, `forecast`, `temperature`, `humidity`, `weather`, `rain`, `snow`, `wind`,
		}},
		{domain.CategoryCrypto, []string{
			`bitcoin`, `btc`, `crypto`, `coinbase`, `binance`, `cryptocurrency`, `ethereum`, `eth`,
			`ltc`, `litecoin`, `marketcap`, `crypto.*price`,
		}},
		{domain.CategoryStock, []string{
			`stock`, `nasdaq`, `nyse`, `yahoo.*finance`, `alpha.*vantage`, `iex`, `stock.*price`, `equity`,
		}},
		{domain.CategorySystem, []string{
			`exec\(|run\(|shell`, `cpu`, `memory|ram`, `disk`, `battery`, `uptime`, `load`, `network`,
			`process`, `istats`, `system`, `/usr/bin`, `/bin/`,
		}},
		{domain.CategoryCalendar, []string{
			`ical`, `calendar`, `\.ics`, `event`, `appointment`, `google.*calendar`, `outlook.*calendar`,
		}},
		{domain.CategoryEmail, []string{
			`imap`, `email`, `mail`, `gmail`, `outlook`, `exchange`, `inbox`,
		}},
		{domain.CategoryGithub, []string{
			`github\.com/api`, `api\.github\.com`, `github.*api`, `github.*issue`, `github.*notification`,
			`github.*activity`, `github.*repo`,
		}},
		{domain.CategoryGitlab, []string{
			`gitlab\.com/api`, `api\.gitlab\.com`, `gitlab.*api`, `gitlab.*issue`,
		}},
		{domain.CategoryRSS, []string{`rss`, `feed`, `\.xml`, `atom`}},
		{domain.CategoryMusic, []string{
			`spotify`, `itunes`, `music`, `now.*playing`, `current.*track`, `last\.fm`, `lastfm`,
		}},
		{domain.CategoryNews, []string{`news`, `hacker.*news`, `reddit`, `rss.*news`, `feed.*news`}},
		{domain.CategoryTime, []string{`date`, `time`, `clock`, `timer`, `countdown`}},
		{domain.CategoryDocker, []string{`docker`, `container`}},
		{domain.CategoryKubernetes, []string{`kubernetes`, `k8s`}},
		{domain.CategoryIP, []string{`ip.*address`, `ipify`, `ip-api`, `whatismyip`}},
		{domain.CategoryLocation, []string{`location`, `gps`, `latitude`, `longitude`, `geolocation`}},
		{domain.CategoryQuote, []string{`quote`, `brainyquote`, `inspirational`}},
		{domain.CategoryTodo, []string{`todo`, `todoist`, `task`}},
		{domain.CategoryTransit, []string{`transit`, `bus`, `train`, `metro`, `mbta`, `bart`}},
		{domain.CategoryCovid, []string{`covid`, `coronavirus`, `pandemic`}},
		{domain.CategoryNASA, []string{`nasa`, `apod`, `astronaut`}},
	}
}

// DefaultURLRuleSpecs returns the patterns used to categorize URLs.
func DefaultURLRuleSpecs() []RuleSpec {
	const seg = `[^\s"']*`
	urlRule := func(c domain.Category, needles ...string) RuleSpec {
		patterns := make([]string, 0, len(needles))
		for _, n := range needles {
			patterns = append(patterns, `https?://`+seg+n+seg)
		}
		return RuleSpec{Category: c, Patterns: patterns}
	}
	return []RuleSpec{
		urlRule(domain.CategoryWeather, `weather`, `wttr`, `darksky`, `openweathermap`, `wunderground`, `forecast`),
		urlRule(domain.CategoryCrypto, `bitcoin`, `crypto`, `coinbase`, `binance`, `coinmarketcap`, `cryptocurrency`, `api\.cryptowat\.ch`),
		urlRule(domain.CategoryStock, `yahoo.*finance`, `alphavantage`, `iextrading`, `stock`, `nasdaq`),
		urlRule(domain.CategoryGithub, `api\.github\.com`, `github\.com.*api`),
		urlRule(domain.CategoryGitlab, `api\.gitlab\.com`, `gitlab\.com.*api`),
		urlRule(domain.CategoryRSS, `\.xml`, `rss`, `feed`, `atom`),
		urlRule(domain.CategoryNews, `hacker.*news`, `reddit`, `news`),
		urlRule(domain.CategoryNASA, `nasa`, `apod`),
		urlRule(domain.CategoryIP, `ipify`, `ip-api`, `whatismyip`),
		urlRule(domain.CategoryMusic, `spotify`, `last\.fm`, `lastfm`),
		urlRule(domain.CategoryQuote, `brainyquote`, `quote`),
		urlRule(domain.CategoryTransit, `mbta`, `bart`, `transit`),
		urlRule(domain.CategoryCovid, `covid`, `coronavirus`),
	}
}
