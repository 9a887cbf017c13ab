package prompts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ubersicht-tools/widgetset/internal/i18n"
)

const DefaultVariant = "default"

// ConfigurationError reports a system prompt name that is not registered.
type ConfigurationError struct {
	Name      string
	Available []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf(i18n.T("prompts_error_unknown_variant"), e.Name, strings.Join(e.Available, ", "))
}

// Registry maps variant names to system prompt text. It is filled once and
// only read afterwards.
type Registry struct {
	variants map[string]string
}

// NewRegistry returns a registry holding the built-in variants.
func NewRegistry() *Registry {
	return &Registry{variants: map[string]string{
		"default": defaultPrompt,
		"compact": compactPrompt,
		"minimal": minimalPrompt,
	}}
}

// Names returns the registered variant names in lexical order.
func (o *Registry) Names() []string {
	ret := make([]string, 0, len(o.variants))
	for name := range o.variants {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// Get returns the text of the named variant. An empty name selects the default.
func (o *Registry) Get(name string) (string, error) {
	if name == "" {
		name = DefaultVariant
	}
	text, ok := o.variants[name]
	if !ok {
		return "", &ConfigurationError{Name: name, Available: o.Names()}
	}
	return text, nil
}
