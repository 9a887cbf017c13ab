package i18n

import (
	"embed"
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	mu        sync.RWMutex
	localizer *i18n.Localizer
)

// Init loads the embedded catalogs and selects lang. An empty lang falls back to
// the environment (LC_ALL, LANG) and then to English.
func Init(lang string) (*i18n.Localizer, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+e.Name()); err != nil {
			return nil, err
		}
	}

	if lang == "" {
		lang = detectLanguage()
	}
	loc := i18n.NewLocalizer(bundle, lang, "en")

	mu.Lock()
	localizer = loc
	mu.Unlock()
	return loc, nil
}

func detectLanguage() string {
	for _, key := range []string{"LC_ALL", "LANG"} {
		if v := os.Getenv(key); v != "" {
			v = strings.SplitN(v, ".", 2)[0]
			if tag, err := language.Parse(strings.ReplaceAll(v, "_", "-")); err == nil {
				base, _ := tag.Base()
				return base.String()
			}
		}
	}
	return "en"
}

// T returns the localized message for id, or id itself when it is unknown.
func T(id string) string {
	mu.RLock()
	loc := localizer
	mu.RUnlock()
	if loc == nil {
		var err error
		if loc, err = Init(""); err != nil {
			return id
		}
	}
	msg, err := loc.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil {
		return id
	}
	return msg
}
