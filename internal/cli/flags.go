package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ubersicht-tools/widgetset/internal/classify"
	"github.com/ubersicht-tools/widgetset/internal/corpus"
	"github.com/ubersicht-tools/widgetset/internal/i18n"
	"github.com/ubersicht-tools/widgetset/internal/log"
	"github.com/ubersicht-tools/widgetset/internal/plugins/strategy"
	"github.com/ubersicht-tools/widgetset/internal/prompts"
	"github.com/ubersicht-tools/widgetset/internal/sizing"
	"github.com/ubersicht-tools/widgetset/internal/util"
)

// EnvPrefix prefixes the environment variables that override config keys.
const EnvPrefix = "WIDGETSET_"

// Flags holds every setting. Built-in defaults are overridden by the YAML
// config file, then by WIDGETSET_* variables, then by command-line flags.
type Flags struct {
	Language          string         `yaml:"language"`
	Debug             int            `yaml:"debug"`
	CSVFile           string         `yaml:"csv_file"`
	DownloadsDir      string         `yaml:"downloads_dir"`
	PromptsDir        string         `yaml:"prompts_dir"`
	DatasetsDir       string         `yaml:"datasets_dir"`
	ReportsDir        string         `yaml:"reports_dir"`
	CharsPerToken     int            `yaml:"chars_per_token"`
	MaxTokens         int            `yaml:"max_tokens"`
	StrategyFile      string         `yaml:"strategy_file"`
	SystemPrompt      string         `yaml:"system_prompt"`
	Seed              *int64         `yaml:"seed"`
	RulesFile         string         `yaml:"rules_file"`
	DynamicIndicators []string       `yaml:"dynamic_indicators"`
	Columns           corpus.Columns `yaml:"columns"`
}

func DefaultFlags() Flags {
	return Flags{
		CSVFile:           "widget_processing_results.csv",
		DownloadsDir:      "downloads",
		PromptsDir:        "prompts",
		DatasetsDir:       "datasets",
		ReportsDir:        ".",
		CharsPerToken:     sizing.DefaultCharsPerToken,
		MaxTokens:         sizing.DefaultMaxTokens,
		StrategyFile:      strategy.DefaultFile,
		SystemPrompt:      prompts.DefaultVariant,
		DynamicIndicators: append([]string(nil), classify.DefaultIndicators...),
		Columns:           corpus.DefaultColumns(),
	}
}

// LoadConfigFile merges the YAML file at path into o. A missing file leaves o
// unchanged and logs a warning.
func (o *Flags) LoadConfigFile(path string) (err error) {
	var data []byte
	if data, err = os.ReadFile(path); err != nil {
		if os.IsNotExist(err) {
			log.Warn(i18n.T("cli_warn_missing_config"), path)
			return nil
		}
		return fmt.Errorf(i18n.T("cli_error_read_config"), path, err)
	}

	var doc map[string]any
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf(i18n.T("cli_error_parse_config"), path, err)
	}
	if err = validateConfigWithSchema(doc); err != nil {
		return fmt.Errorf(i18n.T("cli_error_parse_config"), path, err)
	}
	if err = yaml.Unmarshal(data, o); err != nil {
		return fmt.Errorf(i18n.T("cli_error_parse_config"), path, err)
	}
	return nil
}

// LoadEnvFiles loads .env files into the process environment without
// replacing variables that are already set.
func LoadEnvFiles() {
	candidates := []string{".env"}
	if dir, err := util.ConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, ".env"))
	}
	for _, f := range candidates {
		if !util.FileExists(f) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			log.Warn(i18n.T("cli_warn_env_file"), f, err)
		}
	}
}

// ApplyEnv overrides o with WIDGETSET_<KEY> variables, where KEY is the upper
// case config key.
func (o *Flags) ApplyEnv(lookup func(string) (string, bool)) (err error) {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if err != nil {
			return
		}
		if v, ok := lookup(EnvPrefix + key); ok {
			var n int
			if n, err = strconv.Atoi(strings.TrimSpace(v)); err != nil {
				err = fmt.Errorf(i18n.T("cli_error_env_value"), EnvPrefix+key, err)
				return
			}
			*dst = n
		}
	}

	str("LANGUAGE", &o.Language)
	num("DEBUG", &o.Debug)
	str("CSV_FILE", &o.CSVFile)
	str("DOWNLOADS_DIR", &o.DownloadsDir)
	str("PROMPTS_DIR", &o.PromptsDir)
	str("DATASETS_DIR", &o.DatasetsDir)
	str("REPORTS_DIR", &o.ReportsDir)
	num("CHARS_PER_TOKEN", &o.CharsPerToken)
	num("MAX_TOKENS", &o.MaxTokens)
	str("STRATEGY_FILE", &o.StrategyFile)
	str("SYSTEM_PROMPT", &o.SystemPrompt)
	str("RULES_FILE", &o.RulesFile)
	if err != nil {
		return err
	}

	if v, ok := lookup(EnvPrefix + "SEED"); ok {
		var seed int64
		if seed, err = strconv.ParseInt(strings.TrimSpace(v), 10, 64); err != nil {
			return fmt.Errorf(i18n.T("cli_error_env_value"), EnvPrefix+"SEED", err)
		}
		o.Seed = &seed
	}
	if v, ok := lookup(EnvPrefix + "DYNAMIC_INDICATORS"); ok {
		o.DynamicIndicators = splitList(v)
	}
	return nil
}

func splitList(v string) []string {
	var ret []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			ret = append(ret, s)
		}
	}
	return ret
}

// Validate checks the settings before anything is written.
func (o *Flags) Validate(registry *prompts.Registry) error {
	if o.CharsPerToken < 1 {
		return fmt.Errorf(i18n.T("cli_error_invalid_setting"), "chars_per_token", o.CharsPerToken)
	}
	if o.MaxTokens < 1 {
		return fmt.Errorf(i18n.T("cli_error_invalid_setting"), "max_tokens", o.MaxTokens)
	}
	if o.Columns.ID == "" || o.Columns.Folder == "" {
		return fmt.Errorf(i18n.T("cli_error_invalid_setting"), "columns", o.Columns)
	}
	if _, err := registry.Get(o.SystemPrompt); err != nil {
		return err
	}
	return nil
}

// flagBinding copies one command-line flag into the merged settings when the
// user set it explicitly.
type flagBinding struct {
	name  string
	apply func(dst, src *Flags)
}

var flagBindings = []flagBinding{
	{"language", func(d, s *Flags) { d.Language = s.Language }},
	{"debug", func(d, s *Flags) { d.Debug = s.Debug }},
	{"csv", func(d, s *Flags) { d.CSVFile = s.CSVFile }},
	{"downloads", func(d, s *Flags) { d.DownloadsDir = s.DownloadsDir }},
	{"prompts", func(d, s *Flags) { d.PromptsDir = s.PromptsDir }},
	{"datasets", func(d, s *Flags) { d.DatasetsDir = s.DatasetsDir }},
	{"reports", func(d, s *Flags) { d.ReportsDir = s.ReportsDir }},
	{"chars-per-token", func(d, s *Flags) { d.CharsPerToken = s.CharsPerToken }},
	{"max-tokens", func(d, s *Flags) { d.MaxTokens = s.MaxTokens }},
	{"strategy", func(d, s *Flags) { d.StrategyFile = s.StrategyFile }},
	{"system-prompt", func(d, s *Flags) { d.SystemPrompt = s.SystemPrompt }},
	{"rules", func(d, s *Flags) { d.RulesFile = s.RulesFile }},
}

// bindFlags registers the persistent flags of the root command.
func bindFlags(cmd *cobra.Command, f *Flags, configPath *string, seed *int64) {
	def := DefaultFlags()
	pf := cmd.PersistentFlags()
	pf.StringVarP(configPath, "config", "c", "", i18n.T("cli_flag_config"))
	pf.StringVarP(&f.Language, "language", "g", "", i18n.T("cli_flag_language"))
	pf.IntVar(&f.Debug, "debug", 0, i18n.T("cli_flag_debug"))
	pf.StringVar(&f.CSVFile, "csv", def.CSVFile, i18n.T("cli_flag_csv"))
	pf.StringVar(&f.DownloadsDir, "downloads", def.DownloadsDir, i18n.T("cli_flag_downloads"))
	pf.StringVar(&f.PromptsDir, "prompts", def.PromptsDir, i18n.T("cli_flag_prompts"))
	pf.StringVar(&f.DatasetsDir, "datasets", def.DatasetsDir, i18n.T("cli_flag_datasets"))
	pf.StringVar(&f.ReportsDir, "reports", def.ReportsDir, i18n.T("cli_flag_reports"))
	pf.IntVar(&f.CharsPerToken, "chars-per-token", def.CharsPerToken, i18n.T("cli_flag_chars_per_token"))
	pf.IntVar(&f.MaxTokens, "max-tokens", def.MaxTokens, i18n.T("cli_flag_max_tokens"))
	pf.StringVar(&f.StrategyFile, "strategy", def.StrategyFile, i18n.T("cli_flag_strategy"))
	pf.StringVar(&f.SystemPrompt, "system-prompt", def.SystemPrompt, i18n.T("cli_flag_system_prompt"))
	pf.StringVar(&f.RulesFile, "rules", "", i18n.T("cli_flag_rules"))
	pf.Int64Var(seed, "seed", 0, i18n.T("cli_flag_seed"))
}

// resolveFlags merges defaults, config file, environment and the flags the
// user set on cmd.
func resolveFlags(cmd *cobra.Command, parsed *Flags, configPath string, seed int64,
	lookup func(string) (string, bool)) (ret Flags, err error) {

	ret = DefaultFlags()

	if configPath == "" {
		if configPath, err = util.GetDefaultConfigPath(); err != nil {
			return ret, err
		}
	}
	if configPath != "" {
		if err = ret.LoadConfigFile(configPath); err != nil {
			return ret, err
		}
	}

	if err = ret.ApplyEnv(lookup); err != nil {
		return ret, err
	}

	flags := cmd.Flags()
	for _, b := range flagBindings {
		if flags.Changed(b.name) {
			b.apply(&ret, parsed)
		}
	}
	if flags.Changed("seed") {
		ret.Seed = &seed
	}
	return ret, nil
}
