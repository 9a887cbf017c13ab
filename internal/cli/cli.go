package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ubersicht-tools/widgetset/internal/classify"
	"github.com/ubersicht-tools/widgetset/internal/i18n"
	"github.com/ubersicht-tools/widgetset/internal/log"
	"github.com/ubersicht-tools/widgetset/internal/prompts"
	"github.com/ubersicht-tools/widgetset/internal/report"
	"github.com/ubersicht-tools/widgetset/internal/sizing"
	"github.com/ubersicht-tools/widgetset/internal/util"
)

// Cli runs the widgetset command line with the process arguments.
func Cli(version string) error {
	return NewRootCommand(version, os.Stdout).Execute()
}

// NewRootCommand builds the command tree writing its results to out.
func NewRootCommand(version string, out io.Writer) *cobra.Command {
	return newApp(out).rootCommand(version)
}

type app struct {
	parsed     Flags
	configPath string
	seed       int64
	lookupEnv  func(string) (string, bool)

	flags    Flags
	registry *prompts.Registry
	out      io.Writer
	styles   report.Styles
}

func newApp(out io.Writer) *app {
	return &app{
		lookupEnv: os.LookupEnv,
		registry:  prompts.NewRegistry(),
		out:       out,
		styles:    report.DefaultStyles(),
	}
}

func (o *app) rootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "widgetset",
		Short:         i18n.T("cli_root_short"),
		Long:          i18n.T("cli_root_long"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Sync()
		},
	}
	bindFlags(root, &o.parsed, &o.configPath, &o.seed)
	root.SetOut(o.out)
	root.AddCommand(o.analyzeCommand(), o.strategyCommand(), o.buildCommand(), o.promptsCommand())
	return root
}

// setup resolves and validates the settings before any command writes output.
func (o *app) setup(cmd *cobra.Command) (err error) {
	LoadEnvFiles()

	if o.configPath != "" {
		if o.configPath, err = util.GetAbsolutePath(o.configPath); err != nil {
			return err
		}
	}

	var flags Flags
	if flags, err = resolveFlags(cmd, &o.parsed, o.configPath, o.seed, o.lookupEnv); err != nil {
		return err
	}
	if _, err = i18n.Init(flags.Language); err != nil {
		return err
	}
	log.SetLevel(log.LevelFromInt(flags.Debug))
	if err = flags.Validate(o.registry); err != nil {
		return err
	}

	log.Debug(log.Detailed, "settings: %+v", flags)
	o.flags = flags
	return nil
}

func (o *app) estimator() (*sizing.Estimator, error) {
	return sizing.New(o.flags.CharsPerToken)
}

func (o *app) classifier() (ret *classify.Classifier, err error) {
	rules := classify.DefaultRules()
	if o.flags.RulesFile != "" {
		if rules, err = classify.LoadRules(o.flags.RulesFile); err != nil {
			return nil, err
		}
	}
	return classify.NewClassifier(rules, classify.Policy{Indicators: o.flags.DynamicIndicators}), nil
}

func (o *app) reportPath(name string) string {
	return filepath.Join(o.flags.ReportsDir, name)
}

func (o *app) printf(format string, a ...any) {
	fmt.Fprintf(o.out, format, a...)
}

func (o *app) println(s string) {
	fmt.Fprintln(o.out, s)
}
