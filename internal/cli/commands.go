package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ubersicht-tools/widgetset/internal/core"
	"github.com/ubersicht-tools/widgetset/internal/corpus"
	"github.com/ubersicht-tools/widgetset/internal/domain"
	"github.com/ubersicht-tools/widgetset/internal/i18n"
	"github.com/ubersicht-tools/widgetset/internal/plugins/db/fsdb"
	"github.com/ubersicht-tools/widgetset/internal/plugins/strategy"
	"github.com/ubersicht-tools/widgetset/internal/report"
	"github.com/ubersicht-tools/widgetset/internal/sizing"
)

func (o *app) strategyCommand() *cobra.Command {
	var output string
	suggest := &cobra.Command{
		Use:   "suggest",
		Short: i18n.T("cli_strategy_suggest_short"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runStrategySuggest(output)
		},
	}
	suggest.Flags().StringVarP(&output, "output", "o", "", i18n.T("cli_flag_strategy_output"))

	cmd := &cobra.Command{
		Use:   "strategy",
		Short: i18n.T("cli_strategy_short"),
	}
	cmd.AddCommand(suggest)
	return cmd
}

func (o *app) runStrategySuggest(output string) (err error) {
	if output == "" {
		output = o.flags.StrategyFile
	}

	var analysis *sizing.Analysis
	if analysis, err = o.analyzeSizes(); err != nil {
		return err
	}

	file := strategy.Suggest(analysis)
	if err = file.Write(output); err != nil {
		return err
	}

	var excluded, truncated int
	for _, e := range file.Strategy {
		switch e.Action {
		case strategy.ActionExclude:
			excluded++
		case strategy.ActionTruncate:
			truncated++
		}
	}
	o.printf(i18n.T("cli_strategy_written")+"\n", output, excluded, truncated, analysis.TotalWidgets-excluded)
	return nil
}

func (o *app) buildCommand() *cobra.Command {
	var set string
	cmd := &cobra.Command{
		Use:   "build",
		Short: i18n.T("cli_build_short"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runBuild(set)
		},
	}
	cmd.Flags().StringVarP(&set, "set", "s", "", i18n.T("cli_flag_set"))
	_ = cmd.MarkFlagRequired("set")
	return cmd
}

func (o *app) runBuild(set string) (err error) {
	if set == "" || set != filepath.Base(set) || set == "." || set == ".." {
		return fmt.Errorf(i18n.T("cli_error_invalid_set"), set)
	}

	var rows []domain.WidgetRow
	if rows, err = corpus.ReadRows(o.flags.CSVFile, o.flags.Columns); err != nil {
		return err
	}
	var estimator *sizing.Estimator
	if estimator, err = o.estimator(); err != nil {
		return err
	}
	var system string
	if system, err = o.registry.Get(o.flags.SystemPrompt); err != nil {
		return err
	}

	loader := corpus.NewLoader(o.flags.DownloadsDir, corpus.DatasetExtensions, estimator)
	resolver := strategy.Load(o.flags.StrategyFile)
	assembler := core.NewAssembler(loader, fsdb.NewPromptsEntity(o.flags.PromptsDir), resolver, estimator, o.flags.MaxTokens)

	var serializer *core.Serializer
	if serializer, err = core.NewSerializer(system); err != nil {
		return err
	}
	var builder *core.Builder
	if builder, err = core.NewBuilder(assembler, serializer); err != nil {
		return err
	}

	var ds *core.Dataset
	if ds, err = builder.Build(rows, core.BuildOptions{
		OutputDir:    filepath.Join(o.flags.DatasetsDir, set),
		Seed:         o.flags.Seed,
		SystemPrompt: o.flags.SystemPrompt,
	}); err != nil {
		return err
	}

	o.printDataset(len(rows), ds)
	return nil
}

func (o *app) printDataset(eligible int, ds *core.Dataset) {
	res := ds.Result
	o.printf(i18n.T("cli_build_processed")+"\n", len(res.Entries), eligible)
	if len(res.Skipped) > 0 {
		o.printf(i18n.T("cli_build_skipped")+"\n", len(res.Skipped))
	}
	if len(res.Excluded) > 0 {
		o.printf(i18n.T("cli_build_excluded")+"\n", len(res.Excluded), strings.Join(res.Excluded, ", "))
	}
	if len(res.Truncated) > 0 {
		o.printf(i18n.T("cli_build_truncated")+"\n", len(res.Truncated))
	}

	table := report.NewTable("", i18n.T("report_header_split"), i18n.T("report_header_records"), "SHA-256").AlignRight(1)
	for _, split := range domain.AllSplits() {
		table.AddRow(split.FileName(), strconv.Itoa(ds.Manifest.Counts[split]), ds.Manifest.SHA256[split.FileName()])
	}
	o.println("")
	o.printf("%s", table.Render(o.styles))
	o.println("")
	o.printf(i18n.T("cli_build_created")+"\n",
		len(ds.Splits.Train), len(ds.Splits.Valid), len(ds.Splits.Test), ds.Dir)
	o.printf(i18n.T("cli_build_seed")+"\n", ds.Manifest.Seed)
}

func (o *app) promptsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompts",
		Short: i18n.T("cli_prompts_short"),
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: i18n.T("cli_prompts_list_short"),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				for _, name := range o.registry.Names() {
					marker := " "
					if name == o.flags.SystemPrompt {
						marker = "*"
					}
					o.printf("%s %s\n", marker, name)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "show [name]",
			Short: i18n.T("cli_prompts_show_short"),
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				name := o.flags.SystemPrompt
				if len(args) == 1 {
					name = args[0]
				}
				text, err := o.registry.Get(name)
				if err != nil {
					return err
				}
				o.println(text)
				return nil
			},
		},
	)
	return cmd
}
