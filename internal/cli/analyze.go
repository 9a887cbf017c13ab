package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ubersicht-tools/widgetset/internal/classify"
	"github.com/ubersicht-tools/widgetset/internal/corpus"
	"github.com/ubersicht-tools/widgetset/internal/domain"
	"github.com/ubersicht-tools/widgetset/internal/i18n"
	"github.com/ubersicht-tools/widgetset/internal/log"
	"github.com/ubersicht-tools/widgetset/internal/report"
	"github.com/ubersicht-tools/widgetset/internal/sizing"
)

func (o *app) analyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: i18n.T("cli_analyze_short"),
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "sources",
			Short: i18n.T("cli_analyze_sources_short"),
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, args []string) error { return o.runAnalyzeSources() },
		},
		&cobra.Command{
			Use:   "urls",
			Short: i18n.T("cli_analyze_urls_short"),
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, args []string) error { return o.runAnalyzeURLs() },
		},
		&cobra.Command{
			Use:   "sizes",
			Short: i18n.T("cli_analyze_sizes_short"),
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, args []string) error { return o.runAnalyzeSizes() },
		},
	)
	return cmd
}

// scanWidgets reads every widget folder below the downloads directory with
// the analysis extensions and passes its files to visit.
func (o *app) scanWidgets(visit func(row domain.WidgetRow, files []corpus.File)) (files int, err error) {
	var rows []domain.WidgetRow
	if rows, err = corpus.DiscoverWidgets(o.flags.DownloadsDir); err != nil {
		return 0, errors.Wrapf(err, "could not list %s", o.flags.DownloadsDir)
	}

	loader := corpus.NewLoader(o.flags.DownloadsDir, corpus.AnalysisExtensions, sizing.Default())
	for _, row := range rows {
		read, err := loader.ReadFiles(row.Folder)
		if err != nil {
			log.Debug(log.Detailed, "widget %s: %v", row.ID, err)
			continue
		}
		files += len(read)
		visit(row, read)
	}
	return files, nil
}

func (o *app) runAnalyzeSources() (err error) {
	var classifier *classify.Classifier
	if classifier, err = o.classifier(); err != nil {
		return err
	}

	rep := report.NewSourcesReport(classifier)
	var files int
	if files, err = o.scanWidgets(func(row domain.WidgetRow, read []corpus.File) { rep.Add(row.ID, read) }); err != nil {
		return err
	}
	o.printf(i18n.T("cli_scanned")+"\n", files, rep.Len())

	sourcesPath := o.reportPath(report.SourcesFile)
	if err = report.WriteJSON(sourcesPath, rep.Widgets); err != nil {
		return err
	}
	categoriesPath := o.reportPath(report.CategoriesFile)
	if err = report.WriteJSON(categoriesPath, rep.Categories()); err != nil {
		return err
	}

	o.println("")
	o.printf("%s", report.SourcesSummary(rep, o.styles))
	o.printf(i18n.T("cli_saved")+"\n", sourcesPath)
	o.printf(i18n.T("cli_saved")+"\n", categoriesPath)
	return nil
}

func (o *app) runAnalyzeURLs() (err error) {
	inventory := classify.NewURLInventory(classify.DefaultURLClassifier())
	var files int
	if files, err = o.scanWidgets(func(row domain.WidgetRow, read []corpus.File) {
		for _, f := range read {
			inventory.Add(row.ID, f.Text)
		}
	}); err != nil {
		return err
	}

	groups := inventory.Groups()
	path := o.reportPath(report.URLsFile)
	if err = report.WriteJSON(path, groups); err != nil {
		return err
	}

	o.printf(i18n.T("cli_urls_found")+"\n", files, inventory.Len(), len(groups))
	o.println("")
	o.printf("%s", report.URLsSummary(groups, o.styles))
	o.printf(i18n.T("cli_saved")+"\n", path)
	return nil
}

// analyzeSizes loads the eligible CSV rows the way a dataset build does and
// sizes them against the configured limit.
func (o *app) analyzeSizes() (ret *sizing.Analysis, err error) {
	var rows []domain.WidgetRow
	if rows, err = corpus.ReadRows(o.flags.CSVFile, o.flags.Columns); err != nil {
		return nil, err
	}
	var estimator *sizing.Estimator
	if estimator, err = o.estimator(); err != nil {
		return nil, err
	}

	loader := corpus.NewLoader(o.flags.DownloadsDir, corpus.DatasetExtensions, estimator)
	records := make([]domain.WidgetRecord, 0, len(rows))
	for _, row := range rows {
		if rec, ok := loader.Load(row); ok {
			records = append(records, rec)
		}
	}
	return estimator.Analyze(records, o.flags.MaxTokens), nil
}

func (o *app) runAnalyzeSizes() (err error) {
	var analysis *sizing.Analysis
	if analysis, err = o.analyzeSizes(); err != nil {
		return err
	}

	path := o.reportPath(report.SizesFile)
	if err = report.WriteJSON(path, analysis); err != nil {
		return err
	}

	o.printf("%s", report.SizesSummary(analysis, o.styles))
	o.printf(i18n.T("cli_saved")+"\n", path)
	return nil
}
