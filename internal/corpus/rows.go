package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/ubersicht-tools/widgetset/internal/domain"
	"github.com/ubersicht-tools/widgetset/internal/i18n"
)

// ErrMissingColumn is returned when the CSV header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Columns names the CSV columns the pipeline reads.
type Columns struct {
	ID            string `yaml:"id"`
	Folder        string `yaml:"folder"`
	Eligible      string `yaml:"eligible"`
	EligibleValue string `yaml:"eligible_value"`
}

func DefaultColumns() Columns {
	return Columns{
		ID:            "OS_widget_id",
		Folder:        "PS_widgetfoldername",
		Eligible:      "PS_isJSX",
		EligibleValue: "Y",
	}
}

// ReadRows returns the eligible rows of the widget CSV in file order.
func ReadRows(path string, cols Columns) ([]domain.WidgetRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf(i18n.T("corpus_error_open_csv"), err)
	}
	defer f.Close()
	return ParseRows(f, cols)
}

// ParseRows reads CSV content from r. Rows whose eligibility column differs
// from cols.EligibleValue are dropped.
func ParseRows(r io.Reader, cols Columns) ([]domain.WidgetRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.Wrapf(ErrMissingColumn, "column %q", cols.ID)
		}
		return nil, errors.Wrap(err, "could not read CSV header")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, name := range []string{cols.ID, cols.Folder, cols.Eligible} {
		if _, ok := index[name]; !ok {
			return nil, errors.Wrapf(ErrMissingColumn, "column %q", name)
		}
	}

	field := func(record []string, name string) string {
		if i := index[name]; i < len(record) {
			return record[i]
		}
		return ""
	}

	var ret []domain.WidgetRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "could not read CSV")
		}
		if field(record, cols.Eligible) != cols.EligibleValue {
			continue
		}
		ret = append(ret, domain.WidgetRow{
			ID:     field(record, cols.ID),
			Folder: field(record, cols.Folder),
		})
	}
	return ret, nil
}

// DiscoverWidgets lists the widget folders directly below root. A folder's
// widget id is its name without a trailing ".widget".
func DiscoverWidgets(root string) ([]domain.WidgetRow, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var ret []domain.WidgetRow
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		ret = append(ret, domain.WidgetRow{ID: strings.TrimSuffix(e.Name(), ".widget"), Folder: e.Name()})
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Folder < ret[j].Folder })
	return ret, nil
}
