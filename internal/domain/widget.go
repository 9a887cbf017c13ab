package domain

// SourceFile describes one widget file that contributed to a WidgetRecord.
type SourceFile struct {
	Path  string `json:"file"`
	Chars int    `json:"chars"`
	Lines int    `json:"lines"`
}

// WidgetRecord is a widget's concatenated source together with its size metrics.
// Character counts are Unicode code points.
type WidgetRecord struct {
	ID         string       `json:"widget_id"`
	Folder     string       `json:"widget_folder"`
	Files      []SourceFile `json:"file_sizes"`
	Code       string       `json:"-"`
	CharCount  int          `json:"total_chars"`
	LineCount  int          `json:"total_lines"`
	Tokens     int          `json:"estimated_tokens"`
	Categories CategorySet  `json:"sources,omitempty"`
}

// WidgetRow is one eligible row of the widget processing CSV.
type WidgetRow struct {
	ID     string
	Folder string
}

// DatasetEntry pairs a prompt with the final (possibly truncated) widget code.
type DatasetEntry struct {
	Prompt   string `json:"prompt"`
	Code     string `json:"code"`
	WidgetID string `json:"widget_id"`
}

// Split names one partition of the dataset.
type Split string

const (
	SplitTrain Split = "train"
	SplitValid Split = "valid"
	SplitTest  Split = "test"
)

// AllSplits returns the partitions in output order.
func AllSplits() []Split {
	return []Split{SplitTrain, SplitValid, SplitTest}
}

// FileName returns the JSONL file name for the split.
func (s Split) FileName() string {
	return string(s) + ".jsonl"
}
