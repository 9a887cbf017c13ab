package fsdb

import (
	"errors"
	"os"
	"strings"
)

// ErrEmptyPrompt is returned for prompt files with only whitespace.
var ErrEmptyPrompt = errors.New("empty prompt file")

type PromptsEntity struct {
	*StorageEntity
}

// NewPromptsEntity opens the directory holding <id>.prompt files.
func NewPromptsEntity(dir string) *PromptsEntity {
	return &PromptsEntity{StorageEntity: &StorageEntity{Label: "prompt", Dir: dir, FileExtension: ".prompt"}}
}

// Get loads the prompt of a widget. A missing file surfaces as an error
// matching os.ErrNotExist and an empty file as ErrEmptyPrompt.
func (o *PromptsEntity) Get(widgetID string) (ret *Prompt, err error) {
	var content []byte
	if content, err = o.Load(widgetID); err != nil {
		return ret, err
	}

	text := strings.TrimSpace(string(content))
	if text == "" {
		return ret, ErrEmptyPrompt
	}

	ret = &Prompt{WidgetID: widgetID, Content: text}
	return ret, err
}

// IsMissing reports whether err came from an absent prompt file.
func IsMissing(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

type Prompt struct {
	WidgetID string
	Content  string
}
