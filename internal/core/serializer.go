package core

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ubersicht-tools/widgetset/internal/chat"
	"github.com/ubersicht-tools/widgetset/internal/domain"
	"github.com/ubersicht-tools/widgetset/internal/plugins/schema"
)

// toolCallNamespace scopes the name-based UUIDs used as tool call ids.
var toolCallNamespace = uuid.MustParse("6f1c2a7e-3b8d-5e4f-9a10-7c2d4b6e8f01")

// Serializer renders dataset entries as training conversations.
type Serializer struct {
	system string
	tools  []json.RawMessage
}

// NewSerializer embeds the given system prompt and the widget tool descriptor
// in every conversation.
func NewSerializer(systemPrompt string) (*Serializer, error) {
	descriptor, err := schema.Descriptor()
	if err != nil {
		return nil, errors.Wrap(err, "could not build tool descriptor")
	}
	return &Serializer{system: systemPrompt, tools: []json.RawMessage{descriptor}}, nil
}

// ToolCallID derives a stable call id from the widget id.
func ToolCallID(widgetID string) string {
	return "call_" + uuid.NewSHA1(toolCallNamespace, []byte(widgetID)).String()
}

// Conversation builds the system, user, assistant triple for one entry.
func (o *Serializer) Conversation(entry domain.DatasetEntry) (ret chat.Conversation, err error) {
	var args string
	if args, err = schema.EncodeArguments(entry.Code); err != nil {
		return ret, err
	}

	ret[0] = chat.ChatCompletionMessage{Role: chat.ChatMessageRoleSystem, Content: o.system, Tools: o.tools}
	ret[1] = chat.ChatCompletionMessage{Role: chat.ChatMessageRoleUser, Content: entry.Prompt}
	ret[2] = chat.ChatCompletionMessage{
		Role:    chat.ChatMessageRoleAssistant,
		Content: "",
		ToolCalls: []chat.ToolCall{{
			ID:       ToolCallID(entry.WidgetID),
			Type:     chat.ToolTypeFunction,
			Function: chat.FunctionCall{Name: schema.ToolName, Arguments: args},
		}},
	}
	return ret, nil
}

// WriteFile writes one conversation per line to path, replacing the file.
func (o *Serializer) WriteFile(path string, entries []domain.DatasetEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, entry := range entries {
		conv, err := o.Conversation(entry)
		if err != nil {
			return errors.Wrapf(err, "widget %s", entry.WidgetID)
		}
		if err := enc.Encode(conv); err != nil {
			return errors.Wrapf(err, "widget %s", entry.WidgetID)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}
