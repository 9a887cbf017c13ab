package schema

import (
	"encoding/json"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"
)

const (
	// ToolName is the function every assistant turn calls.
	ToolName = "WriteUbersichtWidgetToFileSystem"
	// ArgumentKey holds the widget source inside the call arguments.
	ArgumentKey = "jsxContent"

	toolDescription     = "Writes an Übersicht Widget to the file system. Call this tool as the last step in processing a prompt that generates a widget."
	argumentDescription = "Complete JSX code for an Übersicht widget. This should include all required exports: command, refreshFrequency, render, and className. The JSX should be a complete, valid Übersicht widget file."
)

// Parameters returns the JSON schema of the tool arguments.
func Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			ArgumentKey: map[string]any{
				"type":        "string",
				"description": argumentDescription,
			},
		},
		"required": []string{ArgumentKey},
	}
}

// ToolParam returns the tool definition in Chat Completions form.
func ToolParam() openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Function: shared.FunctionDefinitionParam{
			Name:        ToolName,
			Description: openai.String(toolDescription),
			Parameters:  shared.FunctionParameters(Parameters()),
		},
	}
}

// Descriptor returns the serialized tool definition embedded in system turns.
func Descriptor() (json.RawMessage, error) {
	data, err := json.Marshal(ToolParam())
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}
