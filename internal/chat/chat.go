package chat

import "encoding/json"

const (
	ChatMessageRoleSystem    = "system"
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"

	ToolTypeFunction = "function"
)

// FunctionCall is the function envelope of an assistant tool call. Arguments
// holds a JSON document encoded as a string.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// ChatCompletionMessage is one turn of a training conversation. Tools is only
// set on the system turn and carries the tool descriptors verbatim.
type ChatCompletionMessage struct {
	Role      string            `json:"role"`
	Content   string            `json:"content"`
	Tools     []json.RawMessage `json:"tools,omitempty"`
	ToolCalls []ToolCall        `json:"tool_calls,omitempty"`
}

// Conversation is a system, user, assistant triple serialized as a JSON array.
type Conversation [3]ChatCompletionMessage

func (c Conversation) System() ChatCompletionMessage    { return c[0] }
func (c Conversation) User() ChatCompletionMessage      { return c[1] }
func (c Conversation) Assistant() ChatCompletionMessage { return c[2] }
