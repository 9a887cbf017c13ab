package core

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ubersicht-tools/widgetset/internal/chat"
	"github.com/ubersicht-tools/widgetset/internal/i18n"
	"github.com/ubersicht-tools/widgetset/internal/plugins/schema"
)

// IntegrityError reports the first line of a dataset file that does not
// parse back into a well-formed conversation.
type IntegrityError struct {
	File string
	Line int
	Err  error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf(i18n.T("core_error_integrity"), e.File, e.Line, e.Err)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

// Validator re-reads written dataset files.
type Validator struct {
	args *schema.Validator
}

func NewValidator() (*Validator, error) {
	args, err := schema.NewValidator()
	if err != nil {
		return nil, err
	}
	return &Validator{args: args}, nil
}

// ValidateFile checks every line of path and returns the number of records.
func (o *Validator) ValidateFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for line := 1; ; line++ {
		data, err := r.ReadBytes('\n')
		if len(data) == 0 && err == io.EOF {
			return line - 1, nil
		}
		if err != nil && err != io.EOF {
			return line - 1, err
		}
		if _, verr := o.ValidateLine(bytes.TrimSuffix(data, []byte("\n"))); verr != nil {
			return line - 1, &IntegrityError{File: path, Line: line, Err: verr}
		}
		if err == io.EOF {
			return line, nil
		}
	}
}

// ValidateLine parses one JSONL record and returns the widget code carried by
// its tool call.
func (o *Validator) ValidateLine(data []byte) (string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", fmt.Errorf("not a JSON array: %w", err)
	}
	if len(raw) != 3 {
		return "", fmt.Errorf("expected 3 messages, got %d", len(raw))
	}

	var conv chat.Conversation
	for i, msg := range raw {
		if err := json.Unmarshal(msg, &conv[i]); err != nil {
			return "", fmt.Errorf("message %d: %w", i, err)
		}
	}

	wantRoles := []string{chat.ChatMessageRoleSystem, chat.ChatMessageRoleUser, chat.ChatMessageRoleAssistant}
	for i, role := range wantRoles {
		if conv[i].Role != role {
			return "", fmt.Errorf("message %d has role %q, want %q", i, conv[i].Role, role)
		}
	}
	if strings.TrimSpace(conv.User().Content) == "" {
		return "", fmt.Errorf("user message is empty")
	}
	if len(conv.System().Tools) == 0 {
		return "", fmt.Errorf("system message has no tool descriptor")
	}

	assistant := conv.Assistant()
	if assistant.Content != "" {
		return "", fmt.Errorf("assistant message has text content")
	}
	if len(assistant.ToolCalls) != 1 {
		return "", fmt.Errorf("expected 1 tool call, got %d", len(assistant.ToolCalls))
	}
	call := assistant.ToolCalls[0].Function
	if call.Name != schema.ToolName {
		return "", fmt.Errorf("unexpected tool %q", call.Name)
	}
	if err := o.args.Validate(call.Arguments); err != nil {
		return "", err
	}
	return schema.DecodeArguments(call.Arguments)
}
