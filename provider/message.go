package provider

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Role identifies who authored a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one turn of a normalized conversation. Messages are per-call and
// stateless; adapters translate them into vendor turns and discard them.
type Message struct {
	Role    Role
	Content string

	// ToolCalls carries the pending calls an assistant turn requested.
	ToolCalls []ToolCall

	// Name is the owning function of a tool-result turn.
	Name string

	// ToolCallID links a tool-result turn back to the call it answers.
	// Not every provider mapping uses it.
	ToolCallID string

	// Prevents unkeyed literals
	_ struct{}
}

// SystemMessage builds a system-role turn.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage builds a user-role turn.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds an assistant-role turn with optional pending calls.
func AssistantMessage(content string, calls ...ToolCall) Message {
	return Message{Role: RoleAssistant, Content: content, ToolCalls: calls}
}

// ToolMessage builds a tool-result turn for the named function.
func ToolMessage(callID, name, content string) Message {
	return Message{Role: RoleTool, Name: name, Content: content, ToolCallID: callID}
}

// MarshalJSON implements json.Marshaler. Empty optional fields are omitted so
// persisted conversations stay compact.
func (m Message) MarshalJSON() ([]byte, error) {
	result := []byte("{}")
	var err error
	result, err = sjson.SetBytes(result, "role", string(m.Role))
	if err != nil {
		return nil, err
	}
	if m.Content != "" {
		if result, err = sjson.SetBytes(result, "content", m.Content); err != nil {
			return nil, err
		}
	}
	if len(m.ToolCalls) > 0 {
		raw, merr := json.Marshal(m.ToolCalls)
		if merr != nil {
			return nil, merr
		}
		if result, err = sjson.SetRawBytes(result, "tool_calls", raw); err != nil {
			return nil, err
		}
	}
	if m.Name != "" {
		if result, err = sjson.SetBytes(result, "name", m.Name); err != nil {
			return nil, err
		}
	}
	if m.ToolCallID != "" {
		if result, err = sjson.SetBytes(result, "tool_call_id", m.ToolCallID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Message) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}
	jv := gjson.ParseBytes(data)
	m.Role = Role(jv.Get("role").String())
	m.Content = jv.Get("content").String()
	m.Name = jv.Get("name").String()
	m.ToolCallID = jv.Get("tool_call_id").String()
	m.ToolCalls = nil
	if tc := jv.Get("tool_calls"); tc.Exists() {
		if err := json.Unmarshal([]byte(tc.Raw), &m.ToolCalls); err != nil {
			return fmt.Errorf("invalid tool_calls: %w", err)
		}
	}
	return nil
}

// ToolCall is one structured function invocation requested by the model.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// ChatResult is the normalized outcome of a single chat turn. Content and
// ToolCalls may coexist; a result with FinishError carries neither.
type ChatResult struct {
	Content      string
	ToolCalls    []ToolCall
	FinishReason FinishReason
	Timestamp    strfmt.DateTime

	// Prevents unkeyed literals
	_ struct{}
}

// Empty reports whether the result carries neither content nor tool calls.
func (r ChatResult) Empty() bool {
	return strings.TrimSpace(r.Content) == "" && len(r.ToolCalls) == 0
}

// MarshalJSON implements json.Marshaler.
func (r ChatResult) MarshalJSON() ([]byte, error) {
	result := []byte("{}")
	var err error
	result, err = sjson.SetBytes(result, "finish_reason", string(r.FinishReason))
	if err != nil {
		return nil, err
	}
	if r.Content != "" {
		if result, err = sjson.SetBytes(result, "content", r.Content); err != nil {
			return nil, err
		}
	}
	if len(r.ToolCalls) > 0 {
		raw, merr := json.Marshal(r.ToolCalls)
		if merr != nil {
			return nil, merr
		}
		if result, err = sjson.SetRawBytes(result, "tool_calls", raw); err != nil {
			return nil, err
		}
	}
	if !time.Time(r.Timestamp).IsZero() {
		if result, err = sjson.SetBytes(result, "timestamp", r.Timestamp.String()); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *ChatResult) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}
	jv := gjson.ParseBytes(data)
	r.FinishReason = FinishReason(jv.Get("finish_reason").String())
	r.Content = jv.Get("content").String()
	r.ToolCalls = nil
	if tc := jv.Get("tool_calls"); tc.Exists() {
		if err := json.Unmarshal([]byte(tc.Raw), &r.ToolCalls); err != nil {
			return fmt.Errorf("invalid tool_calls: %w", err)
		}
	}
	if ts := jv.Get("timestamp"); ts.Exists() {
		parsed, err := strfmt.ParseDateTime(ts.String())
		if err != nil {
			return fmt.Errorf("invalid timestamp: %w", err)
		}
		r.Timestamp = parsed
	}
	return nil
}
