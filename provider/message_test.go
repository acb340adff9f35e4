package provider

import (
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestMessageMarshal_OmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(UserMessage("Hi"))
	require.NoError(t, err)

	jv := gjson.ParseBytes(data)
	assert.Equal(t, "user", jv.Get("role").String())
	assert.Equal(t, "Hi", jv.Get("content").String())
	assert.False(t, jv.Get("tool_calls").Exists())
	assert.False(t, jv.Get("name").Exists())
	assert.False(t, jv.Get("tool_call_id").Exists())
}

func TestMessageRoundTrip_AssistantWithToolCalls(t *testing.T) {
	msg := AssistantMessage("checking", ToolCall{
		ID:        "call_1",
		Name:      "lookup",
		Arguments: map[string]any{"x": float64(1)},
	})

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, RoleAssistant, decoded.Role)
	assert.Equal(t, "checking", decoded.Content)
	require.Len(t, decoded.ToolCalls, 1)
	assert.Equal(t, "call_1", decoded.ToolCalls[0].ID)
	assert.Equal(t, "lookup", decoded.ToolCalls[0].Name)
	assert.Equal(t, map[string]any{"x": float64(1)}, decoded.ToolCalls[0].Arguments)
}

func TestMessageRoundTrip_ToolResult(t *testing.T) {
	msg := ToolMessage("call_1", "lookup", `{"x":1}`)

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, RoleTool, decoded.Role)
	assert.Equal(t, "lookup", decoded.Name)
	assert.Equal(t, "call_1", decoded.ToolCallID)
	assert.Equal(t, `{"x":1}`, decoded.Content)
}

func TestMessageUnmarshal_InvalidJSON(t *testing.T) {
	var msg Message
	assert.Error(t, msg.UnmarshalJSON([]byte("{not json")))
}

func TestChatResultMarshal(t *testing.T) {
	now := strfmt.DateTime(time.Now())
	result := ChatResult{
		Content:      "done",
		FinishReason: FinishStop,
		Timestamp:    now,
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	jv := gjson.ParseBytes(data)
	assert.Equal(t, "stop", jv.Get("finish_reason").String())
	assert.Equal(t, "done", jv.Get("content").String())
	assert.False(t, jv.Get("tool_calls").Exists())
	assert.True(t, jv.Get("timestamp").Exists())
}

func TestChatResultMarshal_ErrorResult(t *testing.T) {
	data, err := json.Marshal(ChatResult{FinishReason: FinishError})
	require.NoError(t, err)

	jv := gjson.ParseBytes(data)
	assert.Equal(t, "error", jv.Get("finish_reason").String())
	assert.False(t, jv.Get("content").Exists())
	assert.False(t, jv.Get("tool_calls").Exists())
	assert.False(t, jv.Get("timestamp").Exists())
}

func TestChatResultRoundTrip(t *testing.T) {
	result := ChatResult{
		ToolCalls:    []ToolCall{{ID: "call_2", Name: "ping", Arguments: map[string]any{}}},
		FinishReason: FinishToolCalls,
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded ChatResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, FinishToolCalls, decoded.FinishReason)
	assert.Empty(t, decoded.Content)
	require.Len(t, decoded.ToolCalls, 1)
	assert.Equal(t, "ping", decoded.ToolCalls[0].Name)
}

func TestChatResultEmpty(t *testing.T) {
	assert.True(t, ChatResult{FinishReason: FinishError}.Empty())
	assert.True(t, ChatResult{Content: "   "}.Empty())
	assert.False(t, ChatResult{Content: "hi"}.Empty())
	assert.False(t, ChatResult{ToolCalls: []ToolCall{{Name: "x"}}}.Empty())
}
