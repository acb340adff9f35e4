package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/watchhouse/descry/provider"
)

func testConfig() provider.Config {
	return provider.Config{
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	}
}

func setupTestServer(t *testing.T, handler http.HandlerFunc) *Provider {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := New(testConfig(), option.WithBaseURL(server.URL+"/v1"))
	require.NoError(t, err)
	return p
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(provider.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}

func TestBuildRequest_SystemPassthrough(t *testing.T) {
	p, err := New(testConfig())
	require.NoError(t, err)

	params, err := p.buildRequest([]provider.Message{
		provider.SystemMessage("You are a helper."),
		provider.UserMessage("Hi"),
	}, nil, provider.ToolChoiceAuto)
	require.NoError(t, err)

	messages := params.Messages.Value
	require.Len(t, messages, 2)

	system, ok := messages[0].(openai.ChatCompletionSystemMessageParam)
	require.True(t, ok)
	assert.Equal(t, "You are a helper.", system.Content.Value[0].Text.Value)

	user, ok := messages[1].(openai.ChatCompletionUserMessageParam)
	require.True(t, ok)
	assert.Equal(t, "Hi", user.Content.Value[0].(openai.ChatCompletionContentPartTextParam).Text.Value)

	assert.Equal(t, "gpt-4o-mini", params.Model.Value)
	assert.Equal(t, int64(1), params.N.Value)
}

func TestBuildRequest_ToolTranslation(t *testing.T) {
	p, err := New(testConfig())
	require.NoError(t, err)

	tool := provider.MustTool("get_weather",
		provider.WithToolDescription("Look up the weather"),
		provider.WithParameter("location", "string", "City name", true),
	)

	params, err := p.buildRequest([]provider.Message{provider.UserMessage("weather?")},
		[]provider.ToolDeclaration{tool}, provider.ToolChoiceRequired)
	require.NoError(t, err)

	tools := params.Tools.Value
	require.Len(t, tools, 1)
	assert.Equal(t, openai.ChatCompletionToolTypeFunction, tools[0].Type.Value)
	assert.Equal(t, "get_weather", tools[0].Function.Value.Name.Value)
	assert.Equal(t, "Look up the weather", tools[0].Function.Value.Description.Value)

	schema := map[string]any(tools[0].Function.Value.Parameters.Value)
	assert.Equal(t, "object", schema["type"])

	require.True(t, params.ToolChoice.Present)
}

func TestBuildRequest_ToolHistory(t *testing.T) {
	p, err := New(testConfig())
	require.NoError(t, err)

	params, err := p.buildRequest([]provider.Message{
		provider.AssistantMessage("", provider.ToolCall{
			ID:        "call_1",
			Name:      "lookup",
			Arguments: map[string]any{"x": float64(1)},
		}),
		provider.ToolMessage("call_1", "lookup", `{"x":1}`),
	}, nil, provider.ToolChoiceAuto)
	require.NoError(t, err)

	messages := params.Messages.Value
	require.Len(t, messages, 2)

	toolMsg, ok := messages[1].(openai.ChatCompletionToolMessageParam)
	require.True(t, ok)
	assert.Equal(t, "call_1", toolMsg.ToolCallID.Value)
}

func TestChatWithTools_Success(t *testing.T) {
	p := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"chatcmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Hello there."},"finish_reason":"stop"}]}`)
	})

	result := p.ChatWithTools(context.Background(), []provider.Message{provider.UserMessage("Hi")}, nil, provider.ToolChoiceAuto)
	assert.Equal(t, provider.FinishStop, result.FinishReason)
	assert.Equal(t, "Hello there.", result.Content)
	assert.Empty(t, result.ToolCalls)
}

func TestChatWithTools_ToolCallResponse(t *testing.T) {
	p := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"chatcmpl-2","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","tool_calls":[{"id":"call_9","type":"function","function":{"name":"lookup","arguments":"{\"x\":1}"}}]},"finish_reason":"tool_calls"}]}`)
	})

	result := p.ChatWithTools(context.Background(), []provider.Message{provider.UserMessage("Hi")}, nil, provider.ToolChoiceAuto)
	assert.Equal(t, provider.FinishToolCalls, result.FinishReason)
	require.Len(t, result.ToolCalls, 1)
	assert.Equal(t, "call_9", result.ToolCalls[0].ID)
	assert.Equal(t, "lookup", result.ToolCalls[0].Name)
	assert.Equal(t, map[string]any{"x": float64(1)}, result.ToolCalls[0].Arguments)
}

func TestChatWithTools_RemoteFailure(t *testing.T) {
	p := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	result := p.ChatWithTools(context.Background(), []provider.Message{provider.UserMessage("Hi")}, nil, provider.ToolChoiceAuto)
	assert.Equal(t, provider.FinishError, result.FinishReason)
	assert.True(t, result.Empty())
}

func TestDescribe_Success(t *testing.T) {
	p := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"chatcmpl-3","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":" A car pulls into the driveway. "},"finish_reason":"stop"}]}`)
	})

	desc, ok := p.Describe(context.Background(), "describe this", [][]byte{[]byte("jpeg-bytes")})
	require.True(t, ok)
	assert.Equal(t, "A car pulls into the driveway.", desc)
}

func TestDescribe_RemoteFailure(t *testing.T) {
	p := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	desc, ok := p.Describe(context.Background(), "describe this", nil)
	assert.False(t, ok)
	assert.Empty(t, desc)
}

func TestDescribe_EmptyContent(t *testing.T) {
	p := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"chatcmpl-4","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"   "},"finish_reason":"stop"}]}`)
	})

	desc, ok := p.Describe(context.Background(), "describe this", nil)
	assert.False(t, ok)
	assert.Empty(t, desc)
}

func TestContextSize_Constant(t *testing.T) {
	p, err := New(testConfig())
	require.NoError(t, err)

	first := p.ContextSize()
	assert.Equal(t, first, p.ContextSize())
	assert.Equal(t, 128_000, first)
}
