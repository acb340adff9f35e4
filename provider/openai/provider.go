package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	json "github.com/goccy/go-json"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/watchhouse/descry/pkg/jsonx"
	"github.com/watchhouse/descry/pkg/slogx"
	"github.com/watchhouse/descry/provider"
	"github.com/watchhouse/descry/provider/providers"
)

// Name is the identifier this adapter registers under.
const Name = "openai"

// DefaultModel is used when the configuration does not name one.
const DefaultModel = "gpt-4o"

// contextSize is the input token budget reported to callers.
const contextSize = 128_000

func init() {
	providers.Add(Name, func(_ context.Context, cfg provider.Config) (provider.Provider, error) {
		return New(cfg)
	})
}

var _ provider.Provider = (*Provider)(nil)

// Provider talks to the OpenAI chat completions API. Unlike the Gemini
// mapping it passes system messages straight through.
type Provider struct {
	client *openai.Client
	cfg    provider.Config
}

// New constructs the adapter. Extra request options (custom base URL for
// compatible endpoints, middleware) append after the ones derived from cfg.
func New(cfg provider.Config, options ...option.RequestOption) (*Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("openai: api key is required")
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if base, ok := cfg.Options["base_url"].(string); ok && base != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(base))
	}
	reqOpts = append(reqOpts, options...)
	return &Provider{client: openai.NewClient(reqOpts...), cfg: cfg}, nil
}

func (p *Provider) model() string {
	if p.cfg.Model != "" {
		return p.cfg.Model
	}
	return DefaultModel
}

// Describe sends the images as data-URI parts followed by the prompt and
// returns the trimmed text of the single candidate. Failures are logged and
// reported as an absent result.
func (p *Provider) Describe(ctx context.Context, prompt string, images [][]byte) (string, bool) {
	parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, openai.ChatCompletionContentPartImageParam{
			ImageURL: openai.F(openai.ChatCompletionContentPartImageImageURLParam{
				URL: openai.String("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(img)),
			}),
			Type: openai.F(openai.ChatCompletionContentPartImageTypeImageURL),
		})
	}
	parts = append(parts, openai.ChatCompletionContentPartTextParam{
		Text: openai.String(prompt),
		Type: openai.F(openai.ChatCompletionContentPartTextTypeText),
	})

	params := openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{openai.UserMessageParts(parts...)}),
		Model:    openai.F(p.model()),
		N:        openai.Int(1),
	}
	p.applyCallOptions(&params)

	ctx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout())
	defer cancel()

	chat, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		slog.WarnContext(ctx, "openai returned an error", slogx.Provider(Name), slogx.Error(err))
		return "", false
	}
	if len(chat.Choices) == 0 {
		return "", false
	}
	text := strings.TrimSpace(chat.Choices[0].Message.Content)
	if text == "" {
		return "", false
	}
	return text, true
}

// ChatWithTools runs a single chat turn and never returns an error; failures
// surface as a ChatResult with FinishError.
func (p *Provider) ChatWithTools(ctx context.Context, msgs []provider.Message, tools []provider.ToolDeclaration, choice provider.ToolChoice) provider.ChatResult {
	params, err := p.buildRequest(msgs, tools, choice)
	if err != nil {
		slog.WarnContext(ctx, "openai chat translation failed", slogx.Provider(Name), slogx.Error(err))
		return errorResult()
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout())
	defer cancel()

	chat, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		slog.WarnContext(ctx, "openai returned an error", slogx.Provider(Name), slogx.Error(err))
		return errorResult()
	}
	return extractResult(chat)
}

// ContextSize reports the fixed input token budget of the bound model family.
func (p *Provider) ContextSize() int {
	return contextSize
}

func (p *Provider) buildRequest(msgs []provider.Message, tools []provider.ToolDeclaration, choice provider.ToolChoice) (openai.ChatCompletionNewParams, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, msg := range msgs {
		switch msg.Role {
		case provider.RoleSystem:
			messages = append(messages, openai.SystemMessage(msg.Content))
		case provider.RoleUser:
			messages = append(messages, openai.UserMessage(msg.Content))
		case provider.RoleTool:
			messages = append(messages, openai.ToolMessage(msg.ToolCallID, msg.Content))
		case provider.RoleAssistant:
			if len(msg.ToolCalls) == 0 {
				messages = append(messages, openai.AssistantMessage(msg.Content))
				continue
			}
			tcd := make([]openai.ChatCompletionMessageToolCallParam, len(msg.ToolCalls))
			for i, tc := range msg.ToolCalls {
				args := []byte("{}")
				if tc.Arguments != nil {
					raw, merr := json.Marshal(tc.Arguments)
					if merr != nil {
						return openai.ChatCompletionNewParams{}, fmt.Errorf("marshal arguments of call %s: %w", tc.ID, merr)
					}
					args = raw
				}
				tcd[i] = openai.ChatCompletionMessageToolCallParam{
					ID:   openai.String(tc.ID),
					Type: openai.F(openai.ChatCompletionMessageToolCallTypeFunction),
					Function: openai.F(openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      openai.String(tc.Name),
						Arguments: openai.String(string(args)),
					}),
				}
			}
			am := openai.ChatCompletionMessageParam{
				Role:      openai.F(openai.ChatCompletionMessageParamRoleAssistant),
				ToolCalls: openai.F[any](tcd),
			}
			if msg.Content != "" {
				am.Content = openai.F[any](msg.Content)
			}
			messages = append(messages, am)
		}
	}

	params := openai.ChatCompletionNewParams{
		Messages: openai.F(messages),
		Model:    openai.F(p.model()),
		N:        openai.Int(1),
	}
	p.applyCallOptions(&params)

	if len(tools) > 0 {
		toolParams := make([]openai.ChatCompletionToolParam, len(tools))
		for i, t := range tools {
			dynamic, err := jsonx.ToDynamicJSON(t.Parameters)
			if err != nil {
				return openai.ChatCompletionNewParams{}, fmt.Errorf("convert schema of tool %s: %w", t.Name, err)
			}
			def := openai.FunctionDefinitionParam{
				Name:       openai.String(t.Name),
				Parameters: openai.F(shared.FunctionParameters(dynamic)),
			}
			if strings.TrimSpace(t.Description) != "" {
				def.Description = openai.String(t.Description)
			}
			toolParams[i] = openai.ChatCompletionToolParam{
				Type:     openai.F(openai.ChatCompletionToolTypeFunction),
				Function: openai.F(def),
			}
		}
		params.Tools = openai.F(toolParams)

		switch choice.Normalize() {
		case provider.ToolChoiceNone:
			params.ToolChoice = openai.F[openai.ChatCompletionToolChoiceOptionUnionParam](openai.ChatCompletionToolChoiceOptionBehaviorNone)
		case provider.ToolChoiceRequired:
			params.ToolChoice = openai.F[openai.ChatCompletionToolChoiceOptionUnionParam](openai.ChatCompletionToolChoiceOptionBehaviorRequired)
		}
	}

	return params, nil
}

// callOptions is the subset of provider options this adapter honors.
type callOptions struct {
	Temperature *float64 `json:"temperature"`
	TopP        *float64 `json:"top_p"`
	MaxTokens   *int64   `json:"max_tokens"`
}

func (p *Provider) applyCallOptions(params *openai.ChatCompletionNewParams) {
	if len(p.cfg.Options) == 0 {
		return
	}
	var opts callOptions
	if err := jsonx.FromDynamicJSON(p.cfg.Options, &opts); err != nil {
		slog.Warn("ignoring malformed openai provider options", slogx.Provider(Name), slogx.Error(err))
		return
	}
	if opts.Temperature != nil {
		params.Temperature = openai.Float(*opts.Temperature)
	}
	if opts.TopP != nil {
		params.TopP = openai.Float(*opts.TopP)
	}
	if opts.MaxTokens != nil {
		params.MaxTokens = openai.Int(*opts.MaxTokens)
	}
}

func extractResult(chat *openai.ChatCompletion) provider.ChatResult {
	result := provider.ChatResult{
		FinishReason: provider.FinishError,
		Timestamp:    strfmt.DateTime(time.Now()),
	}
	if len(chat.Choices) == 0 {
		return result
	}

	choice := chat.Choices[0]
	result.Content = strings.TrimSpace(choice.Message.Content)
	for _, tc := range choice.Message.ToolCalls {
		args := map[string]any{}
		if tc.Function.Arguments != "" {
			// malformed arguments degrade to an empty mapping
			_ = json.Unmarshal([]byte(tc.Function.Arguments), &args)
		}
		result.ToolCalls = append(result.ToolCalls, provider.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}

	result.FinishReason = finishReason(choice.FinishReason, result)
	return result
}

func finishReason(signal openai.ChatCompletionChoicesFinishReason, result provider.ChatResult) provider.FinishReason {
	switch signal {
	case openai.ChatCompletionChoicesFinishReasonStop:
		return provider.FinishStop
	case openai.ChatCompletionChoicesFinishReasonLength:
		return provider.FinishLength
	case openai.ChatCompletionChoicesFinishReasonToolCalls:
		return provider.FinishToolCalls
	case openai.ChatCompletionChoicesFinishReasonContentFilter:
		return provider.FinishStop
	case "":
		if len(result.ToolCalls) > 0 {
			return provider.FinishToolCalls
		}
		if result.Content != "" {
			return provider.FinishStop
		}
		return provider.FinishError
	default:
		return provider.FinishError
	}
}

func errorResult() provider.ChatResult {
	return provider.ChatResult{
		FinishReason: provider.FinishError,
		Timestamp:    strfmt.DateTime(time.Now()),
	}
}
