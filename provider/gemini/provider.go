package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/watchhouse/descry/pkg/jsonx"
	"github.com/watchhouse/descry/pkg/slogx"
	"github.com/watchhouse/descry/provider"
	"github.com/watchhouse/descry/provider/providers"
	"google.golang.org/genai"
)

// Name is the identifier this adapter registers under.
const Name = "gemini"

// DefaultModel is used when the configuration does not name one.
const DefaultModel = "gemini-1.5-flash"

// contextSize is the input token budget reported to callers.
const contextSize = 1_000_000

func init() {
	providers.Add(Name, func(ctx context.Context, cfg provider.Config) (provider.Provider, error) {
		return New(ctx, cfg)
	})
}

var _ provider.Provider = (*Provider)(nil)

// Provider talks to the Gemini API through google.golang.org/genai.
type Provider struct {
	client *genai.Client
	cfg    provider.Config
}

// New constructs the adapter. A missing API key or a client setup failure is
// a construction error; nothing after construction ever propagates one.
func New(ctx context.Context, cfg provider.Config) (*Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Provider{client: client, cfg: cfg}, nil
}

func (p *Provider) model() string {
	if p.cfg.Model != "" {
		return p.cfg.Model
	}
	return DefaultModel
}

// Describe submits the JPEG images followed by the prompt as a single user
// turn and returns the trimmed candidate text. Failures of any kind are
// logged and reported as an absent result.
func (p *Provider) Describe(ctx context.Context, prompt string, images [][]byte) (string, bool) {
	parts := make([]*genai.Part, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, genai.NewPartFromBytes(img, "image/jpeg"))
	}
	parts = append(parts, genai.NewPartFromText(prompt))
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout())
	defer cancel()

	resp, err := p.client.Models.GenerateContent(ctx, p.model(), contents, p.generationConfig())
	if err != nil {
		slog.WarnContext(ctx, "gemini returned an error", slogx.Provider(Name), slogx.Error(err))
		return "", false
	}
	// Safety filtering or an empty candidate leaves no text to extract.
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", false
	}
	return text, true
}

// ChatWithTools runs a single chat turn. System messages are dropped: this
// mapping has no system turn, a documented limitation of the adapter.
func (p *Provider) ChatWithTools(ctx context.Context, msgs []provider.Message, tools []provider.ToolDeclaration, choice provider.ToolChoice) provider.ChatResult {
	contents := buildContents(msgs)

	config := p.generationConfig()
	if len(tools) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: declarations(tools)}}
		config.ToolConfig = &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{Mode: callingMode(choice)},
		}
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.CallTimeout())
	defer cancel()

	resp, err := p.client.Models.GenerateContent(ctx, p.model(), contents, config)
	if err != nil {
		slog.WarnContext(ctx, "gemini returned an error", slogx.Provider(Name), slogx.Error(err))
		return errorResult()
	}
	return extractResult(resp)
}

// ContextSize reports the fixed input token budget of the bound model family.
func (p *Provider) ContextSize() int {
	return contextSize
}

// generationConfig builds the per-call config: provider options first, then
// the invariants the adapter insists on (exactly one candidate).
func (p *Provider) generationConfig() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if len(p.cfg.Options) > 0 {
		if err := jsonx.FromDynamicJSON(p.cfg.Options, config); err != nil {
			slog.Warn("ignoring malformed gemini provider options", slogx.Provider(Name), slogx.Error(err))
			config = &genai.GenerateContentConfig{}
		}
	}
	config.CandidateCount = 1
	return config
}

// buildContents translates normalized messages into Gemini turns. System
// messages and unknown roles are skipped.
func buildContents(msgs []provider.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(msgs))
	for _, msg := range msgs {
		switch msg.Role {
		case provider.RoleUser:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		case provider.RoleAssistant:
			var parts []*genai.Part
			if msg.Content != "" {
				parts = append(parts, genai.NewPartFromText(msg.Content))
			}
			for _, tc := range msg.ToolCalls {
				args := tc.Arguments
				if args == nil {
					args = map[string]any{}
				}
				parts = append(parts, genai.NewPartFromFunctionCall(tc.Name, args))
			}
			if len(parts) == 0 {
				parts = append(parts, genai.NewPartFromText(""))
			}
			contents = append(contents, genai.NewContentFromParts(parts, genai.RoleModel))
		case provider.RoleTool:
			part := genai.NewPartFromFunctionResponse(msg.Name, toolResultPayload(msg.Content))
			contents = append(contents, genai.NewContentFromParts([]*genai.Part{part}, genai.Role("function")))
		}
	}
	return contents
}

// toolResultPayload parses a tool result as JSON when it is JSON; anything
// else travels under a "result" key so the wire shape stays an object.
func toolResultPayload(content string) map[string]any {
	if content == "" {
		return map[string]any{}
	}
	if gjson.Valid(content) {
		var payload map[string]any
		if err := json.Unmarshal([]byte(content), &payload); err == nil {
			return payload
		}
		var value any
		if err := json.Unmarshal([]byte(content), &value); err == nil {
			return map[string]any{"result": value}
		}
	}
	return map[string]any{"result": content}
}

func callingMode(choice provider.ToolChoice) genai.FunctionCallingConfigMode {
	switch choice.Normalize() {
	case provider.ToolChoiceNone:
		return genai.FunctionCallingConfigModeNone
	case provider.ToolChoiceRequired:
		return genai.FunctionCallingConfigModeAny
	default:
		return genai.FunctionCallingConfigModeAuto
	}
}

// extractResult normalizes the first candidate: all text parts joined by a
// single space become Content, all function-call parts become ToolCalls.
func extractResult(resp *genai.GenerateContentResponse) provider.ChatResult {
	result := provider.ChatResult{
		FinishReason: provider.FinishError,
		Timestamp:    strfmt.DateTime(time.Now()),
	}
	if len(resp.Candidates) == 0 {
		return result
	}

	candidate := resp.Candidates[0]
	if candidate.Content != nil {
		var texts []string
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			if part.Text != "" {
				texts = append(texts, part.Text)
			}
			if part.FunctionCall != nil {
				result.ToolCalls = append(result.ToolCalls, provider.ToolCall{
					ID:        callID(part.FunctionCall),
					Name:      part.FunctionCall.Name,
					Arguments: callArguments(part.FunctionCall),
				})
			}
		}
		result.Content = strings.TrimSpace(strings.Join(texts, " "))
	}

	result.FinishReason = finishReason(candidate.FinishReason, result)
	return result
}

// finishReason maps the provider signal when one is present, otherwise
// resolves from the extracted payload.
func finishReason(signal genai.FinishReason, result provider.ChatResult) provider.FinishReason {
	switch signal {
	case genai.FinishReasonStop:
		return provider.FinishStop
	case genai.FinishReasonMaxTokens:
		return provider.FinishLength
	case genai.FinishReasonSafety, genai.FinishReasonRecitation:
		return provider.FinishStop
	case "", genai.FinishReasonUnspecified:
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

// callID keeps the provider supplied identifier when there is one. A single
// turn can call the same function more than once, so synthesized identifiers
// carry a fresh uuid next to the function name.
func callID(fc *genai.FunctionCall) string {
	if fc.ID != "" {
		return fc.ID
	}
	return fmt.Sprintf("call_%s_%s", fc.Name, uuid.Must(uuid.NewV7()).String())
}

func callArguments(fc *genai.FunctionCall) map[string]any {
	if len(fc.Args) == 0 {
		return map[string]any{}
	}
	return fc.Args
}

func errorResult() provider.ChatResult {
	return provider.ChatResult{
		FinishReason: provider.FinishError,
		Timestamp:    strfmt.DateTime(time.Now()),
	}
}
