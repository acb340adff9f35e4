package provider

import (
	"context"
	"time"
)

// DefaultTimeout bounds a single remote call when Config.Timeout is unset.
const DefaultTimeout = 60 * time.Second

// Provider is the contract every GenAI adapter satisfies. Implementations
// translate between the normalized conversation schema and a vendor SDK while
// keeping a consistent surface for the rest of the system.
//
// Adapters hold no mutable state beyond their configuration and vendor handle,
// so a single instance is safe for concurrent use.
type Provider interface {
	// Describe submits a best-effort multimodal request: the JPEG images
	// followed by the text prompt, one candidate, bounded by the configured
	// timeout. Remote failures and empty candidates are logged and reported
	// as ("", false); callers must tolerate the absent result.
	Describe(ctx context.Context, prompt string, images [][]byte) (string, bool)

	// ChatWithTools runs one chat turn with optional tool declarations.
	// It never returns an error: any transport or translation failure is
	// logged and surfaced as a ChatResult with FinishError.
	ChatWithTools(ctx context.Context, msgs []Message, tools []ToolDeclaration, choice ToolChoice) ChatResult

	// ContextSize reports the provider's maximum input token budget. Callers
	// use it to decide how much conversation history to retain.
	ContextSize() int
}

// Config carries the connection settings shared by all adapters. It is
// supplied once at construction and owned by the adapter for its lifetime.
type Config struct {
	// APIKey authenticates against the vendor endpoint. Required.
	APIKey string

	// Model names the vendor model to bind the adapter to. Adapters fall
	// back to a vendor-specific default when empty.
	Model string

	// Options holds provider-specific generation settings, keyed by the
	// vendor SDK's JSON field names.
	Options map[string]any

	// Timeout bounds each remote call. Zero means DefaultTimeout.
	Timeout time.Duration

	// Prevents unkeyed literals
	_ struct{}
}

// CallTimeout returns the effective per-call deadline.
func (c Config) CallTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// ToolChoice controls whether the model may, must, or must not call a tool.
type ToolChoice string

const (
	ToolChoiceAuto     ToolChoice = "auto"
	ToolChoiceNone     ToolChoice = "none"
	ToolChoiceRequired ToolChoice = "required"
)

// Normalize maps any unrecognized value to ToolChoiceAuto.
func (tc ToolChoice) Normalize() ToolChoice {
	switch tc {
	case ToolChoiceNone, ToolChoiceRequired:
		return tc
	default:
		return ToolChoiceAuto
	}
}

// FinishReason describes why a model stopped generating.
type FinishReason string

const (
	FinishStop      FinishReason = "stop"
	FinishLength    FinishReason = "length"
	FinishToolCalls FinishReason = "tool_calls"
	FinishError     FinishReason = "error"
)
