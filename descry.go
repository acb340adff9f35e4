package descry

import (
	"context"

	"github.com/watchhouse/descry/provider"
	"github.com/watchhouse/descry/provider/providers"

	// Register the built-in adapters.
	_ "github.com/watchhouse/descry/provider/gemini"
	_ "github.com/watchhouse/descry/provider/openai"
)

// Config selects a provider by name and carries its connection settings.
type Config struct {
	// Provider names the adapter to construct, e.g. gemini.Name.
	Provider string

	provider.Config
}

// New constructs the configured provider. An unknown provider name or missing
// credentials is a construction error; after construction the provider never
// propagates remote failures, see the provider package.
func New(ctx context.Context, cfg Config) (provider.Provider, error) {
	return providers.New(ctx, cfg.Provider, cfg.Config)
}
