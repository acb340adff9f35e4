// Package providers is the process wide catalog of GenAI adapters, keyed by
// provider name. Adapter packages add themselves from init, so a blank import
// is enough to make a provider constructible.
package providers

import (
	"context"
	"fmt"
	"sort"

	"github.com/watchhouse/descry/internal/registry"
	"github.com/watchhouse/descry/provider"
)

// Factory constructs an adapter from its configuration. Construction errors
// (missing credentials, unreachable endpoint setup) propagate to the caller
// and are never retried.
type Factory func(context.Context, provider.Config) (provider.Provider, error)

var Global = registry.New[Factory]()

func Add(name string, factory Factory) {
	Global.Add(name, factory)
}

func Get(name string) (Factory, bool) {
	return Global.Get(name)
}

func Del(name string) {
	Global.Del(name)
}

// Names lists the registered provider names in stable order.
func Names() []string {
	names := Global.Keys()
	sort.Strings(names)
	return names
}

// New resolves name in the catalog and constructs the adapter.
func New(ctx context.Context, name string, cfg provider.Config) (provider.Provider, error) {
	factory, ok := Global.Get(name)
	if !ok {
		return nil, fmt.Errorf("genai provider %q is not registered (known providers: %v)", name, Names())
	}
	return factory(ctx, cfg)
}
