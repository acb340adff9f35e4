// Package openai implements the provider contract over the OpenAI chat
// completions API, and by extension any compatible endpoint reachable through
// the "base_url" provider option.
package openai
