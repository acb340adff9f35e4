// Package provider defines the abstraction every GenAI adapter implements so
// the rest of the system can generate event descriptions and run tool-augmented
// chat without caring which vendor is behind it.
//
// Design decisions:
//   - Provider abstraction: one interface different vendors implement
//   - Normalized schema: Message, ToolCall and ChatResult are the only types
//     that cross the boundary; vendor response objects never escape an adapter
//   - Best-effort surface: Describe signals failure with an absent result and
//     ChatWithTools always returns a well-formed ChatResult, using FinishError
//     as the uniform failure signal; only construction errors propagate
//   - No retries: upstream callers own retry policy, the adapter owns a single
//     timeout per call
//
// Adapters register a factory with the providers subpackage from their init
// function, so importing an adapter package is all it takes to make it
// constructible by name.
package provider
