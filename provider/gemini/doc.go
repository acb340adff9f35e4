// Package gemini implements the provider contract over the Gemini API using
// google.golang.org/genai.
//
// The mapping has one documented limitation: Gemini has no system turn in
// this translation, so system-role messages are dropped rather than sent.
// Tool results are delivered as function-response turns, and declared tool
// schemas are flattened to one level of typed properties, with unrecognized
// property types treated as strings.
package gemini
