// Package ai defines the embedding-provider boundary.
//
// The package contains only interfaces and configuration; concrete
// implementations live in subpackages:
//   - ai/openai: OpenAI-compatible embedding APIs
//   - ai/mock: deterministic test doubles
package ai
