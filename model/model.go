// Package model catalogs the chat models the provider adapters accept.
// Entries are plain identifiers; nothing here talks to a network. Pricing
// and capability ranking are deliberately out of scope.
package model

import (
	"fmt"

	ai "github.com/spindleworks/spindle"
)

// ChatModel identifies one chat model at one provider.
type ChatModel struct {
	id       string
	provider ai.Provider
}

// New creates a model reference for an id the catalog does not list.
func New(id string, provider ai.Provider) ChatModel {
	return ChatModel{id: id, provider: provider}
}

// String returns the provider-side API identifier.
func (m ChatModel) String() string { return m.id }

// Provider returns which adapter serves this model.
func (m ChatModel) Provider() ai.Provider { return m.provider }

// IsZero reports whether the reference is empty.
func (m ChatModel) IsZero() bool { return m.id == "" }

// Anthropic Claude models
var (
	ClaudeSonnet45 = ChatModel{id: "claude-sonnet-4-5", provider: ai.ProviderAnthropic}
	ClaudeOpus45   = ChatModel{id: "claude-opus-4-5", provider: ai.ProviderAnthropic}
	ClaudeHaiku45  = ChatModel{id: "claude-haiku-4-5", provider: ai.ProviderAnthropic}

	// DefaultClaudeModel is the recommended default Anthropic model.
	DefaultClaudeModel = ClaudeSonnet45
)

// OpenAI models
var (
	GPT4o     = ChatModel{id: "gpt-4o", provider: ai.ProviderOpenAI}
	GPT4oMini = ChatModel{id: "gpt-4o-mini", provider: ai.ProviderOpenAI}
	GPT41     = ChatModel{id: "gpt-4.1", provider: ai.ProviderOpenAI}
	GPT41Mini = ChatModel{id: "gpt-4.1-mini", provider: ai.ProviderOpenAI}
	O4Mini    = ChatModel{id: "o4-mini", provider: ai.ProviderOpenAI}

	// DefaultGPTModel is the recommended default OpenAI model.
	DefaultGPTModel = GPT4o
)

// Google Gemini models
var (
	Gemini25Pro       = ChatModel{id: "gemini-2.5-pro", provider: ai.ProviderGoogle}
	Gemini25Flash     = ChatModel{id: "gemini-2.5-flash", provider: ai.ProviderGoogle}
	Gemini25FlashLite = ChatModel{id: "gemini-2.5-flash-lite", provider: ai.ProviderGoogle}

	// DefaultGeminiModel is the recommended default Google model.
	DefaultGeminiModel = Gemini25Flash
)

var catalog = []ChatModel{
	ClaudeSonnet45, ClaudeOpus45, ClaudeHaiku45,
	GPT4o, GPT4oMini, GPT41, GPT41Mini, O4Mini,
	Gemini25Pro, Gemini25Flash, Gemini25FlashLite,
}

// All returns every catalogued model.
func All() []ChatModel {
	out := make([]ChatModel, len(catalog))
	copy(out, catalog)
	return out
}

// ByID looks a model up by its API identifier.
func ByID(id string) (ChatModel, bool) {
	for _, m := range catalog {
		if m.id == id {
			return m, true
		}
	}
	return ChatModel{}, false
}

// Default returns the recommended model for a provider.
func Default(p ai.Provider) (ChatModel, error) {
	switch p {
	case ai.ProviderAnthropic:
		return DefaultClaudeModel, nil
	case ai.ProviderOpenAI:
		return DefaultGPTModel, nil
	case ai.ProviderGoogle:
		return DefaultGeminiModel, nil
	}
	return ChatModel{}, fmt.Errorf("model: no default for provider %q", p)
}
