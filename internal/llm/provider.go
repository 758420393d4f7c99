package llm

import "time"

// Provider selects one of the supported LLM backend variants. The values are
// the literal strings persisted in the configuration document.
type Provider string

const (
	ProviderLocal    Provider = "Local OpenAI-Compatible"
	ProviderOpenAI   Provider = "OpenAI API"
	ProviderLMStudio Provider = "LM Studio Native API"
)

// ParseProvider maps a configured provider string onto a known variant.
func ParseProvider(value string) (Provider, bool) {
	switch Provider(value) {
	case ProviderLocal, ProviderOpenAI, ProviderLMStudio:
		return Provider(value), true
	}
	return "", false
}

// Settings carries everything the router needs to reach a provider. It is a
// plain value snapshot; changing configuration means building a new router.
type Settings struct {
	Provider        Provider
	LocalURL        string
	LocalAPIToken   string
	OpenAIAPIKey    string
	LMStudioURL     string
	LMStudioAPIKey  string
	Model           string
	MCPPluginIDs    string
	RequireUseTools bool
	Timeout         time.Duration
}
