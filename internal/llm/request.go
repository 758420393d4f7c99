package llm

import (
	"encoding/json"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

const (
	useToolsKeyword        = "USETOOLS:"
	chatCompletionsPath    = "/v1/chat/completions"
	openAIChatEndpoint     = "https://api.openai.com" + chatCompletionsPath
	lmStudioChatPath       = "/api/v1/chat"
	systemPromptText       = "You are a helpful assistant."
	capturedTextPreamble   = "\n\nText: "
	integrationTypePlugin  = "plugin"
	missingLocalURLMessage = "LLM URL for Local provider not configured"
	missingOpenAIKeyFormat = "OpenAI API key not configured"
	missingLMStudioURL     = "LM Studio URL not configured"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionPayload struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type pluginIntegration struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type nativeResponsesPayload struct {
	Model        string              `json:"model"`
	Input        string              `json:"input"`
	Integrations []pluginIntegration `json:"integrations,omitempty"`
}

// wireRequest is a fully constructed provider request, ready to POST.
type wireRequest struct {
	Provider Provider
	URL      string
	Headers  map[string]string
	Body     []byte
}

// buildRequest assembles the provider-specific wire request for one dispatch.
// Configuration problems (missing URL, missing key, unknown provider) are
// reported before any network traffic happens.
func buildRequest(settings Settings, prompt string, capturedText string, logger *zap.Logger) (wireRequest, *Failure) {
	userContent := prompt
	if strings.TrimSpace(capturedText) != "" {
		userContent = prompt + capturedTextPreamble + capturedText
	}

	// The reserved USETOOLS: prefix lets a single prompt opt in to tool use.
	// It is stripped from the content actually sent.
	promptHasUseTools := strings.HasPrefix(userContent, useToolsKeyword)
	if promptHasUseTools {
		userContent = strings.TrimLeft(strings.TrimPrefix(userContent, useToolsKeyword), " \t")
		logger.Debug("USETOOLS keyword detected and stripped from prompt")
	}

	headers := map[string]string{"Content-Type": "application/json"}

	switch settings.Provider {
	case ProviderLocal:
		if settings.LocalURL == "" {
			return wireRequest{}, newFailure(FailureConfig, missingLocalURLMessage)
		}
		requestURL := deriveLocalChatURL(settings.LocalURL, logger)
		if settings.LocalAPIToken != "" {
			headers["Authorization"] = "Bearer " + settings.LocalAPIToken
		}
		body, err := json.Marshal(chatCompletionPayload{
			Model:    settings.Model,
			Messages: chatMessages(userContent),
		})
		if err != nil {
			return wireRequest{}, newFailure(FailureConfig, "encode request payload: %v", err)
		}
		return wireRequest{Provider: settings.Provider, URL: requestURL, Headers: headers, Body: body}, nil

	case ProviderOpenAI:
		if settings.OpenAIAPIKey == "" {
			return wireRequest{}, newFailure(FailureConfig, missingOpenAIKeyFormat)
		}
		headers["Authorization"] = "Bearer " + settings.OpenAIAPIKey
		body, err := json.Marshal(chatCompletionPayload{
			Model:    settings.Model,
			Messages: chatMessages(userContent),
		})
		if err != nil {
			return wireRequest{}, newFailure(FailureConfig, "encode request payload: %v", err)
		}
		return wireRequest{Provider: settings.Provider, URL: openAIChatEndpoint, Headers: headers, Body: body}, nil

	case ProviderLMStudio:
		if settings.LMStudioURL == "" {
			return wireRequest{}, newFailure(FailureConfig, missingLMStudioURL)
		}
		requestURL, urlErr := deriveLMStudioChatURL(settings.LMStudioURL)
		if urlErr != nil {
			return wireRequest{}, newFailure(FailureConfig, "invalid LM Studio URL %q: %v", settings.LMStudioURL, urlErr)
		}
		if settings.LMStudioAPIKey != "" {
			headers["Authorization"] = "Bearer " + settings.LMStudioAPIKey
		}
		payload := nativeResponsesPayload{Model: settings.Model, Input: userContent}
		if integrations := pluginIntegrations(settings, promptHasUseTools, logger); len(integrations) > 0 {
			payload.Integrations = integrations
		}
		body, err := json.Marshal(payload)
		if err != nil {
			return wireRequest{}, newFailure(FailureConfig, "encode request payload: %v", err)
		}
		return wireRequest{Provider: settings.Provider, URL: requestURL, Headers: headers, Body: body}, nil
	}

	return wireRequest{}, newFailure(FailureConfig, "unsupported LLM provider: %s", settings.Provider)
}

func chatMessages(userContent string) []chatMessage {
	return []chatMessage{
		{Role: "system", Content: systemPromptText},
		{Role: "user", Content: userContent},
	}
}

// deriveLocalChatURL appends the chat-completions path to a bare base URL,
// passes an already-suffixed URL through untouched, and uses anything else
// as-is with a warning.
func deriveLocalChatURL(configuredURL string, logger *zap.Logger) string {
	parsed, parseErr := url.Parse(configuredURL)
	if parseErr != nil {
		logger.Warn("unparseable local LLM URL, using as configured", zap.String("url", configuredURL))
		return configuredURL
	}
	path := strings.TrimRight(parsed.Path, "/")
	switch {
	case path == "":
		derived := strings.TrimRight(configuredURL, "/") + chatCompletionsPath
		logger.Info("appended chat completions path to local LLM URL", zap.String("url", derived))
		return derived
	case strings.HasSuffix(path, chatCompletionsPath):
		return configuredURL
	default:
		logger.Warn("using provided local LLM URL as-is; ensure it is a chat completion endpoint",
			zap.String("url", configuredURL))
		return configuredURL
	}
}

// deriveLMStudioChatURL rebuilds the URL from scheme and host only, then
// appends the native chat path.
func deriveLMStudioChatURL(configuredURL string) (string, error) {
	parsed, parseErr := url.Parse(configuredURL)
	if parseErr != nil {
		return "", parseErr
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(configuredURL, "/") + lmStudioChatPath, nil
	}
	return parsed.Scheme + "://" + parsed.Host + lmStudioChatPath, nil
}

// pluginIntegrations decides whether tool integrations ride along: plugin IDs
// must be configured, and when require-usetools is on the prompt must have
// carried the keyword.
func pluginIntegrations(settings Settings, promptHasUseTools bool, logger *zap.Logger) []pluginIntegration {
	ids := strings.TrimSpace(settings.MCPPluginIDs)
	if ids == "" {
		logger.Debug("no MCP plugin IDs configured")
		return nil
	}
	if settings.RequireUseTools && !promptHasUseTools {
		logger.Debug("tools disabled: require-usetools is on and prompt lacks the USETOOLS keyword")
		return nil
	}
	var integrations []pluginIntegration
	for _, raw := range strings.Split(ids, ",") {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		integrations = append(integrations, pluginIntegration{Type: integrationTypePlugin, ID: id})
	}
	if len(integrations) > 0 {
		logger.Info("MCP integrations attached", zap.Int("count", len(integrations)))
	}
	return integrations
}
