package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	openAIModelsEndpoint = "https://api.openai.com/v1/models"
	modelsProbeTimeout   = 5 * time.Second
)

// lmStudioModelsPaths are the endpoint candidates probed in order; LM Studio
// builds have disagreed about which one they serve.
var lmStudioModelsPaths = []string{"/api/v1/models", "/v1/models", "/api/models"}

// ListModels queries the configured provider for its model inventory. The
// result is sorted; an unreachable provider yields a network failure.
func (r *Router) ListModels(ctx context.Context) ([]string, error) {
	switch r.settings.Provider {
	case ProviderOpenAI:
		if r.settings.OpenAIAPIKey == "" {
			return nil, newFailure(FailureConfig, missingOpenAIKeyFormat)
		}
		models, err := r.fetchModels(ctx, openAIModelsEndpoint, r.settings.OpenAIAPIKey)
		if err != nil {
			return nil, err
		}
		return sortModels(filterChatModels(models)), nil

	case ProviderLocal:
		if r.settings.LocalURL == "" {
			return nil, newFailure(FailureConfig, missingLocalURLMessage)
		}
		endpoint := baseOrigin(r.settings.LocalURL) + "/v1/models"
		models, err := r.fetchModels(ctx, endpoint, r.settings.LocalAPIToken)
		if err != nil {
			return nil, err
		}
		return sortModels(models), nil

	case ProviderLMStudio:
		if r.settings.LMStudioURL == "" {
			return nil, newFailure(FailureConfig, missingLMStudioURL)
		}
		base := strings.TrimSuffix(strings.TrimRight(r.settings.LMStudioURL, "/"), "/api/v1")
		var lastErr error
		for _, path := range lmStudioModelsPaths {
			models, err := r.fetchModels(ctx, base+path, r.settings.LMStudioAPIKey)
			if err != nil {
				lastErr = err
				r.logger.Debug("LM Studio models endpoint probe failed",
					zap.String("endpoint", base+path), zap.Error(err))
				continue
			}
			if len(models) > 0 {
				return sortModels(models), nil
			}
		}
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, newFailure(FailureExtract, "no models reported by any LM Studio endpoint")
	}
	return nil, newFailure(FailureConfig, "unsupported LLM provider: %s", r.settings.Provider)
}

func (r *Router) fetchModels(ctx context.Context, endpoint string, bearerToken string) ([]string, error) {
	requestCtx, cancel := context.WithTimeout(ctx, modelsProbeTimeout)
	defer cancel()

	request, requestErr := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if requestErr != nil {
		return nil, newFailure(FailureConfig, "build models request: %v", requestErr)
	}
	if bearerToken != "" {
		request.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	response, httpErr := r.httpClient.Do(request)
	if httpErr != nil {
		if isTimeout(httpErr) {
			return nil, newFailure(FailureTimeout, "models request to %s timed out", endpoint)
		}
		return nil, newFailure(FailureNetwork, "fetch models from %s: %v", endpoint, httpErr)
	}
	defer func(closer io.ReadCloser) { _ = closer.Close() }(response.Body)

	body, readErr := io.ReadAll(response.Body)
	if readErr != nil {
		return nil, newFailure(FailureNetwork, "read models response: %v", readErr)
	}
	if response.StatusCode != http.StatusOK {
		return nil, newFailure(FailureStatus, "%s", statusFailureMessage(response.StatusCode, body))
	}
	return decodeModelList(body), nil
}

// decodeModelList tolerates the shapes seen in the wild: {data:[{id}]},
// {models:[{id}|string]}, or a bare list.
func decodeModelList(body []byte) []string {
	var document any
	if err := json.Unmarshal(body, &document); err != nil {
		return nil
	}
	switch typed := document.(type) {
	case map[string]any:
		if data, ok := typed["data"].([]any); ok {
			return modelIDs(data)
		}
		if models, ok := typed["models"].([]any); ok {
			return modelIDs(models)
		}
	case []any:
		return modelIDs(typed)
	}
	return nil
}

func modelIDs(items []any) []string {
	var ids []string
	for _, item := range items {
		switch typed := item.(type) {
		case string:
			if typed != "" {
				ids = append(ids, typed)
			}
		case map[string]any:
			if id, ok := typed["id"].(string); ok && id != "" {
				ids = append(ids, id)
			} else if id, ok := typed["model"].(string); ok && id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func filterChatModels(models []string) []string {
	var filtered []string
	for _, model := range models {
		lowered := strings.ToLower(model)
		if strings.Contains(lowered, "gpt") || strings.Contains(lowered, "chat") {
			filtered = append(filtered, model)
		}
	}
	return filtered
}

func sortModels(models []string) []string {
	sort.Strings(models)
	return models
}

func baseOrigin(configuredURL string) string {
	parsed, err := url.Parse(configuredURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(configuredURL, "/")
	}
	return parsed.Scheme + "://" + parsed.Host
}
