package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	rawBodyExcerptLimit   = 200
	statusFailurePreamble = "LLM request failed (status %d)"
)

// extractContent normalizes a 200 response body into plain text. The shape is
// keyed by provider: the native responses API scans output[] from the end,
// everything else reads the OpenAI chat-completions shape. Shared top-level
// string fallbacks come last. A failure names the paths that were tried.
func extractContent(provider Provider, body []byte) (string, *Failure) {
	var document map[string]any
	if err := json.Unmarshal(body, &document); err != nil {
		return "", newFailure(FailureDecode, "decode LLM JSON response: %v (raw response glimpse: %s)",
			err, excerpt(body))
	}
	if len(document) == 0 {
		return "", newFailure(FailureExtract, "empty success response from LLM")
	}

	if provider == ProviderLMStudio {
		if content, ok := nativeOutputContent(document); ok {
			return content, nil
		}
		if content, ok := firstStringField(document, "content", "text", "response"); ok {
			return content, nil
		}
		return "", newFailure(FailureExtract,
			"no text content found in LLM response (tried output[].content, content, text, response)")
	}

	if content, ok := chatChoiceContent(document); ok {
		return content, nil
	}
	if content, ok := firstStringField(document, "text", "response"); ok {
		return content, nil
	}
	return "", newFailure(FailureExtract,
		"no text content found in LLM response (tried choices[0].message.content, text, response)")
}

// chatChoiceContent reads choices[0].message.content from an OpenAI-style body.
func chatChoiceContent(document map[string]any) (string, bool) {
	choices, ok := document["choices"].([]any)
	if !ok || len(choices) == 0 {
		return "", false
	}
	firstChoice, ok := choices[0].(map[string]any)
	if !ok {
		return "", false
	}
	message, ok := firstChoice["message"].(map[string]any)
	if !ok {
		return "", false
	}
	content, ok := message["content"].(string)
	return content, ok
}

// nativeOutputContent scans output[] from the end for the last message-typed
// entry with content, falling back to the first entry's content.
func nativeOutputContent(document map[string]any) (string, bool) {
	output, ok := document["output"].([]any)
	if !ok || len(output) == 0 {
		return "", false
	}
	for i := len(output) - 1; i >= 0; i-- {
		item, ok := output[i].(map[string]any)
		if !ok {
			continue
		}
		if itemType, _ := item["type"].(string); itemType != "message" {
			continue
		}
		if content, ok := item["content"].(string); ok && content != "" {
			return content, true
		}
	}
	firstEntry, ok := output[0].(map[string]any)
	if !ok {
		return "", false
	}
	content, ok := firstEntry["content"].(string)
	return content, ok && content != ""
}

func firstStringField(document map[string]any, fields ...string) (string, bool) {
	for _, field := range fields {
		if value, ok := document[field].(string); ok && value != "" {
			return value, true
		}
	}
	return "", false
}

// statusFailureMessage mines a non-200 body for a nested error message. Two
// known shapes are tried ({error:{message}} and {error:"..."}); anything else
// degrades to a truncated raw excerpt.
func statusFailureMessage(statusCode int, body []byte) string {
	base := fmt.Sprintf(statusFailurePreamble, statusCode)

	var document map[string]any
	if err := json.Unmarshal(body, &document); err != nil {
		return base + ". Raw response: " + excerpt(body)
	}
	switch errValue := document["error"].(type) {
	case map[string]any:
		if message, ok := errValue["message"].(string); ok && message != "" {
			return base + ". Message: " + message
		}
	case string:
		if errValue != "" {
			return base + ". Message: " + errValue
		}
	}
	return base + ". Raw response: " + excerpt(body)
}

func excerpt(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= rawBodyExcerptLimit {
		return text
	}
	return text[:rawBodyExcerptLimit] + "…"
}
