package memory

import (
	"strings"
	"time"
	"unicode"
)

const (
	capturedTextLabel = "Captured Text:"
	promptLabel       = "Prompt:"
	responseLabel     = "LLM Response:"

	entryFileExtension    = ".md"
	entryTimestampLayout  = "20060102_150405"
	fallbackFilenameStem  = "memory_entry"
	filenameStemRuneLimit = 50
)

// renderEntry serializes an entry into the labeled-block backing-file layout.
func renderEntry(entry Entry) string {
	var builder strings.Builder
	builder.WriteString(capturedTextLabel + "\n")
	builder.WriteString(entry.CapturedText)
	builder.WriteString("\n\n" + promptLabel + "\n")
	builder.WriteString(entry.Prompt)
	builder.WriteString("\n\n" + responseLabel + "\n")
	builder.WriteString(entry.Response)
	builder.WriteString("\n")
	return builder.String()
}

// parseEntry reconstructs an entry from backing-file content. Label blocks are
// matched in fixed order; the prompt and captured text therefore round-trip
// even when the response contains blank lines.
func parseEntry(content string) (Entry, bool) {
	capturedMarker := capturedTextLabel + "\n"
	promptMarker := "\n\n" + promptLabel + "\n"
	responseMarker := "\n\n" + responseLabel + "\n"

	if !strings.HasPrefix(content, capturedMarker) {
		return Entry{}, false
	}
	rest := content[len(capturedMarker):]

	promptStart := strings.Index(rest, promptMarker)
	if promptStart < 0 {
		return Entry{}, false
	}
	captured := rest[:promptStart]
	rest = rest[promptStart+len(promptMarker):]

	responseStart := strings.Index(rest, responseMarker)
	if responseStart < 0 {
		return Entry{}, false
	}
	prompt := rest[:responseStart]
	response := strings.TrimSuffix(rest[responseStart+len(responseMarker):], "\n")

	return Entry{CapturedText: captured, Prompt: prompt, Response: response}, true
}

// backingFilename derives a filesystem-safe name from the prompt plus a
// timestamp, mirroring what the interaction was about.
func backingFilename(prompt string, at time.Time) string {
	stem := sanitizeFilenameStem(prompt)
	return stem + "_" + at.Format(entryTimestampLayout) + entryFileExtension
}

func sanitizeFilenameStem(prompt string) string {
	runes := []rune(prompt)
	if len(runes) > filenameStemRuneLimit {
		runes = runes[:filenameStemRuneLimit]
	}
	var builder strings.Builder
	for _, r := range runes {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			builder.WriteRune(r)
		}
	}
	stem := strings.TrimSpace(builder.String())
	if stem == "" {
		return fallbackFilenameStem
	}
	return stem
}
