package memory

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/codude/codude/internal/fsops"
)

const testMemoryDir = "/data/memory"

func newPersistentLog(t *testing.T) (*Log, fsops.Mem) {
	t.Helper()
	filesystem := fsops.NewMem()
	return NewLog(filesystem, testMemoryDir, true, zap.NewNop()), filesystem
}

func TestAppendAndGet(t *testing.T) {
	log := NewLog(fsops.NewMem(), "", false, zap.NewNop())

	firstIndex := log.Append("captured one", "prompt one", "response one")
	secondIndex := log.Append("captured two", "prompt two", "response two")
	if firstIndex != 0 || secondIndex != 1 {
		t.Fatalf("unexpected indices: %d, %d", firstIndex, secondIndex)
	}

	entry, found := log.Get(1)
	if !found {
		t.Fatal("expected entry at index 1")
	}
	if entry.Prompt != "prompt two" || entry.Response != "response two" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.Filename != "" {
		t.Fatalf("non-persistent log recorded a filename: %q", entry.Filename)
	}
	if _, found := log.Get(2); found {
		t.Fatal("expected miss past the end")
	}
	if _, found := log.Get(-1); found {
		t.Fatal("expected miss on negative index")
	}
}

func TestAppendWritesBackingFile(t *testing.T) {
	log, filesystem := newPersistentLog(t)

	index := log.Append("captured", "Summarize this text", "the summary")
	entry, _ := log.Get(index)
	if entry.Filename == "" {
		t.Fatal("expected a backing filename")
	}
	if !strings.HasPrefix(entry.Filename, "Summarize this text_") || !strings.HasSuffix(entry.Filename, ".md") {
		t.Fatalf("unexpected filename %q", entry.Filename)
	}

	content, readErr := filesystem.ReadFile(filesystem.Join(testMemoryDir, entry.Filename))
	if readErr != nil {
		t.Fatalf("reading backing file: %v", readErr)
	}
	parsed, ok := parseEntry(string(content))
	if !ok {
		t.Fatal("backing file did not parse")
	}
	if parsed.CapturedText != "captured" || parsed.Prompt != "Summarize this text" || parsed.Response != "the summary" {
		t.Fatalf("round trip lost data: %+v", parsed)
	}
}

func TestUpdateRewritesBackingFile(t *testing.T) {
	log, filesystem := newPersistentLog(t)
	index := log.Append("captured", "prompt", "original response")
	entry, _ := log.Get(index)

	if !log.Update(index, "edited response") {
		t.Fatal("expected update to succeed")
	}
	updated, _ := log.Get(index)
	if updated.Response != "edited response" {
		t.Fatalf("in-memory response not updated: %q", updated.Response)
	}

	content, readErr := filesystem.ReadFile(filesystem.Join(testMemoryDir, entry.Filename))
	if readErr != nil {
		t.Fatalf("reading backing file: %v", readErr)
	}
	parsed, _ := parseEntry(string(content))
	if parsed.Response != "edited response" {
		t.Fatalf("backing file not rewritten: %q", parsed.Response)
	}
}

func TestUpdateIdenticalResponseIsNoOp(t *testing.T) {
	log := NewLog(fsops.NewMem(), "", false, zap.NewNop())
	index := log.Append("c", "p", "same")
	if !log.Update(index, "same") {
		t.Fatal("identical update should still report success")
	}
	if log.Update(5, "anything") {
		t.Fatal("out-of-range update should fail")
	}
}

func TestDeleteShiftsIndices(t *testing.T) {
	log, filesystem := newPersistentLog(t)
	log.Append("c1", "p1", "r1")
	log.Append("c2", "p2", "r2")
	log.Append("c3", "p3", "r3")
	deletedEntry, _ := log.Get(1)

	if !log.Delete(1) {
		t.Fatal("expected delete to succeed")
	}
	if log.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", log.Len())
	}
	shifted, _ := log.Get(1)
	if shifted.Prompt != "p3" {
		t.Fatalf("indices did not shift: %+v", shifted)
	}
	if fsops.FileExists(filesystem, filesystem.Join(testMemoryDir, deletedEntry.Filename)) {
		t.Fatal("backing file survived the delete")
	}
}

func TestLoadRestoresEntriesOldestFirst(t *testing.T) {
	filesystem := fsops.NewMem()
	writer := NewLog(filesystem, testMemoryDir, true, zap.NewNop())
	writer.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	writer.Append("c1", "first prompt", "r1")
	writer.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 6, 0, time.UTC) }
	writer.Append("c2", "second prompt", "r2")

	// An unrelated file that cannot parse must be skipped.
	if err := filesystem.WriteFile(filesystem.Join(testMemoryDir, "junk_20260101_000000.md"), []byte("not an entry"), 0o644); err != nil {
		t.Fatalf("seeding junk file: %v", err)
	}

	reader := NewLog(filesystem, testMemoryDir, true, zap.NewNop())
	if err := reader.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if reader.Len() != 2 {
		t.Fatalf("expected 2 restored entries, got %d", reader.Len())
	}
	first, _ := reader.Get(0)
	if first.Prompt != "first prompt" {
		t.Fatalf("load order wrong, first entry: %+v", first)
	}
	if first.Filename == "" {
		t.Fatal("restored entry lost its filename")
	}
}

func TestLoadMissingDirectoryIsEmpty(t *testing.T) {
	log := NewLog(fsops.NewMem(), testMemoryDir, true, zap.NewNop())
	if err := log.Load(); err != nil {
		t.Fatalf("load of missing directory failed: %v", err)
	}
	if log.Len() != 0 {
		t.Fatalf("expected empty log, got %d entries", log.Len())
	}
}

func TestRenderParseRoundTripWithBlankLines(t *testing.T) {
	entry := Entry{
		CapturedText: "line one\nline two",
		Prompt:       "explain this",
		Response:     "paragraph one\n\nparagraph two",
	}
	parsed, ok := parseEntry(renderEntry(entry))
	if !ok {
		t.Fatal("rendered entry did not parse")
	}
	if parsed.CapturedText != entry.CapturedText || parsed.Prompt != entry.Prompt || parsed.Response != entry.Response {
		t.Fatalf("round trip lost data: %+v", parsed)
	}
}

func TestBackingFilenameSanitization(t *testing.T) {
	at := time.Date(2026, 8, 28, 13, 45, 9, 0, time.UTC)
	testCases := []struct {
		name   string
		prompt string
		wanted string
	}{
		{name: "plain prompt", prompt: "Summarize this", wanted: "Summarize this_20260828_134509.md"},
		{name: "punctuation stripped", prompt: "what?! is: this/", wanted: "what is this_20260828_134509.md"},
		{name: "long prompt truncated", prompt: strings.Repeat("a", 80), wanted: strings.Repeat("a", 50) + "_20260828_134509.md"},
		{name: "nothing usable falls back", prompt: "!!!???///", wanted: "memory_entry_20260828_134509.md"},
		{name: "empty prompt falls back", prompt: "", wanted: "memory_entry_20260828_134509.md"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := backingFilename(testCase.prompt, at); got != testCase.wanted {
				t.Fatalf("got %q, wanted %q", got, testCase.wanted)
			}
		})
	}
}
