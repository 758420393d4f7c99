package session_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/codude/codude/internal/config"
	"github.com/codude/codude/internal/fsops"
	"github.com/codude/codude/internal/memory"
	"github.com/codude/codude/internal/recipes"
	"github.com/codude/codude/internal/session"
)

type stubDispatcher struct {
	response   string
	err        error
	calls      int
	lastPrompt string
	lastText   string
}

func (d *stubDispatcher) Dispatch(_ context.Context, prompt string, capturedText string) (string, error) {
	d.calls++
	d.lastPrompt = prompt
	d.lastText = capturedText
	if d.err != nil {
		return "", d.err
	}
	return d.response, nil
}

func newTestSession(t *testing.T, dispatcher session.Dispatcher, recipeFileContent string) *session.Session {
	t.Helper()
	filesystem := fsops.NewMem()
	const path = "/data/recipes.txt"
	if err := filesystem.WriteFile(path, []byte(recipeFileContent), 0o644); err != nil {
		t.Fatalf("seeding recipes file: %v", err)
	}
	store := recipes.NewStore(filesystem, path, "", zap.NewNop())
	index := session.NewIndex(3, 3)
	memoryLog := memory.NewLog(filesystem, "", false, zap.NewNop())
	return session.New(store, index, dispatcher, memoryLog, zap.NewNop())
}

func TestExecuteRecipeRecordsMemoryAndRecency(t *testing.T) {
	dispatcher := &stubDispatcher{response: "the answer"}
	testSession := newTestSession(t, dispatcher, "# G\n**Summarize**: Summarize this text\n")

	recipe := recipes.Recipe{Name: "Summarize", Prompt: "Summarize this text"}
	result, err := testSession.ExecuteRecipe(context.Background(), recipe, "captured text")
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if result.Response != "the answer" {
		t.Fatalf("unexpected response %q", result.Response)
	}
	if dispatcher.lastPrompt != "Summarize this text" || dispatcher.lastText != "captured text" {
		t.Fatalf("dispatcher received %q / %q", dispatcher.lastPrompt, dispatcher.lastText)
	}

	entry, found := testSession.Memory.Get(result.MemoryIndex)
	if !found {
		t.Fatal("memory entry missing")
	}
	if entry.Prompt != recipe.Prompt || entry.Response != "the answer" {
		t.Fatalf("unexpected memory entry: %+v", entry)
	}
	if !testSession.Index.Recents.Contains(recipe.Identity()) {
		t.Fatal("recency list not touched")
	}
}

func TestExecuteRecipeFailureLeavesStateUntouched(t *testing.T) {
	dispatcher := &stubDispatcher{err: errors.New("provider unreachable")}
	testSession := newTestSession(t, dispatcher, "# G\n**A**: p\n")

	recipe := recipes.Recipe{Name: "A", Prompt: "p"}
	_, err := testSession.ExecuteRecipe(context.Background(), recipe, "text")
	if err == nil {
		t.Fatal("expected dispatch error to surface")
	}
	if testSession.Memory.Len() != 0 {
		t.Fatal("failed dispatch was memorized")
	}
	if testSession.Index.Recents.Len() != 0 {
		t.Fatal("failed dispatch touched the recency list")
	}
}

func TestExecutePromptSkipsRecency(t *testing.T) {
	dispatcher := &stubDispatcher{response: "ok"}
	testSession := newTestSession(t, dispatcher, "")

	result, err := testSession.ExecutePrompt(context.Background(), "free-form prompt", "text")
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if testSession.Memory.Len() != 1 {
		t.Fatal("prompt execution not memorized")
	}
	if testSession.Index.Recents.Len() != 0 {
		t.Fatal("free-form prompt should not enter the recency list")
	}
	if result.MemoryIndex != 0 {
		t.Fatalf("unexpected memory index %d", result.MemoryIndex)
	}
}

func TestEditRecipeRekeysIndex(t *testing.T) {
	dispatcher := &stubDispatcher{response: "ok"}
	testSession := newTestSession(t, dispatcher, "# G\n**Summarize**: old prompt\n")

	oldID := recipes.Identity{Name: "Summarize", Prompt: "old prompt"}
	testSession.Index.Touch(oldID)
	if _, err := testSession.Index.Toggle(oldID); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	if !testSession.EditRecipe(oldID, "Summarize Short", "new prompt") {
		t.Fatal("edit failed")
	}

	newID := recipes.Identity{Name: "Summarize Short", Prompt: "new prompt"}
	if !testSession.Index.Recents.Contains(newID) || !testSession.Index.Favorites.Contains(newID) {
		t.Fatal("index not rekeyed to the new identity")
	}
	if testSession.Index.Recents.Contains(oldID) {
		t.Fatal("old identity still in the recency list")
	}

	document, loadErr := testSession.Store.Load()
	if loadErr != nil {
		t.Fatalf("reload failed: %v", loadErr)
	}
	if _, found := document.Find(newID); !found {
		t.Fatal("edited recipe not present in the file")
	}
}

func TestDeleteRecipeRemovesFromIndex(t *testing.T) {
	dispatcher := &stubDispatcher{response: "ok"}
	testSession := newTestSession(t, dispatcher, "# G\n**A**: p\n")

	id := recipes.Identity{Name: "A", Prompt: "p"}
	testSession.Index.Touch(id)

	if !testSession.DeleteRecipe(id) {
		t.Fatal("delete failed")
	}
	if testSession.Index.Recents.Contains(id) {
		t.Fatal("deleted identity still in the recency list")
	}
	if testSession.DeleteRecipe(id) {
		t.Fatal("second delete of the same recipe should fail")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	index := session.NewIndex(3, 3)
	first := recipes.Identity{Name: "A", Prompt: "p1"}
	second := recipes.Identity{Name: "B", Prompt: "p2"}
	index.Touch(first)
	index.Touch(second)
	if _, err := index.Toggle(first); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	recentlyUsed, favorites := index.Snapshot()
	if len(recentlyUsed) != 2 || len(favorites) != 1 {
		t.Fatalf("unexpected snapshot sizes: %d recents, %d favorites", len(recentlyUsed), len(favorites))
	}
	if recentlyUsed[0] != [2]string{"B", "p2"} {
		t.Fatalf("unexpected front of recency snapshot: %v", recentlyUsed[0])
	}

	restored := session.LoadIndex(config.Session{
		MaxRecents:   3,
		MaxFavorites: 3,
		RecentlyUsed: recentlyUsed,
		Favorites:    favorites,
	})
	if !restored.Recents.Contains(second) || !restored.Favorites.Contains(first) {
		t.Fatal("restored index lost entries")
	}
}
