package recipes_test

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/codude/codude/internal/fsops"
	"github.com/codude/codude/internal/recipes"
)

const (
	testRecipesPath = "/data/recipes.txt"
	testBackupDir   = "/data/backups"
)

func newTestStore(t *testing.T, content string) (*recipes.Store, fsops.Mem) {
	t.Helper()
	filesystem := fsops.NewMem()
	if err := filesystem.WriteFile(testRecipesPath, []byte(content), 0o644); err != nil {
		t.Fatalf("seeding recipes file: %v", err)
	}
	return recipes.NewStore(filesystem, testRecipesPath, testBackupDir, zap.NewNop()), filesystem
}

func fileContent(t *testing.T, filesystem fsops.Mem, path string) string {
	t.Helper()
	content, err := filesystem.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(content)
}

func TestUpdateRecipeRewritesOnlyTheMatchedLine(t *testing.T) {
	original := "# Writing\n**Summarize**: Summarize this text\nsome stray prose line\n**Translate**: Translate to French\n"
	store, filesystem := newTestStore(t, original)

	updated := store.UpdateRecipe(
		recipes.Identity{Name: "Summarize", Prompt: "Summarize this text"},
		"Summarize Short", "Give a 3-sentence summary")
	if !updated {
		t.Fatal("expected update to succeed")
	}

	got := fileContent(t, filesystem, testRecipesPath)
	wanted := "# Writing\n**Summarize Short**: Give a 3-sentence summary\nsome stray prose line\n**Translate**: Translate to French\n"
	if got != wanted {
		t.Fatalf("unexpected file content:\n%q\nwanted:\n%q", got, wanted)
	}
}

func TestUpdateRecipePreservesCRLFOnUntouchedLines(t *testing.T) {
	original := "# G\r\n**A**: first\r\n**B**: second\r\n"
	store, filesystem := newTestStore(t, original)

	if !store.UpdateRecipe(recipes.Identity{Name: "A", Prompt: "first"}, "A", "changed") {
		t.Fatal("expected update to succeed")
	}

	got := fileContent(t, filesystem, testRecipesPath)
	if !strings.Contains(got, "**A**: changed\r\n") {
		t.Fatalf("edited line lost its terminator: %q", got)
	}
	if !strings.Contains(got, "# G\r\n") || !strings.Contains(got, "**B**: second\r\n") {
		t.Fatalf("untouched lines changed: %q", got)
	}
}

func TestUpdateRecipeMatchesUnderWhitespaceNormalization(t *testing.T) {
	store, filesystem := newTestStore(t, "# G\n**A**:   do   the\tthing\n")

	if !store.UpdateRecipe(recipes.Identity{Name: " A", Prompt: "do the thing "}, "A", "done") {
		t.Fatal("expected normalized identity to match the stored line")
	}
	if !strings.Contains(fileContent(t, filesystem, testRecipesPath), "**A**: done\n") {
		t.Fatal("edit not applied")
	}
}

func TestUpdateRecipeUnknownIdentityLeavesFileUntouched(t *testing.T) {
	original := "# G\n**A**: p\n"
	store, filesystem := newTestStore(t, original)

	if store.UpdateRecipe(recipes.Identity{Name: "Missing", Prompt: "p"}, "X", "Y") {
		t.Fatal("expected update of unknown recipe to fail")
	}
	if fileContent(t, filesystem, testRecipesPath) != original {
		t.Fatal("file changed despite failed match")
	}
}

func TestRemoveRecipeThenReload(t *testing.T) {
	store, _ := newTestStore(t, "# G\n**A**: p1\n**B**: p2\n")

	if !store.RemoveRecipe(recipes.Identity{Name: "A", Prompt: "p1"}) {
		t.Fatal("expected removal to succeed")
	}
	document, loadErr := store.Load()
	if loadErr != nil {
		t.Fatalf("reload failed: %v", loadErr)
	}
	if _, found := document.Find(recipes.Identity{Name: "A", Prompt: "p1"}); found {
		t.Fatal("removed recipe still present after reload")
	}
	if _, found := document.Find(recipes.Identity{Name: "B", Prompt: "p2"}); !found {
		t.Fatal("unrelated recipe lost")
	}
}

func TestMutationWritesTimestampedBackup(t *testing.T) {
	store, filesystem := newTestStore(t, "# G\n**A**: p\n")

	if !store.UpdateRecipe(recipes.Identity{Name: "A", Prompt: "p"}, "A", "q") {
		t.Fatal("expected update to succeed")
	}

	backups, err := fsops.FilesByModTime(filesystem, testBackupDir, ".bak")
	if err != nil {
		t.Fatalf("listing backups: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("expected 1 backup, got %d", len(backups))
	}
	if !strings.HasPrefix(filesystem.Base(backups[0]), "recipes.txt_") {
		t.Fatalf("unexpected backup name %q", backups[0])
	}
	if fileContent(t, filesystem, backups[0]) != "# G\n**A**: p\n" {
		t.Fatal("backup does not hold the pre-mutation content")
	}
}

func TestInsertGroupAppendsHeader(t *testing.T) {
	store, filesystem := newTestStore(t, "# G\n**A**: p")

	if !store.InsertGroup("New Group") {
		t.Fatal("expected group insert to succeed")
	}
	got := fileContent(t, filesystem, testRecipesPath)
	if got != "# G\n**A**: p\n# New Group\n" {
		t.Fatalf("unexpected content: %q", got)
	}
}

func TestInsertRecipeLandsAtEndOfGroup(t *testing.T) {
	store, filesystem := newTestStore(t, "# First\n**A**: p1\n\n**B**: p2\n# Second\n**C**: p3\n")

	if !store.InsertRecipe("First", "D", "p4") {
		t.Fatal("expected recipe insert to succeed")
	}
	got := fileContent(t, filesystem, testRecipesPath)
	wanted := "# First\n**A**: p1\n\n**B**: p2\n**D**: p4\n# Second\n**C**: p3\n"
	if got != wanted {
		t.Fatalf("unexpected content:\n%q\nwanted:\n%q", got, wanted)
	}
}

func TestInsertRecipeIntoLastGroupAppends(t *testing.T) {
	store, filesystem := newTestStore(t, "# Only\n**A**: p1")

	if !store.InsertRecipe("Only", "B", "p2") {
		t.Fatal("expected recipe insert to succeed")
	}
	got := fileContent(t, filesystem, testRecipesPath)
	if got != "# Only\n**A**: p1\n**B**: p2\n" {
		t.Fatalf("unexpected content: %q", got)
	}
}

func TestInsertRecipeUnknownGroupFails(t *testing.T) {
	original := "# G\n**A**: p\n"
	store, filesystem := newTestStore(t, original)

	if store.InsertRecipe("Nope", "B", "q") {
		t.Fatal("expected insert into unknown group to fail")
	}
	if fileContent(t, filesystem, testRecipesPath) != original {
		t.Fatal("file changed despite failed insert")
	}
}

func TestRemoveGroupMigratesMembersToNextGroup(t *testing.T) {
	store, filesystem := newTestStore(t, "# First\n**A**: p1\n**B**: p2\n# Second\n**C**: p3\n")

	if !store.RemoveGroup("First", false) {
		t.Fatal("expected group removal to succeed")
	}
	got := fileContent(t, filesystem, testRecipesPath)
	wanted := "# Second\n**A**: p1\n**B**: p2\n**C**: p3\n"
	if got != wanted {
		t.Fatalf("unexpected content:\n%q\nwanted:\n%q", got, wanted)
	}
}

func TestRemoveLastGroupAppendsMembersAtEnd(t *testing.T) {
	store, filesystem := newTestStore(t, "# First\n**A**: p1\n# Second\n**B**: p2\n")

	if !store.RemoveGroup("Second", false) {
		t.Fatal("expected group removal to succeed")
	}
	got := fileContent(t, filesystem, testRecipesPath)
	if got != "# First\n**A**: p1\n**B**: p2\n" {
		t.Fatalf("unexpected content: %q", got)
	}
}

func TestRemoveGroupMergeOnlyKeepsEmptyHeader(t *testing.T) {
	store, filesystem := newTestStore(t, "# First\n**A**: p1\n# Second\n**B**: p2\n")

	if !store.RemoveGroup("First", true) {
		t.Fatal("expected merge to succeed")
	}
	got := fileContent(t, filesystem, testRecipesPath)
	wanted := "# First\n# Second\n**A**: p1\n**B**: p2\n"
	if got != wanted {
		t.Fatalf("unexpected content:\n%q\nwanted:\n%q", got, wanted)
	}
}

func TestRemoveGroupUnknownTitleFails(t *testing.T) {
	original := "# G\n**A**: p\n"
	store, filesystem := newTestStore(t, original)

	if store.RemoveGroup("Missing", false) {
		t.Fatal("expected removal of unknown group to fail")
	}
	if fileContent(t, filesystem, testRecipesPath) != original {
		t.Fatal("file changed despite failed removal")
	}
}
