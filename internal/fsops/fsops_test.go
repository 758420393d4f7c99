package fsops

import (
	"testing"
)

func TestCopyFileCreatesDestinationDirectory(t *testing.T) {
	filesystem := NewMem()
	if err := filesystem.WriteFile("/src/original.txt", []byte("payload"), 0o644); err != nil {
		t.Fatalf("seeding source: %v", err)
	}
	if err := CopyFile(filesystem, "/src/original.txt", "/deep/nested/copy.txt"); err != nil {
		t.Fatalf("copy failed: %v", err)
	}
	content, err := filesystem.ReadFile("/deep/nested/copy.txt")
	if err != nil {
		t.Fatalf("reading copy: %v", err)
	}
	if string(content) != "payload" {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestCopyFileMissingSourceFails(t *testing.T) {
	filesystem := NewMem()
	if err := CopyFile(filesystem, "/missing.txt", "/copy.txt"); err == nil {
		t.Fatal("expected copy of missing file to fail")
	}
}

func TestFileExists(t *testing.T) {
	filesystem := NewMem()
	if FileExists(filesystem, "/nope.txt") {
		t.Fatal("missing file reported as existing")
	}
	if err := filesystem.WriteFile("/yes.txt", []byte("x"), 0o644); err != nil {
		t.Fatalf("seeding file: %v", err)
	}
	if !FileExists(filesystem, "/yes.txt") {
		t.Fatal("existing file reported as missing")
	}
}

func TestFilesByModTimeFiltersExtensionAndMissingDir(t *testing.T) {
	filesystem := NewMem()
	paths, err := FilesByModTime(filesystem, "/absent", ".md")
	if err != nil {
		t.Fatalf("missing directory should not error: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected no paths, got %v", paths)
	}

	if err := filesystem.WriteFile("/dir/a.md", []byte("a"), 0o644); err != nil {
		t.Fatalf("seeding: %v", err)
	}
	if err := filesystem.WriteFile("/dir/skip.txt", []byte("b"), 0o644); err != nil {
		t.Fatalf("seeding: %v", err)
	}
	if err := filesystem.WriteFile("/dir/b.md", []byte("c"), 0o644); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	paths, err = FilesByModTime(filesystem, "/dir", ".md")
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %v", paths)
	}
	for _, path := range paths {
		if filesystem.Ext(path) != ".md" {
			t.Fatalf("wrong extension included: %v", paths)
		}
	}
}
