package memory

import (
	"time"

	"go.uber.org/zap"

	"github.com/codude/codude/internal/fsops"
)

// Entry is one recorded interaction. Filename is the backing file's base name
// when persistence was active at append time, otherwise empty.
type Entry struct {
	CapturedText string
	Prompt       string
	Response     string
	Filename     string
}

// Log is the session's append-only, editable sequence of interaction records.
// The list position is an entry's sole handle: deletion shifts subsequent
// indices down by one, and any externally-held "active index" must be adjusted
// by its holder — the log does not track observers.
type Log struct {
	filesystem fsops.FS
	directory  string
	persist    bool
	logger     *zap.Logger
	entries    []Entry
	now        func() time.Time
}

// NewLog builds a log. Persistence requires both the flag and a directory.
func NewLog(filesystem fsops.FS, directory string, persist bool, logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{
		filesystem: filesystem,
		directory:  directory,
		persist:    persist && directory != "",
		logger:     logger,
		now:        time.Now,
	}
}

// Load restores persisted entries from the memory directory, oldest first.
// Unparseable files are skipped with a warning.
func (l *Log) Load() error {
	if !l.persist {
		return nil
	}
	paths, err := fsops.FilesByModTime(l.filesystem, l.directory, entryFileExtension)
	if err != nil {
		l.logger.Warn("unable to scan memory directory", zap.String("dir", l.directory), zap.Error(err))
		return err
	}
	for _, path := range paths {
		content, readErr := l.filesystem.ReadFile(path)
		if readErr != nil {
			l.logger.Warn("unable to read memory file", zap.String("path", path), zap.Error(readErr))
			continue
		}
		entry, ok := parseEntry(string(content))
		if !ok {
			l.logger.Warn("skipping unparseable memory file", zap.String("path", path))
			continue
		}
		entry.Filename = l.filesystem.Base(path)
		l.entries = append(l.entries, entry)
	}
	l.logger.Debug("loaded memory entries", zap.Int("count", len(l.entries)))
	return nil
}

// Append records an interaction and returns its index. The backing file write
// is best effort: on failure the entry stays in memory without a filename.
func (l *Log) Append(capturedText string, prompt string, response string) int {
	entry := Entry{CapturedText: capturedText, Prompt: prompt, Response: response}
	if l.persist {
		filename := backingFilename(prompt, l.now())
		if l.writeBackingFile(filename, entry) {
			entry.Filename = filename
		}
	}
	l.entries = append(l.entries, entry)
	return len(l.entries) - 1
}

// Get returns the entry at index.
func (l *Log) Get(index int) (Entry, bool) {
	if index < 0 || index >= len(l.entries) {
		return Entry{}, false
	}
	return l.entries[index], true
}

// Len reports the number of entries.
func (l *Log) Len() int { return len(l.entries) }

// Entries returns a copy of the current sequence.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Update replaces the response text in place. Index and position are
// unchanged. An identical response is a no-op, avoiding a redundant
// backing-file write.
func (l *Log) Update(index int, newResponse string) bool {
	if index < 0 || index >= len(l.entries) {
		l.logger.Warn("invalid memory index for update", zap.Int("index", index))
		return false
	}
	if l.entries[index].Response == newResponse {
		return true
	}
	l.entries[index].Response = newResponse
	if l.persist && l.entries[index].Filename != "" {
		l.writeBackingFile(l.entries[index].Filename, l.entries[index])
	}
	return true
}

// Delete removes the entry at index and best-effort-deletes its backing file.
// Subsequent indices shift down by one.
func (l *Log) Delete(index int) bool {
	if index < 0 || index >= len(l.entries) {
		l.logger.Warn("invalid memory index for delete", zap.Int("index", index))
		return false
	}
	entry := l.entries[index]
	l.entries = append(l.entries[:index], l.entries[index+1:]...)

	if l.persist && entry.Filename != "" {
		path := l.filesystem.Join(l.directory, entry.Filename)
		if err := l.filesystem.Remove(path); err != nil {
			l.logger.Warn("unable to delete memory file", zap.String("path", path), zap.Error(err))
		}
	}
	return true
}

func (l *Log) writeBackingFile(filename string, entry Entry) bool {
	if err := l.filesystem.MkdirAll(l.directory, 0o755); err != nil {
		l.logger.Warn("unable to create memory directory", zap.String("dir", l.directory), zap.Error(err))
		return false
	}
	path := l.filesystem.Join(l.directory, filename)
	if err := l.filesystem.WriteFile(path, []byte(renderEntry(entry)), 0o644); err != nil {
		l.logger.Warn("unable to write memory file", zap.String("path", path), zap.Error(err))
		return false
	}
	return true
}
