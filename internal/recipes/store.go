package recipes

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/codude/codude/internal/fsops"
)

const (
	backupTimestampLayout = "20060102_150405"
	backupSuffix          = ".bak"
	defaultLineEnding     = "\n"
)

// Store owns the backing recipe file. Every mutation takes a timestamped
// backup, rebuilds the full line buffer in memory, and rewrites the file in
// one shot; a failed read leaves the file untouched. No file locking: the
// file is only ever mutated from the owning session.
type Store struct {
	filesystem fsops.FS
	path       string
	backupDir  string
	logger     *zap.Logger
	now        func() time.Time
}

// NewStore builds a store for one recipe file.
func NewStore(filesystem fsops.FS, path string, backupDir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		filesystem: filesystem,
		path:       path,
		backupDir:  backupDir,
		logger:     logger,
		now:        time.Now,
	}
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

// Load reads and parses the backing file. I/O failures surface as an error
// alongside an empty document; parse itself never fails.
func (s *Store) Load() (Document, error) {
	content, err := s.filesystem.ReadFile(s.path)
	if err != nil {
		s.logger.Warn("unable to read recipes file", zap.String("path", s.path), zap.Error(err))
		return Document{}, err
	}
	return Parse(string(content), s.logger), nil
}

// UpdateRecipe replaces the first line matching the old identity with a fresh
// recipe line, preserving the line's original terminator. Returns false, with
// no change, when no line matches.
func (s *Store) UpdateRecipe(oldID Identity, newName string, newPrompt string) bool {
	lines, ok := s.readLines()
	if !ok {
		return false
	}
	index := matchLineIndex(lines, oldID)
	if index < 0 {
		s.logger.Warn("recipe to update not found", zap.String("name", oldID.Name))
		return false
	}
	s.backup()
	lines[index] = recipeLine(newName, newPrompt) + terminatorOf(lines[index])
	return s.writeLines(lines)
}

// RemoveRecipe drops the first line matching the identity. No blank-line
// cleanup is attempted.
func (s *Store) RemoveRecipe(id Identity) bool {
	lines, ok := s.readLines()
	if !ok {
		return false
	}
	index := matchLineIndex(lines, id)
	if index < 0 {
		s.logger.Warn("recipe to remove not found", zap.String("name", id.Name))
		return false
	}
	s.backup()
	lines = append(lines[:index], lines[index+1:]...)
	return s.writeLines(lines)
}

// InsertGroup appends a new group header at the end of the file.
func (s *Store) InsertGroup(title string) bool {
	lines, ok := s.readLines()
	if !ok {
		return false
	}
	s.backup()
	lines = ensureTrailingTerminator(lines)
	lines = append(lines, groupHeaderPrefix+" "+title+defaultLineEnding)
	return s.writeLines(lines)
}

// InsertRecipe adds a recipe line at the end of the named group: after the
// group's last recipe, before the next group header. Returns false when the
// group does not exist.
func (s *Store) InsertRecipe(groupTitle string, name string, prompt string) bool {
	lines, ok := s.readLines()
	if !ok {
		return false
	}
	headerIndex := groupHeaderIndex(lines, groupTitle)
	if headerIndex < 0 {
		s.logger.Warn("group for new recipe not found", zap.String("title", groupTitle))
		return false
	}
	insertAt := headerIndex + 1
	for i := headerIndex + 1; i < len(lines); i++ {
		if isGroupHeaderLine(lines[i]) {
			break
		}
		if _, isRecipe := lineIdentity(lines[i]); isRecipe {
			insertAt = i + 1
		}
	}
	s.backup()
	newLine := recipeLine(name, prompt) + defaultLineEnding
	if insertAt >= len(lines) {
		lines = ensureTrailingTerminator(lines)
		lines = append(lines, newLine)
	} else {
		lines = append(lines[:insertAt], append([]string{newLine}, lines[insertAt:]...)...)
	}
	return s.writeLines(lines)
}

// RemoveGroup removes a group header and migrates its member recipe lines
// under the next group header in file order, or to the end of the file when
// the group was last. With mergeOnly the header stays in place, left empty,
// so the grouping label survives.
func (s *Store) RemoveGroup(title string, mergeOnly bool) bool {
	lines, ok := s.readLines()
	if !ok {
		return false
	}
	headerIndex := groupHeaderIndex(lines, title)
	if headerIndex < 0 {
		s.logger.Warn("group to remove not found", zap.String("title", title))
		return false
	}

	spanEnd := len(lines)
	for i := headerIndex + 1; i < len(lines); i++ {
		if isGroupHeaderLine(lines[i]) {
			spanEnd = i
			break
		}
	}

	var members []string
	for i := headerIndex + 1; i < spanEnd; i++ {
		if _, isRecipe := lineIdentity(lines[i]); isRecipe {
			members = append(members, ensureTerminated(lines[i]))
		}
	}

	s.backup()

	rebuilt := make([]string, 0, len(lines))
	rebuilt = append(rebuilt, lines[:headerIndex]...)
	if mergeOnly {
		rebuilt = append(rebuilt, ensureTerminated(lines[headerIndex]))
	}
	rebuilt = append(rebuilt, lines[spanEnd:]...)

	if len(members) > 0 {
		if spanEnd < len(lines) {
			// Next group's header sits where the removed span ended.
			nextHeader := headerIndex
			if mergeOnly {
				nextHeader++
			}
			insertAt := nextHeader + 1
			rebuilt[nextHeader] = ensureTerminated(rebuilt[nextHeader])
			rebuilt = append(rebuilt[:insertAt], append(members, rebuilt[insertAt:]...)...)
		} else {
			rebuilt = ensureTrailingTerminator(rebuilt)
			rebuilt = append(rebuilt, members...)
		}
	}
	return s.writeLines(rebuilt)
}

// ---------- line buffer helpers ----------

func (s *Store) readLines() ([]string, bool) {
	content, err := s.filesystem.ReadFile(s.path)
	if err != nil {
		s.logger.Warn("unable to read recipes file", zap.String("path", s.path), zap.Error(err))
		return nil, false
	}
	return splitLinesKeepEnds(string(content)), true
}

func (s *Store) writeLines(lines []string) bool {
	content := strings.Join(lines, "")
	if err := s.filesystem.WriteFile(s.path, []byte(content), 0o644); err != nil {
		s.logger.Error("unable to write recipes file", zap.String("path", s.path), zap.Error(err))
		return false
	}
	return true
}

// backup copies the current file into the backup directory with a timestamped
// name. Failure is logged and does not block the pending mutation.
func (s *Store) backup() {
	if s.backupDir == "" {
		return
	}
	backupName := fmt.Sprintf("%s_%s%s", s.filesystem.Base(s.path), s.now().Format(backupTimestampLayout), backupSuffix)
	destination := s.filesystem.Join(s.backupDir, backupName)
	if err := fsops.CopyFile(s.filesystem, s.path, destination); err != nil {
		s.logger.Warn("recipe file backup failed", zap.String("destination", destination), zap.Error(err))
	}
}

// splitLinesKeepEnds splits content into lines that retain their terminators,
// so a rewrite can reproduce the untouched lines byte for byte.
func splitLinesKeepEnds(content string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			lines = append(lines, content[start:i+1])
			start = i + 1
		}
	}
	if start < len(content) {
		lines = append(lines, content[start:])
	}
	return lines
}

func terminatorOf(line string) string {
	if strings.HasSuffix(line, "\r\n") {
		return "\r\n"
	}
	if strings.HasSuffix(line, "\n") {
		return "\n"
	}
	return ""
}

func stripTerminator(line string) string {
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
}

func ensureTerminated(line string) string {
	if terminatorOf(line) == "" {
		return line + defaultLineEnding
	}
	return line
}

func ensureTrailingTerminator(lines []string) []string {
	if len(lines) == 0 {
		return lines
	}
	lines[len(lines)-1] = ensureTerminated(lines[len(lines)-1])
	return lines
}

// lineIdentity parses a raw line as a recipe definition, returning its identity.
func lineIdentity(line string) (Identity, bool) {
	trimmed := strings.TrimSpace(stripTerminator(line))
	recipe, ok := parseRecipeLine(trimmed, 0, zap.NewNop())
	if !ok {
		return Identity{}, false
	}
	return recipe.Identity(), true
}

// matchLineIndex finds the first line whose parsed identity equals id under
// whitespace normalization. With duplicate (name, prompt) pairs the first
// match wins; that ambiguity is a documented limitation.
func matchLineIndex(lines []string, id Identity) int {
	for index, line := range lines {
		candidate, ok := lineIdentity(line)
		if ok && candidate.Equal(id) {
			return index
		}
	}
	return -1
}

func isGroupHeaderLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(stripTerminator(line)), groupHeaderPrefix)
}

func groupHeaderIndex(lines []string, title string) int {
	wanted := NormalizeWhitespace(title)
	for index, line := range lines {
		trimmed := strings.TrimSpace(stripTerminator(line))
		if !strings.HasPrefix(trimmed, groupHeaderPrefix) {
			continue
		}
		candidate := strings.TrimSpace(strings.TrimLeft(trimmed, groupHeaderPrefix))
		if NormalizeWhitespace(candidate) == wanted {
			return index
		}
	}
	return -1
}

func recipeLine(name string, prompt string) string {
	return recipeNamePrefix + name + recipeNamePrefix + recipeSeparator + " " + prompt
}
