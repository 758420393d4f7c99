package fsops

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// FS is an abstract filesystem used across the app and tests.
type FS interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	Stat(name string) (fs.FileInfo, error)
	Remove(name string) error
	MkdirAll(path string, perm os.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	Join(elem ...string) string
	Base(name string) string
	Dir(name string) string
	Ext(name string) string
	Clean(name string) string
}

// ---------- OS-backed implementation ----------

type OS struct{}

func NewOS() OS { return OS{} }

func (OS) ReadFile(name string) ([]byte, error) { return os.ReadFile(filepath.Clean(name)) }
func (OS) WriteFile(name string, b []byte, p os.FileMode) error {
	return os.WriteFile(filepath.Clean(name), b, p)
}
func (OS) Stat(name string) (fs.FileInfo, error)     { return os.Stat(filepath.Clean(name)) }
func (OS) Remove(name string) error                  { return os.Remove(filepath.Clean(name)) }
func (OS) MkdirAll(path string, p os.FileMode) error { return os.MkdirAll(filepath.Clean(path), p) }
func (OS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(filepath.Clean(name))
}
func (OS) Join(elem ...string) string { return filepath.Join(elem...) }
func (OS) Base(name string) string    { return filepath.Base(name) }
func (OS) Dir(name string) string     { return filepath.Dir(name) }
func (OS) Ext(name string) string     { return filepath.Ext(name) }
func (OS) Clean(name string) string   { return filepath.Clean(name) }

// ---------- In-memory implementation (for tests/integration) ----------

type Mem struct{ Fs afero.Fs }

func NewMem() Mem { return Mem{Fs: afero.NewMemMapFs()} }

func (m Mem) ReadFile(name string) ([]byte, error) { return afero.ReadFile(m.Fs, filepath.Clean(name)) }
func (m Mem) WriteFile(name string, b []byte, p os.FileMode) error {
	return afero.WriteFile(m.Fs, filepath.Clean(name), b, p)
}
func (m Mem) Stat(name string) (fs.FileInfo, error) { return m.Fs.Stat(filepath.Clean(name)) }
func (m Mem) Remove(name string) error              { return m.Fs.Remove(filepath.Clean(name)) }
func (m Mem) MkdirAll(path string, p os.FileMode) error {
	return m.Fs.MkdirAll(filepath.Clean(path), p)
}
func (m Mem) ReadDir(name string) ([]fs.DirEntry, error) {
	infos, err := afero.ReadDir(m.Fs, filepath.Clean(name))
	if err != nil {
		return nil, err
	}
	entries := make([]fs.DirEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, memDirEntry{info})
	}
	return entries, nil
}

type memDirEntry struct{ os.FileInfo }

func (d memDirEntry) Type() fs.FileMode          { return d.Mode().Type() }
func (d memDirEntry) Info() (fs.FileInfo, error) { return d.FileInfo, nil }

func (Mem) Join(elem ...string) string { return filepath.Join(elem...) }
func (Mem) Base(name string) string    { return filepath.Base(name) }
func (Mem) Dir(name string) string     { return filepath.Dir(name) }
func (Mem) Ext(name string) string     { return filepath.Ext(name) }
func (Mem) Clean(name string) string   { return filepath.Clean(name) }

// ---------- Shared helpers ----------

// CopyFile duplicates a regular file, creating the destination directory first.
func CopyFile(filesystem FS, source string, destination string) error {
	content, readErr := filesystem.ReadFile(source)
	if readErr != nil {
		return readErr
	}
	if mkdirErr := filesystem.MkdirAll(filesystem.Dir(destination), 0o755); mkdirErr != nil {
		return mkdirErr
	}
	return filesystem.WriteFile(destination, content, 0o644)
}

// FileExists reports whether a path can be stat-ed.
func FileExists(filesystem FS, path string) bool {
	_, err := filesystem.Stat(path)
	return err == nil
}

// FilesByModTime returns file paths in a directory with the given extension,
// ordered oldest first. A missing directory yields an empty slice.
func FilesByModTime(filesystem FS, directory string, extension string) ([]string, error) {
	entries, err := filesystem.ReadDir(directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	type datedPath struct {
		path    string
		modTime int64
	}
	var dated []datedPath
	for _, entry := range entries {
		if entry.IsDir() || filesystem.Ext(entry.Name()) != extension {
			continue
		}
		info, infoErr := entry.Info()
		if infoErr != nil {
			continue
		}
		dated = append(dated, datedPath{
			path:    filesystem.Join(directory, entry.Name()),
			modTime: info.ModTime().UnixNano(),
		})
	}
	sort.SliceStable(dated, func(i, j int) bool { return dated[i].modTime < dated[j].modTime })
	paths := make([]string, 0, len(dated))
	for _, d := range dated {
		paths = append(paths, d.path)
	}
	return paths, nil
}
