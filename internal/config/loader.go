package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	loaderInitializationWorkingDirectoryError   = "determine working directory: %w"
	loaderHomeEnvironmentVariableName           = "HOME"
	workingDirectoryConfigurationFileName       = "config.json"
	homeDirectoryConfigurationRelativeDirectory = ".codude"
	homeDirectoryConfigurationFileName          = "config.json"
)

// Loader locates the configuration document across supported search paths.
type Loader struct {
	workingDirectory string
	homeDirectory    string
	fileExists       func(string) bool
}

// NewLoader constructs a loader with the provided directories.
func NewLoader(workingDirectory string, homeDirectory string) Loader {
	return Loader{
		workingDirectory: workingDirectory,
		homeDirectory:    homeDirectory,
		fileExists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
	}
}

// NewDefaultLoader builds a loader using the process working directory and HOME.
func NewDefaultLoader() (Loader, error) {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return Loader{}, fmt.Errorf(loaderInitializationWorkingDirectoryError, workingDirectoryError)
	}
	homeDirectory := os.Getenv(loaderHomeEnvironmentVariableName)
	return NewLoader(workingDirectory, homeDirectory), nil
}

// Resolve picks the document location: an explicit path always wins, then the
// first existing candidate (working directory, then home). When nothing exists
// yet the home candidate is returned so a first Save lands there.
func (loader Loader) Resolve(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}
	candidates := []string{loader.workingDirectoryCandidate(), loader.homeDirectoryCandidate()}
	for _, candidate := range candidates {
		if candidate != "" && loader.fileExists(candidate) {
			return candidate
		}
	}
	if home := loader.homeDirectoryCandidate(); home != "" {
		return home
	}
	return workingDirectoryConfigurationFileName
}

func (loader Loader) workingDirectoryCandidate() string {
	if loader.workingDirectory == "" {
		return ""
	}
	return filepath.Join(loader.workingDirectory, workingDirectoryConfigurationFileName)
}

func (loader Loader) homeDirectoryCandidate() string {
	if loader.homeDirectory == "" {
		return ""
	}
	return filepath.Join(loader.homeDirectory, homeDirectoryConfigurationRelativeDirectory, homeDirectoryConfigurationFileName)
}
