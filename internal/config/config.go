package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	recipesFileKey     = "recipes_file"
	memoryDirKey       = "memory_dir"
	permanentMemoryKey = "permanent_memory"
	maxRecentsKey      = "max_recents"
	maxFavoritesKey    = "max_favorites"
	recentlyUsedKey    = "recently_used_recipes"
	favoritesKey       = "favorite_recipes"
	providerKey        = "llm_provider"
	llmURLKey          = "llm_url"
	localAPITokenKey   = "local_api_token"
	openAIAPIKeyKey    = "openai_api_key"
	lmStudioURLKey     = "lmstudio_url"
	lmStudioAPIKeyKey  = "lmstudio_api_key"
	modelNameKey       = "llm_model_name"
	mcpPluginIDsKey    = "mcp_plugin_ids"
	requireUseToolsKey = "require_usetools_for_tools"
	timeoutKey         = "llm_timeout"

	defaultProvider       = "Local OpenAI-Compatible"
	defaultLocalURL       = "http://127.0.0.1:1234"
	defaultModelName      = "gpt-3.5-turbo"
	defaultMaxRecents     = 5
	defaultMaxFavorites   = 5
	defaultTimeoutSeconds = 60

	backupDirectoryName = "backups"

	configWriteErrorFormat = "write configuration %s: %w"
)

// Session is an immutable snapshot of the persisted configuration. Components
// receive a Session at construction time and never reach back into the store.
type Session struct {
	RecipesFile     string
	MemoryDir       string
	PermanentMemory bool

	MaxRecents   int
	MaxFavorites int
	RecentlyUsed [][2]string
	Favorites    [][2]string

	Provider        string
	LLMURL          string
	LocalAPIToken   string
	OpenAIAPIKey    string
	LMStudioURL     string
	LMStudioAPIKey  string
	ModelName       string
	MCPPluginIDs    string
	RequireUseTools bool
	TimeoutSeconds  int
}

// BackupDir derives the recipe backup directory from the recipes file location.
func (s Session) BackupDir() string {
	if s.RecipesFile == "" {
		return backupDirectoryName
	}
	return filepath.Join(filepath.Dir(s.RecipesFile), backupDirectoryName)
}

// Store owns the viper-backed configuration document on disk.
type Store struct {
	path  string
	viper *viper.Viper
}

// Open reads the configuration document at path, falling back to defaults for
// any missing key. A missing file is not an error; Save will create it.
func Open(path string) (*Store, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetDefault(providerKey, defaultProvider)
	v.SetDefault(llmURLKey, defaultLocalURL)
	v.SetDefault(lmStudioURLKey, defaultLocalURL)
	v.SetDefault(modelNameKey, defaultModelName)
	v.SetDefault(maxRecentsKey, defaultMaxRecents)
	v.SetDefault(maxFavoritesKey, defaultMaxFavorites)
	v.SetDefault(timeoutKey, defaultTimeoutSeconds)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read configuration %s: %w", path, err)
		}
	}
	return &Store{path: path, viper: v}, nil
}

// Session snapshots the current document state.
func (s *Store) Session() Session {
	v := s.viper
	return Session{
		RecipesFile:     v.GetString(recipesFileKey),
		MemoryDir:       v.GetString(memoryDirKey),
		PermanentMemory: v.GetBool(permanentMemoryKey),
		MaxRecents:      v.GetInt(maxRecentsKey),
		MaxFavorites:    v.GetInt(maxFavoritesKey),
		RecentlyUsed:    pairList(v.Get(recentlyUsedKey)),
		Favorites:       pairList(v.Get(favoritesKey)),
		Provider:        v.GetString(providerKey),
		LLMURL:          v.GetString(llmURLKey),
		LocalAPIToken:   v.GetString(localAPITokenKey),
		OpenAIAPIKey:    v.GetString(openAIAPIKeyKey),
		LMStudioURL:     v.GetString(lmStudioURLKey),
		LMStudioAPIKey:  v.GetString(lmStudioAPIKeyKey),
		ModelName:       v.GetString(modelNameKey),
		MCPPluginIDs:    v.GetString(mcpPluginIDsKey),
		RequireUseTools: v.GetBool(requireUseToolsKey),
		TimeoutSeconds:  v.GetInt(timeoutKey),
	}
}

// Save writes the full snapshot back to the document.
func (s *Store) Save(session Session) error {
	v := s.viper
	v.Set(recipesFileKey, session.RecipesFile)
	v.Set(memoryDirKey, session.MemoryDir)
	v.Set(permanentMemoryKey, session.PermanentMemory)
	v.Set(maxRecentsKey, session.MaxRecents)
	v.Set(maxFavoritesKey, session.MaxFavorites)
	v.Set(recentlyUsedKey, pairsToAny(session.RecentlyUsed))
	v.Set(favoritesKey, pairsToAny(session.Favorites))
	v.Set(providerKey, session.Provider)
	v.Set(llmURLKey, session.LLMURL)
	v.Set(localAPITokenKey, session.LocalAPIToken)
	v.Set(openAIAPIKeyKey, session.OpenAIAPIKey)
	v.Set(lmStudioURLKey, session.LMStudioURL)
	v.Set(lmStudioAPIKeyKey, session.LMStudioAPIKey)
	v.Set(modelNameKey, session.ModelName)
	v.Set(mcpPluginIDsKey, session.MCPPluginIDs)
	v.Set(requireUseToolsKey, session.RequireUseTools)
	v.Set(timeoutKey, session.TimeoutSeconds)

	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf(configWriteErrorFormat, s.path, err)
	}
	return nil
}

// Path returns the resolved document location.
func (s *Store) Path() string { return s.path }

// pairList coerces the loosely-typed viper value for a recipe identity list
// into (name, prompt) pairs, dropping anything malformed.
func pairList(raw any) [][2]string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	var pairs [][2]string
	for _, item := range items {
		fields, ok := item.([]any)
		if !ok || len(fields) != 2 {
			continue
		}
		name, nameOK := fields[0].(string)
		prompt, promptOK := fields[1].(string)
		if !nameOK || !promptOK {
			continue
		}
		pairs = append(pairs, [2]string{name, prompt})
	}
	return pairs
}

func pairsToAny(pairs [][2]string) []any {
	out := make([]any, 0, len(pairs))
	for _, pair := range pairs {
		out = append(out, []any{pair[0], pair[1]})
	}
	return out
}
