package codude

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/codude/codude/internal/config"
	"github.com/codude/codude/internal/fsops"
	"github.com/codude/codude/internal/llm"
	"github.com/codude/codude/internal/memory"
	"github.com/codude/codude/internal/recipes"
	"github.com/codude/codude/internal/session"
)

// engine bundles the wired components for one command invocation, standing in
// for the application session the GUI would hold open.
type engine struct {
	configStore *config.Store
	cfg         config.Session
	store       *recipes.Store
	index       *session.Index
	router      *llm.Router
	memoryLog   *memory.Log
	session     *session.Session
	logger      *zap.Logger
}

func buildEngine(options *globalOptions, logger *zap.Logger) (*engine, error) {
	loader, loaderErr := config.NewDefaultLoader()
	if loaderErr != nil {
		return nil, loaderErr
	}
	configStore, openErr := config.Open(loader.Resolve(options.configPath))
	if openErr != nil {
		return nil, openErr
	}
	cfg := configStore.Session()

	filesystem := fsops.NewOS()
	store := recipes.NewStore(filesystem, cfg.RecipesFile, cfg.BackupDir(), logger)
	index := session.LoadIndex(cfg)
	router := llm.NewRouter(routerSettings(cfg), logger)

	memoryLog := memory.NewLog(filesystem, cfg.MemoryDir, cfg.PermanentMemory, logger)
	if loadErr := memoryLog.Load(); loadErr != nil {
		logger.Warn("continuing without persisted memory", zap.Error(loadErr))
	}

	return &engine{
		configStore: configStore,
		cfg:         cfg,
		store:       store,
		index:       index,
		router:      router,
		memoryLog:   memoryLog,
		session:     session.New(store, index, router, memoryLog, logger),
		logger:      logger,
	}, nil
}

// loadDocument parses the recipe file, failing the command when the file is
// missing or unreadable.
func (e *engine) loadDocument() (recipes.Document, error) {
	document, err := e.store.Load()
	if err != nil {
		return recipes.Document{}, fmt.Errorf("load recipes file %s: %w", e.store.Path(), err)
	}
	return document, nil
}

// saveIndex persists the recency and favorites lists back into the
// configuration document.
func (e *engine) saveIndex() error {
	recentlyUsed, favorites := e.index.Snapshot()
	e.cfg.RecentlyUsed = recentlyUsed
	e.cfg.Favorites = favorites
	return e.configStore.Save(e.cfg)
}

func routerSettings(cfg config.Session) llm.Settings {
	return llm.Settings{
		Provider:        llm.Provider(cfg.Provider),
		LocalURL:        cfg.LLMURL,
		LocalAPIToken:   cfg.LocalAPIToken,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		LMStudioURL:     cfg.LMStudioURL,
		LMStudioAPIKey:  cfg.LMStudioAPIKey,
		Model:           cfg.ModelName,
		MCPPluginIDs:    cfg.MCPPluginIDs,
		RequireUseTools: cfg.RequireUseTools,
		Timeout:         time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}
