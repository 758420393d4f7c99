package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/codude/codude/internal/memory"
	"github.com/codude/codude/internal/recipes"
)

// CaptureSource is the clipboard/hotkey collaborator: it emits raw captured
// text. The engine consumes the text and never knows how capture happens.
type CaptureSource interface {
	Events() <-chan string
}

// Dispatcher is the LLM routing seam, satisfied by *llm.Router.
type Dispatcher interface {
	Dispatch(ctx context.Context, prompt string, capturedText string) (string, error)
}

// Session wires the engine components together for one running application
// session. The index and memory log outlive individual recipe-file reloads;
// all mutation happens on the caller's goroutine after a dispatch result has
// been handed over as an immutable value.
type Session struct {
	Store  *recipes.Store
	Index  *Index
	Router Dispatcher
	Memory *memory.Log
	logger *zap.Logger
}

// New assembles a session.
func New(store *recipes.Store, index *Index, router Dispatcher, memoryLog *memory.Log, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{Store: store, Index: index, Router: router, Memory: memoryLog, logger: logger}
}

// ExecutionResult reports a completed dispatch: the reply text and the memory
// index it was recorded under.
type ExecutionResult struct {
	Response    string
	MemoryIndex int
}

// ExecuteRecipe dispatches a recipe against captured text. On success the
// interaction is appended to memory and the recipe's identity moves to the
// front of the recency list; on failure every piece of state is left
// untouched and the normalized error is returned.
func (s *Session) ExecuteRecipe(ctx context.Context, recipe recipes.Recipe, capturedText string) (ExecutionResult, error) {
	response, err := s.Router.Dispatch(ctx, recipe.Prompt, capturedText)
	if err != nil {
		return ExecutionResult{}, err
	}
	index := s.Memory.Append(capturedText, recipe.Prompt, response)
	s.Index.Touch(recipe.Identity())
	s.logger.Debug("recipe executed", zap.String("name", recipe.Name), zap.Int("memory_index", index))
	return ExecutionResult{Response: response, MemoryIndex: index}, nil
}

// ExecutePrompt dispatches a free-form prompt. The interaction is memorized
// but no recency entry is recorded since there is no recipe identity.
func (s *Session) ExecutePrompt(ctx context.Context, prompt string, capturedText string) (ExecutionResult, error) {
	response, err := s.Router.Dispatch(ctx, prompt, capturedText)
	if err != nil {
		return ExecutionResult{}, err
	}
	index := s.Memory.Append(capturedText, prompt, response)
	return ExecutionResult{Response: response, MemoryIndex: index}, nil
}

// EditRecipe rewrites a recipe line and rekeys the identity in both bounded
// lists so recency rank and favorite flag survive the edit.
func (s *Session) EditRecipe(oldID recipes.Identity, newName string, newPrompt string) bool {
	if !s.Store.UpdateRecipe(oldID, newName, newPrompt) {
		return false
	}
	s.Index.Rekey(oldID, recipes.Identity{Name: newName, Prompt: newPrompt})
	return true
}

// DeleteRecipe drops a recipe line and removes its identity from both lists.
func (s *Session) DeleteRecipe(id recipes.Identity) bool {
	if !s.Store.RemoveRecipe(id) {
		return false
	}
	s.Index.Remove(id)
	return true
}
