package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/ragent/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk,
// falling back to embedded defaults when a file is absent.
// Loading never writes; WriteDefaults materialises the files for editing.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
}

// defaultPrompts contains embedded default prompts.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptAnswerSystem: `You are an assistant for question-answering tasks. Use the following pieces of retrieved context to answer the question. If you don't know the answer, say that you don't know. Use three sentences maximum and keep the answer concise.`,
}

// DefaultPrompt returns the embedded default for name.
func DefaultPrompt(name string) (string, bool) {
	p, ok := defaultPrompts[name]
	return p, ok
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ./.ragent/prompts.
func NewPromptStore(promptDir string) *PromptStore {
	if promptDir == "" {
		promptDir = filepath.Join(DefaultDir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}
}

// Load returns the prompt template for the given name.
// A file <dir>/<name>.txt overrides the embedded default.
func (s *PromptStore) Load(name string) (string, error) {
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	switch {
	case err == nil && prompt != "":
	case err == nil || errors.Is(err, fs.ErrNotExist):
		defaultPrompt, ok := defaultPrompts[name]
		if !ok {
			return "", fmt.Errorf("load prompt %q: %w", name, fs.ErrNotExist)
		}
		prompt = defaultPrompt
	default:
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// WriteDefaults creates the prompt directory and writes every default
// prompt that does not already have a file. Returns the files written.
func (s *PromptStore) WriteDefaults() ([]string, error) {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		return nil, fmt.Errorf("create prompt directory: %w", err)
	}

	names := make([]string, 0, len(defaultPrompts))
	for name := range defaultPrompts {
		names = append(names, name)
	}
	sort.Strings(names)

	var written []string
	for _, name := range names {
		path := s.pathFor(name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(defaultPrompts[name]+"\n"), 0600); err != nil {
			return written, fmt.Errorf("create default prompt %q: %w", name, err)
		}
		written = append(written, path)
	}

	s.Reload()
	return written, nil
}

func (s *PromptStore) pathFor(name string) string {
	return filepath.Join(s.promptDir, name+".txt")
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(s.pathFor(name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
