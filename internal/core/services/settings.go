package services

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/core/ports/driven"
	"github.com/custodia-labs/ragent/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage. Credentials are never stored here.
const (
	keyDocumentsDir      = "documents.dir"
	keyStoreDir          = "store.dir"
	keyStoreBackend      = "store.backend"
	keyWeaviateHost      = "store.weaviate_host"
	keyWeaviateScheme    = "store.weaviate_scheme"
	keyWeaviateClass     = "store.weaviate_class"
	keyChunkSize         = "chunking.size"
	keyChunkOverlap      = "chunking.overlap"
	keyTopK              = "retrieval.top_k"
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedDims         = "embedding.dimensions"
	keyEmbedRPM          = "embedding.requests_per_minute"
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMRPM            = "llm.requests_per_minute"
	keyLLMTimeoutSeconds = "llm.timeout_seconds"
)

// setting binds a config key to the Settings field it controls.
type setting struct {
	key     string
	numeric bool
	apply   func(s *domain.Settings, str string, n int)
}

func stringSetting(key string, apply func(s *domain.Settings, v string)) setting {
	return setting{key: key, apply: func(s *domain.Settings, v string, _ int) { apply(s, v) }}
}

func intSetting(key string, apply func(s *domain.Settings, v int)) setting {
	return setting{key: key, numeric: true, apply: func(s *domain.Settings, _ string, v int) { apply(s, v) }}
}

// settingsTable lists every settable key in display order.
var settingsTable = []setting{
	stringSetting(keyDocumentsDir, func(s *domain.Settings, v string) { s.Documents.Dir = v }),
	stringSetting(keyStoreDir, func(s *domain.Settings, v string) { s.Store.Dir = v }),
	stringSetting(keyStoreBackend, func(s *domain.Settings, v string) { s.Store.Backend = domain.StoreBackend(v) }),
	stringSetting(keyWeaviateHost, func(s *domain.Settings, v string) { s.Store.WeaviateHost = v }),
	stringSetting(keyWeaviateScheme, func(s *domain.Settings, v string) { s.Store.WeaviateScheme = v }),
	stringSetting(keyWeaviateClass, func(s *domain.Settings, v string) { s.Store.WeaviateClass = v }),
	intSetting(keyChunkSize, func(s *domain.Settings, v int) { s.Chunking.Size = v }),
	intSetting(keyChunkOverlap, func(s *domain.Settings, v int) { s.Chunking.Overlap = v }),
	intSetting(keyTopK, func(s *domain.Settings, v int) { s.Retrieval.TopK = v }),
	stringSetting(keyEmbedProvider, func(s *domain.Settings, v string) { s.Embedding.Provider = domain.AIProvider(v) }),
	stringSetting(keyEmbedModel, func(s *domain.Settings, v string) { s.Embedding.Model = v }),
	stringSetting(keyEmbedBaseURL, func(s *domain.Settings, v string) { s.Embedding.BaseURL = v }),
	intSetting(keyEmbedDims, func(s *domain.Settings, v int) { s.Embedding.Dimensions = v }),
	intSetting(keyEmbedRPM, func(s *domain.Settings, v int) { s.Embedding.RequestsPerMinute = v }),
	stringSetting(keyLLMProvider, func(s *domain.Settings, v string) { s.LLM.Provider = domain.AIProvider(v) }),
	stringSetting(keyLLMModel, func(s *domain.Settings, v string) { s.LLM.Model = v }),
	stringSetting(keyLLMBaseURL, func(s *domain.Settings, v string) { s.LLM.BaseURL = v }),
	intSetting(keyLLMRPM, func(s *domain.Settings, v int) { s.LLM.RequestsPerMinute = v }),
	intSetting(keyLLMTimeoutSeconds, func(s *domain.Settings, v int) { s.LLM.TimeoutSeconds = v }),
}

func lookupSetting(key string) (setting, bool) {
	for _, st := range settingsTable {
		if st.key == key {
			return st, true
		}
	}
	return setting{}, false
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns stored settings merged over defaults. When a provider is
// changed without naming a model, that provider's default model applies.
func (s *SettingsService) Get() (*domain.Settings, error) {
	settings := s.merged()
	if err := s.Validate(&settings); err != nil {
		return nil, fmt.Errorf("%s: %w", s.configStore.Path(), err)
	}
	return &settings, nil
}

// merged overlays stored values on the defaults without validating.
func (s *SettingsService) merged() domain.Settings {
	settings := domain.DefaultSettings()

	for _, st := range settingsTable {
		if _, ok := s.configStore.Get(st.key); !ok {
			continue
		}
		if st.numeric {
			st.apply(&settings, "", s.configStore.GetInt(st.key))
		} else {
			st.apply(&settings, s.configStore.GetString(st.key), 0)
		}
	}

	if _, ok := s.configStore.Get(keyEmbedModel); !ok {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[settings.Embedding.Provider]
	}
	if _, ok := s.configStore.Get(keyLLMModel); !ok {
		settings.LLM.Model = domain.DefaultLLMModels()[settings.LLM.Provider]
	}
	return settings
}

// Set validates value for key and persists it.
// The resulting settings must pass Validate, otherwise nothing is written.
func (s *SettingsService) Set(key, value string) error {
	st, ok := lookupSetting(key)
	if !ok {
		return fmt.Errorf("%w: unknown key %q (known: %s)",
			domain.ErrInvalidSetting, key, strings.Join(s.Keys(), ", "))
	}

	merged := s.merged()
	current := &merged

	var stored any = value
	if st.numeric {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer, got %q", domain.ErrInvalidSetting, key, value)
		}
		if n < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %d", domain.ErrInvalidSetting, key, n)
		}
		st.apply(current, "", n)
		stored = n
	} else {
		st.apply(current, value, 0)
	}

	if err := s.Validate(current); err != nil {
		return err
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Reset removes key so its default applies again.
func (s *SettingsService) Reset(key string) error {
	if _, ok := lookupSetting(key); !ok {
		return fmt.Errorf("%w: unknown key %q", domain.ErrInvalidSetting, key)
	}
	if err := s.configStore.Delete(key); err != nil {
		return fmt.Errorf("reset %s: %w", key, err)
	}
	return nil
}

// Keys returns every settable key in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingsTable))
	for i, st := range settingsTable {
		keys[i] = st.key
	}
	return keys
}

// Validate checks settings for internal consistency.
func (s *SettingsService) Validate(settings *domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if settings.Store.Backend == domain.StoreBackendWeaviate &&
		!slices.Contains([]string{"http", "https"}, settings.Store.WeaviateScheme) {
		return fmt.Errorf("%w: store.weaviate_scheme must be http or https, got %q",
			domain.ErrInvalidSetting, settings.Store.WeaviateScheme)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// ConfigPath returns the configuration file path.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}
