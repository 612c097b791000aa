package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragent/internal/core/domain"
)

func clearKeys(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"RAGENT_HOME", "RAGENT_VERBOSE", "GROQ_API_KEY", "OPENAI_API_KEY",
		"ANTHROPIC_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY", "WEAVIATE_API_KEY",
	} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearKeys(t)

	e, err := Load(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, ".ragent", e.Home)
	assert.False(t, e.Verbose)
	assert.Empty(t, e.GroqAPIKey)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearKeys(t)
	t.Setenv("GROQ_API_KEY", "gsk_from_shell")
	t.Setenv("RAGENT_HOME", "/tmp/ragent-home")

	e, err := Load(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "gsk_from_shell", e.GroqAPIKey)
	assert.Equal(t, "/tmp/ragent-home", e.Home)
}

func TestLoad_FromDotEnv(t *testing.T) {
	clearKeys(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("OPENAI_API_KEY=sk-test\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("OPENAI_API_KEY") })

	e, err := Load(envFile)

	require.NoError(t, err)
	assert.Equal(t, "sk-test", e.OpenAIAPIKey)
}

func TestLoad_InvalidBool(t *testing.T) {
	clearKeys(t)
	t.Setenv("RAGENT_VERBOSE", "perhaps")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestEnv_APIKey(t *testing.T) {
	e := &Env{GroqAPIKey: "g", OpenAIAPIKey: "o", AnthropicAPIKey: "a", GoogleAPIKey: "AIza-google"}

	assert.Equal(t, "g", e.APIKey(domain.AIProviderGroq))
	assert.Equal(t, "o", e.APIKey(domain.AIProviderOpenAI))
	assert.Equal(t, "a", e.APIKey(domain.AIProviderAnthropic))
	assert.Equal(t, "AIza-google", e.APIKey(domain.AIProviderGemini))
	assert.Empty(t, e.APIKey(domain.AIProviderOllama))

	e.GeminiAPIKey = "AIza-gemini"
	assert.Equal(t, "AIza-gemini", e.APIKey(domain.AIProviderGemini))
}

func TestEnv_Apply(t *testing.T) {
	s := domain.DefaultSettings()
	s.Embedding.Provider = domain.AIProviderOpenAI
	e := &Env{GroqAPIKey: "gsk_1", OpenAIAPIKey: "sk-2", WeaviateAPIKey: "w"}

	e.Apply(&s)

	assert.Equal(t, "gsk_1", s.LLM.APIKey)
	assert.Equal(t, "sk-2", s.Embedding.APIKey)
	assert.Equal(t, "w", s.Store.WeaviateAPIKey)
}

func TestSaveKey(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("OTHER=keep\n"), 0644))

	require.NoError(t, SaveKey(envFile, domain.AIProviderGroq, "gsk_saved"))

	values, err := godotenv.Read(envFile)
	require.NoError(t, err)
	assert.Equal(t, "gsk_saved", values["GROQ_API_KEY"])
	assert.Equal(t, "keep", values["OTHER"])

	info, err := os.Stat(envFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSaveKey_NewFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")

	require.NoError(t, SaveKey(envFile, domain.AIProviderGemini, "AIza123"))

	values, err := godotenv.Read(envFile)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"GEMINI_API_KEY": "AIza123"}, values)
}

func TestSaveKey_ProviderWithoutKey(t *testing.T) {
	err := SaveKey(filepath.Join(t.TempDir(), ".env"), domain.AIProviderOllama, "x")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
