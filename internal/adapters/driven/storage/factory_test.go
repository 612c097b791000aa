package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragent/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragent/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ragent/internal/adapters/driven/storage/weaviate"
	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/logger"
)

func sqliteSettings(dir string) domain.StoreSettings {
	return domain.StoreSettings{Backend: domain.StoreBackendSQLite, Dir: dir}
}

func TestOpenForQuery_MissingSQLiteStore(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })

	dir := filepath.Join(t.TempDir(), "ragent_db")
	store, err := NewFactory(sqliteSettings(dir)).OpenForQuery(context.Background(), 4, "m")
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &memory.VectorStore{}, store)
	assert.Equal(t, 4, store.Dimensions())
	assert.Contains(t, buf.String(), "empty store created")
	assert.False(t, sqlite.Exists(dir), "query must not create the store on disk")

	got, err := store.Query(context.Background(), []float32{1, 0, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// weaviateSchemaServer answers the schema endpoints used when a store opens.
func weaviateSchemaServer(t *testing.T, class map[string]any) domain.StoreSettings {
	t.Helper()
	var mu sync.Mutex
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v1/schema/"):
			if class == nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(class)
		case r.Method == http.MethodPost && r.URL.Path == "/v1/schema":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&class))
			_ = json.NewEncoder(w).Encode(class)
		case r.URL.Path == "/v1/meta":
			_, _ = w.Write([]byte(`{"version": "1.33.0"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(ts.Close)

	return domain.StoreSettings{
		Backend:        domain.StoreBackendWeaviate,
		WeaviateHost:   ts.Listener.Addr().String(),
		WeaviateScheme: "http",
		WeaviateClass:  "RagentChunk",
	}
}

func TestOpenForQuery_MissingWeaviateClass(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })

	store, err := NewFactory(weaviateSchemaServer(t, nil)).OpenForQuery(context.Background(), 3, "m")
	require.NoError(t, err)

	assert.IsType(t, &weaviate.Store{}, store)
	assert.Contains(t, buf.String(), "empty store created")
}

func TestOpenForQuery_ExistingWeaviateClass(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })

	settings := weaviateSchemaServer(t, map[string]any{
		"class":       "RagentChunk",
		"description": "ragent chunks; dimensions=3; model=m",
		"vectorizer":  "none",
	})
	_, err := NewFactory(settings).OpenForQuery(context.Background(), 3, "m")
	require.NoError(t, err)

	assert.NotContains(t, buf.String(), "empty store created")
}

func TestOpenForIngest_ThenQuery(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "ragent_db")
	factory := NewFactory(sqliteSettings(dir))

	store, err := factory.OpenForIngest(ctx, 2, "m")
	require.NoError(t, err)
	require.NoError(t, store.Add(ctx, []domain.IndexedEntry{{Vector: []float32{1, 0}, Chunk: domain.Chunk{ID: "a"}}}))
	require.NoError(t, store.Close())

	reopened, err := factory.OpenForQuery(ctx, 2, "m")
	require.NoError(t, err)
	defer reopened.Close()

	assert.IsType(t, &sqlite.Store{}, reopened)
	count, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestOpenForQuery_ModelMismatch(t *testing.T) {
	ctx := context.Background()
	factory := NewFactory(sqliteSettings(t.TempDir()))

	store, err := factory.OpenForIngest(ctx, 2, "m1")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = factory.OpenForQuery(ctx, 2, "m2")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestOpenForIngest_Memory(t *testing.T) {
	store, err := NewFactory(domain.StoreSettings{Backend: domain.StoreBackendMemory}).
		OpenForIngest(context.Background(), 8, "m")
	require.NoError(t, err)
	assert.Equal(t, memory.Location, store.Location())
}

func TestUnknownBackend(t *testing.T) {
	factory := NewFactory(domain.StoreSettings{Backend: "faiss"})

	_, err := factory.OpenForIngest(context.Background(), 2, "m")
	assert.ErrorIs(t, err, domain.ErrUnknownProvider)

	_, err = factory.Inspect(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnknownProvider)
}

func TestInspect_SQLiteAndMemory(t *testing.T) {
	ctx := context.Background()

	status, err := NewFactory(sqliteSettings(filepath.Join(t.TempDir(), "x"))).Inspect(ctx)
	require.NoError(t, err)
	assert.False(t, status.Exists)

	status, err = NewFactory(domain.StoreSettings{Backend: domain.StoreBackendMemory}).Inspect(ctx)
	require.NoError(t, err)
	assert.Equal(t, memory.Location, status.Location)
}
