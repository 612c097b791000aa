package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("chunking.size", 800))
	require.NoError(t, store.Set("llm.provider", "groq"))
	require.NoError(t, store.Set("llm.temperature", 0.5))
	require.NoError(t, store.Set("debug", true))

	assert.Equal(t, 800, store.GetInt("chunking.size"))
	assert.Equal(t, "groq", store.GetString("llm.provider"))
	assert.InDelta(t, 0.5, store.GetFloat("llm.temperature"), 1e-9)
	assert.True(t, store.GetBool("debug"))

	val, ok := store.Get("chunking.size")
	assert.True(t, ok)
	assert.Equal(t, 800, val)
}

func TestConfigStore_MissingAndWrongType(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("name", 42))
	require.NoError(t, store.Set("count", "many"))

	_, ok := store.Get("absent")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("name"))
	assert.Zero(t, store.GetInt("count"))
	assert.Zero(t, store.GetFloat("count"))
	assert.False(t, store.GetBool("name"))
}

func TestConfigStore_NumericConversions(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("i64", int64(7)))
	require.NoError(t, store.Set("f64", 9.9))
	require.NoError(t, store.Set("int", 3))

	assert.Equal(t, 7, store.GetInt("i64"))
	assert.Equal(t, 9, store.GetInt("f64"))
	assert.InDelta(t, 7.0, store.GetFloat("i64"), 1e-9)
	assert.InDelta(t, 3.0, store.GetFloat("int"), 1e-9)
}

func TestConfigStore_DeleteAndKeys(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("b", 1))
	require.NoError(t, store.Set("a", 2))
	require.NoError(t, store.Set("c", 3))

	assert.Equal(t, []string{"a", "b", "c"}, store.Keys())

	require.NoError(t, store.Delete("b"))
	require.NoError(t, store.Delete("never-set"))
	assert.Equal(t, []string{"a", "c"}, store.Keys())
	_, ok := store.Get("b")
	assert.False(t, ok)
}

func TestConfigStore_SaveLoadPath(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("k", "v"))

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, "v", store.GetString("k"))
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("counter", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("counter")
			_ = store.Keys()
		}()
	}
	wg.Wait()

	_, ok := store.Get("counter")
	assert.True(t, ok)
}
