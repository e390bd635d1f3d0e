package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".vfw", "config.toml"), store.Path())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("api.base_url", "http://localhost:5000"))
	require.NoError(t, store.Set("api.timeout_seconds", int64(90)))
	require.NoError(t, store.Set("ui.dark_mode", true))

	assert.Equal(t, "http://localhost:5000", store.GetString("api.base_url"))
	assert.Equal(t, 90, store.GetInt("api.timeout_seconds"))
	assert.True(t, store.GetBool("ui.dark_mode"))

	assert.Empty(t, store.GetString("ui.dark_mode"))
	assert.Zero(t, store.GetInt("api.base_url"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("auth.token", "jwt"))
	require.NoError(t, store.Set("auth.user_id", "42"))
	require.NoError(t, store.Set("ipc.current_session_id", "session_1_abc"))
	require.NoError(t, store.Set("api.timeout_seconds", 60))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "jwt", reopened.GetString("auth.token"))
	assert.Equal(t, "42", reopened.GetString("auth.user_id"))
	assert.Equal(t, "session_1_abc", reopened.GetString("ipc.current_session_id"))
	assert.Equal(t, 60, reopened.GetInt("api.timeout_seconds"))
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("auth.token", "jwt"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	assert.Contains(t, string(data), "[auth]")
	assert.Regexp(t, `token = ['"]jwt['"]`, string(data))
}

func TestConfigStore_Delete(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("auth.token", "jwt"))
	require.NoError(t, store.Set("api.base_url", "http://x"))

	require.NoError(t, store.Delete("auth.token"))
	require.NoError(t, store.Delete("auth.token"))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	_, ok := reopened.Get("auth.token")
	assert.False(t, ok)
	assert.Equal(t, "http://x", reopened.GetString("api.base_url"))
}

func TestConfigStore_DeletePrefix(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("auth.token", "jwt"))
	require.NoError(t, store.Set("auth.name", "Asha"))
	require.NoError(t, store.Set("api.base_url", "http://x"))

	require.NoError(t, store.DeletePrefix("auth."))
	require.NoError(t, store.DeletePrefix("auth."))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Empty(t, reopened.GetString("auth.token"))
	assert.Empty(t, reopened.GetString("auth.name"))
	assert.Equal(t, "http://x", reopened.GetString("api.base_url"))

	data, err := os.ReadFile(filepath.Join(tmpDir, ConfigFileName))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "[auth]")
}

func TestConfigStore_SetMany(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.SetMany(map[string]any{
		"auth.token": "jwt",
		"auth.email": "asha@example.org",
	}))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "jwt", reopened.GetString("auth.token"))
	assert.Equal(t, "asha@example.org", reopened.GetString("auth.email"))
}

func TestConfigStore_SetMany_RollsBack(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("api.base_url", "http://old"))
	require.NoError(t, store.Set("user", "flat"))

	err = store.SetMany(map[string]any{
		"api.base_url": "http://new",
		"user.id":      "42",
	})

	assert.Error(t, err)
	assert.Equal(t, "http://old", store.GetString("api.base_url"))
	_, ok := store.Get("user.id")
	assert.False(t, ok)

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "http://old", reopened.GetString("api.base_url"))
}

func TestConfigStore_ConflictingKeys(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("auth", "flat"))

	err = store.Set("auth.token", "jwt")

	assert.Error(t, err)
	_, ok := store.Get("auth.token")
	assert.False(t, ok)
	assert.NoError(t, store.Set("other", "still writable"))
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Load())
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), nil, 0600))

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NoError(t, store.Set("k", "v"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save())

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("counter.value", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("counter.value")
		}()
	}
	wg.Wait()

	_, ok := store.Get("counter.value")
	assert.True(t, ok)
}

func TestFlattenUnflatten(t *testing.T) {
	flat := map[string]any{"a.b": 1, "a.c.d": "x", "e": true}

	tree, err := unflattenMap(flat)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": map[string]any{"b": 1, "c": map[string]any{"d": "x"}},
		"e": true,
	}, tree)
	assert.Equal(t, flat, flattenMap(tree, ""))
}
