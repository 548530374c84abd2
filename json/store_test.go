package json_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fwojciec/campus"
	campusjson "github.com/fwojciec/campus/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()
	s := campusjson.NewStore(filepath.Join(t.TempDir(), "store.json"))

	v, ok, err := s.Get(campus.KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestStore_SetGetDelete(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "store.json")
	s := campusjson.NewStore(path)

	require.NoError(t, s.Set(campus.KeyToken, "jwt"))
	require.NoError(t, s.Set(campus.KeyUsername, "ada"))

	v, ok, err := s.Get(campus.KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "jwt", v)

	require.NoError(t, s.Delete(campus.KeyToken))
	require.NoError(t, s.Delete("never-set"))
	_, ok, err = s.Get(campus.KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	// A fresh store sees what the first one wrote.
	other := campusjson.NewStore(path)
	v, ok, err = other.Get(campus.KeyUsername)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ada", v)
}

func TestStore_Clear(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "store.json")
	s := campusjson.NewStore(path)
	require.NoError(t, s.Set("a", "1"))
	require.NoError(t, s.Set("b", "2"))

	require.NoError(t, s.Clear())

	values, err := campusjson.Load(path)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestStore_FileFormat(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "dir", "store.json")
	s := campusjson.NewStore(path)
	require.NoError(t, s.Set(campus.KeyToken, "jwt"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, float64(1), raw["version"])
	assert.Equal(t, map[string]any{"token": "jwt"}, raw["values"])

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must not be left behind")
}

func TestStore_CorruptFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, _, err := campusjson.NewStore(path).Get(campus.KeyToken)
	assert.Error(t, err)
}

func TestStore_UnsupportedVersion(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":2,"values":{}}`), 0o600))

	_, _, err := campusjson.NewStore(path).Get(campus.KeyToken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported envelope version: 2")
}

func TestStore_FailedWriteKeepsState(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")
	s := campusjson.NewStore(path)
	require.NoError(t, s.Set("a", "1"))

	// A directory where the temp file should go makes the write fail.
	require.NoError(t, os.Mkdir(path+".tmp", 0o700))
	require.Error(t, s.Set("a", "2"))

	v, _, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestStore_ConcurrentWriters(t *testing.T) {
	t.Parallel()
	s := campusjson.NewStore(filepath.Join(t.TempDir(), "store.json"))

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Set(string(rune('a'+i)), "v"))
		}()
	}
	wg.Wait()

	for i := range 10 {
		_, ok, err := s.Get(string(rune('a' + i)))
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestMarshal_NilValues(t *testing.T) {
	t.Parallel()
	data, err := campusjson.Marshal(nil)
	require.NoError(t, err)
	values, err := campusjson.Unmarshal(data)
	require.NoError(t, err)
	assert.Empty(t, values)
}
