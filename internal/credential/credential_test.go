package credential

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEnv returns a Getenv func backed by a map.
func fakeEnv(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestResolve_PrecedenceAllCombinations(t *testing.T) {
	// Source index 0 is highest precedence. For every non-empty subset of
	// the five sources the winner must be the lowest present index.
	values := []string{"explicit-key", "metadata-key", "session-key", "env-key", "file-key"}

	for mask := 1; mask < 1<<5; mask++ {
		s := Sources{}
		env := map[string]string{}
		if mask&(1<<0) != 0 {
			s.Explicit = values[0]
		}
		if mask&(1<<1) != 0 {
			s.Metadata = values[1]
		}
		if mask&(1<<2) != 0 {
			s.Session = values[2]
		}
		if mask&(1<<3) != 0 {
			env[EnvAPIKey] = values[3]
		}
		if mask&(1<<4) != 0 {
			env[EnvAPIKeyFile] = "/fake/key"
		}
		s.Getenv = fakeEnv(env)
		s.ReadFile = func(string) ([]byte, error) { return []byte(values[4] + "\n"), nil }

		want := ""
		for i := 0; i < 5; i++ {
			if mask&(1<<i) != 0 {
				want = values[i]
				break
			}
		}

		got, err := Resolve(s)
		require.NoError(t, err, "mask %05b", mask)
		assert.Equal(t, want, got, "mask %05b", mask)
	}
}

func TestResolve_NoSources(t *testing.T) {
	got, err := Resolve(Sources{Getenv: fakeEnv(nil)})
	assert.Empty(t, got)

	require.Error(t, err)
	assert.True(t, IsMissing(err), "zero sources must yield MissingError, got %v", err)

	// The message must name every remediation path.
	for _, want := range []string{"api_key", "X-API-Key", EnvAPIKey, EnvAPIKeyFile} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestResolve_KeyFileTrimmed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(path, []byte("  the-key\n\n"), 0o600))

	got, err := Resolve(Sources{Getenv: fakeEnv(map[string]string{EnvAPIKeyFile: path})})
	require.NoError(t, err)
	assert.Equal(t, "the-key", got)
}

func TestResolve_KeyFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

	_, err := Resolve(Sources{Getenv: fakeEnv(map[string]string{EnvAPIKeyFile: path})})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
	assert.False(t, IsMissing(err), "a configured but empty file is not a missing credential")
}

func TestResolve_KeyFileNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope")

	_, err := Resolve(Sources{Getenv: fakeEnv(map[string]string{EnvAPIKeyFile: path})})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
	assert.Contains(t, err.Error(), EnvAPIKeyFile)
}

func TestResolve_KeyFilePermissionDenied(t *testing.T) {
	s := Sources{
		Getenv:   fakeEnv(map[string]string{EnvAPIKeyFile: "/locked/key"}),
		ReadFile: func(string) ([]byte, error) { return nil, fs.ErrPermission },
	}

	_, err := Resolve(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestResolve_KeyFileOtherIOError(t *testing.T) {
	ioErr := errors.New("device not ready")
	s := Sources{
		Getenv:   fakeEnv(map[string]string{EnvAPIKeyFile: "/flaky/key"}),
		ReadFile: func(string) ([]byte, error) { return nil, ioErr },
	}

	_, err := Resolve(s)
	require.Error(t, err)
	assert.ErrorIs(t, err, ioErr)
}
