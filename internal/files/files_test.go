package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserSpecificDirs(t *testing.T) {
	base := t.TempDir()

	t.Setenv(EnvVarXDGConfigHome, base)
	t.Setenv(EnvVarXDGCacheHome, filepath.Join(base, "cache"))

	dir, err := UserSpecificConfigDir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(base, AppDirName()), dir)

	dir, err = UserSpecificCacheDir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(base, "cache", AppDirName()), dir)
}

func TestUserSpecificDirs_RelativeEnvVar(t *testing.T) {
	t.Setenv(EnvVarXDGCacheHome, "relative/path")

	_, err := UserSpecificCacheDir()
	require.Error(t, err)
	require.Contains(t, err.Error(), "must be an absolute path")
}

func TestUserSpecificDir_InvalidEnvVar(t *testing.T) {
	t.Parallel()

	_, err := userSpecificDir("HOME", ".cache")
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not follow XDG Base Directory Specification")
}

func TestIsPermissionAcceptable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		actual   os.FileMode
		expected bool
	}{
		{name: "exact match", actual: 0o755, expected: true},
		{name: "more restrictive", actual: 0o700, expected: true},
		{name: "group writable", actual: 0o775, expected: false},
		{name: "world writable", actual: 0o777, expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.expected, isPermissionAcceptable(tc.actual, RegularDir))
		})
	}
}

func TestEnsureAtLeastRegularDir(t *testing.T) {
	t.Parallel()

	base := t.TempDir()

	t.Run("creates nested directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(base, "a", "b", "c")
		require.NoError(t, EnsureAtLeastRegularDir(path))

		info, err := os.Stat(path)
		require.NoError(t, err)
		require.True(t, info.IsDir())
	})

	t.Run("rejects files", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(base, "file")
		require.NoError(t, os.WriteFile(path, []byte("x"), RegularFile))

		err := EnsureAtLeastRegularDir(path)
		require.Error(t, err)
	})

	t.Run("rejects symlinks", func(t *testing.T) {
		t.Parallel()

		target := filepath.Join(base, "target")
		require.NoError(t, os.Mkdir(target, RegularDir))
		link := filepath.Join(base, "link")
		require.NoError(t, os.Symlink(target, link))

		err := EnsureAtLeastRegularDir(link)
		require.Error(t, err)
		require.Contains(t, err.Error(), "symlink")
	})

	t.Run("rejects permissive directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(base, "open")
		require.NoError(t, os.Mkdir(path, RegularDir))
		require.NoError(t, os.Chmod(path, 0o777))

		err := EnsureAtLeastRegularDir(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "incorrect permissions")
	})
}
