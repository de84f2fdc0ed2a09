package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConfig(t *testing.T, opts Options) *BasicConfig {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.EnvFile == "" {
		opts.EnvFile = filepath.Join(t.TempDir(), ".env")
	}
	cfg, err := New(opts)
	require.NoError(t, err)
	return cfg
}

func TestNew(t *testing.T) {
	t.Run("DefaultsApply", func(t *testing.T) {
		cfg := newTestConfig(t, Options{
			Defaults: map[string]string{"GBU_TEST_MISSING": "fallback"},
		})
		assert.Equal(t, "fallback", cfg.Get("GBU_TEST_MISSING", ""))
	})

	t.Run("EnvironmentWins", func(t *testing.T) {
		t.Setenv("GBU_TEST_PRESENT", "from-env")
		cfg := newTestConfig(t, Options{
			Defaults: map[string]string{"GBU_TEST_PRESENT": "fallback"},
		})
		assert.Equal(t, "from-env", cfg.Get("GBU_TEST_PRESENT", ""))
	})

	t.Run("RequiredMissing", func(t *testing.T) {
		_, err := New(Options{
			Required: []string{"GBU_TEST_REQUIRED_ABSENT"},
			EnvFile:  filepath.Join(t.TempDir(), ".env"),
			Logger:   zap.NewNop(),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GBU_TEST_REQUIRED_ABSENT")
	})

	t.Run("RequiredPresent", func(t *testing.T) {
		t.Setenv("GBU_TEST_REQUIRED", "value")
		cfg := newTestConfig(t, Options{Required: []string{"GBU_TEST_REQUIRED"}})
		assert.Equal(t, "value", cfg.Get("GBU_TEST_REQUIRED", ""))
	})

	t.Run("EnvFileLoaded", func(t *testing.T) {
		envFile := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(envFile, []byte("GBU_TEST_DOTENV=from-file\n"), 0644))
		t.Cleanup(func() { os.Unsetenv("GBU_TEST_DOTENV") })

		cfg := newTestConfig(t, Options{
			Defaults: map[string]string{"GBU_TEST_DOTENV": "fallback"},
			EnvFile:  envFile,
		})
		assert.Equal(t, "from-file", cfg.Get("GBU_TEST_DOTENV", ""))
	})

	t.Run("DirectoryCreated", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "managed", "data")
		t.Setenv("GBU_TEST_DATA_DIR", dir)

		newTestConfig(t, Options{
			Defaults:      map[string]string{"GBU_TEST_DATA_DIR": ""},
			DirectoryKeys: []string{"GBU_TEST_DATA_DIR"},
		})

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("UnsetDirectoryKeyIgnored", func(t *testing.T) {
		newTestConfig(t, Options{DirectoryKeys: []string{"GBU_TEST_DIR_UNSET"}})
	})
}

func TestBasicConfig_Get(t *testing.T) {
	t.Run("FreshEnvironmentReadIsCached", func(t *testing.T) {
		cfg := newTestConfig(t, Options{})

		t.Setenv("GBU_TEST_LATE", "late-value")
		assert.Equal(t, "late-value", cfg.Get("GBU_TEST_LATE", ""))

		// cached now, a changed environment no longer matters
		os.Unsetenv("GBU_TEST_LATE")
		assert.Equal(t, "late-value", cfg.Get("GBU_TEST_LATE", ""))
	})

	t.Run("Fallback", func(t *testing.T) {
		cfg := newTestConfig(t, Options{})
		assert.Equal(t, "fb", cfg.Get("GBU_TEST_NOT_THERE", "fb"))
	})
}

func TestBasicConfig_TypedGetters(t *testing.T) {
	t.Setenv("GBU_TEST_INT", "42")
	t.Setenv("GBU_TEST_BAD_INT", "not-a-number")
	t.Setenv("GBU_TEST_FLOAT", "2.5")
	t.Setenv("GBU_TEST_BOOL", "true")
	t.Setenv("GBU_TEST_DURATION", "90s")

	cfg := newTestConfig(t, Options{})

	assert.Equal(t, 42, cfg.GetInt("GBU_TEST_INT", 0))
	assert.Equal(t, 7, cfg.GetInt("GBU_TEST_BAD_INT", 7))
	assert.Equal(t, 7, cfg.GetInt("GBU_TEST_INT_MISSING", 7))
	assert.Equal(t, 2.5, cfg.GetFloat("GBU_TEST_FLOAT", 0))
	assert.True(t, cfg.GetBool("GBU_TEST_BOOL", false))
	assert.Equal(t, 90*time.Second, cfg.GetDuration("GBU_TEST_DURATION", 0))
	assert.Equal(t, time.Minute, cfg.GetDuration("GBU_TEST_DURATION_MISSING", time.Minute))
}

func TestBasicConfig_LoadFile(t *testing.T) {
	t.Setenv("GBU_TEST_OVERLAY_ENV", "env-value")

	cfg := newTestConfig(t, Options{
		Defaults: map[string]string{"GBU_TEST_OVERLAY_DEFAULT": "default-value"},
	})

	overlay := filepath.Join(t.TempDir(), "config.yaml")
	content := "GBU_TEST_OVERLAY_DEFAULT: file-value\n" +
		"GBU_TEST_OVERLAY_ENV: file-value\n" +
		"GBU_TEST_OVERLAY_NEW: file-value\n"
	require.NoError(t, os.WriteFile(overlay, []byte(content), 0644))

	require.NoError(t, cfg.LoadFile(overlay))

	// resolved keys keep precedence, only unset keys are filled
	assert.Equal(t, "default-value", cfg.Get("GBU_TEST_OVERLAY_DEFAULT", ""))
	assert.Equal(t, "env-value", cfg.Get("GBU_TEST_OVERLAY_ENV", ""))
	assert.Equal(t, "file-value", cfg.Get("GBU_TEST_OVERLAY_NEW", ""))

	t.Run("MissingFile", func(t *testing.T) {
		assert.Error(t, cfg.LoadFile(filepath.Join(t.TempDir(), "absent.yaml")))
	})
}
