package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	TestConfig struct {
		Foo *FooTestConfig
		Bar *BarTestConfig
	}
	FooTestConfig struct {
		Hello string
		World int
	}
	BarTestConfig struct {
		First  int
		Second int
	}
	MultipleWordsConfig struct {
		FooBar     int
		CustomerId int
	}
)

func (c *BarTestConfig) ApplyDefault() {
	if c.First == 0 {
		c.First = 42
	}
}

func TestLoad(t *testing.T) {
	t.Run("it should load settings from env vars", func(t *testing.T) {
		// GIVEN
		t.Setenv("JAMOCHA_NAMESPACE", "github.com/foo/bar")
		t.Setenv("JAMOCHA_PARALLELISM", "8")
		t.Setenv("JAMOCHA_LOG_LEVEL", "debug")

		// WHEN
		settings, err := Load[Settings]()

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "github.com/foo/bar", settings.Namespace)
		assert.Equal(t, 8, settings.Parallelism)
		assert.Equal(t, "debug", settings.LogLevel)
	})

	t.Run("it should apply settings defaults", func(t *testing.T) {
		// GIVEN
		t.Setenv("JAMOCHA_PARALLELISM", "0")

		// WHEN
		settings, err := Load[Settings]()

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "", settings.Namespace)
		assert.Equal(t, 1, settings.Parallelism)
		assert.Equal(t, "info", settings.LogLevel)
	})

	t.Run("it should load basic struct with a custom prefix", func(t *testing.T) {
		// GIVEN
		t.Setenv("FOO_HELLO", "waldo")
		t.Setenv("FOO_WORLD", "23")

		// WHEN
		conf, err := Load[FooTestConfig](WithEnvPrefix("FOO"))

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "waldo", conf.Hello)
		assert.Equal(t, 23, conf.World)
	})

	t.Run("it should load nested structs from env vars", func(t *testing.T) {
		// GIVEN
		t.Setenv("TEST_FOO_HELLO", "waldo")
		t.Setenv("TEST_FOO_WORLD", "23")
		t.Setenv("TEST_BAR_FIRST", "12")
		t.Setenv("TEST_BAR_SECOND", "66")

		// WHEN
		conf, err := Load[TestConfig](WithEnvPrefix("TEST"))

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "waldo", conf.Foo.Hello)
		assert.Equal(t, 23, conf.Foo.World)
		assert.Equal(t, 12, conf.Bar.First)
		assert.Equal(t, 66, conf.Bar.Second)
	})

	t.Run("it should initialize nested structs and apply their defaults", func(t *testing.T) {
		// WHEN
		conf, err := Load[TestConfig](WithEnvPrefix("TEST"))

		// THEN
		require.NoError(t, err)
		require.NotNil(t, conf.Foo)
		assert.Equal(t, "", conf.Foo.Hello)
		assert.Equal(t, 42, conf.Bar.First)
		assert.Equal(t, 0, conf.Bar.Second)
	})

	t.Run("it should bind correctly multiple words variables", func(t *testing.T) {
		// GIVEN
		t.Setenv("TEST_FOO_BAR", "12")
		t.Setenv("TEST_CUSTOMER_ID", "66")

		// WHEN
		conf, err := Load[MultipleWordsConfig](WithEnvPrefix("TEST"))

		// THEN
		require.NoError(t, err)
		assert.Equal(t, 12, conf.FooBar)
		assert.Equal(t, 66, conf.CustomerId)
	})

	t.Run("it should read a config file, env vars taking precedence", func(t *testing.T) {
		// GIVEN
		path := filepath.Join(t.TempDir(), "jamocha.yaml")
		require.NoError(t, os.WriteFile(path, []byte("namespace: github.com/from/file\nparallelism: 3\n"), 0o600))
		t.Setenv("JAMOCHA_PARALLELISM", "5")

		// WHEN
		settings, err := Load[Settings](WithFile(path))

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "github.com/from/file", settings.Namespace)
		assert.Equal(t, 5, settings.Parallelism)
	})

	t.Run("it should fail on a missing config file", func(t *testing.T) {
		// WHEN
		_, err := Load[Settings](WithFile(filepath.Join(t.TempDir(), "missing.yaml")))

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unable to read config file")
	})

	t.Run("it should load .env files without overriding the environment", func(t *testing.T) {
		// GIVEN
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("DOTENV_NAMESPACE=github.com/from/dotenv\nDOTENV_LOG_LEVEL=warn\n"), 0o600))
		t.Setenv("DOTENV_LOG_LEVEL", "error")
		t.Cleanup(func() { _ = os.Unsetenv("DOTENV_NAMESPACE") })

		// WHEN
		settings, err := Load[Settings](WithEnvPrefix("DOTENV"), WithDotEnv(path))

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "github.com/from/dotenv", settings.Namespace)
		assert.Equal(t, "error", settings.LogLevel)
	})

	t.Run("it should fail on a missing .env file given explicitly", func(t *testing.T) {
		// WHEN
		_, err := Load[Settings](WithDotEnv(filepath.Join(t.TempDir(), "missing.env")))

		// THEN
		require.Error(t, err)
	})

	t.Run("it should refuse a non struct config", func(t *testing.T) {
		// WHEN
		_, err := Load[string]()

		// THEN
		require.Error(t, err)
	})
}

func TestSettings_Logger(t *testing.T) {
	t.Run("it should use the configured level", func(t *testing.T) {
		// GIVEN
		settings := &Settings{LogLevel: "WARN"}

		// WHEN
		logger := settings.Logger()

		// THEN
		assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
	})

	t.Run("it should fall back to info on an unknown level", func(t *testing.T) {
		// GIVEN
		settings := &Settings{LogLevel: "chatty"}

		// WHEN
		logger := settings.Logger()

		// THEN
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})
}

func Test_screamingSnake(t *testing.T) {
	testCases := map[string]string{
		"World":      "WORLD",
		"FooBar":     "FOO_BAR",
		"CustomerId": "CUSTOMER_ID",
		"log_level":  "LOG_LEVEL",
		"dry-run":    "DRY_RUN",
		"  padded ":  "PADDED",
	}
	for in, expected := range testCases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, expected, screamingSnake(in))
		})
	}
}
