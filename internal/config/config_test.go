package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Environment: "development",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Catalog: CatalogConfig{
			RegistryPath: "/some/path/registry.json",
		},
		Compose: ComposeConfig{
			Width:     1280,
			Height:    720,
			FrameRate: 30,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"WARN", true}, // case insensitive
		{"verbose", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_RequiresRegistryPath(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.RegistryPath = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsNegativeRateLimit(t *testing.T) {
	cfg := validConfig()
	cfg.Server.TranslateRPM = -1
	assert.Error(t, cfg.Validate())
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"http://localhost:3000"}, splitList("http://localhost:3000"))
	assert.Equal(t,
		[]string{"https://a.example", "https://b.example"},
		splitList(" https://a.example , https://b.example ,"),
	)
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList(" , "))
}

func TestValidate_RejectsBadComposeParams(t *testing.T) {
	cfg := validConfig()
	cfg.Compose.Width = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Compose.FrameRate = -1
	assert.Error(t, cfg.Validate())
}

func TestExpandPath_Tilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := expandPath("~/signs/registry.json", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "signs", "registry.json"), expanded)
}

func TestExpandPath_EmptyUsesDefault(t *testing.T) {
	expanded, err := expandPath("", "/default/path")
	require.NoError(t, err)
	assert.Equal(t, "/default/path", expanded)
}

func TestExpandScratchPath_Default(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.expandScratchPath())
	assert.Equal(t, filepath.Join(os.TempDir(), "signbridge", "artifacts"), cfg.Compose.ScratchPath)
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("SIGNBRIDGE_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "SIGNBRIDGE_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "SIGNBRIDGE_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "SIGNBRIDGE_TEST_MISSING", "default"))
}

func TestGetBoolConfigValue(t *testing.T) {
	t.Setenv("SIGNBRIDGE_TEST_BOOL", "yes")
	assert.True(t, getBoolConfigValue("", "SIGNBRIDGE_TEST_BOOL", false))

	t.Setenv("SIGNBRIDGE_TEST_BOOL", "nope")
	assert.False(t, getBoolConfigValue("", "SIGNBRIDGE_TEST_BOOL", true))

	assert.True(t, getBoolConfigValue("", "SIGNBRIDGE_TEST_BOOL_MISSING", true))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")

	content := "# comment\nSIGNBRIDGE_ENVFILE_KEY=hello\nQUOTED=\"world\"\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Cleanup(func() {
		_ = os.Unsetenv("SIGNBRIDGE_ENVFILE_KEY")
		_ = os.Unsetenv("QUOTED")
	})

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "hello", os.Getenv("SIGNBRIDGE_ENVFILE_KEY"))
	assert.Equal(t, "world", os.Getenv("QUOTED"))
}
