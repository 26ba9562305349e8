// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Server  ServerConfig
	Catalog CatalogConfig
	Compose ComposeConfig
	LLM     LLMConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Name         string
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 60s, composition can be slow)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	// CORSOrigins are the allowed browser origins (default: http://localhost:3000).
	CORSOrigins []string
	// TranslateRPM limits translation requests per client per minute (0 disables, default: 60).
	TranslateRPM int
}

// CatalogConfig holds sign catalog configuration.
type CatalogConfig struct {
	// RegistryPath points to the catalog registry JSON produced by catalog-gen.
	RegistryPath string
	// VideoPath overrides the media root recorded in the registry (optional).
	VideoPath string
}

// ComposeConfig holds video composition configuration.
type ComposeConfig struct {
	// ScratchPath is the directory for composed artifacts (default: {tmp}/signbridge/artifacts)
	ScratchPath string
	// FFmpegPath overrides auto-detection of ffmpeg location (default: auto-detect)
	FFmpegPath string
	// Width and Height of the normalized output stream.
	Width  int
	Height int
	// FrameRate of the normalized output stream.
	FrameRate int
	// Timeout bounds a single composition run (default: 60s)
	Timeout time.Duration
	// ArtifactTTL is how long composed artifacts stay retrievable (default: 1h)
	ArtifactTTL time.Duration
}

// LLMConfig holds semantic fallback configuration.
type LLMConfig struct {
	// Enabled allows disabling the semantic fallback entirely (default: true)
	Enabled bool
	// BaseURL of an OpenAI-compatible chat completions endpoint.
	BaseURL string
	// Model name requested from the endpoint (default: gpt-4o-mini)
	Model string
	// APIKey sent as a bearer token; may be empty for local endpoints.
	APIKey string
	// Timeout bounds a single fallback call (default: 20s)
	Timeout time.Duration
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")

	serverName := flag.String("server-name", "", "Name for the server")
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	corsOrigins := flag.String("cors-origins", "", "Comma-separated allowed CORS origins")
	translateRPM := flag.String("translate-rpm", "", "Translation requests per client per minute (0 disables)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 60s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	registryPath := flag.String("registry-path", "", "Path to the catalog registry JSON")
	videoPath := flag.String("video-path", "", "Media root override for catalog entries")

	scratchPath := flag.String("scratch-path", "", "Directory for composed artifacts")
	ffmpegPath := flag.String("ffmpeg-path", "", "Path to ffmpeg binary (default: auto-detect)")
	composeTimeout := flag.String("compose-timeout", "", "Composition timeout (default: 60s)")
	artifactTTL := flag.String("artifact-ttl", "", "Composed artifact lifetime (default: 1h)")

	llmEnabled := flag.String("llm-enabled", "", "Enable semantic fallback (default: true)")
	llmBaseURL := flag.String("llm-base-url", "", "OpenAI-compatible endpoint base URL")
	llmModel := flag.String("llm-model", "", "Model for semantic fallback (default: gpt-4o-mini)")
	llmTimeout := flag.String("llm-timeout", "", "Semantic fallback timeout (default: 20s)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Name:         getConfigValue(*serverName, "SERVER_NAME", "SignBridge Server"),
			Port:         getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins:  splitList(getConfigValue(*corsOrigins, "SERVER_CORS_ORIGINS", "http://localhost:3000")),
			TranslateRPM: getIntConfigValue(*translateRPM, "SERVER_TRANSLATE_RPM", 60),
		},
		Catalog: CatalogConfig{
			RegistryPath: getConfigValue(*registryPath, "CATALOG_REGISTRY_PATH", ""),
			VideoPath:    getConfigValue(*videoPath, "CATALOG_VIDEO_PATH", ""),
		},
		Compose: ComposeConfig{
			ScratchPath: getConfigValue(*scratchPath, "COMPOSE_SCRATCH_PATH", ""),
			FFmpegPath:  getConfigValue(*ffmpegPath, "FFMPEG_PATH", ""),
			Width:       getIntConfigValue("", "COMPOSE_WIDTH", 1280),
			Height:      getIntConfigValue("", "COMPOSE_HEIGHT", 720),
			FrameRate:   getIntConfigValue("", "COMPOSE_FRAME_RATE", 30),
		},
		LLM: LLMConfig{
			Enabled: getBoolConfigValue(*llmEnabled, "LLM_ENABLED", true),
			BaseURL: getConfigValue(*llmBaseURL, "LLM_BASE_URL", "https://api.openai.com/v1"),
			Model:   getConfigValue(*llmModel, "LLM_MODEL", "gpt-4o-mini"),
			APIKey:  getConfigValue("", "LLM_API_KEY", ""),
		},
	}

	// Parse durations.
	var err error
	if cfg.Server.ReadTimeout, err = parseDuration(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = parseDuration(*writeTimeout, "SERVER_WRITE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = parseDuration(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.Compose.Timeout, err = parseDuration(*composeTimeout, "COMPOSE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.Compose.ArtifactTTL, err = parseDuration(*artifactTTL, "COMPOSE_ARTIFACT_TTL", "1h"); err != nil {
		return nil, err
	}
	if cfg.LLM.Timeout, err = parseDuration(*llmTimeout, "LLM_TIMEOUT", "20s"); err != nil {
		return nil, err
	}

	// Expand and validate paths.
	if err := cfg.expandRegistryPath(); err != nil {
		return nil, fmt.Errorf("invalid registry path: %w", err)
	}
	if err := cfg.expandVideoPath(); err != nil {
		return nil, fmt.Errorf("invalid video path: %w", err)
	}
	if err := cfg.expandScratchPath(); err != nil {
		return nil, fmt.Errorf("invalid scratch path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Catalog.RegistryPath == "" {
		return errors.New("catalog registry path cannot be empty after expansion")
	}

	if c.Compose.Width <= 0 || c.Compose.Height <= 0 {
		return fmt.Errorf("invalid compose resolution: %dx%d", c.Compose.Width, c.Compose.Height)
	}
	if c.Compose.FrameRate <= 0 {
		return fmt.Errorf("invalid compose frame rate: %d", c.Compose.FrameRate)
	}
	if c.Server.TranslateRPM < 0 {
		return fmt.Errorf("invalid translate rate limit: %d", c.Server.TranslateRPM)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandRegistryPath expands ~ and makes the path absolute.
// Defaults to {home}/SignBridge/catalog/registry.json.
func (c *Config) expandRegistryPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "SignBridge", "catalog", "registry.json")

	expanded, err := expandPath(c.Catalog.RegistryPath, defaultPath)
	if err != nil {
		return err
	}
	c.Catalog.RegistryPath = expanded
	return nil
}

// expandVideoPath expands ~ and makes the path absolute.
// If empty, leaves it empty so the registry's own media root is used.
func (c *Config) expandVideoPath() error {
	if c.Catalog.VideoPath == "" {
		return nil
	}

	expanded, err := expandPath(c.Catalog.VideoPath, "")
	if err != nil {
		return err
	}
	c.Catalog.VideoPath = expanded
	return nil
}

// expandScratchPath expands ~ and makes the path absolute.
// Defaults to {tmp}/signbridge/artifacts.
func (c *Config) expandScratchPath() error {
	defaultPath := filepath.Join(os.TempDir(), "signbridge", "artifacts")

	expanded, err := expandPath(c.Compose.ScratchPath, defaultPath)
	if err != nil {
		return err
	}
	c.Compose.ScratchPath = expanded
	return nil
}

// parseDuration resolves a duration from flag, env var, or default.
func parseDuration(flagValue, envKey, defaultValue string) (time.Duration, error) {
	raw := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(envKey), raw, err)
	}
	return d, nil
}

// splitList splits a comma-separated value into trimmed, non-empty parts.
func splitList(raw string) []string {
	var parts []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
