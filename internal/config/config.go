package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DatasetConfig locates and describes the catalog CSV file.
type DatasetConfig struct {
	Path      string `yaml:"path"`
	Separator string `yaml:"separator"`
}

// RetrievalConfig tunes candidate selection against the catalog index.
type RetrievalConfig struct {
	TopK      int     `yaml:"top_k"`
	Threshold float64 `yaml:"threshold"`
}

// GeminiConfig configures the generative-language completion client.
// The API key itself is never stored here; APIKeyEnv names the
// environment variable that holds it.
type GeminiConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// MemoryConfig bounds how much conversation history enters the prompt.
type MemoryConfig struct {
	Window int `yaml:"window"`
}

// ServerConfig configures the HTTP chat API binary.
type ServerConfig struct {
	Addr               string `yaml:"addr"`
	MetricsNamespace   string `yaml:"metrics_namespace"`
	SessionTimeoutSecs int    `yaml:"session_timeout_secs"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Dataset   DatasetConfig   `yaml:"dataset"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Memory    MemoryConfig    `yaml:"memory"`
	Server    ServerConfig    `yaml:"server"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/plesir/config.yaml.
// If neither exists, it writes defaults to ~/.config/plesir/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "plesir", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Dataset.Path == "" {
		cfg.Dataset.Path = "data/datasetpariwisata_jawa_makanan.csv"
	}
	if cfg.Dataset.Separator == "" {
		cfg.Dataset.Separator = ";"
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
	if cfg.Retrieval.Threshold == 0 {
		cfg.Retrieval.Threshold = 0.15
	}
	if cfg.Gemini.BaseURL == "" {
		cfg.Gemini.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Gemini.APIKeyEnv == "" {
		cfg.Gemini.APIKeyEnv = "GEMINI_API_KEY"
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-1.5-flash"
	}
	if cfg.Gemini.TimeoutSecs == 0 {
		cfg.Gemini.TimeoutSecs = 30
	}
	if cfg.Memory.Window == 0 {
		cfg.Memory.Window = 6
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.MetricsNamespace == "" {
		cfg.Server.MetricsNamespace = "plesir"
	}
	if cfg.Server.SessionTimeoutSecs == 0 {
		cfg.Server.SessionTimeoutSecs = 1800
	}
}
