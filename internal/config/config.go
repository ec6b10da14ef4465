package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config はアプリケーション全体の設定を保持する。
// 起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Server
	ServerPort      string        `toml:"server_port"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`

	// CORS
	CORSAllowedOrigin string `toml:"cors_allowed_origin"`

	// Todo
	TodoQuota int `toml:"todo_quota"`

	// Logging
	LogLevel string `toml:"log_level"`

	// Metrics
	MetricsEnabled bool `toml:"metrics_enabled"`
}

// Default はデフォルト値で埋めたConfigを返す。
func Default() *Config {
	return &Config{
		ServerPort:        "8080",
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		ShutdownTimeout:   30 * time.Second,
		CORSAllowedOrigin: "*",
		TodoQuota:         10,
		LogLevel:          "info",
		MetricsEnabled:    true,
	}
}

// Load は設定を以下の優先順位で読み込む。
//  1. デフォルト値
//  2. CONFIG_FILEで指定したTOMLファイル
//  3. 環境変数
//
// CONFIG_FILEが指定されているのに読み込めない場合はエラーを返す。
// 環境変数の値が解釈できない場合はそれまでの値を維持する。
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	cfg.ServerPort = getEnvString("SERVER_PORT", cfg.ServerPort)
	cfg.ReadTimeout = getEnvDuration("READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = getEnvDuration("WRITE_TIMEOUT", cfg.WriteTimeout)
	cfg.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", cfg.CORSAllowedOrigin)
	cfg.TodoQuota = getEnvInt("TODO_QUOTA", cfg.TodoQuota)
	cfg.LogLevel = getEnvString("LOG_LEVEL", cfg.LogLevel)
	cfg.MetricsEnabled = getEnvBool("METRICS_ENABLED", cfg.MetricsEnabled)

	if cfg.TodoQuota <= 0 {
		return nil, fmt.Errorf("todo quota must be positive, got %d", cfg.TodoQuota)
	}

	return cfg, nil
}

// loadFile はTOMLファイルの値でcfgを上書きする。
// ファイルに記載のないキーは既存の値を維持する。
func loadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys in config file %s: %v", path, undecoded)
	}
	return nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
