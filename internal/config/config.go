// Package config は環境変数と任意の設定ファイルからデプロイヤーの設定を読み込む。
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/douhashi/xdeploy/internal/logger"
	"github.com/spf13/viper"
)

// EnvPrefix はLoadが読む環境変数の接頭辞
const EnvPrefix = "XDEPLOY"

// ConfigFileEnv は設定ファイルのパスを指定する環境変数
const ConfigFileEnv = EnvPrefix + "_CONFIG"

const (
	defaultDirPrefix = "xdeploy-"
	defaultLogLevel  = "warn"
	defaultLogFormat = "text"
)

// Config はデプロイヤーの設定
type Config struct {
	// セッションディレクトリを作成する場所（空ならos.TempDir()）
	TempRoot string `mapstructure:"temp_root"`

	// セッションディレクトリ名の接頭辞
	DirPrefix string `mapstructure:"dir_prefix"`

	// trueならClose後もディレクトリを残す（失敗したテストの調査用）
	Keep bool `mapstructure:"keep"`

	Log LogConfig `mapstructure:"log"`
}

// LogConfig はログ関連の設定
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// NewConfig はデフォルト値を持つConfigを作成する
func NewConfig() *Config {
	return &Config{
		DirPrefix: defaultDirPrefix,
		Log: LogConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// Load はXDEPLOY_*環境変数と設定ファイル（configPathが空でなければ）から設定を読み込む
// 環境変数が設定ファイルより優先される
func (c *Config) Load(configPath string) error {
	v := viper.New()

	// 環境変数の設定
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// デフォルト値の設定（Unmarshalで環境変数を拾うために全キーを登録する）
	v.SetDefault("temp_root", c.TempRoot)
	v.SetDefault("dir_prefix", c.DirPrefix)
	v.SetDefault("keep", c.Keep)
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.format", c.Log.Format)

	// 設定ファイルを読み込む
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	// 設定を構造体にマッピング
	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}

	return nil
}

// LoadOrDefault は設定ファイルを読み込み、失敗した場合は環境変数とデフォルト値だけを使う
func (c *Config) LoadOrDefault(configPath string) {
	// ファイルが存在しない場合はデフォルト値を使用
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			configPath = ""
		}
	}

	if err := c.Load(configPath); err != nil && configPath != "" {
		_ = c.Load("")
	}
}

// FromEnv はデフォルト値、XDEPLOY_CONFIGの設定ファイル、XDEPLOY_*環境変数から
// 検証済みのConfigを作る。overridesは読み込み後、検証前に適用される
func FromEnv(overrides ...func(*Config)) (*Config, error) {
	cfg := NewConfig()
	if err := cfg.Load(os.Getenv(ConfigFileEnv)); err != nil {
		return nil, err
	}
	for _, override := range overrides {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は設定の妥当性を検証し、空の値をデフォルト値で埋める
func (c *Config) Validate() error {
	if c.DirPrefix == "" {
		c.DirPrefix = defaultDirPrefix
	}
	if strings.ContainsAny(c.DirPrefix, `/\`) || strings.ContainsRune(c.DirPrefix, os.PathSeparator) {
		return fmt.Errorf("dir prefix %q must not contain path separators", c.DirPrefix)
	}
	if strings.Trim(c.DirPrefix, ".") == "" {
		return errors.New("dir prefix must not be made only of dots")
	}

	// ログ設定が空の場合はデフォルト値を設定
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	if c.Log.Format == "" {
		c.Log.Format = defaultLogFormat
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}

	return nil
}
