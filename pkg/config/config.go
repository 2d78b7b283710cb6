/*
Package config manages the TOML config for wordcheck.

	[speller]
	max_results = 5
	max_edit_distance = 2
	min_wide_length = 4
	preserve_case = false
	cache_size = 4096

	[dict]
	path = ""
	format = "auto"
	resource = "collins"
	use_mmap = true

	[exceptions]
	user_dict = ""
	redis_addr = ""

	[server]
	max_blocks = 256
	max_block_len = 100000
	workers = 4

	[metrics]
	addr = ""

	[log]
	level = "warn"
*/
package config

import (
	"path/filepath"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/bastiangx/wordcheck/pkg/errs"
	"github.com/bastiangx/wordcheck/pkg/exceptions"
	"github.com/bastiangx/wordcheck/pkg/server"
	"github.com/bastiangx/wordcheck/pkg/suggest"
	"github.com/charmbracelet/log"
)

const FileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Speller    SpellerConfig    `toml:"speller"`
	Dict       DictConfig       `toml:"dict"`
	Exceptions ExceptionsConfig `toml:"exceptions"`
	Server     ServerConfig     `toml:"server"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Log        LogConfig        `toml:"log"`
}

// SpellerConfig tunes suggestion search.
type SpellerConfig struct {
	MaxResults      int  `toml:"max_results"`
	MaxEditDistance int  `toml:"max_edit_distance"`
	MinWideLength   int  `toml:"min_wide_length"`
	PreserveCase    bool `toml:"preserve_case"`
	CacheSize       int  `toml:"cache_size"`
}

// DictConfig locates the dictionary. An empty Path looks Resource up in the data dirs
// under each known extension. Format is one of auto, text, binary, msgpack.
type DictConfig struct {
	Path     string `toml:"path"`
	Format   string `toml:"format"`
	Resource string `toml:"resource"`
	UseMmap  bool   `toml:"use_mmap"`
}

// ExceptionsConfig selects where session exceptions persist. Redis wins over user_dict
// when both are set; with neither they last for the process only.
type ExceptionsConfig struct {
	UserDict      string `toml:"user_dict"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisKey      string `toml:"redis_key"`
}

// ServerConfig holds IPC request limits.
type ServerConfig struct {
	MaxBlocks   int `toml:"max_blocks"`
	MaxBlockLen int `toml:"max_block_len"`
	Workers     int `toml:"workers"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `toml:"addr"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	sc := suggest.DefaultConfig()
	return &Config{
		Speller: SpellerConfig{
			MaxResults:      sc.MaxResults,
			MaxEditDistance: sc.MaxEditDistance,
			MinWideLength:   sc.MinWideLength,
			PreserveCase:    sc.PreserveCase,
			CacheSize:       sc.CacheSize,
		},
		Dict: DictConfig{
			Path:     "",
			Format:   "auto",
			Resource: "collins",
			UseMmap:  true,
		},
		Exceptions: ExceptionsConfig{
			RedisKey: exceptions.DefaultRedisKey,
		},
		Server: ServerConfig{
			MaxBlocks:   256,
			MaxBlockLen: 100000,
			Workers:     4,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// SuggestConfig converts the [speller] section.
func (c *Config) SuggestConfig() suggest.Config {
	return suggest.Config{
		MaxResults:      c.Speller.MaxResults,
		MaxEditDistance: c.Speller.MaxEditDistance,
		MinWideLength:   c.Speller.MinWideLength,
		PreserveCase:    c.Speller.PreserveCase,
		CacheSize:       c.Speller.CacheSize,
	}
}

// ServerLimits converts the [server] section.
func (c *Config) ServerLimits() server.Config {
	return server.Config{
		MaxBlocks:   c.Server.MaxBlocks,
		MaxBlockLen: c.Server.MaxBlockLen,
		Workers:     c.Server.Workers,
	}
}

// DictFormat parses [dict] format.
func (c *Config) DictFormat() (dictionary.Format, error) {
	return dictionary.ParseFormat(c.Dict.Format)
}

// Validate returns a *errs.ConfigError for the first invalid value.
func (c *Config) Validate() error {
	if err := c.SuggestConfig().Validate(); err != nil {
		return err
	}
	if _, err := c.DictFormat(); err != nil {
		return err
	}
	if err := errs.NonNegative("exceptions.redis_db", c.Exceptions.RedisDB); err != nil {
		return err
	}
	if err := c.ServerLimits().Validate(); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.Log.Level); c.Log.Level != "" && err != nil {
		return errs.NewConfigError("log.level", c.Log.Level, "must be one of debug, info, warn, error, fatal")
	}
	return nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	pr, err := utils.NewPathResolver()
	if err != nil {
		return "", err
	}
	return pr.ConfigPath(FileName), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from the -config flag
// 2. Default path: [UserConfigDir]/wordcheck/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if utils.FileExists(customConfigPath) {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s. Trying default path...", customConfigPath)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}
	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Values missing from the file keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every well-typed value of a file the struct decoder rejected.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "speller"); ok {
		extractSpellerConfig(section, &config.Speller)
	}
	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "exceptions"); ok {
		extractExceptionsConfig(section, &config.Exceptions)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "metrics"); ok {
		if val, ok := utils.ExtractString(section, "addr"); ok {
			config.Metrics.Addr = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "log"); ok {
		if val, ok := utils.ExtractString(section, "level"); ok {
			config.Log.Level = val
		}
	}
	return config, nil
}

func extractSpellerConfig(data map[string]any, speller *SpellerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_results"); ok {
		speller.MaxResults = val
	}
	if val, ok := utils.ExtractInt64(data, "max_edit_distance"); ok {
		speller.MaxEditDistance = val
	}
	if val, ok := utils.ExtractInt64(data, "min_wide_length"); ok {
		speller.MinWideLength = val
	}
	if val, ok := utils.ExtractBool(data, "preserve_case"); ok {
		speller.PreserveCase = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		speller.CacheSize = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		dict.Path = val
	}
	if val, ok := utils.ExtractString(data, "format"); ok {
		dict.Format = val
	}
	if val, ok := utils.ExtractString(data, "resource"); ok {
		dict.Resource = val
	}
	if val, ok := utils.ExtractBool(data, "use_mmap"); ok {
		dict.UseMmap = val
	}
}

func extractExceptionsConfig(data map[string]any, exc *ExceptionsConfig) {
	if val, ok := utils.ExtractString(data, "user_dict"); ok {
		exc.UserDict = val
	}
	if val, ok := utils.ExtractString(data, "redis_addr"); ok {
		exc.RedisAddr = val
	}
	if val, ok := utils.ExtractString(data, "redis_password"); ok {
		exc.RedisPassword = val
	}
	if val, ok := utils.ExtractInt64(data, "redis_db"); ok {
		exc.RedisDB = val
	}
	if val, ok := utils.ExtractString(data, "redis_key"); ok {
		exc.RedisKey = val
	}
}

func extractServerConfig(data map[string]any, srv *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_blocks"); ok {
		srv.MaxBlocks = val
	}
	if val, ok := utils.ExtractInt64(data, "max_block_len"); ok {
		srv.MaxBlockLen = val
	}
	if val, ok := utils.ExtractInt64(data, "workers"); ok {
		srv.Workers = val
	}
}

// RebuildConfigFile force creates a new config.toml at the default path
func RebuildConfigFile() (string, error) {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return "", err
	}
	return defaultPath, SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "builtin defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
