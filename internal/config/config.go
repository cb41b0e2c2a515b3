// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Gazetteer GazetteerConfig `yaml:"gazetteer" mapstructure:"gazetteer"`
	Fusion    FusionConfig    `yaml:"fusion" mapstructure:"fusion"`
	Model     ModelConfig     `yaml:"model" mapstructure:"model"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// GazetteerConfig configures GeoNames table loading.
type GazetteerConfig struct {
	Files          []string `yaml:"files" mapstructure:"files"`
	Countries      []string `yaml:"countries" mapstructure:"countries"`
	FeatureClasses []string `yaml:"feature_classes" mapstructure:"feature_classes"`
	KeepAlternates bool     `yaml:"keep_alternates" mapstructure:"keep_alternates"`
}

// FusionConfig configures the fusion pass thresholds and batch behavior.
type FusionConfig struct {
	GeoThreshold float64 `yaml:"geo_threshold" mapstructure:"geo_threshold"`
	SMEThreshold float64 `yaml:"sme_threshold" mapstructure:"sme_threshold"`
	Parallelism  int     `yaml:"parallelism" mapstructure:"parallelism"`
	LexiconPath  string  `yaml:"lexicon_path" mapstructure:"lexicon_path"`
}

// ModelConfig configures the label model fit.
type ModelConfig struct {
	Epochs       int     `yaml:"epochs" mapstructure:"epochs"`
	Tol          float64 `yaml:"tol" mapstructure:"tol"`
	Seed         int64   `yaml:"seed" mapstructure:"seed"`
	InitAccuracy float64 `yaml:"init_accuracy" mapstructure:"init_accuracy"`
	ClipEps      float64 `yaml:"clip_eps" mapstructure:"clip_eps"`
}

// StoreConfig configures the result persistence backend.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

// ServerConfig configures the results API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PVO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("gazetteer.countries", []string{"NL", "BE", "DE"})
	v.SetDefault("gazetteer.feature_classes", []string{"P", "A"})
	v.SetDefault("gazetteer.keep_alternates", true)
	v.SetDefault("fusion.geo_threshold", 0.6)
	v.SetDefault("fusion.sme_threshold", 0.6)
	v.SetDefault("fusion.parallelism", 0)
	v.SetDefault("model.epochs", 200)
	v.SetDefault("model.tol", 1e-6)
	v.SetDefault("model.seed", 123)
	v.SetDefault("model.init_accuracy", 0.7)
	v.SetDefault("model.clip_eps", 1e-3)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "pvo.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
