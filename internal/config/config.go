package config

import (
	"fmt"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	StorageDriverYAML   = "yaml"
	StorageDriverMySQL  = "mysql"
	StorageDriverSQLite = "sqlite"
)

type Config struct {
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Quiz      QuizConfig      `mapstructure:"quiz"`
	Server    ServerConfig    `mapstructure:"server"`
	Remote    RemoteConfig    `mapstructure:"remote"`
	Outputs   OutputsConfig   `mapstructure:"outputs"`
	Templates TemplatesConfig `mapstructure:"templates"`
}

type StorageConfig struct {
	Driver     string `mapstructure:"driver" validate:"oneof=yaml mysql sqlite"`
	Directory  string `mapstructure:"directory" validate:"required_if=Driver yaml"`
	SQLitePath string `mapstructure:"sqlite_path" validate:"required_if=Driver sqlite"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type QuizConfig struct {
	TimeLimitSeconds int    `mapstructure:"time_limit_seconds" validate:"gte=0"`
	HistoryLimit     int    `mapstructure:"history_limit" validate:"gte=1,lte=1000"`
	DefaultMode      string `mapstructure:"default_mode" validate:"oneof=written blanks flashcard"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"gte=1,lte=65535"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"dive,origin"`
}

type RemoteConfig struct {
	BaseURL        string `mapstructure:"base_url" validate:"omitempty,url"`
	RetryAttempts  int    `mapstructure:"retry_attempts" validate:"gte=0,lte=10"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=1"`
}

type OutputsConfig struct {
	ReportDirectory string `mapstructure:"report_directory" validate:"required"`
}

type TemplatesConfig struct {
	// StudyReportTemplate replaces the built-in study report template when set.
	StudyReportTemplate string `mapstructure:"study_report_template"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/studyai")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("storage.driver", StorageDriverYAML)
	v.SetDefault("storage.directory", "data")
	v.SetDefault("storage.sqlite_path", filepath.Join("data", "studyai.db"))
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "studyai")
	v.SetDefault("database.username", "user")
	v.SetDefault("quiz.time_limit_seconds", 0)
	v.SetDefault("quiz.history_limit", 100)
	v.SetDefault("quiz.default_mode", "written")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("remote.base_url", "")
	v.SetDefault("remote.retry_attempts", 2)
	v.SetDefault("remote.timeout_seconds", 10)
	v.SetDefault("outputs.report_directory", filepath.Join("outputs", "reports"))

	// Bind database password to environment variable
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("remote.base_url", "STUDYAI_REMOTE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind STUDYAI_REMOTE_URL environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
