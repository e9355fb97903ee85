// Package config provides Viper-based configuration loading for the
// character sheet tools.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/gusheet/internal/game/rules"
)

// EnvPrefix prefixes every environment variable override, e.g.
// GUSHEET_LOGGING_LEVEL.
const EnvPrefix = "GUSHEET"

// DatabaseConfig holds PostgreSQL connection settings for the sheet archive.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ContentConfig locates reference data and house-rule scripts.
type ContentConfig struct {
	// Dir holds the YAML reference data files.
	Dir string `mapstructure:"dir"`
	// ScriptsDir holds house-rule *.lua files; empty disables house rules.
	ScriptsDir string `mapstructure:"scripts_dir"`
	// ScriptInstructionLimit caps Lua opcodes per hook call; 0 uses the default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// RulesConfig mirrors rules.Rules so every constant can be overridden.
type RulesConfig struct {
	BaseScore                 int   `mapstructure:"base_score"`
	MinScore                  int   `mapstructure:"min_score"`
	MaxBuyScore               int   `mapstructure:"max_buy_score"`
	BuyPoints                 int   `mapstructure:"buy_points"`
	PointBuyCost              []int `mapstructure:"point_buy_cost"`
	InitialModificationPoints int   `mapstructure:"initial_modification_points"`
	MaxSkillProficiencies     int   `mapstructure:"max_skill_proficiencies"`
	BaseArmorClass            int   `mapstructure:"base_armor_class"`
	DefaultHitDie             int   `mapstructure:"default_hit_die"`
	HitDice                   []int `mapstructure:"hit_dice"`
}

// ToRules converts the configuration into engine rules.
func (r RulesConfig) ToRules() rules.Rules {
	return rules.Rules{
		BaseScore:                 r.BaseScore,
		MinScore:                  r.MinScore,
		MaxBuyScore:               r.MaxBuyScore,
		BuyPoints:                 r.BuyPoints,
		PointBuyCost:              append([]int(nil), r.PointBuyCost...),
		InitialModificationPoints: r.InitialModificationPoints,
		MaxSkillProficiencies:     r.MaxSkillProficiencies,
		BaseArmorClass:            r.BaseArmorClass,
		DefaultHitDie:             r.DefaultHitDie,
		HitDice:                   append([]int(nil), r.HitDice...),
	}
}

// BackstoryConfig holds LLM backstory generation settings. An empty APIKey
// disables generation.
type BackstoryConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	Model      string        `mapstructure:"model"`
	MaxTokens  int           `mapstructure:"max_tokens"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// DiceConfig selects the randomness source.
type DiceConfig struct {
	// Seed makes rolls reproducible; 0 uses crypto/rand.
	Seed uint64 `mapstructure:"seed"`
}

// Config is the top-level application configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Content   ContentConfig   `mapstructure:"content"`
	Rules     RulesConfig     `mapstructure:"rules"`
	Backstory BackstoryConfig `mapstructure:"backstory"`
	Dice      DiceConfig      `mapstructure:"dice"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := c.Rules.ToRules().Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateBackstory(c.Backstory); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.Dir == "" {
		errs = append(errs, "content.dir must not be empty")
	}
	if c.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("content.script_instruction_limit must be >= 0, got %d", c.ScriptInstructionLimit))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateBackstory(b BackstoryConfig) error {
	var errs []string
	if b.APIKey != "" && b.Model == "" {
		errs = append(errs, "backstory.model must not be empty when backstory.api_key is set")
	}
	if b.MaxTokens < 1 {
		errs = append(errs, fmt.Sprintf("backstory.max_tokens must be >= 1, got %d", b.MaxTokens))
	}
	if b.Timeout <= 0 {
		errs = append(errs, "backstory.timeout must be positive")
	}
	if b.MaxRetries < 0 {
		errs = append(errs, fmt.Sprintf("backstory.max_retries must be >= 0, got %d", b.MaxRetries))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result. An empty path uses defaults
// and environment variables only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "gusheet")
	v.SetDefault("database.password", "gusheet")
	v.SetDefault("database.name", "gusheet")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 0)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("content.dir", "content")
	v.SetDefault("content.scripts_dir", "")
	v.SetDefault("content.script_instruction_limit", 0)

	d := rules.Default()
	v.SetDefault("rules.base_score", d.BaseScore)
	v.SetDefault("rules.min_score", d.MinScore)
	v.SetDefault("rules.max_buy_score", d.MaxBuyScore)
	v.SetDefault("rules.buy_points", d.BuyPoints)
	v.SetDefault("rules.point_buy_cost", d.PointBuyCost)
	v.SetDefault("rules.initial_modification_points", d.InitialModificationPoints)
	v.SetDefault("rules.max_skill_proficiencies", d.MaxSkillProficiencies)
	v.SetDefault("rules.base_armor_class", d.BaseArmorClass)
	v.SetDefault("rules.default_hit_die", d.DefaultHitDie)
	v.SetDefault("rules.hit_dice", d.HitDice)

	v.SetDefault("backstory.api_key", "")
	v.SetDefault("backstory.model", "claude-sonnet-4-5")
	v.SetDefault("backstory.max_tokens", 1024)
	v.SetDefault("backstory.timeout", "60s")
	v.SetDefault("backstory.max_retries", 2)

	v.SetDefault("dice.seed", 0)
}
