// Package config provides Viper-based configuration loading for the combat core.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings for the kill memorial.
type DatabaseConfig struct {
	// Enabled selects the postgres-backed kill ledger; false keeps kills in memory.
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	// QueryTimeout bounds every memorial query issued from the simulation thread.
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
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
	// File, when set, sends log output to a size-rotated file instead of stderr.
	File string `mapstructure:"file"`
	// MaxSizeMB is the size in megabytes at which the log file is rotated.
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of rotated files retained.
	MaxBackups int `mapstructure:"max_backups"`
	// MaxAgeDays is the number of days rotated files are retained.
	MaxAgeDays int `mapstructure:"max_age_days"`
}

// CombatConfig holds the balance parameters of the combat core. None of these
// values is structural; they tune hit placement, stagger and death outcomes.
type CombatConfig struct {
	// CritSpread is the melee hit spread at or above which a hit is critical.
	CritSpread int `mapstructure:"crit_spread"`
	// CritMultiplier scales the damage proposal of a critical melee hit.
	CritMultiplier float64 `mapstructure:"crit_multiplier"`
	// StunBashMin is the bash amount a critical hit needs to stun.
	StunBashMin int `mapstructure:"stun_bash_min"`
	// KnockdownMoves is the cumulative stab moves cost that knocks a target down.
	KnockdownMoves int `mapstructure:"knockdown_moves"`
	// BlockChance is the percent chance a defender with blocks left blocks a hit.
	BlockChance int `mapstructure:"block_chance"`

	BashStagger     float64 `mapstructure:"bash_stagger"`
	ElectricStagger float64 `mapstructure:"electric_stagger"`
	ColdStagger     float64 `mapstructure:"cold_stagger"`

	ProneEyesBonus float64 `mapstructure:"prone_eyes_bonus"`
	ProneHeadBonus float64 `mapstructure:"prone_head_bonus"`

	HeadshotBand float64 `mapstructure:"headshot_band"`
	CriticalBand float64 `mapstructure:"critical_band"`
	GoodBand     float64 `mapstructure:"good_band"`
	NormalBand   float64 `mapstructure:"normal_band"`
	GrazeBand    float64 `mapstructure:"graze_band"`
	// RangedQualityScale converts the margin under the graze band into a
	// body-location hit quality.
	RangedQualityScale float64 `mapstructure:"ranged_quality_scale"`

	// PulverizeCorpseDamage is the corpse damage above which a big enough
	// body is pulverized instead of leaving a corpse.
	PulverizeCorpseDamage float64 `mapstructure:"pulverize_corpse_damage"`
	// MaxCorpseDamage caps the damage level stamped on a corpse.
	MaxCorpseDamage int `mapstructure:"max_corpse_damage"`
	// GuiltMaxKills is the per-species kill count at which guilt stops applying.
	GuiltMaxKills int `mapstructure:"guilt_max_kills"`
}

// ContentConfig locates the YAML content loaded at startup.
type ContentConfig struct {
	EffectsDir string `mapstructure:"effects_dir"`
	SpeciesDir string `mapstructure:"species_dir"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Combat   CombatConfig   `mapstructure:"combat"`
	Content  ContentConfig  `mapstructure:"content"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Database.Enabled {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateCombat(c.Combat); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
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
	if d.QueryTimeout <= 0 {
		errs = append(errs, "database.query_timeout must be positive")
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
	if l.File != "" && l.MaxSizeMB < 1 {
		return fmt.Errorf("logging.max_size_mb must be >= 1 when logging.file is set, got %d", l.MaxSizeMB)
	}
	if l.MaxBackups < 0 || l.MaxAgeDays < 0 {
		return errors.New("logging.max_backups and logging.max_age_days must not be negative")
	}
	return nil
}

func validateCombat(c CombatConfig) error {
	var errs []string
	if c.CritSpread < 1 {
		errs = append(errs, fmt.Sprintf("combat.crit_spread must be >= 1, got %d", c.CritSpread))
	}
	if c.CritMultiplier < 1 {
		errs = append(errs, fmt.Sprintf("combat.crit_multiplier must be >= 1, got %g", c.CritMultiplier))
	}
	if c.KnockdownMoves < 1 {
		errs = append(errs, fmt.Sprintf("combat.knockdown_moves must be >= 1, got %d", c.KnockdownMoves))
	}
	if c.BlockChance < 0 || c.BlockChance > 100 {
		errs = append(errs, fmt.Sprintf("combat.block_chance must be 0-100, got %d", c.BlockChance))
	}
	if c.BashStagger < 0 || c.ElectricStagger < 0 || c.ColdStagger < 0 {
		errs = append(errs, "combat stagger multipliers must not be negative")
	}
	bands := []float64{0, c.HeadshotBand, c.CriticalBand, c.GoodBand, c.NormalBand, c.GrazeBand}
	for i := 1; i < len(bands); i++ {
		if bands[i] <= bands[i-1] {
			errs = append(errs, "combat ranged bands must be strictly increasing: headshot < critical < good < normal < graze")
			break
		}
	}
	if c.GrazeBand > 1 {
		errs = append(errs, fmt.Sprintf("combat.graze_band must be <= 1, got %g", c.GrazeBand))
	}
	if c.PulverizeCorpseDamage <= 0 {
		errs = append(errs, "combat.pulverize_corpse_damage must be positive")
	}
	if c.MaxCorpseDamage < 0 {
		errs = append(errs, fmt.Sprintf("combat.max_corpse_damage must be >= 0, got %d", c.MaxCorpseDamage))
	}
	if c.GuiltMaxKills < 1 {
		errs = append(errs, fmt.Sprintf("combat.guilt_max_kills must be >= 1, got %d", c.GuiltMaxKills))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	if c.EffectsDir == "" {
		return errors.New("content.effects_dir must not be empty")
	}
	if c.SpeciesDir == "" {
		return errors.New("content.species_dir must not be empty")
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with CARRION_ prefix
	v.SetEnvPrefix("CARRION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
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

// Default returns the configuration produced by the defaults alone.
//
// Postcondition: Returns a Config that passes Validate.
func Default() Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	// Defaults are plain scalars; decoding them cannot fail.
	_ = v.Unmarshal(&cfg)
	return cfg
}

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 64)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 14)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "carrion")
	v.SetDefault("database.password", "carrion")
	v.SetDefault("database.name", "carrion")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.query_timeout", "250ms")

	v.SetDefault("combat.crit_spread", 15)
	v.SetDefault("combat.crit_multiplier", 1.5)
	v.SetDefault("combat.stun_bash_min", 10)
	v.SetDefault("combat.knockdown_moves", 150)
	v.SetDefault("combat.block_chance", 50)
	v.SetDefault("combat.bash_stagger", 2.0)
	v.SetDefault("combat.electric_stagger", 100.0)
	v.SetDefault("combat.cold_stagger", 80.0)
	v.SetDefault("combat.prone_eyes_bonus", 10.0)
	v.SetDefault("combat.prone_head_bonus", 20.0)
	v.SetDefault("combat.headshot_band", 0.1)
	v.SetDefault("combat.critical_band", 0.2)
	v.SetDefault("combat.good_band", 0.4)
	v.SetDefault("combat.normal_band", 0.6)
	v.SetDefault("combat.graze_band", 0.8)
	v.SetDefault("combat.ranged_quality_scale", 20.0)
	v.SetDefault("combat.pulverize_corpse_damage", 5.0)
	v.SetDefault("combat.max_corpse_damage", 4)
	v.SetDefault("combat.guilt_max_kills", 100)

	v.SetDefault("content.effects_dir", "content/effects")
	v.SetDefault("content.species_dir", "content/species")
}
