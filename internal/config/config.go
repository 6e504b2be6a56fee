// Package config loads ptgen settings from a config file and the environment.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// ConfigName is the base name of the config file searched for on the config paths.
const ConfigName = "ptgen"

// EnvPrefix prefixes every environment variable override, e.g. PTGEN_HEADS.
const EnvPrefix = "PTGEN"

// DefaultSearchPaths are searched in order when no explicit config file is given.
var DefaultSearchPaths = []string{".", "./config", "$HOME/.ptgen", "/etc/ptgen"}

// Partition is one partition entry of the config file. Size accepts the same suffixes
// as the -p flag and Type is a hexadecimal MBR type code.
type Partition struct {
	Size string `mapstructure:"size"`
	Type string `mapstructure:"type"`
}

// Config holds every setting of a generate run before validation.
type Config struct {
	Heads       uint32      `mapstructure:"heads"`
	Sectors     uint32      `mapstructure:"sectors"`
	AlignKB     uint64      `mapstructure:"align_kb"`
	Active      int         `mapstructure:"active"`
	Signature   string      `mapstructure:"signature"`
	GUID        string      `mapstructure:"guid"`
	GPT         bool        `mapstructure:"gpt"`
	IgnoreEmpty bool        `mapstructure:"ignore_empty"`
	Output      string      `mapstructure:"output"`
	Verbose     int         `mapstructure:"verbose"`
	Partitions  []Partition `mapstructure:"partitions"`
}

// Options control where Load looks for settings.
type Options struct {
	// Fs is the file system config files are read from. Nil means the OS file system.
	Fs afero.Fs
	// File is an explicit config file. When set, a missing file is an error.
	File string
	// SearchPaths replace DefaultSearchPaths when non-nil.
	SearchPaths []string
}

// New returns a viper instance with ptgen's defaults, config search paths and
// environment binding applied. Callers may bind command-line flags to it before Load.
func New(opts Options) *viper.Viper {
	v := viper.New()
	if opts.Fs != nil {
		v.SetFs(opts.Fs)
	}

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		paths := opts.SearchPaths
		if paths == nil {
			paths = DefaultSearchPaths
		}
		for _, p := range paths {
			v.AddConfigPath(p)
		}
	}

	// Every scalar key needs a default so AutomaticEnv overrides reach Unmarshal.
	v.SetDefault("heads", 0)
	v.SetDefault("sectors", 0)
	v.SetDefault("align_kb", 0)
	v.SetDefault("active", 1)
	v.SetDefault("signature", "0x5452574F")
	v.SetDefault("guid", "")
	v.SetDefault("gpt", false)
	v.SetDefault("ignore_empty", false)
	v.SetDefault("output", "")
	v.SetDefault("verbose", 0)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	return v
}

// Load reads the config file, if one is found, and unmarshals the merged settings.
// A missing config file on the search paths is not an error.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// UsedFile returns the config file Load read, or "" when none was found.
func UsedFile(v *viper.Viper) string {
	return v.ConfigFileUsed()
}
