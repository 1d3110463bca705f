// Package config loads hatch.yml.
//
// Every key has a default matching the layout of the analysis tool hatch was
// written for, so a project without hatch.yml works out of the box. Values
// can be overridden per key from the environment with the HATCH_ prefix,
// e.g. HATCH_STRICT=true or HATCH_ANCHORS_LICENSE_NEEDLE=...
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/simonhull/firebird-suite/hatch/internal/logger"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the search paths.
const FileName = "hatch.yml"

// Config is the resolved configuration.
type Config struct {
	Root     string  `mapstructure:"root" yaml:"root,omitempty"`
	LogLevel string  `mapstructure:"log_level" yaml:"log_level"`
	Strict   bool    `mapstructure:"strict" yaml:"strict"`
	Fixture  Fixture `mapstructure:"fixture" yaml:"fixture"`
	Anchors  Anchors `mapstructure:"anchors" yaml:"anchors"`

	// Source is the config file that was read, empty when defaults were used.
	Source string `mapstructure:"-" yaml:"-"`
}

// Fixture describes the placeholder test fixture created for each plugin.
type Fixture struct {
	File    string `mapstructure:"file" yaml:"file"`
	Content string `mapstructure:"content" yaml:"content"`
}

// Anchor is a sentinel line in a project file.
type Anchor struct {
	Path   string `mapstructure:"path" yaml:"path"`
	Needle string `mapstructure:"needle" yaml:"needle"`
}

// Anchors lists the sentinels new plugins are inserted next to.
type Anchors struct {
	ModuleRegistry  Anchor `mapstructure:"module_registry" yaml:"module_registry"`
	CategoryMarker  Anchor `mapstructure:"category_marker" yaml:"category_marker"`
	CategoryVariant Anchor `mapstructure:"category_variant" yaml:"category_variant"`
	License         Anchor `mapstructure:"license" yaml:"license"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "warn",
		Fixture: Fixture{
			File:    "TODO.py",
			Content: "x = 3\n",
		},
		Anchors: Anchors{
			ModuleRegistry:  Anchor{Path: "src/lib.rs", Needle: "mod flake8_print;"},
			CategoryMarker:  Anchor{Path: "src/checks.rs", Needle: "// flake8-print"},
			CategoryVariant: Anchor{Path: "src/checks.rs", Needle: "Flake8Print,"},
			License:         Anchor{Path: "LICENSE", Needle: "- flake8-print, licensed as follows:"},
		},
	}
}

// LoadOptions controls where Load looks for hatch.yml.
type LoadOptions struct {
	File        string   // Explicit config file; must exist when set
	SearchPaths []string // Directories searched for hatch.yml, in order
}

// Load reads hatch.yml (if any) over the defaults and applies HATCH_*
// environment overrides.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix("HATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".yml"))
		v.SetConfigType("yaml")
		for _, p := range opts.SearchPaths {
			v.AddConfigPath(p)
		}
	}

	if opts.File != "" || len(opts.SearchPaths) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if opts.File != "" || !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Source = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("root", d.Root)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("strict", d.Strict)
	v.SetDefault("fixture.file", d.Fixture.File)
	v.SetDefault("fixture.content", d.Fixture.Content)

	anchors := map[string]Anchor{
		"module_registry":  d.Anchors.ModuleRegistry,
		"category_marker":  d.Anchors.CategoryMarker,
		"category_variant": d.Anchors.CategoryVariant,
		"license":          d.Anchors.License,
	}
	for name, a := range anchors {
		v.SetDefault("anchors."+name+".path", a.Path)
		v.SetDefault("anchors."+name+".needle", a.Needle)
	}
}

// Validate checks that every anchor is usable.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}

	if c.Fixture.File == "" {
		return fmt.Errorf("fixture.file must not be empty")
	}

	anchors := []struct {
		name string
		a    Anchor
	}{
		{"module_registry", c.Anchors.ModuleRegistry},
		{"category_marker", c.Anchors.CategoryMarker},
		{"category_variant", c.Anchors.CategoryVariant},
		{"license", c.Anchors.License},
	}
	for _, entry := range anchors {
		if entry.a.Path == "" {
			return fmt.Errorf("anchors.%s.path must not be empty", entry.name)
		}
		if strings.TrimSpace(entry.a.Needle) == "" {
			return fmt.Errorf("anchors.%s.needle must not be empty", entry.name)
		}
		if strings.Contains(entry.a.Needle, "\n") {
			return fmt.Errorf("anchors.%s.needle must be a single line", entry.name)
		}
	}

	return nil
}

// Save writes cfg to path as YAML. An existing file is only replaced when
// overwrite is set.
func Save(path string, cfg *Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	header := "# hatch configuration. Anchors are the sentinel lines new plugins are inserted before.\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
