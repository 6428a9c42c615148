// Package config loads extraction profiles for the wdfextract command.
//
// A profile is a single YAML file. Values it does not set keep the
// defaults returned by Default, which reproduce the behaviour of the
// shipped client data: text assets (.txt, .xml, .ini) are decoded except
// caption.xml, and entities are extracted one at a time.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/meigma/wdf"
)

// Config is an extraction profile.
type Config struct {
	// Output is the directory assets are written below.
	// Default: output
	Output string `yaml:"output"`

	// Names is the known-name list used to recover asset paths.
	// Empty means every asset is written under unknown/.
	Names string `yaml:"names"`

	// Workers is the number of entities extracted concurrently per archive.
	// Default: 1
	Workers int `yaml:"workers"`

	// DirectWrites writes assets in place instead of temp file + rename.
	DirectWrites bool `yaml:"direct_writes"`

	// SkipExisting leaves existing output files untouched.
	SkipExisting bool `yaml:"skip_existing"`

	// Decode configures which assets are XOR-decoded.
	Decode DecodeConfig `yaml:"decode"`
}

// DecodeConfig configures the decode policy.
type DecodeConfig struct {
	// TextExtensions lists decoded extensions, with the leading dot.
	TextExtensions []string `yaml:"text_extensions"`

	// Excludes lists file names that are never decoded by extension.
	Excludes []string `yaml:"excludes"`

	// Categories forces the decision for every asset of an archive
	// category, overriding TextExtensions and Excludes.
	Categories map[string]bool `yaml:"categories"`
}

// Default returns the default profile.
func Default() *Config {
	text := wdf.DefaultTextPolicy()
	return &Config{
		Output:  "output",
		Workers: 1,
		Decode: DecodeConfig{
			TextExtensions: text.Extensions,
			Excludes:       text.Excludes,
		},
	}
}

// LoadFile loads a profile from path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML profile on top of Default and validates it.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the profile for values the extractor cannot use.
func (c *Config) Validate() error {
	if c.Output == "" {
		return errors.New("config: output must not be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1, got %d", c.Workers)
	}
	for _, ext := range c.Decode.TextExtensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("config: text extension %q must start with a dot", ext)
		}
	}
	for _, name := range c.Decode.Excludes {
		if name == "" || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("config: exclude %q must be a bare file name", name)
		}
	}
	return nil
}

// Policy builds the decode policy described by the profile.
func (c *Config) Policy() wdf.DecodePolicy {
	ext := wdf.ExtensionPolicy{
		Extensions: c.Decode.TextExtensions,
		Excludes:   c.Decode.Excludes,
	}
	if len(c.Decode.Categories) == 0 {
		return ext
	}
	return wdf.CategoryPolicy{Categories: c.Decode.Categories, Fallback: ext}
}

// ExtractOptions returns the ExtractAll options described by the profile.
func (c *Config) ExtractOptions() []wdf.ExtractOption {
	return []wdf.ExtractOption{
		wdf.ExtractWithWorkers(c.Workers),
		wdf.ExtractWithDirectWrites(c.DirectWrites),
		wdf.ExtractWithSkipExisting(c.SkipExisting),
	}
}
