package sieve

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"
)

// Duplicate detection scopes.
const (
	ScopeBatch  = "batch"
	ScopeGlobal = "global"
)

// Config is the immutable run configuration passed into the pipeline
// entry point. Load applies a TOML or YAML file over Default.
type Config struct {
	Input         string `toml:"input" yaml:"input"`
	CleanPrefix   string `toml:"clean_prefix" yaml:"clean_prefix"`
	GarbagePrefix string `toml:"garbage_prefix" yaml:"garbage_prefix"`

	BatchSize int    `toml:"batch_size" yaml:"batch_size"`
	Delimiter string `toml:"delimiter" yaml:"delimiter"`

	// Rename maps source header names to canonical field names. Source
	// columns that map (or are already named) outside the canonical set
	// are dropped.
	Rename map[string]string `toml:"rename" yaml:"rename"`

	// ScrubColumns are stripped of every character matching ScrubPattern
	// before validation.
	ScrubColumns []string `toml:"scrub_columns" yaml:"scrub_columns"`
	ScrubPattern string   `toml:"scrub_pattern" yaml:"scrub_pattern"`

	// DuplicateScope is "batch" (pairs compared within one batch only) or
	// "global" (pairs tracked across the whole run).
	DuplicateScope string `toml:"duplicate_scope" yaml:"duplicate_scope"`

	// Audit, when set, is the path of a JSON Lines stream recording the
	// failed predicates for every garbage row.
	Audit string `toml:"audit" yaml:"audit"`

	// Parquet mirrors each final dataset as <prefix>_final.parquet.
	Parquet bool `toml:"parquet" yaml:"parquet"`
}

// Default returns the configuration matching the production ingest job.
func Default() Config {
	return Config{
		BatchSize: 900000,
		Delimiter: ";",
		Rename: map[string]string{
			"ID":            FieldID,
			"Name":          FieldLoginID,
			"Email":         FieldMailAddress,
			"Date_of_Birth": FieldBirthdayOn,
			"Salary":        FieldPassword,
		},
		ScrubColumns:   []string{FieldLoginID, FieldMailAddress},
		ScrubPattern:   `[^\w\s@.\-]`,
		DuplicateScope: ScopeBatch,
	}
}

// Load reads a config file over Default. The codec is chosen by
// extension: .yaml/.yml use YAML, anything else TOML.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	default:
		err = toml.Unmarshal(b, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the parts of the configuration that would otherwise
// fail deep inside a batch.
func (c Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("config: input path is required")
	}
	if c.CleanPrefix == "" || c.GarbagePrefix == "" {
		return fmt.Errorf("config: clean_prefix and garbage_prefix are required")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("config: batch_size must be positive, got %d", c.BatchSize)
	}
	if len(c.Delimiter) != 1 {
		return fmt.Errorf("config: delimiter must be a single character, got %q", c.Delimiter)
	}
	if c.DuplicateScope != ScopeBatch && c.DuplicateScope != ScopeGlobal {
		return fmt.Errorf("config: duplicate_scope must be %q or %q, got %q", ScopeBatch, ScopeGlobal, c.DuplicateScope)
	}
	return nil
}
