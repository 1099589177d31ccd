// Package config loads the three-section INI configuration file serac
// reads at startup ([source], [archive], [index]), via viper the way the
// teacher's ambient stack favors a structured config library over
// hand-rolled flag/env parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// SourceConfig is the [source] section: what to scan.
type SourceConfig struct {
	Includes []string
	Excludes []string
}

// LocalConfig is the [archive] section's local-storage keys.
type LocalConfig struct {
	Path string
}

// S3Config is the [archive] section's s3-storage keys.
type S3Config struct {
	Key    string
	Secret string
	Bucket string
	Path   string
}

// ArchiveConfig is the [archive] section: where and how content is stored.
type ArchiveConfig struct {
	Storage  string // "local" or "s3"
	Password string
	Local    LocalConfig
	S3       S3Config
}

// IndexConfig is the [index] section: where the index database lives.
type IndexConfig struct {
	Path string
}

// Config is the fully parsed serac configuration file.
type Config struct {
	Source  SourceConfig
	Archive ArchiveConfig
	Index   IndexConfig
}

// Load parses the INI file at path and validates the mandatory sections.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := &Config{
		Source: SourceConfig{
			Includes: splitWhitespace(v.GetString("source.include")),
			Excludes: splitWhitespace(v.GetString("source.exclude")),
		},
		Archive: ArchiveConfig{
			Storage:  strings.ToLower(strings.TrimSpace(v.GetString("archive.storage"))),
			Password: v.GetString("archive.password"),
			Local: LocalConfig{
				Path: v.GetString("archive.path"),
			},
			S3: S3Config{
				Key:    v.GetString("archive.key"),
				Secret: v.GetString("archive.secret"),
				Bucket: v.GetString("archive.bucket"),
				Path:   v.GetString("archive.path"),
			},
		},
		Index: IndexConfig{
			Path: v.GetString("index.path"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitWhitespace(s string) []string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (c *Config) validate() error {
	if len(c.Source.Includes) == 0 {
		return fmt.Errorf("config: [source] requires at least one include pattern")
	}

	switch c.Archive.Storage {
	case "local":
		if c.Archive.Local.Path == "" {
			return fmt.Errorf("config: [archive] storage=local requires path")
		}
	case "s3":
		for _, key := range []struct {
			name, value string
		}{
			{"key", c.Archive.S3.Key},
			{"secret", c.Archive.S3.Secret},
			{"bucket", c.Archive.S3.Bucket},
		} {
			if key.value == "" {
				return fmt.Errorf("config: [archive] storage=s3 requires %s", key.name)
			}
		}
	default:
		return fmt.Errorf("config: [archive] storage must be local or s3, got %q", c.Archive.Storage)
	}

	if c.Index.Path == "" {
		return fmt.Errorf("config: [index] requires path")
	}
	if info, err := os.Stat(filepath.Dir(c.Index.Path)); err != nil || !info.IsDir() {
		return fmt.Errorf("config: [index] parent directory of %s must exist", c.Index.Path)
	}

	return nil
}
