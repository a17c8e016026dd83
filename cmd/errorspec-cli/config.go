package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	pkgopenapi "github.com/goliatone/go-errorspec/pkg/openapi"
)

// config collects every CLI setting. Values come from an optional YAML file
// first and explicitly set flags override them.
type config struct {
	Model            string        `yaml:"model"`
	OpenAPI          string        `yaml:"openapi"`
	Service          string        `yaml:"service"`
	Output           string        `yaml:"output"`
	Format           string        `yaml:"format"`
	Validate         bool          `yaml:"validate"`
	ValidateExamples bool          `yaml:"validateExamples"`
	SchemaSuffixes   []string      `yaml:"schemaSuffixes"`
	HTTPTimeout      time.Duration `yaml:"httpTimeout"`
	Interactive      bool          `yaml:"interactive"`
	Verbose          bool          `yaml:"verbose"`
}

func readConfig(path string) (config, error) {
	var cfg config
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// overlay copies the flags that were set on the command line onto cfg.
func overlay(cfg config, flags *flag.FlagSet, set config) config {
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "model":
			cfg.Model = set.Model
		case "openapi":
			cfg.OpenAPI = set.OpenAPI
		case "service":
			cfg.Service = set.Service
		case "output":
			cfg.Output = set.Output
		case "format":
			cfg.Format = set.Format
		case "validate":
			cfg.Validate = set.Validate
		case "validate-examples":
			cfg.ValidateExamples = set.ValidateExamples
		case "suffixes":
			cfg.SchemaSuffixes = set.SchemaSuffixes
		case "http-timeout":
			cfg.HTTPTimeout = set.HTTPTimeout
		case "interactive":
			cfg.Interactive = set.Interactive
		case "verbose":
			cfg.Verbose = set.Verbose
		}
	})
	return cfg
}

func (c config) check() error {
	if strings.TrimSpace(c.Model) == "" {
		return errors.New("model path is required")
	}
	if strings.TrimSpace(c.OpenAPI) == "" {
		return errors.New("openapi path is required")
	}
	switch pkgopenapi.Format(c.Format) {
	case "", pkgopenapi.FormatJSON, pkgopenapi.FormatYAML:
	default:
		return fmt.Errorf("unsupported format %q", c.Format)
	}
	return nil
}

// splitList parses a comma separated flag value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
