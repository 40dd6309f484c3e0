package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/retab/pkg/language"
)

// ToYAML serializes the configuration to YAML format.
// It produces human-readable output with appropriate formatting.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// ToYAMLWithHeader serializes the configuration with a header comment.
func (c *Config) ToYAMLWithHeader(header string) ([]byte, error) {
	yamlBytes, err := c.ToYAML()
	if err != nil {
		return nil, err
	}

	if header == "" {
		return yamlBytes, nil
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	if header[len(header)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(yamlBytes)

	return buf.Bytes(), nil
}

// FromYAML parses a configuration from YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	// Ensure Languages map is initialized
	if cfg.Languages == nil {
		cfg.Languages = make(map[string]language.Override)
	}

	return cfg, nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	// Use YAML round-trip for deep copy of serializable fields
	yamlBytes, err := c.ToYAML()
	if err != nil {
		// Fallback to manual deep copy on error
		return c.deepCopy()
	}

	clone, err := FromYAML(yamlBytes)
	if err != nil {
		// Fallback to manual deep copy on error
		return c.deepCopy()
	}

	// Copy CLI-only fields that aren't serialized to YAML
	c.copyCLIFields(clone)

	return clone
}

// copyCLIFields copies CLI-only fields (yaml:"-") to the target config.
func (c *Config) copyCLIFields(target *Config) {
	target.Language = c.Language
	target.NoBackups = c.NoBackups
}

// deepCopy creates a manual deep copy of the configuration.
// This is used as a fallback when YAML round-trip fails.
func (c *Config) deepCopy() *Config {
	clone := &Config{
		Style:        c.Style,
		TabSize:      c.TabSize,
		FinalNewline: c.FinalNewline,
		TrimTrailing: c.TrimTrailing,
		Write:        c.Write,
		Diff:         c.Diff,
		Strict:       c.Strict,
		Jobs:         c.Jobs,
		Format:       c.Format,
		Backups:      c.Backups, // BackupsConfig only has value types
		Language:     c.Language,
		NoBackups:    c.NoBackups,
	}

	// Deep copy Ignore slice
	if c.Ignore != nil {
		clone.Ignore = make([]string, len(c.Ignore))
		copy(clone.Ignore, c.Ignore)
	}

	// Deep copy Languages map
	if c.Languages != nil {
		clone.Languages = make(map[string]language.Override, len(c.Languages))
		for id, ov := range c.Languages {
			clone.Languages[id] = cloneOverride(ov)
		}
	}

	return clone
}

// cloneOverride creates a deep copy of a language override.
func cloneOverride(ov language.Override) language.Override {
	clone := ov // scalars and IndentPatterns are value types

	if ov.Aliases != nil {
		clone.Aliases = make([]string, len(ov.Aliases))
		copy(clone.Aliases, ov.Aliases)
	}
	if ov.Extensions != nil {
		clone.Extensions = make([]string, len(ov.Extensions))
		copy(clone.Extensions, ov.Extensions)
	}
	if ov.Quotes != nil {
		clone.Quotes = make([]string, len(ov.Quotes))
		copy(clone.Quotes, ov.Quotes)
	}
	if ov.MultilineStrings != nil {
		clone.MultilineStrings = make([]string, len(ov.MultilineStrings))
		copy(clone.MultilineStrings, ov.MultilineStrings)
	}
	if ov.Brackets != nil {
		clone.Brackets = make([]language.BracketPair, len(ov.Brackets))
		copy(clone.Brackets, ov.Brackets)
	}

	return clone
}

// YAMLIndent returns the default YAML indentation.
func YAMLIndent() int {
	return 2
}
