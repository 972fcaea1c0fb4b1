package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds collection-level settings loaded from lemma.yml.
// Command-line flags take precedence over every field.
type ProjectConfig struct {
	DataFile      string `yaml:"dataFile,omitempty"`
	GraphDir      string `yaml:"graphDir,omitempty"`
	DefaultFormat string `yaml:"defaultFormat,omitempty"`
	MCPAddr       string `yaml:"mcpAddr,omitempty"`
}

// Load attempts to read lemma.yml or lemma.yaml from the given directory.
// Returns a zero-value config (not an error) if no config file exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"lemma.yml", "lemma.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}
