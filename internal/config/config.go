// Package config loads the optional taqload.yaml project file.
//
// The file lets a team pin the destination table, chunking, and connection
// defaults next to their data directory so the import command line stays
// short. CLI flags and PG* environment variables always take precedence;
// see internal/db for the full resolution order.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ConnectionConfig mirrors the connection section of taqload.yaml.
type ConnectionConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	Database       string `yaml:"database"`
	SSLMode        string `yaml:"sslmode"`
	AuthMethod     string `yaml:"auth_method,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

// ImportDefaults mirrors the import section of taqload.yaml.
type ImportDefaults struct {
	Table        string `yaml:"table"`
	Delimiter    string `yaml:"delimiter"`
	Chunks       int    `yaml:"chunks"`
	Workers      int    `yaml:"workers"`
	TempDir      string `yaml:"temp_dir"`
	Timeout      string `yaml:"timeout"`
	ChunkTimeout string `yaml:"chunk_timeout"`
}

// ProjectConfig is the root of taqload.yaml.
type ProjectConfig struct {
	Connection ConnectionConfig `yaml:"connection"`
	Import     ImportDefaults   `yaml:"import"`
}

const ConfigFileName = "taqload.yaml"

// Load reads taqload.yaml from dir. Returns ErrConfigNotFound when absent,
// which callers treat as "no project defaults".
func Load(dir string) (*ProjectConfig, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
