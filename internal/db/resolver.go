package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/taqload/internal/config"
	"github.com/vvka-141/taqload/pkg/taqload"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-H, -p, -U, -d).
//
// Note: Password is NOT included as a CLI flag for security reasons.
// Use one of these methods instead:
//  1. $PGPASSWORD environment variable
//  2. .pgpass file (PostgreSQL standard)
//  3. Connection string with embedded password
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty returns true if no connection-related granular flags were provided.
// Database is excluded from the check because it can override the database in
// a connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// CloudAuthFlags represents the cloud IAM authentication CLI flags.
// These override the corresponding environment variables.
// Note: the Azure client secret is NOT a CLI flag for security reasons;
// use AZURE_CLIENT_SECRET instead.
type CloudAuthFlags struct {
	AWSIAM    bool   // --aws-iam
	AWSRegion string // Overrides $AWS_REGION

	Azure         bool   // --azure
	AzureTenantID string // Overrides $AZURE_TENANT_ID
	AzureClientID string // Overrides $AZURE_CLIENT_ID

	GoogleInstance string // --google-instance (project:region:instance)
}

// EnvVars represents PostgreSQL standard environment variables plus the
// cloud provider variables taqload understands.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHOST       string
	PGPORT       string
	PGUSER       string
	PGPASSWORD   string // discouraged, use .pgpass instead
	PGDATABASE   string
	PGSSLMODE    string
	DATABASE_URL string // Full connection string (Heroku/Rails convention)

	AWS_REGION string

	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string
}

// LoadFromEnvironment loads PostgreSQL and cloud provider environment variables.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:              os.Getenv("PGHOST"),
		PGPORT:              os.Getenv("PGPORT"),
		PGUSER:              os.Getenv("PGUSER"),
		PGPASSWORD:          os.Getenv("PGPASSWORD"),
		PGDATABASE:          os.Getenv("PGDATABASE"),
		PGSSLMODE:           os.Getenv("PGSSLMODE"),
		DATABASE_URL:        os.Getenv("DATABASE_URL"),
		AWS_REGION:          os.Getenv("AWS_REGION"),
		AZURE_TENANT_ID:     os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:     os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET: os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

// ResolveConnectionParams resolves connection parameters using
// PostgreSQL-standard precedence:
//
//  1. Connection string flag (--connection) - if provided, parse and use directly
//  2. Granular flags (-H, -p, -U, -d) - if any provided, build config from flags
//  3. DATABASE_URL environment variable - fallback if no granular params
//  4. Environment variables (PGHOST, PGPORT, ...) then taqload.yaml
//  5. Defaults (localhost:5432, prefer SSL)
//
// Cloud IAM authentication: if cloud flags are set (or the Azure environment
// variables are present), the AuthMethod and provider parameters are attached
// to the config. CLI flags take precedence over environment variables.
//
// Returns an error if BOTH --connection and granular flags are provided;
// the ambiguity is rejected rather than guessed at.
func ResolveConnectionParams(
	connStringFlag string,
	granularFlags *GranularConnFlags,
	cloudFlags *CloudAuthFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*taqload.ConnectionConfig, error) {
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if cloudFlags == nil {
		cloudFlags = &CloudAuthFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}

	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, fmt.Errorf(
			"cannot specify both --connection and granular flags (-H, -p, -U)\n" +
				"Choose one approach:\n" +
				"  1. Connection string: --connection \"postgresql://user@localhost:5432/marketdata\"\n" +
				"  2. Granular flags: -H localhost -p 5432 -U myuser -d marketdata\n" +
				"  3. Environment variables: export PGHOST=localhost PGPORT=5432 PGUSER=myuser",
		)
	}

	var cfg *taqload.ConnectionConfig
	var err error

	switch {
	case connStringFlag != "":
		cfg, err = resolveFromConnectionString(connStringFlag, envVars)
	case granularFlags.IsEmpty() && envVars.DATABASE_URL != "":
		cfg, err = resolveFromConnectionString(envVars.DATABASE_URL, envVars)
	default:
		cfg, err = resolveFromGranularParams(granularFlags, envVars, projectConfig)
	}
	if err != nil {
		return nil, err
	}

	// The -d flag overrides the database from any source.
	if granularFlags.Database != "" {
		cfg.Database = granularFlags.Database
	}

	if err := applyCloudAuth(cfg, cloudFlags, envVars, projectConfig); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyCloudAuth selects the authentication method from cloud flags,
// environment, and project config. At most one cloud provider may be active.
func applyCloudAuth(cfg *taqload.ConnectionConfig, flags *CloudAuthFlags, env *EnvVars, projectConfig *config.ProjectConfig) error {
	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	awsEnabled := flags.AWSIAM || pc.AuthMethod == "aws_iam"
	googleInstance := flags.GoogleInstance
	if googleInstance == "" {
		googleInstance = pc.GoogleInstance
	}
	azureEnabled := flags.Azure || pc.AuthMethod == "azure" ||
		flags.AzureTenantID != "" || flags.AzureClientID != "" ||
		env.AZURE_TENANT_ID != "" || env.AZURE_CLIENT_ID != ""

	enabled := 0
	for _, on := range []bool{awsEnabled, googleInstance != "", azureEnabled} {
		if on {
			enabled++
		}
	}
	if enabled > 1 {
		return fmt.Errorf("at most one cloud authentication method may be enabled: %w", taqload.ErrInvalidConfig)
	}

	switch {
	case awsEnabled:
		cfg.AuthMethod = taqload.AuthMethodAWSIAM
		cfg.AWSRegion = flags.AWSRegion
		if cfg.AWSRegion == "" {
			cfg.AWSRegion = env.AWS_REGION
		}
		if cfg.AWSRegion == "" {
			cfg.AWSRegion = pc.AWSRegion
		}

	case googleInstance != "":
		cfg.AuthMethod = taqload.AuthMethodGoogleIAM
		cfg.GoogleInstance = googleInstance

	case azureEnabled:
		cfg.AuthMethod = taqload.AuthMethodAzureEntraID
		cfg.AzureTenantID = flags.AzureTenantID
		if cfg.AzureTenantID == "" {
			cfg.AzureTenantID = env.AZURE_TENANT_ID
		}
		if cfg.AzureTenantID == "" {
			cfg.AzureTenantID = pc.AzureTenantID
		}
		cfg.AzureClientID = flags.AzureClientID
		if cfg.AzureClientID == "" {
			cfg.AzureClientID = env.AZURE_CLIENT_ID
		}
		if cfg.AzureClientID == "" {
			cfg.AzureClientID = pc.AzureClientID
		}
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	}

	return nil
}

// resolveFromConnectionString parses a connection string, applying
// environment variables as fallbacks for parameters it does not specify
// (following PostgreSQL's libpq behavior).
func resolveFromConnectionString(connStr string, envVars *EnvVars) (*taqload.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}

	if cfg.SSLMode == "" && envVars != nil && envVars.PGSSLMODE != "" {
		cfg.SSLMode = envVars.PGSSLMODE
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "prefer"
	}

	return cfg, nil
}

// resolveFromGranularParams builds a ConnectionConfig from granular flags,
// environment variables, and taqload.yaml.
//
// Precedence for each parameter (following PostgreSQL standards):
//  1. CLI flag (highest priority)
//  2. Environment variable
//  3. taqload.yaml
//  4. Default value (lowest priority)
func resolveFromGranularParams(
	flags *GranularConnFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*taqload.ConnectionConfig, error) {
	cfg := &taqload.ConnectionConfig{
		AuthMethod:       taqload.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	// Host: flag > PGHOST > taqload.yaml > default
	cfg.Host = flags.Host
	if cfg.Host == "" {
		cfg.Host = envVars.PGHOST
	}
	if cfg.Host == "" {
		cfg.Host = pc.Host
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}

	// Port: flag > PGPORT > taqload.yaml > default
	if flags.Port != 0 {
		cfg.Port = flags.Port
	} else if envVars.PGPORT != "" {
		port, err := strconv.Atoi(envVars.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value '%s': must be an integer", envVars.PGPORT)
		}
		cfg.Port = port
	} else if pc.Port != 0 {
		cfg.Port = pc.Port
	} else {
		cfg.Port = 5432
	}

	// Username: flag > PGUSER > taqload.yaml > current OS user
	cfg.Username = flags.Username
	if cfg.Username == "" {
		cfg.Username = envVars.PGUSER
	}
	if cfg.Username == "" {
		cfg.Username = pc.Username
	}
	if cfg.Username == "" {
		if currentUser := os.Getenv("USER"); currentUser != "" {
			cfg.Username = currentUser
		} else if currentUser := os.Getenv("USERNAME"); currentUser != "" {
			cfg.Username = currentUser
		}
	}

	cfg.Password = envVars.PGPASSWORD

	// Database: flag > PGDATABASE > taqload.yaml
	cfg.Database = flags.Database
	if cfg.Database == "" {
		cfg.Database = envVars.PGDATABASE
	}
	if cfg.Database == "" {
		cfg.Database = pc.Database
	}

	// SSLMode: flag > PGSSLMODE > taqload.yaml > default
	cfg.SSLMode = flags.SSLMode
	if cfg.SSLMode == "" {
		cfg.SSLMode = envVars.PGSSLMODE
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = pc.SSLMode
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "prefer"
	}

	return cfg, nil
}
