package cli

import (
	"os"

	"github.com/vvka-141/taqload/internal/config"
	"github.com/vvka-141/taqload/internal/db"
	"github.com/vvka-141/taqload/pkg/taqload"
)

// connectionStringFromEnv returns the connection string from
// TAQLOAD_CONNECTION_STRING. DATABASE_URL is handled by the resolver so it
// only applies when no granular flags are given.
func connectionStringFromEnv() string {
	return os.Getenv("TAQLOAD_CONNECTION_STRING")
}

// resolveConnection consolidates connection resolution for the import command.
// It handles the connection string flag, granular flags, cloud IAM flags, and
// environment variables.
func resolveConnection(
	connStringFlag string,
	granularFlags *db.GranularConnFlags,
	cloudFlags *db.CloudAuthFlags,
	projectConfig *config.ProjectConfig,
) (*taqload.ConnectionConfig, error) {
	connString := connStringFlag
	if connString == "" {
		connString = connectionStringFromEnv()
	}

	envVars := db.LoadFromEnvironment()

	return db.ResolveConnectionParams(
		connString,
		granularFlags,
		cloudFlags,
		envVars,
		projectConfig,
	)
}
