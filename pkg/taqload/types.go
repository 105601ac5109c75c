package taqload

import (
	"errors"
	"fmt"
	"time"
)

// ImportConfig contains all parameters needed for an import run.
type ImportConfig struct {
	// SourcePath is the raw TAQ trade file to import (read once, never modified)
	SourcePath string

	// Table is the destination table for COPY
	Table string

	// Delimiter is the single-character field separator of the feed
	Delimiter string

	// ChunkCount is the number of chunk files the cleaned source is split into
	ChunkCount int

	// Workers bounds load concurrency. Zero means "derive a sensible bound"
	// (min of ChunkCount and twice the CPU count); it is deliberately
	// decoupled from ChunkCount so large chunk counts cannot oversubscribe
	// the host or the database.
	Workers int

	// ConnectionString is the PostgreSQL connection string (URI or ADO.NET format)
	ConnectionString string

	// TempDir is the base directory for the per-run working directory.
	// Empty means os.TempDir().
	TempDir string

	// KeepTemp retains the run directory even when every chunk succeeds.
	KeepTemp bool

	// Truncate empties the destination table before loading.
	// Requires interactive confirmation unless Force is set.
	Truncate bool

	// Force bypasses interactive approval when used with Truncate
	Force bool

	// Timeout is the global timeout for the entire run
	Timeout time.Duration

	// ChunkTimeout bounds a single chunk load. Zero means no per-chunk limit;
	// the global Timeout still applies.
	ChunkTimeout time.Duration

	// JSONReportPath, when non-empty, is where the machine-readable run
	// report is written after the run completes.
	JSONReportPath string

	// Verbose enables detailed logging
	Verbose bool

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod
}

// Validate checks if the ImportConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *ImportConfig) Validate() error {
	var errs []error

	if c.SourcePath == "" {
		errs = append(errs, fmt.Errorf("SourcePath is required: %w", ErrInvalidConfig))
	}

	if c.Table == "" {
		errs = append(errs, fmt.Errorf("Table is required: %w", ErrInvalidConfig))
	}

	if c.ConnectionString == "" {
		errs = append(errs, fmt.Errorf("ConnectionString is required: %w", ErrInvalidConfig))
	}

	if c.ChunkCount < 1 {
		errs = append(errs, fmt.Errorf("ChunkCount must be at least 1, got %d: %w", c.ChunkCount, ErrInvalidConfig))
	}

	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("Workers cannot be negative: %w", ErrInvalidConfig))
	}

	if len(c.Delimiter) != 1 {
		errs = append(errs, fmt.Errorf("Delimiter must be a single character, got %q: %w", c.Delimiter, ErrInvalidConfig))
	}

	// Force requires Truncate to be set
	if c.Force && !c.Truncate {
		errs = append(errs, fmt.Errorf("force flag requires truncate to be enabled: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 || c.ChunkTimeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// Chunk is one contiguous line-range slice of the cleaned source,
// materialized as its own file. It is the unit of parallel work.
type Chunk struct {
	// Index is the 0-based position of the chunk within the cleaned file
	Index int

	// Path is the chunk file inside the run directory
	Path string

	// StartLine and EndLine are the 1-indexed inclusive line range within
	// the cleaned file. Ranges of all chunks tile [1, L] with no overlap
	// and no gap.
	StartLine int
	EndLine   int
}

// Lines returns the number of lines the chunk covers.
func (c Chunk) Lines() int {
	return c.EndLine - c.StartLine + 1
}

// ChunkStatus is the terminal state of one chunk load.
type ChunkStatus int

const (
	StatusSuccess ChunkStatus = iota
	StatusFailed
)

// String returns the status in the form used by progress lines and reports.
func (s ChunkStatus) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// ChunkResult is the outcome of loading one chunk. Produced exactly once per
// chunk by a worker and immutable after creation.
type ChunkResult struct {
	Chunk   Chunk
	Status  ChunkStatus
	Elapsed time.Duration

	// Err is the loader diagnostic for failed chunks, nil on success.
	Err error
}

// RunSummary holds the aggregate statistics of a completed run.
// It is derived from the per-chunk results and never persisted
// (the optional JSON report is written from it).
type RunSummary struct {
	TotalChunks  int
	Succeeded    int
	Failed       int
	TotalElapsed time.Duration

	// AvgSuccess is the mean duration of successful chunks.
	// Only meaningful when Succeeded > 0; see AvgSuccessValid.
	AvgSuccess time.Duration

	// AvgSuccessValid reports whether AvgSuccess is defined.
	// False when no chunk succeeded, avoiding a division by zero.
	AvgSuccessValid bool

	// CleanedUp reports whether temporary artifacts were deleted.
	CleanedUp bool
}

// AllSucceeded reports whether every chunk loaded.
func (s *RunSummary) AllSucceeded() bool {
	return s.Failed == 0 && s.TotalChunks > 0
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID).
	// If all three are provided, Service Principal authentication is used.
	// If none are provided, the DefaultAzureCredential chain is used.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is required for AWS RDS IAM authentication.
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name
	// (project:region:instance), required for Google IAM authentication.
	GoogleInstance string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}
