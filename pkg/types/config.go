package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "sc-decisions/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// StorageBackend identifies where raw decision folders are read from.
type StorageBackend string

const (
	BackendLocal StorageBackend = "local"
	BackendS3    StorageBackend = "s3"
)

// StorageConfig selects and configures the raw-source bucket.
type StorageConfig struct {
	// Backend is "local" or "s3". S3 covers any S3-compatible endpoint,
	// including Cloudflare R2.
	Backend StorageBackend `json:"backend" yaml:"backend"`

	// LocalDir is the root directory for the local backend.
	LocalDir string `json:"local_dir" yaml:"local_dir"`

	Bucket          string `json:"bucket" yaml:"bucket"`
	Endpoint        string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id,omitempty" yaml:"access_key_id,omitempty"`
	SecretAccessKey string `json:"secret_access_key,omitempty" yaml:"secret_access_key,omitempty"`
}

// DatabaseConfig locates the target SQLite database.
type DatabaseConfig struct {
	Path string `json:"path" yaml:"path"`
}

// RosterConfig locates the justice roster.
type RosterConfig struct {
	HTTPConfig `yaml:",inline"`

	// Path is the local roster YAML file.
	Path string `json:"path" yaml:"path"`

	// URL is the GitHub contents API URL used by "roster fetch".
	URL string `json:"url" yaml:"url"`

	// Token is the GitHub token for private roster repositories.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
}

// PDFConfig configures the PDF-extraction database source.
type PDFConfig struct {
	// DBPath is the SQLite file produced by the extraction job.
	DBPath string `json:"db_path" yaml:"db_path"`

	// Query selects rows; columns must match the PDF row layout.
	Query string `json:"query,omitempty" yaml:"query,omitempty"`

	// BaseURL absolutizes relative PDF links.
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// SegmentConfig tunes the text segmenter.
type SegmentConfig struct {
	// MinChars is the exclusive lower bound on segment length (default 10).
	MinChars int `json:"min_chars" yaml:"min_chars"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// Format is "json" or "console".
	Format string `json:"format" yaml:"format"`
}

// PipelineConfig groups all configuration for the ingestion pipeline.
type PipelineConfig struct {
	Storage  StorageConfig  `json:"storage" yaml:"storage"`
	Database DatabaseConfig `json:"database" yaml:"database"`
	Roster   RosterConfig   `json:"roster" yaml:"roster"`
	PDF      PDFConfig      `json:"pdf" yaml:"pdf"`
	Segment  SegmentConfig  `json:"segment" yaml:"segment"`
	Log      LogConfig      `json:"log" yaml:"log"`
}
