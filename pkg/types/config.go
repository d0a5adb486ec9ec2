// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "news-sentiment/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ArchiveConfig holds settings for the Chronicling America search API.
type ArchiveConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the search endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// PageSize is the number of rows requested per page (default 20).
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`
}

// CollectConfig holds settings for the collect stage.
type CollectConfig struct {
	Archive ArchiveConfig `json:"archive" yaml:"archive" mapstructure:"archive"`

	// Keywords are the words of interest, any of which may appear.
	Keywords []string `json:"keywords" yaml:"keywords" mapstructure:"keywords"`

	// YearMin and YearMax bound the query range (inclusive).
	YearMin int `json:"year_min" yaml:"year_min" mapstructure:"year_min"`
	YearMax int `json:"year_max" yaml:"year_max" mapstructure:"year_max"`

	// Increment is the number of years per interval.
	Increment int `json:"increment" yaml:"increment" mapstructure:"increment"`

	// MaxResults caps the records collected per interval.
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// OutputDir receives result artifacts and the log artifact.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// CachePath is the SQLite page cache. Empty disables caching.
	CachePath string `json:"cache_path" yaml:"cache_path" mapstructure:"cache_path"`

	// Cooldown is the wait before the single retry of a failed page (default 1m).
	Cooldown time.Duration `json:"cooldown" yaml:"cooldown" mapstructure:"cooldown"`

	// ResumeFrom, when non-zero, drops planned intervals that end before
	// this year while keeping the original interval alignment.
	ResumeFrom int `json:"resume_from,omitempty" yaml:"resume_from,omitempty" mapstructure:"resume_from"`

	// SkipLogged skips intervals that already have an entry in the log.
	SkipLogged bool `json:"skip_logged" yaml:"skip_logged" mapstructure:"skip_logged"`
}

// SentimentBackend identifies the sentiment scoring implementation.
type SentimentBackend string

const (
	SentimentLexicon SentimentBackend = "lexicon"
	SentimentHTTP    SentimentBackend = "http"
)

// SentimentConfig holds settings for sentiment scoring.
type SentimentConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Backend selects the scorer: lexicon or http.
	Backend SentimentBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// URL is the scoring endpoint for the http backend.
	URL string `json:"url" yaml:"url" mapstructure:"url"`

	// APIKey is sent as a bearer token to the http backend.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// ExportFormat selects the format of the aggregate export written by report.
type ExportFormat string

const (
	ExportNone ExportFormat = ""
	ExportYAML ExportFormat = "yaml"
	ExportJSON ExportFormat = "json"
)

// ReportConfig holds settings for the report stage.
type ReportConfig struct {
	// LogPath is the collector log artifact to report on.
	LogPath string `json:"log_path" yaml:"log_path" mapstructure:"log_path"`

	// ComparisonPath is an annual CSV dataset with year and count columns.
	ComparisonPath string `json:"comparison_path" yaml:"comparison_path" mapstructure:"comparison_path"`

	// ComparisonLabel names the comparison dataset in charts.
	ComparisonLabel string `json:"comparison_label" yaml:"comparison_label" mapstructure:"comparison_label"`

	// OutputPath is the rendered HTML chart file.
	OutputPath string `json:"output_path" yaml:"output_path" mapstructure:"output_path"`

	// Export additionally writes the yearly aggregates as YAML or JSON.
	Export ExportFormat `json:"export" yaml:"export" mapstructure:"export"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// File, when set, receives diagnostics through a rotating writer.
	File string `json:"file" yaml:"file" mapstructure:"file"`

	// MaxSizeMB is the rotation threshold for File (default 10).
	MaxSizeMB int `json:"max_size_mb" yaml:"max_size_mb" mapstructure:"max_size_mb"`

	// MaxBackups is the number of rotated files kept (default 3).
	MaxBackups int `json:"max_backups" yaml:"max_backups" mapstructure:"max_backups"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Collect   CollectConfig   `json:"collect" yaml:"collect" mapstructure:"collect"`
	Sentiment SentimentConfig `json:"sentiment" yaml:"sentiment" mapstructure:"sentiment"`
	Report    ReportConfig    `json:"report" yaml:"report" mapstructure:"report"`
	Log       LogConfig       `json:"log" yaml:"log" mapstructure:"log"`
}
