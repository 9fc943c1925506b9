// Package config provides benchmark configuration loading and
// validation.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BenchmarkConfig is the validated configuration for one benchmark
// run. It is constructed once, before any dispatch, and is immutable
// for the run's duration.
//
// Example YAML:
//
//	table: orders
//	partitionKey: customer_id
//	sortKey: order_ts
//	partitionValue: "cust-1042"
//	sortStart: "2026-01-01"
//	sortEnd: "2026-02-01"
//	qps: 50
//	parallelism: 8
//	numQueries: 1000
//	warmupQueries: 50
//	region: us-west-2
type BenchmarkConfig struct {
	// Driver inputs.
	Rate        float64 `json:"qps" yaml:"qps"`
	Concurrency int     `json:"parallelism" yaml:"parallelism"`
	Warmup      int     `json:"warmupQueries" yaml:"warmupQueries"`
	Queries     int     `json:"numQueries" yaml:"numQueries"`

	// Range-query inputs, consumed by the operation builder.
	Table          string `json:"table" yaml:"table"`
	PartitionKey   string `json:"partitionKey" yaml:"partitionKey"`
	SortKey        string `json:"sortKey" yaml:"sortKey"`
	PartitionValue string `json:"partitionValue" yaml:"partitionValue"`
	SortStart      string `json:"sortStart" yaml:"sortStart"`
	SortEnd        string `json:"sortEnd" yaml:"sortEnd"`
	Region         string `json:"region" yaml:"region"`
}

// Default values matching the CLI flag defaults.
const (
	DefaultRate    = 10.0
	DefaultQueries = 100
	DefaultWarmup  = 10
	DefaultRegion  = "us-west-2"
)

// ApplyDefaults fills unset numeric fields with the standard defaults.
// Called on file-loaded configs, where omitted keys arrive as zero
// values; the CLI path gets the same defaults from its flag
// definitions.
func (c *BenchmarkConfig) ApplyDefaults() {
	if c.Rate == 0 {
		c.Rate = DefaultRate
	}
	if c.Concurrency == 0 {
		c.Concurrency = 1
	}
	if c.Queries == 0 {
		c.Queries = DefaultQueries
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
}

// Validate checks the driver inputs. Returns nil if valid, or a
// ValidationErrors collecting every violation. Validation failures are
// configuration errors: fatal, and raised before any dispatch.
func (c *BenchmarkConfig) Validate() error {
	errs := &ValidationErrors{}

	if c.Rate <= 0 {
		errs.Add("qps", fmt.Sprintf("target rate must be > 0, got %g", c.Rate))
	}
	if c.Concurrency < 1 {
		errs.Add("parallelism", fmt.Sprintf("concurrency limit must be >= 1, got %d", c.Concurrency))
	}
	if c.Warmup < 0 {
		errs.Add("warmupQueries", fmt.Sprintf("warmup count must be >= 0, got %d", c.Warmup))
	}
	if c.Queries < 0 {
		errs.Add("numQueries", fmt.Sprintf("query count must be >= 0, got %d", c.Queries))
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// ValidateQuery checks the range-query inputs that the operation
// builder needs.
func (c *BenchmarkConfig) ValidateQuery() error {
	errs := &ValidationErrors{}

	if c.Table == "" {
		errs.Add("table", "table name is required")
	}
	if c.PartitionKey == "" {
		errs.Add("partitionKey", "partition key name is required")
	}
	if c.SortKey == "" {
		errs.Add("sortKey", "sort key name is required")
	}
	if c.PartitionValue == "" {
		errs.Add("partitionValue", "partition key value is required")
	}
	if c.SortStart == "" {
		errs.Add("sortStart", "sort key range start is required")
	}
	if c.SortEnd == "" {
		errs.Add("sortEnd", "sort key range end is required")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// Load reads a benchmark configuration from a YAML (or JSON) file,
// applies defaults, and validates it.
func Load(path string) (*BenchmarkConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := &BenchmarkConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
