// Package config loads the table-level YAML configuration that drives the
// indexing pipeline: parallelism knobs, column-stats policy, and the
// storage backend a run targets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"hudi-metaindex/metaindex"
)

// Config is the on-disk shape of a table's indexing configuration.
type Config struct {
	BasePath     string `yaml:"base_path"`
	TimelinePath string `yaml:"timeline_path"`

	Storage struct {
		Kind   string `yaml:"kind"` // "local" or "s3"
		Bucket string `yaml:"bucket,omitempty"`
		Prefix string `yaml:"prefix,omitempty"`
		Region string `yaml:"region,omitempty"`
	} `yaml:"storage"`

	Indexing struct {
		BloomIndexParallelism       int `yaml:"bloom_index_parallelism"`
		ColumnStatsIndexParallelism int `yaml:"column_stats_index_parallelism"`
		ListingParallelism          int `yaml:"listing_parallelism"`

		BloomFilterType string `yaml:"bloom_filter_type"`

		AllColumnStatsIndexEnabled bool     `yaml:"all_column_stats_index_enabled"`
		PopulateMetaFields         bool     `yaml:"populate_meta_fields"`
		RecordKeyFields            []string `yaml:"record_key_fields"`

		FilesFileGroupCount       int `yaml:"files_file_group_count"`
		BloomFilterFileGroupCount int `yaml:"bloom_filter_file_group_count"`
		ColumnStatsFileGroupCount int `yaml:"column_stats_file_group_count"`
	} `yaml:"indexing"`

	// DatePartitioned opts into FL's three-level date-partitioning
	// shortcut (spec §4.7, §9 Open Question) — off by default.
	DatePartitioned bool `yaml:"date_partitioned"`
}

// Load reads and parses a table configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.BasePath == "" {
		return nil, fmt.Errorf("config %s: base_path is required", path)
	}
	return &cfg, nil
}

// MetaindexConfig projects the indexing knobs into a metaindex.Config,
// the shape the builders actually consume.
func (c *Config) MetaindexConfig() metaindex.Config {
	i := c.Indexing
	return metaindex.Config{
		BloomIndexParallelism:       i.BloomIndexParallelism,
		ColumnStatsIndexParallelism: i.ColumnStatsIndexParallelism,
		BloomFilterType:             i.BloomFilterType,
		AllColumnStatsIndexEnabled:  i.AllColumnStatsIndexEnabled,
		PopulateMetaFields:          i.PopulateMetaFields,
		RecordKeyFields:             i.RecordKeyFields,
		FilesFileGroupCount:         i.FilesFileGroupCount,
		BloomFilterFileGroupCount:   i.BloomFilterFileGroupCount,
		ColumnStatsFileGroupCount:   i.ColumnStatsFileGroupCount,
	}
}
