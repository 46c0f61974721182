package valuestore

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables needed to open a value store. Zero-value
// fields are filled in by SetDefaults.
type Config struct {
	// PebbleDir is the directory the postlist and termlist tables are
	// opened under, as PebbleDir/postlist and PebbleDir/termlist.
	PebbleDir string `yaml:"pebble_dir"`

	// ChunkSizeThreshold is the tag length, in bytes, at or above which
	// a chunk is flushed during a merge.
	ChunkSizeThreshold int `yaml:"chunk_size_threshold"`

	// WithTermlist controls whether the termlist table (and therefore
	// GetAllValues) is available at all.
	WithTermlist bool `yaml:"with_termlist"`
}

// SetDefaults fills in zero-value fields with the subsystem's defaults.
func (c *Config) SetDefaults() {
	if c.PebbleDir == "" {
		c.PebbleDir = "valuestore-data"
	}
	if c.ChunkSizeThreshold == 0 {
		c.ChunkSizeThreshold = DefaultChunkSizeThreshold
	}
}

// LoadConfig reads and parses a YAML config file, applying defaults to
// whatever it leaves unset.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	return &cfg, nil
}
