package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// ErrInvalid is returned for configurations that cannot be used.
var ErrInvalid = errors.New("invalid config")

// Brain configures the clustering of the access samples.
type Brain struct {
	// Clusters is the number of access patterns to learn per table.
	Clusters int `json:"clusters"`
	// LearningRate is the weight of a new sample for its closest centroid.
	LearningRate float64 `json:"learning_rate"`
	// Tiles is the number of tiles to partition the columns into.
	Tiles int `json:"tiles"`
	// Seed is the random seed for the initial centroids.
	Seed int64 `json:"seed"`
	// Scale is the upper bound of the random initial centroid weights.
	Scale float64 `json:"scale"`
}

// DefaultBrain returns the default clustering config.
func DefaultBrain() Brain {
	return Brain{
		Clusters:     4,
		LearningRate: 0.05,
		Tiles:        2,
		Seed:         1,
		Scale:        1,
	}
}

// Validate checks the config for values the clusterer cannot work with.
func (b Brain) Validate() error {
	if b.Clusters < 1 {
		return fmt.Errorf("clusters must be positive '%d': %w", b.Clusters, ErrInvalid)
	}
	if b.LearningRate <= 0 || b.LearningRate > 1 {
		return fmt.Errorf("learning rate must be in (0,1] '%v': %w", b.LearningRate, ErrInvalid)
	}
	if b.Tiles < 1 {
		return fmt.Errorf("tiles must be positive '%d': %w", b.Tiles, ErrInvalid)
	}
	if b.Scale <= 0 {
		return fmt.Errorf("scale must be positive '%v': %w", b.Scale, ErrInvalid)
	}
	return nil
}

// Load loads the json config file into the given value.
func Load(file string, v interface{}) error {
	b, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("could not load config '%s': %w", file, err)
	}
	err = json.Unmarshal(b, v)
	if err != nil {
		return fmt.Errorf("could not unmarshal config '%s': %w", file, err)
	}
	return nil
}

// LoadBrain loads the clustering config from the given file.
// Fields missing from the file keep their default value.
func LoadBrain(file string) (Brain, error) {
	cfg := DefaultBrain()
	if err := Load(file, &cfg); err != nil {
		return Brain{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Brain{}, fmt.Errorf("config '%s': %w", file, err)
	}
	log.Info().
		Str("file", file).
		Int("clusters", cfg.Clusters).
		Float64("rate", cfg.LearningRate).
		Int("tiles", cfg.Tiles).
		Msg("loaded config")
	return cfg, nil
}
