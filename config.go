package quill

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the numeric tolerances of the kernel. They were fixed
// literals historically; exposing them matters because both are scale
// sensitive: BoxBoundaryEpsilon is a world-space distance, and scenes built
// at millimetre or kilometre scale want a different value.
type Config struct {
	// BoxBoundaryEpsilon absorbs floating-point noise when checking that a
	// ray/box entry point lies on the box surface. Units: world distance.
	BoxBoundaryEpsilon float64 `yaml:"box_boundary_epsilon"`

	// ParallelAxisThreshold is the minimum squared length of a separating
	// axis candidate built from a cross product of unit axes. Axes below it
	// come from near-parallel edge pairs and are numerically unstable, so
	// the SAT loop skips them. Dimensionless, in (0, 1].
	ParallelAxisThreshold float64 `yaml:"parallel_axis_threshold"`
}

// DefaultConfig returns the tolerances the kernel has always shipped with.
func DefaultConfig() Config {
	return Config{
		BoxBoundaryEpsilon:    1e-4,
		ParallelAxisThreshold: 0.99,
	}
}

// LoadConfig reads tolerances from a YAML file. A missing file is not an
// error: the defaults are returned, so a config file stays optional.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Detector runs every ray and pairwise intersection test under one set of
// tolerances. It is stateless apart from its Config, so a single Detector
// is safe to share between goroutines testing disjoint pairs.
type Detector struct {
	Config Config
}

// NewDetector creates a detector with the given tolerances.
func NewDetector(cfg Config) *Detector {
	return &Detector{Config: cfg}
}
