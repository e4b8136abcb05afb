package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/milosz-sonski/training-plans-api/internal/domain"
	"gopkg.in/yaml.v3"
)

// SeedFile is the on-disk layout of the seed plans file
type SeedFile struct {
	Plans []*domain.TrainingPlan `yaml:"plans"`
}

// LoadSeedPlans reads the seed plans from the YAML file at path and
// validates every entry
func LoadSeedPlans(path string) ([]*domain.TrainingPlan, error) {
	if path == "" {
		return nil, fmt.Errorf("seed file path is not set")
	}

	// Check if the file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Try to resolve relative to current working directory
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current working directory: %w", err)
		}

		resolved := filepath.Join(cwd, path)
		if _, err := os.Stat(resolved); os.IsNotExist(err) {
			return nil, fmt.Errorf("seed file not found at %s", path)
		}
		path = resolved
	}

	yamlData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(yamlData, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file YAML: %w", err)
	}

	if err := validateSeed(&seed); err != nil {
		return nil, err
	}

	return seed.Plans, nil
}

// validateSeed rejects empty files, invalid plans and repeated explicit ids
func validateSeed(seed *SeedFile) error {
	if len(seed.Plans) == 0 {
		return fmt.Errorf("no plans defined in seed file")
	}

	ids := make(map[int64]bool, len(seed.Plans))
	for i, plan := range seed.Plans {
		if plan == nil {
			return fmt.Errorf("seed plan at index %d is empty", i)
		}
		if plan.ID < 0 {
			return fmt.Errorf("seed plan at index %d has negative id: %d", i, plan.ID)
		}
		if plan.ID != 0 {
			if ids[plan.ID] {
				return fmt.Errorf("seed plan id %d is defined more than once", plan.ID)
			}
			ids[plan.ID] = true
		}
		if err := plan.Validate(); err != nil {
			return fmt.Errorf("seed plan at index %d is invalid: %w", i, err)
		}
	}

	return nil
}
