package scheduler

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/planwise/planwise/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

var (
	presetsOnce sync.Once
	presets     []models.PersonalityPreset
	presetsErr  error
)

func loadPresets() {
	var doc struct {
		Presets []models.PersonalityPreset `yaml:"presets"`
	}
	if err := yaml.Unmarshal(presetsYAML, &doc); err != nil {
		presetsErr = fmt.Errorf("failed to parse embedded presets: %w", err)
		return
	}
	presets = doc.Presets
}

// Presets returns the shipped personality presets in declaration order.
// Callers get a copy so handlers can annotate entries without touching
// the shared embedded data.
func Presets() ([]models.PersonalityPreset, error) {
	presetsOnce.Do(loadPresets)
	if presetsErr != nil {
		return nil, presetsErr
	}
	out := make([]models.PersonalityPreset, len(presets))
	copy(out, presets)
	return out, nil
}

// PresetByKey looks up a preset by its key.
func PresetByKey(key string) (*models.PersonalityPreset, error) {
	all, err := Presets()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Key == key {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("unknown personality preset: %s", key)
}
