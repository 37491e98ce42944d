// Package sections maps top-level benchmark section numbers to display
// names.
//
// The canonical mapping ships as an embedded preset; user YAML files are
// sparse overrides merged over it, so a config naming only section 3
// keeps the defaults for everything else. Unmapped sections fall back to
// "Section N".
package sections

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/benchsheet/benchsheet/presets"
)

// PresetFile is the embedded preset consulted by Default.
const PresetFile = "sections.yaml"

// Config holds the section-name mapping.
type Config struct {
	// Names maps top-level section numbers to display names.
	Names map[int]string `yaml:"names" json:"names"`
}

var (
	defaultOnce sync.Once
	defaultCfg  *Config
)

// Default returns the canonical mapping parsed from the embedded preset.
// Each call returns an independent copy so callers can merge over it.
func Default() *Config {
	defaultOnce.Do(func() {
		data, err := presets.FS.ReadFile(PresetFile)
		if err != nil {
			panic("sections: embedded preset missing: " + err.Error())
		}
		cfg := &Config{}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			panic("sections: embedded preset invalid: " + err.Error())
		}
		defaultCfg = cfg
	})

	names := make(map[int]string, len(defaultCfg.Names))
	for k, v := range defaultCfg.Names {
		names[k] = v
	}
	return &Config{Names: names}
}

// Load reads a user mapping from a YAML file and merges it over the
// defaults. Keys present in the file win; everything else keeps its
// canonical name.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse sections config %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the effective mapping to a YAML file, creating parent
// directories as needed.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks the mapping for errors and returns descriptive
// validation errors instead of silently correcting values.
func Validate(cfg *Config) error {
	var errs []string

	for num, name := range cfg.Names {
		if num <= 0 {
			errs = append(errs, fmt.Sprintf("section number %d: must be positive", num))
		}
		if strings.TrimSpace(name) == "" {
			errs = append(errs, fmt.Sprintf("section %d: name must not be empty", num))
		}
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("sections config validation: %s", strings.Join(errs, "; "))
	}

	return nil
}

// Name returns the display name for a section key (the leading component
// of a control number), falling back to "Section N" when unmapped.
func (c *Config) Name(section string) string {
	if n, err := strconv.Atoi(section); err == nil {
		if name, ok := c.Names[n]; ok {
			return name
		}
	}
	return "Section " + section
}

// Numbers returns the mapped section numbers in ascending order.
func (c *Config) Numbers() []int {
	nums := make([]int, 0, len(c.Names))
	for n := range c.Names {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}
