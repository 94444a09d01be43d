// Package config exposes the read-only daemon tunables collaborator of
// spec.md §6 ("Config: read-only accessor for tunables"). Values come from
// a YAML file (the fayaz-modz-dbox teacher-pack sibling loads
// /etc/dbox/config.yaml the same way) with struct-tag defaults applied
// first.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable the property catalogue consults.
type Config struct {
	RtNice                int     `yaml:"rt_nice"`
	RtPriority             int     `yaml:"rt_priority"`
	HighNice               int     `yaml:"high_nice"`
	EnableSmart            bool    `yaml:"enable_smart"`
	StdoutLimitMax         uint64  `yaml:"stdout_limit_max"`
	MinMemoryLimit         uint64  `yaml:"min_memory_limit"`
	MemoryGuaranteeReserve uint64  `yaml:"memory_guarantee_reserve"`
	PrivateMax             int     `yaml:"private_max"`
	TotalMemory            uint64  `yaml:"total_memory"`
	NumCores               int     `yaml:"num_cores"`
	HasAmbientCapabilities bool    `yaml:"has_ambient_capabilities"`
}

// Default returns the tunables a fresh daemon starts with before a config
// file is read, mirroring the conservative defaults the source ships.
func Default() *Config {
	return &Config{
		RtNice:                 -20,
		RtPriority:             1,
		HighNice:               -10,
		EnableSmart:            false,
		StdoutLimitMax:         8 * 1024 * 1024,
		MinMemoryLimit:         1024 * 1024,
		MemoryGuaranteeReserve: 256 * 1024 * 1024,
		PrivateMax:             4096,
		TotalMemory:            0,
		NumCores:               1,
		HasAmbientCapabilities: true,
	}
}

// Load reads path (if non-empty and present) as YAML on top of Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
