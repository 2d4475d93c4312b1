package cli

import (
	"os"

	"gopkg.in/yaml.v3"
)

// HostConfig is the host-side convenience file of §4.9's supplemental
// section: serial device, baud, and default motion parameters; no CLI
// command reads DefaultMove. It never touches firmware NVM and
// has no relation to config.Table, the wire-protocol parameter table.
type HostConfig struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`

	DefaultMove struct {
		MaxVelocity  uint32 `yaml:"max_velocity"`
		Acceleration uint32 `yaml:"acceleration"`
	} `yaml:"default_move"`
}

// DefaultHostConfig mirrors the values host/link.DefaultConfig assumes,
// so a missing config file still produces a usable connection.
func DefaultHostConfig() HostConfig {
	cfg := HostConfig{Device: "/dev/ttyACM0", Baud: 250000}
	cfg.DefaultMove.MaxVelocity = 10000
	cfg.DefaultMove.Acceleration = 50000
	return cfg
}

// LoadHostConfig reads and parses a YAML host config file, filling any
// field the document omits with DefaultHostConfig's value.
func LoadHostConfig(path string) (HostConfig, error) {
	cfg := DefaultHostConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return HostConfig{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return HostConfig{}, err
	}
	return cfg, nil
}
