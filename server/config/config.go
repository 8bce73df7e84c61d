// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/SoftbearStudios/tileworld/server/cloud"
	"github.com/SoftbearStudios/tileworld/server/stream"
	"github.com/SoftbearStudios/tileworld/server/terrain"
	"gopkg.in/yaml.v3"
)

// Config is everything needed to run a world.
type Config struct {
	Seed    int64          `yaml:"seed"`
	Preset  string         `yaml:"preset"`
	World   terrain.Config `yaml:"world"` // overrides on top of Preset
	Stream  stream.Config  `yaml:"stream"`
	Storage cloud.Options  `yaml:"storage"`
	SaveKey string         `yaml:"save_key"`
}

func Default() Config {
	return Config{
		Seed:    terrain.Seed,
		Preset:  "default",
		World:   terrain.DefaultConfig(),
		Stream:  stream.DefaultConfig(),
		Storage: cloud.DefaultOptions(),
		SaveKey: "world",
	}
}

// Load reads a YAML file. Fields it omits keep their defaults, and world fields
// default to the named preset.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(raw)
}

func Parse(raw []byte) (Config, error) {
	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(raw, &head); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	c := Default()
	if head.Preset != "" {
		c.Preset = head.Preset
		c.World = terrain.Preset(head.Preset)
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

func (c Config) Validate() error {
	if err := c.World.Validate(); err != nil {
		return err
	}
	if err := c.Stream.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if c.SaveKey == "" {
		return errors.New("empty save key")
	}
	return nil
}
