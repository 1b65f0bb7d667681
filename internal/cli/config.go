package cli

import (
	"time"

	"github.com/BurntSushi/toml"

	"github.com/streamlens/streamlens/pkg/errors"
	"github.com/streamlens/streamlens/pkg/geom"
)

// fileConfig is the optional TOML configuration file accepted by the demo
// commands via --config. Flags given on the command line win over file
// values.
//
//	[reveal]
//	chars_per_update = 2
//	update_interval_ms = 10
//
//	[transform]
//	debounce_delay_ms = 100
//	original = { width = 1920.0, height = 1080.0 }
//	display  = { width = 960.0, height = 540.0 }
type fileConfig struct {
	Reveal    revealFileConfig    `toml:"reveal"`
	Transform transformFileConfig `toml:"transform"`
}

type revealFileConfig struct {
	CharsPerUpdate   int `toml:"chars_per_update"`
	UpdateIntervalMS int `toml:"update_interval_ms"`
}

func (c revealFileConfig) interval() time.Duration {
	return time.Duration(c.UpdateIntervalMS) * time.Millisecond
}

type transformFileConfig struct {
	DebounceDelayMS int              `toml:"debounce_delay_ms"`
	Original        *geom.Dimensions `toml:"original"`
	Display         *geom.Dimensions `toml:"display"`
}

// loadConfig reads and decodes a TOML config file. Unknown keys are a
// decode error so typos surface instead of silently applying defaults.
func loadConfig(path string) (*fileConfig, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to parse config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"unknown config key %q in %s", undecoded[0].String(), path)
	}
	return &cfg, nil
}
