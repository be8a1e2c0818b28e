// Package config loads the CLI's YAML configuration file: the
// allocatable color budget, the caller/callee-saved split, and
// diagnostic toggles. This mirrors this repo's own precedent of a
// small yaml.v3-backed settings struct loaded ahead of the pipeline
// running (see cmd/ralph-cc's flag/config handling in the retrieval
// pack), adapted from ad hoc flag parsing into a single loadable file
// so a build can be reproduced from a checked-in config alongside its
// source.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables a YAML config file can set. Zero values
// are replaced by Defaults' values in Load. The CLI loads a Config
// when --config is given but does not apply it: the allocator and
// frame layout use the fixed vreg.RegNum, vreg.SaveStart and
// vcfg.ExtraStack constants.
type Config struct {
	// RegNum is the allocatable color budget; SaveStart splits it into
	// caller-saved (< SaveStart) and callee-saved (>= SaveStart) pools.
	RegNum    int `yaml:"reg_num"`
	SaveStart int `yaml:"save_start"`

	// ExtraStack is the reserved headroom below a frame's own
	// outgoing-argument area, in bytes.
	ExtraStack int `yaml:"extra_stack"`

	// Diagnostics holds per-stage dump toggles. No pass reads them;
	// the CLI's --dump-ir and --dump-asm flags are set independently.
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
}

// DiagnosticsConfig names dump toggles for intermediate stages. They
// are parsed from the config file only; nothing acts on them.
type DiagnosticsConfig struct {
	DumpIR      bool `yaml:"dump_ir"`
	DumpLive    bool `yaml:"dump_live"`
	DumpColor   bool `yaml:"dump_color"`
	DumpAsm     bool `yaml:"dump_asm"`
}

// Defaults returns the configuration the CLI uses when no config file
// is supplied, matching spec.md's REG_NUM=17/SAVE_START=9/EXTRA_STACK=16.
func Defaults() Config {
	return Config{
		RegNum:     17,
		SaveStart:  9,
		ExtraStack: 16,
	}
}

// Load reads and parses a YAML config file at path, filling any field
// left at its zero value with Defaults' value.
func Load(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if cfg.RegNum == 0 {
		cfg.RegNum = 17
	}
	if cfg.SaveStart == 0 {
		cfg.SaveStart = 9
	}
	if cfg.ExtraStack == 0 {
		cfg.ExtraStack = 16
	}
	return cfg, nil
}
