// Package config holds the tunable constants of the simulation, loadable
// from a YAML file with sane coded defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Combat tunes the resolver's power formula.
type Combat struct {
	DirectCoefficient    float64 `yaml:"direct_coefficient"`     // base coefficient for adjacent attacks
	LongRangeCoefficient float64 `yaml:"long_range_coefficient"` // base coefficient for long-range and interception attacks
	AttackRollMin        float64 `yaml:"attack_roll_min"`
	AttackRollMax        float64 `yaml:"attack_roll_max"`
	DefenseRollMin       float64 `yaml:"defense_roll_min"`
	DefenseRollMax       float64 `yaml:"defense_roll_max"`
	HomeAdvantage        float64 `yaml:"home_advantage"`
	AttackerLossFactor   float64 `yaml:"attacker_loss_factor"` // scales winning attacker's casualties
}

// Fleet tunes in-transit movement.
type Fleet struct {
	HopDurationPerPixel time.Duration `yaml:"hop_duration_per_pixel"`
}

// Supply tunes the logistics manager.
type Supply struct {
	Cooldown         time.Duration `yaml:"cooldown"`
	ValidateInterval time.Duration `yaml:"validate_interval"`
	ProcessInterval  time.Duration `yaml:"process_interval"`
	DiffThreshold    int           `yaml:"diff_threshold"` // min source-destination army gap
	SourceFloor      int           `yaml:"source_floor"`   // source must exceed this to send
	TransferRatio    float64       `yaml:"transfer_ratio"`
	PerHopDelay      time.Duration `yaml:"per_hop_delay"`
}

// AI tunes the decision engines.
type AI struct {
	ThinkInterval      time.Duration `yaml:"think_interval"`
	ThinkJitter        time.Duration `yaml:"think_jitter"`
	MinArmyToAct       int           `yaml:"min_army_to_act"`
	ActionCapDivisor   int           `yaml:"action_cap_divisor"` // actions per cycle = 1 + owned/divisor
	LongRangeSurplus   int           `yaml:"long_range_surplus"` // armies above which long-range attacks open up
	LongRangeRatio     float64       `yaml:"long_range_ratio"`   // required estimated power ratio
	LongRangePerMinute float64       `yaml:"long_range_per_minute"`
}

// UnmarshalYAML accepts duration strings like "20s". yaml.v3 cannot decode
// those into time.Duration on its own.
func (f *Fleet) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		HopDurationPerPixel string `yaml:"hop_duration_per_pixel"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return setDuration(&f.HopDurationPerPixel, raw.HopDurationPerPixel)
}

func (s *Supply) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Cooldown         string   `yaml:"cooldown"`
		ValidateInterval string   `yaml:"validate_interval"`
		ProcessInterval  string   `yaml:"process_interval"`
		DiffThreshold    *int     `yaml:"diff_threshold"`
		SourceFloor      *int     `yaml:"source_floor"`
		TransferRatio    *float64 `yaml:"transfer_ratio"`
		PerHopDelay      string   `yaml:"per_hop_delay"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.DiffThreshold != nil {
		s.DiffThreshold = *raw.DiffThreshold
	}
	if raw.SourceFloor != nil {
		s.SourceFloor = *raw.SourceFloor
	}
	if raw.TransferRatio != nil {
		s.TransferRatio = *raw.TransferRatio
	}
	for dst, src := range map[*time.Duration]string{
		&s.Cooldown:         raw.Cooldown,
		&s.ValidateInterval: raw.ValidateInterval,
		&s.ProcessInterval:  raw.ProcessInterval,
		&s.PerHopDelay:      raw.PerHopDelay,
	} {
		if err := setDuration(dst, src); err != nil {
			return err
		}
	}
	return nil
}

func (a *AI) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		ThinkInterval      string   `yaml:"think_interval"`
		ThinkJitter        string   `yaml:"think_jitter"`
		MinArmyToAct       *int     `yaml:"min_army_to_act"`
		ActionCapDivisor   *int     `yaml:"action_cap_divisor"`
		LongRangeSurplus   *int     `yaml:"long_range_surplus"`
		LongRangeRatio     *float64 `yaml:"long_range_ratio"`
		LongRangePerMinute *float64 `yaml:"long_range_per_minute"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.MinArmyToAct != nil {
		a.MinArmyToAct = *raw.MinArmyToAct
	}
	if raw.ActionCapDivisor != nil {
		a.ActionCapDivisor = *raw.ActionCapDivisor
	}
	if raw.LongRangeSurplus != nil {
		a.LongRangeSurplus = *raw.LongRangeSurplus
	}
	if raw.LongRangeRatio != nil {
		a.LongRangeRatio = *raw.LongRangeRatio
	}
	if raw.LongRangePerMinute != nil {
		a.LongRangePerMinute = *raw.LongRangePerMinute
	}
	if err := setDuration(&a.ThinkInterval, raw.ThinkInterval); err != nil {
		return err
	}
	return setDuration(&a.ThinkJitter, raw.ThinkJitter)
}

// setDuration parses src into dst; an absent key keeps the default.
func setDuration(dst *time.Duration, src string) error {
	if src == "" {
		return nil
	}
	d, err := time.ParseDuration(src)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", src, err)
	}
	*dst = d
	return nil
}

// Config aggregates all tuning sections.
type Config struct {
	Combat Combat `yaml:"combat"`
	Fleet  Fleet  `yaml:"fleet"`
	Supply Supply `yaml:"supply"`
	AI     AI     `yaml:"ai"`
}

// Default returns the built-in tuning.
func Default() Config {
	return Config{
		Combat: Combat{
			DirectCoefficient:    1.0,
			LongRangeCoefficient: 0.7,
			AttackRollMin:        0.8,
			AttackRollMax:        1.2,
			DefenseRollMin:       1.0,
			DefenseRollMax:       1.2,
			HomeAdvantage:        0.1,
			AttackerLossFactor:   0.7,
		},
		Fleet: Fleet{
			HopDurationPerPixel: 4 * time.Millisecond,
		},
		Supply: Supply{
			Cooldown:         20 * time.Second,
			ValidateInterval: 5 * time.Second,
			ProcessInterval:  10 * time.Second,
			DiffThreshold:    10,
			SourceFloor:      5,
			TransferRatio:    0.3,
			PerHopDelay:      2 * time.Second,
		},
		AI: AI{
			ThinkInterval:      3 * time.Second,
			ThinkJitter:        time.Second,
			MinArmyToAct:       5,
			ActionCapDivisor:   10,
			LongRangeSurplus:   40,
			LongRangeRatio:     1.2,
			LongRangePerMinute: 2,
		},
	}
}

// Load reads a YAML file over the defaults; missing keys keep their default
// values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
