// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package config loads conversion settings from a YAML file and PHYSIO_*
// environment variables.
package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/OpenPSG/physio"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds the settings of one conversion.
type Config struct {
	TriggerChannel        int      // Index of the trigger channel
	ChannelSelection      []int    // Channels to keep besides time and trigger, all if empty
	ChannelNames          []string // Names for channels 1 onwards
	NumTimepointsExpected int      // Expected number of trigger pulses, 0 to skip the check
	RepetitionTime        float64  // Seconds between trigger pulses
	Threshold             *float64 // Detection threshold, estimated if nil
	Frequency             float64  // Frequency to export, 0 for the trigger's
}

// Load reads the settings from path, if given, with environment variables
// taking precedence.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("trigger_channel", 0)
	v.SetDefault("channel_selection", []int{})
	v.SetDefault("channel_names", []string{})
	v.SetDefault("num_timepoints_expected", 0)
	v.SetDefault("tr", 0.0)
	v.SetDefault("frequency", 0.0)

	v.SetEnvPrefix("PHYSIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// threshold has no default, so it has to be bound to be seen in the environment.
	if err := v.BindEnv("threshold"); err != nil {
		return nil, fmt.Errorf("error binding threshold: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config %q: %w", path, err)
		}
	}

	cfg := &Config{
		TriggerChannel:        v.GetInt("trigger_channel"),
		ChannelSelection:      v.GetIntSlice("channel_selection"),
		ChannelNames:          v.GetStringSlice("channel_names"),
		NumTimepointsExpected: v.GetInt("num_timepoints_expected"),
		RepetitionTime:        v.GetFloat64("tr"),
		Frequency:             v.GetFloat64("frequency"),
	}
	if v.IsSet("threshold") {
		thr := v.GetFloat64("threshold")
		cfg.Threshold = &thr
	}

	if cfg.TriggerChannel < 0 {
		return nil, fmt.Errorf("trigger channel %d: %w", cfg.TriggerChannel, physio.ErrInvalid)
	}
	if cfg.NumTimepointsExpected < 0 {
		return nil, fmt.Errorf("expected timepoints %d: %w", cfg.NumTimepointsExpected, physio.ErrInvalid)
	}

	log.Debug().
		Int("trigger_channel", cfg.TriggerChannel).
		Ints("channel_selection", cfg.ChannelSelection).
		Int("num_timepoints_expected", cfg.NumTimepointsExpected).
		Float64("tr", cfg.RepetitionTime).
		Msg("Loaded conversion settings")

	return cfg, nil
}

// Options returns the construction options for a Blueprint.
func (c *Config) Options() []physio.Option {
	return []physio.Option{physio.WithTriggerChannel(c.TriggerChannel)}
}

// TriggerOptions returns the trigger detection settings.
func (c *Config) TriggerOptions() physio.TriggerOptions {
	opts := physio.TriggerOptions{
		NumTimepointsExpected: c.NumTimepointsExpected,
		RepetitionTime:        c.RepetitionTime,
	}
	if c.Threshold != nil {
		thr := *c.Threshold
		opts.Threshold = &thr
	}
	return opts
}

// Apply returns a copy of b with the configured names and channel selection.
// The time and trigger channels are always kept.
func (c *Config) Apply(b *physio.Blueprint) (*physio.Blueprint, error) {
	out := b.Copy()

	if len(c.ChannelNames) > 0 {
		out.RenameChannels(c.ChannelNames)
	}

	if len(c.ChannelSelection) == 0 {
		return out, nil
	}

	keep := []int{0}
	if trigger, ok := out.TriggerChannel(); ok {
		keep = append(keep, trigger)
	}
	for _, idx := range c.ChannelSelection {
		if idx < 0 || idx >= out.NumChannels() {
			return nil, fmt.Errorf("channel selection %d: %w", idx, physio.ErrInvalid)
		}
		keep = append(keep, idx)
	}

	var drop []int
	for i := 0; i < out.NumChannels(); i++ {
		if !slices.Contains(keep, i) {
			drop = append(drop, i)
		}
	}
	if err := out.RemoveChannels(drop...); err != nil {
		return nil, err
	}

	return out, nil
}

// Run applies the settings to b, detects the trigger pulses and returns the
// configured single-frequency view.
func (c *Config) Run(b *physio.Blueprint) (*physio.View, physio.TriggerReport, error) {
	selected, err := c.Apply(b)
	if err != nil {
		return nil, physio.TriggerReport{}, err
	}

	corrected, report, err := selected.CheckTriggerAmount(c.TriggerOptions())
	if err != nil {
		return nil, report, fmt.Errorf("error checking trigger amount: %w", err)
	}

	frequency := c.Frequency
	if frequency == 0 {
		// The time channel shares the trigger's frequency.
		frequency = corrected.Frequencies()[0]
	}

	view, err := corrected.ToFrequency(frequency)
	if err != nil {
		return nil, report, fmt.Errorf("error converting to %g Hz: %w", frequency, err)
	}

	return view, report, nil
}
