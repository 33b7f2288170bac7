// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package physio

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"
)

const noTrigger = -1

// Blueprint holds every channel of a recording, each at its own sampling
// rate. Channel 0 is the time axis and is sampled like the trigger channel.
type Blueprint struct {
	channels []Channel
	trigger  int // Index of the trigger channel, noTrigger if unset

	NumTimepointsFound *int     // Pulses found by CheckTriggerAmount, nil before it runs
	Threshold          *float64 // Threshold used by CheckTriggerAmount, nil before it runs
	TimeOffset         float64  // Value subtracted from the time channel
}

// Option configures a Blueprint at construction.
type Option func(*Blueprint)

// WithTriggerChannel designates the channel used for pulse detection.
func WithTriggerChannel(idx int) Option {
	return func(b *Blueprint) {
		b.trigger = idx
	}
}

// New creates a Blueprint from parallel per-channel slices. Frequencies,
// names and units are truncated or padded to the number of series with
// UnknownFrequency, UnknownName and UnknownUnit.
func New(series [][]float64, frequencies []float64, names, units []string, opts ...Option) (*Blueprint, error) {
	if len(series) == 0 {
		return nil, invalidf("no channels given")
	}

	frequencies = pad(frequencies, len(series), UnknownFrequency)
	names = pad(names, len(series), UnknownName)
	units = pad(units, len(series), UnknownUnit)

	channels := make([]Channel, len(series))
	for i, s := range series {
		channels[i] = Channel{
			Name:      names[i],
			Unit:      units[i],
			Frequency: frequencies[i],
			Samples:   s,
		}
	}

	return FromChannels(channels, opts...)
}

// FromChannels creates a Blueprint from per-channel records. The samples
// are copied.
func FromChannels(channels []Channel, opts ...Option) (*Blueprint, error) {
	if len(channels) == 0 {
		return nil, invalidf("no channels given")
	}

	b := &Blueprint{
		channels: make([]Channel, len(channels)),
		trigger:  noTrigger,
	}
	for _, opt := range opts {
		opt(b)
	}

	for i, ch := range channels {
		if ch.Samples == nil {
			return nil, invalidf("channel %d has no series", i)
		}
		if math.IsNaN(ch.Frequency) || math.IsInf(ch.Frequency, 0) || ch.Frequency < 0 {
			return nil, invalidf("channel %d has frequency %v", i, ch.Frequency)
		}
		b.channels[i] = ch.Clone()
	}

	if b.trigger != noTrigger {
		if b.trigger < 0 || b.trigger >= len(b.channels) {
			return nil, invalidf("trigger channel %d out of range", b.trigger)
		}
		if b.channels[0].Frequency != b.channels[b.trigger].Frequency {
			return nil, &FrequencyError{
				Requested: b.channels[0].Frequency,
				Available: []float64{b.channels[0].Frequency, b.channels[b.trigger].Frequency},
				Err:       ErrFrequencyMismatch,
			}
		}
	}

	return b, nil
}

// NumChannels returns the number of channels, time included.
func (b *Blueprint) NumChannels() int {
	return len(b.channels)
}

// TriggerChannel returns the trigger channel index and whether one is set.
func (b *Blueprint) TriggerChannel() (int, bool) {
	return b.trigger, b.trigger != noTrigger
}

// triggerIndex is the channel slicing and detection operate on.
func (b *Blueprint) triggerIndex() int {
	if b.trigger == noTrigger {
		return 0
	}
	return b.trigger
}

// Len returns the number of samples in the trigger channel, or in the time
// channel when no trigger is set.
func (b *Blueprint) Len() int {
	return b.channels[b.triggerIndex()].Len()
}

// Channel returns a copy of the channel at idx.
func (b *Blueprint) Channel(idx int) (Channel, error) {
	if idx < 0 || idx >= len(b.channels) {
		return Channel{}, invalidf("channel index %d out of range", idx)
	}
	return b.channels[idx].Clone(), nil
}

// Channels returns a copy of every channel.
func (b *Blueprint) Channels() []Channel {
	out := make([]Channel, len(b.channels))
	for i, ch := range b.channels {
		out[i] = ch.Clone()
	}
	return out
}

// Frequencies returns the sampling rate of every channel.
func (b *Blueprint) Frequencies() []float64 {
	out := make([]float64, len(b.channels))
	for i, ch := range b.channels {
		out[i] = ch.Frequency
	}
	return out
}

// ChannelNames returns the name of every channel.
func (b *Blueprint) ChannelNames() []string {
	out := make([]string, len(b.channels))
	for i, ch := range b.channels {
		out[i] = ch.Name
	}
	return out
}

// Units returns the unit of every channel.
func (b *Blueprint) Units() []string {
	out := make([]string, len(b.channels))
	for i, ch := range b.channels {
		out[i] = ch.Unit
	}
	return out
}

// RenameChannels replaces the channel names. The time channel keeps its
// name and position, so "time" is dropped from names before they are
// applied from channel 1 onwards.
func (b *Blueprint) RenameChannels(names []string) {
	renamed := make([]string, 0, len(names)+1)
	renamed = append(renamed, TimeName)
	dropped := false
	for _, name := range names {
		if name == TimeName && !dropped {
			dropped = true
			continue
		}
		renamed = append(renamed, name)
	}

	renamed = pad(renamed, len(b.channels), UnknownName)
	for i := range b.channels {
		b.channels[i].Name = renamed[i]
	}
}

// RemoveChannels deletes the channels at the given indices. Removing the
// trigger channel leaves the Blueprint without one.
func (b *Blueprint) RemoveChannels(indices ...int) error {
	for _, idx := range indices {
		if idx < 0 || idx >= len(b.channels) {
			return invalidf("channel index %d out of range", idx)
		}
	}

	sorted := slices.Clone(indices)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	if len(sorted) == len(b.channels) {
		return invalidf("cannot remove all %d channels", len(b.channels))
	}

	for i := len(sorted) - 1; i >= 0; i-- {
		idx := sorted[i]
		b.channels = slices.Delete(b.channels, idx, idx+1)

		switch {
		case b.trigger == noTrigger:
		case idx == b.trigger:
			logger.Warn().Int("channel", idx).
				Msg("Removing trigger channel - are you sure you are doing the right thing?")
			b.trigger = noTrigger
		case idx < b.trigger:
			b.trigger--
		}
	}

	return nil
}

// Copy returns a deep copy of the Blueprint.
func (b *Blueprint) Copy() *Blueprint {
	return b.derive(b.Channels())
}

// derive returns a Blueprint with b's trigger and detection results and the
// given channels.
func (b *Blueprint) derive(channels []Channel) *Blueprint {
	c := &Blueprint{
		channels:   channels,
		trigger:    b.trigger,
		TimeOffset: b.TimeOffset,
	}
	if b.NumTimepointsFound != nil {
		n := *b.NumTimepointsFound
		c.NumTimepointsFound = &n
	}
	if b.Threshold != nil {
		thr := *b.Threshold
		c.Threshold = &thr
	}
	return c
}

// Equal reports whether both Blueprints hold the same channels, samples and
// detection results.
func (b *Blueprint) Equal(other *Blueprint) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.trigger != other.trigger || b.TimeOffset != other.TimeOffset {
		return false
	}
	if !equalPtr(b.NumTimepointsFound, other.NumTimepointsFound) || !equalPtr(b.Threshold, other.Threshold) {
		return false
	}
	return slices.EqualFunc(b.channels, other.channels, func(x, y Channel) bool {
		return x.Name == y.Name && x.Unit == y.Unit && x.Frequency == y.Frequency &&
			len(x.Samples) == len(y.Samples) && floats.Equal(x.Samples, y.Samples)
	})
}

// Info describes the channels of the recording read from source and logs it.
func (b *Blueprint) Info(source string) string {
	var sb strings.Builder
	sb.WriteString("------------------------------------------------\n")
	fmt.Fprintf(&sb, "File %s contains:\n", source)
	for i := 1; i < len(b.channels); i++ {
		fmt.Fprintf(&sb, "%02d. %s; sampled at %g Hz\n", i, b.channels[i].Name, b.channels[i].Frequency)
	}
	sb.WriteString("------------------------------------------------\n")

	logger.Info().Str("file", source).Int("channels", len(b.channels)-1).Msg(sb.String())

	return sb.String()
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
