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
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// View holds channels sharing one sampling rate as a matrix with one row
// per timepoint and one column per channel. It is what an exporter writes.
type View struct {
	matrix *mat.Dense
	names  []string
	units  []string

	Frequency float64 // Shared sampling rate in Hz
	StartTime float64 // Time of the first row, relative to the first trigger pulse
	Label     string  // Output identifier, empty until an exporter assigns one
}

// NewView creates a View from a timepoints x channels matrix. Names and
// units are truncated or padded to the number of columns.
func NewView(m *mat.Dense, frequency float64, names, units []string, startTime float64) (*View, error) {
	if m == nil || m.IsEmpty() {
		return nil, invalidf("empty matrix")
	}
	if math.IsNaN(frequency) || math.IsInf(frequency, 0) || frequency < 0 {
		return nil, invalidf("frequency %v", frequency)
	}

	_, c := m.Dims()
	return &View{
		matrix:    mat.DenseCopyOf(m),
		names:     pad(names, c, UnknownName),
		units:     pad(units, c, UnknownUnit),
		Frequency: frequency,
		StartTime: startTime,
	}, nil
}

// FromBlueprint creates a View from a Blueprint whose channels all share one
// frequency and length. No channel is filtered out; use ToFrequency for that.
// StartTime is the first value of channel 0, the time channel.
func FromBlueprint(b *Blueprint) (*View, error) {
	frequency := b.channels[0].Frequency
	timepoints := b.channels[0].Len()

	for i, ch := range b.channels {
		if ch.Frequency != frequency {
			return nil, &FrequencyError{
				Requested: frequency,
				Available: uniqueFrequencies(b.channels),
				Err:       ErrFrequencyMismatch,
			}
		}
		if ch.Len() != timepoints {
			return nil, invalidf("channel %d has %d samples, expected %d", i, ch.Len(), timepoints)
		}
	}
	if timepoints == 0 {
		return nil, invalidf("channels have no samples")
	}

	m := mat.NewDense(timepoints, len(b.channels), nil)
	for j, ch := range b.channels {
		m.SetCol(j, ch.Samples)
	}

	return &View{
		matrix:    m,
		names:     b.ChannelNames(),
		units:     b.Units(),
		Frequency: frequency,
		StartTime: m.At(0, 0),
	}, nil
}

// ToFrequency returns a View of the channels sampled at frequency. When
// the time channel is sampled at another rate, a time column spanning the
// same origin at the requested rate is placed first. The Blueprint itself
// is left untouched.
func (b *Blueprint) ToFrequency(frequency float64) (*View, error) {
	var drop []int
	for i, ch := range b.channels {
		if ch.Frequency != frequency {
			drop = append(drop, i)
		}
	}
	if len(drop) == len(b.channels) {
		return nil, &FrequencyError{
			Requested: frequency,
			Available: uniqueFrequencies(b.channels),
			Err:       ErrFrequencyNotFound,
		}
	}

	filtered := b.Copy()
	// A View has no trigger channel.
	filtered.trigger = noTrigger
	if err := filtered.RemoveChannels(drop...); err != nil {
		return nil, err
	}

	if b.channels[0].Frequency != frequency {
		timeline, err := resampleTime(b.channels[0], frequency, filtered.channels[0].Len())
		if err != nil {
			return nil, err
		}
		filtered.channels = slices.Insert(filtered.channels, 0, timeline)
	}

	return FromBlueprint(filtered)
}

// resampleTime returns n evenly spaced timepoints at frequency starting at
// the first value of timeline.
func resampleTime(timeline Channel, frequency float64, n int) (Channel, error) {
	if timeline.Len() == 0 {
		return Channel{}, invalidf("time channel is empty")
	}
	if frequency <= 0 || n == 0 {
		return Channel{}, invalidf("cannot resample the time channel to %d samples at %g Hz", n, frequency)
	}

	start := timeline.Samples[0]
	samples := make([]float64, n)
	if n == 1 {
		samples[0] = start
	} else {
		floats.Span(samples, start, start+float64(n-1)/frequency)
	}

	return Channel{
		Name:      timeline.Name,
		Unit:      timeline.Unit,
		Frequency: frequency,
		Samples:   samples,
	}, nil
}

// Dims returns the number of timepoints and channels.
func (v *View) Dims() (timepoints, channels int) {
	return v.matrix.Dims()
}

// Timepoints returns the number of rows.
func (v *View) Timepoints() int {
	r, _ := v.matrix.Dims()
	return r
}

// NumChannels returns the number of columns.
func (v *View) NumChannels() int {
	_, c := v.matrix.Dims()
	return c
}

// Matrix returns a copy of the timepoints x channels matrix.
func (v *View) Matrix() *mat.Dense {
	return mat.DenseCopyOf(v.matrix)
}

// ChannelNames returns the name of every column.
func (v *View) ChannelNames() []string {
	return slices.Clone(v.names)
}

// Units returns the unit of every column.
func (v *View) Units() []string {
	return slices.Clone(v.units)
}

// Column returns the channel stored in column idx.
func (v *View) Column(idx int) (Channel, error) {
	if idx < 0 || idx >= v.NumChannels() {
		return Channel{}, invalidf("column index %d out of range", idx)
	}
	return Channel{
		Name:      v.names[idx],
		Unit:      v.units[idx],
		Frequency: v.Frequency,
		Samples:   mat.Col(nil, idx, v.matrix),
	}, nil
}

// DeleteColumns removes the given columns together with their names and
// units.
func (v *View) DeleteColumns(indices ...int) error {
	c := v.NumChannels()
	remove := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= c {
			return invalidf("column index %d out of range", idx)
		}
		remove[idx] = true
	}
	if len(remove) == c {
		return invalidf("cannot delete all %d columns", c)
	}
	if len(remove) == 0 {
		return nil
	}

	r := v.Timepoints()
	m := mat.NewDense(r, c-len(remove), nil)
	names := make([]string, 0, c-len(remove))
	units := make([]string, 0, c-len(remove))

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		if remove[j] {
			continue
		}
		m.SetCol(len(names), mat.Col(col, j, v.matrix))
		names = append(names, v.names[j])
		units = append(units, v.units[j])
	}

	v.matrix, v.names, v.units = m, names, units
	return nil
}

// Equal reports whether both Views hold the same matrix and metadata.
func (v *View) Equal(other *View) bool {
	if v == nil || other == nil {
		return v == other
	}
	return v.Frequency == other.Frequency &&
		v.StartTime == other.StartTime &&
		v.Label == other.Label &&
		slices.Equal(v.names, other.names) &&
		slices.Equal(v.units, other.units) &&
		mat.Equal(v.matrix, other.matrix)
}

func uniqueFrequencies(channels []Channel) []float64 {
	out := make([]float64, 0, len(channels))
	for _, ch := range channels {
		out = append(out, ch.Frequency)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
