// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package physio

import "slices"

const (
	// TimeName is the name of channel 0.
	TimeName = "time"
	// TimeUnit is the unit of channel 0.
	TimeUnit = "s"

	// Placeholders used when a loader supplies fewer frequencies, names or
	// units than series.
	UnknownFrequency = 0.0
	UnknownName      = "unknown"
	UnknownUnit      = "[]"
)

// Channel represents one recorded signal.
type Channel struct {
	Name      string    // Name of the channel (e.g., respiration, trigger)
	Unit      string    // Physical dimension (e.g., V, mmHg)
	Frequency float64   // Sampling rate in Hz
	Samples   []float64 // Recorded values
}

// Len returns the number of samples in the channel.
func (c Channel) Len() int {
	return len(c.Samples)
}

// Clone returns a copy of the channel that does not share its samples.
func (c Channel) Clone() Channel {
	c.Samples = slices.Clone(c.Samples)
	return c
}

// TriggerOptions controls trigger pulse detection.
type TriggerOptions struct {
	// Threshold above which a trigger sample counts as part of a pulse.
	// When nil it is estimated as mean + 2 standard deviations.
	Threshold *float64
	// NumTimepointsExpected is the number of pulses the acquisition should
	// have produced (e.g. the number of volumes). Zero skips the check.
	NumTimepointsExpected int
	// RepetitionTime is the nominal time between pulses in seconds. It is
	// used to move the time origin back when leading pulses are missing.
	RepetitionTime float64
}

// TriggerReport describes the outcome of trigger detection.
type TriggerReport struct {
	Found           int     // Number of pulses detected
	Expected        int     // Number of pulses expected, 0 if unknown
	Extra           int     // Pulses found beyond the expected count
	Missing         int     // Expected pulses that were not found
	Threshold       float64 // Threshold used for detection
	AutoThreshold   bool    // Whether the threshold was estimated
	TimeOffset      float64 // Offset subtracted from the time channel
	OffsetCorrected bool    // Whether TimeOffset accounts for missing pulses
}

// Discrepancy reports whether the detected pulse count differs from the
// expected one.
func (r TriggerReport) Discrepancy() bool {
	return r.Expected > 0 && r.Found != r.Expected
}

// pad truncates v to n elements or extends it with token.
func pad[T any](v []T, n int, token T) []T {
	if len(v) > n {
		return slices.Clone(v[:n])
	}
	out := slices.Clone(v)
	for len(out) < n {
		out = append(out, token)
	}
	return out
}
