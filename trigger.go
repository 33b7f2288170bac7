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
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// AutoThreshold returns the detection threshold used when none is given:
// the mean of the samples plus twice their population standard deviation.
func AutoThreshold(samples []float64) float64 {
	mean, std := stat.PopMeanStdDev(samples, nil)
	return mean + 2*std
}

// CountPulses returns the number of maximal runs of samples strictly above
// threshold, and the index of the first such sample (-1 if there is none).
func CountPulses(samples []float64, threshold float64) (count, first int) {
	first = -1
	above := false
	for i, v := range samples {
		if v <= threshold {
			above = false
			continue
		}
		if !above {
			count++
			above = true
		}
		if first < 0 {
			first = i
		}
	}
	return count, first
}

// CheckTriggerAmount counts the pulses in the trigger channel and moves the
// time origin to the first of them.
//
// When opts.NumTimepointsExpected is set, surplus pulses are assumed to
// trail the acquisition and are only reported. Missing pulses are assumed
// to precede it; if opts.RepetitionTime is set the time offset is moved
// back by one repetition time per missing pulse.
//
// The receiver is not modified. The returned Blueprint carries the
// corrected time channel and the detection results.
func (b *Blueprint) CheckTriggerAmount(opts TriggerOptions) (*Blueprint, TriggerReport, error) {
	trigger := b.triggerIndex()
	samples := b.channels[trigger].Samples
	timeline := b.channels[0].Samples
	if len(samples) == 0 {
		return nil, TriggerReport{}, invalidf("trigger channel %d is empty", trigger)
	}

	logger.Info().Int("channel", trigger).Msg("Counting trigger points")

	report := TriggerReport{Expected: opts.NumTimepointsExpected}
	if opts.Threshold != nil {
		report.Threshold = *opts.Threshold
	} else {
		report.Threshold = AutoThreshold(samples)
		report.AutoThreshold = true
	}

	found, first := CountPulses(samples, report.Threshold)
	report.Found = found

	if report.AutoThreshold {
		logger.Info().Int("found", found).Float64("threshold", report.Threshold).
			Msg("Timepoints found with the std threshold method")
	} else {
		logger.Info().Int("found", found).Float64("threshold", report.Threshold).
			Msg("Timepoints found with the manual threshold")
	}

	// Without any pulse the origin stays at the first sample.
	first = max(first, 0)
	if first >= len(timeline) {
		return nil, TriggerReport{}, invalidf("time channel has %d samples, trigger pulse at %d", len(timeline), first)
	}
	report.TimeOffset = timeline[first]

	switch expected := opts.NumTimepointsExpected; {
	case expected <= 0:
		logger.Warn().Msg("The necessary options to find the amount of timepoints were not provided")
	case found > expected:
		report.Extra = found - expected
		logger.Warn().Int("extra", report.Extra).
			Msg("Found more timepoints than expected, assuming extra timepoints are at the end (try again with a more liberal threshold)")
	case found < expected:
		report.Missing = expected - found
		logger.Warn().Int("missing", report.Missing).Msg("Found fewer timepoints than expected")
		if opts.RepetitionTime != 0 {
			report.TimeOffset -= float64(report.Missing) * opts.RepetitionTime
			report.OffsetCorrected = true
			logger.Warn().Float64("tr", opts.RepetitionTime).Float64("offset", report.TimeOffset).
				Msg("Correcting time offset, assuming missing timepoints are at the beginning (try again with a more conservative threshold)")
		} else {
			logger.Warn().Msg("Can't correct time offset, the repetition time is not set")
		}
	default:
		logger.Info().Int("found", found).Msg("Found just the right amount of timepoints")
	}

	out := b.Copy()
	floats.AddConst(-report.TimeOffset, out.channels[0].Samples)
	out.TimeOffset = report.TimeOffset
	thr, n := report.Threshold, report.Found
	out.Threshold = &thr
	out.NumTimepointsFound = &n

	return out, report, nil
}
