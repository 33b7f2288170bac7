// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package physio

// At returns the instant idx of every channel. idx counts samples of the
// trigger channel, or of the time channel when no trigger is set; negative
// values count back from its end. Each channel of the result holds exactly
// one sample.
func (b *Blueprint) At(idx int) (*Blueprint, error) {
	if idx < 0 {
		idx += b.Len()
	}
	return b.slice(Window{Start: idx, Stop: idx + 1, Instant: true})
}

// Slice returns the samples [start, stop) of every channel, taking every
// step-th one. Indices count samples of the trigger channel, or of the time
// channel when no trigger is set, and are rescaled to each channel's own
// frequency. A step of 0 selects every sample.
//
// Because rescaled indices are floored, b.At(i) and b.Slice(i, i+1, 0) can
// differ for channels sampled faster than the trigger.
func (b *Blueprint) Slice(start, stop, step int) (*Blueprint, error) {
	if step < 0 {
		return nil, invalidf("negative step %d", step)
	}
	return b.slice(Window{Start: start, Stop: stop, Step: step})
}

func (b *Blueprint) slice(w Window) (*Blueprint, error) {
	trigger := b.triggerIndex()
	length := b.channels[trigger].Len()

	if w.Start < 0 || w.Stop < 0 || w.Start >= length || w.Stop > length {
		return nil, &OutOfBoundsError{Start: w.Start, Stop: w.Stop, Channel: trigger, Length: length}
	}

	freq := b.channels[trigger].Frequency
	if freq <= 0 {
		return nil, invalidf("channel %d has no sampling frequency", trigger)
	}

	channels := make([]Channel, len(b.channels))
	for i, ch := range b.channels {
		cw := RescaleWindow(w, freq, length, ch.Frequency, ch.Len())

		samples := make([]float64, 0, cw.Len())
		for j := cw.Start; j < cw.Stop; j += max(cw.Step, 1) {
			samples = append(samples, ch.Samples[j])
		}

		ch.Samples = samples
		channels[i] = ch
	}

	return b.derive(channels), nil
}
