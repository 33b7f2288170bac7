// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package physio

import "math"

// Window selects the samples [Start, Stop) of a channel, taking every Step-th
// one. A zero Step selects every sample.
type Window struct {
	Start   int
	Stop    int
	Step    int
	Instant bool // Request for a single moment rather than a range
}

// Len returns the number of samples the window selects.
func (w Window) Len() int {
	if w.Stop <= w.Start {
		return 0
	}
	step := max(w.Step, 1)
	return (w.Stop - w.Start + step - 1) / step
}

// RescaleWindow maps a window expressed in the samples of a channel recorded
// at srcFreq with srcLen samples onto a channel recorded at dstFreq with
// dstLen samples.
//
// Indices are scaled by dstFreq/srcFreq and floored. Instants and windows
// that collapse to zero width select exactly one sample. A window ending at
// srcLen ends at dstLen, so that rounding never drops the tail of a channel
// whose length is not an exact multiple of the source. The result always
// lies within [0, dstLen].
func RescaleWindow(w Window, srcFreq float64, srcLen int, dstFreq float64, dstLen int) Window {
	ratio := 1.0
	if srcFreq > 0 {
		ratio = dstFreq / srcFreq
	}

	out := Window{
		Start:   scaleIndex(w.Start, ratio),
		Stop:    scaleIndex(w.Stop, ratio),
		Instant: w.Instant,
	}
	if w.Step > 0 {
		out.Step = max(scaleIndex(w.Step, ratio), 1)
	}

	switch {
	case w.Instant || out.Start == out.Stop:
		out.Stop = out.Start + 1
	case w.Stop == srcLen:
		out.Stop = dstLen
	}

	out.Start = min(max(out.Start, 0), dstLen)
	out.Stop = min(max(out.Stop, out.Start), dstLen)

	return out
}

func scaleIndex(idx int, ratio float64) int {
	return int(math.Floor(ratio * float64(idx)))
}
