// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package physio_test

import (
	"testing"

	"github.com/OpenPSG/physio"
	"github.com/OpenPSG/physio/physiotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samples(t *testing.T, b *physio.Blueprint) [][]float64 {
	t.Helper()

	var out [][]float64
	for _, ch := range b.Channels() {
		out = append(out, ch.Samples)
	}
	return out
}

func TestSlice(t *testing.T) {
	b := loadBlueprint(t)

	sliced, err := b.Slice(2, 6, 0)
	require.NoError(t, err)

	physiotest.AssertBlueprint(t, physiotest.LoadFixture(t, "testdata/multifreq_2_6.yaml"), sliced)
	assertParallel(t, sliced)

	// The source is untouched.
	physiotest.AssertBlueprint(t, physiotest.LoadFixture(t, "testdata/multifreq.yaml"), b)
}

func TestSliceIsProportional(t *testing.T) {
	b := loadBlueprint(t)

	for start := 0; start < 9; start++ {
		for stop := start + 2; stop < 10; stop += 2 {
			sliced, err := b.Slice(start, stop, 0)
			require.NoError(t, err)

			for i, ch := range sliced.Channels() {
				ratio := b.Frequencies()[i] / b.Frequencies()[1]
				want := int(ratio*float64(stop)) - int(ratio*float64(start))
				assert.Equal(t, max(want, 1), ch.Len(), "channel %d, slice (%d, %d)", i, start, stop)
			}
		}
	}
}

func TestSliceFullLength(t *testing.T) {
	b := loadBlueprint(t)

	sliced, err := b.Slice(0, b.Len(), 0)
	require.NoError(t, err)
	assert.True(t, b.Equal(sliced))

	tail, err := b.Slice(9, b.Len(), 0)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{9}, {0}, {18, 19}, {104}}, samples(t, tail))
}

func TestSliceStep(t *testing.T) {
	b := loadBlueprint(t)

	sliced, err := b.Slice(0, 10, 2)
	require.NoError(t, err)

	assert.Equal(t, [][]float64{
		{0, 2, 4, 6, 8},
		{0, 3, 0, 3, 3},
		{0, 4, 8, 12, 16},
		{100, 101, 102, 103, 104},
	}, samples(t, sliced))

	_, err = b.Slice(0, 10, -1)
	require.ErrorIs(t, err, physio.ErrInvalid)
}

func TestSliceZeroWidth(t *testing.T) {
	b := loadBlueprint(t)

	// [2, 3) collapses to [1, 1) at 0.5 Hz and is widened to one sample.
	sliced, err := b.Slice(2, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{2}, {3}, {4, 5}, {101}}, samples(t, sliced))
}

func TestAt(t *testing.T) {
	b := loadBlueprint(t)

	instant, err := b.At(3)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{3}, {3}, {6}, {101}}, samples(t, instant))

	for i := -b.Len(); i < b.Len(); i++ {
		instant, err := b.At(i)
		require.NoError(t, err)
		for _, ch := range instant.Channels() {
			assert.Equal(t, 1, ch.Len(), "instant %d of %s", i, ch.Name)
		}
	}

	last, err := b.At(-1)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{9}, {0}, {18}, {104}}, samples(t, last))
}

func TestAtDiffersFromUnitSlice(t *testing.T) {
	b := loadBlueprint(t)

	instant, err := b.At(3)
	require.NoError(t, err)
	unit, err := b.Slice(3, 4, 0)
	require.NoError(t, err)

	assert.Equal(t, []float64{6}, samples(t, instant)[2])
	assert.Equal(t, []float64{6, 7}, samples(t, unit)[2])
}

func TestSliceOutOfBounds(t *testing.T) {
	b := loadBlueprint(t)

	tests := []struct {
		name        string
		start, stop int
	}{
		{"stop past end", 0, 11},
		{"start at end", 10, 10},
		{"negative start", -1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Slice(tt.start, tt.stop, 0)
			require.ErrorIs(t, err, physio.ErrOutOfBounds)

			var oob *physio.OutOfBoundsError
			require.ErrorAs(t, err, &oob)
			assert.Equal(t, 1, oob.Channel)
			assert.Equal(t, 10, oob.Length)
		})
	}

	_, err := b.At(10)
	require.ErrorIs(t, err, physio.ErrOutOfBounds)

	_, err = b.At(-11)
	require.ErrorIs(t, err, physio.ErrOutOfBounds)
}

func TestSliceWithoutTrigger(t *testing.T) {
	b, err := physio.New(
		[][]float64{{0, 1, 2, 3}, {0, 1, 2, 3, 4, 5, 6, 7}},
		[]float64{1, 2},
		[]string{"time", "respiration"},
		[]string{"s", "cm"},
	)
	require.NoError(t, err)

	sliced, err := b.Slice(1, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2}, {2, 3, 4, 5}}, samples(t, sliced))

	_, ok := sliced.TriggerChannel()
	assert.False(t, ok)

	_, err = b.Slice(0, 5, 0)
	require.ErrorIs(t, err, physio.ErrOutOfBounds)
}

func TestSliceKeepsDetectionResults(t *testing.T) {
	b := loadBlueprint(t)
	thr := 2.5
	detected, _, err := b.CheckTriggerAmount(physio.TriggerOptions{Threshold: &thr})
	require.NoError(t, err)

	sliced, err := detected.Slice(2, 4, 0)
	require.NoError(t, err)

	require.NotNil(t, sliced.Threshold)
	assert.Equal(t, 2.5, *sliced.Threshold)
	require.NotNil(t, sliced.NumTimepointsFound)
	assert.Equal(t, 2, *sliced.NumTimepointsFound)
	assert.Equal(t, 2.0, sliced.TimeOffset)
	assert.Equal(t, []float64{0, 1}, samples(t, sliced)[0])
}
