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
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalid is returned when an argument is not of the expected kind,
	// e.g. a missing series or a channel index that does not exist.
	ErrInvalid = errors.New("invalid argument")
	// ErrOutOfBounds is returned when a slice request exceeds the trigger channel.
	ErrOutOfBounds = errors.New("slice out of bounds")
	// ErrFrequencyNotFound is returned when no channel is sampled at the requested frequency.
	ErrFrequencyNotFound = errors.New("frequency not found")
	// ErrFrequencyMismatch is returned when channels that must share a frequency do not.
	ErrFrequencyMismatch = errors.New("frequency mismatch")
)

// OutOfBoundsError describes a slice request that does not fit the trigger channel.
type OutOfBoundsError struct {
	Start   int
	Stop    int
	Channel int // Index of the channel the request was checked against
	Length  int // Number of samples in that channel
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("slice (%d, %d) is out of bounds for channel %d with size %d",
		e.Start, e.Stop, e.Channel, e.Length)
}

func (e *OutOfBoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}

// FrequencyError describes a frequency that could not be served.
type FrequencyError struct {
	Requested float64
	Available []float64
	Err       error // ErrFrequencyNotFound or ErrFrequencyMismatch
}

func (e *FrequencyError) Error() string {
	available := make([]string, 0, len(e.Available))
	for _, f := range e.Available {
		available = append(available, strconv.FormatFloat(f, 'g', -1, 64))
	}

	if errors.Is(e.Err, ErrFrequencyMismatch) {
		return fmt.Sprintf("%v: channels are sampled at %s", e.Err, strings.Join(available, ", "))
	}

	return fmt.Sprintf("%v: %g Hz, frequency must be one of %s",
		e.Err, e.Requested, strings.Join(available, ", "))
}

func (e *FrequencyError) Unwrap() error {
	return e.Err
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
