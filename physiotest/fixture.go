// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package physiotest compares Blueprints and Views against plain YAML
// fixtures in tests.
package physiotest

import (
	"os"
	"testing"

	"github.com/OpenPSG/physio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

// Fixture is the plain form of a Blueprint.
type Fixture struct {
	Channels           [][]float64 `yaml:"channels"`
	Frequencies        []float64   `yaml:"frequencies"`
	ChannelNames       []string    `yaml:"channel_names"`
	Units              []string    `yaml:"units"`
	TriggerChannel     *int        `yaml:"trigger_channel,omitempty"`
	NumTimepointsFound *int        `yaml:"num_timepoints_found,omitempty"`
	Threshold          *float64    `yaml:"threshold,omitempty"`
	TimeOffset         float64     `yaml:"time_offset"`
}

// ViewFixture is the plain form of a View. Matrix holds one row per timepoint.
type ViewFixture struct {
	Matrix       [][]float64 `yaml:"matrix"`
	Frequency    float64     `yaml:"frequency"`
	ChannelNames []string    `yaml:"channel_names"`
	Units        []string    `yaml:"units"`
	StartTime    float64     `yaml:"start_time"`
	Label        string      `yaml:"label,omitempty"`
}

// LoadFixture reads a Fixture from a YAML file.
func LoadFixture(t testing.TB, path string) Fixture {
	t.Helper()

	var f Fixture
	load(t, path, &f)
	return f
}

// LoadViewFixture reads a ViewFixture from a YAML file.
func LoadViewFixture(t testing.TB, path string) ViewFixture {
	t.Helper()

	var f ViewFixture
	load(t, path, &f)
	return f
}

func load(t testing.TB, path string, out any) {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, out))
}

// Blueprint builds the Blueprint described by the fixture.
func (f Fixture) Blueprint(t testing.TB) *physio.Blueprint {
	t.Helper()

	var opts []physio.Option
	if f.TriggerChannel != nil {
		opts = append(opts, physio.WithTriggerChannel(*f.TriggerChannel))
	}

	b, err := physio.New(f.Channels, f.Frequencies, f.ChannelNames, f.Units, opts...)
	require.NoError(t, err)

	b.NumTimepointsFound = f.NumTimepointsFound
	b.Threshold = f.Threshold
	b.TimeOffset = f.TimeOffset
	return b
}

// FixtureOf returns the plain form of b.
func FixtureOf(b *physio.Blueprint) Fixture {
	f := Fixture{
		Frequencies:        b.Frequencies(),
		ChannelNames:       b.ChannelNames(),
		Units:              b.Units(),
		NumTimepointsFound: b.NumTimepointsFound,
		Threshold:          b.Threshold,
		TimeOffset:         b.TimeOffset,
	}
	for _, ch := range b.Channels() {
		f.Channels = append(f.Channels, ch.Samples)
	}
	if trigger, ok := b.TriggerChannel(); ok {
		f.TriggerChannel = &trigger
	}
	return f
}

// ViewFixtureOf returns the plain form of v.
func ViewFixtureOf(v *physio.View) ViewFixture {
	f := ViewFixture{
		Frequency:    v.Frequency,
		ChannelNames: v.ChannelNames(),
		Units:        v.Units(),
		StartTime:    v.StartTime,
		Label:        v.Label,
	}
	m := v.Matrix()
	r, _ := m.Dims()
	for i := 0; i < r; i++ {
		f.Matrix = append(f.Matrix, mat.Row(nil, i, m))
	}
	return f
}

// AssertBlueprint asserts that got matches the fixture field by field, with
// every sample compared exactly.
func AssertBlueprint(t testing.TB, want Fixture, got *physio.Blueprint) bool {
	t.Helper()
	return assert.Equal(t, want, FixtureOf(got))
}

// AssertView asserts that got matches the fixture field by field.
func AssertView(t testing.TB, want ViewFixture, got *physio.View) bool {
	t.Helper()
	return assert.Equal(t, want, ViewFixtureOf(got))
}
