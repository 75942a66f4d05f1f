// Copyright 2021 The comtrade Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comtrade

import (
	"time"

	"golang.org/x/xerrors"
)

// Record is a fully decoded COMTRADE record.
//
// A Record is produced in a single parse pass and is not modified
// afterwards; decoding the same inputs again produces a new value.
type Record struct {
	StationName       string
	RecordingDeviceID string
	Revision          FormatRevision

	NumTotalChannels  uint32
	NumAnalogChannels uint32
	NumStatusChannels uint32

	// SampleNumbers holds the 1-based sample numbers as declared in the
	// data file, one entry per sample.
	SampleNumbers []uint32

	// Timestamps holds the elapsed time of each sample, in seconds since
	// the first sample, derived either from the sampling-rate table or
	// from the in-file timestamps.
	Timestamps []float64

	AnalogChannels []AnalogChannel
	StatusChannels []StatusChannel

	// LineFrequency is the nominal line frequency, in Hz.
	LineFrequency float64

	// SamplingRates is the declared sampling-rate table, ordered by
	// ascending end sample number. An empty table means the record has
	// no fixed sampling rate and every sample carries its own timestamp.
	SamplingRates []SamplingRate

	StartTime   time.Time
	TriggerTime time.Time

	DataFormat DataFormat

	// TimeMult is the timestamp multiplication factor (1999 revision
	// onwards). It defaults to 1 when absent.
	TimeMult float64

	// TimeOffset and LocalOffset relate the record timestamps to UTC and
	// to local time (2013 revision only). They are nil for earlier
	// revisions or when marked not applicable.
	TimeOffset  *TimeOffset
	LocalOffset *TimeOffset

	// TimeQuality and LeapSecond describe the recording clock (2013
	// revision only). They are nil for earlier revisions.
	TimeQuality *TimeQuality
	LeapSecond  *LeapSecondStatus

	// HeaderText and InfoText hold the verbatim contents of the optional
	// header and information companion files. They are free-form text
	// for humans and are not interpreted.
	HeaderText string
	InfoText   string
}

// An AnalogChannel is a continuously valued measured quantity (current,
// voltage, ...) sampled over time.
type AnalogChannel struct {
	// Index is the 1-based channel number as declared in the
	// configuration file.
	Index uint32

	Name    string
	Phase   string
	Circuit string // circuit component being monitored
	Units   string

	MinValue float64
	MaxValue float64

	// Multiplier and OffsetAdder define the affine transform from raw
	// sample values to engineering units.
	Multiplier  float64
	OffsetAdder float64

	// Skew is the channel time skew, in microseconds.
	Skew float64

	// PrimaryFactor and SecondaryFactor convert between primary and
	// secondary quantities for this channel.
	PrimaryFactor   float64
	SecondaryFactor float64

	ScalingMode AnalogScalingMode

	// Data holds the decoded samples, in engineering units.
	Data []float64
}

func (ch *AnalogChannel) scale(raw float64) float64 {
	return raw*ch.Multiplier + ch.OffsetAdder
}

// A StatusChannel is a binary digital signal sampled over time.
type StatusChannel struct {
	// Index is the 1-based channel number as declared in the
	// configuration file.
	Index uint32

	Name    string
	Phase   string
	Circuit string // circuit component being monitored

	// Normal is the normal status value of the channel, 0 or 1.
	Normal uint8

	// Data holds the decoded samples. Values are 0 or 1.
	Data []uint8
}

// SamplingRate is one entry of the sampling-rate table: a rate in Hz
// and the highest sample number (not index) it applies to.
type SamplingRate struct {
	RateHz    float64
	EndSample uint32
}

// check verifies the structural invariants of a freshly assembled
// record before it is handed to the caller.
func (rec *Record) check() error {
	if got, want := len(rec.AnalogChannels), int(rec.NumAnalogChannels); got != want {
		return xerrors.Errorf("comtrade: incomplete record: got=%d analog channels, want=%d", got, want)
	}
	if got, want := len(rec.StatusChannels), int(rec.NumStatusChannels); got != want {
		return xerrors.Errorf("comtrade: incomplete record: got=%d status channels, want=%d", got, want)
	}
	if got, want := rec.NumAnalogChannels+rec.NumStatusChannels, rec.NumTotalChannels; got != want {
		return xerrors.Errorf("comtrade: inconsistent channel counts: got=%d analog+status channels, want=%d", got, want)
	}
	n := len(rec.SampleNumbers)
	if got, want := len(rec.Timestamps), n; got != want {
		return xerrors.Errorf("comtrade: incomplete record: got=%d timestamps, want=%d", got, want)
	}
	for i := range rec.AnalogChannels {
		ch := &rec.AnalogChannels[i]
		if got, want := len(ch.Data), n; got != want {
			return xerrors.Errorf("comtrade: analog channel %d: got=%d samples, want=%d", ch.Index, got, want)
		}
	}
	for i := range rec.StatusChannels {
		ch := &rec.StatusChannels[i]
		if got, want := len(ch.Data), n; got != want {
			return xerrors.Errorf("comtrade: status channel %d: got=%d samples, want=%d", ch.Index, got, want)
		}
	}
	return nil
}
