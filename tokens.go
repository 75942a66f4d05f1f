// Copyright 2021 The comtrade Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comtrade

import (
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// FormatRevision is the revision year of the COMTRADE standard a
// configuration file declares. Later revisions add fields to the
// configuration grammar.
type FormatRevision uint16

const (
	Revision1991 FormatRevision = 1991
	Revision1999 FormatRevision = 1999
	Revision2013 FormatRevision = 2013
)

func (rev FormatRevision) String() string {
	return strconv.Itoa(int(rev))
}

func parseRevision(tok string) (FormatRevision, error) {
	switch strings.TrimSpace(tok) {
	case "1991":
		return Revision1991, nil
	case "1999":
		return Revision1999, nil
	case "2013":
		return Revision2013, nil
	}
	return 0, xerrors.Errorf("comtrade: invalid format revision %q", tok)
}

// DataFormat is the sample encoding of the data file.
type DataFormat uint8

const (
	Ascii    DataFormat = iota // one text row per sample
	Binary16                   // 16-bit signed analog samples
	Binary32                   // 32-bit signed analog samples
	Float32                    // IEEE-754 32-bit analog samples
)

func (f DataFormat) String() string {
	switch f {
	case Ascii:
		return "ascii"
	case Binary16:
		return "binary"
	case Binary32:
		return "binary32"
	case Float32:
		return "float32"
	}
	return "DataFormat(" + strconv.Itoa(int(f)) + ")"
}

// analogSize returns the encoded size of one analog sample, in bytes.
// It is only meaningful for the binary encodings.
func (f DataFormat) analogSize() int {
	if f == Binary16 {
		return 2
	}
	return 4
}

func parseDataFormat(tok string) (DataFormat, error) {
	switch strings.ToLower(strings.TrimSpace(tok)) {
	case "ascii":
		return Ascii, nil
	case "binary":
		return Binary16, nil
	case "binary32":
		return Binary32, nil
	case "float32":
		return Float32, nil
	}
	return 0, xerrors.Errorf("comtrade: invalid data format %q", tok)
}

// AnalogScalingMode indicates whether the stored values of an analog
// channel represent primary or secondary physical quantities. It does
// not affect the decoding arithmetic.
type AnalogScalingMode uint8

const (
	Primary AnalogScalingMode = iota
	Secondary
)

func (m AnalogScalingMode) String() string {
	switch m {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	}
	return "AnalogScalingMode(" + strconv.Itoa(int(m)) + ")"
}

func parseScalingMode(tok string) (AnalogScalingMode, error) {
	switch strings.ToLower(strings.TrimSpace(tok)) {
	case "p":
		return Primary, nil
	case "s":
		return Secondary, nil
	}
	return 0, xerrors.Errorf("comtrade: invalid analog scaling mode %q (want one of 'p', 'P', 's', 'S')", tok)
}

// ClockStatus is the coarse state of the recording device clock.
type ClockStatus uint8

const (
	ClockLocked ClockStatus = iota
	ClockUnlocked
	ClockFailure
)

func (st ClockStatus) String() string {
	switch st {
	case ClockLocked:
		return "locked"
	case ClockUnlocked:
		return "unlocked"
	case ClockFailure:
		return "failure"
	}
	return "ClockStatus(" + strconv.Itoa(int(st)) + ")"
}

// TimeQuality describes the reliability of the recording device clock
// (2013 revision only).
type TimeQuality struct {
	Status ClockStatus

	// Precision is the power of ten, in seconds, to which an unlocked
	// clock is reliable: -9 is 1 ns, -5 is 10 us, 1 is 10 s. It is only
	// meaningful when Status is ClockUnlocked; the standard allows
	// values between -9 and 1.
	Precision int
}

func parseTimeQuality(tok string) (TimeQuality, error) {
	switch strings.ToLower(strings.TrimSpace(tok)) {
	case "f":
		return TimeQuality{Status: ClockFailure}, nil
	case "b":
		return TimeQuality{Status: ClockUnlocked, Precision: 1}, nil
	case "a":
		return TimeQuality{Status: ClockUnlocked, Precision: 0}, nil
	case "9":
		return TimeQuality{Status: ClockUnlocked, Precision: -1}, nil
	case "8":
		return TimeQuality{Status: ClockUnlocked, Precision: -2}, nil
	case "7":
		return TimeQuality{Status: ClockUnlocked, Precision: -3}, nil
	case "6":
		return TimeQuality{Status: ClockUnlocked, Precision: -4}, nil
	case "5":
		return TimeQuality{Status: ClockUnlocked, Precision: -5}, nil
	case "4":
		return TimeQuality{Status: ClockUnlocked, Precision: -6}, nil
	case "3":
		return TimeQuality{Status: ClockUnlocked, Precision: -7}, nil
	case "2":
		return TimeQuality{Status: ClockUnlocked, Precision: -8}, nil
	case "1":
		return TimeQuality{Status: ClockUnlocked, Precision: -9}, nil
	case "0":
		return TimeQuality{Status: ClockLocked}, nil
	}
	return TimeQuality{}, xerrors.Errorf("comtrade: invalid time quality code %q", tok)
}

// LeapSecondStatus indicates whether a leap second is present in the
// record (2013 revision only).
type LeapSecondStatus uint8

const (
	LeapNotPresent LeapSecondStatus = iota
	LeapAdded
	LeapSubtracted
	LeapNoCapability
)

func (ls LeapSecondStatus) String() string {
	switch ls {
	case LeapNotPresent:
		return "not-present"
	case LeapAdded:
		return "added"
	case LeapSubtracted:
		return "subtracted"
	case LeapNoCapability:
		return "no-capability"
	}
	return "LeapSecondStatus(" + strconv.Itoa(int(ls)) + ")"
}

func parseLeapSecond(tok string) (LeapSecondStatus, error) {
	switch strings.TrimSpace(tok) {
	case "0":
		return LeapNotPresent, nil
	case "1":
		return LeapAdded, nil
	case "2":
		return LeapSubtracted, nil
	case "3":
		return LeapNoCapability, nil
	}
	return 0, xerrors.Errorf("comtrade: invalid leap second indicator %q", tok)
}

// fileKind tags the logical sub-streams of a combined (CFF) file.
type fileKind uint8

const (
	kindCfg fileKind = iota
	kindDat
	kindHdr
	kindInf
)

func parseFileKind(tok string) (fileKind, error) {
	switch strings.ToLower(strings.TrimSpace(tok)) {
	case "cfg":
		return kindCfg, nil
	case "dat":
		return kindDat, nil
	case "hdr":
		return kindHdr, nil
	case "inf":
		return kindInf, nil
	}
	return 0, xerrors.Errorf("comtrade: invalid file type %q", tok)
}
