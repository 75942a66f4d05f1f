// Copyright 2021 The comtrade Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comtrade

import (
	"testing"
)

func TestParseRevision(t *testing.T) {
	for _, tc := range []struct {
		tok  string
		want FormatRevision
		err  string
	}{
		{tok: "1991", want: Revision1991},
		{tok: "1999", want: Revision1999},
		{tok: "2013", want: Revision2013},
		{tok: " 2013 ", want: Revision2013},
		{tok: "2018", err: `comtrade: invalid format revision "2018"`},
		{tok: "", err: `comtrade: invalid format revision ""`},
	} {
		t.Run(tc.tok, func(t *testing.T) {
			rev, err := parseRevision(tc.tok)
			checkErr(t, err, tc.err)
			if tc.err == "" && rev != tc.want {
				t.Fatalf("invalid revision: got=%v, want=%v", rev, tc.want)
			}
		})
	}
}

func TestParseDataFormat(t *testing.T) {
	for _, tc := range []struct {
		tok  string
		want DataFormat
		err  string
	}{
		{tok: "ascii", want: Ascii},
		{tok: "ASCII", want: Ascii},
		{tok: "binary", want: Binary16},
		{tok: "BiNaRy", want: Binary16},
		{tok: "binary32", want: Binary32},
		{tok: "float32", want: Float32},
		{tok: " float32 ", want: Float32},
		{tok: "float64", err: `comtrade: invalid data format "float64"`},
	} {
		t.Run(tc.tok, func(t *testing.T) {
			f, err := parseDataFormat(tc.tok)
			checkErr(t, err, tc.err)
			if tc.err == "" && f != tc.want {
				t.Fatalf("invalid data format: got=%v, want=%v", f, tc.want)
			}
		})
	}
}

func TestParseScalingMode(t *testing.T) {
	for _, tc := range []struct {
		tok  string
		want AnalogScalingMode
		err  string
	}{
		{tok: "p", want: Primary},
		{tok: "P", want: Primary},
		{tok: "s", want: Secondary},
		{tok: "S", want: Secondary},
		{tok: "q", err: `comtrade: invalid analog scaling mode "q" (want one of 'p', 'P', 's', 'S')`},
	} {
		t.Run(tc.tok, func(t *testing.T) {
			m, err := parseScalingMode(tc.tok)
			checkErr(t, err, tc.err)
			if tc.err == "" && m != tc.want {
				t.Fatalf("invalid scaling mode: got=%v, want=%v", m, tc.want)
			}
		})
	}
}

func TestParseTimeQuality(t *testing.T) {
	for _, tc := range []struct {
		tok  string
		want TimeQuality
		err  string
	}{
		{tok: "f", want: TimeQuality{Status: ClockFailure}},
		{tok: "F", want: TimeQuality{Status: ClockFailure}},
		{tok: "b", want: TimeQuality{Status: ClockUnlocked, Precision: 1}},
		{tok: "a", want: TimeQuality{Status: ClockUnlocked, Precision: 0}},
		{tok: "9", want: TimeQuality{Status: ClockUnlocked, Precision: -1}},
		{tok: "5", want: TimeQuality{Status: ClockUnlocked, Precision: -5}},
		{tok: "1", want: TimeQuality{Status: ClockUnlocked, Precision: -9}},
		{tok: "0", want: TimeQuality{Status: ClockLocked}},
		{tok: "c", err: `comtrade: invalid time quality code "c"`},
	} {
		t.Run(tc.tok, func(t *testing.T) {
			q, err := parseTimeQuality(tc.tok)
			checkErr(t, err, tc.err)
			if tc.err == "" && q != tc.want {
				t.Fatalf("invalid time quality: got=%+v, want=%+v", q, tc.want)
			}
		})
	}
}

func TestParseLeapSecond(t *testing.T) {
	for _, tc := range []struct {
		tok  string
		want LeapSecondStatus
		err  string
	}{
		{tok: "0", want: LeapNotPresent},
		{tok: "1", want: LeapAdded},
		{tok: "2", want: LeapSubtracted},
		{tok: "3", want: LeapNoCapability},
		{tok: "4", err: `comtrade: invalid leap second indicator "4"`},
	} {
		t.Run(tc.tok, func(t *testing.T) {
			ls, err := parseLeapSecond(tc.tok)
			checkErr(t, err, tc.err)
			if tc.err == "" && ls != tc.want {
				t.Fatalf("invalid leap second status: got=%v, want=%v", ls, tc.want)
			}
		})
	}
}

func TestParseFileKind(t *testing.T) {
	for _, tc := range []struct {
		tok  string
		want fileKind
		err  string
	}{
		{tok: "cfg", want: kindCfg},
		{tok: "CFG", want: kindCfg},
		{tok: "dat", want: kindDat},
		{tok: "hdr", want: kindHdr},
		{tok: "inf", want: kindInf},
		{tok: "raw", err: `comtrade: invalid file type "raw"`},
	} {
		t.Run(tc.tok, func(t *testing.T) {
			k, err := parseFileKind(tc.tok)
			checkErr(t, err, tc.err)
			if tc.err == "" && k != tc.want {
				t.Fatalf("invalid file kind: got=%v, want=%v", k, tc.want)
			}
		})
	}
}

// checkErr compares an error against the expected message, an empty
// message meaning no error.
func checkErr(t *testing.T, err error, want string) {
	t.Helper()
	switch {
	case err != nil && want == "":
		t.Fatalf("unexpected error: %+v", err)
	case err == nil && want != "":
		t.Fatalf("expected an error: %q", want)
	case err != nil && want != "":
		if got := err.Error(); got != want {
			t.Fatalf("invalid error:\ngot: %s\nwant:%s", got, want)
		}
	}
}
