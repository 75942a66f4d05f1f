// Copyright 2021 The comtrade Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package comtrade decodes COMTRADE records, the IEEE C37.111 / IEC
// 60255-24 exchange format for power-system disturbance and fault
// recordings.
//
// A record is described by a family of companion files: a configuration
// file (.cfg), a data file (.dat), optional human-readable header (.hdr)
// and information (.inf) files, or a single combined file (.cff) that
// multiplexes all four. Package comtrade consumes these as io.Readers
// and produces a fully decoded Record with per-channel analog samples in
// engineering units, 0/1 status samples and per-sample elapsed times.
//
// All three format revisions (1991, 1999 and 2013) are supported, as
// are the four data encodings (ascii, binary, binary32 and float32).
package comtrade // import "github.com/drewsilcock/comtrade"

import (
	"fmt"
	"runtime/debug"
)

// Version returns the version of comtrade and its checksum.
// The returned values are only valid in binaries built with module support.
func Version() (version, sum string) {
	b, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	return versionOf(b)
}

func versionOf(b *debug.BuildInfo) (version, sum string) {
	if b == nil {
		return "", ""
	}

	const root = "github.com/drewsilcock/comtrade"
	for _, m := range b.Deps {
		if m.Path != root {
			continue
		}
		if m.Replace != nil {
			switch {
			case m.Replace.Version != "" && m.Replace.Path != "":
				return fmt.Sprintf("%s %s", m.Replace.Path, m.Replace.Version), m.Replace.Sum
			case m.Replace.Version != "":
				return m.Replace.Version, m.Replace.Sum
			case m.Replace.Path != "":
				return m.Replace.Path, m.Replace.Sum
			default:
				return m.Version + "*", ""
			}
		}
		return m.Version, m.Sum
	}
	return "", ""
}
