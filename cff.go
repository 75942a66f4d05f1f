// Copyright 2021 The comtrade Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comtrade

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// cffHeader matches the marker lines that separate the sub-streams of a
// combined file:
//
//	--- file type: CFG ---
//	--- file type: DAT BINARY: 432 ---
//
// The file-type token is mandatory; the data-format token and the byte
// size only appear on DAT markers.
var cffHeader = regexp.MustCompile(`(?i)---\s*file type:\s*([a-z]+)(?:\s+([a-z0-9]+))?\s*(?::\s*(\d+))?\s*---$`)

// cffSections holds the demultiplexed sub-streams of a combined file.
// The data sub-stream is kept as text lines for the ascii encoding and
// as raw bytes for the binary encodings.
type cffSections struct {
	cfg []string
	hdr []string
	inf []string

	datLines []string // ascii data rows
	datRaw   []byte   // binary data bytes

	format    DataFormat // encoding declared on the DAT marker
	hasFormat bool
	size      int // byte size declared on the DAT marker, 0 if absent
}

// splitCFF splits a combined-file stream into its four logical
// sub-streams. Non-marker lines are appended verbatim to the sub-stream
// selected by the last marker seen; content before any marker is a
// structural error. A DAT marker declaring a binary encoding must also
// declare the section byte size, which is then consumed as raw bytes.
func splitCFF(r *bufio.Reader) (*cffSections, error) {
	var (
		sec     cffSections
		current = fileKind(0)
		active  = false
		lineNum = 0
	)

	for {
		raw, err := r.ReadString('\n')
		if raw == "" && err != nil {
			if err == io.EOF {
				break
			}
			return nil, xerrors.Errorf("comtrade: could not read combined file: %w", err)
		}
		lineNum++
		line := strings.TrimSpace(raw)

		if m := cffHeader.FindStringSubmatch(line); m != nil {
			kind, err := parseFileKind(m[1])
			if err != nil {
				return nil, xerrors.Errorf("comtrade: invalid file-type marker on line %d: %w", lineNum, err)
			}
			current, active = kind, true

			if kind == kindDat && m[2] != "" {
				format, err := parseDataFormat(m[2])
				if err != nil {
					return nil, xerrors.Errorf("comtrade: invalid data format in marker on line %d: %w", lineNum, err)
				}
				sec.format, sec.hasFormat = format, true
			}
			if m[3] != "" {
				size, err := strconv.Atoi(m[3])
				if err != nil {
					return nil, xerrors.Errorf("comtrade: invalid data byte size in marker on line %d: %w", lineNum, err)
				}
				sec.size = size
			}

			if current == kindDat && sec.hasFormat && sec.format != Ascii {
				if sec.size == 0 {
					return nil, xerrors.Errorf("comtrade: binary data section on line %d declares no byte size", lineNum)
				}
				sec.datRaw = make([]byte, sec.size)
				if _, err := io.ReadFull(r, sec.datRaw); err != nil {
					return nil, xerrors.Errorf("comtrade: could not read %d bytes of binary data section: %w", sec.size, err)
				}
			}
			continue
		}

		if !active {
			return nil, xerrors.Errorf("comtrade: content before file-type marker on line %d", lineNum)
		}

		switch current {
		case kindCfg:
			sec.cfg = append(sec.cfg, line)
		case kindDat:
			sec.datLines = append(sec.datLines, line)
		case kindHdr:
			sec.hdr = append(sec.hdr, line)
		case kindInf:
			sec.inf = append(sec.inf, line)
		}

		if err == io.EOF {
			break
		}
	}

	return &sec, nil
}
