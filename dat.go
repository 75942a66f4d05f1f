// Copyright 2021 The comtrade Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comtrade

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// noTimestamp marks a sample without an in-file timestamp. The binary
// encodings use the same sentinel on the wire.
const noTimestamp = 0xFFFFFFFF

// parseDat decodes the data sub-stream according to the encoding
// declared in the configuration. Analog samples go through the affine
// channel transform before storage; status samples are stored as 0/1.
func (p *parser) parseDat() error {
	switch p.rec.DataFormat {
	case Ascii:
		return p.parseDatAscii()
	case Binary16, Binary32, Float32:
		return p.parseDatBinary()
	}
	return xerrors.Errorf("comtrade: unknown data format %v", p.rec.DataFormat)
}

// parseDatAscii decodes the row-per-sample text table. Each non-blank
// row carries the sample number, the optional timestamp and one field
// per channel, analog channels first.
func (p *parser) parseDatAscii() error {
	rec := p.rec
	want := int(rec.NumAnalogChannels) + int(rec.NumStatusChannels) + 2

	row := 0
	for _, line := range p.datLines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		row++

		fields := strings.Split(line, ",")
		if got := len(fields); got != want {
			return xerrors.Errorf("comtrade: unexpected number of fields on data row %d: got=%d, want=%d", row, got, want)
		}

		sn, err := parseUint(fields[0])
		if err != nil {
			return xerrors.Errorf("comtrade: could not parse sample number on data row %d: %w", row, err)
		}
		p.sampleNumbers = append(p.sampleNumbers, sn)

		switch ts := strings.TrimSpace(fields[1]); ts {
		case "":
			p.stamps = append(p.stamps, noTimestamp)
		default:
			v, err := parseUint(ts)
			if err != nil {
				return xerrors.Errorf("comtrade: could not parse timestamp on data row %d: %w", row, err)
			}
			p.stamps = append(p.stamps, v)
		}

		for i := range rec.AnalogChannels {
			ch := &rec.AnalogChannels[i]
			raw, err := strconv.ParseFloat(strings.TrimSpace(fields[i+2]), 64)
			if err != nil {
				return xerrors.Errorf("comtrade: could not parse value for analog channel %d on data row %d: %w",
					ch.Index, row, err,
				)
			}
			ch.Data = append(ch.Data, ch.scale(raw))
		}

		off := int(rec.NumAnalogChannels) + 2
		for i := range rec.StatusChannels {
			ch := &rec.StatusChannels[i]
			v, err := parseUint(fields[off+i])
			if err != nil {
				return xerrors.Errorf("comtrade: could not parse value for status channel %d on data row %d: %w",
					ch.Index, row, err,
				)
			}
			if v != 0 && v != 1 {
				return xerrors.Errorf("comtrade: invalid value %d for status channel %d on data row %d (want 0 or 1)",
					v, ch.Index, row,
				)
			}
			ch.Data = append(ch.Data, uint8(v))
		}
	}

	return nil
}

// parseDatBinary decodes the fixed-size binary records:
//
//	u32 sample number | u32 timestamp | analog values | u16 status groups
//
// all little-endian. Analog values are i16, i32 or f32 depending on the
// encoding; status samples are packed 16 to a group, least significant
// bit first. The record count comes from the configuration, not from an
// end-of-stream sentinel.
func (p *parser) parseDatBinary() error {
	var (
		rec    = p.rec
		na     = int(rec.NumAnalogChannels)
		ns     = int(rec.NumStatusChannels)
		ngroup = (ns + 15) / 16
		width  = rec.DataFormat.analogSize()
		size   = 8 + na*width + ngroup*2

		r   = bytes.NewReader(p.datRaw)
		buf = make([]byte, size)
	)

	for n := 0; n < int(p.total); n++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return xerrors.Errorf("comtrade: could not read binary record %d/%d: %w", n+1, p.total, err)
		}

		p.sampleNumbers = append(p.sampleNumbers, binary.LittleEndian.Uint32(buf[0:4]))
		p.stamps = append(p.stamps, binary.LittleEndian.Uint32(buf[4:8]))

		off := 8
		for i := 0; i < na; i++ {
			var raw float64
			switch rec.DataFormat {
			case Binary16:
				raw = float64(int16(binary.LittleEndian.Uint16(buf[off:])))
			case Binary32:
				raw = float64(int32(binary.LittleEndian.Uint32(buf[off:])))
			case Float32:
				raw = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])))
			}
			off += width

			ch := &rec.AnalogChannels[i]
			ch.Data = append(ch.Data, ch.scale(raw))
		}

		// Status groups are concatenated across all channels and the
		// padding bits of the final group are discarded.
		ich := 0
		for g := 0; g < ngroup; g++ {
			word := binary.LittleEndian.Uint16(buf[off:])
			off += 2
			for bit := 0; bit < 16 && ich < ns; bit++ {
				ch := &rec.StatusChannels[ich]
				ch.Data = append(ch.Data, uint8(word>>bit&1))
				ich++
			}
		}
	}

	return nil
}
