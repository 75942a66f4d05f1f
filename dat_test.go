// Copyright 2021 The comtrade Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comtrade

import (
	"bytes"
	"encoding/binary"
	"math"
	"reflect"
	"testing"
)

// datParser builds a parser around a minimal configuration with one
// analog channel (value = 0.5*raw + 1) and two status channels.
func datParser(format DataFormat, total uint32) *parser {
	p := newParser()
	p.total = total
	p.rec.DataFormat = format
	p.rec.NumTotalChannels = 3
	p.rec.NumAnalogChannels = 1
	p.rec.NumStatusChannels = 2
	p.rec.AnalogChannels = []AnalogChannel{
		{Index: 1, Name: "IA", Multiplier: 0.5, OffsetAdder: 1},
	}
	p.rec.StatusChannels = []StatusChannel{
		{Index: 1, Name: "ST_1"},
		{Index: 2, Name: "ST_2"},
	}
	return p
}

func TestParseDatAscii(t *testing.T) {
	p := datParser(Ascii, 3)
	p.datLines = []string{
		"1,0,10,1,0",
		"",
		"2,,-4,0,1",
		"3,1667,0,1,1",
	}

	err := p.parseDat()
	if err != nil {
		t.Fatalf("could not parse data: %+v", err)
	}

	if got, want := p.sampleNumbers, []uint32{1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid sample numbers: got=%v, want=%v", got, want)
	}
	if got, want := p.stamps, []uint32{0, noTimestamp, 1667}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid timestamps: got=%v, want=%v", got, want)
	}
	if got, want := p.rec.AnalogChannels[0].Data, []float64{6, -1, 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid analog data: got=%v, want=%v", got, want)
	}
	if got, want := p.rec.StatusChannels[0].Data, []uint8{1, 0, 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid status data: got=%v, want=%v", got, want)
	}
	if got, want := p.rec.StatusChannels[1].Data, []uint8{0, 1, 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid status data: got=%v, want=%v", got, want)
	}
}

func TestParseDatAsciiErrors(t *testing.T) {
	for _, tc := range []struct {
		name  string
		lines []string
		err   string
	}{
		{
			name:  "short-row",
			lines: []string{"1,0,10,1,0", "2,0,10,1"},
			err:   "comtrade: unexpected number of fields on data row 2: got=4, want=5",
		},
		{
			name:  "invalid-sample-number",
			lines: []string{"one,0,10,1,0"},
			err:   `comtrade: could not parse sample number on data row 1: strconv.ParseUint: parsing "one": invalid syntax`,
		},
		{
			name:  "invalid-timestamp",
			lines: []string{"1,soon,10,1,0"},
			err:   `comtrade: could not parse timestamp on data row 1: strconv.ParseUint: parsing "soon": invalid syntax`,
		},
		{
			name:  "invalid-analog-value",
			lines: []string{"1,0,ten,1,0"},
			err:   `comtrade: could not parse value for analog channel 1 on data row 1: strconv.ParseFloat: parsing "ten": invalid syntax`,
		},
		{
			name:  "invalid-status-value",
			lines: []string{"1,0,10,2,0"},
			err:   "comtrade: invalid value 2 for status channel 1 on data row 1 (want 0 or 1)",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := datParser(Ascii, uint32(len(tc.lines)))
			p.datLines = tc.lines
			checkErr(t, p.parseDat(), tc.err)
		})
	}
}

func TestParseDatBinary16(t *testing.T) {
	buf := new(bytes.Buffer)
	for _, rec := range []struct {
		sn, ts uint32
		v      int16
		st     uint16
	}{
		{1, 0, 10, 0b01},
		{2, 833, -4, 0b10},
		{3, noTimestamp, 0, 0b11},
	} {
		_ = binary.Write(buf, binary.LittleEndian, rec.sn)
		_ = binary.Write(buf, binary.LittleEndian, rec.ts)
		_ = binary.Write(buf, binary.LittleEndian, rec.v)
		_ = binary.Write(buf, binary.LittleEndian, rec.st)
	}

	p := datParser(Binary16, 3)
	p.datRaw = buf.Bytes()

	err := p.parseDat()
	if err != nil {
		t.Fatalf("could not parse data: %+v", err)
	}

	if got, want := p.sampleNumbers, []uint32{1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid sample numbers: got=%v, want=%v", got, want)
	}
	if got, want := p.stamps, []uint32{0, 833, noTimestamp}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid timestamps: got=%v, want=%v", got, want)
	}
	if got, want := p.rec.AnalogChannels[0].Data, []float64{6, -1, 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid analog data: got=%v, want=%v", got, want)
	}
	// Status bits unpack least significant first.
	if got, want := p.rec.StatusChannels[0].Data, []uint8{1, 0, 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid status data: got=%v, want=%v", got, want)
	}
	if got, want := p.rec.StatusChannels[1].Data, []uint8{0, 1, 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid status data: got=%v, want=%v", got, want)
	}
}

func TestParseDatBinary32(t *testing.T) {
	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.LittleEndian, uint32(1))
	_ = binary.Write(buf, binary.LittleEndian, uint32(0))
	_ = binary.Write(buf, binary.LittleEndian, int32(-100000))
	_ = binary.Write(buf, binary.LittleEndian, uint16(0))

	p := datParser(Binary32, 1)
	p.datRaw = buf.Bytes()

	err := p.parseDat()
	if err != nil {
		t.Fatalf("could not parse data: %+v", err)
	}
	if got, want := p.rec.AnalogChannels[0].Data, []float64{-49999}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid analog data: got=%v, want=%v", got, want)
	}
}

func TestParseDatFloat32(t *testing.T) {
	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.LittleEndian, uint32(1))
	_ = binary.Write(buf, binary.LittleEndian, uint32(0))
	_ = binary.Write(buf, binary.LittleEndian, math.Float32bits(2.5))
	_ = binary.Write(buf, binary.LittleEndian, uint16(0))

	p := datParser(Float32, 1)
	p.datRaw = buf.Bytes()

	err := p.parseDat()
	if err != nil {
		t.Fatalf("could not parse data: %+v", err)
	}
	if got, want := p.rec.AnalogChannels[0].Data, []float64{2.25}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid analog data: got=%v, want=%v", got, want)
	}
}

func TestParseDatBinaryShort(t *testing.T) {
	p := datParser(Binary16, 2)
	p.datRaw = make([]byte, 18) // one full record and half of the next

	err := p.parseDat()
	checkErr(t, err, "comtrade: could not read binary record 2/2: unexpected EOF")
}

func TestParseDatBinaryStatusUnpack(t *testing.T) {
	// One 16-bit group, five declared channels: 0b101 unpacks LSB first
	// and the padding bits are dropped.
	p := newParser()
	p.total = 1
	p.rec.DataFormat = Binary16
	p.rec.NumTotalChannels = 5
	p.rec.NumStatusChannels = 5
	p.rec.StatusChannels = make([]StatusChannel, 5)
	for i := range p.rec.StatusChannels {
		p.rec.StatusChannels[i].Index = uint32(i + 1)
	}

	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.LittleEndian, uint32(1))
	_ = binary.Write(buf, binary.LittleEndian, uint32(0))
	_ = binary.Write(buf, binary.LittleEndian, uint16(0b101))
	p.datRaw = buf.Bytes()

	err := p.parseDat()
	if err != nil {
		t.Fatalf("could not parse data: %+v", err)
	}

	var got []uint8
	for i := range p.rec.StatusChannels {
		got = append(got, p.rec.StatusChannels[i].Data[0])
	}
	if want := []uint8{1, 0, 1, 0, 0}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid status data: got=%v, want=%v", got, want)
	}
}

func TestParseDatBinaryManyStatus(t *testing.T) {
	// 17 status channels span two 16-bit groups.
	p := newParser()
	p.total = 1
	p.rec.DataFormat = Binary16
	p.rec.NumTotalChannels = 17
	p.rec.NumStatusChannels = 17
	p.rec.StatusChannels = make([]StatusChannel, 17)
	for i := range p.rec.StatusChannels {
		p.rec.StatusChannels[i].Index = uint32(i + 1)
	}

	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.LittleEndian, uint32(1))
	_ = binary.Write(buf, binary.LittleEndian, uint32(0))
	_ = binary.Write(buf, binary.LittleEndian, uint16(0x8001)) // channels 1 and 16
	_ = binary.Write(buf, binary.LittleEndian, uint16(0x0001)) // channel 17
	p.datRaw = buf.Bytes()

	err := p.parseDat()
	if err != nil {
		t.Fatalf("could not parse data: %+v", err)
	}

	var got []uint8
	for i := range p.rec.StatusChannels {
		got = append(got, p.rec.StatusChannels[i].Data[0])
	}
	want := []uint8{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid status data: got=%v, want=%v", got, want)
	}
}
