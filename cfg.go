// Copyright 2021 The comtrade Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comtrade

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/xerrors"
)

const cfgSeparator = ","

var (
	cfgDate = regexp.MustCompile(`^([0-9]{1,2})/([0-9]{1,2})/([0-9]{2,4})$`)
	cfgTime = regexp.MustCompile(`^([0-9]{2}):([0-9]{2}):([0-9]{2})(?:\.([0-9]{1,12}))?$`)
)

// cfgScanner walks the configuration sub-stream line by line, keeping
// track of the current line number for error reporting.
type cfgScanner struct {
	lines []string
	pos   int // number of lines consumed
}

func (sc *cfgScanner) next() (string, error) {
	if sc.pos >= len(sc.lines) {
		return "", xerrors.Errorf("comtrade: unexpected end of configuration (expected line %d)", sc.pos+1)
	}
	line := sc.lines[sc.pos]
	sc.pos++
	return line, nil
}

// more reports whether at least one non-blank line remains.
func (sc *cfgScanner) more() bool {
	for _, line := range sc.lines[sc.pos:] {
		if strings.TrimSpace(line) != "" {
			return true
		}
	}
	return false
}

func (sc *cfgScanner) line() int { return sc.pos }

// parseCfg consumes the configuration grammar in strict schema order
// and fills in the record under construction. The schema branches on
// the format revision declared on the first line: the 1991 grammar ends
// at the data-format line, 1999 adds the timestamp multiplication
// factor and 2013 adds the UTC/local offsets and the clock quality
// codes.
func (p *parser) parseCfg(lines []string) error {
	sc := &cfgScanner{lines: dropTrailingBlank(lines)}
	rec := p.rec

	// Station name, device id and optionally the revision year:
	// 1991:       station_name,rec_dev_id
	// 1999, 2013: station_name,rec_dev_id,rev_year
	line, err := sc.next()
	if err != nil {
		return err
	}
	fields := strings.Split(line, cfgSeparator)
	switch len(fields) {
	case 2:
		rec.Revision = Revision1991
	case 3:
		rev, err := parseRevision(fields[2])
		if err != nil {
			return xerrors.Errorf("comtrade: could not parse revision on line %d: %w", sc.line(), err)
		}
		rec.Revision = rev
	default:
		return fieldCountErr(sc.line(), len(fields), 3)
	}
	rec.StationName = fields[0]
	rec.RecordingDeviceID = fields[1]

	// Channel counts: TT,##A,##D
	line, err = sc.next()
	if err != nil {
		return err
	}
	fields = strings.Split(line, cfgSeparator)
	if len(fields) != 3 {
		return fieldCountErr(sc.line(), len(fields), 3)
	}
	total, err := parseUint(fields[0])
	if err != nil {
		return xerrors.Errorf("comtrade: could not parse total channel count on line %d: %w", sc.line(), err)
	}
	analog, err := parseCountToken(fields[1])
	if err != nil {
		return xerrors.Errorf("comtrade: could not parse analog channel count on line %d: %w", sc.line(), err)
	}
	status, err := parseCountToken(fields[2])
	if err != nil {
		return xerrors.Errorf("comtrade: could not parse status channel count on line %d: %w", sc.line(), err)
	}
	rec.NumTotalChannels = total
	rec.NumAnalogChannels = analog
	rec.NumStatusChannels = status

	// Analog channel rows: An,ch_id,ph,ccbm,uu,a,b,skew,min,max,primary,secondary,PS
	rec.AnalogChannels = make([]AnalogChannel, 0, analog)
	for i := 0; i < int(analog); i++ {
		ch, err := parseAnalogRow(sc)
		if err != nil {
			return err
		}
		rec.AnalogChannels = append(rec.AnalogChannels, ch)
	}

	// Status channel rows: Dn,ch_id,ph,ccbm,y
	rec.StatusChannels = make([]StatusChannel, 0, status)
	for i := 0; i < int(status); i++ {
		ch, err := parseStatusRow(sc)
		if err != nil {
			return err
		}
		rec.StatusChannels = append(rec.StatusChannels, ch)
	}

	// Line frequency: lf
	line, err = sc.next()
	if err != nil {
		return err
	}
	rec.LineFrequency, err = strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil {
		return xerrors.Errorf("comtrade: could not parse line frequency on line %d: %w", sc.line(), err)
	}

	if err := p.parseRates(sc); err != nil {
		return err
	}

	// Start and trigger timestamps. Their fractional-second precision
	// fixes the base unit of the in-file data timestamps.
	start, startBase, err := p.parseCfgTime(sc, "start")
	if err != nil {
		return err
	}
	trigger, triggerBase, err := p.parseCfgTime(sc, "trigger")
	if err != nil {
		return err
	}
	rec.StartTime = start
	rec.TriggerTime = trigger
	// When the two stamps disagree on precision, the finer unit wins.
	p.timeBase = startBase
	if triggerBase < p.timeBase {
		p.timeBase = triggerBase
	}

	// Data file type: ft
	line, err = sc.next()
	if err != nil {
		return err
	}
	rec.DataFormat, err = parseDataFormat(line)
	if err != nil {
		return xerrors.Errorf("comtrade: could not parse data format on line %d: %w", sc.line(), err)
	}

	// The 1991 grammar ends here.
	if rec.Revision == Revision1991 {
		return nil
	}

	// Timestamp multiplication factor: timemult. Absent in truncated
	// 1999 files; then the default of 1 applies.
	if !sc.more() && rec.Revision == Revision1999 {
		return nil
	}
	line, err = sc.next()
	if err != nil {
		return err
	}
	rec.TimeMult, err = strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil {
		return xerrors.Errorf("comtrade: could not parse timestamp multiplication factor on line %d: %w", sc.line(), err)
	}

	// The 1999 grammar ends here.
	if rec.Revision == Revision1999 {
		return nil
	}

	// UTC and local time offsets: time_code,local_code
	line, err = sc.next()
	if err != nil {
		return err
	}
	fields = strings.Split(line, cfgSeparator)
	if len(fields) != 2 {
		return fieldCountErr(sc.line(), len(fields), 2)
	}
	rec.TimeOffset, err = parseTimeOffset(fields[0])
	if err != nil {
		return xerrors.Errorf("comtrade: could not parse time offset on line %d: %w", sc.line(), err)
	}
	rec.LocalOffset, err = parseTimeOffset(fields[1])
	if err != nil {
		return xerrors.Errorf("comtrade: could not parse local time offset on line %d: %w", sc.line(), err)
	}

	// Clock quality: tmq_code,leapsec
	line, err = sc.next()
	if err != nil {
		return err
	}
	fields = strings.Split(line, cfgSeparator)
	if len(fields) != 2 {
		return fieldCountErr(sc.line(), len(fields), 2)
	}
	tmq, err := parseTimeQuality(fields[0])
	if err != nil {
		return xerrors.Errorf("comtrade: could not parse time quality on line %d: %w", sc.line(), err)
	}
	leap, err := parseLeapSecond(fields[1])
	if err != nil {
		return xerrors.Errorf("comtrade: could not parse leap second indicator on line %d: %w", sc.line(), err)
	}
	rec.TimeQuality = &tmq
	rec.LeapSecond = &leap

	return nil
}

func parseAnalogRow(sc *cfgScanner) (AnalogChannel, error) {
	var ch AnalogChannel

	line, err := sc.next()
	if err != nil {
		return ch, err
	}
	fields := strings.Split(line, cfgSeparator)
	if len(fields) != 13 {
		return ch, fieldCountErr(sc.line(), len(fields), 13)
	}

	index, err := parseUint(fields[0])
	if err != nil {
		return ch, xerrors.Errorf("comtrade: could not parse analog channel index on line %d: %w", sc.line(), err)
	}
	ch.Index = index
	ch.Name = fields[1]
	ch.Phase = fields[2]
	ch.Circuit = fields[3]
	ch.Units = fields[4]

	for _, v := range []struct {
		dst  *float64
		name string
		tok  string
	}{
		{&ch.Multiplier, "multiplier", fields[5]},
		{&ch.OffsetAdder, "offset adder", fields[6]},
		{&ch.Skew, "skew", fields[7]},
		{&ch.MinValue, "minimum value", fields[8]},
		{&ch.MaxValue, "maximum value", fields[9]},
		{&ch.PrimaryFactor, "primary factor", fields[10]},
		{&ch.SecondaryFactor, "secondary factor", fields[11]},
	} {
		*v.dst, err = strconv.ParseFloat(strings.TrimSpace(v.tok), 64)
		if err != nil {
			return ch, xerrors.Errorf("comtrade: could not parse %s for analog channel %d on line %d: %w",
				v.name, index, sc.line(), err,
			)
		}
	}

	ch.ScalingMode, err = parseScalingMode(fields[12])
	if err != nil {
		return ch, xerrors.Errorf("comtrade: could not parse scaling mode for analog channel %d on line %d: %w",
			index, sc.line(), err,
		)
	}
	return ch, nil
}

func parseStatusRow(sc *cfgScanner) (StatusChannel, error) {
	var ch StatusChannel

	line, err := sc.next()
	if err != nil {
		return ch, err
	}
	fields := strings.Split(line, cfgSeparator)
	if len(fields) != 5 {
		return ch, fieldCountErr(sc.line(), len(fields), 5)
	}

	index, err := parseUint(fields[0])
	if err != nil {
		return ch, xerrors.Errorf("comtrade: could not parse status channel index on line %d: %w", sc.line(), err)
	}
	ch.Index = index
	ch.Name = fields[1]
	ch.Phase = fields[2]
	ch.Circuit = fields[3]

	normal, err := parseUint(fields[4])
	if err != nil {
		return ch, xerrors.Errorf("comtrade: could not parse normal value for status channel %d on line %d: %w",
			index, sc.line(), err,
		)
	}
	if normal != 0 && normal != 1 {
		return ch, xerrors.Errorf("comtrade: invalid normal value %d for status channel %d on line %d (want 0 or 1)",
			normal, index, sc.line(),
		)
	}
	ch.Normal = uint8(normal)
	return ch, nil
}

// parseRates consumes the sampling-rate table:
//
//	nrates
//	samp,endsamp (x nrates)
//
// A zero nrates declares no fixed sampling rate; the grammar then still
// carries one samp,endsamp line whose end-sample value is the total
// sample count of the record.
func (p *parser) parseRates(sc *cfgScanner) error {
	rec := p.rec

	line, err := sc.next()
	if err != nil {
		return err
	}
	if fields := strings.Split(line, cfgSeparator); len(fields) != 1 {
		return fieldCountErr(sc.line(), len(fields), 1)
	}
	nrates, err := parseUint(line)
	if err != nil {
		return xerrors.Errorf("comtrade: could not parse sampling rate count on line %d: %w", sc.line(), err)
	}

	rec.SamplingRates = make([]SamplingRate, 0, nrates)
	for i := 0; i < int(nrates); i++ {
		line, err := sc.next()
		if err != nil {
			return err
		}
		fields := strings.Split(line, cfgSeparator)
		if len(fields) != 2 {
			return fieldCountErr(sc.line(), len(fields), 2)
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			return xerrors.Errorf("comtrade: could not parse sampling rate %d on line %d: %w", i+1, sc.line(), err)
		}
		end, err := parseUint(fields[1])
		if err != nil {
			return xerrors.Errorf("comtrade: could not parse end sample number for rate %d on line %d: %w", i+1, sc.line(), err)
		}
		rec.SamplingRates = append(rec.SamplingRates, SamplingRate{
			RateHz:    rate,
			EndSample: end,
		})
		if end > p.total {
			p.total = end
		}
	}

	if nrates == 0 {
		line, err := sc.next()
		if err != nil {
			return err
		}
		fields := strings.Split(line, cfgSeparator)
		total, err := parseUint(fields[len(fields)-1])
		if err != nil {
			return xerrors.Errorf("comtrade: could not parse total sample count on line %d: %w", sc.line(), err)
		}
		p.total = total
	}

	return nil
}

// parseCfgTime consumes one timestamp record. The date and time share a
// line, separated by the field delimiter:
//
//	dd/mm/yyyy,hh:mm:ss.ssssss
//
// The 1991 revision orders the date month first. The returned base is
// the unit of the in-file data timestamps implied by the fractional
// precision of this stamp: 1e-6 for up to six fractional digits, 1e-9
// beyond.
func (p *parser) parseCfgTime(sc *cfgScanner, which string) (time.Time, float64, error) {
	line, err := sc.next()
	if err != nil {
		return time.Time{}, 0, err
	}
	fields := strings.Split(line, cfgSeparator)
	if len(fields) != 2 {
		return time.Time{}, 0, fieldCountErr(sc.line(), len(fields), 2)
	}

	dm := cfgDate.FindStringSubmatch(strings.TrimSpace(fields[0]))
	if dm == nil {
		return time.Time{}, 0, xerrors.Errorf("comtrade: invalid %s date %q on line %d", which, fields[0], sc.line())
	}
	tm := cfgTime.FindStringSubmatch(strings.TrimSpace(fields[1]))
	if tm == nil {
		return time.Time{}, 0, xerrors.Errorf("comtrade: invalid %s time %q on line %d", which, fields[1], sc.line())
	}

	day, _ := strconv.Atoi(dm[1])
	month, _ := strconv.Atoi(dm[2])
	if p.rec.Revision == Revision1991 {
		// 1991 files order the date month/day.
		day, month = month, day
	}
	year, _ := strconv.Atoi(dm[3])
	if year < 100 {
		year += 1900
	}

	hour, _ := strconv.Atoi(tm[1])
	min, _ := strconv.Atoi(tm[2])
	sec, _ := strconv.Atoi(tm[3])

	var (
		nsec int
		base = 1e-6
	)
	if frac := tm[4]; frac != "" {
		if len(frac) > 6 {
			base = 1e-9
		}
		digits := frac
		if len(digits) > 9 {
			digits = digits[:9]
		}
		v, _ := strconv.Atoi(digits)
		for i := len(digits); i < 9; i++ {
			v *= 10
		}
		nsec = v
	}

	t := time.Date(year, time.Month(month), day, hour, min, sec, nsec, time.UTC)
	if t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, 0, xerrors.Errorf("comtrade: invalid %s date %q on line %d", which, fields[0], sc.line())
	}
	return t, base, nil
}

func fieldCountErr(line, got, want int) error {
	return xerrors.Errorf("comtrade: unexpected number of fields on line %d: got=%d, want=%d", line, got, want)
}

// parseCountToken parses a channel count of the form "4A" or "16D",
// dropping the trailing type letter.
func parseCountToken(tok string) (uint32, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return 0, xerrors.New("empty count")
	}
	return parseUint(tok[:len(tok)-1])
}

func parseUint(tok string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(tok), 10, 32)
	return uint32(v), err
}

func dropTrailingBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
