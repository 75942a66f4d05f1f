// Copyright 2021 The comtrade Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comtrade

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"golang.org/x/xerrors"
)

var (
	// ErrMissingInput is returned when neither a combined file nor a
	// configuration+data pair is supplied.
	ErrMissingInput = errors.New("comtrade: missing input file")

	// ErrMissingTimestamp is returned when a record without a fixed
	// sampling rate carries a sample with no in-file timestamp.
	ErrMissingTimestamp = errors.New("comtrade: missing critical timestamp")
)

// A Parser decodes one COMTRADE record from its companion files.
//
// Either CFF must be set, or both CFG and DAT. HDR and INF are optional
// human-readable companions; their contents are carried over to the
// record verbatim. The zero Parser is invalid.
type Parser struct {
	CFF io.Reader // combined file
	CFG io.Reader // configuration file
	DAT io.Reader // data file
	HDR io.Reader // header file (optional)
	INF io.Reader // information file (optional)
}

// Parse decodes a COMTRADE record from a combined (.cff) stream.
func Parse(cff io.Reader) (*Record, error) {
	return (&Parser{CFF: cff}).Parse()
}

// ParseFiles decodes a COMTRADE record from separate configuration and
// data streams.
func ParseFiles(cfg, dat io.Reader) (*Record, error) {
	return (&Parser{CFG: cfg, DAT: dat}).Parse()
}

// Parse runs the decode. It is a pure transform: all inputs are read
// up front and the first error encountered aborts the parse.
func (p *Parser) Parse() (*Record, error) {
	switch {
	case p.CFF != nil && (p.CFG != nil || p.DAT != nil):
		return nil, xerrors.Errorf("comtrade: both combined and split input files supplied")
	case p.CFF == nil && (p.CFG == nil || p.DAT == nil):
		return nil, xerrors.Errorf("comtrade: need either a combined file or a configuration and a data file: %w", ErrMissingInput)
	}

	ctx := newParser()
	if p.CFF != nil {
		if err := ctx.loadCFF(p.CFF); err != nil {
			return nil, err
		}
	} else {
		if err := ctx.loadSplit(p); err != nil {
			return nil, err
		}
	}

	if err := ctx.parseDat(); err != nil {
		return nil, err
	}
	if err := ctx.reconstructTimes(); err != nil {
		return nil, err
	}
	return ctx.finish()
}

// parser is the mutable parse context. Fields are filled incrementally
// as the schema unfolds and converted to the immutable Record once
// completeness has been checked.
type parser struct {
	rec *Record

	datLines []string // ascii data rows
	datRaw   []byte   // binary data bytes

	sampleNumbers []uint32
	stamps        []uint32 // raw timestamps; noTimestamp when absent

	timeBase float64 // seconds per raw timestamp unit
	total    uint32  // declared total sample count
}

func newParser() *parser {
	return &parser{
		rec: &Record{
			TimeMult: 1,
		},
		timeBase: 1e-6,
	}
}

func (p *parser) loadCFF(r io.Reader) error {
	sec, err := splitCFF(bufio.NewReader(r))
	if err != nil {
		return err
	}

	if err := p.parseCfg(sec.cfg); err != nil {
		return err
	}

	switch {
	case p.rec.DataFormat == Ascii:
		p.datLines = sec.datLines
	case sec.datRaw != nil:
		p.datRaw = sec.datRaw
	default:
		return xerrors.Errorf("comtrade: combined file carries no binary data section for %v data", p.rec.DataFormat)
	}

	p.rec.HeaderText = strings.Join(sec.hdr, "\n")
	p.rec.InfoText = strings.Join(sec.inf, "\n")
	return nil
}

func (p *parser) loadSplit(files *Parser) error {
	cfg, err := io.ReadAll(files.CFG)
	if err != nil {
		return xerrors.Errorf("comtrade: could not read configuration file: %w", err)
	}
	if err := p.parseCfg(splitLines(string(cfg))); err != nil {
		return err
	}

	dat, err := io.ReadAll(files.DAT)
	if err != nil {
		return xerrors.Errorf("comtrade: could not read data file: %w", err)
	}
	switch p.rec.DataFormat {
	case Ascii:
		p.datLines = splitLines(string(dat))
	default:
		p.datRaw = dat
	}

	if files.HDR != nil {
		hdr, err := io.ReadAll(files.HDR)
		if err != nil {
			return xerrors.Errorf("comtrade: could not read header file: %w", err)
		}
		p.rec.HeaderText = string(hdr)
	}
	if files.INF != nil {
		inf, err := io.ReadAll(files.INF)
		if err != nil {
			return xerrors.Errorf("comtrade: could not read information file: %w", err)
		}
		p.rec.InfoText = string(inf)
	}
	return nil
}

// reconstructTimes derives the elapsed time of every sample. With a
// non-empty sampling-rate table the time follows from the sample number
// and the applicable rate; otherwise the in-file timestamp is mandatory
// and is scaled by the base unit and the multiplication factor.
func (p *parser) reconstructTimes() error {
	rec := p.rec
	rec.SampleNumbers = p.sampleNumbers
	rec.Timestamps = make([]float64, len(p.sampleNumbers))

	for i, sn := range p.sampleNumbers {
		if len(rec.SamplingRates) > 0 {
			rate, ok := rateFor(rec.SamplingRates, sn)
			if !ok {
				return xerrors.Errorf("comtrade: no sampling rate covers sample %d", sn)
			}
			rec.Timestamps[i] = float64(sn-1) / rate
			continue
		}

		ts := p.stamps[i]
		if ts == noTimestamp {
			return xerrors.Errorf("comtrade: sample %d has no timestamp and the record declares no sampling rate: %w",
				sn, ErrMissingTimestamp,
			)
		}
		rec.Timestamps[i] = float64(ts) * p.timeBase * rec.TimeMult
	}
	return nil
}

// rateFor scans the rate table in order for the first entry covering
// the given sample number.
func rateFor(rates []SamplingRate, sn uint32) (float64, bool) {
	for _, r := range rates {
		if r.EndSample >= sn {
			return r.RateHz, true
		}
	}
	return 0, false
}

func (p *parser) finish() (*Record, error) {
	if err := p.rec.check(); err != nil {
		return nil, err
	}
	return p.rec, nil
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines
}
