// Copyright 2021 The comtrade Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// comtrade-dump decodes and displays COMTRADE records.
//
// Usage: comtrade-dump [OPTIONS] FILE1 [FILE2 [FILE3 ...]]
//
// Inputs may be combined files (.cff) or configuration files (.cfg);
// for the latter, the sibling .dat file is picked up automatically.
//
// Example:
//
//	$> comtrade-dump ./testdata/sample_1999_ascii.cfg
//	=== COMTRADE record "station" ===
//	device:    equipment
//	revision:  1999
//	format:    ascii
//	channels:  20 (4 analog, 16 status)
//	samples:   5
//	frequency: 60 Hz
//	start:     2017-01-07 15:35:41.958268
//	trigger:   2017-01-07 15:35:41.958333
//	[...]
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/drewsilcock/comtrade"
	"golang.org/x/sync/errgroup"
)

func main() {
	log.SetPrefix("comtrade-dump: ")
	log.SetFlags(0)

	err := xmain(os.Stdout, os.Args[1:])
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func xmain(w io.Writer, args []string) error {
	fset := flag.NewFlagSet("comtrade-dump", flag.ContinueOnError)
	data := fset.Bool("data", false, "display decoded sample values")

	fset.Usage = func() {
		fmt.Printf(`comtrade-dump decodes and displays COMTRADE records.

Usage: comtrade-dump [OPTIONS] FILE1 [FILE2 [FILE3 ...]]

options:
`)
		fset.PrintDefaults()
	}

	if err := fset.Parse(args); err != nil {
		return err
	}
	if fset.NArg() == 0 {
		fset.Usage()
		return fmt.Errorf("missing path to input COMTRADE file")
	}

	// Records are independent, so decode them concurrently and print
	// the outputs in input order.
	var (
		grp  errgroup.Group
		bufs = make([]bytes.Buffer, fset.NArg())
	)
	for i, fname := range fset.Args() {
		i, fname := i, fname
		grp.Go(func() error {
			return process(&bufs[i], fname, *data)
		})
	}
	if err := grp.Wait(); err != nil {
		return err
	}

	for i := range bufs {
		if _, err := io.Copy(w, &bufs[i]); err != nil {
			return fmt.Errorf("could not write output: %w", err)
		}
	}
	return nil
}

func process(w io.Writer, fname string, data bool) error {
	rec, err := decode(fname)
	if err != nil {
		return fmt.Errorf("could not decode %q: %w", fname, err)
	}

	fmt.Fprintf(w, "=== COMTRADE record %q ===\n", rec.StationName)
	fmt.Fprintf(w, "device:    %s\n", rec.RecordingDeviceID)
	fmt.Fprintf(w, "revision:  %v\n", rec.Revision)
	fmt.Fprintf(w, "format:    %v\n", rec.DataFormat)
	fmt.Fprintf(w, "channels:  %d (%d analog, %d status)\n",
		rec.NumTotalChannels, rec.NumAnalogChannels, rec.NumStatusChannels,
	)
	fmt.Fprintf(w, "samples:   %d\n", len(rec.SampleNumbers))
	fmt.Fprintf(w, "frequency: %v Hz\n", rec.LineFrequency)
	for _, rate := range rec.SamplingRates {
		fmt.Fprintf(w, "rate:      %v Hz up to sample %d\n", rate.RateHz, rate.EndSample)
	}
	fmt.Fprintf(w, "start:     %s\n", rec.StartTime.Format("2006-01-02 15:04:05.999999999"))
	fmt.Fprintf(w, "trigger:   %s\n", rec.TriggerTime.Format("2006-01-02 15:04:05.999999999"))
	if rec.TimeOffset != nil {
		fmt.Fprintf(w, "time:      %v\n", rec.TimeOffset)
	}

	for i := range rec.AnalogChannels {
		ch := &rec.AnalogChannels[i]
		fmt.Fprintf(w, "  A%02d %-12s phase=%-4s unit=%-6s scaling=%v\n",
			ch.Index, ch.Name, ch.Phase, ch.Units, ch.ScalingMode,
		)
		if data {
			for j, v := range ch.Data {
				fmt.Fprintf(w, "    t=%es v=%v\n", rec.Timestamps[j], v)
			}
		}
	}
	for i := range rec.StatusChannels {
		ch := &rec.StatusChannels[i]
		fmt.Fprintf(w, "  D%02d %-12s normal=%d\n", ch.Index, ch.Name, ch.Normal)
		if data {
			for j, v := range ch.Data {
				fmt.Fprintf(w, "    t=%es v=%d\n", rec.Timestamps[j], v)
			}
		}
	}

	return nil
}

// decode opens fname and parses it as a combined file or, for a .cfg
// input, together with its companion files.
func decode(fname string) (*comtrade.Record, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", fname, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(fname), ".cff") {
		return comtrade.Parse(f)
	}

	dat, err := os.Open(companion(fname, ".dat"))
	if err != nil {
		return nil, fmt.Errorf("could not open data file for %q: %w", fname, err)
	}
	defer dat.Close()

	p := &comtrade.Parser{CFG: f, DAT: dat}
	if hdr, err := os.Open(companion(fname, ".hdr")); err == nil {
		defer hdr.Close()
		p.HDR = hdr
	}
	if inf, err := os.Open(companion(fname, ".inf")); err == nil {
		defer inf.Close()
		p.INF = inf
	}
	return p.Parse()
}

func companion(fname, ext string) string {
	return strings.TrimSuffix(fname, filepath.Ext(fname)) + ext
}
