// Copyright 2021 The comtrade Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command comtrade2csv converts a COMTRADE record to a CSV table, one
// row per sample with the elapsed time and every channel value.
package main // import "github.com/drewsilcock/comtrade/cmd/comtrade2csv"

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/drewsilcock/comtrade"
	"go-hep.org/x/hep/csvutil"
)

var (
	msg = log.New(os.Stdout, "comtrade2csv: ", 0)
)

func main() {
	var (
		oname = flag.String("o", "out.csv", "path to output CSV file")
	)

	flag.Usage = func() {
		fmt.Printf(`Usage: comtrade2csv [OPTIONS] file.cff|file.cfg

ex:
 $> comtrade2csv -o record.csv ./fault.cff

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		msg.Fatalf("missing input COMTRADE file")
	}

	if *oname == "" {
		flag.Usage()
		msg.Fatalf("invalid output CSV file name")
	}

	err := process(*oname, flag.Arg(0))
	if err != nil {
		msg.Fatalf("could not convert COMTRADE file: %+v", err)
	}
}

func process(oname, fname string) error {
	rec, err := decode(fname)
	if err != nil {
		return fmt.Errorf("could not decode %q: %w", fname, err)
	}

	tbl, err := csvutil.Create(oname)
	if err != nil {
		return fmt.Errorf("could not create output CSV file: %w", err)
	}
	defer tbl.Close()
	tbl.Writer.Comma = ','

	cols := make([]string, 0, rec.NumTotalChannels+2)
	cols = append(cols, "sample", "time")
	for i := range rec.AnalogChannels {
		cols = append(cols, rec.AnalogChannels[i].Name)
	}
	for i := range rec.StatusChannels {
		cols = append(cols, rec.StatusChannels[i].Name)
	}
	err = tbl.WriteHeader("# " + strings.Join(cols, ",") + "\n")
	if err != nil {
		return fmt.Errorf("could not write CSV header: %w", err)
	}

	row := make([]interface{}, len(cols))
	for i := range rec.SampleNumbers {
		row = row[:0]
		row = append(row, rec.SampleNumbers[i], rec.Timestamps[i])
		for j := range rec.AnalogChannels {
			row = append(row, rec.AnalogChannels[j].Data[i])
		}
		for j := range rec.StatusChannels {
			row = append(row, rec.StatusChannels[j].Data[i])
		}
		err = tbl.WriteRow(row...)
		if err != nil {
			return fmt.Errorf("could not write CSV row %d: %w", i+1, err)
		}
	}

	err = tbl.Close()
	if err != nil {
		return fmt.Errorf("could not close output CSV file: %w", err)
	}
	return nil
}

func decode(fname string) (*comtrade.Record, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", fname, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(fname), ".cff") {
		return comtrade.Parse(f)
	}

	dat, err := os.Open(strings.TrimSuffix(fname, filepath.Ext(fname)) + ".dat")
	if err != nil {
		return nil, fmt.Errorf("could not open data file for %q: %w", fname, err)
	}
	defer dat.Close()

	return comtrade.ParseFiles(f, dat)
}
