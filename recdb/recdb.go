// Copyright 2021 The comtrade Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package recdb stores summaries of decoded COMTRADE records in a
// relational database, so disturbance recordings can be catalogued and
// queried without re-parsing the source files.
package recdb // import "github.com/drewsilcock/comtrade/recdb"

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/drewsilcock/comtrade"
	_ "github.com/go-sql-driver/mysql"
)

var (
	drvName = "mysql"
)

// DB exposes convenience methods to archive and retrieve COMTRADE
// record summaries.
type DB struct {
	db *sql.DB
}

// Open opens a connection to the record archive described by dsn.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("recdb: could not open archive db: %w", err)
	}

	err = ping(db)
	if err != nil {
		return nil, fmt.Errorf("recdb: could not ping archive db: %w", err)
	}

	return &DB{db: db}, nil
}

func ping(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("recdb: could not ping db: %w", err)
	}

	return nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

// RecordInfo is the archived summary of one COMTRADE record.
type RecordInfo struct {
	ID          uint32
	Station     string
	Device      string
	Revision    comtrade.FormatRevision
	NumAnalog   uint32
	NumStatus   uint32
	NumSamples  uint32
	Frequency   float64
	Format      string
	StartTime   time.Time
	TriggerTime time.Time
}

// InsertRecord archives the summary of rec.
func (db *DB) InsertRecord(ctx context.Context, rec *comtrade.Record) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := db.db.ExecContext(
		ctx,
		`INSERT INTO records
(station, device, revision, nanalog, nstatus, nsamples, frequency, format, start_time, trigger_time)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.StationName, rec.RecordingDeviceID, uint16(rec.Revision),
		rec.NumAnalogChannels, rec.NumStatusChannels, uint32(len(rec.SampleNumbers)),
		rec.LineFrequency, rec.DataFormat.String(),
		rec.StartTime, rec.TriggerTime,
	)
	if err != nil {
		return fmt.Errorf("recdb: could not insert record for station %q: %w", rec.StationName, err)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("recdb: context error while inserting record: %w", err)
	}

	return nil
}

// Records retrieves the archived record summaries for the given
// station. An empty station matches all records.
func (db *DB) Records(ctx context.Context, station string) ([]RecordInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var recs []RecordInfo
	rows, err := db.db.QueryContext(
		ctx,
		`SELECT id, station, device, revision, nanalog, nstatus, nsamples, frequency, format, start_time, trigger_time
FROM records WHERE (station=? OR ?='') ORDER BY start_time`,
		station, station,
	)
	if err != nil {
		return recs, fmt.Errorf("recdb: could not query records: %w", err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		var (
			rec RecordInfo
			rev uint16
		)
		err = rows.Scan(
			&rec.ID, &rec.Station, &rec.Device, &rev,
			&rec.NumAnalog, &rec.NumStatus, &rec.NumSamples,
			&rec.Frequency, &rec.Format,
			&rec.StartTime, &rec.TriggerTime,
		)
		if err != nil {
			return recs, fmt.Errorf("recdb: could not scan row %d: %w", i, err)
		}
		rec.Revision = comtrade.FormatRevision(rev)
		i++

		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return recs, fmt.Errorf("recdb: could not scan db for records: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return recs, fmt.Errorf("recdb: context error while retrieving records: %w", err)
	}

	return recs, nil
}
