// Copyright 2021 The comtrade Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comtrade

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/xerrors"
)

// TimeOffset is a UTC offset from the 2013 configuration grammar,
// in seconds east of UTC.
type TimeOffset struct {
	Seconds int
}

// Location returns the offset as a fixed time.Location.
func (off TimeOffset) Location() *time.Location {
	return time.FixedZone("", off.Seconds)
}

func (off TimeOffset) String() string {
	sign := "+"
	secs := off.Seconds
	if secs < 0 {
		sign = "-"
		secs = -secs
	}
	return fmt.Sprintf("UTC%s%02d:%02d", sign, secs/3600, secs%3600/60)
}

// parseTimeOffset parses the COMTRADE UTC-offset mini-language:
//
//	"x"     not applicable (nil offset)
//	"-5"    5 hours west of UTC
//	"+10"   10 hours east of UTC
//	"-5h30" 5 hours 30 minutes west of UTC
//
// The minute component shares the sign of the hour component, a zero
// hour counting as negative.
func parseTimeOffset(tok string) (*TimeOffset, error) {
	v := strings.TrimSpace(tok)
	if strings.EqualFold(v, "x") {
		return nil, nil
	}

	if hours, err := strconv.Atoi(v); err == nil {
		return &TimeOffset{Seconds: hours * 3600}, nil
	}

	hm := strings.Split(v, "h")
	if len(hm) != 2 {
		return nil, xerrors.Errorf("comtrade: invalid time offset %q", tok)
	}
	hours, err := strconv.Atoi(strings.TrimSpace(hm[0]))
	if err != nil {
		return nil, xerrors.Errorf("comtrade: invalid hour component in time offset %q: %w", tok, err)
	}
	mins, err := strconv.Atoi(strings.TrimSpace(hm[1]))
	if err != nil {
		return nil, xerrors.Errorf("comtrade: invalid minute component in time offset %q: %w", tok, err)
	}

	secs := hours*3600 - mins*60
	if hours > 0 {
		secs = hours*3600 + mins*60
	}
	return &TimeOffset{Seconds: secs}, nil
}
