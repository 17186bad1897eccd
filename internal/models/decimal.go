// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package models

import (
	"fmt"
	"math"
	"strconv"
)

// Decimal1 is a value reported with exactly one fractional digit.
//
// Values are rounded half away from zero on construction and always render
// with one decimal place, so 100 is written as 100.0 in both JSON and String.
type Decimal1 float64

// RoundDecimal1 rounds v half away from zero to one decimal place.
func RoundDecimal1(v float64) Decimal1 {
	return Decimal1(math.Round(v*10) / 10)
}

// Float64 returns the underlying value.
func (d Decimal1) Float64() float64 {
	return float64(d)
}

// String renders d with one fractional digit.
func (d Decimal1) String() string {
	return strconv.FormatFloat(float64(d), 'f', 1, 64)
}

// MarshalJSON writes d as a bare JSON number with one fractional digit.
func (d Decimal1) MarshalJSON() ([]byte, error) {
	f := float64(d)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("decimal1: unsupported value %v", f)
	}
	return strconv.AppendFloat(nil, f, 'f', 1, 64), nil
}

// UnmarshalJSON accepts any JSON number and rounds it to one decimal place.
func (d *Decimal1) UnmarshalJSON(data []byte) error {
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("decimal1: %w", err)
	}
	*d = RoundDecimal1(f)
	return nil
}
