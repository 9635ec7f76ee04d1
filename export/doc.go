// Package export renders amortization schedules for people and spreadsheets.
//
// Schedules stay float64 end to end; rounding to cents happens here and in
// the HTTP response encoding only.
package export
