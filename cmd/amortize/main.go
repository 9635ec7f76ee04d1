// cmd/amortize prints the payment, totals and schedule of a fixed-rate loan.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"loan-amortizer/domain"
	"loan-amortizer/export"
	"loan-amortizer/service"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("amortize", flag.ContinueOnError)
	fs.SetOutput(stderr)

	principal := fs.Float64("principal", 1000000, "loan amount")
	rate := fs.Float64("rate", 15.0, "annual interest rate in percent")
	years := fs.Int("years", 5, "loan term in whole years")
	format := fs.String("format", "table", "output format: table, csv or json")
	symbol := fs.String("currency", "", "currency symbol prefixed to amounts in table output")
	outPath := fs.String("o", "", "write output to this file instead of stdout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	switch *format {
	case "table", "csv", "json":
	default:
		fmt.Fprintf(stderr, "error: unknown format %q (want table, csv or json)\n", *format)
		return 2
	}

	schedule, err := service.GenerateSchedule(*principal, *rate, *years)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	summary, err := service.Summarize(*principal, schedule[0].Payment, len(schedule))
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if *outPath == "" {
		if err := write(stdout, *format, *principal, *rate, *years, *symbol, summary, schedule); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	f, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	err = write(f, *format, *principal, *rate, *years, *symbol, summary, schedule)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func write(
	w io.Writer,
	format string,
	principal, rate float64,
	years int,
	symbol string,
	summary domain.LoanSummary,
	schedule domain.Schedule,
) error {
	switch format {
	case "table":
		return export.WriteTable(w, principal, summary, schedule, symbol)
	case "csv":
		return export.WriteCSV(w, schedule)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(domain.LoanResult{
			Input:    domain.LoanInput{Principal: principal, AnnualRatePercent: rate, TermYears: years},
			Summary:  summary,
			Schedule: schedule,
		})
	}
	return fmt.Errorf("unknown format %q", format)
}
