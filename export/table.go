package export

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"loan-amortizer/domain"
)

// groupedFormat is the go-humanize pattern for "1,234,567.89".
const groupedFormat = "#,###.##"

// Grouped renders v with thousands separators and two decimals, prefixed by
// symbol.
func Grouped(symbol string, v float64) string {
	return symbol + humanize.FormatFloat(groupedFormat, Money(v).InexactFloat64())
}

// WriteTable prints the totals followed by an aligned schedule.
func WriteTable(w io.Writer, principal float64, summary domain.LoanSummary, schedule domain.Schedule, symbol string) error {
	if _, err := fmt.Fprintf(w, "Loan Amount:         %s\nMonthly Payment:     %s\nTotal Payment:       %s\nTotal Interest Paid: %s\n\n",
		Grouped(symbol, principal),
		Grouped(symbol, summary.MonthlyPayment),
		Grouped(symbol, summary.TotalPayment),
		Grouped(symbol, summary.TotalInterest),
	); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Month\tPayment\tPrincipal\tInterest\tRemaining Balance\t")
	for _, rec := range schedule {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n",
			rec.Period,
			Grouped(symbol, rec.Payment),
			Grouped(symbol, rec.Principal),
			Grouped(symbol, rec.Interest),
			Grouped(symbol, rec.RemainingBalance),
		)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write schedule table: %w", err)
	}
	return nil
}
