package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"loan-amortizer/domain"
)

// FileName is the suggested name for a downloaded schedule.
const FileName = "payment_schedule.csv"

// CSVHeader lists the exported columns in order.
var CSVHeader = []string{"Month", "Payment", "Principal", "Interest", "Remaining Balance"}

// WriteCSV writes a header and one row per period.
func WriteCSV(w io.Writer, schedule domain.Schedule) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(CSVHeader))
	for _, rec := range schedule {
		row[0] = strconv.Itoa(rec.Period)
		row[1] = FormatMoney(rec.Payment)
		row[2] = FormatMoney(rec.Principal)
		row[3] = FormatMoney(rec.Interest)
		row[4] = FormatMoney(rec.RemainingBalance)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", rec.Period, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
