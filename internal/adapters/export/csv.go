// Package export renders sample sets for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/okian/xgmap/internal/domain/sampling"
)

// xgDecimals is the precision of the xg column in CSV output.
const xgDecimals = 4

// ContentTypeCSV is the media type written by WriteCSV.
const ContentTypeCSV = "text/csv; charset=utf-8"

// WriteCSV writes a header row of the table's columns followed by one row
// per record. The xg column is rounded to four decimals; other values keep
// full precision.
func WriteCSV(w io.Writer, t sampling.Table) error {
	columns := t.Columns()
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(columns))
	for i := range t.Len() {
		values := t.Row(i)
		if len(values) != len(columns) {
			return fmt.Errorf("record %d has %d values, want %d", i, len(values), len(columns))
		}
		for j, v := range values {
			row[j] = formatValue(columns[j], v)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func formatValue(column string, v float64) string {
	if column == sampling.ColumnXG {
		return strconv.FormatFloat(v, 'f', xgDecimals, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
