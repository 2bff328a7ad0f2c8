package export

import (
	"encoding/csv"
	"io"

	"salesdash/internal/models"
)

// WriteCSV emits the drill-down rows as delimited text, one header row then
// one line per entity.
func WriteCSV(w io.Writer, rows []models.EntitySalesRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(cells(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
