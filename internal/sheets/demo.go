package sheets

import (
	"time"

	"github.com/joshsymonds/lexcura/internal/models"
)

// NewDemo returns a Memory service holding one workbook whose worksheet
// carries the full header row and the demo record in row 2. The record's
// dates are taken from now on every read.
func NewDemo(spreadsheetID, worksheet string, now func() time.Time) *Memory {
	headers := models.Columns()

	m := NewMemory()
	m.AddWorkbook(spreadsheetID, "Demo Master Sheet").AddWorksheetFunc(worksheet, func() [][]string {
		values := models.DemoRecord(now()).Values()
		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = values[h]
		}
		return [][]string{headers, row}
	})
	return m
}
