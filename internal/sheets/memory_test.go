package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/lexcura/internal/models"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.AddWorkbook("book", "Book").
		AddWorksheet("Master Sheet", []string{"A", "B"}, []string{"1"}).
		AddWorksheet("Other")

	client, err := m.Connect(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Connects())

	wb, err := client.OpenWorkbook(ctx, "book")
	require.NoError(t, err)
	assert.Equal(t, "Book", wb.Title())
	assert.Equal(t, []string{"Master Sheet", "Other"}, wb.Worksheets())

	row, err := wb.RowValues(ctx, "Master Sheet", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, row)

	row, err = wb.RowValues(ctx, "Master Sheet", 9)
	require.NoError(t, err)
	assert.Empty(t, row)

	_, err = wb.RowValues(ctx, "MASTER", 1)
	assert.ErrorIs(t, err, ErrWorksheetNotFound)

	_, err = client.OpenWorkbook(ctx, "nope")
	assert.ErrorIs(t, err, ErrWorkbookNotFound)
	assert.Equal(t, 2, m.Opens())
}

func TestMemory_ConnectErr(t *testing.T) {
	m := NewMemory()
	m.ConnectErr = errors.New("dial tcp: i/o timeout")

	_, err := m.Connect(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, 1, m.Connects())
}

func TestNewDemo(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	m := NewDemo("demo-id", "MASTER SHEET", func() time.Time { return now })

	client, err := m.Connect(ctx, nil)
	require.NoError(t, err)
	wb, err := client.OpenWorkbook(ctx, "demo-id")
	require.NoError(t, err)

	headers, err := wb.RowValues(ctx, "MASTER SHEET", 1)
	require.NoError(t, err)
	assert.Equal(t, models.Columns(), headers)

	row, err := wb.RowValues(ctx, "MASTER SHEET", 2)
	require.NoError(t, err)
	assert.Equal(t, models.DemoRecord(now), models.FromValues(models.Zip(headers, row), "", now))
}

func TestNewDemo_DatesFollowClock(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	m := NewDemo("demo-id", "MASTER SHEET", func() time.Time { return now })

	wb, err := m.OpenWorkbook(ctx, "demo-id")
	require.NoError(t, err)
	headers, err := wb.RowValues(ctx, "MASTER SHEET", 1)
	require.NoError(t, err)

	read := func() models.ClientRecord {
		row, err := wb.RowValues(ctx, "MASTER SHEET", 2)
		require.NoError(t, err)
		return models.FromValues(models.Zip(headers, row), "", now)
	}

	assert.Equal(t, "2026-03-04", read().DateScraped)

	now = now.AddDate(0, 0, 2)
	rec := read()
	assert.Equal(t, "2026-03-06", rec.DateScraped)
	assert.Equal(t, "2026-03-06", rec.DateDelivered)
}

func TestMemoryWorkbook_ReplaceWorksheet(t *testing.T) {
	ctx := context.Background()
	wb := NewMemory().AddWorkbook("book", "Book")
	wb.AddWorksheet("MASTER SHEET", []string{"A"}, []string{"old"})
	wb.AddWorksheet("MASTER SHEET", []string{"A"}, []string{"new"})

	assert.Equal(t, []string{"MASTER SHEET"}, wb.Worksheets())
	row, err := wb.RowValues(ctx, "MASTER SHEET", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, row)
}
