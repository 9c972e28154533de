package sheets

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Connector and Client serving fixed worksheets.
// It backs the "demo" credential mode and tests.
type Memory struct {
	workbooks  map[string]*MemoryWorkbook
	ConnectErr error
	connects   int
	opens      int
	mu         sync.Mutex
}

// MemoryWorkbook holds rows per worksheet, in insertion order. Worksheets may
// be replaced while readers are active.
type MemoryWorkbook struct {
	rows  map[string]func() [][]string
	title string
	order []string
	// RowErr, when set, is returned by every RowValues call.
	RowErr error
	mu     sync.RWMutex
}

// NewMemory creates an empty in-memory spreadsheet service.
func NewMemory() *Memory {
	return &Memory{workbooks: make(map[string]*MemoryWorkbook)}
}

// AddWorkbook registers a workbook under id and returns it for population.
func (m *Memory) AddWorkbook(id, title string) *MemoryWorkbook {
	m.mu.Lock()
	defer m.mu.Unlock()
	wb := &MemoryWorkbook{title: title, rows: make(map[string]func() [][]string)}
	m.workbooks[id] = wb
	return wb
}

// AddWorksheet adds or replaces a tab with the given rows; rows[0] is sheet
// row 1.
func (w *MemoryWorkbook) AddWorksheet(name string, rows ...[]string) *MemoryWorkbook {
	return w.AddWorksheetFunc(name, func() [][]string { return rows })
}

// AddWorksheetFunc adds or replaces a tab whose rows are produced on every
// read.
func (w *MemoryWorkbook) AddWorksheetFunc(name string, rows func() [][]string) *MemoryWorkbook {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.rows[name]; !ok {
		w.order = append(w.order, name)
	}
	w.rows[name] = rows
	return w
}

// Connect implements Connector. Credentials are not inspected.
func (m *Memory) Connect(_ context.Context, _ []byte) (Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connects++
	if m.ConnectErr != nil {
		return nil, m.ConnectErr
	}
	return m, nil
}

// OpenWorkbook implements Client.
func (m *Memory) OpenWorkbook(_ context.Context, spreadsheetID string) (Workbook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opens++
	wb, ok := m.workbooks[spreadsheetID]
	if !ok {
		return nil, fmt.Errorf("opening workbook %s: %w", spreadsheetID, ErrWorkbookNotFound)
	}
	return wb, nil
}

// Connects returns how many times Connect was called.
func (m *Memory) Connects() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connects
}

// Opens returns how many times OpenWorkbook was called.
func (m *Memory) Opens() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens
}

// Title implements Workbook.
func (w *MemoryWorkbook) Title() string { return w.title }

// Worksheets implements Workbook.
func (w *MemoryWorkbook) Worksheets() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]string, len(w.order))
	copy(out, w.order)
	return out
}

// RowValues implements Workbook.
func (w *MemoryWorkbook) RowValues(_ context.Context, worksheet string, row int) ([]string, error) {
	w.mu.RLock()
	rowErr := w.RowErr
	source, ok := w.rows[worksheet]
	w.mu.RUnlock()

	if rowErr != nil {
		return nil, rowErr
	}
	if !ok {
		return nil, fmt.Errorf("reading %s: %w", worksheet, ErrWorksheetNotFound)
	}
	if row < 1 {
		return nil, fmt.Errorf("row %d: rows are 1-based", row)
	}
	rows := source()
	if row > len(rows) {
		return []string{}, nil
	}
	out := make([]string, len(rows[row-1]))
	copy(out, rows[row-1])
	return out, nil
}
