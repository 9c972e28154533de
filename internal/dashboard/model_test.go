package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/lexcura/internal/models"
	"github.com/joshsymonds/lexcura/internal/resolver"
)

type fakeResolver struct {
	res       resolver.Resolution
	ids       []string
	refreshes int
	mu        sync.Mutex
}

func (f *fakeResolver) ResolveDetailed(_ context.Context, clientID string) resolver.Resolution {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, clientID)
	return f.res
}

func (f *fakeResolver) Refresh() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
}

func newTestModel(res resolver.Resolution) (Model, *fakeResolver) {
	fr := &fakeResolver{res: res}
	m := New(context.Background(), fr, "Z9")
	m.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	return m, fr
}

func demo() resolver.Resolution {
	return resolver.Resolution{
		Record: models.DemoRecord(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)),
		Source: resolver.SourceFallback,
		Reason: resolver.ReasonAuthenticationRejected,
	}
}

// load runs Init's command and feeds the result back through Update.
func load(t *testing.T, m Model) Model {
	t.Helper()
	cmd := m.Init()
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	return updated.(Model)
}

func TestModel_InitialLoad(t *testing.T) {
	m, fr := newTestModel(demo())
	assert.Equal(t, "Loading compliance intelligence...", m.View())

	m = load(t, m)
	assert.Equal(t, []string{"Z9"}, fr.ids)
	assert.Zero(t, fr.refreshes)

	view := m.View()
	assert.Contains(t, view, "Elite Pharmaceutical Corp")
	assert.Contains(t, view, "Live data unavailable")
	assert.Contains(t, view, "authentication_rejected")
	assert.Contains(t, view, "r refresh")
}

func TestModel_Refresh(t *testing.T) {
	m, fr := newTestModel(demo())
	m = load(t, m)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = updated.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.loading)
	assert.Contains(t, m.View(), "refreshing...")

	// A second press while loading is ignored.
	_, again := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	assert.Nil(t, again)

	fr.res = resolver.Resolution{
		Record: models.FromValues(map[string]string{models.ColumnClientName: "Acme Corp"}, "Z9", time.Now()),
		Source: resolver.SourceLive,
	}
	updated, _ = m.Update(cmd())
	m = updated.(Model)

	assert.Equal(t, 1, fr.refreshes)
	assert.False(t, m.loading)
	assert.Equal(t, 2, m.history.Len())
	latest, ok := m.history.Latest()
	require.True(t, ok)
	assert.Equal(t, resolver.SourceLive, latest.Source)
	assert.Contains(t, m.View(), "Acme Corp")
}

func TestModel_QuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyRunes, Runes: []rune{'Q'}},
		{Type: tea.KeyCtrlC},
	} {
		m, _ := newTestModel(demo())
		updated, cmd := m.Update(key)
		assert.True(t, updated.(Model).quitting, key.String())
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
		assert.Empty(t, updated.(Model).View())
	}
}

func TestModel_WindowSize(t *testing.T) {
	m, _ := newTestModel(demo())
	updated, cmd := m.Update(tea.WindowSizeMsg{Width: 70, Height: 30})
	assert.Nil(t, cmd)
	assert.Equal(t, 70, updated.(Model).width)
}

func TestRingBuffer(t *testing.T) {
	rb := NewRingBuffer[int](3)
	_, ok := rb.Latest()
	assert.False(t, ok)

	for i := 1; i <= 5; i++ {
		rb.Add(i)
	}
	assert.Equal(t, 3, rb.Len())
	assert.Equal(t, []int{3, 4, 5}, rb.Items())
	latest, ok := rb.Latest()
	require.True(t, ok)
	assert.Equal(t, 5, latest)

	small := NewRingBuffer[string](0)
	small.Add("a")
	small.Add("b")
	assert.Equal(t, []string{"b"}, small.Items())
}
