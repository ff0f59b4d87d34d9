package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okatav/dodo/internal/model"
	"github.com/okatav/dodo/internal/store/memstore"
)

func fetchOf(items []model.Item) memstore.FetcherFunc {
	return func(ctx context.Context) ([]model.Item, error) {
		return items, nil
	}
}

func seedItems() []model.Item {
	return []model.Item{
		{ID: 1, Title: "Buy milk", Done: false, OwnerID: 9},
		{ID: 2, Title: "Walk the dog", Done: true, OwnerID: 9},
		{ID: 3, Title: "Write report", Done: false, OwnerID: 9},
	}
}

// seededList builds a store around fixed records and drives the list
// through its load message, the way the program does at startup.
func seededList(t *testing.T) (*memstore.Store, listModel) {
	t.Helper()
	s := memstore.New(fetchOf(seedItems()), memstore.Options{})
	m := newListModel(s)
	msg := loadItems(s)()
	loaded, ok := msg.(itemsLoadedMsg)
	require.True(t, ok, "expected itemsLoadedMsg, got %T", msg)
	m, _ = m.Update(loaded)
	return s, m
}

func keyMsg(s string) tea.Msg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestListLoadsStoreSnapshot(t *testing.T) {
	s, m := seededList(t)

	assert.False(t, m.loading)
	assert.NoError(t, m.loadErr)
	assert.True(t, s.Seeded())

	rows := m.rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "Buy milk", rows[0].Title)
	assert.Equal(t, 2, rows[1].ID)
}

func TestListLoadFailureOffersRetry(t *testing.T) {
	failing := errors.New("connect: network unreachable")
	calls := 0
	s := memstore.New(memstore.FetcherFunc(func(ctx context.Context) ([]model.Item, error) {
		calls++
		if calls == 1 {
			return nil, failing
		}
		return seedItems(), nil
	}), memstore.Options{})

	m := newListModel(s)
	msg := loadItems(s)()
	failedMsg, ok := msg.(loadFailedMsg)
	require.True(t, ok)
	m, _ = m.Update(failedMsg)

	assert.False(t, m.loading)
	assert.Error(t, m.loadErr)
	assert.Contains(t, m.View(), "could not load todos")

	// r flips back into loading and re-issues the fetch
	m, cmd := m.Update(keyMsg("r"))
	assert.True(t, m.loading)
	assert.NoError(t, m.loadErr)
	require.NotNil(t, cmd)

	msg = loadItems(s)()
	loaded, ok := msg.(itemsLoadedMsg)
	require.True(t, ok)
	m, _ = m.Update(loaded)
	assert.Len(t, m.rows(), 3)
}

func TestListToggleWritesThroughStore(t *testing.T) {
	s, m := seededList(t)

	// selection starts on the first row
	m, _ = m.Update(keyMsg(" "))

	got, err := s.Get(1)
	require.NoError(t, err)
	assert.True(t, got.Done)
	assert.True(t, m.rows()[0].Done)
}

func TestListDeleteAsksForConfirmation(t *testing.T) {
	s, m := seededList(t)

	m, _ = m.Update(keyMsg("d"))
	require.NotNil(t, m.confirm)
	assert.Contains(t, m.View(), "Buy milk")

	// anything but y/n/esc is swallowed
	m, _ = m.Update(keyMsg("x"))
	require.NotNil(t, m.confirm)

	// n keeps the record
	m, _ = m.Update(keyMsg("n"))
	assert.Nil(t, m.confirm)
	_, err := s.Get(1)
	assert.NoError(t, err)
	assert.Len(t, m.rows(), 3)
}

func TestListDeleteConfirmedRemovesRow(t *testing.T) {
	s, m := seededList(t)

	m, _ = m.Update(keyMsg("d"))
	m, _ = m.Update(keyMsg("y"))

	assert.Nil(t, m.confirm)
	assert.Len(t, m.rows(), 2)
	_, err := s.Get(1)
	assert.ErrorIs(t, err, memstore.ErrNotFound)
}

func TestListUndoReAddsUnderFreshID(t *testing.T) {
	s, m := seededList(t)

	m, _ = m.Update(keyMsg("d"))
	m, _ = m.Update(keyMsg("y"))
	m, _ = m.Update(keyMsg("u"))

	rows := m.rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "Buy milk", rows[0].Title)
	assert.Equal(t, 4, rows[0].ID, "undo re-adds, so the store assigns max+1")

	got, err := s.Get(4)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)
}

func TestListUndoRestoresRowAtFront(t *testing.T) {
	s, m := seededList(t)

	m.list.Select(1)
	m, _ = m.Update(keyMsg("d"))
	require.NotNil(t, m.confirm)
	require.Equal(t, 2, m.confirm.item.ID)
	m, _ = m.Update(keyMsg("y"))
	m, _ = m.Update(keyMsg("u"))

	rows := m.rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "Walk the dog", rows[0].Title, "the restored row leads the view")
	assert.Equal(t, 4, rows[0].ID)

	items, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rows[0].ID, items[0].ID, "view order mirrors the store order")
}

func TestListFilteredToggleWritesThroughStore(t *testing.T) {
	s, m := seededList(t)
	m.list.SetFilterText("report")
	require.Len(t, m.list.VisibleItems(), 1)

	m, _ = m.Update(keyMsg(" "))

	got, err := s.Get(3)
	require.NoError(t, err)
	assert.True(t, got.Done, "the toggle lands on the row the filter shows")
	other, err := s.Get(1)
	require.NoError(t, err)
	assert.False(t, other.Done)
	assert.True(t, m.rows()[2].Done)
}

func TestListFilteredDeleteTargetsVisibleRow(t *testing.T) {
	s, m := seededList(t)
	m.list.SetFilterText("report")
	require.Len(t, m.list.VisibleItems(), 1)

	m, _ = m.Update(keyMsg("d"))
	require.NotNil(t, m.confirm)
	assert.Equal(t, 3, m.confirm.item.ID, "the confirmation names the row the filter shows")

	m, _ = m.Update(keyMsg("y"))

	_, err := s.Get(3)
	assert.ErrorIs(t, err, memstore.ErrNotFound)
	_, err = s.Get(1)
	assert.NoError(t, err, "rows hidden by the filter stay put")

	require.Len(t, m.rows(), 2)
	assert.Equal(t, list.Unfiltered, m.list.FilterState(), "deleting the only match clears the filter")
}

func TestListFilteredEditOpensVisibleRow(t *testing.T) {
	_, m := seededList(t)
	m.list.SetFilterText("dog")
	require.Len(t, m.list.VisibleItems(), 1)

	_, cmd := m.Update(keyMsg("e"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(openFormMsg)
	require.True(t, ok)
	require.NotNil(t, msg.id)
	assert.Equal(t, 2, *msg.id)
}

func TestListReloadKeepsFilterCurrent(t *testing.T) {
	s, m := seededList(t)
	m.list.SetFilterText("report")
	require.Len(t, m.list.VisibleItems(), 1)

	// a form round-trip reloads the snapshot with a new row up front
	s.Add(model.Item{Title: "Review the report"})
	msg := loadItems(s)()
	loaded, ok := msg.(itemsLoadedMsg)
	require.True(t, ok)
	m, cmd := m.Update(loaded)
	require.NotNil(t, cmd, "a reload under an applied filter re-runs the match")
	m, _ = m.Update(cmd())

	require.Len(t, m.list.VisibleItems(), 2)
	_, it, ok := m.selected()
	require.True(t, ok)
	live, err := s.Get(it.ID)
	require.NoError(t, err)
	assert.Equal(t, live.Title, it.Title, "the selection addresses a live record")
}

func TestListKeysEmitNavigation(t *testing.T) {
	_, m := seededList(t)

	_, cmd := m.Update(keyMsg("a"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(openFormMsg)
	require.True(t, ok)
	assert.Nil(t, msg.id)

	_, cmd = m.Update(keyMsg("e"))
	require.NotNil(t, cmd)
	msg, ok = cmd().(openFormMsg)
	require.True(t, ok)
	require.NotNil(t, msg.id)
	assert.Equal(t, 1, *msg.id)

	_, cmd = m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	msg, ok = cmd().(openFormMsg)
	require.True(t, ok)
	require.NotNil(t, msg.id)
	assert.Equal(t, 1, *msg.id)
}

func TestFormValidatesTitle(t *testing.T) {
	s, _ := seededList(t)
	m := newFormModel(s, nil)

	m.input.SetValue("   ")
	m, cmd := m.Update(keyMsg("enter"))
	assert.Nil(t, cmd)
	assert.Equal(t, "Title cannot be empty", m.errMsg)

	m.input.SetValue("ab")
	m, cmd = m.Update(keyMsg("enter"))
	assert.Nil(t, cmd)
	assert.Equal(t, "Title must be at least 3 characters", m.errMsg)
}

func TestFormCreateAddsToStore(t *testing.T) {
	s, _ := seededList(t)
	m := newFormModel(s, nil)

	m.input.SetValue("Plan the trip")
	m, cmd := m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	_, ok := cmd().(formClosedMsg)
	assert.True(t, ok)

	items, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, "Plan the trip", items[0].Title)
	assert.Equal(t, 4, items[0].ID)
	assert.Equal(t, memstore.DefaultOwner, items[0].OwnerID)
}

func TestFormEditPrefillsAndPreservesOwner(t *testing.T) {
	s, _ := seededList(t)
	id := 2
	m := newFormModel(s, &id)

	require.True(t, m.editing)
	assert.Equal(t, "Walk the dog", m.input.Value())
	assert.True(t, m.done)

	m.input.SetValue("Walk the cat")
	m, _ = m.Update(keyMsg("tab"))
	m, _ = m.Update(keyMsg(" ")) // toggle done off
	m, cmd := m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	_, ok := cmd().(formClosedMsg)
	assert.True(t, ok)

	got, err := s.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "Walk the cat", got.Title)
	assert.False(t, got.Done)
	assert.Equal(t, 9, got.OwnerID, "full replacement keeps the loaded owner")
}

func TestFormEditVanishedID(t *testing.T) {
	s, _ := seededList(t)
	id := 99
	m := newFormModel(s, &id)

	require.True(t, m.notFound)
	assert.Contains(t, m.View(), "no todo with id 99")

	// only the way back is offered
	m, cmd := m.Update(keyMsg("x"))
	assert.Nil(t, cmd)
	_, cmd = m.Update(keyMsg("esc"))
	require.NotNil(t, cmd)
	_, ok := cmd().(formClosedMsg)
	assert.True(t, ok)
}

func TestFormSpaceTypesIntoTitle(t *testing.T) {
	s, _ := seededList(t)
	m := newFormModel(s, nil)

	for _, r := range "Buy milk" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	assert.Equal(t, "Buy milk", m.input.Value())
	assert.False(t, m.done, "space with the title focused must not toggle done")
}

func TestAppRoutesBetweenViews(t *testing.T) {
	s, _ := seededList(t)
	a := newApp(s)

	next, _ := a.Update(openFormMsg{id: nil})
	a = next.(App)
	assert.Equal(t, viewForm, a.view)

	next, cmd := a.Update(formClosedMsg{})
	a = next.(App)
	assert.Equal(t, viewList, a.view)
	require.NotNil(t, cmd, "closing the form reloads the list")

	msg := cmd()
	loaded, ok := msg.(itemsLoadedMsg)
	require.True(t, ok)
	a.list, _ = a.list.Update(loaded)
	assert.Len(t, a.list.rows(), 3)
}

func TestListViewShowsCounts(t *testing.T) {
	_, m := seededList(t)
	title := m.list.Title
	assert.Contains(t, stripStyles(title), "Total")
}

// stripStyles drops ANSI sequences so assertions read plain text.
func stripStyles(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case inEsc:
			if r == 'm' {
				inEsc = false
			}
		case r == '\x1b':
			inEsc = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
