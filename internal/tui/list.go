package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/okatav/dodo/internal/model"
	"github.com/okatav/dodo/internal/store/memstore"
)

// listRow adapts a model.Item to bubbles/list.Item.
type listRow struct {
	Item model.Item
}

func (r listRow) text() string {
	box := boxUnchecked
	if r.Item.Done {
		box = boxChecked
	}
	return fmt.Sprintf("%s %s", box, r.Item.Title)
}

// Implement list.Item interface
func (r listRow) Title() string       { return r.text() }
func (r listRow) Description() string { return "" }
func (r listRow) FilterValue() string { return r.Item.Title }

// Custom delegate to control how rows render (single line)
type rowDelegate struct{}

func (d rowDelegate) Height() int                               { return 1 }
func (d rowDelegate) Spacing() int                              { return 0 }
func (d rowDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, _ := item.(listRow)

	boxStyled := mutedStyle.Render(boxUnchecked)
	textStyled := r.Item.Title
	if r.Item.Done {
		boxStyled = successStyle.Render(boxChecked)
		textStyled = doneStyle.Render(r.Item.Title)
	}

	line := fmt.Sprintf("%s %s %s", boxStyled, mutedStyle.Render(fmt.Sprintf("#%d", r.Item.ID)), textStyled)
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

// Messages produced by the async load command.
type itemsLoadedMsg struct{ items []model.Item }
type loadFailedMsg struct{ err error }

// loadItems fetches the session snapshot off the update loop. The store
// seeds itself on the first call and answers from cache afterwards.
func loadItems(s *memstore.Store) tea.Cmd {
	return func() tea.Msg {
		items, err := s.List(context.Background())
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return itemsLoadedMsg{items: items}
	}
}

// pendingDelete holds the row awaiting y/n confirmation.
type pendingDelete struct {
	index int
	item  model.Item
}

type listModel struct {
	store   *memstore.Store
	list    list.Model
	spin    spinner.Model
	loading bool
	loadErr error

	confirm *pendingDelete

	// Undo support (single-level); the store re-assigns the id on undo.
	undoItem *model.Item

	width, height int
}

func newListModel(s *memstore.Store) listModel {
	l := list.New(nil, rowDelegate{}, 0, 0)
	l.Title = titleStyle.Render("Todos")
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("todo", "todos")

	// Extend help with our bindings
	extra := []key.Binding{
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e/enter", "edit")),
		key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
	}
	l.AdditionalShortHelpKeys = func() []key.Binding { return extra }
	l.AdditionalFullHelpKeys = func() []key.Binding { return extra }

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	return listModel{
		store:   s,
		list:    l,
		spin:    sp,
		loading: true,
	}
}

func (m listModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, loadItems(m.store))
}

// rows extracts the domain records behind the rendered list.
func (m listModel) rows() []model.Item {
	items := m.list.Items()
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if r, ok := it.(listRow); ok {
			out = append(out, r.Item)
		}
	}
	return out
}

// setRows replaces the view rows; the returned command re-runs an
// applied filter so its matches track the fresh snapshot.
func (m *listModel) setRows(items []model.Item) tea.Cmd {
	rows := make([]list.Item, 0, len(items))
	for _, it := range items {
		rows = append(rows, listRow{Item: it})
	}
	cmd := m.list.SetItems(rows)
	m.refreshTitle()
	return cmd
}

func (m *listModel) refreshTitle() {
	items := m.rows()
	done := len(model.FilterField(items, "done", true))
	pending := len(model.FilterField(items, "done", false))
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), pending,
		accentStyle.Render("Total"), len(items),
	)
}

func (m *listModel) setSize(w, h int) {
	m.width, m.height = w, h
	m.list.SetSize(w-4, h-5)
}

// selected resolves the highlighted row; the returned index addresses
// the full item slice even while a fuzzy filter narrows the view.
func (m listModel) selected() (int, model.Item, bool) {
	r, ok := m.list.SelectedItem().(listRow)
	if !ok {
		return 0, model.Item{}, false
	}
	return m.list.GlobalIndex(), r.Item, true
}

func (m listModel) Update(msg tea.Msg) (listModel, tea.Cmd) {
	switch msg := msg.(type) {
	case itemsLoadedMsg:
		m.loading = false
		m.loadErr = nil
		return m, m.setRows(msg.items)

	case loadFailedMsg:
		m.loading = false
		m.loadErr = msg.err
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		// y/n confirmation swallows everything else
		if m.confirm != nil {
			switch msg.String() {
			case "y", "Y":
				pd := *m.confirm
				m.confirm = nil
				if m.store.Remove(pd.item.ID) {
					undo := pd.item
					m.undoItem = &undo
					m.list.RemoveItem(pd.index)
					// RemoveItem trims the filtered view by the same index,
					// so an applied filter is rebuilt from the new rows
					if m.list.FilterState() != list.Unfiltered {
						m.list.SetFilterText(m.list.FilterInput.Value())
						if len(m.list.VisibleItems()) == 0 {
							m.list.ResetFilter()
						}
					}
					m.refreshTitle()
				}
				return m, nil
			case "n", "N", "esc":
				m.confirm = nil
				return m, nil
			}
			return m, nil
		}

		// let the fuzzy filter own the keyboard while it is open
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit

		case "r":
			if m.loadErr != nil {
				m.loading = true
				m.loadErr = nil
				return m, tea.Batch(m.spin.Tick, loadItems(m.store))
			}
			return m, nil

		case "a":
			return m, openForm(nil)

		case "e", "enter":
			if _, it, ok := m.selected(); ok {
				return m, openForm(&it.ID)
			}
			return m, nil

		case " ":
			if i, it, ok := m.selected(); ok {
				it.Done = !it.Done
				if updated, err := m.store.Update(it); err == nil {
					// SetItem re-runs an active filter through its command
					cmd := m.list.SetItem(i, listRow{Item: updated})
					m.refreshTitle()
					return m, cmd
				}
			}
			return m, nil

		case "d":
			if i, it, ok := m.selected(); ok {
				m.confirm = &pendingDelete{index: i, item: it}
			}
			return m, nil

		case "u":
			if m.undoItem != nil {
				restored := m.store.Add(model.Item{Title: m.undoItem.Title, Done: m.undoItem.Done})
				// the store prepends on add, so the view restores at the front
				cmd := m.list.InsertItem(0, listRow{Item: restored})
				m.undoItem = nil
				m.refreshTitle()
				return m, cmd
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m listModel) View() string {
	if m.loading {
		return panelString(fmt.Sprintf("%s fetching todos…", m.spin.View()))
	}
	if m.loadErr != nil {
		return panelString(strings.Join([]string{
			errorStyle.Render("✖ could not load todos"),
			mutedStyle.Render(m.loadErr.Error()),
			"",
			helpStyle.Render("r retry • q quit"),
		}, "\n"))
	}

	content := m.list.View()
	if m.confirm != nil {
		prompt := fmt.Sprintf("Delete %q? %s",
			m.confirm.item.Title,
			helpStyle.Render("y/n"))
		content += "\n" + errorStyle.Render("✖ ") + prompt
	}
	return panelString(content)
}
