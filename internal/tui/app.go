package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/okatav/dodo/internal/store/memstore"
)

// Navigation messages between the two views.
type openFormMsg struct{ id *int }
type formClosedMsg struct{}

// openForm navigates to the edit/create view; nil id means create.
func openForm(id *int) tea.Cmd {
	return func() tea.Msg { return openFormMsg{id: id} }
}

func closeForm() tea.Cmd {
	return func() tea.Msg { return formClosedMsg{} }
}

type view int

const (
	viewList view = iota
	viewForm
)

// App is the root model: it owns the store handle and routes messages
// to whichever view is active.
type App struct {
	store *memstore.Store

	view view
	list listModel
	form formModel

	width, height int
}

func newApp(s *memstore.Store) App {
	return App{
		store: s,
		view:  viewList,
		list:  newListModel(s),
	}
}

func (a App) Init() tea.Cmd { return a.list.Init() }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.list.setSize(msg.Width, msg.Height)
		a.form.setSize(msg.Width, msg.Height)
		return a, nil

	case openFormMsg:
		a.form = newFormModel(a.store, msg.id)
		a.form.setSize(a.width, a.height)
		a.view = viewForm
		return a, a.form.Init()

	case formClosedMsg:
		// re-render the list from a fresh store snapshot
		a.view = viewList
		return a, loadItems(a.store)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewForm:
		a.form, cmd = a.form.Update(msg)
	default:
		a.list, cmd = a.list.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	if a.view == viewForm {
		return a.form.View()
	}
	return a.list.View()
}

// Run starts the interactive session on the given store.
func Run(s *memstore.Store) error {
	p := tea.NewProgram(newApp(s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
