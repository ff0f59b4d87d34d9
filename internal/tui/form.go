package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/okatav/dodo/internal/model"
	"github.com/okatav/dodo/internal/store/memstore"
)

const minTitleLen = 3

// Form focus targets: the title input and the done checkbox.
const (
	focusTitle = iota
	focusDone
)

// formModel is the edit/create view. Editing keeps the loaded record
// around so a full-replacement Update preserves its owner.
type formModel struct {
	store *memstore.Store

	editing bool
	rec     model.Item // loaded record in edit mode, zero in create mode

	input textinput.Model
	done  bool
	focus int

	errMsg   string
	notFound bool

	width, height int
}

func newFormModel(s *memstore.Store, id *int) formModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New todo title..."
	ti.CharLimit = 200
	ti.Focus()

	m := formModel{store: s, input: ti}
	if id == nil {
		return m
	}

	m.editing = true
	rec, err := s.Get(*id)
	if err != nil {
		if errors.Is(err, memstore.ErrNotFound) {
			m.notFound = true
			m.errMsg = fmt.Sprintf("no todo with id %d", *id)
		} else {
			m.errMsg = err.Error()
		}
		return m
	}
	m.rec = rec
	m.done = rec.Done
	m.input.SetValue(rec.Title)
	m.input.CursorEnd()
	m.input.Placeholder = "Edit todo title..."
	return m
}

func (m formModel) Init() tea.Cmd { return textinput.Blink }

func (m *formModel) setSize(w, h int) { m.width, m.height = w, h }

func (m *formModel) setFocus(target int) {
	m.focus = target
	if target == focusTitle {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// submit validates the draft and applies it to the store.
// It returns the command that navigates back on success.
func (m *formModel) submit() tea.Cmd {
	title := strings.TrimSpace(m.input.Value())
	if title == "" {
		m.errMsg = "Title cannot be empty"
		return nil
	}
	if len([]rune(title)) < minTitleLen {
		m.errMsg = fmt.Sprintf("Title must be at least %d characters", minTitleLen)
		return nil
	}

	if m.editing {
		rec := m.rec
		rec.Title = title
		rec.Done = m.done
		if _, err := m.store.Update(rec); err != nil {
			// the record vanished between Get and Update
			m.notFound = true
			m.errMsg = fmt.Sprintf("no todo with id %d", rec.ID)
			return nil
		}
	} else {
		m.store.Add(model.Item{Title: title, Done: m.done})
	}
	return closeForm()
}

func (m formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// a vanished record only offers the way back
		if m.notFound {
			switch msg.String() {
			case "esc", "enter", "q":
				return m, closeForm()
			}
			return m, nil
		}

		switch msg.String() {
		case "esc":
			return m, closeForm()
		case "enter":
			return m, m.submit()
		case "tab", "shift+tab":
			if m.focus == focusTitle {
				m.setFocus(focusDone)
			} else {
				m.setFocus(focusTitle)
			}
			return m, nil
		case " ":
			if m.focus == focusDone {
				m.done = !m.done
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m formModel) View() string {
	header := "Add new todo"
	if m.editing {
		header = fmt.Sprintf("Edit todo #%d", m.rec.ID)
	}

	if m.notFound {
		return panelString(strings.Join([]string{
			titleStyle.Render(header),
			"",
			errorStyle.Render("✖ " + m.errMsg),
			"",
			helpStyle.Render("esc back"),
		}, "\n"))
	}

	box := boxUnchecked
	if m.done {
		box = boxChecked
	}
	doneLine := fmt.Sprintf("%s done", box)
	if m.focus == focusDone {
		doneLine = selectedStyle.Render(doneLine)
	} else {
		doneLine = mutedStyle.Render(doneLine)
	}

	lines := []string{
		titleStyle.Render(header),
		"",
		m.input.View(),
		doneLine,
	}
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(m.errMsg))
	}
	lines = append(lines, "", helpStyle.Render("enter save • tab field • space toggle • esc cancel"))
	return panelString(strings.Join(lines, "\n"))
}
