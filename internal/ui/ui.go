package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/closet/internal/formatter"
	"github.com/desertthunder/closet/internal/models"
	"github.com/desertthunder/closet/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	GalleryView ViewState = iota
	DetailView
)

// closetFetchedMsg carries the outcome of a refresh back into the update loop.
type closetFetchedMsg struct {
	grouping *models.Grouping
	state    tasks.State
	err      error
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	engine    tasks.Engine
	width     int
	height    int
	groupList list.Model
	grouping  *models.Grouping
	selection Selection
	state     tasks.State
	loading   bool
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine tasks.Engine) *Model {
	return &Model{
		ctx:    ctx,
		view:   GalleryView,
		engine: engine,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by fetching the closet inventory.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return m.refreshCloset()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.groupList.Width() == 0 {
			m.groupList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case GalleryView:
			return m.handleGalleryKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}

	case closetFetchedMsg:
		m.loading = false
		m.state = msg.state
		if msg.err != nil || msg.grouping == nil {
			// The failure message lives in the page state; the
			// previous grouping stays on screen.
			return m, nil
		}

		m.grouping = msg.grouping
		items := make([]list.Item, 0, msg.grouping.Len())
		for _, group := range msg.grouping.Groups() {
			items = append(items, groupItem{group: group})
		}
		m.groupList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.groupList.Title = "Your Closet"
		m.groupList.SetSize(m.width-4, m.height-8)

		m.selection.Reconcile(m.grouping)
		if !m.selection.Active() {
			m.view = GalleryView
		}
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case DetailView:
		return m.renderDetail()
	default:
		return m.renderGallery()
	}
}

func (m *Model) handleGalleryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		return m, m.triggerRefresh()
	case "enter":
		if m.loading {
			return m, nil
		}
		selected := m.groupList.SelectedItem()
		if selected != nil {
			if gi, ok := selected.(groupItem); ok {
				m.selection.Select(gi.group.Key)
				m.view = DetailView
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.groupList, cmd = m.groupList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.selection.Dismiss()
		m.view = GalleryView
		return m, nil
	case "r":
		return m, m.triggerRefresh()
	}
	return m, nil
}

// triggerRefresh starts a refresh unless one is already running.
func (m *Model) triggerRefresh() tea.Cmd {
	if m.loading {
		return nil
	}
	m.loading = true
	return m.refreshCloset()
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != GalleryView {
		return m, nil
	}
	var cmd tea.Cmd
	m.groupList, cmd = m.groupList.Update(msg)
	return m, cmd
}

func (m *Model) refreshCloset() tea.Cmd {
	return func() tea.Msg {
		grouping, err := m.engine.Refresh(m.ctx, nil)
		return closetFetchedMsg{grouping: grouping, state: m.engine.State(), err: err}
	}
}

func (m *Model) renderGallery() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Smart Closet"))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString("Loading closet...\n")
	case m.state.LastError != "":
		b.WriteString(styles.err.Render(m.state.LastError))
		b.WriteString("\n")
	case m.state.UploadSucceeded:
		b.WriteString(styles.ok.Render("✓ Image uploaded. Refresh your closet to see new items."))
		b.WriteString("\n")
	}

	if m.grouping == nil || m.grouping.Len() == 0 {
		if !m.loading {
			b.WriteString("\nYour closet is empty. Upload a photo to get started.\n")
		}
	} else {
		b.WriteString(m.groupList.View())
		b.WriteString("\n")
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.refresh, m.keys.quit}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderDetail() string {
	group, ok := m.grouping.Get(m.selection.Key())
	if !ok {
		return styles.err.Render("Photo no longer in closet") + "\n\nPress esc to go back"
	}

	var b strings.Builder

	b.WriteString(styles.title.Render(fmt.Sprintf("Photo %s", group.Key)))
	b.WriteString("\n")
	if group.ImageURL != "" {
		b.WriteString(styles.help.Render(group.ImageURL))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\n%d items detected in this photo:\n\n", len(group.Items)))

	for i, item := range group.Items {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, formatter.DescribeItem(item)))
		if item.HasExtraInfo() {
			b.WriteString(styles.warn.Render(fmt.Sprintf("   Details: %s", item.ExtraInfo)))
			b.WriteString("\n")
		}
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.refresh, m.keys.quit}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}
