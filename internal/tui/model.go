// Package tui реализует форму сокращения ссылок в терминале.
// Один процесс соответствует одной сессии.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Totarae/tinylink/internal/model"
	"github.com/Totarae/tinylink/internal/service"
)

const (
	title          = "Pro URL Shortener"
	subtitle       = "Paste a long URL and get a short link via TinyURL"
	shorteningText = "Shortening your URL..."
)

// submittedMsg приходит, когда отправка формы обработана.
type submittedMsg struct {
	outcome service.Outcome
	view    service.View
}

// Model оборачивает FormController в модель bubbletea.
// Пока busy, контроллер принадлежит команде отправки и Update его не трогает.
type Model struct {
	ctx     context.Context
	form    *service.FormController
	keys    KeyMap
	input   textinput.Model
	spinner spinner.Model

	busy    bool
	view    service.View
	message model.Message
}

// New создаёт модель для контроллера form.
func New(ctx context.Context, form *service.FormController) Model {
	in := textinput.New()
	in.Placeholder = "https://example.com/very/long/url"
	in.Prompt = "URL: "
	in.CharLimit = 2048
	in.Width = 60
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle

	return Model{
		ctx:     ctx,
		form:    form,
		keys:    DefaultKeyMap(),
		input:   in,
		spinner: sp,
		view:    form.View(),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Submit):
			return m.submit()
		case key.Matches(msg, m.keys.Copy):
			out := m.form.Copy()
			m.message = out.Message
			m.view = m.form.View()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case submittedMsg:
		m.busy = false
		m.view = msg.view
		if !msg.outcome.Message.Empty() {
			m.message = msg.outcome.Message
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	if value == "" {
		return m, nil
	}

	m.busy = true
	m.message = model.Message{}
	ctx, form := m.ctx, m.form
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		out := form.Submit(ctx, value)
		return submittedMsg{outcome: out, view: form.View()}
	})
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(subtitle))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.busy {
		b.WriteString(m.spinner.View() + " " + shorteningText)
		b.WriteString("\n")
	} else if !m.message.Empty() {
		b.WriteString(messageStyle(m.message.Level).Render(m.message.Text))
		b.WriteString("\n")
	}

	if m.view.CanCopy {
		b.WriteString(resultStyle.Render("Your shortened URL: " + m.view.ShortURL))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.keys.help()))
	b.WriteString("\n")
	return b.String()
}

// Run запускает терминальную форму и блокируется до выхода пользователя или отмены ctx.
func Run(ctx context.Context, form *service.FormController, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, form), opts...).Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
