package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/raphaelgruber/keymap/internal/client"
	"github.com/raphaelgruber/keymap/internal/models"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Design a schema in an interactive guest chat",
	Long: `Start an interactive schema design conversation without an account.

The transcript lives only in this terminal session. Describe your
application, answer the assistant's questions, then ask it to
"generate the schema". Press Esc or Ctrl+C to leave.`,
	RunE: runChat,
}

// chatTheme reuses the keymap CLI color scheme.
type chatTheme struct {
	user      lipgloss.Style
	assistant lipgloss.Style
	schema    lipgloss.Style
	hint      lipgloss.Style
	fail      lipgloss.Style
}

func defaultChatTheme() chatTheme {
	return chatTheme{
		user:      lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFD7")).Bold(true),
		assistant: lipgloss.NewStyle().Foreground(lipgloss.Color("#00D787")).Bold(true),
		schema:    lipgloss.NewStyle().Foreground(lipgloss.Color("#AFAF87")),
		hint:      lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C")).Italic(true),
		fail:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FF005F")).Bold(true),
	}
}

// turnMsg carries the server's reply to one chat turn.
type turnMsg struct {
	turn *client.GuestTurn
	err  error
}

// chatModel is the bubbletea model for the guest chat.
type chatModel struct {
	client     *client.Client
	input      textinput.Model
	transcript []models.Message
	lines      []string
	theme      chatTheme
	waiting    bool
	err        error
}

func newChatModel(c *client.Client) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Describe the app you are building..."
	ti.Focus()

	return chatModel{
		client: c,
		input:  ti,
		theme:  defaultChatTheme(),
	}
}

// Init returns the initial command.
func (m chatModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and returns the updated model.
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if m.waiting {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.input.SetValue("")
			m.lines = append(m.lines, m.theme.user.Render("you: ")+text)
			m.waiting = true
			m.err = nil
			return m, m.sendTurn(text)
		}

	case turnMsg:
		m.waiting = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.transcript = msg.turn.Messages
		m.lines = append(m.lines, m.theme.assistant.Render("keymap: ")+msg.turn.Response)
		if msg.turn.Schema != nil {
			m.lines = append(m.lines, "", m.theme.schema.Render(msg.turn.Schema.Code), "")
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the transcript and the input line.
func (m chatModel) View() tea.View {
	var b strings.Builder

	b.WriteString(m.theme.hint.Render("Guest chat. Ask to \"generate the schema\" when ready. Esc to quit.") + "\n\n")
	for _, line := range m.lines {
		b.WriteString(line + "\n")
	}
	if m.waiting {
		b.WriteString(m.theme.hint.Render("thinking...") + "\n")
	}
	if m.err != nil {
		b.WriteString(m.theme.fail.Render(fmt.Sprintf("error: %v", m.err)) + "\n")
	}
	b.WriteString("\n" + m.input.View() + "\n")

	return tea.NewView(b.String())
}

// sendTurn sends one guest chat turn to the server.
// Runs in a separate goroutine (command) to avoid blocking Update().
func (m chatModel) sendTurn(message string) tea.Cmd {
	transcript := m.transcript
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		turn, err := m.client.GuestChat(ctx, transcript, message)
		return turnMsg{turn: turn, err: err}
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	if err := apiClient.Health(context.Background()); err != nil {
		return fmt.Errorf("server not reachable: %w", err)
	}

	p := tea.NewProgram(newChatModel(apiClient))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}
	return nil
}
