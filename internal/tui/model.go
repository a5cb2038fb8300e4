package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"plesir/internal/domain"
	"plesir/internal/memory"
)

// ChatPort is the TUI-facing subset of the chat service.
type ChatPort interface {
	Ask(ctx context.Context, transcript *memory.Transcript, query string) (string, error)
}

// Model is the Bubble Tea model for the chat client.
type Model struct {
	chat       ChatPort
	transcript *memory.Transcript
	input      textinput.Model
	viewport   viewport.Model
	modelName  string
	status     string
	waiting    bool
	ready      bool
}

type replyMsg struct {
	reply string
	err   error
}

// New creates the chat TUI over the given service.
func New(chat ChatPort, modelName string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Mau jalan-jalan ke mana?"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		chat:       chat,
		transcript: memory.New(),
		input:      ti,
		viewport:   vp,
		modelName:  modelName,
		status:     "Siap. Ketik pertanyaan lalu tekan Enter. Ctrl+L menghapus percakapan.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window, and reply events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-th)
		m.viewport.SetContent(m.renderTranscript())
		return m, nil
	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Gangguan pada giliran terakhir; sesi tetap jalan."
		} else {
			m.status = "Siap."
		}
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.waiting {
				m.input.SetValue("")
				m.waiting = true
				m.status = "Nanya ke " + m.modelName + "..."
				return m, m.askCmd(q)
			}
		case "ctrl+l":
			m.transcript.Clear()
			m.status = "Percakapan dihapus."
			m.viewport.SetContent(m.renderTranscript())
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// askCmd runs one chat turn off the UI loop; the transcript is updated
// by the service before the reply message arrives.
func (m Model) askCmd(query string) tea.Cmd {
	chat, transcript := m.chat, m.transcript
	return func() tea.Msg {
		reply, err := chat.Ask(context.Background(), transcript, query)
		return replyMsg{reply: reply, err: err}
	}
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Konco Plesir — Chatbot Wisata Jawa")
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	turns := m.transcript.Recent(m.transcript.Len())
	if len(turns) == 0 {
		return "Belum ada percakapan."
	}
	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if turn.Role == domain.RoleAssistant {
			b.WriteString(assistantStyle.Render("Konco Plesir"))
		} else {
			b.WriteString(userStyle.Render("Kamu"))
		}
		b.WriteString("\n")
		b.WriteString(turn.Text)
	}
	return b.String()
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
