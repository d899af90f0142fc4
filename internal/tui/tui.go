package tui

import (
	"context"
	"ctchen222/tictactoe-hotseat/internal/game"
	"ctchen222/tictactoe-hotseat/internal/session"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const invalidPlacement = "Invalid cell placement!"

var (
	player1Style = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	player2Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
	titleStyle   = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	bannerStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginTop(1)
)

// Model is the bubbletea model for a hot-seat game in the terminal.
type Model struct {
	ctx     context.Context
	session *session.Session

	row, col int
	message  string
}

// New returns a model with the cursor on the centre cell.
func New(ctx context.Context, s *session.Session) Model {
	return Model{
		ctx:     ctx,
		session: s,
		row:     game.Size / 2,
		col:     game.Size / 2,
	}
}

// Run blocks until the player quits.
func Run(ctx context.Context, s *session.Session) error {
	_, err := tea.NewProgram(New(ctx, s), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch k := key.String(); k {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		m.row = max(m.row-1, game.BorderMin)
	case "down", "j":
		m.row = min(m.row+1, game.BorderMax)
	case "left", "h":
		m.col = max(m.col-1, game.BorderMin)
	case "right", "l":
		m.col = min(m.col+1, game.BorderMax)
	case "enter", " ":
		m.place(m.row, m.col)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n := int(k[0] - '1')
		m.row, m.col = n/game.Size, n%game.Size
		m.place(m.row, m.col)
	case "r":
		if m.session.Snapshot().Status.IsTerminal() {
			m.session.Restart(m.ctx)
			m.message = ""
		}
	}
	return m, nil
}

func (m *Model) place(row, col int) {
	_, err := m.session.Click(m.ctx, row, col)
	switch {
	case err == nil:
		m.message = ""
	case errors.Is(err, game.ErrCellOccupied):
		m.message = invalidPlacement
	case errors.Is(err, game.ErrGameAlreadyEnded):
		// The board stays frozen until restart.
	default:
		slog.WarnContext(m.ctx, "move rejected", "move.row", row, "move.col", col, "error", err)
		m.message = err.Error()
	}
}

func (m Model) View() string {
	snap := m.session.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Tic-Tac-Toe"))
	b.WriteString("\n")

	symbols := snap.Board.Symbols()
	for r := 0; r < game.Size; r++ {
		cells := make([]string, game.Size)
		for c := 0; c < game.Size; c++ {
			cells[c] = m.renderCell(snap.Board[r][c], symbols[r][c], r, c, snap.Status.IsTerminal())
		}
		b.WriteString(strings.Join(cells, "│"))
		b.WriteString("\n")
		if r < game.Size-1 {
			b.WriteString("───┼───┼───\n")
		}
	}

	b.WriteString(bannerStyle.Render(banner(snap)))
	b.WriteString("\n")
	if m.message != "" {
		b.WriteString(warnStyle.Render(m.message))
		b.WriteString("\n")
	}

	help := "arrows/hjkl move · enter place · 1-9 place · q quit"
	if snap.Status.IsTerminal() {
		help = "r restart · q quit"
	}
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderCell(mark game.PlayerMark, symbol string, row, col int, over bool) string {
	if symbol == "" {
		symbol = " "
	}
	cell := " " + symbol + " "

	switch mark {
	case game.Player1:
		cell = player1Style.Render(cell)
	case game.Player2:
		cell = player2Style.Render(cell)
	}
	if !over && row == m.row && col == m.col {
		cell = cursorStyle.Render(cell)
	}
	return cell
}

func banner(snap game.Snapshot) string {
	switch snap.Status {
	case game.StatusPlayer1Won, game.StatusPlayer2Won:
		return fmt.Sprintf("%s wins!", snap.Status.Winner())
	case game.StatusTie:
		return "It's a tie!"
	default:
		return fmt.Sprintf("%s (%s) to move", snap.Active, snap.Active.Symbol())
	}
}
