package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/brensch/gridsnake/game"
)

type styles struct {
	board  lipgloss.Style
	head   lipgloss.Style
	body   lipgloss.Style
	food   lipgloss.Style
	empty  lipgloss.Style
	status lipgloss.Style
	over   lipgloss.Style
	err    lipgloss.Style
	help   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		board:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")),
		head:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		body:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		food:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		empty:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		status: lipgloss.NewStyle().Bold(true),
		over:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		err:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		help:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

const (
	cellHead  = "██"
	cellBody  = "▓▓"
	cellFood  = "◆ "
	cellEmpty = "· "
)

func (m model) View() string {
	parts := []string{
		m.styles.status.Render(statusLine(m.snap)),
		m.styles.board.Render(m.renderBoard()),
	}
	if msg := banner(m.snap); msg != "" {
		parts = append(parts, m.styles.over.Render(msg))
	}
	if m.err != nil {
		parts = append(parts, m.styles.err.Render(m.err.Error()))
	}
	parts = append(parts, m.styles.help.Render("arrows/wasd move · 1 2 3 speed · space start · p pause · q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

func (m model) renderBoard() string {
	size := m.snap.Size
	if size <= 0 {
		return ""
	}
	cells := make([]string, size*size)
	for i := range cells {
		cells[i] = m.styles.empty.Render(cellEmpty)
	}
	grid := game.Grid{Size: size}
	if m.snap.Phase != game.NotStarted && grid.Contains(m.snap.Food) {
		cells[grid.Key(m.snap.Food)] = m.styles.food.Render(cellFood)
	}
	for i := len(m.snap.Snake) - 1; i >= 0; i-- {
		p := m.snap.Snake[i]
		if !grid.Contains(p) {
			continue
		}
		if i == 0 {
			cells[grid.Key(p)] = m.styles.head.Render(cellHead)
		} else {
			cells[grid.Key(p)] = m.styles.body.Render(cellBody)
		}
	}

	var b strings.Builder
	for y := int32(0); y < size; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := int32(0); x < size; x++ {
			b.WriteString(cells[y*size+x])
		}
	}
	return b.String()
}

func statusLine(s game.Snapshot) string {
	line := fmt.Sprintf("Score %d   Speed %s   Turn %d", s.Score, s.Speed, s.Turn)
	if s.Paused {
		line += "   [paused]"
	}
	return line
}

func banner(s game.Snapshot) string {
	switch s.Phase {
	case game.NotStarted:
		return "Press space to start"
	case game.GameOver:
		if s.Event == game.EventBoardFull {
			return fmt.Sprintf("Board full! Final score %d. Press space to play again", s.Score)
		}
		return fmt.Sprintf("Game over. Final score %d. Press space to play again", s.Score)
	}
	return ""
}
