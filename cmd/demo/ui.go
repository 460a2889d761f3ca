// Terminal rendering for the demo CLI, adapted from the teacher's
// cmd/cli/ui.go: the same color palette, panel style, and terminal-size
// fallback chain, with the Mars-specific resource/production/global-param
// panels replaced by panels over a projection.View (match status, the
// viewer's own zones, the opponent's zones, available actions).
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"tcg-match-engine/internal/projection"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	primaryColor   = lipgloss.Color("#7C3AED")
	secondaryColor = lipgloss.Color("#06B6D4")
	accentColor    = lipgloss.Color("#10B981")
	warningColor   = lipgloss.Color("#F59E0B")
	errorColor     = lipgloss.Color("#EF4444")
	textColor      = lipgloss.Color("#F8FAFC")
	mutedColor     = lipgloss.Color("#94A3B8")

	baseStyle = lipgloss.NewStyle().
			Foreground(textColor)

	basePanelStyle = baseStyle.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2).
			Margin(1, 0)

	headerStyle = baseStyle.
			Foreground(primaryColor).
			Bold(true).
			Align(lipgloss.Center)

	resourceStyle = baseStyle.
			Padding(0, 1)

	resourceValueStyle = baseStyle.
				Bold(true).
				Foreground(accentColor)

	mutedValueStyle = baseStyle.
				Foreground(mutedColor)

	activeStyle = baseStyle.
			Foreground(accentColor).
			Bold(true)

	inactiveStyle = baseStyle.
			Foreground(mutedColor)
)

// UI renders the viewer's projection.View to a terminal, following the
// teacher's UI struct's update-then-render cycle.
type UI struct {
	view        *projection.View
	viewerID    string
	lastCommand string
	lastResult  string
	termWidth   int
	termHeight  int
}

// NewUI creates a new UI instance for viewerID.
func NewUI(viewerID string) *UI {
	ui := &UI{viewerID: viewerID}
	ui.updateTerminalSize()
	return ui
}

func (ui *UI) updateTerminalSize() {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width, height, err = term.GetSize(int(os.Stderr.Fd()))
	}
	if err != nil {
		width, height, err = term.GetSize(int(os.Stdin.Fd()))
	}

	if err != nil {
		if cols := os.Getenv("COLUMNS"); cols != "" {
			if w, parseErr := strconv.Atoi(cols); parseErr == nil {
				ui.termWidth = w
			} else {
				ui.termWidth = 80
			}
		} else {
			ui.termWidth = 80
		}

		if lines := os.Getenv("LINES"); lines != "" {
			if h, parseErr := strconv.Atoi(lines); parseErr == nil {
				ui.termHeight = h
			} else {
				ui.termHeight = 24
			}
		} else {
			ui.termHeight = 24
		}
	} else {
		ui.termWidth = width
		ui.termHeight = height
	}

	if ui.termWidth < 40 {
		ui.termWidth = 40
	}
}

func (ui *UI) getPanelStyle() lipgloss.Style {
	style := basePanelStyle
	if ui.termWidth >= 80 {
		maxPanelWidth := (ui.termWidth - 6) / 3
		style = style.Width(maxPanelWidth)
	}
	return style
}

// UpdateView replaces the projection being rendered.
func (ui *UI) UpdateView(v *projection.View) {
	ui.view = v
}

// SetLastCommand records the most recently submitted command and its result.
func (ui *UI) SetLastCommand(command, result string) {
	ui.lastCommand = command
	ui.lastResult = result
}

// RenderFullDisplay renders the match-status panels, a separator, and the
// last command's output, following the teacher's RenderFullDisplay layout.
func (ui *UI) RenderFullDisplay() string {
	ui.updateTerminalSize()

	var parts []string
	parts = append(parts, ui.RenderStatus())

	separator := strings.Repeat("─", ui.termWidth)
	parts = append(parts, baseStyle.Foreground(mutedColor).Render(separator))

	if ui.lastCommand != "" || ui.lastResult != "" {
		parts = append(parts, ui.renderCommandArea())
	}

	return strings.Join(parts, "\n")
}

// RenderStatus renders the match-info, own-zone, and opponent-zone panels.
func (ui *UI) RenderStatus() string {
	if ui.view == nil {
		return ui.renderDisconnectedStatus()
	}

	sections := []string{
		ui.renderMatchInfo(),
		ui.renderOwnZones(),
		ui.renderOpponentZones(),
	}

	if ui.termWidth < 80 {
		return strings.Join(sections, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, sections...)
}

func (ui *UI) renderCommandArea() string {
	var lines []string
	if ui.lastCommand != "" {
		lines = append(lines, baseStyle.Foreground(primaryColor).Render("match> ")+baseStyle.Render(ui.lastCommand))
	}
	if ui.lastResult != "" {
		lines = append(lines, ui.lastResult)
	}
	return strings.Join(lines, "\n")
}

func (ui *UI) renderDisconnectedStatus() string {
	content := headerStyle.Render("🎴 No Match") + "\n" +
		inactiveStyle.Render("The demo creates its match at startup")
	return ui.getPanelStyle().BorderForeground(warningColor).Render(content)
}

func (ui *UI) renderMatchInfo() string {
	v := ui.view
	title := headerStyle.Render("🎮 Match")

	var lines []string
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("State: %s", resourceValueStyle.Render(string(v.State))))
	lines = append(lines, fmt.Sprintf("Turn: %s", resourceValueStyle.Render(fmt.Sprintf("%d", v.TurnNumber))))
	lines = append(lines, fmt.Sprintf("Phase: %s", mutedValueStyle.Render(string(v.Phase))))

	if v.CurrentPlayer == ui.viewerID {
		lines = append(lines, fmt.Sprintf("Turn owner: %s", activeStyle.Render("you")))
	} else {
		lines = append(lines, fmt.Sprintf("Turn owner: %s", inactiveStyle.Render(v.CurrentPlayer)))
	}

	lines = append(lines, "")
	lines = append(lines, headerStyle.Render("Available actions"))
	if len(v.AvailableActions) == 0 {
		lines = append(lines, inactiveStyle.Render("(none)"))
	}
	for _, a := range v.AvailableActions {
		lines = append(lines, resourceStyle.Render(string(a)))
	}

	if v.LastAction != nil {
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("Last: %s", mutedValueStyle.Render(v.LastAction.ActionType)))
	}

	content := title + "\n" + strings.Join(lines, "\n")
	return ui.getPanelStyle().Render(content)
}

func (ui *UI) renderOwnZones() string {
	ps := ui.view.PlayerState
	title := headerStyle.Render("🧍 You")

	var lines []string
	lines = append(lines, "")
	lines = append(lines, ui.formatCountLine("Hand", "🃏", len(ps.HandCardIDs)))
	lines = append(lines, ui.formatCountLine("Deck", "📚", ps.DeckCount))
	lines = append(lines, ui.formatCountLine("Prizes", "🏆", ps.PrizeCount))
	lines = append(lines, ui.formatCountLine("Discard", "🗑️", len(ps.DiscardPile)))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("Active: %s", ui.formatInstance(ps.ActivePokemon)))
	benchLabels := make([]string, 0, len(ps.Bench))
	for _, b := range ps.Bench {
		if b != nil {
			benchLabels = append(benchLabels, ui.formatInstance(b))
		}
	}
	if len(benchLabels) == 0 {
		lines = append(lines, fmt.Sprintf("Bench: %s", inactiveStyle.Render("(empty)")))
	} else {
		lines = append(lines, fmt.Sprintf("Bench: %s", strings.Join(benchLabels, ", ")))
	}

	content := title + "\n" + strings.Join(lines, "\n")
	return ui.getPanelStyle().Render(content)
}

func (ui *UI) renderOpponentZones() string {
	opp := ui.view.OpponentState
	title := headerStyle.Render("🧑‍🤝‍🧑 Opponent")

	var lines []string
	lines = append(lines, "")
	lines = append(lines, ui.formatCountLine("Hand", "🃏", opp.HandCount))
	lines = append(lines, ui.formatCountLine("Deck", "📚", opp.DeckCount))
	lines = append(lines, ui.formatCountLine("Prizes", "🏆", opp.PrizeCount))
	lines = append(lines, ui.formatCountLine("Discard", "🗑️", len(opp.DiscardPile)))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("Active: %s", ui.formatInstance(opp.ActivePokemon)))
	if len(opp.RevealedHand) > 0 {
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("Revealed hand: %s", strings.Join(opp.RevealedHand, ", ")))
	}

	content := title + "\n" + strings.Join(lines, "\n")
	return ui.getPanelStyle().Render(content)
}

func (ui *UI) formatCountLine(name, icon string, value int) string {
	nameFormatted := resourceStyle.Render(fmt.Sprintf("%s %s:", icon, name))
	valueFormatted := resourceValueStyle.Render(fmt.Sprintf("%d", value))
	return fmt.Sprintf("%-12s %s", nameFormatted, valueFormatted)
}

func (ui *UI) formatInstance(ci *projection.CardInstanceView) string {
	if ci == nil {
		return inactiveStyle.Render("(none)")
	}
	label := fmt.Sprintf("%s [%s] %d/%d HP", ci.CardID, ci.InstanceID[:min(8, len(ci.InstanceID))], ci.CurrentHP, ci.MaxHP)
	if len(ci.AttachedEnergy) > 0 {
		label += fmt.Sprintf(" +%d energy", len(ci.AttachedEnergy))
	}
	return mutedValueStyle.Render(label)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// ClearScreen clears the terminal screen.
func (ui *UI) ClearScreen() {
	fmt.Print("\033[2J\033[H")
}

// RenderPrompt renders the command prompt.
func (ui *UI) RenderPrompt() string {
	return baseStyle.Foreground(primaryColor).Render("match> ")
}

// RenderMessage renders a status message with appropriate styling, following
// the teacher's success/error/warning/info icon+style switch.
func (ui *UI) RenderMessage(msgType, message string) string {
	var style lipgloss.Style
	var icon string

	switch msgType {
	case "success":
		style = baseStyle.Foreground(accentColor)
		icon = "✅"
	case "error":
		style = baseStyle.Foreground(errorColor)
		icon = "❌"
	case "warning":
		style = baseStyle.Foreground(warningColor)
		icon = "⚠️"
	case "info":
		style = baseStyle.Foreground(secondaryColor)
		icon = "ℹ️"
	default:
		style = baseStyle
		icon = "📨"
	}

	return style.Render(fmt.Sprintf("%s %s", icon, message))
}
