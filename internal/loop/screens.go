package loop

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mkarls/outrush/internal/draw"
	"github.com/mkarls/outrush/internal/race"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	hudStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	countdownStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226"))
	crashStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	gameOverStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	lowTimeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// drawOverlay writes the state-dependent text layer on top of the rendered
// road.
func drawOverlay(cw *draw.ChunkWriter, frame *draw.Frame, snap race.Snapshot) {
	w, h := frame.Width(), frame.Height()
	cx, cy := w/2, h/2

	switch snap.State {
	case race.StateMenu:
		drawMenu(cw, cx, cy)
	case race.StateCountdown:
		drawHUD(cw, w, snap)
		centered(cw, cx, cy, countdownStyle.Render(fmt.Sprintf("%d", snap.Countdown)))
	case race.StatePlaying:
		drawHUD(cw, w, snap)
	case race.StateCrashing:
		drawHUD(cw, w, snap)
		centered(cw, cx, cy, crashStyle.Render("C R A S H"))
	case race.StatePaused:
		drawHUD(cw, w, snap)
		centered(cw, cx, cy, titleStyle.Render("PAUSED"))
		centered(cw, cx, cy+2, promptStyle.Render("P to resume"))
	case race.StateGameOver:
		centered(cw, cx, cy-2, gameOverStyle.Render("GAME OVER"))
		centered(cw, cx, cy, promptStyle.Render(fmt.Sprintf("Final score: %d", snap.Score)))
		centered(cw, cx, cy+2, promptStyle.Render("SPACE to restart, Q to quit"))
	}
}

func drawMenu(cw *draw.ChunkWriter, cx, cy int) {
	centered(cw, cx, cy-3, titleStyle.Render("O U T R U S H"))
	centered(cw, cx, cy, promptStyle.Render("Press SPACE to race"))
	centered(cw, cx, cy+3, promptStyle.Render("Arrows/WASD to drive, P to pause, Q to quit"))
}

func drawHUD(cw *draw.ChunkWriter, termWidth int, snap race.Snapshot) {
	left := fmt.Sprintf("Score: %d   Level: %d", snap.Score, snap.Level)
	cw.WriteAt(2, 1, hudStyle.Render(left))

	timeStyle := hudStyle
	if snap.TimeLeft < 10 && snap.State == race.StatePlaying {
		timeStyle = lowTimeStyle
	}
	mid := fmt.Sprintf("Time: %02d", int(snap.TimeLeft))
	cw.WriteAt(termWidth/2-len(mid)/2, 1, timeStyle.Render(mid))

	right := fmt.Sprintf("Speed: %3d   Lives: %d", int(snap.Player.Speed), snap.Lives)
	cw.WriteAt(termWidth-len(right)-1, 1, hudStyle.Render(right))
}

// centered writes styled text with its midpoint at (cx, row). The width used
// for centering is the unstyled length, so ANSI codes don't skew placement.
func centered(cw *draw.ChunkWriter, cx, row int, styled string) {
	cw.WriteAt(cx-lipgloss.Width(styled)/2, row, styled)
}
