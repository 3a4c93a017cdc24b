package mcp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wricardo/flying-chess/game/engine"
	"github.com/wricardo/flying-chess/game/service"
)

// boardWidth is the number of squares per rendered board row
const boardWidth = 10

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Game: %s\nCreated: %s\n\n%s",
		session.ID,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	// Header
	fmt.Fprintf(&result, "Phase: %s | Rolls: %d", state.Phase, state.Rolls)
	if state.ActiveMap != nil {
		fmt.Fprintf(&result, " | Map: %s (%d squares)", state.ActiveMap.Name, state.ActiveMap.TotalSquares)
	}
	result.WriteString("\n\n")

	// Players
	if len(state.Players) == 0 {
		result.WriteString("No players yet\n")
	}
	for i, p := range state.Players {
		marker := " "
		if state.Phase == engine.PhasePlaying && i == state.CurrentPlayerIndex {
			marker = ">"
		}
		fmt.Fprintf(&result, "%s %d. %s at square %d", marker, p.ID, p.Name, p.Position)
		if state.ActiveMap != nil && p.Position == state.ActiveMap.LastIndex() {
			result.WriteString(" (finished)")
		}
		result.WriteString("\n")
	}

	if state.ActiveMap != nil {
		result.WriteString("\n")
		result.WriteString(formatBoard(state.ActiveMap, state.Players))
	}

	if state.LastEvent != nil {
		fmt.Fprintf(&result, "\nLast roll: %s\n", formatEvent(state.LastEvent))
	}

	return result.String()
}

func formatRollResult(result *service.RollResult) string {
	if !result.Rolled {
		return "The game is not being played; nothing happened.\n\n" + formatGameState(result.GameState)
	}

	var out strings.Builder
	if result.Event != nil {
		fmt.Fprintf(&out, "%s\n", formatEvent(result.Event))
	}
	if len(result.Finished) > 0 {
		names := make([]string, len(result.Finished))
		for i, p := range result.Finished {
			names[i] = p.Name
		}
		fmt.Fprintf(&out, "Finished: %s\n", strings.Join(names, ", "))
	}
	out.WriteString("\n")
	out.WriteString(formatGameState(result.GameState))
	return out.String()
}

func formatEvent(e *engine.Event) string {
	return fmt.Sprintf("%s rolled %d, %d -> %d [%s] %s", e.Player, e.Dice, e.From, e.To, e.Kind, e.Text)
}

func formatMap(m *engine.Map) string {
	var result strings.Builder
	fmt.Fprintf(&result, "Map %s: %s (%d squares, %d rewards, %d penalties)\n\n",
		m.ID, m.Name, m.TotalSquares,
		engine.CountKind(m.Grid, engine.Reward),
		engine.CountKind(m.Grid, engine.Penalty))
	result.WriteString(formatBoard(m, nil))
	return result.String()
}

// formatBoard draws the board in serpentine rows. Squares holding players
// show the player IDs instead of the square token.
func formatBoard(m *engine.Map, players []engine.Player) string {
	occupants := make(map[int]string)
	for _, p := range players {
		occupants[p.Position] += strconv.Itoa(p.ID)
	}

	var result strings.Builder
	for _, row := range engine.BoardRows(len(m.Grid), boardWidth) {
		lo, hi := row[0], row[len(row)-1]
		if lo > hi {
			lo, hi = hi, lo
		}
		fmt.Fprintf(&result, "%3d-%-3d ", lo, hi)

		for _, idx := range row {
			token := squareToken(m.Grid[idx])
			if ids, ok := occupants[idx]; ok {
				token = ids
			}
			fmt.Fprintf(&result, "%-4s", token)
		}
		result.WriteString("\n")
	}
	return result.String()
}

func squareToken(sq engine.Square) string {
	switch sq.Kind {
	case engine.Start:
		return "S"
	case engine.Finish:
		return "F"
	case engine.Reward:
		return fmt.Sprintf("+%d", sq.Value)
	case engine.Penalty:
		return fmt.Sprintf("-%d", sq.Value)
	default:
		return "."
	}
}
