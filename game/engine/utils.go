package engine

// CountKind counts the squares of a specific kind in the grid
func CountKind(grid []Square, kind SquareKind) int {
	count := 0
	for _, sq := range grid {
		if sq.Kind == kind {
			count++
		}
	}
	return count
}

// SpecialIndices returns the reward and penalty indices of the grid
func SpecialIndices(grid []Square) (rewards, penalties []int) {
	for i, sq := range grid {
		switch sq.Kind {
		case Reward:
			rewards = append(rewards, i)
		case Penalty:
			penalties = append(penalties, i)
		}
	}
	return rewards, penalties
}

// FinishedPlayers returns the players standing on the finish square.
// They keep their turn slot; further rolls leave them pinned there.
func FinishedPlayers(state *GameState) []Player {
	if state == nil || state.ActiveMap == nil {
		return nil
	}
	last := state.ActiveMap.LastIndex()
	var finished []Player
	for _, p := range state.Players {
		if p.Position == last {
			finished = append(finished, p)
		}
	}
	return finished
}

// BoardRows lays the grid out in rows of width squares, every other row
// reversed so the path snakes across the board. Entries are grid indices.
func BoardRows(total, width int) [][]int {
	if width <= 0 {
		width = 10
	}
	var rows [][]int
	for start := 0; start < total; start += width {
		end := min(start+width, total)
		row := make([]int, 0, end-start)
		for i := start; i < end; i++ {
			row = append(row, i)
		}
		if len(rows)%2 == 1 {
			for l, r := 0, len(row)-1; l < r; l, r = l+1, r-1 {
				row[l], row[r] = row[r], row[l]
			}
		}
		rows = append(rows, row)
	}
	return rows
}
