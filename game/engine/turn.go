package engine

import (
	"fmt"
	"strings"
)

// Transitions below operate on GameState values: each returns a complete
// next state and leaves the receiver untouched. Calls made in the wrong
// phase return the state unchanged.

// SetPlayers builds a fresh roster of count players at the start square.
// Blank names default to "玩家 N". Ignored while a game is being played.
func (gs GameState) SetPlayers(count int, names []string) (GameState, error) {
	if gs.Phase == PhasePlaying {
		return gs, nil
	}
	if count < MinPlayers || count > MaxPlayers {
		return gs, fmt.Errorf("%w: must be between %d and %d, got %d", ErrInvalidPlayerCount, MinPlayers, MaxPlayers, count)
	}

	players := make([]Player, count)
	for i := range players {
		name := ""
		if i < len(names) {
			name = strings.TrimSpace(names[i])
		}
		if name == "" {
			name = fmt.Sprintf("玩家 %d", i+1)
		}
		players[i] = Player{
			ID:       i + 1,
			Name:     name,
			Color:    PlayerColors[i],
			Position: 0,
		}
	}

	next := gs.clone()
	next.Phase = PhaseSetup
	next.Players = players
	next.CurrentPlayerIndex = 0
	return next, nil
}

// StartGame activates a private copy of m and hands the turn to player one
func (gs GameState) StartGame(m *Map) (GameState, error) {
	if m == nil {
		return gs, ErrNoMapSelected
	}
	if gs.Phase == PhasePlaying {
		return gs, nil
	}
	if err := m.Validate(); err != nil {
		return gs, err
	}
	if len(gs.Players) == 0 {
		return gs, ErrNoPlayers
	}

	next := gs.clone()
	next.ActiveMap = m.Clone()
	next.Phase = PhasePlaying
	next.CurrentPlayerIndex = 0
	next.LastEvent = nil
	next.Rolls = 0
	return next, nil
}

// RollDice moves the current player by one die roll, applies the landing
// square's effect at most once and passes the turn to the next player.
func (gs GameState) RollDice(rng Rand, msgs Messages) GameState {
	if gs.Phase != PhasePlaying || gs.ActiveMap == nil || len(gs.Players) == 0 {
		return gs
	}

	next := gs.clone()
	turn := next.CurrentPlayerIndex % len(next.Players)
	player := next.Players[turn]
	last := next.ActiveMap.LastIndex()

	dice := RollDie(rng)
	pos := player.Position + dice
	event := &Event{
		PlayerID: player.ID,
		Player:   player.Name,
		Dice:     dice,
		From:     player.Position,
	}

	if pos >= last {
		pos = last
		event.Kind = EventFinish
		event.Text = fmt.Sprintf(msgs.Arrived, player.Name)
	} else {
		sq := next.ActiveMap.Grid[pos]
		switch sq.Kind {
		case Reward:
			v := sq.effectValue()
			pos += v
			event.Kind = EventReward
			event.Text = fmt.Sprintf(msgs.Reward, v)
		case Penalty:
			v := sq.effectValue()
			pos = max(0, pos-v)
			event.Kind = EventPenalty
			event.Text = fmt.Sprintf(msgs.Penalty, v)
		case Normal:
			event.Kind = EventNormal
			event.Text = sq.Text
			if event.Text == "" {
				event.Text = msgs.Safe
			}
		default:
			event.Kind = EventMove
			event.Text = fmt.Sprintf(msgs.Moved, dice)
		}
	}

	// A reward may carry the player past the finish
	if pos >= last {
		pos = last
	}

	event.To = pos
	next.Players[turn].Position = pos
	next.CurrentPlayerIndex = (turn + 1) % len(next.Players)
	next.LastEvent = event
	next.Rolls++
	return next
}

// Reset returns to an empty setup state
func (gs GameState) Reset() GameState {
	return NewGameState()
}

// ClearLastEvent dismisses the last roll event
func (gs GameState) ClearLastEvent() GameState {
	next := gs.clone()
	next.LastEvent = nil
	return next
}

// NewGameState returns the initial setup state
func NewGameState() GameState {
	return GameState{
		Phase:   PhaseSetup,
		Players: []Player{},
	}
}

// clone deep copies the state so transitions never share slices
func (gs GameState) clone() GameState {
	c := gs
	c.Players = append([]Player(nil), gs.Players...)
	if c.Players == nil {
		c.Players = []Player{}
	}
	c.ActiveMap = gs.ActiveMap.Clone()
	if gs.LastEvent != nil {
		ev := *gs.LastEvent
		c.LastEvent = &ev
	}
	return c
}
