package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRand replays fixed IntN results; it fails the test when exhausted
type scriptedRand struct {
	t      *testing.T
	values []int
}

func (r *scriptedRand) IntN(n int) int {
	r.t.Helper()
	if len(r.values) == 0 {
		r.t.Fatalf("scriptedRand exhausted (IntN(%d))", n)
	}
	v := r.values[0]
	r.values = r.values[1:]
	if v < 0 || v >= n {
		r.t.Fatalf("scripted value %d out of range for IntN(%d)", v, n)
	}
	return v
}

// dice scripts die faces (1..6) as IntN(6) results
func dice(t *testing.T, faces ...int) *scriptedRand {
	values := make([]int, len(faces))
	for i, f := range faces {
		values[i] = f - 1
	}
	return &scriptedRand{t: t, values: values}
}

// createTestMap builds a map of total squares with the given interior squares
func createTestMap(t *testing.T, total int, interior map[int]Square) *Map {
	t.Helper()
	grid := make([]RawSquare, total)
	for i := range grid {
		sq, ok := interior[i]
		if !ok {
			sq = Square{Kind: Normal}
		}
		grid[i] = sq.Raw()
	}
	m, err := BuildMap(MapEdit{Name: "Test Map", TotalSquares: total, Grid: grid})
	require.NoError(t, err)
	return m
}

func createTestEngine(t *testing.T, rng Rand, players int, m *Map) *GameEngine {
	t.Helper()
	e, err := NewEngine(WithRand(rng))
	require.NoError(t, err)
	require.NoError(t, e.SetPlayers(players, nil))
	require.NoError(t, e.StartGame(m))
	return e
}

func TestNewEngine(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	assert.Equal(t, PhaseSetup, e.GetPhase())
	assert.False(t, e.IsPlaying())
	assert.Empty(t, e.GetPlayers())
	assert.Nil(t, e.CurrentPlayer())
	assert.Equal(t, DefaultMessages(), e.GetMessages())
}

func TestNewEngine_InvalidMessages(t *testing.T) {
	msgs := DefaultMessages()
	msgs.Reward = "reward without steps"

	_, err := NewEngine(WithMessages(msgs))
	assert.Error(t, err)
}

func TestEngine_RollBeforeStartIsNoOp(t *testing.T) {
	e, err := NewEngine(WithRand(dice(t)))
	require.NoError(t, err)
	require.NoError(t, e.SetPlayers(2, nil))

	before := e.GetState()
	assert.Nil(t, e.RollDice())
	assert.Equal(t, before, e.GetState())
}

func TestEngine_FullTurnCycle(t *testing.T) {
	m := createTestMap(t, 20, map[int]Square{
		4: {Kind: Reward, Value: 3},
		6: {Kind: Penalty, Value: 2},
		9: {Kind: Normal, Text: "hello"},
	})
	e := createTestEngine(t, dice(t, 4, 6, 5, 3), 2, m)

	// player 1: 0 -> 4, reward 3 -> 7
	ev := e.RollDice()
	require.NotNil(t, ev)
	assert.Equal(t, EventReward, ev.Kind)
	assert.Equal(t, 7, ev.To)
	assert.Equal(t, "奖励！前进 3 步！", ev.Text)
	assert.Equal(t, 2, e.CurrentPlayer().ID)

	// player 2: 0 -> 6, penalty 2 -> 4
	ev = e.RollDice()
	require.NotNil(t, ev)
	assert.Equal(t, EventPenalty, ev.Kind)
	assert.Equal(t, 4, ev.To)
	assert.Equal(t, "惩罚！后退 2 步！", ev.Text)

	// player 1: 7 -> 12, plain normal square
	ev = e.RollDice()
	require.NotNil(t, ev)
	assert.Equal(t, EventNormal, ev.Kind)
	assert.Equal(t, "安全。", ev.Text)

	// player 2: 4 -> 7
	ev = e.RollDice()
	require.NotNil(t, ev)
	assert.Equal(t, 7, ev.To)

	players := e.GetPlayers()
	assert.Equal(t, 12, players[0].Position)
	assert.Equal(t, 7, players[1].Position)
	assert.Equal(t, 4, e.GetState().Rolls)
	assert.Equal(t, "安全。", e.GetState().LastEvent.Text)
}

func TestEngine_GetStateIsSnapshot(t *testing.T) {
	e := createTestEngine(t, dice(t, 1), 2, createTestMap(t, 10, nil))

	snapshot := e.GetState()
	snapshot.Players[0].Position = 5
	snapshot.ActiveMap.Grid[1] = Square{Kind: Reward, Value: 6}

	fresh := e.GetState()
	assert.Equal(t, 0, fresh.Players[0].Position)
	assert.Equal(t, Normal, fresh.ActiveMap.Grid[1].Kind)

	ev := e.RollDice()
	require.NotNil(t, ev)
	assert.Equal(t, 1, ev.To)
	assert.Equal(t, 0, snapshot.Rolls)
}

func TestEngine_SetState(t *testing.T) {
	e, err := NewEngine()
	require.NoError(t, err)

	t.Run("nil state", func(t *testing.T) {
		assert.Error(t, e.SetState(nil))
	})

	t.Run("invalid map", func(t *testing.T) {
		bad := &GameState{
			Phase:     PhasePlaying,
			Players:   []Player{{ID: 1}, {ID: 2}},
			ActiveMap: &Map{Name: "broken", TotalSquares: 3, Grid: []Square{{Kind: Normal}}},
		}
		assert.ErrorIs(t, e.SetState(bad), ErrInvalidMap)
		assert.Equal(t, PhaseSetup, e.GetPhase())
	})

	t.Run("turn pointer out of range", func(t *testing.T) {
		bad := &GameState{Phase: PhaseSetup, Players: []Player{{ID: 1}, {ID: 2}}, CurrentPlayerIndex: 2}
		assert.ErrorIs(t, e.SetState(bad), ErrInvalidState)
	})

	t.Run("rejects corrupt rosters", func(t *testing.T) {
		board := createTestMap(t, 10, nil)
		tests := []struct {
			name    string
			state   *GameState
			wantErr error
		}{
			{
				name:    "unknown phase",
				state:   &GameState{Phase: "paused"},
				wantErr: ErrInvalidState,
			},
			{
				name: "negative position",
				state: &GameState{Phase: PhasePlaying, ActiveMap: board,
					Players: []Player{{ID: 1, Position: -5}, {ID: 2}}},
				wantErr: ErrInvalidState,
			},
			{
				name: "position past the finish",
				state: &GameState{Phase: PhasePlaying, ActiveMap: board,
					Players: []Player{{ID: 1, Position: 10}, {ID: 2}}},
				wantErr: ErrInvalidState,
			},
			{
				name: "position without a map",
				state: &GameState{Phase: PhaseSetup,
					Players: []Player{{ID: 1, Position: 3}, {ID: 2}}},
				wantErr: ErrInvalidState,
			},
			{
				name: "too many players",
				state: &GameState{Phase: PhasePlaying, ActiveMap: board,
					Players: make([]Player, MaxPlayers+3)},
				wantErr: ErrInvalidPlayerCount,
			},
			{
				name:    "single player",
				state:   &GameState{Phase: PhaseSetup, Players: []Player{{ID: 1}}},
				wantErr: ErrInvalidPlayerCount,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				fresh, err := NewEngine()
				require.NoError(t, err)

				assert.ErrorIs(t, fresh.SetState(tt.state), tt.wantErr)
				assert.Equal(t, PhaseSetup, fresh.GetPhase())
				assert.Empty(t, fresh.GetPlayers())
				assert.NotPanics(t, func() { fresh.RollDice() })
			})
		}
	})

	t.Run("restores a saved game", func(t *testing.T) {
		saved := &GameState{
			Phase:              PhasePlaying,
			Players:            []Player{{ID: 1, Name: "A", Position: 3}, {ID: 2, Name: "B", Position: 1}},
			CurrentPlayerIndex: 1,
			ActiveMap:          createTestMap(t, 10, nil),
			Rolls:              3,
		}
		require.NoError(t, e.SetState(saved))

		saved.Players[0].Position = 9
		assert.Equal(t, 3, e.GetPlayers()[0].Position)
		assert.True(t, e.IsPlaying())
		assert.Equal(t, "B", e.CurrentPlayer().Name)
	})
}

func TestEngine_FinishedPlayers(t *testing.T) {
	e := createTestEngine(t, dice(t, 6, 2), 2, createTestMap(t, 5, nil))

	assert.Empty(t, e.FinishedPlayers())

	ev := e.RollDice()
	require.NotNil(t, ev)
	assert.Equal(t, EventFinish, ev.Kind)
	assert.Equal(t, "恭喜 玩家 1 到达终点！", ev.Text)

	e.RollDice()

	finished := e.FinishedPlayers()
	require.Len(t, finished, 1)
	assert.Equal(t, 1, finished[0].ID)
	assert.Equal(t, PhasePlaying, e.GetPhase())
}

func TestEngine_ClearLastEventAndReset(t *testing.T) {
	e := createTestEngine(t, dice(t, 2), 3, createTestMap(t, 10, nil))

	require.NotNil(t, e.RollDice())
	require.NotNil(t, e.GetState().LastEvent)

	e.ClearLastEvent()
	assert.Nil(t, e.GetState().LastEvent)
	assert.Equal(t, 2, e.GetPlayers()[0].Position)

	state := e.Reset()
	assert.Equal(t, PhaseSetup, state.Phase)
	assert.Empty(t, state.Players)
	assert.Nil(t, state.ActiveMap)
	assert.Equal(t, 0, state.CurrentPlayerIndex)
	assert.False(t, e.IsPlaying())
}

func TestEngine_CustomMessages(t *testing.T) {
	msgs := Messages{
		Arrived: "%s made it",
		Reward:  "+%d",
		Penalty: "-%d",
		Safe:    "quiet",
		Moved:   "moved %d",
	}
	e, err := NewEngine(WithRand(dice(t, 3)), WithMessages(msgs))
	require.NoError(t, err)
	require.NoError(t, e.SetPlayers(2, []string{"Ann", "Bob"}))
	require.NoError(t, e.StartGame(createTestMap(t, 4, nil)))

	ev := e.RollDice()
	require.NotNil(t, ev)
	assert.Equal(t, "Ann made it", ev.Text)
}
