package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMap(t *testing.T) {
	m := DefaultMap()

	require.NoError(t, m.Validate())
	assert.Equal(t, "经典60格地图", m.Name)
	assert.Equal(t, 60, m.TotalSquares)
	assert.Equal(t, 58, CountKind(m.Grid, Normal))
	assert.NotEqual(t, m.ID, DefaultMap().ID)
}

func TestDefaultLibrary(t *testing.T) {
	lib := DefaultLibrary()

	require.NoError(t, lib.Validate())
	assert.Equal(t, "趣味冷笑话", lib.Name)
	assert.Len(t, lib.Options, 3)
}

func TestMessagesValidate(t *testing.T) {
	require.NoError(t, DefaultMessages().Validate())

	tests := []struct {
		name   string
		mutate func(m *Messages)
	}{
		{"missing arrived", func(m *Messages) { m.Arrived = "" }},
		{"arrived without name", func(m *Messages) { m.Arrived = "done" }},
		{"reward without steps", func(m *Messages) { m.Reward = "bonus" }},
		{"penalty without steps", func(m *Messages) { m.Penalty = "ouch" }},
		{"missing safe", func(m *Messages) { m.Safe = "" }},
		{"moved without dice", func(m *Messages) { m.Moved = "moved" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := DefaultMessages()
			tt.mutate(&msgs)
			assert.Error(t, msgs.Validate())
		})
	}
}

func TestBoardRows(t *testing.T) {
	rows := BoardRows(25, 10)

	require.Len(t, rows, 3)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, rows[0])
	assert.Equal(t, []int{19, 18, 17, 16, 15, 14, 13, 12, 11, 10}, rows[1])
	assert.Equal(t, []int{20, 21, 22, 23, 24}, rows[2])

	assert.Len(t, BoardRows(5, 0), 1)
	assert.Empty(t, BoardRows(0, 10))
}

func TestFinishedPlayersHelper(t *testing.T) {
	assert.Nil(t, FinishedPlayers(nil))

	state := playingState(createTestMap(t, 6, nil), 5, 2, 5)
	finished := FinishedPlayers(&state)

	require.Len(t, finished, 2)
	assert.Equal(t, 1, finished[0].ID)
	assert.Equal(t, 3, finished[1].ID)
}
