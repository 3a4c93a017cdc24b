package engine

// SquareKind represents the different kinds of board squares
type SquareKind string

const (
	Start   SquareKind = "start"
	Finish  SquareKind = "finish"
	Normal  SquareKind = "normal"
	Reward  SquareKind = "reward"
	Penalty SquareKind = "penalty"

	// Validation constants
	MinSquares     = 2
	MinPlayers     = 2
	MaxPlayers     = 4
	DiceFaces      = 6
	MinEffectValue = 1
)

// Default labels for the fixed squares
const (
	StartText  = "起点"
	FinishText = "终点"
)

// PlayerColors is the palette assigned to players by turn order.
// Its length bounds the number of players.
var PlayerColors = [MaxPlayers]string{"#ff4d4d", "#4d4dff", "#4dff4d", "#ffff4d"}

// Square represents a single board square
type Square struct {
	Kind  SquareKind `json:"type" yaml:"type"`
	Text  string     `json:"text,omitempty" yaml:"text,omitempty"`   // Start, Finish, Normal
	Value int        `json:"value,omitempty" yaml:"value,omitempty"` // Reward, Penalty
}

// RawSquare is an unvalidated square record as found in edit buffers and imports.
// Nil fields were absent in the source.
type RawSquare struct {
	Type  string  `json:"type" yaml:"type"`
	Text  *string `json:"text,omitempty" yaml:"text,omitempty"`
	Value *int    `json:"value,omitempty" yaml:"value,omitempty"`
}

// Map is a validated board: Start at index 0, Finish at the last index
type Map struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	TotalSquares int      `json:"totalSquares" yaml:"totalSquares"`
	Grid         []Square `json:"grid" yaml:"grid"`
}

// MapEdit is the partial edit buffer a map is built from
type MapEdit struct {
	ID           string      `json:"id,omitempty" yaml:"id,omitempty"`
	Name         string      `json:"name" yaml:"name"`
	TotalSquares int         `json:"totalSquares" yaml:"totalSquares"`
	Grid         []RawSquare `json:"grid" yaml:"grid"`
}

// OptionsLibrary is a named list of flavor texts for normal squares
type OptionsLibrary struct {
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Options []string `json:"options" yaml:"options"`
}

// Phase is the lifecycle phase of a game
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhasePlaying  Phase = "playing"
	PhaseFinished Phase = "finished"
)

// Player represents one participant; ID is 1-based and equals turn order
type Player struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Position int    `json:"position"`
}

// EventKind classifies the consequence of a dice roll
type EventKind string

const (
	EventFinish  EventKind = "finish"
	EventReward  EventKind = "reward"
	EventPenalty EventKind = "penalty"
	EventNormal  EventKind = "normal"
	EventMove    EventKind = "move"
)

// Event records the most recent dice roll and its consequence
type Event struct {
	PlayerID int       `json:"player_id"`
	Player   string    `json:"player"`
	Dice     int       `json:"dice"`
	Kind     EventKind `json:"kind"`
	From     int       `json:"from"`
	To       int       `json:"to"`
	Text     string    `json:"text"`
}

// GameState represents the complete state of one game
type GameState struct {
	Phase              Phase    `json:"phase"`
	Players            []Player `json:"players"`
	CurrentPlayerIndex int      `json:"current_player_index"`
	ActiveMap          *Map     `json:"active_map,omitempty"`
	LastEvent          *Event   `json:"last_event,omitempty"`

	// Rolls counts committed dice rolls since the game started
	Rolls int `json:"rolls"`
}
