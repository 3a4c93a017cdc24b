package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Messages holds the event texts produced by a dice roll
type Messages struct {
	Arrived string `json:"arrived"` // %s player name
	Reward  string `json:"reward"`  // %d steps
	Penalty string `json:"penalty"` // %d steps
	Safe    string `json:"safe"`
	Moved   string `json:"moved"` // %d dice
}

// DefaultMessages returns the built-in event texts
func DefaultMessages() Messages {
	return Messages{
		Arrived: "恭喜 %s 到达终点！",
		Reward:  "奖励！前进 %d 步！",
		Penalty: "惩罚！后退 %d 步！",
		Safe:    "安全。",
		Moved:   "前进了 %d 步。",
	}
}

// Validate checks that every message is present and carries its format verb
func (m Messages) Validate() error {
	checks := []struct {
		name, value, verb string
	}{
		{"arrived", m.Arrived, "%s"},
		{"reward", m.Reward, "%d"},
		{"penalty", m.Penalty, "%d"},
		{"safe", m.Safe, ""},
		{"moved", m.Moved, "%d"},
	}
	for _, c := range checks {
		if c.value == "" {
			return fmt.Errorf("messages validation: %s is required", c.name)
		}
		if c.verb != "" && !strings.Contains(c.value, c.verb) {
			return fmt.Errorf("messages validation: %s must contain %s", c.name, c.verb)
		}
	}
	return nil
}

// DefaultMap returns the classic 60 square map seeded into an empty catalog
func DefaultMap() *Map {
	m, err := BuildMap(MapEdit{
		ID:           uuid.NewString(),
		Name:         "经典60格地图",
		TotalSquares: 60,
	})
	if err != nil {
		panic(fmt.Sprintf("default map: %v", err))
	}
	return m
}

// DefaultLibrary returns the options library seeded into an empty catalog
func DefaultLibrary() *OptionsLibrary {
	return &OptionsLibrary{
		ID:   uuid.NewString(),
		Name: "趣味冷笑话",
		Options: []string{
			"为什么程序员喜欢在黑暗模式下工作？因为光会产生bug（光虫）。",
			"一个SQL查询走进一家酒吧，径直走向两张桌子，然后问道：‘我可以加入你们吗？’",
			"“!false” 这句话是真的。",
		},
	}
}
