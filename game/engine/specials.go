package engine

import "fmt"

// RandomizeSpecials returns a copy of m with rewards reward squares and
// penalties penalty squares placed on distinct interior cells.
//
// Every interior square is first reset to normal, keeping any text it had.
// The interior indices are then shuffled (Fisher-Yates) and popped from the
// tail: first the rewards, then the penalties, each with an independent
// value in [1, DiceFaces].
func RandomizeSpecials(m *Map, rewards, penalties int, rng Rand) (*Map, error) {
	if m == nil {
		return nil, ErrNoMapSelected
	}
	if rewards < 0 || penalties < 0 {
		return nil, fmt.Errorf("%w: counts must not be negative (rewards=%d, penalties=%d)",
			ErrCapacityExceeded, rewards, penalties)
	}

	out := m.Clone()
	available := out.interiorIndices()
	for _, idx := range available {
		out.Grid[idx] = Square{Kind: Normal, Text: out.Grid[idx].Text}
	}

	if rewards+penalties > len(available) {
		return nil, fmt.Errorf("%w: requested %d, only %d interior squares",
			ErrCapacityExceeded, rewards+penalties, len(available))
	}

	shuffle(available, rng)

	pop := func() int {
		idx := available[len(available)-1]
		available = available[:len(available)-1]
		return idx
	}

	for i := 0; i < rewards; i++ {
		out.Grid[pop()] = Square{Kind: Reward, Value: RollDie(rng)}
	}
	for i := 0; i < penalties; i++ {
		out.Grid[pop()] = Square{Kind: Penalty, Value: RollDie(rng)}
	}

	return out, nil
}

// shuffle permutes s uniformly in place
func shuffle(s []int, rng Rand) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
