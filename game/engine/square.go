package engine

import "fmt"

// NewSquare validates a raw record and returns a well-formed square.
// Text is kept only for start, finish and normal squares, Value only for
// reward and penalty squares.
func NewSquare(raw RawSquare) (Square, error) {
	kind := SquareKind(raw.Type)
	switch kind {
	case Start, Finish, Normal:
		sq := Square{Kind: kind}
		if raw.Text != nil {
			sq.Text = *raw.Text
		}
		return sq, nil

	case Reward, Penalty:
		if raw.Value == nil {
			return Square{}, fmt.Errorf("%w: %s square requires a value", ErrInvalidSquare, kind)
		}
		if *raw.Value < MinEffectValue {
			return Square{}, fmt.Errorf("%w: %s value must be at least %d, got %d", ErrInvalidSquare, kind, MinEffectValue, *raw.Value)
		}
		return Square{Kind: kind, Value: *raw.Value}, nil

	default:
		return Square{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidSquare, raw.Type)
	}
}

// Raw converts the square back into an edit-buffer record
func (s Square) Raw() RawSquare {
	raw := RawSquare{Type: string(s.Kind)}
	switch s.Kind {
	case Reward, Penalty:
		v := s.Value
		raw.Value = &v
	default:
		t := s.Text
		raw.Text = &t
	}
	return raw
}

// IsSpecial reports whether the square is a reward or penalty square
func (s Square) IsSpecial() bool {
	return s.Kind == Reward || s.Kind == Penalty
}

// effectValue is the step delta of a special square; values below the
// minimum only reach the engine through hand-edited saves and count as 1.
func (s Square) effectValue() int {
	if s.Value < MinEffectValue {
		return MinEffectValue
	}
	return s.Value
}
