package hb

import "github.com/boxesandglue/textshape/ot"

// Direction is a text flow direction. The values are those of the engine,
// which follow hb_direction_t.
type Direction int

const (
	DirectionInvalid = Direction(ot.DirectionInvalid)
	DirectionLTR     = Direction(ot.DirectionLTR)
	DirectionRTL     = Direction(ot.DirectionRTL)
	DirectionTTB     = Direction(ot.DirectionTTB)
	DirectionBTT     = Direction(ot.DirectionBTT)
)

// ParseDirection matches the first letter of s, case-insensitively, against
// "ltr", "rtl", "ttb" and "btt".
// HarfBuzz equivalent: hb_direction_from_string()
func ParseDirection(s string) Direction {
	if s == "" {
		return DirectionInvalid
	}
	switch s[0] | 0x20 {
	case 'l':
		return DirectionLTR
	case 'r':
		return DirectionRTL
	case 't':
		return DirectionTTB
	case 'b':
		return DirectionBTT
	}
	return DirectionInvalid
}

func (d Direction) String() string {
	switch d {
	case DirectionLTR:
		return "ltr"
	case DirectionRTL:
		return "rtl"
	case DirectionTTB:
		return "ttb"
	case DirectionBTT:
		return "btt"
	}
	return "invalid"
}

func (d Direction) IsValid() bool      { return ot.Direction(d).IsValid() }
func (d Direction) IsHorizontal() bool { return ot.Direction(d).IsHorizontal() }
func (d Direction) IsVertical() bool   { return ot.Direction(d).IsVertical() }
func (d Direction) IsForward() bool    { return ot.Direction(d).IsForward() }
func (d Direction) IsBackward() bool   { return ot.Direction(d).IsBackward() }

// Reverse returns the opposite direction on the same axis.
func (d Direction) Reverse() Direction {
	if !d.IsValid() {
		return d
	}
	return Direction(ot.Direction(d).Reverse())
}
