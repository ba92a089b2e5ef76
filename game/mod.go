package game

import "fmt"

// Player identifies one of the three corners racing across the board.
type Player uint8

const (
	A Player = iota
	B
	C
)

// Players lists every seat in turn order.
var Players = [3]Player{A, B, C}

func (p Player) String() string {
	switch p {
	case A:
		return "A"
	case B:
		return "B"
	case C:
		return "C"
	default:
		return fmt.Sprintf("Player(%d)", uint8(p))
	}
}

// Next returns the player moving after p.
func (p Player) Next() Player {
	return (p + 1) % 3
}

// Opponents returns the two other players in the order they move after p.
func (p Player) Opponents() [2]Player {
	return [2]Player{p.Next(), p.Next().Next()}
}

// ParsePlayer maps "A", "B" or "C" to its Player.
func ParsePlayer(name string) (Player, bool) {
	switch name {
	case "A":
		return A, true
	case "B":
		return B, true
	case "C":
		return C, true
	}
	return 0, false
}

type StateHash uint64
