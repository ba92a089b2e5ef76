package game

// LegalMoves returns every adjacent and jump move of p on the given shape.
// The result may contain duplicates; consumers rank moves rather than dedupe them.
func LegalMoves(s State, p Player, shape Shape) []Move {
	occ := s.Occupancy()
	moves := adjacentMoves(s, p, shape, occ)
	return append(moves, jumpMoves(s, p, shape, occ)...)
}

// AdjacentMoves returns p's single-step moves.
func AdjacentMoves(s State, p Player, shape Shape) []Move {
	return adjacentMoves(s, p, shape, s.Occupancy())
}

// JumpMoves returns p's jump moves over palindromic runs of occupied cells.
func JumpMoves(s State, p Player, shape Shape) []Move {
	return jumpMoves(s, p, shape, s.Occupancy())
}

// IsLegal reports whether m is among p's legal moves.
func IsLegal(s State, p Player, shape Shape, m Move) bool {
	for _, legal := range LegalMoves(s, p, shape) {
		if legal == m {
			return true
		}
	}
	return false
}

func canLand(occ map[Coord]Player, p Player, t Coord) bool {
	owner, taken := occ[t]
	if !taken {
		return true
	}
	return owner != p && InHome(p, t)
}

func adjacentMoves(s State, p Player, shape Shape, occ map[Coord]Player) []Move {
	var moves []Move
	for _, src := range s.pegs[p] {
		if src == Center {
			continue
		}
		for _, d := range Directions {
			t := src.Add(d)
			if t == Center || !IsValid(shape, t) {
				continue
			}
			if canLand(occ, p, t) {
				moves = append(moves, Move{From: src, To: t})
			}
		}
	}
	return moves
}

func jumpMoves(s State, p Player, shape Shape, occ map[Coord]Player) []Move {
	var moves []Move
	// owners[i] is the occupant of the i-th cell after src; noOwner marks an empty cell.
	owners := make([]int, 0, 4*N)
	const noOwner = -1

	for _, src := range s.pegs[p] {
		if src == Center {
			continue
		}
		for _, d := range Directions {
			owners = owners[:0]
			crossesCenter := false
			for k := 2; ; k++ {
				t := src.Add(d.Scale(k))
				if t == Center || !IsValid(shape, t) {
					break
				}
				between := src.Add(d.Scale(k - 1))
				if between == Center {
					crossesCenter = true
				}
				if owner, taken := occ[between]; taken {
					owners = append(owners, int(owner))
				} else {
					owners = append(owners, noOwner)
				}
				if crossesCenter {
					continue
				}
				if isJumpRun(owners, noOwner) && canLand(occ, p, t) {
					moves = append(moves, Move{From: src, To: t})
				}
			}
		}
	}
	return moves
}

// isJumpRun reports whether the span is not all empty and reads the same both ways.
func isJumpRun(owners []int, empty int) bool {
	occupied := false
	for i, j := 0, len(owners)-1; i <= j; i, j = i+1, j-1 {
		if owners[i] != owners[j] {
			return false
		}
		if owners[i] != empty {
			occupied = true
		}
	}
	return occupied
}
