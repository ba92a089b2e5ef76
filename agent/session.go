package agent

import (
	"halma/game"
	"halma/meta"
)

// Session is the memory an agent keeps between requests of one run.
// It is not safe for concurrent use; Agent serialises access.
type Session struct {
	shapes   map[string]game.Shape
	history  []game.StateHash // ring of own-layout fingerprints
	next     int
	filled   bool
	lastMove *game.Move
}

func NewSession(historySize int) *Session {
	if historySize <= 0 {
		historySize = meta.HISTORY_SIZE
	}
	return &Session{
		shapes:  make(map[string]game.Shape),
		history: make([]game.StateHash, historySize),
	}
}

// Shape resolves env once and caches the answer. Resets keep the cache.
func (s *Session) Shape(env string) (game.Shape, error) {
	if shape, ok := s.shapes[env]; ok {
		return shape, nil
	}
	e, err := game.LookupEnv(env)
	if err != nil {
		return 0, err
	}
	s.shapes[env] = e.Shape
	return e.Shape, nil
}

// Reset forgets the previous game.
func (s *Session) Reset() {
	clear(s.history)
	s.next = 0
	s.filled = false
	s.lastMove = nil
}

// Remember records a fingerprint, evicting the oldest once the ring is full.
func (s *Session) Remember(fp game.StateHash) {
	s.history[s.next] = fp
	s.next = (s.next + 1) % len(s.history)
	if s.next == 0 {
		s.filled = true
	}
}

// Seen reports whether fp is among the remembered fingerprints.
func (s *Session) Seen(fp game.StateHash) bool {
	n := s.next
	if s.filled {
		n = len(s.history)
	}
	for _, h := range s.history[:n] {
		if h == fp {
			return true
		}
	}
	return false
}

// Undoes reports whether m moves the last played peg straight back.
func (s *Session) Undoes(m game.Move) bool {
	return s.lastMove != nil && m.From == s.lastMove.To && m.To == s.lastMove.From
}

func (s *Session) Played(m game.Move) {
	s.lastMove = &m
}

// Len is the number of remembered fingerprints.
func (s *Session) Len() int {
	if s.filled {
		return len(s.history)
	}
	return s.next
}
