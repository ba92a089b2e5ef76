package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Engine   string
	Duration time.Duration
	Episodes int // MCTS iterations
	Branches int // evaluated candidate lines
	Fallback bool
}

type MoveMetric struct {
	Step   int
	Player string
	Move   string
	Legal  bool
	SearchMetric
}

type GameMetric struct {
	Players    int
	Winner     string // empty when nobody finished
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
	Truncated  bool // stopped at the turn limit
}

type Collector interface {
	Start(engine string)
	AddEpisode()
	AddBranch()
	SetFallback(value bool)
	Complete() SearchMetric
}

type collector struct {
	engine    string
	startTime time.Time
	episodes  atomic.Int32
	branches  atomic.Int32
	fallback  atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(engine string) {
	m.engine = engine
	m.startTime = time.Now()
	m.episodes.Store(0)
	m.branches.Store(0)
	m.fallback.Store(false)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddBranch() {
	m.branches.Add(1)
}

func (m *collector) SetFallback(value bool) {
	m.fallback.Store(value)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Engine:   m.engine,
		Duration: time.Since(m.startTime),
		Episodes: int(m.episodes.Load()),
		Branches: int(m.branches.Load()),
		Fallback: m.fallback.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(engine string)    {}
func (m *dummyCollector) AddEpisode()            {}
func (m *dummyCollector) AddBranch()             {}
func (m *dummyCollector) SetFallback(value bool) {}
func (m *dummyCollector) Complete() SearchMetric { return SearchMetric{} }
