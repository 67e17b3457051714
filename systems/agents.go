package systems

import "math"

// DefaultSpawnRadius is the maximum distance from the field centre at which
// agents are placed.
const DefaultSpawnRadius = 300

// Position is a point in field space.
type Position struct {
	X, Y float32
}

// Agent is one simulated organism. Heading is in radians and is never
// normalized; only its sine and cosine are used.
type Agent struct {
	Pos     Position
	Heading float32
}

// AgentStore owns the fixed agent population. Agents are addressed by index
// only and have no references to each other.
type AgentStore struct {
	Agents []Agent
}

// NewAgentStore allocates n zeroed agents.
func NewAgentStore(n int) *AgentStore {
	return &AgentStore{Agents: make([]Agent, n)}
}

// Len returns the population size.
func (s *AgentStore) Len() int { return len(s.Agents) }

// InitRange places agents [start, end) with SpawnAgent.
func (s *AgentStore) InitRange(seed uint64, w, h int, radius float32, start, end int) {
	for i := start; i < end; i++ {
		s.Agents[i] = SpawnAgent(seed, i, w, h, radius)
	}
}

// Init places every agent with SpawnAgent.
func (s *AgentStore) Init(seed uint64, w, h int, radius float32) {
	s.InitRange(seed, w, h, radius, 0, len(s.Agents))
}

// SpawnAgent returns the initial state of agent index. The agent sits at
// distance r (uniform in [0, radius)) from the field centre at angle θ
// (uniform in [-π, π)), with the y term negated because y grows downward on
// screen. It faces back toward the centre. Points that would land outside a
// small field are clamped onto it.
func SpawnAgent(seed uint64, index, w, h int, radius float32) Agent {
	src := agentStream(seed, index)
	r := unitFloat(src) * radius
	theta := (unitFloat(src) - 0.5) * 2 * math.Pi

	sin, cos := math.Sincos(float64(theta))
	x := float32(w)/2 + r*float32(cos)
	y := float32(h)/2 + r*float32(-sin)

	return Agent{
		Pos: Position{
			X: clampAxis(x, w),
			Y: clampAxis(y, h),
		},
		Heading: theta + math.Pi,
	}
}
