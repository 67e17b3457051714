package systems

import "math"

// Steering outcome of one motion decision.
type Steer uint8

const (
	SteerForward Steer = iota
	SteerLeft
	SteerRight
	SteerRandom
)

// Decide picks the steering action for three sensor readings. Forward wins
// only when it is strictly greater than both sides, so an empty neighbourhood
// falls through to the random tie-break instead of freezing the agent.
func Decide(r SensorReadings) Steer {
	switch {
	case r.Forward > r.Left && r.Forward > r.Right:
		return SteerForward
	case r.Left > r.Right:
		return SteerLeft
	case r.Right > r.Left:
		return SteerRight
	default:
		return SteerRandom
	}
}

// tieBreakTurn returns a turn in [-turnSpeed, turnSpeed) that depends only on
// the agent index and the run seed.
func tieBreakTurn(seed uint32, index int, turnSpeed float32) float32 {
	return (hashUnit(seed, uint32(index)) - 0.5) * 2 * turnSpeed
}

// clampAxis pins v to [0, dim-1]. NaN pins to 0.
func clampAxis(v float32, dim int) float32 {
	if !(v >= 0) {
		return 0
	}
	if v > float32(dim-1) {
		return float32(dim - 1)
	}
	return v
}

// MoveAgent applies one frame of sensing, steering and advancing to a.
func MoveAgent(f *Field, a *Agent, index int, seed uint32, p *Params) {
	switch Decide(SenseAll(f, a, p)) {
	case SteerLeft:
		a.Heading += p.TurnSpeed
	case SteerRight:
		a.Heading -= p.TurnSpeed
	case SteerRandom:
		a.Heading += tieBreakTurn(seed, index, p.TurnSpeed)
	}

	sin, cos := math.Sincos(float64(a.Heading))
	a.Pos.X = clampAxis(a.Pos.X+p.AgentVelocity*float32(cos), f.W)
	a.Pos.Y = clampAxis(a.Pos.Y+p.AgentVelocity*float32(-sin), f.H)
}

// MoveAgents runs MoveAgent over agents [start, end). The field is only read.
func MoveAgents(f *Field, agents []Agent, start, end int, seed uint32, p *Params) {
	for i := start; i < end; i++ {
		MoveAgent(f, &agents[i], i, seed, p)
	}
}
