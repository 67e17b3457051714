package systems

import "math"

// Sense samples the field at the probe offset angleOffset from heading,
// SensorLength cells away. The probe sums a (2*SensorSize+1)² square; a probe
// that touches the outside of the field reads 0.
func Sense(f *Field, pos Position, heading, angleOffset float32, p *Params) float32 {
	sin, cos := math.Sincos(float64(heading + angleOffset))
	px := pos.X + p.SensorLength*float32(cos)
	py := pos.Y + p.SensorLength*float32(-sin)
	return f.SampleSquare(px, py, p.SensorSize)
}

// SensorReadings holds the three probes of one agent.
type SensorReadings struct {
	Forward, Left, Right float32
}

// SenseAll reads the forward, left (+SensorAngle) and right (-SensorAngle) probes.
func SenseAll(f *Field, a *Agent, p *Params) SensorReadings {
	return SensorReadings{
		Forward: Sense(f, a.Pos, a.Heading, 0, p),
		Left:    Sense(f, a.Pos, a.Heading, p.SensorAngle, p),
		Right:   Sense(f, a.Pos, a.Heading, -p.SensorAngle, p),
	}
}
