package systems

import (
	"math"
	"testing"
)

func TestSenseCornerCell(t *testing.T) {
	f := NewField(10, 10)
	f.Set(0, 0, 0.5)
	f.Set(9, 0, 0.25)

	p := DefaultParams()
	p.SensorSize = 0

	p.SensorLength = 0
	if got := Sense(f, Position{X: 0, Y: 0}, 0, 0, &p); got != 0.5 {
		t.Errorf("expected corner value 0.5, got %v", got)
	}

	p.SensorLength = 5
	if got := Sense(f, Position{X: 4, Y: 0}, 0, 0, &p); got != 0.25 {
		t.Errorf("expected probe to land on (9,0) with 0.25, got %v", got)
	}
}

func TestSenseOneUnitOutside(t *testing.T) {
	f := NewField(10, 10)
	f.Fill(1)

	p := DefaultParams()
	p.SensorSize = 0
	p.SensorLength = 1

	tests := []struct {
		name    string
		pos     Position
		heading float32
	}{
		{"right", Position{X: 9, Y: 5}, 0},
		{"left", Position{X: 0, Y: 5}, math.Pi},
		{"top", Position{X: 5, Y: 0}, math.Pi / 2},
		{"bottom", Position{X: 5, Y: 9.5}, -math.Pi / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sense(f, tt.pos, tt.heading, 0, &p); got != 0 {
				t.Errorf("expected 0 one unit outside, got %v", got)
			}
		})
	}
}

func TestSenseNeighbourhood(t *testing.T) {
	f := NewField(10, 10)
	f.Fill(1)

	p := DefaultParams()
	p.SensorLength = 0
	p.SensorSize = 2

	if got := Sense(f, Position{X: 5, Y: 5}, 0, 0, &p); got != 25 {
		t.Errorf("expected 5x5 sum 25, got %v", got)
	}
	if got := Sense(f, Position{X: 1, Y: 5}, 0, 0, &p); got != 0 {
		t.Errorf("expected short-circuit 0 near the edge, got %v", got)
	}
}

func TestSenseAllProbeDirections(t *testing.T) {
	f := NewField(10, 10)
	f.Set(7, 5, 0.1) // forward
	f.Set(5, 3, 0.4) // left (screen up)
	f.Set(5, 7, 0.8) // right (screen down)

	p := DefaultParams()
	p.SensorSize = 0
	p.SensorLength = 2
	p.SensorAngle = math.Pi / 2

	a := Agent{Pos: Position{X: 5, Y: 5}, Heading: 0}
	r := SenseAll(f, &a, &p)

	if r.Forward != 0.1 {
		t.Errorf("expected forward 0.1, got %v", r.Forward)
	}
	if r.Left != 0.4 {
		t.Errorf("expected left 0.4, got %v", r.Left)
	}
	if r.Right != 0.8 {
		t.Errorf("expected right 0.8, got %v", r.Right)
	}
}
