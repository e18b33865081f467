package ink

import "math"

// GenerateTestStroke synthesizes a finished, smooth sinusoidal stroke with n
// points. It is used by benchmarks, the demo command, and the codec tests as
// a stand-in for real pen input: smooth motion with slowly varying pressure,
// which is the case the delta-delta serializer is tuned for.
func GenerateTestStroke(n int) *Stroke {
	if n < 1 {
		n = 1
	}
	cfg := DefaultConfig()

	first := Point{
		X:        100,
		Y:        100,
		Pressure: 0.5,
		Time:     0,
	}
	s := newStroke(first, RGB(0.1, 0.2, 0.8), 4, false)
	s.grow(first.X, first.Y, s.BaseWidth*cfg.MaxWidthScale/2)

	for i := 1; i < n; i++ {
		fi := float64(i)
		p := Point{
			X:        100 + fi*2,
			Y:        100 + 40*math.Sin(fi*0.05),
			Pressure: 0.5 + 0.3*math.Sin(fi*0.02),
			Time:     fi * 8,
		}
		prev := s.Points[len(s.Points)-1]
		segDt := p.Time - prev.Time
		inst := prev.Dist(p) / math.Max(1, segDt)
		p.Velocity = lerp(prev.Velocity, inst, cfg.VelocitySmoothing)
		s.appendPoint(p)
		s.grow(p.X, p.Y, s.BaseWidth*cfg.MaxWidthScale/2)
	}

	s.seal(&cfg)
	return s
}
