package visualizer

import "github.com/charmbracelet/harmonica"

// springField eases one value per column toward a target, one frame per call.
type springField struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

func newSpringField(fps int, frequency, damping float64) springField {
	return springField{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

// follow advances every column one frame toward targets and returns the new
// positions. Columns that survive a width change keep their state.
func (s *springField) follow(targets []float64) []float64 {
	if n := len(targets); n != len(s.pos) {
		pos, vel := make([]float64, n), make([]float64, n)
		copy(pos, s.pos)
		copy(vel, s.vel)
		s.pos, s.vel = pos, vel
	}
	for i, target := range targets {
		s.pos[i], s.vel[i] = s.spring.Update(s.pos[i], s.vel[i], target)
	}
	return s.pos
}
