package tui

import (
	"fmt"

	"github.com/strrl/tiking/pkg/models"
)

// picker is a minute-granularity duration selector over [min, max] in steps
type picker struct {
	phase models.Phase
	min   int
	max   int
	step  int
	value int
}

func newFocusPicker(current int) picker {
	p := picker{phase: models.PhaseFocus, min: 5, max: 60, step: 5}
	p.value = p.snap(current, models.DefaultFocusMinutes)
	return p
}

// newBreakPicker shows a saved break that is not one of the offered values as 5
func newBreakPicker(current int) picker {
	p := picker{phase: models.PhaseBreak, min: 5, max: 30, step: 5}
	p.value = p.snap(current, models.DefaultBreakMinutes)
	return p
}

func (p picker) snap(current, fallback int) int {
	if current < p.min || current > p.max || (current-p.min)%p.step != 0 {
		return fallback
	}
	return current
}

// shift moves by n steps, clamped to the range. It reports whether the
// value changed.
func (p *picker) shift(n int) bool {
	next := p.value + n*p.step
	if next < p.min {
		next = p.min
	}
	if next > p.max {
		next = p.max
	}
	if next == p.value {
		return false
	}
	p.value = next
	return true
}

func (p picker) label() string {
	if p.phase == models.PhaseBreak {
		return "Break"
	}
	return "Focus"
}

func (p picker) valueText() string {
	left, right := "◀", "▶"
	if p.value == p.min {
		left = " "
	}
	if p.value == p.max {
		right = " "
	}
	return fmt.Sprintf("%s %2d min %s", left, p.value, right)
}
