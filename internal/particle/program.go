package particle

// Assignment interpolates one record slot between two entries of the
// particle's sampled value buffer.
type Assignment struct {
	Slot     Slot
	From, To int // indexes into the sampled value buffer
}

// Interval is one compiled time window. All assignments in it share the same
// [From, To] offsets so percent is computed once per interval.
type Interval struct {
	From, To    float64
	Assignments []Assignment
}

// Program is the compiled per-definition update routine: intervals sorted by
// To ascending. It holds no per-particle state and is shared by every
// particle of a definition.
type Program struct {
	Intervals []Interval
}

// Run advances p by one frame.
//
// For each slot the first interval (in dispatch order) with percent <= To
// wins: below From it pins the From value, inside it interpolates linearly.
// Slots with no matching interval keep last frame's value. Motion is then
// integrated: velocity += gravity, position += velocity.
func (prog *Program) Run(p *Particle) {
	if len(prog.Intervals) > 0 {
		percent := p.Percent()
		values := p.values
		var done [slotCount]bool

		for i := range prog.Intervals {
			iv := &prog.Intervals[i]
			if percent > iv.To {
				continue
			}
			for _, a := range iv.Assignments {
				if done[a.Slot] {
					continue
				}
				done[a.Slot] = true

				from := values[a.From]
				if percent <= iv.From {
					p.Set(a.Slot, from)
					continue
				}
				to := values[a.To]
				p.Set(a.Slot, (percent-iv.From)/(iv.To-iv.From)*(to-from)+from)
			}
		}
	}

	p.integrate()
}

// Slots returns the distinct slots the program writes, in first-seen order.
func (prog *Program) Slots() []Slot {
	var seen [slotCount]bool
	var out []Slot
	for _, iv := range prog.Intervals {
		for _, a := range iv.Assignments {
			if !seen[a.Slot] {
				seen[a.Slot] = true
				out = append(out, a.Slot)
			}
		}
	}
	return out
}
