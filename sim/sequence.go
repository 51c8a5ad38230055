package sim

import "time"

// Sequence mints tickets from simulated time at millisecond resolution.
// A value that would not increase is bumped to last+1, so tickets stay
// unique and strictly increasing within a run.
type Sequence struct {
	last int64
}

func (s *Sequence) Next(at time.Time) int64 {
	v := at.UnixMilli()
	if v <= s.last {
		v = s.last + 1
	}
	s.last = v
	return v
}

// Observe moves the sequence past an already issued ticket.
func (s *Sequence) Observe(ticket int64) {
	if ticket > s.last {
		s.last = ticket
	}
}
