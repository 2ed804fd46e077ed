package scene

// System is anything advanced once per frame.
type System interface {
	Advance(dt, elapsed float64)
}

// SystemFunc adapts a plain function to System.
type SystemFunc func(dt, elapsed float64)

func (f SystemFunc) Advance(dt, elapsed float64) {
	f(dt, elapsed)
}

// Scheduler advances its systems in insertion order.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	copied := append([]System(nil), systems...)
	return &Scheduler{systems: copied}
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Update(dt, elapsed float64) {
	for _, system := range s.systems {
		system.Advance(dt, elapsed)
	}
}

// Reset drops every system.
func (s *Scheduler) Reset() {
	clear(s.systems)
	s.systems = s.systems[:0]
}

func (s *Scheduler) Len() int {
	return len(s.systems)
}
