package services

// idSet is a string set that remembers insertion order, so pipelines over it
// stay deterministic.
type idSet struct {
	order   []string
	present map[string]bool
}

func newIDSet(capacity int) *idSet {
	return &idSet{
		order:   make([]string, 0, capacity),
		present: make(map[string]bool, capacity),
	}
}

// Add inserts the id and reports whether it was new.
func (s *idSet) Add(id string) bool {
	if s.present[id] {
		return false
	}
	s.present[id] = true
	s.order = append(s.order, id)
	return true
}

func (s *idSet) Delete(id string) {
	if !s.present[id] {
		return
	}
	delete(s.present, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *idSet) Has(id string) bool {
	return s.present[id]
}

// Values returns the ids in insertion order. The caller owns the slice.
func (s *idSet) Values() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *idSet) Len() int {
	return len(s.order)
}
