package state

// CheckSet is a set of checked item identities.
type CheckSet map[string]struct{}

// Has reports whether id is checked.
func (s CheckSet) Has(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s[id]
	return ok
}

// Set checks or unchecks id and reports whether membership changed.
func (s CheckSet) Set(id string, checked bool) bool {
	_, ok := s[id]
	if checked == ok {
		return false
	}
	if checked {
		s[id] = struct{}{}
	} else {
		delete(s, id)
	}
	return true
}

// Toggle flips membership of id.
func (s CheckSet) Toggle(id string) {
	if _, ok := s[id]; ok {
		delete(s, id)
		return
	}
	s[id] = struct{}{}
}

// Clear removes every entry and reports whether anything was removed.
func (s CheckSet) Clear() bool {
	if len(s) == 0 {
		return false
	}
	for id := range s {
		delete(s, id)
	}
	return true
}

// Retain drops identities for which keep returns false.
func (s CheckSet) Retain(keep func(id string) bool) bool {
	changed := false
	for id := range s {
		if !keep(id) {
			delete(s, id)
			changed = true
		}
	}
	return changed
}
