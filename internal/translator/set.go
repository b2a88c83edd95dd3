package translator

import "sort"

// Set is an immutable, name-keyed collection of providers. Iteration is
// always in name order so evidence collection is reproducible.
type Set struct {
	names    []string
	services map[string]TranslationService
}

// NewSet builds a set from services. A later service with the same name
// replaces an earlier one.
func NewSet(services ...TranslationService) *Set {
	s := &Set{services: make(map[string]TranslationService, len(services))}
	for _, svc := range services {
		if svc == nil {
			continue
		}
		s.services[svc.Name()] = svc
	}
	s.reindex()
	return s
}

func (s *Set) reindex() {
	s.names = s.names[:0]
	for name := range s.services {
		s.names = append(s.names, name)
	}
	sort.Strings(s.names)
}

// Len returns the number of providers. A nil set is empty.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns provider names in iteration order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.names...)
}

// Services returns providers in iteration order.
func (s *Set) Services() []TranslationService {
	if s == nil {
		return nil
	}
	out := make([]TranslationService, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.services[name])
	}
	return out
}

// Get looks up a provider by name.
func (s *Set) Get(name string) (TranslationService, bool) {
	if s == nil {
		return nil, false
	}
	svc, ok := s.services[name]
	return svc, ok
}

// With returns a copy of the set that also contains svc.
func (s *Set) With(svc TranslationService) *Set {
	return NewSet(append(s.Services(), svc)...)
}

// Without returns a copy of the set without the named provider.
func (s *Set) Without(name string) *Set {
	var kept []TranslationService
	for _, svc := range s.Services() {
		if svc.Name() != name {
			kept = append(kept, svc)
		}
	}
	return NewSet(kept...)
}
