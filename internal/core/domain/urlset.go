// internal/core/domain/urlset.go
package domain

import (
	"sort"
	"sync"
)

// URLSet es un conjunto de URLs vivas. El orden de inserción no importa; la
// única vista ordenada es Sorted. Es seguro para uso concurrente, así el
// agregador puede usarlo como único punto de deduplicación.
type URLSet struct {
	mu   sync.RWMutex
	urls map[string]struct{}
}

// NewURLSet crea un conjunto con las URLs dadas.
func NewURLSet(urls ...string) *URLSet {
	s := &URLSet{urls: make(map[string]struct{}, len(urls))}
	for _, u := range urls {
		s.add(u)
	}
	return s
}

// Add inserta una URL; devuelve true si era nueva. Las cadenas vacías se ignoran.
func (s *URLSet) Add(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(url)
}

func (s *URLSet) add(url string) bool {
	if url == "" {
		return false
	}
	if s.urls == nil {
		s.urls = make(map[string]struct{})
	}
	if _, ok := s.urls[url]; ok {
		return false
	}
	s.urls[url] = struct{}{}
	return true
}

// Merge añade todas las URLs de other y devuelve cuántas eran nuevas.
func (s *URLSet) Merge(other *URLSet) int {
	if other == nil || other == s {
		return 0
	}
	incoming := other.Slice()

	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, u := range incoming {
		if s.add(u) {
			added++
		}
	}
	return added
}

// Len número de URLs únicas.
func (s *URLSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.urls)
}

// Slice devuelve las URLs sin orden garantizado.
func (s *URLSet) Slice() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.urls))
	for u := range s.urls {
		out = append(out, u)
	}
	return out
}

// Sorted devuelve las URLs en orden lexicográfico.
func (s *URLSet) Sorted() []string {
	out := s.Slice()
	sort.Strings(out)
	return out
}
