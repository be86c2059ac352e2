package mocktandoor

import (
	"sort"
	"strings"
	"sync"
)

// StoredRecipe is one record held by the in-memory store.
type StoredRecipe struct {
	ID        int
	Name      string
	SourceURL string
	Image     string
}

// Store holds the mock server's recipes. Safe for concurrent use; gin serves
// each request on its own goroutine.
type Store struct {
	mu      sync.Mutex
	nextID  int
	recipes map[int]StoredRecipe
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{nextID: 1, recipes: make(map[int]StoredRecipe)}
}

// Add inserts a recipe and returns its assigned ID.
func (s *Store) Add(name, sourceURL, image string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.recipes[id] = StoredRecipe{ID: id, Name: name, SourceURL: sourceURL, Image: image}
	return id
}

// Get returns the recipe with the given ID.
func (s *Store) Get(id int) (StoredRecipe, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recipes[id]
	return r, ok
}

// List returns all recipes in ID order, optionally narrowed to names
// containing query (case-insensitive), the way the real list search matches.
func (s *Store) List(query string) []StoredRecipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]StoredRecipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		if query != "" && !strings.Contains(strings.ToLower(r.Name), query) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FindByName returns recipes whose name matches exactly, ignoring case and
// surrounding whitespace. Backs the scrape endpoint's collision check.
func (s *Store) FindByName(name string) []StoredRecipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := strings.ToLower(strings.TrimSpace(name))
	var out []StoredRecipe
	for _, r := range s.recipes {
		if strings.ToLower(strings.TrimSpace(r.Name)) == want {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetImage points the recipe at an image URL.
func (s *Store) SetImage(id int, image string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recipes[id]
	if !ok {
		return false
	}
	r.Image = image
	s.recipes[id] = r
	return true
}

// Len reports how many recipes the store holds.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recipes)
}
