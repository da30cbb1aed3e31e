package navigation

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
)

var (
	ErrUnknownRoute   = errors.New("unknown route")
	ErrDuplicateRoute = errors.New("route already registered")
)

// Destination is a screen reachable through a route pattern. Destinations
// that name the same Scope share one Scope instance.
type Destination struct {
	Route  string `json:"route"`
	Screen string `json:"screen"`
	Scope  string `json:"scope,omitempty"`
}

// Scope is state shared by every destination registered under the same name.
type Scope struct {
	Name string

	mu     sync.RWMutex
	values map[string]interface{}
}

func (s *Scope) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Scope) Set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

type Match struct {
	Destination Destination       `json:"destination"`
	Path        string            `json:"path"`
	Args        map[string]string `json:"args"`
	Scope       *Scope            `json:"-"`
}

// IntArg parses a numeric argument; ok is false when the argument is absent.
func (m *Match) IntArg(name string) (int, bool, error) {
	raw, ok := m.Args[name]
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, true, fmt.Errorf("argument %s: %w", name, err)
	}
	return n, true, nil
}

type entry struct {
	dest    Destination
	pattern pattern
}

type Graph struct {
	start string

	mu      sync.Mutex
	entries []entry
	byRoute map[string]int
	scopes  map[string]*Scope
}

func NewGraph(start string) *Graph {
	return &Graph{
		start:   start,
		byRoute: make(map[string]int),
		scopes:  make(map[string]*Scope),
	}
}

func (g *Graph) Register(dest Destination) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if dest.Route == "" || dest.Screen == "" {
		return fmt.Errorf("destination needs a route and a screen")
	}
	if _, exists := g.byRoute[dest.Route]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRoute, dest.Route)
	}

	g.byRoute[dest.Route] = len(g.entries)
	g.entries = append(g.entries, entry{dest: dest, pattern: parsePattern(dest.Route)})
	return nil
}

func (g *Graph) StartDestination() string {
	return g.start
}

// Routes lists registered patterns alphabetically.
func (g *Graph) Routes() []Destination {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]Destination, len(g.entries))
	for i, e := range g.entries {
		out[i] = e.dest
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Route < out[j].Route })
	return out
}

// Resolve maps a concrete route such as "word_detail/42" or
// "changelog?versionCode=12" to its destination. An empty route resolves to
// the start destination.
func (g *Graph) Resolve(route string) (*Match, error) {
	route = strings.TrimPrefix(strings.TrimSpace(route), "/")
	if route == "" {
		route = g.start
	}

	path, rawQuery, _ := strings.Cut(route, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRoute, route)
	}
	segments := strings.Split(path, "/")

	g.mu.Lock()
	defer g.mu.Unlock()

	for _, e := range g.entries {
		args, ok := e.pattern.match(segments)
		if !ok {
			continue
		}
		for _, name := range e.pattern.queryArgs {
			if value := query.Get(name); value != "" {
				args[name] = value
			}
		}

		m := &Match{Destination: e.dest, Path: path, Args: args}
		if e.dest.Scope != "" {
			m.Scope = g.scopeLocked(e.dest.Scope)
		}
		return m, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownRoute, route)
}

func (g *Graph) scopeLocked(name string) *Scope {
	if s, ok := g.scopes[name]; ok {
		return s
	}
	s := &Scope{Name: name, values: make(map[string]interface{})}
	g.scopes[name] = s
	return s
}
