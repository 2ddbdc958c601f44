// Package demo contains the example apps served by the vela CLI and the
// registry that looks them up by name.
package demo

import (
	"cmp"
	"net/http"
	"slices"
	"time"

	"github.com/vango-dev/vela/pkg/app"
	"github.com/vango-dev/vela/pkg/surface"
)

// Demo is a named app with a script for headless runs.
type Demo struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	Factory app.Factory `json:"-"`
	Script  []Step      `json:"-"`
}

// Step is one scripted interaction. The event is fired on the first node
// carrying data-action=Action, after waiting Wait. A non-empty Navigate is
// reported as a browser location change instead. A step with neither only
// waits.
type Step struct {
	Label    string
	Action   string
	Event    surface.Event
	Navigate string
	Wait     time.Duration
}

// Env is what demos may depend on from their host.
type Env struct {
	// BaseURL is the server's own URL, for demos that call its API.
	// Empty when running headless.
	BaseURL string

	// Client is used for API calls. Nil means the fetch default.
	Client *http.Client

	// Tick is the clock demo's update interval.
	Tick time.Duration
}

// Registry maps demo names to demos.
type Registry struct {
	demos map[string]Demo
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{demos: make(map[string]Demo)}
}

// Default returns a registry with every built-in demo.
func Default(env Env) *Registry {
	if env.Tick <= 0 {
		env.Tick = time.Second
	}
	r := NewRegistry()
	r.Register(Counter())
	r.Register(Todo())
	r.Register(Clock(env))
	r.Register(Catalog(env))
	return r
}

// Register adds d, replacing any demo with the same name.
func (r *Registry) Register(d Demo) {
	r.demos[d.Name] = d
}

// Lookup returns the demo called name.
func (r *Registry) Lookup(name string) (Demo, bool) {
	d, ok := r.demos[name]
	return d, ok
}

// All returns every demo sorted by name.
func (r *Registry) All() []Demo {
	out := make([]Demo, 0, len(r.demos))
	for _, d := range r.demos {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b Demo) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// Names returns the sorted demo names.
func (r *Registry) Names() []string {
	all := r.All()
	names := make([]string, len(all))
	for i, d := range all {
		names[i] = d.Name
	}
	return names
}

func click(label, action string) Step {
	return Step{Label: label, Action: action, Event: surface.Event{Type: "click"}}
}
