package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/cosmosim/internal/dynamo"
)

var factories = map[string]func() dynamo.Integrator{
	"rk4":      func() dynamo.Integrator { return NewRK4() },
	"rk45":     func() dynamo.Integrator { return NewRK45() },
	"verlet":   func() dynamo.Integrator { return NewVerlet() },
	"leapfrog": func() dynamo.Integrator { return NewLeapfrog() },
}

// New returns a fresh integrator by name. Integrators keep scratch
// buffers, so each goroutine needs its own.
func New(name string) (dynamo.Integrator, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return f(), nil
}

func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
