// SPDX-License-Identifier: MIT
/*
Package deps gates hardware types on optional external dependencies.

Drivers that need a vendor library (a cgo binding, a shared object, a
runtime SDK) declare it in a file compiled only when the dependency is
present:

	//go:build portaudio

	func init() { deps.Provide("portaudio", probe) }

The package defining the hardware type always compiles. Its constructor
goes through a Guard, which evaluates the dependencies once and then either
lets construction proceed or fails with a *MissingDependencyError naming the
missing ones. Importing many drivers with heterogeneous dependencies is
therefore always safe; only instantiating an unavailable one fails.
*/
package deps

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"qkdhal/pkg/hal"
)

// ErrMissingDependency is matched by every *MissingDependencyError.
var ErrMissingDependency = errors.New("missing optional dependency")

// MissingDependencyError reports a guarded type whose dependencies are not
// available in the current build or environment.
type MissingDependencyError struct {
	Type     string   // Guarded type name.
	Required []string // Every dependency the type needs.
	Missing  []string // The ones that are unavailable.
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("%s requires the optional dependencies [%s] and [%s] is not available",
		e.Type, strings.Join(e.Required, ", "), strings.Join(e.Missing, ", "))
}

func (e *MissingDependencyError) Is(target error) bool { return target == ErrMissingDependency }

// Dependency describes the availability of one named dependency.
type Dependency struct {
	Name     string
	Provided bool  // A driver file declared it at build time.
	Disabled bool  // Forced off by configuration.
	ProbeErr error // Runtime probe failure, nil when usable.
}

// Available reports whether the dependency can be used.
func (d Dependency) Available() bool {
	return d.Provided && !d.Disabled && d.ProbeErr == nil
}

type provider struct {
	probe  func() error
	once   sync.Once
	result error
}

func (p *provider) check() error {
	p.once.Do(func() {
		if p.probe != nil {
			p.result = p.probe()
		}
	})
	return p.result
}

var (
	mu        sync.RWMutex
	providers = map[string]*provider{}
	disabled  = map[string]bool{}
)

// Provide declares dependency name as compiled in. probe, when not nil, is
// run at most once to confirm that the dependency works at runtime.
func Provide(name string, probe func() error) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := providers[name]; exists {
		panic(fmt.Sprintf("dependency %q already provided", name))
	}
	providers[name] = &provider{probe: probe}
}

// Disable forces the named dependencies to be reported unavailable. It only
// affects guards that have not been evaluated yet.
func Disable(names ...string) {
	mu.Lock()
	defer mu.Unlock()
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			disabled[n] = true
		}
	}
}

// Lookup returns the availability of a single dependency. Unknown names are
// reported as not provided.
func Lookup(name string) Dependency {
	mu.RLock()
	p, ok := providers[name]
	off := disabled[name]
	mu.RUnlock()

	d := Dependency{Name: name, Provided: ok, Disabled: off}
	if ok && !off {
		d.ProbeErr = p.check()
	}
	return d
}

// Available is shorthand for Lookup(name).Available().
func Available(name string) bool {
	return Lookup(name).Available()
}

// Status returns every provided or disabled dependency, plus the extra
// names given (typically the ones required by registered types), sorted by
// name.
func Status(extra ...string) []Dependency {
	names := map[string]bool{}
	mu.RLock()
	for n := range providers {
		names[n] = true
	}
	for n := range disabled {
		names[n] = true
	}
	mu.RUnlock()
	for _, n := range extra {
		names[n] = true
	}

	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	out := make([]Dependency, 0, len(sorted))
	for _, n := range sorted {
		out = append(out, Lookup(n))
	}
	return out
}

// Reset clears every provided and disabled dependency. Intended for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	providers = map[string]*provider{}
	disabled = map[string]bool{}
}

// Guard evaluates the dependencies of one hardware type.
type Guard struct {
	typeName string
	required []string

	once sync.Once
	err  error
}

// Need creates a guard for typeName requiring every dependency in names.
// Nothing is evaluated until the first Check.
func Need(typeName string, names ...string) *Guard {
	return &Guard{typeName: typeName, required: append([]string(nil), names...)}
}

// Required returns the dependency names of the guard.
func (g *Guard) Required() []string {
	return append([]string(nil), g.required...)
}

// Check returns nil when every dependency is available, or a
// *MissingDependencyError. The result is computed once and cached.
func (g *Guard) Check() error {
	g.once.Do(func() {
		var missing []string
		for _, n := range g.required {
			if !Available(n) {
				missing = append(missing, n)
			}
		}
		if len(missing) > 0 {
			g.err = &MissingDependencyError{
				Type:     g.typeName,
				Required: g.Required(),
				Missing:  missing,
			}
		}
	})
	return g.err
}

// Wrap returns a constructor that fails with the guard error when a
// dependency is missing and otherwise delegates to ctor unchanged.
func Wrap[T any](g *Guard, ctor func(hal.Spec) (T, error)) func(hal.Spec) (T, error) {
	return func(spec hal.Spec) (T, error) {
		if err := g.Check(); err != nil {
			var zero T
			return zero, err
		}
		return ctor(spec)
	}
}
