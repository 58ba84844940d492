// SPDX-License-Identifier: MIT
/*
Package registry keeps the table of capability contracts and of the
concrete hardware types implementing them.

Every category package registers its contract and its concrete types from
init(). The table is keyed by the import path of the declaring package, so a
namespace such as "qkdhal/pkg/hal" can be listed grouped by its
sub-packages ("adc", "dac", ...). Import pkg/hal/all to populate the table
with every built-in driver.
*/
package registry

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"qkdhal/pkg/hal"
)

// DefaultNamespace is the import path under which the built-in drivers live.
const DefaultNamespace = "qkdhal/pkg/hal"

// Contract describes one instrument capability.
type Contract struct {
	Category    hal.Category
	Description string

	// InterfaceType is the reflect.Type of the Go interface concrete types
	// must implement.
	InterfaceType reflect.Type
}

// Factory constructs a concrete instrument from its construction parameters.
type Factory func(spec hal.Spec) (hal.Hardware, error)

// FactoryOf adapts a typed constructor to a Factory. A failed construction
// yields a nil Hardware rather than a typed nil.
func FactoryOf[T hal.Hardware](ctor func(hal.Spec) (T, error)) Factory {
	return func(spec hal.Spec) (hal.Hardware, error) {
		hw, err := ctor(spec)
		if err != nil {
			return nil, err
		}
		return hw, nil
	}
}

// Entry is one concrete hardware type.
type Entry struct {
	Name     string       // Type name, e.g. "FakeADC". Defaults to Type.Name().
	Module   string       // Import path of the declaring package. Defaults to Type's package.
	Category hal.Category // Contract the type was registered for.
	Type     reflect.Type // Concrete type, usually a pointer type.
	Requires []string     // Optional dependencies, informational.
	Factory  Factory
}

// Ref returns the short reference "<package>.<Name>" used in configuration.
func (e Entry) Ref() string {
	return path(e.Module) + "." + e.Name
}

func path(module string) string {
	if i := strings.LastIndex(module, "/"); i >= 0 {
		return module[i+1:]
	}
	return module
}

var (
	mu        sync.RWMutex
	contracts = map[hal.Category]Contract{}
	entries   []Entry
)

// TypeOf returns the reflect.Type of T. Use it with interface types:
// registry.TypeOf[adc.ADC]().
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// RegisterContract adds a capability contract. Registering the same
// category twice with the same interface type is a no-op.
func RegisterContract(c Contract) error {
	if c.Category == "" {
		return fmt.Errorf("registry: contract category is required")
	}
	if c.InterfaceType == nil || c.InterfaceType.Kind() != reflect.Interface {
		return fmt.Errorf("registry: contract %q must have an interface type", c.Category)
	}

	mu.Lock()
	defer mu.Unlock()

	if existing, ok := contracts[c.Category]; ok {
		if existing.InterfaceType != c.InterfaceType {
			return fmt.Errorf("registry: contract %q already registered with interface %v, got %v",
				c.Category, existing.InterfaceType, c.InterfaceType)
		}
		return nil
	}
	contracts[c.Category] = c
	return nil
}

// MustRegisterContract is RegisterContract for use in init(); it panics on
// error.
func MustRegisterContract(c Contract) {
	if err := RegisterContract(c); err != nil {
		panic(err)
	}
}

// ContractFor returns the contract registered for a category.
func ContractFor(c hal.Category) (Contract, bool) {
	mu.RLock()
	defer mu.RUnlock()
	ct, ok := contracts[c]
	return ct, ok
}

// Register adds a concrete hardware type. It panics if the same name is
// already registered for the module, or if the type does not implement the
// contract of its category.
func Register(e Entry) {
	if e.Type == nil {
		panic("registry: entry type is required")
	}
	if e.Name == "" {
		e.Name = nameOf(e.Type)
	}
	if e.Module == "" {
		e.Module = elem(e.Type).PkgPath()
	}
	if e.Module == "" {
		panic(fmt.Sprintf("registry: entry %s has no module", e.Name))
	}

	mu.Lock()
	defer mu.Unlock()

	if c, ok := contracts[e.Category]; ok && !e.Type.Implements(c.InterfaceType) {
		panic(fmt.Sprintf("registry: %s does not implement %v", e.Name, c.InterfaceType))
	}
	for _, existing := range entries {
		if existing.Module == e.Module && existing.Name == e.Name {
			panic(fmt.Sprintf("registry: hardware %s already registered in %s", e.Name, e.Module))
		}
	}
	e.Requires = append([]string(nil), e.Requires...)
	entries = append(entries, e)
}

func elem(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func nameOf(t reflect.Type) string {
	return elem(t).Name()
}

// Entries returns a snapshot of every registered type in registration order.
func Entries() []Entry {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Lookup finds an entry by its short reference "<package>.<Name>" or by its
// fully qualified "<module>.<Name>".
func Lookup(ref string) (Entry, bool) {
	mu.RLock()
	defer mu.RUnlock()
	for _, e := range entries {
		if e.Ref() == ref || e.Module+"."+e.Name == ref {
			return e, true
		}
	}
	return Entry{}, false
}

// New constructs the hardware type named by ref.
func New(ref string, spec hal.Spec) (hal.Hardware, error) {
	e, ok := Lookup(ref)
	if !ok {
		return nil, fmt.Errorf("registry: unknown hardware %q", ref)
	}
	if e.Factory == nil {
		return nil, fmt.Errorf("registry: hardware %q has no factory", ref)
	}
	return e.Factory(spec)
}

// List returns, for every sub-namespace of namespace, the names of the
// registered types implementing contract, in registration order.
// Sub-namespaces without a qualifying type are omitted. An unknown namespace
// yields an empty map. A nil contract matches every type.
func List(namespace string, contract reflect.Type) map[string][]string {
	res := map[string][]string{}
	prefix := strings.TrimSuffix(namespace, "/") + "/"

	mu.RLock()
	defer mu.RUnlock()

	for _, e := range entries {
		if !strings.HasPrefix(e.Module, prefix) {
			continue
		}
		if contract != nil && (e.Type == contract || !e.Type.Implements(contract)) {
			continue
		}
		sub := strings.TrimPrefix(e.Module, prefix)
		if i := strings.Index(sub, "/"); i >= 0 {
			sub = sub[:i]
		}
		res[sub] = append(res[sub], e.Name)
	}
	return res
}

// ListCategory is List with the interface of a registered contract. An
// unregistered category yields an empty map.
func ListCategory(namespace string, c hal.Category) map[string][]string {
	ct, ok := ContractFor(c)
	if !ok {
		return map[string][]string{}
	}
	return List(namespace, ct.InterfaceType)
}

// Requirements returns the union of the dependencies of every registered
// type, sorted.
func Requirements() []string {
	seen := map[string]bool{}
	for _, e := range Entries() {
		for _, r := range e.Requires {
			seen[r] = true
		}
	}
	out := make([]string, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Reset clears every contract and entry. Intended for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	contracts = map[hal.Category]Contract{}
	entries = nil
}
