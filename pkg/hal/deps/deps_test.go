// SPDX-License-Identifier: MIT
package deps

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"qkdhal/pkg/hal"
)

type probeCounter struct {
	calls int
	err   error
}

func (p *probeCounter) probe() error {
	p.calls++
	return p.err
}

type widget struct {
	spec hal.Spec
}

func newWidget(spec hal.Spec) (*widget, error) {
	if spec.Location == "bad" {
		return nil, fmt.Errorf("%w: cannot reach %s", hal.ErrConnection, spec.Location)
	}
	return &widget{spec: spec}, nil
}

func TestMain(m *testing.M) {
	Reset()
	code := m.Run()
	Reset()
	os.Exit(code)
}

func TestWrapMissingDependencyAlwaysFails(t *testing.T) {
	t.Cleanup(Reset)

	g := Need("Widget", "no-such-dependency-xyz")
	newGuarded := Wrap(g, newWidget)

	for i := 0; i < 3; i++ {
		w, err := newGuarded(hal.Spec{Location: "dev0"})
		if w != nil {
			t.Fatalf("attempt %d: expected nil instance, got %+v", i, w)
		}
		if !errors.Is(err, ErrMissingDependency) {
			t.Fatalf("attempt %d: expected ErrMissingDependency, got %v", i, err)
		}

		var mde *MissingDependencyError
		if !errors.As(err, &mde) {
			t.Fatalf("attempt %d: expected *MissingDependencyError, got %T", i, err)
		}
		if len(mde.Missing) != 1 || mde.Missing[0] != "no-such-dependency-xyz" {
			t.Errorf("Missing = %v, want [no-such-dependency-xyz]", mde.Missing)
		}
		if !strings.Contains(err.Error(), "no-such-dependency-xyz") || !strings.Contains(err.Error(), "Widget") {
			t.Errorf("error %q should name the type and the dependency", err.Error())
		}
	}
}

func TestWrapAvailableDependencyBehavesLikeOriginal(t *testing.T) {
	t.Cleanup(Reset)

	Provide("libwidget", nil)
	newGuarded := Wrap(Need("Widget", "libwidget"), newWidget)

	spec := hal.Spec{Location: "dev0", Channels: []int{1, 2}}
	got, err := newGuarded(spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := newWidget(spec)
	if got.spec.Location != want.spec.Location || len(got.spec.Channels) != len(want.spec.Channels) {
		t.Errorf("guarded instance %+v differs from unguarded %+v", got, want)
	}

	// Errors of the original constructor pass through untouched.
	_, err = newGuarded(hal.Spec{Location: "bad"})
	if !errors.Is(err, hal.ErrConnection) {
		t.Errorf("expected ErrConnection from the wrapped constructor, got %v", err)
	}
	if errors.Is(err, ErrMissingDependency) {
		t.Error("constructor error must not be reported as a missing dependency")
	}
}

func TestGuardReportsOnlyMissing(t *testing.T) {
	t.Cleanup(Reset)

	Provide("present", nil)
	err := Need("Combo", "present", "absent-a", "absent-b").Check()

	var mde *MissingDependencyError
	if !errors.As(err, &mde) {
		t.Fatalf("expected *MissingDependencyError, got %v", err)
	}
	if strings.Join(mde.Missing, ",") != "absent-a,absent-b" {
		t.Errorf("Missing = %v, want [absent-a absent-b]", mde.Missing)
	}
	if strings.Join(mde.Required, ",") != "present,absent-a,absent-b" {
		t.Errorf("Required = %v", mde.Required)
	}
}

func TestGuardEvaluatesOnce(t *testing.T) {
	t.Cleanup(Reset)

	pc := &probeCounter{}
	Provide("flaky", pc.probe)
	g := Need("Flaky", "flaky")

	if err := g.Check(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Disabling after the first evaluation does not change the outcome.
	Disable("flaky")
	if err := g.Check(); err != nil {
		t.Errorf("guard result changed after first evaluation: %v", err)
	}
	if pc.calls != 1 {
		t.Errorf("probe called %d times, want 1", pc.calls)
	}
}

func TestProbeFailureMakesDependencyUnavailable(t *testing.T) {
	t.Cleanup(Reset)

	Provide("broken", (&probeCounter{err: errors.New("library not found")}).probe)

	d := Lookup("broken")
	if d.Available() {
		t.Fatal("dependency with failing probe should be unavailable")
	}
	if !d.Provided || d.ProbeErr == nil {
		t.Errorf("unexpected status: %+v", d)
	}
	if err := Need("Broken", "broken").Check(); !errors.Is(err, ErrMissingDependency) {
		t.Errorf("expected ErrMissingDependency, got %v", err)
	}
}

func TestDisable(t *testing.T) {
	t.Cleanup(Reset)

	Provide("vendor-sdk", nil)
	Disable(" vendor-sdk ", "")

	if Available("vendor-sdk") {
		t.Error("disabled dependency reported available")
	}
	d := Lookup("vendor-sdk")
	if !d.Provided || !d.Disabled {
		t.Errorf("unexpected status: %+v", d)
	}
}

func TestStatus(t *testing.T) {
	t.Cleanup(Reset)

	Provide("b-lib", nil)
	Disable("c-lib")

	got := Status("a-lib", "b-lib")
	var names []string
	for _, d := range got {
		names = append(names, d.Name)
	}
	if strings.Join(names, ",") != "a-lib,b-lib,c-lib" {
		t.Fatalf("Status names = %v", names)
	}
	if got[0].Provided || !got[1].Available() || got[2].Available() {
		t.Errorf("unexpected statuses: %+v", got)
	}
}

func TestProvideDuplicatePanics(t *testing.T) {
	t.Cleanup(Reset)

	Provide("dup", nil)
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on duplicate Provide")
		}
	}()
	Provide("dup", nil)
}
