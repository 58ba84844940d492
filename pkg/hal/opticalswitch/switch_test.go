// SPDX-License-Identifier: MIT

package opticalswitch

import (
	"errors"
	"testing"

	"qkdhal/pkg/hal"
)

func TestFakeSwitchAlwaysReadsZero(t *testing.T) {
	s := NewFake(hal.Spec{})
	s.Open()
	defer s.Close()

	for _, state := range []int{5, 1, -3} {
		if err := s.SetState(state); err != nil {
			t.Fatalf("SetState(%d) error: %v", state, err)
		}
		got, err := s.ReadState()
		if err != nil || got != 0 {
			t.Errorf("after SetState(%d): ReadState = %d, %v; want 0, nil", state, got, err)
		}
	}
}

type writeOnly struct {
	sent []int
	fail bool
}

func (*writeOnly) Open() error  { return nil }
func (*writeOnly) Close() error { return nil }

func (w *writeOnly) SetState(state int) error {
	if w.fail {
		return errors.New("bus error")
	}
	w.sent = append(w.sent, state)
	return nil
}

func TestCachedReturnsLastCommandedState(t *testing.T) {
	drv := &writeOnly{}
	sw := Cached(drv, 1)

	if got, _ := sw.ReadState(); got != 1 {
		t.Errorf("initial state = %d, want 1", got)
	}
	sw.SetState(4)
	sw.SetState(2)
	if got, _ := sw.ReadState(); got != 2 {
		t.Errorf("state = %d, want 2", got)
	}
	if len(drv.sent) != 2 {
		t.Errorf("driver received %v", drv.sent)
	}

	drv.fail = true
	if err := sw.SetState(7); err == nil {
		t.Fatal("expected driver error")
	}
	if got, _ := sw.ReadState(); got != 2 {
		t.Errorf("failed SetState changed cached state to %d", got)
	}
}
