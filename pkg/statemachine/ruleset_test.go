// Copyright 2025 TaskHub Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package statemachine

import (
	"errors"
	"strings"
	"testing"
)

func TestRuleset_CanTransit(t *testing.T) {
	rs := New[string]("test").
		Allow("a", "b", "c").
		Allow("b", "c")

	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		{"a", "b", true},
		{"a", "c", true},
		{"b", "c", true},
		{"b", "a", false},
		{"c", "a", false},
		{"a", "a", false},
		{"unknown", "a", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_"+tt.to, func(t *testing.T) {
			if got := rs.CanTransit(tt.from, tt.to); got != tt.expected {
				t.Errorf("CanTransit(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestRuleset_Validate_SameState(t *testing.T) {
	rs := New[string]("test").Allow("a", "b")

	err := rs.Validate("a", "a")
	if !errors.Is(err, ErrSameState) {
		t.Errorf("expected ErrSameState, got %v", err)
	}
}

func TestRuleset_Validate_InvalidTransition(t *testing.T) {
	rs := New[string]("test").Allow("a", "b")

	err := rs.Validate("b", "a")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}

	// the error must name both endpoints
	if !strings.Contains(err.Error(), "b") || !strings.Contains(err.Error(), "a") {
		t.Errorf("error should name both endpoints: %v", err)
	}
}

func TestRuleset_Validate_Valid(t *testing.T) {
	rs := New[string]("test").Allow("a", "b")

	if err := rs.Validate("a", "b"); err != nil {
		t.Errorf("a -> b should be valid: %v", err)
	}
}

func TestRuleset_Allow_Deduplicates(t *testing.T) {
	rs := New[string]("test").Allow("a", "b").Allow("a", "b", "b")

	if got := len(rs.ValidNextStates("a")); got != 1 {
		t.Errorf("expected 1 next state, got %d", got)
	}
}

func TestRuleset_IsTerminal(t *testing.T) {
	rs := New[string]("test").Allow("a", "b")

	if rs.IsTerminal("a") {
		t.Error("a has outgoing transitions, should not be terminal")
	}
	if !rs.IsTerminal("b") {
		t.Error("b has no outgoing transitions, should be terminal")
	}
}

func TestRuleset_ValidNextStates_Copy(t *testing.T) {
	rs := New[string]("test").Allow("a", "b", "c")

	states := rs.ValidNextStates("a")
	states[0] = "mutated"

	if rs.ValidNextStates("a")[0] == "mutated" {
		t.Error("ValidNextStates must return a copy")
	}
}

func TestRuleset_States(t *testing.T) {
	rs := New[string]("test").Allow("a", "b").Allow("b", "c")

	states := rs.States()
	if len(states) != 3 {
		t.Errorf("expected 3 states, got %d", len(states))
	}
}
