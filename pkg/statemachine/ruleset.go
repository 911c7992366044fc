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
	"fmt"
	"slices"
)

var (
	// ErrSameState is returned when the requested state equals the current
	// state. A no-op transition is an error, not an idempotent success.
	ErrSameState = errors.New("state unchanged")

	// ErrInvalidTransition is returned when the requested transition is not
	// present in the ruleset table.
	ErrInvalidTransition = errors.New("invalid transition")
)

// Ruleset is a generic transition table: for each state, the set of states
// it may legally move to. Unlike a full FSM it holds no current state; the
// caller owns the entity and asks the ruleset to validate a (from, to)
// pair. All methods after construction are read-only, so a Ruleset can be
// shared across goroutines.
type Ruleset[T comparable] struct {
	name    string
	allowed map[T][]T
}

// New creates an empty ruleset. The name appears in error messages.
func New[T comparable](name string) *Ruleset[T] {
	return &Ruleset[T]{
		name:    name,
		allowed: make(map[T][]T),
	}
}

// Allow registers valid transitions from a source state.
func (r *Ruleset[T]) Allow(from T, to ...T) *Ruleset[T] {
	for _, target := range to {
		if !slices.Contains(r.allowed[from], target) {
			r.allowed[from] = append(r.allowed[from], target)
		}
	}
	return r
}

// CanTransit checks if a transition from one state to another is valid.
func (r *Ruleset[T]) CanTransit(from, to T) bool {
	return slices.Contains(r.allowed[from], to)
}

// Validate checks a requested transition, rejecting same-state requests
// and anything absent from the table. The error names both endpoints.
func (r *Ruleset[T]) Validate(from, to T) error {
	if from == to {
		return fmt.Errorf("%s: %w: already %v", r.name, ErrSameState, from)
	}
	if !r.CanTransit(from, to) {
		return fmt.Errorf("%s: %w: %v → %v", r.name, ErrInvalidTransition, from, to)
	}
	return nil
}

// ValidNextStates returns all valid next states from the given state.
func (r *Ruleset[T]) ValidNextStates(from T) []T {
	if states, ok := r.allowed[from]; ok {
		result := make([]T, len(states))
		copy(result, states)
		return result
	}
	return []T{}
}

// IsTerminal reports whether a state has no outgoing transitions.
func (r *Ruleset[T]) IsTerminal(state T) bool {
	return len(r.allowed[state]) == 0
}

// States returns every state mentioned in the table.
func (r *Ruleset[T]) States() []T {
	stateSet := make(map[T]bool)
	for from, tos := range r.allowed {
		stateSet[from] = true
		for _, to := range tos {
			stateSet[to] = true
		}
	}
	states := make([]T, 0, len(stateSet))
	for state := range stateSet {
		states = append(states, state)
	}
	return states
}
