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
	"testing"
)

func TestProjectRuleset_AllowedTransitions(t *testing.T) {
	rs := NewProjectRuleset()

	tests := []struct {
		from     ProjectStatus
		to       ProjectStatus
		expected bool
	}{
		{ProjectPlanned, ProjectActive, true},
		{ProjectPlanned, ProjectArchived, true},
		{ProjectPlanned, ProjectCompleted, false},

		{ProjectActive, ProjectCompleted, true},
		{ProjectActive, ProjectArchived, true},
		{ProjectActive, ProjectPlanned, false},

		{ProjectCompleted, ProjectActive, true},
		{ProjectCompleted, ProjectArchived, true},
		{ProjectCompleted, ProjectPlanned, false},

		{ProjectArchived, ProjectPlanned, true},
		{ProjectArchived, ProjectActive, true},
		{ProjectArchived, ProjectCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_"+string(tt.to), func(t *testing.T) {
			if got := rs.CanTransit(tt.from, tt.to); got != tt.expected {
				t.Errorf("CanTransit(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestProjectRuleset_DeletedIsolated(t *testing.T) {
	rs := NewProjectRuleset()

	for _, status := range []ProjectStatus{ProjectPlanned, ProjectActive, ProjectCompleted, ProjectArchived} {
		if rs.CanTransit(status, ProjectDeleted) {
			t.Errorf("%s -> DELETED must not be allowed via the generic path", status)
		}
		if rs.CanTransit(ProjectDeleted, status) {
			t.Errorf("DELETED -> %s must not be allowed via the generic path", status)
		}
	}
}

func TestProjectRuleset_SameStateRejected(t *testing.T) {
	rs := NewProjectRuleset()

	err := rs.Validate(ProjectActive, ProjectActive)
	if !errors.Is(err, ErrSameState) {
		t.Errorf("expected ErrSameState, got %v", err)
	}
}
