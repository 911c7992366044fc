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

func TestTaskRuleset_AllowedTransitions(t *testing.T) {
	rs := NewTaskRuleset()

	tests := []struct {
		from     TaskStatus
		to       TaskStatus
		expected bool
	}{
		{TaskToDo, TaskInProgress, true},
		{TaskToDo, TaskBlocked, true},
		{TaskToDo, TaskDone, false},
		{TaskToDo, TaskInReview, false},

		{TaskInProgress, TaskInReview, true},
		{TaskInProgress, TaskDone, true},
		{TaskInProgress, TaskBlocked, true},
		{TaskInProgress, TaskToDo, true},

		{TaskInReview, TaskDone, true},
		{TaskInReview, TaskInProgress, true},
		{TaskInReview, TaskBlocked, true},
		{TaskInReview, TaskToDo, false},

		// reopen only
		{TaskDone, TaskToDo, true},
		{TaskDone, TaskInProgress, true},
		{TaskDone, TaskInReview, false},
		{TaskDone, TaskBlocked, false},

		// unblock only
		{TaskBlocked, TaskToDo, true},
		{TaskBlocked, TaskInProgress, true},
		{TaskBlocked, TaskDone, false},
		{TaskBlocked, TaskInReview, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_"+string(tt.to), func(t *testing.T) {
			if got := rs.CanTransit(tt.from, tt.to); got != tt.expected {
				t.Errorf("CanTransit(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestTaskRuleset_SameStateRejected(t *testing.T) {
	rs := NewTaskRuleset()

	for _, status := range []TaskStatus{TaskToDo, TaskInProgress, TaskInReview, TaskDone, TaskBlocked} {
		if err := rs.Validate(status, status); !errors.Is(err, ErrSameState) {
			t.Errorf("Validate(%s, %s) should fail with ErrSameState, got %v", status, status, err)
		}
	}
}

func TestTaskRuleset_DeletedIsolated(t *testing.T) {
	rs := NewTaskRuleset()

	// no generic path out of DELETED
	for _, to := range []TaskStatus{TaskToDo, TaskInProgress, TaskInReview, TaskDone, TaskBlocked} {
		if rs.CanTransit(TaskDeleted, to) {
			t.Errorf("DELETED -> %s must not be allowed", to)
		}
	}

	// no generic path into DELETED, delete is a dedicated operation
	for _, from := range []TaskStatus{TaskToDo, TaskInProgress, TaskInReview, TaskDone, TaskBlocked} {
		if rs.CanTransit(from, TaskDeleted) {
			t.Errorf("%s -> DELETED must not be allowed via the generic path", from)
		}
	}

	if !rs.IsTerminal(TaskDeleted) {
		t.Error("DELETED must be terminal")
	}
}

func TestTaskRuleset_BlockedScenarios(t *testing.T) {
	rs := NewTaskRuleset()

	err := rs.Validate(TaskBlocked, TaskDone)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("BLOCKED -> DONE should fail with ErrInvalidTransition, got %v", err)
	}

	if err := rs.Validate(TaskBlocked, TaskToDo); err != nil {
		t.Errorf("BLOCKED -> TO_DO should succeed: %v", err)
	}
}

func TestTaskStatus_IsOpen(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		expected bool
	}{
		{TaskToDo, true},
		{TaskInProgress, true},
		{TaskInReview, true},
		{TaskBlocked, true},
		{TaskDone, false},
		{TaskDeleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsOpen(); got != tt.expected {
				t.Errorf("IsOpen() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTaskStatus_IsValid(t *testing.T) {
	if !TaskToDo.IsValid() {
		t.Error("TO_DO should be valid")
	}
	if TaskStatus("NOT_A_STATUS").IsValid() {
		t.Error("unknown status should not be valid")
	}
}
