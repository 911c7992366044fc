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

type TaskStatus string

const (
	TaskToDo       TaskStatus = "TO_DO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskInReview   TaskStatus = "IN_REVIEW"
	TaskDone       TaskStatus = "DONE"
	TaskBlocked    TaskStatus = "BLOCKED"
	TaskDeleted    TaskStatus = "DELETED"
)

// IsDeleted reports whether the task has been soft-deleted.
func (ts TaskStatus) IsDeleted() bool {
	return ts == TaskDeleted
}

// IsOpen reports whether the task still accepts work.
func (ts TaskStatus) IsOpen() bool {
	return ts == TaskToDo || ts == TaskInProgress || ts == TaskInReview || ts == TaskBlocked
}

// IsValid reports whether the value is a known task status.
func (ts TaskStatus) IsValid() bool {
	switch ts {
	case TaskToDo, TaskInProgress, TaskInReview, TaskDone, TaskBlocked, TaskDeleted:
		return true
	}
	return false
}

// NewTaskRuleset builds the task status transition table.
//
// DELETED is deliberately absent on both sides: it is terminal and only
// the dedicated delete operation may move a task there. DONE and BLOCKED
// can only be reopened or unblocked, never advanced directly.
func NewTaskRuleset() *Ruleset[TaskStatus] {
	rs := New[TaskStatus]("task status")

	rs.Allow(TaskToDo, TaskInProgress, TaskBlocked).
		Allow(TaskInProgress, TaskInReview, TaskDone, TaskBlocked, TaskToDo).
		Allow(TaskInReview, TaskDone, TaskInProgress, TaskBlocked).
		Allow(TaskDone, TaskToDo, TaskInProgress).
		Allow(TaskBlocked, TaskToDo, TaskInProgress)

	return rs
}
