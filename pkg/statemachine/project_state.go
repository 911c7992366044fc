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

type ProjectStatus string

const (
	ProjectPlanned   ProjectStatus = "PLANNED"
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectArchived  ProjectStatus = "ARCHIVED"
	ProjectDeleted   ProjectStatus = "DELETED"
)

// IsDeleted reports whether the project has been soft-deleted.
func (ps ProjectStatus) IsDeleted() bool {
	return ps == ProjectDeleted
}

// IsValid reports whether the value is a known project status.
func (ps ProjectStatus) IsValid() bool {
	switch ps {
	case ProjectPlanned, ProjectActive, ProjectCompleted, ProjectArchived, ProjectDeleted:
		return true
	}
	return false
}

// NewProjectRuleset builds the project status transition table.
//
// DELETED is reachable only through the dedicated delete operation;
// restoring a deleted project is a separate privileged operation, so
// neither appears in the table.
func NewProjectRuleset() *Ruleset[ProjectStatus] {
	rs := New[ProjectStatus]("project status")

	rs.Allow(ProjectPlanned, ProjectActive, ProjectArchived).
		Allow(ProjectActive, ProjectCompleted, ProjectArchived).
		Allow(ProjectCompleted, ProjectActive, ProjectArchived).
		Allow(ProjectArchived, ProjectPlanned, ProjectActive)

	return rs
}
