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

type TeamRole string

const (
	RoleMember TeamRole = "MEMBER"
	RoleAdmin  TeamRole = "ADMIN"
	RoleOwner  TeamRole = "OWNER"
)

// IsElevated reports whether the role grants team management rights.
func (tr TeamRole) IsElevated() bool {
	return tr == RoleOwner || tr == RoleAdmin
}

// IsValid reports whether the value is a known team role.
func (tr TeamRole) IsValid() bool {
	switch tr {
	case RoleMember, RoleAdmin, RoleOwner:
		return true
	}
	return false
}

// NewTeamRoleRuleset builds the member role transition table. Every role
// may move to every other role; the same-state rejection built into
// Validate covers the "new role must differ" rule. The last-OWNER and
// owner-self-demotion invariants are ownership questions, not table
// questions, and are enforced by the team service above this layer.
func NewTeamRoleRuleset() *Ruleset[TeamRole] {
	rs := New[TeamRole]("team role")

	rs.Allow(RoleMember, RoleAdmin, RoleOwner).
		Allow(RoleAdmin, RoleMember, RoleOwner).
		Allow(RoleOwner, RoleMember, RoleAdmin)

	return rs
}
