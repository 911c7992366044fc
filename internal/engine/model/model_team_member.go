package model

import "github.com/go-taskhub/taskhub/pkg/statemachine"

// MemberStatus is the membership lifecycle status.
type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "ACTIVE"
	MemberStatusRemoved  MemberStatus = "REMOVED"
	MemberStatusInactive MemberStatus = "INACTIVE"
)

// TeamMember links a user to a team with a per-team role. (teamId, userId)
// is unique; an ACTIVE team always has at least one OWNER among its
// active members.
type TeamMember struct {
	BaseModel
	TeamId string                `gorm:"column:team_id;uniqueIndex:uk_team_user" json:"teamId"`
	UserId string                `gorm:"column:user_id;uniqueIndex:uk_team_user" json:"userId"`
	Role   statemachine.TeamRole `gorm:"column:role" json:"role"`
	Status MemberStatus          `gorm:"column:status" json:"status"`
}

func (TeamMember) TableName() string {
	return "t_team_member"
}

// IsActive reports whether the membership currently counts.
func (m *TeamMember) IsActive() bool {
	return m != nil && m.Status == MemberStatusActive
}

type AddTeamMemberReq struct {
	UserId string                `json:"userId" validate:"required"`
	Role   statemachine.TeamRole `json:"role"`
}

type UpdateMemberRoleReq struct {
	Role statemachine.TeamRole `json:"role" validate:"required"`
}

type TeamMemberResp struct {
	TeamId    string                `json:"teamId"`
	UserId    string                `json:"userId"`
	Role      statemachine.TeamRole `json:"role"`
	Status    MemberStatus          `json:"status"`
	CreatedAt string                `json:"createdAt"`
}

func ToTeamMemberResp(m *TeamMember) *TeamMemberResp {
	if m == nil {
		return nil
	}
	return &TeamMemberResp{
		TeamId:    m.TeamId,
		UserId:    m.UserId,
		Role:      m.Role,
		Status:    m.Status,
		CreatedAt: m.CreatedAt.Format(timeLayout),
	}
}
