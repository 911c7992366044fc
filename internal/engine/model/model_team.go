package model

import (
	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
)

// TeamStatus is the team lifecycle status.
type TeamStatus string

const (
	TeamStatusActive   TeamStatus = "ACTIVE"
	TeamStatusInactive TeamStatus = "INACTIVE"
	TeamStatusDeleted  TeamStatus = "DELETED"
)

// Team team entity
type Team struct {
	BaseModel
	TeamId      string         `gorm:"column:team_id" json:"teamId"`              // team unique identifier
	OwnerId     string         `gorm:"column:owner_id" json:"ownerId"`            // user id of the team owner
	Name        string         `gorm:"column:name" json:"name"`                   // team name
	Description string         `gorm:"column:description" json:"description"`     // team description
	Settings    datatypes.JSON `gorm:"column:settings;type:json" json:"settings"` // team settings
	Status      TeamStatus     `gorm:"column:status" json:"status"`
}

func (Team) TableName() string {
	return "t_team"
}

// IsActive reports whether the team accepts operations.
func (t *Team) IsActive() bool {
	return t != nil && t.Status == TeamStatusActive
}

// TeamSettings team settings struct
type TeamSettings struct {
	DefaultRole       string `json:"default_role"`
	AllowMemberInvite bool   `json:"allow_member_invite"`
	MaxMembers        int    `json:"max_members"`
}

// CreateTeamReq create team request
type CreateTeamReq struct {
	Name        string                 `json:"name" validate:"required,min=2,max=64"`
	Description string                 `json:"description"`
	Settings    map[string]interface{} `json:"settings"`
}

// UpdateTeamReq update team request
type UpdateTeamReq struct {
	Name        *string                `json:"name,omitempty"`
	Description *string                `json:"description,omitempty"`
	Settings    map[string]interface{} `json:"settings,omitempty"`
}

// TeamResp team response
type TeamResp struct {
	TeamId      string                 `json:"teamId"`
	OwnerId     string                 `json:"ownerId"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Settings    map[string]interface{} `json:"settings"`
	Status      TeamStatus             `json:"status"`
	CreatedAt   string                 `json:"createdAt"`
	UpdatedAt   string                 `json:"updatedAt"`
}

// ToTeamResp convert Team to TeamResp
func ToTeamResp(t *Team) *TeamResp {
	if t == nil {
		return nil
	}

	resp := &TeamResp{
		TeamId:      t.TeamId,
		OwnerId:     t.OwnerId,
		Name:        t.Name,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt.Format(timeLayout),
		UpdatedAt:   t.UpdatedAt.Format(timeLayout),
	}

	// parse Settings JSON
	if len(t.Settings) > 0 {
		settings := make(map[string]interface{})
		if err := sonic.Unmarshal(t.Settings, &settings); err == nil {
			resp.Settings = settings
		}
	}

	return resp
}
