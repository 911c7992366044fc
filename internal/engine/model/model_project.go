package model

import (
	"time"

	"github.com/go-taskhub/taskhub/pkg/statemachine"
)

// Project belongs to exactly one team. Its status follows the project
// lifecycle ruleset; start must precede end.
type Project struct {
	BaseModel
	ProjectId   string                     `gorm:"column:project_id" json:"projectId"`
	TeamId      string                     `gorm:"column:team_id" json:"teamId"`
	Name        string                     `gorm:"column:name" json:"name"`
	Description string                     `gorm:"column:description" json:"description"`
	Status      statemachine.ProjectStatus `gorm:"column:status" json:"status"`
	StartDate   time.Time                  `gorm:"column:start_date" json:"startDate"`
	EndDate     time.Time                  `gorm:"column:end_date" json:"endDate"`
	CreatedBy   string                     `gorm:"column:created_by" json:"createdBy"`
}

func (Project) TableName() string {
	return "t_project"
}

type CreateProjectReq struct {
	TeamId      string    `json:"teamId" validate:"required"`
	Name        string    `json:"name" validate:"required,min=2,max=128"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate" validate:"required"`
	EndDate     time.Time `json:"endDate" validate:"required"`
}

type UpdateProjectReq struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

type UpdateProjectStatusReq struct {
	Status statemachine.ProjectStatus `json:"status" validate:"required"`
}

type TransferProjectReq struct {
	TargetTeamId string `json:"targetTeamId" validate:"required"`
}

type ProjectResp struct {
	ProjectId   string                     `json:"projectId"`
	TeamId      string                     `json:"teamId"`
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Status      statemachine.ProjectStatus `json:"status"`
	StartDate   string                     `json:"startDate"`
	EndDate     string                     `json:"endDate"`
	CreatedBy   string                     `json:"createdBy"`
	CreatedAt   string                     `json:"createdAt"`
	UpdatedAt   string                     `json:"updatedAt"`
}

func ToProjectResp(p *Project) *ProjectResp {
	if p == nil {
		return nil
	}
	return &ProjectResp{
		ProjectId:   p.ProjectId,
		TeamId:      p.TeamId,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		StartDate:   p.StartDate.Format(timeLayout),
		EndDate:     p.EndDate.Format(timeLayout),
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt.Format(timeLayout),
		UpdatedAt:   p.UpdatedAt.Format(timeLayout),
	}
}
