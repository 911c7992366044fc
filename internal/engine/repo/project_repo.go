package repo

import (
	"github.com/go-taskhub/taskhub/internal/engine/model"
	"github.com/go-taskhub/taskhub/pkg/database"
	"github.com/go-taskhub/taskhub/pkg/statemachine"
)

type IProjectRepository interface {
	CreateProject(p *model.Project) error
	GetProjectById(projectId string) (*model.Project, error)
	GetProjectNotDeleted(projectId string) (*model.Project, error)
	UpdateProject(projectId string, updates map[string]interface{}) error
	UpdateProjectStatus(projectId string, status statemachine.ProjectStatus) error
	TransferProject(projectId, targetTeamId string) error
	CheckProjectNameExists(teamId, name string, excludeProjectId ...string) (bool, error)
	ListProjectsByTeam(teamId string, page, pageSize int) ([]*model.Project, int64, error)
	ListAllProjects(page, pageSize int) ([]*model.Project, int64, error)
}

type ProjectRepo struct {
	db database.IDatabase
}

func NewProjectRepo(db database.IDatabase) IProjectRepository {
	return &ProjectRepo{db: db}
}

// CreateProject creates a project
func (r *ProjectRepo) CreateProject(p *model.Project) error {
	return r.db.DB().Create(p).Error
}

// GetProjectById gets a project regardless of status
func (r *ProjectRepo) GetProjectById(projectId string) (*model.Project, error) {
	var p model.Project
	err := r.db.DB().Where("project_id = ?", projectId).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProjectNotDeleted gets a project that has not been deleted.
// Deleted projects are invisible to non-admin reads.
func (r *ProjectRepo) GetProjectNotDeleted(projectId string) (*model.Project, error) {
	var p model.Project
	err := r.db.DB().
		Where("project_id = ? AND status != ?", projectId, statemachine.ProjectDeleted).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProject updates project fields
func (r *ProjectRepo) UpdateProject(projectId string, updates map[string]interface{}) error {
	return r.db.DB().Model(&model.Project{}).
		Where("project_id = ?", projectId).
		Updates(updates).Error
}

// UpdateProjectStatus updates the project lifecycle status
func (r *ProjectRepo) UpdateProjectStatus(projectId string, status statemachine.ProjectStatus) error {
	return r.db.DB().Model(&model.Project{}).
		Where("project_id = ?", projectId).
		Update("status", status).Error
}

// TransferProject moves the project to another team
func (r *ProjectRepo) TransferProject(projectId, targetTeamId string) error {
	return r.db.DB().Model(&model.Project{}).
		Where("project_id = ?", projectId).
		Update("team_id", targetTeamId).Error
}

// CheckProjectNameExists checks whether a project name is taken within a
// team among non-deleted projects.
func (r *ProjectRepo) CheckProjectNameExists(teamId, name string, excludeProjectId ...string) (bool, error) {
	query := r.db.DB().Model(&model.Project{}).
		Where("team_id = ? AND name = ? AND status != ?", teamId, name, statemachine.ProjectDeleted)

	if len(excludeProjectId) > 0 && excludeProjectId[0] != "" {
		query = query.Where("project_id != ?", excludeProjectId[0])
	}

	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

// ListProjectsByTeam lists a team's non-deleted projects with pagination
func (r *ProjectRepo) ListProjectsByTeam(teamId string, page, pageSize int) ([]*model.Project, int64, error) {
	var projects []*model.Project
	var total int64

	db := r.db.DB().Model(&model.Project{}).
		Where("team_id = ? AND status != ?", teamId, statemachine.ProjectDeleted)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page > 0 && pageSize > 0 {
		offset := (page - 1) * pageSize
		db = db.Offset(offset).Limit(pageSize)
	} else {
		db = db.Limit(100)
	}

	err := db.Order("id DESC").Find(&projects).Error
	return projects, total, err
}

// ListAllProjects lists every project across teams, deleted included.
// Admin-only listing.
func (r *ProjectRepo) ListAllProjects(page, pageSize int) ([]*model.Project, int64, error) {
	var projects []*model.Project
	var total int64

	db := r.db.DB().Model(&model.Project{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page > 0 && pageSize > 0 {
		offset := (page - 1) * pageSize
		db = db.Offset(offset).Limit(pageSize)
	} else {
		db = db.Limit(100)
	}

	err := db.Order("id DESC").Find(&projects).Error
	return projects, total, err
}
