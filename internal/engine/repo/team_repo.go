package repo

import (
	"github.com/bytedance/sonic"
	"github.com/go-taskhub/taskhub/internal/engine/model"
	"github.com/go-taskhub/taskhub/pkg/database"
	"gorm.io/datatypes"
)

type ITeamRepository interface {
	CreateTeam(t *model.Team) error
	GetTeamById(teamId string) (*model.Team, error)
	GetActiveTeam(teamId string) (*model.Team, error)
	UpdateTeam(teamId string, updates map[string]interface{}) error
	UpdateTeamStatus(teamId string, status model.TeamStatus) error
	CheckTeamNameExists(name string, excludeTeamId ...string) (bool, error)
	ListTeams(page, pageSize int) ([]*model.Team, int64, error)
}

type TeamRepo struct {
	db database.IDatabase
}

func NewTeamRepo(db database.IDatabase) ITeamRepository {
	return &TeamRepo{db: db}
}

// CreateTeam creates a team
func (r *TeamRepo) CreateTeam(t *model.Team) error {
	return r.db.DB().Create(t).Error
}

// GetTeamById gets a team regardless of status
func (r *TeamRepo) GetTeamById(teamId string) (*model.Team, error) {
	var t model.Team
	err := r.db.DB().Where("team_id = ?", teamId).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetActiveTeam gets a team only when it is ACTIVE; anything else is
// treated as absent by the caller.
func (r *TeamRepo) GetActiveTeam(teamId string) (*model.Team, error) {
	var t model.Team
	err := r.db.DB().
		Where("team_id = ? AND status = ?", teamId, model.TeamStatusActive).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTeam updates team fields
func (r *TeamRepo) UpdateTeam(teamId string, updates map[string]interface{}) error {
	return r.db.DB().Model(&model.Team{}).
		Where("team_id = ?", teamId).
		Updates(updates).Error
}

// UpdateTeamStatus updates the team lifecycle status
func (r *TeamRepo) UpdateTeamStatus(teamId string, status model.TeamStatus) error {
	return r.db.DB().Model(&model.Team{}).
		Where("team_id = ?", teamId).
		Update("status", status).Error
}

// CheckTeamNameExists checks whether a team name is taken among
// non-deleted teams.
func (r *TeamRepo) CheckTeamNameExists(name string, excludeTeamId ...string) (bool, error) {
	query := r.db.DB().Model(&model.Team{}).
		Where("name = ? AND status != ?", name, model.TeamStatusDeleted)

	if len(excludeTeamId) > 0 && excludeTeamId[0] != "" {
		query = query.Where("team_id != ?", excludeTeamId[0])
	}

	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

// ListTeams lists non-deleted teams with pagination
func (r *TeamRepo) ListTeams(page, pageSize int) ([]*model.Team, int64, error) {
	var teams []*model.Team
	var total int64

	db := r.db.DB().Model(&model.Team{}).
		Where("status != ?", model.TeamStatusDeleted)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page > 0 && pageSize > 0 {
		offset := (page - 1) * pageSize
		db = db.Offset(offset).Limit(pageSize)
	} else {
		db = db.Limit(100)
	}

	err := db.Order("id DESC").Find(&teams).Error
	return teams, total, err
}

// ConvertSettingsToJSON converts a settings map to a JSON column value
func ConvertSettingsToJSON(settings map[string]interface{}) (datatypes.JSON, error) {
	if settings == nil {
		return datatypes.JSON("{}"), nil
	}
	data, err := sonic.Marshal(settings)
	if err != nil {
		return nil, err
	}
	return data, nil
}
