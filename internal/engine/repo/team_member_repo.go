package repo

import (
	"github.com/go-taskhub/taskhub/internal/engine/model"
	"github.com/go-taskhub/taskhub/pkg/database"
	"github.com/go-taskhub/taskhub/pkg/statemachine"
)

type ITeamMemberRepository interface {
	AddMember(m *model.TeamMember) error
	GetMember(teamId, userId string) (*model.TeamMember, error)
	GetActiveMember(teamId, userId string) (*model.TeamMember, error)
	UpdateMemberRole(teamId, userId string, role statemachine.TeamRole) error
	UpdateMemberStatus(teamId, userId string, status model.MemberStatus) error
	ReactivateMember(teamId, userId string, role statemachine.TeamRole) error
	CountActiveOwners(teamId string) (int64, error)
	ListMembers(teamId string) ([]*model.TeamMember, error)
	ListTeamsOfUser(userId string) ([]*model.TeamMember, error)
}

type TeamMemberRepo struct {
	db database.IDatabase
}

func NewTeamMemberRepo(db database.IDatabase) ITeamMemberRepository {
	return &TeamMemberRepo{db: db}
}

// AddMember adds a membership row
func (r *TeamMemberRepo) AddMember(m *model.TeamMember) error {
	return r.db.DB().Create(m).Error
}

// GetMember gets a membership row regardless of status
func (r *TeamMemberRepo) GetMember(teamId, userId string) (*model.TeamMember, error) {
	var m model.TeamMember
	err := r.db.DB().
		Where("team_id = ? AND user_id = ?", teamId, userId).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetActiveMember gets a membership row only when it is ACTIVE
func (r *TeamMemberRepo) GetActiveMember(teamId, userId string) (*model.TeamMember, error) {
	var m model.TeamMember
	err := r.db.DB().
		Where("team_id = ? AND user_id = ? AND status = ?", teamId, userId, model.MemberStatusActive).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateMemberRole updates the member's role within the team
func (r *TeamMemberRepo) UpdateMemberRole(teamId, userId string, role statemachine.TeamRole) error {
	return r.db.DB().Model(&model.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamId, userId).
		Update("role", role).Error
}

// UpdateMemberStatus updates the membership status
func (r *TeamMemberRepo) UpdateMemberStatus(teamId, userId string, status model.MemberStatus) error {
	return r.db.DB().Model(&model.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamId, userId).
		Update("status", status).Error
}

// ReactivateMember flips a REMOVED membership back to ACTIVE with the
// given role, reusing the existing row so the unique index holds.
func (r *TeamMemberRepo) ReactivateMember(teamId, userId string, role statemachine.TeamRole) error {
	return r.db.DB().Model(&model.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamId, userId).
		Updates(map[string]interface{}{
			"status": model.MemberStatusActive,
			"role":   role,
		}).Error
}

// CountActiveOwners counts ACTIVE members holding the OWNER role
func (r *TeamMemberRepo) CountActiveOwners(teamId string) (int64, error) {
	var count int64
	err := r.db.DB().Model(&model.TeamMember{}).
		Where("team_id = ? AND role = ? AND status = ?",
			teamId, statemachine.RoleOwner, model.MemberStatusActive).
		Count(&count).Error
	return count, err
}

// ListMembers lists ACTIVE members of a team
func (r *TeamMemberRepo) ListMembers(teamId string) ([]*model.TeamMember, error) {
	var members []*model.TeamMember
	err := r.db.DB().
		Where("team_id = ? AND status = ?", teamId, model.MemberStatusActive).
		Order("id ASC").
		Find(&members).Error
	return members, err
}

// ListTeamsOfUser lists the user's ACTIVE memberships
func (r *TeamMemberRepo) ListTeamsOfUser(userId string) ([]*model.TeamMember, error) {
	var members []*model.TeamMember
	err := r.db.DB().
		Where("user_id = ? AND status = ?", userId, model.MemberStatusActive).
		Order("id ASC").
		Find(&members).Error
	return members, err
}
