package authz

import (
	"errors"

	"github.com/go-taskhub/taskhub/internal/engine/errs"
	"github.com/go-taskhub/taskhub/internal/engine/model"
	"github.com/go-taskhub/taskhub/internal/engine/repo"
	"github.com/go-taskhub/taskhub/pkg/statemachine"
	"gorm.io/gorm"
)

// Resolver answers relationship questions against storage. It delegates
// to the repo layer on every call and caches nothing, so a revoked
// membership takes effect on the next check.
type Resolver struct {
	memberRepo  repo.ITeamMemberRepository
	projectRepo repo.IProjectRepository
	taskRepo    repo.ITaskRepository
}

func NewResolver(
	memberRepo repo.ITeamMemberRepository,
	projectRepo repo.IProjectRepository,
	taskRepo repo.ITaskRepository,
) *Resolver {
	return &Resolver{
		memberRepo:  memberRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
	}
}

// ActiveMember returns the actor's ACTIVE membership on the team, or
// nil when there is none. Removed memberships count as none.
func (r *Resolver) ActiveMember(teamId, userId string) (*model.TeamMember, error) {
	m, err := r.memberRepo.GetActiveMember(teamId, userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errs.Wrap(errs.KindInternal, "resolve team membership", err)
	}
	return m, nil
}

// IsTeamMember reports whether the user is an active member of the team,
// any role included.
func (r *Resolver) IsTeamMember(teamId, userId string) (bool, error) {
	m, err := r.ActiveMember(teamId, userId)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}

// HasTeamRole reports whether the user is an active member of the team
// holding one of the given roles.
func (r *Resolver) HasTeamRole(teamId, userId string, roles ...statemachine.TeamRole) (bool, error) {
	m, err := r.ActiveMember(teamId, userId)
	if err != nil {
		return false, err
	}
	if m == nil {
		return false, nil
	}
	for _, role := range roles {
		if m.Role == role {
			return true, nil
		}
	}
	return false, nil
}

// TeamOfProject resolves the team owning a project. Deleted projects
// resolve to not found.
func (r *Resolver) TeamOfProject(projectId string) (string, error) {
	p, err := r.projectRepo.GetProjectNotDeleted(projectId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errs.Newf(errs.KindNotFound, "project %s not found", projectId)
		}
		return "", errs.Wrap(errs.KindInternal, "resolve project team", err)
	}
	return p.TeamId, nil
}

// TeamOfTask resolves the team owning a task via its project. Deleted
// tasks and deleted parents resolve to not found.
func (r *Resolver) TeamOfTask(taskId string) (string, error) {
	t, err := r.taskRepo.GetTaskNotDeleted(taskId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errs.Newf(errs.KindNotFound, "task %s not found", taskId)
		}
		return "", errs.Wrap(errs.KindInternal, "resolve task team", err)
	}
	return r.TeamOfProject(t.ProjectId)
}
