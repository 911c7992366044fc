package service

import (
	"errors"

	"github.com/go-taskhub/taskhub/internal/engine/authz"
	"github.com/go-taskhub/taskhub/internal/engine/errs"
	"github.com/go-taskhub/taskhub/internal/engine/model"
	"github.com/go-taskhub/taskhub/internal/engine/repo"
	"github.com/go-taskhub/taskhub/pkg/id"
	"github.com/go-taskhub/taskhub/pkg/log"
	"github.com/go-taskhub/taskhub/pkg/metrics"
	"github.com/go-taskhub/taskhub/pkg/statemachine"
	"gorm.io/gorm"
)

type ProjectService struct {
	projectRepo repo.IProjectRepository
	teamRepo    repo.ITeamRepository
	authz       *authz.Engine
	ruleset     *statemachine.Ruleset[statemachine.ProjectStatus]
}

func NewProjectService(projectRepo repo.IProjectRepository, teamRepo repo.ITeamRepository, authzEngine *authz.Engine) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		teamRepo:    teamRepo,
		authz:       authzEngine,
		ruleset:     statemachine.NewProjectRuleset(),
	}
}

// CreateProject creates a project under a team. Only the team OWNER may
// create projects; the system admin role does not override this.
func (s *ProjectService) CreateProject(actor *model.User, req *model.CreateProjectReq) (*model.ProjectResp, error) {
	// 1. actor gate
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, err
	}

	// 2. the target team must exist and be active
	if _, err := s.teamRepo.GetActiveTeam(req.TeamId); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Newf(errs.KindNotFound, "team %s not found", req.TeamId)
		}
		return nil, errs.Wrap(errs.KindInternal, "get team", err)
	}

	// 3. capability check
	decision, err := s.authz.CanCreateProject(actor, req.TeamId)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, errs.New(errs.KindAccessDenied, decision.Reason)
	}

	// 4. date invariant
	if !req.StartDate.Before(req.EndDate) {
		return nil, errs.New(errs.KindInvariantViolation, "project start date must be before end date")
	}

	// 5. name uniqueness within the team. Check-then-act; the unique
	// index on (team_id, name) is the backstop.
	exists, err := s.projectRepo.CheckProjectNameExists(req.TeamId, req.Name)
	if err != nil {
		log.Errorw("check project name failed", "teamId", req.TeamId, "name", req.Name, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "check project name", err)
	}
	if exists {
		return nil, errs.Newf(errs.KindConflict, "project name %q already exists in team", req.Name)
	}

	// 6. build and save
	projectEntity := &model.Project{
		ProjectId:   id.GetUUID(),
		TeamId:      req.TeamId,
		Name:        req.Name,
		Description: req.Description,
		Status:      statemachine.ProjectPlanned,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatedBy:   actor.UserId,
	}
	if err := s.projectRepo.CreateProject(projectEntity); err != nil {
		log.Errorw("create project failed", "teamId", req.TeamId, "name", req.Name, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "create project", err)
	}

	log.Infow("project created", "projectId", projectEntity.ProjectId, "teamId", req.TeamId, "createdBy", actor.UserId)
	return model.ToProjectResp(projectEntity), nil
}

// GetProject returns a project visible to the actor
func (s *ProjectService) GetProject(actor *model.User, projectId string) (*model.ProjectResp, error) {
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, err
	}

	projectEntity, err := s.loadProject(projectId)
	if err != nil {
		return nil, err
	}

	decision, err := s.authz.CanAccessTask(actor, projectEntity.TeamId)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, errs.New(errs.KindAccessDenied, decision.Reason)
	}

	return model.ToProjectResp(projectEntity), nil
}

// ListProjects lists a team's projects visible to the actor
func (s *ProjectService) ListProjects(actor *model.User, teamId string, page, pageSize int) ([]*model.ProjectResp, int64, error) {
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, 0, err
	}

	decision, err := s.authz.CanAccessTask(actor, teamId)
	if err != nil {
		return nil, 0, err
	}
	if !decision.Allowed {
		return nil, 0, errs.New(errs.KindAccessDenied, decision.Reason)
	}

	projects, total, err := s.projectRepo.ListProjectsByTeam(teamId, page, pageSize)
	if err != nil {
		log.Errorw("list projects failed", "teamId", teamId, "error", err)
		return nil, 0, errs.Wrap(errs.KindInternal, "list projects", err)
	}

	resp := make([]*model.ProjectResp, 0, len(projects))
	for _, p := range projects {
		resp = append(resp, model.ToProjectResp(p))
	}
	return resp, total, nil
}

// UpdateProject updates name, description or dates
func (s *ProjectService) UpdateProject(actor *model.User, projectId string, req *model.UpdateProjectReq) (*model.ProjectResp, error) {
	// 1. actor gate
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, err
	}

	// 2. load target
	projectEntity, err := s.loadProject(projectId)
	if err != nil {
		return nil, err
	}

	// 3. capability check: owner/admin of the team, or system admin
	decision, err := s.authz.CanManageProject(actor, projectEntity.TeamId)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, errs.New(errs.KindAccessDenied, decision.Reason)
	}

	// 4. build updates
	updates := make(map[string]interface{})

	if req.Name != nil && *req.Name != "" && *req.Name != projectEntity.Name {
		exists, err := s.projectRepo.CheckProjectNameExists(projectEntity.TeamId, *req.Name, projectId)
		if err != nil {
			return nil, errs.Wrap(errs.KindInternal, "check project name", err)
		}
		if exists {
			return nil, errs.Newf(errs.KindConflict, "project name %q already exists in team", *req.Name)
		}
		updates["name"] = *req.Name
		projectEntity.Name = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
		projectEntity.Description = *req.Description
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
		projectEntity.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		updates["end_date"] = *req.EndDate
		projectEntity.EndDate = *req.EndDate
	}

	if !projectEntity.StartDate.Before(projectEntity.EndDate) {
		return nil, errs.New(errs.KindInvariantViolation, "project start date must be before end date")
	}

	if len(updates) == 0 {
		return model.ToProjectResp(projectEntity), nil
	}

	// 5. save
	if err := s.projectRepo.UpdateProject(projectId, updates); err != nil {
		log.Errorw("update project failed", "projectId", projectId, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "update project", err)
	}

	return model.ToProjectResp(projectEntity), nil
}

// UpdateProjectStatus moves the project through its lifecycle
func (s *ProjectService) UpdateProjectStatus(actor *model.User, projectId string, req *model.UpdateProjectStatusReq) (*model.ProjectResp, error) {
	// 1. actor gate
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, err
	}

	// 2. load target
	projectEntity, err := s.loadProject(projectId)
	if err != nil {
		return nil, err
	}

	// 3. capability check
	decision, err := s.authz.CanManageProject(actor, projectEntity.TeamId)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, errs.New(errs.KindAccessDenied, decision.Reason)
	}

	// 4. transition validation
	if !req.Status.IsValid() {
		return nil, errs.Newf(errs.KindInvalidTransition, "unknown project status %q", req.Status)
	}
	if req.Status == statemachine.ProjectDeleted {
		metrics.RecordRejectedTransition("project")
		return nil, errs.New(errs.KindInvalidTransition, "projects are deleted through the delete operation, not a status change")
	}
	if err := s.ruleset.Validate(projectEntity.Status, req.Status); err != nil {
		metrics.RecordRejectedTransition("project")
		return nil, errs.Wrap(errs.KindInvalidTransition, "project status", err)
	}

	// 5. save
	if err := s.projectRepo.UpdateProjectStatus(projectId, req.Status); err != nil {
		log.Errorw("update project status failed", "projectId", projectId, "status", req.Status, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "update project status", err)
	}

	log.Infow("project status changed", "projectId", projectId, "from", projectEntity.Status, "to", req.Status, "actor", actor.UserId)
	projectEntity.Status = req.Status
	return model.ToProjectResp(projectEntity), nil
}

// DeleteProject soft-deletes a project
func (s *ProjectService) DeleteProject(actor *model.User, projectId string) error {
	// 1. actor gate
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return err
	}

	// 2. load target
	projectEntity, err := s.loadProject(projectId)
	if err != nil {
		return err
	}

	// 3. capability check
	decision, err := s.authz.CanManageProject(actor, projectEntity.TeamId)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return errs.New(errs.KindAccessDenied, decision.Reason)
	}

	// 4. save
	if err := s.projectRepo.UpdateProjectStatus(projectId, statemachine.ProjectDeleted); err != nil {
		log.Errorw("delete project failed", "projectId", projectId, "error", err)
		return errs.Wrap(errs.KindInternal, "delete project", err)
	}

	log.Infow("project deleted", "projectId", projectId, "actor", actor.UserId)
	return nil
}

// RestoreProject brings a deleted project back to PLANNED. Hard admin
// gate; deleted projects are invisible to everyone else.
func (s *ProjectService) RestoreProject(actor *model.User, projectId string) (*model.ProjectResp, error) {
	if err := s.authz.RequireSystemAdmin(actor); err != nil {
		return nil, err
	}

	projectEntity, err := s.projectRepo.GetProjectById(projectId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Newf(errs.KindNotFound, "project %s not found", projectId)
		}
		return nil, errs.Wrap(errs.KindInternal, "get project", err)
	}
	if projectEntity.Status != statemachine.ProjectDeleted {
		return nil, errs.Newf(errs.KindInvalidTransition, "project %s is not deleted", projectId)
	}

	if err := s.projectRepo.UpdateProjectStatus(projectId, statemachine.ProjectPlanned); err != nil {
		log.Errorw("restore project failed", "projectId", projectId, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "restore project", err)
	}

	log.Infow("project restored", "projectId", projectId, "actor", actor.UserId)
	projectEntity.Status = statemachine.ProjectPlanned
	return model.ToProjectResp(projectEntity), nil
}

// TransferProject moves a project to another team. Hard admin gate.
func (s *ProjectService) TransferProject(actor *model.User, projectId string, req *model.TransferProjectReq) (*model.ProjectResp, error) {
	// 1. hard gate
	if err := s.authz.RequireSystemAdmin(actor); err != nil {
		return nil, err
	}

	// 2. load target
	projectEntity, err := s.loadProject(projectId)
	if err != nil {
		return nil, err
	}

	// 3. target team must exist and be active
	if _, err := s.teamRepo.GetActiveTeam(req.TargetTeamId); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Newf(errs.KindNotFound, "team %s not found", req.TargetTeamId)
		}
		return nil, errs.Wrap(errs.KindInternal, "get team", err)
	}
	if projectEntity.TeamId == req.TargetTeamId {
		return nil, errs.New(errs.KindInvariantViolation, "project already belongs to the target team")
	}

	// 4. the name must be free in the target team
	exists, err := s.projectRepo.CheckProjectNameExists(req.TargetTeamId, projectEntity.Name)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "check project name", err)
	}
	if exists {
		return nil, errs.Newf(errs.KindConflict, "project name %q already exists in target team", projectEntity.Name)
	}

	// 5. save
	if err := s.projectRepo.TransferProject(projectId, req.TargetTeamId); err != nil {
		log.Errorw("transfer project failed", "projectId", projectId, "targetTeamId", req.TargetTeamId, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "transfer project", err)
	}

	log.Infow("project transferred", "projectId", projectId, "from", projectEntity.TeamId, "to", req.TargetTeamId, "actor", actor.UserId)
	projectEntity.TeamId = req.TargetTeamId
	return model.ToProjectResp(projectEntity), nil
}

// ListAllProjectsForAdmin lists every project, deleted included. Hard
// admin gate.
func (s *ProjectService) ListAllProjectsForAdmin(actor *model.User, page, pageSize int) ([]*model.ProjectResp, int64, error) {
	if err := s.authz.RequireSystemAdmin(actor); err != nil {
		return nil, 0, err
	}

	projects, total, err := s.projectRepo.ListAllProjects(page, pageSize)
	if err != nil {
		log.Errorw("list all projects failed", "error", err)
		return nil, 0, errs.Wrap(errs.KindInternal, "list all projects", err)
	}

	resp := make([]*model.ProjectResp, 0, len(projects))
	for _, p := range projects {
		resp = append(resp, model.ToProjectResp(p))
	}
	return resp, total, nil
}

// loadProject loads a non-deleted project.
func (s *ProjectService) loadProject(projectId string) (*model.Project, error) {
	projectEntity, err := s.projectRepo.GetProjectNotDeleted(projectId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Newf(errs.KindNotFound, "project %s not found", projectId)
		}
		return nil, errs.Wrap(errs.KindInternal, "get project", err)
	}
	return projectEntity, nil
}
