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

type TeamService struct {
	teamRepo   repo.ITeamRepository
	memberRepo repo.ITeamMemberRepository
	userRepo   repo.IUserRepository
	authz      *authz.Engine
	ruleset    *statemachine.Ruleset[statemachine.TeamRole]
}

func NewTeamService(teamRepo repo.ITeamRepository, memberRepo repo.ITeamMemberRepository, userRepo repo.IUserRepository, authzEngine *authz.Engine) *TeamService {
	return &TeamService{
		teamRepo:   teamRepo,
		memberRepo: memberRepo,
		userRepo:   userRepo,
		authz:      authzEngine,
		ruleset:    statemachine.NewTeamRoleRuleset(),
	}
}

// CreateTeam creates a team. The creator becomes its OWNER.
func (s *TeamService) CreateTeam(actor *model.User, req *model.CreateTeamReq) (*model.TeamResp, error) {
	// 1. actor gate
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, err
	}

	// 2. team name uniqueness. Check-then-act; the unique index on name
	// is the backstop.
	exists, err := s.teamRepo.CheckTeamNameExists(req.Name)
	if err != nil {
		log.Errorw("check team name failed", "name", req.Name, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "check team name", err)
	}
	if exists {
		return nil, errs.Newf(errs.KindConflict, "team name %q already exists", req.Name)
	}

	// 3. settings
	settingsJSON, err := repo.ConvertSettingsToJSON(req.Settings)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "convert settings", err)
	}

	// 4. create the team
	teamEntity := &model.Team{
		TeamId:      id.GetUUID(),
		Name:        req.Name,
		Description: req.Description,
		Settings:    settingsJSON,
		Status:      model.TeamStatusActive,
		OwnerId:     actor.UserId,
	}
	if err := s.teamRepo.CreateTeam(teamEntity); err != nil {
		log.Errorw("create team failed", "name", req.Name, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "create team", err)
	}

	// 5. the creator joins as OWNER
	ownerMember := &model.TeamMember{
		TeamId: teamEntity.TeamId,
		UserId: actor.UserId,
		Role:   statemachine.RoleOwner,
		Status: model.MemberStatusActive,
	}
	if err := s.memberRepo.AddMember(ownerMember); err != nil {
		log.Errorw("add owner membership failed", "teamId", teamEntity.TeamId, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "add owner membership", err)
	}

	log.Infow("team created", "teamId", teamEntity.TeamId, "name", req.Name, "owner", actor.UserId)
	return model.ToTeamResp(teamEntity), nil
}

// GetTeam returns a team visible to the actor. Members and system
// admins only.
func (s *TeamService) GetTeam(actor *model.User, teamId string) (*model.TeamResp, error) {
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, err
	}

	teamEntity, err := s.loadTeam(teamId)
	if err != nil {
		return nil, err
	}

	if !authz.IsSystemAdmin(actor) {
		member, err := s.authz.Resolver().IsTeamMember(teamId, actor.UserId)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, errs.New(errs.KindAccessDenied, "not a member of the team")
		}
	}

	return model.ToTeamResp(teamEntity), nil
}

// UpdateTeam updates name, description or settings. OWNER only.
func (s *TeamService) UpdateTeam(actor *model.User, teamId string, req *model.UpdateTeamReq) (*model.TeamResp, error) {
	// 1. actor gate
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, err
	}

	// 2. load target
	teamEntity, err := s.loadTeam(teamId)
	if err != nil {
		return nil, err
	}

	// 3. capability check, same rule as membership management
	decision, err := s.authz.CanManageMembers(actor, teamId)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, errs.New(errs.KindAccessDenied, decision.Reason)
	}

	// 4. build updates
	updates := make(map[string]interface{})

	if req.Name != nil && *req.Name != "" && *req.Name != teamEntity.Name {
		exists, err := s.teamRepo.CheckTeamNameExists(*req.Name, teamId)
		if err != nil {
			return nil, errs.Wrap(errs.KindInternal, "check team name", err)
		}
		if exists {
			return nil, errs.Newf(errs.KindConflict, "team name %q already exists", *req.Name)
		}
		updates["name"] = *req.Name
		teamEntity.Name = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
		teamEntity.Description = *req.Description
	}
	if req.Settings != nil {
		settingsJSON, err := repo.ConvertSettingsToJSON(req.Settings)
		if err != nil {
			return nil, errs.Wrap(errs.KindInternal, "convert settings", err)
		}
		updates["settings"] = settingsJSON
		teamEntity.Settings = settingsJSON
	}

	if len(updates) == 0 {
		return model.ToTeamResp(teamEntity), nil
	}

	// 5. save
	if err := s.teamRepo.UpdateTeam(teamId, updates); err != nil {
		log.Errorw("update team failed", "teamId", teamId, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "update team", err)
	}

	return model.ToTeamResp(teamEntity), nil
}

// DeleteTeam soft-deletes a team. OWNER only.
func (s *TeamService) DeleteTeam(actor *model.User, teamId string) error {
	// 1. actor gate
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return err
	}

	// 2. load target
	if _, err := s.loadTeam(teamId); err != nil {
		return err
	}

	// 3. capability check
	decision, err := s.authz.CanManageMembers(actor, teamId)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return errs.New(errs.KindAccessDenied, decision.Reason)
	}

	// 4. save
	if err := s.teamRepo.UpdateTeamStatus(teamId, model.TeamStatusDeleted); err != nil {
		log.Errorw("delete team failed", "teamId", teamId, "error", err)
		return errs.Wrap(errs.KindInternal, "delete team", err)
	}

	log.Infow("team deleted", "teamId", teamId, "actor", actor.UserId)
	return nil
}

// AddMember adds a user to the team. OWNER only, no system admin
// override.
func (s *TeamService) AddMember(actor *model.User, teamId string, req *model.AddTeamMemberReq) (*model.TeamMemberResp, error) {
	// 1. actor gate
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, err
	}

	// 2. load target team
	if _, err := s.loadTeam(teamId); err != nil {
		return nil, err
	}

	// 3. capability check
	decision, err := s.authz.CanManageMembers(actor, teamId)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, errs.New(errs.KindAccessDenied, decision.Reason)
	}

	// 4. the user must exist and be active
	userEntity, err := s.userRepo.GetUserById(req.UserId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Newf(errs.KindNotFound, "user %s not found", req.UserId)
		}
		return nil, errs.Wrap(errs.KindInternal, "get user", err)
	}
	if !authz.IsActiveUser(userEntity) {
		return nil, errs.Newf(errs.KindInvariantViolation, "user %s is not active", req.UserId)
	}

	// 5. new members join as MEMBER or ADMIN; owners are promoted later
	role := req.Role
	if role == "" {
		role = statemachine.RoleMember
	}
	if role == statemachine.RoleOwner {
		return nil, errs.New(errs.KindInvariantViolation, "members cannot join as owner; promote them after joining")
	}
	if !role.IsValid() {
		return nil, errs.Newf(errs.KindInvalidTransition, "unknown team role %q", role)
	}

	// 6. reuse a removed membership row when one exists
	existing, err := s.memberRepo.GetMember(teamId, req.UserId)
	switch {
	case err == nil && existing.Status == model.MemberStatusActive:
		return nil, errs.Newf(errs.KindConflict, "user %s is already a member", req.UserId)
	case err == nil:
		if err := s.memberRepo.ReactivateMember(teamId, req.UserId, role); err != nil {
			log.Errorw("reactivate member failed", "teamId", teamId, "userId", req.UserId, "error", err)
			return nil, errs.Wrap(errs.KindInternal, "reactivate member", err)
		}
		existing.Status = model.MemberStatusActive
		existing.Role = role
		return model.ToTeamMemberResp(existing), nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, errs.Wrap(errs.KindInternal, "get member", err)
	}

	memberEntity := &model.TeamMember{
		TeamId: teamId,
		UserId: req.UserId,
		Role:   role,
		Status: model.MemberStatusActive,
	}
	if err := s.memberRepo.AddMember(memberEntity); err != nil {
		log.Errorw("add member failed", "teamId", teamId, "userId", req.UserId, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "add member", err)
	}

	log.Infow("member added", "teamId", teamId, "userId", req.UserId, "role", role, "actor", actor.UserId)
	return model.ToTeamMemberResp(memberEntity), nil
}

// RemoveMember removes a member from the team. OWNER only, no system
// admin override. The owner cannot remove themself.
func (s *TeamService) RemoveMember(actor *model.User, teamId, userId string) error {
	// 1. actor gate
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return err
	}

	// 2. load target team
	if _, err := s.loadTeam(teamId); err != nil {
		return err
	}

	// 3. capability check
	decision, err := s.authz.CanManageMembers(actor, teamId)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return errs.New(errs.KindAccessDenied, decision.Reason)
	}

	// 4. the membership must exist
	memberEntity, err := s.memberRepo.GetActiveMember(teamId, userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Newf(errs.KindNotFound, "user %s is not a member of the team", userId)
		}
		return errs.Wrap(errs.KindInternal, "get member", err)
	}

	// 5. owners cannot remove themselves, ownership moves first
	if authz.IsSelf(actor, userId) && memberEntity.Role == statemachine.RoleOwner {
		return errs.New(errs.KindInvariantViolation, "owners cannot remove themselves; transfer ownership first")
	}

	// 6. removing the last owner would orphan the team
	if memberEntity.Role == statemachine.RoleOwner {
		owners, err := s.memberRepo.CountActiveOwners(teamId)
		if err != nil {
			return errs.Wrap(errs.KindInternal, "count owners", err)
		}
		if owners <= 1 {
			return errs.New(errs.KindInvariantViolation, "cannot remove the last owner of the team")
		}
	}

	// 7. save
	if err := s.memberRepo.UpdateMemberStatus(teamId, userId, model.MemberStatusRemoved); err != nil {
		log.Errorw("remove member failed", "teamId", teamId, "userId", userId, "error", err)
		return errs.Wrap(errs.KindInternal, "remove member", err)
	}

	log.Infow("member removed", "teamId", teamId, "userId", userId, "actor", actor.UserId)
	return nil
}

// UpdateMemberRole changes a member's team role. OWNER only, no system
// admin override. Role changes run through the role ruleset; the
// last-owner and self-demotion invariants are checked before any write.
func (s *TeamService) UpdateMemberRole(actor *model.User, teamId, userId string, req *model.UpdateMemberRoleReq) (*model.TeamMemberResp, error) {
	// 1. actor gate
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, err
	}

	// 2. load target team
	if _, err := s.loadTeam(teamId); err != nil {
		return nil, err
	}

	// 3. capability check
	decision, err := s.authz.CanManageMembers(actor, teamId)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, errs.New(errs.KindAccessDenied, decision.Reason)
	}

	// 4. the membership must exist
	memberEntity, err := s.memberRepo.GetActiveMember(teamId, userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Newf(errs.KindNotFound, "user %s is not a member of the team", userId)
		}
		return nil, errs.Wrap(errs.KindInternal, "get member", err)
	}

	// 5. role transition validation
	if !req.Role.IsValid() {
		return nil, errs.Newf(errs.KindInvalidTransition, "unknown team role %q", req.Role)
	}
	if err := s.ruleset.Validate(memberEntity.Role, req.Role); err != nil {
		metrics.RecordRejectedTransition("team_role")
		return nil, errs.Wrap(errs.KindInvalidTransition, "team role", err)
	}

	// 6. invariants, checked before any write
	if authz.IsSelf(actor, userId) {
		return nil, errs.New(errs.KindInvariantViolation, "owners cannot change their own role")
	}
	if memberEntity.Role == statemachine.RoleOwner {
		owners, err := s.memberRepo.CountActiveOwners(teamId)
		if err != nil {
			return nil, errs.Wrap(errs.KindInternal, "count owners", err)
		}
		if owners <= 1 {
			return nil, errs.New(errs.KindInvariantViolation, "cannot demote the last owner of the team")
		}
	}

	// 7. save
	if err := s.memberRepo.UpdateMemberRole(teamId, userId, req.Role); err != nil {
		log.Errorw("update member role failed", "teamId", teamId, "userId", userId, "role", req.Role, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "update member role", err)
	}

	log.Infow("member role changed", "teamId", teamId, "userId", userId, "from", memberEntity.Role, "to", req.Role, "actor", actor.UserId)
	memberEntity.Role = req.Role
	return model.ToTeamMemberResp(memberEntity), nil
}

// ListMembers lists the team's active members. Members and system
// admins only.
func (s *TeamService) ListMembers(actor *model.User, teamId string) ([]*model.TeamMemberResp, error) {
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, err
	}

	if _, err := s.loadTeam(teamId); err != nil {
		return nil, err
	}

	if !authz.IsSystemAdmin(actor) {
		member, err := s.authz.Resolver().IsTeamMember(teamId, actor.UserId)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, errs.New(errs.KindAccessDenied, "not a member of the team")
		}
	}

	members, err := s.memberRepo.ListMembers(teamId)
	if err != nil {
		log.Errorw("list members failed", "teamId", teamId, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "list members", err)
	}

	resp := make([]*model.TeamMemberResp, 0, len(members))
	for _, m := range members {
		resp = append(resp, model.ToTeamMemberResp(m))
	}
	return resp, nil
}

// ListMyTeams lists the teams the actor is an active member of. Deleted
// teams are skipped even when the membership row survived them.
func (s *TeamService) ListMyTeams(actor *model.User) ([]*model.TeamResp, error) {
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, err
	}

	memberships, err := s.memberRepo.ListTeamsOfUser(actor.UserId)
	if err != nil {
		log.Errorw("list teams of user failed", "userId", actor.UserId, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "list teams of user", err)
	}

	resp := make([]*model.TeamResp, 0, len(memberships))
	for _, m := range memberships {
		teamEntity, err := s.teamRepo.GetTeamById(m.TeamId)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, errs.Wrap(errs.KindInternal, "get team", err)
		}
		if teamEntity.Status == model.TeamStatusDeleted {
			continue
		}
		resp = append(resp, model.ToTeamResp(teamEntity))
	}
	return resp, nil
}

// loadTeam loads an active team.
func (s *TeamService) loadTeam(teamId string) (*model.Team, error) {
	teamEntity, err := s.teamRepo.GetActiveTeam(teamId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Newf(errs.KindNotFound, "team %s not found", teamId)
		}
		return nil, errs.Wrap(errs.KindInternal, "get team", err)
	}
	return teamEntity, nil
}
