package authz

import (
	"github.com/go-taskhub/taskhub/internal/engine/errs"
	"github.com/go-taskhub/taskhub/internal/engine/model"
	"github.com/go-taskhub/taskhub/pkg/metrics"
	"github.com/go-taskhub/taskhub/pkg/statemachine"
)

// Operation names used for denial reasons and metrics labels.
const (
	OpAccessTask       = "accessTask"
	OpAccessComment    = "accessComment"
	OpAccessAttachment = "accessAttachment"
	OpCreateTask       = "createTaskInProject"
	OpModifyTask       = "modifyTask"
	OpDeleteTask       = "deleteTask"
	OpModifyComment    = "modifyComment"
	OpDeleteComment    = "deleteComment"
	OpAssignTask       = "assignTask"
	OpManageProject    = "manageProject"
	OpManageMembers    = "manageTeamMembers"
	OpCreateProject    = "createProject"
	OpTransferProject  = "transferProject"
	OpAdminListing     = "adminListing"
)

// Engine evaluates capability checks. Every method takes the resolved
// actor explicitly; there is no ambient security context.
type Engine struct {
	resolver *Resolver
}

func NewEngine(resolver *Resolver) *Engine {
	return &Engine{resolver: resolver}
}

func (e *Engine) record(op string, d Decision) Decision {
	metrics.RecordCheck(op, d.Allowed)
	return d
}

// RequireActiveActor is the hard gate run before any capability check.
// A missing actor and an inactive actor are distinct failures.
func (e *Engine) RequireActiveActor(actor *model.User) error {
	if actor == nil {
		return errs.New(errs.KindAuthenticationRequired, "no actor resolved")
	}
	if !IsActiveUser(actor) {
		return errs.Newf(errs.KindActorNotActive, "user %s is %s", actor.UserId, actor.Status)
	}
	return nil
}

// RequireSystemAdmin is the hard gate on transfers and admin-wide
// listings. Unlike the soft checks it raises instead of returning a
// Decision.
func (e *Engine) RequireSystemAdmin(actor *model.User) error {
	if err := e.RequireActiveActor(actor); err != nil {
		return err
	}
	if !IsSystemAdmin(actor) {
		metrics.RecordCheck(OpAdminListing, false)
		return errs.New(errs.KindAccessDenied, "system admin role required")
	}
	metrics.RecordCheck(OpAdminListing, true)
	return nil
}

// CanAccessTask allows system admins and any active member of the
// task's team. Also covers reading comments and attachments under the
// task.
func (e *Engine) CanAccessTask(actor *model.User, teamId string) (Decision, error) {
	if IsSystemAdmin(actor) {
		return e.record(OpAccessTask, Allow()), nil
	}
	member, err := e.resolver.IsTeamMember(teamId, actor.UserId)
	if err != nil {
		return Decision{}, err
	}
	if !member {
		return e.record(OpAccessTask, Deny("not a member of the owning team")), nil
	}
	return e.record(OpAccessTask, Allow()), nil
}

// CanCreateTask allows system admins and any active member of the
// project's team.
func (e *Engine) CanCreateTask(actor *model.User, teamId string) (Decision, error) {
	if IsSystemAdmin(actor) {
		return e.record(OpCreateTask, Allow()), nil
	}
	member, err := e.resolver.IsTeamMember(teamId, actor.UserId)
	if err != nil {
		return Decision{}, err
	}
	if !member {
		return e.record(OpCreateTask, Deny("not a member of the project's team")), nil
	}
	return e.record(OpCreateTask, Allow()), nil
}

// CanModifyTask allows system admins, team owners/admins, and the
// task's current assignee.
func (e *Engine) CanModifyTask(actor *model.User, teamId string, task *model.Task) (Decision, error) {
	if IsSystemAdmin(actor) {
		return e.record(OpModifyTask, Allow()), nil
	}
	elevated, err := e.resolver.HasTeamRole(teamId, actor.UserId, statemachine.RoleOwner, statemachine.RoleAdmin)
	if err != nil {
		return Decision{}, err
	}
	if elevated {
		return e.record(OpModifyTask, Allow()), nil
	}
	if task.AssignedTo != nil && IsSelf(actor, *task.AssignedTo) {
		return e.record(OpModifyTask, Allow()), nil
	}
	return e.record(OpModifyTask, Deny("requires team owner/admin role or being the assignee")), nil
}

// CanDeleteTask allows system admins and team owners/admins only. The
// assignee cannot delete their own task.
func (e *Engine) CanDeleteTask(actor *model.User, teamId string) (Decision, error) {
	if IsSystemAdmin(actor) {
		return e.record(OpDeleteTask, Allow()), nil
	}
	elevated, err := e.resolver.HasTeamRole(teamId, actor.UserId, statemachine.RoleOwner, statemachine.RoleAdmin)
	if err != nil {
		return Decision{}, err
	}
	if !elevated {
		return e.record(OpDeleteTask, Deny("requires team owner/admin role")), nil
	}
	return e.record(OpDeleteTask, Allow()), nil
}

// CanModifyComment allows system admins, team owners/admins, and the
// comment's author.
func (e *Engine) CanModifyComment(actor *model.User, teamId string, comment *model.Comment) (Decision, error) {
	if IsSystemAdmin(actor) {
		return e.record(OpModifyComment, Allow()), nil
	}
	if IsSelf(actor, comment.AuthorId) {
		return e.record(OpModifyComment, Allow()), nil
	}
	elevated, err := e.resolver.HasTeamRole(teamId, actor.UserId, statemachine.RoleOwner, statemachine.RoleAdmin)
	if err != nil {
		return Decision{}, err
	}
	if !elevated {
		return e.record(OpModifyComment, Deny("requires team owner/admin role or authorship")), nil
	}
	return e.record(OpModifyComment, Allow()), nil
}

// CanDeleteComment is the same rule as CanModifyComment: authors may
// delete their own comments, owners/admins may delete anyone's.
func (e *Engine) CanDeleteComment(actor *model.User, teamId string, comment *model.Comment) (Decision, error) {
	if IsSystemAdmin(actor) {
		return e.record(OpDeleteComment, Allow()), nil
	}
	if IsSelf(actor, comment.AuthorId) {
		return e.record(OpDeleteComment, Allow()), nil
	}
	elevated, err := e.resolver.HasTeamRole(teamId, actor.UserId, statemachine.RoleOwner, statemachine.RoleAdmin)
	if err != nil {
		return Decision{}, err
	}
	if !elevated {
		return e.record(OpDeleteComment, Deny("requires team owner/admin role or authorship")), nil
	}
	return e.record(OpDeleteComment, Allow()), nil
}

// CanAssignTask allows system admins unconditionally. Otherwise the
// assignee must be an active member of the team, and the actor must be
// a team owner/admin or be assigning the task to themself.
func (e *Engine) CanAssignTask(actor *model.User, teamId, assigneeId string) (Decision, error) {
	if IsSystemAdmin(actor) {
		return e.record(OpAssignTask, Allow()), nil
	}
	assigneeMember, err := e.resolver.IsTeamMember(teamId, assigneeId)
	if err != nil {
		return Decision{}, err
	}
	if !assigneeMember {
		return e.record(OpAssignTask, Deny("assignee is not an active member of the team")), nil
	}
	if IsSelf(actor, assigneeId) {
		return e.record(OpAssignTask, Allow()), nil
	}
	elevated, err := e.resolver.HasTeamRole(teamId, actor.UserId, statemachine.RoleOwner, statemachine.RoleAdmin)
	if err != nil {
		return Decision{}, err
	}
	if !elevated {
		return e.record(OpAssignTask, Deny("requires team owner/admin role or self-assignment")), nil
	}
	return e.record(OpAssignTask, Allow()), nil
}

// CanManageProject covers updating, archiving, and deleting a project.
// System admins and team owners/admins.
func (e *Engine) CanManageProject(actor *model.User, teamId string) (Decision, error) {
	if IsSystemAdmin(actor) {
		return e.record(OpManageProject, Allow()), nil
	}
	elevated, err := e.resolver.HasTeamRole(teamId, actor.UserId, statemachine.RoleOwner, statemachine.RoleAdmin)
	if err != nil {
		return Decision{}, err
	}
	if !elevated {
		return e.record(OpManageProject, Deny("requires team owner/admin role")), nil
	}
	return e.record(OpManageProject, Allow()), nil
}

// CanManageMembers covers adding, removing, and changing roles of team
// members. Only the team OWNER may do this; the system admin role does
// not override membership management.
func (e *Engine) CanManageMembers(actor *model.User, teamId string) (Decision, error) {
	owner, err := e.resolver.HasTeamRole(teamId, actor.UserId, statemachine.RoleOwner)
	if err != nil {
		return Decision{}, err
	}
	if !owner {
		return e.record(OpManageMembers, Deny("requires team OWNER role")), nil
	}
	return e.record(OpManageMembers, Allow()), nil
}

// CanCreateProject requires the team OWNER role on the target team.
// There is no member fallback and no system admin override.
func (e *Engine) CanCreateProject(actor *model.User, teamId string) (Decision, error) {
	owner, err := e.resolver.HasTeamRole(teamId, actor.UserId, statemachine.RoleOwner)
	if err != nil {
		return Decision{}, err
	}
	if !owner {
		return e.record(OpCreateProject, Deny("requires team OWNER role on the target team")), nil
	}
	return e.record(OpCreateProject, Allow()), nil
}

// CanListForAdmin is the soft form of the admin gate. Most admin-wide
// listings use the hard RequireSystemAdmin instead; this form exists
// for call sites that consume the Decision themselves.
func (e *Engine) CanListForAdmin(actor *model.User) Decision {
	if IsSystemAdmin(actor) {
		return e.record(OpAdminListing, Allow())
	}
	return e.record(OpAdminListing, Deny("system admin role required"))
}

// Resolver exposes the relationship resolver for parent lookups.
func (e *Engine) Resolver() *Resolver {
	return e.resolver
}
