package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/go-taskhub/taskhub/internal/engine/authz"
	"github.com/go-taskhub/taskhub/internal/engine/model"
	"github.com/go-taskhub/taskhub/pkg/statemachine"
	"gorm.io/gorm"
)

// In-memory repositories backing the service tests.

type memUserRepo struct {
	users map[string]*model.User
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{users: map[string]*model.User{}} }

func (f *memUserRepo) CreateUser(u *model.User) error {
	f.users[u.UserId] = u
	return nil
}

func (f *memUserRepo) GetUserById(userId string) (*model.User, error) {
	u, ok := f.users[userId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *memUserRepo) GetUserByUsername(username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *memUserRepo) GetUserByEmail(email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *memUserRepo) UpdateUser(userId string, updates map[string]interface{}) error { return nil }

func (f *memUserRepo) UpdateUserStatus(userId string, status model.UserStatus) error {
	if u, ok := f.users[userId]; ok {
		u.Status = status
	}
	return nil
}

func (f *memUserRepo) UpdateSystemRole(userId string, role model.SystemRole) error {
	if u, ok := f.users[userId]; ok {
		u.SystemRole = role
	}
	return nil
}

func (f *memUserRepo) CheckUsernameExists(username string) (bool, error) {
	_, err := f.GetUserByUsername(username)
	return err == nil, nil
}

func (f *memUserRepo) CheckEmailExists(email string) (bool, error) {
	_, err := f.GetUserByEmail(email)
	return err == nil, nil
}

func (f *memUserRepo) CountActiveAdmins() (int64, error) {
	var n int64
	for _, u := range f.users {
		if u.SystemRole == model.SystemRoleAdmin && u.Status == model.UserStatusActive {
			n++
		}
	}
	return n, nil
}

func (f *memUserRepo) ListUsers(page, pageSize int) ([]*model.User, int64, error) {
	var out []*model.User
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserId < out[j].UserId })
	return out, int64(len(out)), nil
}

type memTeamRepo struct {
	teams map[string]*model.Team
}

func newMemTeamRepo() *memTeamRepo { return &memTeamRepo{teams: map[string]*model.Team{}} }

func (f *memTeamRepo) CreateTeam(t *model.Team) error {
	f.teams[t.TeamId] = t
	return nil
}

func (f *memTeamRepo) GetTeamById(teamId string) (*model.Team, error) {
	t, ok := f.teams[teamId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (f *memTeamRepo) GetActiveTeam(teamId string) (*model.Team, error) {
	t, ok := f.teams[teamId]
	if !ok || t.Status != model.TeamStatusActive {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (f *memTeamRepo) UpdateTeam(teamId string, updates map[string]interface{}) error { return nil }

func (f *memTeamRepo) UpdateTeamStatus(teamId string, status model.TeamStatus) error {
	if t, ok := f.teams[teamId]; ok {
		t.Status = status
	}
	return nil
}

func (f *memTeamRepo) CheckTeamNameExists(name string, excludeTeamId ...string) (bool, error) {
	for _, t := range f.teams {
		if len(excludeTeamId) > 0 && t.TeamId == excludeTeamId[0] {
			continue
		}
		if t.Name == name && t.Status != model.TeamStatusDeleted {
			return true, nil
		}
	}
	return false, nil
}

func (f *memTeamRepo) ListTeams(page, pageSize int) ([]*model.Team, int64, error) {
	return nil, 0, nil
}

type memMemberRepo struct {
	members map[string]*model.TeamMember
}

func newMemMemberRepo() *memMemberRepo {
	return &memMemberRepo{members: map[string]*model.TeamMember{}}
}

func (f *memMemberRepo) key(teamId, userId string) string { return teamId + "/" + userId }

func (f *memMemberRepo) AddMember(m *model.TeamMember) error {
	f.members[f.key(m.TeamId, m.UserId)] = m
	return nil
}

func (f *memMemberRepo) GetMember(teamId, userId string) (*model.TeamMember, error) {
	m, ok := f.members[f.key(teamId, userId)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (f *memMemberRepo) GetActiveMember(teamId, userId string) (*model.TeamMember, error) {
	m, ok := f.members[f.key(teamId, userId)]
	if !ok || m.Status != model.MemberStatusActive {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (f *memMemberRepo) UpdateMemberRole(teamId, userId string, role statemachine.TeamRole) error {
	if m, ok := f.members[f.key(teamId, userId)]; ok {
		m.Role = role
	}
	return nil
}

func (f *memMemberRepo) UpdateMemberStatus(teamId, userId string, status model.MemberStatus) error {
	if m, ok := f.members[f.key(teamId, userId)]; ok {
		m.Status = status
	}
	return nil
}

func (f *memMemberRepo) ReactivateMember(teamId, userId string, role statemachine.TeamRole) error {
	if m, ok := f.members[f.key(teamId, userId)]; ok {
		m.Status = model.MemberStatusActive
		m.Role = role
	}
	return nil
}

func (f *memMemberRepo) CountActiveOwners(teamId string) (int64, error) {
	var n int64
	for _, m := range f.members {
		if m.TeamId == teamId && m.Role == statemachine.RoleOwner && m.Status == model.MemberStatusActive {
			n++
		}
	}
	return n, nil
}

func (f *memMemberRepo) ListMembers(teamId string) ([]*model.TeamMember, error) {
	var out []*model.TeamMember
	for _, m := range f.members {
		if m.TeamId == teamId && m.Status == model.MemberStatusActive {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *memMemberRepo) ListTeamsOfUser(userId string) ([]*model.TeamMember, error) {
	var out []*model.TeamMember
	for _, m := range f.members {
		if m.UserId == userId && m.Status == model.MemberStatusActive {
			out = append(out, m)
		}
	}
	return out, nil
}

type memProjectRepo struct {
	projects map[string]*model.Project
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{projects: map[string]*model.Project{}}
}

func (f *memProjectRepo) CreateProject(p *model.Project) error {
	f.projects[p.ProjectId] = p
	return nil
}

func (f *memProjectRepo) GetProjectById(projectId string) (*model.Project, error) {
	p, ok := f.projects[projectId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *memProjectRepo) GetProjectNotDeleted(projectId string) (*model.Project, error) {
	p, ok := f.projects[projectId]
	if !ok || p.Status == statemachine.ProjectDeleted {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *memProjectRepo) UpdateProject(projectId string, updates map[string]interface{}) error {
	return nil
}

func (f *memProjectRepo) UpdateProjectStatus(projectId string, status statemachine.ProjectStatus) error {
	if p, ok := f.projects[projectId]; ok {
		p.Status = status
	}
	return nil
}

func (f *memProjectRepo) TransferProject(projectId, targetTeamId string) error {
	if p, ok := f.projects[projectId]; ok {
		p.TeamId = targetTeamId
	}
	return nil
}

func (f *memProjectRepo) CheckProjectNameExists(teamId, name string, excludeProjectId ...string) (bool, error) {
	for _, p := range f.projects {
		if len(excludeProjectId) > 0 && p.ProjectId == excludeProjectId[0] {
			continue
		}
		if p.TeamId == teamId && p.Name == name && p.Status != statemachine.ProjectDeleted {
			return true, nil
		}
	}
	return false, nil
}

func (f *memProjectRepo) ListProjectsByTeam(teamId string, page, pageSize int) ([]*model.Project, int64, error) {
	var out []*model.Project
	for _, p := range f.projects {
		if p.TeamId == teamId && p.Status != statemachine.ProjectDeleted {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (f *memProjectRepo) ListAllProjects(page, pageSize int) ([]*model.Project, int64, error) {
	var out []*model.Project
	for _, p := range f.projects {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

type memTaskRepo struct {
	tasks map[string]*model.Task
}

func newMemTaskRepo() *memTaskRepo { return &memTaskRepo{tasks: map[string]*model.Task{}} }

func (f *memTaskRepo) CreateTask(t *model.Task) error {
	f.tasks[t.TaskId] = t
	return nil
}

func (f *memTaskRepo) GetTaskById(taskId string) (*model.Task, error) {
	t, ok := f.tasks[taskId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (f *memTaskRepo) GetTaskNotDeleted(taskId string) (*model.Task, error) {
	t, ok := f.tasks[taskId]
	if !ok || t.Status == statemachine.TaskDeleted {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (f *memTaskRepo) UpdateTask(taskId string, updates map[string]interface{}) error { return nil }

func (f *memTaskRepo) UpdateTaskStatus(taskId string, status statemachine.TaskStatus) error {
	if t, ok := f.tasks[taskId]; ok {
		t.Status = status
	}
	return nil
}

func (f *memTaskRepo) AssignTask(taskId string, assigneeId *string) error {
	if t, ok := f.tasks[taskId]; ok {
		t.AssignedTo = assigneeId
	}
	return nil
}

func (f *memTaskRepo) CheckTaskTitleExists(projectId, title string, excludeTaskId ...string) (bool, error) {
	for _, t := range f.tasks {
		if len(excludeTaskId) > 0 && t.TaskId == excludeTaskId[0] {
			continue
		}
		if t.ProjectId == projectId && strings.EqualFold(t.Title, title) && t.Status != statemachine.TaskDeleted {
			return true, nil
		}
	}
	return false, nil
}

func (f *memTaskRepo) ListTasks(query *model.TaskQueryReq) ([]*model.Task, int64, error) {
	var out []*model.Task
	for _, t := range f.tasks {
		if t.Status == statemachine.TaskDeleted {
			continue
		}
		if query.ProjectId != "" && t.ProjectId != query.ProjectId {
			continue
		}
		if query.Status != "" && t.Status != query.Status {
			continue
		}
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (f *memTaskRepo) ListAllTasks(page, pageSize int) ([]*model.Task, int64, error) {
	var out []*model.Task
	for _, t := range f.tasks {
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

type memCommentRepo struct {
	comments map[string]*model.Comment
}

func newMemCommentRepo() *memCommentRepo {
	return &memCommentRepo{comments: map[string]*model.Comment{}}
}

func (f *memCommentRepo) CreateComment(c *model.Comment) error {
	f.comments[c.CommentId] = c
	return nil
}

func (f *memCommentRepo) GetCommentById(commentId string) (*model.Comment, error) {
	c, ok := f.comments[commentId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *memCommentRepo) UpdateCommentContent(commentId, content string) error {
	if c, ok := f.comments[commentId]; ok {
		c.Content = content
	}
	return nil
}

func (f *memCommentRepo) UpdateCommentStatus(commentId string, status model.AnnotationStatus) error {
	if c, ok := f.comments[commentId]; ok {
		c.Status = status
	}
	return nil
}

func (f *memCommentRepo) ListCommentsByTask(taskId string) ([]*model.Comment, error) {
	var out []*model.Comment
	for _, c := range f.comments {
		if c.TaskId == taskId && c.Status == model.AnnotationStatusActive {
			out = append(out, c)
		}
	}
	return out, nil
}

type memAttachmentRepo struct {
	attachments map[string]*model.Attachment
}

func newMemAttachmentRepo() *memAttachmentRepo {
	return &memAttachmentRepo{attachments: map[string]*model.Attachment{}}
}

func (f *memAttachmentRepo) CreateAttachment(a *model.Attachment) error {
	f.attachments[a.AttachmentId] = a
	return nil
}

func (f *memAttachmentRepo) GetAttachmentById(attachmentId string) (*model.Attachment, error) {
	a, ok := f.attachments[attachmentId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (f *memAttachmentRepo) UpdateAttachmentStatus(attachmentId string, status model.AnnotationStatus) error {
	if a, ok := f.attachments[attachmentId]; ok {
		a.Status = status
	}
	return nil
}

func (f *memAttachmentRepo) ListAttachmentsByTask(taskId string) ([]*model.Attachment, error) {
	var out []*model.Attachment
	for _, a := range f.attachments {
		if a.TaskId == taskId && a.Status == model.AnnotationStatusActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *memAttachmentRepo) ListAllAttachments(page, pageSize int) ([]*model.Attachment, int64, error) {
	var out []*model.Attachment
	for _, a := range f.attachments {
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

type memTokenRepo struct {
	tokens map[string]*model.TokenInfo
}

func newMemTokenRepo() *memTokenRepo { return &memTokenRepo{tokens: map[string]*model.TokenInfo{}} }

func (f *memTokenRepo) SetTokenInfo(ctx context.Context, userId string, info *model.TokenInfo, ttl time.Duration) error {
	f.tokens[userId] = info
	return nil
}

func (f *memTokenRepo) GetTokenInfo(ctx context.Context, userId string) (*model.TokenInfo, error) {
	info, ok := f.tokens[userId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return info, nil
}

func (f *memTokenRepo) DelTokenInfo(ctx context.Context, userId string) error {
	delete(f.tokens, userId)
	return nil
}

// fixture wires the services over the in-memory repositories.
type fixture struct {
	users       *memUserRepo
	teams       *memTeamRepo
	members     *memMemberRepo
	projects    *memProjectRepo
	tasks       *memTaskRepo
	comments    *memCommentRepo
	attachments *memAttachmentRepo
	tokens      *memTokenRepo

	engine *authz.Engine

	userSvc       *UserService
	teamSvc       *TeamService
	projectSvc    *ProjectService
	taskSvc       *TaskService
	commentSvc    *CommentService
	attachmentSvc *AttachmentService
	authSvc       *AuthService
}

func newFixture() *fixture {
	f := &fixture{
		users:       newMemUserRepo(),
		teams:       newMemTeamRepo(),
		members:     newMemMemberRepo(),
		projects:    newMemProjectRepo(),
		tasks:       newMemTaskRepo(),
		comments:    newMemCommentRepo(),
		attachments: newMemAttachmentRepo(),
		tokens:      newMemTokenRepo(),
	}
	f.engine = authz.NewEngine(authz.NewResolver(f.members, f.projects, f.tasks))
	f.userSvc = NewUserService(f.users, f.engine)
	f.teamSvc = NewTeamService(f.teams, f.members, f.users, f.engine)
	f.projectSvc = NewProjectService(f.projects, f.teams, f.engine)
	f.taskSvc = NewTaskService(f.tasks, f.engine)
	f.commentSvc = NewCommentService(f.comments, f.engine)
	f.attachmentSvc = NewAttachmentService(f.attachments, f.engine)
	f.authSvc = NewAuthService(f.users, f.tokens)
	return f
}

func (f *fixture) addUser(userId string, role model.SystemRole, status model.UserStatus) *model.User {
	u := &model.User{
		UserId:     userId,
		Username:   userId,
		Email:      userId + "@example.com",
		SystemRole: role,
		Status:     status,
	}
	f.users.users[userId] = u
	return u
}

func (f *fixture) addTeam(teamId, ownerId string) *model.Team {
	t := &model.Team{
		TeamId:  teamId,
		Name:    teamId,
		Status:  model.TeamStatusActive,
		OwnerId: ownerId,
	}
	f.teams.teams[teamId] = t
	_ = f.members.AddMember(&model.TeamMember{
		TeamId: teamId,
		UserId: ownerId,
		Role:   statemachine.RoleOwner,
		Status: model.MemberStatusActive,
	})
	return t
}

func (f *fixture) addMember(teamId, userId string, role statemachine.TeamRole) {
	_ = f.members.AddMember(&model.TeamMember{
		TeamId: teamId,
		UserId: userId,
		Role:   role,
		Status: model.MemberStatusActive,
	})
}

func (f *fixture) addProject(projectId, teamId string) *model.Project {
	p := &model.Project{
		ProjectId: projectId,
		TeamId:    teamId,
		Name:      projectId,
		Status:    statemachine.ProjectActive,
		StartDate: time.Now(),
		EndDate:   time.Now().Add(30 * 24 * time.Hour),
	}
	f.projects.projects[projectId] = p
	return p
}

func (f *fixture) addTask(taskId, projectId string, status statemachine.TaskStatus) *model.Task {
	t := &model.Task{
		TaskId:    taskId,
		ProjectId: projectId,
		Title:     taskId,
		Status:    status,
	}
	f.tasks.tasks[taskId] = t
	return t
}
