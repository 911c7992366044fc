package service

import (
	"testing"

	"github.com/go-taskhub/taskhub/internal/engine/errs"
	"github.com/go-taskhub/taskhub/internal/engine/model"
	"github.com/go-taskhub/taskhub/pkg/statemachine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTask_TitleConflictCaseInsensitive(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", model.SystemRoleMember, model.UserStatusActive)
	f.addTeam("team-1", "owner")
	f.addProject("p1", "team-1")

	first, err := f.taskSvc.CreateTask(owner, &model.CreateTaskReq{
		ProjectId: "p1",
		Title:     "Fix login flow",
	})
	require.NoError(t, err)
	assert.Equal(t, statemachine.TaskToDo, first.Status)

	_, err = f.taskSvc.CreateTask(owner, &model.CreateTaskReq{
		ProjectId: "p1",
		Title:     "FIX LOGIN FLOW",
	})
	require.Error(t, err)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
}

func TestCreateTask_OutsiderDenied(t *testing.T) {
	f := newFixture()
	f.addUser("owner", model.SystemRoleMember, model.UserStatusActive)
	outsider := f.addUser("outsider", model.SystemRoleMember, model.UserStatusActive)
	f.addTeam("team-1", "owner")
	f.addProject("p1", "team-1")

	_, err := f.taskSvc.CreateTask(outsider, &model.CreateTaskReq{
		ProjectId: "p1",
		Title:     "sneaky",
	})
	require.Error(t, err)
	assert.True(t, errs.IsAccessDenied(err))
}

func TestCreateTask_InactiveActorRejectedBeforeChecks(t *testing.T) {
	f := newFixture()
	suspended := f.addUser("s1", model.SystemRoleMember, model.UserStatusSuspended)
	f.addTeam("team-1", "s1")
	f.addProject("p1", "team-1")

	_, err := f.taskSvc.CreateTask(suspended, &model.CreateTaskReq{ProjectId: "p1", Title: "x"})
	require.Error(t, err)
	assert.Equal(t, errs.KindActorNotActive, errs.KindOf(err))
}

func TestUpdateTaskStatus_Transitions(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", model.SystemRoleMember, model.UserStatusActive)
	f.addTeam("team-1", "owner")
	f.addProject("p1", "team-1")

	tests := []struct {
		name     string
		from     statemachine.TaskStatus
		to       statemachine.TaskStatus
		wantKind errs.Kind
	}{
		{"todo to in_progress", statemachine.TaskToDo, statemachine.TaskInProgress, errs.KindUnknown},
		{"todo straight to done", statemachine.TaskToDo, statemachine.TaskDone, errs.KindInvalidTransition},
		{"blocked to done", statemachine.TaskBlocked, statemachine.TaskDone, errs.KindInvalidTransition},
		{"blocked to todo", statemachine.TaskBlocked, statemachine.TaskToDo, errs.KindUnknown},
		{"same state", statemachine.TaskInProgress, statemachine.TaskInProgress, errs.KindInvalidTransition},
		{"into deleted via status change", statemachine.TaskToDo, statemachine.TaskDeleted, errs.KindInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.addTask("t-"+tt.name, "p1", tt.from)
			resp, err := f.taskSvc.UpdateTaskStatus(owner, "t-"+tt.name, &model.UpdateTaskStatusReq{Status: tt.to})
			if tt.wantKind == errs.KindUnknown {
				require.NoError(t, err)
				assert.Equal(t, tt.to, resp.Status)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, errs.KindOf(err))
			}
		})
	}
}

func TestUpdateTaskStatus_DeletedTaskIsInvisible(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", model.SystemRoleMember, model.UserStatusActive)
	f.addTeam("team-1", "owner")
	f.addProject("p1", "team-1")
	f.addTask("t1", "p1", statemachine.TaskDeleted)

	_, err := f.taskSvc.UpdateTaskStatus(owner, "t1", &model.UpdateTaskStatusReq{Status: statemachine.TaskToDo})
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err), "no transition out of DELETED, the task reads as absent")
}

func TestGetTaskForAdmin_SeesDeleted(t *testing.T) {
	f := newFixture()
	admin := f.addUser("root", model.SystemRoleAdmin, model.UserStatusActive)
	owner := f.addUser("owner", model.SystemRoleMember, model.UserStatusActive)
	f.addTeam("team-1", "owner")
	f.addProject("p1", "team-1")
	f.addTask("t1", "p1", statemachine.TaskDeleted)

	resp, err := f.taskSvc.GetTaskForAdmin(admin, "t1")
	require.NoError(t, err)
	assert.Equal(t, statemachine.TaskDeleted, resp.Status)

	_, err = f.taskSvc.GetTaskForAdmin(owner, "t1")
	require.Error(t, err)
	assert.True(t, errs.IsAccessDenied(err))
}

func TestUpdateTask_AssigneeWithoutElevatedRole(t *testing.T) {
	f := newFixture()
	f.addUser("owner", model.SystemRoleMember, model.UserStatusActive)
	assignee := f.addUser("worker", model.SystemRoleMember, model.UserStatusActive)
	plain := f.addUser("plain", model.SystemRoleMember, model.UserStatusActive)
	f.addTeam("team-1", "owner")
	f.addMember("team-1", "worker", statemachine.RoleMember)
	f.addMember("team-1", "plain", statemachine.RoleMember)
	f.addProject("p1", "team-1")
	task := f.addTask("t1", "p1", statemachine.TaskToDo)
	workerId := "worker"
	task.AssignedTo = &workerId

	desc := "updated by assignee"
	_, err := f.taskSvc.UpdateTask(assignee, "t1", &model.UpdateTaskReq{Description: &desc})
	require.NoError(t, err)

	_, err = f.taskSvc.UpdateTask(plain, "t1", &model.UpdateTaskReq{Description: &desc})
	require.Error(t, err)
	assert.True(t, errs.IsAccessDenied(err))
}

func TestAssignTask_Rules(t *testing.T) {
	f := newFixture()
	f.addUser("owner", model.SystemRoleMember, model.UserStatusActive)
	plain := f.addUser("plain", model.SystemRoleMember, model.UserStatusActive)
	f.addUser("other", model.SystemRoleMember, model.UserStatusActive)
	f.addTeam("team-1", "owner")
	f.addMember("team-1", "plain", statemachine.RoleMember)
	f.addMember("team-1", "other", statemachine.RoleMember)
	f.addProject("p1", "team-1")
	f.addTask("t1", "p1", statemachine.TaskToDo)

	// self-assignment needs no elevated role
	resp, err := f.taskSvc.AssignTask(plain, "t1", &model.AssignTaskReq{AssigneeId: "plain"})
	require.NoError(t, err)
	require.NotNil(t, resp.AssignedTo)
	assert.Equal(t, "plain", *resp.AssignedTo)

	// a plain member cannot assign to a third party
	_, err = f.taskSvc.AssignTask(plain, "t1", &model.AssignTaskReq{AssigneeId: "other"})
	require.Error(t, err)
	assert.True(t, errs.IsAccessDenied(err))

	// the assignee must belong to the team
	f.addUser("stranger", model.SystemRoleMember, model.UserStatusActive)
	ownerActor, _ := f.users.GetUserById("owner")
	_, err = f.taskSvc.AssignTask(ownerActor, "t1", &model.AssignTaskReq{AssigneeId: "stranger"})
	require.Error(t, err)
	assert.True(t, errs.IsAccessDenied(err))
}

func TestDeleteTask_ThenInvisible(t *testing.T) {
	f := newFixture()
	owner := f.addUser("owner", model.SystemRoleMember, model.UserStatusActive)
	plain := f.addUser("plain", model.SystemRoleMember, model.UserStatusActive)
	f.addTeam("team-1", "owner")
	f.addMember("team-1", "plain", statemachine.RoleMember)
	f.addProject("p1", "team-1")
	f.addTask("t1", "p1", statemachine.TaskToDo)

	// a plain member cannot delete
	err := f.taskSvc.DeleteTask(plain, "t1")
	require.Error(t, err)
	assert.True(t, errs.IsAccessDenied(err))

	require.NoError(t, f.taskSvc.DeleteTask(owner, "t1"))

	_, err = f.taskSvc.GetTask(owner, "t1")
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestListAllTasksForAdmin_HardGate(t *testing.T) {
	f := newFixture()
	admin := f.addUser("root", model.SystemRoleAdmin, model.UserStatusActive)
	plain := f.addUser("plain", model.SystemRoleMember, model.UserStatusActive)
	f.addTeam("team-1", "plain")
	f.addProject("p1", "team-1")
	f.addTask("t1", "p1", statemachine.TaskToDo)
	f.addTask("t2", "p1", statemachine.TaskDeleted)

	_, err := f.taskSvc.ListAllTasksForAdmin(plain, 1, 10)
	require.Error(t, err)
	assert.True(t, errs.IsAccessDenied(err))

	resp, err := f.taskSvc.ListAllTasksForAdmin(admin, 1, 10)
	require.NoError(t, err)
	assert.Len(t, resp.Tasks, 2, "admin listing includes deleted tasks")
}
