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

type TaskService struct {
	taskRepo repo.ITaskRepository
	authz    *authz.Engine
	ruleset  *statemachine.Ruleset[statemachine.TaskStatus]
}

func NewTaskService(taskRepo repo.ITaskRepository, authzEngine *authz.Engine) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		authz:    authzEngine,
		ruleset:  statemachine.NewTaskRuleset(),
	}
}

// CreateTask creates a task in a project
func (s *TaskService) CreateTask(actor *model.User, req *model.CreateTaskReq) (*model.TaskResp, error) {
	// 1. actor gate
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, err
	}

	// 2. resolve the project and its team
	teamId, err := s.authz.Resolver().TeamOfProject(req.ProjectId)
	if err != nil {
		return nil, err
	}

	// 3. capability check
	decision, err := s.authz.CanCreateTask(actor, teamId)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, errs.New(errs.KindAccessDenied, decision.Reason)
	}

	// 4. title uniqueness within the project, case-insensitive.
	// Check-then-act: two concurrent creates with the same title can
	// both pass this check. Accepted; the database unique index on
	// (project_id, title) is the backstop.
	exists, err := s.taskRepo.CheckTaskTitleExists(req.ProjectId, req.Title)
	if err != nil {
		log.Errorw("check task title failed", "projectId", req.ProjectId, "title", req.Title, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "check task title", err)
	}
	if exists {
		return nil, errs.Newf(errs.KindConflict, "task title %q already exists in project", req.Title)
	}

	// 5. build and save
	taskEntity := &model.Task{
		TaskId:      id.GetUUID(),
		ProjectId:   req.ProjectId,
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Status:      statemachine.TaskToDo,
		CreatedBy:   actor.UserId,
	}
	if taskEntity.Priority == 0 {
		taskEntity.Priority = 5
	}

	if err := s.taskRepo.CreateTask(taskEntity); err != nil {
		log.Errorw("create task failed", "projectId", req.ProjectId, "title", req.Title, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "create task", err)
	}

	log.Infow("task created", "taskId", taskEntity.TaskId, "projectId", req.ProjectId, "createdBy", actor.UserId)
	return model.ToTaskResp(taskEntity), nil
}

// GetTask returns a task visible to the actor
func (s *TaskService) GetTask(actor *model.User, taskId string) (*model.TaskResp, error) {
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, err
	}

	taskEntity, teamId, err := s.loadTask(taskId)
	if err != nil {
		return nil, err
	}

	decision, err := s.authz.CanAccessTask(actor, teamId)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, errs.New(errs.KindAccessDenied, decision.Reason)
	}

	return model.ToTaskResp(taskEntity), nil
}

// ListTasks lists the tasks of a project visible to the actor
func (s *TaskService) ListTasks(actor *model.User, query *model.TaskQueryReq) (*model.TaskListResp, error) {
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, err
	}

	if query.ProjectId == "" {
		return nil, errs.New(errs.KindNotFound, "project id is required")
	}

	teamId, err := s.authz.Resolver().TeamOfProject(query.ProjectId)
	if err != nil {
		return nil, err
	}

	decision, err := s.authz.CanAccessTask(actor, teamId)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, errs.New(errs.KindAccessDenied, decision.Reason)
	}

	tasks, total, err := s.taskRepo.ListTasks(query)
	if err != nil {
		log.Errorw("list tasks failed", "projectId", query.ProjectId, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "list tasks", err)
	}

	return buildTaskListResp(tasks, total, query.Page, query.PageSize), nil
}

// UpdateTask updates title, description, priority or due date
func (s *TaskService) UpdateTask(actor *model.User, taskId string, req *model.UpdateTaskReq) (*model.TaskResp, error) {
	// 1. actor gate
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, err
	}

	// 2. load target and parents
	taskEntity, teamId, err := s.loadTask(taskId)
	if err != nil {
		return nil, err
	}

	// 3. capability check
	decision, err := s.authz.CanModifyTask(actor, teamId, taskEntity)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, errs.New(errs.KindAccessDenied, decision.Reason)
	}

	// 4. build updates
	updates := make(map[string]interface{})

	if req.Title != nil && *req.Title != "" && *req.Title != taskEntity.Title {
		exists, err := s.taskRepo.CheckTaskTitleExists(taskEntity.ProjectId, *req.Title, taskId)
		if err != nil {
			return nil, errs.Wrap(errs.KindInternal, "check task title", err)
		}
		if exists {
			return nil, errs.Newf(errs.KindConflict, "task title %q already exists in project", *req.Title)
		}
		updates["title"] = *req.Title
		taskEntity.Title = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
		taskEntity.Description = *req.Description
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
		taskEntity.Priority = *req.Priority
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
		taskEntity.DueDate = req.DueDate
	}

	if len(updates) == 0 {
		return model.ToTaskResp(taskEntity), nil
	}

	// 5. save
	if err := s.taskRepo.UpdateTask(taskId, updates); err != nil {
		log.Errorw("update task failed", "taskId", taskId, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "update task", err)
	}

	return model.ToTaskResp(taskEntity), nil
}

// UpdateTaskStatus moves the task through its lifecycle. DELETED is not
// reachable here; use DeleteTask.
func (s *TaskService) UpdateTaskStatus(actor *model.User, taskId string, req *model.UpdateTaskStatusReq) (*model.TaskResp, error) {
	// 1. actor gate
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, err
	}

	// 2. load target and parents
	taskEntity, teamId, err := s.loadTask(taskId)
	if err != nil {
		return nil, err
	}

	// 3. capability check
	decision, err := s.authz.CanModifyTask(actor, teamId, taskEntity)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, errs.New(errs.KindAccessDenied, decision.Reason)
	}

	// 4. transition validation
	if !req.Status.IsValid() {
		return nil, errs.Newf(errs.KindInvalidTransition, "unknown task status %q", req.Status)
	}
	if req.Status == statemachine.TaskDeleted {
		metrics.RecordRejectedTransition("task")
		return nil, errs.New(errs.KindInvalidTransition, "tasks are deleted through the delete operation, not a status change")
	}
	if err := s.ruleset.Validate(taskEntity.Status, req.Status); err != nil {
		metrics.RecordRejectedTransition("task")
		return nil, errs.Wrap(errs.KindInvalidTransition, "task status", err)
	}

	// 5. save
	if err := s.taskRepo.UpdateTaskStatus(taskId, req.Status); err != nil {
		log.Errorw("update task status failed", "taskId", taskId, "status", req.Status, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "update task status", err)
	}

	log.Infow("task status changed", "taskId", taskId, "from", taskEntity.Status, "to", req.Status, "actor", actor.UserId)
	taskEntity.Status = req.Status
	return model.ToTaskResp(taskEntity), nil
}

// AssignTask assigns the task to a team member
func (s *TaskService) AssignTask(actor *model.User, taskId string, req *model.AssignTaskReq) (*model.TaskResp, error) {
	// 1. actor gate
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, err
	}

	// 2. load target and parents
	taskEntity, teamId, err := s.loadTask(taskId)
	if err != nil {
		return nil, err
	}

	// 3. capability check, assignee membership included
	decision, err := s.authz.CanAssignTask(actor, teamId, req.AssigneeId)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, errs.New(errs.KindAccessDenied, decision.Reason)
	}

	// 4. save
	assigneeId := req.AssigneeId
	if err := s.taskRepo.AssignTask(taskId, &assigneeId); err != nil {
		log.Errorw("assign task failed", "taskId", taskId, "assigneeId", assigneeId, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "assign task", err)
	}

	taskEntity.AssignedTo = &assigneeId
	return model.ToTaskResp(taskEntity), nil
}

// UnassignTask clears the assignee. Same capability as modifying the
// task.
func (s *TaskService) UnassignTask(actor *model.User, taskId string) (*model.TaskResp, error) {
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, err
	}

	taskEntity, teamId, err := s.loadTask(taskId)
	if err != nil {
		return nil, err
	}

	decision, err := s.authz.CanModifyTask(actor, teamId, taskEntity)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, errs.New(errs.KindAccessDenied, decision.Reason)
	}

	if err := s.taskRepo.AssignTask(taskId, nil); err != nil {
		log.Errorw("unassign task failed", "taskId", taskId, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "unassign task", err)
	}

	taskEntity.AssignedTo = nil
	return model.ToTaskResp(taskEntity), nil
}

// DeleteTask soft-deletes the task. This is the only way into DELETED
// and there is no way back out.
func (s *TaskService) DeleteTask(actor *model.User, taskId string) error {
	// 1. actor gate
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return err
	}

	// 2. load target and parents
	_, teamId, err := s.loadTask(taskId)
	if err != nil {
		return err
	}

	// 3. capability check
	decision, err := s.authz.CanDeleteTask(actor, teamId)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return errs.New(errs.KindAccessDenied, decision.Reason)
	}

	// 4. save
	if err := s.taskRepo.UpdateTaskStatus(taskId, statemachine.TaskDeleted); err != nil {
		log.Errorw("delete task failed", "taskId", taskId, "error", err)
		return errs.Wrap(errs.KindInternal, "delete task", err)
	}

	log.Infow("task deleted", "taskId", taskId, "actor", actor.UserId)
	return nil
}

// ListAllTasksForAdmin lists every task across all teams, deleted
// included. Hard admin gate.
func (s *TaskService) ListAllTasksForAdmin(actor *model.User, page, pageSize int) (*model.TaskListResp, error) {
	if err := s.authz.RequireSystemAdmin(actor); err != nil {
		return nil, err
	}

	tasks, total, err := s.taskRepo.ListAllTasks(page, pageSize)
	if err != nil {
		log.Errorw("list all tasks failed", "error", err)
		return nil, errs.Wrap(errs.KindInternal, "list all tasks", err)
	}

	return buildTaskListResp(tasks, total, page, pageSize), nil
}

// GetTaskForAdmin reads a single task regardless of status, deleted
// included. Hard admin gate.
func (s *TaskService) GetTaskForAdmin(actor *model.User, taskId string) (*model.TaskResp, error) {
	if err := s.authz.RequireSystemAdmin(actor); err != nil {
		return nil, err
	}

	taskEntity, err := s.taskRepo.GetTaskById(taskId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Newf(errs.KindNotFound, "task %s not found", taskId)
		}
		return nil, errs.Wrap(errs.KindInternal, "get task", err)
	}
	return model.ToTaskResp(taskEntity), nil
}

// loadTask loads a non-deleted task and resolves its owning team.
func (s *TaskService) loadTask(taskId string) (*model.Task, string, error) {
	taskEntity, err := s.taskRepo.GetTaskNotDeleted(taskId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", errs.Newf(errs.KindNotFound, "task %s not found", taskId)
		}
		return nil, "", errs.Wrap(errs.KindInternal, "get task", err)
	}

	teamId, err := s.authz.Resolver().TeamOfProject(taskEntity.ProjectId)
	if err != nil {
		return nil, "", err
	}
	return taskEntity, teamId, nil
}

func buildTaskListResp(tasks []*model.Task, total int64, page, pageSize int) *model.TaskListResp {
	resp := &model.TaskListResp{
		Tasks:    make([]*model.TaskResp, 0, len(tasks)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, model.ToTaskResp(t))
	}
	if pageSize > 0 {
		resp.TotalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return resp
}
