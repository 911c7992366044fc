package repo

import (
	"github.com/go-taskhub/taskhub/internal/engine/model"
	"github.com/go-taskhub/taskhub/pkg/database"
	"github.com/go-taskhub/taskhub/pkg/statemachine"
	"gorm.io/gorm"
)

type ITaskRepository interface {
	CreateTask(t *model.Task) error
	GetTaskById(taskId string) (*model.Task, error)
	GetTaskNotDeleted(taskId string) (*model.Task, error)
	UpdateTask(taskId string, updates map[string]interface{}) error
	UpdateTaskStatus(taskId string, status statemachine.TaskStatus) error
	AssignTask(taskId string, assigneeId *string) error
	CheckTaskTitleExists(projectId, title string, excludeTaskId ...string) (bool, error)
	ListTasks(query *model.TaskQueryReq) ([]*model.Task, int64, error)
	ListAllTasks(page, pageSize int) ([]*model.Task, int64, error)
}

type TaskRepo struct {
	db database.IDatabase
}

func NewTaskRepo(db database.IDatabase) ITaskRepository {
	return &TaskRepo{db: db}
}

// CreateTask creates a task
func (r *TaskRepo) CreateTask(t *model.Task) error {
	return r.db.DB().Create(t).Error
}

// GetTaskById gets a task regardless of status, deleted included
func (r *TaskRepo) GetTaskById(taskId string) (*model.Task, error) {
	var t model.Task
	err := r.db.DB().Where("task_id = ?", taskId).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTaskNotDeleted gets a task that has not been soft-deleted.
// Deleted tasks are invisible to non-admin reads.
func (r *TaskRepo) GetTaskNotDeleted(taskId string) (*model.Task, error) {
	var t model.Task
	err := r.db.DB().
		Where("task_id = ? AND status != ?", taskId, statemachine.TaskDeleted).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTask updates task fields
func (r *TaskRepo) UpdateTask(taskId string, updates map[string]interface{}) error {
	return r.db.DB().Model(&model.Task{}).
		Where("task_id = ?", taskId).
		Updates(updates).Error
}

// UpdateTaskStatus updates the task lifecycle status
func (r *TaskRepo) UpdateTaskStatus(taskId string, status statemachine.TaskStatus) error {
	return r.db.DB().Model(&model.Task{}).
		Where("task_id = ?", taskId).
		Update("status", status).Error
}

// AssignTask sets or clears the assignee. A nil assigneeId unassigns.
func (r *TaskRepo) AssignTask(taskId string, assigneeId *string) error {
	return r.db.DB().Model(&model.Task{}).
		Where("task_id = ?", taskId).
		Update("assigned_to", assigneeId).Error
}

// CheckTaskTitleExists checks whether a title is taken within a project
// among non-deleted tasks. The comparison is case-insensitive.
func (r *TaskRepo) CheckTaskTitleExists(projectId, title string, excludeTaskId ...string) (bool, error) {
	query := r.db.DB().Model(&model.Task{}).
		Where("project_id = ? AND LOWER(title) = LOWER(?) AND status != ?",
			projectId, title, statemachine.TaskDeleted)

	if len(excludeTaskId) > 0 && excludeTaskId[0] != "" {
		query = query.Where("task_id != ?", excludeTaskId[0])
	}

	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

// ListTasks lists non-deleted tasks matching the query with pagination
func (r *TaskRepo) ListTasks(query *model.TaskQueryReq) ([]*model.Task, int64, error) {
	var tasks []*model.Task
	var total int64

	db := r.db.DB().Model(&model.Task{}).
		Where("status != ?", statemachine.TaskDeleted)

	db = r.buildTaskQuery(db, query)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.Page > 0 && query.PageSize > 0 {
		offset := (query.Page - 1) * query.PageSize
		db = db.Offset(offset).Limit(query.PageSize)
	} else {
		db = db.Limit(100)
	}

	err := db.Order("id DESC").Find(&tasks).Error
	return tasks, total, err
}

func (r *TaskRepo) buildTaskQuery(db *gorm.DB, query *model.TaskQueryReq) *gorm.DB {
	if query.ProjectId != "" {
		db = db.Where("project_id = ?", query.ProjectId)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.AssignedTo != "" {
		db = db.Where("assigned_to = ?", query.AssignedTo)
	}
	return db
}

// ListAllTasks lists every task across projects, deleted included.
// Admin-only listing.
func (r *TaskRepo) ListAllTasks(page, pageSize int) ([]*model.Task, int64, error) {
	var tasks []*model.Task
	var total int64

	db := r.db.DB().Model(&model.Task{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page > 0 && pageSize > 0 {
		offset := (page - 1) * pageSize
		db = db.Offset(offset).Limit(pageSize)
	} else {
		db = db.Limit(100)
	}

	err := db.Order("id DESC").Find(&tasks).Error
	return tasks, total, err
}
