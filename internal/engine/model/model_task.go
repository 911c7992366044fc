package model

import (
	"time"

	"github.com/go-taskhub/taskhub/pkg/statemachine"
)

// Task belongs to exactly one project. Title is unique per project among
// non-deleted tasks, compared case-insensitively.
type Task struct {
	BaseModel
	TaskId      string                  `gorm:"column:task_id" json:"taskId"`
	ProjectId   string                  `gorm:"column:project_id" json:"projectId"`
	Title       string                  `gorm:"column:title" json:"title"`
	Description string                  `gorm:"column:description;type:text" json:"description"`
	AssignedTo  *string                 `gorm:"column:assigned_to" json:"assignedTo"` // nullable user id
	Priority    int                     `gorm:"column:priority" json:"priority"`      // 1: highest, 5: normal, 10: lowest
	DueDate     *time.Time              `gorm:"column:due_date" json:"dueDate"`
	Status      statemachine.TaskStatus `gorm:"column:status" json:"status"`
	CreatedBy   string                  `gorm:"column:created_by" json:"createdBy"`
}

func (Task) TableName() string {
	return "t_task"
}

type CreateTaskReq struct {
	ProjectId   string     `json:"projectId" validate:"required"`
	Title       string     `json:"title" validate:"required,min=1,max=255"`
	Description string     `json:"description"`
	AssignedTo  *string    `json:"assignedTo"`
	Priority    int        `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}

type UpdateTaskReq struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *int       `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

type UpdateTaskStatusReq struct {
	Status statemachine.TaskStatus `json:"status" validate:"required"`
}

type AssignTaskReq struct {
	AssigneeId string `json:"assigneeId" validate:"required"`
}

type TaskQueryReq struct {
	ProjectId  string                  `json:"projectId" form:"projectId"`
	Status     statemachine.TaskStatus `json:"status" form:"status"`
	AssignedTo string                  `json:"assignedTo" form:"assignedTo"`
	Page       int                     `json:"page" form:"page"`
	PageSize   int                     `json:"pageSize" form:"pageSize"`
}

type TaskResp struct {
	TaskId      string                  `json:"taskId"`
	ProjectId   string                  `json:"projectId"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	AssignedTo  *string                 `json:"assignedTo"`
	Priority    int                     `json:"priority"`
	DueDate     *string                 `json:"dueDate"`
	Status      statemachine.TaskStatus `json:"status"`
	CreatedBy   string                  `json:"createdBy"`
	CreatedAt   string                  `json:"createdAt"`
	UpdatedAt   string                  `json:"updatedAt"`
}

type TaskListResp struct {
	Tasks      []*TaskResp `json:"tasks"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

func ToTaskResp(t *Task) *TaskResp {
	if t == nil {
		return nil
	}
	resp := &TaskResp{
		TaskId:      t.TaskId,
		ProjectId:   t.ProjectId,
		Title:       t.Title,
		Description: t.Description,
		AssignedTo:  t.AssignedTo,
		Priority:    t.Priority,
		Status:      t.Status,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt.Format(timeLayout),
		UpdatedAt:   t.UpdatedAt.Format(timeLayout),
	}
	if t.DueDate != nil {
		due := t.DueDate.Format(timeLayout)
		resp.DueDate = &due
	}
	return resp
}
