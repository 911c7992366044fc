package router

import (
	"github.com/go-taskhub/taskhub/internal/engine/model"
	"github.com/go-taskhub/taskhub/internal/engine/tool"
	httpx "github.com/go-taskhub/taskhub/pkg/http"
	"github.com/go-taskhub/taskhub/pkg/log"
	"github.com/go-taskhub/taskhub/pkg/statemachine"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) taskRouter(r fiber.Router, auth fiber.Handler) {
	taskGroup := r.Group("/task", auth)
	{
		taskGroup.Post("/create", rt.createTask)
		taskGroup.Get("/list", rt.listTasks)
		taskGroup.Get("/admin/list", rt.listAllTasks)
		taskGroup.Get("/admin/:taskId", rt.getTaskForAdmin)
		taskGroup.Get("/:taskId", rt.getTask)
		taskGroup.Put("/:taskId", rt.updateTask)
		taskGroup.Post("/:taskId/status", rt.updateTaskStatus)
		taskGroup.Post("/:taskId/assign", rt.assignTask)
		taskGroup.Post("/:taskId/unassign", rt.unassignTask)
		taskGroup.Delete("/:taskId", rt.deleteTask)
	}
}

func (rt *Router) createTask(c *fiber.Ctx) error {
	var req model.CreateTaskReq
	if err := c.BodyParser(&req); err != nil {
		log.Errorf("create task failed: %v", err)
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if err := rt.validate.Struct(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestValidationFailed.Code, err.Error(), c.Path())
	}

	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	result, err := rt.taskService.CreateTask(actor, &req)
	if err != nil {
		log.Errorf("create task failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) getTask(c *fiber.Ctx) error {
	taskId := c.Params("taskId")
	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	result, err := rt.taskService.GetTask(actor, taskId)
	if err != nil {
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) getTaskForAdmin(c *fiber.Ctx) error {
	taskId := c.Params("taskId")
	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	result, err := rt.taskService.GetTaskForAdmin(actor, taskId)
	if err != nil {
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) listTasks(c *fiber.Ctx) error {
	query := model.TaskQueryReq{
		ProjectId:  c.Query("projectId"),
		Status:     statemachine.TaskStatus(c.Query("status")),
		AssignedTo: c.Query("assignedTo"),
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "pageSize", 20),
	}
	if query.ProjectId == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "projectId is required", c.Path())
	}

	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	result, err := rt.taskService.ListTasks(actor, &query)
	if err != nil {
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) updateTask(c *fiber.Ctx) error {
	taskId := c.Params("taskId")

	var req model.UpdateTaskReq
	if err := c.BodyParser(&req); err != nil {
		log.Errorf("update task failed: %v", err)
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	result, err := rt.taskService.UpdateTask(actor, taskId, &req)
	if err != nil {
		log.Errorf("update task failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) updateTaskStatus(c *fiber.Ctx) error {
	taskId := c.Params("taskId")

	var req model.UpdateTaskStatusReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if err := rt.validate.Struct(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestValidationFailed.Code, err.Error(), c.Path())
	}

	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	result, err := rt.taskService.UpdateTaskStatus(actor, taskId, &req)
	if err != nil {
		log.Errorf("update task status failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) assignTask(c *fiber.Ctx) error {
	taskId := c.Params("taskId")

	var req model.AssignTaskReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if err := rt.validate.Struct(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestValidationFailed.Code, err.Error(), c.Path())
	}

	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	result, err := rt.taskService.AssignTask(actor, taskId, &req)
	if err != nil {
		log.Errorf("assign task failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) unassignTask(c *fiber.Ctx) error {
	taskId := c.Params("taskId")
	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	result, err := rt.taskService.UnassignTask(actor, taskId)
	if err != nil {
		log.Errorf("unassign task failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) deleteTask(c *fiber.Ctx) error {
	taskId := c.Params("taskId")
	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	if err := rt.taskService.DeleteTask(actor, taskId); err != nil {
		log.Errorf("delete task failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepNotDetail(c)
}

func (rt *Router) listAllTasks(c *fiber.Ctx) error {
	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "pageSize", 20)

	result, err := rt.taskService.ListAllTasksForAdmin(actor, page, pageSize)
	if err != nil {
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}
