package router

import (
	"github.com/go-taskhub/taskhub/internal/engine/model"
	"github.com/go-taskhub/taskhub/internal/engine/tool"
	httpx "github.com/go-taskhub/taskhub/pkg/http"
	"github.com/go-taskhub/taskhub/pkg/log"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) projectRouter(r fiber.Router, auth fiber.Handler) {
	projectGroup := r.Group("/project", auth)
	{
		projectGroup.Post("/create", rt.createProject)
		projectGroup.Get("/list", rt.listProjects)
		projectGroup.Get("/admin/list", rt.listAllProjects)
		projectGroup.Get("/:projectId", rt.getProject)
		projectGroup.Put("/:projectId", rt.updateProject)
		projectGroup.Post("/:projectId/status", rt.updateProjectStatus)
		projectGroup.Delete("/:projectId", rt.deleteProject)
		projectGroup.Post("/:projectId/restore", rt.restoreProject)
		projectGroup.Post("/:projectId/transfer", rt.transferProject)
	}
}

func (rt *Router) createProject(c *fiber.Ctx) error {
	var req model.CreateProjectReq
	if err := c.BodyParser(&req); err != nil {
		log.Errorf("create project failed: %v", err)
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if err := rt.validate.Struct(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestValidationFailed.Code, err.Error(), c.Path())
	}

	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	result, err := rt.projectService.CreateProject(actor, &req)
	if err != nil {
		log.Errorf("create project failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) getProject(c *fiber.Ctx) error {
	projectId := c.Params("projectId")
	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	result, err := rt.projectService.GetProject(actor, projectId)
	if err != nil {
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) listProjects(c *fiber.Ctx) error {
	teamId := c.Query("teamId")
	if teamId == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "teamId is required", c.Path())
	}

	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "pageSize", 20)

	projects, total, err := rt.projectService.ListProjects(actor, teamId, page, pageSize)
	if err != nil {
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, fiber.Map{"projects": projects, "total": total})
}

func (rt *Router) updateProject(c *fiber.Ctx) error {
	projectId := c.Params("projectId")

	var req model.UpdateProjectReq
	if err := c.BodyParser(&req); err != nil {
		log.Errorf("update project failed: %v", err)
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	result, err := rt.projectService.UpdateProject(actor, projectId, &req)
	if err != nil {
		log.Errorf("update project failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) updateProjectStatus(c *fiber.Ctx) error {
	projectId := c.Params("projectId")

	var req model.UpdateProjectStatusReq
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

	result, err := rt.projectService.UpdateProjectStatus(actor, projectId, &req)
	if err != nil {
		log.Errorf("update project status failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) deleteProject(c *fiber.Ctx) error {
	projectId := c.Params("projectId")
	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	if err := rt.projectService.DeleteProject(actor, projectId); err != nil {
		log.Errorf("delete project failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepNotDetail(c)
}

func (rt *Router) restoreProject(c *fiber.Ctx) error {
	projectId := c.Params("projectId")
	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	result, err := rt.projectService.RestoreProject(actor, projectId)
	if err != nil {
		log.Errorf("restore project failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) transferProject(c *fiber.Ctx) error {
	projectId := c.Params("projectId")

	var req model.TransferProjectReq
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

	result, err := rt.projectService.TransferProject(actor, projectId, &req)
	if err != nil {
		log.Errorf("transfer project failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) listAllProjects(c *fiber.Ctx) error {
	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "pageSize", 20)

	projects, total, err := rt.projectService.ListAllProjectsForAdmin(actor, page, pageSize)
	if err != nil {
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, fiber.Map{"projects": projects, "total": total})
}
