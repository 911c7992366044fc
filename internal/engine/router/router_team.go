package router

import (
	"github.com/go-taskhub/taskhub/internal/engine/model"
	"github.com/go-taskhub/taskhub/internal/engine/tool"
	httpx "github.com/go-taskhub/taskhub/pkg/http"
	"github.com/go-taskhub/taskhub/pkg/log"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) teamRouter(r fiber.Router, auth fiber.Handler) {
	teamGroup := r.Group("/team", auth)
	{
		teamGroup.Post("/create", rt.createTeam)
		teamGroup.Get("/user/myteams", rt.listMyTeams)
		teamGroup.Get("/:teamId", rt.getTeam)
		teamGroup.Put("/:teamId", rt.updateTeam)
		teamGroup.Delete("/:teamId", rt.deleteTeam)

		// membership
		teamGroup.Get("/:teamId/members", rt.listMembers)
		teamGroup.Post("/:teamId/member", rt.addMember)
		teamGroup.Delete("/:teamId/member/:userId", rt.removeMember)
		teamGroup.Put("/:teamId/member/:userId/role", rt.updateMemberRole)
	}
}

func (rt *Router) createTeam(c *fiber.Ctx) error {
	var req model.CreateTeamReq
	if err := c.BodyParser(&req); err != nil {
		log.Errorf("create team failed: %v", err)
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if err := rt.validate.Struct(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestValidationFailed.Code, err.Error(), c.Path())
	}

	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	result, err := rt.teamService.CreateTeam(actor, &req)
	if err != nil {
		log.Errorf("create team failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) listMyTeams(c *fiber.Ctx) error {
	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	result, err := rt.teamService.ListMyTeams(actor)
	if err != nil {
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) getTeam(c *fiber.Ctx) error {
	teamId := c.Params("teamId")
	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	result, err := rt.teamService.GetTeam(actor, teamId)
	if err != nil {
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) updateTeam(c *fiber.Ctx) error {
	teamId := c.Params("teamId")

	var req model.UpdateTeamReq
	if err := c.BodyParser(&req); err != nil {
		log.Errorf("update team failed: %v", err)
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	result, err := rt.teamService.UpdateTeam(actor, teamId, &req)
	if err != nil {
		log.Errorf("update team failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) deleteTeam(c *fiber.Ctx) error {
	teamId := c.Params("teamId")
	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	if err := rt.teamService.DeleteTeam(actor, teamId); err != nil {
		log.Errorf("delete team failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepNotDetail(c)
}

func (rt *Router) listMembers(c *fiber.Ctx) error {
	teamId := c.Params("teamId")
	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	result, err := rt.teamService.ListMembers(actor, teamId)
	if err != nil {
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) addMember(c *fiber.Ctx) error {
	teamId := c.Params("teamId")

	var req model.AddTeamMemberReq
	if err := c.BodyParser(&req); err != nil {
		log.Errorf("add team member failed: %v", err)
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if err := rt.validate.Struct(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestValidationFailed.Code, err.Error(), c.Path())
	}

	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	result, err := rt.teamService.AddMember(actor, teamId, &req)
	if err != nil {
		log.Errorf("add team member failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) removeMember(c *fiber.Ctx) error {
	teamId := c.Params("teamId")
	userId := c.Params("userId")

	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	if err := rt.teamService.RemoveMember(actor, teamId, userId); err != nil {
		log.Errorf("remove team member failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepNotDetail(c)
}

func (rt *Router) updateMemberRole(c *fiber.Ctx) error {
	teamId := c.Params("teamId")
	userId := c.Params("userId")

	var req model.UpdateMemberRoleReq
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

	result, err := rt.teamService.UpdateMemberRole(actor, teamId, userId, &req)
	if err != nil {
		log.Errorf("update member role failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}
