package router

import (
	"github.com/go-taskhub/taskhub/internal/engine/model"
	"github.com/go-taskhub/taskhub/internal/engine/tool"
	httpx "github.com/go-taskhub/taskhub/pkg/http"
	"github.com/go-taskhub/taskhub/pkg/log"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) userRouter(r fiber.Router, auth fiber.Handler) {
	userGroup := r.Group("/user", auth)
	{
		userGroup.Get("/list", rt.listUsers)
		userGroup.Get("/:userId", rt.getUser)
		userGroup.Put("/:userId", rt.updateUser)
		userGroup.Post("/:userId/deactivate", rt.deactivateUser)
		userGroup.Put("/:userId/role", rt.changeSystemRole)
		userGroup.Delete("/:userId", rt.deleteUser)
	}
}

func (rt *Router) getUser(c *fiber.Ctx) error {
	userId := c.Params("userId")
	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	result, err := rt.userService.GetUser(actor, userId)
	if err != nil {
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) updateUser(c *fiber.Ctx) error {
	userId := c.Params("userId")

	var req model.UpdateUserReq
	if err := c.BodyParser(&req); err != nil {
		log.Errorf("update user failed: %v", err)
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	result, err := rt.userService.UpdateUser(actor, userId, &req)
	if err != nil {
		log.Errorf("update user failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) deactivateUser(c *fiber.Ctx) error {
	userId := c.Params("userId")
	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	if err := rt.userService.DeactivateUser(actor, userId); err != nil {
		log.Errorf("deactivate user failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepNotDetail(c)
}

func (rt *Router) changeSystemRole(c *fiber.Ctx) error {
	userId := c.Params("userId")

	var req model.ChangeSystemRoleReq
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

	result, err := rt.userService.ChangeSystemRole(actor, userId, &req)
	if err != nil {
		log.Errorf("change system role failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) deleteUser(c *fiber.Ctx) error {
	userId := c.Params("userId")
	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	if err := rt.userService.DeleteUser(actor, userId); err != nil {
		log.Errorf("delete user failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepNotDetail(c)
}

func (rt *Router) listUsers(c *fiber.Ctx) error {
	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "pageSize", 20)

	users, total, err := rt.userService.ListUsers(actor, page, pageSize)
	if err != nil {
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, fiber.Map{"users": users, "total": total})
}
