package router

import (
	"github.com/go-taskhub/taskhub/internal/engine/model"
	"github.com/go-taskhub/taskhub/internal/engine/tool"
	httpx "github.com/go-taskhub/taskhub/pkg/http"
	"github.com/go-taskhub/taskhub/pkg/log"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) commentRouter(r fiber.Router, auth fiber.Handler) {
	commentGroup := r.Group("/comment", auth)
	{
		commentGroup.Post("/task/:taskId", rt.addComment)
		commentGroup.Get("/task/:taskId", rt.listComments)
		commentGroup.Put("/:commentId", rt.updateComment)
		commentGroup.Delete("/:commentId", rt.deleteComment)
	}
}

func (rt *Router) addComment(c *fiber.Ctx) error {
	taskId := c.Params("taskId")

	var req model.AddCommentReq
	if err := c.BodyParser(&req); err != nil {
		log.Errorf("add comment failed: %v", err)
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if err := rt.validate.Struct(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestValidationFailed.Code, err.Error(), c.Path())
	}

	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	result, err := rt.commentService.AddComment(actor, taskId, &req)
	if err != nil {
		log.Errorf("add comment failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) listComments(c *fiber.Ctx) error {
	taskId := c.Params("taskId")
	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	result, err := rt.commentService.ListComments(actor, taskId)
	if err != nil {
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) updateComment(c *fiber.Ctx) error {
	commentId := c.Params("commentId")

	var req model.UpdateCommentReq
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

	result, err := rt.commentService.UpdateComment(actor, commentId, &req)
	if err != nil {
		log.Errorf("update comment failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) deleteComment(c *fiber.Ctx) error {
	commentId := c.Params("commentId")
	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	if err := rt.commentService.DeleteComment(actor, commentId); err != nil {
		log.Errorf("delete comment failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepNotDetail(c)
}
