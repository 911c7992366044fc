package router

import (
	"github.com/go-taskhub/taskhub/internal/engine/model"
	"github.com/go-taskhub/taskhub/internal/engine/tool"
	httpx "github.com/go-taskhub/taskhub/pkg/http"
	"github.com/go-taskhub/taskhub/pkg/log"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) attachmentRouter(r fiber.Router, auth fiber.Handler) {
	attachmentGroup := r.Group("/attachment", auth)
	{
		attachmentGroup.Post("/task/:taskId", rt.addAttachment)
		attachmentGroup.Get("/task/:taskId", rt.listAttachments)
		attachmentGroup.Get("/admin/list", rt.listAllAttachments)
		attachmentGroup.Delete("/:attachmentId", rt.deleteAttachment)
	}
}

func (rt *Router) addAttachment(c *fiber.Ctx) error {
	taskId := c.Params("taskId")

	var req model.AddAttachmentReq
	if err := c.BodyParser(&req); err != nil {
		log.Errorf("add attachment failed: %v", err)
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if err := rt.validate.Struct(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestValidationFailed.Code, err.Error(), c.Path())
	}

	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	result, err := rt.attachmentService.AddAttachment(actor, taskId, &req)
	if err != nil {
		log.Errorf("add attachment failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) listAttachments(c *fiber.Ctx) error {
	taskId := c.Params("taskId")
	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	result, err := rt.attachmentService.ListAttachments(actor, taskId)
	if err != nil {
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) listAllAttachments(c *fiber.Ctx) error {
	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "pageSize", 20)

	attachments, total, err := rt.attachmentService.ListAllAttachmentsForAdmin(actor, page, pageSize)
	if err != nil {
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, fiber.Map{"attachments": attachments, "total": total})
}

func (rt *Router) deleteAttachment(c *fiber.Ctx) error {
	attachmentId := c.Params("attachmentId")
	actor, err := rt.actor(c)
	if err != nil {
		return tool.ReplyErr(c, err)
	}

	if err := rt.attachmentService.DeleteAttachment(actor, attachmentId); err != nil {
		log.Errorf("delete attachment failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepNotDetail(c)
}
