package tool

import (
	"github.com/go-taskhub/taskhub/internal/engine/errs"
	httpx "github.com/go-taskhub/taskhub/pkg/http"
	"github.com/gofiber/fiber/v2"
)

// replyCode maps an error kind onto the response code table.
func replyCode(err error) *httpx.Response {
	switch errs.KindOf(err) {
	case errs.KindAuthenticationRequired:
		return httpx.Unauthorized
	case errs.KindActorNotActive:
		return httpx.ActorNotActive
	case errs.KindNotFound:
		return httpx.NotFound
	case errs.KindAccessDenied:
		return httpx.PermissionDenied
	case errs.KindInvalidTransition:
		return httpx.InvalidTransition
	case errs.KindInvariantViolation:
		return httpx.InvariantViolated
	case errs.KindConflict:
		return httpx.Conflict
	default:
		return httpx.InternalError
	}
}

// ReplyErr writes the error response for a failed service call.
func ReplyErr(c *fiber.Ctx, err error) error {
	code := replyCode(err)
	msg := code.Msg
	if errs.KindOf(err) != errs.KindUnknown && errs.KindOf(err) != errs.KindInternal {
		msg = err.Error()
	}
	return httpx.WithRepErrMsg(c, code.Code, msg, c.Path())
}
