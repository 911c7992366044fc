package middleware

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/go-taskhub/taskhub/pkg/http"
	"github.com/go-taskhub/taskhub/pkg/log"
)

// ExceptionMiddleware recovers from panics and returns a 500-style
// response instead of leaking the stack to the client.
func ExceptionMiddleware(c *fiber.Ctx) error {
	defer func() {
		if err := recover(); err != nil {
			_ = http.WithRepErr(c, http.InternalError.Code, errorToString(err), c.Path())
			log.Errorf("panic: %v\n%s", err, debug.Stack())
		}
	}()

	return c.Next()
}

func errorToString(err any) string {
	switch v := err.(type) {
	case string:
		return v
	default:
		return http.InternalError.Msg
	}
}
