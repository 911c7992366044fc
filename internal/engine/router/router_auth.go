package router

import (
	"github.com/go-taskhub/taskhub/internal/engine/model"
	"github.com/go-taskhub/taskhub/internal/engine/tool"
	httpx "github.com/go-taskhub/taskhub/pkg/http"
	"github.com/go-taskhub/taskhub/pkg/log"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) authRouter(r fiber.Router, auth fiber.Handler) {
	authGroup := r.Group("/auth")
	{
		// not auth
		authGroup.Post("/register", rt.register)
		authGroup.Post("/login", rt.login)

		// auth
		authGroup.Post("/logout", auth, rt.logout)
		authGroup.Post("/refresh", auth, rt.refresh)
	}
}

func (rt *Router) register(c *fiber.Ctx) error {
	var req model.RegisterReq
	if err := c.BodyParser(&req); err != nil {
		log.Errorf("register failed: %v", err)
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if err := rt.validate.Struct(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestValidationFailed.Code, err.Error(), c.Path())
	}

	result, err := rt.userService.Register(&req)
	if err != nil {
		log.Errorf("register failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) login(c *fiber.Ctx) error {
	var req model.LoginReq
	if err := c.BodyParser(&req); err != nil {
		log.Errorf("login failed: %v", err)
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	if err := rt.validate.Struct(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.UsernameAndPasswordIsRequired.Code, httpx.UsernameAndPasswordIsRequired.Msg, c.Path())
	}

	result, err := rt.authService.Login(c.Context(), &req, &rt.Http.Auth)
	if err != nil {
		log.Errorf("login failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}

func (rt *Router) logout(c *fiber.Ctx) error {
	userId := tool.ActorId(c)
	if err := rt.authService.Logout(c.Context(), userId); err != nil {
		log.Errorf("logout failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepNotDetail(c)
}

func (rt *Router) refresh(c *fiber.Ctx) error {
	var req model.RefreshReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	userId := tool.ActorId(c)
	result, err := rt.authService.Refresh(c.Context(), userId, req.RefreshToken, &rt.Http.Auth)
	if err != nil {
		log.Errorf("refresh token failed: %v", err)
		return tool.ReplyErr(c, err)
	}
	return httpx.WithRepJSON(c, result)
}
