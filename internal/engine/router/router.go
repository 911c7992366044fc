package router

import (
	"github.com/go-playground/validator/v10"
	"github.com/go-taskhub/taskhub/internal/engine/consts"
	"github.com/go-taskhub/taskhub/internal/engine/model"
	"github.com/go-taskhub/taskhub/internal/engine/service"
	"github.com/go-taskhub/taskhub/internal/engine/tool"
	httpx "github.com/go-taskhub/taskhub/pkg/http"
	"github.com/go-taskhub/taskhub/pkg/http/middleware"
	"github.com/go-taskhub/taskhub/pkg/metrics"
	"github.com/go-taskhub/taskhub/pkg/version"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Router struct {
	Http     *httpx.Http
	redis    *redis.Client
	validate *validator.Validate

	authService       *service.AuthService
	userService       *service.UserService
	teamService       *service.TeamService
	projectService    *service.ProjectService
	taskService       *service.TaskService
	commentService    *service.CommentService
	attachmentService *service.AttachmentService
}

func NewRouter(
	httpConf *httpx.Http,
	client *redis.Client,
	authService *service.AuthService,
	userService *service.UserService,
	teamService *service.TeamService,
	projectService *service.ProjectService,
	taskService *service.TaskService,
	commentService *service.CommentService,
	attachmentService *service.AttachmentService,
) *Router {
	return &Router{
		Http:              httpConf,
		redis:             client,
		validate:          validator.New(),
		authService:       authService,
		userService:       userService,
		teamService:       teamService,
		projectService:    projectService,
		taskService:       taskService,
		commentService:    commentService,
		attachmentService: attachmentService,
	}
}

func (rt *Router) Router() *fiber.App {

	app := httpx.NewApp(*rt.Http)

	app.Use(middleware.CorsMiddleware())
	app.Use(middleware.ExceptionMiddleware)

	if rt.Http.AccessLog {
		app.Use(middleware.AccessLogMiddleware())
	}

	if rt.Http.ExposeMetrics {
		metrics.Register()
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	api := app.Group(rt.Http.ContextPath)
	{
		rt.routerGroup(api)
	}

	return app
}

func (rt *Router) routerGroup(r fiber.Router) {

	auth := middleware.AuthorizationMiddleware(rt.Http.Auth.SecretKey, consts.UserTokenKey, rt.redis)

	rt.authRouter(r, auth)
	rt.userRouter(r, auth)
	rt.teamRouter(r, auth)
	rt.projectRouter(r, auth)
	rt.taskRouter(r, auth)
	rt.commentRouter(r, auth)
	rt.attachmentRouter(r, auth)
}

// actor resolves the authenticated caller into a full user record. Every
// service call takes the actor explicitly, nothing reads it from context.
func (rt *Router) actor(c *fiber.Ctx) (*model.User, error) {
	return rt.userService.GetActor(tool.ActorId(c))
}

func queryInt(c *fiber.Ctx, key string, def int) int {
	return c.QueryInt(key, def)
}
