package main

import (
	"flag"
	"fmt"

	"github.com/go-taskhub/taskhub/internal/engine/authz"
	"github.com/go-taskhub/taskhub/internal/engine/conf"
	"github.com/go-taskhub/taskhub/internal/engine/repo"
	"github.com/go-taskhub/taskhub/internal/engine/router"
	"github.com/go-taskhub/taskhub/internal/engine/service"
	"github.com/go-taskhub/taskhub/pkg/cache"
	"github.com/go-taskhub/taskhub/pkg/database"
	httpx "github.com/go-taskhub/taskhub/pkg/http"
	"github.com/go-taskhub/taskhub/pkg/log"
	"github.com/go-taskhub/taskhub/pkg/version"
)

var configFile string

func init() {
	flag.StringVar(&configFile, "conf", "conf.d/config.toml", "conf file path, e.g. -conf ./conf.d/config.toml")
}

func main() {
	flag.Parse()
	fmt.Printf("taskhub %s\n", string(version.GetVersion().Json()))

	appConf := conf.NewConf(configFile)

	if _, err := log.NewLog(&appConf.Log); err != nil {
		panic(err)
	}

	redisClient, err := cache.NewRedis(appConf.Redis)
	if err != nil {
		panic(err)
	}

	db, err := database.NewDatabase(appConf.Database)
	if err != nil {
		panic(err)
	}

	// repositories
	userRepo := repo.NewUserRepo(db)
	teamRepo := repo.NewTeamRepo(db)
	memberRepo := repo.NewTeamMemberRepo(db)
	projectRepo := repo.NewProjectRepo(db)
	taskRepo := repo.NewTaskRepo(db)
	commentRepo := repo.NewCommentRepo(db)
	attachmentRepo := repo.NewAttachmentRepo(db)
	tokenRepo := repo.NewTokenRepo(redisClient)

	// authorization engine
	resolver := authz.NewResolver(memberRepo, projectRepo, taskRepo)
	engine := authz.NewEngine(resolver)

	// services
	authService := service.NewAuthService(userRepo, tokenRepo)
	userService := service.NewUserService(userRepo, engine)
	teamService := service.NewTeamService(teamRepo, memberRepo, userRepo, engine)
	projectService := service.NewProjectService(projectRepo, teamRepo, engine)
	taskService := service.NewTaskService(taskRepo, engine)
	commentService := service.NewCommentService(commentRepo, engine)
	attachmentService := service.NewAttachmentService(attachmentRepo, engine)

	route := router.NewRouter(
		&appConf.Http,
		redisClient,
		authService,
		userService,
		teamService,
		projectService,
		taskService,
		commentService,
		attachmentService,
	)

	httpx.Serve(appConf.Http, route.Router())
}
