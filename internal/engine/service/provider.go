package service

import (
	"github.com/google/wire"
)

// ProviderSet provides the service layer dependencies
var ProviderSet = wire.NewSet(
	NewAuthService,
	NewUserService,
	NewTeamService,
	NewProjectService,
	NewTaskService,
	NewCommentService,
	NewAttachmentService,
)
