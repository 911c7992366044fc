package repo

import (
	"github.com/google/wire"
)

// ProviderSet provides the repository layer dependencies
var ProviderSet = wire.NewSet(
	NewUserRepo,
	NewTeamRepo,
	NewTeamMemberRepo,
	NewProjectRepo,
	NewTaskRepo,
	NewCommentRepo,
	NewAttachmentRepo,
	NewTokenRepo,
)
