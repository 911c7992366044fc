package authz

import (
	"github.com/go-taskhub/taskhub/internal/engine/model"
)

// IsSystemAdmin reports whether the actor holds the platform-wide ADMIN
// role. It says nothing about team-scoped roles.
func IsSystemAdmin(actor *model.User) bool {
	return actor != nil && actor.IsSystemAdmin()
}

// IsActiveUser reports whether the user exists and is ACTIVE.
func IsActiveUser(u *model.User) bool {
	return u != nil && u.IsActive()
}

// IsSelf reports whether the actor is the subject of the operation.
func IsSelf(actor *model.User, subjectId string) bool {
	return actor != nil && subjectId != "" && actor.UserId == subjectId
}
