package service

import (
	"errors"

	"github.com/go-taskhub/taskhub/internal/engine/authz"
	"github.com/go-taskhub/taskhub/internal/engine/errs"
	"github.com/go-taskhub/taskhub/internal/engine/model"
	"github.com/go-taskhub/taskhub/internal/engine/repo"
	"github.com/go-taskhub/taskhub/pkg/id"
	"github.com/go-taskhub/taskhub/pkg/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo repo.IUserRepository
	authz    *authz.Engine
}

func NewUserService(userRepo repo.IUserRepository, authzEngine *authz.Engine) *UserService {
	return &UserService{
		userRepo: userRepo,
		authz:    authzEngine,
	}
}

// Register creates a new account with the MEMBER system role
func (s *UserService) Register(req *model.RegisterReq) (*model.UserResp, error) {
	// 1. username and email uniqueness
	exists, err := s.userRepo.CheckUsernameExists(req.Username)
	if err != nil {
		log.Errorw("check username failed", "username", req.Username, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "check username", err)
	}
	if exists {
		return nil, errs.Newf(errs.KindConflict, "username %q already exists", req.Username)
	}
	exists, err = s.userRepo.CheckEmailExists(req.Email)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "check email", err)
	}
	if exists {
		return nil, errs.Newf(errs.KindConflict, "email %q already registered", req.Email)
	}

	// 2. hash the password
	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "hash password", err)
	}

	// 3. save
	userEntity := &model.User{
		UserId:     id.GetUUIDWithoutDashes(),
		Username:   req.Username,
		Email:      req.Email,
		Password:   hashed,
		Avatar:     req.Avatar,
		SystemRole: model.SystemRoleMember,
		Status:     model.UserStatusActive,
	}
	if err := s.userRepo.CreateUser(userEntity); err != nil {
		log.Errorw("register user failed", "username", req.Username, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "register user", err)
	}

	log.Infow("user registered", "userId", userEntity.UserId, "username", req.Username)
	return model.ToUserResp(userEntity), nil
}

// GetUser returns a user profile. Any active actor may look up any
// non-deleted user.
func (s *UserService) GetUser(actor *model.User, userId string) (*model.UserResp, error) {
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, err
	}

	userEntity, err := s.loadUser(userId)
	if err != nil {
		return nil, err
	}
	if userEntity.Status == model.UserStatusDeleted && !authz.IsSystemAdmin(actor) {
		return nil, errs.Newf(errs.KindNotFound, "user %s not found", userId)
	}

	return model.ToUserResp(userEntity), nil
}

// UpdateUser updates profile fields. Self or system admin.
func (s *UserService) UpdateUser(actor *model.User, userId string, req *model.UpdateUserReq) (*model.UserResp, error) {
	// 1. actor gate
	if err := s.authz.RequireActiveActor(actor); err != nil {
		return nil, err
	}

	// 2. capability: self or system admin
	if !authz.IsSelf(actor, userId) && !authz.IsSystemAdmin(actor) {
		return nil, errs.New(errs.KindAccessDenied, "only the account holder or a system admin may update a profile")
	}

	// 3. load target
	userEntity, err := s.loadUser(userId)
	if err != nil {
		return nil, err
	}

	// 4. build updates
	updates := make(map[string]interface{})

	if req.Username != nil && *req.Username != "" && *req.Username != userEntity.Username {
		exists, err := s.userRepo.CheckUsernameExists(*req.Username)
		if err != nil {
			return nil, errs.Wrap(errs.KindInternal, "check username", err)
		}
		if exists {
			return nil, errs.Newf(errs.KindConflict, "username %q already exists", *req.Username)
		}
		updates["username"] = *req.Username
		userEntity.Username = *req.Username
	}
	if req.Email != nil && *req.Email != "" && *req.Email != userEntity.Email {
		exists, err := s.userRepo.CheckEmailExists(*req.Email)
		if err != nil {
			return nil, errs.Wrap(errs.KindInternal, "check email", err)
		}
		if exists {
			return nil, errs.Newf(errs.KindConflict, "email %q already registered", *req.Email)
		}
		updates["email"] = *req.Email
		userEntity.Email = *req.Email
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
		userEntity.Avatar = *req.Avatar
	}

	if len(updates) == 0 {
		return model.ToUserResp(userEntity), nil
	}

	// 5. save
	if err := s.userRepo.UpdateUser(userId, updates); err != nil {
		log.Errorw("update user failed", "userId", userId, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "update user", err)
	}

	return model.ToUserResp(userEntity), nil
}

// DeactivateUser suspends an account. System admin only; an admin
// cannot deactivate the last active admin.
func (s *UserService) DeactivateUser(actor *model.User, userId string) error {
	// 1. hard gate
	if err := s.authz.RequireSystemAdmin(actor); err != nil {
		return err
	}

	// 2. load target
	userEntity, err := s.loadUser(userId)
	if err != nil {
		return err
	}

	// 3. last-admin invariant, checked before any write
	if userEntity.IsSystemAdmin() && userEntity.IsActive() {
		admins, err := s.userRepo.CountActiveAdmins()
		if err != nil {
			return errs.Wrap(errs.KindInternal, "count admins", err)
		}
		if admins <= 1 {
			return errs.New(errs.KindInvariantViolation, "cannot deactivate the last active system admin")
		}
	}

	// 4. save
	if err := s.userRepo.UpdateUserStatus(userId, model.UserStatusSuspended); err != nil {
		log.Errorw("deactivate user failed", "userId", userId, "error", err)
		return errs.Wrap(errs.KindInternal, "deactivate user", err)
	}

	log.Infow("user deactivated", "userId", userId, "actor", actor.UserId)
	return nil
}

// ChangeSystemRole changes a user's platform-wide role. System admin
// only; demoting the last active admin is refused.
func (s *UserService) ChangeSystemRole(actor *model.User, userId string, req *model.ChangeSystemRoleReq) (*model.UserResp, error) {
	// 1. hard gate
	if err := s.authz.RequireSystemAdmin(actor); err != nil {
		return nil, err
	}

	// 2. load target
	userEntity, err := s.loadUser(userId)
	if err != nil {
		return nil, err
	}

	// 3. validate the requested role
	switch req.SystemRole {
	case model.SystemRoleMember, model.SystemRoleManager, model.SystemRoleAdmin:
	default:
		return nil, errs.Newf(errs.KindInvalidTransition, "unknown system role %q", req.SystemRole)
	}
	if req.SystemRole == userEntity.SystemRole {
		return nil, errs.Newf(errs.KindInvalidTransition, "user already holds the %s role", req.SystemRole)
	}

	// 4. last-admin invariant
	if userEntity.IsSystemAdmin() {
		admins, err := s.userRepo.CountActiveAdmins()
		if err != nil {
			return nil, errs.Wrap(errs.KindInternal, "count admins", err)
		}
		if admins <= 1 {
			return nil, errs.New(errs.KindInvariantViolation, "cannot demote the last active system admin")
		}
	}

	// 5. save
	if err := s.userRepo.UpdateSystemRole(userId, req.SystemRole); err != nil {
		log.Errorw("change system role failed", "userId", userId, "role", req.SystemRole, "error", err)
		return nil, errs.Wrap(errs.KindInternal, "change system role", err)
	}

	log.Infow("system role changed", "userId", userId, "from", userEntity.SystemRole, "to", req.SystemRole, "actor", actor.UserId)
	userEntity.SystemRole = req.SystemRole
	return model.ToUserResp(userEntity), nil
}

// DeleteUser soft-deletes an account. System admin only, same
// last-admin invariant as deactivation.
func (s *UserService) DeleteUser(actor *model.User, userId string) error {
	if err := s.authz.RequireSystemAdmin(actor); err != nil {
		return err
	}

	userEntity, err := s.loadUser(userId)
	if err != nil {
		return err
	}

	if userEntity.IsSystemAdmin() && userEntity.IsActive() {
		admins, err := s.userRepo.CountActiveAdmins()
		if err != nil {
			return errs.Wrap(errs.KindInternal, "count admins", err)
		}
		if admins <= 1 {
			return errs.New(errs.KindInvariantViolation, "cannot delete the last active system admin")
		}
	}

	if err := s.userRepo.UpdateUserStatus(userId, model.UserStatusDeleted); err != nil {
		log.Errorw("delete user failed", "userId", userId, "error", err)
		return errs.Wrap(errs.KindInternal, "delete user", err)
	}

	log.Infow("user deleted", "userId", userId, "actor", actor.UserId)
	return nil
}

// ListUsers lists accounts. Hard admin gate.
func (s *UserService) ListUsers(actor *model.User, page, pageSize int) ([]*model.UserResp, int64, error) {
	if err := s.authz.RequireSystemAdmin(actor); err != nil {
		return nil, 0, err
	}

	users, total, err := s.userRepo.ListUsers(page, pageSize)
	if err != nil {
		log.Errorw("list users failed", "error", err)
		return nil, 0, errs.Wrap(errs.KindInternal, "list users", err)
	}

	resp := make([]*model.UserResp, 0, len(users))
	for _, u := range users {
		resp = append(resp, model.ToUserResp(u))
	}
	return resp, total, nil
}

// GetActor loads the acting user for a resolved claims user id. Used by
// the router after the authorization middleware has validated the
// token.
func (s *UserService) GetActor(userId string) (*model.User, error) {
	if userId == "" {
		return nil, errs.New(errs.KindAuthenticationRequired, "no actor resolved")
	}
	userEntity, err := s.userRepo.GetUserById(userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindAuthenticationRequired, "actor account no longer exists")
		}
		return nil, errs.Wrap(errs.KindInternal, "get actor", err)
	}
	return userEntity, nil
}

func (s *UserService) loadUser(userId string) (*model.User, error) {
	userEntity, err := s.userRepo.GetUserById(userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Newf(errs.KindNotFound, "user %s not found", userId)
		}
		return nil, errs.Wrap(errs.KindInternal, "get user", err)
	}
	return userEntity, nil
}

// hashPassword hashes a plaintext password with bcrypt.
func hashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// comparePassword reports whether plain matches the stored bcrypt hash.
func comparePassword(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
